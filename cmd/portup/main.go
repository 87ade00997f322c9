package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/obentoo/portup/internal/common/config"
	"github.com/obentoo/portup/internal/common/logger"
	"github.com/obentoo/portup/internal/common/output"
	"github.com/obentoo/portup/internal/updater"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	quiet      bool
	noColor    bool
	configPath string

	// portsPath is the ports repository root
	portsPath string
	// localRepo is an upstream checkout, relative to the ports repository
	localRepo string
	// autoPush pushes the ports repository without asking for review
	autoPush bool
	// fixMode amends the previous commit instead of creating one
	fixMode bool
)

var rootCmd = &cobra.Command{
	Use:   "portup <port>",
	Short: "Update a vcpkg port to its upstream HEAD",
	Long: `Update a port of a vcpkg ports repository to the current revision of its
upstream GitHub repository.

The portfile REF, the port manifest, versions/baseline.json and the port's
version file are updated in a single commit. The port is then test-installed
from the local registry; a reported hash mismatch is written to the portfile
SHA512 and folded into the same commit until the install passes.

Examples:
  portup zlib                         Update ports/zlib in the current directory
  portup zlib -p ~/src/my-ports       Update a port of another ports repository
  portup zlib -l ../zlib              Use an existing upstream checkout
  portup zlib -f                      Redo the last update, amending its commit
  portup zlib -a                      Push after a successful update`,
	Args:              cobra.ExactArgs(1),
	SilenceErrors:     true,
	ValidArgsFunction: completePorts,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Configure logging based on flags
		if verbose {
			logger.SetVerbose(true)
		}
		if quiet {
			logger.SetQuiet(true)
		}
		if noColor {
			output.NoColor()
		}
		if err := logger.Default().EnableFileLogging(); err != nil {
			logger.Debug("file logging disabled: %v", err)
		}
	},
	RunE: runUpdate,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file")

	rootCmd.Flags().StringVarP(&portsPath, "path", "p", "", "Path to the ports repository (default: config ports.path or current directory)")
	rootCmd.Flags().StringVarP(&localRepo, "local", "l", "", "Path to an upstream checkout, relative to the ports repository")
	rootCmd.Flags().BoolVarP(&autoPush, "auto", "a", false, "Push the ports repository after a successful update")
	rootCmd.Flags().BoolVarP(&fixMode, "fix", "f", false, "Amend the previous commit instead of creating a new one")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	// Usage is only useful for argument errors
	cmd.SilenceUsage = true

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	opts, err := buildOptions(cfg, args[0], portsPath, localRepo)
	if err != nil {
		return err
	}
	opts.Push = autoPush
	opts.Fix = fixMode

	u, err := updater.New(opts)
	if err != nil {
		return err
	}

	result, err := u.Run()
	if err != nil {
		return err
	}

	logger.Info("%s updated: REF %s, %d hash fix(es)", result.Port, result.Ref, result.HashFixes)
	if !result.Pushed {
		output.PrintInfo("Review the commit and push with 'git push', or rerun with --auto")
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFrom(configPath)
	}
	return config.Load()
}

// buildOptions resolves paths and settings for one run from the user
// configuration and the command-line values
func buildOptions(cfg *config.Config, name, pathFlag, localFlag string) (updater.Options, error) {
	ports, err := cfg.ResolvePortsPath(pathFlag)
	if err != nil {
		return updater.Options{}, err
	}

	scratch, err := cfg.ScratchPath(ports)
	if err != nil {
		return updater.Options{}, err
	}

	local := localFlag
	if local != "" && !filepath.IsAbs(local) {
		local = filepath.Join(ports, local)
	}

	user, email := cfg.Author()
	return updater.Options{
		Name:         name,
		PortsPath:    ports,
		LocalRepo:    local,
		Remote:       cfg.Ports.Remote,
		ScratchDir:   scratch,
		VcpkgCommand: cfg.VcpkgCommand(),
		AuthorName:   user,
		AuthorEmail:  email,
	}, nil
}

func main() {
	defer logger.Default().Close()

	if err := rootCmd.Execute(); err != nil {
		output.PrintError("%v", err)
		logger.Default().Close()
		os.Exit(1)
	}
}
