package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/obentoo/portup/internal/common/config"
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for portup.

Port names are completed from the ports/ directory of the ports repository.

Bash:
  $ source <(portup completion bash)

Zsh:
  $ portup completion zsh > "${fpath[1]}/_portup"

Fish:
  $ portup completion fish > ~/.config/fish/completions/portup.fish

PowerShell:
  PS> portup completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletionV2(out, true)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		default:
			return rootCmd.GenPowerShellCompletionWithDesc(out)
		}
	},
}

// completePorts offers the port directories of the ports repository
func completePorts(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	cfg, err := loadConfig()
	if err != nil {
		cfg = config.Default()
	}
	ports, err := cfg.ResolvePortsPath(portsPath)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	return listPorts(ports, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// listPorts returns the port names under <ports>/ports starting with prefix
func listPorts(ports, prefix string) []string {
	entries, err := os.ReadDir(filepath.Join(ports, "ports"))
	if err != nil {
		return nil
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), prefix) {
			names = append(names, e.Name())
		}
	}
	return names
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
