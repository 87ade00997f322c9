// Package updater updates a single port of a vcpkg ports repository to the
// current revision of its upstream repository.
//
// The workflow runs strictly in order: read the portfile, clone or pull the
// upstream checkout, read its manifest, rewrite the port and the version
// database in one commit, then test-install the port from the local
// registry. A hash mismatch reported by the install test is written back
// into the portfile and folded into the same commit until the test passes.
package updater

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/obentoo/portup/internal/common/config"
	"github.com/obentoo/portup/internal/common/git"
	"github.com/obentoo/portup/internal/common/logger"
	"github.com/obentoo/portup/internal/common/output"
	"github.com/obentoo/portup/internal/common/runner"
	"github.com/obentoo/portup/internal/manifest"
	"github.com/obentoo/portup/internal/portfile"
	"github.com/obentoo/portup/internal/versions"
)

var (
	// ErrManifestNotFound is returned when the upstream checkout has no vcpkg.json
	ErrManifestNotFound = errors.New("cannot find manifest file (vcpkg.json) in upstream checkout")
	// ErrNoVersion is returned when the upstream manifest declares no version
	ErrNoVersion = errors.New("upstream manifest declares no version")
	// ErrInstallFailed is returned when the install test fails without a hash mismatch
	ErrInstallFailed = errors.New("installation test failed and cannot be fixed automatically")
	// ErrAlreadyUpToDate is returned when updating the port changed nothing
	ErrAlreadyUpToDate = errors.New("port is already up to date")
	// ErrPortNotFound is returned when the port directory does not exist
	ErrPortNotFound = errors.New("port not found in ports repository")
	// ErrInvalidPortName is returned for names outside [a-z0-9-]
	ErrInvalidPortName = errors.New("invalid port name")
)

// portNamePattern matches vcpkg port names: lowercase alphanumeric words
// joined by single dashes
var portNamePattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Options configures one update run
type Options struct {
	// Name is the port to update
	Name string
	// PortsPath is the root of the ports repository
	PortsPath string
	// LocalRepo is an existing upstream checkout; clone and pull are skipped when set
	LocalRepo string
	// Push pushes the ports repository after a successful update
	Push bool
	// Remote is the remote pushed to; empty uses the branch's tracking remote
	Remote string
	// Fix amends the previous commit instead of creating a new one
	Fix bool
	// ScratchDir holds upstream clones and the install test (default config.CacheDir)
	ScratchDir string
	// VcpkgCommand is the package manager executable (default vcpkg)
	VcpkgCommand string
	// AuthorName and AuthorEmail set the commit author when both are present
	AuthorName  string
	AuthorEmail string
}

// Result summarizes a finished update
type Result struct {
	Port        string
	Scheme      string
	Version     string
	PortVersion int
	Ref         string
	SHA512      string
	// HashFixes counts install attempts that reported a hash mismatch
	HashFixes int
	// NewEntry is true when a version history entry was added rather than amended
	NewEntry bool
	Pushed   bool
}

// GitFactory opens a git repository rooted at dir
type GitFactory func(dir string) git.GitExecutor

// Updater carries the state of one update run
type Updater struct {
	opts     Options
	runner   runner.Runner
	newGit   GitFactory
	settings *Settings

	ports          git.GitExecutor
	upstream       string
	portfile       *portfile.Portfile
	manifest       *manifest.Manifest
	registryConfig []byte
	ledgerPath     string
	newEntry       bool
}

// Option is a functional option for configuring Updater
type Option func(*Updater) error

// WithRunner sets the process runner used for the package manager and git
func WithRunner(r runner.Runner) Option {
	return func(u *Updater) error {
		u.runner = r
		return nil
	}
}

// WithGitFactory sets how git repositories are opened
func WithGitFactory(f GitFactory) Option {
	return func(u *Updater) error {
		u.newGit = f
		return nil
	}
}

// WithSettings sets per-port settings instead of reading .portup/ports.toml
func WithSettings(s *Settings) Option {
	return func(u *Updater) error {
		u.settings = s
		return nil
	}
}

// New creates an Updater for opts
func New(opts Options, options ...Option) (*Updater, error) {
	if opts.Name == "" {
		return nil, errors.New("port name is required")
	}
	if !portNamePattern.MatchString(opts.Name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPortName, opts.Name)
	}
	if opts.PortsPath == "" {
		return nil, errors.New("ports repository path is required")
	}
	if opts.ScratchDir == "" {
		dir, err := config.CacheDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve scratch directory: %w", err)
		}
		opts.ScratchDir = dir
	}
	if opts.VcpkgCommand == "" {
		opts.VcpkgCommand = config.DefaultVcpkgCommand
	}

	u := &Updater{opts: opts}
	for _, opt := range options {
		if err := opt(u); err != nil {
			return nil, fmt.Errorf("failed to apply updater option: %w", err)
		}
	}

	if u.runner == nil {
		u.runner = runner.NewCommandRunner()
	}
	if u.newGit == nil {
		r := u.runner
		u.newGit = func(dir string) git.GitExecutor {
			return git.NewGitRunnerWith(dir, r)
		}
	}
	if u.settings == nil {
		settings, err := LoadSettings(opts.PortsPath)
		if err != nil {
			return nil, err
		}
		u.settings = settings
	}

	u.ports = u.newGit(opts.PortsPath)
	return u, nil
}

// Run executes the whole update workflow
func (u *Updater) Run() (*Result, error) {
	u.reportConfig()

	if err := u.loadPortfile(); err != nil {
		return nil, err
	}
	if err := u.resolveUpstream(); err != nil {
		return nil, err
	}
	if err := u.loadManifest(); err != nil {
		return nil, err
	}
	u.loadRegistryConfig()
	if err := u.updateVersions(); err != nil {
		return nil, err
	}

	fixes := 0
	for {
		if err := u.setupTest(); err != nil {
			return nil, err
		}
		hash, err := u.testInstall()
		if err != nil {
			return nil, err
		}
		if hash == "" {
			break
		}
		if err := u.updateSHA512(hash); err != nil {
			return nil, err
		}
		fixes++
	}

	pushed, err := u.push()
	if err != nil {
		return nil, err
	}

	output.PrintSuccess("Port %s updated successfully!", output.FormatPort(u.opts.Name, u.manifest.Version))
	return &Result{
		Port:        u.opts.Name,
		Scheme:      u.manifest.Scheme,
		Version:     u.manifest.Version,
		PortVersion: u.manifest.PortVersion,
		Ref:         u.portfile.Ref(),
		SHA512:      u.portfile.SHA512(),
		HashFixes:   fixes,
		NewEntry:    u.newEntry,
		Pushed:      pushed,
	}, nil
}

func (u *Updater) reportConfig() {
	output.PrintPhase("Configuration:")
	output.PrintField("port", u.opts.Name)
	output.PrintField("ports", u.opts.PortsPath)
	if u.opts.LocalRepo != "" {
		output.PrintField("local", u.opts.LocalRepo)
	}
	output.PrintField("push", u.opts.Push)
	output.PrintField("fix", u.opts.Fix)
}

func (u *Updater) portDir() string {
	return filepath.Join(u.opts.PortsPath, "ports", u.opts.Name)
}

// stagedPaths are the only paths of the ports repository a run commits;
// anything else in the work tree, such as a scratch directory, is left alone
func (u *Updater) stagedPaths() []string {
	return []string{"ports/" + u.opts.Name, versions.Dir}
}

func (u *Updater) loadPortfile() error {
	output.PrintPhase("Parsing %s...", portfile.FileName)

	if info, err := os.Stat(u.portDir()); err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrPortNotFound, u.opts.Name)
	}

	p, err := portfile.Load(filepath.Join(u.portDir(), portfile.FileName))
	if err != nil {
		return err
	}
	u.portfile = p

	fmt.Println("Current portfile parameters:")
	output.PrintField(portfile.KeyRepo, p.Repo())
	output.PrintField(portfile.KeyRef, p.Ref())
	output.PrintField(portfile.KeySHA512, output.FormatHash(p.SHA512()))
	return nil
}

// resolveUpstream sets the upstream checkout: the -l path, then the
// configured local path, then a clone or pull inside the scratch directory
func (u *Updater) resolveUpstream() error {
	settings := u.settings.For(u.opts.Name)

	switch {
	case u.opts.LocalRepo != "":
		u.upstream = u.opts.LocalRepo
	case settings.Local != "":
		u.upstream = settings.Local
		if !filepath.IsAbs(u.upstream) {
			u.upstream = filepath.Join(u.opts.PortsPath, u.upstream)
		}
	}
	if u.upstream != "" {
		logger.Debug("using local upstream checkout %s", u.upstream)
		return nil
	}

	output.PrintPhase("Cloning / pulling remote repo...")
	if err := os.MkdirAll(u.opts.ScratchDir, 0755); err != nil {
		return fmt.Errorf("failed to create scratch directory: %w", err)
	}

	dirName := git.RepoDirName(u.portfile.Repo())
	dest := filepath.Join(u.opts.ScratchDir, dirName)
	if info, err := os.Stat(dest); err == nil && info.IsDir() {
		if err := u.newGit(dest).Pull(); err != nil {
			return fmt.Errorf("failed to pull %s: %w", dest, err)
		}
	} else {
		url := settings.URL
		if url == "" {
			url = git.GitHubURL(u.portfile.Repo())
		}
		if err := u.newGit(u.opts.ScratchDir).Clone(url, dirName, settings.Branch); err != nil {
			return fmt.Errorf("failed to clone %s: %w", url, err)
		}
	}

	u.upstream = dest
	return nil
}

func (u *Updater) loadManifest() error {
	output.PrintPhase("Finding manifest file (%s)...", manifest.FileName)

	path := filepath.Join(u.upstream, manifest.FileName)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s", ErrManifestNotFound, u.upstream)
	}

	m, err := manifest.Load(path)
	if err != nil {
		return err
	}
	if !m.HasVersion() {
		return fmt.Errorf("%w: %s", ErrNoVersion, path)
	}
	u.manifest = m

	fmt.Println(m.String())
	return nil
}

// loadRegistryConfig captures the upstream registry configuration, if any.
// Failures are reported and otherwise ignored.
func (u *Updater) loadRegistryConfig() {
	path := filepath.Join(u.upstream, RegistryConfigFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("cannot read %s: %v", path, err)
		}
		logger.Debug("no %s in upstream checkout", RegistryConfigFile)
		return
	}

	output.PrintPhase("Found %s", RegistryConfigFile)
	u.registryConfig = data
}

func (u *Updater) commitMessage() string {
	return fmt.Sprintf("Update %s to %s", u.opts.Name, u.manifest.Version)
}

func (u *Updater) updateVersions() error {
	output.PrintPhase("Copying manifest file...")
	if err := u.manifest.CopyTo(filepath.Join(u.portDir(), manifest.FileName)); err != nil {
		return fmt.Errorf("failed to copy manifest: %w", err)
	}

	output.PrintPhase("Updating portfile REF...")
	head, err := u.newGit(u.upstream).RevParse("HEAD")
	if err != nil {
		return fmt.Errorf("failed to resolve upstream HEAD: %w", err)
	}
	if err := u.portfile.SetRef(head); err != nil {
		return err
	}
	if err := u.portfile.Save(); err != nil {
		return fmt.Errorf("failed to save portfile: %w", err)
	}

	output.PrintPhase("Updating baseline...")
	if err := u.updateBaseline(); err != nil {
		return err
	}

	output.PrintPhase("Committing changes...")
	if u.opts.Fix {
		if err := u.ports.Add(u.stagedPaths()...); err != nil {
			return err
		}
		if err := u.ports.Amend(u.commitMessage()); err != nil {
			return err
		}
	} else {
		entries, err := u.ports.Status(u.stagedPaths()...)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return fmt.Errorf("%w: %s", ErrAlreadyUpToDate, output.FormatPort(u.opts.Name, u.manifest.Version))
		}
		if err := u.ports.Add(u.stagedPaths()...); err != nil {
			return err
		}
		if err := u.ports.Commit(u.commitMessage(), u.opts.AuthorName, u.opts.AuthorEmail); err != nil {
			return err
		}
	}

	output.PrintPhase("Updating version file...")
	inserted, err := u.updateLedger()
	if err != nil {
		return err
	}
	u.newEntry = inserted
	return nil
}

func (u *Updater) updateBaseline() error {
	path := versions.BaselinePath(u.opts.PortsPath)

	prev, ok, err := versions.ReadBaseline(path, u.opts.Name)
	if err != nil {
		return err
	}
	if ok {
		old := versions.Version{Scheme: u.manifest.Scheme, Value: prev.Version, PortVersion: prev.PortVersion}
		next := versions.Version{Scheme: u.manifest.Scheme, Value: u.manifest.Version, PortVersion: u.manifest.PortVersion}
		if versions.IsDowngrade(old, next) {
			output.PrintWarning("%s is older than the current baseline %s",
				output.FormatPort(u.opts.Name, u.manifest.Version), prev.Version)
		}
	}

	return versions.UpdateBaseline(path, u.opts.Name, u.manifest.Version, u.manifest.PortVersion)
}

// updateLedger records the git-tree of the port at HEAD in the version
// history and folds the change into HEAD
func (u *Updater) updateLedger() (inserted bool, err error) {
	tree, err := u.ports.RevParse("HEAD:ports/" + u.opts.Name)
	if err != nil {
		return false, fmt.Errorf("failed to resolve git-tree: %w", err)
	}

	if u.ledgerPath == "" {
		if u.ledgerPath, err = versions.LedgerPath(u.opts.PortsPath, u.opts.Name); err != nil {
			return false, err
		}
	}

	res, err := versions.Reconcile(u.ledgerPath, versions.Entry{
		Scheme:      u.manifest.Scheme,
		Version:     u.manifest.Version,
		PortVersion: u.manifest.PortVersion,
		GitTree:     tree,
	})
	if err != nil {
		return false, err
	}
	if prev := res.Previous; prev != nil && !res.Inserted {
		logger.Debug("version file %s: git-tree of %s %s %s -> %s", u.ledgerPath, prev.Scheme, prev.Version, prev.GitTree, tree)
	} else if prev != nil {
		logger.Debug("version file %s: %s added before %s (%d entries)", u.ledgerPath, u.manifest.Version, prev.Version, res.Len)
	} else {
		logger.Debug("version file %s: first entry %s", u.ledgerPath, u.manifest.Version)
	}

	if err := u.ports.Add(u.stagedPaths()...); err != nil {
		return false, err
	}
	if err := u.ports.Amend(""); err != nil {
		return false, err
	}
	return res.Inserted, nil
}

func (u *Updater) testDir() string {
	return filepath.Join(u.opts.ScratchDir, TestDirName)
}

// setupTest regenerates the sandbox against the current ports HEAD
func (u *Updater) setupTest() error {
	output.PrintPhase("Setting up installation test...")

	head, err := u.ports.RevParse("HEAD")
	if err != nil {
		return fmt.Errorf("failed to resolve ports HEAD: %w", err)
	}

	sandbox := &Sandbox{
		Dir:            u.testDir(),
		PortsPath:      u.opts.PortsPath,
		Port:           u.opts.Name,
		Baseline:       head,
		RegistryConfig: u.registryConfig,
	}
	return sandbox.Write()
}

// testInstall runs the install test and returns the actual hash it
// reported, or "" when the install succeeded without a mismatch
func (u *Updater) testInstall() (string, error) {
	output.PrintPhase("Testing installation...")

	res, err := u.runner.Run(u.testDir(), u.opts.VcpkgCommand, "install")
	if err != nil {
		return "", fmt.Errorf("failed to run %s: %w", u.opts.VcpkgCommand, err)
	}

	hash, err := ExtractActualHash(res.Lines)
	if err != nil {
		return "", err
	}
	if hash == "" && !res.Success() {
		return "", fmt.Errorf("%w: %s install exited with %d", ErrInstallFailed, u.opts.VcpkgCommand, res.ExitCode)
	}
	return hash, nil
}

func (u *Updater) updateSHA512(hash string) error {
	output.PrintPhase("Updating portfile SHA512...")
	fmt.Printf("Actual hash is %s\n", hash)

	if hash == u.portfile.SHA512() {
		logger.Warn("install test reported the hash already in the portfile")
	}
	if err := u.portfile.SetSHA512(hash); err != nil {
		return err
	}
	if err := u.portfile.Save(); err != nil {
		return fmt.Errorf("failed to save portfile: %w", err)
	}
	if err := u.ports.Add(u.stagedPaths()...); err != nil {
		return err
	}
	if err := u.ports.Amend(""); err != nil {
		return err
	}

	output.PrintPhase("Updating version file git-tree...")
	_, err := u.updateLedger()
	return err
}

func (u *Updater) push() (bool, error) {
	if !u.opts.Push {
		logger.Info("not pushing; review the commit and push manually")
		return false, nil
	}

	output.PrintPhase("Pushing ports to remote repo...")
	if err := u.ports.Push(u.opts.Remote); err != nil {
		return false, fmt.Errorf("failed to push: %w", err)
	}
	return true, nil
}
