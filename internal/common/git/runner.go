package git

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/obentoo/portup/internal/common/runner"
)

var (
	ErrGitCommand  = errors.New("git command failed")
	ErrEmptyOutput = errors.New("git command printed nothing")
)

// GitRunner executes git commands in a specific working directory
type GitRunner struct {
	workDir string
	runner  runner.Runner
}

// NewGitRunner creates a new GitRunner for the specified working directory
func NewGitRunner(workDir string) *GitRunner {
	return NewGitRunnerWith(workDir, runner.NewCommandRunner())
}

// NewGitRunnerWith creates a GitRunner that issues commands through r
func NewGitRunnerWith(workDir string, r runner.Runner) *GitRunner {
	return &GitRunner{
		workDir: workDir,
		runner:  r,
	}
}

// WorkDir returns the working directory of the GitRunner
func (g *GitRunner) WorkDir() string {
	return g.workDir
}

// runCommand executes git with args in the working directory.
// A non-zero exit status is turned into ErrGitCommand.
func (g *GitRunner) runCommand(args ...string) (*runner.Result, error) {
	result, err := g.runner.Run(g.workDir, "git", args...)
	if err != nil {
		return nil, errors.Join(ErrGitCommand, err)
	}
	if !result.Success() {
		return result, errors.Join(ErrGitCommand,
			fmt.Errorf("%s exited with status %d", runner.CommandLine("git", args...), result.ExitCode))
	}
	return result, nil
}

// StatusEntry represents a single entry from git status --porcelain
type StatusEntry struct {
	Status   string // A, M, D, R, ??
	FilePath string
}

// Status returns the current git status as a list of StatusEntry
func (g *GitRunner) Status(paths ...string) ([]StatusEntry, error) {
	result, err := g.runCommand(withPaths([]string{"status", "--porcelain"}, paths)...)
	if err != nil {
		return nil, err
	}

	return ParseStatusOutput(strings.Join(result.Lines, "\n")), nil
}

// ParseStatusOutput parses git status --porcelain output into StatusEntry slice
func ParseStatusOutput(output string) []StatusEntry {
	var entries []StatusEntry

	for _, line := range strings.Split(output, "\n") {
		if len(line) < 3 {
			continue
		}

		// XY filename, X = index status, Y = worktree status
		status := strings.TrimSpace(line[:2])
		filePath := line[3:]

		// Renamed files: R  old -> new
		if strings.HasPrefix(status, "R") {
			if parts := strings.Split(filePath, " -> "); len(parts) == 2 {
				filePath = parts[1]
			}
		}

		entries = append(entries, StatusEntry{
			Status:   status,
			FilePath: filePath,
		})
	}

	return entries
}

// Add stages additions, modifications and deletions under paths
func (g *GitRunner) Add(paths ...string) error {
	_, err := g.runCommand(withPaths([]string{"add", "-A"}, paths)...)
	return err
}

// withPaths appends a pathspec to args
func withPaths(args, paths []string) []string {
	if len(paths) == 0 {
		return args
	}
	return append(append(args, "--"), paths...)
}

// Commit creates a git commit with the specified message and author
func (g *GitRunner) Commit(message, user, email string) error {
	args := []string{"commit", "-m", message}

	if user != "" && email != "" {
		args = append(args, "--author", user+" <"+email+">")
	}

	_, err := g.runCommand(args...)
	return err
}

// Amend folds the staged changes into HEAD.
// With an empty message the previous commit message is kept.
func (g *GitRunner) Amend(message string) error {
	args := []string{"commit", "--amend"}
	if message == "" {
		args = append(args, "--no-edit")
	} else {
		args = append(args, "-m", message)
	}

	_, err := g.runCommand(args...)
	return err
}

// RevParse resolves rev to an object id
func (g *GitRunner) RevParse(rev string) (string, error) {
	result, err := g.runCommand("rev-parse", rev)
	if err != nil {
		return "", err
	}

	id := result.FirstLine()
	if id == "" {
		return "", fmt.Errorf("%w: rev-parse %s", ErrEmptyOutput, rev)
	}
	return id, nil
}

// Clone clones url into dest; an empty branch clones the remote default
func (g *GitRunner) Clone(url, dest, branch string) error {
	args := []string{"clone"}
	if branch != "" {
		args = append(args, "--branch", branch)
	}
	args = append(args, url, dest)

	_, err := g.runCommand(args...)
	return err
}

// Pull fast-forwards the current branch from its upstream
func (g *GitRunner) Pull() error {
	_, err := g.runCommand("pull", "--ff-only")
	return err
}

// Push pushes the current branch to remote
func (g *GitRunner) Push(remote string) error {
	args := []string{"push"}
	if remote != "" {
		args = append(args, remote)
	}

	_, err := g.runCommand(args...)
	return err
}

// GitHubURL returns the https clone URL for an owner/name identifier
func GitHubURL(repo string) string {
	return "https://github.com/" + strings.Trim(repo, "/") + ".git"
}

// RepoDirName returns the directory name a clone of repo ends up in
func RepoDirName(repo string) string {
	name := path.Base(strings.TrimSuffix(strings.Trim(repo, "/"), ".git"))
	if name == "." || name == "/" {
		return ""
	}
	return name
}

var _ GitExecutor = (*GitRunner)(nil)
