package git

// GitExecutor defines the git operations the port updater issues.
// This interface allows for mocking git operations in tests.
type GitExecutor interface {
	// Status returns the git status as a list of StatusEntry, limited to
	// paths when any are given
	Status(paths ...string) ([]StatusEntry, error)

	// Add stages every change under paths (git add -A -- paths), or in the
	// whole working tree when no path is given
	Add(paths ...string) error

	// Commit creates a git commit with the specified message and author
	Commit(message, user, email string) error

	// Amend folds staged changes into HEAD; an empty message keeps the old one
	Amend(message string) error

	// RevParse resolves a revision expression such as HEAD or HEAD:ports/zlib
	RevParse(rev string) (string, error)

	// Clone clones url into dest, resolved against the working directory
	Clone(url, dest, branch string) error

	// Pull fast-forwards the current branch from its upstream
	Pull() error

	// Push pushes the current branch to remote; an empty remote uses the tracking remote
	Push(remote string) error

	// WorkDir returns the working directory of the git repository
	WorkDir() string
}
