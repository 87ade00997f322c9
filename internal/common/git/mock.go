package git

// MockGitRunner implements GitExecutor for testing.
// Each method can be configured with a custom function to control behavior.
type MockGitRunner struct {
	StatusFunc   func(paths ...string) ([]StatusEntry, error)
	AddFunc      func(paths ...string) error
	CommitFunc   func(message, user, email string) error
	AmendFunc    func(message string) error
	RevParseFunc func(rev string) (string, error)
	CloneFunc    func(url, dest, branch string) error
	PullFunc     func() error
	PushFunc     func(remote string) error
	workDir      string
}

// NewMockGitRunner creates a new MockGitRunner with the specified working directory
func NewMockGitRunner(workDir string) *MockGitRunner {
	return &MockGitRunner{
		workDir: workDir,
	}
}

// Status returns the current git status as a list of StatusEntry
func (m *MockGitRunner) Status(paths ...string) ([]StatusEntry, error) {
	if m.StatusFunc != nil {
		return m.StatusFunc(paths...)
	}
	return nil, nil
}

// Add stages every change under paths
func (m *MockGitRunner) Add(paths ...string) error {
	if m.AddFunc != nil {
		return m.AddFunc(paths...)
	}
	return nil
}

// Commit creates a git commit with the specified message and author
func (m *MockGitRunner) Commit(message, user, email string) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(message, user, email)
	}
	return nil
}

// Amend folds staged changes into HEAD
func (m *MockGitRunner) Amend(message string) error {
	if m.AmendFunc != nil {
		return m.AmendFunc(message)
	}
	return nil
}

// RevParse resolves a revision expression
func (m *MockGitRunner) RevParse(rev string) (string, error) {
	if m.RevParseFunc != nil {
		return m.RevParseFunc(rev)
	}
	return "", nil
}

// Clone clones url into dest
func (m *MockGitRunner) Clone(url, dest, branch string) error {
	if m.CloneFunc != nil {
		return m.CloneFunc(url, dest, branch)
	}
	return nil
}

// Pull fast-forwards the current branch
func (m *MockGitRunner) Pull() error {
	if m.PullFunc != nil {
		return m.PullFunc()
	}
	return nil
}

// Push pushes commits to the remote repository
func (m *MockGitRunner) Push(remote string) error {
	if m.PushFunc != nil {
		return m.PushFunc(remote)
	}
	return nil
}

// WorkDir returns the working directory of the git repository
func (m *MockGitRunner) WorkDir() string {
	return m.workDir
}

// Ensure MockGitRunner implements GitExecutor interface
var _ GitExecutor = (*MockGitRunner)(nil)
