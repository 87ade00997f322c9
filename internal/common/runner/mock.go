package runner

// Call records a single invocation seen by MockRunner
type Call struct {
	Dir  string
	Name string
	Args []string
}

// Line renders the call the same way CommandLine does
func (c Call) Line() string {
	return CommandLine(c.Name, c.Args...)
}

// MockRunner implements Runner for testing.
// RunFunc controls the result; every call is recorded in Calls.
type MockRunner struct {
	RunFunc func(dir, name string, args ...string) (*Result, error)
	Calls   []Call
}

// NewMockRunner creates a MockRunner that succeeds with no output by default
func NewMockRunner() *MockRunner {
	return &MockRunner{}
}

// Run records the call and delegates to RunFunc
func (m *MockRunner) Run(dir, name string, args ...string) (*Result, error) {
	m.Calls = append(m.Calls, Call{Dir: dir, Name: name, Args: append([]string(nil), args...)})
	if m.RunFunc != nil {
		return m.RunFunc(dir, name, args...)
	}
	return &Result{}, nil
}

var _ Runner = (*MockRunner)(nil)
