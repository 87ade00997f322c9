package git

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestMockGitRunnerImplementsInterface(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("MockGitRunner satisfies GitExecutor for any workDir", prop.ForAll(
		func(workDir string) bool {
			var executor GitExecutor = NewMockGitRunner(workDir)
			return executor.WorkDir() == workDir
		},
		gen.AnyString(),
	))

	properties.Property("RevParse returns configured function result", prop.ForAll(
		func(rev, id string) bool {
			mock := NewMockGitRunner("/ports")
			var received string
			mock.RevParseFunc = func(r string) (string, error) {
				received = r
				return id, nil
			}
			got, err := mock.RevParse(rev)
			return err == nil && got == id && received == rev
		},
		gen.AnyString(),
		gen.AnyString(),
	))

	properties.Property("Commit calls configured function with correct parameters", prop.ForAll(
		func(message, user, email string) bool {
			mock := NewMockGitRunner("/ports")
			var receivedMsg, receivedUser, receivedEmail string
			mock.CommitFunc = func(m, u, e string) error {
				receivedMsg, receivedUser, receivedEmail = m, u, e
				return nil
			}
			err := mock.Commit(message, user, email)
			return err == nil && receivedMsg == message && receivedUser == user && receivedEmail == email
		},
		gen.AnyString(),
		gen.AnyString(),
		gen.AnyString(),
	))

	properties.Property("Clone calls configured function with correct parameters", prop.ForAll(
		func(url, dest, branch string) bool {
			mock := NewMockGitRunner("/ports/temp")
			var gotURL, gotDest, gotBranch string
			mock.CloneFunc = func(u, d, b string) error {
				gotURL, gotDest, gotBranch = u, d, b
				return nil
			}
			err := mock.Clone(url, dest, branch)
			return err == nil && gotURL == url && gotDest == dest && gotBranch == branch
		},
		gen.AnyString(),
		gen.AnyString(),
		gen.AnyString(),
	))

	properties.Property("Error propagation works correctly", prop.ForAll(
		func(errMsg string) bool {
			mock := NewMockGitRunner("/ports")
			expectedErr := errors.New(errMsg)
			mock.AmendFunc = func(string) error {
				return expectedErr
			}
			return errors.Is(mock.Amend(""), expectedErr)
		},
		gen.AnyString().SuchThat(func(s string) bool { return len(s) > 0 }),
	))

	properties.TestingRun(t)
}

// TestMockGitRunnerDefaultBehavior verifies default behavior when no functions are configured
func TestMockGitRunnerDefaultBehavior(t *testing.T) {
	mock := NewMockGitRunner("/test/dir")

	t.Run("Status returns nil without error", func(t *testing.T) {
		entries, err := mock.Status()
		if err != nil || entries != nil {
			t.Errorf("expected nil, nil; got %v, %v", entries, err)
		}
	})

	t.Run("mutating operations return nil", func(t *testing.T) {
		for name, err := range map[string]error{
			"Add":    mock.Add("ports/zlib"),
			"Commit": mock.Commit("msg", "user", "email"),
			"Amend":  mock.Amend(""),
			"Clone":  mock.Clone("url", "dest", ""),
			"Pull":   mock.Pull(),
			"Push":   mock.Push("origin"),
		} {
			if err != nil {
				t.Errorf("%s: expected no error, got %v", name, err)
			}
		}
	})

	t.Run("RevParse returns empty string", func(t *testing.T) {
		id, err := mock.RevParse("HEAD")
		if err != nil || id != "" {
			t.Errorf("expected empty id without error, got %q, %v", id, err)
		}
	})

	t.Run("WorkDir returns configured directory", func(t *testing.T) {
		if mock.WorkDir() != "/test/dir" {
			t.Errorf("expected /test/dir, got %q", mock.WorkDir())
		}
	})
}
