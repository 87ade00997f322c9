// Package runner executes external commands synchronously and captures their
// standard output line by line.
package runner

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/obentoo/portup/internal/common/logger"
	"github.com/obentoo/portup/internal/common/output"
)

var (
	ErrEmptyCommand = errors.New("empty command")
	ErrStartFailed  = errors.New("failed to start command")
)

// Result holds the exit code and captured stdout lines of a finished command
type Result struct {
	ExitCode int
	Lines    []string
}

// Success reports whether the command exited with status zero
func (r *Result) Success() bool {
	return r.ExitCode == 0
}

// FirstLine returns the first captured line, or "" when nothing was printed
func (r *Result) FirstLine() string {
	if len(r.Lines) == 0 {
		return ""
	}
	return strings.TrimSpace(r.Lines[0])
}

// Runner runs a command inside dir and waits for it to exit.
// A non-zero exit code is reported through Result, not as an error.
type Runner interface {
	Run(dir, name string, args ...string) (*Result, error)
}

// CommandRunner implements Runner with os/exec.
// Stdout is echoed to Echo as it is read; stderr goes straight to Stderr.
type CommandRunner struct {
	Echo   io.Writer
	Stderr io.Writer
}

// NewCommandRunner returns a runner that echoes to the process stdout
func NewCommandRunner() *CommandRunner {
	return &CommandRunner{
		Echo:   os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run executes name with args in dir, reading stdout to completion before waiting
func (r *CommandRunner) Run(dir, name string, args ...string) (*Result, error) {
	if name == "" {
		return nil, ErrEmptyCommand
	}

	line := CommandLine(name, args...)
	output.PrintCommand(line)
	logger.Debug("running %q in %s", line, dir)

	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stderr = r.Stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Join(ErrStartFailed, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, errors.Join(ErrStartFailed, fmt.Errorf("%s: %w", line, err))
	}

	result := &Result{}
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		text := scanner.Text()
		if r.Echo != nil {
			fmt.Fprintln(r.Echo, text)
		}
		result.Lines = append(result.Lines, text)
	}
	scanErr := scanner.Err()
	if scanErr != nil {
		// Keep the pipe drained so the child can exit
		io.Copy(io.Discard, stdout)
	}

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%s: %w", line, err)
		}
		result.ExitCode = exitErr.ExitCode()
	}
	if scanErr != nil {
		return nil, fmt.Errorf("reading output of %s: %w", line, scanErr)
	}

	output.PrintExitCode(result.ExitCode)
	return result, nil
}

// CommandLine renders a command and its arguments for display
func CommandLine(name string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	for _, a := range args {
		if a == "" || strings.ContainsAny(a, " \t\"") {
			a = fmt.Sprintf("%q", a)
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}

var _ Runner = (*CommandRunner)(nil)
