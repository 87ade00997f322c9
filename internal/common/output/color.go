package output

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

var (
	// Message colors
	Success = color.New(color.FgGreen)
	Warning = color.New(color.FgYellow)
	Error   = color.New(color.FgRed)
	Info    = color.New(color.FgCyan)
	Dim     = color.New(color.Faint)

	// Workflow colors
	Phase   = color.New(color.FgYellow, color.Bold)
	Command = color.New(color.FgBlue)
	Field   = color.New(color.FgWhite, color.Bold)

	// Structural colors
	Port = color.New(color.FgBlue, color.Bold)
)

// NoColor disables color output
func NoColor() {
	color.NoColor = true
}

// ForceColor enables color output even when not a TTY
func ForceColor() {
	color.NoColor = false
}

// IsTerminal returns true if stdout is a terminal
func IsTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// PrintPhase announces the start of a workflow phase
func PrintPhase(format string, args ...interface{}) {
	Phase.Printf(format+"\n", args...)
}

// PrintCommand echoes an external command line before it runs
func PrintCommand(line string) {
	Command.Printf("Running command: %s\n", line)
}

// PrintExitCode reports the exit code of an external command
func PrintExitCode(code int) {
	Command.Printf("Process returned %d\n", code)
}

// PrintField prints an aligned "name: value" pair
func PrintField(name string, value interface{}) {
	fmt.Printf("    %s %v\n", Field.Sprintf("%-8s", name+":"), value)
}

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	Success.Printf("✓ "+format+"\n", args...)
}

// PrintError prints an error message
func PrintError(format string, args ...interface{}) {
	Error.Fprintf(os.Stderr, "✗ "+format+"\n", args...)
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...interface{}) {
	Warning.Printf("⚠ "+format+"\n", args...)
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...interface{}) {
	Info.Printf("→ "+format+"\n", args...)
}

// Sprintf returns a colored string without printing
func Sprintf(c *color.Color, format string, args ...interface{}) string {
	return c.Sprintf(format, args...)
}

// Sprint returns a colored string without printing
func Sprint(c *color.Color, a ...interface{}) string {
	return c.Sprint(a...)
}

// FormatPort formats a port name with its version
func FormatPort(name, version string) string {
	if version != "" {
		return Port.Sprintf("%s@%s", name, version)
	}
	return Port.Sprint(name)
}

// FormatHash shortens a long digest for display
func FormatHash(hash string) string {
	if len(hash) > 16 {
		return Dim.Sprint(hash[:16] + "…")
	}
	return Dim.Sprint(hash)
}
