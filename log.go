package sdkharness

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	output io.Writer
	// color.Output as set up by the color package, before any redirection.
	colorstdout = color.Output
)

// SetOutput redirects every human facing line, the step logs, status lines and the
// output streamed by commands, to w. A nil writer restores stdout.
// Used when stdout is reserved for machine readable output.
func SetOutput(w io.Writer) {
	output = w
	if w == nil {
		color.Output = colorstdout
		return
	}
	color.Output = w
}

// LogOutput returns the writer human facing lines are printed to.
func LogOutput() io.Writer {
	if output != nil {
		return output
	}
	return os.Stdout
}

// LogHeader prints a section header, used to group the steps that follow it.
func LogHeader(text string) {
	fmt.Fprintln(LogOutput())
	fmt.Fprintln(LogOutput(), color.New(color.Bold, color.FgCyan).Sprint("--- "+text+" ---"))
}

// LogStep prints a single step of a task.
func LogStep(text string) {
	fmt.Fprintln(
		LogOutput(),
		color.BlueString(" •"),
		color.New(color.FgHiBlack).Sprint(text),
	)
}

// LogDetail prints additional information about the step printed last.
func LogDetail(text string) {
	fmt.Fprintln(
		LogOutput(),
		color.New(color.FgHiBlack).Sprint("   └"),
		color.New(color.FgHiBlack).Sprint(text),
	)
}

// LogImportant prints a message that the user should not miss.
func LogImportant(text string) {
	fmt.Fprintln(
		LogOutput(),
		color.YellowString(" !"),
		color.New(color.FgYellow, color.Bold).Sprint(text),
	)
}

// fancy-ish log of a command.
func logstep(text string) {
	fmt.Fprintln(
		LogOutput(),
		color.MagentaString(" ⌘"),
		color.New(color.Bold).Sprint(text),
	)
}
