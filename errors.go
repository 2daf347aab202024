package sdkharness

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedPlatform is returned when the host OS is neither macOS nor linux.
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	// ErrMissingConfiguration is returned when a required value is neither configured
	// explicitly nor found in the project properties.
	ErrMissingConfiguration = errors.New("missing configuration")
	// ErrInvalidConfiguration is returned when a configured value is malformed.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrToolInvocationFailed is returned when an external program exits unsuccessfully
	// or can't be started at all.
	ErrToolInvocationFailed = errors.New("tool invocation failed")
)

// ToolInvocationError describes a failed external command.
// It matches [ErrToolInvocationFailed] via errors.Is.
type ToolInvocationError struct {
	Executable string
	Arguments  []string
	ExitCode   int
	Output     []byte

	Err error
}

// Command returns the command line that was executed.
func (e *ToolInvocationError) Command() string {
	return strings.TrimSpace(e.Executable + " " + strings.Join(e.Arguments, " "))
}

func (e *ToolInvocationError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Command(), e.Err)
	if e.ExitCode > 0 {
		msg = fmt.Sprintf("%s: exit status %d", e.Command(), e.ExitCode)
	}

	output := strings.TrimSpace(string(e.Output))
	if output == "" {
		return msg
	}

	return msg + "\n" + output
}

func (e *ToolInvocationError) Unwrap() []error {
	return []error{ErrToolInvocationFailed, e.Err}
}
