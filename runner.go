package sdkharness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// TaskRunner holds the metadata for a specific command.
type TaskRunner struct {
	Executable string
	Arguments  []string

	cmd      *exec.Cmd
	stdout   io.Writer
	stderr   io.Writer
	output   *capture
	okmsg    string
	errmsg   string
	quiet    bool
	allowerr bool
}

// Cmd builds a command runner for a specific Executable.
// Nothing is executed until [TaskRunner.Exec] is called.
func Cmd(ctx context.Context, executable string, opts ...RunnerOpt) (*TaskRunner, error) {
	cmd := exec.CommandContext(ctx, executable)
	cmd.Stdin = os.Stdin

	r := TaskRunner{
		Executable: executable,
		cmd:        cmd,
		stdout:     LogOutput(),
		stderr:     os.Stderr,
		output:     &capture{},
	}

	for _, opt := range opts {
		err := opt(&r)
		if err != nil {
			return nil, err
		}
	}

	cmd.Args = append([]string{executable}, r.Arguments...)

	// everything the command prints is kept so it can be attached to errors,
	// while still being streamed to the configured writers
	cmd.Stdout = tee(r.output, r.stdout)
	cmd.Stderr = tee(r.output, r.stderr)

	return &r, nil
}

// Env returns the environment the command will run with.
// A nil value means the environment of the current process is inherited.
func (r *TaskRunner) Env() []string {
	return r.cmd.Env
}

// Dir returns the working directory of the command.
func (r *TaskRunner) Dir() string {
	return r.cmd.Dir
}

// Stdin returns the reader attached to the command's standard input.
func (r *TaskRunner) Stdin() io.Reader {
	return r.cmd.Stdin
}

// Output returns the combined stdout and stderr captured so far.
func (r *TaskRunner) Output() []byte {
	return r.output.Bytes()
}

// Exec a command returning its error and pretty printing the ok and error messages.
// Failures are reported as [*ToolInvocationError].
func (r *TaskRunner) Exec() error {
	var err error

	start := time.Now()
	defer func() {
		if r.quiet {
			return
		}
		elapsed := time.Since(start).Round(time.Millisecond)
		if err != nil {
			color.Red(" ✘ %s\n\n", elapsed)
			return
		}
		color.Green(" ✔ %s\n\n", elapsed)
	}()

	if !r.quiet {
		logstep(fmt.Sprint(r.Executable, " ", strings.Join(r.Arguments, " ")))
	}

	runerr := r.cmd.Run()

	if !r.allowerr && runerr != nil {
		if !r.quiet && r.errmsg != "" {
			color.Red(r.errmsg)
		}

		err = &ToolInvocationError{
			Executable: r.Executable,
			Arguments:  r.Arguments,
			ExitCode:   exitcode(runerr),
			Output:     r.Output(),
			Err:        runerr,
		}
		return err
	}

	if !r.quiet && r.okmsg != "" {
		color.Green(r.okmsg)
	}

	return nil
}

// Run is a helper function to avoid repetition while gracefully handling errors.
func Run(ctx context.Context, program string, opts ...RunnerOpt) error {
	rnr, err := Cmd(ctx, program, opts...)
	if err != nil {
		return err
	}

	return rnr.Exec()
}

// Executor runs external programs to completion and returns their captured output.
// It is the seam used by provisioning code to reach the process boundary.
type Executor interface {
	Execute(ctx context.Context, program string, opts ...RunnerOpt) ([]byte, error)
}

// ProcessExecutor is the [Executor] backed by os/exec.
type ProcessExecutor struct{}

func (ProcessExecutor) Execute(ctx context.Context, program string, opts ...RunnerOpt) ([]byte, error) {
	rnr, err := Cmd(ctx, program, opts...)
	if err != nil {
		return nil, err
	}

	if err := rnr.Exec(); err != nil {
		return rnr.Output(), err
	}

	return rnr.Output(), nil
}

func exitcode(err error) int {
	var exiterr *exec.ExitError
	if errors.As(err, &exiterr) {
		return exiterr.ExitCode()
	}

	// command not found or not executable
	var execerr *exec.Error
	if errors.As(err, &execerr) {
		return 127
	}

	return -1
}

func tee(c *capture, w io.Writer) io.Writer {
	if w == nil {
		return c
	}
	return io.MultiWriter(c, w)
}

// capture collects the output of both stdout and stderr, which are
// written from different goroutines.
type capture struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (c *capture) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Write(p)
}

func (c *capture) Bytes() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return bytes.Clone(c.buf.Bytes())
}

// RunnerOpt allows customizing the behavior of the command runner.
type RunnerOpt func(r *TaskRunner) error

// WithEnv sets up environment variables for the command, on top of the
// environment of the current process.
func WithEnv(vars ...string) RunnerOpt {
	return func(r *TaskRunner) error {
		if r.cmd.Env == nil {
			r.cmd.Env = os.Environ()
		}
		for _, vrb := range vars {
			name, _, ok := strings.Cut(vrb, "=")
			if !ok || name == "" {
				return fmt.Errorf("invalid env format; %s doesn't match NAME=value expectation", vrb)
			}
			r.cmd.Env = append(r.cmd.Env, vrb)
		}
		return nil
	}
}

// WithArgs command arguments.
func WithArgs(args ...string) RunnerOpt {
	return func(r *TaskRunner) error {
		r.Arguments = args
		return nil
	}
}

// WithOKMsg sets a message to be printed when the command finishes successfully.
func WithOKMsg(msg string) RunnerOpt {
	return func(r *TaskRunner) error {
		r.okmsg = msg
		return nil
	}
}

// WithErrMsg sets a message to be printed when the command fails.
func WithErrMsg(msg string) RunnerOpt {
	return func(r *TaskRunner) error {
		r.errmsg = msg
		return nil
	}
}

// WithDir sets the directory where the command should be run inside.
func WithDir(dir string) RunnerOpt {
	return func(r *TaskRunner) error {
		r.cmd.Dir = dir
		return nil
	}
}

// WithoutNoise silences all output for the command; useful when handling that on the caller side.
// The output is still captured and attached to errors.
func WithoutNoise() RunnerOpt {
	return func(r *TaskRunner) error {
		r.quiet = true
		r.stdout = nil
		r.stderr = nil

		return nil
	}
}

// WithStdOut set up stdout writer.
func WithStdOut(w io.Writer) RunnerOpt {
	return func(r *TaskRunner) error {
		r.stdout = w
		return nil
	}
}

// WithStdIn set up stdin reader.
func WithStdIn(read io.Reader) RunnerOpt {
	return func(r *TaskRunner) error {
		r.cmd.Stdin = read
		return nil
	}
}

// WithYes answers every prompt of the command with "y",
// the same as piping the output of `yes` into it.
func WithYes() RunnerOpt {
	return WithStdIn(Yes())
}

// WithAllowErrors allow errors in the command.
func WithAllowErrors() RunnerOpt {
	return func(r *TaskRunner) error {
		r.allowerr = true
		return nil
	}
}

// Yes returns a never ending stream of "y\n" lines.
func Yes() io.Reader {
	return &yes{}
}

type yes struct {
	newline bool
}

func (y *yes) Read(p []byte) (int, error) {
	for i := range p {
		if y.newline {
			p[i] = '\n'
		} else {
			p[i] = 'y'
		}
		y.newline = !y.newline
	}
	return len(p), nil
}
