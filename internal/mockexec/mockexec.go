// Package mockexec provides a testify mock of [sdkharness.Executor] so tests can assert
// on the external commands a provisioning step would run, without running them.
package mockexec

import (
	"context"
	"errors"

	"github.com/stretchr/testify/mock"

	"github.com/aexvir/sdkharness"
)

// Executor records every invocation and answers with the configured expectations.
// Expectations match on the program name and its argument list:
//
//	exec := new(mockexec.Executor)
//	exec.Expect("brew", "list", "--cask", "--versions", "android-commandlinetools").Return(nil, nil)
type Executor struct {
	mock.Mock

	// Runners holds the command runners built for every invocation, in call order.
	// They are never executed and can be inspected for env, stdin or working dir.
	Runners []*sdkharness.TaskRunner
}

func (m *Executor) Execute(ctx context.Context, program string, opts ...sdkharness.RunnerOpt) ([]byte, error) {
	runner, err := sdkharness.Cmd(ctx, program, opts...)
	if err != nil {
		return nil, err
	}
	m.Runners = append(m.Runners, runner)

	args := m.Called(program, runner.Arguments)

	out, _ := args.Get(0).([]byte)
	return out, args.Error(1)
}

// Expect registers an expected invocation of program with exactly the given arguments.
func (m *Executor) Expect(program string, args ...string) *mock.Call {
	if len(args) == 0 {
		args = nil
	}
	return m.On("Execute", program, args)
}

// Commands returns the executed command lines, in call order.
func (m *Executor) Commands() [][]string {
	commands := make([][]string, 0, len(m.Runners))
	for _, runner := range m.Runners {
		commands = append(commands, append([]string{runner.Executable}, runner.Arguments...))
	}
	return commands
}

// Failure builds the error returned by a command exiting with the given code.
func Failure(program string, code int, output string) error {
	return &sdkharness.ToolInvocationError{
		Executable: program,
		ExitCode:   code,
		Output:     []byte(output),
		Err:        errors.New("exit status"),
	}
}
