package sdkharness

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
)

// Harness is a support structure that runs tasks, the harness can be customized with
// pre- and post- execution hook functions, where common functionality to all tasks
// can be defined.
type Harness struct {
	PreExecHook  Task
	PostExecHook Task
}

// New constructs a harness.
func New(opts ...Option) *Harness {
	h := Harness{
		PreExecHook:  func(_ context.Context) error { return nil },
		PostExecHook: func(_ context.Context) error { return nil },
	}

	for _, opt := range opts {
		opt(&h)
	}

	return &h
}

// Execute a list of tasks inside the harness.
// Tasks are run sequentially and the first failing task aborts the execution; the tasks
// after it are never started. The post exec hook runs in both cases.
func (h *Harness) Execute(ctx context.Context, tasks ...Task) (err error) {
	start := time.Now()

	fmt.Fprintln(LogOutput())

	if err := h.PreExecHook(ctx); err != nil {
		return fmt.Errorf("failed to initialize harness: %w", err)
	}

	defer func() {
		if hookerr := h.PostExecHook(ctx); hookerr != nil && err == nil {
			err = fmt.Errorf("failed to run post exec hook: %w", hookerr)
		}

		elapsed := time.Since(start).Round(time.Millisecond)
		color.New(color.FgHiBlack).Printf("------------------------\n\n")

		if err != nil {
			color.Red(" ✘ finished with errors after %s", elapsed)
			color.Red("   • %s", err.Error())
			fmt.Fprintln(LogOutput())
			return
		}

		color.Green(" ✔ all good after %s\n\n", elapsed)
	}()

	for i, task := range tasks {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := task(ctx); err != nil {
			return fmt.Errorf("task %d of %d failed: %w", i+1, len(tasks), err)
		}
	}

	return nil
}

// Task defines the basic function that the harness executes.
// Additional configuration and tweaks can be done by using clojures which return
// Tasks.
type Task func(ctx context.Context) error

type Option func(h *Harness)

// WithPreExecFunc allows specifying a task that will be run every execution, before the
// specific execution tasks are run.
func WithPreExecFunc(hook Task) Option {
	return func(h *Harness) {
		h.PreExecHook = hook
	}
}

// WithPostExecFunc allows specifying a task that will be run every execution, after the
// tasks finished, whether they failed or not.
func WithPostExecFunc(hook Task) Option {
	return func(h *Harness) {
		h.PostExecHook = hook
	}
}
