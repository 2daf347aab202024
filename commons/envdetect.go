package commons

import (
	"context"
	"os"
	"slices"

	"github.com/aexvir/sdkharness"
	"github.com/aexvir/sdkharness/toolchain"
)

// variables set by the ci systems android projects are usually built on.
var civars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "BITRISE_IO", "JENKINS_URL", "BUILDKITE"}

// OnlyOnCI returns the task specified as argument only in the case
// the current environment is a known ci system.
// Otherwise it returns a noop task.
func OnlyOnCI(task sdkharness.Task) sdkharness.Task {
	if !IsCIEnv() {
		return noop
	}

	return task
}

// OnlyLocally returns the task specified as argument only in the case
// the current environment is a dev machine.
// Otherwise it returns a noop task.
func OnlyLocally(task sdkharness.Task) sdkharness.Task {
	if IsCIEnv() {
		return noop
	}

	return task
}

// OnlyOn returns the task only when running on one of the given platforms,
// a noop task otherwise. Hosts the sdk can't be provisioned on never run it.
func OnlyOn(task sdkharness.Task, platforms ...toolchain.Platform) sdkharness.Task {
	current, err := toolchain.CurrentPlatform()
	if err != nil || !slices.Contains(platforms, current) {
		return noop
	}

	return task
}

// IsCIEnv returns true if the current environment is a known ci system.
func IsCIEnv() bool {
	for _, name := range civars {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}

func noop(_ context.Context) error { return nil }
