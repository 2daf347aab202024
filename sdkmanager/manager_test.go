package sdkmanager

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aexvir/sdkharness"
	"github.com/aexvir/sdkharness/internal/mockexec"
	"github.com/aexvir/sdkharness/toolchain"
)

var location = toolchain.Location{
	Root:       "/opt/android-sdk",
	SDKManager: "/opt/android-sdk/cmdline-tools/bin/sdkmanager",
}

func TestInstallPackages(t *testing.T) {
	packages := []string{"platforms;android-25", "build-tools;25.0.2", "tools", "platform-tools"}

	t.Run("licenses then install", func(t *testing.T) {
		exec := new(mockexec.Executor)
		exec.Expect(location.SDKManager, "--sdk_root=/opt/android-sdk", "--licenses").Return(nil, nil).Once()
		exec.Expect(location.SDKManager, append([]string{"--sdk_root=/opt/android-sdk"}, packages...)...).Return(nil, nil).Once()

		err := New(location, exec).InstallPackages(context.Background(), packages, false)
		require.NoError(t, err)

		exec.AssertExpectations(t)
		assert.Equal(
			t,
			[][]string{
				{location.SDKManager, "--sdk_root=/opt/android-sdk", "--licenses"},
				append([]string{location.SDKManager, "--sdk_root=/opt/android-sdk"}, packages...),
			},
			exec.Commands(),
		)
	})

	t.Run("update runs first", func(t *testing.T) {
		exec := new(mockexec.Executor)
		exec.On("Execute", location.SDKManager, mock.Anything).Return(nil, nil)

		err := New(location, exec).InstallPackages(context.Background(), packages, true)
		require.NoError(t, err)

		commands := exec.Commands()
		require.Len(t, commands, 3)
		assert.Equal(t, []string{location.SDKManager, "--sdk_root=/opt/android-sdk", "--update"}, commands[0])
		assert.Equal(t, []string{location.SDKManager, "--sdk_root=/opt/android-sdk", "--licenses"}, commands[1])
	})

	t.Run("idempotent", func(t *testing.T) {
		exec := new(mockexec.Executor)
		exec.On("Execute", location.SDKManager, mock.Anything).Return(nil, nil)

		manager := New(location, exec)
		require.NoError(t, manager.InstallPackages(context.Background(), packages, false))
		require.NoError(t, manager.InstallPackages(context.Background(), packages, false))

		commands := exec.Commands()
		require.Len(t, commands, 4)
		assert.Equal(t, commands[:2], commands[2:])
	})

	t.Run("license failure aborts", func(t *testing.T) {
		exec := new(mockexec.Executor)
		exec.Expect(location.SDKManager, "--sdk_root=/opt/android-sdk", "--licenses").
			Return(nil, mockexec.Failure("sdkmanager", 1, "Warning: Could not create settings")).
			Once()

		err := New(location, exec).InstallPackages(context.Background(), packages, false)
		require.Error(t, err)
		assert.ErrorIs(t, err, sdkharness.ErrToolInvocationFailed)
		assert.Contains(t, err.Error(), "Could not create settings")
		exec.AssertNumberOfCalls(t, "Execute", 1)
	})

	t.Run("update failure aborts", func(t *testing.T) {
		exec := new(mockexec.Executor)
		exec.Expect(location.SDKManager, "--sdk_root=/opt/android-sdk", "--update").
			Return(nil, mockexec.Failure("sdkmanager", 1, "")).
			Once()

		err := New(location, exec).InstallPackages(context.Background(), packages, true)
		assert.ErrorIs(t, err, sdkharness.ErrToolInvocationFailed)
		exec.AssertNumberOfCalls(t, "Execute", 1)
	})
}

func TestManagerInvocation(t *testing.T) {
	exec := new(mockexec.Executor)
	exec.Expect(location.SDKManager, "--sdk_root=/opt/android-sdk", "--channel=1", "emulator").Return(nil, nil).Once()

	err := New(location, exec, WithChannel("1")).Install(context.Background(), "emulator")
	require.NoError(t, err)
	exec.AssertExpectations(t)

	runner := exec.Runners[0]
	assert.Contains(t, runner.Env(), "ANDROID_SDK_ROOT=/opt/android-sdk")
	assert.Contains(t, runner.Env(), "ANDROID_HOME=/opt/android-sdk")

	// prompts are answered with an endless stream of y
	answers := make([]byte, 6)
	_, err = io.ReadFull(runner.Stdin(), answers)
	require.NoError(t, err)
	assert.Equal(t, "y\ny\ny\n", string(answers))
}

func TestInstallNothing(t *testing.T) {
	exec := new(mockexec.Executor)

	require.NoError(t, New(location, exec).Install(context.Background()))
	assert.Empty(t, exec.Runners)
}
