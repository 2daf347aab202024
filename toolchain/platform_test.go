package toolchain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aexvir/sdkharness"
	"github.com/aexvir/sdkharness/internal/mockexec"
)

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		goos     string
		expected Platform
		wantErr  bool
	}{
		{goos: "darwin", expected: Darwin},
		{goos: "linux", expected: Linux},
		{goos: "windows", wantErr: true},
		{goos: "freebsd", wantErr: true},
		{goos: "", wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.goos,
			func(t *testing.T) {
				platform, err := ParsePlatform(test.goos)

				if test.wantErr {
					assert.ErrorIs(t, err, sdkharness.ErrUnsupportedPlatform)
					return
				}

				require.NoError(t, err)
				assert.Equal(t, test.expected, platform)
				assert.Equal(t, test.goos, platform.String())
			},
		)
	}
}

func TestPlatformHost(t *testing.T) {
	assert.Equal(t, "mac", Darwin.host())
	assert.Equal(t, "linux", Linux.host())
}

func TestUnsupportedPlatformNeverLocates(t *testing.T) {
	for _, platform := range []Platform{0, 3, -1, 42} {
		exec := new(mockexec.Executor)

		location, err := New(platform, exec).LocateOrInstall(context.Background())

		assert.ErrorIs(t, err, sdkharness.ErrUnsupportedPlatform)
		assert.Empty(t, location.Root)
		assert.Empty(t, exec.Runners)
	}
}
