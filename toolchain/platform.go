package toolchain

import (
	"context"
	"fmt"
	"runtime"

	"github.com/aexvir/sdkharness"
)

// Platform is an operating system family the toolchain can be provisioned on.
type Platform int

const (
	// Darwin provisions the toolchain through homebrew.
	Darwin Platform = iota + 1
	// Linux provisions the toolchain by downloading the command-line tools archive.
	Linux
)

// ParsePlatform maps a GOOS value to a [Platform].
func ParsePlatform(goos string) (Platform, error) {
	switch goos {
	case "darwin":
		return Darwin, nil
	case "linux":
		return Linux, nil
	default:
		return 0, fmt.Errorf("%w: %q is currently not supported", sdkharness.ErrUnsupportedPlatform, goos)
	}
}

// CurrentPlatform returns the platform this program is running on.
func CurrentPlatform() (Platform, error) {
	return ParsePlatform(runtime.GOOS)
}

func (p Platform) String() string {
	switch p {
	case Darwin:
		return "darwin"
	case Linux:
		return "linux"
	default:
		return fmt.Sprintf("platform(%d)", int(p))
	}
}

// host is the os tag used by the android repository in archive names.
func (p Platform) host() string {
	if p == Darwin {
		return "mac"
	}
	return p.String()
}

// strategy knows how to locate, and install if needed, the toolchain on one platform.
type strategy interface {
	locate(ctx context.Context, t *Toolchain) (Location, error)
}

func (p Platform) strategy() (strategy, bool) {
	switch p {
	case Darwin:
		return caskstrategy{}, true
	case Linux:
		return archivestrategy{}, true
	default:
		return nil, false
	}
}
