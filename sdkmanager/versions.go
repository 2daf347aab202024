package sdkmanager

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/aexvir/sdkharness"
	"github.com/aexvir/sdkharness/gradle"
)

// Versions of the sdk components a project builds against.
type Versions struct {
	// CompileSDK is the api level of the platform, e.g. "25".
	CompileSDK string
	// BuildTools is the version of the build tools, e.g. "25.0.2".
	BuildTools string
}

// Source is a set of fallback values, usually the project gradle.properties.
type Source interface {
	Get(key string) (string, bool)
}

// ResolveVersions returns the explicit versions, falling back to the values found in the
// source for the ones that are empty. A version missing from both is reported as
// [sdkharness.ErrMissingConfiguration]; a nil source counts as empty.
func ResolveVersions(explicit Versions, source Source) (Versions, error) {
	tools := lookup(explicit.BuildTools, source, gradle.BuildToolsVersionKey)
	if tools == "" {
		return Versions{}, fmt.Errorf("%w: no build tools version defined", sdkharness.ErrMissingConfiguration)
	}

	if !semver.IsValid("v" + tools) {
		return Versions{}, fmt.Errorf("%w: build tools version %q is not a valid version", sdkharness.ErrInvalidConfiguration, tools)
	}

	sdk := lookup(explicit.CompileSDK, source, gradle.CompileSDKVersionKey)
	if sdk == "" {
		return Versions{}, fmt.Errorf("%w: no compile sdk version defined", sdkharness.ErrMissingConfiguration)
	}

	return Versions{
		CompileSDK: strings.TrimPrefix(sdk, "android-"),
		BuildTools: tools,
	}, nil
}

func lookup(explicit string, source Source, key string) string {
	if value := strings.TrimSpace(explicit); value != "" {
		return value
	}

	if source == nil {
		return ""
	}

	value, _ := source.Get(key)
	return strings.TrimSpace(value)
}
