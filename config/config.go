// Package config loads the provisioning settings from defaults, an optional config file,
// FL_ANDROID_* environment variables and command line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/aexvir/sdkharness"
	"github.com/aexvir/sdkharness/provision"
	"github.com/aexvir/sdkharness/toolchain"
)

// Keys of the configuration values.
const (
	KeyCompileSDKVersion       = "compile_sdk_version"
	KeyBuildToolsVersion       = "build_tools_version"
	KeyAdditionalPackages      = "additional_packages"
	KeyOverrideLocalProperties = "override_local_properties"
	KeyUpdateInstalledPackages = "update_installed_packages"
	KeySDKDir                  = "linux_sdk_dir"
	KeyDownloadURL             = "linux_sdk_download_url"
	KeyRevision                = "revision"
	KeyFetchMethod             = "fetch_method"
	KeyCask                    = "cask"
	KeyMarker                  = "marker"
	KeyChannel                 = "channel"
	KeyProjectDir              = "project_dir"
)

var envnames = map[string][]string{
	KeyCompileSDKVersion:       {"FL_ANDROID_COMPILE_SDK_VERSION"},
	KeyBuildToolsVersion:       {"FL_ANDROID_BUILD_TOOLS_VERSION"},
	KeyAdditionalPackages:      {"FL_ANDROID_ADDITIONAL_PACKAGES"},
	KeyOverrideLocalProperties: {"FL_ANDROID_SDK_OVERRIDE_LOCAL_PROPERTIES"},
	KeyUpdateInstalledPackages: {"FL_ANDROID_SDK_UPDATE_INSTALLED_PACKAGES"},
	KeySDKDir:                  {"FL_ANDROID_LINUX_SDK_DIR", "FL_ANDROID_LINUX_SDK_INSTALL_DIR"},
	KeyDownloadURL:             {"FL_ANDROID_LINUX_SDK_DOWNLOAD_URL"},
	KeyRevision:                {"FL_ANDROID_SDK_REVISION"},
	KeyFetchMethod:             {"FL_ANDROID_SDK_FETCH_METHOD"},
	KeyCask:                    {"FL_ANDROID_SDK_CASK"},
	KeyChannel:                 {"FL_ANDROID_SDK_CHANNEL"},
}

// New returns a viper instance with the defaults and the environment bindings in place.
// Every call returns an independent instance.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyAdditionalPackages, []string{})
	v.SetDefault(KeyOverrideLocalProperties, true)
	v.SetDefault(KeyUpdateInstalledPackages, false)
	v.SetDefault(KeySDKDir, DefaultSDKDir())
	v.SetDefault(KeyDownloadURL, toolchain.DefaultDownloadURL)
	v.SetDefault(KeyRevision, toolchain.DefaultRevision)
	v.SetDefault(KeyFetchMethod, string(toolchain.FetchAuto))
	v.SetDefault(KeyCask, toolchain.DefaultCask)
	v.SetDefault(KeyMarker, toolchain.DefaultMarker)
	v.SetDefault(KeyProjectDir, ".")

	for key, names := range envnames {
		// only fails when no key is given
		_ = v.BindEnv(append([]string{key}, names...)...)
	}

	return v
}

// DefaultSDKDir returns the sdk directory advertised by the environment, falling back
// to [toolchain.DefaultInstallDir].
func DefaultSDKDir() string {
	for _, name := range []string{"ANDROID_HOME", "ANDROID_SDK", "ANDROID_SDK_ROOT"} {
		if dir := os.Getenv(name); dir != "" {
			return dir
		}
	}
	return toolchain.DefaultInstallDir
}

// ReadFile merges the given config file into v. The format is picked from the
// file extension; an empty path is a no-op.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var unsupported viper.UnsupportedConfigError
		if errors.As(err, &unsupported) {
			return fmt.Errorf("%w: %s", sdkharness.ErrInvalidConfiguration, err)
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return nil
}

// Provision builds the provisioning configuration out of v.
func Provision(v *viper.Viper) provision.Config {
	return provision.Config{
		InstallDir:              v.GetString(KeySDKDir),
		DownloadURL:             v.GetString(KeyDownloadURL),
		Revision:                v.GetString(KeyRevision),
		FetchMethod:             toolchain.FetchMethod(v.GetString(KeyFetchMethod)),
		Cask:                    v.GetString(KeyCask),
		Marker:                  v.GetString(KeyMarker),
		CompileSDKVersion:       strings.TrimSpace(v.GetString(KeyCompileSDKVersion)),
		BuildToolsVersion:       strings.TrimSpace(v.GetString(KeyBuildToolsVersion)),
		AdditionalPackages:      packages(v.Get(KeyAdditionalPackages)),
		UpdateInstalledPackages: v.GetBool(KeyUpdateInstalledPackages),
		Channel:                 v.GetString(KeyChannel),
		ProjectDir:              v.GetString(KeyProjectDir),
		OverrideLocalProperties: v.GetBool(KeyOverrideLocalProperties),
	}
}

// packages accepts either a list or a single string with the package identifiers
// separated by commas or whitespace; the latter is what env vars and flags provide.
func packages(value any) []string {
	var raw []string

	switch val := value.(type) {
	case nil:
		return nil
	case string:
		raw = []string{val}
	case []string:
		raw = val
	case []any:
		for _, item := range val {
			raw = append(raw, fmt.Sprint(item))
		}
	default:
		raw = []string{fmt.Sprint(val)}
	}

	var pkgs []string
	for _, item := range raw {
		fields := strings.FieldsFunc(item, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\n'
		})
		pkgs = append(pkgs, fields...)
	}

	return pkgs
}
