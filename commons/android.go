package commons

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"

	"github.com/aexvir/sdkharness"
	"github.com/aexvir/sdkharness/config"
	"github.com/aexvir/sdkharness/provision"
	"github.com/aexvir/sdkharness/toolchain"
)

// AndroidSDKLocate makes sure the Android SDK command-line tools are installed.
// Settings not given as options are taken from the FL_ANDROID_* environment variables.
func AndroidSDKLocate(opts ...AndroidSDKOpt) sdkharness.Task {
	conf := newandroidsdkconf(opts...)

	return func(ctx context.Context) (err error) {
		defer timed(time.Now(), &err)

		sdkharness.LogStep("locating android sdk")

		prov := provision.New(conf.provision, conf.opts...)

		location, err := prov.Locate(ctx)
		if err != nil {
			return fmt.Errorf("failed to locate android sdk: %w", err)
		}

		sdkharness.LogDetail(location.Root)
		conf.store(provision.Result{Location: location})

		return nil
	}
}

// AndroidSDKUpdate locates the Android SDK and installs the platform and build tools
// the project needs together with any additional package.
// Settings not given as options are taken from the FL_ANDROID_* environment variables,
// and the versions fall back to the project gradle.properties.
func AndroidSDKUpdate(opts ...AndroidSDKOpt) sdkharness.Task {
	conf := newandroidsdkconf(opts...)

	return func(ctx context.Context) (err error) {
		defer timed(time.Now(), &err)

		prov := provision.New(conf.provision, conf.opts...)

		result, err := prov.Run(ctx)
		if err != nil {
			return fmt.Errorf("failed to update android sdk after reaching %q: %w", prov.State(), err)
		}

		conf.store(result)

		return nil
	}
}

func timed(start time.Time, err *error) {
	elapsed := time.Since(start).Round(time.Millisecond)
	if *err != nil {
		color.Red(" ✘ %s\n\n", elapsed)
		return
	}
	color.Green(" ✔ %s\n\n", elapsed)
}

type androidsdkconf struct {
	provision provision.Config
	opts      []provision.Option
	result    *provision.Result
}

func newandroidsdkconf(opts ...AndroidSDKOpt) androidsdkconf {
	conf := androidsdkconf{
		provision: config.Provision(config.New()),
	}

	for _, opt := range opts {
		opt(&conf)
	}

	return conf
}

func (c *androidsdkconf) store(result provision.Result) {
	if c.result != nil {
		*c.result = result
	}
}

type AndroidSDKOpt func(c *androidsdkconf)

// WithResult stores the outcome of the task into result once it succeeds,
// so later tasks can use the sdk location.
func WithResult(result *provision.Result) AndroidSDKOpt {
	return func(c *androidsdkconf) {
		c.result = result
	}
}

// WithAndroidSDKDir sets the directory the sdk is installed into on linux.
func WithAndroidSDKDir(dir string) AndroidSDKOpt {
	return func(c *androidsdkconf) {
		c.provision.InstallDir = dir
	}
}

// WithAndroidDownloadURL sets the url of the command-line tools archive.
func WithAndroidDownloadURL(url string) AndroidSDKOpt {
	return func(c *androidsdkconf) {
		c.provision.DownloadURL = url
	}
}

// WithAndroidFetchMethod sets how the command-line tools archive is fetched.
func WithAndroidFetchMethod(method toolchain.FetchMethod) AndroidSDKOpt {
	return func(c *androidsdkconf) {
		c.provision.FetchMethod = method
	}
}

// WithCompileSDKVersion sets the platform version to install.
func WithCompileSDKVersion(version string) AndroidSDKOpt {
	return func(c *androidsdkconf) {
		c.provision.CompileSDKVersion = version
	}
}

// WithBuildToolsVersion sets the build tools version to install.
func WithBuildToolsVersion(version string) AndroidSDKOpt {
	return func(c *androidsdkconf) {
		c.provision.BuildToolsVersion = version
	}
}

// WithAdditionalPackages adds sdk packages to install, e.g. "extras;google;m2repository".
func WithAdditionalPackages(packages ...string) AndroidSDKOpt {
	return func(c *androidsdkconf) {
		c.provision.AdditionalPackages = append(c.provision.AdditionalPackages, packages...)
	}
}

// WithUpdateInstalledPackages updates all installed packages before installing.
func WithUpdateInstalledPackages(enabled bool) AndroidSDKOpt {
	return func(c *androidsdkconf) {
		c.provision.UpdateInstalledPackages = enabled
	}
}

// WithLocalProperties controls whether sdk.dir is written to local.properties.
func WithLocalProperties(enabled bool) AndroidSDKOpt {
	return func(c *androidsdkconf) {
		c.provision.OverrideLocalProperties = enabled
	}
}

// WithProjectDir sets the directory of the Android project.
func WithProjectDir(dir string) AndroidSDKOpt {
	return func(c *androidsdkconf) {
		c.provision.ProjectDir = dir
	}
}

// WithProvisionOpts passes options to the underlying [provision.Provisioner].
func WithProvisionOpts(opts ...provision.Option) AndroidSDKOpt {
	return func(c *androidsdkconf) {
		c.opts = append(c.opts, opts...)
	}
}
