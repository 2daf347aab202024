// Package provision ties the toolchain, the project properties and the sdkmanager together
// into the two provisioning flows: locating the sdk, and updating its packages.
package provision

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/aexvir/sdkharness"
	"github.com/aexvir/sdkharness/gradle"
	"github.com/aexvir/sdkharness/sdkmanager"
	"github.com/aexvir/sdkharness/toolchain"
)

// Config holds every setting of a provisioning run.
type Config struct {
	// InstallDir is where the sdk is installed on linux.
	InstallDir string
	// DownloadURL of the command-line tools archive, may contain template variables.
	DownloadURL string
	// Revision of the command-line tools archive.
	Revision string
	// FetchMethod selects how the archive is downloaded and extracted.
	FetchMethod toolchain.FetchMethod
	// Cask is the homebrew cask installed on macOS.
	Cask string
	// Marker is the executable used to detect an existing installation on linux.
	Marker string

	// CompileSDKVersion and BuildToolsVersion fall back to gradle.properties when empty.
	CompileSDKVersion string
	BuildToolsVersion string
	// AdditionalPackages are installed before the packages derived from the versions.
	AdditionalPackages []string
	// UpdateInstalledPackages updates every installed package before installing.
	UpdateInstalledPackages bool
	// Channel is the sdkmanager release channel, empty means stable.
	Channel string

	// ProjectDir contains gradle.properties and local.properties.
	ProjectDir string
	// OverrideLocalProperties writes the sdk location into local.properties.
	OverrideLocalProperties bool
}

// Result is what a provisioning run hands over to the steps that follow it.
type Result struct {
	Location toolchain.Location
	Versions sdkmanager.Versions
	Packages []string
	// PropertiesFile is the local.properties file that was written, if any.
	PropertiesFile string
}

// Env returns the environment variables tools running after the provisioning
// use to find the sdk.
func (r Result) Env() []string {
	return []string{
		"ANDROID_SDK_ROOT=" + r.Location.Root,
		"ANDROID_HOME=" + r.Location.Root,
		"ANDROID_SDK_DIR=" + r.Location.Root,
	}
}

// Provisioner runs the provisioning flows for one configuration.
// A provisioner is meant for a single run and is not safe for concurrent use.
type Provisioner struct {
	conf     Config
	executor sdkharness.Executor
	fetcher  toolchain.Fetcher

	platform    toolchain.Platform
	platformerr error

	state State
}

// New constructs a provisioner for the current platform.
func New(conf Config, opts ...Option) *Provisioner {
	platform, err := toolchain.CurrentPlatform()

	p := Provisioner{
		conf:        conf,
		executor:    sdkharness.ProcessExecutor{},
		platform:    platform,
		platformerr: err,
		state:       Unresolved,
	}

	for _, opt := range opts {
		opt(&p)
	}

	return &p
}

// State returns how far the provisioner got.
func (p *Provisioner) State() State {
	return p.state
}

// Locate ensures the toolchain is installed and returns its location.
func (p *Provisioner) Locate(ctx context.Context) (toolchain.Location, error) {
	if p.platformerr != nil {
		return toolchain.Location{}, p.platformerr
	}

	fetcher := p.fetcher
	if fetcher == nil {
		selected, err := toolchain.SelectFetcher(p.conf.FetchMethod, p.executor)
		if err != nil {
			return toolchain.Location{}, err
		}
		fetcher = selected
	}

	sdk := toolchain.New(
		p.platform,
		p.executor,
		toolchain.WithInstallDir(p.conf.InstallDir),
		toolchain.WithDownloadURL(p.conf.DownloadURL),
		toolchain.WithRevision(p.conf.Revision),
		toolchain.WithCask(p.conf.Cask),
		toolchain.WithMarker(p.conf.Marker),
		toolchain.WithFetcher(fetcher),
	)

	location, err := sdk.LocateOrInstall(ctx)
	if err != nil {
		return toolchain.Location{}, err
	}

	p.state = Located
	return location, nil
}

// Run locates the toolchain, resolves the project versions, installs the packages and
// optionally points local.properties at the sdk. The first failure aborts the run.
func (p *Provisioner) Run(ctx context.Context) (Result, error) {
	var result Result

	location, err := p.Locate(ctx)
	if err != nil {
		return result, err
	}
	result.Location = location

	props, err := gradle.LoadProject(p.conf.ProjectDir)
	if err != nil {
		return result, err
	}

	versions, err := sdkmanager.ResolveVersions(
		sdkmanager.Versions{
			CompileSDK: p.conf.CompileSDKVersion,
			BuildTools: p.conf.BuildToolsVersion,
		},
		props,
	)
	if err != nil {
		return result, err
	}
	result.Versions = versions
	p.state = VersionsResolved

	result.Packages = sdkmanager.PackageSet(p.conf.AdditionalPackages, versions)

	manager := sdkmanager.New(location, p.executor, sdkmanager.WithChannel(p.conf.Channel))
	if err := manager.InstallPackages(ctx, result.Packages, p.conf.UpdateInstalledPackages); err != nil {
		return result, err
	}
	p.state = PackagesInstalled

	if !p.conf.OverrideLocalProperties {
		p.state = Done
		return result, nil
	}

	file, err := filepath.Abs(filepath.Join(p.conf.ProjectDir, gradle.LocalFile))
	if err != nil {
		return result, err
	}

	sdkharness.LogStep(fmt.Sprintf("pointing %s at %s", gradle.LocalFile, location.Root))
	if _, err := gradle.PersistSDKDir(file, location.Root, true); err != nil {
		return result, err
	}
	result.PropertiesFile = file
	p.state = PropertiesWritten

	return result, nil
}

type Option func(p *Provisioner)

// WithExecutor sets the executor used to run external programs.
func WithExecutor(executor sdkharness.Executor) Option {
	return func(p *Provisioner) {
		p.executor = executor
	}
}

// WithPlatform provisions for the given platform instead of the current one.
func WithPlatform(platform toolchain.Platform) Option {
	return func(p *Provisioner) {
		p.platform = platform
		p.platformerr = nil
	}
}

// WithGOOS provisions for the platform matching the given GOOS value.
func WithGOOS(goos string) Option {
	return func(p *Provisioner) {
		p.platform, p.platformerr = toolchain.ParsePlatform(goos)
	}
}

// WithFetcher overrides the fetcher selected by [Config.FetchMethod].
func WithFetcher(fetcher toolchain.Fetcher) Option {
	return func(p *Provisioner) {
		p.fetcher = fetcher
	}
}
