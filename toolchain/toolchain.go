package toolchain

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/aexvir/sdkharness"
)

const (
	// DefaultCask is the homebrew cask providing the android command-line tools.
	DefaultCask = "android-commandlinetools"
	// DefaultInstallDir is where the sdk gets installed on linux when nothing else is configured.
	DefaultInstallDir = "~/.android-sdk"
	// DefaultRevision of the command-line tools archive.
	DefaultRevision = "8512546"
	// DefaultDownloadURL points at the command-line tools archive of the android repository.
	DefaultDownloadURL = "https://dl.google.com/android/repository/commandlinetools-{{.Host}}-{{.Revision}}_latest.zip"
	// DefaultMarker is the executable, relative to the sdk root, whose presence
	// means the toolchain is already installed.
	DefaultMarker = "cmdline-tools/bin/sdkmanager"
)

// Location is where an installed toolchain lives.
type Location struct {
	// Root is the absolute path of the sdk root directory.
	Root string
	// SDKManager is the absolute path of the sdkmanager executable.
	SDKManager string
}

// Toolchain provisions the android sdk on a specific platform.
type Toolchain struct {
	platform Platform
	executor sdkharness.Executor

	installdir string
	urlformat  string
	revision   string
	marker     string
	cask       string
	fetcher    Fetcher

	which    func(file string) (string, error)
	realpath func(path string) (string, error)
}

// New constructs a toolchain for the given platform.
// External programs are run through the executor.
func New(platform Platform, executor sdkharness.Executor, opts ...Option) *Toolchain {
	t := Toolchain{
		platform: platform,
		executor: executor,

		installdir: DefaultInstallDir,
		urlformat:  DefaultDownloadURL,
		revision:   DefaultRevision,
		marker:     DefaultMarker,
		cask:       DefaultCask,

		which:    exec.LookPath,
		realpath: filepath.EvalSymlinks,
	}

	for _, opt := range opts {
		opt(&t)
	}

	return &t
}

// Platform returns the platform the toolchain is provisioned on.
func (t *Toolchain) Platform() Platform {
	return t.platform
}

// LocateOrInstall ensures the toolchain is present on disk and returns its location.
// Running it again after a successful run doesn't install anything.
func (t *Toolchain) LocateOrInstall(ctx context.Context) (Location, error) {
	strat, ok := t.platform.strategy()
	if !ok {
		return Location{}, fmt.Errorf("%w: %s", sdkharness.ErrUnsupportedPlatform, t.platform)
	}

	return strat.locate(ctx, t)
}

// DownloadURL returns the download url with all template variables resolved.
func (t *Toolchain) DownloadURL() (string, error) {
	return Template{
		GOOS:     runtime.GOOS,
		GOARCH:   runtime.GOARCH,
		Host:     t.platform.host(),
		Revision: t.revision,
	}.Resolve(t.urlformat)
}

// caskstrategy installs the command-line tools with homebrew.
type caskstrategy struct{}

func (caskstrategy) locate(ctx context.Context, t *Toolchain) (Location, error) {
	sdkharness.LogStep(fmt.Sprintf("ensuring %s is installed with homebrew", t.cask))

	_, err := t.executor.Execute(
		ctx,
		"brew",
		sdkharness.WithArgs("list", "--cask", "--versions", t.cask),
		sdkharness.WithoutNoise(),
	)
	if err != nil {
		sdkharness.LogDetail(fmt.Sprintf("%s not found, installing it", t.cask))

		_, err := t.executor.Execute(ctx, "brew", sdkharness.WithArgs("install", "--cask", t.cask))
		if err != nil {
			return Location{}, fmt.Errorf("failed to install %s: %w", t.cask, err)
		}
	}

	bin, err := t.which("sdkmanager")
	if err != nil {
		return Location{}, fmt.Errorf("sdkmanager not found after installing %s: %w", t.cask, err)
	}

	sdkmanager, err := t.realpath(bin)
	if err != nil {
		return Location{}, fmt.Errorf("failed to resolve %s: %w", bin, err)
	}

	// <root>/cmdline-tools/latest/bin/sdkmanager
	root := filepath.Clean(filepath.Join(sdkmanager, "..", "..", "..", ".."))
	sdkharness.LogDetail(fmt.Sprintf("found android-sdk at %s", root))

	return Location{Root: root, SDKManager: sdkmanager}, nil
}

// archivestrategy downloads and extracts the command-line tools archive.
type archivestrategy struct{}

func (archivestrategy) locate(ctx context.Context, t *Toolchain) (Location, error) {
	root, err := expand(t.installdir)
	if err != nil {
		return Location{}, fmt.Errorf("failed to resolve install dir %s: %w", t.installdir, err)
	}

	location := Location{
		Root:       root,
		SDKManager: filepath.Join(root, filepath.FromSlash(t.marker)),
	}

	if _, err := os.Stat(location.SDKManager); err == nil {
		sdkharness.LogStep(fmt.Sprintf("using existing android-sdk at %s", root))
		return location, nil
	}

	sdkharness.LogStep(fmt.Sprintf("downloading android-sdk to %s", root))

	url, err := t.DownloadURL()
	if err != nil {
		return Location{}, fmt.Errorf("failed to resolve download url: %w", err)
	}

	fetcher := t.fetcher
	if fetcher == nil {
		fetcher = AutoFetcher(t.executor)
	}

	if err := fetcher.Fetch(ctx, url, root); err != nil {
		return Location{}, fmt.Errorf("failed to download android-sdk: %w", err)
	}

	if _, err := os.Stat(location.SDKManager); err != nil {
		return Location{}, fmt.Errorf("archive %s doesn't contain %s: %w", url, t.marker, err)
	}

	return location, nil
}

// expand resolves a leading ~ to the home directory and makes the path absolute.
func expand(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	return filepath.Abs(path)
}
