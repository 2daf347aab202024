package sdkmanager

import (
	"context"
	"fmt"

	"github.com/aexvir/sdkharness"
	"github.com/aexvir/sdkharness/toolchain"
)

// Manager runs sdkmanager commands against a single sdk root.
type Manager struct {
	location toolchain.Location
	executor sdkharness.Executor
	channel  string
}

// New constructs a manager for the toolchain at the given location.
func New(location toolchain.Location, executor sdkharness.Executor, opts ...Option) *Manager {
	m := Manager{
		location: location,
		executor: executor,
	}

	for _, opt := range opts {
		opt(&m)
	}

	return &m
}

type Option func(m *Manager)

// WithChannel installs packages from the given release channel
// (0 stable, 1 beta, 2 dev, 3 canary) instead of the stable one.
func WithChannel(channel string) Option {
	return func(m *Manager) {
		m.channel = channel
	}
}

// InstallPackages brings the sdk to the requested state: all installed packages are
// updated first when updateExisting is set, then licenses are accepted and finally
// the packages are installed. Packages already installed are left as they are, so
// running it twice with the same packages has the same outcome.
func (m *Manager) InstallPackages(ctx context.Context, packages []string, updateExisting bool) error {
	sdkharness.LogHeader("Install Android-SDK packages")

	if updateExisting {
		sdkharness.LogStep("updating all installed packages")
		if err := m.Update(ctx); err != nil {
			return err
		}
	}

	sdkharness.LogImportant("accepting licenses on your behalf!")
	if err := m.AcceptLicenses(ctx); err != nil {
		return err
	}

	sdkharness.LogStep("installing packages...")
	for _, pkg := range packages {
		sdkharness.LogDetail(pkg)
	}

	return m.Install(ctx, packages...)
}

// Update all installed packages to their latest version.
func (m *Manager) Update(ctx context.Context) error {
	return m.run(ctx, "--update")
}

// AcceptLicenses accepts the licenses of all available packages.
func (m *Manager) AcceptLicenses(ctx context.Context) error {
	return m.run(ctx, "--licenses")
}

// Install the given packages.
func (m *Manager) Install(ctx context.Context, packages ...string) error {
	if len(packages) == 0 {
		return nil
	}
	return m.run(ctx, packages...)
}

func (m *Manager) run(ctx context.Context, args ...string) error {
	argv := []string{"--sdk_root=" + m.location.Root}
	if m.channel != "" {
		argv = append(argv, "--channel="+m.channel)
	}
	argv = append(argv, args...)

	_, err := m.executor.Execute(
		ctx,
		m.location.SDKManager,
		sdkharness.WithArgs(argv...),
		sdkharness.WithEnv(
			"ANDROID_SDK_ROOT="+m.location.Root,
			"ANDROID_HOME="+m.location.Root,
		),
		sdkharness.WithYes(),
	)
	if err != nil {
		return fmt.Errorf("sdkmanager failed: %w", err)
	}

	return nil
}
