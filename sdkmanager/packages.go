package sdkmanager

import "fmt"

// BasePackages are installed on every run, whatever the project versions are.
var BasePackages = []string{"tools", "platform-tools"}

// PackageSet builds the list of packages to install: the additional packages in the
// order they were given, followed by the platform and build tools for the versions and
// the [BasePackages]. Entries are not deduplicated, the sdkmanager is fine with repeats.
func PackageSet(additional []string, versions Versions) []string {
	packages := make([]string, 0, len(additional)+2+len(BasePackages))
	packages = append(packages, additional...)
	packages = append(
		packages,
		fmt.Sprintf("platforms;android-%s", versions.CompileSDK),
		fmt.Sprintf("build-tools;%s", versions.BuildTools),
	)
	return append(packages, BasePackages...)
}
