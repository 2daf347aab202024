package toolchain

import (
	"strings"
	"text/template"
)

// Template contains the fields available when resolving the download url.
type Template struct {
	// GOOS is the operating system target (e.g., "linux", "darwin")
	GOOS string
	// GOARCH is the architecture target (e.g., "amd64", "arm64")
	GOARCH string
	// Host is the os name used by the android repository (e.g., "linux", "mac")
	Host string
	// Revision of the command-line tools
	Revision string
}

// Resolve executes the provided format string as a template with the Template's fields.
// It returns the resolved string and any error that occurred during template parsing or execution.
func (t Template) Resolve(format string) (string, error) {
	tmpl, err := template.New("url").Option("missingkey=error").Parse(format)
	if err != nil {
		return "", err
	}

	var bld strings.Builder
	if err := tmpl.Execute(&bld, t); err != nil {
		return "", err
	}

	return bld.String(), nil
}
