package toolchain

type Option func(t *Toolchain)

// WithInstallDir sets the directory the sdk gets installed into on linux.
// A leading ~ is resolved to the home directory of the current user.
func WithInstallDir(dir string) Option {
	return func(t *Toolchain) {
		if dir != "" {
			t.installdir = dir
		}
	}
}

// WithDownloadURL sets the url the command-line tools archive is downloaded from on linux.
// The url can contain template variables that are resolved using the [Template] values,
// e.g. "https://mirror.example.com/commandlinetools-{{.Host}}-{{.Revision}}_latest.zip".
func WithDownloadURL(url string) Option {
	return func(t *Toolchain) {
		if url != "" {
			t.urlformat = url
		}
	}
}

// WithRevision sets the command-line tools revision used to resolve the download url.
func WithRevision(revision string) Option {
	return func(t *Toolchain) {
		if revision != "" {
			t.revision = revision
		}
	}
}

// WithMarker sets the executable, relative to the sdk root, used to detect
// an existing installation. It's also the sdkmanager that will be used.
func WithMarker(marker string) Option {
	return func(t *Toolchain) {
		if marker != "" {
			t.marker = marker
		}
	}
}

// WithCask sets the homebrew cask installed on macOS.
func WithCask(cask string) Option {
	return func(t *Toolchain) {
		if cask != "" {
			t.cask = cask
		}
	}
}

// WithFetcher sets how the command-line tools archive gets downloaded and extracted.
// By default [AutoFetcher] is used.
func WithFetcher(fetcher Fetcher) Option {
	return func(t *Toolchain) {
		t.fetcher = fetcher
	}
}
