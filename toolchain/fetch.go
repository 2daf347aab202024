package toolchain

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/aexvir/sdkharness"
)

// Fetcher downloads an archive from a url and extracts it into a destination directory.
type Fetcher interface {
	Fetch(ctx context.Context, url, destination string) error
}

// FetchMethod selects the [Fetcher] implementation.
type FetchMethod string

const (
	// FetchAuto uses wget and unzip when both are available, the native fetcher otherwise.
	FetchAuto FetchMethod = "auto"
	// FetchCommand uses the wget and unzip programs.
	FetchCommand FetchMethod = "command"
	// FetchNative downloads and extracts in process.
	FetchNative FetchMethod = "native"
)

// SelectFetcher returns the fetcher for the given method.
func SelectFetcher(method FetchMethod, executor sdkharness.Executor) (Fetcher, error) {
	switch method {
	case FetchAuto, "":
		return AutoFetcher(executor), nil
	case FetchCommand:
		return CommandFetcher(executor), nil
	case FetchNative:
		return NativeFetcher(nil), nil
	default:
		return nil, fmt.Errorf("%w: unknown fetch method %q", sdkharness.ErrInvalidConfiguration, method)
	}
}

// AutoFetcher returns the [CommandFetcher] when wget and unzip are both on the PATH,
// otherwise the [NativeFetcher].
func AutoFetcher(executor sdkharness.Executor) Fetcher {
	for _, program := range []string{"wget", "unzip"} {
		if _, err := exec.LookPath(program); err != nil {
			return NativeFetcher(nil)
		}
	}
	return CommandFetcher(executor)
}

// commandfetcher implements [Fetcher] by running wget and unzip.
type commandfetcher struct {
	executor sdkharness.Executor
	tmpdir   string
}

// CommandFetcher creates a [Fetcher] that downloads the archive with wget to a temporary
// file and extracts it with unzip, overwriting existing files.
func CommandFetcher(executor sdkharness.Executor) Fetcher {
	return &commandfetcher{
		executor: executor,
		tmpdir:   os.TempDir(),
	}
}

func (f *commandfetcher) Fetch(ctx context.Context, url, destination string) error {
	archive := filepath.Join(f.tmpdir, "android-commandlinetools.zip")
	defer os.Remove(archive)

	_, err := f.executor.Execute(ctx, "wget", sdkharness.WithArgs("-O", archive, url))
	if err != nil {
		return err
	}

	_, err = f.executor.Execute(ctx, "unzip", sdkharness.WithArgs("-qo", archive, "-d", destination))
	return err
}

// nativefetcher implements [Fetcher] with an http client and in process extraction.
type nativefetcher struct {
	client *http.Client
}

// NativeFetcher creates a [Fetcher] that downloads the archive over http, showing a progress
// bar when running in a terminal, and extracts zip or tar.gz archives in process.
// A nil client means [http.DefaultClient].
func NativeFetcher(client *http.Client) Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &nativefetcher{client: client}
}

func (f *nativefetcher) Fetch(ctx context.Context, url, destination string) error {
	if err := os.MkdirAll(destination, 0o755); err != nil {
		return fmt.Errorf("failed to create destination folder %s: %w", destination, err)
	}

	tmp, err := os.CreateTemp("", "android-commandlinetools-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	archive := tmp.Name()
	tmp.Close()
	defer os.Remove(archive)

	if err := f.download(ctx, url, archive); err != nil {
		return err
	}

	return extract(archive, destination)
}

// download a file from a url to a local destination.
func (f *nativefetcher) download(ctx context.Context, url, destination string) (err error) {
	sdkharness.LogDetail(fmt.Sprintf("downloading %s", url))

	start := time.Now()
	defer func() {
		elapsed := time.Since(start).Round(time.Millisecond)
		if err != nil {
			color.Red("     ✘ %s", elapsed)
			return
		}
		color.Green("     ✔ %s", elapsed)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("received unexpected response when downloading file: http%d", resp.StatusCode)
	}

	data, finish := progress(resp.Body, resp.ContentLength)
	defer finish()

	out, err := os.Create(destination)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", destination, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, data); err != nil {
		return fmt.Errorf("failed to copy data to file %s: %w", destination, err)
	}

	return out.Close()
}

// progress wraps an io.Reader to display a progress bar when running in a terminal.
// Returns the wrapped reader and a function to finalize the progress display.
// The progress bar shows transfer speed and completion percentage.
func progress(reader io.Reader, size int64) (io.Reader, func()) {
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return reader, func() {}
	}

	bar := pb.
		New64(size).
		SetTemplate(
			pb.ProgressBarTemplate(
				color.New(color.FgHiBlack).Sprint(
					`   └ {{string . "prefix"}}{{counters . }}` +
						` {{bar . "[" "=" ">" " " "]" }} {{percent . }}` +
						` {{speed . }} {{string . "suffix"}}`,
				),
			),
		).
		SetRefreshRate(time.Second / 60).
		SetMaxWidth(100).
		Start()

	return bar.NewProxyReader(reader), func() { bar.Finish() }
}
