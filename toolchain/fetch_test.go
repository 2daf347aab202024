package toolchain

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aexvir/sdkharness"
	"github.com/aexvir/sdkharness/internal/mockexec"
)

type entry struct {
	name    string
	content string
	mode    os.FileMode
}

func zipped(t *testing.T, entries ...entry) []byte {
	t.Helper()

	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)
	for _, e := range entries {
		header := &zip.FileHeader{Name: e.name, Method: zip.Deflate}
		header.SetMode(e.mode)
		w, err := writer.CreateHeader(header)
		require.NoError(t, err)
		_, err = w.Write([]byte(e.content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	return buf.Bytes()
}

func tarball(t *testing.T, entries ...entry) []byte {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	writer := tar.NewWriter(gz)
	for _, e := range entries {
		require.NoError(t, writer.WriteHeader(&tar.Header{
			Name:     e.name,
			Mode:     int64(e.mode.Perm()),
			Size:     int64(len(e.content)),
			Typeflag: tar.TypeReg,
		}))
		_, err := writer.Write([]byte(e.content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	require.NoError(t, gz.Close())

	return buf.Bytes()
}

func serve(t *testing.T, status int, body []byte) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
				w.Write(body)
			},
		),
	)
	t.Cleanup(server.Close)

	return server
}

func TestNativeFetcher_Zip(t *testing.T) {
	archive := zipped(t,
		entry{name: "cmdline-tools/bin/sdkmanager", content: "#!/bin/sh\necho sdkmanager\n", mode: 0o755},
		entry{name: "cmdline-tools/source.properties", content: "Pkg.Revision=7.0\n", mode: 0o644},
	)
	server := serve(t, http.StatusOK, archive)
	destination := filepath.Join(t.TempDir(), "sdk")

	err := NativeFetcher(server.Client()).Fetch(context.Background(), server.URL+"/tools.zip", destination)
	require.NoError(t, err)

	sdkmanager := filepath.Join(destination, "cmdline-tools", "bin", "sdkmanager")
	content, err := os.ReadFile(sdkmanager)
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\necho sdkmanager\n", string(content))

	info, err := os.Stat(sdkmanager)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	info, err = os.Stat(filepath.Join(destination, "cmdline-tools", "source.properties"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestNativeFetcher_TarGz(t *testing.T) {
	archive := tarball(t, entry{name: "tools/bin/sdkmanager", content: "binary", mode: 0o755})
	server := serve(t, http.StatusOK, archive)
	destination := t.TempDir()

	err := NativeFetcher(server.Client()).Fetch(context.Background(), server.URL+"/tools.tar.gz", destination)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(destination, "tools", "bin", "sdkmanager"))
}

func TestNativeFetcher_OverwritesExistingFiles(t *testing.T) {
	destination := t.TempDir()
	touch(t, filepath.Join(destination, "cmdline-tools", "bin", "sdkmanager"))

	server := serve(t, http.StatusOK, zipped(t, entry{name: "cmdline-tools/bin/sdkmanager", content: "new", mode: 0o755}))

	err := NativeFetcher(server.Client()).Fetch(context.Background(), server.URL, destination)
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(destination, "cmdline-tools", "bin", "sdkmanager"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(content))
}

func TestNativeFetcher_RejectsEntriesOutsideDestination(t *testing.T) {
	server := serve(t, http.StatusOK, zipped(t, entry{name: "../escaped", content: "nope", mode: 0o644}))
	parent := t.TempDir()
	destination := filepath.Join(parent, "sdk")

	err := NativeFetcher(server.Client()).Fetch(context.Background(), server.URL, destination)
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(parent, "escaped"))
}

func TestNativeFetcher_HTTPError(t *testing.T) {
	server := serve(t, http.StatusNotFound, nil)

	err := NativeFetcher(server.Client()).Fetch(context.Background(), server.URL, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected response")
}

func TestNativeFetcher_UnsupportedFormat(t *testing.T) {
	server := serve(t, http.StatusOK, []byte("this is not an archive"))

	err := NativeFetcher(server.Client()).Fetch(context.Background(), server.URL, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestCommandFetcher_StopsWhenDownloadFails(t *testing.T) {
	exec := new(mockexec.Executor)
	exec.Expect("wget", "-O", filepath.Join(os.TempDir(), "android-commandlinetools.zip"), "https://example.com/tools.zip").
		Return(nil, mockexec.Failure("wget", 8, "ERROR 404: Not Found.")).
		Once()

	err := CommandFetcher(exec).Fetch(context.Background(), "https://example.com/tools.zip", "/tmp/sdk")
	require.Error(t, err)
	assert.ErrorIs(t, err, sdkharness.ErrToolInvocationFailed)
	exec.AssertNumberOfCalls(t, "Execute", 1)
}

func TestSelectFetcher(t *testing.T) {
	exec := new(mockexec.Executor)

	fetcher, err := SelectFetcher(FetchCommand, exec)
	require.NoError(t, err)
	assert.IsType(t, &commandfetcher{}, fetcher)

	fetcher, err = SelectFetcher(FetchNative, exec)
	require.NoError(t, err)
	assert.IsType(t, &nativefetcher{}, fetcher)

	fetcher, err = SelectFetcher(FetchAuto, exec)
	require.NoError(t, err)
	assert.NotNil(t, fetcher)

	_, err = SelectFetcher("curl", exec)
	assert.ErrorIs(t, err, sdkharness.ErrInvalidConfiguration)
}

func TestProgress(t *testing.T) {
	content := []byte("test content")

	wrapped, finish := progress(bytes.NewReader(content), int64(len(content)))
	require.NotNil(t, wrapped)
	require.NotNil(t, finish)

	buf := make([]byte, len(content))
	n, err := wrapped.Read(buf)
	assert.NoError(t, err)
	assert.Equal(t, len(content), n)
	assert.Equal(t, content, buf)

	assert.NotPanics(t, finish)
}

func TestWithin(t *testing.T) {
	target, err := within("/opt/sdk", "cmdline-tools/bin/sdkmanager")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/opt/sdk", "cmdline-tools", "bin", "sdkmanager"), target)

	target, err = within("/opt/sdk/", "./")
	require.NoError(t, err)
	assert.Equal(t, "/opt/sdk", target)

	_, err = within("/opt/sdk", "../../etc/passwd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside of")

	_, err = within("/opt/sdk", "../sdk-evil/file")
	assert.Error(t, err)
}
