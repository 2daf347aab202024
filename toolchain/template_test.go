package toolchain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplate_Resolve(t *testing.T) {
	template := Template{
		GOOS:     "darwin",
		GOARCH:   "arm64",
		Host:     "mac",
		Revision: "9477386",
	}

	tests := []struct {
		name     string
		format   string
		expected string
		wantErr  bool
	}{
		{
			name:     "default download url",
			format:   DefaultDownloadURL,
			expected: "https://dl.google.com/android/repository/commandlinetools-mac-9477386_latest.zip",
		},
		{
			name:     "go platform fields",
			format:   "https://mirror.example.com/{{.GOOS}}/{{.GOARCH}}/tools.zip",
			expected: "https://mirror.example.com/darwin/arm64/tools.zip",
		},
		{
			name:     "plain url",
			format:   "https://mirror.example.com/tools.zip",
			expected: "https://mirror.example.com/tools.zip",
		},
		{
			name:    "invalid template",
			format:  "{{.InvalidField}}",
			wantErr: true,
		},
		{
			name:    "malformed template",
			format:  "{{.Host",
			wantErr: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name,
			func(t *testing.T) {
				result, err := template.Resolve(test.format)

				if test.wantErr {
					assert.Error(t, err)
					return
				}

				require.NoError(t, err)
				assert.Equal(t, test.expected, result)
			},
		)
	}
}

func TestToolchain_DownloadURL(t *testing.T) {
	url, err := New(Linux, nil).DownloadURL()
	require.NoError(t, err)
	assert.Equal(t, "https://dl.google.com/android/repository/commandlinetools-linux-8512546_latest.zip", url)

	url, err = New(Linux, nil, WithRevision("11076708")).DownloadURL()
	require.NoError(t, err)
	assert.Equal(t, "https://dl.google.com/android/repository/commandlinetools-linux-11076708_latest.zip", url)
}
