package sdkmanager

import (
	"testing"

	"github.com/magiconair/properties"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aexvir/sdkharness"
)

func TestResolveVersions(t *testing.T) {
	tests := []struct {
		name     string
		explicit Versions
		source   map[string]string
		expected Versions
		wantErr  error
		errMsg   string
	}{
		{
			name:     "explicit values",
			explicit: Versions{CompileSDK: "25", BuildTools: "25.0.2"},
			expected: Versions{CompileSDK: "25", BuildTools: "25.0.2"},
		},
		{
			name:     "explicit values win over properties",
			explicit: Versions{CompileSDK: "25", BuildTools: "25.0.2"},
			source:   map[string]string{"compile_sdk_version": "24", "build_tools_version": "24.0.3"},
			expected: Versions{CompileSDK: "25", BuildTools: "25.0.2"},
		},
		{
			name:     "properties fallback",
			source:   map[string]string{"compile_sdk_version": "24", "build_tools_version": "24.0.3"},
			expected: Versions{CompileSDK: "24", BuildTools: "24.0.3"},
		},
		{
			name:     "mixed sources",
			explicit: Versions{BuildTools: "28.0.3"},
			source:   map[string]string{"compile_sdk_version": "28"},
			expected: Versions{CompileSDK: "28", BuildTools: "28.0.3"},
		},
		{
			name:     "platform prefix is dropped",
			explicit: Versions{CompileSDK: "android-33", BuildTools: "33.0.1"},
			expected: Versions{CompileSDK: "33", BuildTools: "33.0.1"},
		},
		{
			name:     "release candidate build tools",
			explicit: Versions{CompileSDK: "34", BuildTools: "34.0.0-rc3"},
			expected: Versions{CompileSDK: "34", BuildTools: "34.0.0-rc3"},
		},
		{
			name:    "nothing defined",
			source:  map[string]string{},
			wantErr: sdkharness.ErrMissingConfiguration,
			errMsg:  "no build tools version defined",
		},
		{
			name:     "missing compile sdk",
			explicit: Versions{BuildTools: "23"},
			wantErr:  sdkharness.ErrMissingConfiguration,
			errMsg:   "no compile sdk version defined",
		},
		{
			name:     "blank values count as missing",
			explicit: Versions{CompileSDK: "  ", BuildTools: "25.0.2"},
			source:   map[string]string{"compile_sdk_version": ""},
			wantErr:  sdkharness.ErrMissingConfiguration,
			errMsg:   "no compile sdk version defined",
		},
		{
			name:     "malformed build tools",
			explicit: Versions{CompileSDK: "25", BuildTools: "latest"},
			wantErr:  sdkharness.ErrInvalidConfiguration,
			errMsg:   `"latest"`,
		},
	}

	for _, test := range tests {
		t.Run(test.name,
			func(t *testing.T) {
				var source Source
				if test.source != nil {
					source = properties.LoadMap(test.source)
				}

				versions, err := ResolveVersions(test.explicit, source)

				if test.wantErr != nil {
					assert.ErrorIs(t, err, test.wantErr)
					assert.Contains(t, err.Error(), test.errMsg)
					return
				}

				require.NoError(t, err)
				assert.Equal(t, test.expected, versions)
			},
		)
	}
}
