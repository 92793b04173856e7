package version

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetVersion tests defaults and injected values.
func TestGetVersion(t *testing.T) {
	tests := []struct {
		name          string
		setupVersion  string
		setupCommit   string
		setupBuilt    string
		wantVersion   string
		wantCommit    string
		wantBuildTime string
	}{
		{
			name:          "empty values use defaults",
			wantVersion:   DefaultVersion,
			wantCommit:    DefaultCommit,
			wantBuildTime: DefaultBuildTime,
		},
		{
			name:          "all values set",
			setupVersion:  "v1.0.0",
			setupCommit:   "abc123",
			setupBuilt:    "2025-01-01T00:00:00Z",
			wantVersion:   "v1.0.0",
			wantCommit:    "abc123",
			wantBuildTime: "2025-01-01T00:00:00Z",
		},
		{
			name:          "partial values - only commit",
			setupCommit:   "def456",
			wantVersion:   DefaultVersion,
			wantCommit:    "def456",
			wantBuildTime: DefaultBuildTime,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetBuildVars(tt.setupVersion, tt.setupCommit, tt.setupBuilt)
			t.Cleanup(ResetBuildVars)

			info := GetVersion()

			assert.Equal(t, tt.wantVersion, info.Version)
			assert.Equal(t, tt.wantCommit, info.Commit)
			assert.Equal(t, tt.wantBuildTime, info.BuildTime)
		})
	}
}

func TestVersionInfo_Write(t *testing.T) {
	info := &VersionInfo{Version: "v1.2.3", Commit: "abc", BuildTime: "2025-01-01T00:00:00Z"}

	t.Run("short", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, info.Write(&buf, true))
		assert.Equal(t, "v1.2.3\n", buf.String())
	})

	t.Run("full", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, info.Write(&buf, false))

		lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
		require.Len(t, lines, 4)
		assert.Equal(t, ApplicationName, lines[0])
		assert.Equal(t, "Version: v1.2.3", lines[1])
		assert.Equal(t, "Commit: abc", lines[2])
		assert.Equal(t, "Built: 2025-01-01T00:00:00Z", lines[3])
	})
}

func TestUserAgent(t *testing.T) {
	SetBuildVars("v0.4.0", "", "")
	t.Cleanup(ResetBuildVars)

	assert.Equal(t, "codycli/v0.4.0", UserAgent())
	assert.False(t, GetVersion().IsDevelopment())

	ResetBuildVars()
	assert.Equal(t, "codycli/dev", UserAgent())
	assert.True(t, GetVersion().IsDevelopment())
}
