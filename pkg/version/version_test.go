package version

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.GitCommit)
	assert.NotEmpty(t, info.GoVersion)
	assert.NotEmpty(t, info.Platform)
	assert.True(t, info.BuildTime.IsZero(), "unknown build date must not parse")
}

func TestGetBuildInfoParsesBuildDate(t *testing.T) {
	originalDate, originalVersion := BuildDate, Version
	t.Cleanup(func() { BuildDate, Version = originalDate, originalVersion })

	BuildDate = "2026-01-13T20:00:00Z"
	Version = "v1.2.3"

	info := GetBuildInfo()
	require.Equal(t, time.Date(2026, 1, 13, 20, 0, 0, 0, time.UTC), info.BuildTime.UTC())
	assert.Equal(t, "clusterctl v1.2.3 (commit: unknown, built: 2026-01-13T20:00:00Z)", info.String())
	assert.Equal(t, "clusterctl/v1.2.3", UserAgent())
}
