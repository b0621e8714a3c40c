package build

import (
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrent(t *testing.T) {
	t.Parallel()

	info := Current()

	assert.NotEmpty(t, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
}

func TestFill(t *testing.T) {
	t.Parallel()

	info := Info{}
	fill(&info, &debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.0"},
		Deps: []*debug.Module{{Path: "github.com/alitto/pond/v2", Version: "v2.6.0"}},
		Settings: []debug.BuildSetting{
			{Key: "vcs", Value: "git"},
			{Key: "vcs.revision", Value: "abc123"},
		},
	})

	assert.Equal(t, "v0.3.0", info.Version)
	assert.Equal(t, "abc123", info.Commit)
	assert.Equal(t, map[string]string{"github.com/alitto/pond/v2": "v2.6.0"}, info.Dependencies)

	// Link-time values win.
	info = Info{Version: "v9", Commit: "fixed"}
	fill(&info, &debug.BuildInfo{
		Main:     debug.Module{Version: "v0.3.0"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123"}},
	})

	assert.Equal(t, "v9", info.Version)
	assert.Equal(t, "fixed", info.Commit)
	assert.Nil(t, info.Dependencies)
}

func TestString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "v1 (go1.25.0)", Info{Version: "v1", GoVersion: "go1.25.0"}.String())
	assert.Equal(t, "v1 abc (go1.25.0)", Info{Version: "v1", Commit: "abc", GoVersion: "go1.25.0"}.String())
}
