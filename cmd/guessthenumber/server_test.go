package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "guessthenumber.hcl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	return path
}

func TestServerCmdFlagsOverrideFile(t *testing.T) {
	seed := int64(99)
	cmd := &ServerCmd{
		Config:      writeConfig(t, `game { round_delay = "3s" }`+"\n"+`server { log_level = "warn" }`),
		RoundDelay:  "250ms",
		Seed:        &seed,
		HistoryFile: "out.json",
		Debug:       true,
	}

	cfg, err := cmd.loadConfig()
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.RoundDelay())
	assert.Equal(t, log.DebugLevel, cfg.Level())
	assert.Equal(t, "out.json", cfg.Game.HistoryFile)
	require.NotNil(t, cfg.Game.Seed)
	assert.Equal(t, int64(99), *cfg.Game.Seed)
}

func TestServerCmdUsesFileValues(t *testing.T) {
	cmd := &ServerCmd{Config: writeConfig(t, `game { round_delay = "3s" }`)}

	cfg, err := cmd.loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.RoundDelay())
	assert.Equal(t, log.InfoLevel, cfg.Level())
}

func TestServerCmdRejectsInvalidOverride(t *testing.T) {
	cmd := &ServerCmd{
		Config:     filepath.Join(t.TempDir(), "absent.hcl"),
		RoundDelay: "whenever",
	}

	_, err := cmd.loadConfig()
	assert.ErrorContains(t, err, "invalid configuration")
}
