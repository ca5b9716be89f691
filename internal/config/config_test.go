package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.WebSocket.Address)
	assert.Equal(t, "", cfg.Database.URL)
	assert.Equal(t, int32(10), cfg.Database.MaxConns)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 5, cfg.Combat.InitialHandSize)
	assert.Equal(t, 10, cfg.Combat.MaxHandSize)
	assert.Equal(t, 30, cfg.Combat.MaxHealth)
	assert.Equal(t, 5, cfg.Combat.MaxEnergy)
	assert.InDelta(t, 0.1, cfg.Combat.CritChance, 1e-9)
	assert.Equal(t, 750*time.Millisecond, cfg.Combat.ResponderPlayDelay)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Combat.InitialHandSize)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  websocket:
    address: ":9090"
logging:
  level: debug
  format: json
combat:
  initial_hand_size: 3
  max_hand_size: 7
  crit_chance: 0.25
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.WebSocket.Address)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 3, cfg.Combat.InitialHandSize)
	assert.Equal(t, 7, cfg.Combat.MaxHandSize)
	assert.InDelta(t, 0.25, cfg.Combat.CritChance, 1e-9)
	// Untouched keys keep their defaults.
	assert.Equal(t, 30, cfg.Combat.MaxHealth)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{
			name: "zero initial hand",
			content: `
combat:
  initial_hand_size: 0
`,
		},
		{
			name: "max hand below initial",
			content: `
combat:
  initial_hand_size: 5
  max_hand_size: 2
`,
		},
		{
			name: "crit chance above one",
			content: `
combat:
  crit_chance: 1.5
`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o644))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}
