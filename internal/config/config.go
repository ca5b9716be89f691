package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root server configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Combat   CombatConfig   `mapstructure:"combat"`
}

// ServerConfig holds transport settings.
type ServerConfig struct {
	WebSocket WebSocketConfig `mapstructure:"websocket"`
}

// WebSocketConfig holds the observer/intent websocket endpoint settings.
type WebSocketConfig struct {
	Address string `mapstructure:"address"`
}

// DatabaseConfig holds Postgres connection settings. An empty URL runs the
// server with the built-in starter catalog and no deck persistence.
type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	MaxConns int32  `mapstructure:"max_conns"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CombatConfig holds the combat engine tunables.
type CombatConfig struct {
	InitialHandSize    int           `mapstructure:"initial_hand_size"`
	MaxHandSize        int           `mapstructure:"max_hand_size"`
	MaxHealth          int           `mapstructure:"max_health"`
	MaxEnergy          int           `mapstructure:"max_energy"`
	CritChance         float64       `mapstructure:"crit_chance"`
	CritMultiplier     float64       `mapstructure:"crit_multiplier"`
	ResponderPlayDelay time.Duration `mapstructure:"responder_play_delay"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.websocket.address", ":8080")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("combat.initial_hand_size", 5)
	v.SetDefault("combat.max_hand_size", 10)
	v.SetDefault("combat.max_health", 30)
	v.SetDefault("combat.max_energy", 5)
	v.SetDefault("combat.crit_chance", 0.1)
	v.SetDefault("combat.crit_multiplier", 1.5)
	v.SetDefault("combat.responder_play_delay", 750*time.Millisecond)
}

// Load reads configuration from the YAML file at path, with DUEL_* env
// overrides. A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("DUEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			// Missing file falls back to defaults; anything else is fatal.
			// Explicit SetConfigFile paths surface as a wrapped *fs.PathError
			// rather than viper's ConfigFileNotFoundError.
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Combat.InitialHandSize <= 0 {
		return fmt.Errorf("combat.initial_hand_size must be positive, got %d", c.Combat.InitialHandSize)
	}
	if c.Combat.MaxHandSize < c.Combat.InitialHandSize {
		return fmt.Errorf("combat.max_hand_size (%d) must be >= combat.initial_hand_size (%d)",
			c.Combat.MaxHandSize, c.Combat.InitialHandSize)
	}
	if c.Combat.MaxHealth <= 0 || c.Combat.MaxEnergy <= 0 {
		return fmt.Errorf("combat.max_health and combat.max_energy must be positive")
	}
	if c.Combat.CritChance < 0 || c.Combat.CritChance > 1 {
		return fmt.Errorf("combat.crit_chance must be in [0,1], got %f", c.Combat.CritChance)
	}
	return nil
}
