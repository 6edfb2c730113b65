package bot

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/m3rciful/vbot/core/config"
	coredatabase "github.com/m3rciful/vbot/core/database"
)

// VoteSettings tune the poll engine.
type VoteSettings struct {
	// MaxAttempts caps vote actions per user per poll; 0 -> default (3).
	MaxAttempts int `yaml:"max_attempts" envconfig:"VOTE_MAX_ATTEMPTS"`
}

// AdminSettings tune the admin directory.
type AdminSettings struct {
	// TTLMinutes is the admin-cache lifetime; 0 -> default (30).
	TTLMinutes int `yaml:"ttl_minutes" envconfig:"ADMINS_TTL_MINUTES"`
	// Seed lists user ids upserted into the admins table at startup.
	Seed []int64 `yaml:"seed" envconfig:"ADMINS_SEED"`
}

// Config is the full application configuration: core bot settings plus the
// database and domain sections.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Database coredatabase.Config `yaml:"database"`
	Vote     VoteSettings        `yaml:"vote"`
	Admins   AdminSettings       `yaml:"admins"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Config
}

// LoadConfig reads the application configuration from a YAML file with
// environment overrides.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return nil, err
	}
	if cfg.Vote.MaxAttempts < 0 {
		return nil, fmt.Errorf("vote.max_attempts must not be negative")
	}
	if cfg.Admins.TTLMinutes < 0 {
		return nil, fmt.Errorf("admins.ttl_minutes must not be negative")
	}
	return &cfg, nil
}
