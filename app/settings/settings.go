// Package settings loads the livepp YAML configuration.
package settings

import (
	"fmt"
	"os"

	"github.com/Givikap120/danser-livepp/app/rulesets/osu/performance/live"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDatabase = "livepp.db"
	DefaultRuleset  = "osu"
)

type Config struct {
	General     General     `yaml:"general"`
	Performance Performance `yaml:"performance"`
	Playback    Playback    `yaml:"playback"`
}

type General struct {
	// Database is the sqlite file caching attributes. Empty disables caching.
	Database string `yaml:"database"`

	// SongsDir is scanned for .osu files when matching replays in watch mode
	SongsDir string `yaml:"songs_dir"`
}

type Performance struct {
	// Policies run side by side: absolute, incremental, perfect
	Policies []string `yaml:"policies"`
	Ruleset  string   `yaml:"ruleset"`
}

type Playback struct {
	WaitForAttributes bool `yaml:"wait_for_attributes"`

	// RevertEvery > 0 reverts and reapplies every N-th judgement
	RevertEvery int `yaml:"revert_every"`
}

func Default() *Config {
	return &Config{
		General: General{
			Database: DefaultDatabase,
		},
		Performance: Performance{
			Policies: []string{live.Absolute.String(), live.Incremental.String(), live.SimulatedPerfect.String()},
			Ruleset:  DefaultRuleset,
		},
		Playback: Playback{
			WaitForAttributes: true,
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	} else if err != nil {
		return nil, fmt.Errorf("settings: read %q: %w", path, err)
	}

	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("settings: parse yaml: %w", err)
	}

	if err = cfg.validate(); err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}

	return cfg, nil
}

// Save writes cfg to path as YAML
func (cfg *Config) Save(path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

func (cfg *Config) validate() error {
	if len(cfg.Performance.Policies) == 0 {
		return fmt.Errorf("performance.policies must not be empty")
	}

	if _, err := cfg.ParsedPolicies(); err != nil {
		return err
	}

	if cfg.Performance.Ruleset == "" {
		cfg.Performance.Ruleset = DefaultRuleset
	}

	if cfg.Playback.RevertEvery < 0 {
		return fmt.Errorf("playback.revert_every must not be negative, got %d", cfg.Playback.RevertEvery)
	}

	return nil
}

func (cfg *Config) ParsedPolicies() ([]live.Policy, error) {
	policies := make([]live.Policy, 0, len(cfg.Performance.Policies))

	for _, s := range cfg.Performance.Policies {
		p, err := live.ParsePolicy(s)
		if err != nil {
			return nil, fmt.Errorf("performance.policies: %w", err)
		}

		policies = append(policies, p)
	}

	return policies, nil
}
