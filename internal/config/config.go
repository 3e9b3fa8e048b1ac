package config

import "fmt"

// Config represents the complete crudehelpgen configuration.
// It can be loaded from .helpgen/config.yml with environment variable overrides.
type Config struct {
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	State  StateConfig  `yaml:"state" mapstructure:"state"`
	Paths  PathsConfig  `yaml:"paths" mapstructure:"paths"`
	Watch  WatchConfig  `yaml:"watch" mapstructure:"watch"`
}

// OutputConfig controls help-file naming and content.
type OutputConfig struct {
	Suffix      string `yaml:"suffix" mapstructure:"suffix"`             // appended to the module base name
	IncludeArgs bool   `yaml:"include_args" mapstructure:"include_args"` // render parameters as a separate block
	Overwrite   bool   `yaml:"overwrite" mapstructure:"overwrite"`       // regenerate stale help files
}

// StateConfig controls fingerprint and exclusion persistence.
type StateConfig struct {
	Backend string `yaml:"backend" mapstructure:"backend"` // "json" or "sqlite"
	Dir     string `yaml:"dir" mapstructure:"dir"`         // state directory
}

// PathsConfig defines which modules directory mode picks up.
type PathsConfig struct {
	Modules []string `yaml:"modules" mapstructure:"modules"` // glob patterns for python modules
	Ignore  []string `yaml:"ignore" mapstructure:"ignore"`   // glob patterns to skip
}

// WatchConfig controls watch mode.
type WatchConfig struct {
	DebounceMS int `yaml:"debounce_ms" mapstructure:"debounce_ms"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Suffix:      "help.md",
			IncludeArgs: false,
			Overwrite:   true,
		},
		State: StateConfig{
			Backend: "json",
			Dir:     ".helpgen",
		},
		Paths: PathsConfig{
			Modules: []string{"**/*.py"},
			Ignore: []string{
				"**/__pycache__/**",
				"**/.venv/**",
				"**/venv/**",
				"**/.git/**",
				"**/build/**",
				"**/dist/**",
			},
		},
		Watch: WatchConfig{
			DebounceMS: 500,
		},
	}
}

// Validate checks a configuration for values the generator cannot work with.
func Validate(cfg *Config) error {
	switch cfg.State.Backend {
	case "json", "sqlite":
	default:
		return fmt.Errorf("unknown state backend %q (expected json or sqlite)", cfg.State.Backend)
	}
	if cfg.Output.Suffix == "" {
		return fmt.Errorf("output suffix must not be empty")
	}
	if cfg.State.Dir == "" {
		return fmt.Errorf("state dir must not be empty")
	}
	if cfg.Watch.DebounceMS <= 0 {
		return fmt.Errorf("watch debounce must be positive, got %d", cfg.Watch.DebounceMS)
	}
	return nil
}
