package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for pricesync.
type Config struct {
	GeneralDir string              `mapstructure:"general_dir"`
	Aliases    map[string][]string `mapstructure:"aliases"`
	DryRun     bool                `mapstructure:"dry_run"`
	Check      bool                `mapstructure:"check"`
	ShowDiff   bool                `mapstructure:"show_diff"`
	ReportPath string              `mapstructure:"report_path"`
	LogLevel   string              `mapstructure:"log_level"`
}

// DefaultAliases maps a pricing file base name to every general catalog it
// feeds. OpenAI has historically been kept under two names.
func DefaultAliases() map[string][]string {
	return map[string][]string{
		"openai": {"openai", "open-ai"},
	}
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"general-dir": "general_dir",
	"dry-run":     "dry_run",
	"check":       "check",
	"diff":        "show_diff",
	"report":      "report_path",
	"log-level":   "log_level",
}

// Load reads configuration from defaults, file, environment and flags, in
// increasing order of precedence. flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("general_dir", "general")
	aliases := make(map[string]any)
	for base, names := range DefaultAliases() {
		aliases[base] = names
	}
	v.SetDefault("aliases", aliases)
	v.SetDefault("dry_run", false)
	v.SetDefault("check", false)
	v.SetDefault("show_diff", false)
	v.SetDefault("report_path", "")
	v.SetDefault("log_level", "warn")

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".pricesync")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/pricesync")
	}

	// Environment variables
	v.SetEnvPrefix("PRICESYNC")
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("binding flag %s: %w", name, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if used := v.ConfigFileUsed(); used != "" {
		aliases, err := readAliases(used)
		if err != nil {
			return nil, err
		}
		if aliases != nil {
			cfg.Aliases = DefaultAliases()
			for base, names := range aliases {
				cfg.Aliases[base] = names
			}
		}
	}

	if cfg.Check {
		cfg.DryRun = true
	}
	if cfg.GeneralDir == "" {
		cfg.GeneralDir = "general"
	}

	return &cfg, nil
}

// readAliases decodes the aliases table straight from a YAML or JSON config
// file. viper folds map keys to lower case, but pricing base names are
// matched exactly. Returns nil for other formats or when the file has no
// aliases.
func readAliases(path string) (map[string][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
	default:
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var file struct {
		Aliases map[string][]string `yaml:"aliases"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing aliases in %s: %w", path, err)
	}
	return file.Aliases, nil
}
