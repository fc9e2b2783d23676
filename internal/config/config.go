// Package config loads ospsys CLI settings.
//
// Sources, lowest to highest priority: built-in defaults, a YAML file
// (--config, else ospsys.yaml or ospsys.yml in the working directory),
// OSPSYS_* environment variables, then explicitly set command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Defaults.
const (
	DefaultFormat   = "text"
	DefaultDatabase = "ospsys.db"
	EnvPrefix       = "OSPSYS_"
)

// configFlag is the flag naming the config file; it is not itself a setting.
const configFlag = "config"

var validate = validator.New()

// Config holds the resolved settings.
type Config struct {
	Format   string `koanf:"format" validate:"required,oneof=text json"`
	Verbose  bool   `koanf:"verbose"`
	Database string `koanf:"database" validate:"required"`
	Indent   bool   `koanf:"indent"`

	// FileUsed is the config file that was read, empty if none.
	FileUsed string `koanf:"-"`
}

// findConfigFile finds the config file to use.
// Priority: explicit path > ospsys.yaml > ospsys.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"ospsys.yaml", "ospsys.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load resolves the configuration. flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]any{
		"format":   DefaultFormat,
		"verbose":  false,
		"database": DefaultDatabase,
		"indent":   false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// OSPSYS_DATABASE -> database
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed || f.Name == configFlag {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.FileUsed = used

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings against their constraints.
func (c *Config) Validate() error {
	return formatValidationError(validate.Struct(c))
}

// formatValidationError turns validator output into one readable error per
// failed field.
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	var errs []error
	for _, e := range validationErrs {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			errs = append(errs, fmt.Errorf("%s: field is required", field))
		case "oneof":
			errs = append(errs, fmt.Errorf("%s: must be one of [%s], got %q", field, e.Param(), e.Value()))
		default:
			errs = append(errs, fmt.Errorf("%s: failed %s validation", field, e.Tag()))
		}
	}
	return errors.Join(errs...)
}
