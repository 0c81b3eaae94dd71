// Package config loads per-manufacturer engine configuration (rounding
// rule, default language, a [tables] name section) from TOML files, in the
// same "small schema DSL atop BurntSushi/toml" idiom used for the other
// declarative file formats this module reads.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
)

// tomlEngineConfig is the on-disk shape; Config is the validated,
// decimal-typed in-memory shape callers use.
type tomlEngineConfig struct {
	DefaultLanguage string          `toml:"default_language"`
	RoundingStep    string          `toml:"rounding_step"`
	Tables          tomlTableNames  `toml:"tables"`
}

type tomlTableNames struct {
	Articles    string `toml:"articles"`
	ShortTexts  string `toml:"short_texts"`
	LongTexts   string `toml:"long_texts"`
	ClassAssign string `toml:"class_assignments"`
}

// Config is one manufacturer's validated engine configuration.
type Config struct {
	DefaultLanguage string
	RoundingStep    *decimal.Decimal // nil: no rounding configured
	Tables          TableNames
}

// TableNames holds the table names parsed from the [tables] section. The
// engine does not apply them: catalog and price loading always read the
// fixed table names declared in the catalog and engine packages.
type TableNames struct {
	Articles    string
	ShortTexts  string
	LongTexts   string
	ClassAssign string
}

// Load parses path as a manufacturer engine configuration file.
func Load(path string) (Config, error) {
	var raw tomlEngineConfig
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return Config{}, fmt.Errorf("config: decoding %s: %w", path, err)
	}
	return fromRaw(raw)
}

// Parse parses TOML text directly, for tests and embedded defaults.
func Parse(text string) (Config, error) {
	var raw tomlEngineConfig
	if _, err := toml.Decode(text, &raw); err != nil {
		return Config{}, fmt.Errorf("config: decoding text: %w", err)
	}
	return fromRaw(raw)
}

func fromRaw(raw tomlEngineConfig) (Config, error) {
	cfg := Config{
		DefaultLanguage: raw.DefaultLanguage,
		Tables: TableNames{
			Articles:    raw.Tables.Articles,
			ShortTexts:  raw.Tables.ShortTexts,
			LongTexts:   raw.Tables.LongTexts,
			ClassAssign: raw.Tables.ClassAssign,
		},
	}
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = "en"
	}
	if raw.RoundingStep != "" {
		step, err := decimal.NewFromString(raw.RoundingStep)
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid rounding_step %q: %w", raw.RoundingStep, err)
		}
		cfg.RoundingStep = &step
	}
	return cfg, nil
}
