// Package config provides Viper-based configuration loading for bloodrage.
package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. BLOODRAGE_LOGGING_LEVEL.
const EnvPrefix = "BLOODRAGE"

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output lists log sinks: "stderr", "stdout" or file paths.
	Output []string `mapstructure:"output"`
}

// CombatConfig tunes the encounter rules.
type CombatConfig struct {
	// PlayerTurnTimeout skips a player's turn after this long without input.
	// Zero waits indefinitely.
	PlayerTurnTimeout time.Duration `mapstructure:"player_turn_timeout"`
	// MaxAbilitySlots caps how many abilities a character can field.
	MaxAbilitySlots int `mapstructure:"max_ability_slots"`
	// SkipTurnAnger is granted to a combatant that skips its turn.
	SkipTurnAnger int `mapstructure:"skip_turn_anger"`
	// Seed makes random draws reproducible. Zero draws from crypto/rand.
	Seed uint64 `mapstructure:"seed"`
}

// ContentConfig locates the authored content.
type ContentConfig struct {
	EffectsDir    string `mapstructure:"effects_dir"`
	AbilitiesDir  string `mapstructure:"abilities_dir"`
	CharactersDir string `mapstructure:"characters_dir"`
	ScenesDir     string `mapstructure:"scenes_dir"`
	// TacticsDir holds ai domain YAML. Optional.
	TacticsDir string `mapstructure:"tactics_dir"`
	// ScriptsDir holds one subdirectory of Lua files per script scope. Optional.
	ScriptsDir string `mapstructure:"scripts_dir"`
	// ScriptInstructionLimit bounds each Lua hook call; 0 uses the scripting default.
	ScriptInstructionLimit int `mapstructure:"script_instruction_limit"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	// Enabled turns on the encounter outcome log.
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	// MigrationsDir is the golang-migrate file source.
	MigrationsDir string `mapstructure:"migrations_dir"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// Config is the top-level application configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Combat   CombatConfig   `mapstructure:"combat"`
	Content  ContentConfig  `mapstructure:"content"`
	Database DatabaseConfig `mapstructure:"database"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string
	for _, err := range []error{
		validateLogging(c.Logging),
		validateCombat(c.Combat),
		validateContent(c.Content),
		validateDatabase(c.Database),
	} {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateCombat(c CombatConfig) error {
	var errs []string
	if c.PlayerTurnTimeout < 0 {
		errs = append(errs, "combat.player_turn_timeout must not be negative")
	}
	if c.MaxAbilitySlots < 1 {
		errs = append(errs, fmt.Sprintf("combat.max_ability_slots must be >= 1, got %d", c.MaxAbilitySlots))
	}
	if c.SkipTurnAnger < 0 {
		errs = append(errs, fmt.Sprintf("combat.skip_turn_anger must be >= 0, got %d", c.SkipTurnAnger))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	for key, dir := range map[string]string{
		"content.effects_dir":    c.EffectsDir,
		"content.abilities_dir":  c.AbilitiesDir,
		"content.characters_dir": c.CharactersDir,
		"content.scenes_dir":     c.ScenesDir,
	} {
		if dir == "" {
			errs = append(errs, key+" must not be empty")
		}
	}
	if c.ScriptInstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("content.script_instruction_limit must be >= 0, got %d", c.ScriptInstructionLimit))
	}
	if len(errs) > 0 {
		sort.Strings(errs)
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	if !d.Enabled {
		return nil
	}
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := NewViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// NewViper returns a Viper instance with defaults and BLOODRAGE_ environment
// overrides installed but no config file.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", []string{"stderr"})

	v.SetDefault("combat.player_turn_timeout", "0s")
	v.SetDefault("combat.max_ability_slots", 4)
	v.SetDefault("combat.skip_turn_anger", 5)
	v.SetDefault("combat.seed", 0)

	v.SetDefault("content.effects_dir", "content/effects")
	v.SetDefault("content.abilities_dir", "content/abilities")
	v.SetDefault("content.characters_dir", "content/characters")
	v.SetDefault("content.scenes_dir", "content/scenes")
	v.SetDefault("content.tactics_dir", "content/tactics")
	v.SetDefault("content.scripts_dir", "content/scripts")
	v.SetDefault("content.script_instruction_limit", 0)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "bloodrage")
	v.SetDefault("database.password", "bloodrage")
	v.SetDefault("database.name", "bloodrage")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.migrations_dir", "migrations")
}
