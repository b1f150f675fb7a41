package internal

import (
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/muninn/internal/extract"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Vault   VaultConfig       `yaml:"vault"`
	Extract ExtractConfig     `yaml:"extract"`
	Cite    CiteConfig        `yaml:"cite"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Vault.Validate(); err != nil {
		return err
	}
	if err := c.Extract.Validate(); err != nil {
		return err
	}
	return c.Cite.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// VaultConfig holds the note vault location.
type VaultConfig struct {
	Path string `yaml:"path"`
	// DailyDir is the vault-relative directory of daily notes.
	DailyDir string `yaml:"daily_dir"`
}

// Validate validates the vault configuration.
func (c *VaultConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// ExtractConfig holds metadata extraction configuration.
type ExtractConfig struct {
	extract.Config `yaml:",inline"`
	// Workers bounds scan concurrency; zero means one worker per CPU.
	Workers int `yaml:"workers"`
}

// Validate validates the extraction configuration.
func (c *ExtractConfig) Validate() error {
	if err := c.Config.Validate(); err != nil {
		return err
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Workers, validation.Min(0)),
	)
}

// CiteConfig holds bibliography and web-fetch configuration.
type CiteConfig struct {
	// Bibliography is the vault-relative path of the bibliography file.
	Bibliography string        `yaml:"bibliography"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	UserAgent    string        `yaml:"user_agent"`
}

// Validate validates the cite configuration.
func (c *CiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Bibliography, validation.Required),
		validation.Field(&c.FetchTimeout, validation.Required, validation.Min(time.Second)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Vault: VaultConfig{
			Path:     "./vault",
			DailyDir: "daily",
		},
		Extract: ExtractConfig{
			Config: extract.DefaultConfig(),
		},
		Cite: CiteConfig{
			Bibliography: "bibliography.org",
			FetchTimeout: 10 * time.Second,
			UserAgent:    "muninn/1.0",
		},
	}
}
