package internal

import (
	"testing"
	"time"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestVaultConfig_PathRequired(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Vault.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty vault path should fail validation")
	}
}

func TestExtractConfig_UnknownSource(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Extract.TagSources = append(cfg.Extract.TagSources, "magic")
	if err := cfg.Validate(); err == nil {
		t.Fatal("unknown tag source should fail validation")
	}
}

func TestExtractConfig_NegativeWorkers(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Extract.Workers = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("negative workers should fail validation")
	}
}

func TestCiteConfig_BibliographyRequired(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Cite.Bibliography = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty bibliography path should fail validation")
	}
}

func TestCiteConfig_TimeoutTooShort(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Cite.FetchTimeout = 10 * time.Millisecond
	if err := cfg.Validate(); err == nil {
		t.Fatal("sub-second fetch timeout should fail validation")
	}
}
