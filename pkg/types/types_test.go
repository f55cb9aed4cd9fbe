package types

import (
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	// Storage defaults
	if cfg.Storage.Dir != "." {
		t.Errorf("Storage.Dir = %s, want .", cfg.Storage.Dir)
	}
	if cfg.Storage.WriteMode {
		t.Error("Storage.WriteMode should default to false")
	}
	if cfg.Storage.CacheSize < 16<<20 {
		t.Errorf("Storage.CacheSize = %d, want at least 16 MiB", cfg.Storage.CacheSize)
	}

	// Lexing defaults
	if cfg.Lexing.WordRegex != `\w+` {
		t.Errorf("Lexing.WordRegex = %s, want \\w+", cfg.Lexing.WordRegex)
	}

	// Excerpt defaults
	if cfg.Excerpt.CtxtNumChars != 35 {
		t.Errorf("Excerpt.CtxtNumChars = %d, want 35", cfg.Excerpt.CtxtNumChars)
	}
	if cfg.Excerpt.MaxExcerpts != 5 {
		t.Errorf("Excerpt.MaxExcerpts = %d, want 5", cfg.Excerpt.MaxExcerpts)
	}
	if cfg.Excerpt.PreMatch != "<b>" || cfg.Excerpt.PostMatch != "</b>" {
		t.Errorf("Excerpt highlight delimiters = %q/%q, want <b>/</b>",
			cfg.Excerpt.PreMatch, cfg.Excerpt.PostMatch)
	}
}

func TestReservedWordIDs(t *testing.T) {
	if StopWordID >= 0 {
		t.Error("StopWordID must be negative")
	}
	if NoInfoID != 0 {
		t.Error("NoInfoID must be zero")
	}
}
