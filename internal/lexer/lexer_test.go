package lexer

import (
	"errors"
	"testing"

	"github.com/anthropics/indexer-go/pkg/types"
)

type scanned struct {
	term string
	pos  uint32
}

func collect(t *testing.T, l *Lexer, buf string) []scanned {
	t.Helper()
	var out []scanned
	err := l.Scan(buf, func(term string, pos uint32) error {
		out = append(out, scanned{term, pos})
		return nil
	})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	return out
}

func TestNew_CapturingGroups(t *testing.T) {
	if _, err := New(`(\w+)`, nil); !errors.Is(err, types.ErrBadRegex) {
		t.Errorf("capturing group regex: err = %v, want ErrBadRegex", err)
	}
	// Non-capturing groups are fine.
	if _, err := New(`(?:\w)+`, nil); err != nil {
		t.Errorf("non-capturing group regex: %v", err)
	}
}

func TestNew_InvalidRegex(t *testing.T) {
	if _, err := New(`[`, nil); err == nil {
		t.Error("invalid regex accepted")
	}
}

func TestScan_Ordinals(t *testing.T) {
	l, err := New("", nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got := collect(t, l, "The quick brown fox")
	want := []scanned{{"the", 1}, {"quick", 2}, {"brown", 3}, {"fox", 4}}

	if len(got) != len(want) {
		t.Fatalf("scanned %d terms, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("term %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestScan_DroppedTermsKeepOrdinals(t *testing.T) {
	// A filter that drops short words must not renumber the others.
	drop := func(term string) string {
		if len(term) <= 3 {
			return ""
		}
		return DefaultFilter(term)
	}
	l, err := New("", drop)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got := collect(t, l, "the quick brown fox")
	want := []scanned{{"quick", 2}, {"brown", 3}}

	if len(got) != len(want) {
		t.Fatalf("scanned %d terms, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("term %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestDefaultFilter_Accents(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Fox", "fox"},
		{"déjà", "deja"},
		{"Élan", "elan"},
		{"naïve", "naive"},
		{"Ångström", "angstrom"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := DefaultFilter(tt.in); got != tt.want {
			t.Errorf("DefaultFilter(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSurface(t *testing.T) {
	l, err := New("", nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got := l.Surface("Quick-brown FOX")
	want := []string{"Quick", "brown", "FOX"}
	if len(got) != len(want) {
		t.Fatalf("Surface = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Surface[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestScan_CustomRegex(t *testing.T) {
	// Tokens with embedded apostrophes.
	l, err := New(`\w+(?:'\w+)*`, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got := collect(t, l, "don't stop")
	if len(got) != 2 || got[0].term != "don't" || got[1].term != "stop" {
		t.Errorf("scanned = %v", got)
	}
}
