package excerpt

import (
	"regexp"
	"strings"
	"testing"

	"github.com/anthropics/indexer-go/pkg/types"
)

var foo = regexp.MustCompile(`(?i)foo`)

func cfg(ctxt, maxEx int) types.ExcerptConfig {
	return types.ExcerptConfig{
		CtxtNumChars: ctxt,
		MaxExcerpts:  maxEx,
		PreMatch:     "[",
		PostMatch:    "]",
	}
}

func TestExtract_MergedFragment(t *testing.T) {
	// The second match starts within the context width of the first, so
	// both land in one fragment with both hits highlighted.
	got := Extract("aa FOO bb cc FOO dd", foo, cfg(7, 5))
	if len(got) != 1 {
		t.Fatalf("got %d excerpts, want 1: %v", len(got), got)
	}
	if got[0] != "...aa [FOO] bb cc [FOO] dd..." {
		t.Errorf("excerpt = %q", got[0])
	}
}

func TestExtract_SeparateFragments(t *testing.T) {
	// With a narrow context the two matches stay apart.
	got := Extract("aa FOO bb cc FOO dd", foo, cfg(2, 5))
	if len(got) != 2 {
		t.Fatalf("got %d excerpts, want 2: %v", len(got), got)
	}
	if got[0] != "...a [FOO] b..." {
		t.Errorf("excerpt 0 = %q", got[0])
	}
	if got[1] != "...c [FOO] d..." {
		t.Errorf("excerpt 1 = %q", got[1])
	}
}

func TestExtract_MaxExcerpts(t *testing.T) {
	got := Extract("aa FOO bb cc FOO dd", foo, cfg(2, 1))
	if len(got) != 1 {
		t.Fatalf("got %d excerpts, want 1: %v", len(got), got)
	}
	// Equal counts: the earlier fragment wins.
	if got[0] != "...a [FOO] b..." {
		t.Errorf("excerpt = %q", got[0])
	}
}

func TestExtract_CountRanking(t *testing.T) {
	// The dense cluster at the end outranks the single early match.
	buf := "FOO " + strings.Repeat("x", 40) + " FOO FOO"
	got := Extract(buf, foo, cfg(4, 1))
	if len(got) != 1 {
		t.Fatalf("got %d excerpts, want 1: %v", len(got), got)
	}
	if !strings.Contains(got[0], "[FOO] [FOO]") {
		t.Errorf("kept the wrong fragment: %q", got[0])
	}
}

func TestExtract_BufferBounds(t *testing.T) {
	// Expansion clamps to the buffer on both ends.
	got := Extract("FOO", foo, cfg(10, 5))
	if len(got) != 1 {
		t.Fatalf("got %d excerpts, want 1", len(got))
	}
	if got[0] != "...[FOO]..." {
		t.Errorf("excerpt = %q", got[0])
	}
}

func TestExtract_NoMatch(t *testing.T) {
	if got := Extract("nothing here", foo, cfg(5, 5)); got != nil {
		t.Errorf("got %v, want nil", got)
	}
	if got := Extract("FOO", nil, cfg(5, 5)); got != nil {
		t.Errorf("nil regex: got %v, want nil", got)
	}
}
