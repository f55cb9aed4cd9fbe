package queryparser

import (
	"testing"

	"github.com/anthropics/indexer-go/pkg/types"
)

func parse(t *testing.T, q string, implicitPlus bool) *types.Query {
	t.Helper()
	out, err := New().Parse(q, implicitPlus)
	if err != nil {
		t.Fatalf("Parse(%q): %v", q, err)
	}
	return out
}

func TestParse_BareTerms(t *testing.T) {
	q := parse(t, "quick brown", true)
	if len(q.Mandatory) != 2 || len(q.Optional) != 0 {
		t.Fatalf("implicitPlus: mandatory %d, optional %d", len(q.Mandatory), len(q.Optional))
	}
	if q.Mandatory[0].Terms[0] != "quick" || q.Mandatory[1].Terms[0] != "brown" {
		t.Errorf("terms = %v %v", q.Mandatory[0].Terms, q.Mandatory[1].Terms)
	}

	q = parse(t, "quick brown", false)
	if len(q.Optional) != 2 || len(q.Mandatory) != 0 {
		t.Fatalf("no implicitPlus: mandatory %d, optional %d", len(q.Mandatory), len(q.Optional))
	}
}

func TestParse_Signs(t *testing.T) {
	q := parse(t, "+brown -dogs fox", false)
	if len(q.Mandatory) != 1 || q.Mandatory[0].Terms[0] != "brown" {
		t.Errorf("mandatory = %+v", q.Mandatory)
	}
	if len(q.Excluded) != 1 || q.Excluded[0].Terms[0] != "dogs" {
		t.Errorf("excluded = %+v", q.Excluded)
	}
	if len(q.Optional) != 1 || q.Optional[0].Terms[0] != "fox" {
		t.Errorf("optional = %+v", q.Optional)
	}
}

func TestParse_Or(t *testing.T) {
	// OR demotes both sides to optional even under implicitPlus.
	q := parse(t, "fox OR dogs", true)
	if len(q.Optional) != 2 {
		t.Fatalf("optional = %+v, mandatory = %+v", q.Optional, q.Mandatory)
	}
	if q.Optional[0].Terms[0] != "fox" || q.Optional[1].Terms[0] != "dogs" {
		t.Errorf("optional terms = %+v", q.Optional)
	}
}

func TestParse_AndNot(t *testing.T) {
	q := parse(t, "quick AND brown NOT dogs", false)
	if len(q.Mandatory) != 2 {
		t.Fatalf("mandatory = %+v", q.Mandatory)
	}
	if len(q.Excluded) != 1 || q.Excluded[0].Terms[0] != "dogs" {
		t.Errorf("excluded = %+v", q.Excluded)
	}
}

func TestParse_Phrase(t *testing.T) {
	q := parse(t, `"quick brown" fox`, true)
	if len(q.Mandatory) != 2 {
		t.Fatalf("mandatory = %+v", q.Mandatory)
	}
	if q.Mandatory[0].Terms[0] != "quick brown" {
		t.Errorf("phrase = %q", q.Mandatory[0].Terms[0])
	}

	// Single quotes work too.
	q = parse(t, "'lazy fox'", true)
	if len(q.Mandatory) != 1 || q.Mandatory[0].Terms[0] != "lazy fox" {
		t.Errorf("single-quoted phrase = %+v", q.Mandatory)
	}
}

func TestParse_Field(t *testing.T) {
	q := parse(t, `author:tolkien fulltext:"quick brown"`, true)
	if len(q.Mandatory) != 2 {
		t.Fatalf("mandatory = %+v", q.Mandatory)
	}
	if q.Mandatory[0].Field != "author" || q.Mandatory[0].Terms[0] != "tolkien" {
		t.Errorf("field sub = %+v", q.Mandatory[0])
	}
	if q.Mandatory[1].Field != "fulltext" || q.Mandatory[1].Terms[0] != "quick brown" {
		t.Errorf("field phrase sub = %+v", q.Mandatory[1])
	}
}

func TestParse_Group(t *testing.T) {
	q := parse(t, "brown +(dogs OR lazy)", true)
	if len(q.Mandatory) != 2 {
		t.Fatalf("mandatory = %+v", q.Mandatory)
	}
	g := q.Mandatory[1].Group
	if g == nil {
		t.Fatal("second mandatory entry is not a group")
	}
	if len(g.Optional) != 2 {
		t.Errorf("group optional = %+v", g.Optional)
	}
}

func TestParse_UnclosedQuote(t *testing.T) {
	// Lenient: an unclosed quote takes the rest of the string.
	q := parse(t, `"quick brown`, true)
	if len(q.Mandatory) != 1 || q.Mandatory[0].Terms[0] != "quick brown" {
		t.Errorf("mandatory = %+v", q.Mandatory)
	}
}

func TestParse_Empty(t *testing.T) {
	q := parse(t, "   ", true)
	if len(q.Mandatory)+len(q.Optional)+len(q.Excluded) != 0 {
		t.Errorf("empty query produced entries: %+v", q)
	}
}
