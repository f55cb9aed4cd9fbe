// Package query translates parsed query trees against the dictionary and
// evaluates them into ranked document scores.
package query

import (
	"regexp"
	"strings"

	"github.com/anthropics/indexer-go/internal/index"
	"github.com/anthropics/indexer-go/internal/lexer"
	"github.com/anthropics/indexer-go/pkg/types"
)

// Translated is a query tree with every surface term resolved to a word id.
type Translated struct {
	Mandatory []Sub
	Optional  []Sub
	Excluded  []Sub
}

// Sub is one translated subquery: a single word, an exact phrase, or a
// parenthesized group.
type Sub struct {
	Word   types.WordID   // single term; NoInfoID when nothing matched
	Phrase []types.WordID // exact phrase of two or more terms
	Group  *Translated    // parenthesized group
}

// Translation carries the translated tree plus everything the caller needs
// to present results: the terms that could not contribute, and a combined
// regex locating the query's surface terms in document text.
type Translation struct {
	Tree        *Translated
	KilledWords []string
	Regex       *regexp.Regexp
}

// matchNothing never matches any input; it stands in for the excerpt regex
// of a query with no usable terms.
var matchNothing = regexp.MustCompile(`[^\s\S]`)

// Translator resolves parser output against one index.
type Translator struct {
	ix        *index.Index
	lex       *lexer.Lexer
	fieldName string
}

// NewTranslator returns a translator bound to the index, its lexer, and the
// accepted field name.
func NewTranslator(ix *index.Index, lex *lexer.Lexer, fieldName string) *Translator {
	return &Translator{ix: ix, lex: lex, fieldName: fieldName}
}

// Translate walks the parsed tree, resolving terms to word ids. Unknown
// terms and stopwords are not errors: they land in KilledWords and keep a
// reserved id so phrase slots stay aligned.
func (t *Translator) Translate(q *types.Query) (*Translation, error) {
	killed := make(map[string]struct{})
	var fragments []string

	tree, err := t.translateGroup(q, killed, &fragments)
	if err != nil {
		return nil, err
	}

	out := &Translation{Tree: tree, Regex: matchNothing}
	for w := range killed {
		out.KilledWords = append(out.KilledWords, w)
	}

	if frags := dedupe(fragments); len(frags) > 0 {
		re, err := regexp.Compile(`(?i)\b(?:` + strings.Join(frags, "|") + `)\b`)
		if err != nil {
			return nil, types.WrapError("query.Translate", types.ErrInvalidArg, err)
		}
		out.Regex = re
	}

	return out, nil
}

func (t *Translator) translateGroup(q *types.Query, killed map[string]struct{}, fragments *[]string) (*Translated, error) {
	out := &Translated{}

	groups := []struct {
		in   []types.SubQuery
		dest *[]Sub
	}{
		{q.Mandatory, &out.Mandatory},
		{q.Optional, &out.Optional},
		{q.Excluded, &out.Excluded},
	}

	for _, g := range groups {
		for _, sq := range g.in {
			sub, ok, err := t.translateSub(sq, killed, fragments)
			if err != nil {
				return nil, err
			}
			if ok {
				*g.dest = append(*g.dest, sub)
			}
		}
	}

	return out, nil
}

func (t *Translator) translateSub(sq types.SubQuery, killed map[string]struct{}, fragments *[]string) (Sub, bool, error) {
	if sq.Group != nil {
		g, err := t.translateGroup(sq.Group, killed, fragments)
		if err != nil {
			return Sub{}, false, err
		}
		return Sub{Group: g}, true, nil
	}

	// A subquery qualified with a foreign field is someone else's business.
	if sq.Field != "" && sq.Field != t.fieldName {
		return Sub{}, false, nil
	}

	// Re-tokenize with our own word regex; the parser's idea of term
	// boundaries need not match the indexer's.
	surface := t.lex.Surface(strings.Join(sq.Terms, " "))
	if len(surface) == 0 {
		return Sub{Word: types.NoInfoID}, true, nil
	}

	*fragments = append(*fragments, joinFragment(surface))
	normalized := make([]string, 0, len(surface))
	for _, term := range surface {
		if n := t.lex.Normalize(term); n != "" {
			normalized = append(normalized, n)
		}
	}
	if len(normalized) > 0 {
		*fragments = append(*fragments, joinFragment(normalized))
	}

	ids := make([]types.WordID, 0, len(surface))
	for _, term := range surface {
		id := types.NoInfoID
		if n := t.lex.Normalize(term); n != "" {
			known, ok, err := t.ix.WordID(n)
			if err != nil {
				return Sub{}, false, err
			}
			if ok {
				id = known
			}
		}
		if id <= 0 {
			killed[term] = struct{}{}
		}
		ids = append(ids, id)
	}

	if len(ids) == 1 {
		return Sub{Word: ids[0]}, true, nil
	}
	return Sub{Phrase: ids}, true, nil
}

// joinFragment turns a term sequence into one excerpt-regex alternative:
// the quoted terms separated by runs of non-word characters.
func joinFragment(terms []string) string {
	quoted := make([]string, len(terms))
	for i, w := range terms {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(quoted, `\W+`)
}

func dedupe(fragments []string) []string {
	seen := make(map[string]struct{}, len(fragments))
	out := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
