// Package lexer turns document text into (term, position) pairs using a
// configurable word regex and normalizer.
package lexer

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/anthropics/indexer-go/pkg/types"
)

// DefaultWordRegex matches one token when no regex is configured.
const DefaultWordRegex = `\w+`

// Lexer applies the word regex, then the normalizer, to a buffer.
type Lexer struct {
	re     *regexp.Regexp
	filter types.WordFilter
}

// New compiles the word regex and binds the normalizer. An empty regex
// selects DefaultWordRegex; a nil filter selects DefaultFilter. A regex
// with capturing groups is rejected: group submatches would shift the
// match boundaries the translator relies on.
func New(wordRegex string, filter types.WordFilter) (*Lexer, error) {
	if wordRegex == "" {
		wordRegex = DefaultWordRegex
	}
	re, err := regexp.Compile(wordRegex)
	if err != nil {
		return nil, types.WrapError("lexer.New", types.ErrInvalidArg, err)
	}
	if re.NumSubexp() > 0 {
		return nil, types.Errorf("lexer.New", types.ErrBadRegex, "%q contains %d capturing groups", wordRegex, re.NumSubexp())
	}
	if filter == nil {
		filter = DefaultFilter
	}
	return &Lexer{re: re, filter: filter}, nil
}

// Scan yields each normalized term of buf with its 1-based match ordinal.
// The ordinal counts every regex match whether or not the normalizer drops
// it, so positions are stable across normalizers: removing stopwords does
// not renumber the surrounding terms.
func (l *Lexer) Scan(buf string, fn func(term string, pos uint32) error) error {
	var pos uint32
	for _, m := range l.re.FindAllString(buf, -1) {
		pos++
		term := l.filter(m)
		if term == "" {
			continue
		}
		if err := fn(term, pos); err != nil {
			return err
		}
	}
	return nil
}

// Surface returns the raw regex matches of buf, unnormalized. The query
// translator uses it to split subquery values with the indexer's own word
// regex, so the parser and the indexer need not agree on term boundaries.
func (l *Lexer) Surface(buf string) []string {
	return l.re.FindAllString(buf, -1)
}

// Normalize runs the configured filter on one surface term.
func (l *Lexer) Normalize(term string) string {
	return l.filter(term)
}

// DefaultFilter lowercases the term and folds accented characters to their
// ASCII base. It never drops a term.
func DefaultFilter(term string) string {
	term = strings.ToLower(term)
	if isASCII(term) {
		return term
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, term)
	if err != nil {
		return term
	}
	return folded
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
