// Package queryparser provides the built-in boolean query parser. It turns
// a user query string into the grouped tree the indexer consumes; any
// parser producing the same tree shape can replace it.
//
// Grammar: `+term` mandatory, `-term` excluded, bare terms mandatory or
// optional per implicitPlus, quoted strings for phrases, parentheses for
// groups, `field:value` qualifiers, and infix AND / OR / NOT.
package queryparser

import (
	"strings"

	"github.com/anthropics/indexer-go/pkg/types"
)

// Parser is the built-in query parser.
type Parser struct{}

// New returns the built-in parser.
func New() *Parser {
	return &Parser{}
}

// Parse builds the query tree. implicitPlus makes bare terms mandatory
// instead of optional.
func (p *Parser) Parse(query string, implicitPlus bool) (*types.Query, error) {
	q, _ := parseGroup(tokenize(query), 0, implicitPlus)
	return q, nil
}

type tokKind int

const (
	tokWord tokKind = iota
	tokPhrase
	tokLParen
	tokRParen
	tokPlus
	tokMinus
	tokAnd
	tokOr
	tokNot
)

type token struct {
	kind  tokKind
	text  string
	field string
}

const delimiters = " \t\n\r()\"'"

func tokenize(s string) []token {
	var toks []token
	field := ""

	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			field = ""
			i++
		case c == '(':
			toks = append(toks, token{kind: tokLParen})
			i++
		case c == ')':
			toks = append(toks, token{kind: tokRParen})
			field = ""
			i++
		case c == '"' || c == '\'':
			j := i + 1
			for j < len(s) && s[j] != c {
				j++
			}
			toks = append(toks, token{kind: tokPhrase, text: s[i+1 : j], field: field})
			field = ""
			if j < len(s) {
				j++ // closing quote
			}
			i = j
		case c == '+':
			toks = append(toks, token{kind: tokPlus})
			i++
		case c == '-':
			toks = append(toks, token{kind: tokMinus})
			i++
		default:
			j := i
			for j < len(s) && !strings.ContainsRune(delimiters, rune(s[j])) {
				j++
			}
			word := s[i:j]
			i = j

			switch word {
			case "AND":
				toks = append(toks, token{kind: tokAnd})
			case "OR":
				toks = append(toks, token{kind: tokOr})
			case "NOT":
				toks = append(toks, token{kind: tokNot})
			default:
				if k := strings.IndexByte(word, ':'); k >= 0 {
					field = word[:k]
					if rest := word[k+1:]; rest != "" {
						toks = append(toks, token{kind: tokWord, text: rest, field: field})
						field = ""
					}
					// A trailing colon leaves the field pending for the
					// next word, phrase, or quoted string.
				} else {
					toks = append(toks, token{kind: tokWord, text: word, field: field})
					field = ""
				}
			}
		}
	}

	return toks
}

// parseGroup consumes tokens until the matching close paren (or the end)
// and buckets entries by sign. AND and OR adjust the default sign of their
// neighbors; explicit + and - always win.
func parseGroup(toks []token, pos int, implicitPlus bool) (*types.Query, int) {
	const optional = byte(0)
	defSign := optional
	if implicitPlus {
		defSign = '+'
	}

	type entry struct {
		sign     byte
		explicit bool
		sub      types.SubQuery
	}
	var entries []entry

	nextSign := defSign
	nextExplicit := false
	flush := func(sub types.SubQuery) {
		entries = append(entries, entry{nextSign, nextExplicit, sub})
		nextSign, nextExplicit = defSign, false
	}

	i := pos
loop:
	for i < len(toks) {
		t := toks[i]
		switch t.kind {
		case tokPlus:
			nextSign, nextExplicit = '+', true
			i++
		case tokMinus, tokNot:
			nextSign, nextExplicit = '-', true
			i++
		case tokAnd:
			if n := len(entries); n > 0 && !entries[n-1].explicit {
				entries[n-1].sign = '+'
			}
			nextSign, nextExplicit = '+', false
			i++
		case tokOr:
			if n := len(entries); n > 0 && !entries[n-1].explicit {
				entries[n-1].sign = optional
			}
			nextSign, nextExplicit = optional, false
			i++
		case tokWord, tokPhrase:
			flush(types.SubQuery{Field: t.field, Terms: []string{t.text}})
			i++
		case tokLParen:
			sub, next := parseGroup(toks, i+1, implicitPlus)
			flush(types.SubQuery{Group: sub})
			i = next
		case tokRParen:
			i++
			break loop
		}
	}

	q := &types.Query{}
	for _, e := range entries {
		switch e.sign {
		case '+':
			q.Mandatory = append(q.Mandatory, e.sub)
		case '-':
			q.Excluded = append(q.Excluded, e.sub)
		default:
			q.Optional = append(q.Optional, e.sub)
		}
	}
	return q, i
}
