// Package types defines the core data types for the full-text indexer.
package types

// DocID is a caller-assigned 32-bit document identifier.
type DocID uint32

// WordID identifies a normalized term in the dictionary.
// Positive values are assigned ids; the two reserved values below never
// appear as postings keys.
type WordID int32

const (
	// StopWordID marks a term excluded from indexing and queries.
	StopWordID WordID = -1
	// NoInfoID stands for a query term absent from the dictionary.
	NoInfoID WordID = 0
)

// Scores maps matched documents to their accumulated relevance score.
type Scores map[DocID]int

// WordFilter normalizes a surface term before dictionary lookup.
// Returning the empty string drops the term.
type WordFilter func(term string) string

// Query is a parsed boolean query: subqueries grouped by sign.
type Query struct {
	Mandatory []SubQuery // '+' group: every subquery must match
	Optional  []SubQuery // unsigned group: matches add to the score
	Excluded  []SubQuery // '-' group: matching docs are removed
}

// SubQuery is a single entry in a query group: either one or more surface
// terms (several terms form an exact phrase), or a parenthesized group.
type SubQuery struct {
	Field string   // optional field qualifier; empty matches any field
	Terms []string // surface terms; nil when Group is set
	Group *Query   // parenthesized subquery; nil when Terms is set
}

// QueryParser turns a user query string into a Query tree. The indexer only
// consumes the tree; parsing syntax is the parser's business.
type QueryParser interface {
	Parse(query string, implicitPlus bool) (*Query, error)
}
