// Package indexer provides an embedded full-text indexer: documents keyed
// by caller-assigned 32-bit ids go in, ranked boolean and phrase queries
// with contextual excerpts come out. All state persists in keyed stores
// under one directory.
package indexer

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"

	"github.com/anthropics/indexer-go/internal/excerpt"
	"github.com/anthropics/indexer-go/internal/index"
	"github.com/anthropics/indexer-go/internal/lexer"
	"github.com/anthropics/indexer-go/internal/query"
	"github.com/anthropics/indexer-go/internal/queryparser"
	"github.com/anthropics/indexer-go/internal/storage"
	"github.com/anthropics/indexer-go/pkg/types"
)

// Indexer is a handle over one index directory. A handle is either
// read-only or read-write for its whole lifetime; operations on it are
// serialized in call order by the single caller.
type Indexer struct {
	cfg    types.Config
	store  *storage.Store
	ix     *index.Index
	lex    *lexer.Lexer
	parser types.QueryParser
}

// Result is the outcome of one search.
type Result struct {
	// Scores maps every matched document to its accumulated score.
	Scores types.Scores
	// KilledWords lists query terms that could not contribute: stopwords
	// and terms absent from the dictionary.
	KilledWords []string
	// Regex locates the query's surface terms in document text; feed it
	// to Excerpts. It matches nothing when the query had no terms.
	Regex *regexp.Regexp
}

// Open binds a handle over the stores under cfg.Storage.Dir. Write mode
// creates missing stores and installs the configured stopwords; read-only
// mode fails on missing stores and rejects stopword configuration.
func Open(cfg *types.Config) (*Indexer, error) {
	if cfg == nil {
		cfg = types.DefaultConfig()
	}

	lex, err := lexer.New(cfg.Lexing.WordRegex, cfg.Lexing.Filter)
	if err != nil {
		return nil, err
	}

	hasStopwords := len(cfg.Lexing.Stopwords) > 0 || cfg.Lexing.StopwordFile != ""
	if hasStopwords && !cfg.Storage.WriteMode {
		return nil, types.Errorf("indexer.Open", types.ErrStopwordsReadOnly, "stopwords can only be installed by a writer")
	}

	store, err := storage.Open(cfg.Storage)
	if err != nil {
		return nil, err
	}

	ix, err := index.Open(store)
	if err != nil {
		store.Close()
		return nil, err
	}

	x := &Indexer{
		cfg:   *cfg,
		store: store,
		ix:    ix,
		lex:   lex,
	}

	if hasStopwords {
		if err := x.installStopwords(); err != nil {
			store.Close()
			return nil, err
		}
	}

	return x, nil
}

// installStopwords marks the configured stopwords. A stopword file is
// tokenized with the handle's own word regex.
func (x *Indexer) installStopwords() error {
	words := append([]string(nil), x.cfg.Lexing.Stopwords...)

	if path := x.cfg.Lexing.StopwordFile; path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return types.WrapError("indexer.Open", types.ErrStopwordFile, err)
		}
		words = append(words, x.lex.Surface(string(data))...)
	}

	for _, w := range words {
		n := x.lex.Normalize(w)
		if n == "" {
			continue
		}
		if err := x.ix.MarkStopword(n); err != nil {
			return err
		}
	}
	return nil
}

// Add indexes buf under doc. Adding a doc again fails ErrDupDoc when buf
// shares an indexed word with the buffer already indexed under it; Remove
// it first. The postings update is committed before Add
// returns.
func (x *Indexer) Add(doc types.DocID, buf string) error {
	return x.ix.Add(doc, buf, x.lex)
}

// Remove unindexes doc. buf must be the same buffer that was added: the
// affected words are recovered by re-lexing it.
func (x *Indexer) Remove(doc types.DocID, buf string) error {
	return x.ix.Remove(doc, buf, x.lex)
}

// Search parses queryString, resolves it against the dictionary, and
// evaluates it. Unknown terms and stopwords are reported in
// Result.KilledWords, never as errors; a query with no usable terms
// returns empty scores, and a query with no terms at all also returns a
// regex that matches nothing.
func (x *Indexer) Search(queryString string, implicitPlus bool) (*Result, error) {
	if x.parser == nil {
		if x.cfg.Query.Parser != nil {
			x.parser = x.cfg.Query.Parser
		} else {
			x.parser = queryparser.New()
		}
	}

	q, err := x.parser.Parse(queryString, implicitPlus)
	if err != nil {
		return nil, types.WrapError("indexer.Search", types.ErrInvalidArg, err)
	}

	tr, err := query.NewTranslator(x.ix, x.lex, x.cfg.Query.FieldName).Translate(q)
	if err != nil {
		return nil, err
	}

	scores, err := query.NewEvaluator(x.ix).Evaluate(tr.Tree)
	if err != nil {
		return nil, err
	}
	if scores == nil {
		scores = types.Scores{}
	}

	sort.Strings(tr.KilledWords)

	return &Result{
		Scores:      scores,
		KilledWords: tr.KilledWords,
		Regex:       tr.Regex,
	}, nil
}

// Excerpts extracts highlighted snippets of buf around matches of re,
// usually the regex of a Search result.
func (x *Indexer) Excerpts(buf string, re *regexp.Regexp) []string {
	return excerpt.Extract(buf, re, x.cfg.Excerpt)
}

// Dump writes every dictionary term with its matching document ids to w,
// in term order. Stopword entries are flagged instead of listed.
func (x *Indexer) Dump(w io.Writer) error {
	return x.ix.Words(func(term string, id types.WordID) error {
		if id == types.StopWordID {
			_, err := fmt.Fprintf(w, "%s : *stopword*\n", term)
			return err
		}

		occs, err := x.ix.DocScores(id)
		if err != nil {
			return err
		}
		docs := make([]types.DocID, 0, len(occs))
		for d := range occs {
			docs = append(docs, d)
		}
		sort.Slice(docs, func(i, j int) bool { return docs[i] < docs[j] })

		if _, err := fmt.Fprintf(w, "%s :", term); err != nil {
			return err
		}
		for _, d := range docs {
			if _, err := fmt.Fprintf(w, " %d", d); err != nil {
				return err
			}
		}
		_, err = fmt.Fprintln(w)
		return err
	})
}

// Stats returns index statistics.
func (x *Indexer) Stats() (map[string]any, error) {
	docs, err := x.ix.DocCount()
	if err != nil {
		return nil, err
	}
	stats := x.store.Metrics()
	stats["word_count"] = uint32(x.ix.WordCount())
	stats["doc_count"] = docs
	return stats, nil
}

// Flush forces buffered store writes down to disk.
func (x *Indexer) Flush() error {
	return x.store.Flush()
}

// Close flushes and releases the handle. The stores outlive it.
func (x *Indexer) Close() error {
	if err := x.store.Flush(); err != nil {
		x.store.Close()
		return err
	}
	return x.store.Close()
}
