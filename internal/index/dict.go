// Package index maintains the word dictionary and the postings over the
// keyed stores.
package index

import (
	"github.com/anthropics/indexer-go/internal/codec"
	"github.com/anthropics/indexer-go/internal/storage"
	"github.com/anthropics/indexer-go/pkg/types"
)

// Reserved store keys. They live beside ordinary entries and are part of
// the on-disk format; typed accessors below keep them out of the term and
// word-id namespaces everywhere else in the code.
const (
	nWordsKey = "_NWORDS" // store W: highest assigned word id
	nDocsKey  = "NDOCS"   // store D: total document count
)

// Index binds the dictionary and postings to an open store.
type Index struct {
	store *storage.Store

	// nWords caches the word counter. Only the writer mutates it; a
	// read-only handle keeps the value loaded at open.
	nWords types.WordID
}

// Open loads the word counter and returns an index over the store.
func Open(store *storage.Store) (*Index, error) {
	ix := &Index{store: store}

	val, ok, err := store.Get(storage.Word, []byte(nWordsKey))
	if err != nil {
		return nil, err
	}
	if ok {
		id, err := codec.DecodeWordID(val)
		if err != nil {
			return nil, err
		}
		ix.nWords = id
	}

	return ix, nil
}

// Store exposes the underlying store for iteration by Dump.
func (ix *Index) Store() *storage.Store {
	return ix.store
}

// WordCount returns the highest assigned word id.
func (ix *Index) WordCount() types.WordID {
	return ix.nWords
}

// WordID looks a normalized term up in the dictionary. A missing term
// returns ok=false; in read mode no id is ever assigned.
func (ix *Index) WordID(term string) (types.WordID, bool, error) {
	val, ok, err := ix.store.Get(storage.Word, []byte(term))
	if err != nil || !ok {
		return 0, false, err
	}
	id, err := codec.DecodeWordID(val)
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// assignWordID returns the existing id for term, or assigns the next one.
// Stopword entries are never overwritten.
func (ix *Index) assignWordID(term string) (types.WordID, error) {
	if id, ok, err := ix.WordID(term); err != nil || ok {
		return id, err
	}

	id := ix.nWords + 1
	if err := ix.store.Put(storage.Word, []byte(term), codec.EncodeWordID(id)); err != nil {
		return 0, err
	}
	if err := ix.store.Put(storage.Word, []byte(nWordsKey), codec.EncodeWordID(id)); err != nil {
		return 0, err
	}
	ix.nWords = id
	return id, nil
}

// MarkStopword stores the stopword marker for term. Marking a term that
// already carries a positive id fails: its postings would dangle.
func (ix *Index) MarkStopword(term string) error {
	id, ok, err := ix.WordID(term)
	if err != nil {
		return err
	}
	if ok {
		if id > 0 {
			return types.Errorf("index.MarkStopword", types.ErrStopwordAfterWrite, "term %q already has id %d", term, id)
		}
		return nil // already a stopword
	}
	return ix.store.Put(storage.Word, []byte(term), codec.EncodeWordID(types.StopWordID))
}

// IsReserved reports whether a store W key is a reserved counter rather
// than a dictionary term.
func IsReserved(term string) bool {
	return term == nWordsKey
}

// Words walks every dictionary entry in term order, skipping the reserved
// counter.
func (ix *Index) Words(fn func(term string, id types.WordID) error) error {
	return ix.store.Iterate(storage.Word, func(key, value []byte) error {
		term := string(key)
		if IsReserved(term) {
			return nil
		}
		id, err := codec.DecodeWordID(value)
		if err != nil {
			return err
		}
		return fn(term, id)
	})
}
