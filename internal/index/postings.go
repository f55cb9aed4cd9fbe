package index

import (
	"github.com/anthropics/indexer-go/internal/codec"
	"github.com/anthropics/indexer-go/internal/storage"
	"github.com/anthropics/indexer-go/pkg/types"
)

// wordKey encodes a store D key.
func wordKey(id types.WordID) []byte {
	return codec.AppendUint32(nil, uint32(id))
}

// DecodeWordKey decodes a store D key back to its word id.
func DecodeWordKey(key []byte) (types.WordID, error) {
	id, _, err := codec.Uint32(key)
	return types.WordID(id), err
}

// DocScores returns docId -> occurrence count for one word, or nil if the
// word has no postings.
func (ix *Index) DocScores(id types.WordID) (map[types.DocID]int, error) {
	val, ok, err := ix.store.Get(storage.Doc, wordKey(id))
	if err != nil || !ok {
		return nil, err
	}
	return codec.DocScoreMap(val)
}

// Positions returns the in-document position list of (doc, word), or nil
// if the pair has no entry.
func (ix *Index) Positions(doc types.DocID, id types.WordID) ([]uint32, error) {
	val, ok, err := ix.store.Get(storage.Pos, codec.DocWordKey(doc, uint32(id)))
	if err != nil || !ok {
		return nil, err
	}
	return codec.DecodePositions(val)
}

// hasPositions reports whether (doc, word) already has a position entry.
func (ix *Index) hasPositions(doc types.DocID, id types.WordID) (bool, error) {
	_, ok, err := ix.store.Get(storage.Pos, codec.DocWordKey(doc, uint32(id)))
	return ok, err
}

// DocCount returns the total number of indexed documents.
func (ix *Index) DocCount() (uint32, error) {
	val, ok, err := ix.store.Get(storage.Doc, []byte(nDocsKey))
	if err != nil || !ok {
		return 0, err
	}
	return codec.DecodeCount(val)
}
