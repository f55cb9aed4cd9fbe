package index

import (
	"sort"

	"github.com/anthropics/indexer-go/internal/codec"
	"github.com/anthropics/indexer-go/internal/lexer"
	"github.com/anthropics/indexer-go/internal/storage"
	"github.com/anthropics/indexer-go/pkg/types"
)

// Add indexes buf under doc. Every term acquires an id on first sight;
// stopword-marked terms are skipped but still consume a position ordinal.
// Add fails ErrDupDoc when any indexed word of buf already has a position
// entry for doc; a second add under the same doc whose buffer shares no
// indexed word with the first is not detected.
func (ix *Index) Add(doc types.DocID, buf string, lex *lexer.Lexer) error {
	if ix.store.ReadOnly() {
		return types.Errorf("index.Add", types.ErrReadOnly, "cannot add document %d", doc)
	}

	// Build wordId -> ordered position list. Dictionary growth persists
	// even if the add fails afterwards; entries are never deleted.
	words := make(map[types.WordID][]uint32)
	err := lex.Scan(buf, func(term string, pos uint32) error {
		id, err := ix.assignWordID(term)
		if err != nil {
			return err
		}
		if id == types.StopWordID {
			return nil
		}
		words[id] = append(words[id], pos)
		return nil
	})
	if err != nil {
		return err
	}

	// Refuse a duplicate add before touching any posting.
	for id := range words {
		ok, err := ix.hasPositions(doc, id)
		if err != nil {
			return err
		}
		if ok {
			return types.Errorf("index.Add", types.ErrDupDoc, "document %d already indexed, remove it first", doc)
		}
	}

	batch := ix.store.NewBatch()
	defer batch.Close()

	for id, positions := range words {
		key := wordKey(id)
		cur, _, err := ix.store.Get(storage.Doc, key)
		if err != nil {
			return err
		}
		cur = codec.AppendDocScore(cur, doc, codec.ClampOcc(len(positions)))
		if err := batch.Put(storage.Doc, key, cur); err != nil {
			return err
		}
		if err := batch.Put(storage.Pos, codec.DocWordKey(doc, uint32(id)), codec.EncodePositions(positions)); err != nil {
			return err
		}
	}

	n, err := ix.DocCount()
	if err != nil {
		return err
	}
	if err := batch.Put(storage.Doc, []byte(nDocsKey), codec.EncodeCount(n+1)); err != nil {
		return err
	}

	return batch.Commit()
}

// Remove unindexes doc, given the same buf that was added. The word ids to
// touch are recovered by re-lexing, so the caller must supply the original
// buffer. Removing a doc that was never added leaves postings alone but
// still decrements the document counter.
func (ix *Index) Remove(doc types.DocID, buf string, lex *lexer.Lexer) error {
	if ix.store.ReadOnly() {
		return types.Errorf("index.Remove", types.ErrReadOnly, "cannot remove document %d", doc)
	}

	seen := make(map[types.WordID]struct{})
	err := lex.Scan(buf, func(term string, _ uint32) error {
		id, ok, err := ix.WordID(term)
		if err != nil {
			return err
		}
		if ok && id > 0 {
			seen[id] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Walk the words in a stable order so a crash mid-operation is at
	// least reproducible.
	ids := make([]types.WordID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	batch := ix.store.NewBatch()
	defer batch.Close()

	for _, id := range ids {
		key := wordKey(id)
		cur, ok, err := ix.store.Get(storage.Doc, key)
		if err != nil {
			return err
		}
		if ok {
			recs, err := codec.DecodeDocScores(cur)
			if err != nil {
				return err
			}
			kept := recs[:0]
			for _, r := range recs {
				if r.Doc != doc {
					kept = append(kept, r)
				}
			}
			if err := batch.Put(storage.Doc, key, codec.EncodeDocScores(kept)); err != nil {
				return err
			}
		}
		if err := batch.Delete(storage.Pos, codec.DocWordKey(doc, uint32(id))); err != nil {
			return err
		}
	}

	n, err := ix.DocCount()
	if err != nil {
		return err
	}
	if n > 0 {
		n--
	}
	if err := batch.Put(storage.Doc, []byte(nDocsKey), codec.EncodeCount(n)); err != nil {
		return err
	}

	return batch.Commit()
}
