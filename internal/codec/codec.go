// Package codec packs and unpacks the binary records stored in the index.
//
// All multi-byte variable quantities use the 7-bit continuation varint from
// encoding/binary, so small document ids, word ids, and positions cost one or
// two bytes. Fixed-width counters use big-endian 32-bit values.
package codec

import (
	"encoding/binary"
	"math"

	"github.com/anthropics/indexer-go/pkg/types"
)

// MaxOcc is the largest occurrence count a doc record can carry; larger
// counts clamp. The single-byte encoding is part of the on-disk format.
const MaxOcc = math.MaxUint8

// DocScore is one record in a word's document posting list.
type DocScore struct {
	Doc types.DocID
	Occ uint8
}

// ClampOcc narrows an occurrence count to the single-byte record field.
func ClampOcc(n int) uint8 {
	if n > MaxOcc {
		return MaxOcc
	}
	return uint8(n)
}

// AppendUint32 appends n as a varint.
func AppendUint32(b []byte, n uint32) []byte {
	return binary.AppendUvarint(b, uint64(n))
}

// Uint32 decodes one varint from b, returning the value and the number of
// bytes consumed. Values that do not fit in 32 bits are corrupt for this
// format.
func Uint32(b []byte) (uint32, int, error) {
	v, n := binary.Uvarint(b)
	if n <= 0 || v > math.MaxUint32 {
		return 0, 0, types.Errorf("codec.Uint32", types.ErrCorruptValue, "malformed varint")
	}
	return uint32(v), n, nil
}

// AppendDocScore appends one (docId, occ) record.
func AppendDocScore(b []byte, doc types.DocID, occ uint8) []byte {
	b = AppendUint32(b, uint32(doc))
	return append(b, occ)
}

// EncodeDocScores concatenates a list of (docId, occ) records.
func EncodeDocScores(recs []DocScore) []byte {
	b := make([]byte, 0, len(recs)*3)
	for _, r := range recs {
		b = AppendDocScore(b, r.Doc, r.Occ)
	}
	return b
}

// DecodeDocScores streams the records out of a word's posting value,
// preserving their on-disk order.
func DecodeDocScores(b []byte) ([]DocScore, error) {
	var recs []DocScore
	for len(b) > 0 {
		doc, n, err := Uint32(b)
		if err != nil {
			return nil, err
		}
		b = b[n:]
		if len(b) == 0 {
			return nil, types.Errorf("codec.DecodeDocScores", types.ErrCorruptValue, "record truncated before occurrence byte")
		}
		recs = append(recs, DocScore{Doc: types.DocID(doc), Occ: b[0]})
		b = b[1:]
	}
	return recs, nil
}

// DocScoreMap decodes a word's posting value into docId -> occ.
func DocScoreMap(b []byte) (map[types.DocID]int, error) {
	recs, err := DecodeDocScores(b)
	if err != nil {
		return nil, err
	}
	m := make(map[types.DocID]int, len(recs))
	for _, r := range recs {
		m[r.Doc] = int(r.Occ)
	}
	return m, nil
}

// DocWordKey encodes the (docId, wordId) composite key of the position store.
func DocWordKey(doc types.DocID, word uint32) []byte {
	b := make([]byte, 0, 2*binary.MaxVarintLen32)
	b = AppendUint32(b, uint32(doc))
	return AppendUint32(b, word)
}

// EncodePositions encodes an ascending in-document position list.
func EncodePositions(ps []uint32) []byte {
	b := make([]byte, 0, len(ps)*2)
	for _, p := range ps {
		b = AppendUint32(b, p)
	}
	return b
}

// DecodePositions decodes a position list.
func DecodePositions(b []byte) ([]uint32, error) {
	ps := make([]uint32, 0, len(b))
	for len(b) > 0 {
		p, n, err := Uint32(b)
		if err != nil {
			return nil, err
		}
		ps = append(ps, p)
		b = b[n:]
	}
	return ps, nil
}

// EncodeWordID encodes a dictionary value: a signed 32-bit word id, the
// stopword marker, or the reserved word counter.
func EncodeWordID(id types.WordID) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(id))
	return b
}

// DecodeWordID decodes a dictionary value.
func DecodeWordID(b []byte) (types.WordID, error) {
	if len(b) != 4 {
		return 0, types.Errorf("codec.DecodeWordID", types.ErrCorruptValue, "dictionary value is %d bytes, want 4", len(b))
	}
	return types.WordID(binary.BigEndian.Uint32(b)), nil
}

// EncodeCount encodes the document counter value.
func EncodeCount(n uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, n)
	return b
}

// DecodeCount decodes the document counter value.
func DecodeCount(b []byte) (uint32, error) {
	if len(b) != 4 {
		return 0, types.Errorf("codec.DecodeCount", types.ErrCorruptValue, "counter value is %d bytes, want 4", len(b))
	}
	return binary.BigEndian.Uint32(b), nil
}
