package query

import (
	"math"

	"github.com/anthropics/indexer-go/internal/index"
	"github.com/anthropics/indexer-go/pkg/types"
)

// Evaluator combines translated subqueries into document scores.
//
// A nil Scores value means "no information" and is distinct from an empty
// map: a mandatory term with no information is skipped, one with an empty
// result empties the whole intersection.
type Evaluator struct {
	ix *index.Index
}

// NewEvaluator returns an evaluator over the index.
func NewEvaluator(ix *index.Index) *Evaluator {
	return &Evaluator{ix: ix}
}

// Evaluate runs the three groups in order: mandatory terms intersect,
// optional terms add (and seed the result when there is no mandatory
// group), excluded terms subtract.
func (e *Evaluator) Evaluate(tr *Translated) (types.Scores, error) {
	var scores types.Scores

	for _, sub := range tr.Mandatory {
		sc, err := e.scoreSub(sub)
		if err != nil {
			return nil, err
		}
		if sc == nil {
			continue
		}
		if scores == nil {
			scores = sc
			continue
		}
		for doc := range scores {
			v, ok := sc[doc]
			if !ok {
				delete(scores, doc)
				continue
			}
			scores[doc] += v
		}
	}

	noMandatory := scores == nil

	for _, sub := range tr.Optional {
		sc, err := e.scoreSub(sub)
		if err != nil {
			return nil, err
		}
		if sc == nil {
			continue
		}
		if scores == nil {
			scores = sc
			continue
		}
		for doc, v := range sc {
			if _, ok := scores[doc]; ok {
				scores[doc] += v
			} else if noMandatory {
				scores[doc] = v
			}
		}
	}

	if scores == nil {
		return nil, nil
	}

	for _, sub := range tr.Excluded {
		sc, err := e.scoreSub(sub)
		if err != nil {
			return nil, err
		}
		for doc := range sc {
			delete(scores, doc)
		}
	}

	return scores, nil
}

func (e *Evaluator) scoreSub(sub Sub) (types.Scores, error) {
	if sub.Group != nil {
		return e.Evaluate(sub.Group)
	}
	if sub.Phrase != nil {
		return e.scorePhrase(sub.Phrase)
	}
	return e.scoreWord(sub.Word)
}

// scoreWord reads one word's postings and weights occurrence counts by
// inverse document frequency: floor(log((N+1)/k) * 100 * occ).
func (e *Evaluator) scoreWord(id types.WordID) (types.Scores, error) {
	if id <= 0 {
		return nil, nil // stopword or no information
	}

	occs, err := e.ix.DocScores(id)
	if err != nil {
		return nil, err
	}
	if len(occs) == 0 {
		return nil, nil
	}

	n, err := e.ix.DocCount()
	if err != nil {
		return nil, err
	}
	coeff := math.Log(float64(n+1)/float64(len(occs))) * 100

	scores := make(types.Scores, len(occs))
	for doc, occ := range occs {
		scores[doc] = int(math.Floor(coeff * float64(occ)))
	}
	return scores, nil
}

// scorePhrase intersects the phrase's words by position proximity. The
// first informative word anchors the window; each later word must sit 1 to
// wordDelta positions after a surviving position of the previous
// informative word, where wordDelta counts the words seen since the
// anchor. A stopword inside the phrase widens the window without
// filtering; one before the anchor is skipped and widens nothing.
func (e *Evaluator) scorePhrase(ids []types.WordID) (types.Scores, error) {
	var scores types.Scores
	pos := make(map[types.DocID][]uint32)
	wordDelta := uint32(0)

	for _, id := range ids {
		sc, err := e.scoreWord(id)
		if err != nil {
			return nil, err
		}

		if scores == nil {
			if sc == nil {
				continue
			}
			scores = sc
			for doc := range scores {
				p, err := e.ix.Positions(doc, id)
				if err != nil {
					return nil, err
				}
				pos[doc] = p
			}
			continue
		}

		wordDelta++
		if sc == nil {
			continue // free slot
		}

		for doc := range scores {
			v, ok := sc[doc]
			if !ok {
				delete(scores, doc)
				continue
			}
			np, err := e.ix.Positions(doc, id)
			if err != nil {
				return nil, err
			}
			near := nearPositions(pos[doc], np, wordDelta)
			if len(near) == 0 {
				delete(scores, doc)
				continue
			}
			pos[doc] = near
			scores[doc] += v
		}
	}

	return scores, nil
}

// nearPositions returns the elements of b lying at most delta positions
// after some element of a. Both inputs are sorted ascending; two cursors
// walk them once.
func nearPositions(a, b []uint32, delta uint32) []uint32 {
	var out []uint32
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case uint64(b[j]) > uint64(a[i])+uint64(delta):
			i++
		case b[j] > a[i]:
			out = append(out, b[j])
			j++
		default:
			j++
		}
	}
	return out
}
