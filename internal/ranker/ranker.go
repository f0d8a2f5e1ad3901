// Package ranker scores documents against a free-text query by cosine
// similarity over TF-IDF vectors (SMART ltc weighting: log tf, log idf,
// cosine normalization applied to the query vector; document vectors are
// length-normalized at scoring time by dividing by the precomputed norm).
package ranker

import (
	"math"
	"sort"

	"github.com/Yateesh1508/IR-ASSIGNMENT/internal/index"
	"github.com/Yateesh1508/IR-ASSIGNMENT/internal/tokenizer"
)

// ScoredDoc is one ranked result.
type ScoredDoc struct {
	DocID int     `json:"doc_id"`
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Rank returns the topK highest-scoring documents for query. Fewer than
// topK documents are returned when fewer score above zero; topK <= 0 yields
// an empty list. The ranker never mutates ix, so any number of Rank calls
// may run concurrently over the same index.
func Rank(query string, ix *index.Index, topK int) []ScoredDoc {
	ranked := RankAll(query, ix)
	if topK < 0 {
		topK = 0
	}
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked
}

// RankAll returns every document with a nonzero score, sorted by descending
// score with ties broken by ascending document ID. The ordering is a total
// order, so identical corpus and query always produce identical output.
func RankAll(query string, ix *index.Index) []ScoredDoc {
	n := ix.DocCount()
	if n == 0 {
		return nil
	}

	freqs := tokenizer.Frequencies(query)
	terms := make([]string, 0, len(freqs))
	for term := range freqs {
		terms = append(terms, term)
	}
	// Float addition is not associative; both the query norm and the
	// per-document score sums run over the terms in sorted order so that the
	// same query always yields bit-identical scores.
	sort.Strings(terms)

	// Query vector over in-vocabulary terms only; terms the index has never
	// seen cannot match any document and are dropped.
	weights := make([]float64, 0, len(terms))
	matched := terms[:0]
	var sumSquares float64
	for _, term := range terms {
		_, df, ok := ix.Lookup(term)
		if !ok {
			continue
		}
		w := (1 + math.Log10(float64(freqs[term]))) * math.Log10(float64(n)/float64(df))
		matched = append(matched, term)
		weights = append(weights, w)
		sumSquares += w * w
	}

	// Zero norm means nothing matched (empty query, all terms OOV, or every
	// matched term occurs in all N documents): every document scores 0.
	if sumSquares == 0 {
		return nil
	}
	norm := math.Sqrt(sumSquares)

	scores := make(map[int]float64)
	for i, term := range matched {
		qw := weights[i] / norm
		if qw == 0 {
			continue
		}
		postings, _, _ := ix.Lookup(term)
		for _, p := range postings {
			docLen := ix.DocLength(p.DocID)
			if docLen == 0 {
				// A consistent index never has a posting for a zero-length
				// document; guard the division anyway.
				continue
			}
			scores[p.DocID] += qw * (p.Weight / docLen)
		}
	}

	ranked := make([]ScoredDoc, 0, len(scores))
	for docID, score := range scores {
		if score == 0 {
			continue
		}
		ranked = append(ranked, ScoredDoc{
			DocID: docID,
			Label: ix.Label(docID),
			Score: score,
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].DocID < ranked[j].DocID
	})
	return ranked
}
