// Package index builds and holds the inverted index. Build runs once at
// startup; the resulting Index is immutable and safe for any number of
// concurrent readers without locking.
package index

import (
	"math"
	"sort"

	"github.com/Yateesh1508/IR-ASSIGNMENT/internal/corpus"
	"github.com/Yateesh1508/IR-ASSIGNMENT/internal/tokenizer"
)

// Posting records that a term occurs in a document with the given
// log-scaled term-frequency weight.
type Posting struct {
	DocID  int
	Weight float64
}

// PostingList is a term's postings, ordered by ascending DocID. Each DocID
// appears at most once.
type PostingList []Posting

// TermEntry pairs a term's document frequency with its postings. DocFreq
// always equals len(Postings).
type TermEntry struct {
	DocFreq  int
	Postings PostingList
}

// Index is the immutable bundle produced by Build: inverted postings,
// per-document vector norms, and the docID-to-label mapping. Document IDs
// are dense integers 1..DocCount assigned in input order, so lengths and
// labels live in flat slices at slot docID-1.
type Index struct {
	terms      map[string]*TermEntry
	docLengths []float64
	labels     []string
}

// Build constructs the index over docs. Document IDs follow input order;
// the caller is responsible for a deterministic ordering so that repeated
// builds over the same corpus assign identical IDs.
func Build(docs []corpus.Document) *Index {
	ix := &Index{
		terms:      make(map[string]*TermEntry),
		docLengths: make([]float64, len(docs)),
		labels:     make([]string, len(docs)),
	}

	for i, doc := range docs {
		docID := i + 1
		ix.labels[i] = doc.Label

		freqs := tokenizer.Frequencies(doc.Text)
		terms := make([]string, 0, len(freqs))
		for term := range freqs {
			terms = append(terms, term)
		}
		// Float addition is not associative, so the norm is accumulated over
		// the document's terms in sorted order: rebuilds over the same corpus
		// must reproduce bit-identical lengths.
		sort.Strings(terms)

		var sumSquares float64
		for _, term := range terms {
			// tf >= 1 for every term observed, so the log is defined.
			weight := 1 + math.Log10(float64(freqs[term]))
			entry := ix.terms[term]
			if entry == nil {
				entry = &TermEntry{}
				ix.terms[term] = entry
			}
			entry.DocFreq++
			entry.Postings = append(entry.Postings, Posting{DocID: docID, Weight: weight})
			sumSquares += weight * weight
		}
		// A document with no tokens keeps length 0.
		ix.docLengths[i] = math.Sqrt(sumSquares)
	}

	return ix
}

// Lookup returns a term's postings and document frequency. The returned
// slice is shared index state and must not be modified.
func (ix *Index) Lookup(term string) (PostingList, int, bool) {
	entry, ok := ix.terms[term]
	if !ok {
		return nil, 0, false
	}
	return entry.Postings, entry.DocFreq, true
}

// DocCount returns N, the number of documents the index was built over.
func (ix *Index) DocCount() int {
	return len(ix.labels)
}

// VocabularySize returns the number of distinct terms in the index.
func (ix *Index) VocabularySize() int {
	return len(ix.terms)
}

// Label returns the display label for a document ID in 1..DocCount.
func (ix *Index) Label(docID int) string {
	return ix.labels[docID-1]
}

// DocLength returns the Euclidean norm of the document's weight vector.
// Zero-token documents have length 0.
func (ix *Index) DocLength(docID int) float64 {
	return ix.docLengths[docID-1]
}
