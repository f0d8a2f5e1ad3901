// Package corpus loads the document collection the index is built over.
// Providers must return documents in a deterministic order: document IDs
// are assigned by position, and rebuilding over the same corpus has to
// reproduce them exactly.
package corpus

import "context"

// Document is one unit of the corpus. Label is display-only (typically a
// filename); Text is the already-decoded raw content.
type Document struct {
	Label string
	Text  string
}

// Provider supplies the full corpus in one deterministic pass. It is called
// exactly once, before any query is served.
type Provider interface {
	Load(ctx context.Context) ([]Document, error)
}
