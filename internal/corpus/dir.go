package corpus

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// readConcurrency bounds parallel file reads during corpus load.
const readConcurrency = 8

// DirProvider reads every regular file under a directory, in lexicographic
// filename order. The filename becomes the document label. Bytes that are
// not valid UTF-8 are dropped rather than failing the load.
type DirProvider struct {
	dir    string
	logger *slog.Logger
}

// NewDirProvider creates a provider over dir.
func NewDirProvider(dir string) *DirProvider {
	return &DirProvider{
		dir:    dir,
		logger: slog.Default().With("component", "corpus", "dir", dir),
	}
}

// Load reads all files concurrently but places each document at its sorted
// position, so the returned order is independent of read completion order.
func (p *DirProvider) Load(ctx context.Context) ([]Document, error) {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return nil, fmt.Errorf("reading corpus directory %s: %w", p.dir, err)
	}

	// os.ReadDir sorts by filename already.
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}

	docs := make([]Document, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(readConcurrency)
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(filepath.Join(p.dir, name))
			if err != nil {
				return fmt.Errorf("reading corpus file %s: %w", name, err)
			}
			docs[i] = Document{
				Label: name,
				Text:  strings.ToValidUTF8(string(data), ""),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	p.logger.Info("corpus loaded", "documents", len(docs))
	return docs, nil
}
