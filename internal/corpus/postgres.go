package corpus

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lib/pq"

	"github.com/Yateesh1508/IR-ASSIGNMENT/pkg/postgres"
)

// PostgresProvider reads the corpus from a table with (id, label, body)
// columns, ordered by label then id so document IDs are stable across
// rebuilds. The database is only a corpus source: the index itself is
// never persisted.
type PostgresProvider struct {
	client *postgres.Client
	table  string
	logger *slog.Logger
}

// NewPostgresProvider creates a provider over the given table.
func NewPostgresProvider(client *postgres.Client, table string) *PostgresProvider {
	return &PostgresProvider{
		client: client,
		table:  table,
		logger: slog.Default().With("component", "corpus", "table", table),
	}
}

// Load fetches every row in one pass.
func (p *PostgresProvider) Load(ctx context.Context) ([]Document, error) {
	query := fmt.Sprintf(
		"SELECT label, body FROM %s ORDER BY label, id",
		pq.QuoteIdentifier(p.table),
	)
	rows, err := p.client.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying corpus table %s: %w", p.table, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.Label, &doc.Text); err != nil {
			return nil, fmt.Errorf("scanning corpus row: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating corpus rows: %w", err)
	}

	p.logger.Info("corpus loaded", "documents", len(docs))
	return docs, nil
}
