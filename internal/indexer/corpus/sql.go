package corpus

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"log/slog"

	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/postgres"
)

// DefaultQuery selects the corpus. It must return exactly two text columns:
// the document id and its body.
const DefaultQuery = `SELECT id, body FROM documents ORDER BY id`

// errStopped marks an early stop requested by the consumer of the sequence.
var errStopped = errors.New("iteration stopped")

// SQLSource streams documents from PostgreSQL inside a single read-only
// transaction so the build sees one consistent corpus.
type SQLSource struct {
	db     *postgres.Client
	query  string
	logger *slog.Logger
}

func NewSQLSource(db *postgres.Client, query string) *SQLSource {
	if query == "" {
		query = DefaultQuery
	}
	return &SQLSource{
		db:     db,
		query:  query,
		logger: slog.Default().With("component", "corpus-sql"),
	}
}

func (s *SQLSource) Documents(ctx context.Context) iter.Seq2[index.Document, error] {
	return func(yield func(index.Document, error) bool) {
		count := 0
		err := s.db.InReadTx(ctx, func(tx *sql.Tx) error {
			rows, err := tx.QueryContext(ctx, s.query)
			if err != nil {
				return fmt.Errorf("querying corpus: %w", err)
			}
			defer rows.Close()
			for rows.Next() {
				var doc index.Document
				if err := rows.Scan(&doc.ID, &doc.Text); err != nil {
					return fmt.Errorf("scanning corpus row: %w", err)
				}
				count++
				if !yield(doc, nil) {
					return errStopped
				}
			}
			return rows.Err()
		})
		if errors.Is(err, errStopped) {
			return
		}
		if err != nil {
			yield(index.Document{}, err)
			return
		}
		s.logger.Info("corpus table read", "documents", count)
	}
}
