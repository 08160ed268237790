//go:build integration

package integration

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/corpus"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/normalizer"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/searcher/query"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/postgres"
)

// skipIfNoPostgres skips the test when PostgreSQL is unavailable.
func skipIfNoPostgres(t *testing.T) *postgres.Client {
	t.Helper()
	db, err := postgres.New(t.Context(), testPostgresConfig())
	if err != nil {
		t.Skipf("skipping integration test: postgres unavailable: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testPostgresConfig() config.PostgresConfig {
	return config.PostgresConfig{
		Host:            envOrDefault("TEST_POSTGRES_HOST", "localhost"),
		Port:            envOrDefaultInt("TEST_POSTGRES_PORT", 5432),
		Database:        envOrDefault("TEST_POSTGRES_DB", "retrieval_test"),
		User:            envOrDefault("TEST_POSTGRES_USER", "retrieval"),
		Password:        envOrDefault("TEST_POSTGRES_PASSWORD", "localdev"),
		SSLMode:         "disable",
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5 * time.Minute,
		ConnectAttempts: 1,
	}
}

func TestSQLCorpusBuildsSearchableIndex(t *testing.T) {
	db := skipIfNoPostgres(t)
	ctx := t.Context()

	err := db.InTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS it_documents (id TEXT PRIMARY KEY, body TEXT NOT NULL)`); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `TRUNCATE it_documents`); err != nil {
			return err
		}
		for id, body := range abstracts {
			if _, err := tx.ExecContext(ctx, `INSERT INTO it_documents (id, body) VALUES ($1, $2)`, corpus.DocumentID(id), body); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.DB.ExecContext(context.Background(), `DROP TABLE IF EXISTS it_documents`)
	})

	src := corpus.NewSQLSource(db, `SELECT id, body FROM it_documents ORDER BY id`)
	idx, err := index.Build(ctx, src, normalizer.Default())
	require.NoError(t, err)
	assert.Equal(t, len(abstracts), idx.Stats().Documents)

	res, err := query.NewEngine(idx, query.Options{}).Evaluate(`"inverted index"`)
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, res.Docs.Sorted())
}
