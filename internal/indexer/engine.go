// Package indexer turns configuration into a ready index: it picks the corpus
// source and normalizer, builds the index, and persists or reloads snapshots.
package indexer

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/corpus"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/normalizer"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/segment"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/postgres"
)

type Engine struct {
	cfg     *config.Config
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewEngine returns an Engine for cfg. m may be nil.
func NewEngine(cfg *config.Config, m *metrics.Metrics) *Engine {
	return &Engine{
		cfg:     cfg,
		metrics: m,
		logger:  slog.Default().With("component", "indexer"),
	}
}

// Normalizer builds the normalizer described by the corpus config.
func (e *Engine) Normalizer() (*normalizer.Normalizer, error) {
	stopwords, err := normalizer.LoadStopwordsFile(e.cfg.Corpus.StopwordsFile)
	if err != nil {
		return nil, err
	}
	stemmer, err := normalizer.NewStemmer(e.cfg.Corpus.Stemmer)
	if err != nil {
		return nil, err
	}
	return normalizer.New(stopwords, stemmer), nil
}

// Build reads the whole corpus and builds a fresh index.
func (e *Engine) Build(ctx context.Context) (*index.Index, error) {
	n, err := e.Normalizer()
	if err != nil {
		return nil, err
	}

	var src index.DocumentSource
	switch e.cfg.Corpus.Source {
	case config.SourcePostgres:
		db, err := postgres.New(ctx, e.cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("connecting to corpus database: %w", err)
		}
		defer db.Close()
		src = corpus.NewSQLSource(db, e.cfg.Corpus.Query)
	default:
		src = corpus.NewDirSource(e.cfg.Corpus.Dir)
	}

	start := time.Now()
	idx, err := index.Build(ctx, src, n)
	if err != nil {
		return nil, fmt.Errorf("building index: %w", err)
	}
	stats := idx.Stats()
	e.logger.Info("index built",
		"source", e.cfg.Corpus.Source,
		"documents", stats.Documents,
		"terms", stats.Terms,
		"tokens", stats.TotalTokens,
		"stemmer", n.StemmerName(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	if e.metrics != nil {
		e.metrics.DocsIndexedTotal.Add(float64(stats.Documents))
		e.metrics.IndexTerms.Set(float64(stats.Terms))
	}
	return idx, nil
}

// Flush writes idx to the configured snapshot path.
func (e *Engine) Flush(idx *index.Index) error {
	path := e.cfg.Index.SnapshotPath
	if path == "" {
		return errors.New("index.snapshotPath is not configured")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}
	if err := segment.NewWriter(path).Write(idx); err != nil {
		return err
	}
	e.logger.Info("index snapshot written", "path", path)
	return nil
}

// Verify reopens the snapshot written for idx and checks it against the
// in-memory index: header counts, catalog stemmer, and every term's
// document frequency read back through the dictionary.
func (e *Engine) Verify(idx *index.Index) error {
	path := e.cfg.Index.SnapshotPath
	r, err := segment.OpenReader(path)
	if err != nil {
		return err
	}
	defer r.Close()

	stats := idx.Stats()
	switch {
	case r.Terms() != stats.Terms:
		return fmt.Errorf("%w: %s holds %d terms, index has %d", apperrors.ErrCorruptSnapshot, path, r.Terms(), stats.Terms)
	case int(r.DocCount()) != stats.Documents:
		return fmt.Errorf("%w: %s holds %d documents, index has %d", apperrors.ErrCorruptSnapshot, path, r.DocCount(), stats.Documents)
	case r.Catalog().Stemmer != idx.Normalizer().StemmerName():
		return fmt.Errorf("%w: %s built with stemmer %q, index uses %q",
			apperrors.ErrCorruptSnapshot, path, r.Catalog().Stemmer, idx.Normalizer().StemmerName())
	}

	entries, _ := idx.Snapshot()
	for _, entry := range entries {
		stored, err := r.Search(entry.Term)
		if err != nil {
			return err
		}
		if len(stored) != len(entry.Postings) {
			return fmt.Errorf("%w: term %q has %d postings on disk, %d in memory",
				apperrors.ErrCorruptSnapshot, entry.Term, len(stored), len(entry.Postings))
		}
	}
	e.logger.Info("index snapshot verified",
		"path", path,
		"terms", r.Terms(),
		"documents", r.DocCount(),
		"stemmer", r.Catalog().Stemmer,
	)
	return nil
}

// Load returns the snapshot at the configured path when there is one, and
// builds from the corpus otherwise.
func (e *Engine) Load(ctx context.Context) (*index.Index, error) {
	path := e.cfg.Index.SnapshotPath
	if path == "" {
		return e.Build(ctx)
	}
	n, err := e.Normalizer()
	if err != nil {
		return nil, err
	}
	idx, err := segment.Load(path, n)
	if errors.Is(err, fs.ErrNotExist) {
		e.logger.Warn("no index snapshot, building from corpus", "path", path)
		return e.Build(ctx)
	}
	if err != nil {
		return nil, err
	}
	stats := idx.Stats()
	e.logger.Info("index snapshot loaded", "path", path, "documents", stats.Documents, "terms", stats.Terms)
	if e.metrics != nil {
		e.metrics.IndexTerms.Set(float64(stats.Terms))
	}
	return idx, nil
}

// Fingerprint names idx for cache keys. It hashes the ordered snapshot, so
// indexes differ in fingerprint whenever any posting, position or document
// text differs, and a reloaded snapshot keeps the fingerprint of the index
// it was written from.
func Fingerprint(idx *index.Index) string {
	entries, docs := idx.Snapshot()
	h := sha256.New()
	enc := json.NewEncoder(h)
	// Encoding into a hash cannot fail.
	_ = enc.Encode(entries)
	_ = enc.Encode(docs)
	return fmt.Sprintf("%s-%x", idx.Normalizer().StemmerName(), h.Sum(nil)[:12])
}
