// Package corpus supplies (document id, text) pairs to the index builder from
// a directory of text files or a PostgreSQL table.
package corpus

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/index"
)

// DirSource reads every regular file in Dir, in filename order. Document ids
// are derived from file names with DocumentID.
type DirSource struct {
	Dir    string
	logger *slog.Logger
}

func NewDirSource(dir string) *DirSource {
	return &DirSource{
		Dir:    dir,
		logger: slog.Default().With("component", "corpus-dir"),
	}
}

func (s *DirSource) Documents(ctx context.Context) iter.Seq2[index.Document, error] {
	return func(yield func(index.Document, error) bool) {
		entries, err := os.ReadDir(s.Dir)
		if err != nil {
			yield(index.Document{}, fmt.Errorf("reading corpus directory %s: %w", s.Dir, err))
			return
		}
		count := 0
		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				yield(index.Document{}, err)
				return
			}
			path := filepath.Join(s.Dir, entry.Name())
			info, err := os.Stat(path)
			if err != nil {
				yield(index.Document{}, fmt.Errorf("stat %s: %w", path, err))
				return
			}
			if !info.Mode().IsRegular() {
				continue
			}
			text, err := readText(path)
			if err != nil {
				yield(index.Document{}, err)
				return
			}
			doc := index.Document{ID: DocumentID(entry.Name()), Text: text}
			s.logger.Debug("document loaded", "doc_id", doc.ID, "bytes", len(text))
			count++
			if !yield(doc, nil) {
				return
			}
		}
		s.logger.Info("corpus directory read", "dir", s.Dir, "documents", count)
	}
}

// DocumentID derives an id from a file name: surrounding whitespace and a
// trailing ".txt" are removed.
func DocumentID(name string) string {
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(name), ".txt"))
}

// readText decodes a file as UTF-8, falling back to ISO-8859-1 when the bytes
// are not valid UTF-8.
func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decoding %s as latin-1: %w", path, err)
	}
	return string(decoded), nil
}
