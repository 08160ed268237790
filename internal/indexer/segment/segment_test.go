package segment

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/normalizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/errors"
)

func buildIndex(t *testing.T) *index.Index {
	t.Helper()
	src := index.SliceSource{
		{ID: "a", Text: "information retrieval with positional indexes"},
		{ID: "b", Text: "retrieval models and boolean queries"},
		{ID: "c", Text: "nothing relevant"},
	}
	idx, err := index.Build(context.Background(), src, normalizer.Default())
	require.NoError(t, err)
	return idx
}

func TestWriteAndLoad(t *testing.T) {
	idx := buildIndex(t)
	path := filepath.Join(t.TempDir(), "index.spdx")

	require.NoError(t, NewWriter(path).Write(idx))
	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")

	loaded, err := Load(path, normalizer.Default())
	require.NoError(t, err)

	assert.Equal(t, idx.Stats(), loaded.Stats())
	assert.True(t, idx.AllDocuments().Equal(loaded.AllDocuments()))
	assert.True(t, idx.Posting("retrieval").Equal(loaded.Posting("retrieval")))
	assert.Equal(t, idx.Positions("retrieval", "a"), loaded.Positions("retrieval", "a"))

	text, err := loaded.Document("c")
	require.NoError(t, err)
	assert.Equal(t, "nothing relevant", text)
}

func TestReaderSearch(t *testing.T) {
	idx := buildIndex(t)
	path := filepath.Join(t.TempDir(), "index.spdx")
	require.NoError(t, NewWriter(path).Write(idx))

	r, err := OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, uint32(3), r.DocCount())
	assert.Equal(t, idx.Stats().Terms, r.Terms())
	assert.Equal(t, normalizer.StemmerSnowball, r.Catalog().Stemmer)

	postings, err := r.Search("retriev")
	require.NoError(t, err)
	require.Len(t, postings, 2)
	assert.Equal(t, "a", postings[0].DocID)
	assert.Equal(t, []int{1}, postings[0].Positions)

	missing, err := r.Search("zzz")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestLoadRejectsStemmerMismatch(t *testing.T) {
	idx := buildIndex(t)
	path := filepath.Join(t.TempDir(), "index.spdx")
	require.NoError(t, NewWriter(path).Write(idx))

	_, err := Load(path, normalizer.New(nil, normalizer.SuffixStemmer{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stemmer")
}

func TestOpenReaderDetectsCorruption(t *testing.T) {
	idx := buildIndex(t)
	path := filepath.Join(t.TempDir(), "index.spdx")
	require.NoError(t, NewWriter(path).Write(idx))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	t.Run("bad magic", func(t *testing.T) {
		bad := append([]byte{}, data...)
		bad[0] ^= 0xFF
		p := filepath.Join(t.TempDir(), "bad.spdx")
		require.NoError(t, os.WriteFile(p, bad, 0644))
		_, err := OpenReader(p)
		assert.ErrorIs(t, err, apperrors.ErrCorruptSnapshot)
	})

	t.Run("flipped catalog byte", func(t *testing.T) {
		bad := append([]byte{}, data...)
		bad[len(bad)-FooterSize-2] ^= 0xFF
		p := filepath.Join(t.TempDir(), "bad.spdx")
		require.NoError(t, os.WriteFile(p, bad, 0644))
		_, err := OpenReader(p)
		assert.ErrorIs(t, err, apperrors.ErrCorruptSnapshot)
	})

	t.Run("truncated", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "short.spdx")
		require.NoError(t, os.WriteFile(p, data[:HeaderSize/2], 0644))
		_, err := OpenReader(p)
		assert.ErrorIs(t, err, apperrors.ErrCorruptSnapshot)
	})
}

func TestOpenReaderMissingFile(t *testing.T) {
	_, err := OpenReader(filepath.Join(t.TempDir(), "absent.spdx"))
	assert.Error(t, err)
}
