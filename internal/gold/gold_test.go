package gold

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/normalizer"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/searcher/query"
)

const goldFile = `Example Query: data AND retrieval
Result-Set: 1.txt, 2.txt

Example Query: "retrieval data"
Result-Set: 2.txt


Example Query: neural / 3
Result-Set: 3

this block has no result line

Example Query: one two three four
Result-Set: 1.txt
`

func TestParse(t *testing.T) {
	cases, err := Parse(strings.NewReader(goldFile))
	require.NoError(t, err)
	require.Len(t, cases, 4)

	assert.Equal(t, "data AND retrieval", cases[0].Query)
	assert.True(t, cases[0].Expected.Equal(index.NewDocSet("1", "2")))
	assert.Equal(t, `"retrieval data"`, cases[1].Query)
	assert.True(t, cases[2].Expected.Equal(index.NewDocSet("3")))
}

func TestParseEmptyResultSet(t *testing.T) {
	cases, err := Parse(strings.NewReader("Example Query: zebra\nResult-Set: ,\n"))
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Zero(t, cases[0].Expected.Len())
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "gold.txt"))
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	docs := index.SliceSource{
		{ID: "1", Text: "data retrieval for search engines"},
		{ID: "2", Text: "retrieval data and data retrieval"},
		{ID: "3", Text: "neural networks"},
	}
	idx, err := index.Build(context.Background(), docs, normalizer.Default())
	require.NoError(t, err)
	exec := executor.New(query.NewEngine(idx, query.Options{}), nil)

	path := filepath.Join(t.TempDir(), "gold.txt")
	require.NoError(t, os.WriteFile(path, []byte(goldFile), 0644))
	cases, err := ParseFile(path)
	require.NoError(t, err)

	report, err := Run(context.Background(), exec, cases)
	require.NoError(t, err)
	assert.Equal(t, 4, report.Total)
	// the proximity case is malformed (one term) and the last is too complex
	assert.Equal(t, 2, report.Passed)
	assert.True(t, report.Outcomes[0].Pass)
	assert.True(t, report.Outcomes[1].Pass)
	assert.False(t, report.Outcomes[2].Pass)
	assert.Equal(t, "query_too_complex", report.Outcomes[3].Code)

	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf))
	assert.Contains(t, buf.String(), "PASS  data AND retrieval")
	assert.Contains(t, buf.String(), "2/4 gold queries passed")
}
