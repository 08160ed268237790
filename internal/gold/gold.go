// Package gold checks the engine against a file of queries with known
// answers. The file holds blank-line separated blocks:
//
//	Example Query: data AND retrieval
//	Result-Set: 12.txt, 31.txt
package gold

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/searcher/query"
	apperrors "github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/pkg/errors"
)

var (
	queryLine  = regexp.MustCompile(`Example Query:\s*(.+)`)
	resultLine = regexp.MustCompile(`Result-Set:\s*(.+)`)
)

// Case is one query and the document ids it must return.
type Case struct {
	Query    string
	Expected index.DocSet
}

// Parse reads gold cases. Blocks whose first two lines do not carry a query
// and a result set are skipped.
func Parse(r io.Reader) ([]Case, error) {
	var (
		cases []Case
		block []string
	)
	flushBlock := func() {
		if len(block) >= 2 {
			if c, ok := parseBlock(block[0], block[1]); ok {
				cases = append(cases, c)
			}
		}
		block = block[:0]
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			flushBlock()
			continue
		}
		block = append(block, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading gold file: %w", err)
	}
	flushBlock()
	return cases, nil
}

func parseBlock(q, rs string) (Case, bool) {
	qm := queryLine.FindStringSubmatch(q)
	rm := resultLine.FindStringSubmatch(rs)
	if qm == nil || rm == nil {
		return Case{}, false
	}
	expected := index.NewDocSet()
	for _, id := range strings.Split(rm[1], ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		expected[strings.ReplaceAll(id, ".txt", "")] = struct{}{}
	}
	return Case{Query: strings.TrimSpace(qm[1]), Expected: expected}, true
}

// ParseFile opens path and parses it.
func ParseFile(path string) ([]Case, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening gold file %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Searcher is satisfied by *executor.Executor.
type Searcher interface {
	Execute(ctx context.Context, q string) (*query.Result, error)
}

type Outcome struct {
	Query    string   `json:"query"`
	Expected []string `json:"expected"`
	Got      []string `json:"got"`
	Pass     bool     `json:"pass"`
	Error    string   `json:"error,omitempty"`
	Code     string   `json:"code,omitempty"`
}

type Report struct {
	Total    int       `json:"total"`
	Passed   int       `json:"passed"`
	Outcomes []Outcome `json:"outcomes"`
}

// Run evaluates every case. A query that errors counts as a failure.
func Run(ctx context.Context, s Searcher, cases []Case) (*Report, error) {
	report := &Report{Total: len(cases), Outcomes: make([]Outcome, 0, len(cases))}
	for _, c := range cases {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out := Outcome{Query: c.Query, Expected: c.Expected.Sorted(), Got: []string{}}
		res, err := s.Execute(ctx, c.Query)
		if err != nil {
			out.Error = err.Error()
			out.Code = apperrors.Code(err)
		} else {
			out.Got = res.Docs.Sorted()
			out.Pass = res.Docs.Equal(c.Expected)
		}
		if out.Pass {
			report.Passed++
		}
		report.Outcomes = append(report.Outcomes, out)
	}
	return report, nil
}

// Write prints the report as plain text.
func (r *Report) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, o := range r.Outcomes {
		status := "PASS"
		if !o.Pass {
			status = "FAIL"
		}
		fmt.Fprintf(bw, "%s  %s\n", status, o.Query)
		fmt.Fprintf(bw, "      expected: %v\n", o.Expected)
		if o.Error != "" {
			fmt.Fprintf(bw, "      error:    %s\n", o.Error)
		} else {
			fmt.Fprintf(bw, "      got:      %v\n", o.Got)
		}
	}
	fmt.Fprintf(bw, "\n%d/%d gold queries passed\n", r.Passed, r.Total)
	return bw.Flush()
}
