package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strings"

	"github.com/dgallion1/docparse/internal/doctree"
)

// CSVParser handles delimited tabular data. The delimiter is chosen
// among comma, tab and semicolon by column-count consistency over a
// sample of leading lines. The first record becomes a "header" node;
// the rest become "row" nodes of "cell" leaves. Ragged rows are never
// an error: short rows are padded to the modal width, long rows keep
// their excess cells, and the mismatch count is reported in metadata.
type CSVParser struct{}

// delimiterSample bounds how many lines delimiter detection examines.
const delimiterSample = 50

var delimiterCandidates = []rune{',', '\t', ';'}

func (p *CSVParser) Parse(src string) (*doctree.Node, *doctree.Metadata, error) {
	delim := detectDelimiter(src)

	reader := csv.NewReader(strings.NewReader(src))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			return nil, nil, MalformedLine(doctree.Tabular, perr.Line, fmt.Errorf("parse csv: %w", err))
		}
		return nil, nil, Malformed(doctree.Tabular, 0, fmt.Errorf("parse csv: %w", err))
	}

	root := &doctree.Node{Kind: "table"}
	meta := doctree.NewMetadata()
	meta.Set("delimiter", string(delim))

	if len(records) == 0 {
		meta.Set("ragged_row_count", 0)
		return root, meta, nil
	}

	width := modalWidth(records)
	ragged := 0
	for i, record := range records {
		if len(record) != width {
			ragged++
		}
		node := &doctree.Node{Kind: "row"}
		if i == 0 {
			node.Kind = "header"
		}
		for _, cell := range record {
			node.Append(&doctree.Node{Kind: "cell", Value: cell})
		}
		for pad := len(record); pad < width; pad++ {
			node.Append(&doctree.Node{Kind: "cell", Value: ""})
		}
		root.Append(node)
	}
	meta.Set("ragged_row_count", ragged)

	return root, meta, nil
}

// modalWidth returns the most common record length; ties go to the
// wider record so padding never discards data.
func modalWidth(records [][]string) int {
	freq := make(map[int]int)
	for _, r := range records {
		freq[len(r)]++
	}
	best, bestFreq := 0, 0
	for width, count := range freq {
		if count > bestFreq || (count == bestFreq && width > best) {
			best, bestFreq = width, count
		}
	}
	return best
}

// detectDelimiter scores each candidate by how consistently its
// per-line count repeats across the sample, requiring at least two
// columns. Ties keep the earlier candidate (comma > tab > semicolon).
func detectDelimiter(src string) rune {
	var sample []string
	for _, line := range strings.Split(src, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		sample = append(sample, line)
		if len(sample) == delimiterSample {
			break
		}
	}
	if len(sample) == 0 {
		return ','
	}

	best := ','
	bestScore := -1
	for _, cand := range delimiterCandidates {
		score := consistencyScore(sample, cand)
		if score > bestScore {
			best, bestScore = cand, score
		}
	}
	return best
}

// consistencyScore is the number of sampled lines sharing the modal
// separator count, or -1 when the candidate would yield a single
// column.
func consistencyScore(sample []string, sep rune) int {
	freq := make(map[int]int)
	for _, line := range sample {
		freq[strings.Count(line, string(sep))]++
	}
	modalCount, modalFreq := 0, 0
	for count, lines := range freq {
		if lines > modalFreq || (lines == modalFreq && count > modalCount) {
			modalCount, modalFreq = count, lines
		}
	}
	if modalCount == 0 {
		return -1
	}
	return modalFreq
}
