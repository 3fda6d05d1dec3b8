package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrMissingColumn is returned when a required column is absent from the header.
var ErrMissingColumn = errors.New("missing required column")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// columns maps a canonical field name to the header spellings it accepts.
type columns map[string][]string

// tableReader reads a delimited file whose columns are located by header name.
type tableReader struct {
	csv   *csv.Reader
	index map[string]int
}

func newTableReader(r io.Reader, cols columns, required ...string) (*tableReader, error) {
	br := bufio.NewReader(r)
	first, err := br.Peek(4096)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("read header: %w", err)
	}

	if bytes.HasPrefix(first, utf8BOM) {
		br.Discard(len(utf8BOM))
		first = first[len(utf8BOM):]
	}

	cr := csv.NewReader(br)
	cr.Comma = detectDelimiter(string(first))
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	positions := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		positions[name] = i
	}

	index := make(map[string]int, len(cols))
	for field, aliases := range cols {
		for _, alias := range aliases {
			if i, ok := positions[alias]; ok {
				index[field] = i
				break
			}
		}
	}
	for _, field := range required {
		if _, ok := index[field]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, field)
		}
	}
	return &tableReader{csv: cr, index: index}, nil
}

// detectDelimiter picks ';' or ',' from the first line.
func detectDelimiter(sample string) rune {
	line, _, _ := strings.Cut(sample, "\n")
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}
	return ','
}

// next returns the following record; io.EOF at the end of input.
func (t *tableReader) next() (record, error) {
	rec, err := t.csv.Read()
	if err != nil {
		return record{}, err
	}
	return record{index: t.index, values: rec}, nil
}

// record is one data row.
type record struct {
	index  map[string]int
	values []string
}

func (r record) get(field string) string {
	i, ok := r.index[field]
	if !ok || i >= len(r.values) {
		return ""
	}
	return strings.TrimSpace(r.values[i])
}

// intPtr parses an optional integer column. Integral floats ("2.0") are accepted.
func (r record) intPtr(field string) (*int, error) {
	v := r.get(field)
	if v == "" {
		return nil, nil
	}
	if n, err := strconv.Atoi(v); err == nil {
		return &n, nil
	}
	f, err := parseFloat(v)
	if err != nil || f != float64(int(f)) {
		return nil, fmt.Errorf("column %s: invalid integer %q", field, v)
	}
	n := int(f)
	return &n, nil
}

func (r record) floatPtr(field string) (*float64, error) {
	v := r.get(field)
	if v == "" {
		return nil, nil
	}
	f, err := parseFloat(v)
	if err != nil {
		return nil, fmt.Errorf("column %s: invalid number %q", field, v)
	}
	return &f, nil
}

func (r record) float(field string) (float64, error) {
	p, err := r.floatPtr(field)
	if err != nil {
		return 0, err
	}
	if p == nil {
		return 0, fmt.Errorf("column %s: empty value", field)
	}
	return *p, nil
}

// parseFloat accepts both '.' and ',' as decimal separator.
func parseFloat(v string) (float64, error) {
	if !strings.Contains(v, ".") {
		v = strings.Replace(v, ",", ".", 1)
	}
	return strconv.ParseFloat(v, 64)
}
