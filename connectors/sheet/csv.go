package sheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"fleetlens/domain/fleet"
)

// DecodeCSV reads delimited text. A byte order mark selects UTF-8 or UTF-16;
// text that is not valid UTF-8 is read as Windows-1252. The delimiter is the
// one of comma, semicolon or tab that occurs most in the header line.
// Cells are kept as text.
func DecodeCSV(r io.Reader) (fleet.Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return fleet.Table{}, err
	}
	text, err := toUTF8(raw)
	if err != nil {
		return fleet.Table{}, fmt.Errorf("decode charset: %w", err)
	}

	cr := csv.NewReader(bytes.NewReader(text))
	cr.Comma = sniffDelimiter(text)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return fleet.Table{}, fmt.Errorf("parse csv: %w", err)
	}

	start := 0
	for start < len(records) && blankRow(records[start]) {
		start++
	}
	if start == len(records) {
		return fleet.Table{Columns: []string{}, Records: []fleet.Record{}}, nil
	}
	header, data := records[start], records[start+1:]
	return buildTable(header, len(data),
		func(r int) int { return len(data[r]) },
		func(r, c int) any { return data[r][c] }), nil
}

func toUTF8(raw []byte) ([]byte, error) {
	out, _, err := transform.Bytes(unicode.BOMOverride(encoding.Nop.NewDecoder()), raw)
	if err != nil {
		return nil, err
	}
	if utf8.Valid(out) {
		return out, nil
	}
	return charmap.Windows1252.NewDecoder().Bytes(raw)
}

func sniffDelimiter(text []byte) rune {
	line := text
	if i := bytes.IndexByte(text, '\n'); i >= 0 {
		line = text[:i]
	}
	best, bestCount := ',', bytes.Count(line, []byte{','})
	for _, d := range []rune{';', '\t'} {
		if n := bytes.Count(line, []byte{byte(d)}); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}
