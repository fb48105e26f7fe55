// Package sheet turns uploaded spreadsheet files into fleet tables.
//
// Every decoder follows the same row contract: the first non-empty row is the
// header row, every header appears in every record (blank cells as ""), and
// rows whose cells are all blank are dropped.
package sheet

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"fleetlens/domain/fleet"
)

var (
	// ErrUnsupportedFormat is returned for file names that are neither .xlsx nor .csv.
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")
	// ErrEmptyWorkbook is returned for a workbook without any sheet.
	ErrEmptyWorkbook = errors.New("workbook has no sheets")
)

// blankHeader names header cells that are empty.
const blankHeader = "__EMPTY"

// Decode reads r with the decoder matching the extension of name.
func Decode(name string, r io.Reader) (fleet.Table, error) {
	var (
		t   fleet.Table
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".xlsx", ".xlsm":
		t, err = DecodeXLSX(r)
	case ".csv", ".txt":
		t, err = DecodeCSV(r)
	default:
		return fleet.Table{}, fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
	}
	if err != nil {
		return fleet.Table{}, fmt.Errorf("decode %s: %w", name, err)
	}
	slog.Debug("sheet.decode.done", "file", name, "columns", len(t.Columns), "rows", t.Len())
	return t, nil
}

// DecodeFile opens path and decodes it.
func DecodeFile(path string) (fleet.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return fleet.Table{}, err
	}
	defer f.Close()
	return Decode(filepath.Base(path), f)
}

// uniqueHeaders names blank header cells __EMPTY, __EMPTY_1, ... and
// suffixes repeated names with _1, _2, ... so no column is lost.
func uniqueHeaders(raw []string) []string {
	taken := map[string]bool{}
	out := make([]string, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(h)
		if h == "" {
			h = blankHeader
		}
		name := h
		for n := 1; taken[name]; n++ {
			name = fmt.Sprintf("%s_%d", h, n)
		}
		taken[name] = true
		out[i] = name
	}
	return out
}

// buildTable applies the row contract to header and data rows already split
// into cells. cell converts the raw cell at (row, col) into a record value.
func buildTable(header []string, rows int, width func(r int) int, cell func(r, c int) any) fleet.Table {
	columns := uniqueHeaders(header)
	t := fleet.Table{Columns: columns, Records: make([]fleet.Record, 0, rows)}
	for r := 0; r < rows; r++ {
		rec := make(fleet.Record, len(columns))
		blank := true
		for c, name := range columns {
			var v any = ""
			if c < width(r) {
				v = cell(r, c)
			}
			if s, ok := v.(string); !ok || strings.TrimSpace(s) != "" {
				blank = false
			}
			rec[name] = v
		}
		if blank {
			continue
		}
		t.Records = append(t.Records, rec)
	}
	return t
}
