package sheet

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	lo "github.com/samber/lo"
	"github.com/xuri/excelize/v2"

	"fleetlens/domain/fleet"
)

// DecodeXLSX reads the first worksheet of a workbook. Numeric cells come
// back as float64 (dates stay as serial numbers), boolean cells as bool, and
// everything else as the cell text.
func DecodeXLSX(r io.Reader) (fleet.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return fleet.Table{}, fmt.Errorf("failed to open excel: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return fleet.Table{}, ErrEmptyWorkbook
	}
	name := sheets[0]
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return fleet.Table{}, fmt.Errorf("read sheet %q: %w", name, err)
	}

	start := 0
	for start < len(rows) && blankRow(rows[start]) {
		start++
	}
	if start == len(rows) {
		return fleet.Table{Columns: []string{}, Records: []fleet.Record{}}, nil
	}
	header, data := rows[start], rows[start+1:]

	cell := func(r, c int) any {
		raw := data[r][c]
		axis, err := excelize.CoordinatesToCellName(c+1, start+r+2)
		if err != nil {
			return raw
		}
		typ, err := f.GetCellType(name, axis)
		if err != nil {
			return raw
		}
		return typedValue(typ, raw)
	}
	return buildTable(header, len(data), func(r int) int { return len(data[r]) }, cell), nil
}

// typedValue converts the raw text of a cell according to its stored type.
// Cells without an explicit type are numbers in the file format.
func typedValue(typ excelize.CellType, raw string) any {
	switch typ {
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true")
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if raw == "" {
			return ""
		}
		if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			return f
		}
	}
	return raw
}

func blankRow(cells []string) bool {
	return lo.EveryBy(cells, func(c string) bool { return strings.TrimSpace(c) == "" })
}
