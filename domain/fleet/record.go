package fleet

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	lo "github.com/samber/lo"
)

// Record is one decoded spreadsheet row keyed by its original header.
// Cell values are nil, string, a numeric kind, bool or time.Time.
type Record map[string]any

// Table is one decoded source: the header row in sheet order plus its rows.
// Decoders are expected to put every column in every record, blank cells as "".
type Table struct {
	Columns []string `json:"columns"`
	Records []Record `json:"records"`
}

// Len returns the number of records.
func (t Table) Len() int { return len(t.Records) }

// First returns the first record, or an empty record for an empty table.
func (t Table) First() Record {
	if len(t.Records) == 0 {
		return Record{}
	}
	return t.Records[0]
}

// Headers returns the header names of the first record in column order.
func (t Table) Headers() []string {
	if len(t.Records) == 0 {
		return []string{}
	}
	if len(t.Columns) > 0 {
		return append([]string{}, t.Columns...)
	}
	keys := make([]string, 0, len(t.Records[0]))
	for k := range t.Records[0] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Sources groups the four uploaded tables of one aggregation pass.
type Sources struct {
	Cost     Table `json:"cost"`
	Vehicles Table `json:"vehicles"`
	Freight  Table `json:"freight"`
	Drivers  Table `json:"drivers"`
}

// HeaderMap maps a normalized header to the original header string.
type HeaderMap map[string]string

// NormalizeHeader lowercases s and drops everything outside [a-z0-9],
// so "Truck ID", "truck_id" and "TruckID" all become "truckid".
func NormalizeHeader(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NewHeaderMap indexes headers by their normalized form. When two headers
// normalize identically the later one wins.
func NewHeaderMap(headers []string) HeaderMap {
	hm := make(HeaderMap, len(headers))
	for _, h := range headers {
		key := NormalizeHeader(h)
		if key == "" {
			continue
		}
		hm[key] = h
	}
	return hm
}

// HeaderMapOf builds the header map of a table from its first record.
// An empty table yields an empty map, so every lookup against it fails closed.
func HeaderMapOf(t Table) HeaderMap {
	return NewHeaderMap(t.Headers())
}

// Header returns the original header matched by the first accepted spelling.
func (hm HeaderMap) Header(spellings []string) (string, bool) {
	spelling, ok := lo.Find(spellings, func(s string) bool {
		_, hit := hm[NormalizeHeader(s)]
		return hit
	})
	if !ok {
		return "", false
	}
	return hm[NormalizeHeader(spelling)], true
}

// Pick returns the cell under the first accepted spelling present in the map,
// or nil when none of them resolves.
func (hm HeaderMap) Pick(rec Record, spellings []string) any {
	header, ok := hm.Header(spellings)
	if !ok {
		return nil
	}
	return rec[header]
}

// PickText is Pick followed by Text and TrimSpace.
func (hm HeaderMap) PickText(rec Record, spellings []string) string {
	return strings.TrimSpace(Text(hm.Pick(rec, spellings)))
}

// PickNumber is Pick followed by ToNumber.
func (hm HeaderMap) PickNumber(rec Record, spellings []string) float64 {
	return ToNumber(hm.Pick(rec, spellings))
}

// PickPeriod is Pick followed by ToPeriod.
func (hm HeaderMap) PickPeriod(rec Record, spellings []string) string {
	return ToPeriod(hm.Pick(rec, spellings))
}

// Text renders a cell as a string; nil becomes "".
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}

// Truthy reports whether a cell holds a usable value: not nil, not "", not 0.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case bool:
		return x
	case time.Time:
		return !x.IsZero()
	}
	if f, ok := asFloat(v); ok {
		return f != 0 && !math.IsNaN(f)
	}
	return true
}

func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	}
	return 0, false
}
