package fleet

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/xuri/excelize/v2"
)

// Unknown stands in for a missing truck type, driver name, period or year.
const Unknown = "Unknown"

// UnknownPeriod is the period key of rows whose date could not be read.
const UnknownPeriod = Unknown

// maxSerial is 9999-12-31 in the 1900 date system.
const maxSerial = 2958465

var (
	dayMonthYearRe = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{4}|\d{2})$`)
	periodYearRe   = regexp.MustCompile(`^(\d{4})-`)
)

// ToNumber coerces a cell to a float. Empty, non-finite and unparseable
// values become 0.
//
// For strings the separator that occurs last is the decimal separator, so
// "1,234.56" and "1.234,56" both read as 1234.56. A string with only commas
// uses the comma as decimal separator ("1,234" reads as 1.234).
func ToNumber(v any) float64 {
	switch x := v.(type) {
	case nil, bool, time.Time:
		return 0
	case string:
		return parseLocaleNumber(x)
	}
	if f, ok := asFloat(v); ok {
		return finite(f)
	}
	return parseLocaleNumber(fmt.Sprint(v))
}

func parseLocaleNumber(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' || r == '-' {
			return r
		}
		return -1
	}, raw)

	lastComma := strings.LastIndex(cleaned, ",")
	lastDot := strings.LastIndex(cleaned, ".")
	normalized := cleaned
	switch {
	case lastComma > -1 && lastDot > -1:
		if lastComma > lastDot {
			normalized = strings.Replace(strings.ReplaceAll(cleaned, ".", ""), ",", ".", 1)
		} else {
			normalized = strings.ReplaceAll(cleaned, ",", "")
		}
	case lastComma > -1:
		normalized = strings.ReplaceAll(cleaned, ",", ".")
	}
	if normalized == "" {
		return 0
	}
	f, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0
	}
	return finite(f)
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ToPeriod coerces a cell to a "YYYY-MM" period key. The chain is fixed:
// spreadsheet serial, native time, D/M/Y or D-M-Y text, generic date parsing,
// and finally the first seven characters of the raw text.
func ToPeriod(v any) string {
	switch x := v.(type) {
	case nil:
		return UnknownPeriod
	case string:
		if x == "" {
			return UnknownPeriod
		}
	case time.Time:
		return formatPeriod(x.Year(), int(x.Month()))
	}

	if f, ok := asFloat(v); ok {
		if p, ok := serialPeriod(f); ok {
			return p
		}
	}

	raw := Text(v)
	if m := dayMonthYearRe.FindStringSubmatch(raw); m != nil {
		year := m[3]
		if len(year) == 2 {
			year = "20" + year
		}
		month := m[2]
		if len(month) == 1 {
			month = "0" + month
		}
		return year + "-" + month
	}
	if t, ok := parseDate(raw); ok {
		return formatPeriod(t.Year(), int(t.Month()))
	}
	return prefix(raw, 7)
}

// serialPeriod reads v as a day count in the 1900 date system, keeping the
// phantom 1900-02-29 (serial 60) that spreadsheets carry.
func serialPeriod(v float64) (string, bool) {
	if math.IsNaN(v) || v < 0 || v > maxSerial {
		return "", false
	}
	day := math.Floor(v)
	secs := 86400 * (v - day)
	whole := math.Floor(secs)
	if secs-whole > 0.9999 && whole+1 == 86400 {
		day++
	}
	switch {
	case day <= 31:
		return "1900-01", true
	case day <= 60:
		return "1900-02", true
	case day == 61:
		return "1900-03", true
	}
	t, err := excelize.ExcelDateToTime(day, false)
	if err != nil {
		return "", false
	}
	return formatPeriod(t.Year(), int(t.Month())), true
}

func parseDate(raw string) (t time.Time, ok bool) {
	// dateparse can panic on some malformed inputs.
	defer func() {
		if recover() != nil {
			t, ok = time.Time{}, false
		}
	}()
	parsed, err := dateparse.ParseIn(strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

func formatPeriod(year, month int) string {
	return fmt.Sprintf("%d-%02d", year, month)
}

func prefix(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// YearOf returns the four-digit year of a period key, or Unknown.
func YearOf(period string) string {
	if m := periodYearRe.FindStringSubmatch(period); m != nil {
		return m[1]
	}
	return Unknown
}
