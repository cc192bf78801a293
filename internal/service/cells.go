package service

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/guttosm/cargo-service/internal/domain/model"
)

// DateLayout is the canonical rendering of normalized dates (05-Mar-2027).
const DateLayout = "02-Jan-2006"

var (
	leadingNumberPattern = regexp.MustCompile(`^[+-]?[0-9.,]+`)
	leadingIntPattern    = regexp.MustCompile(`^[+-]?\d+`)
	serialPattern        = regexp.MustCompile(`^\d{5}(\.\d+)?$`)

	// Accepted date layouts, day first.
	dateLayouts = []string{
		"2006-01-02",
		time.RFC3339,
		"2006-01-02 15:04:05",
		"02/01/2006",
		"2/1/2006",
		"02-01-2006",
		"02.01.2006",
		DateLayout,
		"2-Jan-2006",
		"02 Jan 2006",
		"2 Jan 2006",
		"02-Jan-06",
		"Jan 2, 2006",
	}
)

// cellText renders a cell as trimmed text. Whole floats lose their
// fractional part ("12", not "12.0").
func cellText(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(c)
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(c), 'f', -1, 32)
	case int:
		return strconv.Itoa(c)
	case int64:
		return strconv.FormatInt(c, 10)
	case json.Number:
		return c.String()
	case time.Time:
		return c.Format(DateLayout)
	default:
		return strings.TrimSpace(fmt.Sprint(c))
	}
}

// cellAt returns row[idx], or nil when idx is out of range or ColumnNotFound.
func cellAt(row model.Row, idx int) any {
	if idx < 0 || idx >= len(row) {
		return nil
	}
	return row[idx]
}

func isBlankRow(row model.Row) bool {
	for _, c := range row {
		if cellText(c) != "" {
			return false
		}
	}
	return true
}

// nonEmptyCells counts the cells of row holding text.
func nonEmptyCells(row model.Row) int {
	n := 0
	for _, c := range row {
		if cellText(c) != "" {
			n++
		}
	}
	return n
}

// NormalizeNumber parses human-entered numbers: spaces are thousands
// separators, "1.234,56" and "1,234.56" both read as 1234.56, a single
// comma is a decimal separator, and a trailing unit ("12 kg") is ignored.
func NormalizeNumber(s string) (float64, bool) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\u202f', '\t':
			return -1
		}
		return r
	}, s)

	s = leadingNumberPattern.FindString(s)
	if s == "" {
		return 0, false
	}

	dots := strings.Count(s, ".")
	commas := strings.Count(s, ",")
	switch {
	case dots > 0 && commas > 0:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case commas == 1:
		s = strings.Replace(s, ",", ".", 1)
	case commas > 1:
		s = strings.ReplaceAll(s, ",", "")
	case dots > 1:
		s = strings.ReplaceAll(s, ".", "")
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// cellNumber reads a numeric cell.
func cellNumber(v any) (float64, bool) {
	switch c := v.(type) {
	case nil:
		return 0, false
	case float64:
		return c, true
	case float32:
		return float64(c), true
	case int:
		return float64(c), true
	case int64:
		return float64(c), true
	case json.Number:
		f, err := c.Float64()
		return f, err == nil
	default:
		return NormalizeNumber(cellText(c))
	}
}

// optionalNumber returns nil for missing, unparseable or zero cells.
func optionalNumber(v any) *float64 {
	f, ok := cellNumber(v)
	if !ok || f == 0 {
		return nil
	}
	return &f
}

// optionalInt reads the leading integer of a cell; nil for missing,
// unparseable or zero cells.
func optionalInt(v any) *int {
	var n int
	switch c := v.(type) {
	case float64, float32, int, int64, json.Number:
		f, ok := cellNumber(c)
		if !ok {
			return nil
		}
		n = int(f)
	default:
		m := leadingIntPattern.FindString(cellText(v))
		if m == "" {
			return nil
		}
		i, err := strconv.Atoi(m)
		if err != nil {
			return nil
		}
		n = i
	}
	if n == 0 {
		return nil
	}
	return &n
}

// ParseDate reads a date cell: Excel serial numbers, time values, and the
// day-first textual layouts commonly typed on packing lists.
func ParseDate(v any) (time.Time, bool) {
	switch c := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return c, !c.IsZero()
	case float64:
		return excelSerial(c)
	case int:
		return excelSerial(float64(c))
	}

	text := cellText(v)
	if text == "" {
		return time.Time{}, false
	}
	if serialPattern.MatchString(text) {
		f, err := strconv.ParseFloat(text, 64)
		if err == nil {
			return excelSerial(f)
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func excelSerial(f float64) (time.Time, bool) {
	if f <= 0 {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(f, false)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// NormalizeDate renders a date cell as DD-Mon-YYYY. Unrecognised values
// are returned as trimmed text with ok == false.
func NormalizeDate(v any) (string, bool) {
	if t, ok := ParseDate(v); ok {
		return t.Format(DateLayout), true
	}
	return cellText(v), false
}

// expiryText keeps typed expiry text verbatim and renders date-typed cells
// (time values and Excel serials) as DD-Mon-YYYY.
func expiryText(v any) string {
	switch v.(type) {
	case time.Time, float64, int:
		if d, ok := NormalizeDate(v); ok {
			return d
		}
	}
	return cellText(v)
}
