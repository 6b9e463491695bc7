package sheetbridge

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	a1Ref       = `(?:[A-Za-z]{1,3}[0-9]*|[0-9]+)`
	a1Sheet     = `(?:'(?:[^']|'')+'|[^!':]+)`
	a1RangeExpr = regexp.MustCompile(`^(?:` + a1Sheet + `!)?` + a1Ref + `(?::` + a1Ref + `)?$`)
	a1SheetOnly = regexp.MustCompile(`^` + a1Sheet + `$`)
)

// IsValidRange reports whether r looks like an A1 range the Sheets API accepts:
//   - Sheet1!A2:C, Sheet1!A:A, Sheet1!2:5, A1:B2
//   - 'My Sheet'!A2:B (quoted sheet names, a doubled quote escapes a quote)
//   - Sheet1 (a bare sheet name selects the whole sheet)
//
// It only checks syntax; whether the sheet exists is up to the upstream.
func IsValidRange(r string) bool {
	if r == "" || !utf8.ValidString(r) {
		return false
	}

	if strings.ContainsAny(r, "\n\r\t") {
		return false
	}

	return a1RangeExpr.MatchString(r) || a1SheetOnly.MatchString(r)
}

// SheetName returns the sheet part of an A1 range with quotes removed,
// or "" when the range has no sheet qualifier.
func SheetName(r string) string {
	idx := strings.LastIndex(r, "!")
	if idx < 0 {
		return ""
	}

	name := r[:idx]
	if len(name) >= 2 && name[0] == '\'' && name[len(name)-1] == '\'' {
		name = strings.ReplaceAll(name[1:len(name)-1], "''", "'")
	}
	return name
}

// isBlank reports whether a row has no cells or only empty cells.
func isBlank(row Row) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
