// Package extract recovers structured receipt fields (amount, date,
// description) from raw scanned text using best-effort pattern matching.
// Absence of a field is a valid result, not an error, so every function
// returns an ok flag instead of failing.
package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// amountPatterns are tried in priority order; the first capture that parses
// as a positive number wins. Labeled totals rank above bare dollar figures.
var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)total[\s:]*\$?\s*(\d+\.?\d*)`),
	regexp.MustCompile(`(?i)amount[\s:]*\$?\s*(\d+\.?\d*)`),
	regexp.MustCompile(`(?i)\btotal\b.*?\$\s*(\d+\.?\d*)`),
	regexp.MustCompile(`(?m)\$\s*(\d+\.?\d*)\s*$`),
	regexp.MustCompile(`\$\s*(\d+\.?\d*)`),
	regexp.MustCompile(`(?i)(\d+\.?\d*)\s*(?:USD|EUR|GBP)`),
	regexp.MustCompile(`(?i)(?:USD|EUR|GBP)\s*(\d+\.?\d*)`),
	regexp.MustCompile(`(?i)(\d+\.?\d*)\s*(?:total|amount)`),
	regexp.MustCompile(`(?i)(?:total|amount)\s*(\d+\.?\d*)`),
}

var numberTokenPattern = regexp.MustCompile(`\$?\s*(\d+\.?\d*)`)

// FindAmount extracts the most likely transaction total from text, formatted
// with two decimal places. When no labeled pattern matches, it falls back to
// the largest numeric token in the text: on receipts the biggest dollar
// figure is usually the total.
func FindAmount(text string) (string, bool) {
	for _, pattern := range amountPatterns {
		match := pattern.FindStringSubmatch(text)
		if len(match) < 2 || match[1] == "" {
			continue
		}
		amount, err := strconv.ParseFloat(match[1], 64)
		if err == nil && amount > 0 {
			return fmt.Sprintf("%.2f", amount), true
		}
	}

	var max float64
	found := false
	for _, token := range numberTokenPattern.FindAllStringSubmatch(text, -1) {
		amount, err := strconv.ParseFloat(token[1], 64)
		if err != nil || amount <= 0 {
			continue
		}
		if !found || amount > max {
			max = amount
			found = true
		}
	}
	if found {
		return fmt.Sprintf("%.2f", max), true
	}
	return "", false
}

type datePattern struct {
	re      *regexp.Regexp
	layouts []string
}

// Two-digit years and single-digit day/month fields are normalized before
// parsing, so each pattern only needs canonical layouts.
var datePatterns = []datePattern{
	{
		// The leading guard keeps this from matching inside a four-digit
		// year, e.g. the "24-03-15" tail of "2024-03-15".
		re:      regexp.MustCompile(`(?:^|[^\d])(\d{1,2}[-/]\d{1,2}[-/]\d{2,4})`),
		layouts: []string{"01/02/2006", "02/01/2006"},
	},
	{
		re:      regexp.MustCompile(`\d{4}[-/]\d{1,2}[-/]\d{1,2}`),
		layouts: []string{"2006/01/02"},
	},
	{
		re:      regexp.MustCompile(`(?i)(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]* \d{1,2},? \d{4}`),
		layouts: []string{"Jan 2, 2006", "Jan 2 2006", "January 2, 2006", "January 2 2006"},
	},
	{
		re:      regexp.MustCompile(`(?i)\d{1,2}\s+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s+\d{4}`),
		layouts: []string{"2 Jan 2006", "2 January 2006"},
	},
}

// FindDate extracts the first parseable calendar date from text, normalized
// to YYYY-MM-DD. Numeric dates are read month-first, falling back to
// day-first when the month field is out of range.
func FindDate(text string) (string, bool) {
	for _, pattern := range datePatterns {
		match := pattern.re.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		candidate := match[0]
		if len(match) > 1 {
			candidate = match[1]
		}
		if date, ok := parseDate(candidate, pattern.layouts); ok {
			return date.Format("2006-01-02"), true
		}
	}
	return "", false
}

func parseDate(raw string, layouts []string) (time.Time, bool) {
	normalized := normalizeNumericDate(raw)
	for _, layout := range layouts {
		if date, err := time.Parse(layout, normalized); err == nil {
			return date, true
		}
	}
	return time.Time{}, false
}

// normalizeNumericDate rewrites numeric dates to slash-separated,
// zero-padded fields with four-digit years ("3-5-24" -> "03/05/2024").
// Non-numeric dates pass through with title-cased month names so the
// time layouts match.
func normalizeNumericDate(raw string) string {
	parts := regexp.MustCompile(`[-/]`).Split(raw, -1)
	if len(parts) != 3 {
		return titleCaseMonth(raw)
	}
	for i, part := range parts {
		if _, err := strconv.Atoi(part); err != nil {
			return titleCaseMonth(raw)
		}
		if len(part) == 1 {
			parts[i] = "0" + part
		}
	}
	// Expand a trailing two-digit year; leading four-digit years are Y/M/D.
	if len(parts[2]) == 2 && len(parts[0]) <= 2 {
		parts[2] = "20" + parts[2]
	}
	return strings.Join(parts, "/")
}

func titleCaseMonth(raw string) string {
	fields := strings.Fields(raw)
	for i, f := range fields {
		if len(f) >= 3 && isAlpha(f[0]) {
			fields[i] = strings.ToUpper(f[:1]) + strings.ToLower(f[1:])
		}
	}
	return strings.Join(fields, " ")
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// Lines starting with these tokens are receipt boilerplate, never the
// merchant or item description.
var reservedLinePattern = regexp.MustCompile(`(?i)^(total|amount|date|time|tel|fax|receipt|invoice|#|no\.|thank|welcome|subtotal|tax|discount)`)

var (
	leadingDatePattern = regexp.MustCompile(`^\d{1,2}[-/]\d{1,2}[-/]\d{2,4}`)
	bareAmountPattern  = regexp.MustCompile(`^\$?\d+\.\d{2}$`)
)

// FindDescription returns the first line of text that looks like a merchant
// or item description: longer than three characters, not boilerplate, and
// not a bare date or dollar figure.
func FindDescription(text string) (string, bool) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) <= 3 {
			continue
		}
		if reservedLinePattern.MatchString(line) {
			continue
		}
		if leadingDatePattern.MatchString(line) {
			continue
		}
		if bareAmountPattern.MatchString(line) {
			continue
		}
		return line, true
	}
	return "", false
}
