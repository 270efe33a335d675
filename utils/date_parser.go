package utils

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Priority tiers for date candidates. Keyword lines win over positional
// matches; loosened numeric patterns and year recovery are last resorts.
const (
	datePriorityKeyword   = 20
	datePriorityEarlyLine = 15
	datePriorityLateLine  = 10
	datePriorityLoosened  = 12
	datePriorityRecovered = 8

	// Lines at the top of a document are more likely to carry the
	// invoice date than lines further down.
	earlyLineCount = 10
)

// Calendar window outside which a parsed date is rejected.
const (
	minYear = 1900
	maxYear = 2100
)

// dateShape tags each compiled pattern with how its capture groups are
// interpreted, decided once at registration time.
type dateShape int

const (
	shapeYMD dateShape = iota
	shapeDMYNumeric
	shapeDMonthY
	shapeMonthDY
	shapeMonthYearOnly
	shapeReleveDMY
)

type datePattern struct {
	shape dateShape
	re    *regexp.Regexp
}

// Digit groups accept the full confusable set in place of digits so OCR
// noise like "202S" still matches; groups are corrected before parsing.
const (
	dateDigit = `[0-9OolIiSsGgBbZzAaEeTt]`
	dayGroup  = `(` + dateDigit + `{1,2})`
	year4     = `(` + dateDigit + `{4})`
	year2or4  = `((?:` + dateDigit + `{4}|` + dateDigit + `{2}))`
)

var monthAlternation = buildMonthAlternation()

// buildMonthAlternation returns the French and English month vocabulary as a
// regex alternation, longest names first so abbreviations never shadow them.
func buildMonthAlternation() string {
	names := []string{
		"janvier", "january", "janv", "jan",
		"février", "fevrier", "february", "févr", "fevr", "fév", "fev", "feb",
		"mars", "march", "mar",
		"avril", "april", "avr", "apr",
		"mai", "may",
		"juin", "june", "jun",
		"juillet", "juil", "july", "jul",
		"août", "aout", "august", "aug",
		"septembre", "september", "sept", "sep",
		"octobre", "october", "oct",
		"novembre", "november", "nov",
		"décembre", "december", "déc", "dec",
	}
	sort.SliceStable(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })
	return `(` + strings.Join(names, "|") + `)`
}

var datePatterns = []datePattern{
	{shapeYMD, regexp.MustCompile(`\b` + year4 + `[-/.]` + dayGroup + `[-/.]` + dayGroup + `\b`)},
	{shapeReleveDMY, regexp.MustCompile(`(?i)relev[ée]\s*(?:du|au|le)?\s*:?\s*` + dayGroup + `[\s/.\-]+` + dayGroup + `[\s/.\-]+` + year2or4)},
	{shapeDMonthY, regexp.MustCompile(`(?i)\b` + dayGroup + `(?:er|e)?\s*(?:de\s+)?` + monthAlternation + `\.?,?\s*` + year2or4 + `\b`)},
	// MonthYearOnly is registered before MonthDY: a bare "fév 2025" must
	// not be read as month=2, day=20, year=25.
	{shapeMonthYearOnly, regexp.MustCompile(`(?i)\b` + monthAlternation + `\.?,?\s*` + year4 + `\b`)},
	{shapeMonthDY, regexp.MustCompile(`(?i)\b` + monthAlternation + `\.?\s*` + dayGroup + `\s*,?\s*` + year2or4 + `\b`)},
	{shapeDMYNumeric, regexp.MustCompile(`\b` + dayGroup + `[/.\-]` + dayGroup + `[/.\-]` + year2or4 + `\b`)},
}

// Loosened numeric forms for the third pass: separators may carry stray
// whitespace, no word-boundary anchoring, no month names.
var loosenedDatePatterns = []datePattern{
	{shapeYMD, regexp.MustCompile(year4 + `\s*[-/.]\s*` + dayGroup + `\s*[-/.]\s*` + dayGroup)},
	{shapeDMYNumeric, regexp.MustCompile(dayGroup + `\s*[/.\-]\s*` + dayGroup + `\s*[/.\-]\s*` + year2or4)},
}

var monthNameRe = regexp.MustCompile(`(?i)\b` + monthAlternation + `\b`)

// dateKeywords are compared accent-stripped and lowercased, so "facturé",
// "échéance" and "créé" match their OCR-mangled accentless forms too.
var dateKeywords = []string{
	"date", "facture", "echeance", "emis", "issued", "cree", "created", "releve",
}

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func stripAccents(s string) string {
	out, _, err := transform.String(accentStripper, s)
	if err != nil {
		return s
	}
	return out
}

// ExtractDate finds the document date and returns it normalized to
// YYYY-MM-DD. Passes run in strict fallback order, stopping at the first
// pass that yields at least one valid candidate.
func ExtractDate(text string) (string, bool) {
	lines := strings.Split(text, "\n")

	pool := collectKeywordDates(lines)
	if len(pool) == 0 {
		pool = collectPositionalDates(lines)
	}
	if len(pool) == 0 {
		pool = collectLoosenedDates(lines)
	}
	if len(pool) == 0 {
		pool = collectRecoveredDates(lines)
	}

	winner, ok := Rank(pool, TieBreakFirst)
	if !ok {
		return "", false
	}
	return winner.Value, true
}

func collectKeywordDates(lines []string) []Candidate {
	var pool []Candidate
	for _, line := range lines {
		if !hasDateKeyword(line) {
			continue
		}
		if iso, ok := firstDateOnLine(line, datePatterns); ok {
			pool = append(pool, Candidate{
				Value:    iso,
				Evidence: strings.TrimSpace(line),
				Priority: datePriorityKeyword,
			})
		}
	}
	return pool
}

func collectPositionalDates(lines []string) []Candidate {
	var pool []Candidate
	for i, line := range lines {
		iso, ok := firstDateOnLine(line, datePatterns)
		if !ok {
			continue
		}
		priority := datePriorityLateLine
		if i < earlyLineCount {
			priority = datePriorityEarlyLine
		}
		pool = append(pool, Candidate{
			Value:    iso,
			Evidence: strings.TrimSpace(line),
			Priority: priority,
		})
	}
	return pool
}

func collectLoosenedDates(lines []string) []Candidate {
	var pool []Candidate
	for _, line := range lines {
		if iso, ok := firstDateOnLine(line, loosenedDatePatterns); ok {
			pool = append(pool, Candidate{
				Value:    iso,
				Evidence: strings.TrimSpace(line),
				Priority: datePriorityLoosened,
			})
		}
	}
	return pool
}

// collectRecoveredDates scans for 4-character tokens that are three digits
// plus one confusable letter, corrects them, and if the result is a
// plausible year pairs it with the first month (and optionally day) found
// on the same line.
func collectRecoveredDates(lines []string) []Candidate {
	var pool []Candidate
	for _, line := range lines {
		year, ok := recoverYear(line)
		if !ok {
			continue
		}
		mm := monthNameRe.FindStringSubmatch(line)
		if mm == nil {
			continue
		}
		month, ok := monthNumber(mm[1])
		if !ok {
			continue
		}
		day := firstDayOnLine(line)
		if iso, ok := buildISODate(year, month, day); ok {
			pool = append(pool, Candidate{
				Value:    iso,
				Evidence: strings.TrimSpace(line),
				Priority: datePriorityRecovered,
			})
		}
	}
	return pool
}

var yearTokenRe = regexp.MustCompile(dateDigit + `{4}`)

func recoverYear(line string) (int, bool) {
	for _, tok := range yearTokenRe.FindAllString(line, -1) {
		digits, letters := 0, 0
		for _, r := range tok {
			if isDigit(r) {
				digits++
			} else {
				letters++
			}
		}
		if digits != 3 || letters != 1 {
			continue
		}
		year, err := strconv.Atoi(CorrectAll(tok, DateCorrections))
		if err != nil || year < minYear || year > maxYear {
			continue
		}
		return year, true
	}
	return 0, false
}

var standaloneDayRe = regexp.MustCompile(`\b([0-9]{1,2})\b`)

func firstDayOnLine(line string) int {
	for _, m := range standaloneDayRe.FindAllStringSubmatch(line, -1) {
		d, err := strconv.Atoi(m[1])
		if err == nil && d >= 1 && d <= 31 {
			return d
		}
	}
	return 1
}

func hasDateKeyword(line string) bool {
	folded := strings.ToLower(stripAccents(line))
	for _, kw := range dateKeywords {
		if strings.Contains(folded, kw) {
			return true
		}
	}
	return false
}

// firstDateOnLine tries each pattern in registration order and returns the
// first match that parses to a valid calendar date.
func firstDateOnLine(line string, patterns []datePattern) (string, bool) {
	for _, p := range patterns {
		m := p.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if iso, ok := parseDateMatch(p.shape, m[1:]); ok {
			return iso, true
		}
	}
	return "", false
}

// parseDateMatch interprets capture groups according to the pattern shape.
// Malformed matches are dropped, never returned partially valid.
func parseDateMatch(shape dateShape, groups []string) (string, bool) {
	switch shape {
	case shapeYMD:
		year, ok1 := dateGroupInt(groups[0])
		month, ok2 := dateGroupInt(groups[1])
		day, ok3 := dateGroupInt(groups[2])
		if !ok1 || !ok2 || !ok3 {
			return "", false
		}
		return buildISODate(year, month, day)

	case shapeDMYNumeric, shapeReleveDMY:
		first, ok1 := dateGroupInt(groups[0])
		second, ok2 := dateGroupInt(groups[1])
		year, ok3 := dateGroupInt(groups[2])
		if !ok1 || !ok2 || !ok3 {
			return "", false
		}
		year = pivotYear(year)
		// Day-first interpretation, falling back to month-first when the
		// middle group cannot be a month.
		if iso, ok := buildISODate(year, second, first); ok {
			return iso, true
		}
		return buildISODate(year, first, second)

	case shapeDMonthY:
		day, ok1 := dateGroupInt(groups[0])
		month, ok2 := monthNumber(groups[1])
		year, ok3 := dateGroupInt(groups[2])
		if !ok1 || !ok2 || !ok3 {
			return "", false
		}
		return buildISODate(pivotYear(year), month, day)

	case shapeMonthDY:
		month, ok1 := monthNumber(groups[0])
		day, ok2 := dateGroupInt(groups[1])
		year, ok3 := dateGroupInt(groups[2])
		if !ok1 || !ok2 || !ok3 {
			return "", false
		}
		return buildISODate(pivotYear(year), month, day)

	case shapeMonthYearOnly:
		month, ok1 := monthNumber(groups[0])
		year, ok2 := dateGroupInt(groups[1])
		if !ok1 || !ok2 {
			return "", false
		}
		return buildISODate(year, month, 1)
	}

	return "", false
}

// dateGroupInt corrects OCR confusables in a captured digit group and
// parses it. The group is digits and confusables only, so whole-string
// correction cannot leak into surrounding text.
func dateGroupInt(group string) (int, bool) {
	n, err := strconv.Atoi(CorrectAll(group, DateCorrections))
	if err != nil {
		return 0, false
	}
	return n, true
}

// pivotYear expands two-digit years: <50 lands in 20xx, >=50 in 19xx.
func pivotYear(year int) int {
	if year >= 100 {
		return year
	}
	if year < 50 {
		return 2000 + year
	}
	return 1900 + year
}

// buildISODate validates the components against the real calendar (leap
// years included) and formats them as YYYY-MM-DD.
func buildISODate(year, month, day int) (string, bool) {
	if year < minYear || year > maxYear || month < 1 || month > 12 || day < 1 {
		return "", false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

// monthNumber resolves a French or English month name or abbreviation,
// accent- and case-insensitively.
func monthNumber(name string) (int, bool) {
	n := strings.ToLower(stripAccents(strings.TrimSuffix(name, ".")))
	switch {
	case strings.HasPrefix(n, "ja"):
		return 1, true
	case strings.HasPrefix(n, "f"):
		return 2, true
	case strings.HasPrefix(n, "mar"):
		return 3, true
	case strings.HasPrefix(n, "av"), strings.HasPrefix(n, "ap"):
		return 4, true
	case strings.HasPrefix(n, "mai"), strings.HasPrefix(n, "may"):
		return 5, true
	case strings.HasPrefix(n, "juin"), n == "jun", n == "june":
		return 6, true
	case strings.HasPrefix(n, "juil"), strings.HasPrefix(n, "jul"):
		return 7, true
	case strings.HasPrefix(n, "ao"), strings.HasPrefix(n, "aug"):
		return 8, true
	case strings.HasPrefix(n, "sep"):
		return 9, true
	case strings.HasPrefix(n, "oct"):
		return 10, true
	case strings.HasPrefix(n, "nov"):
		return 11, true
	case strings.HasPrefix(n, "dec"):
		return 12, true
	}
	return 0, false
}
