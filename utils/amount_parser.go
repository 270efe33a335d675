package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Priority tiers for amount candidates. Keyword-anchored matches beat
// currency-symbol matches, which beat bare decimal tokens.
const (
	amountPriorityKeyword  = 15
	amountPriorityCurrency = 10
	amountPriorityBare     = 5
)

// Plausibility bounds for an extracted total.
var (
	minAmount = decimal.NewFromFloat(0.01)
	maxAmount = decimal.NewFromInt(100000)
)

// amountChars is the digit class extended with the amount confusable set,
// so tokens like "537,l6" are still matched and corrected afterwards.
const amountChars = `0-9OolIiSsGgBbZzEeTt`

// amountToken matches a decimal amount with optional thousands grouping.
// The fractional part is mandatory: bare integers on keyword lines are most
// often dates, reference numbers or years, not totals.
const amountToken = `[` + amountChars + `]+(?:[ .,][` + amountChars + `]{3})*[.,][` + amountChars + `]{1,2}`

// amountKeywords are tried in order per line; curated French billing phrases
// first, generic amount words after.
var amountKeywords = []string{
	"total à payer",
	"solde à recevoir",
	"montant du versement",
	"échéance",
	"total",
	"montant",
	"somme",
	"dû",
	"à payer",
	"facturé",
	"solde",
}

var (
	keywordAmountPatterns = compileKeywordAmountPatterns()

	currencyPrefixAmount = regexp.MustCompile(`(?i)(?:\$|CAD|USD|EUR)\s*(` + amountToken + `)`)
	currencySuffixAmount = regexp.MustCompile(`(?i)(` + amountToken + `)\s*(?:\$|CAD|USD|EUR)`)

	bareDecimalAmount = regexp.MustCompile(`\b([` + amountChars + `]+[.,][` + amountChars + `]{1,2})\b`)
)

func compileKeywordAmountPatterns() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 0, len(amountKeywords))
	for _, kw := range amountKeywords {
		patterns = append(patterns, regexp.MustCompile(
			`(?i)`+regexp.QuoteMeta(kw)+`[\s:.]*\$?\s*(`+amountToken+`)`))
	}
	return patterns
}

// ExtractTotal finds the document total using first-occurrence tie-breaking,
// the mode used for bank and credit-card statements.
func ExtractTotal(text string) (decimal.Decimal, bool) {
	return ExtractTotalWithTieBreak(text, TieBreakFirst)
}

// ExtractTotalWithTieBreak finds the document total. Tiers are tried in
// strict fallback order and the first tier producing at least one valid
// candidate wins; the tie-break only decides among that tier's candidates.
func ExtractTotalWithTieBreak(text string, tb TieBreak) (decimal.Decimal, bool) {
	lines := strings.Split(text, "\n")

	for _, collect := range []func([]string) []Candidate{
		collectKeywordAmounts,
		collectCurrencyAmounts,
		collectBareAmounts,
	} {
		pool := collect(lines)
		if len(pool) == 0 {
			continue
		}
		winner, ok := Rank(pool, tb)
		if !ok {
			continue
		}
		amount, err := decimal.NewFromString(winner.Value)
		if err != nil {
			continue
		}
		return amount, true
	}

	return decimal.Decimal{}, false
}

// collectKeywordAmounts yields at most one candidate per line: the first
// keyword pattern that produces a parseable, plausible amount.
func collectKeywordAmounts(lines []string) []Candidate {
	var pool []Candidate
	for _, line := range lines {
		for _, re := range keywordAmountPatterns {
			m := re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			amount, err := NormalizeAmountToken(m[1])
			if err != nil || !IsPlausibleAmount(amount) {
				continue
			}
			pool = append(pool, Candidate{
				Value:    amount.StringFixed(2),
				Evidence: strings.TrimSpace(line),
				Priority: amountPriorityKeyword,
			})
			break
		}
	}
	return pool
}

func collectCurrencyAmounts(lines []string) []Candidate {
	var pool []Candidate
	for _, line := range lines {
		for _, re := range []*regexp.Regexp{currencyPrefixAmount, currencySuffixAmount} {
			for _, m := range re.FindAllStringSubmatch(line, -1) {
				amount, err := NormalizeAmountToken(m[1])
				if err != nil || !IsPlausibleAmount(amount) {
					continue
				}
				pool = append(pool, Candidate{
					Value:    amount.StringFixed(2),
					Evidence: strings.TrimSpace(line),
					Priority: amountPriorityCurrency,
				})
			}
		}
	}
	return pool
}

func collectBareAmounts(lines []string) []Candidate {
	var pool []Candidate
	for _, line := range lines {
		for _, m := range bareDecimalAmount.FindAllStringSubmatch(line, -1) {
			amount, err := NormalizeAmountToken(m[1])
			if err != nil || !IsPlausibleAmount(amount) {
				continue
			}
			pool = append(pool, Candidate{
				Value:    amount.StringFixed(2),
				Evidence: strings.TrimSpace(line),
				Priority: amountPriorityBare,
			})
		}
	}
	return pool
}

// NormalizeAmountToken corrects OCR confusables inside the token, resolves
// the decimal/thousands separator ambiguity and parses the result.
//
// Separator policy: a single comma with no dot is a decimal comma; a single
// dot is already normalized; repeated commas (or dots) mean the last one is
// the decimal point and the rest are thousands separators; when both appear,
// the more frequent separator is the thousands separator and the last
// occurrence of the other is the decimal point.
func NormalizeAmountToken(token string) (decimal.Decimal, error) {
	cleaned := CorrectDigitRuns(token, AmountCorrections)
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return decimal.Decimal{}, fmt.Errorf("empty amount token")
	}

	commas := strings.Count(cleaned, ",")
	dots := strings.Count(cleaned, ".")

	switch {
	case commas == 1 && dots == 0:
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	case commas == 0:
		if dots > 1 {
			cleaned = keepLastAsDecimal(cleaned, '.')
		}
	case commas > 1 && dots == 0:
		cleaned = keepLastAsDecimal(cleaned, ',')
	default: // both separators present
		thousands, dec := ',', '.'
		switch {
		case commas > dots:
			thousands, dec = ',', '.'
		case dots > commas:
			thousands, dec = '.', ','
		default:
			// Equal counts: the separator appearing last is the decimal.
			if strings.LastIndex(cleaned, ",") > strings.LastIndex(cleaned, ".") {
				thousands, dec = '.', ','
			}
		}
		cleaned = strings.ReplaceAll(cleaned, string(thousands), "")
		cleaned = keepLastAsDecimal(cleaned, dec)
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("amount %q does not parse: %w", token, err)
	}
	return amount.Round(2), nil
}

// keepLastAsDecimal drops every occurrence of sep except the last, which
// becomes the decimal point.
func keepLastAsDecimal(s string, sep rune) string {
	last := strings.LastIndex(s, string(sep))
	if last < 0 {
		return s
	}
	head := strings.ReplaceAll(s[:last], string(sep), "")
	return head + "." + s[last+1:]
}

// IsPlausibleAmount reports whether the value lies in the reasonableness
// bound for a document total.
func IsPlausibleAmount(d decimal.Decimal) bool {
	return d.GreaterThanOrEqual(minAmount) && d.LessThanOrEqual(maxAmount)
}
