package utils

import "strings"

// CorrectionTable maps letters commonly misread by OCR onto the digit the
// engine intended. Corrections run one way only: letters become digits,
// digits are never rewritten into letters.
type CorrectionTable map[rune]rune

// DateCorrections is the full confusable set, used when scanning date fields.
var DateCorrections = CorrectionTable{
	'O': '0', 'o': '0',
	'l': '1', 'I': '1', 'i': '1',
	'S': '5', 's': '5',
	'G': '6', 'g': '6',
	'B': '8', 'b': '8',
	'Z': '2', 'z': '2',
	'A': '4', 'a': '4',
	'E': '3', 'e': '3',
	'T': '7', 't': '7',
}

// AmountCorrections excludes A/a: amount tokens sit next to currency codes
// like "CAD" and the A->4 rewrite produced bad digits there in practice.
var AmountCorrections = CorrectionTable{
	'O': '0', 'o': '0',
	'l': '1', 'I': '1', 'i': '1',
	'S': '5', 's': '5',
	'G': '6', 'g': '6',
	'B': '8', 'b': '8',
	'Z': '2', 'z': '2',
	'E': '3', 'e': '3',
	'T': '7', 't': '7',
}

func (t CorrectionTable) has(r rune) bool {
	_, ok := t[r]
	return ok
}

// CorrectAll rewrites every confusable letter in text to its digit.
func CorrectAll(text string, table CorrectionTable) string {
	return strings.Map(func(r rune) rune {
		if d, ok := table[r]; ok {
			return d
		}
		return r
	}, text)
}

// CorrectDigitRuns rewrites confusable letters only inside runs that are
// anchored by at least one real digit. A run is a maximal substring made of
// digits and confusable letters containing one or more digits, so tokens like
// "537,l6" become "537,16" while plain words ("Solde", "Fev") are untouched.
func CorrectDigitRuns(text string, table CorrectionTable) string {
	runes := []rune(text)
	var out strings.Builder
	out.Grow(len(text))

	i := 0
	for i < len(runes) {
		r := runes[i]
		if !isDigit(r) && !table.has(r) {
			out.WriteRune(r)
			i++
			continue
		}

		// Collect the maximal run of digits + confusables.
		j := i
		hasDigit := false
		for j < len(runes) && (isDigit(runes[j]) || table.has(runes[j])) {
			if isDigit(runes[j]) {
				hasDigit = true
			}
			j++
		}

		run := runes[i:j]
		if hasDigit {
			for _, rr := range run {
				if d, ok := table[rr]; ok {
					out.WriteRune(d)
				} else {
					out.WriteRune(rr)
				}
			}
		} else {
			out.WriteString(string(run))
		}
		i = j
	}

	return out.String()
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
