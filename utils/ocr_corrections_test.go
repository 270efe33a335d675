package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorrectAll(t *testing.T) {
	assert.Equal(t, "2025", CorrectAll("2O2S", DateCorrections))
	assert.Equal(t, "18", CorrectAll("lB", DateCorrections))
	// Digits are never rewritten into letters.
	assert.Equal(t, "537.16", CorrectAll("537.16", DateCorrections))
}

func TestCorrectDigitRunsFixesOCRNoise(t *testing.T) {
	assert.Equal(t, "537,16", CorrectDigitRuns("537,l6", AmountCorrections))
	assert.Equal(t, "2025", CorrectDigitRuns("202S", DateCorrections))
	assert.Equal(t, "1 234,56", CorrectDigitRuns("1 234,S6", AmountCorrections))
}

func TestCorrectDigitRunsLeavesWordsAlone(t *testing.T) {
	// Alphabetic tokens outside a digit-anchored run are untouched even
	// when every letter is confusable.
	assert.Equal(t, "Solde", CorrectDigitRuns("Solde", AmountCorrections))
	assert.Equal(t, "Fév", CorrectDigitRuns("Fév", DateCorrections))
	assert.Equal(t, "Date du relevé : 7 fév 2025",
		CorrectDigitRuns("Date du relevé : 7 fév 202S", DateCorrections))
}

func TestCorrectDigitRunsIdempotent(t *testing.T) {
	inputs := []string{
		"537,l6",
		"202S",
		"Relevé du 7 fév 202S, total SO,lS $",
		"no digits here at all",
	}
	for _, in := range inputs {
		once := CorrectDigitRuns(in, DateCorrections)
		twice := CorrectDigitRuns(once, DateCorrections)
		assert.Equal(t, once, twice, "input %q", in)
	}
}

func TestAmountTableExcludesA(t *testing.T) {
	// The amount variant must not rewrite A; the date variant does.
	assert.Equal(t, "12A3", CorrectDigitRuns("12A3", AmountCorrections))
	assert.Equal(t, "1243", CorrectDigitRuns("12A3", DateCorrections))
}
