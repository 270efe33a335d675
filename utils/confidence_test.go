package utils

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mlachapelle/ocr-invoice-extraction/dto"
)

func amountPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestScoreConfidenceHigh(t *testing.T) {
	longText := strings.Repeat("ligne de relevé\n", 10)

	// Company (2) + total (2) + date (2) + text length (1) = 7.
	level := ScoreConfidence("Hydro-Québec", amountPtr("537.16"), "2025-02-07", len(longText))
	assert.Equal(t, dto.ConfidenceHigh, level)
}

func TestScoreConfidenceMedium(t *testing.T) {
	longText := strings.Repeat("x", 60)

	// Total (2) + date (2) + text length (1) = 5, company unknown.
	level := ScoreConfidence(dto.UnknownCompany, amountPtr("42.00"), "2025-01-01", len(longText))
	assert.Equal(t, dto.ConfidenceMedium, level)

	// Exactly 3 points is still medium.
	level = ScoreConfidence("", amountPtr("42.00"), "", 60)
	assert.Equal(t, dto.ConfidenceMedium, level)
}

func TestScoreConfidenceLow(t *testing.T) {
	level := ScoreConfidence(dto.UnknownCompany, nil, "", 10)
	assert.Equal(t, dto.ConfidenceLow, level)

	// Two points only: short company name plus short text.
	level = ScoreConfidence("AB", nil, "", 100)
	assert.Equal(t, dto.ConfidenceLow, level)
}

func TestScoreConfidencePartialCredit(t *testing.T) {
	// An out-of-range total and an invalid date earn presence points only:
	// 1 + 1 + 1 (text) = 3.
	level := ScoreConfidence("", amountPtr("999999.99"), "2025-13-40", 60)
	assert.Equal(t, dto.ConfidenceMedium, level)
}
