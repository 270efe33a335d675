package utils

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mlachapelle/ocr-invoice-extraction/dto"
)

// ScoreConfidence classifies an extraction outcome on a 7-point scale:
// two points each for company, total and date (presence, then quality),
// plus one for having enough source text to trust the extraction at all.
// 6 or more is high, 3 or more is medium, anything less is low. Downstream
// consumers branch on these exact thresholds.
func ScoreConfidence(company string, total *decimal.Decimal, date string, textLength int) dto.ConfidenceLevel {
	points := 0

	if company != "" && company != dto.UnknownCompany {
		points++
		if len(company) > 3 {
			points++
		}
	}

	if total != nil {
		points++
		if IsPlausibleAmount(*total) {
			points++
		}
	}

	if date != "" {
		points++
		if _, err := time.Parse("2006-01-02", date); err == nil {
			points++
		}
	}

	if textLength > 50 {
		points++
	}

	switch {
	case points >= 6:
		return dto.ConfidenceHigh
	case points >= 3:
		return dto.ConfidenceMedium
	default:
		return dto.ConfidenceLow
	}
}
