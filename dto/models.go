package dto

import "github.com/shopspring/decimal"

// ParserType selects extraction behavior tuned per document family.
// Statements keep the first equal-priority amount in document order;
// generic invoices prefer the most frequently repeated value.
type ParserType string

const (
	ParserTypeStatement ParserType = "statement"
	ParserTypeInvoice   ParserType = "invoice"
)

// ConfidenceLevel is the coarse classification of a whole extraction.
type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceHigh   ConfidenceLevel = "high"
)

// UnknownCompany is the sentinel used when no vendor could be determined.
const UnknownCompany = "Unknown"

// CompanyMatch describes how the vendor text resolved to an official name.
type CompanyMatch struct {
	OfficialName string  `json:"official_name"`
	MatchKind    string  `json:"match_kind"`
	Confidence   float64 `json:"confidence"`
}

// DocumentQuality carries OCR quality signals for the processed document.
type DocumentQuality struct {
	OcrConfidence   float64  `json:"ocr_confidence"`
	ResolutionScore float64  `json:"resolution_score"`
	FinalScore      float64  `json:"final_score"`
	Issues          []string `json:"issues"`
}

// ParsedInvoice is the structured record assembled from one document.
// Total and Date are absent (nil/empty) when extraction found nothing;
// partial results are valid output, not errors.
type ParsedInvoice struct {
	Company       string           `json:"company"`
	CompanyMatch  *CompanyMatch    `json:"company_match,omitempty"`
	Total         *decimal.Decimal `json:"total,omitempty"`
	Date          string           `json:"date,omitempty"` // YYYY-MM-DD
	InvoiceNumber string           `json:"invoice_number,omitempty"`
	ParserType    ParserType       `json:"parser_type"`
	Confidence    ConfidenceLevel  `json:"confidence"`
	RawText       string           `json:"raw_text,omitempty"`
	Quality       DocumentQuality  `json:"quality"`
}
