package service

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mlachapelle/ocr-invoice-extraction/alias"
	"github.com/mlachapelle/ocr-invoice-extraction/dto"
)

type stubPDFProcessor struct {
	images []image.Image
}

func (s *stubPDFProcessor) ExtractText(pdfData []byte) (string, error) {
	return "", nil
}

func (s *stubPDFProcessor) ExtractImages(pdfData []byte, password string) ([]image.Image, error) {
	return s.images, nil
}

func newServiceWith(cfg *alias.Config) *InvoiceService {
	return NewInvoiceService(nil, nil, nil, alias.NewResolver(cfg))
}

func newTestService() *InvoiceService {
	cfg := alias.DefaultConfig()
	cfg.OfficialNames = []string{"Hydro-Québec", "TD Bank"}
	cfg.ExactMatches = map[string]string{"banque-td": "TD Bank"}
	cfg.PartialMatches = map[string]string{"hydro": "Hydro-Québec"}
	return newServiceWith(cfg)
}

func TestParseTextStatement(t *testing.T) {
	svc := newTestService()

	text := "HYDRO-QUEBEC\n" +
		"Relevé de compte\n" +
		"Date du relevé : 7 fév 2025\n" +
		"Minimum Payment: $25.00\n" +
		"TOTAL À PAYER: 537,16\n"

	result := svc.ParseText(text, dto.ParserTypeStatement)

	assert.Equal(t, "Hydro-Québec", result.Company)
	if assert.NotNil(t, result.CompanyMatch) {
		assert.Equal(t, "partial", result.CompanyMatch.MatchKind)
	}
	if assert.NotNil(t, result.Total) {
		assert.Equal(t, "537.16", result.Total.StringFixed(2))
	}
	assert.Equal(t, "2025-02-07", result.Date)
	assert.Equal(t, dto.ParserTypeStatement, result.ParserType)
	assert.Equal(t, dto.ConfidenceHigh, result.Confidence)
	assert.Equal(t, text, result.RawText)
}

func TestParseTextCompanyFallback(t *testing.T) {
	svc := newServiceWith(alias.DefaultConfig())

	text := "Dépanneur Chez Marcel\n" +
		"Facture no F-2025-001\n" +
		"Total: 45,00\n"

	result := svc.ParseText(text, dto.ParserTypeInvoice)

	// No alias configuration at all, so the leading line is taken as the
	// vendor name verbatim.
	assert.Equal(t, "Dépanneur Chez Marcel", result.Company)
	assert.Nil(t, result.CompanyMatch)
	assert.Equal(t, "F-2025-001", result.InvoiceNumber)
	if assert.NotNil(t, result.Total) {
		assert.Equal(t, "45.00", result.Total.StringFixed(2))
	}
}

func TestParseTextCompanyLineScoredAgainstOfficialNames(t *testing.T) {
	cfg := alias.DefaultConfig()
	cfg.OfficialNames = []string{"Xyz"}
	svc := newServiceWith(cfg)

	// The guessed line shares nothing with the official name, which under
	// the distance-ceiling comparison is exactly what gets accepted.
	result := svc.ParseText("Bell Canada\nFacture\nMontant: 10,00", dto.ParserTypeInvoice)
	assert.Equal(t, "Xyz", result.Company)
	assert.Nil(t, result.CompanyMatch)
}

func TestParseTextDefaultsToInvoice(t *testing.T) {
	svc := newTestService()

	result := svc.ParseText("12 34 56", "")
	assert.Equal(t, dto.ParserTypeInvoice, result.ParserType)
	assert.Equal(t, dto.UnknownCompany, result.Company)
	assert.Nil(t, result.Total)
	assert.Equal(t, dto.ConfidenceLow, result.Confidence)
}

func TestParseTextTieBreakByParserType(t *testing.T) {
	svc := newTestService()

	// Three bare amounts with no keyword or currency anchors. Statements
	// keep the first occurrence, invoices the most frequent one.
	text := "56,78\n12,34\n12,34\n"

	statement := svc.ParseText(text, dto.ParserTypeStatement)
	if assert.NotNil(t, statement.Total) {
		assert.Equal(t, "56.78", statement.Total.StringFixed(2))
	}

	invoice := svc.ParseText(text, dto.ParserTypeInvoice)
	if assert.NotNil(t, invoice.Total) {
		assert.Equal(t, "12.34", invoice.Total.StringFixed(2))
	}
}

func TestExtractInvoiceNumber(t *testing.T) {
	cases := map[string]string{
		"Facture no F-2025-001":     "F-2025-001",
		"Facture #2025-042":         "2025-042",
		"Invoice No. INV-0042":      "INV-0042",
		"Référence : ABC-123/07":    "ABC-123/07",
		"Compte: 4532-99":           "4532-99",
		"Invoice Date: 2025-01-15":  "",
		"Référence: ABC":            "",
		"aucun identifiant présent": "",
	}
	for text, want := range cases {
		assert.Equal(t, want, extractInvoiceNumber(text), "text: %s", text)
	}
}

func TestGuessCompanyLine(t *testing.T) {
	text := "\n  \nFACTURE\nBell Canada\nTotal: 10,00"
	assert.Equal(t, "Bell Canada", guessCompanyLine(text))

	// Label and numeric lines never qualify.
	assert.Equal(t, "", guessCompanyLine("FACTURE\n12345\nTotal: 10,00"))

	// Only the leading lines are inspected.
	late := "1\n2\n3\n4\n5\nBell Canada"
	assert.Equal(t, "", guessCompanyLine(late))
}

func TestScannedPDFOCRHonorsCancellation(t *testing.T) {
	proc := &stubPDFProcessor{images: []image.Image{image.NewRGBA(image.Rect(0, 0, 1, 1))}}
	svc := NewInvoiceService(nil, nil, proc, alias.NewResolver(nil))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	text, ref, quality := svc.ocrScannedPDF(ctx, nil, "", dto.DocumentQuality{})
	assert.Empty(t, text)
	assert.Empty(t, ref)
	assert.Contains(t, quality.Issues, "ocr_cancelled")
	assert.Contains(t, quality.Issues, "scanned_pdf_ocr_failed")
}

func TestGuessCompanyLineStopWordsMatchWholeTokens(t *testing.T) {
	// Stop words disqualify only as standalone tokens, never as fragments
	// of a longer name.
	assert.Equal(t, "Update Solutions", guessCompanyLine("Update Solutions\nTotal: 10,00"))
	assert.Equal(t, "Lepage Électrique", guessCompanyLine("Lepage Électrique\nFacture no 42-1"))

	assert.Equal(t, "", guessCompanyLine("Relevé de compte\nTotal: 10,00"))
	assert.Equal(t, "", guessCompanyLine("Facture :\nTotal: 10,00"))
}
