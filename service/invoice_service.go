package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // uploaded scans arrive as JPEG or PNG
	"image/png"
	"log"
	"mime/multipart"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/mlachapelle/ocr-invoice-extraction/alias"
	"github.com/mlachapelle/ocr-invoice-extraction/client"
	"github.com/mlachapelle/ocr-invoice-extraction/dto"
	"github.com/mlachapelle/ocr-invoice-extraction/utils"
)

// minUsableTextLength is the threshold below which a PDF text layer is
// treated as absent and the scanned-page OCR fallback kicks in.
const minUsableTextLength = 20

type InvoiceService struct {
	tesseractClient *client.TesseractClient
	barcodeClient   *client.BarcodeClient
	pdfProcessor    PDFProcessor
	resolver        *alias.Resolver
}

func NewInvoiceService(
	tesseractClient *client.TesseractClient,
	barcodeClient *client.BarcodeClient,
	pdfProcessor PDFProcessor,
	resolver *alias.Resolver,
) *InvoiceService {
	return &InvoiceService{
		tesseractClient: tesseractClient,
		barcodeClient:   barcodeClient,
		pdfProcessor:    pdfProcessor,
		resolver:        resolver,
	}
}

// ParseText runs the extraction core over already-acquired text. It never
// fails: fields that cannot be extracted stay absent and the confidence
// level reflects how much was found.
func (s *InvoiceService) ParseText(text string, parserType dto.ParserType) *dto.ParsedInvoice {
	if parserType == "" {
		parserType = dto.ParserTypeInvoice
	}

	tieBreak := utils.TieBreakMostFrequent
	if parserType == dto.ParserTypeStatement {
		tieBreak = utils.TieBreakFirst
	}

	result := &dto.ParsedInvoice{
		Company:    dto.UnknownCompany,
		ParserType: parserType,
		RawText:    text,
	}

	if total, ok := utils.ExtractTotalWithTieBreak(text, tieBreak); ok {
		result.Total = &total
	}

	if date, ok := utils.ExtractDate(text); ok {
		result.Date = date
	}

	if match, ok := s.resolver.Resolve(text); ok {
		result.Company = match.OfficialName
		result.CompanyMatch = &dto.CompanyMatch{
			OfficialName: match.OfficialName,
			MatchKind:    string(match.Kind),
			Confidence:   match.Confidence,
		}
	} else if guess := guessCompanyLine(text); guess != "" {
		result.Company = guess
		// Score the guessed line against the official names with the
		// distance-ceiling candidate search. The threshold keeps its
		// historical comparison direction, mirrored by the resolver's
		// similarity-floor tier.
		officialNames := s.resolver.Config().OfficialNames
		if name, _, ok := alias.BestFuzzyCandidate(guess, officialNames, alias.DefaultFuzzyDistance); ok {
			result.Company = name
		}
	}

	result.InvoiceNumber = extractInvoiceNumber(text)
	result.Confidence = utils.ScoreConfidence(result.Company, result.Total, result.Date, len(text))

	return result
}

// ParseDocument acquires text from an uploaded PDF or image, preferring the
// structured text layer and falling back to OCR for scans, then runs the
// extraction core over whatever text came out.
func (s *InvoiceService) ParseDocument(ctx context.Context, fileHeader *multipart.FileHeader, data []byte, password string, parserType dto.ParserType) (*dto.ParsedInvoice, error) {
	var text string
	var quality dto.DocumentQuality
	var qrReference string

	isPDF := strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf")

	if isPDF {
		extracted, err := s.pdfProcessor.ExtractText(data)
		if err != nil {
			log.Printf("PDF text extraction failed for %s: %v", fileHeader.Filename, err)
			quality.Issues = append(quality.Issues, "pdf_text_extraction_failed")
		}
		text = extracted

		if len(strings.TrimSpace(text)) < minUsableTextLength {
			log.Printf("PDF %s has no usable text layer, attempting image-based OCR", fileHeader.Filename)
			text, qrReference, quality = s.ocrScannedPDF(ctx, data, password, quality)
		} else {
			quality.OcrConfidence = 100.0
			quality.ResolutionScore = 100.0
			quality.FinalScore = 100.0
		}
	} else {
		extracted, conf, err := s.tesseractClient.ExtractTextAndQualityFromFile(fileHeader)
		if err != nil {
			return nil, fmt.Errorf("image OCR failed: %w", err)
		}
		text = extracted

		quality.OcrConfidence = conf
		quality.ResolutionScore = 80.0
		quality.FinalScore = (quality.OcrConfidence + quality.ResolutionScore) / 2
		if quality.FinalScore < 60 {
			quality.Issues = append(quality.Issues, "low_quality_document")
		}

		if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
			if ref, err := s.barcodeClient.DecodeReference(img); err == nil {
				qrReference = ref
			}
		}
	}

	if len(strings.TrimSpace(text)) == 0 {
		return nil, fmt.Errorf("no text could be extracted from %s", fileHeader.Filename)
	}

	result := s.ParseText(text, parserType)
	result.Quality = quality

	// A QR payment code beats the regex guess for the reference number.
	if qrReference != "" {
		result.InvoiceNumber = qrReference
	}

	return result, nil
}

// ocrScannedPDF extracts page images from a scanned PDF and OCRs each one,
// aggregating text, confidence and any QR-borne invoice reference. OCR of a
// multi-page scan is the one slow path here, so cancellation is honored
// between pages.
func (s *InvoiceService) ocrScannedPDF(ctx context.Context, data []byte, password string, quality dto.DocumentQuality) (string, string, dto.DocumentQuality) {
	images, err := s.pdfProcessor.ExtractImages(data, password)
	if err != nil || len(images) == 0 {
		log.Printf("Failed to extract images from PDF: %v", err)
		quality.Issues = append(quality.Issues, "pdf_image_extraction_failed")
		return "", "", quality
	}

	var combined strings.Builder
	var totalConfidence float64
	var pageCount int
	var qrReference string

	for _, img := range images {
		if ctx.Err() != nil {
			log.Printf("OCR cancelled after %d of %d pages: %v", pageCount, len(images), ctx.Err())
			quality.Issues = append(quality.Issues, "ocr_cancelled")
			break
		}

		if qrReference == "" {
			if ref, err := s.barcodeClient.DecodeReference(img); err == nil {
				qrReference = ref
			}
		}

		tempImgFile, err := saveImageToTempFile(img)
		if err != nil {
			log.Printf("Failed to save temporary image for OCR: %v", err)
			continue
		}

		pageText, pageConf, err := s.tesseractClient.ExtractTextAndQuality(tempImgFile)
		os.Remove(tempImgFile)
		if err != nil {
			log.Printf("OCR failed for a page: %v", err)
			continue
		}

		combined.WriteString(pageText)
		combined.WriteString("\n")
		totalConfidence += pageConf
		pageCount++
	}

	if pageCount == 0 {
		quality.Issues = append(quality.Issues, "scanned_pdf_ocr_failed")
		return "", qrReference, quality
	}

	quality.OcrConfidence = totalConfidence / float64(pageCount)
	quality.ResolutionScore = 80.0
	quality.FinalScore = (quality.OcrConfidence + quality.ResolutionScore) / 2
	if quality.FinalScore < 60 {
		quality.Issues = append(quality.Issues, "low_quality_document")
	}

	return combined.String(), qrReference, quality
}

var invoiceNumberRe = regexp.MustCompile(`(?i)(?:facture|invoice|r[ée]f[ée]rence|compte)\s*(?:no\.?|n[o°º]|#|num[ée]ro)?\s*[:#]?\s*([A-Za-z0-9][A-Za-z0-9\-/]{2,19})`)

// extractInvoiceNumber finds a labelled reference token. The token must
// carry at least one digit, so "Invoice date" never reads as a reference.
func extractInvoiceNumber(text string) string {
	for _, m := range invoiceNumberRe.FindAllStringSubmatch(text, -1) {
		if strings.ContainsAny(m[1], "0123456789") {
			return strings.ToUpper(m[1])
		}
	}
	return ""
}

// companyLineStopWords disqualify a line from being a vendor-name guess.
// Matching is per token, so names merely containing a stop word as a
// fragment ("Update Solutions", "Lepage Électrique") still qualify.
var companyLineStopWords = map[string]bool{
	"facture": true, "invoice": true, "statement": true,
	"releve": true, "relevé": true, "date": true, "total": true,
	"montant": true, "solde": true, "page": true,
	"compte": true, "account": true,
}

func hasStopWordToken(folded string) bool {
	for _, token := range strings.Fields(folded) {
		if companyLineStopWords[strings.Trim(token, ":;,.#-")] {
			return true
		}
	}
	return false
}

var alphaRunRe = regexp.MustCompile(`[A-Za-zÀ-ÿ]{3,}`)

// guessCompanyLine is the plain-text fallback when alias resolution finds
// nothing: the first of the leading lines that looks like a name rather
// than a label or a number block.
func guessCompanyLine(text string) string {
	lines := strings.Split(text, "\n")
	inspected := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		inspected++
		if inspected > 5 {
			break
		}

		if !alphaRunRe.MatchString(trimmed) || len(trimmed) > 60 {
			continue
		}

		if !hasStopWordToken(strings.ToLower(trimmed)) {
			return trimmed
		}
	}
	return ""
}

// saveImageToTempFile saves an image.Image to a temporary PNG file.
func saveImageToTempFile(img image.Image) (string, error) {
	tempFile, err := os.CreateTemp("", "ocr-img-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create temp image file: %w", err)
	}
	defer tempFile.Close()

	if err := png.Encode(tempFile, img); err != nil {
		return "", fmt.Errorf("failed to encode image to PNG: %w", err)
	}

	return tempFile.Name(), nil
}

// ProcessedTimestamp returns the RFC3339 stamp attached to responses.
func ProcessedTimestamp() string {
	return time.Now().Format(time.RFC3339)
}
