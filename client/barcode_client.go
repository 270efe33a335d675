package client

import (
	"fmt"
	"image"
	"log"
	"strings"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// BarcodeClient decodes QR payment codes printed on scanned invoices.
// Many billing statements carry the invoice reference in a QR code that
// survives low-quality scans far better than the printed text does.
type BarcodeClient struct {
	reader gozxing.Reader
}

func NewBarcodeClient() *BarcodeClient {
	return &BarcodeClient{
		reader: qrcode.NewQRCodeReader(),
	}
}

// DecodeReference scans the image for a QR code and extracts an invoice
// reference from its payload. Absence of a QR code is an error the caller
// is expected to ignore.
func (bc *BarcodeClient) DecodeReference(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("failed to build bitmap: %w", err)
	}

	result, err := bc.reader.Decode(bmp, nil)
	if err != nil {
		return "", fmt.Errorf("no QR code found: %w", err)
	}

	ref := referenceFromPayload(result.GetText())
	if ref == "" {
		return "", fmt.Errorf("QR payload carries no invoice reference")
	}

	log.Printf("QR code yielded invoice reference %s", ref)
	return ref, nil
}

// referenceFromPayload pulls an invoice reference out of a QR payload.
// Payment QR payloads are usually key=value pairs or a bare reference.
func referenceFromPayload(payload string) string {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return ""
	}

	for _, field := range strings.FieldsFunc(payload, func(r rune) bool {
		return r == '&' || r == ';' || r == '\n'
	}) {
		k, v, found := strings.Cut(field, "=")
		if !found {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(k)) {
		case "ref", "reference", "invoice", "facture", "no":
			return strings.TrimSpace(v)
		}
	}

	// Bare payloads: accept short single-token references only.
	if !strings.ContainsAny(payload, " =") && len(payload) <= 32 {
		return payload
	}
	return ""
}
