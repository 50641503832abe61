// Package receipts turns uploaded receipt files into suggested transaction
// fields. PDFs are read through their embedded text layer; images go through
// an OCR model. The recognized text is then mined with the heuristics in the
// extract package.
package receipts

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/spendwise/spendwise/internal/extract"
)

// ScanResult carries the fields recovered from a receipt. Empty fields could
// not be found; the caller decides how to prefill its form. RawText is kept
// so users can double-check what the scanner actually read.
type ScanResult struct {
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Description string `json:"description"`
	RawText     string `json:"raw_text"`
}

// Scanner fetches stored receipts, recognizes their text and extracts fields.
type Scanner struct {
	blobs BlobStore
	ocr   OCR
	log   zerolog.Logger
}

// NewScanner creates a scanner over the given storage and OCR backends.
func NewScanner(blobs BlobStore, ocr OCR, log zerolog.Logger) *Scanner {
	return &Scanner{blobs: blobs, ocr: ocr, log: log}
}

// Scan downloads the receipt at uri and extracts transaction fields from it.
func (s *Scanner) Scan(ctx context.Context, uri, mimeType string) (*ScanResult, error) {
	data, err := s.blobs.Fetch(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("Scan: fetching receipt: %w", err)
	}

	text, err := s.recognize(ctx, data, mimeType)
	if err != nil {
		return nil, err
	}

	result := ExtractFields(text)
	s.log.Info().
		Str("receipt", FilenameFromURI(uri)).
		Bool("amount_found", result.Amount != "").
		Bool("date_found", result.Date != "").
		Msg("Receipt scanned")
	return result, nil
}

func (s *Scanner) recognize(ctx context.Context, data []byte, mimeType string) (string, error) {
	if mimeType == "application/pdf" || IsPDF(data) {
		text, err := PDFText(data)
		if err != nil {
			return "", fmt.Errorf("Scan: %w", err)
		}
		return text, nil
	}

	text, err := s.ocr.RecognizeText(ctx, mimeType, data)
	if err != nil {
		return "", fmt.Errorf("Scan: %w", err)
	}
	return text, nil
}

// ExtractFields runs the field heuristics over already-recognized text.
func ExtractFields(text string) *ScanResult {
	result := &ScanResult{RawText: strings.TrimSpace(text)}
	if amount, ok := extract.FindAmount(text); ok {
		result.Amount = amount
	}
	if date, ok := extract.FindDate(text); ok {
		result.Date = date
	}
	if description, ok := extract.FindDescription(text); ok {
		result.Description = description
	}
	return result
}
