package receipts

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

type fakeBlobs struct {
	data map[string][]byte
}

func (f *fakeBlobs) Upload(_ context.Context, objectName string, data []byte) (string, error) {
	if f.data == nil {
		f.data = make(map[string][]byte)
	}
	uri := "gs://test-bucket/" + objectName
	f.data[uri] = data
	return uri, nil
}

func (f *fakeBlobs) Fetch(_ context.Context, uri string) ([]byte, error) {
	data, ok := f.data[uri]
	if !ok {
		return nil, errors.New("object not found")
	}
	return data, nil
}

type fakeOCR struct {
	text string
	err  error
}

func (f *fakeOCR) RecognizeText(context.Context, string, []byte) (string, error) {
	return f.text, f.err
}

func TestScan(t *testing.T) {
	receipt := "COFFEE CORNER\nTotal: $45.67\n03/15/2024\nThank you for your visit"

	blobs := &fakeBlobs{}
	uri, err := blobs.Upload(context.Background(), "receipts/r1.jpg", []byte("jpeg-bytes"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	scanner := NewScanner(blobs, &fakeOCR{text: receipt}, zerolog.Nop())
	result, err := scanner.Scan(context.Background(), uri, "image/jpeg")
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if result.Amount != "45.67" {
		t.Errorf("Amount = %q, want %q", result.Amount, "45.67")
	}
	if result.Date != "2024-03-15" {
		t.Errorf("Date = %q, want %q", result.Date, "2024-03-15")
	}
	if result.Description != "COFFEE CORNER" {
		t.Errorf("Description = %q, want %q", result.Description, "COFFEE CORNER")
	}
	if result.RawText != receipt {
		t.Errorf("RawText = %q, want the recognized text", result.RawText)
	}
}

func TestScanOCRFailure(t *testing.T) {
	blobs := &fakeBlobs{}
	uri, _ := blobs.Upload(context.Background(), "receipts/bad.png", []byte("png-bytes"))

	scanner := NewScanner(blobs, &fakeOCR{err: errors.New("model unavailable")}, zerolog.Nop())
	if _, err := scanner.Scan(context.Background(), uri, "image/png"); err == nil {
		t.Fatal("Scan() expected error when OCR fails")
	}
}

func TestScanMissingObject(t *testing.T) {
	scanner := NewScanner(&fakeBlobs{}, &fakeOCR{}, zerolog.Nop())
	if _, err := scanner.Scan(context.Background(), "gs://test-bucket/missing", "image/png"); err == nil {
		t.Fatal("Scan() expected error for unknown object")
	}
}

func TestExtractFields(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		amount      string
		date        string
		description string
	}{
		{
			name:        "standard receipt",
			text:        "Total: $45.67\n03/15/2024\nCoffee Shop Purchase",
			amount:      "45.67",
			date:        "2024-03-15",
			description: "Coffee Shop Purchase",
		},
		{
			name: "nothing recognizable",
			text: "Thank you\nabc",
		},
		{
			name:   "amount only",
			text:   "amount due 12.00",
			amount: "12.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExtractFields(tt.text)
			if result.Amount != tt.amount {
				t.Errorf("Amount = %q, want %q", result.Amount, tt.amount)
			}
			if result.Date != tt.date {
				t.Errorf("Date = %q, want %q", result.Date, tt.date)
			}
			if result.Description != tt.description {
				t.Errorf("Description = %q, want %q", result.Description, tt.description)
			}
		})
	}
}

// The transcription prompt constrains the model to receipt-shaped output:
// a restricted character set and a single uniform block of text.
func TestOCRPromptConstraints(t *testing.T) {
	if !strings.Contains(ocrPrompt, "single uniform block") {
		t.Error("ocrPrompt is missing the uniform block instruction")
	}
	if !strings.Contains(ocrPrompt, ". , $ / -") {
		t.Error("ocrPrompt is missing the character set restriction")
	}
}

func TestFilenameFromURI(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"gs://bucket/receipts/abc.pdf", "abc.pdf"},
		{"gs://bucket/deep/nested/r.png", "r.png"},
		{"gs://bucket-only", "bucket-only"},
	}
	for _, tt := range tests {
		if got := FilenameFromURI(tt.uri); got != tt.want {
			t.Errorf("FilenameFromURI(%q) = %q, want %q", tt.uri, got, tt.want)
		}
	}
}

func TestIsPDF(t *testing.T) {
	if !IsPDF([]byte("%PDF-1.7 rest")) {
		t.Error("IsPDF() = false for a PDF header")
	}
	if IsPDF([]byte{0x89, 'P', 'N', 'G'}) {
		t.Error("IsPDF() = true for PNG bytes")
	}
}
