package receipts

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// OCR turns a receipt image into plain text.
type OCR interface {
	RecognizeText(ctx context.Context, mimeType string, data []byte) (string, error)
}

const ocrPrompt = "Transcribe all text visible in this receipt image.\n" +
	"Treat the receipt as a single uniform block of text and return plain text only, one line per printed line.\n" +
	"Use only letters, digits, spaces and the characters . , $ / -\n" +
	"Keep digits, currency symbols and punctuation exactly as printed.\n" +
	"Do not describe the image, do not add commentary, do not use Markdown."

// GeminiOCR recognizes receipt text with a Gemini vision model.
type GeminiOCR struct {
	client *genai.Client
	model  string
}

// NewGeminiOCR wraps an existing genai client.
func NewGeminiOCR(client *genai.Client, model string) *GeminiOCR {
	return &GeminiOCR{client: client, model: model}
}

// RecognizeText sends the image to the model and returns the transcription.
func (g *GeminiOCR) RecognizeText(ctx context.Context, mimeType string, data []byte) (string, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: ocrPrompt},
				{
					InlineData: &genai.Blob{
						MIMEType: mimeType,
						Data:     data,
					},
				},
			},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("RecognizeText: generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("RecognizeText: empty response from model")
	}
	return text, nil
}
