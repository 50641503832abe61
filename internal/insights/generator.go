package insights

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// Generator turns an expense summary into advisor recommendations using a
// Gemini model.
type Generator struct {
	client *genai.Client
	model  string
	log    zerolog.Logger
}

// NewGenerator wraps an existing genai client. The caller owns the client's
// lifecycle.
func NewGenerator(client *genai.Client, model string, log zerolog.Logger) *Generator {
	return &Generator{client: client, model: model, log: log}
}

// Generate asks the model for 3-5 actionable recommendations based on the
// summary. Returns one suggestion per slice element.
func (g *Generator) Generate(ctx context.Context, summary Summary) ([]string, error) {
	prompt := buildPrompt(summary)

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("Generate: generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("Generate: empty response from model")
	}

	suggestions := parseSuggestions(text)
	g.log.Info().Int("suggestions", len(suggestions)).Msg("Insights generated")
	return suggestions, nil
}

func buildPrompt(summary Summary) string {
	var sb strings.Builder
	sb.WriteString("As a financial advisor, analyze this expense data and provide actionable insights:\n\n")
	fmt.Fprintf(&sb, "Total Expenses: $%s\n", summary.Total.StringFixed(2))
	fmt.Fprintf(&sb, "Average Expense: $%s\n\n", summary.Average.StringFixed(2))

	sb.WriteString("Top spending categories:\n")
	for _, cat := range summary.TopCategories {
		fmt.Fprintf(&sb, "- %s: $%s\n", cat.Name, cat.Amount.StringFixed(2))
	}

	sb.WriteString("\nMonthly trend:\n")
	for _, month := range summary.MonthlyTrend {
		fmt.Fprintf(&sb, "- %s: $%s\n", month.Month, month.Amount.StringFixed(2))
	}

	sb.WriteString("\nRecent expenses:\n")
	for _, e := range summary.Recent {
		fmt.Fprintf(&sb, "- $%s on %s (%s)\n", e.Amount.StringFixed(2), e.Description, e.Category)
	}

	sb.WriteString("\nProvide 3-5 specific, actionable recommendations to help optimize spending, including:\n" +
		"1. Identify potential areas of overspending\n" +
		"2. Suggest specific ways to reduce expenses\n" +
		"3. Point out any concerning patterns or trends\n" +
		"4. Recommend budgeting strategies\n" +
		"Keep each recommendation concise but specific.\n" +
		"Return one recommendation per line, without Markdown formatting.\n")
	return sb.String()
}

var listMarkerPattern = regexp.MustCompile(`^(?:\d+\.|[-*•])\s*`)

// parseSuggestions splits the model output into individual recommendations,
// stripping list markers the model tends to add despite instructions.
func parseSuggestions(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = listMarkerPattern.ReplaceAllString(line, "")
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
