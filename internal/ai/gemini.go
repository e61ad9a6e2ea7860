package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// maxSampleLines bounds how much raw output goes into a prompt.
const maxSampleLines = 20

// GeminiProvider implements Provider using Google's Gemini models.
type GeminiProvider struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiProvider initializes a new Gemini client. An empty apiKey yields
// ErrNotConfigured.
func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-2.0-flash")
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0.2)

	return &GeminiProvider{
		client: client,
		model:  model,
	}, nil
}

func (p *GeminiProvider) Close() {
	p.client.Close()
}

// SummarizeRun asks the model to explain pooling behaviour of a run.
func (p *GeminiProvider) SummarizeRun(ctx context.Context, run RunSummary) (*Insight, error) {
	prompt, err := buildInsightPrompt(run)
	if err != nil {
		return nil, err
	}

	resp, err := p.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no response candidates from Gemini")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}
	return parseInsight(text.String())
}

func parseInsight(raw string) (*Insight, error) {
	clean := cleanJSONString(raw)
	var out Insight
	if err := json.Unmarshal([]byte(clean), &out); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w. Raw: %s", err, clean)
	}
	return &out, nil
}

func buildInsightPrompt(run RunSummary) (string, error) {
	if len(run.SampleLines) > maxSampleLines {
		run.SampleLines = run.SampleLines[:maxSampleLines]
	}
	payload, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`Role: You analyse runs of a ride-pooling simulator.

Model:
- Demands are grouped greedily in request order into shared rides.
- eta is vehicle capacity, gama is speed, delta is the time window measured from the first member,
  alfa/beta are the maximum origin/destination distances between members,
  lambda is the minimum efficiency (sum of solo distances / shared route distance).
- Each output line is "completion_time distance efficiency stop_count" followed by stop coordinates.

Run:
%s

Answer with JSON only:
{
  "headline": "one sentence on how much pooling happened",
  "observations": ["short factual observations grounded in the numbers"],
  "suggestions": ["parameter changes that would increase pooling or efficiency"]
}
`, payload), nil
}

// cleanJSONString removes markdown code blocks if present (e.g. ```json ... ```)
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
