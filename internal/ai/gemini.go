package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"tripcover/internal/modules/extract"
)

// GeminiProvider implements LLMProvider using Google's Gemini models.
type GeminiProvider struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiProvider initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	// Use Gemini 2.0 Flash for low latency and cost efficiency.
	model := client.GenerativeModel("gemini-2.0-flash")

	// Force JSON response for structured parsing.
	model.ResponseMIMEType = "application/json"

	// Extraction and classification want low-variance output.
	model.SetTemperature(0.2)

	return &GeminiProvider{
		client: client,
		model:  model,
	}, nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() {
	p.client.Close()
}

// ClassifyIntent maps a user message to a raw intent label with confidence.
func (p *GeminiProvider) ClassifyIntent(ctx context.Context, message string, history []string) (string, float64, error) {
	prompt := fmt.Sprintf(`Role: You are the intent classifier for a travel-insurance assistant.

Recent conversation (oldest first):
%s

Classify the LATEST user message into exactly one of:
- "quote": the user is providing or asking about trip details for an insurance quote
  (destinations, travel dates, traveler ages, activities) or answering a collection question.
- "purchase": the user wants to buy or pay for a policy.
- "policy_question": the user asks what an existing or prospective policy covers.
- "claims": the user reports a loss, accident, cancellation, or wants to file a claim.
- "human_handoff": the user explicitly asks for a human agent.
- "document_upload": the user wants to send a document (itinerary, booking, passport scan).
- "general": greetings, small talk, anything else.

RULES:
- Short answers like "yes", "no", "Spain", "the 22nd" during an ongoing collection are "quote".
- Never invent labels outside the list above.

Output JSON Schema:
{"intent": "<label>", "confidence": <0.0-1.0>}

User Message: %s`, strings.Join(history, "\n"), message)

	raw, err := p.generate(ctx, prompt)
	if err != nil {
		return "", 0, err
	}
	var result intentResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return "", 0, fmt.Errorf("failed to parse JSON response: %w. Raw: %s", err, raw)
	}
	return result.Intent, result.Confidence, nil
}

// ExtractTripFields extracts candidate trip parameters from free text.
func (p *GeminiProvider) ExtractTripFields(ctx context.Context, message string, known extract.Known) (*extract.ModelCandidates, error) {
	prompt := fmt.Sprintf(`Role: You extract travel-insurance trip parameters from one user message.

Already known (NEVER re-emit a field unless the message explicitly changes it):
%s

RULES:
1. Emit a field ONLY when the message clearly states it. Omit everything else.
2. Dates are ISO "YYYY-MM-DD". Resolve relative wording against the known
   departure date where possible; when day/month order is ambiguous prefer the
   future interpretation.
3. "adventure_sports" is emitted ONLY on an explicit yes/no-equivalent statement
   about adventure activities (skiing, diving, climbing, and similar). If the
   user says "no" to adventure sports you MUST emit false, never true.
4. "traveler_ages" lists every traveler's age as integers.
5. Do not guess. An omitted field means "no new information" and is always safe.

Output JSON Schema (all fields optional):
{"destination": "string", "departure_date": "YYYY-MM-DD", "return_date": "YYYY-MM-DD",
 "traveler_ages": [int], "adventure_sports": true|false}

User Message: %s`, describeKnown(known), message)

	raw, err := p.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	var cands extract.ModelCandidates
	if err := json.Unmarshal([]byte(raw), &cands); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w. Raw: %s", err, raw)
	}
	return &cands, nil
}

// PhraseQuestion produces conversational wording for the next question.
func (p *GeminiProvider) PhraseQuestion(ctx context.Context, field extract.Field, known extract.Known) (string, error) {
	prompt := fmt.Sprintf(`Role: You phrase the next question for a friendly travel-insurance assistant.

Already collected:
%s

Ask the user for: %s

RULES:
- One short question, no markdown, no preamble, under 200 characters.
- Reference known context naturally (mention the destination if known).
- Never ask about anything except the requested field.

Output JSON Schema:
{"question": "string"}`, describeKnown(known), field)

	raw, err := p.generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	var result questionResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return "", fmt.Errorf("failed to parse JSON response: %w. Raw: %s", err, raw)
	}
	return result.Question, nil
}

func (p *GeminiProvider) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := p.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response candidates from Gemini")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		}
	}

	// Clean up potential markdown formatting (json mode should handle this, safety first).
	return cleanJSONString(responseText.String()), nil
}

func describeKnown(known extract.Known) string {
	var b strings.Builder
	if known.Destination != "" {
		fmt.Fprintf(&b, "- destination: %s\n", known.Destination)
	}
	if known.DepartureDate != nil {
		fmt.Fprintf(&b, "- departure_date: %s\n", known.DepartureDate.Format("2006-01-02"))
	}
	if known.ReturnDate != nil {
		fmt.Fprintf(&b, "- return_date: %s\n", known.ReturnDate.Format("2006-01-02"))
	}
	if len(known.TravelerAges) > 0 {
		fmt.Fprintf(&b, "- traveler_ages: %v\n", known.TravelerAges)
	}
	if known.AdventureSports != extract.TriUnknown {
		fmt.Fprintf(&b, "- adventure_sports: %s\n", known.AdventureSports)
	}
	if b.Len() == 0 {
		return "- nothing yet\n"
	}
	return b.String()
}

// cleanJSONString removes markdown code blocks if present (e.g. ```json ... ```)
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
