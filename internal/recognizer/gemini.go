package recognizer

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const geminiModel = "gemini-2.5-flash"

type GeminiProvider struct {
	client    *genai.Client
	threshold float64
	usage     Usage
}

// NewGeminiProvider creates the alternative vision backend.
func NewGeminiProvider(ctx context.Context, apiKey string, threshold float64) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, ErrNoCredentials
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{client: client, threshold: threshold}, nil
}

func (p *GeminiProvider) Name() string {
	return geminiModel
}

func (p *GeminiProvider) GetUsage() *Usage {
	return &p.usage
}

func (p *GeminiProvider) ResetUsage() {
	p.usage = Usage{}
}

func (p *GeminiProvider) trackUsage(inputTokens, outputTokens int32) {
	p.usage.InputTokens += int(inputTokens)
	p.usage.OutputTokens += int(outputTokens)
}

// Identify mirrors the OpenAI provider's request shape using Gemini content
// parts: instruction, labeled reference blobs, probe instruction, probe blob.
func (p *GeminiProvider) Identify(ctx context.Context, probe []byte, refs []Reference) (*Result, error) {
	parts := make([]*genai.Part, 0, 2*len(refs)+3)
	parts = append(parts, &genai.Part{Text: buildSystemPrompt(p.threshold)})
	for i, ref := range refs {
		parts = append(parts,
			&genai.Part{Text: referenceLabel(i, ref)},
			&genai.Part{InlineData: &genai.Blob{Data: ref.Photo, MIMEType: "image/jpeg"}},
		)
	}
	parts = append(parts,
		&genai.Part{Text: identifyProbePrompt},
		&genai.Part{InlineData: &genai.Blob{Data: probe, MIMEType: "image/jpeg"}},
	)

	contents := []*genai.Content{{Role: "user", Parts: parts}}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}

	var lastErr error

	for range maxParseRetries {
		resp, err := p.client.Models.GenerateContent(ctx, geminiModel, contents, config)
		if err != nil {
			return nil, fmt.Errorf("gemini API error: %w", err)
		}

		if resp.UsageMetadata != nil {
			p.trackUsage(resp.UsageMetadata.PromptTokenCount, resp.UsageMetadata.CandidatesTokenCount)
		}

		content := resp.Text()

		result, err := parseResult(content)
		if err != nil {
			lastErr = err

			// Add model response and error feedback to contents for retry
			contents = append(contents,
				&genai.Content{
					Role:  "model",
					Parts: []*genai.Part{{Text: content}},
				},
				&genai.Content{
					Role:  "user",
					Parts: []*genai.Part{{Text: fmt.Sprintf("Invalid reply: %v. Send only the strict JSON object.", err)}},
				},
			)
			continue
		}

		return result, nil
	}

	return nil, fmt.Errorf("failed to get a valid verdict after %d attempts: %w", maxParseRetries, lastErr)
}
