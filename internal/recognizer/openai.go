package recognizer

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const chatModel = openai.ChatModelGPT4_1Mini

// maxParseRetries bounds the JSON repair loop for a single identification.
const maxParseRetries = 3

type OpenAIProvider struct {
	client    *openai.Client
	threshold float64
	usage     Usage
}

// NewOpenAIProvider creates the default vision backend. The threshold is
// only advertised to the model in the instruction; enforcement happens in
// the Client.
func NewOpenAIProvider(apiKey string, threshold float64) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, ErrNoCredentials
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIProvider{client: &client, threshold: threshold}, nil
}

func (p *OpenAIProvider) Name() string {
	return chatModel
}

func (p *OpenAIProvider) GetUsage() *Usage {
	return &p.usage
}

func (p *OpenAIProvider) ResetUsage() {
	p.usage = Usage{}
}

func (p *OpenAIProvider) trackUsage(inputTokens, outputTokens int64) {
	p.usage.InputTokens += int(inputTokens)
	p.usage.OutputTokens += int(outputTokens)
}

// Identify sends one ordered request: system instruction, then each labeled
// reference photo, then the probe instruction and probe photo. Images are
// expected to be pre-sized by the caller.
func (p *OpenAIProvider) Identify(ctx context.Context, probe []byte, refs []Reference) (*Result, error) {
	parts := make([]openai.ChatCompletionContentPartUnionParam, 0, 2*len(refs)+2)
	for i, ref := range refs {
		parts = append(parts,
			openai.TextContentPart(referenceLabel(i, ref)),
			openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
				URL:    dataURL(ref.Photo),
				Detail: "low",
			}),
		)
	}
	parts = append(parts,
		openai.TextContentPart(identifyProbePrompt),
		openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL:    dataURL(probe),
			Detail: "low",
		}),
	)

	messages := []openai.ChatCompletionMessageParamUnion{
		{
			OfSystem: &openai.ChatCompletionSystemMessageParam{
				Content: openai.ChatCompletionSystemMessageParamContentUnion{
					OfString: openai.String(buildSystemPrompt(p.threshold)),
				},
			},
		},
		{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfArrayOfContentParts: parts,
				},
			},
		},
	}

	var lastErr error

	for range maxParseRetries {
		resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Model:    chatModel,
			Messages: messages,
			ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
				OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
			},
			MaxTokens: openai.Int(300),
		})
		if err != nil {
			return nil, fmt.Errorf("OpenAI API error: %w", err)
		}

		if len(resp.Choices) == 0 {
			return nil, errors.New("no response from OpenAI")
		}

		if resp.Usage.PromptTokens > 0 || resp.Usage.CompletionTokens > 0 {
			p.trackUsage(resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
		}

		content := resp.Choices[0].Message.Content

		result, err := parseResult(content)
		if err != nil {
			lastErr = err

			// Add assistant response and error feedback to messages for retry
			messages = append(messages,
				openai.ChatCompletionMessageParamUnion{
					OfAssistant: &openai.ChatCompletionAssistantMessageParam{
						Content: openai.ChatCompletionAssistantMessageParamContentUnion{
							OfString: openai.String(content),
						},
					},
				},
				openai.ChatCompletionMessageParamUnion{
					OfUser: &openai.ChatCompletionUserMessageParam{
						Content: openai.ChatCompletionUserMessageParamContentUnion{
							OfString: openai.String(fmt.Sprintf("Invalid reply: %v. Send only the strict JSON object.", err)),
						},
					},
				},
			)
			continue
		}

		return result, nil
	}

	return nil, fmt.Errorf("failed to get a valid verdict after %d attempts: %w", maxParseRetries, lastErr)
}

func dataURL(jpegData []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(jpegData)
}
