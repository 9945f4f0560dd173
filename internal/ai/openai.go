package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	oaoption "github.com/openai/openai-go/option"
)

// OpenAIProvider implements LLMProvider on the OpenAI chat completions API.
// Chat completions have no search tool, so Request.Grounding is ignored and
// the schema is embedded in the system instruction.
type OpenAIProvider struct {
	client openai.Client
	models Models
}

func NewOpenAIProvider(apiKey string, models Models) *OpenAIProvider {
	return &OpenAIProvider{
		client: openai.NewClient(oaoption.WithAPIKey(apiKey)),
		models: models,
	}
}

func (p *OpenAIProvider) Invoke(ctx context.Context, req Request) (string, error) {
	system := req.SystemInstruction
	if req.Schema != nil {
		raw, err := json.Marshal(req.Schema)
		if err != nil {
			return "", fmt.Errorf("openai: marshal schema: %w", err)
		}
		system += "\n\nRespond with a single JSON object that conforms to this JSON Schema:\n" + string(raw)
	}

	messages := []openai.ChatCompletionMessageParamUnion{}
	if system != "" {
		messages = append(messages, openai.SystemMessage(system))
	}
	messages = append(messages, openai.UserMessage(req.UserContent))
	return p.complete(ctx, req.Tier, messages)
}

func (p *OpenAIProvider) Chat(ctx context.Context, tier Tier, systemInstruction string, history []Message, message string) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	if systemInstruction != "" {
		messages = append(messages, openai.SystemMessage(systemInstruction))
	}
	for _, m := range history {
		if m.Role == RoleModel {
			messages = append(messages, openai.AssistantMessage(m.Text))
		} else {
			messages = append(messages, openai.UserMessage(m.Text))
		}
	}
	messages = append(messages, openai.UserMessage(message))
	return p.complete(ctx, tier, messages)
}

func (p *OpenAIProvider) complete(ctx context.Context, tier Tier, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(p.models.For(tier)),
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyReply
	}
	return resp.Choices[0].Message.Content, nil
}
