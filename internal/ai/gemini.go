package ai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiProvider implements LLMProvider using Google's Gemini models.
// Structured calls go through the unified genai SDK, which supports
// response schemas together with Google Search grounding; open-ended chat
// goes through a chat session (see gemini_chat.go).
type GeminiProvider struct {
	client *genai.Client
	chat   *geminiChat
	models Models
}

// NewGeminiProvider initializes the Gemini clients.
// apiKey should be provided from environment variables.
func NewGeminiProvider(ctx context.Context, apiKey string, models Models) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	chat, err := newGeminiChat(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	return &GeminiProvider{client: client, chat: chat, models: models}, nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() {
	p.chat.close()
}

func (p *GeminiProvider) Invoke(ctx context.Context, req Request) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.4),
	}
	if req.SystemInstruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	if req.Schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = toGenaiSchema(req.Schema)
	}
	if req.Grounding {
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.models.For(req.Tier), genai.Text(req.UserContent), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generation error: %w", err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}

func (p *GeminiProvider) Chat(ctx context.Context, tier Tier, systemInstruction string, history []Message, message string) (string, error) {
	return p.chat.send(ctx, p.models.For(tier), systemInstruction, history, message)
}

func toGenaiSchema(s *Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        genai.Type(strings.ToUpper(string(s.Type))),
		Description: s.Description,
		Required:    s.Required,
		Enum:        s.Enum,
		Items:       toGenaiSchema(s.Items),
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
	}
	return out
}
