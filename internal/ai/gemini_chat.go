package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// geminiChat runs multi-turn conversations through a Gemini chat session.
type geminiChat struct {
	client *genai.Client
}

func newGeminiChat(ctx context.Context, apiKey string) (*geminiChat, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini chat client: %w", err)
	}
	return &geminiChat{client: client}, nil
}

func (c *geminiChat) close() {
	c.client.Close()
}

func (c *geminiChat) send(ctx context.Context, modelName, systemInstruction string, history []Message, message string) (string, error) {
	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(0.7)
	if systemInstruction != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(systemInstruction))
	}

	cs := model.StartChat()
	cs.History = toChatHistory(history)

	resp, err := cs.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", fmt.Errorf("gemini chat error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyReply
	}

	var reply strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			reply.WriteString(string(txt))
		}
	}
	if strings.TrimSpace(reply.String()) == "" {
		return "", ErrEmptyReply
	}
	return reply.String(), nil
}

func toChatHistory(history []Message) []*genai.Content {
	out := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		role := "user"
		if m.Role == RoleModel {
			role = "model"
		}
		out = append(out, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(m.Text)}})
	}
	return out
}
