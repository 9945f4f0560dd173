package ai

import (
	"context"
	"errors"
)

// ErrEmptyReply is returned when a provider answers without any text.
var ErrEmptyReply = errors.New("model returned an empty reply")

// LLMProvider defines the contract for interacting with AI models.
// Gemini and OpenAI backends both satisfy it.
type LLMProvider interface {
	// Invoke issues a single request and returns the raw reply text. When
	// req.Schema is set the reply is expected, not guaranteed, to be JSON
	// conforming to it.
	Invoke(ctx context.Context, req Request) (string, error)

	// Chat continues an open-ended conversation: history holds the prior
	// turns and message is the new user turn.
	Chat(ctx context.Context, tier Tier, systemInstruction string, history []Message, message string) (string, error)
}
