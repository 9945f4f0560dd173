package ai

import (
	"context"
	"time"
)

// WithTimeout bounds every call made through p. A non-positive d returns p unchanged.
func WithTimeout(p LLMProvider, d time.Duration) LLMProvider {
	if d <= 0 {
		return p
	}
	return &timeoutProvider{next: p, timeout: d}
}

type timeoutProvider struct {
	next    LLMProvider
	timeout time.Duration
}

func (t *timeoutProvider) Invoke(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Invoke(ctx, req)
}

func (t *timeoutProvider) Chat(ctx context.Context, tier Tier, systemInstruction string, history []Message, message string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Chat(ctx, tier, systemInstruction, history, message)
}
