package itinerary

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"voyager/internal/ai"
)

const (
	Greeting            = "Hey! Ready for an adventure? \n\nTell me where you're thinking of heading, or if you need a recommendation for your next dates."
	FinalizingReply     = "Perfect. Building your itinerary now..."
	ChatRetryReply      = "Snagged an error. Can you say that again?"
	FinalizeFailedReply = "Problem building the plan. Let's try again."
)

var (
	ErrConversationBusy     = errors.New("a message is already being processed")
	ErrConversationNotFound = errors.New("conversation not found")
)

// Conversation is one chat planning session. History is the visible transcript.
type Conversation struct {
	ID    string
	Owner string

	mu      sync.Mutex
	history []ai.Message
	busy    bool
}

func NewConversation(owner string) *Conversation {
	return &Conversation{
		ID:      uuid.NewString(),
		Owner:   owner,
		history: []ai.Message{{Role: ai.RoleModel, Text: Greeting}},
	}
}

// History returns a copy of the transcript.
func (c *Conversation) History() []ai.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]ai.Message(nil), c.history...)
}

func (c *Conversation) append(msgs ...ai.Message) []ai.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = append(c.history, msgs...)
	return append([]ai.Message(nil), c.history...)
}

// TurnResult carries the model turns to display and, once the model signalled
// it was ready, the finalized trip.
type TurnResult struct {
	Replies    []ai.Message
	Finalizing bool
	Trip       *Trip
}

// Turn sends one user message through the open chat. A model failure is
// answered with a retry prompt instead of an error, and the failed exchange is
// left out of the transcript. When the reply carries IntentMarker the marker
// is stripped and the whole transcript is finalized.
func (s *Service) Turn(ctx context.Context, c *Conversation, text string) (TurnResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return TurnResult{}, ErrBadRequest
	}

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return TurnResult{}, ErrConversationBusy
	}
	c.busy = true
	prior := append([]ai.Message(nil), c.history...)
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.busy = false
		c.mu.Unlock()
	}()

	reply, err := s.llm.Chat(ctx, ai.TierFast, ChatInstruction, prior, text)
	if err != nil {
		s.log.WarnContext(ctx, "chat: turn failed", "conversation_id", c.ID, "err", err)
		return TurnResult{Replies: []ai.Message{{Role: ai.RoleModel, Text: ChatRetryReply}}}, nil
	}

	user := ai.Message{Role: ai.RoleUser, Text: text}
	if !strings.Contains(reply, IntentMarker) {
		model := ai.Message{Role: ai.RoleModel, Text: reply}
		c.append(user, model)
		return TurnResult{Replies: []ai.Message{model}}, nil
	}

	clean := strings.TrimSpace(strings.ReplaceAll(reply, IntentMarker, ""))
	if clean == "" {
		clean = FinalizingReply
	}
	model := ai.Message{Role: ai.RoleModel, Text: clean}
	transcript := c.append(user, model)
	res := TurnResult{Replies: []ai.Message{model}, Finalizing: true}

	trip, err := s.Finalize(ctx, transcript)
	if err != nil || trip == nil {
		failed := ai.Message{Role: ai.RoleModel, Text: FinalizeFailedReply}
		c.append(failed)
		res.Replies = append(res.Replies, failed)
		return res, nil
	}
	res.Trip = trip
	return res, nil
}

// ConversationStore keeps live conversations in memory and expires idle ones.
type ConversationStore struct {
	cache *cache.Cache
}

func NewConversationStore(ttl time.Duration) *ConversationStore {
	return &ConversationStore{cache: cache.New(ttl, ttl/2)}
}

// Start opens a conversation for owner, greeting included.
func (s *ConversationStore) Start(owner string) *Conversation {
	c := NewConversation(owner)
	s.cache.SetDefault(c.ID, c)
	return c
}

// Get returns the conversation if it exists and belongs to owner. A hit
// refreshes its expiry.
func (s *ConversationStore) Get(id, owner string) (*Conversation, error) {
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, ErrConversationNotFound
	}
	c := v.(*Conversation)
	if c.Owner != owner {
		return nil, ErrConversationNotFound
	}
	s.cache.SetDefault(id, c)
	return c, nil
}

func (s *ConversationStore) Delete(id string) {
	s.cache.Delete(id)
}
