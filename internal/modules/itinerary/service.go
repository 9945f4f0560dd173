// README: Trip generation service: request -> model call -> normalize -> Trip.
package itinerary

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"voyager/internal/ai"
)

var errNoReturnLeg = errors.New("itinerary does not end with travel back to the departure location")

type Service struct {
	llm ai.LLMProvider
	log *slog.Logger
}

func NewService(llm ai.LLMProvider, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{llm: llm, log: logger.With("module", "itinerary")}
}

// Generate plans a trip from a planner request. It performs no persistence.
// Failures are GenerationErrors of kind ErrTransport or ErrParse.
func (s *Service) Generate(ctx context.Context, req Request) (*Trip, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	reply, err := s.llm.Invoke(ctx, ai.Request{
		Tier:              ai.TierFast,
		SystemInstruction: SystemInstruction,
		UserContent:       BuildGenerationPrompt(req),
		Schema:            TripSchema(),
		Grounding:         true,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "generate: model call failed", "err", err)
		return nil, transportError(err)
	}

	t, err := Normalize(reply)
	if err != nil {
		s.log.WarnContext(ctx, "generate: unusable reply", "err", err, "reply_len", len(reply))
		return nil, err
	}
	if !HasReturnLeg(t) {
		s.log.WarnContext(ctx, "generate: missing return leg", "departure", t.DepartureLocation)
		return nil, parseError(errNoReturnLeg)
	}

	r := req
	r.Destinations = append([]string(nil), req.Destinations...)
	t.OriginalRequest = &r
	if t.TotalBudget == "" {
		t.TotalBudget = req.TotalBudget
	}
	return t, nil
}

// Finalize builds a trip from a chat transcript using the high-capability tier.
// An unusable reply yields (nil, nil) so the conversation can carry on; only
// transport failures are returned as errors.
func (s *Service) Finalize(ctx context.Context, history []ai.Message) (*Trip, error) {
	reply, err := s.llm.Invoke(ctx, ai.Request{
		Tier:              ai.TierPro,
		SystemInstruction: SystemInstruction,
		UserContent:       BuildFinalizePrompt(history),
		Schema:            TripSchema(),
		Grounding:         true,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "finalize: model call failed", "err", err)
		return nil, transportError(err)
	}
	t, err := Normalize(reply)
	if err != nil {
		s.log.WarnContext(ctx, "finalize: unusable reply", "err", err)
		return nil, nil
	}
	if !HasReturnLeg(t) {
		s.log.WarnContext(ctx, "finalize: missing return leg", "departure", t.DepartureLocation)
		return nil, nil
	}
	return t, nil
}

// ProposeEdit asks the model to apply instruction to t and returns the parsed
// patch. Merging is the caller's job.
func (s *Service) ProposeEdit(ctx context.Context, t *Trip, instruction string) (*Patch, error) {
	prompt, err := BuildEditPrompt(t, instruction)
	if err != nil {
		return nil, parseError(err)
	}
	reply, err := s.llm.Invoke(ctx, ai.Request{
		Tier:              ai.TierFast,
		SystemInstruction: SystemInstruction,
		UserContent:       prompt,
		Schema:            TripSchema(),
		Grounding:         true,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "edit: model call failed", "trip_id", t.ID, "err", err)
		return nil, transportError(err)
	}
	p, err := NormalizePatch(reply)
	if err != nil {
		s.log.WarnContext(ctx, "edit: unusable reply", "trip_id", t.ID, "err", err)
		return nil, err
	}
	return p, nil
}

// HasReturnLeg reports whether the last day contains a FLIGHT or TRANSPORT
// activity whose title or location names the departure location.
func HasReturnLeg(t *Trip) bool {
	if len(t.Itinerary) == 0 {
		return false
	}
	last := t.Itinerary[0]
	for _, d := range t.Itinerary[1:] {
		if d.Day > last.Day {
			last = d
		}
	}
	home := strings.ToLower(strings.TrimSpace(t.DepartureLocation))
	if home == "" {
		return false
	}
	// "Boston, MA" should match "Flight to Boston".
	city := strings.TrimSpace(strings.SplitN(home, ",", 2)[0])
	for _, a := range last.Activities {
		if a.Type != ActivityFlight && a.Type != ActivityTransport {
			continue
		}
		text := strings.ToLower(a.Title + " " + a.Location)
		if strings.Contains(text, home) || (city != "" && strings.Contains(text, city)) {
			return true
		}
	}
	return false
}
