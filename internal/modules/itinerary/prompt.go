package itinerary

import (
	"encoding/json"
	"fmt"
	"strings"

	"voyager/internal/ai"
)

// SystemInstruction is the fixed rule set sent with every generation, edit,
// finalize and chat call.
const SystemInstruction = `You are Voyager, a world-class travel agent.

STRICT BOOKING RULES:
1. DATE & LOCATION SPECIFICITY: Every 'bookingUrl' MUST include the trip dates and the specific city or place.
2. TRANSPORT RELIABILITY: If a carrier's links look unreliable, use alternatives such as Omio, RegioJet or the official rail/bus operator. Verify link structure via search.
3. NO HALLUCINATIONS: Never guess URLs. If no verifiable deep link exists, use a dated search-results page on a trusted aggregator (Skyscanner, Booking.com, Trainline, Omio).

PLANNING RULES:
- ROUND TRIP: Always end the journey by returning to the starting point (departureLocation). The last day must include travel back home as a FLIGHT or TRANSPORT activity naming the departure location.
- DESTINATION SEQUENCE: Visit the user's destinations in the given order before returning home.
- VAGUE REQUESTS: If a destination is a description (e.g. "3 cities near the sea"), choose concrete places that match it and use those same places consistently in the itinerary and images.
- THEMATIC RELEVANCE: Match activities to the user's goals.
- REALISM: At most 4-5 activities per day. Leave room for transit.
- LANGUAGE: Respond in the language the user writes in.
- IMAGERY: Use search to find real, publicly reachable photo URLs of the specific places visited.
  - 'imageUrl': the cover image for the trip.
  - 'destinationImages': one distinct photo for EACH major destination visited.
  Use generic stock photography only when no real image can be found.`

// IntentMarker is emitted by the chat model once it has enough detail to plan.
const IntentMarker = "[INTENT: GENERATE_TRIP_PLAN]"

// ChatInstruction extends the rule set for the open conversation.
const ChatInstruction = SystemInstruction + `

CONVERSATION MODE:
- Chat naturally to learn the departure point, destinations or vibe, dates, travelers, budget and goals.
- Ask at most two questions per reply.
- Do not output JSON in this mode.
- When you have enough detail to plan the whole trip, briefly confirm the plan and end your reply with the exact marker ` + IntentMarker + `.`

// BuildGenerationPrompt serializes a planner request.
func BuildGenerationPrompt(req Request) string {
	budget := strings.TrimSpace(req.TotalBudget)
	if budget == "" {
		budget = "not specified"
	}
	transport := strings.TrimSpace(req.TransportType)
	if req.TransportOption != "" {
		transport = strings.TrimSpace(transport + " (" + req.TransportOption + ")")
	}
	if transport == "" {
		transport = "any"
	}
	travelers := req.Travelers
	if travelers <= 0 {
		travelers = 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Plan a trip starting from %s.\n", req.DepartureLocation)
	fmt.Fprintf(&b, "STRICT ROUTE SEQUENCE: %s.\n", strings.Join(req.Stops(), " -> "))
	fmt.Fprintf(&b, "DATES: from %s to %s.\n", req.StartDate, req.EndDate)
	fmt.Fprintf(&b, "Preferred transport: %s.\n", transport)
	fmt.Fprintf(&b, "Budget: %s.\n", budget)
	fmt.Fprintf(&b, "Travelers: %d.\n", travelers)
	fmt.Fprintf(&b, "USER GOALS: %s\n\n", strings.TrimSpace(req.Goals))
	fmt.Fprintf(&b, "ACTION: Ensure the trip ends with a return to %s. Use search to find working booking links for the specified dates across reliable carriers.", req.DepartureLocation)
	return b.String()
}

// BuildEditPrompt serializes an edit instruction with the full current trip.
func BuildEditPrompt(t *Trip, instruction string) (string, error) {
	snapshot, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("marshal trip snapshot: %w", err)
	}
	return fmt.Sprintf("Update this trip: %q. Current trip data: %s.\nEnsure the return to %s is maintained.",
		instruction, snapshot, t.DepartureLocation), nil
}

// BuildFinalizePrompt flattens a chat transcript into role-prefixed lines.
func BuildFinalizePrompt(history []ai.Message) string {
	lines := make([]string, 0, len(history))
	for _, m := range history {
		lines = append(lines, fmt.Sprintf("%s: %s", strings.ToUpper(string(m.Role)), m.Text))
	}
	return "Based on the conversation, generate a full JSON itinerary. Ensure the user returns home at the end.\n\nCONVERSATION:\n" +
		strings.Join(lines, "\n")
}
