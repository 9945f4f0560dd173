package itinerary

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voyager/internal/ai"
)

func TestBuildGenerationPrompt(t *testing.T) {
	req := bostonParisRequest()
	req.Destinations = []string{"Paris", "", "  ", "somewhere sunny by the sea"}
	req.TransportOption = "economy"

	p := BuildGenerationPrompt(req)
	assert.Contains(t, p, "Plan a trip starting from Boston.")
	assert.Contains(t, p, "STRICT ROUTE SEQUENCE: Paris -> somewhere sunny by the sea.")
	assert.Contains(t, p, "DATES: from 2025-06-01 to 2025-06-05.")
	assert.Contains(t, p, "Preferred transport: plane (economy).")
	assert.Contains(t, p, "Budget: 3000.")
	assert.Contains(t, p, "Travelers: 2.")
	assert.Contains(t, p, "USER GOALS: art and food")
	assert.Contains(t, p, "Ensure the trip ends with a return to Boston.")
}

func TestBuildGenerationPromptDefaults(t *testing.T) {
	p := BuildGenerationPrompt(Request{DepartureLocation: "Oslo", Destinations: []string{"Rome"}})
	assert.Contains(t, p, "Budget: not specified.")
	assert.Contains(t, p, "Travelers: 1.")
	assert.Contains(t, p, "Preferred transport: any.")
}

func TestBuildEditPrompt(t *testing.T) {
	trip := &Trip{ID: "t1", Name: "Trip", DepartureLocation: "Lisbon"}
	p, err := BuildEditPrompt(trip, "make day 2 lazier")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p, `Update this trip: "make day 2 lazier". Current trip data: {`))
	assert.Contains(t, p, `"id":"t1"`)
	assert.True(t, strings.HasSuffix(p, "Ensure the return to Lisbon is maintained."))
}

func TestBuildFinalizePrompt(t *testing.T) {
	p := BuildFinalizePrompt([]ai.Message{
		{Role: ai.RoleModel, Text: "Where to?"},
		{Role: ai.RoleUser, Text: "Tokyo"},
	})
	assert.True(t, strings.HasSuffix(p, "CONVERSATION:\nMODEL: Where to?\nUSER: Tokyo"))
}

func TestInstructionsCarryRules(t *testing.T) {
	for _, rule := range []string{"ROUND TRIP", "DESTINATION SEQUENCE", "VAGUE REQUESTS", "4-5 activities", "LANGUAGE", "NO HALLUCINATIONS", "IMAGERY"} {
		assert.Contains(t, SystemInstruction, rule)
	}
	assert.True(t, strings.HasPrefix(ChatInstruction, SystemInstruction))
	assert.Contains(t, ChatInstruction, IntentMarker)
}

func TestTripSchemaContract(t *testing.T) {
	s := TripSchema()
	assert.ElementsMatch(t, []string{"name", "departureLocation", "destination", "startDate", "endDate", "summary", "itinerary", "imageUrl"}, s.Required)
	assert.NotContains(t, s.Required, "destinationImages")

	day := s.Properties["itinerary"].Items
	assert.ElementsMatch(t, []string{"day", "date", "theme", "activities"}, day.Required)

	act := day.Properties["activities"].Items
	assert.ElementsMatch(t, []string{"time", "title", "description", "type", "bookingUrl", "location"}, act.Required)
	assert.Equal(t, []string{"FLIGHT", "HOTEL", "RESTAURANT", "SIGHTSEEING", "TRANSPORT", "OTHER"}, act.Properties["type"].Enum)
}
