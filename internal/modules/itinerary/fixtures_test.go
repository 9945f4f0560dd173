package itinerary

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"voyager/internal/ai"
)

// fakeLLM is a test double for ai.LLMProvider.
type fakeLLM struct {
	mu sync.Mutex

	invokeReply string
	invokeErr   error
	chatReply   string
	chatErr     error

	requests    []ai.Request
	chatHistory [][]ai.Message
	chatInputs  []string
}

func (f *fakeLLM) Invoke(_ context.Context, req ai.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return f.invokeReply, f.invokeErr
}

func (f *fakeLLM) Chat(_ context.Context, _ ai.Tier, _ string, history []ai.Message, message string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chatHistory = append(f.chatHistory, history)
	f.chatInputs = append(f.chatInputs, message)
	return f.chatReply, f.chatErr
}

// bostonParis returns a five-day Boston -> Paris trip payload as a generic map
// so tests can break individual fields.
func bostonParis() map[string]any {
	day := func(n int, theme string, acts ...map[string]any) map[string]any {
		list := make([]any, 0, len(acts))
		for _, a := range acts {
			list = append(list, a)
		}
		return map[string]any{
			"day":        n,
			"date":       fmt.Sprintf("2025-06-0%d", n),
			"theme":      theme,
			"activities": list,
		}
	}
	act := func(tm, title, typ, loc string) map[string]any {
		return map[string]any{
			"time":        tm,
			"title":       title,
			"description": title,
			"type":        typ,
			"location":    loc,
			"bookingUrl":  "",
		}
	}
	return map[string]any{
		"name":              "Paris in June",
		"departureLocation": "Boston",
		"destination":       "Paris",
		"startDate":         "2025-06-01",
		"endDate":           "2025-06-05",
		"summary":           "Five days of museums and cafés.",
		"imageUrl":          "https://images.example.com/paris.jpg",
		"destinationImages": []any{"", "ftp://bad", "https://images.example.com/louvre.jpg"},
		"itinerary": []any{
			day(1, "Arrival",
				act("18:00", "Flight from Boston to Paris", "FLIGHT", "Boston Logan Airport"),
				act("09:00", "Pack bags", "OTHER", "")),
			day(2, "Museums", act("10:00", "Louvre", "SIGHTSEEING", "Musée du Louvre, Paris")),
			day(3, "Food", act("12:30", "Bistro lunch", "RESTAURANT", "Le Marais, Paris")),
			day(4, "Day trip", act("8:15", "Train to Versailles", "TRANSPORT", "Versailles")),
			day(5, "Home", act("11:00", "Flight back to Boston", "FLIGHT", "CDG Airport")),
		},
	}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

func bostonParisRequest() Request {
	return Request{
		DepartureLocation: "Boston",
		Destinations:      []string{"Paris", " "},
		StartDate:         "2025-06-01",
		EndDate:           "2025-06-05",
		TransportType:     "plane",
		Travelers:         2,
		TotalBudget:       "3000",
		Goals:             "art and food",
	}
}
