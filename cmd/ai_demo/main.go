package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"voyager/internal/ai"
	"voyager/internal/modules/itinerary"
)

func main() {
	from := flag.String("from", "Boston", "departure location")
	to := flag.String("to", "Paris", "comma-separated destinations")
	start := flag.String("start", time.Now().AddDate(0, 1, 0).Format("2006-01-02"), "start date (YYYY-MM-DD)")
	days := flag.Int("days", 3, "trip length in days")
	travelers := flag.Int("travelers", 2, "number of travelers")
	goals := flag.String("goals", "food and museums", "free-form goals")
	flag.Parse()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Fatal("GEMINI_API_KEY environment variable not set")
	}

	ctx := context.Background()
	provider, err := ai.NewGeminiProvider(ctx, apiKey, ai.Models{Fast: "gemini-3-flash-preview", Pro: "gemini-3-pro-preview"})
	if err != nil {
		log.Fatalf("Failed to initialize AI provider: %v", err)
	}
	defer provider.Close()

	startDate, err := time.Parse("2006-01-02", *start)
	if err != nil {
		log.Fatalf("bad -start: %v", err)
	}
	req := itinerary.Request{
		DepartureLocation: *from,
		Destinations:      strings.Split(*to, ","),
		StartDate:         *start,
		EndDate:           startDate.AddDate(0, 0, *days-1).Format("2006-01-02"),
		TransportType:     "flight",
		Travelers:         *travelers,
		Goals:             *goals,
	}

	svc := itinerary.NewService(ai.WithTimeout(provider, 90*time.Second), nil)
	began := time.Now()
	trip, err := svc.Generate(ctx, req)
	if err != nil {
		log.Fatalf("Error generating trip: %v", err)
	}
	fmt.Fprintf(os.Stderr, "generated %q in %s (return leg: %v)\n", trip.Name, time.Since(began).Round(time.Millisecond), itinerary.HasReturnLeg(trip))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(trip); err != nil {
		log.Fatal(err)
	}
}
