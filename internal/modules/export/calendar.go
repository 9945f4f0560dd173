// README: Trip export as an iCalendar feed, one event per activity.
package export

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"voyager/internal/maps"
	"voyager/internal/modules/itinerary"
)

const (
	productID       = "-//Voyager//Trip Planner//EN"
	icsLocal        = "20060102T150405"
	defaultDuration = time.Hour
)

// Calendar renders t as an .ics document. Activity times are local to the
// trip and are written as floating times. An activity ends when the next one
// on the same day starts, or after an hour.
func Calendar(t *itinerary.Trip, now time.Time) (string, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName(t.Name)

	for _, day := range t.Itinerary {
		date, err := time.Parse(time.DateOnly, day.Date)
		if err != nil {
			return "", fmt.Errorf("day %d: %w", day.Day, err)
		}
		for i, a := range day.Activities {
			start, err := at(date, a.Time)
			if err != nil {
				return "", fmt.Errorf("day %d activity %q: %w", day.Day, a.Title, err)
			}
			end := start.Add(defaultDuration)
			if i+1 < len(day.Activities) {
				if next, err := at(date, day.Activities[i+1].Time); err == nil && next.After(start) {
					end = next
				}
			}

			ev := cal.AddEvent(fmt.Sprintf("%s-%d-%d@voyager", t.ID, day.Day, i))
			ev.SetDtStampTime(now.UTC())
			ev.SetProperty(ics.ComponentPropertyDtStart, start.Format(icsLocal))
			ev.SetProperty(ics.ComponentPropertyDtEnd, end.Format(icsLocal))
			ev.SetSummary(a.Title)
			ev.SetDescription(describe(t, day, a))
			if a.Location != "" {
				ev.SetLocation(a.Location)
			}
			if link := itinerary.BookingLink(t, day, a); link != "" {
				ev.SetURL(link)
			}
		}
	}
	return cal.Serialize(), nil
}

func at(date time.Time, hhmm string) (time.Time, error) {
	clock, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return date.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute), nil
}

func describe(t *itinerary.Trip, day itinerary.DailyPlan, a itinerary.Activity) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Day %d: %s\n", day.Day, day.Theme)
	if a.Description != "" {
		b.WriteString(a.Description + "\n")
	}
	if a.CostEstimate != "" {
		fmt.Fprintf(&b, "Cost: %s\n", a.CostEstimate)
	}
	if route := maps.DirectionsURL(a.Location); route != "" {
		fmt.Fprintf(&b, "Route: %s\n", route)
	}
	return strings.TrimSpace(b.String())
}
