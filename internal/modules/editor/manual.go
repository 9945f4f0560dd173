package editor

import (
	"strings"

	"voyager/internal/modules/itinerary"
)

// AddActivity inserts a user-authored activity into itinerary[dayIndex] and
// keeps that day ordered by time (ties keep insertion order). A blank title or
// time, an unparsable time or an out-of-range day leaves the trip untouched
// and reports false. The returned trip shares every other day with t; t itself
// is never modified. The edit counter is not touched.
func AddActivity(t *itinerary.Trip, dayIndex int, a itinerary.Activity) (*itinerary.Trip, bool) {
	a.Title = strings.TrimSpace(a.Title)
	if a.Title == "" || strings.TrimSpace(a.Time) == "" {
		return t, false
	}
	tm, ok := itinerary.CanonicalTime(a.Time)
	if !ok {
		return t, false
	}
	if dayIndex < 0 || dayIndex >= len(t.Itinerary) {
		return t, false
	}
	a.Time = tm
	if !a.Type.Valid() {
		a.Type = itinerary.ActivityOther
	}

	day := t.Itinerary[dayIndex]
	acts := make([]itinerary.Activity, 0, len(day.Activities)+1)
	acts = append(acts, day.Activities...)
	acts = append(acts, a)
	itinerary.SortActivities(acts)
	day.Activities = acts

	out := *t
	out.Itinerary = make([]itinerary.DailyPlan, len(t.Itinerary))
	copy(out.Itinerary, t.Itinerary)
	out.Itinerary[dayIndex] = day
	return &out, true
}
