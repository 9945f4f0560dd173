package editor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voyager/internal/modules/itinerary"
	"voyager/internal/modules/payment"
	"voyager/internal/types"
)

type fakeProposer struct {
	mu      sync.Mutex
	patch   func(t *itinerary.Trip) *itinerary.Patch
	err     error
	block   chan struct{}
	calls   int
	prompts []string
}

func (f *fakeProposer) ProposeEdit(_ context.Context, t *itinerary.Trip, instruction string) (*itinerary.Patch, error) {
	f.mu.Lock()
	f.calls++
	f.prompts = append(f.prompts, instruction)
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.patch(t), nil
}

type fakeCharger struct {
	mu      sync.Mutex
	charges []types.Money
	err     error
}

func (f *fakeCharger) Charge(_ context.Context, amount types.Money, _ string) (payment.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return payment.Receipt{}, f.err
	}
	f.charges = append(f.charges, amount)
	return payment.Receipt{ID: "r", Amount: amount}, nil
}

func (f *fakeCharger) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.charges)
}

const (
	timeout = time.Second
	tick    = 5 * time.Millisecond
)

var editPrice = types.Money{Amount: 99, Currency: "USD"}

func renamePatch(name string) func(*itinerary.Trip) *itinerary.Patch {
	return func(*itinerary.Trip) *itinerary.Patch { return &itinerary.Patch{Name: &name} }
}

func sampleTrip() *itinerary.Trip {
	return &itinerary.Trip{
		ID:                "trip-1",
		Name:              "Lisbon",
		DepartureLocation: "Madrid",
		Destination:       "Lisbon",
		StartDate:         "2025-09-01",
		EndDate:           "2025-09-02",
		ImageURL:          "https://img.example.com/lisbon.jpg",
		Itinerary: []itinerary.DailyPlan{
			{Day: 1, Date: "2025-09-01", Theme: "Arrive", Activities: []itinerary.Activity{
				{Time: "09:00", Title: "Train to Lisbon", Type: itinerary.ActivityTransport},
				{Time: "09:00", Title: "Coffee", Type: itinerary.ActivityRestaurant},
				{Time: "15:00", Title: "Alfama walk", Type: itinerary.ActivitySightseeing},
			}},
			{Day: 2, Date: "2025-09-02", Theme: "Home", Activities: []itinerary.Activity{
				{Time: "17:00", Title: "Flight to Madrid", Type: itinerary.ActivityFlight},
			}},
		},
		Sources: []itinerary.GroundingLink{},
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to State
		want     bool
	}{
		{StateIdle, StatePrompting, true},
		{StatePrompting, StateSubmitting, true},
		{StatePrompting, StateIdle, true},
		{StateSubmitting, StateIdle, true},
		{StateSubmitting, StatePrompting, true},
		{StateIdle, StateSubmitting, false},
		{StateSubmitting, StateSubmitting, false},
		{StateIdle, StateIdle, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestFreeEditGating(t *testing.T) {
	charger := &fakeCharger{}
	engine := NewEngine(&fakeProposer{patch: renamePatch("Lisbon again")}, charger, 2, editPrice, nil)
	trip := sampleTrip()
	sess := engine.NewSession(trip)

	for i := 0; i < 3; i++ {
		q, err := sess.Open(trip)
		require.NoError(t, err)
		assert.Equal(t, i < 2, q.Free, "edit %d", i+1)

		res, err := sess.Submit(context.Background(), trip, "rename")
		require.NoError(t, err)
		assert.Equal(t, i >= 2, res.Paid)
		trip = res.Trip
	}
	require.Equal(t, 1, charger.count(), "only the third edit is charged")
	assert.Equal(t, editPrice, charger.charges[0])
	assert.Equal(t, 3, trip.EditCount)
}

func TestEditCountMonotonicAndIdentityPreserved(t *testing.T) {
	engine := NewEngine(&fakeProposer{patch: func(t *itinerary.Trip) *itinerary.Patch {
		s := "new summary"
		return &itinerary.Patch{Summary: &s}
	}}, &fakeCharger{}, 2, editPrice, nil)

	trip := sampleTrip()
	trip.EditCount = 5
	sess := engine.NewSession(trip)
	for k := 1; k <= 4; k++ {
		_, err := sess.Open(trip)
		require.NoError(t, err)
		res, err := sess.Submit(context.Background(), trip, "tweak")
		require.NoError(t, err)
		assert.Equal(t, 5+k, res.Trip.EditCount)
		assert.Equal(t, types.ID("trip-1"), res.Trip.ID)
		trip = res.Trip
	}
	assert.Equal(t, StateIdle, sess.Snapshot().State)
}

func TestSubmitFailureReturnsToPromptingWithPrompt(t *testing.T) {
	cases := map[string]*fakeProposer{
		"transport": {err: &itinerary.GenerationError{Kind: itinerary.ErrTransport, Err: errors.New("503")}},
		"parse":     {err: &itinerary.GenerationError{Kind: itinerary.ErrParse}},
		"bad merge": {patch: func(*itinerary.Trip) *itinerary.Patch {
			end := "2025-08-01"
			return &itinerary.Patch{EndDate: &end}
		}},
	}
	for name, proposer := range cases {
		t.Run(name, func(t *testing.T) {
			trip := sampleTrip()
			sess := NewEngine(proposer, &fakeCharger{}, 2, editPrice, nil).NewSession(trip)
			_, err := sess.Open(trip)
			require.NoError(t, err)

			_, err = sess.Submit(context.Background(), trip, "add a fado night")
			require.Error(t, err)

			snap := sess.Snapshot()
			assert.Equal(t, StatePrompting, snap.State)
			assert.Equal(t, "add a fado night", snap.Prompt)
			assert.NotEmpty(t, snap.LastError)
			assert.Equal(t, 0, snap.Quote.EditCount)
		})
	}
}

func TestMergeFailureKinds(t *testing.T) {
	trip := sampleTrip()
	sess := NewEngine(&fakeProposer{err: &itinerary.GenerationError{Kind: itinerary.ErrParse}}, &fakeCharger{}, 2, editPrice, nil).NewSession(trip)
	_, _ = sess.Open(trip)
	_, err := sess.Submit(context.Background(), trip, "x")
	assert.ErrorIs(t, err, ErrMergeFailure)

	sess = NewEngine(&fakeProposer{err: &itinerary.GenerationError{Kind: itinerary.ErrTransport}}, &fakeCharger{}, 2, editPrice, nil).NewSession(trip)
	_, _ = sess.Open(trip)
	_, err = sess.Submit(context.Background(), trip, "x")
	assert.ErrorIs(t, err, itinerary.ErrTransport)
	assert.NotErrorIs(t, err, ErrMergeFailure)
}

func TestSubmitRejectedWhileSubmitting(t *testing.T) {
	proposer := &fakeProposer{patch: renamePatch("x"), block: make(chan struct{})}
	trip := sampleTrip()
	sess := NewEngine(proposer, &fakeCharger{}, 2, editPrice, nil).NewSession(trip)
	_, err := sess.Open(trip)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := sess.Submit(context.Background(), trip, "first")
		done <- err
	}()
	require.Eventually(t, func() bool { return sess.Snapshot().State == StateSubmitting }, timeout, tick)

	_, err = sess.Submit(context.Background(), trip, "second")
	assert.ErrorIs(t, err, ErrBusy)
	assert.ErrorIs(t, sess.Cancel(), ErrBusy)

	close(proposer.block)
	require.NoError(t, <-done)
	assert.Equal(t, 1, proposer.calls)
}

func TestPaymentFailureKeepsPrompting(t *testing.T) {
	trip := sampleTrip()
	trip.EditCount = 2
	proposer := &fakeProposer{patch: renamePatch("x")}
	sess := NewEngine(proposer, &fakeCharger{err: errors.New("card declined")}, 2, editPrice, nil).NewSession(trip)
	q, err := sess.Open(trip)
	require.NoError(t, err)
	assert.False(t, q.Free)

	_, err = sess.Submit(context.Background(), trip, "more beaches")
	assert.ErrorIs(t, err, ErrPayment)
	assert.Equal(t, StatePrompting, sess.Snapshot().State)
	assert.Zero(t, proposer.calls)
}

func TestSubmitRequiresPrompting(t *testing.T) {
	trip := sampleTrip()
	sess := NewEngine(&fakeProposer{patch: renamePatch("x")}, &fakeCharger{}, 2, editPrice, nil).NewSession(trip)

	_, err := sess.Submit(context.Background(), trip, "x")
	assert.ErrorIs(t, err, ErrInvalidState)

	_, _ = sess.Open(trip)
	_, err = sess.Submit(context.Background(), trip, "   ")
	assert.ErrorIs(t, err, ErrEmptyPrompt)

	require.NoError(t, sess.Cancel())
	assert.Equal(t, StateIdle, sess.Snapshot().State)
}

func TestSubmitMergesOntoCurrentTrip(t *testing.T) {
	trip := sampleTrip()
	sess := NewEngine(&fakeProposer{patch: renamePatch("Lisbon, slower")}, &fakeCharger{}, 2, editPrice, nil).NewSession(trip)
	_, err := sess.Open(trip)
	require.NoError(t, err)

	current, ok := AddActivity(trip, 0, itinerary.Activity{Time: "12:30", Title: "Lunch"})
	require.True(t, ok)

	res, err := sess.Submit(context.Background(), current, "slow it down")
	require.NoError(t, err)
	assert.Equal(t, "Lisbon, slower", res.Trip.Name)
	require.Len(t, res.Trip.Itinerary[0].Activities, 4)
	assert.Equal(t, "Lunch", res.Trip.Itinerary[0].Activities[2].Title)
}

func TestSubmitRejectsOtherTrip(t *testing.T) {
	trip := sampleTrip()
	sess := NewEngine(&fakeProposer{patch: renamePatch("x")}, &fakeCharger{}, 2, editPrice, nil).NewSession(trip)
	_, err := sess.Open(trip)
	require.NoError(t, err)

	other := sampleTrip()
	other.ID = "trip-2"
	_, err = sess.Submit(context.Background(), other, "x")
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, StatePrompting, sess.Snapshot().State)
}

func TestSaveFailedCreditsPaidEdit(t *testing.T) {
	trip := sampleTrip()
	trip.EditCount = 2
	charger := &fakeCharger{}
	sess := NewEngine(&fakeProposer{patch: renamePatch("x")}, charger, 2, editPrice, nil).NewSession(trip)
	_, err := sess.Open(trip)
	require.NoError(t, err)

	res, err := sess.Submit(context.Background(), trip, "more beaches")
	require.NoError(t, err)
	require.True(t, res.Paid)
	require.Equal(t, 1, charger.count())

	require.NoError(t, sess.SaveFailed("more beaches", res, errors.New("db down")))
	snap := sess.Snapshot()
	assert.Equal(t, StatePrompting, snap.State)
	assert.Equal(t, "more beaches", snap.Prompt)
	assert.Equal(t, "db down", snap.LastError)

	// The retry runs against the unchanged stored trip and is not charged again.
	retry, err := sess.Submit(context.Background(), trip, "more beaches")
	require.NoError(t, err)
	assert.False(t, retry.Paid)
	assert.Equal(t, 1, charger.count())
	assert.Equal(t, 3, retry.Trip.EditCount)

	q, err := sess.Open(retry.Trip)
	require.NoError(t, err)
	assert.False(t, q.Free, "the credit is spent")
}

func TestAddActivityKeepsTiesInInsertionOrder(t *testing.T) {
	trip := sampleTrip()
	out, ok := AddActivity(trip, 0, itinerary.Activity{Time: "09:00", Title: "Pastel de nata"})
	require.True(t, ok)

	acts := out.Itinerary[0].Activities
	require.Len(t, acts, 4)
	assert.Equal(t, "Train to Lisbon", acts[0].Title)
	assert.Equal(t, "Coffee", acts[1].Title)
	assert.Equal(t, "Pastel de nata", acts[2].Title)
	assert.Equal(t, itinerary.ActivityOther, acts[2].Type)
	assert.Equal(t, "Alfama walk", acts[3].Title)
}

func TestAddActivityDoesNotMutateOriginal(t *testing.T) {
	trip := sampleTrip()
	trip.EditCount = 1
	out, ok := AddActivity(trip, 1, itinerary.Activity{Time: "8:30", Title: "Breakfast", Type: itinerary.ActivityRestaurant})
	require.True(t, ok)

	assert.Len(t, trip.Itinerary[1].Activities, 1)
	assert.Len(t, out.Itinerary[1].Activities, 2)
	assert.Equal(t, "08:30", out.Itinerary[1].Activities[0].Time)
	assert.Equal(t, 1, out.EditCount)
	assert.Equal(t, trip.ID, out.ID)
	assert.Equal(t, trip.Itinerary[0].Activities, out.Itinerary[0].Activities)
}

func TestAddActivityNoOps(t *testing.T) {
	trip := sampleTrip()
	for name, tc := range map[string]struct {
		day int
		act itinerary.Activity
	}{
		"blank title":  {0, itinerary.Activity{Time: "10:00", Title: " "}},
		"blank time":   {0, itinerary.Activity{Title: "Museum"}},
		"bad time":     {0, itinerary.Activity{Time: "late", Title: "Museum"}},
		"day too high": {2, itinerary.Activity{Time: "10:00", Title: "Museum"}},
		"negative day": {-1, itinerary.Activity{Time: "10:00", Title: "Museum"}},
	} {
		out, ok := AddActivity(trip, tc.day, tc.act)
		assert.False(t, ok, name)
		assert.Same(t, trip, out, name)
	}
}

func TestSessionsRegistry(t *testing.T) {
	reg := NewSessions(NewEngine(&fakeProposer{}, &fakeCharger{}, 2, editPrice, nil))
	trip := sampleTrip()

	a := reg.Get("u1", trip)
	assert.Same(t, a, reg.Get("u1", trip))
	assert.NotSame(t, a, reg.Get("u2", trip))

	_, ok := reg.Lookup("u1", trip.ID)
	assert.True(t, ok)
	reg.Drop("u1", trip.ID)
	_, ok = reg.Lookup("u1", trip.ID)
	assert.False(t, ok)
}
