package trips

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voyager/internal/infra"
	"voyager/internal/modules/itinerary"
	"voyager/internal/types"
)

func setupTestStore(t *testing.T, notifier Notifier) (*PostgresStore, *pgxpool.Pool) {
	t.Helper()

	dsn := os.Getenv("VOYAGER_TEST_DSN")
	if dsn == "" {
		t.Skip("VOYAGER_TEST_DSN not set; skipping DB-backed store tests")
	}

	ctx := context.Background()
	db, err := infra.NewDB(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, infra.Migrate(ctx, db))
	_, err = db.Exec(ctx, "TRUNCATE TABLE trips")
	require.NoError(t, err)

	return NewPostgresStore(db, notifier, nil), db
}

type countingNotifier struct{ n int }

func (c *countingNotifier) Notify(context.Context, string) error {
	c.n++
	return nil
}

func TestPostgresStoreRoundTrip(t *testing.T) {
	notifier := &countingNotifier{}
	store, _ := setupTestStore(t, notifier)
	ctx := context.Background()

	in := trip("11111111-1111-1111-1111-111111111111", "Paris")
	in.EditCount = 2
	in.Sources = []itinerary.GroundingLink{{URI: "https://example.com", Title: "Example"}}
	in.OriginalRequest = &itinerary.Request{DepartureLocation: "Boston", Destinations: []string{"Paris"}, Travelers: 2}
	require.NoError(t, store.Insert(ctx, "u1", in))

	got, err := store.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	out := got[0]
	assert.Equal(t, in.Name, out.Name)
	assert.Equal(t, in.Destination, out.Destination)
	assert.Equal(t, in.StartDate, out.StartDate)
	assert.Equal(t, in.EndDate, out.EndDate)
	assert.Equal(t, in.Itinerary, out.Itinerary)
	assert.Equal(t, 2, out.EditCount)
	assert.Equal(t, in.Sources, out.Sources)
	assert.Equal(t, "USD", out.Currency)
	require.NotNil(t, out.OriginalRequest)
	assert.Equal(t, 2, out.OriginalRequest.Travelers)

	other, err := store.List(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, other)
	assert.Equal(t, 1, notifier.n)
}

func TestPostgresStoreOrderUpdateDelete(t *testing.T) {
	store, _ := setupTestStore(t, nil)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, "u1", trip("a", "Paris")))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, store.Insert(ctx, "u1", trip("b", "Rome")))

	got, err := store.List(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []types.ID{"b", "a"}, ids(got))

	edited := trip("a", "Paris again")
	edited.EditCount = 1
	require.NoError(t, store.Update(ctx, "u1", edited))
	assert.ErrorIs(t, store.Update(ctx, "u2", edited), ErrNotFound)

	require.NoError(t, store.Delete(ctx, "u1", "b"))
	assert.ErrorIs(t, store.Delete(ctx, "u1", "b"), ErrNotFound)

	got, err = store.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Paris again", got[0].Name)
	assert.Equal(t, 1, got[0].EditCount)
}

func TestPostgresStoreRowDefaultsAndBadRows(t *testing.T) {
	store, db := setupTestStore(t, nil)
	ctx := context.Background()

	_, err := db.Exec(ctx, `
        INSERT INTO trips (id, user_id, name, destination, start_date, end_date, itinerary, created_at)
        VALUES ('legacy', 'u1', '', 'Lisbon', '2025-06-01', '2025-06-01',
                '[{"day":1,"date":"2025-06-01","theme":"t","activities":[]}]', NOW())`)
	require.NoError(t, err)
	_, err = db.Exec(ctx, `
        INSERT INTO trips (id, user_id, name, destination, start_date, end_date, itinerary, created_at)
        VALUES ('broken', 'u1', 'x', 'Nowhere', '2025-06-01', '2025-06-01',
                '[{"day":3,"date":"2025-06-01","theme":"t","activities":[]}]', NOW())`)
	require.NoError(t, err)

	got, err := store.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Lisbon", got[0].Name)
	assert.Equal(t, "Home", got[0].DepartureLocation)
	assert.Equal(t, "USD", got[0].Currency)
	assert.Empty(t, got[0].Sources)
}
