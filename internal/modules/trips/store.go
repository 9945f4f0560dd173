// README: Trip store backed by PostgreSQL; publishes a change signal after every write.
package trips

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"voyager/internal/modules/itinerary"
	"voyager/internal/types"
)

const (
	defaultCurrency  = "USD"
	defaultDeparture = "Home"
)

type PostgresStore struct {
	db       *pgxpool.Pool
	notifier Notifier
	log      *slog.Logger
}

// NewPostgresStore returns a store over db. notifier may be nil.
func NewPostgresStore(db *pgxpool.Pool, notifier Notifier, logger *slog.Logger) *PostgresStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStore{db: db, notifier: notifier, log: logger.With("module", "trips.store")}
}

const selectTrips = `
        SELECT id, name, departure_location, destination, start_date, end_date,
               summary, image_url, destination_images, itinerary, edit_count,
               sources, original_request, total_budget, currency
        FROM trips
        WHERE user_id = $1
        ORDER BY created_at DESC`

// List returns the user's trips newest first. Rows that fail validation are
// skipped and logged.
func (s *PostgresStore) List(ctx context.Context, uid string) ([]*itinerary.Trip, error) {
	rows, err := s.db.Query(ctx, selectTrips, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*itinerary.Trip{}
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			s.log.WarnContext(ctx, "skipping unreadable trip row", "uid", uid, "err", err)
			continue
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) Insert(ctx context.Context, uid string, t *itinerary.Trip) error {
	cols, err := encodeTrip(t)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
        INSERT INTO trips (
            id, user_id, name, departure_location, destination, start_date, end_date,
            summary, image_url, destination_images, itinerary, edit_count,
            sources, original_request, total_budget, currency, created_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7,
            $8, $9, $10, $11, $12,
            $13, $14, $15, $16, $17
        )`,
		string(t.ID), uid, t.Name, t.DepartureLocation, t.Destination, cols.start, cols.end,
		t.Summary, t.ImageURL, cols.images, cols.itinerary, t.EditCount,
		cols.sources, cols.request, t.TotalBudget, t.Currency, time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	s.notify(ctx, uid)
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, uid string, t *itinerary.Trip) error {
	cols, err := encodeTrip(t)
	if err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx, `
        UPDATE trips
        SET name = $3,
            departure_location = $4,
            destination = $5,
            start_date = $6,
            end_date = $7,
            summary = $8,
            image_url = $9,
            destination_images = $10,
            itinerary = $11,
            edit_count = $12,
            sources = $13
        WHERE id = $1 AND user_id = $2`,
		string(t.ID), uid, t.Name, t.DepartureLocation, t.Destination, cols.start, cols.end,
		t.Summary, t.ImageURL, cols.images, cols.itinerary, t.EditCount, cols.sources,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	s.notify(ctx, uid)
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, uid string, id types.ID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM trips WHERE id = $1 AND user_id = $2`, string(id), uid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	s.notify(ctx, uid)
	return nil
}

func (s *PostgresStore) notify(ctx context.Context, uid string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, uid); err != nil {
		s.log.WarnContext(ctx, "publish trip change failed", "uid", uid, "err", err)
	}
}

type encodedTrip struct {
	start, end time.Time
	images     []byte
	itinerary  []byte
	sources    []byte
	request    []byte
}

func encodeTrip(t *itinerary.Trip) (encodedTrip, error) {
	var (
		e   encodedTrip
		err error
	)
	if e.start, err = time.Parse(time.DateOnly, t.StartDate); err != nil {
		return e, fmt.Errorf("start date: %w", err)
	}
	if e.end, err = time.Parse(time.DateOnly, t.EndDate); err != nil {
		return e, fmt.Errorf("end date: %w", err)
	}
	images := t.DestinationImages
	if images == nil {
		images = []string{}
	}
	if e.images, err = json.Marshal(images); err != nil {
		return e, err
	}
	if e.itinerary, err = json.Marshal(t.Itinerary); err != nil {
		return e, err
	}
	sources := t.Sources
	if sources == nil {
		sources = []itinerary.GroundingLink{}
	}
	if e.sources, err = json.Marshal(sources); err != nil {
		return e, err
	}
	if t.OriginalRequest != nil {
		if e.request, err = json.Marshal(t.OriginalRequest); err != nil {
			return e, err
		}
	}
	return e, nil
}

func scanTrip(row pgx.Row) (*itinerary.Trip, error) {
	var (
		t                          itinerary.Trip
		id                         string
		departure, summary, image  sql.NullString
		budget, currency           sql.NullString
		start, end                 time.Time
		images, days, sources, req []byte
	)
	err := row.Scan(
		&id, &t.Name, &departure, &t.Destination, &start, &end,
		&summary, &image, &images, &days, &t.EditCount,
		&sources, &req, &budget, &currency,
	)
	if err != nil {
		return nil, err
	}

	t.ID = types.ID(id)
	t.StartDate = start.Format(time.DateOnly)
	t.EndDate = end.Format(time.DateOnly)
	t.Summary = summary.String
	t.ImageURL = image.String
	t.TotalBudget = budget.String
	t.Currency = currency.String
	if t.Currency == "" {
		t.Currency = defaultCurrency
	}
	t.DepartureLocation = strings.TrimSpace(departure.String)
	if t.DepartureLocation == "" {
		t.DepartureLocation = defaultDeparture
	}
	if strings.TrimSpace(t.Name) == "" {
		t.Name = t.Destination
	}

	if t.Itinerary, err = itinerary.DecodeItinerary(days, t.StartDate, t.EndDate); err != nil {
		return nil, fmt.Errorf("trip %s: %w", id, err)
	}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &t.DestinationImages); err != nil {
			return nil, fmt.Errorf("trip %s destination_images: %w", id, err)
		}
	}
	t.Sources = []itinerary.GroundingLink{}
	if len(sources) > 0 {
		if err := json.Unmarshal(sources, &t.Sources); err != nil {
			return nil, fmt.Errorf("trip %s sources: %w", id, err)
		}
	}
	if len(req) > 0 {
		t.OriginalRequest = &itinerary.Request{}
		if err := json.Unmarshal(req, t.OriginalRequest); err != nil {
			return nil, fmt.Errorf("trip %s original_request: %w", id, err)
		}
	}
	return &t, nil
}
