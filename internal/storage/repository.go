package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/neexbeast/tripcatalog/internal/destination"
	"github.com/neexbeast/tripcatalog/internal/itinerary"
	"github.com/neexbeast/tripcatalog/internal/slug"
)

// Querier abstracts the subset of pgxpool.Pool used by the repositories.
// This allows injection of a mock in tests.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// ErrNotFound is returned by UpdateSlug when no row has the given id.
var ErrNotFound = errors.New("record not found")

// Table names. Never built from input.
const (
	DestinationsTable = "destinations"
	ItinerariesTable  = "travel_itineraries"
)

// slugTable implements the slug point operations shared by every catalog table.
type slugTable struct {
	q     Querier
	table string
}

// FindBySlug returns the id of the row with the given slug.
// found is false, with a nil error, when there is none.
func (t slugTable) FindBySlug(ctx context.Context, s string) (int64, bool, error) {
	q := `SELECT id FROM ` + t.table + ` WHERE slug = $1`

	var id int64
	if err := t.q.QueryRow(ctx, q, s).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("looking up %s slug %s: %w", t.table, s, err)
	}

	return id, true, nil
}

// ListSlugs returns the {id, slug} projection of every row, ordered by id.
func (t slugTable) ListSlugs(ctx context.Context) ([]slug.Row, error) {
	q := `SELECT id, slug FROM ` + t.table + ` ORDER BY id`

	rows, err := t.q.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("listing %s slugs: %w", t.table, err)
	}
	defer rows.Close()

	var out []slug.Row
	for rows.Next() {
		var r slug.Row
		if err := rows.Scan(&r.ID, &r.Slug); err != nil {
			return nil, fmt.Errorf("scanning %s slug row: %w", t.table, err)
		}
		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s slug rows: %w", t.table, err)
	}

	return out, nil
}

// UpdateSlug sets the slug of row fix.ID to fix.New.
func (t slugTable) UpdateSlug(ctx context.Context, fix slug.Fix) error {
	q := `UPDATE ` + t.table + ` SET slug = $2, updated_at = NOW() WHERE id = $1`

	tag, err := t.q.Exec(ctx, q, fix.ID, fix.New)
	if err != nil {
		return fmt.Errorf("updating %s slug for id %d: %w", t.table, fix.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("updating %s slug for id %d: %w", t.table, fix.ID, ErrNotFound)
	}

	return nil
}

// textArray keeps NOT NULL text[] columns from receiving NULL.
func textArray(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

// DestinationRepository provides access to the destinations table.
type DestinationRepository struct {
	slugTable
}

// NewDestinationRepository constructs a DestinationRepository backed by the given pool.
func NewDestinationRepository(pool *pgxpool.Pool) *DestinationRepository {
	return NewDestinationRepositoryWithQuerier(pool)
}

// NewDestinationRepositoryWithQuerier constructs a DestinationRepository with a custom Querier (for tests).
func NewDestinationRepositoryWithQuerier(q Querier) *DestinationRepository {
	return &DestinationRepository{slugTable{q: q, table: DestinationsTable}}
}

const destinationColumns = `slug, name, summary, image, images, country, city, category, interests`

func destinationArgs(d *destination.Destination) []any {
	return []any{
		d.Slug, d.Name, d.Summary, d.Image, textArray(d.Images),
		d.Country, d.City, d.Category, textArray(d.Interests),
	}
}

// Insert adds a destination and returns its id.
func (r *DestinationRepository) Insert(ctx context.Context, d *destination.Destination) (int64, error) {
	const q = `
		INSERT INTO destinations (` + destinationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	var id int64
	if err := r.q.QueryRow(ctx, q, destinationArgs(d)...).Scan(&id); err != nil {
		return 0, fmt.Errorf("inserting destination %s: %w", d.Slug, err)
	}

	return id, nil
}

// Upsert inserts a destination or overwrites the row with the same slug.
func (r *DestinationRepository) Upsert(ctx context.Context, d *destination.Destination) (int64, error) {
	const q = `
		INSERT INTO destinations (` + destinationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (slug) DO UPDATE
		SET name       = EXCLUDED.name,
		    summary    = EXCLUDED.summary,
		    image      = EXCLUDED.image,
		    images     = EXCLUDED.images,
		    country    = EXCLUDED.country,
		    city       = EXCLUDED.city,
		    category   = EXCLUDED.category,
		    interests  = EXCLUDED.interests,
		    updated_at = NOW()
		RETURNING id
	`

	var id int64
	if err := r.q.QueryRow(ctx, q, destinationArgs(d)...).Scan(&id); err != nil {
		return 0, fmt.Errorf("upserting destination %s: %w", d.Slug, err)
	}

	return id, nil
}

// ItineraryRepository provides access to the travel_itineraries table.
type ItineraryRepository struct {
	slugTable
}

// NewItineraryRepository constructs an ItineraryRepository backed by the given pool.
func NewItineraryRepository(pool *pgxpool.Pool) *ItineraryRepository {
	return NewItineraryRepositoryWithQuerier(pool)
}

// NewItineraryRepositoryWithQuerier constructs an ItineraryRepository with a custom Querier (for tests).
func NewItineraryRepositoryWithQuerier(q Querier) *ItineraryRepository {
	return &ItineraryRepository{slugTable{q: q, table: ItinerariesTable}}
}

const itineraryColumns = `slug, title, region, country, theme, days, places, markdown, source, image, images`

func itineraryArgs(it *itinerary.Itinerary) ([]any, error) {
	places := it.Places
	if places == nil {
		places = []string{}
	}
	placesJSON, err := json.Marshal(places)
	if err != nil {
		return nil, fmt.Errorf("marshaling places for itinerary %s: %w", it.Slug, err)
	}

	return []any{
		it.Slug, it.Title, it.Region, it.Country, it.Theme, it.Days,
		placesJSON, it.Markdown, it.Source, it.Image, textArray(it.Images),
	}, nil
}

// Insert adds an itinerary and returns its id.
func (r *ItineraryRepository) Insert(ctx context.Context, it *itinerary.Itinerary) (int64, error) {
	const q = `
		INSERT INTO travel_itineraries (` + itineraryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	args, err := itineraryArgs(it)
	if err != nil {
		return 0, err
	}

	var id int64
	if err := r.q.QueryRow(ctx, q, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("inserting itinerary %s: %w", it.Slug, err)
	}

	return id, nil
}

// Upsert inserts an itinerary or overwrites the row with the same slug.
func (r *ItineraryRepository) Upsert(ctx context.Context, it *itinerary.Itinerary) (int64, error) {
	const q = `
		INSERT INTO travel_itineraries (` + itineraryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (slug) DO UPDATE
		SET title      = EXCLUDED.title,
		    region     = EXCLUDED.region,
		    country    = EXCLUDED.country,
		    theme      = EXCLUDED.theme,
		    days       = EXCLUDED.days,
		    places     = EXCLUDED.places,
		    markdown   = EXCLUDED.markdown,
		    source     = EXCLUDED.source,
		    image      = EXCLUDED.image,
		    images     = EXCLUDED.images,
		    updated_at = NOW()
		RETURNING id
	`

	args, err := itineraryArgs(it)
	if err != nil {
		return 0, err
	}

	var id int64
	if err := r.q.QueryRow(ctx, q, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("upserting itinerary %s: %w", it.Slug, err)
	}

	return id, nil
}

// GetItinerary retrieves an itinerary by slug. Returns nil, nil when it is not found.
func (r *ItineraryRepository) GetItinerary(ctx context.Context, s string) (*itinerary.Itinerary, error) {
	const q = `
		SELECT id, ` + itineraryColumns + `, created_at, updated_at
		FROM travel_itineraries
		WHERE slug = $1
	`

	var it itinerary.Itinerary
	var placesJSON []byte

	err := r.q.QueryRow(ctx, q, s).Scan(
		&it.ID,
		&it.Slug,
		&it.Title,
		&it.Region,
		&it.Country,
		&it.Theme,
		&it.Days,
		&placesJSON,
		&it.Markdown,
		&it.Source,
		&it.Image,
		&it.Images,
		&it.CreatedAt,
		&it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying itinerary %s: %w", s, err)
	}

	if err := json.Unmarshal(placesJSON, &it.Places); err != nil {
		return nil, fmt.Errorf("unmarshaling places for itinerary %s: %w", s, err)
	}

	return &it, nil
}
