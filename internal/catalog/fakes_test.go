package catalog_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/neexbeast/tripcatalog/internal/catalog"
	"github.com/neexbeast/tripcatalog/internal/itinerary"
	"github.com/neexbeast/tripcatalog/internal/slug"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memStore is an in-memory catalog table keyed by slug.
type memStore[R catalog.Record] struct {
	rows    map[string]R
	ids     map[string]int64
	nextID  int64
	finds   int
	inserts int
	upserts int

	findErr  error
	writeErr map[string]error
}

func newMemStore[R catalog.Record]() *memStore[R] {
	return &memStore[R]{rows: map[string]R{}, ids: map[string]int64{}, writeErr: map[string]error{}}
}

func (m *memStore[R]) FindBySlug(_ context.Context, s string) (int64, bool, error) {
	m.finds++
	if m.findErr != nil {
		return 0, false, m.findErr
	}
	id, ok := m.ids[s]
	return id, ok, nil
}

func (m *memStore[R]) Insert(_ context.Context, rec R) (int64, error) {
	m.inserts++
	if err := m.writeErr[rec.Key()]; err != nil {
		return 0, err
	}
	if _, ok := m.ids[rec.Key()]; ok {
		return 0, fmt.Errorf("duplicate key value violates unique constraint")
	}
	m.nextID++
	m.ids[rec.Key()] = m.nextID
	m.rows[rec.Key()] = rec
	return m.nextID, nil
}

func (m *memStore[R]) Upsert(_ context.Context, rec R) (int64, error) {
	m.upserts++
	if err := m.writeErr[rec.Key()]; err != nil {
		return 0, err
	}
	id, ok := m.ids[rec.Key()]
	if !ok {
		m.nextID++
		id = m.nextID
		m.ids[rec.Key()] = id
	}
	m.rows[rec.Key()] = rec
	return id, nil
}

func (m *memStore[R]) writes() int { return m.inserts + m.upserts }

// fakeAdapter serves canned pages per source key.
type fakeAdapter struct {
	sources []itinerary.Source
	pages   map[string]string
	errs    map[string]error
	fetched []string
}

func (f *fakeAdapter) ID() string                  { return "fake" }
func (f *fakeAdapter) Sources() []itinerary.Source { return f.sources }
func (f *fakeAdapter) Fetch(_ context.Context, src itinerary.Source) (string, error) {
	f.fetched = append(f.fetched, src.Key)
	if err := f.errs[src.Key]; err != nil {
		return "", err
	}
	return f.pages[src.Key], nil
}

// fakeSlugStore records updates and can fail specific ids.
type fakeSlugStore struct {
	rows    []slug.Row
	listErr error
	failIDs map[int64]bool
	updated []slug.Fix
}

func (f *fakeSlugStore) ListSlugs(_ context.Context) ([]slug.Row, error) {
	return f.rows, f.listErr
}

func (f *fakeSlugStore) UpdateSlug(_ context.Context, fix slug.Fix) error {
	f.updated = append(f.updated, fix)
	if f.failIDs[fix.ID] {
		return fmt.Errorf("update of %d rejected", fix.ID)
	}
	return nil
}
