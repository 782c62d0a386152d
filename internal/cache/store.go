package cache

import (
	"context"
	"log/slog"

	"github.com/neexbeast/tripcatalog/internal/slug"
)

type keyed interface {
	Key() string
}

// backingStore is the catalog table wrapped by CachedStore.
type backingStore[R keyed] interface {
	FindBySlug(ctx context.Context, slug string) (int64, bool, error)
	Insert(ctx context.Context, rec R) (int64, error)
	Upsert(ctx context.Context, rec R) (int64, error)
	ListSlugs(ctx context.Context) ([]slug.Row, error)
	UpdateSlug(ctx context.Context, fix slug.Fix) error
}

// CachedStore answers FindBySlug from a SlugIndex before asking the table,
// and keeps the index current on writes. Cache failures are logged and
// never fail the operation.
type CachedStore[R keyed] struct {
	inner backingStore[R]
	index *SlugIndex
	log   *slog.Logger
}

// NewCachedStore wraps inner with index.
func NewCachedStore[R keyed](inner backingStore[R], index *SlugIndex, log *slog.Logger) *CachedStore[R] {
	return &CachedStore[R]{inner: inner, index: index, log: log}
}

// FindBySlug implements the catalog lookup. A cached hit is trusted for the
// index TTL without reading the table, so a row deleted outside the catalog
// still resolves until its entry expires or is invalidated with Forget.
func (s *CachedStore[R]) FindBySlug(ctx context.Context, key string) (int64, bool, error) {
	id, ok, err := s.index.Get(ctx, key)
	if err != nil {
		s.log.Warn("slug cache get failed", "slug", key, "err", err)
	}
	if ok {
		return id, true, nil
	}

	id, found, err := s.inner.FindBySlug(ctx, key)
	if err != nil || !found {
		return id, found, err
	}

	s.remember(ctx, key, id)
	return id, true, nil
}

// Insert writes rec and caches its id.
func (s *CachedStore[R]) Insert(ctx context.Context, rec R) (int64, error) {
	id, err := s.inner.Insert(ctx, rec)
	if err != nil {
		return 0, err
	}
	s.remember(ctx, rec.Key(), id)
	return id, nil
}

// Upsert writes rec and caches its id.
func (s *CachedStore[R]) Upsert(ctx context.Context, rec R) (int64, error) {
	id, err := s.inner.Upsert(ctx, rec)
	if err != nil {
		return 0, err
	}
	s.remember(ctx, rec.Key(), id)
	return id, nil
}

// ListSlugs reads through to the table.
func (s *CachedStore[R]) ListSlugs(ctx context.Context) ([]slug.Row, error) {
	return s.inner.ListSlugs(ctx)
}

// UpdateSlug renames the row and moves its cache entry from fix.Old to fix.New.
func (s *CachedStore[R]) UpdateSlug(ctx context.Context, fix slug.Fix) error {
	if err := s.inner.UpdateSlug(ctx, fix); err != nil {
		return err
	}

	if fix.Old != "" {
		if err := s.index.Delete(ctx, fix.Old); err != nil {
			s.log.Warn("slug cache delete failed", "slug", fix.Old, "err", err)
		}
	}
	s.remember(ctx, fix.New, fix.ID)
	return nil
}

// Forget drops the cached id for key so the next lookup reads the table.
func (s *CachedStore[R]) Forget(ctx context.Context, key string) error {
	return s.index.Delete(ctx, key)
}

func (s *CachedStore[R]) remember(ctx context.Context, key string, id int64) {
	if err := s.index.Set(ctx, key, id); err != nil {
		s.log.Warn("slug cache set failed", "slug", key, "err", err)
	}
}
