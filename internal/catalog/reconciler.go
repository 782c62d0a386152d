// Package catalog reconciles extracted candidates against the persisted catalogs.
package catalog

import (
	"context"
	"fmt"
)

// Policy decides what happens when a candidate's slug is already in the catalog.
type Policy int

const (
	// SkipIfExists leaves the stored record untouched (destination catalog).
	SkipIfExists Policy = iota
	// Upsert overwrites the stored record (itinerary catalog).
	Upsert
)

func (p Policy) String() string {
	switch p {
	case SkipIfExists:
		return "skip-if-exists"
	case Upsert:
		return "upsert"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// Record is a candidate keyed by its slug.
type Record interface {
	Key() string
	EnsureImages()
}

// Store is the subset of a catalog table the reconciler needs.
type Store[R Record] interface {
	FindBySlug(ctx context.Context, slug string) (id int64, found bool, err error)
	Insert(ctx context.Context, rec R) (int64, error)
	Upsert(ctx context.Context, rec R) (int64, error)
}

// Reconciler decides and performs exactly one write (or none) per candidate.
type Reconciler[R Record] struct {
	store  Store[R]
	policy Policy
}

// NewReconciler constructs a Reconciler for store under the given policy.
func NewReconciler[R Record](store Store[R], policy Policy) *Reconciler[R] {
	return &Reconciler[R]{store: store, policy: policy}
}

// Policy returns the reconciliation policy in use.
func (r *Reconciler[R]) Policy() Policy { return r.policy }

// Reconcile looks rec up by slug and inserts, replaces or skips it.
// Store failures become skip outcomes; they are never returned.
func (r *Reconciler[R]) Reconcile(ctx context.Context, rec R) Outcome {
	key := rec.Key()

	_, found, err := r.store.FindBySlug(ctx, key)
	if err != nil {
		return skip(key, ReasonCheckError, err)
	}

	if found && r.policy == SkipIfExists {
		return Outcome{Slug: key, Action: ActionSkip, Reason: ReasonExists}
	}

	rec.EnsureImages()

	action := ActionInsert
	if found {
		action = ActionReplace
		_, err = r.store.Upsert(ctx, rec)
	} else {
		_, err = r.store.Insert(ctx, rec)
	}
	if err != nil {
		return skip(key, ReasonInsertError, err)
	}

	return Outcome{Slug: key, Action: action}
}

func skip(key, reason string, err error) Outcome {
	o := Outcome{Slug: key, Action: ActionSkip, Reason: reason}
	if err != nil {
		o.Detail = err.Error()
	}
	return o
}
