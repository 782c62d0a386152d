package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/neexbeast/tripcatalog/internal/slug"
)

// SlugStore exposes the slug projection of a catalog table.
type SlugStore interface {
	ListSlugs(ctx context.Context) ([]slug.Row, error)
	UpdateSlug(ctx context.Context, fix slug.Fix) error
}

// FailedFix is a fix the store refused.
type FailedFix struct {
	slug.Fix `yaml:",inline"`
	Reason string `json:"reason"`
}

// RepairReport is the result of a slug maintenance pass.
type RepairReport struct {
	RunID        string      `json:"run_id" yaml:"run_id"`
	Status       string      `json:"status" yaml:"status"`
	Fixed        []slug.Fix  `json:"fixed" yaml:"fixed"`
	Failed       []FailedFix `json:"failed" yaml:"failed"`
	Unrepairable []string    `json:"unrepairable" yaml:"unrepairable"`
}

// RepairSlugs reads every {id, slug} row, plans fixes with policy and applies
// them one by one. A failed update is reported and does not stop the others.
// Only a failure to list the rows is returned as an error.
func RepairSlugs(ctx context.Context, log *slog.Logger, store SlugStore, policy slug.RepairPolicy) (*RepairReport, error) {
	report := &RepairReport{
		RunID:        uuid.NewString(),
		Status:       StatusOK,
		Fixed:        []slug.Fix{},
		Failed:       []FailedFix{},
		Unrepairable: []string{},
	}
	log = log.With("run_id", report.RunID, "task", "fix-slugs")

	rows, err := store.ListSlugs(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing slugs: %w", err)
	}

	fixes, unrepairable := slug.Plan(rows, policy)

	for _, r := range unrepairable {
		log.Warn("unrepairable slug", "id", r.ID, "slug", r.Slug)
		report.Unrepairable = append(report.Unrepairable, r.Slug)
	}

	if len(fixes) == 0 {
		log.Info("no malformed slugs to fix", "rows", len(rows))
		return report, nil
	}

	for _, f := range fixes {
		if err := store.UpdateSlug(ctx, f); err != nil {
			log.Error("slug update failed", "id", f.ID, "slug", f.New, "err", err)
			report.Failed = append(report.Failed, FailedFix{Fix: f, Reason: ReasonUpdateError})
			continue
		}
		log.Info("slug fixed", "id", f.ID, "old", f.Old, "new", f.New)
		report.Fixed = append(report.Fixed, f)
	}

	return report, nil
}
