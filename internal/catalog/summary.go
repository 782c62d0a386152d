package catalog

import (
	"log/slog"

	"github.com/google/uuid"
)

// Action is what the reconciler did with a candidate.
type Action string

const (
	ActionInsert  Action = "insert"
	ActionReplace Action = "replace"
	ActionSkip    Action = "skip"
)

// Skip reasons reported to callers.
const (
	ReasonCheckError   = "check error"
	ReasonExists       = "already exists"
	ReasonInsertError  = "insert error"
	ReasonUpdateError  = "update error"
	ReasonFetchError   = "fetch error"
	ReasonNoDayRange   = "no valid day range"
	ReasonExtractError = "extract error"
)

// Summary statuses.
const (
	StatusSuccess = "success"
	StatusOK      = "ok"
)

// Outcome is the result for a single candidate. Detail carries the underlying
// error text for operator logs and is never serialized.
type Outcome struct {
	Slug   string `json:"slug,omitempty"`
	Source string `json:"source,omitempty"`
	Action Action `json:"action"`
	Reason string `json:"reason,omitempty"`
	Detail string `json:"-"`
}

// Skip is a skipped candidate as reported in a Summary.
type Skip struct {
	Slug   string `json:"slug,omitempty"`
	Source string `json:"source,omitempty"`
	Reason string `json:"reason"`
}

// Summary aggregates the outcomes of one pipeline run.
type Summary struct {
	RunID    string    `json:"run_id" yaml:"run_id"`
	Status   string    `json:"status" yaml:"status"`
	Source   string    `json:"source,omitempty" yaml:"source,omitempty"`
	Inserted []string  `json:"inserted" yaml:"inserted"`
	Replaced []string  `json:"replaced" yaml:"replaced"`
	Skipped  []Skip    `json:"skipped" yaml:"skipped"`
	Outcomes []Outcome `json:"-" yaml:"-"`
}

func newSummary(status, source string) *Summary {
	return &Summary{
		RunID:    uuid.NewString(),
		Status:   status,
		Source:   source,
		Inserted: []string{},
		Replaced: []string{},
		Skipped:  []Skip{},
	}
}

// Add records o in the summary.
func (s *Summary) Add(o Outcome) {
	s.Outcomes = append(s.Outcomes, o)

	switch o.Action {
	case ActionInsert:
		s.Inserted = append(s.Inserted, o.Slug)
	case ActionReplace:
		s.Replaced = append(s.Replaced, o.Slug)
	default:
		s.Skipped = append(s.Skipped, Skip{Slug: o.Slug, Source: o.Source, Reason: o.Reason})
	}
}

// logOutcome writes o to the operator log at a level matching its severity.
func logOutcome(log *slog.Logger, o Outcome) {
	attrs := []any{"slug", o.Slug}
	if o.Source != "" {
		attrs = append(attrs, "source", o.Source)
	}

	switch {
	case o.Action == ActionInsert:
		log.Info("inserted", attrs...)
	case o.Action == ActionReplace:
		log.Info("replaced", attrs...)
	case o.Reason == ReasonInsertError:
		log.Error("write failed", append(attrs, "reason", o.Reason, "err", o.Detail)...)
	case o.Detail != "":
		log.Warn("skipped", append(attrs, "reason", o.Reason, "err", o.Detail)...)
	default:
		log.Warn("skipped", append(attrs, "reason", o.Reason)...)
	}
}
