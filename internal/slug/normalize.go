package slug

import (
	"errors"
	"regexp"
	"strings"
)

// ErrUnrepairable is returned when a malformed slug does not match the repair pattern.
var ErrUnrepairable = errors.New("unrepairable slug")

// RepairPolicy turns a malformed slug into a hierarchical one.
// Implementations return ErrUnrepairable when they cannot tell where to split.
type RepairPolicy interface {
	Repair(raw string) (string, error)
}

// ConcatenatedRuns splits a slug made of two letter runs with no separator.
// The match is greedy, so the first run takes every letter but the last one the
// second run needs. Digits, hyphens and anything else leave the slug unrepairable.
type ConcatenatedRuns struct{}

var concatenated = regexp.MustCompile(`(?i)^([a-z]+)([a-z]+)$`)

// Repair implements RepairPolicy.
func (ConcatenatedRuns) Repair(raw string) (string, error) {
	m := concatenated.FindStringSubmatch(raw)
	if m == nil {
		return raw, ErrUnrepairable
	}
	return strings.ToLower(m[1] + Separator + m[2]), nil
}

// DefaultRepair is the policy used by Normalize.
var DefaultRepair RepairPolicy = ConcatenatedRuns{}

// IsMalformed reports whether raw is a non-empty slug without a separator.
func IsMalformed(raw string) bool {
	return raw != "" && !strings.Contains(raw, Separator)
}

// Normalize returns the repaired form of raw using DefaultRepair. Well-formed,
// empty and unrepairable slugs come back unchanged.
func Normalize(raw string) string {
	if !IsMalformed(raw) {
		return raw
	}
	fixed, err := DefaultRepair.Repair(raw)
	if err != nil {
		return raw
	}
	return fixed
}

// Row is the {id, slug} projection of a catalog record.
type Row struct {
	ID   int64
	Slug string
}

// Fix is a pending slug change for one record.
type Fix struct {
	ID  int64  `json:"id"`
	Old string `json:"old"`
	New string `json:"new"`
}

// Plan computes the fixes for every malformed row. Rows the policy cannot repair
// are returned separately so the caller can report them.
func Plan(rows []Row, policy RepairPolicy) (fixes []Fix, unrepairable []Row) {
	if policy == nil {
		policy = DefaultRepair
	}

	for _, r := range rows {
		if !IsMalformed(r.Slug) {
			continue
		}

		fixed, err := policy.Repair(r.Slug)
		if err != nil {
			unrepairable = append(unrepairable, r)
			continue
		}
		if fixed != r.Slug {
			fixes = append(fixes, Fix{ID: r.ID, Old: r.Slug, New: fixed})
		}
	}

	return fixes, unrepairable
}
