package service

import (
	"context"
)

// siblingOrdering is the ordering surface shared by question and option repositories.
// parentID is the questionnaire for questions and the question for options.
type siblingOrdering interface {
	Count(ctx context.Context, parentID string) (int, error)
	SetOrdering(ctx context.Context, id string, ordering int) error
	ShiftOrdering(ctx context.Context, parentID string, from, delta int) error
}

// openSlot returns the insert position for requested and shifts the rows at or
// after it by one. Positions outside 1..n+1 append.
func openSlot(ctx context.Context, r siblingOrdering, parentID string, requested int) (int, error) {
	n, err := r.Count(ctx, parentID)
	if err != nil {
		return 0, err
	}
	pos := requested
	if pos < 1 || pos > n+1 {
		pos = n + 1
	}
	if pos <= n {
		if err := r.ShiftOrdering(ctx, parentID, pos, 1); err != nil {
			return 0, err
		}
	}
	return pos, nil
}

// closeSlot shifts the rows after a removed position down by one.
func closeSlot(ctx context.Context, r siblingOrdering, parentID string, removed int) error {
	return r.ShiftOrdering(ctx, parentID, removed+1, -1)
}

// checkTarget rejects an ordering outside 1..n.
func checkTarget(ctx context.Context, r siblingOrdering, parentID string, target int) error {
	n, err := r.Count(ctx, parentID)
	if err != nil {
		return err
	}
	if target < 1 || target > n {
		return invalidf("ordering must be between 1 and %d", n)
	}
	return nil
}

// renumber assigns 1..n in the order of ids, which must be a permutation of current.
func renumber(ctx context.Context, r siblingOrdering, current, ids []string) error {
	if len(ids) != len(current) {
		return invalidf("expected %d ids, got %d", len(current), len(ids))
	}
	known := make(map[string]bool, len(current))
	for _, id := range current {
		known[id] = true
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !known[id] {
			return invalidf("id %q does not belong to this parent", id)
		}
		if seen[id] {
			return invalidf("id %q listed twice", id)
		}
		seen[id] = true
	}
	for i, id := range ids {
		if err := r.SetOrdering(ctx, id, i+1); err != nil {
			return err
		}
	}
	return nil
}
