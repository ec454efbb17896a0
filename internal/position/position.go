// Package position computes dense, gap-free orderings for sibling entities
// (columns within a board, cards within a column). It is pure: callers load
// the current sibling set, derive the new order here, and persist the result
// inside their own transaction.
package position

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrUnknownID means the submitted order names an id that is not part of
	// the sibling scope.
	ErrUnknownID = errors.New("unknown id in submitted order")
	// ErrDuplicateID means the submitted order names an id twice.
	ErrDuplicateID = errors.New("duplicate id in submitted order")
	// ErrIncompleteOrder means the submitted order omits a current sibling.
	ErrIncompleteOrder = errors.New("submitted order does not cover all siblings")
)

// Validate checks that submitted is a permutation of current: same ids, each
// exactly once. A reorder must never silently drop or invent a sibling, so
// any mismatch fails the whole operation.
func Validate(current, submitted []uuid.UUID) error {
	if len(submitted) != len(current) {
		return fmt.Errorf("%w: got %d ids, scope has %d", ErrIncompleteOrder, len(submitted), len(current))
	}

	known := make(map[uuid.UUID]bool, len(current))
	for _, id := range current {
		known[id] = true
	}

	seen := make(map[uuid.UUID]bool, len(submitted))
	for _, id := range submitted {
		if !known[id] {
			return fmt.Errorf("%w: %s", ErrUnknownID, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: %s", ErrDuplicateID, id)
		}
		seen[id] = true
	}
	return nil
}

// Placement pairs a sibling id with its new position.
type Placement struct {
	ID       uuid.UUID
	Position int
}

// Renumber assigns position i to the id at index i, producing the dense
// 0-based assignment {0..n-1}.
func Renumber(ordered []uuid.UUID) []Placement {
	placements := make([]Placement, len(ordered))
	for i, id := range ordered {
		placements[i] = Placement{ID: id, Position: i}
	}
	return placements
}

// Remove returns ordered without id, closing the gap. The original slice is
// not modified. If id is absent the result is simply a copy.
func Remove(ordered []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ordered))
	for _, v := range ordered {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// InsertAt returns ordered with id inserted at index, shifting later siblings
// up by one. The index is clamped into [0, len(ordered)], so an out-of-range
// target lands at the start or end instead of failing.
func InsertAt(ordered []uuid.UUID, id uuid.UUID, index int) []uuid.UUID {
	index = Clamp(index, len(ordered)+1)
	out := make([]uuid.UUID, 0, len(ordered)+1)
	out = append(out, ordered[:index]...)
	out = append(out, id)
	out = append(out, ordered[index:]...)
	return out
}

// Clamp bounds index into [0, n-1]. For n <= 0 it returns 0.
func Clamp(index, n int) int {
	if index < 0 {
		return 0
	}
	if index > n-1 {
		if n <= 0 {
			return 0
		}
		return n - 1
	}
	return index
}
