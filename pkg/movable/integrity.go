package movable

import (
	"fmt"
	"slices"

	"github.com/the-dev-tools/todolist/pkg/idwrap"
)

// Item is the ordering view of a list member.
type Item struct {
	ID       idwrap.IDWrap
	ListID   idwrap.IDWrap
	Position int
}

// PositionUpdate assigns a new position to a single item.
type PositionUpdate struct {
	ItemID   idwrap.IDWrap
	Position int
}

// CheckListIntegrity verifies that items all belong to listID and that their
// positions are exactly {0, ..., len(items)-1}.
func CheckListIntegrity(listID idwrap.IDWrap, items []Item) error {
	seen := make(map[idwrap.IDWrap]struct{}, len(items))
	taken := make([]bool, len(items))
	for _, it := range items {
		if it.ListID.Compare(listID) != 0 {
			return fmt.Errorf("integrity: %w: %s", ErrScopeMismatch, it.ID)
		}
		if _, ok := seen[it.ID]; ok {
			return fmt.Errorf("integrity: %w: %s", ErrDuplicateItem, it.ID)
		}
		seen[it.ID] = struct{}{}

		if it.Position < 0 {
			return fmt.Errorf("integrity: %w: %d for %s", ErrNegativePosition, it.Position, it.ID)
		}
		if it.Position >= len(items) {
			return fmt.Errorf("integrity: %w: %d with %d items", ErrPositionGap, it.Position, len(items))
		}
		if taken[it.Position] {
			return fmt.Errorf("integrity: %w: %d", ErrDuplicatePosition, it.Position)
		}
		taken[it.Position] = true
	}
	return nil
}

// Compact returns the updates that restore a dense ordering while keeping the
// current relative order. Equal positions are broken by id so the result is
// deterministic. Items already in place produce no update.
func Compact(items []Item) []PositionUpdate {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b Item) int {
		if a.Position != b.Position {
			return a.Position - b.Position
		}
		return a.ID.Compare(b.ID)
	})

	var updates []PositionUpdate
	for i, it := range sorted {
		if it.Position != i {
			updates = append(updates, PositionUpdate{ItemID: it.ID, Position: i})
		}
	}
	return updates
}
