// Package movable plans the position changes that keep a list densely
// ordered. Planners are pure; callers apply the resulting shifts together
// with the mover's own write inside a single transaction.
package movable

import "fmt"

// Shift moves every sibling whose position lies in [Low, High] by Delta.
// High < 0 means the range is open ended.
type Shift struct {
	Low   int
	High  int
	Delta int
}

// Empty reports whether the shift touches no position.
func (s Shift) Empty() bool {
	return s.Delta == 0 || (s.High >= 0 && s.High < s.Low)
}

// Contains reports whether position p is inside the shifted range.
func (s Shift) Contains(p int) bool {
	if p < s.Low {
		return false
	}
	return s.High < 0 || p <= s.High
}

// InsertPlan places a new item at the head of a list.
type InsertPlan struct {
	Position int
	Shift    Shift
}

// PlanInsertAtHead returns the plan for inserting before every existing item:
// all count siblings move down by one and the new item takes position 0.
func PlanInsertAtHead(count int) InsertPlan {
	plan := InsertPlan{Position: 0}
	if count > 0 {
		plan.Shift = Shift{Low: 0, High: -1, Delta: 1}
	}
	return plan
}

// MovePlan describes repositioning one item inside its list.
type MovePlan struct {
	Origin      int
	Destination int
	Shift       Shift
}

// Forward reports whether the item moves towards the tail.
func (p MovePlan) Forward() bool {
	return p.Origin < p.Destination
}

// Distance is the number of siblings displaced by the move.
func (p MovePlan) Distance() int {
	if p.Forward() {
		return p.Destination - p.Origin
	}
	return p.Origin - p.Destination
}

// PlanMove computes the sibling shift for moving the item at origin to
// destination in a list of count items.
//
// Moving forward closes the gap behind the item: (origin, destination] shifts
// by -1. Moving backward opens room ahead of it: [destination, origin) shifts
// by +1. A move onto the current position is rejected.
func PlanMove(origin, destination, count int) (MovePlan, error) {
	if origin < 0 || origin >= count {
		return MovePlan{}, fmt.Errorf("%w: origin %d not in [0, %d)", ErrPositionOutOfRange, origin, count)
	}
	if destination < 0 || destination >= count {
		return MovePlan{}, fmt.Errorf("%w: destination %d not in [0, %d)", ErrPositionOutOfRange, destination, count)
	}
	if origin == destination {
		return MovePlan{}, fmt.Errorf("%w: %d", ErrSamePosition, origin)
	}

	plan := MovePlan{Origin: origin, Destination: destination}
	if origin < destination {
		plan.Shift = Shift{Low: origin + 1, High: destination, Delta: -1}
	} else {
		plan.Shift = Shift{Low: destination, High: origin - 1, Delta: 1}
	}
	return plan, nil
}

// PlanRemove returns the shift that closes the gap left by removing the item
// at origin.
func PlanRemove(origin int) (Shift, error) {
	if origin < 0 {
		return Shift{}, fmt.Errorf("%w: %d", ErrNegativePosition, origin)
	}
	return Shift{Low: origin + 1, High: -1, Delta: -1}, nil
}

// Reorder applies a move to an in-memory slice and returns the new ordering.
// The input is not modified.
func Reorder[T any](items []T, origin, destination int) ([]T, error) {
	if _, err := PlanMove(origin, destination, len(items)); err != nil {
		return nil, err
	}
	out := make([]T, 0, len(items))
	moving := items[origin]
	for i, it := range items {
		if i == origin {
			continue
		}
		out = append(out, it)
	}
	out = append(out[:destination], append([]T{moving}, out[destination:]...)...)
	return out, nil
}
