package abspy

import (
	"sort"

	"github.com/raphaelsulzer/abspy/geom"
)

// ============================================================================
// Types
// ============================================================================

// Pair - Unordered candidate pair of boxed items, normalised so that A < B.
type Pair struct {
	A, B int
}

// sweepIndex - Sweep-and-prune index over a set of bounding boxes. Finds all
// pairs whose boxes intersect within the configured tolerance without
// evaluating every one of the O(N²) combinations: boxes are sorted along the
// axis of greatest spread and swept with an active set.
//
// Every truly intersecting pair is reported; false positives are allowed and
// must be filtered by the caller with an exact geometric test.
type sweepIndex struct {
	boxes []geom.AABB
	eps   float64
}

// ============================================================================
// Constructor
// ============================================================================

func newSweepIndex(boxes []geom.AABB, eps float64) *sweepIndex {
	return &sweepIndex{boxes: boxes, eps: eps}
}

// ============================================================================
// Queries
// ============================================================================

// FindPairs returns all candidate pairs in deterministic order (sorted by A,
// then B). Zero-volume boxes are processed like any other; they behave as
// points or rectangles under the tolerant overlap test.
func (s *sweepIndex) FindPairs() []Pair {
	n := len(s.boxes)
	if n < 2 {
		return nil
	}

	axis := s.spreadAxis()

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if s.boxes[a].Min[axis] != s.boxes[b].Min[axis] {
			return s.boxes[a].Min[axis] < s.boxes[b].Min[axis]
		}
		return a < b
	})

	pairs := make([]Pair, 0, n)
	active := make([]int, 0, 16)

	for _, id := range order {
		box := s.boxes[id]

		// Drop boxes the sweep has passed.
		kept := active[:0]
		for _, other := range active {
			if s.boxes[other].Max[axis]+s.eps >= box.Min[axis] {
				kept = append(kept, other)
			}
		}
		active = kept

		// Everything still active overlaps on the sweep axis; confirm with
		// the full tolerant 3D test.
		for _, other := range active {
			if box.Intersects(s.boxes[other], s.eps) {
				if other < id {
					pairs = append(pairs, Pair{A: other, B: id})
				} else {
					pairs = append(pairs, Pair{A: id, B: other})
				}
			}
		}

		active = append(active, id)
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})

	return pairs
}

// spreadAxis - Axis along which the box centers spread the most.
func (s *sweepIndex) spreadAxis() int {
	lo := s.boxes[0].Center()
	hi := lo
	for _, box := range s.boxes[1:] {
		c := box.Center()
		for i := 0; i < 3; i++ {
			if c[i] < lo[i] {
				lo[i] = c[i]
			}
			if c[i] > hi[i] {
				hi[i] = c[i]
			}
		}
	}

	axis := 0
	spread := hi[0] - lo[0]
	for i := 1; i < 3; i++ {
		if hi[i]-lo[i] > spread {
			axis = i
			spread = hi[i] - lo[i]
		}
	}
	return axis
}
