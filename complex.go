// Package abspy constructs linear cell complexes: partitions of a bounded
// region of 3D space into convex polyhedral cells, obtained by recursive
// binary space partitioning along planes derived from planar primitives.
//
// The pipeline is: primitives -> BSP tree (bounding-box pruned splits) ->
// cell complex with an adjacency graph (bounding-box shortlisting plus an
// exact shared-facet test). Every geometric predicate is threaded with a
// configurable tolerance so that coplanar, near-parallel and flush-contact
// input does not break the partition. The adjacency stage can optionally run
// on multiple workers with results identical to the sequential run.
package abspy

import (
	"fmt"
	"runtime"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/raphaelsulzer/abspy/geom"
)

// DefaultEpsilon is the distance tolerance used when Options.Epsilon is left
// zero. Degenerate real-world meshes may require tuning.
const DefaultEpsilon = 1e-5

// Options configures construction. Epsilon is the distance below which
// near-coincident features are treated as coincident; it is a first-class
// configuration value, threaded through every predicate. Parallel enables the
// multi-worker adjacency stage, which produces the exact same complex and is
// only worth it at scale.
type Options struct {
	Epsilon  float64
	Parallel bool
	Workers  int // worker count for Parallel; defaults to GOMAXPROCS
}

func (o Options) epsilon() float64 {
	if o.Epsilon <= 0 {
		return DefaultEpsilon
	}
	return o.Epsilon
}

func (o Options) workers() int {
	if !o.Parallel {
		return 1
	}
	if o.Workers < 1 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Workers
}

// CellComplex is the finished partition: the terminal cells of the BSP tree
// with stable ids in discovery order, plus a symmetric adjacency graph
// annotated with the shared boundary facets. Read-only after construction.
type CellComplex struct {
	cells     []*Cell
	adjacency []map[int]Facet
	tree      *Tree
	eps       float64
}

// Construct partitions the bounding volume by the given planes, in order, and
// assembles the resulting cell complex. It fails with a DegeneratePlaneError
// on malformed planes, or an UnboundedInputError when the initial bounds are
// unusable; any abort names the stage that failed.
func Construct(planes []geom.Plane, bounds geom.AABB, opts Options) (*CellComplex, error) {
	prims := make([]Primitive, len(planes))
	for i, pl := range planes {
		prims[i] = PlanePrimitive(pl)
	}
	return ConstructFromPrimitives(prims, bounds, opts)
}

// ConstructFromPrimitives is like Construct but keeps each primitive's own
// bounds: a primitive only splits cells that overlap its bounding box, so
// local detail does not cut through the whole volume.
func ConstructFromPrimitives(prims []Primitive, bounds geom.AABB, opts Options) (*CellComplex, error) {
	eps := opts.epsilon()

	for i, p := range prims {
		if err := validatePlane(p.Plane, eps); err != nil {
			return nil, fmt.Errorf("plane extraction: plane %d: %w", i, err)
		}
	}

	tik := time.Now()
	tree, err := buildTree(prims, bounds, eps)
	if err != nil {
		return nil, fmt.Errorf("bsp construction: %w", err)
	}

	cells := make([]*Cell, len(tree.leaves))
	for i, leaf := range tree.leaves {
		cells[i] = tree.nodes[leaf].Cell
		cells[i].id = i
	}

	edges, err := findAdjacencies(cells, eps, opts.workers())
	if err != nil {
		return nil, fmt.Errorf("adjacency assembly: %w", err)
	}

	cc := &CellComplex{
		cells:     cells,
		adjacency: make([]map[int]Facet, len(cells)),
		tree:      tree,
		eps:       eps,
	}
	for i := range cc.adjacency {
		cc.adjacency[i] = make(map[int]Facet)
	}
	for _, e := range edges {
		// Always inserted symmetrically; the facet annotation is shared.
		cc.adjacency[e.a][e.b] = e.facet
		cc.adjacency[e.b][e.a] = e.facet
	}

	log.Infof("cell complex constructed: %d cells, %d adjacencies, %.2fs",
		len(cells), len(edges), time.Since(tik).Seconds())

	return cc, nil
}

func validatePlane(pl geom.Plane, eps float64) error {
	n := pl.Normal.Len()
	if n < 1-eps || n > 1+eps {
		return &geom.DegeneratePlaneError{Reason: "normal is not unit length"}
	}
	return nil
}

// NumCells returns the number of cells in the complex.
func (cc *CellComplex) NumCells() int {
	return len(cc.cells)
}

// Cells returns the cells in insertion order; cell ids index this slice.
func (cc *CellComplex) Cells() []*Cell {
	return cc.cells
}

// Neighbors returns the sorted ids of the cells adjacent to the given cell.
// A cell is never its own neighbor.
func (cc *CellComplex) Neighbors(id int) []int {
	if id < 0 || id >= len(cc.adjacency) {
		return nil
	}
	out := make([]int, 0, len(cc.adjacency[id]))
	for n := range cc.adjacency[id] {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// SharedFacet returns the boundary facet shared by two adjacent cells.
func (cc *CellComplex) SharedFacet(a, b int) (Facet, bool) {
	if a < 0 || a >= len(cc.adjacency) {
		return Facet{}, false
	}
	f, ok := cc.adjacency[a][b]
	return f, ok
}

// BoundaryFacets returns the facets bounding the given cell, each carrying
// its supporting plane, the polygon fragment and the source plane id. The
// export layer consumes these to emit one material group per input plane.
func (cc *CellComplex) BoundaryFacets(id int) []Facet {
	if id < 0 || id >= len(cc.cells) {
		return nil
	}
	return cc.cells[id].facets
}

// Tree returns the underlying BSP tree.
func (cc *CellComplex) Tree() *Tree {
	return cc.tree
}

// Epsilon returns the tolerance the complex was built with.
func (cc *CellComplex) Epsilon() float64 {
	return cc.eps
}

// edge is one confirmed adjacency between two cells.
type edge struct {
	a, b  int
	facet Facet
}

// findAdjacencies shortlists candidate neighbor pairs with the sweep index
// over the cells' bounding boxes, then confirms each candidate with the exact
// shared-facet test, sequentially or across workers.
func findAdjacencies(cells []*Cell, eps float64, workers int) ([]edge, error) {
	if len(cells) < 2 {
		return nil, nil
	}

	boxes := make([]geom.AABB, len(cells))
	for i, c := range cells {
		boxes[i] = c.bbox
	}
	pairs := newSweepIndex(boxes, eps).FindPairs()

	log.Debugf("adjacency assembly: %d cells, %d candidate pairs, %d workers",
		len(cells), len(pairs), workers)

	return collectEdges(cells, pairs, eps, workers)
}

// sharedFacet performs the exact adjacency test for one candidate pair: the
// cells are adjacent iff a facet of a is coplanar with a facet of b and the
// part of a's facet strictly inside b has positive area. Confirmation clips
// with negative slack: split-time clipping leaves facets overhanging their
// cell by up to eps, so at an edge-only contact the overhangs stack into a
// sliver of width about 2*eps whose acceptance against any eps-scaled area
// threshold would come down to rounding. Shrinking by eps collapses that
// sliver while a contact region wider than the tolerance survives. The
// constraint coincident with the shared plane is exempt from shrinking; it
// only trims in the normal direction, where the polygon already lies within
// tolerance. Among coincident facet pairs the largest overlap wins, so a
// degenerate fragment on another plane can never shadow the true shared
// facet.
func sharedFacet(a, b *Cell, eps float64) (Facet, bool, error) {
	var best Facet
	bestArea := 0.0
	for _, fa := range a.facets {
		for _, fb := range b.facets {
			if !fa.Plane.Coincident(fb.Plane, eps) {
				continue
			}

			poly := fa.Poly
			for _, hs := range b.halfspaces {
				if hs.Coincident(fa.Plane, eps) {
					continue
				}
				poly = poly.Clip(hs, -eps)
				if poly == nil {
					break
				}
			}
			if poly == nil {
				continue
			}
			if !poly.Finite() {
				return Facet{}, false, fmt.Errorf("non-finite facet between cells %d and %d", a.id, b.id)
			}
			area := poly.Area()
			if area <= eps*eps || area <= eps*poly.Perimeter() {
				continue
			}
			if area > bestArea {
				best = Facet{PlaneID: fa.PlaneID, Plane: fa.Plane, Poly: poly}
				bestArea = area
			}
		}
	}
	return best, bestArea > 0, nil
}
