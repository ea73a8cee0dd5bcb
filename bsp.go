package abspy

import (
	"github.com/go-gl/mathgl/mgl64"
	log "github.com/sirupsen/logrus"

	"github.com/raphaelsulzer/abspy/geom"
)

// Node is one node of the BSP tree. Internal nodes carry the splitting plane
// and the ids of their two children; leaves carry the finished cell. The tree
// is immutable once construction finishes.
type Node struct {
	Plane   geom.Plane
	PlaneID int
	Left    int // child on the negative side, -1 on leaves
	Right   int // child on the positive side, -1 on leaves
	Cell    *Cell
}

// Leaf reports whether the node is a leaf of the tree.
func (n Node) Leaf() bool {
	return n.Left < 0
}

// Tree is the BSP tree produced by partitioning: an arena of nodes indexed by
// id, rooted at node 0, with leaf ids recorded in discovery order.
type Tree struct {
	nodes  []Node
	leaves []int
}

// Nodes returns the node arena.
func (t *Tree) Nodes() []Node {
	return t.nodes
}

// Leaves returns the leaf node ids in discovery order.
func (t *Tree) Leaves() []int {
	return t.leaves
}

// Locate walks the tree from the root and returns the leaf cell containing
// the point, or nil when the point lies outside the initial bounds.
func (t *Tree) Locate(p mgl64.Vec3) *Cell {
	if len(t.nodes) == 0 {
		return nil
	}

	id := 0
	for !t.nodes[id].Leaf() {
		if t.nodes[id].Plane.Distance(p) <= 0 {
			id = t.nodes[id].Left
		} else {
			id = t.nodes[id].Right
		}
	}
	cell := t.nodes[id].Cell
	if !cell.BBox().ContainsPoint(p) {
		return nil
	}
	return cell
}

// workItem pairs an unprocessed leaf with the candidate planes that may still
// split it.
type workItem struct {
	node       int
	candidates []int
}

// buildTree recursively partitions the bounding volume by the ordered
// candidate primitives. Candidates are applied strictly in input order (no
// reordering heuristics), which makes the tree reproducible for identical
// input. A candidate splits a cell only when the cell's box overlaps the
// primitive's bounds and plane and the plane strictly crosses the cell; a
// candidate rejected for a cell is never retried on that cell's descendants,
// since children are subsets of their parent.
func buildTree(prims []Primitive, bounds geom.AABB, eps float64) (*Tree, error) {
	if !bounds.Valid() || bounds.Volume() <= eps*eps*eps {
		return nil, &UnboundedInputError{Reason: "initial bounds are empty or non-finite"}
	}

	root := newRootCell(bounds)

	all := make([]int, len(prims))
	for i := range all {
		all[i] = i
	}

	tree := &Tree{nodes: []Node{{Left: -1, Right: -1, Cell: root}}}
	queue := []workItem{{node: 0, candidates: all}}

	splits := 0
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		cell := tree.nodes[item.node].Cell

		split := false
		for k, id := range item.candidates {
			prim := prims[id]

			if !cell.bbox.Intersects(prim.Bounds, eps) {
				continue
			}
			if !cell.bbox.IntersectsPlane(prim.Plane, eps) {
				continue
			}

			neg, pos, ok := cell.split(prim.Plane, id, eps)
			if !ok {
				continue
			}

			left := len(tree.nodes)
			right := left + 1
			tree.nodes = append(tree.nodes,
				Node{Left: -1, Right: -1, Cell: neg},
				Node{Left: -1, Right: -1, Cell: pos},
			)

			tree.nodes[item.node] = Node{
				Plane:   prim.Plane,
				PlaneID: id,
				Left:    left,
				Right:   right,
			}

			remaining := item.candidates[k+1:]
			queue = append(queue,
				workItem{node: left, candidates: remaining},
				workItem{node: right, candidates: remaining},
			)

			splits++
			split = true
			break
		}

		if !split {
			tree.leaves = append(tree.leaves, item.node)
		}
	}

	log.Debugf("bsp construction: %d splits, %d nodes, %d leaves", splits, len(tree.nodes), len(tree.leaves))

	return tree, nil
}
