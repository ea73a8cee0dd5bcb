package abspy

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/raphaelsulzer/abspy/geom"
)

func primitives(planes ...geom.Plane) []Primitive {
	prims := make([]Primitive, len(planes))
	for i, pl := range planes {
		prims[i] = PlanePrimitive(pl)
	}
	return prims
}

func TestBuildTreeNoPlanes(t *testing.T) {
	tree, err := buildTree(nil, testBounds(), 1e-9)
	if err != nil {
		t.Fatalf("buildTree failed: %v", err)
	}
	if len(tree.Nodes()) != 1 || len(tree.Leaves()) != 1 {
		t.Errorf("got %d nodes, %d leaves, want 1 and 1", len(tree.Nodes()), len(tree.Leaves()))
	}
	if !tree.Nodes()[0].Leaf() {
		t.Error("single node is not a leaf")
	}
}

func TestBuildTreeSinglePlane(t *testing.T) {
	tree, err := buildTree(primitives(geom.Plane{Normal: mgl64.Vec3{1, 0, 0}, D: 0}), testBounds(), 1e-9)
	if err != nil {
		t.Fatalf("buildTree failed: %v", err)
	}

	if len(tree.Nodes()) != 3 {
		t.Fatalf("got %d nodes, want 3", len(tree.Nodes()))
	}
	if len(tree.Leaves()) != 2 {
		t.Fatalf("got %d leaves, want 2", len(tree.Leaves()))
	}

	root := tree.Nodes()[0]
	if root.Leaf() {
		t.Fatal("root is a leaf after a split")
	}
	if root.PlaneID != 0 {
		t.Errorf("root PlaneID = %d, want 0", root.PlaneID)
	}
	if root.Cell != nil {
		t.Error("internal node still carries a cell")
	}

	var total float64
	for _, leaf := range tree.Leaves() {
		total += tree.Nodes()[leaf].Cell.Volume()
	}
	if math.Abs(total-8) > 1e-6 {
		t.Errorf("leaf volumes sum to %v, want 8", total)
	}
}

func TestBuildTreePlaneMissesBounds(t *testing.T) {
	// The plane never crosses the volume; the branch terminates untouched.
	tree, err := buildTree(primitives(geom.Plane{Normal: mgl64.Vec3{1, 0, 0}, D: -10}), testBounds(), 1e-9)
	if err != nil {
		t.Fatalf("buildTree failed: %v", err)
	}
	if len(tree.Leaves()) != 1 {
		t.Errorf("got %d leaves, want 1", len(tree.Leaves()))
	}
}

func TestBuildTreeDuplicatePlane(t *testing.T) {
	plane := geom.Plane{Normal: mgl64.Vec3{0, 1, 0}, D: 0.25}

	once, err := buildTree(primitives(plane), testBounds(), 1e-9)
	if err != nil {
		t.Fatalf("buildTree failed: %v", err)
	}
	twice, err := buildTree(primitives(plane, plane), testBounds(), 1e-9)
	if err != nil {
		t.Fatalf("buildTree failed: %v", err)
	}

	if len(once.Leaves()) != len(twice.Leaves()) {
		t.Errorf("duplicate plane changed the partition: %d vs %d leaves",
			len(once.Leaves()), len(twice.Leaves()))
	}
}

func TestBuildTreeUnboundedInput(t *testing.T) {
	inf := math.Inf(1)

	tests := []struct {
		name   string
		bounds geom.AABB
	}{
		{"zero extent", geom.AABB{}},
		{"inverted", geom.AABB{Min: mgl64.Vec3{1, 1, 1}, Max: mgl64.Vec3{-1, -1, -1}}},
		{"infinite", geom.AABB{Min: mgl64.Vec3{-inf, -1, -1}, Max: mgl64.Vec3{1, 1, 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildTree(nil, tt.bounds, 1e-9)
			if err == nil {
				t.Fatal("expected an error")
			}
			var unbounded *UnboundedInputError
			if !errors.As(err, &unbounded) {
				t.Errorf("error %v is not an UnboundedInputError", err)
			}
		})
	}
}

func TestBuildTreeAdaptiveBounds(t *testing.T) {
	// The second primitive's bounds only cover the positive-x half, so it
	// must not split the negative-x cell.
	splitter := PlanePrimitive(geom.Plane{Normal: mgl64.Vec3{1, 0, 0}, D: 0})
	local := Primitive{
		Plane:  geom.Plane{Normal: mgl64.Vec3{0, 1, 0}, D: 0},
		Bounds: geom.AABB{Min: mgl64.Vec3{0.25, -1, -1}, Max: mgl64.Vec3{1, 1, 1}},
	}

	tree, err := buildTree([]Primitive{splitter, local}, testBounds(), 1e-9)
	if err != nil {
		t.Fatalf("buildTree failed: %v", err)
	}
	if got := len(tree.Leaves()); got != 3 {
		t.Errorf("got %d leaves, want 3 (bounded primitive split one side only)", got)
	}

	unboundedLocal := PlanePrimitive(local.Plane)
	tree, err = buildTree([]Primitive{splitter, unboundedLocal}, testBounds(), 1e-9)
	if err != nil {
		t.Fatalf("buildTree failed: %v", err)
	}
	if got := len(tree.Leaves()); got != 4 {
		t.Errorf("got %d leaves, want 4 with unbounded primitive", got)
	}
}

func TestBuildTreeDeterministicOrder(t *testing.T) {
	planes := []geom.Plane{
		{Normal: mgl64.Vec3{1, 0, 0}, D: 0.5},
		{Normal: mgl64.Vec3{0, 1, 0}, D: -0.25},
		{Normal: mgl64.Vec3{0, 0, 1}, D: 0},
	}

	first, err := buildTree(primitives(planes...), testBounds(), 1e-9)
	if err != nil {
		t.Fatalf("buildTree failed: %v", err)
	}
	second, err := buildTree(primitives(planes...), testBounds(), 1e-9)
	if err != nil {
		t.Fatalf("buildTree failed: %v", err)
	}

	if len(first.Nodes()) != len(second.Nodes()) {
		t.Fatalf("node counts differ: %d vs %d", len(first.Nodes()), len(second.Nodes()))
	}
	for i := range first.Nodes() {
		a, b := first.Nodes()[i], second.Nodes()[i]
		if a.Left != b.Left || a.Right != b.Right || a.PlaneID != b.PlaneID {
			t.Errorf("node %d differs between runs", i)
		}
	}
	// The root always splits by the first applicable plane of the input
	// sequence, never by a reordered one.
	if first.Nodes()[0].PlaneID != 0 {
		t.Errorf("root split by plane %d, want 0", first.Nodes()[0].PlaneID)
	}
}

func TestTreeLocate(t *testing.T) {
	tree, err := buildTree(primitives(
		geom.Plane{Normal: mgl64.Vec3{1, 0, 0}, D: 0},
		geom.Plane{Normal: mgl64.Vec3{0, 1, 0}, D: 0},
	), testBounds(), 1e-9)
	if err != nil {
		t.Fatalf("buildTree failed: %v", err)
	}

	tests := []struct {
		name  string
		point mgl64.Vec3
		wantX float64 // sign of the containing cell's center
		wantY float64
	}{
		{"+x +y", mgl64.Vec3{0.5, 0.5, 0}, 1, 1},
		{"-x +y", mgl64.Vec3{-0.5, 0.5, 0}, -1, 1},
		{"-x -y", mgl64.Vec3{-0.5, -0.5, 0}, -1, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cell := tree.Locate(tt.point)
			if cell == nil {
				t.Fatal("Locate returned nil")
			}
			c := cell.Center()
			if c.X()*tt.wantX <= 0 || c.Y()*tt.wantY <= 0 {
				t.Errorf("Locate(%v) landed in cell centered at %v", tt.point, c)
			}
		})
	}

	if cell := tree.Locate(mgl64.Vec3{50, 0, 0}); cell != nil {
		t.Errorf("Locate outside bounds returned cell centered at %v", cell.Center())
	}
}
