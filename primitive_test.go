package abspy

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/raphaelsulzer/abspy/geom"
)

func TestPrimitiveFromFace(t *testing.T) {
	face := []mgl64.Vec3{{0, 0, 2}, {4, 0, 2}, {4, 3, 2}, {0, 3, 2}}

	prim, err := PrimitiveFromFace(face, 1e-9)
	if err != nil {
		t.Fatalf("PrimitiveFromFace failed: %v", err)
	}

	if math.Abs(math.Abs(prim.Plane.Normal.Z())-1) > 1e-12 {
		t.Errorf("normal = %v, want ±z", prim.Plane.Normal)
	}
	for _, p := range face {
		if d := prim.Plane.Distance(p); math.Abs(d) > 1e-12 {
			t.Errorf("face point %v off plane by %v", p, d)
		}
	}

	wantBounds := geom.AABB{Min: mgl64.Vec3{0, 0, 2}, Max: mgl64.Vec3{4, 3, 2}}
	if prim.Bounds != wantBounds {
		t.Errorf("bounds = %+v, want %+v", prim.Bounds, wantBounds)
	}
	if len(prim.Face) != len(face) {
		t.Errorf("face not preserved: %v", prim.Face)
	}
}

func TestPrimitiveFromFaceDegenerate(t *testing.T) {
	tests := []struct {
		name   string
		points []mgl64.Vec3
	}{
		{"collinear", []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}},
		{"coincident", []mgl64.Vec3{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}}},
		{"too few", []mgl64.Vec3{{0, 0, 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PrimitiveFromFace(tt.points, 1e-9)
			if err == nil {
				t.Fatal("expected an error")
			}
			var degenerate *geom.DegeneratePlaneError
			if !errors.As(err, &degenerate) {
				t.Errorf("error %v is not a DegeneratePlaneError", err)
			}
		})
	}
}

func TestPlanePrimitiveUnbounded(t *testing.T) {
	prim := PlanePrimitive(geom.Plane{Normal: mgl64.Vec3{0, 0, 1}, D: 0})
	anywhere := geom.AABB{Min: mgl64.Vec3{100, 100, 100}, Max: mgl64.Vec3{101, 101, 101}}
	if !prim.Bounds.Intersects(anywhere, 0) {
		t.Error("PlanePrimitive bounds must intersect every box")
	}
}

func TestPrioritiseVertical(t *testing.T) {
	vertical1 := PlanePrimitive(geom.Plane{Normal: mgl64.Vec3{1, 0, 0}, D: 0})
	vertical2 := PlanePrimitive(geom.Plane{Normal: mgl64.Vec3{0, 1, 0}, D: -3})
	horizontal := PlanePrimitive(geom.Plane{Normal: mgl64.Vec3{0, 0, 1}, D: 1})
	oblique := PlanePrimitive(geom.Plane{Normal: mgl64.Vec3{0.1, 0, 1}.Normalize(), D: 0})

	got := PrioritiseVertical([]Primitive{horizontal, vertical1, oblique, vertical2}, 0.9)

	wantOrder := []mgl64.Vec3{vertical1.Plane.Normal, vertical2.Plane.Normal, horizontal.Plane.Normal, oblique.Plane.Normal}
	if len(got) != 4 {
		t.Fatalf("got %d primitives, want 4", len(got))
	}
	for i, want := range wantOrder {
		if got[i].Plane.Normal != want {
			t.Errorf("position %d: normal %v, want %v", i, got[i].Plane.Normal, want)
		}
	}
}

func TestSortByExtent(t *testing.T) {
	small := Primitive{Bounds: geom.AABB{Max: mgl64.Vec3{1, 1, 1}}}
	large := Primitive{Bounds: geom.AABB{Max: mgl64.Vec3{10, 10, 10}}}
	unbounded := PlanePrimitive(geom.Plane{Normal: mgl64.Vec3{0, 0, 1}})

	got := SortByExtent([]Primitive{small, large, unbounded})
	diagonals := []float64{got[0].Bounds.Diagonal(), got[1].Bounds.Diagonal(), got[2].Bounds.Diagonal()}
	if !math.IsInf(diagonals[0], 1) {
		t.Errorf("unbounded primitive should sort first, got diagonals %v", diagonals)
	}
	if diagonals[1] < diagonals[2] {
		t.Errorf("extents not descending: %v", diagonals)
	}
}

func TestPlanes(t *testing.T) {
	prims := []Primitive{
		PlanePrimitive(geom.Plane{Normal: mgl64.Vec3{1, 0, 0}, D: 1}),
		PlanePrimitive(geom.Plane{Normal: mgl64.Vec3{0, 1, 0}, D: 2}),
	}
	planes := Planes(prims)
	if len(planes) != 2 || planes[0].D != 1 || planes[1].D != 2 {
		t.Errorf("Planes = %v", planes)
	}
}
