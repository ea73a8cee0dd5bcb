package abspy

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/raphaelsulzer/abspy/geom"
)

// Primitive is a planar primitive: a supporting plane, the polygonal face it
// was derived from (if any), and the bounds of that face. During partitioning
// a primitive only splits cells whose boxes overlap its bounds, so a small
// wall segment does not slice through the whole model.
type Primitive struct {
	Plane  geom.Plane
	Face   geom.Polygon
	Bounds geom.AABB
}

// PlanePrimitive wraps a bare cutting plane into a primitive with unbounded
// extent, so it splits every cell it crosses.
func PlanePrimitive(pl geom.Plane) Primitive {
	return Primitive{Plane: pl, Bounds: geom.Unbounded()}
}

// PrimitiveFromFace derives a primitive from the vertices of a mesh face.
// Fails with a DegeneratePlaneError when the vertices are coincident or
// collinear within eps.
func PrimitiveFromFace(points []mgl64.Vec3, eps float64) (Primitive, error) {
	plane, err := geom.NewPlaneFromPoints(points, eps)
	if err != nil {
		return Primitive{}, err
	}

	face := make(geom.Polygon, len(points))
	copy(face, points)

	return Primitive{
		Plane:  plane,
		Face:   face,
		Bounds: geom.AABBFromPoints(points),
	}, nil
}

// PrioritiseVertical reorders primitives so that near-vertical ones come
// first, preserving the relative order within each class. Vertical primitives
// get split in early, which avoids incomplete partitions on building models
// where facade data is sparse.
//
// A primitive is vertical when the squared slope of its normal,
// (nx²+ny²)/nz², exceeds slopeThreshold².
func PrioritiseVertical(prims []Primitive, slopeThreshold float64) []Primitive {
	const nonZero = 10e-5 // keeps the ratio finite for horizontal normals

	vertical := make([]Primitive, 0, len(prims))
	rest := make([]Primitive, 0, len(prims))
	for _, p := range prims {
		n := p.Plane.Normal
		slopeSquared := (n.X()*n.X() + n.Y()*n.Y()) / (n.Z()*n.Z() + nonZero)
		if slopeSquared > slopeThreshold*slopeThreshold {
			vertical = append(vertical, p)
		} else {
			rest = append(rest, p)
		}
	}
	return append(vertical, rest...)
}

// SortByExtent reorders primitives by descending bound diagonal, largest
// first. Splitting by large primitives first keeps the complex compact.
// The sort is stable, so equal extents keep their input order.
func SortByExtent(prims []Primitive) []Primitive {
	out := make([]Primitive, len(prims))
	copy(out, prims)
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i].Bounds.Diagonal(), out[j].Bounds.Diagonal()
		// Unbounded primitives sort first.
		if math.IsInf(di, 1) || math.IsInf(dj, 1) {
			return math.IsInf(di, 1) && !math.IsInf(dj, 1)
		}
		return di > dj
	})
	return out
}

// Planes extracts the supporting planes of a primitive list, in order.
func Planes(prims []Primitive) []geom.Plane {
	planes := make([]geom.Plane, len(prims))
	for i, p := range prims {
		planes[i] = p.Plane
	}
	return planes
}
