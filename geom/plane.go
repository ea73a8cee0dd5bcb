package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Plane is an oriented plane in Hessian normal form: n·x + d = 0, with n a unit
// vector. The positive side is the half-space n·x + d > 0.
//
// Planes are immutable once created; they serve both as cutting planes during
// partitioning and as boundary facet descriptors on finished cells.
type Plane struct {
	Normal mgl64.Vec3
	D      float64
}

// NewPlane builds a plane from a (not necessarily unit) normal and an offset,
// normalising both. Returns a DegeneratePlaneError if the normal vanishes or
// is not finite within eps.
func NewPlane(normal mgl64.Vec3, d float64, eps float64) (Plane, error) {
	n := normal.Len()
	if !isFinite(normal) || math.IsNaN(d) || math.IsInf(d, 0) || n <= eps {
		return Plane{}, &DegeneratePlaneError{Reason: "zero or non-finite normal"}
	}
	return Plane{Normal: normal.Mul(1 / n), D: d / n}, nil
}

// NewPlaneFromPoints fits a plane through the vertices of a polygonal face
// using Newell's method. At least three points are required; coincident or
// collinear points (within eps) yield a DegeneratePlaneError.
func NewPlaneFromPoints(points []mgl64.Vec3, eps float64) (Plane, error) {
	if len(points) < 3 {
		return Plane{}, &DegeneratePlaneError{Points: points, Reason: "fewer than three points"}
	}

	var normal, centroid mgl64.Vec3
	for i, p := range points {
		q := points[(i+1)%len(points)]
		normal[0] += (p.Y() - q.Y()) * (p.Z() + q.Z())
		normal[1] += (p.Z() - q.Z()) * (p.X() + q.X())
		normal[2] += (p.X() - q.X()) * (p.Y() + q.Y())
		centroid = centroid.Add(p)
	}
	centroid = centroid.Mul(1 / float64(len(points)))

	n := normal.Len()
	if !isFinite(normal) || n <= eps*eps {
		return Plane{}, &DegeneratePlaneError{Points: points, Reason: "collinear or coincident points"}
	}
	normal = normal.Mul(1 / n)

	return Plane{Normal: normal, D: -normal.Dot(centroid)}, nil
}

// Distance returns the signed distance from p to the plane.
// Positive on the side the normal points to.
func (pl Plane) Distance(p mgl64.Vec3) float64 {
	return pl.Normal.Dot(p) + pl.D
}

// Flipped returns the same plane with reversed orientation.
func (pl Plane) Flipped() Plane {
	return Plane{Normal: pl.Normal.Mul(-1), D: -pl.D}
}

// Coincident reports whether two planes describe the same surface within eps,
// regardless of orientation.
func (pl Plane) Coincident(other Plane, eps float64) bool {
	dot := pl.Normal.Dot(other.Normal)
	if dot >= 0 {
		return dot >= 1-eps && math.Abs(pl.D-other.D) <= eps
	}
	return dot <= -(1-eps) && math.Abs(pl.D+other.D) <= eps
}

// Basis returns two unit vectors spanning the plane, orthogonal to each other
// and to the normal.
func (pl Plane) Basis() (mgl64.Vec3, mgl64.Vec3) {
	// Pick the axis least aligned with the normal as a seed.
	seed := mgl64.Vec3{1, 0, 0}
	if math.Abs(pl.Normal.X()) > math.Abs(pl.Normal.Y()) {
		seed = mgl64.Vec3{0, 1, 0}
	}
	u := pl.Normal.Cross(seed).Normalize()
	v := pl.Normal.Cross(u)
	return u, v
}

// Project returns the orthogonal projection of p onto the plane.
func (pl Plane) Project(p mgl64.Vec3) mgl64.Vec3 {
	return p.Sub(pl.Normal.Mul(pl.Distance(p)))
}

func isFinite(v mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if math.IsNaN(v[i]) || math.IsInf(v[i], 0) {
			return false
		}
	}
	return true
}
