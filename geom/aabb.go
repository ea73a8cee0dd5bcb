package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// Unbounded returns a box covering all of space. Used for primitives whose
// supporting plane should never be excluded from a split by its extent.
func Unbounded() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: mgl64.Vec3{-inf, -inf, -inf},
		Max: mgl64.Vec3{inf, inf, inf},
	}
}

// AABBFromPoints returns the tightest box enclosing all points.
// Returns the zero box when points is empty.
func AABBFromPoints(points []mgl64.Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	box := AABB{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box = box.ExtendPoint(p)
	}
	return box
}

// ExtendPoint grows the box to contain p.
func (a AABB) ExtendPoint(p mgl64.Vec3) AABB {
	for i := 0; i < 3; i++ {
		a.Min[i] = math.Min(a.Min[i], p[i])
		a.Max[i] = math.Max(a.Max[i], p[i])
	}
	return a
}

// ContainsPoint checks if a point is inside the box.
func (a AABB) ContainsPoint(point mgl64.Vec3) bool {
	return point.X() >= a.Min.X() && point.X() <= a.Max.X() &&
		point.Y() >= a.Min.Y() && point.Y() <= a.Max.Y() &&
		point.Z() >= a.Min.Z() && point.Z() <= a.Max.Z()
}

// Intersects reports whether two boxes overlap, treating boxes within eps of
// touching as overlapping. This absorbs floating-point error from earlier
// plane computations on flush-contact geometry. Zero-volume boxes are valid
// and behave as points or rectangles.
func (a AABB) Intersects(other AABB, eps float64) bool {
	// Boxes overlap if they overlap (within tolerance) on all three axes.
	return a.Max.X()+eps >= other.Min.X() && a.Min.X() <= other.Max.X()+eps &&
		a.Max.Y()+eps >= other.Min.Y() && a.Min.Y() <= other.Max.Y()+eps &&
		a.Max.Z()+eps >= other.Min.Z() && a.Min.Z() <= other.Max.Z()+eps
}

// IntersectsPlane reports whether the plane passes within eps of the box.
// The box's projection interval radius onto the plane normal is compared with
// the distance of the box center from the plane.
func (a AABB) IntersectsPlane(pl Plane, eps float64) bool {
	center := a.Center()
	extent := a.Extent()
	radius := 0.5 * (extent.X()*math.Abs(pl.Normal.X()) +
		extent.Y()*math.Abs(pl.Normal.Y()) +
		extent.Z()*math.Abs(pl.Normal.Z()))
	return math.Abs(pl.Distance(center)) <= radius+eps
}

// Center returns the box center.
func (a AABB) Center() mgl64.Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}

// Extent returns the per-axis size of the box.
func (a AABB) Extent() mgl64.Vec3 {
	return a.Max.Sub(a.Min)
}

// Diagonal returns the length of the box diagonal.
func (a AABB) Diagonal() float64 {
	return a.Extent().Len()
}

// Volume returns the box volume.
func (a AABB) Volume() float64 {
	e := a.Extent()
	return e.X() * e.Y() * e.Z()
}

// Padded returns the box grown on every side by the given fraction of its
// extent per axis. Degenerate real-world primitives need a little padding so
// their bounds are never razor thin.
func (a AABB) Padded(padding float64) AABB {
	e := a.Extent().Mul(padding)
	return AABB{Min: a.Min.Sub(e), Max: a.Max.Add(e)}
}

// Corners returns the eight box corners.
func (a AABB) Corners() [8]mgl64.Vec3 {
	return [8]mgl64.Vec3{
		{a.Min.X(), a.Min.Y(), a.Min.Z()},
		{a.Max.X(), a.Min.Y(), a.Min.Z()},
		{a.Min.X(), a.Max.Y(), a.Min.Z()},
		{a.Max.X(), a.Max.Y(), a.Min.Z()},
		{a.Min.X(), a.Min.Y(), a.Max.Z()},
		{a.Max.X(), a.Min.Y(), a.Max.Z()},
		{a.Min.X(), a.Max.Y(), a.Max.Z()},
		{a.Max.X(), a.Max.Y(), a.Max.Z()},
	}
}

// Valid reports whether the box has finite coordinates and non-negative
// extent on every axis.
func (a AABB) Valid() bool {
	if !isFinite(a.Min) || !isFinite(a.Max) {
		return false
	}
	return a.Min.X() <= a.Max.X() && a.Min.Y() <= a.Max.Y() && a.Min.Z() <= a.Max.Z()
}
