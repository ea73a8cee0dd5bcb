package geom

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Polygon is a planar convex polygon given by its ordered vertices.
type Polygon []mgl64.Vec3

// Area returns the polygon area, computed as half the norm of the Newell
// normal. Exact for planar polygons, tolerance-stable for slightly warped
// ones.
func (p Polygon) Area() float64 {
	if len(p) < 3 {
		return 0
	}
	var n mgl64.Vec3
	for i, a := range p {
		b := p[(i+1)%len(p)]
		n[0] += (a.Y() - b.Y()) * (a.Z() + b.Z())
		n[1] += (a.Z() - b.Z()) * (a.X() + b.X())
		n[2] += (a.X() - b.X()) * (a.Y() + b.Y())
	}
	return 0.5 * n.Len()
}

// Perimeter returns the total edge length of the polygon.
func (p Polygon) Perimeter() float64 {
	if len(p) < 2 {
		return 0
	}
	var l float64
	for i, a := range p {
		b := p[(i+1)%len(p)]
		l += b.Sub(a).Len()
	}
	return l
}

// Centroid returns the vertex average. Sufficient as a representative interior
// point for convex polygons.
func (p Polygon) Centroid() mgl64.Vec3 {
	var c mgl64.Vec3
	if len(p) == 0 {
		return c
	}
	for _, v := range p {
		c = c.Add(v)
	}
	return c.Mul(1 / float64(len(p)))
}

// Clip cuts the polygon against the half-space n·x + d <= eps, keeping the
// non-positive side of the plane with eps slack. Vertices within eps of the
// plane survive on both sides of a split, which is what keeps flush-contact
// facets from vanishing. Sutherland-Hodgman against the offset plane.
func (p Polygon) Clip(pl Plane, eps float64) Polygon {
	if len(p) == 0 {
		return nil
	}

	out := make(Polygon, 0, len(p)+2)
	prev := p[len(p)-1]
	prevDist := pl.Distance(prev) - eps
	for _, cur := range p {
		curDist := pl.Distance(cur) - eps

		if prevDist <= 0 {
			out = append(out, prev)
			if curDist > 0 {
				out = append(out, intersect(prev, cur, prevDist, curDist))
			}
		} else if curDist <= 0 {
			out = append(out, intersect(prev, cur, prevDist, curDist))
		}

		prev, prevDist = cur, curDist
	}

	if len(out) < 3 {
		return nil
	}
	return out
}

// intersect returns the point on segment (a, b) where the signed distance
// crosses zero. da and db must have opposite signs.
func intersect(a, b mgl64.Vec3, da, db float64) mgl64.Vec3 {
	t := da / (da - db)
	return a.Add(b.Sub(a).Mul(t))
}

// Finite reports whether all vertex coordinates are finite.
func (p Polygon) Finite() bool {
	for _, v := range p {
		if !isFinite(v) {
			return false
		}
	}
	return true
}

// Flipped returns the polygon with reversed winding.
func (p Polygon) Flipped() Polygon {
	out := make(Polygon, len(p))
	for i, v := range p {
		out[len(p)-1-i] = v
	}
	return out
}

// SectionRect returns a rectangle on the plane large enough to cover box.
// It seeds cross-section computations: clipping it against a convex cell's
// half-spaces yields the exact cell/plane section.
func SectionRect(pl Plane, box AABB) Polygon {
	center := pl.Project(box.Center())
	u, v := pl.Basis()
	// Half the diagonal reaches every corner of the box from its center.
	r := box.Diagonal()
	return Polygon{
		center.Add(u.Mul(r)).Add(v.Mul(r)),
		center.Sub(u.Mul(r)).Add(v.Mul(r)),
		center.Sub(u.Mul(r)).Sub(v.Mul(r)),
		center.Add(u.Mul(r)).Sub(v.Mul(r)),
	}
}
