package abspy

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/raphaelsulzer/abspy/geom"
)

// Facet is one planar boundary piece of a cell: the supporting plane oriented
// with its normal pointing out of the cell, the polygon fragment covering the
// piece, and the index of the input plane that generated it. Facets on the
// outer bounding volume carry PlaneID == BoundsPlaneID.
type Facet struct {
	PlaneID int
	Plane   geom.Plane
	Poly    geom.Polygon
}

// BoundsPlaneID marks facets that lie on the initial bounding volume rather
// than on an input plane.
const BoundsPlaneID = -1

// Cell is a convex region of space, defined by the conjunction of the
// half-space constraints collected along its path from the BSP root. A cell
// is never mutated after creation: splitting replaces it by two children, so
// handles held by consumers stay valid.
type Cell struct {
	id int

	// Outward-oriented planes; the cell is the set {x : n·x + d <= 0} for
	// every constraint.
	halfspaces []geom.Plane

	facets []Facet
	bbox   geom.AABB
}

// newRootCell builds the initial cell covering the whole bounding volume,
// bounded by the box's six faces.
func newRootCell(bounds geom.AABB) *Cell {
	x0, y0, z0 := bounds.Min.X(), bounds.Min.Y(), bounds.Min.Z()
	x1, y1, z1 := bounds.Max.X(), bounds.Max.Y(), bounds.Max.Z()

	faces := []struct {
		plane geom.Plane
		poly  geom.Polygon
	}{
		{geom.Plane{Normal: mgl64.Vec3{-1, 0, 0}, D: x0}, geom.Polygon{{x0, y0, z0}, {x0, y0, z1}, {x0, y1, z1}, {x0, y1, z0}}},
		{geom.Plane{Normal: mgl64.Vec3{1, 0, 0}, D: -x1}, geom.Polygon{{x1, y0, z0}, {x1, y1, z0}, {x1, y1, z1}, {x1, y0, z1}}},
		{geom.Plane{Normal: mgl64.Vec3{0, -1, 0}, D: y0}, geom.Polygon{{x0, y0, z0}, {x1, y0, z0}, {x1, y0, z1}, {x0, y0, z1}}},
		{geom.Plane{Normal: mgl64.Vec3{0, 1, 0}, D: -y1}, geom.Polygon{{x0, y1, z0}, {x0, y1, z1}, {x1, y1, z1}, {x1, y1, z0}}},
		{geom.Plane{Normal: mgl64.Vec3{0, 0, -1}, D: z0}, geom.Polygon{{x0, y0, z0}, {x0, y1, z0}, {x1, y1, z0}, {x1, y0, z0}}},
		{geom.Plane{Normal: mgl64.Vec3{0, 0, 1}, D: -z1}, geom.Polygon{{x0, y0, z1}, {x1, y0, z1}, {x1, y1, z1}, {x0, y1, z1}}},
	}

	cell := &Cell{
		halfspaces: make([]geom.Plane, 0, 6),
		facets:     make([]Facet, 0, 6),
		bbox:       bounds,
	}
	for _, f := range faces {
		cell.halfspaces = append(cell.halfspaces, f.plane)
		cell.facets = append(cell.facets, Facet{PlaneID: BoundsPlaneID, Plane: f.plane, Poly: f.poly})
	}
	return cell
}

// ID returns the cell's stable identifier, assigned in discovery order when
// the complex is assembled.
func (c *Cell) ID() int {
	return c.id
}

// BBox returns the cell's axis-aligned bounding box.
func (c *Cell) BBox() geom.AABB {
	return c.bbox
}

// Facets returns the cell's boundary facets.
func (c *Cell) Facets() []Facet {
	return c.facets
}

// Halfspaces returns the outward-oriented constraint planes of the cell.
func (c *Cell) Halfspaces() []geom.Plane {
	return c.halfspaces
}

// Center returns the center of the cell's bounding box.
func (c *Cell) Center() mgl64.Vec3 {
	return c.bbox.Center()
}

// Volume computes the cell volume with the divergence theorem: every facet
// lies on a plane n·x + d = 0 with outward n, so n·x = -d over the whole
// facet and the volume is Σ -d·area/3.
func (c *Cell) Volume() float64 {
	var v float64
	for _, f := range c.facets {
		v += -f.Plane.D * f.Poly.Area()
	}
	return v / 3
}

// crossedBy reports whether the plane passes strictly through the cell's
// interior: the cell must have boundary vertices further than eps from the
// plane on both sides. A plane lying on a cell boundary within eps does not
// cross, so the cell is passed through unchanged instead of producing a
// zero-volume child.
func (c *Cell) crossedBy(pl geom.Plane, eps float64) bool {
	below, above := false, false
	for _, f := range c.facets {
		for _, v := range f.Poly {
			d := pl.Distance(v)
			below = below || d < -eps
			above = above || d > eps
			if below && above {
				return true
			}
		}
	}
	return false
}

// section returns the cross-section polygon of the plane with the cell: a
// covering rectangle on the plane clipped by every half-space constraint.
// Returns nil when the section degenerates.
func (c *Cell) section(pl geom.Plane, eps float64) geom.Polygon {
	poly := geom.SectionRect(pl, c.bbox)
	for _, hs := range c.halfspaces {
		poly = poly.Clip(hs, eps)
		if poly == nil {
			return nil
		}
	}
	return poly
}

// split cuts the cell by the given plane into a negative child (the side the
// plane normal points away from) and a positive child. Facet polygons are
// clipped onto each side and the section polygon caps both children. Returns
// ok == false when the plane does not properly cross the cell or either child
// would degenerate.
func (c *Cell) split(pl geom.Plane, planeID int, eps float64) (neg, pos *Cell, ok bool) {
	if !c.crossedBy(pl, eps) {
		return nil, nil, false
	}

	capPoly := c.section(pl, eps)
	if capPoly == nil || capPoly.Area() <= eps*eps {
		return nil, nil, false
	}

	flipped := pl.Flipped()

	neg = &Cell{
		halfspaces: appendPlane(c.halfspaces, pl),
		facets:     clipFacets(c.facets, pl, eps),
	}
	neg.facets = append(neg.facets, Facet{PlaneID: planeID, Plane: pl, Poly: capPoly})

	pos = &Cell{
		halfspaces: appendPlane(c.halfspaces, flipped),
		facets:     clipFacets(c.facets, flipped, eps),
	}
	pos.facets = append(pos.facets, Facet{PlaneID: planeID, Plane: flipped, Poly: capPoly.Flipped()})

	minVolume := eps * eps * eps
	for _, child := range []*Cell{neg, pos} {
		if len(child.facets) < 4 || child.Volume() <= minVolume {
			return nil, nil, false
		}
		child.bbox = facetBounds(child.facets)
	}

	return neg, pos, true
}

// clipFacets keeps the parts of the facets on the non-positive side of the
// plane, dropping fragments that degenerate below the area tolerance.
func clipFacets(facets []Facet, pl geom.Plane, eps float64) []Facet {
	out := make([]Facet, 0, len(facets)+1)
	for _, f := range facets {
		poly := f.Poly.Clip(pl, eps)
		if poly == nil || poly.Area() <= eps*eps {
			continue
		}
		out = append(out, Facet{PlaneID: f.PlaneID, Plane: f.Plane, Poly: poly})
	}
	return out
}

func appendPlane(planes []geom.Plane, pl geom.Plane) []geom.Plane {
	out := make([]geom.Plane, len(planes), len(planes)+1)
	copy(out, planes)
	return append(out, pl)
}

func facetBounds(facets []Facet) geom.AABB {
	var box geom.AABB
	first := true
	for _, f := range facets {
		for _, v := range f.Poly {
			if first {
				box = geom.AABB{Min: v, Max: v}
				first = false
				continue
			}
			box = box.ExtendPoint(v)
		}
	}
	return box
}
