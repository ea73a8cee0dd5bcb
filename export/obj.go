// Package export emits cell complexes as Wavefront OBJ/MTL. It only writes to
// the provided writers; opening and closing files is the caller's business.
package export

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/raphaelsulzer/abspy"
)

// Options configures OBJ emission.
type Options struct {
	// MTLFilename is referenced from the OBJ header when UseMTL is set.
	MTLFilename string
	// UseMTL emits usemtl statements, one material per source plane, so
	// every fragment of an input face shares a material group.
	UseMTL bool
	// Cells restricts output to the given cell ids; nil means all cells.
	Cells []int
}

// WriteOBJ writes the boundary facets of the selected cells, one object per
// cell. Vertex indices in OBJ are global and 1-based.
func WriteOBJ(w io.Writer, cc *abspy.CellComplex, opts Options) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# cells: %d\n", cc.NumCells())
	if opts.UseMTL && opts.MTLFilename != "" {
		fmt.Fprintf(bw, "mtllib %s\n", opts.MTLFilename)
	}

	ids := opts.Cells
	if ids == nil {
		ids = make([]int, cc.NumCells())
		for i := range ids {
			ids[i] = i
		}
	}

	vertexCount := 0
	for _, id := range ids {
		facets := cc.BoundaryFacets(id)
		if facets == nil {
			return fmt.Errorf("export: no such cell %d", id)
		}

		fmt.Fprintf(bw, "o cell_%d\n", id)
		for _, f := range facets {
			if opts.UseMTL {
				fmt.Fprintf(bw, "usemtl %s\n", materialName(f.PlaneID))
			}
			for _, v := range f.Poly {
				fmt.Fprintf(bw, "v %g %g %g\n", v.X(), v.Y(), v.Z())
			}
			fmt.Fprint(bw, "f")
			for i := range f.Poly {
				fmt.Fprintf(bw, " %d", vertexCount+i+1)
			}
			fmt.Fprintln(bw)
			vertexCount += len(f.Poly)
		}
	}

	return bw.Flush()
}

// WriteMTL writes one material per source plane appearing in the complex,
// with colours derived deterministically from the plane id so repeated export
// of the same complex is byte-identical.
func WriteMTL(w io.Writer, cc *abspy.CellComplex) error {
	bw := bufio.NewWriter(w)

	seen := map[int]bool{}
	for id := 0; id < cc.NumCells(); id++ {
		for _, f := range cc.BoundaryFacets(id) {
			seen[f.PlaneID] = true
		}
	}
	planeIDs := make([]int, 0, len(seen))
	for id := range seen {
		planeIDs = append(planeIDs, id)
	}
	sort.Ints(planeIDs)

	for _, id := range planeIDs {
		r, g, b := colour(id)
		fmt.Fprintf(bw, "newmtl %s\n", materialName(id))
		fmt.Fprintf(bw, "Kd %.3f %.3f %.3f\n", r, g, b)
	}

	return bw.Flush()
}

func materialName(planeID int) string {
	if planeID == abspy.BoundsPlaneID {
		return "bounds"
	}
	return fmt.Sprintf("plane_%d", planeID)
}

// colour hashes a plane id into an RGB triple away from full black/white.
func colour(planeID int) (float64, float64, float64) {
	h := uint32(planeID+2) * 2654435761
	r := 0.15 + 0.7*float64(h&0xff)/255
	g := 0.15 + 0.7*float64((h>>8)&0xff)/255
	b := 0.15 + 0.7*float64((h>>16)&0xff)/255
	return r, g, b
}
