// Partitions a cube by the three coordinate planes and writes the resulting
// eight-cell complex to partition.obj / partition.mtl.
package main

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/raphaelsulzer/abspy"
	"github.com/raphaelsulzer/abspy/export"
	"github.com/raphaelsulzer/abspy/geom"
)

func main() {
	planes := []geom.Plane{
		{Normal: mgl64.Vec3{1, 0, 0}, D: 0},
		{Normal: mgl64.Vec3{0, 1, 0}, D: 0},
		{Normal: mgl64.Vec3{0, 0, 1}, D: 0},
	}
	bounds := geom.AABB{
		Min: mgl64.Vec3{-1, -1, -1},
		Max: mgl64.Vec3{1, 1, 1},
	}

	cc, err := abspy.Construct(planes, bounds, abspy.Options{Epsilon: 1e-6})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("cells: %d\n", cc.NumCells())
	for _, cell := range cc.Cells() {
		fmt.Printf("  cell %d: volume %.3f, neighbors %v\n",
			cell.ID(), cell.Volume(), cc.Neighbors(cell.ID()))
	}

	obj, err := os.Create("partition.obj")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer obj.Close()

	mtl, err := os.Create("partition.mtl")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer mtl.Close()

	if err := export.WriteOBJ(obj, cc, export.Options{UseMTL: true, MTLFilename: "partition.mtl"}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := export.WriteMTL(mtl, cc); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
