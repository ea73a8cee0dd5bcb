package geom

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// DegeneratePlaneError reports input geometry from which no plane can be
// derived: coincident or collinear points, or a vanishing normal.
type DegeneratePlaneError struct {
	Points []mgl64.Vec3
	Reason string
}

func (e *DegeneratePlaneError) Error() string {
	if len(e.Points) > 0 {
		return fmt.Sprintf("degenerate plane from %d points: %s", len(e.Points), e.Reason)
	}
	return fmt.Sprintf("degenerate plane: %s", e.Reason)
}
