// pkg/core/prefab.go
package core

// Prefab describes one catalog-defined kind of placeable object.
// ID 0 means unresolved and marks every object carrying it as invalid.
type Prefab struct {
	ID     uint32
	Name   string
	Type   string
	IsGate bool
}

// StartGridType is the prefab type shared by every start-grid kind.
const StartGridType = "StartGrid"

// SplineType is the prefab type of spline-defining objects.
const SplineType = "Spline"

// Names of prefabs that belong to a spline family's scaffolding.
const (
	CtrlParent   = "CtrlParent"
	ControlCurve = "ControlCurve"
	ControlPoint = "ControlPoint"
)

// StartGridNames lists the start-grid prefab kinds.
var StartGridNames = []string{
	"StartGrid",
	"StartGridDrone",
	"StartGridCar",
	"StartGridMulti",
	"StartGridSingle",
}

var nonEditable = func() map[string]struct{} {
	m := map[string]struct{}{
		CtrlParent:   {},
		ControlCurve: {},
		ControlPoint: {},
	}
	for _, n := range StartGridNames {
		m[n] = struct{}{}
	}
	return m
}()

// Valid reports whether the prefab was resolved from the catalog.
func (p Prefab) Valid() bool {
	return p.ID > 0
}

// IsStartGrid reports whether the prefab is a start-grid kind.
func (p Prefab) IsStartGrid() bool {
	return p.Type == StartGridType
}

// Editable reports whether objects of this prefab may be transformed.
func (p Prefab) Editable() bool {
	if _, ok := nonEditable[p.Name]; ok {
		return false
	}
	return !p.IsStartGrid()
}

// IsSplineKind reports whether the prefab is spline scaffolding (curves, control points, splines).
func (p Prefab) IsSplineKind() bool {
	switch p.Name {
	case CtrlParent, ControlCurve, ControlPoint:
		return true
	}
	return p.Type == SplineType
}
