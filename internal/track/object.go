package track

import "github.com/trackforge/trackedit/pkg/core"

// ID identifies an object inside its Track. IDs are never reused.
type ID int

// None is the zero ID. It never refers to an object.
const None ID = 0

// Role is the spline-family list an object belongs to.
type Role int

const (
	RoleNone Role = iota
	RoleControl
	RoleObject
	RoleParent
)

func (r Role) String() string {
	switch r {
	case RoleControl:
		return "control"
	case RoleObject:
		return "object"
	case RoleParent:
		return "parent"
	default:
		return "none"
	}
}

// Placement is the full persisted attribute set of one placed instance.
// Importers hand placements to Add, exporters read them back with (*Object).Placement.
type Placement struct {
	Prefab   core.Prefab
	Position core.Vec3i
	Rotation core.Quat4i
	Scaling  core.Vec3i
	GateNo   int32
	IsStart  bool
	IsFinish bool
	IsMoving bool
	Speed    int8

	// SourceID is the prefab id read from the file. Exporters write it back
	// when Prefab did not resolve.
	SourceID uint32
}

// Object is one placed instance in the track graph.
// Gate number and start/finish flags are only writable through the Track,
// which keeps the gate ordering and single start/finish rules.
type Object struct {
	id ID

	Prefab   core.Prefab
	Position core.Vec3i
	Rotation core.Quat4i
	Scaling  core.Vec3i
	IsMoving bool
	Speed    int8

	// Modified and FilterMarked are transient UI flags and are never persisted.
	Modified     bool
	FilterMarked bool

	gateNo   int32
	isStart  bool
	isFinish bool
	sourceID uint32

	parent   ID
	children []ID

	splineControls []ID
	splineObjects  []ID
	splineParents  []ID

	// owner is set on spline-family members, together with their role.
	owner ID
	role  Role

	attached bool
}

// ID returns the object's identity.
func (o *Object) ID() ID { return o.id }

// GateNo returns the gate number, -1 when the object is not numbered.
func (o *Object) GateNo() int32 { return o.gateNo }

// IsStart reports whether the object is the start gate.
func (o *Object) IsStart() bool { return o.isStart }

// IsFinish reports whether the object is the finish gate.
func (o *Object) IsFinish() bool { return o.isFinish }

// Valid reports whether the prefab was resolved.
func (o *Object) Valid() bool { return o.Prefab.Valid() }

// IsGate reports whether the object takes part in race order.
func (o *Object) IsGate() bool {
	return o.Prefab.IsGate && o.gateNo > 0
}

// Editable reports whether transforms may touch the object.
func (o *Object) Editable() bool {
	return o.Prefab.Editable()
}

// IsOnSpline reports whether the object is a member of another object's spline family.
func (o *Object) IsOnSpline() bool {
	return o.owner != None
}

// HasSplineFamily reports whether any spline-family list is populated.
func (o *Object) HasSplineFamily() bool {
	return len(o.splineControls) > 0 || len(o.splineObjects) > 0 || len(o.splineParents) > 0
}

// Placement returns a snapshot of the persisted attributes.
func (o *Object) Placement() Placement {
	return Placement{
		Prefab:   o.Prefab,
		Position: o.Position,
		Rotation: o.Rotation,
		Scaling:  o.Scaling,
		GateNo:   o.gateNo,
		IsStart:  o.isStart,
		IsFinish: o.isFinish,
		IsMoving: o.IsMoving,
		Speed:    o.Speed,
		SourceID: o.sourceID,
	}
}

func (o *Object) family(r Role) *[]ID {
	switch r {
	case RoleControl:
		return &o.splineControls
	case RoleObject:
		return &o.splineObjects
	case RoleParent:
		return &o.splineParents
	default:
		return nil
	}
}
