package transform

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/trackforge/trackedit/pkg/core"
)

// Op is a bulk transform operation.
type Op int

const (
	Move Op = iota
	Scale
	AddRotation
	ReplacePosition
	ReplaceScaling
	ReplaceRotation
	IncreasingPosition
	IncreasingScale
	IncreasingRotation
	MultiplyPosition
	MultiplyScaling
	Mirror
)

var opNames = []string{
	Move:               "move",
	Scale:              "scale",
	AddRotation:        "addRotation",
	ReplacePosition:    "replacePosition",
	ReplaceScaling:     "replaceScaling",
	ReplaceRotation:    "replaceRotation",
	IncreasingPosition: "increasingPosition",
	IncreasingScale:    "increasingScale",
	IncreasingRotation: "increasingRotation",
	MultiplyPosition:   "multiplyPosition",
	MultiplyScaling:    "multiplyScaling",
	Mirror:             "mirror",
}

func (o Op) String() string {
	if o >= 0 && int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// ParseOp resolves an operation by name, case-insensitively.
func ParseOp(s string) (Op, error) {
	for i, n := range opNames {
		if strings.EqualFold(n, s) {
			return Op(i), nil
		}
	}
	return 0, fmt.Errorf("unknown transform op: %s", s)
}

// Target selects the vector components an operation touches.
type Target int

const (
	All Target = iota
	R
	G
	B
)

func (t Target) String() string {
	switch t {
	case All:
		return "all"
	case R:
		return "r"
	case G:
		return "g"
	case B:
		return "b"
	default:
		return fmt.Sprintf("target(%d)", int(t))
	}
}

// ParseTarget resolves a target by name, case-insensitively.
func ParseTarget(s string) (Target, error) {
	for _, t := range []Target{All, R, G, B} {
		if strings.EqualFold(t.String(), s) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown axis target: %s", s)
}

func (t Target) axes() []core.Axis {
	switch t {
	case R:
		return []core.Axis{core.AxisR}
	case G:
		return []core.Axis{core.AxisG}
	case B:
		return []core.Axis{core.AxisB}
	default:
		return []core.Axis{core.AxisR, core.AxisG, core.AxisB}
	}
}

// ValueKind tells which shape a Value carries.
type ValueKind int

const (
	NoValue ValueKind = iota
	Vector3
	Quaternion
	Vector4
)

// Value is the operand of a transform.
type Value struct {
	Kind ValueKind
	Vec  mgl64.Vec3
	Quat mgl64.Quat
	Vec4 mgl64.Vec4 // w, x, y, z
}

// Vec returns a 3-vector operand.
func Vec(x, y, z float64) Value {
	return Value{Kind: Vector3, Vec: mgl64.Vec3{x, y, z}}
}

// Quat returns a quaternion operand.
func Quat(q mgl64.Quat) Value {
	return Value{Kind: Quaternion, Quat: q}
}

// Vec4 returns a 4-vector operand ordered w, x, y, z.
func Vec4(w, x, y, z float64) Value {
	return Value{Kind: Vector4, Vec4: mgl64.Vec4{w, x, y, z}}
}

func (v Value) component(a core.Axis) float64 {
	return v.Vec[int(a)]
}
