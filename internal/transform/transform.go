// Package transform applies bulk numeric edits to track objects: moves,
// scales, rotations, replacements, increasing progressions, multiplications
// and mirroring.
//
// Rounding is half away from zero everywhere. Percent mode scales relative to
// the existing component, including for replacements. A call is not
// transactional: every object is mutated independently and the return value
// counts the objects actually changed.
package transform

import (
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/trackforge/trackedit/internal/track"
	"github.com/trackforge/trackedit/pkg/core"
)

// Engine applies transforms to objects of one track.
type Engine struct {
	track  *track.Track
	logger *slog.Logger
}

// New creates a transform engine for t. A nil logger discards diagnostics.
func New(t *track.Track, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{track: t, logger: logger}
}

// Apply runs op over objects in order and returns how many were mutated.
// Invalid input (empty set, wrong operand shape, percent mode where it is not
// allowed) yields 0 without touching anything.
func (e *Engine) Apply(objects []track.ID, op Op, v Value, target Target, byPercent bool) int {
	if len(objects) == 0 {
		return 0
	}
	if reason := validate(op, v, byPercent); reason != "" {
		e.logger.Debug("transform rejected", "op", op, "reason", reason)
		return 0
	}

	var n int
	switch op {
	case Move:
		n = e.eachAxis(objects, position, target, v, func(old int32, val float64) int32 {
			return add(old, amount(old, val, byPercent))
		})
	case Scale:
		n = e.eachAxis(objects, scaling, target, v, func(old int32, val float64) int32 {
			return add(old, amount(old, val, byPercent))
		})
	case ReplacePosition:
		n = e.eachAxis(objects, position, target, v, func(old int32, val float64) int32 {
			return amount(old, val, byPercent)
		})
	case ReplaceScaling:
		n = e.eachAxis(objects, scaling, target, v, func(old int32, val float64) int32 {
			return amount(old, val, byPercent)
		})
	case MultiplyPosition:
		n = e.eachAxis(objects, position, target, v, func(old int32, val float64) int32 {
			return multiply(old, val, byPercent)
		})
	case MultiplyScaling:
		n = e.eachAxis(objects, scaling, target, v, func(old int32, val float64) int32 {
			return multiply(old, val, byPercent)
		})
	case IncreasingPosition:
		n = e.increasing(objects, position, v.Vec, target)
	case IncreasingScale:
		n = e.increasing(objects, scaling, v.Vec, target)
	case AddRotation:
		n = e.each(objects, func(o *track.Object) {
			o.Rotation = core.EncodeQuat(o.Rotation.Quat().Mul(v.Quat))
		})
	case IncreasingRotation:
		acc := mgl64.QuatIdent()
		n = e.each(objects, func(o *track.Object) {
			acc = acc.Mul(v.Quat)
			o.Rotation = core.EncodeQuat(o.Rotation.Quat().Mul(acc))
		})
	case ReplaceRotation:
		// Every component takes w. Existing tracks were edited with this
		// behaviour and rely on it.
		w := core.Round(v.Vec4[0])
		n = e.each(objects, func(o *track.Object) {
			o.Rotation = core.Quat4i{W: w, X: w, Y: w, Z: w}
		})
	case Mirror:
		n = e.mirror(objects)
	}

	e.logger.Debug("transform applied", "op", op, "target", target, "percent", byPercent, "objects", len(objects), "mutated", n)
	return n
}

func validate(op Op, v Value, byPercent bool) string {
	switch op {
	case Move, Scale, ReplacePosition, ReplaceScaling, MultiplyPosition, MultiplyScaling:
		if v.Kind != Vector3 {
			return "requires a 3-vector"
		}
	case IncreasingPosition, IncreasingScale:
		if byPercent {
			return "percent mode not supported"
		}
		if v.Kind != Vector3 {
			return "requires a 3-vector"
		}
	case AddRotation, IncreasingRotation:
		if byPercent {
			return "percent mode not supported"
		}
		if v.Kind != Quaternion {
			return "requires a quaternion"
		}
	case ReplaceRotation:
		if byPercent {
			return "percent mode not supported"
		}
		if v.Kind != Vector4 {
			return "requires a 4-vector"
		}
	case Mirror:
	default:
		return "unknown op"
	}
	return ""
}

func position(o *track.Object) *core.Vec3i { return &o.Position }
func scaling(o *track.Object) *core.Vec3i  { return &o.Scaling }

// each calls fn for every valid, editable object and marks it modified.
func (e *Engine) each(objects []track.ID, fn func(*track.Object)) int {
	n := 0
	for _, id := range objects {
		o := e.track.Object(id)
		if o == nil || !o.Valid() {
			continue
		}
		if !o.Editable() {
			e.logger.Debug("skipping non-editable object", "id", id, "prefab", o.Prefab.Name)
			continue
		}
		fn(o)
		o.Modified = true
		n++
	}
	return n
}

func (e *Engine) eachAxis(objects []track.ID, field func(*track.Object) *core.Vec3i, target Target, v Value, fn func(old int32, val float64) int32) int {
	axes := target.axes()
	return e.each(objects, func(o *track.Object) {
		vec := field(o)
		for _, a := range axes {
			vec.Set(a, fn(vec.Get(a), v.component(a)))
		}
	})
}

// increasing adds a running sum of step to each object in turn.
func (e *Engine) increasing(objects []track.ID, field func(*track.Object) *core.Vec3i, step mgl64.Vec3, target Target) int {
	axes := target.axes()
	var acc mgl64.Vec3
	return e.each(objects, func(o *track.Object) {
		acc = acc.Add(step)
		vec := field(o)
		for _, a := range axes {
			vec.Set(a, add(vec.Get(a), core.Round(acc[int(a)])))
		}
	})
}

// mirror duplicates each object and flips the copy across the G axis plane.
func (e *Engine) mirror(objects []track.ID) int {
	n := 0
	for _, id := range objects {
		o := e.track.Object(id)
		if o == nil || !o.Valid() || !o.Editable() {
			continue
		}
		dup, ok := e.track.Duplicate(id)
		if !ok {
			continue
		}
		d := e.track.Object(dup)
		d.Position.X = negate(d.Position.X)
		d.Position.Z = negate(d.Position.Z)
		d.Modified = true
		n++
	}
	return n
}

// amount is the absolute operand, or the percentage of old in percent mode.
func amount(old int32, val float64, byPercent bool) int32 {
	if byPercent {
		return core.Round(float64(old) * val / 100)
	}
	return core.Round(val)
}

func multiply(old int32, val float64, byPercent bool) int32 {
	if byPercent {
		return core.Round(float64(old) * val / 100)
	}
	return core.Round(float64(old) * val)
}

func add(a, b int32) int32 {
	s := int64(a) + int64(b)
	switch {
	case s > math.MaxInt32:
		return math.MaxInt32
	case s < math.MinInt32:
		return math.MinInt32
	}
	return int32(s)
}

func negate(a int32) int32 {
	if a == math.MinInt32 {
		return math.MaxInt32
	}
	return -a
}
