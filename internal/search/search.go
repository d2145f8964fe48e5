// Package search reduces a set of track objects to those matching a list of
// filters.
//
// Filters of the same kind are OR'd, kinds are AND'd and applied in the fixed
// PassOrder. Custom index filters are not predicates: they union explicitly
// chosen objects into the result after the passes.
package search

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/trackforge/trackedit/internal/track"
)

// Engine evaluates filters against a track.
type Engine struct {
	logger *slog.Logger
}

// New creates a search engine. A nil logger discards diagnostics.
func New(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{logger: logger}
}

// Search returns the objects matching every active filter kind, in input order,
// followed by any custom-index additions. With no filters the input is returned
// unchanged.
func (e *Engine) Search(t *track.Track, objects []track.ID, filters []Filter) []track.ID {
	if len(filters) == 0 {
		return slices.Clone(objects)
	}

	byKind := make(map[Kind][]Filter)
	var custom []Filter
	for _, f := range filters {
		if f.Kind == KindCustomIndex {
			custom = append(custom, f)
			continue
		}
		byKind[f.Kind] = append(byKind[f.Kind], f)
	}

	var working []*track.Object
	if len(filters) != 1 || filters[0].Kind != KindCustomIndex {
		original := resolve(t, objects)
		working = original
		for _, kind := range PassOrder {
			fs := byKind[kind]
			if len(fs) == 0 {
				continue
			}
			working = slices.DeleteFunc(slices.Clone(working), func(o *track.Object) bool {
				return !matchesAny(o, kind, fs, original)
			})
			if len(working) == 0 {
				e.logger.Debug("search exhausted", "pass", kind, "filters", len(filters))
				return nil
			}
		}
	}

	result := make([]track.ID, 0, len(working))
	seen := make(map[track.ID]struct{}, len(working))
	for _, o := range working {
		result = append(result, o.ID())
		seen[o.ID()] = struct{}{}
	}

	for _, f := range custom {
		for _, id := range f.Custom {
			if _, ok := seen[id]; ok {
				continue
			}
			o := t.Object(id)
			if o == nil || !o.Valid() {
				continue
			}
			result = append(result, id)
			seen[id] = struct{}{}
		}
	}

	e.logger.Debug("search complete", "candidates", len(objects), "filters", len(filters), "matched", len(result))
	return result
}

// Mark sets FilterMarked on the matched objects and clears it everywhere else.
func (e *Engine) Mark(t *track.Track, matched []track.ID) {
	set := make(map[track.ID]struct{}, len(matched))
	for _, id := range matched {
		set[id] = struct{}{}
	}
	for _, id := range t.All() {
		_, ok := set[id]
		t.Object(id).FilterMarked = ok
	}
}

// resolve maps IDs to valid attached objects, dropping the rest.
func resolve(t *track.Track, ids []track.ID) []*track.Object {
	out := make([]*track.Object, 0, len(ids))
	for _, id := range ids {
		if o := t.Object(id); o != nil && o.Valid() {
			out = append(out, o)
		}
	}
	return out
}

func matchesAny(o *track.Object, kind Kind, fs []Filter, original []*track.Object) bool {
	for _, f := range fs {
		if matches(o, kind, f, original) {
			return true
		}
	}
	return false
}

func matches(o *track.Object, kind Kind, f Filter, original []*track.Object) bool {
	switch kind {
	case KindObject:
		return int64(o.Prefab.ID) == int64(f.Value)
	case KindPositionR:
		return compare(o.Position.X, f)
	case KindPositionG:
		return compare(o.Position.Y, f)
	case KindPositionB:
		return compare(o.Position.Z, f)
	case KindAnyPosition:
		c := o.Position.Components()
		return compareAny(c[:], f)
	case KindRotationW:
		return compare(o.Rotation.W, f)
	case KindRotationX:
		return compare(o.Rotation.X, f)
	case KindRotationY:
		return compare(o.Rotation.Y, f)
	case KindRotationZ:
		return compare(o.Rotation.Z, f)
	case KindAnyRotation:
		c := o.Rotation.Components()
		return compareAny(c[:], f)
	case KindScalingR:
		return compare(o.Scaling.X, f)
	case KindScalingG:
		return compare(o.Scaling.Y, f)
	case KindScalingB:
		return compare(o.Scaling.Z, f)
	case KindAnyScaling:
		c := o.Scaling.Components()
		return compareAny(c[:], f)
	case KindGateNo:
		if !o.IsGate() {
			return false
		}
		return compare(o.GateNo(), f)
	case KindIsOnSpline:
		return o.IsOnSpline()
	case KindIsDuplicate:
		return isDuplicate(o, original)
	default:
		return false
	}
}

// compare applies the filter method to a field. Contains and Is work on the
// decimal text, the ordering methods on the numbers.
func compare(field int32, f Filter) bool {
	switch f.Method {
	case Contains:
		return strings.Contains(strconv.Itoa(int(field)), strconv.Itoa(int(f.Value)))
	case Is:
		return strconv.Itoa(int(field)) == strconv.Itoa(int(f.Value))
	case SmallerThan:
		return field < f.Value
	case BiggerThan:
		return field > f.Value
	default:
		return false
	}
}

func compareAny(fields []int32, f Filter) bool {
	for _, v := range fields {
		if compare(v, f) {
			return true
		}
	}
	return false
}

// isDuplicate scans the original candidates for another object with the same
// attribute tuple. Spline-family members and spline scaffolding are ignored on
// both sides. Quadratic in the candidate count.
func isDuplicate(o *track.Object, original []*track.Object) bool {
	if excludedFromDuplicates(o) {
		return false
	}
	key := o.Placement()
	for _, other := range original {
		if other == o || excludedFromDuplicates(other) {
			continue
		}
		p := other.Placement()
		if p.Prefab.ID == key.Prefab.ID &&
			p.GateNo == key.GateNo &&
			p.IsStart == key.IsStart &&
			p.IsFinish == key.IsFinish &&
			p.Position == key.Position &&
			p.Rotation == key.Rotation &&
			p.Scaling == key.Scaling {
			return true
		}
	}
	return false
}

func excludedFromDuplicates(o *track.Object) bool {
	return o.IsOnSpline() || o.Prefab.IsSplineKind()
}
