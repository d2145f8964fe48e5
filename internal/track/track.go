// Package track holds the in-memory scene graph of a race track and the rules
// that keep it consistent: contiguous gate numbering, a single start and a
// single finish, and invariant-safe duplication and deletion.
//
// Objects live in an arena owned by the Track and are addressed by ID.
// Parent, child and spline-family links are ID lists; a parent is a lookup,
// never an ownership edge. A Track is not safe for concurrent use.
package track

import (
	"log/slog"
	"slices"
)

// Track owns the placed objects of one track.
type Track struct {
	Name string

	arena []*Object
	roots []ID

	// gateCounter is the last gate number handed out by duplication.
	gateCounter int32

	logger *slog.Logger
}

// New creates an empty track. A nil logger discards diagnostics.
func New(name string, logger *slog.Logger) *Track {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Track{
		Name:   name,
		logger: logger.With("track", name),
	}
}

// Add places a new object under parent, or at root level when parent is None.
// It returns None if parent is unknown.
func (t *Track) Add(parent ID, p Placement) ID {
	if parent == None {
		o := t.alloc(p)
		o.attached = true
		t.roots = append(t.roots, o.id)
		return o.id
	}
	po := t.Object(parent)
	if po == nil {
		t.logger.Debug("add under unknown parent", "parent", parent)
		return None
	}
	o := t.alloc(p)
	o.parent = parent
	o.attached = true
	po.children = append(po.children, o.id)
	return o.id
}

// AddSplineMember places a new object in one of owner's spline-family lists.
func (t *Track) AddSplineMember(owner ID, role Role, p Placement) ID {
	oo := t.Object(owner)
	if oo == nil || oo.family(role) == nil {
		t.logger.Debug("add spline member rejected", "owner", owner, "role", role)
		return None
	}
	o := t.alloc(p)
	o.owner = owner
	o.role = role
	o.attached = true
	list := oo.family(role)
	*list = append(*list, o.id)
	return o.id
}

func (t *Track) alloc(p Placement) *Object {
	o := &Object{
		id:       ID(len(t.arena) + 1),
		Prefab:   p.Prefab,
		Position: p.Position,
		Rotation: p.Rotation,
		Scaling:  p.Scaling,
		IsMoving: p.IsMoving,
		Speed:    p.Speed,
		gateNo:   gateNumber(p.GateNo),
		sourceID: p.SourceID,
		isStart:  p.IsStart,
		isFinish: p.IsFinish,
	}
	t.arena = append(t.arena, o)
	if o.Valid() && o.IsGate() && o.gateNo > t.gateCounter {
		t.gateCounter = o.gateNo
	}
	return o
}

// Object returns the attached object with the given ID, or nil.
func (t *Track) Object(id ID) *Object {
	if id <= None || int(id) > len(t.arena) {
		return nil
	}
	o := t.arena[id-1]
	if !o.attached {
		return nil
	}
	return o
}

// Roots returns the root-level objects in order.
func (t *Track) Roots() []ID {
	return slices.Clone(t.roots)
}

// Children returns the tree children of id.
func (t *Track) Children(id ID) []ID {
	if o := t.Object(id); o != nil {
		return slices.Clone(o.children)
	}
	return nil
}

// Family returns id's spline-family list for role.
func (t *Track) Family(id ID, role Role) []ID {
	o := t.Object(id)
	if o == nil {
		return nil
	}
	if list := o.family(role); list != nil {
		return slices.Clone(*list)
	}
	return nil
}

// Parent returns the tree parent of id. Root objects and spline members have none.
func (t *Track) Parent(id ID) (ID, bool) {
	o := t.Object(id)
	if o == nil || o.parent == None {
		return None, false
	}
	return o.parent, true
}

// Owner returns the object whose spline family contains id, and the list it is in.
func (t *Track) Owner(id ID) (ID, Role) {
	o := t.Object(id)
	if o == nil {
		return None, RoleNone
	}
	return o.owner, o.role
}

// All returns every attached object depth-first: each object, then its spline
// controls, spline objects and spline parents, then its children.
func (t *Track) All() []ID {
	out := make([]ID, 0, len(t.arena))
	t.walk(func(o *Object) {
		out = append(out, o.id)
	})
	return out
}

func (t *Track) walk(fn func(*Object)) {
	var visit func(id ID)
	visit = func(id ID) {
		o := t.Object(id)
		if o == nil {
			return
		}
		fn(o)
		for _, list := range [][]ID{o.splineControls, o.splineObjects, o.splineParents, o.children} {
			for _, c := range list {
				visit(c)
			}
		}
	}
	for _, r := range t.roots {
		visit(r)
	}
}

// Gates returns the gate objects ordered by gate number.
func (t *Track) Gates() []ID {
	gates := t.gateObjects()
	slices.SortStableFunc(gates, func(a, b *Object) int {
		return int(a.gateNo) - int(b.gateNo)
	})
	out := make([]ID, len(gates))
	for i, g := range gates {
		out[i] = g.id
	}
	return out
}

// GateCount returns the number of numbered, valid gates.
func (t *Track) GateCount() int {
	return len(t.gateObjects())
}

func (t *Track) gateObjects() []*Object {
	var gates []*Object
	t.walk(func(o *Object) {
		if o.Valid() && o.IsGate() {
			gates = append(gates, o)
		}
	})
	return gates
}

// Counts summarises the graph for round-trip cross-validation.
type Counts struct {
	Nodes   int `json:"nodes"`
	Prefabs int `json:"prefabs"`
	Gates   int `json:"gates"`
	Splines int `json:"splines"`
}

// Counts returns the node, valid prefab, gate and spline-owner counts.
func (t *Track) Counts() Counts {
	var c Counts
	t.walk(func(o *Object) {
		c.Nodes++
		if !o.Valid() {
			return
		}
		c.Prefabs++
		if o.IsGate() {
			c.Gates++
		}
		if o.HasSplineFamily() {
			c.Splines++
		}
	})
	return c
}

// Delete detaches id and its subtree. Gates in the subtree give up their
// numbers and the remaining gates close the gap.
func (t *Track) Delete(id ID) bool {
	o := t.Object(id)
	if o == nil {
		return false
	}

	var removed []int32
	var subtree []*Object
	var visit func(x *Object)
	visit = func(x *Object) {
		subtree = append(subtree, x)
		if x.Valid() && x.IsGate() {
			removed = append(removed, x.gateNo)
		}
		for _, list := range [][]ID{x.splineControls, x.splineObjects, x.splineParents, x.children} {
			for _, c := range list {
				if co := t.Object(c); co != nil {
					visit(co)
				}
			}
		}
	}
	visit(o)

	t.detach(o)
	for _, x := range subtree {
		x.attached = false
	}

	if len(removed) > 0 {
		for _, g := range t.gateObjects() {
			shift := int32(0)
			for _, r := range removed {
				if r < g.gateNo {
					shift++
				}
			}
			g.gateNo -= shift
		}
		t.gateCounter -= int32(len(removed))
		if t.gateCounter < 0 {
			t.gateCounter = 0
		}
	}
	return true
}

// detach removes o from whatever container lists it.
func (t *Track) detach(o *Object) {
	switch {
	case o.parent != None:
		if p := t.Object(o.parent); p != nil {
			p.children = slices.DeleteFunc(p.children, func(c ID) bool { return c == o.id })
		}
	case o.owner != None:
		if p := t.Object(o.owner); p != nil {
			list := p.family(o.role)
			*list = slices.DeleteFunc(*list, func(c ID) bool { return c == o.id })
		}
	default:
		t.roots = slices.DeleteFunc(t.roots, func(c ID) bool { return c == o.id })
	}
}
