package track

// Duplicate deep-copies id, spline families included, and appends the copy to
// the same container as the source: its parent's children, its owner's
// spline list, or the root list.
//
// Valid gate-flagged copies take the next number from the track's gate
// counter and never inherit start or finish. It returns false when the source
// has no container.
func (t *Track) Duplicate(id ID) (ID, bool) {
	src := t.Object(id)
	if src == nil {
		return None, false
	}

	var container *[]ID
	switch {
	case src.parent != None:
		if p := t.Object(src.parent); p != nil {
			container = &p.children
		}
	case src.owner != None:
		if p := t.Object(src.owner); p != nil {
			container = p.family(src.role)
		}
	case t.isRoot(id):
		container = &t.roots
	}
	if container == nil {
		t.logger.Debug("duplicate without container", "id", id)
		return None, false
	}

	dup := t.clone(src, src.parent, src.owner, src.role)
	dup.Modified = true
	*container = append(*container, dup.id)
	return dup.id, true
}

// MassDuplicate duplicates every source n times, in source order.
func (t *Track) MassDuplicate(ids []ID, n int) []ID {
	if n <= 0 {
		return nil
	}
	var out []ID
	for _, id := range ids {
		for range n {
			dup, ok := t.Duplicate(id)
			if !ok {
				break
			}
			out = append(out, dup)
		}
	}
	return out
}

// NextGateNo returns the number the next duplicated gate will get.
func (t *Track) NextGateNo() int32 {
	return t.gateCounter + 1
}

func (t *Track) clone(src *Object, parent, owner ID, role Role) *Object {
	o := t.alloc(src.Placement())
	o.parent = parent
	o.owner = owner
	o.role = role
	o.attached = true

	if o.Valid() && o.Prefab.IsGate {
		t.gateCounter++
		o.gateNo = t.gateCounter
		o.isStart = false
		o.isFinish = false
	}

	for _, c := range src.children {
		if co := t.Object(c); co != nil {
			o.children = append(o.children, t.clone(co, o.id, None, RoleNone).id)
		}
	}
	for _, r := range []Role{RoleControl, RoleObject, RoleParent} {
		list := o.family(r)
		for _, m := range *src.family(r) {
			if mo := t.Object(m); mo != nil {
				*list = append(*list, t.clone(mo, None, o.id, r).id)
			}
		}
	}
	return o
}

func (t *Track) isRoot(id ID) bool {
	for _, r := range t.roots {
		if r == id {
			return true
		}
	}
	return false
}
