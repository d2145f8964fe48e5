package track

// SetGateNo assigns a gate number to id.
//
// Without renumber only the object changes; callers use that when they are
// already producing a consistent numbering themselves.
//
// With renumber the other gates shift so the numbering stays 1..N. The old
// number is compared as unsigned, so an unnumbered gate (-1) counts as coming
// after every other gate and is inserted at n. Numbers below 1 are stored as
// -1, which keeps that the only path for unnumbered gates. Objects whose prefab is not
// gate-flagged, and targets outside 1..N, are rejected without change.
func (t *Track) SetGateNo(id ID, n int32, renumber bool) bool {
	o := t.Object(id)
	if o == nil {
		return false
	}
	if !renumber {
		o.gateNo = gateNumber(n)
		return true
	}

	if !o.Valid() || !o.Prefab.IsGate {
		t.logger.Debug("renumber of non-gate rejected", "id", id, "prefab", o.Prefab.Name, "gateNo", n)
		return false
	}
	limit := int32(t.GateCount())
	if !o.IsGate() {
		limit++
	}
	if n < 1 || n > limit {
		t.logger.Debug("gate number out of range", "id", id, "gateNo", n, "max", limit)
		return false
	}

	old := uint32(o.gateNo)
	target := uint32(n)
	shiftLeft := old > target

	for _, g := range t.gateObjects() {
		if g == o {
			continue
		}
		gn := uint32(g.gateNo)
		if shiftLeft {
			if target <= gn && gn < old {
				g.gateNo++
			}
		} else if old < gn && gn <= target {
			g.gateNo--
		}
	}
	o.gateNo = n

	if count := int32(t.GateCount()); count > t.gateCounter {
		t.gateCounter = count
	}
	return true
}

// gateNumber maps every number below 1 to -1, the only unnumbered value.
func gateNumber(n int32) int32 {
	if n < 1 {
		return -1
	}
	return n
}

// SetStart sets the start flag. Setting it clears the flag everywhere else.
func (t *Track) SetStart(id ID, start bool) bool {
	o := t.Object(id)
	if o == nil {
		return false
	}
	o.isStart = start
	if start {
		t.walk(func(x *Object) {
			if x != o && x.isStart {
				x.isStart = false
			}
		})
	}
	return true
}

// SetFinish sets the finish flag. Setting it clears the flag everywhere else.
// The current finish cannot be unset directly; it only moves when another
// object becomes the finish.
func (t *Track) SetFinish(id ID, finish bool) bool {
	o := t.Object(id)
	if o == nil {
		return false
	}
	if !finish {
		if o.isFinish {
			t.logger.Debug("unset of finish ignored", "id", id)
			return false
		}
		return true
	}
	o.isFinish = true
	t.walk(func(x *Object) {
		if x != o && x.isFinish {
			x.isFinish = false
		}
	})
	return true
}

// Start returns the start object, if any.
func (t *Track) Start() (ID, bool) {
	return t.find(func(o *Object) bool { return o.isStart })
}

// Finish returns the finish object, if any.
func (t *Track) Finish() (ID, bool) {
	return t.find(func(o *Object) bool { return o.isFinish })
}

func (t *Track) find(pred func(*Object) bool) (ID, bool) {
	found := None
	t.walk(func(o *Object) {
		if found == None && pred(o) {
			found = o.id
		}
	})
	return found, found != None
}
