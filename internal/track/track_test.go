package track

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trackforge/trackedit/pkg/core"
)

var (
	gatePrefab    = core.Prefab{ID: 10, Name: "GateAir", Type: "Gate", IsGate: true}
	barrierPrefab = core.Prefab{ID: 20, Name: "Barrier", Type: "Prop"}
	splinePrefab  = core.Prefab{ID: 30, Name: "SplineTube", Type: core.SplineType}
	pointPrefab   = core.Prefab{ID: 31, Name: core.ControlPoint, Type: core.SplineType}
)

func gate(n int32) Placement {
	return Placement{Prefab: gatePrefab, GateNo: n, Rotation: core.IdentityRotation}
}

func barrier(x int32) Placement {
	return Placement{Prefab: barrierPrefab, GateNo: -1, Position: core.Vec3i{X: x}, Rotation: core.IdentityRotation}
}

// newGateTrack builds a track with n root gates numbered 1..n.
func newGateTrack(t *testing.T, n int) (*Track, []ID) {
	t.Helper()
	tr := New("test", nil)
	ids := make([]ID, n)
	for i := range n {
		ids[i] = tr.Add(None, gate(int32(i+1)))
		require.NotEqual(t, None, ids[i])
	}
	return tr, ids
}

func gateNumbers(tr *Track, ids []ID) []int32 {
	out := make([]int32, len(ids))
	for i, id := range ids {
		out[i] = tr.Object(id).GateNo()
	}
	return out
}

func assertContiguous(t *testing.T, tr *Track) {
	t.Helper()
	gates := tr.Gates()
	for i, id := range gates {
		assert.Equal(t, int32(i+1), tr.Object(id).GateNo(), "gate at position %d", i)
	}
}

func TestAdd_Hierarchy(t *testing.T) {
	tr := New("test", nil)
	root := tr.Add(None, barrier(0))
	child := tr.Add(root, barrier(1))
	member := tr.AddSplineMember(root, RoleObject, barrier(2))

	assert.Equal(t, []ID{root}, tr.Roots())
	assert.Equal(t, []ID{child}, tr.Children(root))
	assert.Equal(t, []ID{member}, tr.Family(root, RoleObject))
	assert.Empty(t, tr.Family(root, RoleControl))

	p, ok := tr.Parent(child)
	assert.True(t, ok)
	assert.Equal(t, root, p)

	_, ok = tr.Parent(member)
	assert.False(t, ok)
	owner, role := tr.Owner(member)
	assert.Equal(t, root, owner)
	assert.Equal(t, RoleObject, role)
	assert.True(t, tr.Object(member).IsOnSpline())
	assert.False(t, tr.Object(child).IsOnSpline())

	assert.Equal(t, []ID{root, member, child}, tr.All())
}

func TestAdd_UnknownParent(t *testing.T) {
	tr := New("test", nil)
	assert.Equal(t, None, tr.Add(ID(42), barrier(0)))
	assert.Equal(t, None, tr.AddSplineMember(ID(42), RoleControl, barrier(0)))
	assert.Empty(t, tr.All())
}

func TestObject_Editable(t *testing.T) {
	tests := []struct {
		name   string
		prefab core.Prefab
		want   bool
	}{
		{"gate", gatePrefab, true},
		{"control point", pointPrefab, false},
		{"ctrl parent", core.Prefab{ID: 1, Name: core.CtrlParent}, false},
		{"start grid name", core.Prefab{ID: 2, Name: "StartGridDrone", Type: "Prop"}, false},
		{"start grid instance", core.Prefab{ID: 3, Name: "CustomGrid", Type: core.StartGridType}, false},
		{"barrier", barrierPrefab, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Object{Prefab: tt.prefab}
			assert.Equal(t, tt.want, o.Editable())
		})
	}
}

func TestSetGateNo_MoveEarlier(t *testing.T) {
	tr, ids := newGateTrack(t, 5)

	require.True(t, tr.SetGateNo(ids[3], 2, true))

	assert.Equal(t, []int32{1, 3, 4, 2, 5}, gateNumbers(tr, ids))
	assertContiguous(t, tr)
}

func TestSetGateNo_MoveLater(t *testing.T) {
	tr, ids := newGateTrack(t, 5)

	require.True(t, tr.SetGateNo(ids[0], 4, true))

	assert.Equal(t, []int32{4, 1, 2, 3, 5}, gateNumbers(tr, ids))
	assertContiguous(t, tr)
}

func TestSetGateNo_SameNumber(t *testing.T) {
	tr, ids := newGateTrack(t, 3)

	require.True(t, tr.SetGateNo(ids[1], 2, true))
	assert.Equal(t, []int32{1, 2, 3}, gateNumbers(tr, ids))
}

func TestSetGateNo_InsertUnnumbered(t *testing.T) {
	tr, ids := newGateTrack(t, 3)
	extra := tr.Add(None, gate(-1))

	// -1 compares as a very large unsigned number, so every gate from 2 on shifts up.
	require.True(t, tr.SetGateNo(extra, 2, true))

	assert.Equal(t, []int32{1, 3, 4}, gateNumbers(tr, ids))
	assert.Equal(t, int32(2), tr.Object(extra).GateNo())
	assertContiguous(t, tr)
	assert.Equal(t, int32(5), tr.NextGateNo())
}

func TestSetGateNo_Rejected(t *testing.T) {
	tr, ids := newGateTrack(t, 3)
	b := tr.Add(None, barrier(0))

	tests := []struct {
		name string
		id   ID
		n    int32
	}{
		{"non-gate prefab", b, 1},
		{"zero", ids[0], 0},
		{"past the end", ids[0], 4},
		{"unknown object", ID(99), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, tr.SetGateNo(tt.id, tt.n, true))
			assert.Equal(t, []int32{1, 2, 3}, gateNumbers(tr, ids))
		})
	}
	assert.Equal(t, int32(-1), tr.Object(b).GateNo())
}

func TestSetGateNo_ZeroNumberedGateIsInserted(t *testing.T) {
	tr, ids := newGateTrack(t, 3)
	extra := tr.Add(None, gate(0))
	assert.Equal(t, int32(-1), tr.Object(extra).GateNo())
	assert.Equal(t, 3, tr.GateCount())

	require.True(t, tr.SetGateNo(extra, 2, true))

	assert.Equal(t, []int32{1, 3, 4, 2}, gateNumbers(tr, append(ids, extra)))
	assert.Equal(t, 4, tr.GateCount())
}

func TestSetGateNo_WithoutRenumberStoresZeroAsUnnumbered(t *testing.T) {
	tr, ids := newGateTrack(t, 3)

	require.True(t, tr.SetGateNo(ids[2], 0, false))
	assert.Equal(t, int32(-1), tr.Object(ids[2]).GateNo())

	require.True(t, tr.SetGateNo(ids[2], 1, true))
	assert.Equal(t, []int32{2, 3, 1}, gateNumbers(tr, ids))
}

func TestSetGateNo_WithoutRenumber(t *testing.T) {
	tr, ids := newGateTrack(t, 3)

	require.True(t, tr.SetGateNo(ids[0], 3, false))
	assert.Equal(t, []int32{3, 2, 3}, gateNumbers(tr, ids))
}

func TestSetGateNo_ContiguityOverSequence(t *testing.T) {
	tr, ids := newGateTrack(t, 8)
	moves := []struct {
		idx int
		n   int32
	}{
		{0, 8}, {7, 1}, {3, 5}, {5, 2}, {2, 7}, {6, 6}, {1, 3}, {4, 1}, {0, 4},
	}
	for _, m := range moves {
		require.True(t, tr.SetGateNo(ids[m.idx], m.n, true))
		assert.Equal(t, m.n, tr.Object(ids[m.idx]).GateNo())

		seen := map[int32]bool{}
		for _, n := range gateNumbers(tr, ids) {
			assert.False(t, seen[n], "duplicate gate number %d", n)
			seen[n] = true
			assert.True(t, n >= 1 && n <= 8)
		}
	}
}

func TestSetStart_Exclusive(t *testing.T) {
	tr, ids := newGateTrack(t, 4)

	for _, id := range []ID{ids[0], ids[2], ids[1], ids[3], ids[2]} {
		require.True(t, tr.SetStart(id, true))
		starts := 0
		for _, g := range ids {
			if tr.Object(g).IsStart() {
				starts++
			}
		}
		assert.Equal(t, 1, starts)
		got, ok := tr.Start()
		assert.True(t, ok)
		assert.Equal(t, id, got)
	}

	require.True(t, tr.SetStart(ids[2], false))
	_, ok := tr.Start()
	assert.False(t, ok)
}

func TestSetFinish_Exclusive(t *testing.T) {
	tr, ids := newGateTrack(t, 3)

	require.True(t, tr.SetFinish(ids[0], true))
	require.True(t, tr.SetFinish(ids[2], true))

	assert.False(t, tr.Object(ids[0]).IsFinish())
	assert.True(t, tr.Object(ids[2]).IsFinish())
	got, ok := tr.Finish()
	assert.True(t, ok)
	assert.Equal(t, ids[2], got)
}

func TestSetFinish_CannotUnset(t *testing.T) {
	tr, ids := newGateTrack(t, 2)
	require.True(t, tr.SetFinish(ids[1], true))

	assert.False(t, tr.SetFinish(ids[1], false))
	assert.True(t, tr.Object(ids[1]).IsFinish())

	// not the finish: nothing to unset
	assert.True(t, tr.SetFinish(ids[0], false))
	assert.False(t, tr.Object(ids[0]).IsFinish())
}

func TestDuplicate_GateTakesNextNumber(t *testing.T) {
	tr, ids := newGateTrack(t, 4)
	require.True(t, tr.SetStart(ids[1], true))
	require.True(t, tr.SetFinish(ids[1], true))

	dup, ok := tr.Duplicate(ids[1])
	require.True(t, ok)

	d := tr.Object(dup)
	assert.Equal(t, int32(5), d.GateNo())
	assert.False(t, d.IsStart())
	assert.False(t, d.IsFinish())
	assert.True(t, d.Modified)
	assert.Equal(t, []int32{1, 2, 3, 4}, gateNumbers(tr, ids))
	assert.Equal(t, append(ids, dup), tr.Roots())
	assertContiguous(t, tr)
}

func TestDuplicate_DeepCopiesFamilies(t *testing.T) {
	tr := New("test", nil)
	spline := tr.Add(None, Placement{Prefab: splinePrefab, GateNo: -1, Position: core.Vec3i{X: 1, Y: 2, Z: 3}})
	tr.AddSplineMember(spline, RoleControl, Placement{Prefab: pointPrefab, GateNo: -1})
	tr.AddSplineMember(spline, RoleControl, Placement{Prefab: pointPrefab, GateNo: -1})
	tr.AddSplineMember(spline, RoleObject, gate(1))
	tr.Add(spline, barrier(7))

	dup, ok := tr.Duplicate(spline)
	require.True(t, ok)

	assert.Len(t, tr.Family(dup, RoleControl), 2)
	assert.Len(t, tr.Family(dup, RoleObject), 1)
	assert.Len(t, tr.Children(dup), 1)
	assert.Equal(t, core.Vec3i{X: 1, Y: 2, Z: 3}, tr.Object(dup).Position)

	member := tr.Family(dup, RoleObject)[0]
	assert.Equal(t, int32(2), tr.Object(member).GateNo())
	owner, role := tr.Owner(member)
	assert.Equal(t, dup, owner)
	assert.Equal(t, RoleObject, role)

	// copies are independent from the source
	tr.Object(dup).Position.X = 100
	assert.Equal(t, int32(1), tr.Object(spline).Position.X)
	assert.NotEqual(t, tr.Family(spline, RoleControl), tr.Family(dup, RoleControl))
}

func TestDuplicate_ChildAndSplineMember(t *testing.T) {
	tr := New("test", nil)
	root := tr.Add(None, barrier(0))
	child := tr.Add(root, barrier(1))
	member := tr.AddSplineMember(root, RoleParent, barrier(2))

	dupChild, ok := tr.Duplicate(child)
	require.True(t, ok)
	assert.Equal(t, []ID{child, dupChild}, tr.Children(root))

	dupMember, ok := tr.Duplicate(member)
	require.True(t, ok)
	assert.Equal(t, []ID{member, dupMember}, tr.Family(root, RoleParent))
}

func TestDuplicate_NoContainer(t *testing.T) {
	tr := New("test", nil)
	_, ok := tr.Duplicate(ID(5))
	assert.False(t, ok)

	root := tr.Add(None, barrier(0))
	require.True(t, tr.Delete(root))
	_, ok = tr.Duplicate(root)
	assert.False(t, ok)
}

func TestMassDuplicate(t *testing.T) {
	tr, ids := newGateTrack(t, 2)
	b := tr.Add(None, barrier(0))

	dups := tr.MassDuplicate([]ID{ids[0], b}, 3)
	require.Len(t, dups, 6)

	var numbers []int32
	for _, d := range dups[:3] {
		numbers = append(numbers, tr.Object(d).GateNo())
	}
	assert.Equal(t, []int32{3, 4, 5}, numbers)
	for _, d := range dups[3:] {
		assert.Equal(t, int32(-1), tr.Object(d).GateNo())
	}
	assertContiguous(t, tr)

	assert.Nil(t, tr.MassDuplicate([]ID{b}, 0))
}

func TestDelete_ClosesGateGap(t *testing.T) {
	tr, ids := newGateTrack(t, 5)

	require.True(t, tr.Delete(ids[1]))

	assert.Nil(t, tr.Object(ids[1]))
	assert.Equal(t, []int32{1, 2, 3, 4}, gateNumbers(tr, []ID{ids[0], ids[2], ids[3], ids[4]}))
	assert.Equal(t, int32(5), tr.NextGateNo())
	assertContiguous(t, tr)
}

func TestDelete_Subtree(t *testing.T) {
	tr, ids := newGateTrack(t, 2)
	root := tr.Add(None, barrier(0))
	g3 := tr.Add(root, gate(3))
	tr.AddSplineMember(root, RoleObject, gate(4))
	g5 := tr.Add(None, gate(5))

	require.True(t, tr.Delete(root))

	assert.Nil(t, tr.Object(g3))
	assert.Equal(t, int32(3), tr.Object(g5).GateNo())
	assert.Equal(t, []ID{ids[0], ids[1], g5}, tr.Roots())
	assert.False(t, tr.Delete(root))
	assertContiguous(t, tr)
}

func TestCounts(t *testing.T) {
	tr, _ := newGateTrack(t, 2)
	spline := tr.Add(None, Placement{Prefab: splinePrefab, GateNo: -1})
	tr.AddSplineMember(spline, RoleControl, Placement{Prefab: pointPrefab, GateNo: -1})
	tr.Add(None, Placement{GateNo: -1}) // unresolved prefab

	assert.Equal(t, Counts{Nodes: 5, Prefabs: 4, Gates: 2, Splines: 1}, tr.Counts())
}
