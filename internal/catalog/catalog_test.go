package catalog

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trackforge/trackedit/pkg/core"
)

var (
	gate    = core.Prefab{ID: 10, Name: "GateAir", Type: "Gate", IsGate: true}
	barrier = core.Prefab{ID: 20, Name: "Barrier", Type: "Prop"}
)

func TestCatalog_New(t *testing.T) {
	c := New(gate, barrier)

	require.NotNil(t, c)
	assert.Equal(t, 2, c.Len())
}

func TestCatalog_Resolve(t *testing.T) {
	c := New(gate)

	assert.Equal(t, gate, c.Resolve(10))
}

func TestCatalog_Resolve_Unknown(t *testing.T) {
	c := New(gate)

	p := c.Resolve(99)
	assert.Equal(t, core.Prefab{}, p)
	assert.False(t, p.Valid())
}

func TestCatalog_SetIgnoresInvalid(t *testing.T) {
	c := New()

	c.Set(core.Prefab{Name: "NoID"})

	assert.Equal(t, 0, c.Len())
}

func TestCatalog_SetOverwrites(t *testing.T) {
	c := New(barrier)

	renamed := barrier
	renamed.Name = "BarrierLong"
	c.Set(renamed)

	p, ok := c.Get(20)
	require.True(t, ok)
	assert.Equal(t, "BarrierLong", p.Name)
	assert.Equal(t, 1, c.Len())
}

func TestCatalog_Delete(t *testing.T) {
	c := New(gate, barrier)

	c.Delete(10)

	_, ok := c.Get(10)
	assert.False(t, ok, "expected gate to be deleted")
	_, ok = c.Get(20)
	assert.True(t, ok, "expected barrier to still exist")
}

func TestCatalog_List(t *testing.T) {
	c := New(barrier, gate)

	assert.Equal(t, []core.Prefab{gate, barrier}, c.List())
}

func TestCatalog_Reset(t *testing.T) {
	c := New(gate, barrier)

	c.Reset()

	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.List())
}

func TestCatalog_Concurrency(t *testing.T) {
	c := New()
	var wg sync.WaitGroup

	for i := range 50 {
		wg.Add(2)
		go func(id uint32) {
			defer wg.Done()
			c.Set(core.Prefab{ID: id, Name: "p"})
		}(uint32(i + 1))
		go func(id uint32) {
			defer wg.Done()
			_ = c.Resolve(id)
		}(uint32(i + 1))
	}
	wg.Wait()

	assert.Equal(t, 50, c.Len())
}

func TestCatalog_ImplementsResolver(t *testing.T) {
	var r Resolver = New(gate)
	assert.True(t, r.Resolve(10).IsGate)
}
