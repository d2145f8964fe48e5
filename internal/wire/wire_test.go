package wire

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trackforge/trackedit/internal/catalog"
	"github.com/trackforge/trackedit/internal/track"
	"github.com/trackforge/trackedit/pkg/core"
)

var testCatalog = catalog.New(
	core.Prefab{ID: 10, Name: "GateAir", Type: "Gate", IsGate: true},
	core.Prefab{ID: 20, Name: "Barrier", Type: "Prop"},
	core.Prefab{ID: 30, Name: "SplineTube", Type: core.SplineType},
	core.Prefab{ID: 31, Name: core.ControlPoint, Type: core.SplineType},
)

const sampleTrack = `{
	"name": "canyon",
	"objects": [
		{"prefab": 10, "position": [0, 0, 0], "rotation": [1000, 0, 0, 0], "scaling": [100, 100, 100], "gateNo": 1, "isStart": true},
		{"prefab": 10, "position": [500, 0, 0], "rotation": [1000, 0, 0, 0], "scaling": [100, 100, 100], "gateNo": 2, "isFinish": true},
		{"prefab": 20, "position": [10, 20, 30], "rotation": [707, 0, 707, 0], "scaling": [50, 50, 50], "gateNo": -1,
			"children": [
				{"prefab": 20, "position": [1, 2, 3], "rotation": [1000, 0, 0, 0], "scaling": [100, 100, 100], "gateNo": -1, "isMoving": true, "speed": -4}
			]},
		{"prefab": 30, "position": [0, 0, 0], "rotation": [1000, 0, 0, 0], "scaling": [100, 100, 100], "gateNo": -1,
			"splineControls": [
				{"prefab": 31, "position": [5, 0, 0], "rotation": [1000, 0, 0, 0], "scaling": [100, 100, 100], "gateNo": -1}
			],
			"splineObjects": [
				{"prefab": 20, "position": [6, 0, 0], "rotation": [1000, 0, 0, 0], "scaling": [100, 100, 100], "gateNo": -1}
			]},
		{"prefab": 999, "position": [0, 0, 0], "rotation": [1000, 0, 0, 0], "scaling": [100, 100, 100], "gateNo": -1}
	]
}`

func decodeSample(t *testing.T) *track.Track {
	t.Helper()
	tr, err := Decode(strings.NewReader(sampleTrack), testCatalog, nil)
	require.NoError(t, err)
	return tr
}

func TestDecode(t *testing.T) {
	tr := decodeSample(t)

	assert.Equal(t, "canyon", tr.Name)
	roots := tr.Roots()
	require.Len(t, roots, 5)

	start, ok := tr.Start()
	require.True(t, ok)
	assert.Equal(t, roots[0], start)
	finish, ok := tr.Finish()
	require.True(t, ok)
	assert.Equal(t, roots[1], finish)

	prop := tr.Object(roots[2])
	assert.Equal(t, core.Vec3i{X: 10, Y: 20, Z: 30}, prop.Position)
	assert.Equal(t, core.Quat4i{W: 707, Y: 707}, prop.Rotation)

	children := tr.Children(roots[2])
	require.Len(t, children, 1)
	child := tr.Object(children[0])
	assert.True(t, child.IsMoving)
	assert.Equal(t, int8(-4), child.Speed)

	require.Len(t, tr.Family(roots[3], track.RoleControl), 1)
	require.Len(t, tr.Family(roots[3], track.RoleObject), 1)
	member := tr.Object(tr.Family(roots[3], track.RoleObject)[0])
	assert.True(t, member.IsOnSpline())

	assert.False(t, tr.Object(roots[4]).Valid())
	assert.Equal(t, track.Counts{Nodes: 8, Prefabs: 7, Gates: 2, Splines: 1}, tr.Counts())
	assert.Equal(t, int32(3), tr.NextGateNo())
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"name": `), testCatalog, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode track")
}

func TestEncode_RoundTrip(t *testing.T) {
	tr := decodeSample(t)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, tr))

	back, err := Decode(&buf, testCatalog, nil)
	require.NoError(t, err)

	assert.Equal(t, tr.Counts(), back.Counts())
	assert.Equal(t, Flatten(tr), Flatten(back))
}

func TestFlatten_UnknownPrefabKeepsID(t *testing.T) {
	tr := decodeSample(t)

	f := Flatten(tr)

	require.Len(t, f.Objects, 5)
	assert.Equal(t, uint32(999), f.Objects[4].Prefab)
	assert.Equal(t, uint32(20), f.Objects[2].Children[0].Prefab)
	assert.Len(t, f.Objects[3].SplineControls, 1)
	assert.Nil(t, f.Objects[3].SplineParents)
}

func TestEncode_UnknownPrefabsSurviveEmptyCatalog(t *testing.T) {
	tr, err := Unmarshal([]byte(sampleTrack), catalog.New(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, tr.Counts().Prefabs)

	data, err := Marshal(tr)
	require.NoError(t, err)

	back, err := Unmarshal(data, testCatalog, nil)
	require.NoError(t, err)
	assert.Equal(t, decodeSample(t).Counts(), back.Counts())
	assert.Equal(t, uint32(999), Flatten(back).Objects[4].Prefab)
}

func TestDecode_MissingGateNoIsUnnumbered(t *testing.T) {
	doc := `{"name": "loop", "objects": [
		{"prefab": 10, "position": [0, 0, 0], "rotation": [1000, 0, 0, 0], "scaling": [100, 100, 100], "gateNo": 1},
		{"prefab": 10, "position": [9, 0, 0], "rotation": [1000, 0, 0, 0], "scaling": [100, 100, 100],
			"children": [{"prefab": 20, "position": [0, 0, 0], "rotation": [1000, 0, 0, 0], "scaling": [100, 100, 100]}]}
	]}`
	tr, err := Unmarshal([]byte(doc), testCatalog, nil)
	require.NoError(t, err)

	roots := tr.Roots()
	require.Len(t, roots, 2)
	assert.Equal(t, int32(-1), tr.Object(roots[1]).GateNo())
	assert.Equal(t, int32(-1), tr.Object(tr.Children(roots[1])[0]).GateNo())
	assert.Equal(t, 1, tr.GateCount())

	require.True(t, tr.SetGateNo(roots[1], 1, true))
	assert.Equal(t, []track.ID{roots[1], roots[0]}, tr.Gates())
}

func TestFlatten_EmptyTrack(t *testing.T) {
	data, err := Marshal(track.New("empty", nil))
	require.NoError(t, err)

	assert.JSONEq(t, `{"name":"empty","objects":[]}`, string(data))
}

func TestVerify(t *testing.T) {
	tr := decodeSample(t)
	data, err := Marshal(tr)
	require.NoError(t, err)

	assert.NoError(t, Verify(tr, data, testCatalog))
}

func TestVerify_Mismatch(t *testing.T) {
	tr := decodeSample(t)
	data, err := Marshal(tr)
	require.NoError(t, err)

	tr.Delete(tr.Roots()[0])

	err = Verify(tr, data, testCatalog)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCountMismatch))
}

func TestExt(t *testing.T) {
	tests := []struct {
		compression string
		want        string
		wantErr     bool
	}{
		{"", "", false},
		{CompressionNone, "", false},
		{CompressionGzip, ".gz", false},
		{CompressionZstd, ".zst", false},
		{"brotli", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.compression, func(t *testing.T) {
			got, err := Ext(tt.compression)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteFile_ReadFile(t *testing.T) {
	for _, name := range []string{"track.json", "track.json.gz", "track.json.zst"} {
		t.Run(name, func(t *testing.T) {
			tr := decodeSample(t)
			path := filepath.Join(t.TempDir(), "out", name)

			data, err := WriteFile(path, tr)
			require.NoError(t, err)
			require.NoError(t, Verify(tr, data, testCatalog))

			raw, err := os.ReadFile(path)
			require.NoError(t, err)
			if filepath.Ext(name) == ".json" {
				assert.Equal(t, data, raw)
			} else {
				assert.NotEqual(t, data, raw)
			}

			back, err := ReadFile(path, testCatalog, nil)
			require.NoError(t, err)
			assert.Equal(t, Flatten(tr), Flatten(back))

			plain, err := ReadRaw(path)
			require.NoError(t, err)
			assert.Equal(t, data, plain)
		})
	}
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.json"), testCatalog, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestReadFile_CorruptGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json.gz")
	require.NoError(t, os.WriteFile(path, []byte("not gzip"), 0644))

	_, err := ReadFile(path, testCatalog, nil)
	assert.Error(t, err)
}
