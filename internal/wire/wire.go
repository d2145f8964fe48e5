// Package wire reads and writes the JSON track format.
//
// A file is {"name": ..., "objects": [node...]} where every node carries its
// prefab id, transform, gate data, children and the three spline-family lists.
// Prefab ids are resolved against a catalog on import. Ids the catalog does
// not know produce invalid objects that stay in place, keep their id for
// export and are left out of counts, search and transforms.
package wire

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/trackforge/trackedit/internal/catalog"
	"github.com/trackforge/trackedit/internal/track"
	"github.com/trackforge/trackedit/pkg/core"
)

// ErrCountMismatch is returned by Verify when an exported file does not
// decode back to the same counts as the track it was written from.
var ErrCountMismatch = errors.New("exported track counts do not match")

// File is the top-level document.
type File struct {
	Name    string `json:"name"`
	Objects []Node `json:"objects"`
}

// Node is one placed object with its descendants.
type Node struct {
	Prefab   uint32   `json:"prefab"`
	Position [3]int32 `json:"position"`
	Rotation [4]int32 `json:"rotation"`
	Scaling  [3]int32 `json:"scaling"`
	GateNo   int32    `json:"gateNo"`
	IsStart  bool     `json:"isStart,omitempty"`
	IsFinish bool     `json:"isFinish,omitempty"`
	IsMoving bool     `json:"isMoving,omitempty"`
	Speed    int8     `json:"speed,omitempty"`

	Children       []Node `json:"children,omitempty"`
	SplineControls []Node `json:"splineControls,omitempty"`
	SplineObjects  []Node `json:"splineObjects,omitempty"`
	SplineParents  []Node `json:"splineParents,omitempty"`
}

// UnmarshalJSON fills a missing gateNo with -1.
func (n *Node) UnmarshalJSON(data []byte) error {
	type plain Node
	p := plain{GateNo: -1}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*n = Node(p)
	return nil
}

// Decode reads a track document from r.
func Decode(r io.Reader, res catalog.Resolver, logger *slog.Logger) (*track.Track, error) {
	var f File
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode track: %w", err)
	}
	return Build(&f, res, logger), nil
}

// Unmarshal decodes a track document held in memory.
func Unmarshal(data []byte, res catalog.Resolver, logger *slog.Logger) (*track.Track, error) {
	return Decode(bytes.NewReader(data), res, logger)
}

// Build constructs a Track from a decoded document.
func Build(f *File, res catalog.Resolver, logger *slog.Logger) *track.Track {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	t := track.New(f.Name, logger)
	b := builder{t: t, res: res}
	for i := range f.Objects {
		b.add(track.None, track.None, track.RoleNone, &f.Objects[i])
	}
	if b.unresolved > 0 {
		logger.Warn("track references unknown prefabs", "track", f.Name, "objects", b.unresolved)
	}
	return t
}

type builder struct {
	t          *track.Track
	res        catalog.Resolver
	unresolved int
}

func (b *builder) add(parent, owner track.ID, role track.Role, n *Node) {
	p := b.placement(n)
	var id track.ID
	if owner != track.None {
		id = b.t.AddSplineMember(owner, role, p)
	} else {
		id = b.t.Add(parent, p)
	}

	for i := range n.SplineControls {
		b.add(track.None, id, track.RoleControl, &n.SplineControls[i])
	}
	for i := range n.SplineObjects {
		b.add(track.None, id, track.RoleObject, &n.SplineObjects[i])
	}
	for i := range n.SplineParents {
		b.add(track.None, id, track.RoleParent, &n.SplineParents[i])
	}
	for i := range n.Children {
		b.add(id, track.None, track.RoleNone, &n.Children[i])
	}
}

func (b *builder) placement(n *Node) track.Placement {
	prefab := b.res.Resolve(n.Prefab)
	if !prefab.Valid() {
		b.unresolved++
	}
	return track.Placement{
		Prefab:   prefab,
		Position: core.Vec3i{X: n.Position[0], Y: n.Position[1], Z: n.Position[2]},
		Rotation: core.Quat4i{W: n.Rotation[0], X: n.Rotation[1], Y: n.Rotation[2], Z: n.Rotation[3]},
		Scaling:  core.Vec3i{X: n.Scaling[0], Y: n.Scaling[1], Z: n.Scaling[2]},
		GateNo:   n.GateNo,
		IsStart:  n.IsStart,
		IsFinish: n.IsFinish,
		IsMoving: n.IsMoving,
		Speed:    n.Speed,
		SourceID: n.Prefab,
	}
}

// Flatten converts a Track into its document form.
func Flatten(t *track.Track) *File {
	f := &File{Name: t.Name, Objects: []Node{}}
	for _, id := range t.Roots() {
		f.Objects = append(f.Objects, node(t, id))
	}
	return f
}

func node(t *track.Track, id track.ID) Node {
	p := t.Object(id).Placement()
	prefab := p.Prefab.ID
	if !p.Prefab.Valid() {
		prefab = p.SourceID
	}
	n := Node{
		Prefab:   prefab,
		Position: p.Position.Components(),
		Rotation: p.Rotation.Components(),
		Scaling:  p.Scaling.Components(),
		GateNo:   p.GateNo,
		IsStart:  p.IsStart,
		IsFinish: p.IsFinish,
		IsMoving: p.IsMoving,
		Speed:    p.Speed,
	}
	n.SplineControls = nodes(t, t.Family(id, track.RoleControl))
	n.SplineObjects = nodes(t, t.Family(id, track.RoleObject))
	n.SplineParents = nodes(t, t.Family(id, track.RoleParent))
	n.Children = nodes(t, t.Children(id))
	return n
}

func nodes(t *track.Track, ids []track.ID) []Node {
	if len(ids) == 0 {
		return nil
	}
	out := make([]Node, 0, len(ids))
	for _, id := range ids {
		out = append(out, node(t, id))
	}
	return out
}

// Encode writes t to w as a track document.
func Encode(w io.Writer, t *track.Track) error {
	if err := json.NewEncoder(w).Encode(Flatten(t)); err != nil {
		return fmt.Errorf("failed to encode track %q: %w", t.Name, err)
	}
	return nil
}

// Marshal encodes t into memory.
func Marshal(t *track.Track) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Verify decodes data and compares its counts with t. Objects with unknown
// prefabs only count as nodes on either side.
func Verify(t *track.Track, data []byte, res catalog.Resolver) error {
	back, err := Unmarshal(data, res, nil)
	if err != nil {
		return err
	}
	want, got := t.Counts(), back.Counts()
	if want != got {
		return fmt.Errorf("%w: track %q has %+v, file has %+v", ErrCountMismatch, t.Name, want, got)
	}
	return nil
}
