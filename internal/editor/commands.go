package editor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/trackforge/trackedit/internal/geo"
	"github.com/trackforge/trackedit/internal/search"
	"github.com/trackforge/trackedit/internal/track"
	"github.com/trackforge/trackedit/internal/transform"
	"github.com/trackforge/trackedit/pkg/core"
)

// Command names understood by RegisterCommands.
const (
	CmdSelect    = "select"
	CmdSelectAll = "select-all"
	CmdSearch    = "search"
	CmdTransform = "transform"
	CmdDuplicate = "duplicate"
	CmdDelete    = "delete"
	CmdGate      = "gate"
	CmdStart     = "start"
	CmdFinish    = "finish"
	CmdCounts    = "counts"
)

var (
	ErrArgs     = errors.New("wrong number of arguments")
	ErrRejected = errors.New("rejected")
)

// Result is what every editor command returns.
type Result struct {
	IDs     []track.ID
	Mutated int
	Counts  track.Counts
}

// RegisterCommands binds the editor command set to s.
func RegisterCommands(d *Dispatcher, s *Session) {
	d.Register(CmdSelect, func(e Event) (any, error) {
		ids, err := parseIDs(e.Args)
		if err != nil {
			return nil, err
		}
		return Result{IDs: s.Select(ids)}, nil
	}, Logged())

	d.Register(CmdSelectAll, func(e Event) (any, error) {
		return Result{IDs: s.SelectAll()}, nil
	}, Logged())

	d.Register(CmdSearch, func(e Event) (any, error) {
		filters, err := ParseFilters(e.Args)
		if err != nil {
			return nil, err
		}
		return Result{IDs: s.Search(filters)}, nil
	}, Logged())

	d.Register(CmdTransform, func(e Event) (any, error) {
		if len(e.Args) < 3 || len(e.Args) > 4 {
			return nil, fmt.Errorf("%w: transform <op> <target> <abs|pct> [value]", ErrArgs)
		}
		op, err := transform.ParseOp(e.Args[0])
		if err != nil {
			return nil, err
		}
		target, err := transform.ParseTarget(e.Args[1])
		if err != nil {
			return nil, err
		}
		byPercent, err := parseMode(e.Args[2])
		if err != nil {
			return nil, err
		}
		raw := ""
		if len(e.Args) == 4 {
			raw = e.Args[3]
		}
		v, err := ParseValue(op, raw)
		if err != nil {
			return nil, err
		}
		n := s.Transform(op, v, target, byPercent)
		return Result{IDs: s.Selection(), Mutated: n}, nil
	}, Logged())

	d.Register(CmdDuplicate, func(e Event) (any, error) {
		if len(e.Args) != 1 {
			return nil, fmt.Errorf("%w: duplicate <count>", ErrArgs)
		}
		n, err := strconv.Atoi(e.Args[0])
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid duplicate count: %s", e.Args[0])
		}
		dups := s.Duplicate(n)
		return Result{IDs: dups, Mutated: len(dups)}, nil
	}, Logged())

	d.Register(CmdDelete, func(e Event) (any, error) {
		return Result{Mutated: s.Delete()}, nil
	}, Logged())

	d.Register(CmdGate, func(e Event) (any, error) {
		if len(e.Args) < 2 || len(e.Args) > 3 {
			return nil, fmt.Errorf("%w: gate <id> <number> [norenumber]", ErrArgs)
		}
		id, err := parseID(e.Args[0])
		if err != nil {
			return nil, err
		}
		n, err := strconv.ParseInt(e.Args[1], 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid gate number: %s", e.Args[1])
		}
		renumber := true
		if len(e.Args) == 3 {
			if !strings.EqualFold(e.Args[2], "norenumber") {
				return nil, fmt.Errorf("unknown gate flag: %s", e.Args[2])
			}
			renumber = false
		}
		if !s.SetGateNo(id, int32(n), renumber) {
			return nil, fmt.Errorf("%w: gate number %d for object %d", ErrRejected, n, id)
		}
		return Result{IDs: []track.ID{id}, Mutated: 1}, nil
	}, Logged())

	flag := func(name string, set func(track.ID, bool) bool) HandlerFunc {
		return func(e Event) (any, error) {
			if len(e.Args) != 2 {
				return nil, fmt.Errorf("%w: %s <id> <on|off>", ErrArgs, name)
			}
			id, err := parseID(e.Args[0])
			if err != nil {
				return nil, err
			}
			on, err := parseSwitch(e.Args[1])
			if err != nil {
				return nil, err
			}
			if !set(id, on) {
				return nil, fmt.Errorf("%w: %s flag for object %d", ErrRejected, name, id)
			}
			return Result{IDs: []track.ID{id}, Mutated: 1}, nil
		}
	}
	d.Register(CmdStart, flag(CmdStart, s.SetStart), Logged())
	d.Register(CmdFinish, flag(CmdFinish, s.SetFinish), Logged())

	d.Register(CmdCounts, func(e Event) (any, error) {
		return Result{Counts: s.Counts()}, nil
	})
}

// ParseFilters reads filter clauses. Most kinds take a method and a value
// ("positionR biggerThan 100"); isOnSpline and isDuplicate stand alone and
// customIndex takes a comma separated ID list.
func ParseFilters(args []string) ([]search.Filter, error) {
	var filters []search.Filter
	for i := 0; i < len(args); {
		kind, err := search.ParseKind(args[i])
		if err != nil {
			return nil, err
		}
		switch kind {
		case search.KindIsOnSpline, search.KindIsDuplicate:
			filters = append(filters, search.NewFilter(kind, search.Is, 0))
			i++
		case search.KindCustomIndex:
			if i+1 >= len(args) {
				return nil, fmt.Errorf("%w: customIndex <id,id,...>", ErrArgs)
			}
			ids, err := parseIDs(strings.Split(args[i+1], ","))
			if err != nil {
				return nil, err
			}
			filters = append(filters, search.NewCustomFilter(ids...))
			i += 2
		default:
			if i+2 >= len(args) {
				return nil, fmt.Errorf("%w: %s <method> <value>", ErrArgs, kind)
			}
			method, err := search.ParseMethod(args[i+1])
			if err != nil {
				return nil, err
			}
			v, err := strconv.ParseInt(args[i+2], 10, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid filter value: %s", args[i+2])
			}
			filters = append(filters, search.NewFilter(kind, method, int32(v)))
			i += 3
		}
	}
	return filters, nil
}

// ParseValue reads the operand for op. Vector ops take "x,y,z", rotation
// increments take "degrees,x,y,z" (an axis-angle) and replaceRotation takes
// raw "w,x,y,z". Mirror takes nothing.
func ParseValue(op transform.Op, raw string) (transform.Value, error) {
	switch op {
	case transform.Mirror:
		if raw != "" {
			return transform.Value{}, fmt.Errorf("%w: mirror takes no value", ErrArgs)
		}
		return transform.Value{}, nil
	case transform.AddRotation, transform.IncreasingRotation:
		c, err := geo.ParseVector(raw, 4)
		if err != nil {
			return transform.Value{}, fmt.Errorf("rotation %q: %w", raw, err)
		}
		axis := mgl64.Vec3{c[1], c[2], c[3]}
		if axis.Len() == 0 {
			return transform.Value{}, fmt.Errorf("rotation %q: zero axis", raw)
		}
		return transform.Quat(core.QuatFromAxisAngle(c[0], axis)), nil
	case transform.ReplaceRotation:
		c, err := geo.ParseVector(raw, 4)
		if err != nil {
			return transform.Value{}, fmt.Errorf("rotation %q: %w", raw, err)
		}
		return transform.Vec4(c[0], c[1], c[2], c[3]), nil
	default:
		c, err := geo.ParseVector(raw, 3)
		if err != nil {
			return transform.Value{}, fmt.Errorf("vector %q: %w", raw, err)
		}
		return transform.Vec(c[0], c[1], c[2]), nil
	}
}

func parseMode(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "abs", "absolute":
		return false, nil
	case "pct", "percent":
		return true, nil
	}
	return false, fmt.Errorf("unknown transform mode: %s", s)
}

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "1":
		return true, nil
	case "off", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %s", s)
}

func parseID(s string) (track.ID, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid object id: %s", s)
	}
	return track.ID(n), nil
}

func parseIDs(args []string) ([]track.ID, error) {
	ids := make([]track.ID, 0, len(args))
	for _, a := range args {
		for _, part := range strings.Split(a, ",") {
			if part == "" {
				continue
			}
			id, err := parseID(part)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}
