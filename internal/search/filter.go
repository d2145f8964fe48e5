package search

import (
	"fmt"
	"strings"

	"github.com/trackforge/trackedit/internal/track"
)

// Kind selects the attribute a filter tests.
type Kind int

const (
	KindObject Kind = iota
	KindPositionR
	KindPositionG
	KindPositionB
	KindAnyPosition
	KindRotationW
	KindRotationX
	KindRotationY
	KindRotationZ
	KindAnyRotation
	KindScalingR
	KindScalingG
	KindScalingB
	KindAnyScaling
	KindGateNo
	KindIsOnSpline
	KindIsDuplicate
	KindCustomIndex
)

var kindNames = map[Kind]string{
	KindObject:      "object",
	KindPositionR:   "positionR",
	KindPositionG:   "positionG",
	KindPositionB:   "positionB",
	KindAnyPosition: "anyPosition",
	KindRotationW:   "rotationW",
	KindRotationX:   "rotationX",
	KindRotationY:   "rotationY",
	KindRotationZ:   "rotationZ",
	KindAnyRotation: "anyRotation",
	KindScalingR:    "scalingR",
	KindScalingG:    "scalingG",
	KindScalingB:    "scalingB",
	KindAnyScaling:  "anyScaling",
	KindGateNo:      "gateNo",
	KindIsOnSpline:  "isOnSpline",
	KindIsDuplicate: "isDuplicate",
	KindCustomIndex: "customIndex",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind resolves a kind by its name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	for k, n := range kindNames {
		if strings.EqualFold(n, s) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown filter kind: %s", s)
}

// Method is how a filter value is compared.
type Method int

const (
	Contains Method = iota
	Is
	SmallerThan
	BiggerThan
)

func (m Method) String() string {
	switch m {
	case Contains:
		return "contains"
	case Is:
		return "is"
	case SmallerThan:
		return "smallerThan"
	case BiggerThan:
		return "biggerThan"
	default:
		return fmt.Sprintf("method(%d)", int(m))
	}
}

// ParseMethod resolves a method by its name, case-insensitively.
func ParseMethod(s string) (Method, error) {
	for _, m := range []Method{Contains, Is, SmallerThan, BiggerThan} {
		if strings.EqualFold(m.String(), s) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown filter method: %s", s)
}

// PassOrder is the order kinds are applied in. It is independent of the
// declaration order of Kind.
var PassOrder = []Kind{
	KindObject,
	KindPositionR,
	KindPositionB,
	KindPositionG,
	KindAnyPosition,
	KindRotationW,
	KindRotationX,
	KindRotationY,
	KindRotationZ,
	KindAnyRotation,
	KindAnyScaling,
	KindScalingR,
	KindScalingB,
	KindScalingG,
	KindGateNo,
	KindIsOnSpline,
	KindIsDuplicate,
}

// Filter is one search criterion.
type Filter struct {
	Kind   Kind
	Method Method
	Value  int32
	Custom []track.ID
}

// NewFilter builds a filter. Object filters always compare with Is.
func NewFilter(kind Kind, method Method, value int32) Filter {
	if kind == KindObject {
		method = Is
	}
	return Filter{Kind: kind, Method: method, Value: value}
}

// NewCustomFilter builds a filter that unions in the given objects.
func NewCustomFilter(ids ...track.ID) Filter {
	return Filter{Kind: KindCustomIndex, Method: Is, Custom: ids}
}

func (f Filter) String() string {
	if f.Kind == KindCustomIndex {
		return fmt.Sprintf("%s %v", f.Kind, f.Custom)
	}
	return fmt.Sprintf("%s %s %d", f.Kind, f.Method, f.Value)
}
