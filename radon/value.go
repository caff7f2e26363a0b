// Package radon implements RADON, the deterministic typed script
// language used inside commit/reveal/tally stages. Values
// are CBOR-encoded; errors are ordinary first-class values rather than Go
// panics, so every operator returns (Value, *RadonError) pairs where the
// *RadonError is only used internally — callers always get a Value, possibly a
// RadonError one.
package radon

import (
	"math/big"
	"sort"
)

// Kind is the closed sum RadonTypes is built from.
type Kind int

const (
	KindArray Kind = iota
	KindMap
	KindString
	KindBytes
	KindInteger
	KindFloat
	KindBoolean
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindArray:
		return "Array"
	case KindMap:
		return "Map"
	case KindString:
		return "String"
	case KindBytes:
		return "Bytes"
	case KindInteger:
		return "Integer"
	case KindFloat:
		return "Float"
	case KindBoolean:
		return "Boolean"
	case KindError:
		return "RadonError"
	default:
		return "Unknown"
	}
}

// OrderedMap is an insertion-ordered string-keyed map, the representation
// RADON's Map variant requires.
type OrderedMap struct {
	keys []string
	vals map[string]Value
}

func NewOrderedMap() *OrderedMap {
	return &OrderedMap{vals: make(map[string]Value)}
}

func (m *OrderedMap) Set(key string, v Value) {
	if _, exists := m.vals[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = v
}

func (m *OrderedMap) Get(key string) (Value, bool) {
	v, ok := m.vals[key]
	return v, ok
}

func (m *OrderedMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

func (m *OrderedMap) Len() int { return len(m.keys) }

// Value is a RADON value: exactly one of the fields below is meaningful,
// selected by Kind.
type Value struct {
	Kind Kind

	Array         []Value
	IsHomogeneous bool

	Map *OrderedMap

	Str   string
	Bytes []byte
	Int   *big.Int
	Float float64
	Bool  bool

	Err *RadonError
}

func NewArray(items []Value) Value {
	return Value{Kind: KindArray, Array: items, IsHomogeneous: homogeneous(items)}
}

func NewMap(m *OrderedMap) Value   { return Value{Kind: KindMap, Map: m} }
func NewString(s string) Value     { return Value{Kind: KindString, Str: s} }
func NewBytes(b []byte) Value      { return Value{Kind: KindBytes, Bytes: b} }
func NewInteger(i *big.Int) Value  { return Value{Kind: KindInteger, Int: i} }
func NewIntegerI64(i int64) Value  { return Value{Kind: KindInteger, Int: big.NewInt(i)} }
func NewFloat(f float64) Value     { return Value{Kind: KindFloat, Float: f} }
func NewBoolean(b bool) Value      { return Value{Kind: KindBoolean, Bool: b} }
func NewErrorValue(e *RadonError) Value {
	return Value{Kind: KindError, Err: e}
}

// homogeneous computes the is_homogeneous bit at construction time
//: true iff every element shares the same Kind.
func homogeneous(items []Value) bool {
	if len(items) == 0 {
		return true
	}
	k := items[0].Kind
	for _, it := range items[1:] {
		if it.Kind != k {
			return false
		}
	}
	return true
}

// Equal implements the value equality RADON needs for Mode/sort/dedup:
// two error-only values compare equal iff their (code, args) match
//; other kinds compare structurally.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindString:
		return v.Str == o.Str
	case KindBytes:
		return string(v.Bytes) == string(o.Bytes)
	case KindInteger:
		if v.Int == nil || o.Int == nil {
			return v.Int == o.Int
		}
		return v.Int.Cmp(o.Int) == 0
	case KindFloat:
		return v.Float == o.Float
	case KindBoolean:
		return v.Bool == o.Bool
	case KindError:
		return v.Err.Equal(o.Err)
	case KindArray:
		if len(v.Array) != len(o.Array) {
			return false
		}
		for i := range v.Array {
			if !v.Array[i].Equal(o.Array[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if v.Map == nil || o.Map == nil {
			return v.Map == o.Map
		}
		if v.Map.Len() != o.Map.Len() {
			return false
		}
		for _, k := range v.Map.Keys() {
			a, _ := v.Map.Get(k)
			b, ok := o.Map.Get(k)
			if !ok || !a.Equal(b) {
				return false
			}
		}
		return true
	}
	return false
}

// compareValues provides a deterministic total order over homogeneous,
// comparable arrays for ArraySort.
func compareValues(a, b Value) int {
	switch a.Kind {
	case KindInteger:
		return a.Int.Cmp(b.Int)
	case KindFloat:
		switch {
		case a.Float < b.Float:
			return -1
		case a.Float > b.Float:
			return 1
		default:
			return 0
		}
	case KindString:
		return stringCompare(a.Str, b.Str)
	case KindBytes:
		return stringCompare(string(a.Bytes), string(b.Bytes))
	case KindBoolean:
		if a.Bool == b.Bool {
			return 0
		}
		if !a.Bool {
			return -1
		}
		return 1
	default:
		return 0
	}
}

func stringCompare(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func isSortable(k Kind) bool {
	switch k {
	case KindInteger, KindFloat, KindString, KindBytes, KindBoolean:
		return true
	default:
		return false
	}
}

// sortValues sorts a homogeneous, comparable slice in place using
// compareValues; callers must check isSortable/IsHomogeneous first.
func sortValues(vs []Value) {
	sort.SliceStable(vs, func(i, j int) bool {
		return compareValues(vs[i], vs[j]) < 0
	})
}
