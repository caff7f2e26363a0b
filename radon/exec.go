package radon

import "fmt"

// Stage gates which operators are legal.
type Stage int

const (
	StageRetrieval Stage = iota
	StageAggregation
	StageTally
)

// ActiveWips parameterizes operator behavior so that protocol upgrades
// don't silently change existing transaction identifiers. Every RADON-touching call accepts one.
type ActiveWips map[string]bool

func (w ActiveWips) Has(id string) bool {
	if w == nil {
		return false
	}
	return w[id]
}

// Executor runs a RADON script. It never panics: Run's return Value is a
// KindError value on any failure, never a Go error.
type Executor struct {
	Stage Stage
	Wips  ActiveWips

	// Liars mirrors the reveal array position-for-position and is only
	// mutated in the Tally stage by top-level filter/reduce steps
	//; subscript-nested steps never touch it.
	Liars []bool
}

// NewExecutor constructs an Executor for the given stage. numReveals is
// only meaningful for StageTally and sizes the Liars vector.
func NewExecutor(stage Stage, wips ActiveWips, numReveals int) *Executor {
	e := &Executor{Stage: stage, Wips: wips}
	if stage == StageTally {
		e.Liars = make([]bool, numReveals)
	}
	return e
}

// Run threads input through script left to right, consuming one value and
// producing one at every step. It is the top-level entry
// point: each step here is eligible to mutate Liars.
func (e *Executor) Run(script Script, input Value) Value {
	cur := input
	// indices tracks, for a top-level array being threaded through,
	// which reveal each element at position i originally came from. It is
	// only meaningful in StageTally and only while cur.Kind == KindArray.
	indices := identityIndices(input)

	for _, step := range script {
		if cur.Kind == KindError {
			// Once an error value appears, every remaining step is a no-op:
			// the error propagates to the end.
			return cur
		}
		next, nextIndices, err := e.execTopLevelStep(step, cur, indices)
		if err != nil {
			return NewErrorValue(err)
		}
		cur = next
		indices = nextIndices
	}
	return cur
}

func identityIndices(v Value) []int {
	if v.Kind != KindArray {
		return nil
	}
	idx := make([]int, len(v.Array))
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// execTopLevelStep dispatches one instruction, applying stage gating and
// (in Tally) liar-vector bookkeeping for filter/reduce.
func (e *Executor) execTopLevelStep(step Step, input Value, indices []int) (Value, []int, *RadonError) {
	if e.Stage == StageTally && opsForbiddenInTally[step.Op] {
		return Value{}, nil, NewRadonError(ErrUnsupportedOperatorInTally, NewString(opcodeName(step.Op)))
	}

	switch step.Op {
	case OpArrayFilter:
		out, keepIdx, rerr := e.arrayFilter(step, input, true)
		if rerr != nil {
			return Value{}, nil, rerr
		}
		if e.Stage == StageTally && indices != nil {
			e.markLiarsExcept(indices, keepIdx)
			return out, selectIndices(indices, keepIdx), nil
		}
		return out, nil, nil

	case OpArrayReduce:
		out, keepIdx, rerr := e.arrayReduce(step, input, true)
		if rerr != nil {
			return Value{}, nil, rerr
		}
		if e.Stage == StageTally && indices != nil {
			e.markLiarsExcept(indices, keepIdx)
		}
		return out, nil, nil

	default:
		out, rerr := e.execStep(step, input, false)
		if rerr != nil {
			return Value{}, nil, rerr
		}
		if out.Kind == KindArray {
			return out, propagateIndices(input, indices, out), nil
		}
		return out, nil, nil
	}
}

// markLiarsExcept flags every original index not present in kept as a
// liar. kept==nil means "no filtering occurred, don't touch Liars".
func (e *Executor) markLiarsExcept(original []int, kept []int) {
	if kept == nil {
		return
	}
	keptSet := make(map[int]bool, len(kept))
	for _, i := range kept {
		keptSet[i] = true
	}
	for _, orig := range original {
		if !keptSet[orig] {
			e.Liars[orig] = true
		}
	}
}

func selectIndices(original []int, kept []int) []int {
	out := make([]int, len(kept))
	for i, k := range kept {
		out[i] = original[k]
	}
	return out
}

// propagateIndices keeps the index mapping aligned when a non-filtering
// array-producing step (e.g. ArrayMap in non-Tally stages) preserves
// array shape; it is identity unless lengths diverge, in which case the
// mapping is dropped (no longer meaningful for liar bookkeeping).
func propagateIndices(before Value, indices []int, after Value) []int {
	if before.Kind != KindArray || indices == nil {
		return nil
	}
	if len(after.Array) != len(before.Array) {
		return nil
	}
	return indices
}

// execStep runs one instruction without top-level liar bookkeeping; used
// both for non-filter/reduce top-level steps and for every step inside a
// subscript.
func (e *Executor) execStep(step Step, input Value, inSubscript bool) (Value, *RadonError) {
	if e.Stage == StageTally && opsForbiddenInTally[step.Op] {
		return Value{}, NewRadonError(ErrUnsupportedOperatorInTally, NewString(opcodeName(step.Op)))
	}

	switch step.Op {
	case OpStringParseJSONMap, OpStringParseJSONArray, OpStringParseXMLMap,
		OpStringAsFloat, OpStringAsInt, OpStringAsBoolean, OpStringAsBytes:
		return e.execParse(step, input)

	case OpMapGet, OpArrayGet, OpArrayGetArray:
		return e.execAccess(step, input)

	case OpIntegerAsString, OpIntegerAsFloat, OpFloatAsString, OpFloatRound,
		OpAdd, OpSub, OpMul, OpDiv, OpLessThan, OpGreaterThan, OpEqual:
		return e.execTransform(step, input)

	case OpArrayMap:
		return e.arrayMap(step, input)
	case OpArraySort:
		return e.arraySort(step, input)
	case OpArrayCount:
		if input.Kind != KindArray {
			return errUnsupportedType("ArrayCount", input.Kind), nil
		}
		return NewIntegerI64(int64(len(input.Array))), nil
	case OpArrayFilter:
		out, _, rerr := e.arrayFilter(step, input, false)
		return out, rerr
	case OpArrayReduce:
		out, _, rerr := e.arrayReduce(step, input, false)
		return out, rerr
	}
	return Value{}, NewRadonError(ErrUnknownOperator, NewString(fmt.Sprintf("opcode %d", step.Op)))
}

func opcodeName(op Opcode) string {
	names := map[Opcode]string{
		OpArraySort:     "ArraySort",
		OpArrayMap:      "ArrayMap",
		OpArrayGetArray: "ArrayGetArray",
		OpArrayCount:    "ArrayCount",
	}
	if n, ok := names[op]; ok {
		return n
	}
	return fmt.Sprintf("opcode(%d)", op)
}
