package radon

// arrayMap runs its subscript once per element and collects the results;
// forbidden in Tally (opsForbiddenInTally), so it never needs to reason
// about Liars.
func (e *Executor) arrayMap(step Step, input Value) (Value, *RadonError) {
	if input.Kind != KindArray {
		return errUnsupportedType("ArrayMap", input.Kind), nil
	}
	if len(step.Args) != 1 || !step.Args[0].IsSubscript() {
		return errWrongArguments("ArrayMap"), nil
	}
	sub := step.Args[0].Subscript()

	out := make([]Value, len(input.Array))
	for i, item := range input.Array {
		cur := item
		for _, inner := range sub {
			next, rerr := e.execStep(inner, cur, true)
			if rerr != nil {
				return Value{}, rerr
			}
			cur = next
			if cur.Kind == KindError {
				break
			}
		}
		out[i] = cur
	}
	return NewArray(out), nil
}

// arraySort orders a homogeneous, comparable array, optionally keying on
// the result of running a subscript over each element first (e.g.
// MapGet("price") before comparing). Forbidden in Tally.
func (e *Executor) arraySort(step Step, input Value) (Value, *RadonError) {
	if input.Kind != KindArray {
		return errUnsupportedType("ArraySort", input.Kind), nil
	}
	items := input.Array
	keyed := items
	if len(step.Args) == 1 && step.Args[0].IsSubscript() {
		sub := step.Args[0].Subscript()
		keyed = make([]Value, len(items))
		for i, item := range items {
			cur := item
			for _, inner := range sub {
				next, rerr := e.execStep(inner, cur, true)
				if rerr != nil {
					return Value{}, rerr
				}
				cur = next
				if cur.Kind == KindError {
					break
				}
			}
			keyed[i] = cur
		}
	}
	if !allSameKind(keyed) || (len(keyed) > 0 && !isSortable(keyed[0].Kind)) {
		return NewErrorValue(NewRadonError(ErrNotComparable)), nil
	}

	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	for i := 1; i < len(order); i++ {
		j := i
		for j > 0 && compareValues(keyed[order[j-1]], keyed[order[j]]) > 0 {
			order[j-1], order[j] = order[j], order[j-1]
			j--
		}
	}
	out := make([]Value, len(items))
	for i, idx := range order {
		out[i] = items[idx]
	}
	return NewArray(out), nil
}

func allSameKind(vs []Value) bool {
	if len(vs) == 0 {
		return true
	}
	k := vs[0].Kind
	for _, v := range vs[1:] {
		if v.Kind != k {
			return false
		}
	}
	return true
}

// arrayFilter supports both forms §4.2.5 describes: a built-in
// filter selector (DeviationStandard(k), Mode) used in Aggregation/Tally,
// and a boolean subscript used freely in Retrieval/Aggregation. keepIdx
// is always relative to input.Array and is nil only on error.
func (e *Executor) arrayFilter(step Step, input Value, topLevel bool) (Value, []int, *RadonError) {
	if input.Kind != KindArray {
		return errUnsupportedType("ArrayFilter", input.Kind), nil, nil
	}
	if len(step.Args) == 0 {
		return errWrongArguments("ArrayFilter"), nil, nil
	}

	var keep []int
	var rerr *RadonError

	if step.Args[0].IsSubscript() {
		sub := step.Args[0].Subscript()
		keep = make([]int, 0, len(input.Array))
		for i, item := range input.Array {
			cur := item
			for _, inner := range sub {
				next, se := e.execStep(inner, cur, true)
				if se != nil {
					return Value{}, nil, se
				}
				cur = next
				if cur.Kind == KindError {
					break
				}
			}
			if cur.Kind != KindBoolean {
				return NewErrorValue(NewRadonError(ErrSubscriptNotBoolean)), nil, nil
			}
			if cur.Bool {
				keep = append(keep, i)
			}
		}
	} else {
		selector, ok := step.Args[0].Int()
		if !ok {
			return errWrongArguments("ArrayFilter"), nil, nil
		}
		switch Filter(selector) {
		case FilterDeviationStandard:
			if len(step.Args) != 2 {
				return errWrongArguments("ArrayFilter"), nil, nil
			}
			k, ok := step.Args[1].Float()
			if !ok {
				return errWrongArguments("ArrayFilter"), nil, nil
			}
			keep, rerr = filterDeviationStandard(input.Array, k)
		case FilterMode:
			keep, rerr = filterMode(input.Array)
		default:
			return errUnsupportedType("ArrayFilter", input.Kind), nil, nil
		}
		if rerr != nil {
			return NewErrorValue(rerr), nil, nil
		}
	}

	out := make([]Value, len(keep))
	for i, idx := range keep {
		out[i] = input.Array[idx]
	}
	return NewArray(out), keep, nil
}

// arrayReduce collapses an array to a single value via one of the
// built-in reducers. keepIdx is non-nil only for Mode, the one reducer
// with an opinion about which original elements it agreed with
//; AverageMean and HashConcatenate never mark liars.
func (e *Executor) arrayReduce(step Step, input Value, topLevel bool) (Value, []int, *RadonError) {
	if input.Kind != KindArray {
		return errUnsupportedType("ArrayReduce", input.Kind), nil, nil
	}
	if len(step.Args) != 1 {
		return errWrongArguments("ArrayReduce"), nil, nil
	}
	selector, ok := step.Args[0].Int()
	if !ok {
		return errWrongArguments("ArrayReduce"), nil, nil
	}

	switch Reducer(selector) {
	case ReducerMode:
		v, idx, rerr := reduceMode(input.Array)
		if rerr != nil {
			return NewErrorValue(rerr), nil, nil
		}
		return v, idx, nil
	case ReducerAverageMean:
		v, rerr := reduceAverageMean(input.Array)
		if rerr != nil {
			return NewErrorValue(rerr), nil, nil
		}
		return v, nil, nil
	case ReducerHashConcatenate:
		v, rerr := reduceHashConcatenate(input.Array)
		if rerr != nil {
			return NewErrorValue(rerr), nil, nil
		}
		return v, nil, nil
	}
	return errUnsupportedType("ArrayReduce", input.Kind), nil, nil
}
