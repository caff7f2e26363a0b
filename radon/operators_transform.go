package radon

import (
	"math"
	"math/big"
	"strconv"
)

// RadonTypes' Integer kind is i128 (spec.md §4.2.1), not Go's int64;
// Overflow/Underflow must gate on the i128 range, not int64's.
var (
	maxI128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minI128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
)

func (e *Executor) execTransform(step Step, input Value) (Value, *RadonError) {
	switch step.Op {
	case OpIntegerAsString:
		if input.Kind != KindInteger {
			return errUnsupportedType("IntegerAsString", input.Kind), nil
		}
		return NewString(input.Int.String()), nil

	case OpIntegerAsFloat:
		if input.Kind != KindInteger {
			return errUnsupportedType("IntegerAsFloat", input.Kind), nil
		}
		f, _ := new(big.Float).SetInt(input.Int).Float64()
		return NewFloat(f), nil

	case OpFloatAsString:
		if input.Kind != KindFloat {
			return errUnsupportedType("FloatAsString", input.Kind), nil
		}
		return NewString(strconv.FormatFloat(input.Float, 'g', -1, 64)), nil

	case OpFloatRound:
		if input.Kind != KindFloat {
			return errUnsupportedType("FloatRound", input.Kind), nil
		}
		return NewIntegerI64(int64(math.Round(input.Float))), nil

	case OpAdd, OpSub, OpMul, OpDiv:
		return arithmetic(step, input)

	case OpLessThan, OpGreaterThan, OpEqual:
		return compare(step, input)
	}
	return Value{}, NewRadonError(ErrUnknownOperator)
}

// arithmetic expects input to already be the left operand and step.Args[0]
// the right one; both must share Kind (Integer or Float), matching the
// teacher's policy of refusing implicit numeric widening.
func arithmetic(step Step, input Value) (Value, *RadonError) {
	if len(step.Args) != 1 {
		return errWrongArguments(opName(step.Op)), nil
	}
	rhs, ok := argAsValue(step.Args[0], input.Kind)
	if !ok {
		return errWrongArguments(opName(step.Op)), nil
	}

	switch input.Kind {
	case KindInteger:
		return integerArithmetic(step.Op, input.Int, rhs.Int)
	case KindFloat:
		return floatArithmetic(step.Op, input.Float, rhs.Float)
	default:
		return errUnsupportedType(opName(step.Op), input.Kind), nil
	}
}

func integerArithmetic(op Opcode, a, b *big.Int) (Value, *RadonError) {
	result := new(big.Int)
	switch op {
	case OpAdd:
		result.Add(a, b)
	case OpSub:
		result.Sub(a, b)
	case OpMul:
		result.Mul(a, b)
	case OpDiv:
		if b.Sign() == 0 {
			return NewErrorValue(NewRadonError(ErrDivisionByZero)), nil
		}
		result.Quo(a, b)
	}
	if result.Cmp(maxI128) > 0 {
		return NewErrorValue(NewRadonError(ErrOverflow)), nil
	}
	if result.Cmp(minI128) < 0 {
		return NewErrorValue(NewRadonError(ErrUnderflow)), nil
	}
	return NewInteger(result), nil
}

func floatArithmetic(op Opcode, a, b float64) (Value, *RadonError) {
	switch op {
	case OpAdd:
		return NewFloat(a + b), nil
	case OpSub:
		return NewFloat(a - b), nil
	case OpMul:
		return NewFloat(a * b), nil
	case OpDiv:
		if b == 0 {
			return NewErrorValue(NewRadonError(ErrDivisionByZero)), nil
		}
		return NewFloat(a / b), nil
	}
	return Value{}, nil
}

func compare(step Step, input Value) (Value, *RadonError) {
	if len(step.Args) != 1 {
		return errWrongArguments(opName(step.Op)), nil
	}
	rhs, ok := argAsValue(step.Args[0], input.Kind)
	if !ok {
		return errWrongArguments(opName(step.Op)), nil
	}
	if !isSortable(input.Kind) && input.Kind != KindBoolean {
		return errUnsupportedType(opName(step.Op), input.Kind), nil
	}

	var result bool
	c := compareValues(input, rhs)
	switch step.Op {
	case OpLessThan:
		result = c < 0
	case OpGreaterThan:
		result = c > 0
	case OpEqual:
		result = input.Equal(rhs)
	}
	return NewBoolean(result), nil
}

// argAsValue turns a script-literal Arg into a Value of the requested
// Kind: Integer, Float, String or Boolean; any other Kind fails.
func argAsValue(a Arg, want Kind) (Value, bool) {
	switch want {
	case KindInteger:
		i, ok := a.Int()
		if !ok {
			return Value{}, false
		}
		return NewIntegerI64(i), true
	case KindFloat:
		f, ok := a.Float()
		if !ok {
			return Value{}, false
		}
		return NewFloat(f), true
	case KindString:
		s, ok := a.String()
		if !ok {
			return Value{}, false
		}
		return NewString(s), true
	case KindBoolean:
		return Value{Kind: KindBoolean, Bool: a.boolVal}, a.tag == argBool
	default:
		return Value{}, false
	}
}

func opName(op Opcode) string {
	switch op {
	case OpAdd:
		return "Add"
	case OpSub:
		return "Sub"
	case OpMul:
		return "Mul"
	case OpDiv:
		return "Div"
	case OpLessThan:
		return "LessThan"
	case OpGreaterThan:
		return "GreaterThan"
	case OpEqual:
		return "Equal"
	default:
		return opcodeName(op)
	}
}
