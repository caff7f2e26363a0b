package radon

import (
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"
)

// Arg is one argument literal following a step's opcode. It is a tagged
// union because CBOR argument literals can be integers, floats, strings,
// booleans, byte strings, or — for ArrayMap/ArrayFilter/ArraySort — a
// nested subscript.
type argTag int

const (
	argInt argTag = iota
	argFloat
	argString
	argBool
	argBytes
	argSubscript
)

type Arg struct {
	tag       argTag
	intVal    *big.Int
	floatVal  float64
	strVal    string
	boolVal   bool
	bytesVal  []byte
	subscript Script
}

func (a Arg) IsSubscript() bool { return a.tag == argSubscript }
func (a Arg) Subscript() Script { return a.subscript }

func (a Arg) Int() (int64, bool) {
	if a.tag != argInt || a.intVal == nil {
		return 0, false
	}
	return a.intVal.Int64(), true
}

func (a Arg) Float() (float64, bool) {
	switch a.tag {
	case argFloat:
		return a.floatVal, true
	case argInt:
		f, _ := new(big.Float).SetInt(a.intVal).Float64()
		return f, true
	default:
		return 0, false
	}
}

func (a Arg) String() (string, bool) {
	if a.tag != argString {
		return "", false
	}
	return a.strVal, true
}

// Step is one instruction: an opcode plus its argument literals
//. A bare-integer step decodes with zero Args.
type Step struct {
	Op   Opcode
	Args []Arg
}

// Script is the top-level CBOR array of steps; also the type of a
// subscript passed to ArrayMap/ArrayFilter/ArraySort.
type Script []Step

// DecodeScript parses a CBOR-encoded RADON script.
func DecodeScript(cborBytes []byte) (Script, error) {
	var rawSteps []cbor.RawMessage
	if err := cbor.Unmarshal(cborBytes, &rawSteps); err != nil {
		return nil, fmt.Errorf("radon: decode script: %w", err)
	}
	return decodeSteps(rawSteps)
}

func decodeSteps(rawSteps []cbor.RawMessage) (Script, error) {
	out := make(Script, 0, len(rawSteps))
	for _, raw := range rawSteps {
		step, err := decodeStep(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, step)
	}
	return out, nil
}

func decodeStep(raw cbor.RawMessage) (Step, error) {
	// Bare integer opcode, no arguments.
	var bareOp int64
	if err := cbor.Unmarshal(raw, &bareOp); err == nil {
		return Step{Op: Opcode(bareOp)}, nil
	}

	// [opcode, arg0, arg1, ...]
	var parts []cbor.RawMessage
	if err := cbor.Unmarshal(raw, &parts); err != nil {
		return Step{}, fmt.Errorf("radon: step is neither an integer nor an array: %w", err)
	}
	if len(parts) == 0 {
		return Step{}, fmt.Errorf("radon: empty step array")
	}
	var op int64
	if err := cbor.Unmarshal(parts[0], &op); err != nil {
		return Step{}, fmt.Errorf("radon: step head is not an opcode: %w", err)
	}

	args := make([]Arg, 0, len(parts)-1)
	for _, rawArg := range parts[1:] {
		arg, err := decodeArg(rawArg)
		if err != nil {
			return Step{}, err
		}
		args = append(args, arg)
	}
	return Step{Op: Opcode(op), Args: args}, nil
}

func decodeArg(raw cbor.RawMessage) (Arg, error) {
	var i int64
	if err := cbor.Unmarshal(raw, &i); err == nil {
		return Arg{tag: argInt, intVal: big.NewInt(i)}, nil
	}
	var f float64
	if err := cbor.Unmarshal(raw, &f); err == nil {
		return Arg{tag: argFloat, floatVal: f}, nil
	}
	var b bool
	if err := cbor.Unmarshal(raw, &b); err == nil {
		return Arg{tag: argBool, boolVal: b}, nil
	}
	var s string
	if err := cbor.Unmarshal(raw, &s); err == nil {
		return Arg{tag: argString, strVal: s}, nil
	}
	var bs []byte
	if err := cbor.Unmarshal(raw, &bs); err == nil {
		return Arg{tag: argBytes, bytesVal: bs}, nil
	}
	// Falls through to: nested array of steps, i.e. a subscript.
	var rawSteps []cbor.RawMessage
	if err := cbor.Unmarshal(raw, &rawSteps); err == nil {
		sub, err := decodeSteps(rawSteps)
		if err != nil {
			return Arg{}, err
		}
		return Arg{tag: argSubscript, subscript: sub}, nil
	}
	return Arg{}, fmt.Errorf("radon: unrecognized argument literal")
}
