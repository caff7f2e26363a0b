package radon

import (
	"fmt"
	"strings"
)

// ErrorKind enumerates the first-class RADON error codes.
// The executor never panics: every failure becomes one of these.
type ErrorKind string

const (
	ErrMapKeyNotFound             ErrorKind = "MapKeyNotFound"
	ErrArrayIndexOutOfBounds      ErrorKind = "ArrayIndexOutOfBounds"
	ErrOverflow                   ErrorKind = "Overflow"
	ErrUnderflow                  ErrorKind = "Underflow"
	ErrDivisionByZero             ErrorKind = "DivisionByZero"
	ErrEmptyArray                 ErrorKind = "EmptyArray"
	ErrModeTie                    ErrorKind = "ModeTie"
	ErrUnsupportedOperatorInTally ErrorKind = "UnsupportedOperatorInTally"
	ErrParseJSON                  ErrorKind = "ParseJSON"
	ErrParseXML                   ErrorKind = "ParseXML"
	ErrParseFloat                 ErrorKind = "ParseFloat"
	ErrParseInt                   ErrorKind = "ParseInt"
	ErrParseBoolean               ErrorKind = "ParseBoolean"
	ErrWrongArgumentsCount        ErrorKind = "WrongArguments"
	ErrUnsupportedType            ErrorKind = "UnsupportedType"
	ErrUnknownOperator            ErrorKind = "UnknownOperator"
	ErrNotHomogeneous             ErrorKind = "ArrayNotHomogeneous"
	ErrNotComparable               ErrorKind = "ArrayNotComparable"
	ErrSubscriptNotBoolean        ErrorKind = "SubscriptNotBoolean"
	ErrRetrieveTimeout            ErrorKind = "RetrieveTimeout"
	ErrInsufficientConsensus      ErrorKind = "InsufficientConsensus"
	ErrTooManyWitnesses           ErrorKind = "TooManyWitnesses"
)

// RadonError is an ordinary value: a CBOR array
// `[code, arg0, arg1, …]`. Two error-only outputs with equal (code, args)
// compare equal — see Value.Equal's KindError branch.
type RadonError struct {
	Kind ErrorKind
	Args []Value
}

func NewRadonError(kind ErrorKind, args ...Value) *RadonError {
	return &RadonError{Kind: kind, Args: args}
}

func (e *RadonError) Error() string {
	if e == nil {
		return "<nil radon error>"
	}
	if len(e.Args) == 0 {
		return string(e.Kind)
	}
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = fmt.Sprint(renderArg(a))
	}
	return fmt.Sprintf("%s{%s}", e.Kind, strings.Join(parts, ","))
}

func renderArg(v Value) any {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindInteger:
		return v.Int
	case KindFloat:
		return v.Float
	case KindBoolean:
		return v.Bool
	default:
		return v.Kind.String()
	}
}

// Equal implements the (code, args) comparison §4.2.4 requires.
func (e *RadonError) Equal(o *RadonError) bool {
	if e == nil || o == nil {
		return e == o
	}
	if e.Kind != o.Kind || len(e.Args) != len(o.Args) {
		return false
	}
	for i := range e.Args {
		if !e.Args[i].Equal(o.Args[i]) {
			return false
		}
	}
	return true
}

func errMapKeyNotFound(key string) Value {
	return NewErrorValue(NewRadonError(ErrMapKeyNotFound, NewString(key)))
}

func errArrayIndexOutOfBounds(index int) Value {
	return NewErrorValue(NewRadonError(ErrArrayIndexOutOfBounds, NewIntegerI64(int64(index))))
}

func errWrongArguments(op string) Value {
	return NewErrorValue(NewRadonError(ErrWrongArgumentsCount, NewString(op)))
}

func errUnsupportedType(op string, got Kind) Value {
	return NewErrorValue(NewRadonError(ErrUnsupportedType, NewString(op), NewString(got.String())))
}
