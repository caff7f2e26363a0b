package radon

// Opcode enumerates RADON's operators. Values are
// arbitrary but stable: they are part of the CBOR script wire format, so
// once assigned they must never be renumbered across a WIP boundary
// — that is what ActiveWips is for, not these constants.
type Opcode int

const (
	OpStringParseJSONMap Opcode = iota + 1
	OpStringParseJSONArray
	OpStringParseXMLMap
	OpStringAsFloat
	OpStringAsInt
	OpStringAsBoolean
	OpStringAsBytes

	OpMapGet
	OpArrayGet

	OpIntegerAsString
	OpIntegerAsFloat
	OpFloatAsString
	OpFloatRound
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpLessThan
	OpGreaterThan
	OpEqual

	OpArrayReduce
	OpArrayFilter
	OpArrayMap
	OpArraySort
	OpArrayCount
	OpArrayGetArray
)

// opsForbiddenInTally lists the operators §4.2.5 names as
// forbidden during the Tally stage.
var opsForbiddenInTally = map[Opcode]bool{
	OpArraySort:     true,
	OpArrayMap:      true,
	OpArrayGetArray: true,
	OpArrayCount:    true,
}

// Reducer and Filter are their own small enumerations, selected as the
// first argument of ArrayReduce / ArrayFilter.
type Reducer int

const (
	ReducerMode Reducer = iota + 1
	ReducerAverageMean
	ReducerHashConcatenate
)

type Filter int

const (
	FilterDeviationStandard Filter = iota + 1
	FilterMode
)
