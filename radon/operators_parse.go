package radon

import (
	"encoding/json"
	"encoding/xml"
	"math/big"
	"strconv"
)

func (e *Executor) execParse(step Step, input Value) (Value, *RadonError) {
	switch step.Op {
	case OpStringParseJSONMap:
		return parseJSON(input, KindMap)
	case OpStringParseJSONArray:
		return parseJSON(input, KindArray)
	case OpStringParseXMLMap:
		return parseXMLMap(input)
	case OpStringAsFloat:
		return stringAsFloat(input)
	case OpStringAsInt:
		return stringAsInt(input)
	case OpStringAsBoolean:
		return stringAsBoolean(input)
	case OpStringAsBytes:
		if input.Kind != KindString {
			return errUnsupportedType("StringAsBytes", input.Kind), nil
		}
		return NewBytes([]byte(input.Str)), nil
	}
	return Value{}, NewRadonError(ErrUnknownOperator)
}

func parseJSON(input Value, want Kind) (Value, *RadonError) {
	if input.Kind != KindString {
		return errUnsupportedType("StringParseJSON", input.Kind), nil
	}
	var tree any
	if err := json.Unmarshal([]byte(input.Str), &tree); err != nil {
		return NewErrorValue(NewRadonError(ErrParseJSON, NewString(err.Error()))), nil
	}
	v, err := DecodeValueFromJSON(tree)
	if err != nil {
		return NewErrorValue(NewRadonError(ErrParseJSON, NewString(err.Error()))), nil
	}
	if v.Kind != want {
		return NewErrorValue(NewRadonError(ErrParseJSON, NewString("unexpected top-level JSON shape"))), nil
	}
	return v, nil
}

// xmlNode is a minimal generic XML tree used only to turn a retrieval
// response into a RADON Map; RADON has no XML array/text-node concept
// beyond "map of tag name to nested map or string content".
type xmlNode struct {
	XMLName  xml.Name
	Content  string    `xml:",chardata"`
	Children []xmlNode `xml:",any"`
}

func parseXMLMap(input Value) (Value, *RadonError) {
	if input.Kind != KindString {
		return errUnsupportedType("StringParseXMLMap", input.Kind), nil
	}
	var root xmlNode
	if err := xml.Unmarshal([]byte(input.Str), &root); err != nil {
		return NewErrorValue(NewRadonError(ErrParseXML, NewString(err.Error()))), nil
	}
	return NewMap(xmlNodeToMap(root)), nil
}

func xmlNodeToMap(n xmlNode) *OrderedMap {
	m := NewOrderedMap()
	if len(n.Children) == 0 {
		m.Set(n.XMLName.Local, NewString(trimXMLText(n.Content)))
		return m
	}
	for _, c := range n.Children {
		if len(c.Children) == 0 {
			m.Set(c.XMLName.Local, NewString(trimXMLText(c.Content)))
		} else {
			m.Set(c.XMLName.Local, NewMap(xmlNodeToMap(c)))
		}
	}
	return m
}

func trimXMLText(s string) string {
	start, end := 0, len(s)
	for start < end && isXMLSpace(s[start]) {
		start++
	}
	for end > start && isXMLSpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isXMLSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func stringAsFloat(input Value) (Value, *RadonError) {
	if input.Kind != KindString {
		return errUnsupportedType("StringAsFloat", input.Kind), nil
	}
	f, err := strconv.ParseFloat(input.Str, 64)
	if err != nil {
		return NewErrorValue(NewRadonError(ErrParseFloat, NewString(input.Str))), nil
	}
	return NewFloat(f), nil
}

func stringAsInt(input Value) (Value, *RadonError) {
	if input.Kind != KindString {
		return errUnsupportedType("StringAsInt", input.Kind), nil
	}
	i, ok := new(big.Int).SetString(input.Str, 10)
	if !ok {
		return NewErrorValue(NewRadonError(ErrParseInt, NewString(input.Str))), nil
	}
	return NewInteger(i), nil
}

func stringAsBoolean(input Value) (Value, *RadonError) {
	if input.Kind != KindString {
		return errUnsupportedType("StringAsBoolean", input.Kind), nil
	}
	switch input.Str {
	case "true", "TRUE", "True":
		return NewBoolean(true), nil
	case "false", "FALSE", "False":
		return NewBoolean(false), nil
	default:
		return NewErrorValue(NewRadonError(ErrParseBoolean, NewString(input.Str))), nil
	}
}
