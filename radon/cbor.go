package radon

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// radonErrorTag is a private-use CBOR tag (RFC 8949 §9.2 range) wrapping
// the `[code, arg0, arg1, …]` array §4.2.4 requires for errors,
// so DecodeValue can tell an error value apart from an ordinary array
// that merely happens to start with a string.
const radonErrorTag = 39401

// EncodeValue serializes v to CBOR. Two byte-identical encodes of an
// error value are themselves sufficient proof of the error-equality the
// executor needs.
func EncodeValue(v Value) ([]byte, error) {
	return cbor.Marshal(toCBORIntermediate(v))
}

// DecodeValue parses a CBOR-encoded RADON value previously produced by
// EncodeValue, the inverse operation a reveal or retrieval result needs
// before it can be fed back through an Executor.
func DecodeValue(data []byte) (Value, error) {
	var raw cbor.RawMessage
	if err := cbor.Unmarshal(data, &raw); err != nil {
		return Value{}, err
	}
	return decodeCBORValue(raw)
}

func decodeCBORValue(raw cbor.RawMessage) (Value, error) {
	var tagged cbor.RawTag
	if err := cbor.Unmarshal(raw, &tagged); err == nil && tagged.Number == radonErrorTag {
		var parts []cbor.RawMessage
		if err := cbor.Unmarshal(tagged.Content, &parts); err != nil {
			return Value{}, err
		}
		return decodeErrorParts(parts)
	}

	var i int64
	if err := cbor.Unmarshal(raw, &i); err == nil {
		return NewIntegerI64(i), nil
	}
	var f float64
	if err := cbor.Unmarshal(raw, &f); err == nil {
		return NewFloat(f), nil
	}
	var b bool
	if err := cbor.Unmarshal(raw, &b); err == nil {
		return NewBoolean(b), nil
	}
	var s string
	if err := cbor.Unmarshal(raw, &s); err == nil {
		return NewString(s), nil
	}
	var bs []byte
	if err := cbor.Unmarshal(raw, &bs); err == nil {
		return NewBytes(bs), nil
	}
	var arr []cbor.RawMessage
	if err := cbor.Unmarshal(raw, &arr); err == nil {
		items := make([]Value, len(arr))
		for i, e := range arr {
			v, err := decodeCBORValue(e)
			if err != nil {
				return Value{}, err
			}
			items[i] = v
		}
		return NewArray(items), nil
	}
	var m map[string]cbor.RawMessage
	if err := cbor.Unmarshal(raw, &m); err == nil {
		om := NewOrderedMap()
		for k, e := range m {
			v, err := decodeCBORValue(e)
			if err != nil {
				return Value{}, err
			}
			om.Set(k, v)
		}
		return NewMap(om), nil
	}
	return Value{}, fmt.Errorf("radon: unrecognized CBOR value")
}

func decodeErrorParts(parts []cbor.RawMessage) (Value, error) {
	if len(parts) == 0 {
		return Value{}, fmt.Errorf("radon: empty error encoding")
	}
	var kind string
	if err := cbor.Unmarshal(parts[0], &kind); err != nil {
		return Value{}, fmt.Errorf("radon: error code is not a string: %w", err)
	}
	args := make([]Value, 0, len(parts)-1)
	for _, p := range parts[1:] {
		v, err := decodeCBORValue(p)
		if err != nil {
			return Value{}, err
		}
		args = append(args, v)
	}
	return NewErrorValue(NewRadonError(ErrorKind(kind), args...)), nil
}

func toCBORIntermediate(v Value) any {
	switch v.Kind {
	case KindArray:
		out := make([]any, len(v.Array))
		for i, e := range v.Array {
			out[i] = toCBORIntermediate(e)
		}
		return out
	case KindMap:
		out := make(map[string]any, v.Map.Len())
		for _, k := range v.Map.Keys() {
			e, _ := v.Map.Get(k)
			out[k] = toCBORIntermediate(e)
		}
		return out
	case KindString:
		return v.Str
	case KindBytes:
		return v.Bytes
	case KindInteger:
		if v.Int.IsInt64() {
			return v.Int.Int64()
		}
		return v.Int.String()
	case KindFloat:
		return v.Float
	case KindBoolean:
		return v.Bool
	case KindError:
		parts := make([]any, 0, 1+len(v.Err.Args))
		parts = append(parts, string(v.Err.Kind))
		for _, a := range v.Err.Args {
			parts = append(parts, toCBORIntermediate(a))
		}
		return cbor.Tag{Number: radonErrorTag, Content: parts}
	default:
		return nil
	}
}

// DecodeValueFromJSON converts a generically-decoded JSON tree (the
// output of encoding/json's Unmarshal into `any`) into a RADON Value, the
// bridge StringParseJSONMap/StringParseJSONArray need.
func DecodeValueFromJSON(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return NewBoolean(false), nil
	case bool:
		return NewBoolean(t), nil
	case float64:
		if t == float64(int64(t)) {
			return NewIntegerI64(int64(t)), nil
		}
		return NewFloat(t), nil
	case string:
		return NewString(t), nil
	case []any:
		items := make([]Value, len(t))
		for i, e := range t {
			iv, err := DecodeValueFromJSON(e)
			if err != nil {
				return Value{}, err
			}
			items[i] = iv
		}
		return NewArray(items), nil
	case map[string]any:
		m := NewOrderedMap()
		for k, e := range t {
			iv, err := DecodeValueFromJSON(e)
			if err != nil {
				return Value{}, err
			}
			m.Set(k, iv)
		}
		return NewMap(m), nil
	default:
		return Value{}, fmt.Errorf("radon: unsupported JSON node type %T", v)
	}
}
