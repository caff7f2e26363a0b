package radon

import (
	"crypto/sha256"
	"math/big"
)

// reduceMode returns the most frequent value in items. Ties and empty
// input are first-class errors, not Go panics.
func reduceMode(items []Value) (Value, []int, *RadonError) {
	if len(items) == 0 {
		return Value{}, nil, NewRadonError(ErrEmptyArray)
	}

	type bucket struct {
		value Value
		idx   []int
	}
	var buckets []bucket
	for i, v := range items {
		placed := false
		for b := range buckets {
			if buckets[b].value.Equal(v) {
				buckets[b].idx = append(buckets[b].idx, i)
				placed = true
				break
			}
		}
		if !placed {
			buckets = append(buckets, bucket{value: v, idx: []int{i}})
		}
	}

	best := 0
	for b := 1; b < len(buckets); b++ {
		if len(buckets[b].idx) > len(buckets[best].idx) {
			best = b
		}
	}
	tie := 0
	for _, b := range buckets {
		if len(b.idx) == len(buckets[best].idx) {
			tie++
		}
	}
	if tie > 1 {
		return Value{}, nil, NewRadonError(ErrModeTie)
	}
	return buckets[best].value, buckets[best].idx, nil
}

// reduceAverageMean averages a homogeneous numeric array to a Float; it
// never marks liars.
func reduceAverageMean(items []Value) (Value, *RadonError) {
	if len(items) == 0 {
		return NewErrorValue(NewRadonError(ErrEmptyArray)), nil
	}
	sum := 0.0
	for _, v := range items {
		f, ok := numericFloat(v)
		if !ok {
			return errUnsupportedType("AverageMean", v.Kind), nil
		}
		sum += f
	}
	return NewFloat(sum / float64(len(items))), nil
}

// reduceHashConcatenate hashes the CBOR encoding of every element in
// order and returns the digest, giving the tally a compact commitment to
// an array the stage doesn't otherwise want to carry around in full.
func reduceHashConcatenate(items []Value) (Value, *RadonError) {
	h := sha256.New()
	for _, v := range items {
		enc, err := EncodeValue(v)
		if err != nil {
			return Value{}, NewRadonError(ErrUnsupportedType, NewString("HashConcatenate"))
		}
		h.Write(enc)
	}
	return NewBytes(h.Sum(nil)), nil
}

func numericFloat(v Value) (float64, bool) {
	switch v.Kind {
	case KindFloat:
		return v.Float, true
	case KindInteger:
		f, _ := new(big.Float).SetInt(v.Int).Float64()
		return f, true
	default:
		return 0, false
	}
}
