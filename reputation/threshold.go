package reputation

import (
	"math/big"

	"oraclenet.dev/node/primitives"
)

var two256 = new(big.Int).Lsh(big.NewInt(1), 256)

// EligibilityR computes the R term of the witnessing-threshold formula
//: reputation(me)+1 if registered with the TRS (active,
// regardless of score), else 1 if merely present in the ARS, else 0.
func EligibilityR(trs *TotalSet, ars *ActiveSet, pkh primitives.PublicKeyHash) uint64 {
	if trs.Active(pkh) {
		return trs.Score(pkh) + 1
	}
	if ars.Contains(pkh) {
		return 1
	}
	return 0
}

// WitnessThreshold computes the reppoe threshold for a data request
// requesting w witnesses with minimum difficulty d. It
// returns the 256-bit threshold as a big-endian digest comparable
// byte-for-byte against a VRF output, and the raw probability as a
// rational number for diagnostics.
//
// numActive is the number of identities currently in the ARS (used both
// for T and for the "everyone eligible" special case).
func WitnessThreshold(trs *TotalSet, ars *ActiveSet, pkh primitives.PublicKeyHash, w uint64, d uint64) ([32]byte, *big.Rat) {
	numActive := uint64(ars.Len())
	if w >= numActive && numActive > 0 {
		return maxThreshold(), big.NewRat(1, 1)
	}

	r := EligibilityR(trs, ars, pkh)
	sigma := trs.Total()
	t := sigma + numActive
	if t < d {
		t = d
	}
	if t == 0 {
		t = 1
	}

	p := new(big.Rat).SetFrac(new(big.Int).SetUint64(w*r), new(big.Int).SetUint64(t))
	if p.Cmp(big.NewRat(1, 1)) >= 0 {
		return maxThreshold(), big.NewRat(1, 1)
	}

	num := new(big.Int).Mul(p.Num(), two256)
	thresholdInt := new(big.Int).Quo(num, p.Denom())

	var out [32]byte
	thresholdInt.FillBytes(out[:])
	return out, p
}

func maxThreshold() [32]byte {
	var out [32]byte
	for i := range out {
		out[i] = 0xff
	}
	return out
}

// BelowThreshold reports whether a VRF-derived hash, read as a big-endian
// 256-bit integer, falls under threshold — the eligibility test both
// mining (§4.5 mining threshold) and witnessing use.
func BelowThreshold(hash primitives.Hash, threshold [32]byte) bool {
	h := new(big.Int).SetBytes(hash.Bytes())
	t := new(big.Int).SetBytes(threshold[:])
	return h.Cmp(t) < 0
}
