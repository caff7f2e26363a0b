package reputation

import (
	"math/big"

	"oraclenet.dev/node/primitives"
)

// MiningThreshold derives the per-epoch block-proposal target for pkh
//: proportional to reputation share of the total, but
// trapezoidally floored so a brand-new identity with zero reputation
// still has a non-zero chance to propose — otherwise reputation could
// never bootstrap past the genesis set.
//
// floorNumerator/floorDenominator express the minimum share every
// registered identity receives regardless of score (e.g. 1/100 of an
// equal split among currently active identities).
func MiningThreshold(trs *TotalSet, pkh primitives.PublicKeyHash, floorNumerator, floorDenominator uint64) [32]byte {
	sigma := trs.Total()
	n := uint64(len(trsIdentities(trs)))
	if n == 0 {
		return maxThreshold()
	}

	share := new(big.Rat)
	if sigma > 0 {
		share.SetFrac(new(big.Int).SetUint64(trs.Score(pkh)), new(big.Int).SetUint64(sigma))
	}

	floor := new(big.Rat).SetFrac(new(big.Int).SetUint64(floorNumerator), new(big.Int).SetUint64(floorDenominator*n))
	if share.Cmp(floor) < 0 {
		share = floor
	}
	if share.Cmp(big.NewRat(1, 1)) >= 0 {
		return maxThreshold()
	}

	num := new(big.Int).Mul(share.Num(), two256)
	thresholdInt := new(big.Int).Quo(num, share.Denom())
	var out [32]byte
	thresholdInt.FillBytes(out[:])
	return out
}

func trsIdentities(trs *TotalSet) []primitives.PublicKeyHash {
	out := make([]primitives.PublicKeyHash, 0, len(trs.scores))
	for pkh := range trs.scores {
		out = append(out, pkh)
	}
	return out
}
