package chaintx

import "math"

// Weight-model constants. STAKE_OUTPUT_WEIGHT and
// UNSTAKE_TRANSACTION_WEIGHT are taken as given protocol constants; their
// derivation is undocumented upstream.
const (
	InputSize          uint32 = 133
	OutputSize         uint32 = 36
	OutputWeightFactor uint32 = 1 // γ: relative weight of an output vs an input
	DataRequestAlpha   uint32 = 1
	StakeOutputWeight  uint32 = 105
	UnstakeTxWeight    uint32 = 153
)

// satAdd and satMul saturate at math.MaxUint32 instead of wrapping
//.
func satAdd(a, b uint32) uint32 {
	sum := uint64(a) + uint64(b)
	if sum > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(sum)
}

func satMul(a, b uint32) uint32 {
	prod := uint64(a) * uint64(b)
	if prod > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(prod)
}

// Weight returns the pool-accounting weight of t.
// Commit/Reveal/Tally/Mint have weight 0: they are budgeted by count
// against a per-block cap rather than by byte weight.
func (t *Transaction) Weight() uint32 {
	switch t.Kind {
	case KindValueTransfer:
		return vtWeight(len(t.Inputs), len(t.Outputs))
	case KindDataRequest:
		return drWeight(len(t.Inputs), len(t.Outputs), t.DataRequest)
	case KindStake:
		return stakeWeight(len(t.Inputs), t.Stake)
	case KindUnstake:
		return UnstakeTxWeight
	default:
		return 0
	}
}

func vtWeight(numInputs, numOutputs int) uint32 {
	n := satMul(uint32(numInputs), InputSize)
	m := satMul(satMul(uint32(numOutputs), OutputSize), OutputWeightFactor)
	return satAdd(n, m)
}

func drWeight(numInputs, numOutputs int, dro *DataRequestOutput) uint32 {
	if dro == nil {
		return 0
	}
	outputSize := uint32(len(dro.RadonScript) + len(dro.TallyScript))
	extraWeight := satAdd(uint32(dro.Witnesses)*InputSize, uint32(dro.BackupWitnesses)*InputSize)
	alphaPart := satMul(DataRequestAlpha, outputSize)
	n := satMul(uint32(numInputs), InputSize)
	m := satMul(uint32(numOutputs), OutputSize)
	return satAdd(satAdd(alphaPart, extraWeight), satAdd(n, m))
}

func stakeWeight(numInputs int, stake *StakeBody) uint32 {
	n := satMul(uint32(numInputs), InputSize)
	changeWeight := uint32(0)
	if stake != nil && stake.ChangeValue > 0 {
		changeWeight = OutputSize
	}
	return satAdd(satAdd(n, changeWeight), StakeOutputWeight)
}
