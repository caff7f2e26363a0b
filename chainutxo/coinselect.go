package chainutxo

import (
	"math/rand"
	"sort"

	"oraclenet.dev/node/chaintx"
)

// Strategy picks which of the node's own UTXOs to spend when building a
// new transaction.
type Strategy int

const (
	StrategyRandom Strategy = iota
	StrategyBiggestFirst
	StrategySmallestFirst
	StrategyTimelockedFirst
)

// OwnIndex supports coin selection over the node's own outputs. It holds
// no index of its own: it reads the Set's pkh index and the Set's entries.
type OwnIndex struct {
	set *Set
}

func NewOwnIndex(set *Set) *OwnIndex { return &OwnIndex{set: set} }

type Candidate struct {
	Pointer chaintx.OutputPointer
	Output  chaintx.ValueTransferOutput
}

// Select accumulates inputs from the node's own outputs until their sum
// reaches target+fee, using the given strategy to order candidates
//. It returns ErrInsufficientFunds if the full UTXO set
// under pkh can't cover the target.
func (o *OwnIndex) Select(pkh [20]byte, target uint64, fee uint64, strategy Strategy, rng *rand.Rand) ([]Candidate, uint64, error) {
	pointers := o.set.ByPKH(pkh)
	candidates := make([]Candidate, 0, len(pointers))
	for _, p := range pointers {
		out, _, ok := o.set.Get(p)
		if !ok {
			continue
		}
		candidates = append(candidates, Candidate{Pointer: p, Output: out})
	}

	switch strategy {
	case StrategyBiggestFirst:
		sort.Slice(candidates, func(i, j int) bool { return candidates[i].Output.Value > candidates[j].Output.Value })
	case StrategySmallestFirst:
		sort.Slice(candidates, func(i, j int) bool { return candidates[i].Output.Value < candidates[j].Output.Value })
	case StrategyTimelockedFirst:
		sort.Slice(candidates, func(i, j int) bool { return candidates[i].Output.TimeLock > candidates[j].Output.TimeLock })
	case StrategyRandom:
		if rng != nil {
			rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })
		}
	}

	want := target + fee
	var sum uint64
	chosen := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if sum >= want {
			break
		}
		chosen = append(chosen, c)
		sum += c.Output.Value
	}
	if sum < want {
		return nil, 0, &ErrInsufficientFunds{Target: want, Available: sum}
	}
	return chosen, sum - want, nil
}

type ErrInsufficientFunds struct {
	Target    uint64
	Available uint64
}

func (e *ErrInsufficientFunds) Error() string {
	return "chainutxo: insufficient funds"
}

// ChangePKH decides where change goes: a fresh internal
// address for ordinary transactions, or the first input's pkh for a
// data-request transaction, preserving the requester's authorship.
func ChangePKH(isDataRequest bool, firstInputPKH [20]byte, freshInternal [20]byte) [20]byte {
	if isDataRequest {
		return firstInputPKH
	}
	return freshInternal
}
