// Package chainutxo implements the UTXO set, the node's own-output
// index, coin selection, and the mempool.
package chainutxo

import (
	"oraclenet.dev/node/chaintx"
	"oraclenet.dev/node/primitives"
)

// entry pairs a spendable output with the epoch it was included at, the
// detail time-lock validation needs.
type entry struct {
	Output         chaintx.ValueTransferOutput
	InclusionEpoch uint32
}

// Set is the UTXO set: a Go map OutputPointer -> (output,
// inclusion_epoch), whose iteration order is not defined, plus a secondary
// pkh -> {pointer} index updated on every insert and remove. Writes are staged through a WriteBatch and only
// become visible on Apply, matching the teacher's stage-then-flush
// pattern for atomic block consolidation.
type Set struct {
	byPointer map[chaintx.OutputPointer]entry
	byPKH     map[primitives.PublicKeyHash]map[chaintx.OutputPointer]bool
}

func NewSet() *Set {
	return &Set{
		byPointer: make(map[chaintx.OutputPointer]entry),
		byPKH:     make(map[primitives.PublicKeyHash]map[chaintx.OutputPointer]bool),
	}
}

func (s *Set) Get(p chaintx.OutputPointer) (chaintx.ValueTransferOutput, uint32, bool) {
	e, ok := s.byPointer[p]
	return e.Output, e.InclusionEpoch, ok
}

func (s *Set) Contains(p chaintx.OutputPointer) bool {
	_, ok := s.byPointer[p]
	return ok
}

func (s *Set) insert(p chaintx.OutputPointer, out chaintx.ValueTransferOutput, epoch uint32) {
	s.byPointer[p] = entry{Output: out, InclusionEpoch: epoch}
	if s.byPKH[out.PKH] == nil {
		s.byPKH[out.PKH] = make(map[chaintx.OutputPointer]bool)
	}
	s.byPKH[out.PKH][p] = true
}

func (s *Set) remove(p chaintx.OutputPointer) {
	e, ok := s.byPointer[p]
	if !ok {
		return
	}
	delete(s.byPointer, p)
	if set := s.byPKH[e.Output.PKH]; set != nil {
		delete(set, p)
		if len(set) == 0 {
			delete(s.byPKH, e.Output.PKH)
		}
	}
}

// ByPKH returns every output pointer currently owned by pkh.
func (s *Set) ByPKH(pkh primitives.PublicKeyHash) []chaintx.OutputPointer {
	set := s.byPKH[pkh]
	out := make([]chaintx.OutputPointer, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	return out
}

// WriteBatch stages a block's spends and new outputs so consolidation
// can be applied atomically.
type WriteBatch struct {
	spends []chaintx.OutputPointer
	adds   []struct {
		Pointer chaintx.OutputPointer
		Output  chaintx.ValueTransferOutput
		Epoch   uint32
	}
}

func NewWriteBatch() *WriteBatch { return &WriteBatch{} }

func (b *WriteBatch) Spend(p chaintx.OutputPointer) {
	b.spends = append(b.spends, p)
}

func (b *WriteBatch) Add(p chaintx.OutputPointer, out chaintx.ValueTransferOutput, epoch uint32) {
	b.adds = append(b.adds, struct {
		Pointer chaintx.OutputPointer
		Output  chaintx.ValueTransferOutput
		Epoch   uint32
	}{p, out, epoch})
}

// Apply flushes a batch atomically: every spend is removed and every new
// output inserted, or (on a missing spend) nothing changes at all.
func (s *Set) Apply(b *WriteBatch) error {
	for _, p := range b.spends {
		if !s.Contains(p) {
			return &ErrMissingInput{Pointer: p}
		}
	}
	for _, p := range b.spends {
		s.remove(p)
	}
	for _, a := range b.adds {
		s.insert(a.Pointer, a.Output, a.Epoch)
	}
	return nil
}

type ErrMissingInput struct {
	Pointer chaintx.OutputPointer
}

func (e *ErrMissingInput) Error() string {
	return "chainutxo: missing input " + e.Pointer.TxHash.String()
}

// SpendableAt reports whether an output is spendable given the block
// epoch's timestamp: time_lock == 0 is always
// spendable, otherwise the epoch timestamp must reach time_lock.
func SpendableAt(out chaintx.ValueTransferOutput, epochTimestamp uint64) bool {
	return out.TimeLock == 0 || epochTimestamp >= out.TimeLock
}
