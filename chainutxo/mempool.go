package chainutxo

import (
	"sort"

	"oraclenet.dev/node/chaintx"
	"oraclenet.dev/node/primitives"
)

// FeeFloors sets the minimum fee-per-weight-unit a transaction of each
// kind must pay to be admitted.
type FeeFloors struct {
	ValueTransfer uint64
	DataRequest   uint64
	Stake         uint64
	Unstake       uint64
}

func (f FeeFloors) floorFor(k chaintx.Kind) uint64 {
	switch k {
	case chaintx.KindValueTransfer:
		return f.ValueTransfer
	case chaintx.KindDataRequest:
		return f.DataRequest
	case chaintx.KindStake:
		return f.Stake
	case chaintx.KindUnstake:
		return f.Unstake
	default:
		return 0
	}
}

type pooled struct {
	Tx     *chaintx.Transaction
	Fee    uint64
	Weight uint32
}

// priority is fee per weight unit, the single number eviction and
// inclusion ordering both rank by.
func (p pooled) priority() float64 {
	if p.Weight == 0 {
		return 0
	}
	return float64(p.Fee) / float64(p.Weight)
}

// Mempool is the bounded, weight-accounted buffer of admitted-but-not-
// yet-included transactions.
type Mempool struct {
	maxWeight    uint64
	floors       FeeFloors
	totalWeight  uint64
	byHash       map[primitives.Hash]*pooled
	spentByInput map[chaintx.OutputPointer]primitives.Hash
}

func NewMempool(maxWeight uint64, floors FeeFloors) *Mempool {
	return &Mempool{
		maxWeight:    maxWeight,
		floors:       floors,
		byHash:       make(map[primitives.Hash]*pooled),
		spentByInput: make(map[chaintx.OutputPointer]primitives.Hash),
	}
}

// Admit validates and inserts tx, evicting the lowest-priority
// transactions as needed to stay under maxWeight. utxos
// is the UTXO set as of the current pending tip; pendingTimestamp is the
// timestamp inputs' time-locks are checked against.
func (m *Mempool) Admit(tx *chaintx.Transaction, utxos *Set, pendingTimestamp uint64) error {
	h := tx.Hash()
	if _, exists := m.byHash[h]; exists {
		return nil
	}

	for _, in := range tx.Inputs {
		out, _, ok := utxos.Get(in.Pointer)
		if !ok {
			return &ErrMissingInput{Pointer: in.Pointer}
		}
		if !SpendableAt(out, pendingTimestamp) {
			return &ErrTimeLocked{Pointer: in.Pointer}
		}
		if conflict, spent := m.spentByInput[in.Pointer]; spent {
			return &ErrDoubleSpend{Pointer: in.Pointer, ConflictingTx: conflict}
		}
	}

	weight := tx.Weight()
	fee, err := computeFee(tx, utxos)
	if err != nil {
		return err
	}
	floor := m.floors.floorFor(tx.Kind)
	if weight > 0 && fee < floor*uint64(weight) {
		return &ErrFeeTooLow{Required: floor * uint64(weight), Got: fee}
	}

	m.evictLowestPriority(uint64(weight))

	p := &pooled{Tx: tx, Fee: fee, Weight: weight}
	m.byHash[h] = p
	m.totalWeight += uint64(weight)
	for _, in := range tx.Inputs {
		m.spentByInput[in.Pointer] = h
	}
	return nil
}

func computeFee(tx *chaintx.Transaction, utxos *Set) (uint64, error) {
	var inSum uint64
	for _, in := range tx.Inputs {
		out, _, ok := utxos.Get(in.Pointer)
		if !ok {
			return 0, &ErrMissingInput{Pointer: in.Pointer}
		}
		inSum += out.Value
	}
	var outSum uint64
	for _, o := range tx.Outputs {
		outSum += o.Value
	}
	if inSum < outSum {
		return 0, &ErrNegativeFee{}
	}
	return inSum - outSum, nil
}

// evictLowestPriority frees at least `need` weight by dropping the
// lowest fee-per-weight transactions first.
func (m *Mempool) evictLowestPriority(need uint64) {
	if m.totalWeight+need <= m.maxWeight {
		return
	}
	all := make([]*pooled, 0, len(m.byHash))
	for _, p := range m.byHash {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].priority() < all[j].priority() })

	for _, p := range all {
		if m.totalWeight+need <= m.maxWeight {
			return
		}
		m.removeLocked(p.Tx.Hash())
	}
}

func (m *Mempool) removeLocked(h primitives.Hash) {
	p, ok := m.byHash[h]
	if !ok {
		return
	}
	delete(m.byHash, h)
	m.totalWeight -= uint64(p.Weight)
	for _, in := range p.Tx.Inputs {
		if m.spentByInput[in.Pointer] == h {
			delete(m.spentByInput, in.Pointer)
		}
	}
}

// Remove drops tx from the pool, refunding its weight to the budget
//, used both on confirmation and on conflict eviction.
func (m *Mempool) Remove(h primitives.Hash) {
	m.removeLocked(h)
}

// EvictConflicting drops every pooled transaction that spends an input
// the just-consolidated set spends.
func (m *Mempool) EvictConflicting(consolidated []chaintx.OutputPointer) {
	for _, p := range consolidated {
		if h, ok := m.spentByInput[p]; ok {
			m.removeLocked(h)
		}
	}
}

func (m *Mempool) Len() int           { return len(m.byHash) }
func (m *Mempool) TotalWeight() uint64 { return m.totalWeight }

func (m *Mempool) Get(h primitives.Hash) (*chaintx.Transaction, bool) {
	p, ok := m.byHash[h]
	if !ok {
		return nil, false
	}
	return p.Tx, true
}

type ErrTimeLocked struct{ Pointer chaintx.OutputPointer }

func (e *ErrTimeLocked) Error() string { return "chainutxo: input is time-locked" }

type ErrDoubleSpend struct {
	Pointer       chaintx.OutputPointer
	ConflictingTx primitives.Hash
}

func (e *ErrDoubleSpend) Error() string { return "chainutxo: input already spent in pool" }

type ErrFeeTooLow struct {
	Required uint64
	Got      uint64
}

func (e *ErrFeeTooLow) Error() string { return "chainutxo: fee below floor" }

type ErrNegativeFee struct{}

func (e *ErrNegativeFee) Error() string { return "chainutxo: outputs exceed inputs" }
