package chainutxo

import (
	"testing"

	"oraclenet.dev/node/chaintx"
	"oraclenet.dev/node/primitives"
)

func seedUTXO(t *testing.T, set *Set, value uint64) chaintx.OutputPointer {
	t.Helper()
	p := chaintx.OutputPointer{TxHash: primitives.SumHash([]byte{byte(value)}), OutputIndex: uint32(len(set.byPointer))}
	b := NewWriteBatch()
	b.Add(p, chaintx.ValueTransferOutput{PKH: primitives.PublicKeyHash{9}, Value: value}, 0)
	if err := set.Apply(b); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	return p
}

func txSpending(p chaintx.OutputPointer, outValue uint64) *chaintx.Transaction {
	return &chaintx.Transaction{
		Kind:    chaintx.KindValueTransfer,
		Inputs:  []chaintx.TxInput{{Pointer: p}},
		Outputs: []chaintx.ValueTransferOutput{{PKH: primitives.PublicKeyHash{1}, Value: outValue}},
	}
}

func TestMempoolAdmitAndDoubleSpendRejected(t *testing.T) {
	set := NewSet()
	p := seedUTXO(t, set, 1000)
	pool := NewMempool(1_000_000, FeeFloors{})

	tx1 := txSpending(p, 900)
	if err := pool.Admit(tx1, set, 0); err != nil {
		t.Fatalf("expected admit to succeed, got %v", err)
	}

	tx2 := txSpending(p, 800)
	if err := pool.Admit(tx2, set, 0); err == nil {
		t.Fatal("expected double-spend to be rejected")
	}
}

func TestMempoolRejectsMissingInput(t *testing.T) {
	set := NewSet()
	pool := NewMempool(1_000_000, FeeFloors{})
	ghost := chaintx.OutputPointer{TxHash: primitives.SumHash([]byte("ghost"))}
	if err := pool.Admit(txSpending(ghost, 1), set, 0); err == nil {
		t.Fatal("expected missing input to be rejected")
	}
}

func TestMempoolEvictsLowestPriorityUnderPressure(t *testing.T) {
	set := NewSet()
	p1 := seedUTXO(t, set, 1000)
	p2 := seedUTXO(t, set, 1000)

	weight := vtWeightLike()
	pool := NewMempool(uint64(weight), FeeFloors{})

	lowFee := txSpending(p1, 999) // fee 1, low priority
	if err := pool.Admit(lowFee, set, 0); err != nil {
		t.Fatalf("admit lowFee: %v", err)
	}
	highFee := txSpending(p2, 500) // fee 500, high priority, should evict lowFee
	if err := pool.Admit(highFee, set, 0); err != nil {
		t.Fatalf("admit highFee: %v", err)
	}

	if _, ok := pool.Get(lowFee.Hash()); ok {
		t.Fatal("expected low-priority transaction to be evicted")
	}
	if _, ok := pool.Get(highFee.Hash()); !ok {
		t.Fatal("expected high-priority transaction to remain admitted")
	}
}

func vtWeightLike() uint32 {
	tx := txSpending(chaintx.OutputPointer{}, 1)
	return tx.Weight()
}
