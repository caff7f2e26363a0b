package chaintx

import (
	"testing"

	"oraclenet.dev/node/primitives"
)

func sampleVT() *Transaction {
	return &Transaction{
		Kind: KindValueTransfer,
		Inputs: []TxInput{
			{Pointer: OutputPointer{TxHash: primitives.SumHash([]byte("prev")), OutputIndex: 0}},
		},
		Outputs: []ValueTransferOutput{
			{PKH: primitives.PublicKeyHash{1, 2, 3}, Value: 1000},
		},
	}
}

func TestHashMemoTransparency(t *testing.T) {
	tx := sampleVT()
	h1 := tx.Hash()
	h2 := tx.Hash()
	if h1 != h2 {
		t.Fatal("expected memoized hash to be stable across calls")
	}

	other := sampleVT()
	if !tx.Equal(other) {
		t.Fatal("expected structurally identical transactions to be equal")
	}
	if tx.Hash() != other.Hash() {
		t.Fatal("expected identical transactions to hash identically regardless of memo state")
	}
}

func TestHashDiffersOnContentChange(t *testing.T) {
	a := sampleVT()
	b := sampleVT()
	b.Outputs[0].Value = 2000
	if a.Hash() == b.Hash() {
		t.Fatal("expected different content to hash differently")
	}
}

func TestVTWeight(t *testing.T) {
	w := vtWeight(1, 1)
	want := satAdd(InputSize, OutputSize)
	if w != want {
		t.Fatalf("expected weight %d, got %d", want, w)
	}
}

func TestWeightSaturates(t *testing.T) {
	w := vtWeight(1<<30, 1<<30)
	if w != ^uint32(0) {
		t.Fatalf("expected saturated weight at MaxUint32, got %d", w)
	}
}

func TestUnstakeWeightIsConstant(t *testing.T) {
	tx := &Transaction{Kind: KindUnstake}
	if tx.Weight() != UnstakeTxWeight {
		t.Fatalf("expected constant unstake weight %d, got %d", UnstakeTxWeight, tx.Weight())
	}
}

func TestGenesisValueTransferRequiresPositiveOutputs(t *testing.T) {
	tx := &Transaction{
		Kind:    KindValueTransfer,
		Outputs: []ValueTransferOutput{{PKH: primitives.PublicKeyHash{1}, Value: 0}},
	}
	if err := ValidateGenesisValueTransfer(tx); err == nil {
		t.Fatal("expected zero-value genesis output to be rejected")
	}
}

func TestGenesisValueTransferAllowsEmptyInputs(t *testing.T) {
	tx := &Transaction{
		Kind:    KindValueTransfer,
		Outputs: []ValueTransferOutput{{PKH: primitives.PublicKeyHash{1}, Value: 10}},
	}
	if err := ValidateGenesisValueTransfer(tx); err != nil {
		t.Fatalf("expected empty-input genesis transfer to be valid, got %v", err)
	}
	if err := ValidateValueTransfer(tx); err == nil {
		t.Fatal("expected the non-genesis validator to reject empty inputs")
	}
}
