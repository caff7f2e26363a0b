package node

import (
	"testing"

	"github.com/fxamacker/cbor/v2"

	"oraclenet.dev/node/chaintx"
	"oraclenet.dev/node/chainutxo"
	"oraclenet.dev/node/drengine"
	"oraclenet.dev/node/primitives"
	"oraclenet.dev/node/radon"
)

func newTestRuntime(t *testing.T) *Runtime {
	t.Helper()
	cfg := DefaultConfig()
	r := NewRuntime(cfg, nil, 1_000_000, chainutxo.FeeFloors{ValueTransfer: 1})
	go r.Run()
	t.Cleanup(r.Stop)
	return r
}

func TestRuntimeSubmitTransactionAdmitsIntoMempool(t *testing.T) {
	r := newTestRuntime(t)

	var pkh primitives.PublicKeyHash
	pkh[0] = 9
	pointer := chaintx.OutputPointer{TxHash: primitives.SumHash([]byte("funding")), OutputIndex: 0}

	batch := chainutxo.NewWriteBatch()
	batch.Add(pointer, chaintx.ValueTransferOutput{PKH: pkh, Value: 100}, 0)
	if err := r.UTXO.Apply(batch); err != nil {
		t.Fatalf("seed utxo: %v", err)
	}

	tx := &chaintx.Transaction{
		Kind:    chaintx.KindValueTransfer,
		Inputs:  []chaintx.TxInput{{Pointer: pointer}},
		Outputs: []chaintx.ValueTransferOutput{{PKH: pkh, Value: 90}},
	}
	if err := r.SubmitTransaction(tx, 0); err != nil {
		t.Fatalf("SubmitTransaction: %v", err)
	}
	if r.Mempool.Len() != 1 {
		t.Fatalf("expected 1 pooled tx, got %d", r.Mempool.Len())
	}
}

func TestRuntimeCloseDataRequestRunsTally(t *testing.T) {
	r := newTestRuntime(t)

	script, err := cbor.Marshal([]any{[]any{int(radon.OpArrayReduce), int(radon.ReducerMode)}})
	if err != nil {
		t.Fatalf("marshal tally script: %v", err)
	}

	pointer := primitives.SumHash([]byte("dr-1"))
	dro := chaintx.DataRequestOutput{Witnesses: 2, MinConsensusPercent: 51, TallyScript: script}
	dr := drengine.NewDataRequest(pointer, dro)
	dr.Post()

	var w1, w2 primitives.PublicKeyHash
	w1[0], w2[0] = 1, 2
	dr.AddCommit(drengine.Commit{WitnessPKH: w1, CommitHash: primitives.SumHash([]byte("c1"))})
	dr.AddCommit(drengine.Commit{WitnessPKH: w2, CommitHash: primitives.SumHash([]byte("c2"))})

	v1, _ := radon.EncodeValue(radon.NewFloat(10))
	v2, _ := radon.EncodeValue(radon.NewFloat(10))
	dr.Reveals = []drengine.Reveal{
		{WitnessPKH: w1, Value: v1},
		{WitnessPKH: w2, Value: v2},
	}
	r.DataReqs[pointer] = dr

	outcome, result, outcomes, err := r.CloseDataRequest(pointer)
	if err != nil {
		t.Fatalf("CloseDataRequest: %v", err)
	}
	if outcome != drengine.OutcomeResolved {
		t.Fatalf("expected resolved outcome, got %v", outcome)
	}
	decoded, err := radon.DecodeValue(result)
	if err != nil {
		t.Fatalf("decode tally result: %v", err)
	}
	if decoded.Kind != radon.KindFloat || decoded.Float != 10 {
		t.Fatalf("expected tally result 10, got %+v", decoded)
	}
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 witness outcomes, got %d", len(outcomes))
	}
	if dr.State != drengine.StateFinished {
		t.Fatalf("expected request Finished, got %v", dr.State)
	}
}
