package snapshot

import (
	"path/filepath"
	"testing"

	"oraclenet.dev/node/storekv"
)

func openTemp(t *testing.T) *storekv.Store {
	t.Helper()
	s, err := storekv.Open(filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestImportRejectsStaleSnapshotUnlessForced(t *testing.T) {
	im := &Importer{Store: openTemp(t)}
	ci := &ChainImport{Checkpoint: 400}

	err := im.Import(ci, 500, false, nil)
	tipErr, ok := err.(*ErrChainTip)
	if !ok {
		t.Fatalf("expected *ErrChainTip, got %v", err)
	}
	if tipErr.Imported != 400 || tipErr.Local != 500 {
		t.Fatalf("unexpected ErrChainTip: %+v", tipErr)
	}

	if err := im.Import(ci, 500, true, nil); err != nil {
		t.Fatalf("forced import should succeed: %v", err)
	}
}

func TestImportPersistsSuperblocksAndUTXOStream(t *testing.T) {
	store := openTemp(t)
	im := &Importer{Store: store}

	var progressed []int
	ci := &ChainImport{
		Checkpoint:  600,
		Superblocks: [][]byte{[]byte("sb0"), []byte("sb1")},
		UTXOStream: func(yield func(batch []UTXOEntry) error) error {
			return yield([]UTXOEntry{
				{TxHash: [32]byte{1}, OutputIndex: 0, Encoded: []byte("out0")},
			})
		},
	}

	if err := im.Import(ci, 500, false, func(written, _ int) { progressed = append(progressed, written) }); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(progressed) != 1 || progressed[0] != 1 {
		t.Fatalf("expected one progress callback with count 1, got %v", progressed)
	}

	v, ok, err := store.Get(storekv.SuperblockKey(0))
	if err != nil || !ok || string(v) != "sb0" {
		t.Fatalf("superblock 0 not persisted: v=%q ok=%v err=%v", v, ok, err)
	}

	utxoVal, ok, err := store.Get(storekv.UTXOKey(0, [32]byte{1}, 0))
	if err != nil || !ok || string(utxoVal) != "out0" {
		t.Fatalf("utxo entry not persisted: v=%q ok=%v err=%v", utxoVal, ok, err)
	}
}
