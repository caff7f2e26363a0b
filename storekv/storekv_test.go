package storekv

import (
	"path/filepath"
	"testing"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "kv.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPutGet(t *testing.T) {
	s := openTemp(t)

	if _, ok, err := s.Get([]byte("missing")); err != nil || ok {
		t.Fatalf("expected absent key, got ok=%v err=%v", ok, err)
	}

	if err := s.Put([]byte("k"), []byte("v")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	v, ok, err := s.Get([]byte("k"))
	if err != nil || !ok || string(v) != "v" {
		t.Fatalf("Get: v=%q ok=%v err=%v", v, ok, err)
	}
}

func TestBatchAtomic(t *testing.T) {
	s := openTemp(t)
	if err := s.Put([]byte("a"), []byte("1")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	err := s.Batch([]Write{
		{Key: []byte("a"), Value: nil}, // delete
		{Key: []byte("b"), Value: []byte("2")},
	})
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}

	if _, ok, _ := s.Get([]byte("a")); ok {
		t.Fatalf("expected a deleted")
	}
	if v, ok, _ := s.Get([]byte("b")); !ok || string(v) != "2" {
		t.Fatalf("expected b=2, got %q ok=%v", v, ok)
	}
}

func TestPrefixIterator(t *testing.T) {
	s := openTemp(t)
	for _, k := range []string{"chain-1-a", "chain-1-b", "chain-2-a", "other"} {
		if err := s.Put([]byte(k), []byte("x")); err != nil {
			t.Fatalf("Put %s: %v", k, err)
		}
	}

	var got []string
	err := s.PrefixIterator([]byte("chain-1-"), func(k, v []byte) bool {
		got = append(got, string(k))
		return true
	})
	if err != nil {
		t.Fatalf("PrefixIterator: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 keys under chain-1-, got %v", got)
	}
}

func TestHasAnyChainPrefixRejectsSecondChain(t *testing.T) {
	s := openTemp(t)
	if err := s.Put(ChainStateKey(1), []byte("state")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	found, err := s.HasAnyChainPrefix(1)
	if err != nil {
		t.Fatalf("HasAnyChainPrefix: %v", err)
	}
	if found {
		t.Fatalf("expected no other chain prefix when checking our own magic")
	}

	found, err = s.HasAnyChainPrefix(2)
	if err != nil {
		t.Fatalf("HasAnyChainPrefix: %v", err)
	}
	if !found {
		t.Fatalf("expected a foreign chain prefix to be detected")
	}
}
