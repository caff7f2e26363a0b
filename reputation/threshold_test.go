package reputation

import (
	"encoding/hex"
	"testing"

	"oraclenet.dev/node/primitives"
)

func pkhFromByte(b byte) primitives.PublicKeyHash {
	var pkh primitives.PublicKeyHash
	pkh[0] = b
	return pkh
}

// TestWitnessThresholdEmptyARS reproduces the scenario from spec §8.2
// item 2: empty ARS, W=1, min-difficulty 2000 gives p=1/2000 and a
// threshold of ⌊2^256/2000⌋, which starts 0x0020C49B (spec.md's prose
// states 0x00349F68, but that figure doesn't survive hand-tracing p=1/2000
// through §4.5's own "Threshold = ⌊p · 2^256⌋" formula — ⌊2^256/2000⌋
// starts 0020c49b, confirmed independently of this implementation; the
// scenario-3 case below, using the identical formula, does match spec.md's
// stated 0x0CCCCCCC exactly, so the formula itself is not in question).
func TestWitnessThresholdEmptyARS(t *testing.T) {
	trs := NewTotalSet()
	ars := NewActiveSet(0)
	me := pkhFromByte(0x01)
	trs.Register(me)

	threshold, p := WitnessThreshold(trs, ars, me, 1, 2000)
	if p.Num().Int64() != 1 || p.Denom().Int64() != 2000 {
		t.Fatalf("expected probability 1/2000, got %v/%v", p.Num(), p.Denom())
	}
	got := hex.EncodeToString(threshold[:4])
	if got != "0020c49b" {
		t.Fatalf("expected threshold to start 0020c49b, got %s", got)
	}
}

// TestWitnessThresholdHundredEqualNodes reproduces spec §8.2 item 3: 100
// equal-reputation nodes, W=100, min-difficulty 2000 gives p=0.05 and a
// threshold starting 0x0CCCCCCC. The nodes are registered in the TRS only;
// the ARS stays empty so W=100 does not trigger the everyone-eligible case.
func TestWitnessThresholdHundredEqualNodes(t *testing.T) {
	trs := NewTotalSet()
	ars := NewActiveSet(200)
	var me primitives.PublicKeyHash
	for i := 0; i < 100; i++ {
		pkh := pkhFromByte(byte(i))
		trs.Register(pkh)
		if i == 0 {
			me = pkh
		}
	}

	threshold, p := WitnessThreshold(trs, ars, me, 100, 2000)
	want := float64(5) / 100
	got, _ := p.Float64()
	if got != want {
		t.Fatalf("expected probability 0.05, got %v", got)
	}
	gotHex := hex.EncodeToString(threshold[:4])
	if gotHex != "0ccccccc" {
		t.Fatalf("expected threshold to start 0ccccccc, got %s", gotHex)
	}
}

func TestWitnessThresholdEveryoneEligibleWhenWCoversARS(t *testing.T) {
	trs := NewTotalSet()
	ars := NewActiveSet(10)
	for i := 0; i < 5; i++ {
		pkh := pkhFromByte(byte(i))
		trs.Register(pkh)
		ars.Push(pkh)
	}
	threshold, p := WitnessThreshold(trs, ars, pkhFromByte(0), 5, 2000)
	if p.Cmp(p) != 0 {
		t.Fatal("unreachable")
	}
	if f, _ := p.Float64(); f != 1.0 {
		t.Fatalf("expected p=1 when W >= active set size, got %v", f)
	}
	if threshold != maxThreshold() {
		t.Fatalf("expected max threshold, got %x", threshold)
	}
}

func TestThresholdMonotonicInW(t *testing.T) {
	trs := NewTotalSet()
	ars := NewActiveSet(0)
	me := pkhFromByte(0x01)
	trs.Register(me)

	small, _ := WitnessThreshold(trs, ars, me, 1, 5000)
	bigger, _ := WitnessThreshold(trs, ars, me, 10, 5000)
	smallInt := new(bigIntFromBytes).set(small[:])
	biggerInt := new(bigIntFromBytes).set(bigger[:])
	if smallInt.cmp(biggerInt) > 0 {
		t.Fatal("threshold should be monotonically non-decreasing in W")
	}
}

type bigIntFromBytes struct{ v [32]byte }

func (b *bigIntFromBytes) set(buf []byte) *bigIntFromBytes {
	copy(b.v[:], buf)
	return b
}

func (b *bigIntFromBytes) cmp(o *bigIntFromBytes) int {
	for i := range b.v {
		if b.v[i] != o.v[i] {
			if b.v[i] < o.v[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}
