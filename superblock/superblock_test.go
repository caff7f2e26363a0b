package superblock

import (
	"testing"

	"oraclenet.dev/node/primitives"
)

func committee(weights ...uint64) []CommitteeMember {
	var out []CommitteeMember
	for i, w := range weights {
		pkh := primitives.PublicKeyHash{byte(i + 1)}
		out = append(out, CommitteeMember{PKH: pkh, Reputation: w})
	}
	return out
}

func TestQuorumRequiresOverTwoThirds(t *testing.T) {
	c := committee(10, 10, 10) // total 30, need matching*3 > 60 i.e. matching > 20
	s := NewState(c)
	s.Pending = Superblock{Index: 1}
	h := s.Pending.Hash()

	s.AddVote(Vote{PKH: c[0].PKH, SuperblockIndex: 1, SuperblockHash: h})
	s.AddVote(Vote{PKH: c[1].PKH, SuperblockIndex: 1, SuperblockHash: h})
	if s.QuorumReached() {
		t.Fatalf("2/3 of equal weights should not exceed strict >2/3")
	}

	s.AddVote(Vote{PKH: c[2].PKH, SuperblockIndex: 1, SuperblockHash: h})
	if !s.QuorumReached() {
		t.Fatalf("unanimous vote should reach quorum")
	}
}

func TestVoteFromNonCommitteeIgnored(t *testing.T) {
	c := committee(10, 10, 10)
	s := NewState(c)
	s.Pending = Superblock{Index: 1}
	h := s.Pending.Hash()

	stranger := primitives.PublicKeyHash{0xFF}
	s.AddVote(Vote{PKH: stranger, SuperblockIndex: 1, SuperblockHash: h})
	if s.QuorumReached() {
		t.Fatalf("a non-committee vote must not count toward quorum")
	}
}

func TestConsolidateAdvancesCheckpoint(t *testing.T) {
	c := committee(1, 1, 1)
	s := NewState(c)
	s.Pending = Superblock{Index: 7}
	h := s.Pending.Hash()
	for _, m := range c {
		s.AddVote(Vote{PKH: m.PKH, SuperblockIndex: 7, SuperblockHash: h})
	}
	if !s.Consolidate() {
		t.Fatalf("expected consolidation with unanimous committee")
	}
	if s.ConsolidatedIdx != 7 {
		t.Fatalf("ConsolidatedIdx = %d, want 7", s.ConsolidatedIdx)
	}
}

func TestRollbackAfterExtraPeriod(t *testing.T) {
	c := committee(1, 1, 1)
	s := NewState(c)
	s.Pending = Superblock{Index: 7}
	if s.Rollback(0) {
		t.Fatalf("should not roll back before one extra period elapses")
	}
	if !s.Rollback(1) {
		t.Fatalf("should roll back once an extra period elapses without quorum")
	}
}
