package drengine

import (
	"testing"

	"oraclenet.dev/node/chaintx"
	"oraclenet.dev/node/primitives"
	"oraclenet.dev/node/radon"
)

func pkh(b byte) primitives.PublicKeyHash {
	var p primitives.PublicKeyHash
	p[0] = b
	return p
}

func TestDataRequestLifecycleHappyPath(t *testing.T) {
	dro := chaintx.DataRequestOutput{Witnesses: 2, MinConsensusPercent: 51, TotalReward: 200, RevealFee: 5, CommitFee: 3, TallyFee: 1}
	dr := NewDataRequest(primitives.SumHash([]byte("dr")), dro)
	dr.Post()
	if dr.State != StateCommit {
		t.Fatalf("expected Commit state after Post, got %v", dr.State)
	}

	if !dr.AddCommit(Commit{WitnessPKH: pkh(1), CommitHash: primitives.SumHash([]byte("c1"))}) {
		t.Fatal("expected commit 1 to be accepted")
	}
	if !dr.AddCommit(Commit{WitnessPKH: pkh(2), CommitHash: primitives.SumHash([]byte("c2"))}) {
		t.Fatal("expected commit 2 to be accepted")
	}

	outcome := dr.CloseCommitRound(2)
	if outcome != OutcomeResolved || dr.State != StateReveal {
		t.Fatalf("expected resolved commit round into Reveal, got state=%v outcome=%v", dr.State, outcome)
	}

	v1, _ := radon.EncodeValue(radon.NewFloat(42.0))
	v2, _ := radon.EncodeValue(radon.NewFloat(42.0))
	if !dr.AddReveal(Reveal{WitnessPKH: pkh(1), Value: v1}) {
		t.Fatal("expected reveal 1 to be accepted")
	}
	if !dr.AddReveal(Reveal{WitnessPKH: pkh(2), Value: v2}) {
		t.Fatal("expected reveal 2 to be accepted")
	}

	if !dr.CloseRevealRound(false) {
		t.Fatal("expected reveal round to close once every committer revealed")
	}
	if dr.State != StateTally {
		t.Fatalf("expected Tally state, got %v", dr.State)
	}

	outcome, achieved := CheckPrecondition(dr, 10)
	if outcome != OutcomeResolved {
		t.Fatalf("expected resolved precondition, got %v (achieved=%d)", outcome, achieved)
	}

	liars := []bool{false, false}
	dist := Distribute(dr, liars, pkh(99))
	if len(dist.Outputs) == 0 {
		t.Fatal("expected distribution to produce outputs")
	}
	dr.Finish()
	if dr.State != StateFinished {
		t.Fatal("expected Finished state")
	}
}

func TestInsufficientCommitsYieldsTally(t *testing.T) {
	dro := chaintx.DataRequestOutput{Witnesses: 5, MinConsensusPercent: 51}
	dr := NewDataRequest(primitives.SumHash([]byte("dr2")), dro)
	dr.Post()
	dr.AddCommit(Commit{WitnessPKH: pkh(1)})

	outcome := dr.CloseCommitRound(0)
	if outcome != OutcomeInsufficientCommits {
		t.Fatalf("expected InsufficientCommits, got %v", outcome)
	}
	if dr.State != StateTally {
		t.Fatalf("expected Tally state on exhausted rounds, got %v", dr.State)
	}
}

func TestOutOfConsensusWitnessesForfeitCollateral(t *testing.T) {
	dro := chaintx.DataRequestOutput{Witnesses: 2, MinConsensusPercent: 51, Collateral: 10}
	dr := NewDataRequest(primitives.SumHash([]byte("dr3")), dro)
	dr.Post()
	dr.AddCommit(Commit{WitnessPKH: pkh(1)})
	dr.AddCommit(Commit{WitnessPKH: pkh(2)})
	dr.CloseCommitRound(2)

	v1, _ := radon.EncodeValue(radon.NewFloat(1.0))
	dr.AddReveal(Reveal{WitnessPKH: pkh(1), Value: v1})
	dr.CloseRevealRound(true)

	missing := dr.OutOfConsensusWitnesses()
	if len(missing) != 1 || missing[0] != pkh(2) {
		t.Fatalf("expected pkh(2) to be out of consensus, got %v", missing)
	}

	dist := Distribute(dr, []bool{false}, pkh(99))
	if dist.Burned != dro.Collateral {
		t.Fatalf("expected pkh(2)'s collateral %d to be burned, got %d", dro.Collateral, dist.Burned)
	}
}
