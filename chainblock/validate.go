package chainblock

import (
	"fmt"

	"oraclenet.dev/node/chaintx"
	"oraclenet.dev/node/primitives"
	"oraclenet.dev/node/reputation"
)

// ComputeMerkleRoots derives the per-type merkle roots from a block body
//.
func ComputeMerkleRoots(b Body) MerkleRoots {
	single := func(t *chaintx.Transaction) primitives.Hash {
		if t == nil {
			return primitives.Hash{}
		}
		return t.Hash()
	}
	list := func(txs []*chaintx.Transaction) primitives.Hash {
		hashes := make([]primitives.Hash, len(txs))
		for i, tx := range txs {
			hashes[i] = tx.Hash()
		}
		return primitives.MerkleRoot(hashes)
	}
	return MerkleRoots{
		Mint:          single(b.Mint),
		ValueTransfer: list(b.ValueTransfer),
		DataRequest:   list(b.DataRequest),
		Commit:        list(b.Commit),
		Reveal:        list(b.Reveal),
		Tally:         list(b.Tally),
		Stake:         list(b.Stake),
		Unstake:       list(b.Unstake),
	}
}

// ValidationContext carries the chain data a candidate block is checked
// against: it never mutates chain state, only reads it.
type ValidationContext struct {
	CurrentEpoch     uint32
	ExpectedVersion  uint32
	HashPrevBlock    primitives.Hash
	TRS              *reputation.TotalSet
	ARS              *reputation.ActiveSet
	BlockReward      func(epoch uint32) uint64
	SumFees          func(b Body) uint64
	MiningFloorNum   uint64
	MiningFloorDenom uint64
	DRInCommitStage  func(drPointer primitives.Hash) bool
	PriorCommitByPKH func(drPointer primitives.Hash, pkh primitives.PublicKeyHash) bool
	ExpectedTally    func(drPointer primitives.Hash) (primitives.Hash, bool)
}

// Validate runs the numbered checks of §4.7 in order, returning
// the first failure.
func Validate(b *Block, ctx ValidationContext) error {
	if err := validateHeaderShape(b, ctx); err != nil {
		return err
	}
	if err := validateMerkleRoots(b, ctx); err != nil {
		return err
	}
	if !b.BlockSig.Verify(b.Hash()) {
		return fmt.Errorf("chainblock: block signature does not verify")
	}
	if !reputation.VerifyMiningEligibility(b.BlockSig.PublicKey, ctx.TRS, b.Header.Epoch, ctx.HashPrevBlock, b.Header.Proof.VRFProof, ctx.MiningFloorNum, ctx.MiningFloorDenom) {
		return fmt.Errorf("chainblock: proof of eligibility does not verify or exceeds mining threshold")
	}
	if err := validateMint(b, ctx); err != nil {
		return err
	}
	if err := validateDataRequestReferences(b, ctx); err != nil {
		return err
	}
	return nil
}

func validateHeaderShape(b *Block, ctx ValidationContext) error {
	if b.Header.Version != ctx.ExpectedVersion {
		return fmt.Errorf("chainblock: unexpected version %d", b.Header.Version)
	}
	if b.Header.Epoch > ctx.CurrentEpoch {
		return fmt.Errorf("chainblock: epoch %d is ahead of current epoch %d", b.Header.Epoch, ctx.CurrentEpoch)
	}
	return nil
}

func validateMerkleRoots(b *Block, ctx ValidationContext) error {
	want := ComputeMerkleRoots(b.Body)
	got := b.Header.MerkleRoots
	if want != got {
		return fmt.Errorf("chainblock: merkle roots do not match transaction lists")
	}
	return nil
}

func validateMint(b *Block, ctx ValidationContext) error {
	if b.Body.Mint == nil {
		return fmt.Errorf("chainblock: block has no mint transaction")
	}
	var mintValue uint64
	for _, o := range b.Body.Mint.Outputs {
		mintValue += o.Value
	}
	want := ctx.BlockReward(b.Header.Epoch) + ctx.SumFees(b.Body)
	if mintValue != want {
		return fmt.Errorf("chainblock: mint value %d does not equal reward+fees %d", mintValue, want)
	}
	return nil
}

func validateDataRequestReferences(b *Block, ctx ValidationContext) error {
	for _, tx := range b.Body.Commit {
		if tx.Commit == nil {
			return fmt.Errorf("chainblock: commit transaction missing body")
		}
		if ctx.DRInCommitStage != nil && !ctx.DRInCommitStage(tx.Commit.DRPointer) {
			return fmt.Errorf("chainblock: commit references a data request not in the Commit stage")
		}
	}
	for _, tx := range b.Body.Reveal {
		if tx.Reveal == nil {
			return fmt.Errorf("chainblock: reveal transaction missing body")
		}
		if ctx.PriorCommitByPKH != nil && !ctx.PriorCommitByPKH(tx.Reveal.DRPointer, tx.Reveal.WitnessPKH) {
			return fmt.Errorf("chainblock: reveal has no prior commit by the same witness")
		}
	}
	for _, tx := range b.Body.Tally {
		if tx.Tally == nil {
			return fmt.Errorf("chainblock: tally transaction missing body")
		}
		if ctx.ExpectedTally != nil {
			expected, ok := ctx.ExpectedTally(tx.Tally.DRPointer)
			if !ok || expected != tx.Hash() {
				return fmt.Errorf("chainblock: tally is not the unique expected tally for its data request")
			}
		}
	}
	return nil
}
