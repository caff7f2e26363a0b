// Package chainblock implements the block header, body, and the
// validation sequence new blocks must pass before being offered as
// candidates.
package chainblock

import (
	"sync"

	"oraclenet.dev/node/chaintx"
	"oraclenet.dev/node/primitives"
)

const MagicNumber uint32 = 0x57415443 // "WATC": Witnessing and Tallying Chain

// ProofOfEligibility is the VRF proof authorizing a miner to propose a
// block for a given epoch.
type ProofOfEligibility struct {
	LeadershipPKH primitives.PublicKeyHash
	VRFProof      primitives.VRFProof
	VRFOutput     primitives.Hash
}

// MerkleRoots collects the per-type transaction merkle roots the header
// commits to.
type MerkleRoots struct {
	Mint          primitives.Hash
	ValueTransfer primitives.Hash
	DataRequest   primitives.Hash
	Commit        primitives.Hash
	Reveal        primitives.Hash
	Tally         primitives.Hash
	Stake         primitives.Hash
	Unstake       primitives.Hash
}

type Header struct {
	Version       uint32
	Epoch         uint32
	HashPrevBlock primitives.Hash
	MerkleRoots   MerkleRoots
	Proof         ProofOfEligibility
}

// Body is the canonically ordered bag of transactions: [mint, value_transfers, data_requests, commits, reveals,
// tallies, stakes, unstakes].
type Body struct {
	Mint          *chaintx.Transaction
	ValueTransfer []*chaintx.Transaction
	DataRequest   []*chaintx.Transaction
	Commit        []*chaintx.Transaction
	Reveal        []*chaintx.Transaction
	Tally         []*chaintx.Transaction
	Stake         []*chaintx.Transaction
	Unstake       []*chaintx.Transaction
}

// AllInOrder returns every transaction in the block's canonical order,
// the exact sequence hashed into the merkle roots and serialized on the
// wire.
func (b Body) AllInOrder() []*chaintx.Transaction {
	out := make([]*chaintx.Transaction, 0, 1+len(b.ValueTransfer)+len(b.DataRequest)+len(b.Commit)+len(b.Reveal)+len(b.Tally)+len(b.Stake)+len(b.Unstake))
	if b.Mint != nil {
		out = append(out, b.Mint)
	}
	out = append(out, b.ValueTransfer...)
	out = append(out, b.DataRequest...)
	out = append(out, b.Commit...)
	out = append(out, b.Reveal...)
	out = append(out, b.Tally...)
	out = append(out, b.Stake...)
	out = append(out, b.Unstake...)
	return out
}

type Block struct {
	Header   Header
	Body     Body
	BlockSig primitives.KeyedSignature

	hashMu    sync.RWMutex
	hashCache *primitives.Hash
}

// Hash returns the memoized hash of the block header.
func (b *Block) Hash() primitives.Hash {
	b.hashMu.RLock()
	if b.hashCache != nil {
		h := *b.hashCache
		b.hashMu.RUnlock()
		return h
	}
	b.hashMu.RUnlock()

	b.hashMu.Lock()
	defer b.hashMu.Unlock()
	if b.hashCache == nil {
		h := HashHeader(b.Header)
		b.hashCache = &h
	}
	return *b.hashCache
}

// HashHeader hashes the header's canonical encoding.
func HashHeader(h Header) primitives.Hash {
	return primitives.SumHash(EncodeHeader(h))
}
