// Package chaintx implements the eight transaction variants: their bodies, a memoized hash cell matching the teacher's
// memoize-once-read-many pattern, and the saturating weight formulas the
// mempool and block templates use for pool accounting.
package chaintx

import (
	"sync"

	"oraclenet.dev/node/primitives"
)

// Kind discriminates the eight transaction variants.
type Kind uint8

const (
	KindValueTransfer Kind = iota
	KindDataRequest
	KindCommit
	KindReveal
	KindTally
	KindMint
	KindStake
	KindUnstake
)

// OutputPointer uniquely names a spendable position.
type OutputPointer struct {
	TxHash      primitives.Hash
	OutputIndex uint32
}

// ValueTransferOutput is a spendable value at pkh, optionally time-locked
//. TimeLock == 0 means spendable immediately.
type ValueTransferOutput struct {
	PKH      primitives.PublicKeyHash
	Value    uint64
	TimeLock uint64
}

// DataRequestOutput is the immutable descriptor posted by a DataRequest
// transaction.
type DataRequestOutput struct {
	RadonScript         []byte
	TallyScript         []byte
	Witnesses           uint16
	BackupWitnesses     uint16
	CommitFee           uint64
	RevealFee           uint64
	TallyFee            uint64
	Collateral          uint64
	MinConsensusPercent uint8
	TotalReward         uint64
}

// TxInput references a previous output by pointer only; the teacher's
// model of keeping inputs minimal and moving witness data into the
// signature vector is kept as-is.
type TxInput struct {
	Pointer OutputPointer
}

// hashCell is the memoized-hash cell §4.3 requires: computed at
// most once, read many times under a read lock, and explicitly excluded
// from equality and hashing.
type hashCell struct {
	mu     sync.RWMutex
	cached *primitives.Hash
}

func (c *hashCell) get(compute func() primitives.Hash) primitives.Hash {
	c.mu.RLock()
	if c.cached != nil {
		h := *c.cached
		c.mu.RUnlock()
		return h
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cached == nil {
		h := compute()
		c.cached = &h
	}
	return *c.cached
}

// Transaction holds every variant: Kind selects which of the kind-specific
// fields are set. Inputs and Outputs carry the inputs and outputs of
// ValueTransfer, DataRequest, Stake and Unstake transactions (and the
// outputs of Mint); the other variants keep theirs in their own body.
type Transaction struct {
	Kind Kind

	Inputs  []TxInput
	Outputs []ValueTransferOutput

	DataRequest *DataRequestOutput // non-nil only for KindDataRequest

	Commit *CommitBody // non-nil only for KindCommit
	Reveal *RevealBody // non-nil only for KindReveal
	Tally  *TallyBody  // non-nil only for KindTally
	Mint   *MintBody   // non-nil only for KindMint
	Stake  *StakeBody  // non-nil only for KindStake

	Signatures []primitives.KeyedSignature

	hash hashCell
}

// CommitBody is a witness's sealed commitment to a future reveal value
//: only the hash of the reveal is published now.
type CommitBody struct {
	DRPointer    primitives.Hash
	CommitHash   primitives.Hash
	ProofOfElig  primitives.VRFProof
	WitnessPKH   primitives.PublicKeyHash
	CollateralIn []TxInput
	ChangeOutput *ValueTransferOutput
}

// RevealBody opens a prior commit.
type RevealBody struct {
	DRPointer  primitives.Hash
	CommitHash primitives.Hash
	Reveal     []byte // CBOR-encoded RADON value, must hash to CommitHash
	WitnessPKH primitives.PublicKeyHash
}

// TallyBody is the unique transaction the DR engine emits once per data
// request, distributing rewards and fees per §4.6.2.
type TallyBody struct {
	DRPointer primitives.Hash
	Result    []byte // CBOR-encoded RADON value or error
	Outcomes  []WitnessOutcome
	Outputs   []ValueTransferOutput
}

// WitnessOutcome classifies a single witness's behavior in a finished DR
//.
type WitnessOutcomeKind uint8

const (
	OutcomeHonest WitnessOutcomeKind = iota
	OutcomeLiar
	OutcomeErrorCommitter
	OutcomeOutOfConsensus
)

type WitnessOutcome struct {
	PKH  primitives.PublicKeyHash
	Kind WitnessOutcomeKind
}

// MintBody is the unsigned, protocol-issued transaction minting the
// block reward plus collected fees.
type MintBody struct {
	Epoch uint32
}

// StakeBody locks value toward a validator's stake.
type StakeBody struct {
	Authorizer  primitives.PublicKeyHash
	Value       uint64
	ChangeValue uint64
}

// Hash returns the memoized hash of the transaction's canonical
// encoding, computing it on first call.
func (t *Transaction) Hash() primitives.Hash {
	return t.hash.get(func() primitives.Hash {
		enc, err := Encode(t)
		if err != nil {
			// Encoding a constructed Transaction never fails in practice
			// (every field is already validated at construction); a
			// degenerate hash of the error avoids a panic in a hot path.
			return primitives.SumHash([]byte(err.Error()))
		}
		return primitives.SumHash(enc)
	})
}

// Equal compares two transactions structurally, deliberately ignoring
// the hash memo cell.
func (t *Transaction) Equal(o *Transaction) bool {
	if t == nil || o == nil {
		return t == o
	}
	return t.Hash() == o.Hash()
}
