// Package chainstate implements the node-level synchronization state
// machine and the per-epoch rollover sequence.
package chainstate

import (
	"bytes"

	"oraclenet.dev/node/chainblock"
	"oraclenet.dev/node/primitives"
)

type Phase int

const (
	PhaseWaitingConsensus Phase = iota
	PhaseSynchronizing
	PhaseAlmostSynced
	PhaseSynced
)

func (p Phase) String() string {
	switch p {
	case PhaseWaitingConsensus:
		return "WaitingConsensus"
	case PhaseSynchronizing:
		return "Synchronizing"
	case PhaseAlmostSynced:
		return "AlmostSynced"
	case PhaseSynced:
		return "Synced"
	default:
		return "Unknown"
	}
}

// Beacon fully orders the chain.
type Beacon struct {
	Epoch         uint32
	HashPrevBlock primitives.Hash
}

// Machine owns the node's synchronization phase and the current epoch's
// best candidate block, the single-writer component §4.8 and §5
// describe.
type Machine struct {
	Phase Phase

	CurrentEpoch uint32
	Tip          Beacon

	bestCandidate      *chainblock.Block
	bestCandidateEpoch uint32

	superblockPeriod uint32
}

func NewMachine(superblockPeriod uint32) *Machine {
	return &Machine{Phase: PhaseWaitingConsensus, superblockPeriod: superblockPeriod}
}

// ObservePeerBeacons transitions WaitingConsensus -> Synchronizing once
// consensusPercent of peers agree on a beacon ahead of ours. agreeingPercent is the caller-computed agreement fraction
// (0-100) for the most popular ahead-of-tip beacon peers reported.
func (m *Machine) ObservePeerBeacons(agreeingPercent int, consensusThresholdPercent int, aheadOfTip bool) {
	if m.Phase != PhaseWaitingConsensus {
		return
	}
	if aheadOfTip && agreeingPercent >= consensusThresholdPercent {
		m.Phase = PhaseSynchronizing
	}
}

// NoteSyncProgress transitions Synchronizing -> AlmostSynced once within
// one superblock period of the reported network tip epoch, and
// AlmostSynced -> Synced once caught up entirely.
func (m *Machine) NoteSyncProgress(networkTipEpoch uint32) {
	switch m.Phase {
	case PhaseSynchronizing:
		if networkTipEpoch <= m.CurrentEpoch {
			m.Phase = PhaseSynced
		} else if networkTipEpoch-m.CurrentEpoch <= m.superblockPeriod {
			m.Phase = PhaseAlmostSynced
		}
	case PhaseAlmostSynced:
		if networkTipEpoch <= m.CurrentEpoch {
			m.Phase = PhaseSynced
		}
	}
}

// AcceptsMinedCandidates reports whether this phase mines/accepts
// candidate blocks at all.
func (m *Machine) AcceptsMinedCandidates() bool {
	return m.Phase == PhaseAlmostSynced || m.Phase == PhaseSynced
}

// PropagatesCandidates reports whether accepted candidates should be
// rebroadcast.
func (m *Machine) PropagatesCandidates() bool {
	return m.Phase == PhaseSynced
}

// OfferCandidate applies the tie-break rule of §4.8: among
// candidates for the same epoch, the lexicographically smallest block
// hash wins.
func (m *Machine) OfferCandidate(b *chainblock.Block, epoch uint32) {
	if epoch != m.CurrentEpoch {
		return
	}
	if m.bestCandidate == nil {
		m.bestCandidate = b
		m.bestCandidateEpoch = epoch
		return
	}
	if bytes.Compare(b.Hash().Bytes(), m.bestCandidate.Hash().Bytes()) < 0 {
		m.bestCandidate = b
	}
}

func (m *Machine) BestCandidate() *chainblock.Block {
	return m.bestCandidate
}

// RolloverResult reports what happened during a single epoch rollover
//.
type RolloverResult struct {
	Committed  *chainblock.Block
	NewEpoch   uint32
	Notify     bool
}

// Rollover is the chain-state part of the epoch rollover: it only decides
// whether best_candidate becomes the new tip and resets state for the next
// epoch. Snapshotting, applying the UTXO batch, mempool eviction and WIP
// vote tallying are done by the caller (node.Runtime.RolloverEpoch).
func (m *Machine) Rollover() RolloverResult {
	var committed *chainblock.Block
	if m.bestCandidate != nil && m.bestCandidateEpoch == m.CurrentEpoch {
		committed = m.bestCandidate
		m.Tip = Beacon{Epoch: m.CurrentEpoch, HashPrevBlock: committed.Hash()}
	}
	m.bestCandidate = nil
	m.CurrentEpoch++
	return RolloverResult{Committed: committed, NewEpoch: m.CurrentEpoch, Notify: committed != nil}
}
