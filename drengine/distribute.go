package drengine

import (
	"oraclenet.dev/node/chaintx"
	"oraclenet.dev/node/primitives"
)

// Distribution is the fee/reward/collateral split a tally transaction
// carries: reward per honest witness, commit_fee to
// every committer, reveal_fee to every revealer, tally_fee to the block
// producer, and remaining collateral either burned or returned.
type Distribution struct {
	Outputs []chaintx.ValueTransferOutput
	Burned  uint64
}

// Distribute computes a tally's payout given the liar vector RADON
// produced: liars[i] corresponds to d.Reveals[i].
// Only the liars vector decides reward: every reveal it does not mark,
// including one whose value is a RADON error, is rewarded.
// out_of_consensus witnesses have no reveal and so receive no reward.
func Distribute(d *DataRequest, liars []bool, blockProducerPKH primitives.PublicKeyHash) Distribution {
	commits := d.commitsThisRound()
	outOfConsensus := make(map[primitives.PublicKeyHash]bool)
	for _, pkh := range d.OutOfConsensusWitnesses() {
		outOfConsensus[pkh] = true
	}

	var dist Distribution
	honestCount := 0
	for i := range d.Reveals {
		isLiar := i < len(liars) && liars[i]
		if !isLiar {
			honestCount++
		}
	}

	perWitnessReward := uint64(0)
	if honestCount > 0 {
		perWitnessReward = d.Output.TotalReward / uint64(honestCount)
	}

	for i, r := range d.Reveals {
		isLiar := i < len(liars) && liars[i]
		dist.Outputs = append(dist.Outputs, chaintx.ValueTransferOutput{
			PKH:   r.WitnessPKH,
			Value: d.Output.RevealFee,
		})
		if !isLiar {
			dist.Outputs = append(dist.Outputs, chaintx.ValueTransferOutput{
				PKH:   r.WitnessPKH,
				Value: perWitnessReward + d.Output.Collateral,
			})
		} else {
			dist.Burned += d.Output.Collateral
		}
	}

	for _, c := range commits {
		dist.Outputs = append(dist.Outputs, chaintx.ValueTransferOutput{
			PKH:   c.WitnessPKH,
			Value: d.Output.CommitFee,
		})
		if outOfConsensus[c.WitnessPKH] {
			dist.Burned += d.Output.Collateral
		}
	}

	dist.Outputs = append(dist.Outputs, chaintx.ValueTransferOutput{
		PKH:   blockProducerPKH,
		Value: d.Output.TallyFee,
	})
	return dist
}

// DistributeInsufficientConsensus returns every collateral to its
// committer and pays no reward.
func DistributeInsufficientConsensus(d *DataRequest) Distribution {
	var dist Distribution
	for _, c := range d.commitsThisRound() {
		dist.Outputs = append(dist.Outputs, chaintx.ValueTransferOutput{
			PKH:   c.WitnessPKH,
			Value: d.Output.Collateral,
		})
	}
	return dist
}
