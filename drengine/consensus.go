package drengine

import "oraclenet.dev/node/radon"

// CheckPrecondition implements §4.6.4: before tallying, enough
// commits must have revealed consistently-typed values, and the request
// must not have asked for more witnesses than the ARS can supply.
func CheckPrecondition(d *DataRequest, activeSetSize int) (outcome Outcome, achievedPercent int) {
	if int(d.Output.Witnesses) > activeSetSize && activeSetSize > 0 {
		return OutcomeTooManyWitnesses, 0
	}

	commits := d.commitsThisRound()
	if len(commits) == 0 {
		return OutcomeInsufficientReveals, 0
	}

	consistent := countConsistentReveals(d.Reveals)
	achieved := consistent * 100 / len(commits)
	if achieved < int(d.Output.MinConsensusPercent) {
		return OutcomeInsufficientConsensus, achieved
	}
	return OutcomeResolved, achieved
}

// countConsistentReveals counts reveals that decode to a non-error RADON
// value of the majority kind; reveals that fail to decode or that
// resolve to a RadonError never count toward consensus.
func countConsistentReveals(reveals []Reveal) int {
	kinds := make(map[radon.Kind]int)
	total := 0
	for _, r := range reveals {
		v, err := radon.DecodeValue(r.Value)
		if err != nil || v.Kind == radon.KindError {
			continue
		}
		kinds[v.Kind]++
		total++
	}
	if total == 0 {
		return 0
	}
	best := 0
	for _, n := range kinds {
		if n > best {
			best = n
		}
	}
	return best
}
