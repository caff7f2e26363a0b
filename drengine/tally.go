package drengine

import (
	"oraclenet.dev/node/chaintx"
	"oraclenet.dev/node/radon"
)

// RunTally executes d's tally script over its reveals:
// decode every reveal into a RADON value, run the StageTally executor so
// liar-marking has the full reveal vector to compare against, and
// classify each witness's outcome. Callers call this only after
// CheckPrecondition has returned OutcomeResolved.
func RunTally(d *DataRequest, activeWips radon.ActiveWips) (result []byte, outcomes []WitnessOutcome) {
	script, err := radon.DecodeScript(d.Output.TallyScript)
	if err != nil {
		errVal := radon.NewErrorValue(radon.NewRadonError(radon.ErrUnknownOperator, radon.NewString(err.Error())))
		encoded, _ := radon.EncodeValue(errVal)
		return encoded, allLiars(d.Reveals)
	}

	values := make([]radon.Value, len(d.Reveals))
	for i, r := range d.Reveals {
		v, err := radon.DecodeValue(r.Value)
		if err != nil {
			v = radon.NewErrorValue(radon.NewRadonError(radon.ErrUnsupportedType, radon.NewString(err.Error())))
		}
		values[i] = v
	}

	executor := radon.NewExecutor(radon.StageTally, activeWips, len(values))
	final := executor.Run(script, radon.NewArray(values))
	encoded, _ := radon.EncodeValue(final)

	outcomes = make([]WitnessOutcome, 0, len(d.Reveals))
	for i, r := range d.Reveals {
		kind := chaintx.OutcomeHonest
		switch {
		case values[i].Kind == radon.KindError:
			kind = chaintx.OutcomeErrorCommitter
		case i < len(executor.Liars) && executor.Liars[i]:
			kind = chaintx.OutcomeLiar
		}
		outcomes = append(outcomes, WitnessOutcome{PKH: r.WitnessPKH, Kind: kind})
	}
	for _, pkh := range d.OutOfConsensusWitnesses() {
		outcomes = append(outcomes, WitnessOutcome{PKH: pkh, Kind: chaintx.OutcomeOutOfConsensus})
	}
	return encoded, outcomes
}

func allLiars(reveals []Reveal) []WitnessOutcome {
	out := make([]WitnessOutcome, len(reveals))
	for i, r := range reveals {
		out[i] = WitnessOutcome{PKH: r.WitnessPKH, Kind: chaintx.OutcomeLiar}
	}
	return out
}

// WitnessOutcome mirrors chaintx.WitnessOutcome so drengine does not need
// to import chaintx for every caller; the tally transaction is built by
// converting this slice 1:1.
type WitnessOutcome = chaintx.WitnessOutcome
