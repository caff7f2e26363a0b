package node

import (
	"fmt"

	"oraclenet.dev/node/chainblock"
	"oraclenet.dev/node/chainstate"
	"oraclenet.dev/node/chaintx"
	"oraclenet.dev/node/chainutxo"
	"oraclenet.dev/node/drengine"
	"oraclenet.dev/node/logging"
	"oraclenet.dev/node/primitives"
	"oraclenet.dev/node/radon"
	"oraclenet.dev/node/reputation"
	"oraclenet.dev/node/storekv"
)

// Runtime is the single-writer chain component §5 describes: one
// mailbox, processed strictly in arrival order, owning the chain state
// machine, the UTXO set, the mempool, the reputation engine and the
// in-flight data requests. No other component mutates any of these
// directly; every access goes through a Runtime method, which enqueues
// onto the mailbox and waits for it to run.
//
// This mirrors the teacher's actor-per-component runtime using a buffered channel mailbox
// instead of a dedicated actor framework, per §9's guidance that
// channels are an acceptable substitute as long as the single-writer
// invariant holds.
type Runtime struct {
	log *logging.Logger

	mailbox chan func()
	closed  chan struct{}

	Machine  *chainstate.Machine
	UTXO     *chainutxo.Set
	Mempool  *chainutxo.Mempool
	Total    *reputation.TotalSet
	Active   *reputation.ActiveSet
	WipVotes *reputation.WipActivation
	Store    *storekv.Store
	DataReqs map[primitives.Hash]*drengine.DataRequest

	cfg Config
}

// NewRuntime constructs a Runtime against an already-open store. The
// caller owns Store's lifecycle (Open/Close); Runtime never closes it.
func NewRuntime(cfg Config, store *storekv.Store, mempoolWeightBudget uint64, floors chainutxo.FeeFloors) *Runtime {
	return &Runtime{
		log:      logging.New(nil, logging.Chain),
		mailbox:  make(chan func(), 256),
		closed:   make(chan struct{}),
		Machine:  chainstate.NewMachine(cfg.Consensus.SuperblockPeriod),
		UTXO:     chainutxo.NewSet(),
		Mempool:  chainutxo.NewMempool(mempoolWeightBudget, floors),
		Total:    reputation.NewTotalSet(),
		Active:   reputation.NewActiveSet(int(cfg.Consensus.ActivityPeriod)),
		WipVotes: reputation.NewWipActivation(cfg.Consensus.SuperblockPeriod, 80),
		Store:    store,
		DataReqs: make(map[primitives.Hash]*drengine.DataRequest),
		cfg:      cfg,
	}
}

// Run drains the mailbox until Stop is called. Every submitted func runs
// to completion before the next one starts: the single-writer rule of
// §5.
func (r *Runtime) Run() {
	for {
		select {
		case job := <-r.mailbox:
			job()
		case <-r.closed:
			return
		}
	}
}

func (r *Runtime) Stop() {
	close(r.closed)
}

// submit enqueues job and blocks until it has run, giving callers a
// synchronous request/response feel over the async mailbox.
func (r *Runtime) submit(job func()) {
	done := make(chan struct{})
	r.mailbox <- func() {
		job()
		close(done)
	}
	<-done
}

// SubmitTransaction runs mempool admission for tx.
// Signature verification happens upstream of this call, in the caller,
// since it touches no shared state; Runtime only runs the parts that
// read/write the UTXO set and mempool under the single-writer mailbox.
func (r *Runtime) SubmitTransaction(tx *chaintx.Transaction, pendingTimestamp uint64) (err error) {
	r.submit(func() {
		err = r.Mempool.Admit(tx, r.UTXO, pendingTimestamp)
	})
	return err
}

// ValidateAndOfferCandidate runs the §4.7 block checks against b
// and, only if they all pass, offers it to the chain state machine's
// §4.8 tie-break for epoch.
func (r *Runtime) ValidateAndOfferCandidate(b *chainblock.Block, epoch uint32, ctx chainblock.ValidationContext) (err error) {
	r.submit(func() {
		if verr := chainblock.Validate(b, ctx); verr != nil {
			err = verr
			return
		}
		r.Machine.OfferCandidate(b, epoch)
	})
	return err
}

// RolloverEpoch runs the five-step epoch rollover sequence: commit best_candidate, apply its UTXO batch, evict confirmed
// and conflicting mempool transactions, tally WIP votes, and open the
// new epoch. Returns whether a block was committed.
func (r *Runtime) RolloverEpoch(batch *chainutxo.WriteBatch) (committed bool, err error) {
	r.submit(func() {
		result := r.Machine.Rollover()
		if result.Committed == nil {
			return
		}
		if batch != nil {
			if applyErr := r.UTXO.Apply(batch); applyErr != nil {
				err = fmt.Errorf("node: apply utxo batch: %w", applyErr)
				return
			}
		}
		var consolidated []chaintx.OutputPointer
		for _, tx := range result.Committed.Body.AllInOrder() {
			r.Mempool.Remove(tx.Hash())
			for _, in := range tx.Inputs {
				consolidated = append(consolidated, in.Pointer)
			}
		}
		r.Mempool.EvictConflicting(consolidated)
		r.WipVotes.ObserveBlockVersion(result.Committed.Header.Version)
		if result.NewEpoch%r.cfg.Consensus.SuperblockPeriod == 0 {
			r.WipVotes.CloseWindow()
		}
		committed = true
	})
	return committed, err
}

// CloseDataRequest runs §4.6.4's precondition check against the
// tracked request and, if it resolves, executes its tally script and
// marks it Finished. Returns the outcome and, when resolved, the tally
// result bytes and per-witness classification ready for a tally
// transaction's body.
func (r *Runtime) CloseDataRequest(pointer primitives.Hash) (outcome drengine.Outcome, result []byte, outcomes []drengine.WitnessOutcome, err error) {
	r.submit(func() {
		dr, ok := r.DataReqs[pointer]
		if !ok {
			err = fmt.Errorf("node: unknown data request %s", pointer)
			return
		}
		outcome, _ = drengine.CheckPrecondition(dr, r.Active.Len())
		if outcome != drengine.OutcomeResolved {
			return
		}
		result, outcomes = drengine.RunTally(dr, radon.ActiveWips(r.WipVotes.Active()))
		dr.Finish()
	})
	return outcome, result, outcomes, err
}
