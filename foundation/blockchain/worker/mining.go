package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
)

// miningOperations handles mining.
func (w *Worker) miningOperations() {
	w.evHandler("worker: miningOperations: G started")
	defer w.evHandler("worker: miningOperations: G completed")

	for {
		select {
		case <-w.startMining:
			if !w.isShutdown() {
				w.runMiningOperation()
			}
		case <-w.shut:
			w.evHandler("worker: miningOperations: received shut signal")
			return
		}
	}
}

// runMiningOperation mines the mempool into a new block when it holds at
// least one transaction that is not a mining reward. A pool holding only the
// reward from the previous block is left for the next submission.
func (w *Worker) runMiningOperation() {
	w.evHandler("worker: runMiningOperation: MINING: started")
	defer w.evHandler("worker: runMiningOperation: MINING: completed")

	if !hasTransactions(w.state.RetrieveMempool()) {
		w.evHandler("worker: runMiningOperation: MINING: no transactions to mine: Txs[%d]", w.state.QueryMempoolLength())
		return
	}

	// After running a mining operation, check if a new operation should
	// be signaled again.
	defer func() {
		if !w.isShutdown() && hasTransactions(w.state.RetrieveMempool()) {
			w.evHandler("worker: runMiningOperation: MINING: signal new mining operation")
			w.SignalStartMining()
		}
	}()

	// Can't return from this function until the cancel G is complete.
	var wg sync.WaitGroup
	defer wg.Wait()

	// Create a context so mining can be cancelled on shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wg.Add(1)
	go func() {
		defer wg.Done()

		select {
		case <-w.shut:
			w.evHandler("worker: runMiningOperation: MINING: CANCEL: requested")
			cancel()
		case <-ctx.Done():
		}
	}()

	block, err := w.state.MinePendingTransactions(ctx, w.rewardID)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			w.evHandler("worker: runMiningOperation: MINING: CANCEL: complete")
		default:
			w.evHandler("worker: runMiningOperation: MINING: ERROR: %s", err)
		}
		return
	}

	w.evHandler("worker: runMiningOperation: MINING: block mined: blk[%d]: hash[%s]", block.Index, block.Hash)
}

// hasTransactions reports whether the pool holds anything besides rewards.
func hasTransactions(trans []database.Tx) bool {
	for _, tx := range trans {
		if !tx.IsReward() {
			return true
		}
	}
	return false
}
