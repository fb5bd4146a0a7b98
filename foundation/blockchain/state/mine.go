package state

import (
	"context"
	"fmt"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
)

// MinePendingTransactions packages every transaction in the mempool into a
// new block that links to the latest block, performs the proof of work,
// and appends the block to the chain. The mempool is then reset to hold
// the reward for the specified account. The search can be cancelled with
// the context, in which case nothing changes. The block is returned with
// the index it was appended at.
func (s *State) MinePendingTransactions(ctx context.Context, rewardID database.AccountID) (database.BlockData, error) {
	rewardID, err := database.ToAccountID(string(rewardID))
	if err != nil {
		return database.BlockData{}, fmt.Errorf("reward account: %w", err)
	}

	s.mineMu.Lock()
	defer s.mineMu.Unlock()

	s.evHandler("state: MinePendingTransactions: MINING: started: reward[%s]", rewardID)
	defer s.evHandler("state: MinePendingTransactions: MINING: completed")

	trans := s.mempool.Copy()
	latest := s.db.LatestBlock()

	s.evHandler("state: MinePendingTransactions: MINING: perform POW: txs[%d]", len(trans))

	block := database.NewBlock(time.Now(), trans, latest.Hash)
	if err := block.Mine(ctx, uint(s.genesis.Difficulty), s.genesis.MiningWorkers(), database.EventHandler(s.evHandler)); err != nil {
		return database.BlockData{}, err
	}

	s.evHandler("state: MinePendingTransactions: MINING: update local state")

	index, err := s.commit(block, len(trans), database.NewRewardTx(rewardID, s.genesis.MiningReward))
	if err != nil {
		return database.BlockData{}, err
	}

	return database.NewBlockData(index, block), nil
}

// =============================================================================

// commit appends the mined block to the chain, replaces the transactions it
// committed with the reward for the next block, and returns the index the
// block was appended at.
func (s *State) commit(block database.Block, mined int, reward database.Tx) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Write(block); err != nil {
		return 0, err
	}
	index := s.db.Len() - 1

	s.mempool.Consume(mined, reward)

	s.evHandler("state: commit: blk[%d]: hash[%s]: reward tx[%s]", index, block.Hash, reward)

	return index, nil
}
