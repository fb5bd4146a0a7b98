package state

import (
	"math"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
)

// QueryBalance walks every block in chain order and returns the balance of
// the specified account. Each transaction credits its amount to the to
// account and debits the same amount from the from account. Balances are
// never checked, so the balance can go negative. A balance that would leave
// the int64 range stops at the bound.
func (s *State) QueryBalance(accountID database.AccountID) int64 {
	var balance int64

	s.db.ForEach(func(_ int, block database.Block) bool {
		for _, tx := range block.Transactions() {
			balance = applyTx(balance, accountID, tx)
		}
		return true
	})

	return balance
}

// QueryBalanceWithPending returns the balance of the specified account with
// the transactions still waiting in the mempool applied.
func (s *State) QueryBalanceWithPending(accountID database.AccountID) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	balance := s.QueryBalance(accountID)
	for _, tx := range s.mempool.Copy() {
		balance = applyTx(balance, accountID, tx)
	}

	return balance
}

// QueryMempoolLength returns the current length of the mempool.
func (s *State) QueryMempoolLength() int {
	return s.mempool.Count()
}

// QueryBlocksByAccount returns the blocks holding a transaction to or from
// the specified account, keyed by their index in the chain. If the account
// is empty, all blocks are returned.
func (s *State) QueryBlocksByAccount(accountID database.AccountID) []database.BlockData {
	var out []database.BlockData

	s.db.ForEach(func(index int, block database.Block) bool {
		if accountID == "" {
			out = append(out, database.NewBlockData(index, block))
			return true
		}

		for _, tx := range block.Transactions() {
			if tx.ToID == accountID || (!tx.IsReward() && tx.FromID == accountID) {
				out = append(out, database.NewBlockData(index, block))
				break
			}
		}
		return true
	})

	return out
}

// =============================================================================

// applyTx applies the effect of the transaction on the balance of the
// specified account.
func applyTx(balance int64, accountID database.AccountID, tx database.Tx) int64 {
	value := int64(min(tx.Value, uint64(database.MaxValue)))

	if !tx.IsReward() && tx.FromID == accountID {
		balance = addBounded(balance, -value)
	}

	if tx.ToID == accountID {
		balance = addBounded(balance, value)
	}

	return balance
}

// addBounded adds the two values, stopping at the int64 bounds instead of
// wrapping around.
func addBounded(a int64, b int64) int64 {
	switch {
	case b > 0 && a > math.MaxInt64-b:
		return math.MaxInt64
	case b < 0 && a < math.MinInt64-b:
		return math.MinInt64
	}
	return a + b
}
