// Package mempool maintains the pool of transactions waiting to be mined.
package mempool

import (
	"sync"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
)

// Mempool represents an ordered cache of transactions waiting to be
// committed to a block. Transactions keep the order they were added in
// since a block commits to the order of its transactions.
type Mempool struct {
	pool []database.Tx
	mu   sync.RWMutex
}

// New constructs a new empty mempool.
func New() *Mempool {
	return &Mempool{}
}

// Count returns the current number of transactions in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Add appends a transaction to the end of the pool and returns the new
// number of transactions in the pool. No validation is performed.
func (mp *Mempool) Add(tx database.Tx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(mp.pool, tx)

	return len(mp.pool)
}

// Copy returns the transactions in the pool in the order they were added.
func (mp *Mempool) Copy() []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	trans := make([]database.Tx, len(mp.pool))
	copy(trans, mp.pool)

	return trans
}

// Consume removes the first n transactions, which have been committed to a
// block, and places the specified transactions at the front of the pool.
// Transactions added after the block was assembled stay in the pool behind
// them.
func (mp *Mempool) Consume(n int, front ...database.Tx) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	n = min(max(n, 0), len(mp.pool))

	pool := make([]database.Tx, 0, len(front)+len(mp.pool)-n)
	pool = append(pool, front...)
	pool = append(pool, mp.pool[n:]...)

	mp.pool = pool
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = nil
}
