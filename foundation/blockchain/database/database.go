// Package database handles all the lower level support for maintaining the
// blockchain in memory: blocks, transactions, hashing and proof of work.
package database

import (
	"errors"
	"fmt"
	"sync"
)

// ErrBlockNotFound is returned when a block is requested by an index
// that is not part of the chain.
var ErrBlockNotFound = errors.New("block not found")

// ErrChainLinkBroken is returned when a block being written does not link
// to the latest block in the chain.
var ErrChainLinkBroken = errors.New("block does not link to the latest block")

// =============================================================================

// Database manages the chain of blocks. Blocks are only ever appended and
// index 0 always holds the genesis block.
type Database struct {
	mu     sync.RWMutex
	blocks []Block
}

// New constructs a new database holding only the specified genesis block.
func New(genesisBlock Block) *Database {
	return &Database{
		blocks: []Block{genesisBlock.clone()},
	}
}

// Write adds a new block to the end of the chain. The block must link to
// the latest block by hash.
func (db *Database) Write(block Block) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	latest := db.blocks[len(db.blocks)-1]
	if block.PrevHash != latest.Hash {
		return fmt.Errorf("%w: got %s, exp %s", ErrChainLinkBroken, block.PrevHash, latest.Hash)
	}

	db.blocks = append(db.blocks, block.clone())

	return nil
}

// LatestBlock returns the block at the tip of the chain. The chain is never
// empty since it is constructed with a genesis block.
func (db *Database) LatestBlock() Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.blocks[len(db.blocks)-1].clone()
}

// GenesisBlock returns the first block of the chain.
func (db *Database) GenesisBlock() Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.blocks[0].clone()
}

// GetBlock returns the block found at the specified index.
func (db *Database) GetBlock(index int) (Block, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if index < 0 || index >= len(db.blocks) {
		return Block{}, fmt.Errorf("%w: index %d", ErrBlockNotFound, index)
	}

	return db.blocks[index].clone(), nil
}

// Len returns the number of blocks in the chain including genesis.
func (db *Database) Len() int {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return len(db.blocks)
}

// Copy returns a copy of every block in the chain.
func (db *Database) Copy() []Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	blocks := make([]Block, len(db.blocks))
	for i, block := range db.blocks {
		blocks[i] = block.clone()
	}

	return blocks
}

// ForEach walks the chain in order from genesis to the tip. The walk stops
// when the function returns false. Writers are blocked while the walk is in
// progress, so the function must not call back into the database.
func (db *Database) ForEach(fn func(index int, block Block) bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	for i, block := range db.blocks {
		if !fn(i, block) {
			return
		}
	}
}

// Validate re-verifies every block and every link of the chain.
func (db *Database) Validate() error {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return ValidateChain(db.blocks)
}
