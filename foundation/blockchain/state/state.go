// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"sync"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/blockchain/mempool"
)

// EventHandler defines a function that is called when events
// occur in the processing of blocks.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for automatic mining.
type Worker interface {
	Shutdown()
	SignalStartMining()
}

// =============================================================================

// Config represents the configuration required to start
// the blockchain.
type Config struct {
	Genesis   genesis.Genesis
	EvHandler EventHandler
}

// State manages the blockchain database. Mining calls are serialized so
// there is a single writer, while queries run alongside a mining search.
type State struct {
	evHandler EventHandler
	genesis   genesis.Genesis

	// Worker is set by worker.Run when automatic mining is enabled.
	Worker Worker

	// mineMu serializes mining operations. mu makes the append of a block
	// and the reset of the mempool a single step for readers.
	mineMu sync.Mutex
	mu     sync.RWMutex

	db      *database.Database
	mempool *mempool.Mempool
}

// New constructs a new blockchain holding only the genesis block.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if err := cfg.Genesis.Validate(); err != nil {
		return nil, err
	}

	// The genesis block is constructed from the genesis information and
	// is never mined.
	genesisBlock := database.NewGenesisBlock(cfg.Genesis.Date, cfg.Genesis.Payload)
	ev("state: New: genesis block[%s]", genesisBlock.Hash)

	state := State{
		evHandler: ev,
		genesis:   cfg.Genesis,
		db:        database.New(genesisBlock),
		mempool:   mempool.New(),
	}

	return &state, nil
}

// Shutdown stops the worker if one is registered.
func (s *State) Shutdown() {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	if s.Worker != nil {
		s.Worker.Shutdown()
	}
}

// Validate re-verifies every block and link in the chain and returns an
// error identifying the first failure. Use database.GetValidationError to
// inspect the failure.
func (s *State) Validate() error {
	return s.db.Validate()
}

// IsChainValid reports whether every block and link in the chain checks out.
func (s *State) IsChainValid() bool {
	return s.Validate() == nil
}
