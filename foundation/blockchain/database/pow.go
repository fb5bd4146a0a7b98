package database

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"sync"
)

// EventHandler defines a function that is called when events occur
// while processing blocks.
type EventHandler func(v string, args ...any)

// MaxDifficulty is the largest difficulty a block hash can satisfy.
const MaxDifficulty = hashLength

// attemptsReport is the number of attempts a worker makes between
// progress events.
const attemptsReport = 1_000_000

// =============================================================================

// Mine does the work of finding a nonce that solves the hash puzzle for the
// specified difficulty. Pointer semantics are being used since the nonce and
// hash are discovered. The search is spread across the specified number of
// workers, each scanning its own lane of nonce values. The first worker to
// find a solution wins and the rest are cancelled. The block is only changed
// when a solution is found.
func (b *Block) Mine(ctx context.Context, difficulty uint, workers int, ev EventHandler) error {
	if ev == nil {
		ev = func(string, ...any) {}
	}

	if difficulty > MaxDifficulty {
		return fmt.Errorf("difficulty %d exceeds max difficulty %d", difficulty, MaxDifficulty)
	}

	// A block that can't be encoded has no hash to solve for.
	if _, err := b.canonicalEncoding(); err != nil {
		return fmt.Errorf("encoding block: %w", err)
	}

	if workers < 1 {
		workers = 1
	}

	ev("database: Mine: MINING: started: difficulty[%d] workers[%d]", difficulty, workers)
	defer ev("database: Mine: MINING: completed")

	for _, tx := range b.Transactions() {
		ev("database: Mine: MINING: tx[%s]", tx)
	}

	// Choose a random starting point for the nonce. Each worker then walks
	// its own lane so no two workers hash the same nonce.
	start := randomNonce()

	type solution struct {
		nonce uint64
		hash  string
	}

	searchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	solved := make(chan solution, 1)

	var wg sync.WaitGroup
	wg.Add(workers)

	for lane := range workers {
		go func(lane int) {
			defer wg.Done()

			nb := *b
			nb.Nonce = start + uint64(lane)
			step := uint64(workers)

			var attempts uint64
			for {
				if searchCtx.Err() != nil {
					return
				}

				hash := nb.CalculateHash()
				if IsHashSolved(difficulty, hash) {
					select {
					case solved <- solution{nonce: nb.Nonce, hash: hash}:
						cancel()
					default:
					}
					return
				}

				nb.Nonce += step

				attempts++
				if attempts%attemptsReport == 0 {
					ev("database: Mine: MINING: worker[%d]: attempts[%d]", lane, attempts)
				}
			}
		}(lane)
	}

	wg.Wait()

	select {
	case s := <-solved:
		b.Nonce = s.nonce
		b.Hash = s.hash
		ev("database: Mine: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: nonce[%d]", b.PrevHash, b.Hash, b.Nonce)
		return nil

	default:
		ev("database: Mine: MINING: CANCELLED")
		return ctx.Err()
	}
}

// randomNonce returns a random starting nonce. If the random source fails
// the search starts from zero.
func randomNonce() uint64 {
	nBig, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return 0
	}
	return nBig.Uint64()
}
