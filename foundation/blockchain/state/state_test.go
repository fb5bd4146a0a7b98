package state_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func ifErrFailNow(t *testing.T, err error) {
	if err != nil {
		t.Error(err)
		t.FailNow()
	}
}

func newState(t *testing.T, difficulty uint16, workers uint16) *state.State {
	gen := genesis.Default()
	gen.Difficulty = difficulty
	gen.Workers = workers

	st, err := state.New(state.Config{
		Genesis:   gen,
		EvHandler: func(v string, args ...any) { t.Logf(v, args...) },
	})
	ifErrFailNow(t, err)

	return st
}

// =============================================================================

func Test_MinePendingTransactions(t *testing.T) {
	const reward = 100

	t.Log("Given the need to mine pending transactions into blocks.")
	{
		st := newState(t, 2, 1)
		ctx := context.Background()

		t.Logf("\tTest 0:\tWhen mining two submitted transactions.")
		{
			st.SubmitTransaction(database.NewTx("A", "B", 100))
			st.SubmitTransaction(database.NewTx("B", "A", 50))

			block, err := st.MinePendingTransactions(ctx, "Miner")
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to mine a block: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to mine a block.", success)

			if n := st.RetrieveChainLength(); n != 2 {
				t.Fatalf("\t%s\tTest 0:\tShould have 2 blocks, got %d.", failed, n)
			}
			t.Logf("\t%s\tTest 0:\tShould have 2 blocks.", success)

			if block.Index != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould return the block at index 1, got %d.", failed, block.Index)
			}
			t.Logf("\t%s\tTest 0:\tShould return the block at index 1.", success)

			blocks := st.RetrieveBlocks()
			if blocks[1].PrevHash != blocks[0].Hash {
				t.Fatalf("\t%s\tTest 0:\tShould link block 1 to the genesis block.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould link block 1 to the genesis block.", success)

			if !strings.HasPrefix(blocks[1].Hash, "00") || blocks[1].Hash != block.Hash {
				t.Fatalf("\t%s\tTest 0:\tShould have a hash with 2 leading zeros: %s", failed, blocks[1].Hash)
			}
			t.Logf("\t%s\tTest 0:\tShould have a hash with 2 leading zeros.", success)

			if blocks[0].PrevHash != "0" || blocks[0].Nonce != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould have an unmined genesis block.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould have an unmined genesis block.", success)

			pending := st.RetrieveMempool()
			if len(pending) != 1 || pending[0] != database.NewRewardTx("Miner", reward) {
				t.Fatalf("\t%s\tTest 0:\tShould have only the reward pending: %v", failed, pending)
			}
			t.Logf("\t%s\tTest 0:\tShould have only the reward pending.", success)

			if !pending[0].IsReward() {
				t.Fatalf("\t%s\tTest 0:\tShould have a reward with no sender.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould have a reward with no sender.", success)
		}

		t.Logf("\tTest 1:\tWhen mining again with no new transactions.")
		{
			if _, err := st.MinePendingTransactions(ctx, "Miner"); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to mine a block: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould be able to mine a block.", success)

			if n := st.RetrieveChainLength(); n != 3 {
				t.Fatalf("\t%s\tTest 1:\tShould have 3 blocks, got %d.", failed, n)
			}
			t.Logf("\t%s\tTest 1:\tShould have 3 blocks.", success)

			trans := st.RetrieveLatestBlock().Transactions()
			if len(trans) != 1 || trans[0] != database.NewRewardTx("Miner", reward) {
				t.Fatalf("\t%s\tTest 1:\tShould have only the previous reward in the block: %v", failed, trans)
			}
			t.Logf("\t%s\tTest 1:\tShould have only the previous reward in the block.", success)

			if !st.IsChainValid() {
				t.Fatalf("\t%s\tTest 1:\tShould have a valid chain: %v", failed, st.Validate())
			}
			t.Logf("\t%s\tTest 1:\tShould have a valid chain.", success)
		}

		t.Logf("\tTest 2:\tWhen deriving balances from the chain.")
		{
			type balance struct {
				account     database.AccountID
				confirmed   int64
				withPending int64
			}

			// The first reward was mined into block 2, the second one is
			// still waiting in the mempool.
			bals := []balance{
				{account: "Miner", confirmed: 100, withPending: 2 * reward},
				{account: "A", confirmed: -50, withPending: -50},
				{account: "B", confirmed: 50, withPending: 50},
				{account: "Nobody", confirmed: 0, withPending: 0},
			}

			for _, bal := range bals {
				if got := st.QueryBalance(bal.account); got != bal.confirmed {
					t.Fatalf("\t%s\tTest 2:\tShould have a balance of %d for %s, got %d.", failed, bal.confirmed, bal.account, got)
				}
				t.Logf("\t%s\tTest 2:\tShould have a balance of %d for %s.", success, bal.confirmed, bal.account)

				if got := st.QueryBalanceWithPending(bal.account); got != bal.withPending {
					t.Fatalf("\t%s\tTest 2:\tShould have a pending balance of %d for %s, got %d.", failed, bal.withPending, bal.account, got)
				}
				t.Logf("\t%s\tTest 2:\tShould have a pending balance of %d for %s.", success, bal.withPending, bal.account)
			}
		}

		t.Logf("\tTest 3:\tWhen querying blocks by account.")
		{
			if n := len(st.QueryBlocksByAccount("A")); n != 1 {
				t.Fatalf("\t%s\tTest 3:\tShould find 1 block for A, got %d.", failed, n)
			}
			t.Logf("\t%s\tTest 3:\tShould find 1 block for A.", success)

			blocks := st.QueryBlocksByAccount("Miner")
			if len(blocks) != 1 || blocks[0].Index != 2 {
				t.Fatalf("\t%s\tTest 3:\tShould find block 2 for Miner: %v", failed, blocks)
			}
			t.Logf("\t%s\tTest 3:\tShould find block 2 for Miner.", success)

			if n := len(st.QueryBlocksByAccount("")); n != 3 {
				t.Fatalf("\t%s\tTest 3:\tShould find every block, got %d.", failed, n)
			}
			t.Logf("\t%s\tTest 3:\tShould find every block.", success)
		}
	}
}

func Test_MineDifficulty(t *testing.T) {
	type table struct {
		name       string
		difficulty uint16
		workers    uint16
	}

	tt := []table{
		{name: "zero", difficulty: 0, workers: 1},
		{name: "one", difficulty: 1, workers: 1},
		{name: "parallel", difficulty: 3, workers: 4},
	}

	for testID, tst := range tt {
		f := func(t *testing.T) {
			st := newState(t, tst.difficulty, tst.workers)

			for i := range 3 {
				st.SubmitTransaction(database.NewTx("A", "B", uint64(i+1)))

				block, err := st.MinePendingTransactions(context.Background(), "Miner")
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to mine block %d: %v", failed, testID, i+1, err)
				}

				if !database.IsHashSolved(uint(tst.difficulty), block.Hash) {
					t.Fatalf("\t%s\tTest %d:\tShould solve the puzzle for block %d: %s", failed, testID, i+1, block.Hash)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould solve the puzzle for every block.", success, testID)

			if err := st.Validate(); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould have a valid chain: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould have a valid chain.", success, testID)
		}

		t.Run(tst.name, f)
	}
}

func Test_MineCancel(t *testing.T) {
	t.Log("Given the need to cancel mining.")
	{
		st := newState(t, database.MaxDifficulty, 2)
		st.SubmitTransaction(database.NewTx("A", "B", 100))

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := st.MinePendingTransactions(ctx, "Miner")
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("\t%s\tShould get a deadline error: %v", failed, err)
		}
		t.Logf("\t%s\tShould get a deadline error.", success)

		if st.RetrieveChainLength() != 1 {
			t.Fatalf("\t%s\tShould not append a block.", failed)
		}
		t.Logf("\t%s\tShould not append a block.", success)

		pending := st.RetrieveMempool()
		if len(pending) != 1 || pending[0] != database.NewTx("A", "B", 100) {
			t.Fatalf("\t%s\tShould leave the mempool untouched: %v", failed, pending)
		}
		t.Logf("\t%s\tShould leave the mempool untouched.", success)
	}
}

func Test_MineRewardAccount(t *testing.T) {
	st := newState(t, 0, 1)

	if _, err := st.MinePendingTransactions(context.Background(), " "); err == nil {
		t.Fatalf("\t%s\tShould reject an empty reward account.", failed)
	}
	t.Logf("\t%s\tShould reject an empty reward account.", success)

	if st.RetrieveChainLength() != 1 {
		t.Fatalf("\t%s\tShould not append a block.", failed)
	}
	t.Logf("\t%s\tShould not append a block.", success)
}

func Test_Concurrency(t *testing.T) {
	t.Log("Given the need to use a chain from many goroutines.")
	{
		st := newState(t, 1, 2)

		const submitters = 4
		const txsPerSubmitter = 25
		const miners = 3

		var wg sync.WaitGroup
		var mu sync.Mutex
		indexes := make(map[int]bool)

		for range submitters {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range txsPerSubmitter {
					st.SubmitTransaction(database.NewTx("A", "B", 1))
					st.QueryBalanceWithPending("B")
					st.IsChainValid()
				}
			}()
		}

		for range miners {
			wg.Add(1)
			go func() {
				defer wg.Done()
				block, err := st.MinePendingTransactions(context.Background(), "Miner")
				if err != nil {
					t.Errorf("\t%s\tShould be able to mine: %v", failed, err)
					return
				}

				mu.Lock()
				indexes[block.Index] = true
				mu.Unlock()
			}()
		}

		wg.Wait()

		if st.RetrieveChainLength() != miners+1 {
			t.Fatalf("\t%s\tShould have %d blocks, got %d.", failed, miners+1, st.RetrieveChainLength())
		}
		t.Logf("\t%s\tShould have %d blocks.", success, miners+1)

		for i := 1; i <= miners; i++ {
			if !indexes[i] {
				t.Fatalf("\t%s\tShould return a distinct index to every miner, missing %d: %v", failed, i, indexes)
			}
		}
		t.Logf("\t%s\tShould return a distinct index to every miner.", success)

		if err := st.Validate(); err != nil {
			t.Fatalf("\t%s\tShould have a valid chain: %v", failed, err)
		}
		t.Logf("\t%s\tShould have a valid chain.", success)

		// Every submitted transaction is either mined or still pending, and
		// no transaction is mined twice.
		total := st.QueryBalanceWithPending("B")
		if total != submitters*txsPerSubmitter {
			t.Fatalf("\t%s\tShould account for every transaction once, got %d.", failed, total)
		}
		t.Logf("\t%s\tShould account for every transaction once.", success)
	}
}

func Test_SubmitTransaction(t *testing.T) {
	t.Log("Given the need to reject transactions the ledger can not hold.")
	{
		st := newState(t, 0, 1)

		t.Logf("\tTest 0:\tWhen submitting invalid transactions.")
		{
			bad := []database.Tx{
				database.NewTx("A", "B", math.MaxUint64),
				database.NewTx("A", "", 10),
				database.NewTx("A\xff", "B", 10),
			}

			for _, tx := range bad {
				if _, err := st.SubmitTransaction(tx); !errors.Is(err, database.ErrInvalidTx) {
					t.Fatalf("\t%s\tTest 0:\tShould reject %s: %v", failed, tx, err)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould reject every invalid transaction.", success)

			if n := st.QueryMempoolLength(); n != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould leave the mempool empty, got %d.", failed, n)
			}
			t.Logf("\t%s\tTest 0:\tShould leave the mempool empty.", success)
		}

		t.Logf("\tTest 1:\tWhen transfers push balances past the int64 range.")
		{
			for range 2 {
				n, err := st.SubmitTransaction(database.NewTx("A", "B", database.MaxValue))
				if err != nil {
					t.Fatalf("\t%s\tTest 1:\tShould accept the largest value: %v", failed, err)
				}
				t.Logf("\t%s\tTest 1:\tShould accept the largest value, mempool[%d].", success, n)
			}

			if _, err := st.MinePendingTransactions(context.Background(), "Miner"); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to mine a block: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould be able to mine a block.", success)

			if got := st.QueryBalance("B"); got != math.MaxInt64 {
				t.Fatalf("\t%s\tTest 1:\tShould stop the receiver at the upper bound, got %d.", failed, got)
			}
			t.Logf("\t%s\tTest 1:\tShould stop the receiver at the upper bound.", success)

			if got := st.QueryBalance("A"); got != math.MinInt64 {
				t.Fatalf("\t%s\tTest 1:\tShould stop the sender at the lower bound, got %d.", failed, got)
			}
			t.Logf("\t%s\tTest 1:\tShould stop the sender at the lower bound.", success)
		}
	}
}
