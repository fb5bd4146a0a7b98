package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
	"github.com/spf13/cobra"
)

var (
	difficulty uint16
	workers    uint16
	reward     uint64
	verbose    bool
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the two block mining scenario in process and tamper with the result",
	Run:   demoRun,
}

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.Flags().Uint16VarP(&difficulty, "difficulty", "d", 2, "Number of leading zeros required in a block hash.")
	demoCmd.Flags().Uint16VarP(&workers, "workers", "w", 1, "Number of goroutines searching for a nonce.")
	demoCmd.Flags().Uint64VarP(&reward, "reward", "r", 100, "Reward paid for mining a block.")
	demoCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print the mining events.")
}

func demoRun(cmd *cobra.Command, args []string) {
	gen := genesis.Default()
	gen.Difficulty = difficulty
	gen.Workers = workers
	gen.MiningReward = reward

	ev := func(v string, args ...any) {
		if verbose {
			fmt.Printf(v+"\n", args...)
		}
	}

	st, err := state.New(state.Config{
		Genesis:   gen,
		EvHandler: ev,
	})
	if err != nil {
		log.Fatal(err)
	}

	const miner = database.AccountID("minerAddress")

	st.SubmitTransaction(database.NewTx("address1", "address2", 100))
	st.SubmitTransaction(database.NewTx("address2", "address1", 50))

	fmt.Println("\nMining started...")
	if _, err := st.MinePendingTransactions(context.Background(), miner); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("\nMiner's balance is %d now.\n", st.QueryBalance(miner))

	fmt.Println("\nMining started again...")
	if _, err := st.MinePendingTransactions(context.Background(), miner); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("\nMiner's balance is %d now, %d with pending.\n", st.QueryBalance(miner), st.QueryBalanceWithPending(miner))

	blocks := st.RetrieveBlocks()
	if err := printChain(blocks); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("\nIs blockchain valid? %t\n", st.IsChainValid())

	// Tamper with a copy of the chain and recompute the block hash so the
	// change is only caught by the link check.
	blocks[1].Transactions()[0].Value = 1000
	blocks[1].RecomputeHash()

	if err := printChain(blocks); err != nil {
		log.Fatal(err)
	}

	err = database.ValidateChain(blocks)
	fmt.Printf("\nIs blockchain valid? %t\n", err == nil)
	if err != nil {
		fmt.Println(err)
	}
}

func printChain(blocks []database.Block) error {
	chain := make([]database.BlockData, len(blocks))
	for i, block := range blocks {
		chain[i] = database.NewBlockData(i, block)
	}

	return printJSON(chain)
}
