package cmd

import (
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

var mineCmd = &cobra.Command{
	Use:   "mine [account]",
	Short: "Mine the pending transactions, rewarding the account or the node's miner",
	Args:  cobra.MaximumNArgs(1),
	Run:   mineRun,
}

func init() {
	rootCmd.AddCommand(mineCmd)
}

func mineRun(cmd *cobra.Command, args []string) {
	path := "/v1/mining/mine"
	if len(args) == 1 {
		path += "/" + args[0]
	}

	var resp any
	if err := send(http.MethodPost, path, nil, &resp); err != nil {
		log.Fatal(err)
	}

	if err := printJSON(resp); err != nil {
		log.Fatal(err)
	}
}
