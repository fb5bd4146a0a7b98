package cmd

import (
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

var blocksCmd = &cobra.Command{
	Use:   "blocks [account]",
	Short: "Print the blocks holding transactions for the account, or the whole chain",
	Args:  cobra.MaximumNArgs(1),
	Run:   blocksRun,
}

func init() {
	rootCmd.AddCommand(blocksCmd)
}

func blocksRun(cmd *cobra.Command, args []string) {
	path := "/v1/blocks/list"
	if len(args) == 1 {
		path += "/" + args[0]
	}

	var resp []any
	if err := send(http.MethodGet, path, nil, &resp); err != nil {
		log.Fatal(err)
	}

	if err := printJSON(resp); err != nil {
		log.Fatal(err)
	}
}
