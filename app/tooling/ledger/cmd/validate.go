package cmd

import (
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Ask the node to verify its chain",
	Run:   validateRun,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateRun(cmd *cobra.Command, args []string) {
	var resp struct {
		Valid  bool   `json:"valid"`
		Length int    `json:"length"`
		Index  int    `json:"index"`
		Kind   string `json:"kind"`
		Error  string `json:"error"`
	}
	if err := send(http.MethodGet, "/v1/chain/validate", nil, &resp); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Is blockchain valid? %t (%d blocks)\n", resp.Valid, resp.Length)
	if !resp.Valid {
		fmt.Printf("Block %d failed: %s\n", resp.Index, resp.Error)
	}
}
