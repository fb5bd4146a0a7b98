package cmd

import (
	"fmt"
	"log"
	"net/http"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

type balance struct {
	Account     string `json:"account"`
	Name        string `json:"name"`
	Balance     int64  `json:"balance"`
	WithPending int64  `json:"with_pending"`
}

var balanceCmd = &cobra.Command{
	Use:   "balance [account]",
	Short: "Print the balance of the account, or of the private key's account",
	Args:  cobra.MaximumNArgs(1),
	Run:   balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func balanceRun(cmd *cobra.Command, args []string) {
	var account string
	switch len(args) {
	case 1:
		account = args[0]
	default:
		privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
		if err != nil {
			log.Fatal(err)
		}
		account = string(database.PublicKeyToAccountID(privateKey.PublicKey))
	}

	var bal balance
	if err := send(http.MethodGet, "/v1/balances/"+account, nil, &bal); err != nil {
		log.Fatal(err)
	}

	fmt.Println("For Account:", bal.Account, bal.Name)
	fmt.Println("Balance:", bal.Balance)
	fmt.Println("With Pending:", bal.WithPending)
}
