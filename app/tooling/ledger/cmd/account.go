package cmd

import (
	"fmt"
	"log"
	"sort"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/nameservice"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var allAccounts bool

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Print the name and account id of the private key, or of every key with --all",
	Run:   accountRun,
}

func init() {
	rootCmd.AddCommand(accountCmd)
	accountCmd.Flags().BoolVar(&allAccounts, "all", false, "List every named account in the account path.")
}

func accountRun(cmd *cobra.Command, args []string) {
	if allAccounts {
		lines, err := namedAccounts(accountPath)
		if err != nil {
			log.Fatal(err)
		}

		for _, line := range lines {
			fmt.Println(line)
		}
		return
	}

	privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%s\t%s\n", accountName, database.PublicKeyToAccountID(privateKey.PublicKey))
}

// namedAccounts returns a "name<TAB>account" line for every private key in
// the folder, ordered by name. These names are what the node accepts in
// place of an account id.
func namedAccounts(folder string) ([]string, error) {
	ns, err := nameservice.New(folder)
	if err != nil {
		return nil, err
	}

	var lines []string
	for account, name := range ns.Copy() {
		lines = append(lines, fmt.Sprintf("%s\t%s", name, account))
	}
	sort.Strings(lines)

	return lines, nil
}
