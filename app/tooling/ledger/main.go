// This program runs the ledger demo and talks to a running node.
package main

import "github.com/ardanlabs/powchain/app/tooling/ledger/cmd"

func main() {
	cmd.Execute()
}
