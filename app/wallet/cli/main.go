// This program is a wallet for the proof of work ledger. It manages keys,
// signs transactions and talks to a node.
package main

import "github.com/ardanlabs/powledger/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
