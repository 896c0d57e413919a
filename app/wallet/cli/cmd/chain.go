package cmd

import (
	"fmt"
	"io"

	"github.com/ardanlabs/powledger/app/services/node/handlers/v1/public"
	"github.com/spf13/cobra"
)

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Print the state of the chain",
	RunE:  chainRun,
}

func init() {
	rootCmd.AddCommand(chainCmd)
}

func chainRun(cmd *cobra.Command, args []string) error {
	var chain public.Chain
	if err := newClient(url).get("/v1/chain", &chain); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Length: %d  Difficulty: %d  Pending: %d  Signatures: %s\n", chain.Length, chain.Difficulty, chain.Pending, chain.SignaturePolicy)
	for _, block := range chain.Blocks {
		printBlock(w, block)
	}

	return nil
}

func printBlock(w io.Writer, block public.Block) {
	fmt.Fprintf(w, "Block #%d:\n", block.Number)
	fmt.Fprintf(w, "  Hash:          %s\n", block.Hash)
	fmt.Fprintf(w, "  Previous Hash: %s\n", block.PrevBlockHash)
	fmt.Fprintf(w, "  Nonce:         %d\n", block.Nonce)
	for _, tx := range block.Transactions {
		fmt.Fprintf(w, "  Tx: ")
		printTx(w, tx)
	}
}

func printTx(w io.Writer, tx public.Tx) {
	signed := "unsigned"
	if tx.Signature != "" {
		signed = "signed"
	}
	fmt.Fprintf(w, "%s -> %s amount[%v] ts[%d] hash[%s] %s\n", tx.Sender, tx.Receiver, tx.Amount, tx.TimeStamp, tx.Hash, signed)
}
