package cmd

import (
	"fmt"

	"github.com/ardanlabs/powledger/app/services/node/handlers/v1/public"
	"github.com/spf13/cobra"
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Ask the node to mine the next block",
	RunE:  mineRun,
}

func init() {
	rootCmd.AddCommand(mineCmd)
}

func mineRun(cmd *cobra.Command, args []string) error {
	var block public.Block
	if err := newClient(url).post("/v1/blocks/mine", nil, &block); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Block mined and added")
	printBlock(cmd.OutOrStdout(), block)

	return nil
}
