package cmd

import (
	"fmt"

	"github.com/ardanlabs/powledger/app/services/node/handlers/v1/public"
	"github.com/spf13/cobra"
)

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Print the transactions waiting to be mined",
	RunE:  pendingRun,
}

var clearPending bool

func init() {
	rootCmd.AddCommand(pendingCmd)
	pendingCmd.Flags().BoolVar(&clearPending, "clear", false, "Remove every pending transaction.")
}

func pendingRun(cmd *cobra.Command, args []string) error {
	c := newClient(url)

	if clearPending {
		var status public.Status
		if err := c.delete("/v1/tx/pending", &status); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), status.Status)
		return nil
	}

	var trans []public.Tx
	if err := c.get("/v1/tx/pending", &trans); err != nil {
		return err
	}

	for _, tx := range trans {
		printTx(cmd.OutOrStdout(), tx)
	}

	return nil
}
