package cmd

import (
	"fmt"

	"github.com/ardanlabs/powledger/app/services/node/handlers/v1/public"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Ask the node to validate the chain",
	RunE:  validateRun,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateRun(cmd *cobra.Command, args []string) error {
	var val public.Validation
	if err := newClient(url).get("/v1/chain/validate", &val); err != nil {
		return err
	}

	if !val.Valid {
		return fmt.Errorf("chain of %d blocks is invalid: %s", val.Length, val.Error)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "chain of %d blocks is valid\n", val.Length)
	return nil
}
