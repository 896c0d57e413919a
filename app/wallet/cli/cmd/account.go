package cmd

import (
	"fmt"

	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
	"github.com/spf13/cobra"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Print the address for the account, or every stored account",
	RunE:  accountRun,
}

var listAccounts bool

func init() {
	rootCmd.AddCommand(accountCmd)
	accountCmd.Flags().BoolVarP(&listAccounts, "list", "l", false, "List every stored account.")
}

func accountRun(cmd *cobra.Command, args []string) error {
	ks, err := openKeyStore()
	if err != nil {
		return err
	}

	names := []string{accountName}
	if listAccounts {
		names = ks.Names()
	}

	for _, name := range names {
		privateKey, err := ks.PrivateKey(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, signature.PublicKeyToAddress(privateKey.PublicKey))
	}

	return nil
}
