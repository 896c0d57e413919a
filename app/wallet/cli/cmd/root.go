// Package cmd contains the wallet app commands.
package cmd

import (
	"os"

	"github.com/ardanlabs/powledger/foundation/keystore"
	"github.com/spf13/cobra"
)

var (
	accountName string
	keyFolder   string
	url         string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&accountName, "account", "a", "private", "Name of the key in the key folder.")
	rootCmd.PersistentFlags().StringVarP(&keyFolder, "key-folder", "k", "zblock/keys/", "Path to the directory with private keys.")
	rootCmd.PersistentFlags().StringVarP(&url, "url", "u", "http://localhost:8080", "Url of the node.")
}

var rootCmd = &cobra.Command{
	Use:          "wallet",
	Short:        "Simple wallet for the proof of work ledger",
	SilenceUsage: true,
}

// Execute runs the wallet command line.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func openKeyStore() (*keystore.KeyStore, error) {
	return keystore.New(keyFolder)
}
