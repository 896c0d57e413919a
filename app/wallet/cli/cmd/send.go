package cmd

import (
	"fmt"

	"github.com/ardanlabs/powledger/app/services/node/handlers/v1/public"
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var (
	sender   string
	receiver string
	amount   float64
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Sign a transaction with the account key and send it to the node",
	RunE:  sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&sender, "sender", "s", "", "Sender of the transaction, defaults to the account name.")
	sendCmd.Flags().StringVarP(&receiver, "receiver", "r", "", "Receiver of the transaction.")
	sendCmd.Flags().Float64VarP(&amount, "amount", "v", 0, "Amount to send.")
	sendCmd.MarkFlagRequired("receiver")
	sendCmd.MarkFlagRequired("amount")
}

func sendRun(cmd *cobra.Command, args []string) error {
	ks, err := openKeyStore()
	if err != nil {
		return err
	}

	privateKey, err := ks.PrivateKey(accountName)
	if err != nil {
		return err
	}

	from := sender
	if from == "" {
		from = accountName
	}

	tx, err := database.NewTransaction(from, receiver, amount)
	if err != nil {
		return err
	}

	if err := tx.Sign(privateKey); err != nil {
		return err
	}

	stx := public.SignedTx{
		Sender:    tx.Sender,
		Receiver:  tx.Receiver,
		Amount:    tx.Amount,
		TimeStamp: tx.TimeStamp,
		Signature: tx.SignatureString(),
		Hash:      tx.Hash,
	}

	var status public.Status
	if err := newClient(url).post("/v1/tx/signed", stx, &status); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", status.Status, status.Hash)
	return nil
}
