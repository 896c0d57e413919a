package cmd

import (
	"bufio"
	"context"
	"crypto/ecdsa"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var menuDifficulty uint

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Run an interactive ledger in this process",
	RunE:  menuRun,
}

func init() {
	rootCmd.AddCommand(menuCmd)
	menuCmd.Flags().UintVarP(&menuDifficulty, "difficulty", "d", 4, "Number of leading zeros a block hash needs.")
}

func menuRun(cmd *cobra.Command, args []string) error {
	st, err := state.New(state.Config{Difficulty: menuDifficulty})
	if err != nil {
		return err
	}
	defer st.Shutdown()

	// Sign with the account key when there is one, a session key otherwise.
	var privateKey *ecdsa.PrivateKey
	if ks, err := openKeyStore(); err == nil {
		privateKey, _ = ks.PrivateKey(accountName)
	}
	if privateKey == nil {
		if privateKey, err = crypto.GenerateKey(); err != nil {
			return err
		}
	}

	m := menu{
		state:      st,
		privateKey: privateKey,
		in:         bufio.NewScanner(cmd.InOrStdin()),
		out:        cmd.OutOrStdout(),
	}

	return m.run(cmd.Context())
}

// =============================================================================

// menu drives a ledger from a line based interactive session.
type menu struct {
	state      *state.State
	privateKey *ecdsa.PrivateKey
	in         *bufio.Scanner
	out        io.Writer
}

func (m menu) run(ctx context.Context) error {
	for {
		fmt.Fprintln(m.out, "\n=== Ledger Menu ===")
		fmt.Fprintln(m.out, "1. Show the chain")
		fmt.Fprintln(m.out, "2. Create a transaction")
		fmt.Fprintln(m.out, "3. Show pending transactions")
		fmt.Fprintln(m.out, "4. Mine a block")
		fmt.Fprintln(m.out, "5. Validate the chain")
		fmt.Fprintln(m.out, "6. Quit")

		choice, ok := m.prompt("Enter your choice (1-6): ")
		if !ok {
			return m.in.Err()
		}

		switch choice {
		case "1":
			m.showChain()
		case "2":
			m.createTransaction()
		case "3":
			m.showPending()
		case "4":
			m.mineBlock(ctx)
		case "5":
			m.validate()
		case "6":
			fmt.Fprintln(m.out, "Quitting...")
			return nil
		default:
			fmt.Fprintln(m.out, "Invalid choice, please try again.")
		}
	}
}

func (m menu) prompt(label string) (string, bool) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m menu) showChain() {
	fmt.Fprintln(m.out, "\nState of the chain:")
	for _, block := range m.state.RetrieveBlocks() {
		fmt.Fprintf(m.out, "Block #%d:\n", block.Number)
		fmt.Fprintf(m.out, "  Hash: %s\n", block.Hash)
		fmt.Fprintf(m.out, "  Previous Hash: %s\n", block.PrevBlockHash)
		for _, tx := range block.Transactions {
			fmt.Fprintf(m.out, "  Transaction: %s\n", tx)
		}
	}
}

func (m menu) createTransaction() {
	sender, _ := m.prompt("Sender: ")
	receiver, _ := m.prompt("Receiver: ")
	value, _ := m.prompt("Amount: ")

	amount, err := strconv.ParseFloat(value, 64)
	if err != nil {
		fmt.Fprintf(m.out, "Error: invalid amount %q\n", value)
		return
	}

	tx, err := database.NewTransaction(sender, receiver, amount)
	if err != nil {
		fmt.Fprintf(m.out, "Error: %s\n", err)
		return
	}

	if err := tx.Sign(m.privateKey); err != nil {
		fmt.Fprintf(m.out, "Error: %s\n", err)
		return
	}

	if err := m.state.SubmitTransaction(tx); err != nil {
		fmt.Fprintln(m.out, "Invalid transaction")
		return
	}

	fmt.Fprintln(m.out, "Transaction added")
}

func (m menu) showPending() {
	fmt.Fprintln(m.out, "\nPending transactions:")
	for _, tx := range m.state.RetrieveMempool() {
		fmt.Fprintf(m.out, "Transaction: %s\n", tx)
	}
}

func (m menu) mineBlock(ctx context.Context) {
	block, err := m.state.MineNextBlock(ctx)
	if err != nil {
		fmt.Fprintf(m.out, "Mining failed: %s\n", err)
		return
	}

	fmt.Fprintf(m.out, "Block #%d mined and added: %s\n", block.Number, block.Hash)
}

func (m menu) validate() {
	if err := m.state.ValidateChain(); err != nil {
		fmt.Fprintf(m.out, "The chain is invalid: %s\n", err)
		return
	}

	fmt.Fprintln(m.out, "The chain is valid")
}
