package database

import (
	"crypto/ecdsa"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
)

// Transaction is the value transfer information between two parties. The
// fields must not be changed after construction, the stored hash is what
// detects a change.
type Transaction struct {
	Sender    string  `json:"sender"`    // Identifier of the party sending the value.
	Receiver  string  `json:"receiver"`  // Identifier of the party receiving the value.
	Amount    float64 `json:"amount"`    // Value being transferred, always greater than zero.
	TimeStamp uint64  `json:"timestamp"` // Seconds since epoch when the transaction was created.
	Signature []byte  `json:"signature"` // Optional [R|S|V] signature over the hash.
	Hash      string  `json:"hash"`      // Content hash of sender, receiver, amount and timestamp.
}

// NewTransaction constructs a new transaction stamped with the current time.
func NewTransaction(sender string, receiver string, amount float64) (Transaction, error) {
	return NewTransactionAt(sender, receiver, amount, uint64(time.Now().UTC().Unix()))
}

// NewTransactionAt constructs a new transaction with the specified timestamp.
func NewTransactionAt(sender string, receiver string, amount float64, timeStamp uint64) (Transaction, error) {
	if !isPositive(amount) {
		return Transaction{}, fmt.Errorf("%w: amount must be positive, got %v", ErrInvalidArgument, amount)
	}

	if sender == "" || receiver == "" {
		return Transaction{}, fmt.Errorf("%w: sender and receiver must be non-empty", ErrInvalidArgument)
	}

	tx := Transaction{
		Sender:    sender,
		Receiver:  receiver,
		Amount:    amount,
		TimeStamp: timeStamp,
	}
	tx.Hash = tx.ContentHash()

	return tx, nil
}

// ContentHash calculates the hash over the sender, receiver, amount and
// timestamp. The signature is not part of the content.
func (tx Transaction) ContentHash() string {
	data := tx.Sender + tx.Receiver + formatAmount(tx.Amount) + strconv.FormatUint(tx.TimeStamp, 10)
	return signature.HashBytes([]byte(data))
}

// Sign uses the specified private key to sign the transaction hash. On
// failure the transaction is left without a signature change.
func (tx *Transaction) Sign(privateKey *ecdsa.PrivateKey) error {
	sig, err := signature.Sign(tx.Hash, privateKey)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrSigning, err)
	}

	tx.Signature = sig

	return nil
}

// VerifySignature reports whether the transaction carries a signature over
// the current content hash produced by the key matching the public key.
func (tx Transaction) VerifySignature(publicKey *ecdsa.PublicKey) bool {
	if len(tx.Signature) == 0 {
		return false
	}

	return signature.Verify(tx.ContentHash(), tx.Signature, publicKey)
}

// IsSigned reports whether a signature is present.
func (tx Transaction) IsSigned() bool {
	return len(tx.Signature) > 0
}

// SignerAddress extracts the account address of the key that signed the
// transaction.
func (tx Transaction) SignerAddress() (string, error) {
	if len(tx.Signature) == 0 {
		return "", ErrUnsigned
	}

	return signature.FromAddress(tx.ContentHash(), tx.Signature)
}

// IsValid reports whether the transaction is well formed and the stored hash
// matches its content. A signature is not required.
func (tx Transaction) IsValid() bool {
	if !isPositive(tx.Amount) {
		return false
	}

	if tx.Sender == "" || tx.Receiver == "" {
		return false
	}

	return tx.Hash == tx.ContentHash()
}

// SignatureString returns the signature as a string.
func (tx Transaction) SignatureString() string {
	return signature.SignatureString(tx.Signature)
}

// String implements the fmt.Stringer interface for logging.
func (tx Transaction) String() string {
	return fmt.Sprintf("%s->%s:%s:%.8s", tx.Sender, tx.Receiver, formatAmount(tx.Amount), tx.Hash)
}

// =============================================================================

// canonical returns the transaction as a map so the JSON encoding has its
// keys sorted. This is the form hashed as part of a block.
func (tx Transaction) canonical() map[string]any {
	return map[string]any{
		"amount":    tx.Amount,
		"hash":      tx.Hash,
		"receiver":  tx.Receiver,
		"sender":    tx.Sender,
		"signature": tx.SignatureString(),
		"timestamp": tx.TimeStamp,
	}
}

// formatAmount returns the shortest decimal form of the amount.
func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

// isPositive checks the amount is a finite number greater than zero.
func isPositive(amount float64) bool {
	return amount > 0 && !math.IsInf(amount, 1)
}
