package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ardanlabs/powledger/foundation/blockchain/pow"
	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
)

// MaxDifficulty is the largest difficulty that can be solved since a hash
// only has this many hex characters.
const MaxDifficulty = signature.HashLength

// Block represents a group of transactions batched together.
type Block struct {
	Number        uint64        `json:"number"`          // Position of the block in the chain.
	PrevBlockHash string        `json:"prev_block_hash"` // Hash of the previous block in the chain.
	TimeStamp     uint64        `json:"timestamp"`       // Seconds since epoch when the block was created.
	Nonce         uint64        `json:"nonce"`           // Value identified to solve the hash solution.
	Transactions  []Transaction `json:"transactions"`    // Ordered set of transactions in the block.
	Hash          string        `json:"hash"`            // Hash of the header fields and the transactions.
}

// NewBlock constructs a block with a nonce of zero and calculates its hash.
// The transactions are not validated.
func NewBlock(number uint64, trans []Transaction, prevBlockHash string, timeStamp uint64) Block {
	cpy := make([]Transaction, len(trans))
	copy(cpy, trans)

	b := Block{
		Number:        number,
		PrevBlockHash: prevBlockHash,
		TimeStamp:     timeStamp,
		Transactions:  cpy,
	}
	b.Hash = b.RecomputeHash()

	return b
}

// RecomputeHash calculates the hash for the block from its current fields.
func (b Block) RecomputeHash() string {
	prefix, suffix := b.hashParts()
	return hashNonce(prefix, b.Nonce, suffix)
}

// Mine performs the work of finding a nonce, starting with the current nonce
// and counting up by one, that produces a hash with the difficulty number of
// leading zeros. Pointer semantics are being used since a nonce is being
// discovered.
func (b *Block) Mine(ctx context.Context, difficulty uint) error {
	_, err := b.MineWith(ctx, difficulty, pow.Sequential{})
	return err
}

// MineWith performs the work of mining using the specified search strategy.
// The nonce and hash are only changed when a solution is found.
func (b *Block) MineWith(ctx context.Context, difficulty uint, strategy pow.Strategy) (pow.Result, error) {
	if difficulty > MaxDifficulty {
		return pow.Result{}, fmt.Errorf("%w: difficulty %d is larger than %d", ErrInvalidArgument, difficulty, MaxDifficulty)
	}

	// The transactions and header fields don't change while searching, so
	// they are only serialized once.
	prefix, suffix := b.hashParts()

	attempt := func(nonce uint64) (string, bool) {
		hash := hashNonce(prefix, nonce, suffix)
		return hash, IsHashSolved(difficulty, hash)
	}

	result, err := strategy.Search(ctx, b.Nonce, attempt)
	if err != nil {
		return pow.Result{}, err
	}

	b.Nonce = result.Nonce
	b.Hash = result.Hash

	return result, nil
}

// IsValid reports whether the stored hash matches the block's content and
// every transaction is structurally valid. Linkage to the previous block and
// signatures are not checked here.
func (b Block) IsValid() bool {
	return b.Validate() == nil
}

// Validate performs the same checks as IsValid and reports the first
// problem found.
func (b Block) Validate() error {
	if hash := b.RecomputeHash(); b.Hash != hash {
		return fmt.Errorf("block %d hash doesn't match content, got %s, exp %s", b.Number, b.Hash, hash)
	}

	for i, tx := range b.Transactions {
		if !tx.IsValid() {
			return fmt.Errorf("block %d transaction %d is invalid: %s", b.Number, i, tx)
		}
	}

	return nil
}

// ValidateLink checks the block is valid and points to the previous block.
func (b Block) ValidateLink(previousBlock Block) error {
	if err := b.Validate(); err != nil {
		return err
	}

	if b.PrevBlockHash != previousBlock.Hash {
		return fmt.Errorf("block %d parent hash doesn't match parent block, got %s, exp %s", b.Number, b.PrevBlockHash, previousBlock.Hash)
	}

	return nil
}

// Clone returns a copy of the block that shares no memory with the original.
func (b Block) Clone() Block {
	cpy := b
	cpy.Transactions = make([]Transaction, len(b.Transactions))
	for i, tx := range b.Transactions {
		cpy.Transactions[i] = tx
		if tx.Signature != nil {
			cpy.Transactions[i].Signature = append([]byte(nil), tx.Signature...)
		}
	}

	return cpy
}

// =============================================================================

// IsHashSolved checks the hash to make sure it complies with the POW rules.
// We need to match a difficulty number of 0's.
func IsHashSolved(difficulty uint, hash string) bool {
	if len(hash) != signature.HashLength || difficulty > MaxDifficulty {
		return false
	}

	return strings.Count(hash[:difficulty], "0") == int(difficulty)
}

// hashParts returns the serialized fields that come before and after the
// nonce in the hashed data.
func (b Block) hashParts() (string, string) {
	prefix := strconv.FormatUint(b.Number, 10) + b.PrevBlockHash + strconv.FormatUint(b.TimeStamp, 10)

	// Only amounts that are NaN or infinite fail to marshal and those
	// transactions never pass validation.
	trans, err := canonicalTransactions(b.Transactions)
	if err != nil {
		trans = nil
	}

	return prefix, string(trans)
}

// hashNonce hashes the serialized block fields with the nonce.
func hashNonce(prefix string, nonce uint64, suffix string) string {
	return signature.HashBytes([]byte(prefix + strconv.FormatUint(nonce, 10) + suffix))
}

// canonicalTransactions produces the JSON encoding of the transactions with
// the keys of every transaction sorted.
func canonicalTransactions(trans []Transaction) ([]byte, error) {
	canon := make([]map[string]any, len(trans))
	for i, tx := range trans {
		canon[i] = tx.canonical()
	}

	return json.Marshal(canon)
}
