package public

import (
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/keystore"
)

// NewTx is what a client provides to have the node create and sign a
// transaction.
type NewTx struct {
	Sender   string  `json:"sender" validate:"required"`
	Receiver string  `json:"receiver" validate:"required"`
	Amount   float64 `json:"amount" validate:"gt=0"`
}

// SignedTx is a transaction that was created and signed by the client.
type SignedTx struct {
	Sender    string  `json:"sender" validate:"required"`
	Receiver  string  `json:"receiver" validate:"required"`
	Amount    float64 `json:"amount" validate:"gt=0"`
	TimeStamp uint64  `json:"timestamp" validate:"required"`
	Signature string  `json:"signature" validate:"omitempty,startswith=0x"`
	Hash      string  `json:"hash" validate:"omitempty,hash"`
}

// Tx is the transaction returned to clients.
type Tx struct {
	Sender     string  `json:"sender"`
	SenderName string  `json:"sender_name,omitempty"`
	Receiver   string  `json:"receiver"`
	Amount     float64 `json:"amount"`
	TimeStamp  uint64  `json:"timestamp"`
	Hash       string  `json:"hash"`
	Signature  string  `json:"signature,omitempty"`
	Signer     string  `json:"signer,omitempty"`
}

// Block is the block returned to clients.
type Block struct {
	Number        uint64 `json:"number"`
	PrevBlockHash string `json:"prev_block_hash"`
	TimeStamp     uint64 `json:"timestamp"`
	Nonce         uint64 `json:"nonce"`
	Hash          string `json:"hash"`
	Transactions  []Tx   `json:"transactions"`
}

// Chain is the state of the chain returned to clients.
type Chain struct {
	Length          int     `json:"length"`
	Difficulty      uint    `json:"difficulty"`
	TransPerBlock   int     `json:"trans_per_block"`
	SignaturePolicy string  `json:"signature_policy"`
	LatestHash      string  `json:"latest_hash"`
	Pending         int     `json:"pending"`
	Blocks          []Block `json:"blocks"`
}

// Validation is the result of validating the chain.
type Validation struct {
	Valid  bool   `json:"valid"`
	Length int    `json:"length"`
	Error  string `json:"error,omitempty"`
}

// Status is a simple acknowledgement.
type Status struct {
	Status string `json:"status"`
	Hash   string `json:"hash,omitempty"`
}

// =============================================================================

func toTx(tx database.Transaction, ks *keystore.KeyStore) Tx {
	t := Tx{
		Sender:    tx.Sender,
		Receiver:  tx.Receiver,
		Amount:    tx.Amount,
		TimeStamp: tx.TimeStamp,
		Hash:      tx.Hash,
		Signature: tx.SignatureString(),
	}

	if signer, err := tx.SignerAddress(); err == nil {
		t.Signer = signer
		if ks != nil {
			if name := ks.Lookup(signer); name != signer {
				t.SenderName = name
			}
		}
	}

	return t
}

func toTxs(trans []database.Transaction, ks *keystore.KeyStore) []Tx {
	txs := make([]Tx, len(trans))
	for i, tx := range trans {
		txs[i] = toTx(tx, ks)
	}
	return txs
}

func toBlock(block database.Block, ks *keystore.KeyStore) Block {
	return Block{
		Number:        block.Number,
		PrevBlockHash: block.PrevBlockHash,
		TimeStamp:     block.TimeStamp,
		Nonce:         block.Nonce,
		Hash:          block.Hash,
		Transactions:  toTxs(block.Transactions, ks),
	}
}

func toBlocks(blocks []database.Block, ks *keystore.KeyStore) []Block {
	out := make([]Block, len(blocks))
	for i, block := range blocks {
		out[i] = toBlock(block, ks)
	}
	return out
}
