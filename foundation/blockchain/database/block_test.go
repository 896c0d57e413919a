package database_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/pow"
	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/crypto"
)

func signedTx(t *testing.T, sender string, receiver string, amount float64) database.Transaction {
	pk, err := crypto.HexToECDSA(aliceHexKey)
	if err != nil {
		t.Fatalf("Should be able to generate a private key: %s", err)
	}

	tx, err := database.NewTransactionAt(sender, receiver, amount, 1700000000)
	if err != nil {
		t.Fatalf("Should be able to construct a transaction: %s", err)
	}

	if err := tx.Sign(pk); err != nil {
		t.Fatalf("Should be able to sign a transaction: %s", err)
	}

	return tx
}

// =============================================================================

func Test_BlockHash(t *testing.T) {
	t.Log("Given the need to hash a block.")
	{
		tx := signedTx(t, "Alice", "Bob", 10)
		block := database.NewBlock(1, []database.Transaction{tx}, signature.ZeroHash, 1700000001)

		if block.Hash != block.RecomputeHash() {
			t.Fatalf("\t%s\tShould store the calculated hash.", failed)
		}
		t.Logf("\t%s\tShould store the calculated hash.", success)

		if block.RecomputeHash() != block.RecomputeHash() {
			t.Fatalf("\t%s\tShould get the same hash twice.", failed)
		}
		t.Logf("\t%s\tShould get the same hash twice.", success)

		before := block.Hash
		block.Nonce++
		if block.RecomputeHash() == before {
			t.Fatalf("\t%s\tShould get a different hash for a different nonce.", failed)
		}
		t.Logf("\t%s\tShould get a different hash for a different nonce.", success)

		other := database.NewBlock(1, []database.Transaction{tx}, signature.ZeroHash, 1700000001)
		if other.Hash != before {
			t.Fatalf("\t%s\tShould get the same hash for the same content.", failed)
		}
		t.Logf("\t%s\tShould get the same hash for the same content.", success)

		unsigned := tx
		unsigned.Signature = nil
		changed := database.NewBlock(1, []database.Transaction{unsigned}, signature.ZeroHash, 1700000001)
		if changed.Hash == before {
			t.Fatalf("\t%s\tShould include the signature in the hash.", failed)
		}
		t.Logf("\t%s\tShould include the signature in the hash.", success)
	}
}

func Test_BlockCopiesTransactions(t *testing.T) {
	trans := []database.Transaction{signedTx(t, "Alice", "Bob", 10)}
	block := database.NewBlock(1, trans, signature.ZeroHash, 1700000001)

	trans[0].Sender = "Mallory"
	if !block.IsValid() {
		t.Fatalf("Should not be affected by changes to the caller's slice.")
	}
}

func Test_Mining(t *testing.T) {
	type table struct {
		name       string
		difficulty uint
		strategy   pow.Strategy
	}

	tt := []table{
		{name: "sequential", difficulty: 4, strategy: pow.Sequential{}},
		{name: "parallel", difficulty: 4, strategy: pow.Parallel{Workers: 4}},
		{name: "zero", difficulty: 0, strategy: pow.Sequential{}},
	}

	t.Log("Given the need to mine blocks.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen mining with the %s strategy.", testID, tst.name)
			{
				f := func(t *testing.T) {
					tx := signedTx(t, "Alice", "Bob", 10)
					block := database.NewBlock(1, []database.Transaction{tx}, signature.ZeroHash, 1700000001)

					result, err := block.MineWith(context.Background(), tst.difficulty, tst.strategy)
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to mine the block: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to mine the block.", success, testID)

					if !strings.HasPrefix(block.Hash, strings.Repeat("0", int(tst.difficulty))) {
						t.Fatalf("\t%s\tTest %d:\tShould have the leading zeros: %s", failed, testID, block.Hash)
					}
					t.Logf("\t%s\tTest %d:\tShould have the leading zeros.", success, testID)

					if !block.IsValid() {
						t.Fatalf("\t%s\tTest %d:\tShould be valid after mining.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould be valid after mining.", success, testID)

					if result.Nonce != block.Nonce || result.Attempts == 0 {
						t.Fatalf("\t%s\tTest %d:\tShould report the search result: %+v", failed, testID, result)
					}
					t.Logf("\t%s\tTest %d:\tShould report the search result.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_MineDefault(t *testing.T) {
	block := database.NewBlock(1, []database.Transaction{signedTx(t, "Alice", "Bob", 10)}, signature.ZeroHash, 1700000001)

	if err := block.Mine(context.Background(), 4); err != nil {
		t.Fatalf("Should be able to mine the block: %s", err)
	}

	if block.Hash[:4] != "0000" || !block.IsValid() {
		t.Fatalf("Should have a valid solved hash: %s", block.Hash)
	}
}

func Test_MiningCancel(t *testing.T) {
	t.Log("Given the need to cancel a mining operation.")
	{
		block := database.NewBlock(1, nil, signature.ZeroHash, 1700000001)
		original := block.Hash

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		err := block.Mine(ctx, database.MaxDifficulty)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("\t%s\tShould stop when the context expires: %v", failed, err)
		}
		t.Logf("\t%s\tShould stop when the context expires.", success)

		if block.Hash != original || block.Nonce != 0 {
			t.Fatalf("\t%s\tShould leave the block untouched.", failed)
		}
		t.Logf("\t%s\tShould leave the block untouched.", success)

		if err := block.Mine(context.Background(), database.MaxDifficulty+1); !errors.Is(err, database.ErrInvalidArgument) {
			t.Fatalf("\t%s\tShould reject an impossible difficulty: %v", failed, err)
		}
		t.Logf("\t%s\tShould reject an impossible difficulty.", success)
	}
}

func Test_BlockValidity(t *testing.T) {
	t.Log("Given the need to detect invalid blocks.")
	{
		block := database.NewBlock(1, []database.Transaction{signedTx(t, "Alice", "Bob", 10)}, signature.ZeroHash, 1700000001)

		corrupt := block.Clone()
		corrupt.Hash = "invalid_hash"
		if corrupt.IsValid() {
			t.Fatalf("\t%s\tShould not be valid with a corrupted hash.", failed)
		}
		t.Logf("\t%s\tShould not be valid with a corrupted hash.", success)

		tampered := block.Clone()
		tampered.Transactions[0].Amount = 5000
		if tampered.IsValid() {
			t.Fatalf("\t%s\tShould not be valid with a tampered transaction.", failed)
		}
		t.Logf("\t%s\tShould not be valid with a tampered transaction.", success)

		if !block.IsValid() {
			t.Fatalf("\t%s\tShould not be affected by changes to a clone.", failed)
		}
		t.Logf("\t%s\tShould not be affected by changes to a clone.", success)

		next := database.NewBlock(2, nil, "wrong", 1700000002)
		if err := next.ValidateLink(block); err == nil {
			t.Fatalf("\t%s\tShould detect a broken link.", failed)
		}
		t.Logf("\t%s\tShould detect a broken link.", success)
	}
}

func Test_IsHashSolved(t *testing.T) {
	hash := "000a" + strings.Repeat("f", signature.HashLength-4)

	if !database.IsHashSolved(3, hash) {
		t.Fatalf("Should be solved for difficulty 3.")
	}

	if database.IsHashSolved(4, hash) {
		t.Fatalf("Should not be solved for difficulty 4.")
	}

	if database.IsHashSolved(1, "0abc") {
		t.Fatalf("Should not be solved for a short hash.")
	}
}
