package mempool_test

import (
	"fmt"
	"testing"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/mempool"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func newTx(t *testing.T, i int) database.Transaction {
	tx, err := database.NewTransactionAt(fmt.Sprintf("sender%d", i), "Bob", float64(i+1), 1700000000)
	if err != nil {
		t.Fatalf("Should be able to construct transaction %d: %s", i, err)
	}

	return tx
}

// =============================================================================

func TestSelect(t *testing.T) {
	type table struct {
		name   string
		pooled int
		max    int
		picked int
	}

	tt := []table{
		{name: "fewer", pooled: 5, max: 3, picked: 3},
		{name: "exact", pooled: 3, max: 3, picked: 3},
		{name: "more", pooled: 2, max: 5, picked: 2},
		{name: "empty", pooled: 0, max: 5, picked: 0},
		{name: "zero", pooled: 5, max: 0, picked: 0},
		{name: "negative", pooled: 5, max: -1, picked: 0},
	}

	t.Log("Given the need to select transactions from the mempool.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen selecting %d from %d transactions.", testID, tst.max, tst.pooled)
			{
				f := func(t *testing.T) {
					mp := mempool.New()

					var trans []database.Transaction
					for i := range tst.pooled {
						tx := newTx(t, i)
						if !mp.Add(tx) {
							t.Fatalf("\t%s\tTest %d:\tShould be able to add transaction %d.", failed, testID, i)
						}
						trans = append(trans, tx)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to add the transactions.", success, testID)

					picked := mp.Select(tst.max)
					if len(picked) != tst.picked {
						t.Fatalf("\t%s\tTest %d:\tShould select %d transactions, got %d.", failed, testID, tst.picked, len(picked))
					}
					t.Logf("\t%s\tTest %d:\tShould select %d transactions.", success, testID, tst.picked)

					for i, tx := range picked {
						if tx.Hash != trans[i].Hash {
							t.Fatalf("\t%s\tTest %d:\tShould select in insertion order at %d.", failed, testID, i)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould select in insertion order.", success, testID)

					remain := mp.Copy()
					if len(remain) != tst.pooled-tst.picked {
						t.Fatalf("\t%s\tTest %d:\tShould leave %d transactions, got %d.", failed, testID, tst.pooled-tst.picked, len(remain))
					}

					for i, tx := range remain {
						if tx.Hash != trans[tst.picked+i].Hash {
							t.Fatalf("\t%s\tTest %d:\tShould leave the remainder untouched at %d.", failed, testID, i)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould leave the remainder untouched.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func TestAdmission(t *testing.T) {
	t.Log("Given the need to only admit valid transactions.")
	{
		mp := mempool.New()

		tx := newTx(t, 0)
		if !mp.Add(tx) {
			t.Fatalf("\t%s\tShould admit a valid transaction.", failed)
		}
		t.Logf("\t%s\tShould admit a valid transaction.", success)

		if !mp.Add(tx) || mp.Count() != 2 {
			t.Fatalf("\t%s\tShould admit duplicates.", failed)
		}
		t.Logf("\t%s\tShould admit duplicates.", success)

		tampered := newTx(t, 1)
		tampered.Amount = 1000
		if mp.Add(tampered) {
			t.Fatalf("\t%s\tShould reject a transaction with a stale hash.", failed)
		}
		t.Logf("\t%s\tShould reject a transaction with a stale hash.", success)

		if mp.Add(database.Transaction{}) {
			t.Fatalf("\t%s\tShould reject a zero value transaction.", failed)
		}
		t.Logf("\t%s\tShould reject a zero value transaction.", success)

		mp.Clear()
		if mp.Count() != 0 {
			t.Fatalf("\t%s\tShould be able to clear the mempool.", failed)
		}
		t.Logf("\t%s\tShould be able to clear the mempool.", success)
	}
}

func TestRequeue(t *testing.T) {
	mp := mempool.New()
	for i := range 4 {
		mp.Add(newTx(t, i))
	}

	picked := mp.Select(2)
	mp.Requeue(picked)

	all := mp.Select(4)
	for i, tx := range all {
		if exp := newTx(t, i); tx.Hash != exp.Hash {
			t.Fatalf("Should keep the original order after a requeue at %d.", i)
		}
	}
}
