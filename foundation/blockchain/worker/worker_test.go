package worker_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/ardanlabs/powledger/foundation/blockchain/worker"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_MiningWorkflow(t *testing.T) {
	t.Log("Given the need to mine submitted transactions in the background.")
	{
		st, err := state.New(state.Config{Difficulty: 2, TransPerBlock: 2})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to construct the state: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to construct the state.", success)

		worker.Run(st, nil)
		defer st.Shutdown()

		for i := range 5 {
			tx, err := database.NewTransaction(fmt.Sprintf("sender%d", i), "Bob", 1)
			if err != nil {
				t.Fatalf("\t%s\tShould be able to construct a transaction: %v", failed, err)
			}

			if err := st.SubmitTransaction(tx); err != nil {
				t.Fatalf("\t%s\tShould be able to submit a transaction: %v", failed, err)
			}
		}
		t.Logf("\t%s\tShould be able to submit transactions.", success)

		deadline := time.Now().Add(10 * time.Second)
		for st.QueryMempoolLength() > 0 && time.Now().Before(deadline) {
			time.Sleep(10 * time.Millisecond)
		}

		if st.QueryMempoolLength() != 0 {
			t.Fatalf("\t%s\tShould drain the mempool, %d left.", failed, st.QueryMempoolLength())
		}
		t.Logf("\t%s\tShould drain the mempool.", success)

		var mined int
		for _, block := range st.RetrieveBlocks()[1:] {
			mined += len(block.Transactions)
		}

		if mined != 5 {
			t.Fatalf("\t%s\tShould mine every transaction, got %d.", failed, mined)
		}
		t.Logf("\t%s\tShould mine every transaction.", success)

		if !st.IsChainValid() {
			t.Fatalf("\t%s\tShould have a valid chain.", failed)
		}
		t.Logf("\t%s\tShould have a valid chain.", success)
	}
}

func Test_Shutdown(t *testing.T) {
	st, err := state.New(state.Config{Difficulty: database.MaxDifficulty})
	if err != nil {
		t.Fatal(err)
	}

	worker.Run(st, nil)

	tx, err := database.NewTransaction("Alice", "Bob", 1)
	if err != nil {
		t.Fatal(err)
	}

	if err := st.SubmitTransaction(tx); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		st.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatalf("Should cancel mining on shutdown.")
	}

	if st.QueryMempoolLength() != 1 {
		t.Fatalf("Should requeue the cancelled batch, got %d.", st.QueryMempoolLength())
	}
}
