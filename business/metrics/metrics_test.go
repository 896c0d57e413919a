package metrics_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/ardanlabs/powledger/business/metrics"
	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	reg := prometheus.NewRegistry()

	_, err := metrics.New(reg)
	require.NoError(t, err)

	// Registering twice against the same registry must fail.
	_, err = metrics.New(reg)
	require.Error(t, err)
}

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()

	m, err := metrics.New(reg)
	require.NoError(t, err)

	st, err := state.New(state.Config{Difficulty: 1, Recorder: m})
	require.NoError(t, err)

	tx, err := database.NewTransaction("Alice", "Bob", 10)
	require.NoError(t, err)
	require.NoError(t, st.SubmitTransaction(tx))

	bad := tx
	bad.Amount = 0
	require.Error(t, st.SubmitTransaction(bad))

	_, err = st.MineNextBlock(context.Background())
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(reg, "powledger_blocks_mined_total")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	expected := `
# HELP powledger_chain_length Number of blocks in the chain including genesis
# TYPE powledger_chain_length gauge
powledger_chain_length 2
# HELP powledger_mempool_size Number of transactions waiting to be mined
# TYPE powledger_mempool_size gauge
powledger_mempool_size 0
# HELP powledger_transactions_submitted_total Number of transactions submitted to the mempool by status
# TYPE powledger_transactions_submitted_total counter
powledger_transactions_submitted_total{status="admitted"} 1
powledger_transactions_submitted_total{status="rejected"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"powledger_chain_length",
		"powledger_mempool_size",
		"powledger_transactions_submitted_total",
	))
}

func TestRequests(t *testing.T) {
	reg := prometheus.NewRegistry()

	m, err := metrics.New(reg)
	require.NoError(t, err)

	m.RequestStarted()
	m.RequestCompleted(http.MethodGet, "/v1/chain", http.StatusOK, 5*time.Millisecond)

	count, err := testutil.GatherAndCount(reg, "powledger_http_requests_total")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}
