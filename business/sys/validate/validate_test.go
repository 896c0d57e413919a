package validate_test

import (
	"strings"
	"testing"

	"github.com/ardanlabs/powledger/business/sys/validate"
	"github.com/stretchr/testify/require"
)

type model struct {
	Sender string  `json:"sender" validate:"required"`
	Amount float64 `json:"amount" validate:"gt=0"`
	Hash   string  `json:"hash" validate:"omitempty,hash"`
}

func TestCheck(t *testing.T) {
	err := validate.Check(model{Sender: "Alice", Amount: 10, Hash: strings.Repeat("0a", 32)})
	require.NoError(t, err)

	err = validate.Check(model{Amount: -1, Hash: "xyz"})
	require.Error(t, err)
	require.True(t, validate.IsFieldErrors(err))

	fields := validate.GetFieldErrors(err).Fields()
	require.Len(t, fields, 3)
	require.Contains(t, fields, "sender")
	require.Contains(t, fields, "amount")
	require.Equal(t, "hash must be a 64 character hex hash", fields["hash"])
}
