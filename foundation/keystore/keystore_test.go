package keystore_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/powledger/foundation/blockchain/database"
	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
	"github.com/ardanlabs/powledger/foundation/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

const aliceHexKey = "fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959"

func TestLoad(t *testing.T) {
	folder := t.TempDir()

	alice, err := crypto.HexToECDSA(aliceHexKey)
	require.NoError(t, err)
	require.NoError(t, crypto.SaveECDSA(filepath.Join(folder, "alice.ecdsa"), alice))
	require.NoError(t, os.WriteFile(filepath.Join(folder, "notes.txt"), []byte("ignored"), 0o600))

	ks, err := keystore.New(folder)
	require.NoError(t, err)
	require.Equal(t, []string{"alice"}, ks.Names())

	address := signature.PublicKeyToAddress(alice.PublicKey)
	require.Equal(t, "alice", ks.Lookup(address))
	require.Equal(t, "0xunknown", ks.Lookup("0xunknown"))

	byName, exists := ks.Resolve("alice")
	require.True(t, exists)
	require.True(t, byName.Equal(&alice.PublicKey))

	byAddress, exists := ks.Resolve(address)
	require.True(t, exists)
	require.True(t, byAddress.Equal(&alice.PublicKey))

	_, exists = ks.Resolve("bob")
	require.False(t, exists)

	_, err = ks.PrivateKey("bob")
	require.True(t, errors.Is(err, keystore.ErrNotFound))
}

func TestGenerate(t *testing.T) {
	folder := t.TempDir()

	ks, err := keystore.New(folder)
	require.NoError(t, err)

	bob, err := ks.Generate("bob")
	require.NoError(t, err)

	_, err = ks.Generate("bob")
	require.Error(t, err)

	_, err = ks.Generate("../bob")
	require.Error(t, err)

	// A fresh store over the same folder sees the saved key.
	reloaded, err := keystore.New(folder)
	require.NoError(t, err)

	key, err := reloaded.PrivateKey("bob")
	require.NoError(t, err)
	require.True(t, key.Equal(bob))

	tx, err := database.NewTransaction("bob", "alice", 5)
	require.NoError(t, err)
	require.NoError(t, tx.Sign(key))

	publicKey, exists := reloaded.Resolve("bob")
	require.True(t, exists)
	require.True(t, tx.VerifySignature(publicKey))
}
