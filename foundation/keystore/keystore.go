// Package keystore reads a folder of ecdsa private key files and provides
// name based lookup of the keys for signing and verifying transactions. The
// name of an account is the file name without the .ecdsa extension.
package keystore

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/crypto"
)

// Extension is the file extension of key files.
const Extension = ".ecdsa"

// ErrNotFound is returned when no key is stored for a name.
var ErrNotFound = errors.New("key not found")

// KeyStore maintains the set of named keys.
type KeyStore struct {
	folder string

	mu        sync.RWMutex
	keys      map[string]*ecdsa.PrivateKey
	addresses map[string]string
}

// New constructs a key store with the keys from the specified folder. The
// folder is created if it doesn't exist.
func New(folder string) (*KeyStore, error) {
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return nil, fmt.Errorf("creating folder: %w", err)
	}

	ks := KeyStore{
		folder:    folder,
		keys:      make(map[string]*ecdsa.PrivateKey),
		addresses: make(map[string]string),
	}

	fn := func(fileName string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walkdir failure: %w", err)
		}

		if d.IsDir() || filepath.Ext(fileName) != Extension {
			return nil
		}

		privateKey, err := crypto.LoadECDSA(fileName)
		if err != nil {
			return fmt.Errorf("loading %s: %w", fileName, err)
		}

		ks.add(strings.TrimSuffix(filepath.Base(fileName), Extension), privateKey)

		return nil
	}

	if err := filepath.WalkDir(folder, fn); err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return &ks, nil
}

// Generate creates a new key for the name and saves it into the folder.
func (ks *KeyStore) Generate(name string) (*ecdsa.PrivateKey, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("invalid key name %q", name)
	}

	ks.mu.Lock()
	defer ks.mu.Unlock()

	if _, exists := ks.keys[name]; exists {
		return nil, fmt.Errorf("key %q already exists", name)
	}

	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("generating key: %w", err)
	}

	if err := crypto.SaveECDSA(ks.path(name), privateKey); err != nil {
		return nil, fmt.Errorf("saving key: %w", err)
	}

	ks.add(name, privateKey)

	return privateKey, nil
}

// PrivateKey returns the private key stored for the name.
func (ks *KeyStore) PrivateKey(name string) (*ecdsa.PrivateKey, error) {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	privateKey, exists := ks.keys[name]
	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	return privateKey, nil
}

// Resolve returns the public key for a sender. The sender can be the name
// of the key or the address derived from it. The method has the signature
// of a state.KeyResolver.
func (ks *KeyStore) Resolve(sender string) (*ecdsa.PublicKey, bool) {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	if name, exists := ks.addresses[sender]; exists {
		sender = name
	}

	privateKey, exists := ks.keys[sender]
	if !exists {
		return nil, false
	}

	return &privateKey.PublicKey, true
}

// Lookup returns the name for the specified address. The address is returned
// if it's unknown.
func (ks *KeyStore) Lookup(address string) string {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	name, exists := ks.addresses[address]
	if !exists {
		return address
	}
	return name
}

// Names returns the sorted names of the stored keys.
func (ks *KeyStore) Names() []string {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	names := make([]string, 0, len(ks.keys))
	for name := range ks.keys {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Copy returns a copy of the map of addresses and names.
func (ks *KeyStore) Copy() map[string]string {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	cpy := make(map[string]string, len(ks.addresses))
	for address, name := range ks.addresses {
		cpy[address] = name
	}
	return cpy
}

// =============================================================================

func (ks *KeyStore) add(name string, privateKey *ecdsa.PrivateKey) {
	ks.keys[name] = privateKey
	ks.addresses[signature.PublicKeyToAddress(privateKey.PublicKey)] = name
}

func (ks *KeyStore) path(name string) string {
	return filepath.Join(ks.folder, name+Extension)
}
