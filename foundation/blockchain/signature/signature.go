// Package signature provides helper functions for handling the ledger
// hashing and signature needs.
package signature

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// ZeroHash represents a hash code of zeros. It is used as the previous block
// hash for the genesis block.
const ZeroHash string = "0000000000000000000000000000000000000000000000000000000000000000"

// HashLength is the number of hex characters in a hash produced by this package.
const HashLength = 2 * sha256.Size

// ledgerStamp is mixed into every digest that gets signed. This will make it
// clear the signature was produced for this ledger and not some other system.
const ledgerStamp = "\x19Ledger Signed Message:\n32"

// =============================================================================

// Hash returns a unique string for the value. The value is marshaled to JSON
// before hashing so struct field order and map key order decide the encoding.
func Hash(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return ZeroHash
	}

	return HashBytes(data)
}

// HashBytes returns the hex encoded SHA-256 of the data.
func HashBytes(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Sign uses the specified private key to sign the hex encoded hash. The
// returned signature is 65 bytes in the [R|S|V] format.
func Sign(hash string, privateKey *ecdsa.PrivateKey) ([]byte, error) {
	if privateKey == nil || privateKey.D == nil || privateKey.Curve == nil {
		return nil, errors.New("private key is malformed")
	}

	// Prepare the hash for signing.
	data, err := stamp(hash)
	if err != nil {
		return nil, err
	}

	// Sign the stamped hash with the private key to produce a signature.
	sig, err := crypto.Sign(data, privateKey)
	if err != nil {
		return nil, err
	}

	// Check the public key extracted from the data and signature.
	publicKey, err := crypto.SigToPub(data, sig)
	if err != nil {
		return nil, err
	}

	if !crypto.VerifySignature(crypto.FromECDSAPub(publicKey), data, sig[:crypto.RecoveryIDOffset]) {
		return nil, errors.New("invalid signature")
	}

	return sig, nil
}

// Verify reports whether the signature was produced over the hash by the
// private key matching the specified public key. Any malformed input is
// reported as false.
func Verify(hash string, sig []byte, publicKey *ecdsa.PublicKey) bool {
	if len(sig) != crypto.SignatureLength {
		return false
	}

	if publicKey == nil || publicKey.X == nil || publicKey.Y == nil {
		return false
	}

	if !crypto.S256().IsOnCurve(publicKey.X, publicKey.Y) {
		return false
	}

	data, err := stamp(hash)
	if err != nil {
		return false
	}

	return crypto.VerifySignature(crypto.FromECDSAPub(publicKey), data, sig[:crypto.RecoveryIDOffset])
}

// FromAddress extracts the address for the account that signed the hash.
func FromAddress(hash string, sig []byte) (string, error) {

	// NOTE: If the same exact hash for the given signature is not provided
	// we will get the wrong from address. The public key is being extracted
	// from the data and signature.

	if len(sig) != crypto.SignatureLength {
		return "", fmt.Errorf("invalid signature length %d", len(sig))
	}

	data, err := stamp(hash)
	if err != nil {
		return "", err
	}

	publicKey, err := crypto.SigToPub(data, sig)
	if err != nil {
		return "", err
	}

	return crypto.PubkeyToAddress(*publicKey).String(), nil
}

// PublicKeyToAddress converts the public key to an account address.
func PublicKeyToAddress(pk ecdsa.PublicKey) string {
	return crypto.PubkeyToAddress(pk).String()
}

// SignatureString returns the signature as a hex string with a 0x prefix.
func SignatureString(sig []byte) string {
	if len(sig) == 0 {
		return ""
	}

	return hexutil.Encode(sig)
}

// FromSignatureString converts a hex representation of the signature back into
// the 65 bytes.
func FromSignatureString(sigStr string) ([]byte, error) {
	if sigStr == "" {
		return nil, nil
	}

	sig, err := hexutil.Decode(sigStr)
	if err != nil {
		return nil, err
	}

	if len(sig) != crypto.SignatureLength {
		return nil, fmt.Errorf("invalid signature length %d", len(sig))
	}

	return sig, nil
}

// =============================================================================

// stamp returns a hash of 32 bytes that represents the hex encoded hash with
// the ledger stamp embedded into the final hash.
func stamp(hash string) ([]byte, error) {
	raw, err := hex.DecodeString(hash)
	if err != nil {
		return nil, fmt.Errorf("decoding hash: %w", err)
	}

	if len(raw) != sha256.Size {
		return nil, fmt.Errorf("invalid hash length %d", len(raw))
	}

	// Hash the stamp and the raw hash together in a final 32 byte array
	// that represents the data.
	return crypto.Keccak256([]byte(ledgerStamp), raw), nil
}
