package signature_test

import (
	"testing"

	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	pkHexKey    = "fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959"
	otherHexKey = "8dc79feefd3b86e2f9991def0e5ccd9a5128e104682407b308594bc1032ac7f0"
	from        = "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// =============================================================================

func Test_Signing(t *testing.T) {
	hash := signature.HashBytes([]byte("AliceBob101700000000"))

	pk, err := crypto.HexToECDSA(pkHexKey)
	if err != nil {
		t.Fatalf("Should be able to generate a private key: %s", err)
	}

	sig, err := signature.Sign(hash, pk)
	if err != nil {
		t.Fatalf("Should be able to sign data: %s", err)
	}

	if !signature.Verify(hash, sig, &pk.PublicKey) {
		t.Fatalf("Should be able to verify the signature.")
	}

	addr, err := signature.FromAddress(hash, sig)
	if err != nil {
		t.Fatalf("Should be able to generate from address: %s", err)
	}

	if from != addr {
		t.Logf("got: %s", addr)
		t.Logf("exp: %s", from)
		t.Fatalf("Should get back the right address.")
	}

	str := signature.SignatureString(sig)
	back, err := signature.FromSignatureString(str)
	if err != nil {
		t.Fatalf("Should be able to decode the signature string: %s", err)
	}

	if !signature.Verify(hash, back, &pk.PublicKey) {
		t.Fatalf("Should be able to verify the decoded signature.")
	}
}

func Test_VerifyFailures(t *testing.T) {
	hash := signature.HashBytes([]byte("AliceBob101700000000"))

	pk, err := crypto.HexToECDSA(pkHexKey)
	if err != nil {
		t.Fatalf("Should be able to generate a private key: %s", err)
	}

	other, err := crypto.HexToECDSA(otherHexKey)
	if err != nil {
		t.Fatalf("Should be able to generate a private key: %s", err)
	}

	sig, err := signature.Sign(hash, pk)
	if err != nil {
		t.Fatalf("Should be able to sign data: %s", err)
	}

	t.Log("Given the need to reject signatures that don't verify.")
	{
		if signature.Verify(hash, sig, &other.PublicKey) {
			t.Fatalf("\t%s\tShould not verify with the wrong public key.", failed)
		}
		t.Logf("\t%s\tShould not verify with the wrong public key.", success)

		if signature.Verify(hash, nil, &pk.PublicKey) {
			t.Fatalf("\t%s\tShould not verify a missing signature.", failed)
		}
		t.Logf("\t%s\tShould not verify a missing signature.", success)

		if signature.Verify(hash, sig, nil) {
			t.Fatalf("\t%s\tShould not verify with a nil public key.", failed)
		}
		t.Logf("\t%s\tShould not verify with a nil public key.", success)

		otherHash := signature.HashBytes([]byte("AliceBob201700000000"))
		if signature.Verify(otherHash, sig, &pk.PublicKey) {
			t.Fatalf("\t%s\tShould not verify against a different hash.", failed)
		}
		t.Logf("\t%s\tShould not verify against a different hash.", success)

		corrupt := make([]byte, len(sig))
		copy(corrupt, sig)
		corrupt[10] ^= 0xff
		if signature.Verify(hash, corrupt, &pk.PublicKey) {
			t.Fatalf("\t%s\tShould not verify a corrupted signature.", failed)
		}
		t.Logf("\t%s\tShould not verify a corrupted signature.", success)
	}
}

func Test_SignMalformedKey(t *testing.T) {
	hash := signature.HashBytes([]byte("data"))

	if _, err := signature.Sign(hash, nil); err == nil {
		t.Fatalf("Should not be able to sign with a nil key.")
	}

	pk, err := crypto.HexToECDSA(pkHexKey)
	if err != nil {
		t.Fatalf("Should be able to generate a private key: %s", err)
	}

	if _, err := signature.Sign("not-hex", pk); err == nil {
		t.Fatalf("Should not be able to sign a malformed hash.")
	}
}

func Test_Hash(t *testing.T) {
	value := struct {
		Name string
	}{
		Name: "Bill",
	}
	hash := "0f6887ac85101d6d6425a617edf35bd721b5f619fb92c36c3d2224e3bdb0ee5a"

	h := signature.Hash(value)
	if h != hash {
		t.Logf("got: %s", h)
		t.Logf("exp: %s", hash)
		t.Fatalf("Should get back the right hash: %s", h[:6])
	}

	h = signature.Hash(value)
	if h != hash {
		t.Logf("got: %s", h)
		t.Logf("exp: %s", hash)
		t.Fatalf("Should get back the same hash twice.")
	}

	if len(h) != signature.HashLength {
		t.Fatalf("Should get back a hash of %d characters, got %d.", signature.HashLength, len(h))
	}
}

func Test_SignConsistency(t *testing.T) {
	hash1 := signature.HashBytes([]byte("Bill"))
	hash2 := signature.HashBytes([]byte("Jill"))

	pk, err := crypto.HexToECDSA(pkHexKey)
	if err != nil {
		t.Fatalf("Should be able to generate a private key: %s", err)
	}

	sig1, err := signature.Sign(hash1, pk)
	if err != nil {
		t.Fatalf("Should be able to sign data: %s", err)
	}

	addr1, err := signature.FromAddress(hash1, sig1)
	if err != nil {
		t.Fatalf("Should be able to generate an address: %s", err)
	}

	sig2, err := signature.Sign(hash2, pk)
	if err != nil {
		t.Fatalf("Should be able to sign data: %s", err)
	}

	addr2, err := signature.FromAddress(hash2, sig2)
	if err != nil {
		t.Fatalf("Should be able to generate an address: %s", err)
	}

	if addr1 != addr2 {
		t.Errorf("Got: %s", addr1)
		t.Errorf("Got: %s", addr2)
		t.Fatalf("Should have the same address.")
	}
}
