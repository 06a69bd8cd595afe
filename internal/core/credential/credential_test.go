package credential

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestCodec_HashAndVerify(t *testing.T) {
	c := NewCodec(bcrypt.MinCost)

	hash, err := c.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if hash == "secret1" {
		t.Fatalf("hash must not equal the plaintext")
	}
	if !c.Verify("secret1", hash) {
		t.Fatalf("hash does not verify against original plaintext")
	}
	if c.Verify("wrongpass", hash) {
		t.Fatalf("wrong password verified")
	}
}

func TestCodec_SaltedHashesDiffer(t *testing.T) {
	c := NewCodec(bcrypt.MinCost)

	h1, err := c.Hash("samepassword")
	if err != nil {
		t.Fatalf("first hash: %v", err)
	}
	h2, err := c.Hash("samepassword")
	if err != nil {
		t.Fatalf("second hash: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("identical plaintexts produced identical hashes")
	}
}

func TestCodec_CorruptHashFailsVerification(t *testing.T) {
	c := NewCodec(bcrypt.MinCost)

	if c.Verify("anything", "not-a-bcrypt-hash") {
		t.Fatalf("corrupt hash verified")
	}
	if c.Verify("anything", "") {
		t.Fatalf("empty hash verified")
	}
}

func TestNewCodec_CostOutOfRange(t *testing.T) {
	c := NewCodec(99)
	if c.cost != DefaultCost {
		t.Fatalf("expected fallback to DefaultCost, got %d", c.cost)
	}
}
