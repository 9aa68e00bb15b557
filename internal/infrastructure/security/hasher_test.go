package security

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func testHasher() *BcryptHasher {
	return NewBcryptHasher(Config{BcryptCost: bcrypt.MinCost})
}

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := testHasher()
	for _, p := range []string{"secret1", "pässwörd", strings.Repeat("x", 72), " spaced "} {
		digest, err := h.Hash(p)
		if err != nil {
			t.Fatalf("hash %q: %v", p, err)
		}
		if digest == p {
			t.Fatalf("digest equals plaintext")
		}
		if !h.Verify(p, digest) {
			t.Fatalf("verify(%q) = false", p)
		}
	}
}

func TestBcryptHasher_WrongPassword(t *testing.T) {
	h := testHasher()
	digest, err := h.Hash("correct-horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h.Verify("correct-horsf", digest) {
		t.Fatalf("expected mismatch for different plaintext")
	}
}

func TestBcryptHasher_Salted(t *testing.T) {
	h := testHasher()
	a, _ := h.Hash("same")
	b, _ := h.Hash("same")
	if a == b {
		t.Fatalf("expected distinct digests for repeated hashing")
	}
}

func TestBcryptHasher_MalformedDigest(t *testing.T) {
	h := testHasher()
	for _, d := range []string{"", "not-a-hash", "$2a$04$short", "secret1"} {
		if h.Verify("secret1", d) {
			t.Fatalf("verify against %q should be false", d)
		}
	}
}

func TestBcryptHasher_EmbedsCost(t *testing.T) {
	digest, err := testHasher().Hash("secret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(digest))
	if err != nil || cost != bcrypt.MinCost {
		t.Fatalf("expected cost %d, got %d (%v)", bcrypt.MinCost, cost, err)
	}
	// A hasher configured with a different cost still verifies older digests.
	other := NewBcryptHasher(Config{BcryptCost: bcrypt.MinCost + 1})
	if !other.Verify("secret1", digest) {
		t.Fatalf("digest should be self-describing")
	}
}

func TestBcryptHasher_TooLong(t *testing.T) {
	if _, err := testHasher().Hash(strings.Repeat("a", 73)); err == nil {
		t.Fatalf("expected error for password over 72 bytes")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Secret: []byte("0123456789abcdef"), BcryptCost: 10}, false},
		{"defaults", Config{Secret: []byte("0123456789abcdef")}, false},
		{"short secret", Config{Secret: []byte("short")}, true},
		{"negative ttl", Config{Secret: []byte("0123456789abcdef"), TokenTTL: -1}, true},
		{"cost too high", Config{Secret: []byte("0123456789abcdef"), BcryptCost: 40}, true},
		{"cost too low", Config{Secret: []byte("0123456789abcdef"), BcryptCost: 2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
