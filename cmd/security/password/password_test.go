package password

import (
	"strings"
	"testing"
)

// testConfig keeps Argon2id cheap so the suite stays fast.
func testConfig() Config {
	return Config{
		Params: Argon2idParams{
			MemoryKiB:   8 * 1024,
			Iterations:  1,
			Parallelism: 1,
			SaltLength:  16,
			KeyLength:   32,
		},
		Policy: Policy{MinLength: 8, MaxLength: 256},
	}
}

func TestHashAndVerify_RoundTrip(t *testing.T) {
	cfg := testConfig()

	enc, err := cfg.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !strings.HasPrefix(enc, "$argon2id$v=19$") {
		t.Fatalf("unexpected encoding: %s", enc)
	}

	ok, err := cfg.Verify(enc, "correct horse battery staple")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatalf("expected match")
	}

	ok, err = cfg.Verify(enc, "wrong password entirely")
	if err != nil {
		t.Fatalf("Verify mismatch: %v", err)
	}
	if ok {
		t.Fatalf("expected mismatch")
	}
}

func TestHash_PolicyEnforced(t *testing.T) {
	cfg := testConfig()

	if _, err := cfg.Hash("short"); err != ErrPasswordTooShort {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}

	long := strings.Repeat("a", cfg.Policy.MaxLength+1)
	if _, err := cfg.Hash(long); err != ErrPasswordTooLong {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
}

func TestHashRaw_SkipsPolicy(t *testing.T) {
	cfg := testConfig()

	// Machine-generated secrets may be arbitrarily long or short.
	enc, err := cfg.HashRaw(strings.Repeat("x", 1024))
	if err != nil {
		t.Fatalf("HashRaw: %v", err)
	}
	ok, err := cfg.Verify(enc, strings.Repeat("x", 1024))
	if err != nil || !ok {
		t.Fatalf("Verify after HashRaw: ok=%v err=%v", ok, err)
	}
}

func TestVerify_MalformedHashes(t *testing.T) {
	cfg := testConfig()

	cases := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"not phc", "plainly-not-a-hash"},
		{"wrong algorithm", "$argon2i$v=19$m=8192,t=1,p=1$c2FsdA$aGFzaA"},
		{"wrong version", "$argon2id$v=16$m=8192,t=1,p=1$c2FsdA$aGFzaA"},
		{"bad params", "$argon2id$v=19$m=zero,t=1,p=1$c2FsdA$aGFzaA"},
		{"bad salt b64", "$argon2id$v=19$m=8192,t=1,p=1$!!!$aGFzaA"},
		{"missing section", "$argon2id$v=19$m=8192,t=1,p=1$c2FsdA"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := cfg.Verify(tc.hash, "whatever")
			if ok {
				t.Fatalf("expected no match")
			}
			if err != ErrInvalidHash {
				t.Fatalf("expected ErrInvalidHash, got %v", err)
			}
		})
	}
}

func TestVerify_RefusesOversizedParams(t *testing.T) {
	cfg := testConfig()

	// Far above configured memory: must be rejected, not computed.
	hostile := "$argon2id$v=19$m=1048576,t=1,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaGhhc2hoYXNoaGFzaGhhc2g"
	ok, err := cfg.Verify(hostile, "whatever")
	if ok || err != ErrInvalidHash {
		t.Fatalf("expected ErrInvalidHash, got ok=%v err=%v", ok, err)
	}
}
