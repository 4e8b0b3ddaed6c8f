package auth

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func newTestBcrypt(t *testing.T) *BcryptHasher {
	t.Helper()
	h, err := NewBcryptHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewBcryptHasher failed: %v", err)
	}
	return h
}

func TestNewHasher(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		algo    string
		cost    int
		wantErr bool
	}{
		{"bcrypt", AlgoBcrypt, DefaultBcryptCost, false},
		{"empty defaults to bcrypt", "", DefaultBcryptCost, false},
		{"argon2id", AlgoArgon2id, 0, false},
		{"unknown", "md5", DefaultBcryptCost, true},
		{"bcrypt cost too low", AlgoBcrypt, 1, true},
		{"bcrypt cost too high", AlgoBcrypt, 40, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h, err := NewHasher(tt.algo, tt.cost)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NewHasher(%q, %d) expected error", tt.algo, tt.cost)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewHasher(%q, %d) unexpected error: %v", tt.algo, tt.cost, err)
			}
			if h == nil {
				t.Fatal("NewHasher returned nil hasher")
			}
		})
	}
}

func TestNewHasher_UnknownAlgorithm(t *testing.T) {
	t.Parallel()

	_, err := NewHasher("sha1", DefaultBcryptCost)
	if !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("expected ErrUnknownAlgorithm, got %v", err)
	}
}

func TestBcryptHasher_DefaultCostIsEncoded(t *testing.T) {
	t.Parallel()

	h, err := NewBcryptHasher(DefaultBcryptCost)
	if err != nil {
		t.Fatalf("NewBcryptHasher failed: %v", err)
	}

	hash, err := h.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("bcrypt.Cost failed: %v", err)
	}
	if cost != DefaultBcryptCost {
		t.Errorf("cost = %d, want %d", cost, DefaultBcryptCost)
	}
}

func TestArgon2idHasher_Format(t *testing.T) {
	t.Parallel()

	hash, err := Argon2idHasher{}.Hash("secret1")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	// $argon2id$v=19$m=65536,t=3,p=4$<salt>$<hash>
	if !strings.HasPrefix(hash, "$argon2id$v=") {
		t.Errorf("Hash should be in PHC format, got: %s", hash)
	}

	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		t.Fatalf("Hash should have 6 parts, got: %d", len(parts))
	}
	if parts[2] != "v=19" {
		t.Errorf("Expected v=19, got: %s", parts[2])
	}
	if parts[3] != "m=65536,t=3,p=4" {
		t.Errorf("Expected m=65536,t=3,p=4, got: %s", parts[3])
	}
}

func TestHash_Uniqueness(t *testing.T) {
	t.Parallel()

	hashers := map[string]Hasher{
		AlgoBcrypt:   newTestBcrypt(t),
		AlgoArgon2id: Argon2idHasher{},
	}

	for name, h := range hashers {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			password := "the_same_password_12345"

			hash1, err := h.Hash(password)
			if err != nil {
				t.Fatalf("Hash failed: %v", err)
			}
			hash2, err := h.Hash(password)
			if err != nil {
				t.Fatalf("Hash failed: %v", err)
			}

			// Random salt per hash
			if hash1 == hash2 {
				t.Error("Same password should produce different hashes due to random salt")
			}

			match1, _ := VerifyPassword(password, hash1)
			match2, _ := VerifyPassword(password, hash2)
			if !match1 || !match2 {
				t.Error("Both hashes should verify correctly")
			}
		})
	}
}

func TestVerifyPassword_CorrectAndIncorrect(t *testing.T) {
	t.Parallel()

	hashers := map[string]Hasher{
		AlgoBcrypt:   newTestBcrypt(t),
		AlgoArgon2id: Argon2idHasher{},
	}

	for name, h := range hashers {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			hash, err := h.Hash("secret1")
			if err != nil {
				t.Fatalf("Hash failed: %v", err)
			}

			match, err := VerifyPassword("secret1", hash)
			if err != nil {
				t.Fatalf("VerifyPassword failed: %v", err)
			}
			if !match {
				t.Error("Correct password should match")
			}

			match, err = VerifyPassword("wrong", hash)
			if err != nil {
				t.Fatalf("VerifyPassword should not return error for wrong password: %v", err)
			}
			if match {
				t.Error("Wrong password should not match")
			}
		})
	}
}

func TestVerifyPassword_InvalidHashFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		hash    string
		wantErr error
	}{
		{"empty", "", ErrInvalidHash},
		{"wrong format", "not-a-hash", ErrInvalidHash},
		{"unknown algorithm", "$scrypt$v=19$m=65536,t=3,p=4$salt$hash", ErrInvalidHash},
		{"argon2 missing parts", "$argon2id$v=19$m=65536", ErrInvalidHash},
		{"argon2 wrong part count", "$argon2id$v=19", ErrInvalidHash},
		{"truncated bcrypt", "$2a$10$short", ErrInvalidHash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := VerifyPassword("password", tt.hash)
			if err != tt.wantErr {
				t.Errorf("VerifyPassword with %q error = %v, want %v", tt.name, err, tt.wantErr)
			}
		})
	}
}

func TestVerifyPassword_WrongVersion(t *testing.T) {
	t.Parallel()

	invalidVersionHash := "$argon2id$v=18$m=65536,t=3,p=4$c29tZXNhbHRoZXJl$c29tZWhhc2hoZXJl"

	match, err := VerifyPassword("password", invalidVersionHash)
	if err != ErrIncompatibleVersion {
		t.Errorf("Expected ErrIncompatibleVersion, got: %v", err)
	}
	if match {
		t.Error("Should not match with incompatible version")
	}
}

func TestAlgorithmOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		hash string
		want string
	}{
		{"argon2id", "$argon2id$v=19$m=65536,t=3,p=4$salt$hash", AlgoArgon2id},
		{"bcrypt 2a", "$2a$10$abcdefghijklmnopqrstuv", AlgoBcrypt},
		{"bcrypt 2b", "$2b$10$abcdefghijklmnopqrstuv", AlgoBcrypt},
		{"bcrypt 2y", "$2y$10$abcdefghijklmnopqrstuv", AlgoBcrypt},
		{"unknown", "plaintext", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := AlgorithmOf(tt.hash); got != tt.want {
				t.Errorf("AlgorithmOf(%q) = %q, want %q", tt.hash, got, tt.want)
			}
		})
	}
}

func TestBcryptHasher_PasswordTooLong(t *testing.T) {
	t.Parallel()

	_, err := newTestBcrypt(t).Hash(strings.Repeat("x", 73))
	if !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("expected ErrPasswordTooLong, got %v", err)
	}
}
