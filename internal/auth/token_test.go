package auth

import (
	"strings"
	"testing"
)

func TestGenerateSessionToken_Format(t *testing.T) {
	t.Parallel()

	token, err := GenerateSessionToken()
	if err != nil {
		t.Fatalf("GenerateSessionToken failed: %v", err)
	}

	if len(token) != SessionTokenBytes*2 {
		t.Errorf("token length = %d, want %d", len(token), SessionTokenBytes*2)
	}
	if !ValidateSessionToken(token) {
		t.Errorf("generated token should validate, got: %s", token)
	}
}

func TestGenerateSessionToken_Unique(t *testing.T) {
	t.Parallel()

	const numTokens = 100
	tokens := make(map[string]bool, numTokens)

	for i := 0; i < numTokens; i++ {
		token, err := GenerateSessionToken()
		if err != nil {
			t.Fatalf("GenerateSessionToken failed: %v", err)
		}
		if tokens[token] {
			t.Errorf("Duplicate token found at iteration %d", i)
		}
		tokens[token] = true
	}
}

func TestHashSessionToken(t *testing.T) {
	t.Parallel()

	token := strings.Repeat("ab", SessionTokenBytes)

	hash1 := HashSessionToken(token)
	hash2 := HashSessionToken(token)

	if hash1 != hash2 {
		t.Error("Same token should produce same hash")
	}
	if len(hash1) != 64 {
		t.Errorf("Hash should be 64 chars, got: %d", len(hash1))
	}
	if hash1 == token {
		t.Error("Hash should differ from the token itself")
	}
	if HashSessionToken("other") == hash1 {
		t.Error("Different tokens should produce different hashes")
	}
}

func TestValidateSessionToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"valid", strings.Repeat("0a", 32), true},
		{"empty", "", false},
		{"too short", strings.Repeat("0a", 16), false},
		{"too long", strings.Repeat("0a", 33), false},
		{"uppercase hex", strings.Repeat("0A", 32), false},
		{"non hex", strings.Repeat("zz", 32), false},
		{"with whitespace", " " + strings.Repeat("0a", 32), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ValidateSessionToken(tt.token); got != tt.want {
				t.Errorf("ValidateSessionToken(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}
