package auth

import "testing"

func TestHashVerifyRoundTrip(t *testing.T) {
	salt, err := NewSalt()
	if err != nil {
		t.Fatalf("NewSalt: %v", err)
	}
	if len(salt) != saltBytes*2 {
		t.Fatalf("salt length = %d, want %d hex chars", len(salt), saltBytes*2)
	}

	hash := HashPassword("correct horse", salt)
	if !VerifyPassword("correct horse", hash, salt) {
		t.Fatalf("matching password rejected")
	}
	if VerifyPassword("wrong horse", hash, salt) {
		t.Fatalf("wrong password accepted")
	}
	if VerifyPassword("correct horse", hash, "deadbeef") {
		t.Fatalf("wrong salt accepted")
	}
}

func TestHashIsDeterministicPerSalt(t *testing.T) {
	if HashPassword("abc", "s1") != HashPassword("abc", "s1") {
		t.Fatalf("hash not deterministic")
	}
	if HashPassword("abc", "s1") == HashPassword("abc", "s2") {
		t.Fatalf("different salts produced identical hashes")
	}
}

func TestNewSessionTokenUnique(t *testing.T) {
	a, err := NewSessionToken()
	if err != nil {
		t.Fatalf("NewSessionToken: %v", err)
	}
	b, err := NewSessionToken()
	if err != nil {
		t.Fatalf("NewSessionToken: %v", err)
	}
	if a == b {
		t.Fatalf("two tokens collided")
	}
	if len(a) != tokenBytes*2 {
		t.Fatalf("token length = %d, want %d hex chars", len(a), tokenBytes*2)
	}
}
