package security

import (
	"bytes"
	"encoding/hex"
	"testing"
)

var smallParams = Argon2Params{
	Time:    1,
	Memory:  8 * 1024,
	Threads: 1,
	KeyLen:  16,
	SaltLen: 8,
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPasswordWithParams("secreto123", smallParams)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	ok, err := VerifyPassword("secreto123", hash)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatal("correct password rejected")
	}

	ok, err = VerifyPassword("otra-clave", hash)
	if err != nil {
		t.Fatalf("verify wrong password: %v", err)
	}
	if ok {
		t.Fatal("wrong password accepted")
	}
}

func TestHashesAreSalted(t *testing.T) {
	a, err := HashPasswordWithParams("secreto123", smallParams)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	b, err := HashPasswordWithParams("secreto123", smallParams)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatal("two hashes of the same password are identical")
	}
}

func TestVerifyPasswordRejectsGarbage(t *testing.T) {
	if _, err := VerifyPassword("x", []byte("no-es-un-hash")); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := VerifyPassword("x", []byte("$bcrypt$v=19$t=1,m=8,p=1$AA$AA")); err == nil {
		t.Fatal("expected parse error for foreign scheme")
	}
}

func TestGenerateSessionToken(t *testing.T) {
	token, hash, err := GenerateSessionToken()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(token) != 64 {
		t.Fatalf("token length = %d, want 64", len(token))
	}
	if _, err := hex.DecodeString(token); err != nil {
		t.Fatalf("token is not hex: %v", err)
	}
	if !bytes.Equal(hash, HashSessionToken(token)) {
		t.Fatal("returned hash does not match HashSessionToken")
	}

	otro, _, err := GenerateSessionToken()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if token == otro {
		t.Fatal("two generated tokens are identical")
	}
}
