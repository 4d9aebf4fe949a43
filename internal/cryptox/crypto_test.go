package cryptox

import (
	"bytes"
	"errors"
	"strconv"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func init() {
	Cost = bcrypt.MinCost
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret-password")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == "secret-password" {
		t.Fatalf("hash must not equal the password")
	}
	if !CheckPassword(hash, "secret-password") {
		t.Errorf("expected match for the right password")
	}
	if CheckPassword(hash, "wrong") {
		t.Errorf("expected no match for a wrong password")
	}
	if CheckPassword("", "secret-password") {
		t.Errorf("empty hash must never match")
	}
}

func TestHashPassword_SaltsEachHash(t *testing.T) {
	a, _ := HashPassword("same")
	b, _ := HashPassword("same")
	if a == b {
		t.Errorf("two hashes of the same password should differ")
	}
}

func TestHashPassword_TooLong(t *testing.T) {
	_, err := HashPassword(string(bytes.Repeat([]byte("x"), 100)))
	if err == nil {
		t.Fatalf("expected error for a password over 72 bytes")
	}
}

func TestGenerateCode_Range(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := GenerateCode()
		if err != nil {
			t.Fatalf("GenerateCode error: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("code %q is not six digits", code)
		}
		n, err := strconv.Atoi(code)
		if err != nil || n < codeMin || n > codeMax {
			t.Fatalf("code %q out of range", code)
		}
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestGenerateCode_ReaderError(t *testing.T) {
	orig := randReader
	randReader = failingReader{}
	t.Cleanup(func() { randReader = orig })

	if _, err := GenerateCode(); err == nil {
		t.Fatalf("expected error from a failing reader")
	}
}
