package util

import (
	"strings"
	"testing"
)

func TestRandomString(t *testing.T) {
	str, err := RandomString(32)
	if err != nil {
		t.Fatalf("RandomString: %v", err)
	}
	if len(str) != 32 {
		t.Errorf("len = %d, want 32", len(str))
	}

	str2, _ := RandomString(32)
	if str == str2 {
		t.Error("two calls returned the same string")
	}

	if _, err = RandomString(0); err == nil {
		t.Error("RandomString(0) error = nil, want error")
	}
	if _, err = RandomString(-5); err == nil {
		t.Error("RandomString(-5) error = nil, want error")
	}
}

func TestEncryptDecryptAES(t *testing.T) {
	key := "test-encryption-key"

	testCases := []string{
		"Hello World",
		"Depreciación acumulada",
		"",
		"Special!@#$%^&*()",
		strings.Repeat("A", 1000),
	}

	for _, plaintext := range testCases {
		encrypted, err := EncryptAES(key, []byte(plaintext))
		if err != nil {
			t.Fatalf("encrypt %q: %v", plaintext, err)
		}

		decrypted, err := DecryptAES(key, encrypted)
		if err != nil {
			t.Fatalf("decrypt %q: %v", plaintext, err)
		}

		if string(decrypted) != plaintext {
			t.Errorf("got %q, want %q", string(decrypted), plaintext)
		}
	}
}

func TestDecryptAES_WrongKey(t *testing.T) {
	encrypted, _ := EncryptAES("correct-key", []byte("Data"))

	if _, err := DecryptAES("wrong-key", encrypted); err == nil {
		t.Error("decrypt with wrong key succeeded")
	}
}

func TestDecryptAES_InvalidData(t *testing.T) {
	key := "test-key"

	if _, err := DecryptAES(key, []byte{1, 2, 3}); err == nil {
		t.Error("short data: error = nil, want error")
	}
	if _, err := DecryptAES(key, []byte{}); err == nil {
		t.Error("empty data: error = nil, want error")
	}
}

func TestEncryptField_RoundTrip(t *testing.T) {
	enc, err := EncryptField("k", "POST /api/activos")
	if err != nil {
		t.Fatalf("EncryptField: %v", err)
	}
	if enc == "POST /api/activos" {
		t.Fatal("EncryptField returned plaintext")
	}
	if got := DecryptField("k", enc); got != "POST /api/activos" {
		t.Errorf("DecryptField = %q", got)
	}
}

func TestEncryptField_NoKeyPassesThrough(t *testing.T) {
	enc, err := EncryptField("", "plain")
	if err != nil || enc != "plain" {
		t.Errorf("EncryptField(\"\", plain) = %q, %v", enc, err)
	}
	if got := DecryptField("k", "not base64 !!"); got != "not base64 !!" {
		t.Errorf("DecryptField on garbage = %q", got)
	}
}

func BenchmarkEncryptAES(b *testing.B) {
	key := "bench-key"
	data := []byte("Benchmark data")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		EncryptAES(key, data)
	}
}
