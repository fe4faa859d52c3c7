package utils

import "testing"

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !CheckPassword("s3cret-pass", hash) {
		t.Fatal("correct password rejected")
	}
	if CheckPassword("wrong-pass", hash) {
		t.Fatal("wrong password accepted")
	}
}
