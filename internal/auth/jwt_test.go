package auth

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("secret", "estateflow", "estateflow-api", 1)
	userID := uuid.New()

	token, err := svc.Generate(userID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("user id = %s, want %s", claims.UserID, userID)
	}
	if claims.Subject != userID.String() {
		t.Fatalf("subject = %q, want %q", claims.Subject, userID.String())
	}
}

func TestTokenExpired(t *testing.T) {
	// A negative TTL issues a token already past its expiry.
	svc := NewTokenService("secret", "estateflow", "estateflow-api", -1)
	token, err := svc.Generate(uuid.New())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	_, err = svc.Validate(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("err = %v, want ErrTokenExpired", err)
	}
	if errors.Is(err, ErrTokenMalformed) {
		t.Fatal("expiry must not read as malformed")
	}
}

func TestTokenMalformed(t *testing.T) {
	svc := NewTokenService("secret", "estateflow", "estateflow-api", 1)
	userID := uuid.New()

	good, err := svc.Generate(userID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	otherSecret := NewTokenService("other-secret", "estateflow", "estateflow-api", 1)
	otherIssuer := NewTokenService("secret", "someone-else", "estateflow-api", 1)
	otherAudience := NewTokenService("secret", "estateflow", "other-api", 1)

	wrongSecret, _ := otherSecret.Generate(userID)
	wrongIssuer, _ := otherIssuer.Generate(userID)
	wrongAudience, _ := otherAudience.Generate(userID)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "empty", token: ""},
		{name: "tampered", token: good + "x"},
		{name: "wrong secret", token: wrongSecret},
		{name: "wrong issuer", token: wrongIssuer},
		{name: "wrong audience", token: wrongAudience},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Validate(tt.token)
			if !errors.Is(err, ErrTokenMalformed) {
				t.Fatalf("err = %v, want ErrTokenMalformed", err)
			}
		})
	}
}
