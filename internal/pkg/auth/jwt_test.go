package auth

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func newTestService(exp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: exp,
		TokenIssuer:    "orschooldata-test",
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestService(time.Hour)

	token, expiresIn, err := svc.GenerateToken("admin")
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}
	if expiresIn != 3600 {
		t.Fatalf("expiresIn = %d, want 3600", expiresIn)
	}

	claims, err := svc.ValidateAndExtractClaims(token)
	if err != nil {
		t.Fatalf("ValidateAndExtractClaims returned error: %v", err)
	}
	if claims.Username != "admin" {
		t.Fatalf("claims.Username = %q, want admin", claims.Username)
	}
	if claims.Issuer != "orschooldata-test" {
		t.Fatalf("claims.Issuer = %q", claims.Issuer)
	}
}

func TestValidateToken_Expired(t *testing.T) {
	svc := newTestService(-time.Minute)

	token, _, err := svc.GenerateToken("admin")
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	if _, err := svc.ValidateToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	svc := newTestService(time.Hour)
	token, _, err := svc.GenerateToken("admin")
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	other := NewJWTService(JWTConfig{SecretKey: "different-secret", AccessTokenExp: time.Hour})
	if _, err := other.ValidateToken(token); err == nil {
		t.Fatal("expected validation to fail with a different secret")
	}
}

func TestValidateAndExtractClaims_Empty(t *testing.T) {
	svc := newTestService(time.Hour)
	if _, err := svc.ValidateAndExtractClaims(""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "bearer_prefix", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "raw_token", header: "abc.def.ghi", want: "abc.def.ghi"},
		{name: "empty", header: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractBearerToken(tt.header)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractBearerToken returned error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("ExtractBearerToken = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCheckPassword(t *testing.T) {
	// MinCost keeps the test fast; production uses BcryptCost.
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing: %v", err)
	}

	if !CheckPassword(string(hash), "hunter2") {
		t.Fatal("expected password to verify")
	}
	if CheckPassword(string(hash), "wrong") {
		t.Fatal("expected wrong password to fail")
	}
}
