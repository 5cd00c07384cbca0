package auth

import (
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

func TestService_JWT_GenerateAndParse(t *testing.T) {
	svc, err := New(Config{Mode: ModeJWT, Secret: "test-secret-key"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, err := svc.GenerateToken("admin", "admin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Subject != "admin" {
		t.Errorf("expected subject admin, got %q", claims.Subject)
	}
	if claims.Role != "admin" {
		t.Errorf("expected role admin, got %q", claims.Role)
	}
	if claims.Issuer != "shopfront" {
		t.Errorf("expected default issuer, got %q", claims.Issuer)
	}
	if claims.ExpiresAt == nil || time.Until(claims.ExpiresAt.Time) > time.Hour {
		t.Error("expected expiry within the default TTL")
	}
}

func TestService_JWT_RejectsWrongSecret(t *testing.T) {
	signer, _ := New(Config{Mode: ModeJWT, Secret: "correct-secret"})
	verifier, _ := New(Config{Mode: ModeJWT, Secret: "wrong-secret"})

	token, err := signer.GenerateToken("admin", "admin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := verifier.ParseToken(token); err == nil {
		t.Error("expected error for token signed with a different secret")
	}
}

func TestService_JWT_RejectsExpiredToken(t *testing.T) {
	svc, _ := New(Config{Mode: ModeJWT, Secret: "test-secret-key", TokenTTL: -time.Minute})

	token, err := svc.GenerateToken("admin", "admin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.ParseToken(token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestService_JWT_RejectsWrongIssuer(t *testing.T) {
	signer, _ := New(Config{Mode: ModeJWT, Secret: "test-secret-key", Issuer: "someone-else"})
	verifier, _ := New(Config{Mode: ModeJWT, Secret: "test-secret-key"})

	token, _ := signer.GenerateToken("admin", "admin")
	if _, err := verifier.ParseToken(token); err == nil {
		t.Error("expected error for token from a different issuer")
	}
}

func TestService_JWT_RejectsUnsignedToken(t *testing.T) {
	svc, _ := New(Config{Mode: ModeJWT, Secret: "test-secret-key"})

	unsigned := gojwt.NewWithClaims(gojwt.SigningMethodNone, &Claims{
		RegisteredClaims: gojwt.RegisteredClaims{Subject: "admin", Issuer: "shopfront"},
	})
	token, err := unsigned.SignedString(gojwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.ParseToken(token); err == nil {
		t.Error("expected error for alg=none token")
	}
}

func TestService_StaticToken(t *testing.T) {
	hash, err := HashToken("super-secret-admin-token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("expected bcrypt hash, got %q", hash)
	}

	svc, err := New(Config{Mode: ModeToken, TokenHash: hash})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.VerifyStaticToken("super-secret-admin-token"); err != nil {
		t.Errorf("unexpected error for correct token: %v", err)
	}
	if err := svc.VerifyStaticToken("wrong-token"); err == nil {
		t.Error("expected error for wrong token")
	}
}

func TestService_ValidatorFunc(t *testing.T) {
	t.Run("disabled returns nil", func(t *testing.T) {
		svc, _ := New(Config{})
		if svc.Enabled() {
			t.Error("expected auth disabled")
		}
		if svc.ValidatorFunc() != nil {
			t.Error("expected nil validator when disabled")
		}
	})

	t.Run("jwt mode", func(t *testing.T) {
		svc, _ := New(Config{Mode: ModeJWT, Secret: "test-secret-key"})
		validate := svc.ValidatorFunc()
		if validate == nil {
			t.Fatal("expected validator")
		}

		token, _ := svc.GenerateToken("admin", "admin")
		principal, err := validate(token)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		claims, ok := principal.(*Claims)
		if !ok || claims.Subject != "admin" {
			t.Errorf("unexpected principal: %v", principal)
		}

		if _, err := validate("not-a-token"); err == nil {
			t.Error("expected error for garbage token")
		}
	})

	t.Run("token mode", func(t *testing.T) {
		hash, _ := HashToken("super-secret-admin-token")
		svc, _ := New(Config{Mode: ModeToken, TokenHash: hash})
		validate := svc.ValidatorFunc()
		if validate == nil {
			t.Fatal("expected validator")
		}

		if _, err := validate("super-secret-admin-token"); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if _, err := validate("wrong-token"); err == nil {
			t.Error("expected error for wrong token")
		}
	})
}

func TestService_ModeGuards(t *testing.T) {
	hash, _ := HashToken("super-secret-admin-token")

	jwtSvc, _ := New(Config{Mode: ModeJWT, Secret: "test-secret-key"})
	if err := jwtSvc.VerifyStaticToken("anything"); err == nil {
		t.Error("expected static verification to fail in jwt mode")
	}

	tokenSvc, _ := New(Config{Mode: ModeToken, TokenHash: hash})
	if _, err := tokenSvc.GenerateToken("admin", "admin"); err == nil {
		t.Error("expected generation to fail in token mode")
	}
}

func TestHashToken_MinimumLength(t *testing.T) {
	if _, err := HashToken("short"); err == nil {
		t.Error("expected error for short token")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"disabled", Config{}, false},
		{"jwt with secret", Config{Mode: ModeJWT, Secret: "s"}, false},
		{"jwt without secret", Config{Mode: ModeJWT}, true},
		{"token with hash", Config{Mode: ModeToken, TokenHash: "h"}, false},
		{"token without hash", Config{Mode: ModeToken}, true},
		{"unknown mode", Config{Mode: "oauth"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
