package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestJWTManager(t *testing.T) {
	manager := NewJWTManager("test-secret-key-with-32-bytes!!!", time.Hour)

	t.Run("round trip", func(t *testing.T) {
		token, expiresAt, err := manager.Generate("admin")
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if time.Until(expiresAt) <= 0 {
			t.Errorf("expiry %v is not in the future", expiresAt)
		}

		claims, err := manager.Validate(token)
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}
		if claims.Operator != "admin" {
			t.Errorf("expected operator admin, got %q", claims.Operator)
		}
		if claims.ID == "" {
			t.Error("expected a token id")
		}
	})

	t.Run("token ids are unique", func(t *testing.T) {
		first, _, _ := manager.Generate("admin")
		second, _, _ := manager.Generate("admin")
		a, _ := manager.Validate(first)
		b, _ := manager.Validate(second)
		if a.ID == b.ID {
			t.Error("two tokens share an id")
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTManager("another-secret-key-of-32-bytes!!", time.Hour)
		token, _, _ := other.Generate("admin")
		if _, err := manager.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		expired := NewJWTManager("test-secret-key-with-32-bytes!!!", -time.Minute)
		token, _, _ := expired.Generate("admin")
		if _, err := manager.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("unsigned", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Operator: "admin"})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		if err != nil {
			t.Fatalf("failed to build unsigned token: %v", err)
		}
		if _, err := manager.Validate(signed); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})
}

func TestOperatorAuthenticator(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	authenticator, err := NewOperatorAuthenticator("admin", hash)
	if err != nil {
		t.Fatalf("NewOperatorAuthenticator failed: %v", err)
	}
	ctx := context.Background()

	tests := []struct {
		name     string
		user     string
		password string
		wantErr  bool
	}{
		{"valid", "admin", "correct horse battery", false},
		{"wrong password", "admin", "wrong horse battery", true},
		{"wrong name", "root", "correct horse battery", true},
		{"empty", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := authenticator.Authenticate(ctx, tt.user, tt.password)
			if tt.wantErr && !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("expected ErrInvalidCredentials, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestNewOperatorAuthenticator_Invalid(t *testing.T) {
	if _, err := NewOperatorAuthenticator("admin", "not-a-bcrypt-hash"); err == nil {
		t.Error("expected error for malformed hash")
	}
	if _, err := NewOperatorAuthenticator("", "$2a$10$"+strings.Repeat("a", 53)); err == nil {
		t.Error("expected error for empty name")
	}
	if _, err := HashPassword("short"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("expected ErrWeakPassword, got %v", err)
	}
}
