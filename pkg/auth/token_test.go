package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/umtlostfound/lostfound-backend/pkg/config"
	"github.com/umtlostfound/lostfound-backend/pkg/enums"
)

func testConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "https://auth.lostfound.test",
		Audience:          "authenticated",
		ExpirationMinutes: 30,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testConfig()
	now := time.Now().UTC()
	userID := uuid.New()

	token, err := MintAccessToken(cfg, now, AccessTokenPayload{
		UserID:       userID,
		Email:        "sam@campus.edu",
		UserMetadata: UserMetadata{FullName: "Sam River Stone", UserType: "faculty"},
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	got, err := claims.UserID()
	if err != nil || got != userID {
		t.Fatalf("expected subject %s, got %s (%v)", userID, got, err)
	}
	if claims.Email != "sam@campus.edu" {
		t.Fatalf("unexpected email %q", claims.Email)
	}
	if claims.Role != "authenticated" {
		t.Fatalf("expected default role, got %q", claims.Role)
	}
	first, last := claims.DisplayName()
	if first != "Sam" || last != "River Stone" {
		t.Fatalf("unexpected name split %q %q", first, last)
	}
	if claims.UserType() != enums.UserTypeFaculty {
		t.Fatalf("unexpected user type %s", claims.UserType())
	}

	exp := now.Add(time.Duration(cfg.ExpirationMinutes) * time.Minute)
	diff := claims.ExpiresAt.Sub(exp)
	if diff < 0 {
		diff = -diff
	}
	if diff >= time.Second {
		t.Fatalf("expected exp roughly %v, got %v", exp, claims.ExpiresAt.Time)
	}
}

func TestParseAccessTokenInvalidSignature(t *testing.T) {
	cfg := testConfig()
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}
	if _, err := ParseAccessToken(cfg, token+"x"); err == nil {
		t.Fatal("expected invalid signature error")
	}
}

func TestParseAccessTokenExpired(t *testing.T) {
	cfg := testConfig()
	token, err := MintAccessToken(cfg, time.Now().Add(-time.Hour), AccessTokenPayload{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}
	_, err = ParseAccessToken(cfg, token)
	if err == nil || !strings.Contains(err.Error(), "expired") {
		t.Fatalf("expected expired error, got %v", err)
	}
}

func TestParseAccessTokenWrongAudience(t *testing.T) {
	cfg := testConfig()
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}
	other := cfg
	other.Audience = "service_role"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("expected audience mismatch error")
	}
}

func TestDisplayNamePrefersExplicitParts(t *testing.T) {
	claims := &AccessTokenClaims{UserMetadata: UserMetadata{FirstName: " Ada ", FullName: "Ignored Name"}}
	first, last := claims.DisplayName()
	if first != "Ada" || last != "" {
		t.Fatalf("unexpected name split %q %q", first, last)
	}
	if (&AccessTokenClaims{}).UserType() != enums.UserTypeStudent {
		t.Fatalf("expected student default")
	}
}
