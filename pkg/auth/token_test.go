package auth

import (
	"testing"
	"time"

	"github.com/drapeline/drapeline-backend/pkg/config"
	"github.com/drapeline/drapeline-backend/pkg/enums"
	"github.com/google/uuid"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "drapeline",
		ExpirationMinutes: 15,
	}
}

func TestMintAndParseRoundTrip(t *testing.T) {
	cfg := testJWTConfig()
	vendorID := uuid.New()
	payload := AccessTokenPayload{
		UserID:   uuid.New(),
		VendorID: &vendorID,
		Role:     enums.RoleVendor,
	}

	signed, err := MintAccessToken(cfg, time.Now(), payload)
	if err != nil {
		t.Fatalf("MintAccessToken error: %v", err)
	}

	claims, err := ParseAccessToken(cfg, signed)
	if err != nil {
		t.Fatalf("ParseAccessToken error: %v", err)
	}
	if claims.UserID != payload.UserID {
		t.Fatalf("user id mismatch: %s", claims.UserID)
	}
	if claims.VendorID == nil || *claims.VendorID != vendorID {
		t.Fatalf("vendor id mismatch: %v", claims.VendorID)
	}
	if claims.Role != enums.RoleVendor {
		t.Fatalf("role mismatch: %s", claims.Role)
	}
}

func TestMintRejectsVendorWithoutVendorID(t *testing.T) {
	cfg := testJWTConfig()
	_, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.RoleVendor,
	})
	if err == nil {
		t.Fatal("expected error for vendor payload without vendor id")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	cfg := testJWTConfig()
	signed, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.RoleCustomer,
	})
	if err != nil {
		t.Fatalf("MintAccessToken error: %v", err)
	}
	if _, err := ParseAccessToken(cfg, signed); err == nil {
		t.Fatal("expected expired token to fail parsing")
	}
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	minted, err := MintAccessToken(config.JWTConfig{Secret: "test-secret", Issuer: "other", ExpirationMinutes: 15}, time.Now(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.RoleCustomer,
	})
	if err != nil {
		t.Fatalf("MintAccessToken error: %v", err)
	}
	if _, err := ParseAccessToken(testJWTConfig(), minted); err == nil {
		t.Fatal("expected issuer mismatch to fail parsing")
	}
}
