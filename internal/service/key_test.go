package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/orda-service/internal/auth"
	"github.com/orda-service/internal/repo"
)

func TestGenerateKey(t *testing.T) {
	pub := &mockPublisher{}
	tokens := auth.NewTokens("secret")
	svc := NewKeyService(newCollection(repo.APIKeysCollection), tokens, nil, pub)

	key, err := svc.GenerateKey(context.Background(), GenerateKeyRequest{CustomerID: ptr("501")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if key.KeyID == "" || key.Key == "" {
		t.Fatalf("expected key ID and key to be set: %+v", key)
	}
	if !key.Active {
		t.Error("expected key to be active")
	}
	if key.CustomerID != "501" {
		t.Errorf("expected customer 501, got %s", key.CustomerID)
	}

	claims, err := tokens.Parse(key.Key)
	if err != nil {
		t.Fatalf("issued key does not parse: %v", err)
	}
	if claims.ID != key.KeyID || claims.Subject != "501" {
		t.Errorf("claims do not name the key: %+v", claims.RegisteredClaims)
	}

	stored, err := svc.LookupKey(context.Background(), key.KeyID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *stored != *key {
		t.Errorf("expected stored key %+v, got %+v", key, stored)
	}

	if got := pub.channels(); !slices.Equal(got, []string{KeyGeneratedChannel}) {
		t.Fatalf("expected key.generated event, got %v", got)
	}
	msg, ok := pub.published[0].message.(map[string]any)
	if !ok {
		t.Fatalf("unexpected event payload %T", pub.published[0].message)
	}
	if _, leaked := msg["key"]; leaked {
		t.Error("event must not carry the key")
	}
}

func TestGenerateKeyValidation(t *testing.T) {
	svc := NewKeyService(newCollection(repo.APIKeysCollection), auth.NewTokens("secret"), nil, nil)

	_, err := svc.GenerateKey(context.Background(), GenerateKeyRequest{})
	if !isValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "customer_id") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestLookupKeyNotFound(t *testing.T) {
	svc := NewKeyService(newCollection(repo.APIKeysCollection), auth.NewTokens("secret"), nil, nil)

	if _, err := svc.LookupKey(context.Background(), "missing"); !errors.Is(err, repo.ErrNotFound) {
		t.Errorf("expected repo.ErrNotFound, got %v", err)
	}
}
