package service

import (
	"context"
	"fmt"

	"github.com/orda-service/internal/events"
	"github.com/orda-service/internal/ident"
	"github.com/orda-service/internal/model"
	"github.com/orda-service/internal/repo"
	"go.uber.org/zap"
)

// KeyIssuer produces the credential string handed to the caller.
type KeyIssuer interface {
	Issue(keyID, customerID string) (string, error)
}

type KeyService struct {
	keys      repo.Collection
	issuer    KeyIssuer
	newID     ident.Generator
	publisher events.Publisher
}

func NewKeyService(keys repo.Collection, issuer KeyIssuer, newID ident.Generator, publisher events.Publisher) *KeyService {
	if newID == nil {
		newID = ident.New
	}
	return &KeyService{keys: keys, issuer: issuer, newID: newID, publisher: publisher}
}

type GenerateKeyRequest struct {
	CustomerID *string `json:"customer_id" validate:"required"`
}

func (s *KeyService) GenerateKey(ctx context.Context, req GenerateKeyRequest) (*model.APIKey, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	key := &model.APIKey{
		KeyID:      s.newID(),
		Active:     true,
		CustomerID: *req.CustomerID,
	}

	token, err := s.issuer.Issue(key.KeyID, key.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("issue api key: %w", err)
	}
	key.Key = token

	if err := s.keys.Insert(ctx, key.KeyID, key); err != nil {
		logStoreError(ctx, "store: failed to create api key", err, zap.String("key_id", key.KeyID))
		return nil, err
	}

	// the credential itself stays out of the event stream
	publish(ctx, s.publisher, KeyGeneratedChannel, key.KeyID, map[string]any{
		"key_id":      key.KeyID,
		"customer_id": key.CustomerID,
		"active":      key.Active,
	})
	return key, nil
}

func (s *KeyService) LookupKey(ctx context.Context, keyID string) (*model.APIKey, error) {
	var key model.APIKey
	if err := s.keys.FindOne(ctx, keyID, &key); err != nil {
		return nil, err
	}
	return &key, nil
}
