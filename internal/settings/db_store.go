package settings

import (
	"context"
	"encoding/json"
	"fmt"
)

const documentKey = "settings"

// Documents is a key/value store of JSON documents.
type Documents interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

// DBStore keeps settings as one JSON document in the database.
type DBStore struct {
	docs Documents
}

func NewDBStore(docs Documents) *DBStore {
	return &DBStore{docs: docs}
}

// Load returns the stored settings, or Defaults when none were saved.
func (s *DBStore) Load(ctx context.Context) (Settings, error) {
	raw, ok, err := s.docs.Get(ctx, documentKey)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	if !ok {
		return Defaults(), nil
	}
	var out Settings
	if err := json.Unmarshal(raw, &out); err != nil {
		return Settings{}, fmt.Errorf("failed to decode settings: %w", err)
	}
	return out.normalize(), nil
}

func (s *DBStore) Save(ctx context.Context, v Settings) error {
	if err := v.Validate(); err != nil {
		return err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := s.docs.Put(ctx, documentKey, raw); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
