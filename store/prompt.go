package store

import (
	"context"
	"errors"
)

// PromptKey is the key the saved prompt is stored under
const PromptKey = "prompt"

// PromptStore reads and writes the saved extraction prompt
type PromptStore struct {
	store *Store
}

// Prompts returns the prompt store backed by s
func (s *Store) Prompts() *PromptStore {
	return &PromptStore{store: s}
}

// Load returns the saved prompt, or an empty string if none was saved
func (p *PromptStore) Load(ctx context.Context) (string, error) {
	v, err := p.store.Get(ctx, PromptKey)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return v, err
}

// Save stores the prompt and reports whether it was persisted
func (p *PromptStore) Save(ctx context.Context, prompt string) (bool, error) {
	if err := p.store.Set(ctx, PromptKey, prompt); err != nil {
		return false, err
	}
	return true, nil
}
