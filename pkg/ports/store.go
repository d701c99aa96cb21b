package ports

import (
	"context"

	"github.com/aretw0/formwork/pkg/domain"
)

// StateStore persists the answers of form sessions.
// Keys are built with SessionKey so one store can serve every form.
type StateStore interface {
	// Save replaces the state stored under key.
	Save(ctx context.Context, key string, state domain.State) error

	// Load retrieves the state stored under key.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, key string) (domain.State, error)

	// Delete removes the state stored under key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns every stored key.
	List(ctx context.Context) ([]string, error)
}

// SessionKey joins a form identifier and a session identifier into a store key.
func SessionKey(formID, sessionID string) string {
	return formID + ":" + sessionID
}

// SplitSessionKey is the inverse of SessionKey.
func SplitSessionKey(key string) (formID, sessionID string, ok bool) {
	for i := 0; i < len(key); i++ {
		if key[i] == ':' {
			return key[:i], key[i+1:], true
		}
	}
	return "", key, false
}
