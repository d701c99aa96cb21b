package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/aretw0/formwork/pkg/adapters/file"
	"github.com/aretw0/formwork/pkg/ports"
)

// DefaultSessionDir is where file sessions live inside a project directory.
func DefaultSessionDir(projectDir string) string {
	if projectDir == "" {
		projectDir = "."
	}
	return filepath.Join(projectDir, ".formwork", "sessions")
}

// FileStore opens the file session store of a project directory.
func FileStore(projectDir string) *file.Store {
	return file.NewStore(DefaultSessionDir(projectDir))
}

// ListSessions prints the stored sessions grouped as "form  session".
func ListSessions(ctx context.Context, store ports.StateStore, w io.Writer) error {
	keys, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("error listing sessions: %w", err)
	}
	if len(keys) == 0 {
		fmt.Fprintln(w, "No active sessions found.")
		return nil
	}

	fmt.Fprintln(w, "Active Sessions:")
	for _, key := range keys {
		formID, sessionID, ok := ports.SplitSessionKey(key)
		if !ok {
			fmt.Fprintf(w, "- %s\n", key)
			continue
		}
		fmt.Fprintf(w, "- %s (form: %s)\n", sessionID, formID)
	}
	return nil
}

// InspectSession prints the answers of one session as indented JSON.
func InspectSession(ctx context.Context, store ports.StateStore, formID, sessionID string, w io.Writer) error {
	state, err := store.Load(ctx, ports.SessionKey(formID, sessionID))
	if err != nil {
		return fmt.Errorf("error loading session '%s': %w", sessionID, err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling state: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// RemoveSessions deletes sessions of a form, reporting each one. It returns
// an error when any removal failed.
func RemoveSessions(ctx context.Context, store ports.StateStore, formID string, sessionIDs []string, w io.Writer) error {
	failed := 0
	for _, sessionID := range sessionIDs {
		if err := store.Delete(ctx, ports.SessionKey(formID, sessionID)); err != nil {
			fmt.Fprintf(w, "Error removing '%s': %v\n", sessionID, err)
			failed++
			continue
		}
		fmt.Fprintf(w, "Removed session '%s'\n", sessionID)
	}
	if failed > 0 {
		return fmt.Errorf("failed to remove %d session(s)", failed)
	}
	return nil
}
