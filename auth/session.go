package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// sessionFile holds the saved identity inside the data directory.
const sessionFile = "session.json"

// SaveSession persists the identity so headless commands can resume it
// in later invocations.
func SaveSession(dir string, id *Identity) error {
	if id == nil {
		return ClearSession(dir)
	}

	data, err := json.MarshalIndent(id, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, sessionFile), data, 0o600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// LoadSession reads a previously saved identity. A missing or
// unreadable session yields nil, meaning guest.
func LoadSession(dir string) *Identity {
	data, err := os.ReadFile(filepath.Join(dir, sessionFile))
	if err != nil {
		return nil
	}

	var id Identity
	if err := json.Unmarshal(data, &id); err != nil || id.Token == "" {
		return nil
	}
	return &id
}

// ClearSession removes the saved identity.
func ClearSession(dir string) error {
	err := os.Remove(filepath.Join(dir, sessionFile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}
