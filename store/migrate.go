package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sirsjg/traction/auth"
	"github.com/sirsjg/traction/client"
)

const (
	// migrationAttempts bounds the retries for the one-shot migration.
	migrationAttempts = 3
	// migrationBackoff is the initial delay between attempts; it
	// doubles after each failure.
	migrationBackoff = 500 * time.Millisecond
)

// WatchAuth consumes identity transitions from the bridge, switching
// the active backend and running the guest-to-authenticated migration
// when one fires. Call it in its own goroutine; it returns when the
// context is cancelled.
func (s *Store) WatchAuth(ctx context.Context) {
	if s.bridge == nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-s.bridge.Changes():
			if !ok {
				return
			}
			s.handleAuthChange(ctx, change)
		}
	}
}

// ApplyAuthChange processes a single identity transition synchronously.
// Headless commands use it to run sign-in side effects to completion
// before the process exits; the TUI relies on WatchAuth instead.
func (s *Store) ApplyAuthChange(ctx context.Context, change auth.Change) {
	s.handleAuthChange(ctx, change)
}

func (s *Store) handleAuthChange(ctx context.Context, change auth.Change) {
	if change.To == nil {
		// Signed out: back to the local backend.
		s.remote.SetToken("")
		if err := s.LoadInitial(ctx); err != nil {
			log.Printf("store: reload after sign-out failed: %v", err)
		}
		return
	}

	s.remote.SetToken(change.To.Token)

	if change.From == nil && s.local.HasData() {
		if err := s.MigrateLocal(ctx, change.To); err != nil {
			// Local data stays put; it will migrate on the next
			// guest-to-authenticated transition.
			log.Printf("store: migration failed, keeping local data: %v", err)
		}
	}

	if err := s.LoadInitial(ctx); err != nil {
		log.Printf("store: reload after sign-in failed: %v", err)
	}
}

// MigrateLocal uploads the full local project collection to the
// remote backend tagged with the new identity, as a single batch, and
// clears local storage on success. It retries a few times with
// doubling backoff; after that the local data is left intact and no
// further attempt is made until another guest-to-authenticated
// transition occurs.
func (s *Store) MigrateLocal(ctx context.Context, identity *auth.Identity) error {
	projects := s.local.Load()
	if len(projects) == 0 {
		return nil
	}

	var batch client.BatchRequest
	for _, p := range projects {
		batch.Projects = append(batch.Projects, client.ToProjectRecord(p, identity.UserID))
		for _, t := range p.Tasks {
			batch.Tasks = append(batch.Tasks, client.ToTaskRecord(t, p.ID, identity.UserID))
		}
	}

	var lastErr error
	backoff := migrationBackoff
	for attempt := 1; attempt <= migrationAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = s.remote.BatchUpsert(batch)
		if lastErr == nil {
			if err := s.local.Clear(); err != nil {
				log.Printf("store: failed to clear local data after migration: %v", err)
			}
			log.Printf("store: migrated %d local projects to cloud", len(projects))
			return nil
		}

		log.Printf("store: migration attempt %d/%d failed: %v", attempt, migrationAttempts, lastErr)
		if attempt < migrationAttempts {
			waitWithContext(ctx, backoff)
			backoff *= 2
		}
	}

	return fmt.Errorf("migration gave up after %d attempts: %w", migrationAttempts, lastErr)
}

// waitWithContext waits for the duration or until the context is
// cancelled.
func waitWithContext(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
