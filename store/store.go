// Package store wires the pure state reducer to its side effects: the
// project quota precondition, synchronous local persistence for
// guests, fire-and-forget remote synchronization for authenticated
// users, and the one-shot local-to-cloud migration on first sign-in.
package store

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/sirsjg/traction/auth"
	"github.com/sirsjg/traction/client"
	"github.com/sirsjg/traction/gen"
	"github.com/sirsjg/traction/state"
	"github.com/sirsjg/traction/storage"
)

// Project limits per identity class. Policy constants, not
// user-configurable.
const (
	GuestProjectLimit = 3
	AuthProjectLimit  = 10
)

// CapacityError signals that adding a project would exceed the limit
// for the current identity class. It is raised before the action
// reaches the reducer; the state is left unchanged.
type CapacityError struct {
	Limit         int
	Authenticated bool
}

func (e *CapacityError) Error() string {
	if e.Authenticated {
		return fmt.Sprintf("project limit reached (%d); complete or delete a project first", e.Limit)
	}
	return fmt.Sprintf("guest project limit reached (%d); sign in to raise it to %d", e.Limit, AuthProjectLimit)
}

// Store owns the canonical AppState and applies actions to it one at a
// time. Dispatch applies the reduction synchronously and immediately;
// remote synchronization happens afterwards in the background and
// never blocks, fails, or rolls back a dispatch.
type Store struct {
	mu    sync.Mutex
	state state.AppState

	local  *storage.Store
	remote *client.Client
	bridge *auth.Bridge
	syncer *syncer
}

// New creates a Store over the given backends. The bridge may be nil
// for purely local (guest-only) operation.
func New(local *storage.Store, remote *client.Client, bridge *auth.Bridge) *Store {
	s := &Store{
		state:  state.NewAppState(),
		local:  local,
		remote: remote,
		bridge: bridge,
	}
	s.syncer = newSyncer(remote)
	return s
}

// State returns a snapshot of the current state. The snapshot shares
// no mutable slices with future reductions; treat it as read-only.
func (s *Store) State() state.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// identity returns the current identity, or nil for a guest.
func (s *Store) identity() *auth.Identity {
	if s.bridge == nil {
		return nil
	}
	return s.bridge.Current()
}

// CanAddProject checks the quota precondition for the current identity
// class. It returns a CapacityError when the collection is full.
func (s *Store) CanAddProject() error {
	limit := GuestProjectLimit
	authenticated := s.identity() != nil
	if authenticated {
		limit = AuthProjectLimit
	}

	s.mu.Lock()
	count := len(s.state.Projects)
	s.mu.Unlock()

	if count >= limit {
		return &CapacityError{Limit: limit, Authenticated: authenticated}
	}
	return nil
}

// Dispatch applies an action. The quota precondition runs first and
// can reject AddProject before any mutation; the reduction itself is
// applied optimistically and never reverted. Guests get a synchronous
// full-collection local save whenever the projects change; for
// authenticated users the committed action is queued for best-effort
// remote sync.
func (s *Store) Dispatch(action state.Action) error {
	if _, ok := action.(state.AddProject); ok {
		if err := s.CanAddProject(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	prev := s.state
	s.state = state.Reduce(prev, action)
	cur := s.state
	s.mu.Unlock()

	identity := s.identity()
	if identity != nil {
		if op, ok := buildRemoteOp(prev, cur, action, identity.UserID); ok {
			s.syncer.enqueue(op)
		}
		return nil
	}

	if projectsChanged(action) {
		if err := s.local.Save(cur.Projects); err != nil {
			log.Printf("store: local save failed: %v", err)
		}
	}
	return nil
}

// LoadInitial loads the project collection from the active backend and
// installs it with a single SetProjects dispatch. The active-project
// pointer is repaired inside that same reduction, so there is no
// separate read of possibly-stale state.
func (s *Store) LoadInitial(ctx context.Context) error {
	s.mu.Lock()
	s.state.Loading = true
	s.mu.Unlock()

	identity := s.identity()
	if identity == nil {
		return s.Dispatch(state.SetProjects{Projects: s.local.Load()})
	}

	projects, err := s.loadRemote(ctx, identity)
	if err != nil {
		s.mu.Lock()
		s.state.Loading = false
		s.mu.Unlock()
		return err
	}
	return s.Dispatch(state.SetProjects{Projects: projects})
}

func (s *Store) loadRemote(ctx context.Context, identity *auth.Identity) ([]state.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records, err := s.remote.ListProjects(identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}
	tasks, err := s.remote.ListTasks(identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	return client.JoinRecords(records, tasks), nil
}

// CreateProject runs the generation gateway for the idea, builds the
// project from the accepted drafts, and dispatches AddProject. On any
// gateway failure no project is created. The quota is checked up front
// so a full collection never burns a generation call.
func (s *Store) CreateProject(ctx context.Context, generator gen.Generator, idea string) (state.Project, error) {
	if err := s.CanAddProject(); err != nil {
		return state.Project{}, err
	}

	drafts, err := generator.GenerateTasks(ctx, idea)
	if err != nil {
		return state.Project{}, err
	}

	tasks := make([]state.Task, 0, len(drafts))
	for i, d := range drafts {
		tasks = append(tasks, state.NewTask(d.Title, d.Description, i))
	}

	project := state.NewProject(idea, tasks)
	if err := s.Dispatch(state.AddProject{Project: project}); err != nil {
		return state.Project{}, err
	}
	return project, nil
}

// Close stops the background syncer after draining queued writes.
func (s *Store) Close() {
	s.syncer.close()
}

// projectsChanged reports whether an action is one that mutates the
// project collection. View-state actions (tabs, focus, indexes) never
// trigger persistence.
func projectsChanged(action state.Action) bool {
	switch action.(type) {
	case state.SetProjects, state.AddProject, state.DeleteProject,
		state.CompleteTask, state.UncompleteTask, state.UpdateTask,
		state.UpdateProject, state.ReorderTasks,
		state.CompleteProject, state.ReopenProject:
		return true
	}
	return false
}
