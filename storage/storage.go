// Package storage provides the local persistence adapter: the full
// project collection serialized as one JSON document in an on-disk
// key-value store. It is the backend for guest sessions and the source
// for the local-to-cloud migration.
package storage

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/peterbourgon/diskv/v3"

	"github.com/sirsjg/traction/state"
)

// projectsKey is the single key holding the serialized collection.
const projectsKey = "projects"

// Store persists the project collection under a base directory.
type Store struct {
	d *diskv.Diskv
}

// New creates a Store rooted at basePath. The directory is created
// lazily on first write.
func New(basePath string) *Store {
	return &Store{
		d: diskv.New(diskv.Options{
			BasePath:     basePath,
			CacheSizeMax: 1024 * 1024, // 1MB
		}),
	}
}

// Save overwrites the stored collection with the given projects.
// Timestamps are serialized as RFC 3339 strings and round-trip
// losslessly.
func (s *Store) Save(projects []state.Project) error {
	if projects == nil {
		projects = []state.Project{}
	}
	data, err := json.Marshal(projects)
	if err != nil {
		return err
	}
	return s.d.Write(projectsKey, data)
}

// Load reads the stored collection. Missing or malformed data yields
// an empty collection, never an error: local corruption degrades
// silently rather than crashing the app.
func (s *Store) Load() []state.Project {
	data, err := s.d.Read(projectsKey)
	if err != nil {
		return nil
	}

	var projects []state.Project
	if err := json.Unmarshal(data, &projects); err != nil {
		return nil
	}
	return projects
}

// HasData reports whether a non-empty collection is stored. The
// migration trigger checks this before doing any remote work.
func (s *Store) HasData() bool {
	return len(s.Load()) > 0
}

// Clear removes the stored collection. Called after a successful
// migration to the remote backend.
func (s *Store) Clear() error {
	err := s.d.Erase(projectsKey)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
