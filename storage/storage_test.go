package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirsjg/traction/state"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	s := New(t.TempDir())

	completedAt := time.Date(2025, 5, 1, 12, 30, 0, 0, time.UTC)
	projects := []state.Project{
		{
			ID:          "p1",
			Name:        "Garden",
			Description: "plan a garden for spring",
			CreatedAt:   time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC),
			Priority:    state.PriorityHigh,
			Tasks: []state.Task{
				{ID: "t1", Title: "buy seeds", Order: 0},
				{ID: "t2", Title: "prepare beds", Completed: true, Order: 1},
			},
		},
		{
			ID:          "p2",
			Name:        "Done",
			Completed:   true,
			CreatedAt:   time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
			CompletedAt: &completedAt,
		},
	}

	if err := s.Save(projects); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded := s.Load()
	if len(loaded) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(loaded))
	}

	p := loaded[0]
	if p.ID != "p1" || p.Name != "Garden" || p.Priority != state.PriorityHigh {
		t.Errorf("project fields did not round-trip: %+v", p)
	}
	if !p.CreatedAt.Equal(projects[0].CreatedAt) {
		t.Errorf("expected CreatedAt %v, got %v", projects[0].CreatedAt, p.CreatedAt)
	}
	if len(p.Tasks) != 2 || !p.Tasks[1].Completed {
		t.Errorf("tasks did not round-trip: %+v", p.Tasks)
	}

	done := loaded[1]
	if done.CompletedAt == nil || !done.CompletedAt.Equal(completedAt) {
		t.Errorf("expected CompletedAt %v, got %v", completedAt, done.CompletedAt)
	}
}

func TestSaveOverwrites(t *testing.T) {
	s := New(t.TempDir())

	if err := s.Save([]state.Project{{ID: "p1"}, {ID: "p2"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Save([]state.Project{{ID: "p3"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded := s.Load()
	if len(loaded) != 1 || loaded[0].ID != "p3" {
		t.Errorf("expected only p3 after overwrite, got %v", loaded)
	}
}

func TestLoadMissingDataReturnsEmpty(t *testing.T) {
	s := New(t.TempDir())

	if got := s.Load(); len(got) != 0 {
		t.Errorf("expected empty collection, got %v", got)
	}
	if s.HasData() {
		t.Error("expected HasData false for fresh store")
	}
}

func TestLoadMalformedDataReturnsEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "projects"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("failed to write corrupt data: %v", err)
	}

	s := New(dir)
	if got := s.Load(); len(got) != 0 {
		t.Errorf("expected empty collection for corrupt data, got %v", got)
	}
}

func TestClear(t *testing.T) {
	s := New(t.TempDir())

	if err := s.Save([]state.Project{{ID: "p1"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.HasData() {
		t.Fatal("expected HasData true after save")
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.HasData() {
		t.Error("expected HasData false after clear")
	}
}
