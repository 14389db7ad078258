package client

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirsjg/traction/state"
)

// setupTestServer creates a test server with the given handler.
func setupTestServer(handler http.Handler) (*httptest.Server, *Client) {
	server := httptest.NewServer(handler)
	client := New(server.URL)
	return server, client
}

// --- Queries ---

func TestListProjects(t *testing.T) {
	expected := []ProjectRecord{
		{ID: "proj-1", OwnerID: "user-1", Name: "Project 1", CreatedAt: "2025-04-01T09:00:00Z", Priority: "medium"},
		{ID: "proj-2", OwnerID: "user-1", Name: "Project 2", CreatedAt: "2025-05-01T09:00:00Z", Priority: "high"},
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET method, got %s", r.Method)
		}
		if r.URL.Path != "/api/projects" {
			t.Errorf("expected path /api/projects, got %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("ownerId"); got != "user-1" {
			t.Errorf("expected ownerId user-1, got %s", got)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(expected)
	})

	server, client := setupTestServer(handler)
	defer server.Close()

	projects, err := client.ListProjects("user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(projects) != len(expected) {
		t.Fatalf("expected %d projects, got %d", len(expected), len(projects))
	}
	for i, p := range projects {
		if p.ID != expected[i].ID {
			t.Errorf("expected project ID %s, got %s", expected[i].ID, p.ID)
		}
	}
}

func TestListTasksSendsBearerToken(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tasks" {
			t.Errorf("expected path /api/tasks, got %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("expected bearer token header, got %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]TaskRecord{
			{ID: "task-1", ProjectID: "proj-1", OwnerID: "user-1", Title: "first"},
		})
	})

	server, client := setupTestServer(handler)
	defer server.Close()

	client.SetToken("tok-123")
	tasks, err := client.ListTasks("user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != "task-1" {
		t.Errorf("expected task-1, got %v", tasks)
	}
}

// --- Writes ---

func TestUpsertProject(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT method, got %s", r.Method)
		}
		if r.URL.Path != "/api/projects/proj-1" {
			t.Errorf("expected path /api/projects/proj-1, got %s", r.URL.Path)
		}

		var record ProjectRecord
		if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		if record.Name != "Garden" {
			t.Errorf("expected name 'Garden', got %q", record.Name)
		}

		w.WriteHeader(http.StatusOK)
	})

	server, client := setupTestServer(handler)
	defer server.Close()

	err := client.UpsertProject(ProjectRecord{ID: "proj-1", Name: "Garden"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBatchUpsert(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST method, got %s", r.Method)
		}
		if r.URL.Path != "/api/batch" {
			t.Errorf("expected path /api/batch, got %s", r.URL.Path)
		}

		var req BatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		if len(req.Projects) != 1 || len(req.Tasks) != 2 {
			t.Errorf("expected 1 project and 2 tasks, got %d and %d", len(req.Projects), len(req.Tasks))
		}

		w.WriteHeader(http.StatusOK)
	})

	server, client := setupTestServer(handler)
	defer server.Close()

	err := client.BatchUpsert(BatchRequest{
		Projects: []ProjectRecord{{ID: "proj-1"}},
		Tasks: []TaskRecord{
			{ID: "task-1", ProjectID: "proj-1"},
			{ID: "task-2", ProjectID: "proj-1"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBatchUpsertEmptySkipsRequest(t *testing.T) {
	called := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	server, client := setupTestServer(handler)
	defer server.Close()

	if err := client.BatchUpsert(BatchRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called {
		t.Error("expected no request for an empty batch")
	}
}

func TestDeleteProjectCascade(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/batch/delete" {
			t.Errorf("expected path /api/batch/delete, got %s", r.URL.Path)
		}

		var req DeleteBatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		if len(req.ProjectIDs) != 1 || req.ProjectIDs[0] != "proj-1" {
			t.Errorf("expected project proj-1, got %v", req.ProjectIDs)
		}
		if len(req.TaskIDs) != 2 {
			t.Errorf("expected 2 task ids, got %v", req.TaskIDs)
		}

		w.WriteHeader(http.StatusOK)
	})

	server, client := setupTestServer(handler)
	defer server.Close()

	err := client.DeleteProjectCascade("proj-1", []string{"task-1", "task-2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAPIErrorStatus(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("not your project"))
	})

	server, client := setupTestServer(handler)
	defer server.Close()

	err := client.DeleteProject("proj-1")
	if err == nil {
		t.Fatal("expected an error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", apiErr.StatusCode)
	}
}

// --- Record Conversion ---

func TestToProjectRecordDefaultsPriority(t *testing.T) {
	p := state.Project{
		ID:        "p1",
		Name:      "One",
		CreatedAt: time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC),
	}

	record := ToProjectRecord(p, "user-1")
	if record.Priority != "medium" {
		t.Errorf("expected default priority medium, got %q", record.Priority)
	}
	if record.OwnerID != "user-1" {
		t.Errorf("expected owner user-1, got %q", record.OwnerID)
	}
	if record.CreatedAt != "2025-04-01T09:00:00Z" {
		t.Errorf("expected ISO timestamp, got %q", record.CreatedAt)
	}
	if record.CompletedAt != nil {
		t.Errorf("expected nil CompletedAt, got %v", *record.CompletedAt)
	}
}

func TestJoinRecords(t *testing.T) {
	projects := []ProjectRecord{
		{ID: "p1", Name: "Older", CreatedAt: "2025-03-01T09:00:00Z", Priority: "medium"},
		{ID: "p2", Name: "Newer", CreatedAt: "2025-05-01T09:00:00Z", Priority: "high"},
	}
	tasks := []TaskRecord{
		{ID: "t2", ProjectID: "p1", Title: "second", Order: 1},
		{ID: "t1", ProjectID: "p1", Title: "first", Order: 0},
		{ID: "t3", ProjectID: "p2", Title: "other", Order: 0},
	}

	joined := JoinRecords(projects, tasks)
	if len(joined) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(joined))
	}

	// Newest first.
	if joined[0].ID != "p2" {
		t.Errorf("expected p2 first (newest), got %s", joined[0].ID)
	}

	p1 := joined[1]
	if len(p1.Tasks) != 2 {
		t.Fatalf("expected 2 tasks on p1, got %d", len(p1.Tasks))
	}
	if p1.Tasks[0].ID != "t1" || p1.Tasks[1].ID != "t2" {
		t.Errorf("expected tasks sorted by order t1,t2, got %s,%s", p1.Tasks[0].ID, p1.Tasks[1].ID)
	}
	if p1.Priority != state.PriorityMedium {
		t.Errorf("expected priority medium, got %q", p1.Priority)
	}
}

func TestJoinRecordsProjectWithNoTasks(t *testing.T) {
	joined := JoinRecords([]ProjectRecord{
		{ID: "p1", Name: "Empty", CreatedAt: "2025-03-01T09:00:00Z"},
	}, nil)

	if len(joined) != 1 {
		t.Fatalf("expected 1 project, got %d", len(joined))
	}
	if len(joined[0].Tasks) != 0 {
		t.Errorf("expected no tasks, got %v", joined[0].Tasks)
	}
}

func TestRecordRoundTripDates(t *testing.T) {
	completedAt := time.Date(2025, 5, 2, 10, 0, 0, 0, time.UTC)
	p := state.Project{
		ID:          "p1",
		Name:        "One",
		Completed:   true,
		CreatedAt:   time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC),
		CompletedAt: &completedAt,
	}

	record := ToProjectRecord(p, "user-1")
	joined := JoinRecords([]ProjectRecord{record}, nil)

	got := joined[0]
	if !got.CreatedAt.Equal(p.CreatedAt) {
		t.Errorf("expected CreatedAt %v, got %v", p.CreatedAt, got.CreatedAt)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(completedAt) {
		t.Errorf("expected CompletedAt %v, got %v", completedAt, got.CompletedAt)
	}
}
