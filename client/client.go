// Package client provides a REST client for the Traction sync API, a
// document store holding project and task records keyed by owning
// user. Tasks are a sibling collection referencing their project by
// id, so reads perform a client-side join.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/sirsjg/traction/state"
)

// Client is a REST client for the Traction sync API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a new sync API client with the given base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetToken sets the bearer token sent with every request. Pass the
// empty string to clear it.
func (c *Client) SetToken(token string) {
	c.token = token
}

// ProjectRecord is the wire form of a project. Dates travel as ISO
// 8601 strings; optional dates are null when absent.
type ProjectRecord struct {
	ID          string  `json:"id"`
	OwnerID     string  `json:"ownerId"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Completed   bool    `json:"completed"`
	CreatedAt   string  `json:"createdAt"`
	CompletedAt *string `json:"completedAt"`
	Priority    string  `json:"priority"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
}

// TaskRecord is the wire form of a task. Tasks are stored as siblings
// of projects, not nested, and reference their parent by ProjectID.
type TaskRecord struct {
	ID          string `json:"id"`
	ProjectID   string `json:"projectId"`
	OwnerID     string `json:"ownerId"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Completed   bool   `json:"completed"`
	Order       int    `json:"order"`
}

// BatchRequest is the payload for a batch upsert: all records are
// written in one call so project creation, migration, and bulk reorder
// land atomically where the backend supports it.
type BatchRequest struct {
	Projects []ProjectRecord `json:"projects,omitempty"`
	Tasks    []TaskRecord    `json:"tasks,omitempty"`
}

// DeleteBatchRequest is the payload for a batch delete.
type DeleteBatchRequest struct {
	ProjectIDs []string `json:"projectIds,omitempty"`
	TaskIDs    []string `json:"taskIds,omitempty"`
}

// APIError represents an error response from the sync API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sync api error (status %d): %s", e.StatusCode, e.Message)
}

// doRequest performs an HTTP request and handles the response.
func (c *Client) doRequest(method, path string, body interface{}, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := string(respBody)
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    message,
		}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}

// --- Bulk Queries ---

// ListProjects returns all project records owned by the given user.
func (c *Client) ListProjects(ownerID string) ([]ProjectRecord, error) {
	var projects []ProjectRecord
	path := "/api/projects?ownerId=" + url.QueryEscape(ownerID)
	if err := c.doRequest(http.MethodGet, path, nil, &projects); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// ListTasks returns all task records owned by the given user, across
// all of their projects.
func (c *Client) ListTasks(ownerID string) ([]TaskRecord, error) {
	var tasks []TaskRecord
	path := "/api/tasks?ownerId=" + url.QueryEscape(ownerID)
	if err := c.doRequest(http.MethodGet, path, nil, &tasks); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// --- Single-Record Writes ---

// UpsertProject creates or replaces a single project record.
func (c *Client) UpsertProject(record ProjectRecord) error {
	path := fmt.Sprintf("/api/projects/%s", url.PathEscape(record.ID))
	if err := c.doRequest(http.MethodPut, path, record, nil); err != nil {
		return fmt.Errorf("failed to upsert project %s: %w", record.ID, err)
	}
	return nil
}

// UpsertTask creates or replaces a single task record.
func (c *Client) UpsertTask(record TaskRecord) error {
	path := fmt.Sprintf("/api/tasks/%s", url.PathEscape(record.ID))
	if err := c.doRequest(http.MethodPut, path, record, nil); err != nil {
		return fmt.Errorf("failed to upsert task %s: %w", record.ID, err)
	}
	return nil
}

// DeleteProject deletes a single project record. It does not touch the
// project's task records; use DeleteProjectCascade for that.
func (c *Client) DeleteProject(projectID string) error {
	path := fmt.Sprintf("/api/projects/%s", url.PathEscape(projectID))
	if err := c.doRequest(http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("failed to delete project %s: %w", projectID, err)
	}
	return nil
}

// DeleteTask deletes a single task record.
func (c *Client) DeleteTask(taskID string) error {
	path := fmt.Sprintf("/api/tasks/%s", url.PathEscape(taskID))
	if err := c.doRequest(http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("failed to delete task %s: %w", taskID, err)
	}
	return nil
}

// --- Batch Writes ---

// BatchUpsert writes all given records in a single call.
func (c *Client) BatchUpsert(req BatchRequest) error {
	if len(req.Projects) == 0 && len(req.Tasks) == 0 {
		return nil
	}
	if err := c.doRequest(http.MethodPost, "/api/batch", req, nil); err != nil {
		return fmt.Errorf("failed to batch upsert: %w", err)
	}
	return nil
}

// DeleteProjectCascade deletes a project record together with the
// given task ids in one batch, so deleting a project never strands its
// task records.
func (c *Client) DeleteProjectCascade(projectID string, taskIDs []string) error {
	req := DeleteBatchRequest{
		ProjectIDs: []string{projectID},
		TaskIDs:    taskIDs,
	}
	if err := c.doRequest(http.MethodPost, "/api/batch/delete", req, nil); err != nil {
		return fmt.Errorf("failed to delete project %s with tasks: %w", projectID, err)
	}
	return nil
}

// --- Record Conversion ---

// ToProjectRecord converts a project to its wire form, tagged with the
// owning user. A missing priority defaults to "medium" on the wire.
func ToProjectRecord(p state.Project, ownerID string) ProjectRecord {
	priority := string(p.Priority)
	if priority == "" {
		priority = string(state.PriorityMedium)
	}
	return ProjectRecord{
		ID:          p.ID,
		OwnerID:     ownerID,
		Name:        p.Name,
		Description: p.Description,
		Completed:   p.Completed,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		CompletedAt: isoOrNil(p.CompletedAt),
		Priority:    priority,
		StartDate:   isoOrNil(p.StartDate),
		EndDate:     isoOrNil(p.EndDate),
	}
}

// ToTaskRecord converts a task to its wire form.
func ToTaskRecord(t state.Task, projectID, ownerID string) TaskRecord {
	return TaskRecord{
		ID:          t.ID,
		ProjectID:   projectID,
		OwnerID:     ownerID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		Order:       t.Order,
	}
}

// JoinRecords reconstructs the nested Project->Task shape from the two
// flat collections: tasks are grouped by ProjectID and sorted by
// Order, projects are sorted by CreatedAt descending.
func JoinRecords(projects []ProjectRecord, tasks []TaskRecord) []state.Project {
	byProject := make(map[string][]state.Task, len(projects))
	for _, t := range tasks {
		byProject[t.ProjectID] = append(byProject[t.ProjectID], state.Task{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Completed:   t.Completed,
			Order:       t.Order,
		})
	}

	out := make([]state.Project, 0, len(projects))
	for _, r := range projects {
		out = append(out, state.Project{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			Tasks:       state.SortByOrder(byProject[r.ID]),
			Completed:   r.Completed,
			CreatedAt:   parseISO(r.CreatedAt),
			CompletedAt: parseISOOrNil(r.CompletedAt),
			Priority:    state.Priority(r.Priority),
			StartDate:   parseISOOrNil(r.StartDate),
			EndDate:     parseISOOrNil(r.EndDate),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func isoOrNil(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func parseISO(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseISOOrNil(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil
	}
	return &t
}
