package gen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirsjg/traction/ratelimit"
)

const defaultEndpoint = "https://api.openai.com/v1/chat/completions"

const defaultSystemPrompt = `You are a GTD (Getting Things Done) productivity expert. Given a project idea, break it down into clear, actionable tasks following GTD methodology.

Guidelines:
- Each task should be a specific, actionable next step
- Tasks should be ordered logically (dependencies first)
- Each task should be achievable in one sitting
- Use clear, action-oriented language (start with verbs)
- Include 5-10 tasks that cover the full project scope`

const responseContract = `Respond with a JSON array of tasks in this format:
[
  {"title": "Task title", "description": "Optional brief description"},
  ...
]

Only respond with valid JSON, no additional text.`

// OpenAI implements the Generator interface against the OpenAI chat
// completions API.
type OpenAI struct {
	config     Config
	endpoint   string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
}

// NewOpenAI creates a new OpenAI-backed generator.
func NewOpenAI(config Config) *OpenAI {
	return &OpenAI{
		config:   config,
		endpoint: defaultEndpoint,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		limiter: ratelimit.NewLimiter(ratelimit.DefaultGenerationConfig()),
	}
}

// SetEndpoint overrides the API endpoint (useful for testing).
func (o *OpenAI) SetEndpoint(endpoint string) {
	o.endpoint = endpoint
}

// Name returns the generator's display name.
func (o *OpenAI) Name() string {
	return "OpenAI"
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateTasks sends the idea to the chat completions API and parses
// the JSON array it returns. Any failure surfaces as a descriptive
// error and yields no drafts.
func (o *OpenAI) GenerateTasks(ctx context.Context, idea string) ([]Draft, error) {
	if strings.TrimSpace(idea) == "" {
		return nil, ErrEmptyIdea
	}
	if o.config.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	if !o.limiter.Allow("generate") {
		return nil, ErrThrottled
	}

	system := defaultSystemPrompt
	if o.config.Instructions != "" {
		system = o.config.Instructions
	}
	system += "\n\n" + responseContract

	payload := chatRequest{
		Model: "gpt-3.5-turbo",
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: "Project idea: " + idea},
		},
		Temperature: 0.7,
		MaxTokens:   1000,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.config.APIKey)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrInvalidAPIKey
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var parsed chatResponse
		if json.Unmarshal(respBody, &parsed) == nil && parsed.Error != nil {
			return nil, errors.New(parsed.Error.Message)
		}
		return nil, fmt.Errorf("generation request failed: status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return nil, ErrEmptyResponse
	}

	return parseDrafts(parsed.Choices[0].Message.Content)
}

// parseDrafts decodes the model's content. The contract is a JSON
// array; any other top-level shape is a format error, and an empty
// array is an empty-response error.
func parseDrafts(content string) ([]Draft, error) {
	var drafts []Draft
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &drafts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	if len(drafts) == 0 {
		return nil, ErrEmptyResponse
	}
	for _, d := range drafts {
		if strings.TrimSpace(d.Title) == "" {
			return nil, fmt.Errorf("%w: task with empty title", ErrBadFormat)
		}
	}
	return drafts, nil
}
