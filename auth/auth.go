// Package auth bridges Traction to its identity provider. It exposes
// the current authenticated identity (or none), sign-in/sign-up/
// sign-out operations, and change notifications that drive backend
// selection and the local-to-cloud migration.
package auth

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sirsjg/traction/ratelimit"
)

var (
	// ErrMissingCredentials is returned when email or password is empty.
	ErrMissingCredentials = errors.New("email and password are required")

	// ErrPasswordTooShort is returned when a sign-up password is under
	// the provider minimum.
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")

	// ErrTooManyAttempts is returned when sign-in attempts are being
	// throttled.
	ErrTooManyAttempts = errors.New("too many attempts, please wait before trying again")
)

// Identity is an authenticated user.
type Identity struct {
	UserID string
	Email  string
	Token  string
}

// Change describes an identity transition. From or To is nil for the
// guest side of the transition.
type Change struct {
	From *Identity
	To   *Identity
}

// LoginRequest is the sign-in request payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the sign-up request payload.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is a successful provider response.
type AuthResponse struct {
	Token   string `json:"token,omitempty"`
	Message string `json:"message,omitempty"`
	UserID  string `json:"user_id,omitempty"`
}

// ErrorResponse is a provider error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Bridge holds the current identity and talks to the auth endpoints of
// the sync server.
type Bridge struct {
	baseURL    string
	httpClient *http.Client
	limiter    *ratelimit.Limiter

	mu      sync.Mutex
	current *Identity
	changes chan Change
}

// NewBridge creates a Bridge for the given server base URL. The
// initial identity is none (guest).
func NewBridge(baseURL string) *Bridge {
	return &Bridge{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: ratelimit.NewLimiter(ratelimit.DefaultAuthConfig()),
		changes: make(chan Change, 8),
	}
}

// Resume installs a previously saved identity without publishing a
// transition. Restoring a session is not a sign-in; it must not
// re-trigger the guest-to-authenticated migration.
func (b *Bridge) Resume(id *Identity) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = id
}

// Current returns a copy of the current identity, or nil for a guest.
func (b *Bridge) Current() *Identity {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return nil
	}
	id := *b.current
	return &id
}

// Changes returns the channel of identity transitions. The channel is
// buffered; slow consumers drop the oldest notification rather than
// block sign-in.
func (b *Bridge) Changes() <-chan Change {
	return b.changes
}

// SignIn authenticates with email and password. On success the bridge
// holds the new identity and a transition is published.
func (b *Bridge) SignIn(email, password string) error {
	if email == "" || password == "" {
		return ErrMissingCredentials
	}
	if !b.limiter.Allow(email) {
		return ErrTooManyAttempts
	}

	resp, err := b.postAuth("/auth/login", LoginRequest{Email: email, Password: password})
	if err != nil {
		return err
	}

	b.setIdentity(&Identity{UserID: resp.UserID, Email: email, Token: resp.Token})
	return nil
}

// SignUp registers a new account and signs it in.
func (b *Bridge) SignUp(email, password string) error {
	if email == "" || password == "" {
		return ErrMissingCredentials
	}
	if len(password) < 8 {
		return ErrPasswordTooShort
	}
	if !b.limiter.Allow(email) {
		return ErrTooManyAttempts
	}

	resp, err := b.postAuth("/auth/register", RegisterRequest{Email: email, Password: password})
	if err != nil {
		return err
	}

	b.setIdentity(&Identity{UserID: resp.UserID, Email: email, Token: resp.Token})
	return nil
}

// SignOut clears the identity. The local transition always happens;
// the remote logout call is best-effort and its failure is only
// logged.
func (b *Bridge) SignOut() {
	b.mu.Lock()
	prev := b.current
	b.current = nil
	b.mu.Unlock()

	if prev == nil {
		return
	}
	b.publish(Change{From: prev, To: nil})

	if _, err := b.postAuthToken("/auth/logout", prev.Token); err != nil {
		log.Printf("auth: remote sign-out failed: %v", err)
	}
}

func (b *Bridge) setIdentity(id *Identity) {
	b.mu.Lock()
	prev := b.current
	b.current = id
	b.mu.Unlock()

	b.publish(Change{From: prev, To: id})
}

func (b *Bridge) publish(c Change) {
	select {
	case b.changes <- c:
	default:
		// Drop the oldest pending notification to make room.
		select {
		case <-b.changes:
			b.changes <- c
		default:
		}
	}
}

func (b *Bridge) postAuth(path string, payload interface{}) (*AuthResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, b.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return b.do(req)
}

func (b *Bridge) postAuthToken(path, token string) (*AuthResponse, error) {
	req, err := http.NewRequest(http.MethodPost, b.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	return b.do(req)
}

func (b *Bridge) do(req *http.Request) (*AuthResponse, error) {
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach auth server: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp ErrorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return nil, errors.New(errResp.Error)
		}
		return nil, fmt.Errorf("auth request failed: %s", http.StatusText(resp.StatusCode))
	}

	var authResp AuthResponse
	if err := json.Unmarshal(respBody, &authResp); err != nil {
		return nil, fmt.Errorf("failed to decode auth response: %w", err)
	}
	return &authResp, nil
}
