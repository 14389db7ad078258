package gen

import "errors"

var (
	// ErrGeneratorNotFound is returned when no generator is registered
	// under the requested name.
	ErrGeneratorNotFound = errors.New("generator not found")

	// ErrEmptyIdea is returned when the idea text is empty or
	// whitespace only.
	ErrEmptyIdea = errors.New("project idea must not be empty")

	// ErrNoAPIKey is returned when the generator has no API key
	// configured.
	ErrNoAPIKey = errors.New("generation API key is not configured")

	// ErrInvalidAPIKey is returned when the backing service rejects
	// the configured key.
	ErrInvalidAPIKey = errors.New("invalid API key")

	// ErrEmptyResponse is returned when the service answers with no
	// tasks at all.
	ErrEmptyResponse = errors.New("generation returned no tasks")

	// ErrBadFormat is returned when the response cannot be parsed as
	// a task list.
	ErrBadFormat = errors.New("generation response has invalid format")

	// ErrThrottled is returned when generation requests are being
	// rate limited locally.
	ErrThrottled = errors.New("too many generation requests, please wait")
)
