package domain

import "errors"

var (
	// ErrEmptyMessage is returned when a chat request carries no message text
	ErrEmptyMessage = errors.New("message is empty")

	// ErrAssistantDisabled is returned when the OpenAI credentials are not configured
	ErrAssistantDisabled = errors.New("assistant integration disabled")

	// ErrAssistantAPIFailure is returned when an OpenAI API request fails
	ErrAssistantAPIFailure = errors.New("assistant API request failed")

	// ErrRunNotCompleted is returned when a run reaches a terminal status other than completed
	ErrRunNotCompleted = errors.New("assistant run did not complete")

	// ErrRunTimeout is returned when run polling exhausts its deadline
	ErrRunTimeout = errors.New("assistant run polling timed out")

	// ErrPersistence is returned when a chat message cannot be stored
	ErrPersistence = errors.New("failed to persist chat message")

	// ErrSessionInvalid is returned when a request carries no valid session
	ErrSessionInvalid = errors.New("invalid or missing session")
)
