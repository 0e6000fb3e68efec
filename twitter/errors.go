package twitter

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidToken indicates the configured credentials were rejected.
	ErrInvalidToken = errors.New("invalid or expired token used in the request to Twitter API")

	// ErrNotOwner indicates an attempt to erase a tweet posted by someone else.
	ErrNotOwner = errors.New("tweet not posted by the user")
)

// Kind classifies an APIError by the operation that failed.
type Kind int

const (
	KindTimeline Kind = iota
	KindUserDetails
	KindErasure
)

// APIError wraps a failed call to the Twitter API.
type APIError struct {
	Kind       Kind
	StatusCode int // HTTP status, 0 if no response was received
	Err        error
}

func (e *APIError) Error() string {
	switch e.Kind {
	case KindTimeline:
		return fmt.Sprintf("error when retrieving data from a timeline: %v", e.Err)
	case KindUserDetails:
		return fmt.Sprintf("failure obtaining user details: %v", e.Err)
	case KindErasure:
		return fmt.Sprintf("failure removing link between tweet and user: %v", e.Err)
	default:
		return fmt.Sprintf("twitter api: %v", e.Err)
	}
}

func (e *APIError) Unwrap() error { return e.Err }
