package cleanup

import (
	"errors"

	"github.com/pvillega/twitter-privacy/domain"
	"github.com/pvillega/twitter-privacy/twitter"
)

// Stats summarises one cleanup run.
type Stats struct {
	Pages       int
	Scanned     int
	Erasable    int
	Unliked     int
	Unretweeted int
	Erased      int
	Skipped     int // erasable tweets posted by someone else
	Deferred    int // left for a later run by the rate limiter

	Failures []Failure
	Selected []domain.Post // dry run only
}

// Failure records a tweet that could not be erased.
type Failure struct {
	TweetID    int64
	StatusCode int // HTTP status, 0 if unknown
	Err        error
}

func newFailure(p domain.Post, err error) Failure {
	f := Failure{TweetID: p.ID, Err: err}
	var apiErr *twitter.APIError
	if errors.As(err, &apiErr) {
		f.StatusCode = apiErr.StatusCode
	}
	return f
}
