// Package cleanup walks a user's timelines and removes everything older than
// the retention window.
package cleanup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/pvillega/twitter-privacy/domain"
	"github.com/pvillega/twitter-privacy/ratelimit"
	"github.com/pvillega/twitter-privacy/twitter"
)

// Timeline names used in logs and errors.
const (
	UserTimeline  = "User Timeline"
	LikesTimeline = "Likes Timeline"
)

// API is the subset of the Twitter client the cleaner needs.
type API interface {
	UserTimelineNextPage(ctx context.Context) ([]domain.Post, error)
	LikesTimelineNextPage(ctx context.Context) ([]domain.Post, error)
	Unlike(ctx context.Context, p domain.Post) error
	Unretweet(ctx context.Context, p domain.Post) error
	Erase(ctx context.Context, p domain.Post) error
}

// PageFunc returns the next page of a timeline; an empty page ends it.
type PageFunc func(ctx context.Context) ([]domain.Post, error)

// Action is applied to every erasable post of a timeline.
type Action func(ctx context.Context, p domain.Post) error

// Options configures a Cleaner.
type Options struct {
	PreserveDays int
	DryRun       bool
	// Limiter throttles maintenance actions. If nil, nothing is throttled.
	Limiter *ratelimit.RateLimiter
	// Logger is the logger to use. If nil, slog.Default() is used.
	Logger *slog.Logger
	// Now overrides the clock. If nil, time.Now is used.
	Now func() time.Time
}

// Cleaner runs one cleanup pass over a user's timelines.
type Cleaner struct {
	api          API
	preserveDays int
	dryRun       bool
	limiter      *ratelimit.RateLimiter
	log          *slog.Logger
	now          func() time.Time

	stats Stats
}

// New creates a Cleaner backed by api.
func New(api API, opts Options) *Cleaner {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Cleaner{
		api:          api,
		preserveDays: opts.PreserveDays,
		dryRun:       opts.DryRun,
		limiter:      opts.Limiter,
		log:          opts.Logger,
		now:          opts.Now,
	}
}

const day = 24 * time.Hour

// MaxPreserveDays is the longest retention window a time.Duration can hold.
const MaxPreserveDays = math.MaxInt64 / int64(day)

// IsErasable reports whether something created at createdAt is strictly
// older than preserveDays days at now.
func IsErasable(createdAt, now time.Time, preserveDays int) bool {
	return olderThan(now.Sub(createdAt), preserveDays)
}

// olderThan reports whether age exceeds preserveDays days. Windows too long
// for a time.Duration keep everything.
func olderThan(age time.Duration, preserveDays int) bool {
	if int64(preserveDays) > MaxPreserveDays {
		return false
	}
	return age > time.Duration(preserveDays)*day
}

// Run processes the user timeline and then the likes timeline, stopping at
// the first error. The returned Stats cover everything done before it.
func (c *Cleaner) Run(ctx context.Context) (Stats, error) {
	c.log.Info("Processing User timeline")
	if err := c.ProcessTimeline(ctx, UserTimeline, c.api.UserTimelineNextPage, c.Maintain); err != nil {
		return c.stats, err
	}

	c.log.Info("Processing Likes timeline")
	if err := c.ProcessTimeline(ctx, LikesTimeline, c.api.LikesTimelineNextPage, c.Maintain); err != nil {
		return c.stats, err
	}

	if c.limiter != nil {
		c.log.Info("Processed all timelines", "deferred", c.stats.Deferred, "remaining_actions", c.limiter.Remaining())
	} else {
		c.log.Info("Processed all timelines")
	}
	return c.stats, nil
}

// Stats returns the counters accumulated so far.
func (c *Cleaner) Stats() Stats { return c.stats }

// ProcessTimeline keeps calling next until it returns an empty page and runs
// action on every post older than the retention window.
func (c *Cleaner) ProcessTimeline(ctx context.Context, name string, next PageFunc, action Action) error {
	for {
		page, err := next(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if len(page) == 0 {
			c.log.Info("We got to the end of the timeline", "timeline", name)
			return nil
		}

		c.stats.Pages++
		c.log.Debug("Processing next page", "timeline", name, "size", len(page))

		now := c.now()
		for _, p := range page {
			if err := ctx.Err(); err != nil {
				return err
			}
			c.stats.Scanned++
			if !olderThan(p.Age(now), c.preserveDays) {
				continue
			}
			c.stats.Erasable++

			if err := c.submit(ctx, p, action); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
		}
	}
}

func (c *Cleaner) submit(ctx context.Context, p domain.Post, action Action) error {
	if c.limiter == nil {
		return action(ctx, p)
	}

	var err error
	if !c.limiter.Submit(func() { err = action(ctx, p) }) {
		c.stats.Deferred++
		c.log.Debug("Hourly action budget spent, leaving tweet for the next run", "id", p.ID)
		return nil
	}
	return err
}

// Maintain removes every link between the user and p: the like, the retweet
// and, for the user's own tweets, the tweet itself.
func (c *Cleaner) Maintain(ctx context.Context, p domain.Post) error {
	attrs := []any{
		"id", p.ID,
		"created_at", p.CreatedAt,
		"liked", p.Liked,
		"retweeted", p.Retweeted,
		"text", p.Text,
	}
	if c.dryRun {
		c.log.Info("Would erase tweet", attrs...)
		c.stats.Selected = append(c.stats.Selected, p)
		return nil
	}
	c.log.Warn("Erasing tweet", attrs...)

	if p.Liked {
		if err := c.api.Unlike(ctx, p); err != nil {
			return err
		}
		c.stats.Unliked++
	}
	if p.Retweeted {
		if err := c.api.Unretweet(ctx, p); err != nil {
			return err
		}
		c.stats.Unretweeted++
	}

	err := c.api.Erase(ctx, p)
	switch {
	case err == nil:
		c.stats.Erased++
	case errors.Is(err, twitter.ErrNotOwner):
		c.stats.Skipped++
		c.log.Debug("Not erasing tweet posted by someone else", "id", p.ID, "author", p.AuthorHandle)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		c.stats.Failures = append(c.stats.Failures, newFailure(p, err))
		c.log.Warn("Couldn't erase tweet", "id", p.ID, "err", err)
	}
	return nil
}
