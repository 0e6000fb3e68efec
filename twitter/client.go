package twitter

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dghubble/go-twitter/twitter"
	"github.com/dghubble/oauth1"

	"github.com/pvillega/twitter-privacy/domain"
)

// Credentials are the OAuth1 keys of the application and the user.
type Credentials struct {
	ConsumerKey    string
	ConsumerSecret string
	AccessKey      string
	AccessSecret   string
}

// NewHTTPClient returns an HTTP client that signs every request with creds.
// The base transport is taken from ctx (see oauth1.HTTPClient).
func NewHTTPClient(ctx context.Context, creds Credentials) *http.Client {
	config := oauth1.NewConfig(creds.ConsumerKey, creds.ConsumerSecret)
	token := oauth1.NewToken(creds.AccessKey, creds.AccessSecret)
	return config.Client(ctx, token)
}

// Options configures a Client.
type Options struct {
	Handle   string // screen name of the account to clean
	PageSize int
	// Logger is the logger to use. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Client talks to the Twitter v1.1 REST API on behalf of one user. It keeps
// a separate pagination cursor for the user and likes timelines.
type Client struct {
	api        *twitter.Client
	log        *slog.Logger
	pageSize   int
	userID     int64
	screenName string

	userTimeline  cursor
	likesTimeline cursor
}

// New verifies the credentials carried by httpClient and resolves the
// configured handle to a user id.
func New(ctx context.Context, httpClient *http.Client, opts Options) (*Client, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 25
	}

	c := &Client{
		api:      twitter.NewClient(httpClient),
		log:      opts.Logger,
		pageSize: opts.PageSize,
	}

	if err := c.verifyTokens(ctx); err != nil {
		return nil, err
	}
	if err := c.obtainUserID(ctx, opts.Handle); err != nil {
		return nil, err
	}

	c.log.Info("Welcome back!", "handle", c.screenName)
	return c, nil
}

// UserID returns the id of the account being cleaned.
func (c *Client) UserID() int64 { return c.userID }

func (c *Client) verifyTokens(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.log.Info("Verifying validity of tokens by querying Twitter API")

	_, resp, err := c.api.Accounts.VerifyCredentials(&twitter.AccountVerifyParams{
		SkipStatus: twitter.Bool(true),
	})
	if err = checkResponse(resp, err); err != nil {
		c.log.Error("Invalid tokens, the application can't continue", "err", err)
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	c.log.Info("Tokens seem to be valid")
	return nil
}

func (c *Client) obtainUserID(ctx context.Context, screenName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.log.Info("Requesting user id", "handle", screenName)

	user, resp, err := c.api.Users.Show(&twitter.UserShowParams{ScreenName: screenName})
	if err = checkResponse(resp, err); err != nil {
		return &APIError{Kind: KindUserDetails, StatusCode: statusCode(resp), Err: err}
	}

	c.userID = user.ID
	c.screenName = user.ScreenName
	c.log.Info("Retrieved user id", "id", user.ID, "name", user.Name, "handle", user.ScreenName)
	return nil
}

// UserTimelineNextPage returns the next older page of tweets posted or
// retweeted by the user, or an empty page once the timeline is exhausted.
func (c *Client) UserTimelineNextPage(ctx context.Context) ([]domain.Post, error) {
	return c.nextPage(ctx, "User", &c.userTimeline, func(maxID int64) ([]twitter.Tweet, *http.Response, error) {
		return c.api.Timelines.UserTimeline(&twitter.UserTimelineParams{
			UserID:          c.userID,
			Count:           c.pageSize,
			MaxID:           maxID,
			ExcludeReplies:  twitter.Bool(false),
			IncludeRetweets: twitter.Bool(true),
			TweetMode:       "extended",
		})
	})
}

// LikesTimelineNextPage returns the next older page of tweets liked by the
// user, or an empty page once the timeline is exhausted.
func (c *Client) LikesTimelineNextPage(ctx context.Context) ([]domain.Post, error) {
	return c.nextPage(ctx, "Likes", &c.likesTimeline, func(maxID int64) ([]twitter.Tweet, *http.Response, error) {
		return c.api.Favorites.List(&twitter.FavoriteListParams{
			UserID:    c.userID,
			Count:     c.pageSize,
			MaxID:     maxID,
			TweetMode: "extended",
		})
	})
}

type fetchFunc func(maxID int64) ([]twitter.Tweet, *http.Response, error)

// nextPage fetches until it has at least one usable post or the timeline
// ends, so a page made only of unparsable tweets does not end the walk early.
func (c *Client) nextPage(ctx context.Context, name string, cur *cursor, fetch fetchFunc) ([]domain.Post, error) {
	for !cur.done {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c.log.Debug("Requesting next page of "+name+" timeline", "user_id", c.userID, "max_id", cur.maxID)

		tweets, resp, err := fetch(cur.maxID)
		if err = checkResponse(resp, err); err != nil {
			return nil, &APIError{Kind: KindTimeline, StatusCode: statusCode(resp), Err: err}
		}

		cur.advance(tweets)
		if posts := c.toPosts(tweets); len(posts) > 0 {
			return posts, nil
		}
	}
	return nil, nil
}

// Unlike removes the user's like from the post. Posts that are not liked are
// left alone.
func (c *Client) Unlike(ctx context.Context, p domain.Post) error {
	if !p.Liked {
		c.log.Warn("Tried to unlike a tweet which is not liked by the user", "id", p.ID)
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	c.log.Info("Requesting unlike of tweet", "id", p.ID, "created_at", p.CreatedAt)

	_, resp, err := c.api.Favorites.Destroy(&twitter.FavoriteDestroyParams{ID: p.ID})
	if err = checkResponse(resp, err); err != nil {
		return &APIError{Kind: KindErasure, StatusCode: statusCode(resp), Err: err}
	}
	return nil
}

// Unretweet undoes the user's retweet of the post. Posts that are not
// retweeted are left alone.
func (c *Client) Unretweet(ctx context.Context, p domain.Post) error {
	if !p.Retweeted {
		c.log.Warn("Tried to unretweet a tweet which is not retweeted by the user", "id", p.ID)
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	c.log.Info("Requesting unretweet of tweet", "id", p.ID, "created_at", p.CreatedAt)

	_, resp, err := c.api.Statuses.Unretweet(p.ID, &twitter.StatusUnretweetParams{TrimUser: twitter.Bool(true)})
	if err = checkResponse(resp, err); err != nil {
		return &APIError{Kind: KindErasure, StatusCode: statusCode(resp), Err: err}
	}
	return nil
}

// Erase deletes a tweet posted by the user. It returns ErrNotOwner without
// calling the API for anybody else's tweet.
func (c *Client) Erase(ctx context.Context, p domain.Post) error {
	if !p.OwnedBy(c.userID) {
		return fmt.Errorf("tweet %d by @%s: %w", p.ID, p.AuthorHandle, ErrNotOwner)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	c.log.Info("Requesting removal of tweet", "id", p.ID, "created_at", p.CreatedAt)

	_, resp, err := c.api.Statuses.Destroy(p.ID, &twitter.StatusDestroyParams{TrimUser: twitter.Bool(true)})
	if err = checkResponse(resp, err); err != nil {
		return &APIError{Kind: KindErasure, StatusCode: statusCode(resp), Err: err}
	}
	return nil
}

func (c *Client) toPosts(tweets []twitter.Tweet) []domain.Post {
	posts := make([]domain.Post, 0, len(tweets))
	for _, t := range tweets {
		p, err := toPost(t)
		if err != nil {
			c.log.Warn("Skipping tweet", "id", t.ID, "err", err)
			continue
		}
		posts = append(posts, p)
	}
	return posts
}

// cursor walks a timeline from newest to oldest using max_id.
type cursor struct {
	maxID int64
	done  bool
}

func (c *cursor) advance(tweets []twitter.Tweet) {
	if len(tweets) == 0 {
		c.done = true
		return
	}
	oldest := tweets[0].ID
	for _, t := range tweets[1:] {
		if t.ID < oldest {
			oldest = t.ID
		}
	}
	c.maxID = oldest - 1
	// A max_id of 0 is dropped from the query and would restart the walk.
	if c.maxID < 1 {
		c.done = true
	}
}

// checkResponse turns non-2xx responses that go-twitter did not decode into
// an error into one.
func checkResponse(resp *http.Response, err error) error {
	if err != nil {
		return err
	}
	if resp != nil && (resp.StatusCode < 200 || resp.StatusCode >= 300) {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return nil
}

func statusCode(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}
