package twitter

import (
	"fmt"

	"github.com/dghubble/go-twitter/twitter"

	"github.com/pvillega/twitter-privacy/domain"
)

// toPost maps an API tweet onto the domain record.
func toPost(t twitter.Tweet) (domain.Post, error) {
	createdAt, err := t.CreatedAtTime()
	if err != nil {
		return domain.Post{}, fmt.Errorf("tweet %d has unparsable created_at %q: %w", t.ID, t.CreatedAt, err)
	}

	text := t.FullText
	if text == "" {
		text = t.Text
	}

	p := domain.Post{
		ID:        t.ID,
		CreatedAt: createdAt.UTC(),
		Text:      text,
		Liked:     t.Favorited,
		Retweeted: t.Retweeted,
	}
	if t.User != nil {
		p.AuthorID = t.User.ID
		p.AuthorHandle = t.User.ScreenName
	}
	return p, nil
}
