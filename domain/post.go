package domain

import "time"

// Post is a single tweet, retweet or like as returned by a timeline.
type Post struct {
	ID           int64
	CreatedAt    time.Time
	AuthorID     int64 // 0 when the API trimmed the author
	AuthorHandle string
	Text         string
	Liked        bool // liked by the authenticated user
	Retweeted    bool // retweeted by the authenticated user
}

// Age returns how long ago the post was created.
func (p Post) Age(now time.Time) time.Duration {
	return now.Sub(p.CreatedAt)
}

// OwnedBy reports whether userID authored the post. Posts with an unknown
// author are treated as owned.
func (p Post) OwnedBy(userID int64) bool {
	return p.AuthorID == 0 || p.AuthorID == userID
}
