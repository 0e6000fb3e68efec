package report

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvillega/twitter-privacy/cleanup"
	"github.com/pvillega/twitter-privacy/domain"
)

// counter finds the row for label in a rendered report and returns its value.
func counter(t *testing.T, out, label string) string {
	t.Helper()
	for _, line := range strings.Split(ansi.Strip(out), "\n") {
		fields := strings.Fields(strings.Trim(line, "│ "))
		if len(fields) == 2 && fields[0] == label {
			return fields[1]
		}
	}
	t.Fatalf("no %q row in report:\n%s", label, out)
	return ""
}

func Test_Render_should_show_counters(t *testing.T) {
	out := Render(cleanup.Stats{
		Pages:       4,
		Scanned:     90,
		Erasable:    12,
		Unliked:     3,
		Unretweeted: 2,
		Erased:      9,
		Skipped:     1,
	}, false)

	assert.Equal(t, "4", counter(t, out, "pages"))
	assert.Equal(t, "90", counter(t, out, "scanned"))
	assert.Equal(t, "12", counter(t, out, "erasable"))
	assert.Equal(t, "3", counter(t, out, "unliked"))
	assert.Equal(t, "2", counter(t, out, "unretweeted"))
	assert.Equal(t, "9", counter(t, out, "erased"))
	assert.Equal(t, "1", counter(t, out, "skipped"))
	assert.Equal(t, "0", counter(t, out, "failed"))
	assert.NotContains(t, out, "deferred")
	assert.NotContains(t, out, "dry run")
}

func Test_Render_should_list_selection_in_dry_run(t *testing.T) {
	posts := []domain.Post{
		{ID: 11, CreatedAt: time.Date(2023, 2, 3, 0, 0, 0, 0, time.UTC), Text: "first\x1b[31m red\x1b[0m\nline"},
		{ID: 12, CreatedAt: time.Date(2023, 2, 4, 0, 0, 0, 0, time.UTC), Text: strings.Repeat("x", 200)},
	}

	out := ansi.Strip(Render(cleanup.Stats{Erasable: 2, Selected: posts, Deferred: 5}, true))

	assert.Contains(t, out, "(dry run)")
	assert.Equal(t, "2", counter(t, out, "selected"))
	assert.Equal(t, "5", counter(t, out, "deferred"))
	assert.Contains(t, out, "2023-02-03 11 first red line")
	assert.Contains(t, out, "2023-02-04 12 "+strings.Repeat("x", TextWidth-1)+"…")
	assert.NotContains(t, out, "erased")
}

func Test_Render_should_cap_listed_items(t *testing.T) {
	posts := make([]domain.Post, MaxListed+7)
	for i := range posts {
		posts[i] = domain.Post{ID: int64(i), Text: "t"}
	}

	out := Render(cleanup.Stats{Selected: posts}, true)

	assert.Contains(t, out, "… and 7 more")
}

func Test_Render_should_list_failures(t *testing.T) {
	out := ansi.Strip(Render(cleanup.Stats{Failures: []cleanup.Failure{
		{TweetID: 5, StatusCode: 404, Err: errors.New("no status found")},
		{TweetID: 6, Err: errors.New("connection reset")},
	}}, false))

	require.Contains(t, out, "failed to erase")
	assert.Equal(t, "2", counter(t, out, "failed"))
	assert.Contains(t, out, "5 [404] no status found")
	assert.Contains(t, out, "6 [no response] connection reset")
}
