// Package report renders the summary printed at the end of a run.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/pvillega/twitter-privacy/cleanup"
	"github.com/pvillega/twitter-privacy/domain"
)

const (
	// MaxListed caps how many selected tweets or failures are listed.
	MaxListed = 20
	// TextWidth is the width tweet text is truncated to.
	TextWidth = 60
)

// Render formats stats as a boxed summary.
func Render(stats cleanup.Stats, dryRun bool) string {
	title := TitleStyle.Render("twitter-privacy")
	if dryRun {
		title = lipgloss.JoinHorizontal(lipgloss.Top, title, DryRunStyle.Render("(dry run)"))
	}

	sections := []string{title, "", counters(stats, dryRun)}
	if dryRun && len(stats.Selected) > 0 {
		sections = append(sections, "", selected(stats.Selected))
	}
	if len(stats.Failures) > 0 {
		sections = append(sections, "", failures(stats.Failures))
	}

	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func counters(s cleanup.Stats, dryRun bool) string {
	rows := [][2]string{
		{"pages", strconv.Itoa(s.Pages)},
		{"scanned", strconv.Itoa(s.Scanned)},
		{"erasable", strconv.Itoa(s.Erasable)},
	}
	if dryRun {
		rows = append(rows, [2]string{"selected", strconv.Itoa(len(s.Selected))})
	} else {
		rows = append(rows,
			[2]string{"unliked", strconv.Itoa(s.Unliked)},
			[2]string{"unretweeted", strconv.Itoa(s.Unretweeted)},
			[2]string{"erased", strconv.Itoa(s.Erased)},
			[2]string{"skipped", strconv.Itoa(s.Skipped)},
			[2]string{"failed", strconv.Itoa(len(s.Failures))},
		)
	}
	if s.Deferred > 0 {
		rows = append(rows, [2]string{"deferred", strconv.Itoa(s.Deferred)})
	}

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, LabelStyle.Render(r[0])+ValueStyle.Render(r[1]))
	}
	return strings.Join(lines, "\n")
}

func selected(posts []domain.Post) string {
	lines := []string{LabelStyle.Render("would erase")}
	for i, p := range posts {
		if i == MaxListed {
			lines = append(lines, fmt.Sprintf("… and %d more", len(posts)-MaxListed))
			break
		}
		lines = append(lines, fmt.Sprintf("%s %d %s",
			TimestampStyle.Render(p.CreatedAt.Format("2006-01-02")),
			p.ID,
			cleanText(p.Text),
		))
	}
	return strings.Join(lines, "\n")
}

func failures(fs []cleanup.Failure) string {
	lines := []string{ErrorStyle.Render("failed to erase")}
	for i, f := range fs {
		if i == MaxListed {
			lines = append(lines, fmt.Sprintf("… and %d more", len(fs)-MaxListed))
			break
		}
		status := "no response"
		if f.StatusCode != 0 {
			status = strconv.Itoa(f.StatusCode)
		}
		lines = append(lines, fmt.Sprintf("%d [%s] %s", f.TweetID, status, cleanText(f.Err.Error())))
	}
	return strings.Join(lines, "\n")
}

// cleanText flattens s to one line without escape sequences and truncates it.
func cleanText(s string) string {
	s = ansi.Strip(s)
	s = strings.Join(strings.Fields(s), " ")
	return ansi.Truncate(s, TextWidth, "…")
}
