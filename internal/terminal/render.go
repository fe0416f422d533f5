// Package terminal prints pipeline results for the command line.
package terminal

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"news-summarizer/internal/model"

	"github.com/mattn/go-runewidth"
)

const DefaultWidth = 80

// Render writes one block per article: the title, an underline of the same
// display width, date, source and the summary wrapped to width columns.
func Render(w io.Writer, articles []model.Article, width int) error {
	if width < 20 {
		width = DefaultWidth
	}
	if len(articles) == 0 {
		_, err := fmt.Fprintln(w, "No articles found.")
		return err
	}

	for i, view := range model.NewArticleViews(articles) {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}

		title := runewidth.Truncate(view.Title, width, "...")
		lines := []string{
			title,
			strings.Repeat("=", runewidth.StringWidth(title)),
			"published at: " + view.PublishedAt,
			"source: " + view.Source,
			"",
		}
		lines = append(lines, Wrap(view.Summary, width)...)

		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

// Wrap breaks text into lines of at most width display columns, splitting on
// whitespace. A single word wider than width is hard-broken. A width below 1
// means DefaultWidth.
func Wrap(text string, width int) []string {
	if width < 1 {
		width = DefaultWidth
	}
	var lines []string
	var line strings.Builder
	lineWidth := 0

	flush := func() {
		lines = append(lines, line.String())
		line.Reset()
		lineWidth = 0
	}

	for _, word := range strings.Fields(text) {
		ww := runewidth.StringWidth(word)

		for ww > width {
			if lineWidth > 0 {
				flush()
			}
			head := runewidth.Truncate(word, width, "")
			if head == "" {
				// a rune wider than the line still takes a line of its own
				_, size := utf8.DecodeRuneInString(word)
				head = word[:size]
			}
			lines = append(lines, head)
			word = word[len(head):]
			ww = runewidth.StringWidth(word)
		}
		if ww == 0 {
			continue
		}

		if lineWidth > 0 && lineWidth+1+ww > width {
			flush()
		}
		if lineWidth > 0 {
			line.WriteByte(' ')
			lineWidth++
		}
		line.WriteString(word)
		lineWidth += ww
	}
	if lineWidth > 0 {
		flush()
	}
	return lines
}
