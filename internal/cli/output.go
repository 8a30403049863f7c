package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/existflow/taskboard/internal/event"
	"github.com/existflow/taskboard/internal/logger"
	"github.com/existflow/taskboard/internal/markup"
	"github.com/existflow/taskboard/internal/presenter"
)

const (
	formatText = "text"
	formatHTML = "html"
)

// listOutput is a list view that writes itself out once the load finishes
type listOutput[T any] interface {
	presenter.ListView[T]
	flush() error
}

// textList prints a collection as aligned rows
type textList[T any] struct {
	out     io.Writer
	heading func(items []T) string
	row     func(item T, width int) string
	failure *presenter.Placeholder
}

func (l *textList[T]) SetLoading(bool) {}
func (l *textList[T]) SetCount(int)    {}

func (l *textList[T]) ShowItems(items []T) {
	fmt.Fprintf(l.out, "\n%s\n", l.heading(items))
	fmt.Fprintln(l.out, strings.Repeat("─", 60))
	width := termWidth()
	for _, item := range items {
		fmt.Fprintln(l.out, l.row(item, width))
	}
	fmt.Fprintln(l.out)
}

func (l *textList[T]) ShowPlaceholder(ph presenter.Placeholder) {
	fmt.Fprintln(l.out, ph.Title)
	if ph.Message != "" {
		fmt.Fprintln(l.out, ph.Message)
	}
	if ph.Hint != "" {
		fmt.Fprintln(l.out, ph.Hint)
	}
	if ph.Kind == presenter.PlaceholderError {
		l.failure = &ph
	}
}

func (l *textList[T]) flush() error {
	if l.failure != nil {
		return errors.New(l.failure.Message)
	}
	return nil
}

// htmlList renders through the markup templates
type htmlList[T any] struct {
	*markup.Panel[T]
	out     io.Writer
	failure *presenter.Placeholder
}

func (l *htmlList[T]) ShowPlaceholder(ph presenter.Placeholder) {
	l.Panel.ShowPlaceholder(ph)
	if ph.Kind == presenter.PlaceholderError {
		l.failure = &ph
	}
}

func (l *htmlList[T]) flush() error {
	if l.Loading() {
		return errors.New("load did not complete")
	}
	html, err := l.HTML()
	if err != nil {
		return fmt.Errorf("failed to render html: %w", err)
	}
	fmt.Fprintf(l.out, "<section class=\"panel\" data-count=\"%d\">\n%s\n</section>\n", l.Count(), html)
	if l.failure != nil {
		return errors.New(l.failure.Message)
	}
	return nil
}

// loadOnce runs a single presenter refresh to completion on a private loop
func loadOnce(ctx context.Context, start func(loop *event.Loop, epoch *event.Epoch)) error {
	loop := event.NewLoop(logger.Default())
	defer loop.Close()

	start(loop, &event.Epoch{})
	return loop.Next(ctx)
}

// termWidth returns the terminal width, or 0 when stdout is not a terminal
func termWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}

// fit truncates s to width display cells; width 0 leaves s alone
func fit(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}

// shortID abbreviates a uuid the way list output shows it
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func checkFormat(format string) error {
	if format != formatText && format != formatHTML {
		return fmt.Errorf("unknown format %q, use text or html", format)
	}
	return nil
}
