package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

var errNotInteractive = errors.New("input required but stdin is not a terminal, pass it as a flag")

// isInteractive returns true if stdin is a terminal (not piped)
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// prompt describes one text input
type prompt struct {
	title  string
	value  *string
	secret bool
}

// askMissing asks, in one huh form, for every value not given as a flag
func askMissing(prompts ...prompt) error {
	var fields []huh.Field
	for _, p := range prompts {
		if *p.value != "" {
			continue
		}
		in := huh.NewInput().Title(p.title).Value(p.value)
		if p.secret {
			in = in.EchoMode(huh.EchoModePassword)
		}
		title := p.title
		in = in.Validate(func(s string) error {
			if s == "" {
				return fmt.Errorf("%s is required", title)
			}
			return nil
		})
		fields = append(fields, in)
	}
	if len(fields) == 0 {
		return nil
	}
	if !isInteractive() {
		return errNotInteractive
	}

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}
	return nil
}

// confirm displays a yes/no confirmation prompt
func confirm(message string) (bool, error) {
	if !isInteractive() {
		return false, errNotInteractive
	}

	var confirmed bool
	c := huh.NewConfirm().
		Title(message).
		Value(&confirmed)

	if err := huh.NewForm(huh.NewGroup(c)).Run(); err != nil {
		return false, fmt.Errorf("prompt failed: %w", err)
	}
	return confirmed, nil
}
