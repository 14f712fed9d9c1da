package prompt

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// ErrNonInteractive is returned when a value is missing and prompting is not allowed.
var ErrNonInteractive = errors.New("input required but prompts are disabled (use flags or run in a terminal)")

// Field is one input in a form.
type Field struct {
	Title    string
	Value    *string
	Secret   bool
	Required bool
}

// IsInteractive reports whether stdin and stdout are both terminals.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// Fill prompts for every field whose value is still empty. Fields that were
// already supplied (by flag) are not asked again. When nonInteractive is set or
// no terminal is attached, a missing required field is an error instead.
func Fill(nonInteractive bool, fields ...Field) error {
	var missing []Field
	for _, f := range fields {
		if *f.Value == "" {
			missing = append(missing, f)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	if nonInteractive || !IsInteractive() {
		for _, f := range missing {
			if f.Required {
				return fmt.Errorf("%s: %w", f.Title, ErrNonInteractive)
			}
		}
		return nil
	}

	inputs := make([]huh.Field, 0, len(missing))
	for _, f := range missing {
		input := huh.NewInput().Title(f.Title).Value(f.Value)
		if f.Secret {
			input = input.EchoMode(huh.EchoModePassword)
		}
		if f.Required {
			title := f.Title
			input = input.Validate(func(s string) error {
				if s == "" {
					return fmt.Errorf("%s is required", title)
				}
				return nil
			})
		}
		inputs = append(inputs, input)
	}

	if err := huh.NewForm(huh.NewGroup(inputs...)).Run(); err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}
	return nil
}

// Confirm asks a yes/no question. Without a terminal it returns def.
func Confirm(nonInteractive bool, message string, def bool) (bool, error) {
	if nonInteractive || !IsInteractive() {
		return def, nil
	}

	confirmed := def
	confirm := huh.NewConfirm().
		Title(message).
		Value(&confirmed)

	if err := huh.NewForm(huh.NewGroup(confirm)).Run(); err != nil {
		return false, fmt.Errorf("prompt failed: %w", err)
	}
	return confirmed, nil
}
