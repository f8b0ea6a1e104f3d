// Package cli holds the interactive primitives the simulator is built from:
// a single-choice menu, a yes/no prompt, and a banner for the session header.
package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
)

// ErrAborted is returned when the user backs out of a prompt.
var ErrAborted = errors.New("aborted")

// Select presents a single-choice menu and returns the chosen item.
func Select(label string, items []string) (string, error) {
	sel := &promptui.Select{
		Label: label,
		Items: items,
		Size:  len(items),
		Searcher: func(input string, index int) bool {
			if len(input) == 0 {
				return false
			}

			return strings.HasPrefix(strings.ToLower(items[index]), strings.ToLower(input))
		},
	}

	_, value, err := sel.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return "", ErrAborted
		}

		return "", fmt.Errorf("selection failed: %w", err)
	}

	return value, nil
}

// Confirm asks a yes/no question; declining is not an error.
func Confirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
	}

	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}

		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return false, ErrAborted
		}

		return false, fmt.Errorf("confirmation failed: %w", err)
	}

	return true, nil
}

// Banner boxes a title line for the session header.
func Banner(s string) string {
	width := len(s) + 2 //nolint:mnd

	var b strings.Builder

	b.WriteString("╒" + strings.Repeat("═", width) + "╕\n")
	b.WriteString("│ " + s + " │\n")
	b.WriteString("└" + strings.Repeat("─", width) + "┘\n")

	return b.String()
}
