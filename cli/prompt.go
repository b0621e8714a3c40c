// Package cli holds the terminal widgets of the pager: boxed output and
// promptui menus.
package cli

import (
	"errors"
	"io"
	"os"

	"github.com/manifoldco/promptui"
)

// ErrInterrupted is returned when the user aborts a prompt with Ctrl-C or Ctrl-D.
var ErrInterrupted = errors.New("prompt interrupted")

// Prompter runs interactive prompts on a pair of streams.
type Prompter struct {
	Stdin  io.ReadCloser
	Stdout io.WriteCloser
}

// NewPrompter returns a Prompter on the process's terminal.
func NewPrompter() *Prompter {
	return &Prompter{Stdin: os.Stdin, Stdout: os.Stdout}
}

// Select shows a menu of items and returns the index of the chosen one.
func (p *Prompter) Select(label string, items ...string) (int, error) {
	sel := &promptui.Select{
		Label:        label,
		Items:        items,
		Size:         len(items),
		HideSelected: true,
		Stdin:        p.Stdin,
		Stdout:       p.Stdout,
	}

	idx, _, err := sel.Run()
	if err != nil {
		return -1, translate(err)
	}

	return idx, nil
}

// Confirm asks a yes/no question. Answering no is not an error.
func (p *Prompter) Confirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Stdin:     p.Stdin,
		Stdout:    p.Stdout,
	}

	_, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}

		return false, translate(err)
	}

	return true, nil
}

func translate(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return ErrInterrupted
	}

	return err
}
