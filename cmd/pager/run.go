package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/amp-labs/amp-flux/cli"
	"github.com/amp-labs/amp-flux/pagination"
	"github.com/goccy/go-json"
)

// prompter is the part of cli.Prompter the interactive loop uses.
type prompter interface {
	Select(label string, items ...string) (int, error)
}

// runJSON loads every page, printing each published state. It retries a
// failure once when recovery is enabled and returns the failure otherwise.
func runJSON(ctx context.Context, model *pagination.Model, out io.Writer, recovery bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	enc := json.NewEncoder(out)
	updates := model.CurrentState().Updates(ctx)

	if err := model.Apply(ctx, pagination.StartLoading{}); err != nil {
		return err
	}

	retried := false

	for {
		var state pagination.State

		select {
		case <-ctx.Done():
			return ctx.Err()
		case s, ok := <-updates:
			if !ok {
				return ctx.Err()
			}

			state = s
		}

		if err := enc.Encode(pagination.SnapshotOf(state)); err != nil {
			return fmt.Errorf("writing snapshot: %w", err)
		}

		var next pagination.Action

		switch s := state.(type) {
		case pagination.Idle:
			next = pagination.LoadNextPage{}
		case pagination.Loaded:
			return nil
		case pagination.Failed:
			if !recovery || retried {
				return s.Err
			}

			retried = true
			next = pagination.Retry{}
		}

		if next != nil {
			if err := model.Apply(ctx, next); err != nil {
				return err
			}
		}
	}
}

// runInteractive renders the model after every settled state and applies
// the menu choice until the user quits.
func runInteractive(
	ctx context.Context,
	model *pagination.Model,
	prompt prompter,
	out io.Writer,
	recovery bool,
) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	updates := model.CurrentState().Updates(ctx)

	if err := model.Apply(ctx, pagination.StartLoading{}); err != nil {
		return err
	}

	width := cli.TerminalWidth()

	for {
		state, err := settle(ctx, model, updates)
		if err != nil {
			return err
		}

		if _, err := fmt.Fprintln(out, render(state, width)); err != nil {
			return err
		}

		choices := menu(state, recovery)

		labels := make([]string, len(choices))
		for i, c := range choices {
			labels[i] = c.label
		}

		idx, err := prompt.Select("What next?", labels...)
		if errors.Is(err, cli.ErrInterrupted) {
			return nil
		}

		if err != nil {
			return err
		}

		if choices[idx].run == nil {
			return nil
		}

		if err := choices[idx].run(ctx, model); err != nil {
			return err
		}
	}
}

// settle waits until the model is no longer loading. Updates only signal a
// change; the state is always read fresh from the model.
func settle(ctx context.Context, model *pagination.Model, updates <-chan pagination.State) (pagination.State, error) {
	state := model.State()

	for pagination.IsLoading(state) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case _, ok := <-updates:
			if !ok {
				return nil, ctx.Err()
			}
		}

		state = model.State()
	}

	return state, nil
}
