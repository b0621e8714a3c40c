package main

import (
	"context"
	"fmt"

	"github.com/amp-labs/amp-flux/cli"
	"github.com/amp-labs/amp-flux/pagination"
)

type choice struct {
	label string
	// run is nil for quit.
	run func(ctx context.Context, model *pagination.Model) error
}

func apply(action pagination.Action) func(context.Context, *pagination.Model) error {
	return func(ctx context.Context, model *pagination.Model) error {
		return model.Apply(ctx, action)
	}
}

// menu lists what the user can do from state.
func menu(state pagination.State, recovery bool) []choice {
	quit := choice{label: "Quit"}
	reload := choice{label: "Reload", run: apply(pagination.Reload{})}

	switch s := state.(type) {
	case pagination.Idle:
		last := len(s.DataSource) - 1

		return []choice{
			{label: "Show more", run: func(ctx context.Context, model *pagination.Model) error {
				return model.ItemShown(ctx, last)
			}},
			reload,
			quit,
		}
	case pagination.Loaded:
		return []choice{reload, quit}
	case pagination.Failed:
		if recovery {
			return []choice{{label: "Retry", run: apply(pagination.Retry{})}, quit}
		}

		return []choice{quit}
	default:
		return []choice{quit}
	}
}

// render draws the items and a status line.
func render(state pagination.State, width int) string {
	snap := pagination.SnapshotOf(state)
	lines := []*string{cli.Text(" Pager"), cli.Divider()}

	for _, item := range snap.Items {
		lines = append(lines, cli.Text(fmt.Sprintf(" %3d. %s", item.Index+1, item.Text)))
	}

	if len(snap.Items) > 0 {
		lines = append(lines, cli.Divider())
	}

	var status string

	switch state.(type) {
	case pagination.Idle:
		status = fmt.Sprintf(" %d items, more available", snap.Count)
	case pagination.Loaded:
		status = fmt.Sprintf(" %d items, all loaded", snap.Count)
	case pagination.Failed:
		status = fmt.Sprintf(" Failed (%s): %s", snap.ErrorKind, snap.Error)
	default:
		status = " " + snap.State
	}

	lines = append(lines, cli.Text(status))

	return cli.Box(width, lines...)
}
