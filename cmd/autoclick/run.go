package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/frudas24/autoclick/internal/app"
	"github.com/spf13/cobra"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a stored profile or workspace, or the last activity, in the foreground",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "profile <name>",
			Short: "Run a profile until it finishes or Ctrl+C",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runStored(cmd.Context(), cmd.OutOrStdout(), opts, "profile", args[0])
			},
		},
		&cobra.Command{
			Use:   "workspace <name>",
			Short: "Run a workspace until it finishes or Ctrl+C",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runStored(cmd.Context(), cmd.OutOrStdout(), opts, "workspace", args[0])
			},
		},
		&cobra.Command{
			Use:   "last",
			Short: "Start again whatever was started most recently",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runStored(cmd.Context(), cmd.OutOrStdout(), opts, "last", "")
			},
		},
	)
	return cmd
}

// runStored starts a profile or workspace and waits for it to end.
func runStored(parent context.Context, out io.Writer, opts *rootOptions, kind, name string) error {
	return runTool(parent, out, opts, func(ctx context.Context, a *app.App) error {
		switch kind {
		case "workspace":
			return a.RunWorkspace(ctx, name)
		case "last":
			return a.RunLast(ctx)
		default:
			return a.RunProfile(ctx, name)
		}
	})
}

// printLast prints the outcome of the run that just ended.
func printLast(ctx context.Context, out io.Writer, rt *wired) error {
	entries, err := rt.app.History(context.WithoutCancel(ctx), 1)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	e := entries[0]
	status := "finished"
	if e.Cancelled {
		status = "cancelled"
	}
	_, err = fmt.Fprintf(out, "%s %s %s: %d executed, %d loops, %d skipped in %s\n",
		e.Kind, e.Name, status, e.Executed, e.Loops, e.Skipped, e.Duration().Round(time.Millisecond))
	return err
}
