package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/frudas24/autoclick/internal/history"
	"github.com/frudas24/autoclick/internal/store"
	"github.com/spf13/cobra"
)

func newProfilesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List stored profiles and workspaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			profiles := store.NewProfiles(cfg.ProfilesDir)
			names, err := profiles.Names()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KIND\tNAME\tENABLED\tLOOP")
			for _, name := range names {
				p, err := profiles.Load(name)
				if err != nil {
					fmt.Fprintf(tw, "profile\t%s\t(error: %v)\t\n", name, err)
					continue
				}
				fmt.Fprintf(tw, "profile\t%s\t%d/%d\t%s\n", p.Name, p.EnabledCount(), len(p.Actions), loopLabel(p.LoopActions, p.LoopCount))
			}

			workspaces := store.NewWorkspaces(cfg.WorkspacesDir)
			wsNames, err := workspaces.Names()
			if err != nil {
				return err
			}
			for _, name := range wsNames {
				w, err := workspaces.Load(name)
				if err != nil {
					fmt.Fprintf(tw, "workspace\t%s\t(error: %v)\t\n", name, err)
					continue
				}
				fmt.Fprintf(tw, "workspace\t%s\t%d/%d\t%s\n", w.Name, len(w.EnabledJobs()), len(w.Jobs), loopLabel(w.LoopWorkspace, w.WorkspaceLoopCount))
			}
			return tw.Flush()
		},
	}
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			hist, err := history.Open(cfg.HistoryPath)
			if err != nil {
				return err
			}
			defer hist.Close()

			entries, err := hist.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "STARTED\tKIND\tNAME\tEXECUTED\tLOOPS\tSKIPPED\tDURATION\tCANCELLED")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%s\t%t\n",
					e.StartedAt.Format("2006-01-02 15:04:05"), e.Kind, e.Name,
					e.Executed, e.Loops, e.Skipped, e.Duration().Round(time.Millisecond), e.Cancelled)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show")
	return cmd
}

// loopLabel renders loop settings as "once", "xN" or "forever".
func loopLabel(loop bool, count int) string {
	switch {
	case !loop:
		return "once"
	case count == 0:
		return "forever"
	default:
		return fmt.Sprintf("x%d", count)
	}
}
