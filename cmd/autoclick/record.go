package main

import (
	"context"
	"fmt"
	"time"

	"github.com/frudas24/autoclick/internal/store"
	"github.com/spf13/cobra"
)

func newRecordCmd(opts *rootOptions) *cobra.Command {
	var duration time.Duration
	cmd := &cobra.Command{
		Use:   "record <file>",
		Short: "Record cursor activity to a JSON file",
		Long:  "Records cursor moves and button presses until --duration elapses or Ctrl+C.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := interruptContext(cmd.Context())
			defer stop()

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			rt, err := wire(context.WithoutCancel(ctx), cfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			if !rt.app.StartRecording() {
				return fmt.Errorf("recorder busy")
			}
			wait := ctx.Done()
			if duration > 0 {
				timer := time.NewTimer(duration)
				defer timer.Stop()
				select {
				case <-wait:
				case <-timer.C:
				}
			} else {
				<-wait
			}
			rt.app.StopRecording()

			actions := rt.app.Recorded()
			if err := store.SaveRecording(args[0], actions); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "recorded %d actions to %s\n", len(actions), args[0])
			return err
		},
	}
	cmd.Flags().DurationVar(&duration, "duration", 0, "Stop after this long (0 waits for Ctrl+C)")
	return cmd
}

func newPlayCmd(opts *rootOptions) *cobra.Command {
	var speed float64
	cmd := &cobra.Command{
		Use:   "play <file>",
		Short: "Replay a recording file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := interruptContext(cmd.Context())
			defer stop()

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			actions, err := store.LoadRecording(args[0])
			if err != nil {
				return err
			}
			rt, err := wire(ctx, cfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := rt.app.SetRecorded(actions); err != nil {
				return err
			}
			if !rt.app.Play(ctx, speed) {
				return fmt.Errorf("recording %s is empty", args[0])
			}
			rt.app.Wait()
			return printLast(ctx, cmd.OutOrStdout(), rt)
		},
	}
	cmd.Flags().Float64Var(&speed, "speed", 0, "Playback speed multiplier (0 uses PLAYBACK_SPEED)")
	return cmd
}
