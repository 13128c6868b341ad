package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/frudas24/autoclick/internal/app"
	"github.com/frudas24/autoclick/internal/model"
	"github.com/spf13/cobra"
)

type clickOptions struct {
	button   string
	double   bool
	interval int
	at       string
	count    int
	last     bool
}

// settings builds clicker settings from the flags. A zero count clicks until
// Ctrl+C.
func (o clickOptions) settings() (model.ClickerSettings, error) {
	s := model.NewClickerSettings()
	s.Button = model.Button(strings.ToLower(o.button))
	if o.double {
		s.ClickStyle = model.ClickDouble
	}
	s.IntervalMs = o.interval
	if o.at != "" {
		x, y, err := parsePoint(o.at)
		if err != nil {
			return s, err
		}
		s.UseCurrentPosition = false
		s.X, s.Y = x, y
	}
	if o.count > 0 {
		s.RepeatMode, s.RepeatCount = model.RepeatLimited, o.count
	}
	return s, s.Validate()
}

func newClickCmd(opts *rootOptions) *cobra.Command {
	o := clickOptions{}
	cmd := &cobra.Command{
		Use:   "click",
		Short: "Click repeatedly until the count is reached or Ctrl+C",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var s *model.ClickerSettings
			if !o.last {
				cs, err := o.settings()
				if err != nil {
					return err
				}
				s = &cs
			}
			return runTool(cmd.Context(), cmd.OutOrStdout(), opts, func(ctx context.Context, a *app.App) error {
				return a.StartClicker(ctx, s)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.button, "button", string(model.ButtonLeft), "Mouse button: left, right or middle")
	f.BoolVar(&o.double, "double", false, "Double click")
	f.IntVar(&o.interval, "interval", 100, "Milliseconds between clicks")
	f.StringVar(&o.at, "at", "", "Click at x,y instead of the cursor")
	f.IntVar(&o.count, "count", 0, "Stop after this many clicks (0 clicks until Ctrl+C)")
	f.BoolVar(&o.last, "last", false, "Reuse the last clicker settings and ignore other flags")
	return cmd
}

type typeOptions struct {
	text     string
	key      string
	ctrl     bool
	alt      bool
	shift    bool
	interval int
	count    int
	last     bool
}

// settings builds typer settings from the flags. --key selects key mode.
func (o typeOptions) settings() (model.KeyboardSettings, error) {
	s := model.NewKeyboardSettings()
	if o.text != "" && o.key != "" {
		return s, errors.New("use either --text or --key")
	}
	if o.key != "" {
		s.Mode, s.Key = model.KeyboardPressKey, o.key
		s.Ctrl, s.Alt, s.Shift = o.ctrl, o.alt, o.shift
	} else {
		s.Text = o.text
	}
	s.IntervalMs = o.interval
	if o.count > 0 {
		s.RepeatMode, s.RepeatCount = model.RepeatLimited, o.count
	}
	return s, s.Validate()
}

func newTypeCmd(opts *rootOptions) *cobra.Command {
	o := typeOptions{}
	cmd := &cobra.Command{
		Use:   "type",
		Short: "Type text or tap a key repeatedly until the count is reached or Ctrl+C",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var s *model.KeyboardSettings
			if !o.last {
				ks, err := o.settings()
				if err != nil {
					return err
				}
				s = &ks
			}
			return runTool(cmd.Context(), cmd.OutOrStdout(), opts, func(ctx context.Context, a *app.App) error {
				return a.StartTyping(ctx, s)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.text, "text", "", "Text to type")
	f.StringVar(&o.key, "key", "", "Key to tap instead of typing text, e.g. F5 or Enter")
	f.BoolVar(&o.ctrl, "ctrl", false, "Hold Ctrl around each key tap")
	f.BoolVar(&o.alt, "alt", false, "Hold Alt around each key tap")
	f.BoolVar(&o.shift, "shift", false, "Hold Shift around each key tap")
	f.IntVar(&o.interval, "interval", 50, "Milliseconds after each character or key tap")
	f.IntVar(&o.count, "count", 0, "Stop after this many passes (0 repeats until Ctrl+C)")
	f.BoolVar(&o.last, "last", false, "Reuse the last typer settings and ignore other flags")
	return cmd
}

// runTool starts a clicker or typer and waits for it to end.
func runTool(parent context.Context, out io.Writer, opts *rootOptions, start func(context.Context, *app.App) error) error {
	ctx, stop := interruptContext(parent)
	defer stop()

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	rt, err := wire(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := start(ctx, rt.app); err != nil {
		return err
	}
	rt.app.Wait()
	return printLast(ctx, out, rt)
}

// parsePoint parses "x,y" screen coordinates.
func parsePoint(s string) (int, int, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("invalid point %q, want x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid x in %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid y in %q: %w", s, err)
	}
	return x, y, nil
}
