package sequence

import (
	"context"
	"log/slog"

	"github.com/frudas24/autoclick/internal/gate"
	"github.com/frudas24/autoclick/internal/model"
	"github.com/frudas24/autoclick/internal/wininput"
)

// execute performs one action. Only cancellation of a delay is returned;
// driver failures are logged and the run continues.
func (r *Runner) execute(ctx context.Context, log *slog.Logger, a model.ActionItem) error {
	switch a.Kind {
	case model.KindClick:
		var err error
		if a.UseCurrentPosition {
			err = r.driver.Click(a.Button, a.IsDouble())
		} else {
			err = r.driver.ClickAt(a.X, a.Y, a.Button, a.IsDouble())
		}
		if err != nil {
			log.Warn("click failed", "action", a.ID, "err", err)
		}
	case model.KindKeyPress:
		r.pressKey(log, a)
	case model.KindDelay:
		return gate.Sleep(ctx, model.Ms(a.DelayMs))
	default:
		log.Warn("unknown action kind", "action", a.ID, "kind", a.Kind)
	}
	return nil
}

// pressKey holds the requested modifiers around a single key tap. Unknown key
// names are skipped entirely.
func (r *Runner) pressKey(log *slog.Logger, a model.ActionItem) {
	code := wininput.ParseKeyCode(a.Key)
	if code == 0 {
		log.Debug("unknown key, skipping", "action", a.ID, "key", a.Key)
		return
	}

	mods := wininput.Modifiers(a.Ctrl, a.Alt, a.Shift)
	if err := wininput.PressChord(r.driver, code, mods...); err != nil {
		log.Warn("key press failed", "action", a.ID, "key", a.Key, "err", err)
	}
}
