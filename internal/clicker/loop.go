package clicker

import (
	"context"
	"time"

	"github.com/frudas24/autoclick/internal/gate"
	"github.com/frudas24/autoclick/internal/wininput"
)

// run repeats pass until ctx ends or limit passes completed. A limit of 0
// never stops on its own.
func (r *Runner) run(ctx context.Context, h *Handle, limit int, interval time.Duration, pass passFunc) {
	log := r.log.With("run", h.id, "tool", h.tool)
	summary := Summary{Tool: h.tool, Started: time.Now()}
	log.Info("started", "limit", limit, "interval", interval)

	defer func() {
		r.mu.Lock()
		if r.active == h {
			r.active = nil
		}
		r.mu.Unlock()

		summary.Cancelled = ctx.Err() != nil
		summary.Ended = time.Now()
		log.Info("stopped", "passes", summary.Passes, "count", summary.Count, "cancelled", summary.Cancelled)
		h.finish(summary)
	}()

	for ctx.Err() == nil {
		sent, err := pass(ctx)
		summary.Count += sent
		if err != nil {
			return
		}
		summary.Passes++
		h.emit(Event{Kind: EventPerformed, Passes: summary.Passes, Count: summary.Count})

		if limit > 0 && summary.Passes >= limit {
			return
		}
		if err := gate.Sleep(ctx, interval); err != nil {
			return
		}
	}
}

// typeText sends each supported character of text, waiting interval after
// every character. Characters without a key mapping are skipped.
func (r *Runner) typeText(ctx context.Context, text []rune, interval time.Duration) (int, error) {
	sent := 0
	for _, c := range text {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		code, shift, ok := wininput.CharKey(c)
		if !ok {
			r.log.Debug("no key for character, skipping", "char", string(c))
			continue
		}
		var mods []uint16
		if shift {
			mods = append(mods, wininput.VKShift)
		}
		if err := wininput.PressChord(r.driver, code, mods...); err != nil {
			r.log.Warn("key press failed", "char", string(c), "err", err)
		}
		sent++
		if err := gate.Sleep(ctx, interval); err != nil {
			return sent, err
		}
	}
	return sent, nil
}

func typeable(text []rune) bool {
	for _, c := range text {
		if _, _, ok := wininput.CharKey(c); ok {
			return true
		}
	}
	return false
}
