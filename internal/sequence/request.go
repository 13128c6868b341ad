package sequence

import (
	"time"

	"github.com/frudas24/autoclick/internal/gate"
	"github.com/frudas24/autoclick/internal/model"
)

// Request describes one run. It is not modified by the runner.
type Request struct {
	Actions []model.ActionItem
	Loop    bool
	// LoopCount of 0 repeats until stopped when Loop is set.
	LoopCount           int
	DelayBetweenLoops   time.Duration
	DelayBetweenActions time.Duration
	RestoreCursor       bool
	// Hold is an outer pause gate the run also parks on.
	Hold     *gate.Gate
	Observer Observer
}

// FromProfile builds a request from a profile's own settings.
func FromProfile(p model.Profile) Request {
	return Request{
		Actions:             p.Actions,
		Loop:                p.LoopActions,
		LoopCount:           p.LoopCount,
		DelayBetweenLoops:   model.Ms(p.DelayBetweenLoopsMs),
		DelayBetweenActions: model.Ms(p.DelayBetweenActionsMs),
		RestoreCursor:       p.RestoreMousePosition,
	}
}

// Summary reports how a run ended.
type Summary struct {
	Cancelled bool
	Executed  int
	Loops     int
	Started   time.Time
	Ended     time.Time
}
