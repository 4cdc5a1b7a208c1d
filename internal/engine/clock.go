package engine

import (
	"sort"
	"time"

	"github.com/lkaminski/matchday-stats-service/internal/model"
)

// Engine bundles the folds with the event type lookup they resolve names
// through. It holds no other state; concurrent use is safe.
type Engine struct {
	types *TypeCache
}

// New builds an engine around an injected type cache.
func New(types *TypeCache) *Engine {
	return &Engine{types: types}
}

// ComputeTiming folds clock events into derived game clock state. Events
// must belong to one game; they are folded in CreatedAt order (the fold
// sorts a copy, so callers handing in pre-sorted storage output pay only
// for the scan). Later events of the same kind overwrite earlier derived
// fields, which makes re-recorded boundaries self-correcting.
func (e *Engine) ComputeTiming(events []model.GameEvent) (model.GameTiming, error) {
	if e.types.Empty() {
		return model.GameTiming{}, ErrNoEventTypes
	}

	sorted := make([]model.GameEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	var timing model.GameTiming
	var pauseCandidate *time.Time
	for i := range sorted {
		ev := &sorted[i]
		name, ok := e.types.NameByID(ev.EventTypeID)
		if !ok {
			continue
		}
		ts := ev.CreatedAt
		switch name {
		case model.EventGameStart:
			timing.ActualStart = &ts
		case model.EventGameEnd:
			timing.ActualEnd = &ts
		case model.EventPeriodEnd:
			// Only the first half boundary is derived from PERIOD_END;
			// the end of period 2 is GAME_END's job.
			if ev.Period == "1" {
				timing.FirstHalfEnd = &ts
			}
		case model.EventPeriodStart:
			if ev.Period == "2" {
				timing.SecondHalfStart = &ts
			}
		case model.EventStoppageStart:
			pauseCandidate = &ts
		case model.EventStoppageEnd:
			pauseCandidate = nil
		}
	}

	// A finished game cannot be paused: an unresumed stoppage only
	// survives the fold while the final whistle is missing.
	if pauseCandidate != nil && timing.ActualEnd == nil {
		timing.PausedAt = pauseCandidate
	}
	return timing, nil
}

// ElapsedSeconds reports how far the game clock has run as of now, given
// the regulation length in minutes. A paused game is frozen at the pause
// instant; a finished game at the final whistle; halftime at the first
// half boundary.
func ElapsedSeconds(timing model.GameTiming, durationMinutes int, now time.Time) int {
	if timing.ActualStart == nil {
		return 0
	}
	if timing.ActualEnd != nil {
		return int(timing.ActualEnd.Sub(*timing.ActualStart).Seconds())
	}

	effectiveNow := now
	if timing.PausedAt != nil {
		effectiveNow = *timing.PausedAt
	}

	halfLength := durationMinutes * 60 / 2
	switch {
	case timing.SecondHalfStart != nil:
		return halfLength + int(effectiveNow.Sub(*timing.SecondHalfStart).Seconds())
	case timing.FirstHalfEnd != nil:
		// Halftime: frozen at the boundary regardless of wall clock.
		return int(timing.FirstHalfEnd.Sub(*timing.ActualStart).Seconds())
	default:
		return int(effectiveNow.Sub(*timing.ActualStart).Seconds())
	}
}

// PeriodInfo splits the elapsed clock by half and names the running period.
// CurrentPeriod stays nil before kickoff, at halftime and after fulltime;
// those three states look identical here on purpose and callers that need
// to tell them apart read the underlying GameTiming fields.
func PeriodInfo(timing model.GameTiming, durationMinutes int, now time.Time) model.PeriodTiming {
	var info model.PeriodTiming
	if timing.ActualStart == nil {
		return info
	}

	halfLength := durationMinutes * 60 / 2
	elapsed := ElapsedSeconds(timing, durationMinutes, now)

	switch {
	case timing.ActualEnd != nil:
		info.Period1Seconds = min(elapsed, halfLength)
		info.Period2Seconds = max(elapsed-halfLength, 0)
	case timing.SecondHalfStart != nil:
		period := 2
		info.Period1Seconds = halfLength
		info.Period2Seconds = elapsed - halfLength
		info.CurrentPeriod = &period
		info.CurrentPeriodSeconds = info.Period2Seconds
	case timing.FirstHalfEnd != nil:
		info.Period1Seconds = elapsed
	default:
		period := 1
		info.Period1Seconds = elapsed
		info.CurrentPeriod = &period
		info.CurrentPeriodSeconds = elapsed
	}
	return info
}
