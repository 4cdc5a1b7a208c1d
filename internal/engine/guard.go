package engine

import (
	"strings"

	"github.com/lkaminski/matchday-stats-service/internal/model"
)

// DuplicateWindowSeconds is the half-width of the window the ingestion
// guard scans around a candidate event. Two same-type entries for the same
// player inside the window are treated as the same real-world moment
// recorded twice.
const DuplicateWindowSeconds = 60

// Verdict classifies a candidate event against existing entries.
type Verdict string

const (
	// VerdictNovel means nothing comparable exists; record it.
	VerdictNovel Verdict = "novel"
	// VerdictDuplicate means the same player already has this entry nearby.
	VerdictDuplicate Verdict = "duplicate"
	// VerdictConflict means other players have entries at the same moment;
	// a human decides whether both happened.
	VerdictConflict Verdict = "conflict"
)

// Classification is the guard's answer. Duplicate carries the matched
// entry on VerdictDuplicate; Conflicts carries every in-window entry on
// VerdictConflict so the caller can surface them for manual resolution.
type Classification struct {
	Verdict   Verdict           `json:"verdict"`
	Duplicate *model.GameEvent  `json:"duplicate,omitempty"`
	Conflicts []model.GameEvent `json:"conflicts,omitempty"`
}

// samePlayer reports whether two events refer to the same player identity:
// matching internal ids, or failing that matching external names compared
// case-insensitively (live recorders type names by hand).
func samePlayer(a *model.GameEvent, b *model.GameEvent) bool {
	if a.PlayerID != nil && b.PlayerID != nil {
		return *a.PlayerID == *b.PlayerID
	}
	if a.PlayerID == nil && b.PlayerID == nil &&
		a.ExternalPlayerName != "" && b.ExternalPlayerName != "" {
		return strings.EqualFold(a.ExternalPlayerName, b.ExternalPlayerName)
	}
	return false
}

// Classify scans existing same-type events for the candidate's game team
// and decides whether the candidate is novel, a duplicate of one of them,
// or in conflict with entries by other players at the same moment. The
// window compares the canonical elapsed second on both sides.
//
// This is a heuristic, not a constraint: two genuinely distinct events more
// than a window apart are never flagged, and near-simultaneous legitimate
// events surface as a conflict for a human instead of being rejected. The
// check-then-insert gap between two concurrent recorders is accepted; a
// race-induced duplicate shows up as a duplicate on the next read rather
// than being prevented here.
func Classify(candidate model.GameEvent, existing []model.GameEvent) Classification {
	var inWindow []model.GameEvent
	for i := range existing {
		ev := &existing[i]
		if ev.EventTypeID != candidate.EventTypeID || ev.GameTeamID != candidate.GameTeamID {
			continue
		}
		delta := ev.PeriodSecond - candidate.PeriodSecond
		if delta < -DuplicateWindowSeconds || delta > DuplicateWindowSeconds {
			continue
		}
		if samePlayer(&candidate, ev) {
			dup := *ev
			return Classification{Verdict: VerdictDuplicate, Duplicate: &dup}
		}
		inWindow = append(inWindow, *ev)
	}
	if len(inWindow) > 0 {
		return Classification{Verdict: VerdictConflict, Conflicts: inWindow}
	}
	return Classification{Verdict: VerdictNovel}
}
