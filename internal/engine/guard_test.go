package engine

import (
	"testing"

	"github.com/lkaminski/matchday-stats-service/internal/model"
)

func goalEvent(id int64, playerID *int64, name string, periodSecond int) model.GameEvent {
	return model.GameEvent{
		ID:                 id,
		GameID:             1,
		GameTeamID:         1,
		EventTypeID:        12, // GOAL in testTypes
		PlayerID:           playerID,
		ExternalPlayerName: name,
		Period:             "1",
		PeriodSecond:       periodSecond,
	}
}

func TestClassify_DuplicateSamePlayerInWindow(t *testing.T) {
	existing := []model.GameEvent{goalEvent(41, int64Ptr(9), "", 300)}
	candidate := goalEvent(0, int64Ptr(9), "", 330)

	got := Classify(candidate, existing)
	if got.Verdict != VerdictDuplicate {
		t.Fatalf("verdict: %s, want duplicate", got.Verdict)
	}
	if got.Duplicate == nil || got.Duplicate.ID != 41 {
		t.Fatalf("duplicate should reference the existing entry: %+v", got.Duplicate)
	}
}

func TestClassify_ConflictDifferentPlayersInWindow(t *testing.T) {
	existing := []model.GameEvent{goalEvent(41, int64Ptr(9), "", 300)}
	candidate := goalEvent(0, int64Ptr(11), "", 330)

	got := Classify(candidate, existing)
	if got.Verdict != VerdictConflict {
		t.Fatalf("verdict: %s, want conflict", got.Verdict)
	}
	if len(got.Conflicts) != 1 || got.Conflicts[0].ID != 41 {
		t.Fatalf("conflicts should carry the in-window entries: %+v", got.Conflicts)
	}
}

func TestClassify_NovelOutsideWindow(t *testing.T) {
	existing := []model.GameEvent{goalEvent(41, int64Ptr(9), "", 300)}
	candidate := goalEvent(0, int64Ptr(9), "", 361)

	if got := Classify(candidate, existing); got.Verdict != VerdictNovel {
		t.Fatalf("verdict: %s, want novel", got.Verdict)
	}
}

func TestClassify_WindowEdgesInclusive(t *testing.T) {
	existing := []model.GameEvent{goalEvent(41, int64Ptr(9), "", 300)}
	for _, second := range []int{240, 360} {
		candidate := goalEvent(0, int64Ptr(9), "", second)
		if got := Classify(candidate, existing); got.Verdict != VerdictDuplicate {
			t.Fatalf("at second %d: verdict %s, want duplicate", second, got.Verdict)
		}
	}
}

func TestClassify_ExternalNameCaseInsensitive(t *testing.T) {
	existing := []model.GameEvent{goalEvent(41, nil, "De Vries", 300)}
	candidate := goalEvent(0, nil, "de vries", 320)

	if got := Classify(candidate, existing); got.Verdict != VerdictDuplicate {
		t.Fatalf("verdict: %s, want duplicate", got.Verdict)
	}
}

func TestClassify_DifferentTypeOrTeamIgnored(t *testing.T) {
	otherType := goalEvent(41, int64Ptr(9), "", 300)
	otherType.EventTypeID = 13
	otherTeam := goalEvent(42, int64Ptr(9), "", 300)
	otherTeam.GameTeamID = 2

	candidate := goalEvent(0, int64Ptr(9), "", 300)
	if got := Classify(candidate, []model.GameEvent{otherType, otherTeam}); got.Verdict != VerdictNovel {
		t.Fatalf("verdict: %s, want novel", got.Verdict)
	}
}

func TestClassify_DuplicateBeatsConflict(t *testing.T) {
	existing := []model.GameEvent{
		goalEvent(41, int64Ptr(11), "", 290),
		goalEvent(42, int64Ptr(9), "", 310),
	}
	candidate := goalEvent(0, int64Ptr(9), "", 300)

	got := Classify(candidate, existing)
	if got.Verdict != VerdictDuplicate {
		t.Fatalf("verdict: %s, want duplicate", got.Verdict)
	}
	if got.Duplicate == nil || got.Duplicate.ID != 42 {
		t.Fatalf("duplicate: %+v", got.Duplicate)
	}
}

func TestClassify_MixedIdentityNoFalseMatch(t *testing.T) {
	// An id-keyed entry and a name-keyed candidate are different identities
	// even at the same second; that is a conflict for a human, not a merge.
	existing := []model.GameEvent{goalEvent(41, int64Ptr(9), "", 300)}
	candidate := goalEvent(0, nil, "Number Nine", 300)

	if got := Classify(candidate, existing); got.Verdict != VerdictConflict {
		t.Fatalf("verdict: %s, want conflict", got.Verdict)
	}
}
