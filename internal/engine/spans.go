package engine

import (
	"sort"
	"strconv"

	"github.com/lkaminski/matchday-stats-service/internal/model"
)

// playerKey buckets an event to a player: the internal player id when set,
// the external roster-less name otherwise, and as a last resort the event's
// own id so no event ever falls on the floor.
func playerKey(ev *model.GameEvent) string {
	if ev.PlayerID != nil {
		return "p:" + strconv.FormatInt(*ev.PlayerID, 10)
	}
	if ev.ExternalPlayerName != "" {
		return "x:" + ev.ExternalPlayerName
	}
	return "e:" + strconv.FormatInt(ev.ID, 10)
}

// sortForAggregation orders events by (period, period second, insertion
// time). Period tags compare lexically; only "1" and "2" exist in practice.
// The CreatedAt tiebreak is what lets a SUBSTITUTION_OUT and the matching
// SUBSTITUTION_IN at the same second close the old span before opening the
// new one.
func sortForAggregation(events []model.GameEvent) []model.GameEvent {
	sorted := make([]model.GameEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := &sorted[i], &sorted[j]
		if a.Period != b.Period {
			return a.Period < b.Period
		}
		if a.PeriodSecond != b.PeriodSecond {
			return a.PeriodSecond < b.PeriodSecond
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return sorted
}

// aggState carries one player's fold state: the accumulating stats plus the
// at-most-one open span.
type aggState struct {
	stats    *model.PlayerAggregateStats
	openSpan *model.PlayerTimeSpan
}

// AggregatePlayerTime folds one game team's lineup, position and scoring
// events into per-player stats. nowElapsedSeconds is the authoritative
// game clock figure from ComputeTiming/ElapsedSeconds; spans still open at
// the end of the fold close there, so a live page and the stats table agree
// on where the game currently is. IsOnField and LastEntrySecond are
// populated because the scope is a single game.
func (e *Engine) AggregatePlayerTime(events []model.GameEvent, nowElapsedSeconds int) ([]model.PlayerAggregateStats, error) {
	if e.types.Empty() {
		return nil, ErrNoEventTypes
	}

	states := make(map[string]*aggState)
	var order []string

	touch := func(ev *model.GameEvent) *aggState {
		key := playerKey(ev)
		st, ok := states[key]
		if !ok {
			st = &aggState{stats: &model.PlayerAggregateStats{
				PlayerKey:          key,
				PlayerID:           ev.PlayerID,
				ExternalPlayerName: ev.ExternalPlayerName,
				PositionSeconds:    make(map[string]int),
				GameTeamIDs:        make(map[int64]struct{}),
			}}
			states[key] = st
			order = append(order, key)
		}
		st.stats.GameTeamIDs[ev.GameTeamID] = struct{}{}
		return st
	}

	sorted := sortForAggregation(events)
	for i := range sorted {
		ev := &sorted[i]
		name, ok := e.types.NameByID(ev.EventTypeID)
		if !ok {
			continue
		}
		switch name {
		case model.EventStartingLineup:
			st := touch(ev)
			st.open(ev.Position, 0)
		case model.EventSubstitutionIn:
			st := touch(ev)
			st.open(ev.Position, ev.PeriodSecond)
		case model.EventSubstitutionOut:
			st := touch(ev)
			st.close(ev.PeriodSecond)
		case model.EventPositionSwap, model.EventPositionChange:
			st := touch(ev)
			st.close(ev.PeriodSecond)
			st.open(ev.Position, ev.PeriodSecond)
		case model.EventGoal:
			touch(ev).stats.Goals++
		case model.EventAssist:
			touch(ev).stats.Assists++
		case model.EventBench:
			// Participation only: the player was in the squad, no minutes.
			touch(ev)
		}
	}

	out := make([]model.PlayerAggregateStats, 0, len(order))
	for _, key := range order {
		st := states[key]
		if st.openSpan != nil {
			st.stats.IsOnField = true
			start := st.openSpan.StartSecond
			st.stats.LastEntrySecond = &start
			st.close(nowElapsedSeconds)
		}
		st.stats.GamesPlayed = len(st.stats.GameTeamIDs)
		out = append(out, *st.stats)
	}
	return out, nil
}

// open starts a new span. An already-open span closes at the same second
// first, keeping the one-open-span invariant instead of leaking an interval
// that would otherwise run to the end of the fold.
func (s *aggState) open(position string, startSecond int) {
	if s.openSpan != nil {
		s.close(startSecond)
	}
	s.openSpan = &model.PlayerTimeSpan{Position: position, StartSecond: startSecond}
}

// close ends the open span at endSecond and folds the interval into the
// position bucket and the total. A close with no open span is a recording
// artifact (sub-out without sub-in) and is dropped.
func (s *aggState) close(endSecond int) {
	span := s.openSpan
	if span == nil {
		return
	}
	s.openSpan = nil
	if endSecond < span.StartSecond {
		endSecond = span.StartSecond
	}
	end := endSecond
	span.EndSecond = &end
	s.stats.Spans = append(s.stats.Spans, *span)
	seconds := endSecond - span.StartSecond
	s.stats.PositionSeconds[span.Position] += seconds
	s.stats.TotalSeconds += seconds
}

// AggregateAcrossGames folds each game team's events independently and
// merges the results into one stats row per player. Open-span state never
// crosses a game boundary; nowElapsedByGameTeam supplies the closing clock
// figure per game team (zero means closed-at-zero, which only matters for
// a game still live at merge time). IsOnField and LastEntrySecond are left
// unset: "currently on the field" has no meaning across history.
func (e *Engine) AggregateAcrossGames(eventsByGameTeam map[int64][]model.GameEvent, nowElapsedByGameTeam map[int64]int) ([]model.PlayerAggregateStats, error) {
	if e.types.Empty() {
		return nil, ErrNoEventTypes
	}

	merged := make(map[string]*model.PlayerAggregateStats)
	var order []string

	gameTeamIDs := make([]int64, 0, len(eventsByGameTeam))
	for id := range eventsByGameTeam {
		gameTeamIDs = append(gameTeamIDs, id)
	}
	sort.Slice(gameTeamIDs, func(i, j int) bool { return gameTeamIDs[i] < gameTeamIDs[j] })

	for _, gameTeamID := range gameTeamIDs {
		perGame, err := e.AggregatePlayerTime(eventsByGameTeam[gameTeamID], nowElapsedByGameTeam[gameTeamID])
		if err != nil {
			return nil, err
		}
		for i := range perGame {
			stats := &perGame[i]
			dst, ok := merged[stats.PlayerKey]
			if !ok {
				cp := *stats
				cp.PositionSeconds = make(map[string]int, len(stats.PositionSeconds))
				cp.GameTeamIDs = make(map[int64]struct{}, len(stats.GameTeamIDs))
				cp.Spans = nil
				cp.IsOnField = false
				cp.LastEntrySecond = nil
				cp.TotalSeconds = 0
				cp.Goals = 0
				cp.Assists = 0
				merged[stats.PlayerKey] = &cp
				order = append(order, stats.PlayerKey)
				dst = &cp
			}
			dst.TotalSeconds += stats.TotalSeconds
			dst.Goals += stats.Goals
			dst.Assists += stats.Assists
			for pos, sec := range stats.PositionSeconds {
				dst.PositionSeconds[pos] += sec
			}
			for id := range stats.GameTeamIDs {
				dst.GameTeamIDs[id] = struct{}{}
			}
		}
	}

	out := make([]model.PlayerAggregateStats, 0, len(order))
	for _, key := range order {
		st := merged[key]
		st.GamesPlayed = len(st.GameTeamIDs)
		out = append(out, *st)
	}
	return out, nil
}
