package model

import "time"

// Event type names. These are the stable identifiers of the event_types
// reference table; the numeric ids behind them differ per environment.
const (
	EventGameStart       = "GAME_START"
	EventGameEnd         = "GAME_END"
	EventPeriodStart     = "PERIOD_START"
	EventPeriodEnd       = "PERIOD_END"
	EventStoppageStart   = "STOPPAGE_START"
	EventStoppageEnd     = "STOPPAGE_END"
	EventStartingLineup  = "STARTING_LINEUP"
	EventSubstitutionIn  = "SUBSTITUTION_IN"
	EventSubstitutionOut = "SUBSTITUTION_OUT"
	EventPositionSwap    = "POSITION_SWAP"
	EventPositionChange  = "POSITION_CHANGE"
	EventGoal            = "GOAL"
	EventAssist          = "ASSIST"
	EventBench           = "BENCH"
)

// EventCategory groups event types into the small closed set of payload
// shapes the engine folds over.
type EventCategory string

const (
	CategoryClock         EventCategory = "clock"
	CategoryLineup        EventCategory = "lineup"
	CategoryScoring       EventCategory = "scoring"
	CategoryParticipation EventCategory = "participation"
	CategoryUnknown       EventCategory = "unknown"
)

// Category resolves an event type name to its payload category. Raw rows
// are classified once at the storage boundary; the folds switch on the
// result instead of carrying an untyped metadata bag.
func Category(name string) EventCategory {
	switch name {
	case EventGameStart, EventGameEnd, EventPeriodStart, EventPeriodEnd,
		EventStoppageStart, EventStoppageEnd:
		return CategoryClock
	case EventStartingLineup, EventSubstitutionIn, EventSubstitutionOut,
		EventPositionSwap, EventPositionChange:
		return CategoryLineup
	case EventGoal, EventAssist:
		return CategoryScoring
	case EventBench:
		return CategoryParticipation
	default:
		return CategoryUnknown
	}
}

// EventType is a row of the static event type reference table.
type EventType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// GameEvent is one row of the append-only match event log. Rows are written
// once by the recording actor and never edited; corrections are new events.
// The single exception is the position field, which has a dedicated
// correction path (repository.EventLogRepository.UpdatePosition).
//
// PeriodSecond is the canonical elapsed-time unit across the whole engine:
// seconds since kickoff, game-relative and monotone across halftime. Period
// is kept only as an ordering tag.
type GameEvent struct {
	ID                   int64     `json:"id"`
	GameID               int64     `json:"game_id"`
	EventTypeID          int64     `json:"event_type_id"`
	GameTeamID           int64     `json:"game_team_id"`
	PlayerID             *int64    `json:"player_id,omitempty"`
	ExternalPlayerName   string    `json:"external_player_name,omitempty"`
	ExternalPlayerNumber string    `json:"external_player_number,omitempty"`
	Position             string    `json:"position,omitempty"`
	Period               string    `json:"period,omitempty"`
	PeriodSecond         int       `json:"period_second"`
	ParentEventID        *int64    `json:"parent_event_id,omitempty"`
	CreatedByID          int64     `json:"created_by_id"`
	CreatedAt            time.Time `json:"created_at"`
}

// GameTiming is the game clock state derived by folding clock events.
// It is recomputed on every query and never persisted.
// PausedAt is never set once ActualEnd is set.
type GameTiming struct {
	ActualStart     *time.Time `json:"actual_start,omitempty"`
	FirstHalfEnd    *time.Time `json:"first_half_end,omitempty"`
	SecondHalfStart *time.Time `json:"second_half_start,omitempty"`
	ActualEnd       *time.Time `json:"actual_end,omitempty"`
	PausedAt        *time.Time `json:"paused_at,omitempty"`
}

// PeriodTiming reports where the clock currently stands, split by half.
// CurrentPeriod is nil both before kickoff and at halftime or fulltime;
// callers must not conflate those with a running period.
type PeriodTiming struct {
	Period1Seconds       int  `json:"period1_seconds"`
	Period2Seconds       int  `json:"period2_seconds"`
	CurrentPeriod        *int `json:"current_period,omitempty"`
	CurrentPeriodSeconds int  `json:"current_period_seconds"`
}

// PlayerTimeSpan is one contiguous interval a player spent at one position.
// EndSecond is nil while the span is still open.
type PlayerTimeSpan struct {
	Position    string `json:"position"`
	StartSecond int    `json:"start_second"`
	EndSecond   *int   `json:"end_second,omitempty"`
}

// PlayerAggregateStats accumulates one player's on-field time and counters,
// for a single game or merged across many. GameTeamIDs is kept as a set so
// merging the same game twice stays idempotent; GamesPlayed is the exported
// count. IsOnField and LastEntrySecond are only meaningful when the
// aggregation was scoped to exactly one game.
type PlayerAggregateStats struct {
	PlayerKey          string             `json:"player_key"`
	PlayerID           *int64             `json:"player_id,omitempty"`
	ExternalPlayerName string             `json:"external_player_name,omitempty"`
	TotalSeconds       int                `json:"total_seconds"`
	PositionSeconds    map[string]int     `json:"position_seconds"`
	Goals              int                `json:"goals"`
	Assists            int                `json:"assists"`
	GamesPlayed        int                `json:"games_played"`
	GameTeamIDs        map[int64]struct{} `json:"-"`
	IsOnField          bool               `json:"is_on_field,omitempty"`
	LastEntrySecond    *int               `json:"last_entry_second,omitempty"`
	Spans              []PlayerTimeSpan   `json:"spans,omitempty"`
}
