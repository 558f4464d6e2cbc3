// Package store defines the persistence boundary (§6 of the spec): tabular
// queries and row upserts against the league/team/match/shot/player/referee/
// schedule/simulation tables. Callers receive a Store through dependency
// injection rather than a global connection pool — the Design Notes flag
// core.py's implicit global-DB-singleton pattern and call for this instead.
package store

import (
	"context"
	"time"

	"github.com/venomio/vpfm/internal/domain"
)

// Store is the full persistence boundary. Production code talks to it
// through an injected interface so tests can substitute an in-memory
// implementation (see memory.go).
type Store interface {
	LeagueStore
	TeamStore
	MatchStore
	PlayerStore
	RefereeStore
	SimulationStore
}

// LeagueStore reads league_data.
type LeagueStore interface {
	ActiveLeagues(ctx context.Context) ([]domain.League, error)
	LeagueByID(ctx context.Context, leagueID int) (domain.League, error)
}

// TeamStore reads/writes team_data.
type TeamStore interface {
	TeamsByLeague(ctx context.Context, leagueID int) ([]domain.Team, error)
	TeamByID(ctx context.Context, teamID int) (domain.Team, error)
	UpsertTeam(ctx context.Context, t domain.Team) error
}

// MatchStore reads match_info/match_detail/shots_data.
type MatchStore interface {
	MatchesByLeague(ctx context.Context, leagueID int) ([]domain.Match, error)
	MatchByID(ctx context.Context, matchID int) (domain.Match, error)
	SegmentsByLeague(ctx context.Context, leagueID int) ([]domain.MatchSegment, error)
	SegmentsByMatch(ctx context.Context, matchID int) ([]domain.MatchSegment, error)
	ShotsByLeague(ctx context.Context, leagueID int) ([]domain.Shot, error)
	ShotsWithPlsqa(ctx context.Context) ([]domain.Shot, error)
	LastGameDate(ctx context.Context, teamID int, before time.Time) (time.Time, bool, error)
}

// PlayerStore reads/writes players_data.
type PlayerStore interface {
	TruncatePlayers(ctx context.Context) error
	UpsertPlayerRating(ctx context.Context, p domain.PlayerRating) error
	PlayerRatingsByIDs(ctx context.Context, ids []string) (map[string]domain.PlayerRating, error)
	PlayerRatingsByTeam(ctx context.Context, teamID int) ([]domain.PlayerRating, error)
	// BaseRatingsByLeague rebuilds every player's non-coefficient fields
	// (minutes played, shot/xG/discipline aggregates, in/out status,
	// sub minutes) from match_breakdown for one league — the source
	// RatingEstimator's coefficient fit is later merged into, per
	// PlayerRating's "truncated and rebuilt ... at each training pass"
	// lifecycle.
	BaseRatingsByLeague(ctx context.Context, leagueID int) ([]domain.PlayerRating, error)
}

// RefereeStore reads/writes referee_data.
type RefereeStore interface {
	RefereeStatsByName(ctx context.Context, name string) (domain.RefereeStats, bool, error)
	UpsertRefereeStats(ctx context.Context, r domain.RefereeStats) error
}

// SimulationStore replaces simulation_data for a schedule wholesale.
type SimulationStore interface {
	ReplaceSimulationData(ctx context.Context, scheduleID int, shots []domain.SimShot, cards []domain.SimCard, batchSize int) error
}
