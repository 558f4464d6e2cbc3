package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/venomio/vpfm/internal/domain"
)

// MemoryStore is an in-memory Store used by tests and local dry-runs,
// substituting for the injected DB the Design Notes call for in place of
// core.py's global-singleton pattern.
type MemoryStore struct {
	mu sync.RWMutex

	leagues  map[int]domain.League
	teams    map[int]domain.Team
	matches  map[int]domain.Match
	segments map[int][]domain.MatchSegment // by matchID
	shots    map[int][]domain.Shot         // by matchID
	players      map[string]domain.PlayerRating
	baseRatings  map[int][]domain.PlayerRating // by leagueID, match_breakdown aggregate
	referees     map[string]domain.RefereeStats

	simShots map[int][]domain.SimShot
	simCards map[int][]domain.SimCard
}

// NewMemoryStore builds an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		leagues:  map[int]domain.League{},
		teams:    map[int]domain.Team{},
		matches:  map[int]domain.Match{},
		segments: map[int][]domain.MatchSegment{},
		shots:    map[int][]domain.Shot{},
		players:     map[string]domain.PlayerRating{},
		baseRatings: map[int][]domain.PlayerRating{},
		referees:    map[string]domain.RefereeStats{},
		simShots: map[int][]domain.SimShot{},
		simCards: map[int][]domain.SimCard{},
	}
}

// Seeding helpers (not part of the Store interface) -------------------

func (m *MemoryStore) AddLeague(l domain.League) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leagues[l.LeagueID] = l
}

func (m *MemoryStore) AddTeam(t domain.Team) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teams[t.TeamID] = t
}

func (m *MemoryStore) AddMatch(mt domain.Match) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matches[mt.MatchID] = mt
}

func (m *MemoryStore) AddSegment(s domain.MatchSegment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.segments[s.MatchID] = append(m.segments[s.MatchID], s)
}

func (m *MemoryStore) AddShot(s domain.Shot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shots[s.MatchID] = append(m.shots[s.MatchID], s)
}

// AddBaseRating seeds one player's match_breakdown aggregate for a
// league (test helper; coefficient fields are expected to be zero —
// FitActiveLeagues/AggregatePlayerRatings fill those in later).
func (m *MemoryStore) AddBaseRating(leagueID int, p domain.PlayerRating) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.baseRatings[leagueID] = append(m.baseRatings[leagueID], p)
}

// Store interface implementation --------------------------------------

func (m *MemoryStore) ActiveLeagues(ctx context.Context) ([]domain.League, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.League
	for _, l := range m.leagues {
		if l.Active {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LeagueID < out[j].LeagueID })
	return out, nil
}

func (m *MemoryStore) LeagueByID(ctx context.Context, leagueID int) (domain.League, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.leagues[leagueID]
	if !ok {
		return domain.League{}, fmt.Errorf("league %d not found", leagueID)
	}
	return l, nil
}

func (m *MemoryStore) TeamsByLeague(ctx context.Context, leagueID int) ([]domain.Team, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.Team
	for _, t := range m.teams {
		if t.LeagueID == leagueID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TeamID < out[j].TeamID })
	return out, nil
}

func (m *MemoryStore) TeamByID(ctx context.Context, teamID int) (domain.Team, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.teams[teamID]
	if !ok {
		return domain.Team{}, fmt.Errorf("team %d not found", teamID)
	}
	return t, nil
}

func (m *MemoryStore) UpsertTeam(ctx context.Context, t domain.Team) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teams[t.TeamID] = t
	return nil
}

func (m *MemoryStore) MatchesByLeague(ctx context.Context, leagueID int) ([]domain.Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.Match
	for _, mt := range m.matches {
		if mt.LeagueID == leagueID {
			out = append(out, mt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MatchID < out[j].MatchID })
	return out, nil
}

func (m *MemoryStore) MatchByID(ctx context.Context, matchID int) (domain.Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mt, ok := m.matches[matchID]
	if !ok {
		return domain.Match{}, fmt.Errorf("match %d not found", matchID)
	}
	return mt, nil
}

func (m *MemoryStore) SegmentsByLeague(ctx context.Context, leagueID int) ([]domain.MatchSegment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.MatchSegment
	for matchID, segs := range m.segments {
		mt, ok := m.matches[matchID]
		if !ok || mt.LeagueID != leagueID {
			continue
		}
		out = append(out, segs...)
	}
	return out, nil
}

func (m *MemoryStore) SegmentsByMatch(ctx context.Context, matchID int) ([]domain.MatchSegment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.MatchSegment(nil), m.segments[matchID]...), nil
}

func (m *MemoryStore) ShotsByLeague(ctx context.Context, leagueID int) ([]domain.Shot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.Shot
	for matchID, shots := range m.shots {
		mt, ok := m.matches[matchID]
		if !ok || mt.LeagueID != leagueID {
			continue
		}
		out = append(out, shots...)
	}
	return out, nil
}

func (m *MemoryStore) ShotsWithPlsqa(ctx context.Context) ([]domain.Shot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.Shot
	for _, shots := range m.shots {
		for _, s := range shots {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MemoryStore) LastGameDate(ctx context.Context, teamID int, before time.Time) (time.Time, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var best time.Time
	found := false
	for _, mt := range m.matches {
		if mt.HomeTeamID != teamID && mt.AwayTeamID != teamID {
			continue
		}
		if !mt.Kickoff.Before(before) {
			continue
		}
		if !found || mt.Kickoff.After(best) {
			best = mt.Kickoff
			found = true
		}
	}
	return best, found, nil
}

func (m *MemoryStore) TruncatePlayers(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.players = map[string]domain.PlayerRating{}
	return nil
}

func (m *MemoryStore) UpsertPlayerRating(ctx context.Context, p domain.PlayerRating) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.players[p.PlayerID] = p
	return nil
}

func (m *MemoryStore) PlayerRatingsByIDs(ctx context.Context, ids []string) (map[string]domain.PlayerRating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]domain.PlayerRating, len(ids))
	for _, id := range ids {
		if p, ok := m.players[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (m *MemoryStore) PlayerRatingsByTeam(ctx context.Context, teamID int) ([]domain.PlayerRating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.PlayerRating
	for _, p := range m.players {
		if p.CurrentTeam == teamID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out, nil
}

func (m *MemoryStore) BaseRatingsByLeague(ctx context.Context, leagueID int) ([]domain.PlayerRating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := append([]domain.PlayerRating(nil), m.baseRatings[leagueID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out, nil
}

func (m *MemoryStore) RefereeStatsByName(ctx context.Context, name string) (domain.RefereeStats, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.referees[name]
	return r, ok, nil
}

func (m *MemoryStore) UpsertRefereeStats(ctx context.Context, r domain.RefereeStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.referees[r.RefereeName] = r
	return nil
}

func (m *MemoryStore) ReplaceSimulationData(ctx context.Context, scheduleID int, shots []domain.SimShot, cards []domain.SimCard, batchSize int) error {
	if batchSize <= 0 {
		batchSize = 200
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	// delete-then-insert, mirroring the single-transaction semantics of
	// core.py's insert_sim_data: no partial state is ever visible.
	delete(m.simShots, scheduleID)
	delete(m.simCards, scheduleID)
	for i := 0; i < len(shots); i += batchSize {
		end := i + batchSize
		if end > len(shots) {
			end = len(shots)
		}
		m.simShots[scheduleID] = append(m.simShots[scheduleID], shots[i:end]...)
	}
	m.simCards[scheduleID] = append(m.simCards[scheduleID], cards...)
	return nil
}

// SimShotsFor returns the persisted simulation shot rows for a schedule
// (test helper).
func (m *MemoryStore) SimShotsFor(scheduleID int) []domain.SimShot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.SimShot(nil), m.simShots[scheduleID]...)
}

// SimCardsFor returns the persisted simulation card rows for a schedule
// (test helper).
func (m *MemoryStore) SimCardsFor(scheduleID int) []domain.SimCard {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.SimCard(nil), m.simCards[scheduleID]...)
}

var _ Store = (*MemoryStore)(nil)
