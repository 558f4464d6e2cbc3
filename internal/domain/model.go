// Package domain holds the data model shared by the rating, context,
// lineup, simulation, and discipline layers: teams, leagues, matches,
// the segment/shot facts derived from them, and the player/referee
// aggregates the estimators produce.
package domain

import "time"

// Team is immutable during a simulation.
type Team struct {
	TeamID         int
	Name           string
	ElevationM     float64
	Lat            float64
	Lon            float64
	LeagueID       int
	FixturesSource string
}

// League groups teams and gates whether RatingEstimator/ContextModelTrainer
// consider it during a training pass.
type League struct {
	LeagueID        int
	Name            string
	Active          bool
	FixturesSource  string
	LastUpdatedDate time.Time
}

// Match is created when scraped; context fields are filled in by
// PreMatchStateBuilder and the row is immutable after it is used for
// training.
type Match struct {
	MatchID          int
	HomeTeamID       int
	AwayTeamID       int
	Kickoff          time.Time
	LeagueID         int
	RefereeName      string
	HomeElevationDif float64
	AwayElevationDif float64
	AwayTravelKm     float64
	HomeRestDays     int
	AwayRestDays     int
	TemperatureC     float64
	IsRaining        bool
}

// MatchState is the goal-difference bucket from a team's own perspective.
type MatchState float64

const (
	StateTrailingBig MatchState = -1.5
	StateTrailing    MatchState = -1
	StateLevel       MatchState = 0
	StateLeading     MatchState = 1
	StateLeadingBig  MatchState = 1.5
)

// PlayerDif is the player-advantage bucket, away-minus-home from the
// home team's perspective (see DESIGN.md for the sign-convention Open
// Question this resolves).
type PlayerDif float64

const (
	DifDownBig PlayerDif = -1.5
	DifDown    PlayerDif = -1
	DifEven    PlayerDif = 0
	DifUp      PlayerDif = 1
	DifUpBig   PlayerDif = 1.5
)

// GoalStatus buckets MatchState/PlayerDif into the three-way category the
// boosters and discipline model train categorical features on.
type GoalStatus string

const (
	Leading  GoalStatus = "Leading"
	Level    GoalStatus = "Level"
	Trailing GoalStatus = "Trailing"
)

// Status converts a signed goal (or player) difference into the
// three-way category used by LineupEngine and DisciplineSampler.
func Status(diff float64) GoalStatus {
	switch {
	case diff > 0:
		return Leading
	case diff < 0:
		return Trailing
	default:
		return Level
	}
}

// GoalDiffToState implements testable property #3: the goal-difference
// sequence maps onto {0,1,1.5} magnitudes signed by direction.
func GoalDiffToState(diff int) MatchState {
	switch {
	case diff == 0:
		return StateLevel
	case diff == 1:
		return StateLeading
	case diff > 1:
		return StateLeadingBig
	case diff == -1:
		return StateTrailing
	default:
		return StateTrailingBig
	}
}

// RedCardDiffToPlayerDif converts away/home red-card counts into the
// player_dif bucket, using the "away-minus-home from home's perspective"
// sign convention (DESIGN.md's Open Question resolution): diff =
// away_red - home_red.
func RedCardDiffToPlayerDif(awayRed, homeRed int) PlayerDif {
	diff := awayRed - homeRed
	switch {
	case diff == 0:
		return DifEven
	case diff == 1:
		return DifUp
	case diff > 1:
		return DifUpBig
	case diff == -1:
		return DifDown
	default:
		return DifDownBig
	}
}

// TimeSegment buckets a match minute into one of six 15-minute windows,
// the sixth absorbing stoppage/overtime.
func TimeSegment(minute int) int {
	switch {
	case minute < 15:
		return 1
	case minute < 30:
		return 2
	case minute < 45:
		return 3
	case minute < 60:
		return 4
	case minute < 75:
		return 5
	default:
		return 6
	}
}

// ShotType is the body part used for a shot.
type ShotType string

const (
	ShotHead ShotType = "Head"
	ShotFoot ShotType = "Foot"
)

// MatchSegment is one window of a partitioned match: contiguous,
// non-overlapping, bounded by {0,15,30,45,60,75,end} union event minutes.
type MatchSegment struct {
	DetailID      int
	MatchID       int
	TeamAPlayers  []string
	TeamBPlayers  []string
	HeadersA      int
	FootersA      int
	HxgA          float64
	FxgA          float64
	HeadersB      int
	FootersB      int
	HxgB          float64
	FxgB          float64
	MinutesPlayed int
	MatchState    MatchState
	MatchSegment  int
	PlayerDif     PlayerDif
	PdrasA        float64
	PdrasB        float64
}

// Shot is one recorded (historical) or simulated-derivation shot event.
// Rating-derived fields are recomputed whenever upstream coefficients change.
type Shot struct {
	ShotID       int
	MatchID      int
	Xg           float64
	Psxg         float64
	Outcome      int
	ShooterID    string
	AssisterID   *string
	TeamID       int
	GkID         string
	OffPlayers   []string
	DefPlayers   []string
	MatchState   MatchState
	PlayerDif    PlayerDif
	ShotType     ShotType
	TotalPlsqa   float64
	ShooterSq    float64
	AssisterSq   float64
	Rsq          float64
	ShooterA     float64
	GkA          float64
}

// StatusCounts tallies how many times a player entered/left while
// Leading, Level, or Trailing.
type StatusCounts struct {
	Leading  int
	Level    int
	Trailing int
}

// Total sums all three buckets.
func (s StatusCounts) Total() int { return s.Leading + s.Level + s.Trailing }

// Prob normalizes the counts into a probability per GoalStatus, falling
// back to all-zero (caller substitutes uniform weights) when empty.
func (s StatusCounts) Prob() map[GoalStatus]float64 {
	total := s.Total()
	out := map[GoalStatus]float64{Leading: 0, Level: 0, Trailing: 0}
	if total == 0 {
		return out
	}
	out[Leading] = float64(s.Leading) / float64(total)
	out[Level] = float64(s.Level) / float64(total)
	out[Trailing] = float64(s.Trailing) / float64(total)
	return out
}

// PlayerRating is the training pipeline's per-player aggregate record.
// Truncated and rebuilt from MatchSegment/per-match breakdowns at each
// training pass. Mutable per-simulation fields (sim_yellow, sim_red) are
// NOT stored here — they live in a parallel per-worker structure so the
// base record stays immutable and safe to share read-only across workers.
type PlayerRating struct {
	PlayerID            string
	CurrentTeam         int
	MinutesPlayed       int
	Headers             int
	Footers             int
	KeyPasses           int
	NonAssistedFooters  int
	Hxg                 float64
	Fxg                 float64
	KpHxg               float64
	KpFxg               float64
	Hpsxg               float64
	Fpsxg               float64
	GkPsxg              float64
	GkGa                float64
	FoulsCommitted      int
	FoulsDrawn          int
	YellowCards         int
	RedCards            int
	OffShCoef           float64
	DefShCoef           float64
	OffHeadersCoef      float64
	DefHeadersCoef      float64
	OffFootersCoef      float64
	DefFootersCoef      float64
	OffHxgCoef          float64
	DefHxgCoef          float64
	OffFxgCoef          float64
	DefFxgCoef          float64
	InStatus            StatusCounts
	OutStatus           StatusCounts
	SubIn               []int
	SubOut              []int
	Position            string
}

// safeRatio is num/den, clamped to 0 when den is 0 (Design Notes Open
// Question); the shooter/assister ability and shot-quality ratios below
// use it, and GkAbility applies the same zero-denominator clamp itself.
func safeRatio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// HeaderShooterAbility returns hpsxg/hxg, clamped to 0 when hxg is 0.
func (p PlayerRating) HeaderShooterAbility() float64 { return safeRatio(p.Hpsxg, p.Hxg) }

// FooterShooterAbility returns fpsxg/fxg, clamped to 0 when fxg is 0.
func (p PlayerRating) FooterShooterAbility() float64 { return safeRatio(p.Fpsxg, p.Fxg) }

// GkAbility returns 1 - gk_ga/gk_psxg, clamped to 0 when gk_psxg is 0.
func (p PlayerRating) GkAbility() float64 {
	if p.GkPsxg == 0 {
		return 0
	}
	return 1 - p.GkGa/p.GkPsxg
}

// AssisterHeaderAbility returns kp_hxg/hxg: how much a player's key
// passes raise header shot quality above its base xG, clamped to 0 when
// hxg is 0.
func (p PlayerRating) AssisterHeaderAbility() float64 { return safeRatio(p.KpHxg, p.Hxg) }

// AssisterFooterAbility returns kp_fxg/fxg, the footed analog.
func (p PlayerRating) AssisterFooterAbility() float64 { return safeRatio(p.KpFxg, p.Fxg) }

// HeaderShotQuality returns hxg/headers: average xG per header taken,
// clamped to 0 when headers is 0.
func (p PlayerRating) HeaderShotQuality() float64 { return safeRatio(p.Hxg, float64(p.Headers)) }

// FooterShotQuality returns fxg/footers, the footed analog.
func (p PlayerRating) FooterShotQuality() float64 { return safeRatio(p.Fxg, float64(p.Footers)) }

// AssisterHeaderShotQuality returns kp_hxg/key_passes: average header xG
// per key pass played, clamped to 0 when key_passes is 0.
func (p PlayerRating) AssisterHeaderShotQuality() float64 {
	return safeRatio(p.KpHxg, float64(p.KeyPasses))
}

// AssisterFooterShotQuality returns kp_fxg/key_passes, the footed analog.
func (p PlayerRating) AssisterFooterShotQuality() float64 {
	return safeRatio(p.KpFxg, float64(p.KeyPasses))
}

// RefereeStats aggregates per-referee disciplinary history.
type RefereeStats struct {
	RefereeName   string
	Fouls         float64
	YellowCards   float64
	RedCards      float64
	MatchesPlayed int
}

// DefaultRefereeStats is used when a referee has no recorded history
// (core.py get_referee_stats fallback).
var DefaultRefereeStats = RefereeStats{
	Fouls:         26.5,
	YellowCards:   3.8,
	RedCards:      0.14,
	MatchesPlayed: 1,
}

// PerMatch divides the cross-match Fouls/YellowCards/RedCards totals by
// MatchesPlayed (floored at 1), turning the raw aggregate this struct
// stores into the per-match rates §4.6 step 2 expects.
func (r RefereeStats) PerMatch() RefereeStats {
	rf := r.MatchesPlayed
	if rf < 1 {
		rf = 1
	}
	r.Fouls /= float64(rf)
	r.YellowCards /= float64(rf)
	r.RedCards /= float64(rf)
	return r
}

// CardType is the discipline outcome of a sampled foul.
type CardType string

const (
	CardYellow CardType = "YC"
	CardRed    CardType = "RC"
	CardNone   CardType = "NONE"
)

// SimShot is produced only by SimulationDriver; simulation_data for a
// schedule is replaced wholesale on each run.
type SimShot struct {
	SimID      string
	ScheduleID int
	Minute     int
	ShooterID  string
	TeamID     int
	Outcome    int
	BodyPart   ShotType
	AssisterID *string
}

// SimCard is the disciplinary counterpart to SimShot.
type SimCard struct {
	SimID      string
	ScheduleID int
	Minute     int
	PlayerID   string
	TeamID     int
	CardType   CardType
}
