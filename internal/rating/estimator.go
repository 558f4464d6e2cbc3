package rating

import (
	"context"
	"fmt"
	"sort"

	"github.com/venomio/vpfm/internal/domain"
	"github.com/venomio/vpfm/internal/store"
	"github.com/venomio/vpfm/internal/vpferrors"
)

// ShotType selects which half of MatchSegment/Shot the estimator reads.
type ShotType int

const (
	Headers ShotType = iota
	Footers
)

// LeagueCoefficients holds the fitted per-player coefficients for one
// league and one shot type.
type LeagueCoefficients struct {
	LeagueID    int
	ShotType    ShotType
	OffShot     map[string]float64 // shots/minute coefficient
	DefShot     map[string]float64
	OffXg       map[string]float64 // xg/shot coefficient
	DefXg       map[string]float64
}

// Estimator fits RatingEstimator's ridge regressions against a Store.
type Estimator struct {
	Store store.Store
	Alpha float64
}

// NewEstimator returns an Estimator with the §4.1 default alpha.
func NewEstimator(s store.Store, alpha float64) *Estimator {
	if alpha <= 0 {
		alpha = 1.0
	}
	return &Estimator{Store: s, Alpha: alpha}
}

// playerIndex assigns a stable index to every player seen in segs.
func playerIndex(segs []domain.MatchSegment) (map[string]int, []string) {
	seen := map[string]struct{}{}
	for _, s := range segs {
		for _, p := range s.TeamAPlayers {
			seen[p] = struct{}{}
		}
		for _, p := range s.TeamBPlayers {
			seen[p] = struct{}{}
		}
	}
	ordered := make([]string, 0, len(seen))
	for p := range seen {
		ordered = append(ordered, p)
	}
	sort.Strings(ordered)

	idx := make(map[string]int, len(ordered))
	for i, p := range ordered {
		idx[p] = i
	}
	return idx, ordered
}

// buildShotRows constructs the shot-count design rows (§4.1, first fit) for
// one shot type: two rows per eligible segment, A-attacks-B and
// B-attacks-A.
func buildShotRows(segs []domain.MatchSegment, idx map[string]int, st ShotType) []sparseRow {
	var rows []sparseRow
	n := len(idx)
	for _, s := range segs {
		if s.MinutesPlayed <= 0 {
			continue
		}
		m := float64(s.MinutesPlayed)

		var countA, countB int
		switch st {
		case Headers:
			countA, countB = s.HeadersA, s.HeadersB
		default:
			countA, countB = s.FootersA, s.FootersB
		}

		rows = append(rows, buildRow(idx, n, s.TeamAPlayers, s.TeamBPlayers, float64(countA)/m, m))
		rows = append(rows, buildRow(idx, n, s.TeamBPlayers, s.TeamAPlayers, float64(countB)/m, m))
	}
	return rows
}

// buildXgRows constructs the xG-per-shot design rows (§4.1, second fit),
// restricted to rows where the attacking team's shot count > 0.
func buildXgRows(segs []domain.MatchSegment, idx map[string]int, st ShotType) []sparseRow {
	var rows []sparseRow
	n := len(idx)
	for _, s := range segs {
		if s.MinutesPlayed <= 0 {
			continue
		}

		var countA, countB int
		var xgA, xgB float64
		switch st {
		case Headers:
			countA, countB = s.HeadersA, s.HeadersB
			xgA, xgB = s.HxgA, s.HxgB
		default:
			countA, countB = s.FootersA, s.FootersB
			xgA, xgB = s.FxgA, s.FxgB
		}

		if countA > 0 {
			rows = append(rows, buildRow(idx, n, s.TeamAPlayers, s.TeamBPlayers, xgA/float64(countA), float64(countA)))
		}
		if countB > 0 {
			rows = append(rows, buildRow(idx, n, s.TeamBPlayers, s.TeamAPlayers, xgB/float64(countB), float64(countB)))
		}
	}
	return rows
}

// buildRow emits a single sparse row: +1 at offensive indices of
// attackers, -1 at defensive indices of defenders (second half of the
// 2|P| feature space).
func buildRow(idx map[string]int, n int, attackers, defenders []string, target, weight float64) sparseRow {
	row := sparseRow{target: target, weight: weight}
	for _, p := range attackers {
		row.idx = append(row.idx, idx[p])
		row.val = append(row.val, 1)
	}
	for _, p := range defenders {
		row.idx = append(row.idx, n+idx[p])
		row.val = append(row.val, -1)
	}
	return row
}

// FitLeague runs both ridge fits (shot count, xG per shot) for one
// league and shot type. Per §4.1, an empty design matrix for the league
// is a Modeling-kind failure: callers should log and skip, not abort.
func (e *Estimator) FitLeague(ctx context.Context, leagueID int, st ShotType) (LeagueCoefficients, error) {
	segs, err := e.Store.SegmentsByLeague(ctx, leagueID)
	if err != nil {
		return LeagueCoefficients{}, fmt.Errorf("segments by league %d: %w", leagueID, err)
	}

	idx, players := playerIndex(segs)
	if len(players) == 0 {
		return LeagueCoefficients{}, vpferrors.New(vpferrors.Modeling, "rating.FitLeague",
			fmt.Errorf("league %d has no players in its segments", leagueID))
	}
	n := len(players)

	shotRows := buildShotRows(segs, idx, st)
	shotBeta, err := ridgeSolve(shotRows, 2*n, e.Alpha, 0, 1e-8)
	if err != nil {
		return LeagueCoefficients{}, err
	}

	xgRows := buildXgRows(segs, idx, st)
	xgBeta, err := ridgeSolve(xgRows, 2*n, e.Alpha, 0, 1e-8)
	if err != nil {
		return LeagueCoefficients{}, err
	}

	coef := LeagueCoefficients{
		LeagueID: leagueID,
		ShotType: st,
		OffShot:  map[string]float64{},
		DefShot:  map[string]float64{},
		OffXg:    map[string]float64{},
		DefXg:    map[string]float64{},
	}
	for p, i := range idx {
		coef.OffShot[p] = shotBeta[i]
		coef.DefShot[p] = shotBeta[n+i]
		coef.OffXg[p] = xgBeta[i]
		coef.DefXg[p] = xgBeta[n+i]
	}
	return coef, nil
}

// FitActiveLeagues runs FitLeague for both shot types across every
// active league, skipping (not aborting on) leagues that yield an empty
// design matrix.
func (e *Estimator) FitActiveLeagues(ctx context.Context) (map[int][2]LeagueCoefficients, []error) {
	leagues, err := e.Store.ActiveLeagues(ctx)
	if err != nil {
		return nil, []error{fmt.Errorf("active leagues: %w", err)}
	}

	out := map[int][2]LeagueCoefficients{}
	var skipped []error
	for _, l := range leagues {
		headers, err := e.FitLeague(ctx, l.LeagueID, Headers)
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		footers, err := e.FitLeague(ctx, l.LeagueID, Footers)
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		out[l.LeagueID] = [2]LeagueCoefficients{headers, footers}
	}
	return out, skipped
}

// AggregatePlayerRatings merges headers/footers coefficients into the
// combined off_sh_coef/def_sh_coef fields on a PlayerRating.
func AggregatePlayerRatings(ratings map[string]*domain.PlayerRating, headers, footers LeagueCoefficients) {
	for p, r := range ratings {
		r.OffHeadersCoef = headers.OffShot[p]
		r.DefHeadersCoef = headers.DefShot[p]
		r.OffFootersCoef = footers.OffShot[p]
		r.DefFootersCoef = footers.DefShot[p]
		r.OffHxgCoef = headers.OffXg[p]
		r.DefHxgCoef = headers.DefXg[p]
		r.OffFxgCoef = footers.OffXg[p]
		r.DefFxgCoef = footers.DefXg[p]
		r.OffShCoef = r.OffHeadersCoef + r.OffFootersCoef
		r.DefShCoef = r.DefHeadersCoef + r.DefFootersCoef
	}
}
