package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/venomio/vpfm/internal/domain"
)

// SQLStore is the Postgres-backed Store, grounded on the column layout of
// §6 (league_data/team_data/match_info/match_detail/match_breakdown/
// shots_data/players_data/referee_data/simulation_data) translated from the
// original MySQL INSERT IGNORE / ON DUPLICATE KEY idioms to Postgres
// ON CONFLICT clauses.
type SQLStore struct {
	pool *pgxpool.Pool
}

// Open connects a pgxpool.Pool to the given DSN and wraps it as a Store.
func Open(ctx context.Context, dsn string) (*SQLStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &SQLStore{pool: pool}, nil
}

// Close releases the underlying connection pool.
func (s *SQLStore) Close() { s.pool.Close() }

func (s *SQLStore) ActiveLeagues(ctx context.Context) ([]domain.League, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT league_id, league_name, fbref_fixtures_url, last_updated_date, is_active
		FROM league_data WHERE is_active = true ORDER BY league_id`)
	if err != nil {
		return nil, fmt.Errorf("active leagues: %w", err)
	}
	defer rows.Close()

	var out []domain.League
	for rows.Next() {
		var l domain.League
		if err := rows.Scan(&l.LeagueID, &l.Name, &l.FixturesSource, &l.LastUpdatedDate, &l.Active); err != nil {
			return nil, fmt.Errorf("scan league: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *SQLStore) LeagueByID(ctx context.Context, leagueID int) (domain.League, error) {
	var l domain.League
	err := s.pool.QueryRow(ctx, `
		SELECT league_id, league_name, fbref_fixtures_url, last_updated_date, is_active
		FROM league_data WHERE league_id = $1`, leagueID,
	).Scan(&l.LeagueID, &l.Name, &l.FixturesSource, &l.LastUpdatedDate, &l.Active)
	if err != nil {
		return domain.League{}, fmt.Errorf("league by id %d: %w", leagueID, err)
	}
	return l, nil
}

func (s *SQLStore) TeamsByLeague(ctx context.Context, leagueID int) ([]domain.Team, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT team_id, team_name, team_elevation, team_coordinates, team_fixtures_url, league_id
		FROM team_data WHERE league_id = $1 ORDER BY team_id`, leagueID)
	if err != nil {
		return nil, fmt.Errorf("teams by league: %w", err)
	}
	defer rows.Close()

	var out []domain.Team
	for rows.Next() {
		var t domain.Team
		var coords string
		if err := rows.Scan(&t.TeamID, &t.Name, &t.ElevationM, &coords, &t.FixturesSource, &t.LeagueID); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		if _, err := fmt.Sscanf(coords, "%f,%f", &t.Lat, &t.Lon); err != nil {
			return nil, fmt.Errorf("parse coordinates %q: %w", coords, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLStore) TeamByID(ctx context.Context, teamID int) (domain.Team, error) {
	var t domain.Team
	var coords string
	err := s.pool.QueryRow(ctx, `
		SELECT team_id, team_name, team_elevation, team_coordinates, team_fixtures_url, league_id
		FROM team_data WHERE team_id = $1`, teamID,
	).Scan(&t.TeamID, &t.Name, &t.ElevationM, &coords, &t.FixturesSource, &t.LeagueID)
	if err != nil {
		return domain.Team{}, fmt.Errorf("team by id %d: %w", teamID, err)
	}
	fmt.Sscanf(coords, "%f,%f", &t.Lat, &t.Lon)
	return t, nil
}

func (s *SQLStore) UpsertTeam(ctx context.Context, t domain.Team) error {
	coords := fmt.Sprintf("%f,%f", t.Lat, t.Lon)
	_, err := s.pool.Exec(ctx, `
		INSERT INTO team_data (team_id, team_name, team_elevation, team_coordinates, team_fixtures_url, league_id)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (league_id, team_name) DO UPDATE SET
			team_elevation = EXCLUDED.team_elevation,
			team_coordinates = EXCLUDED.team_coordinates,
			team_fixtures_url = EXCLUDED.team_fixtures_url`,
		t.TeamID, t.Name, t.ElevationM, coords, t.FixturesSource, t.LeagueID)
	if err != nil {
		return fmt.Errorf("upsert team %d: %w", t.TeamID, err)
	}
	return nil
}

func (s *SQLStore) MatchesByLeague(ctx context.Context, leagueID int) ([]domain.Match, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT match_id, home_team_id, away_team_id, date, league_id, referee_name,
		       home_elevation_dif, away_elevation_dif, away_travel, home_rest_days,
		       away_rest_days, temperature_c, is_raining
		FROM match_info WHERE league_id = $1 ORDER BY date`, leagueID)
	if err != nil {
		return nil, fmt.Errorf("matches by league: %w", err)
	}
	defer rows.Close()

	var out []domain.Match
	for rows.Next() {
		var m domain.Match
		if err := rows.Scan(&m.MatchID, &m.HomeTeamID, &m.AwayTeamID, &m.Kickoff, &m.LeagueID,
			&m.RefereeName, &m.HomeElevationDif, &m.AwayElevationDif, &m.AwayTravelKm,
			&m.HomeRestDays, &m.AwayRestDays, &m.TemperatureC, &m.IsRaining); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLStore) MatchByID(ctx context.Context, matchID int) (domain.Match, error) {
	var m domain.Match
	err := s.pool.QueryRow(ctx, `
		SELECT match_id, home_team_id, away_team_id, date, league_id, referee_name,
		       home_elevation_dif, away_elevation_dif, away_travel, home_rest_days,
		       away_rest_days, temperature_c, is_raining
		FROM match_info WHERE match_id = $1`, matchID,
	).Scan(&m.MatchID, &m.HomeTeamID, &m.AwayTeamID, &m.Kickoff, &m.LeagueID,
		&m.RefereeName, &m.HomeElevationDif, &m.AwayElevationDif, &m.AwayTravelKm,
		&m.HomeRestDays, &m.AwayRestDays, &m.TemperatureC, &m.IsRaining)
	if err != nil {
		return domain.Match{}, fmt.Errorf("match by id %d: %w", matchID, err)
	}
	return m, nil
}

func (s *SQLStore) SegmentsByLeague(ctx context.Context, leagueID int) ([]domain.MatchSegment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT d.detail_id, d.match_id, d."teamA_players", d."teamB_players",
		       d."teamA_headers", d."teamA_footers", d."teamA_hxg", d."teamA_fxg",
		       d."teamB_headers", d."teamB_footers", d."teamB_hxg", d."teamB_fxg",
		       d.minutes_played, d.match_state, d.match_segment, d.player_dif,
		       d."teamA_pdras", d."teamB_pdras"
		FROM match_detail d JOIN match_info m ON m.match_id = d.match_id
		WHERE m.league_id = $1`, leagueID)
	if err != nil {
		return nil, fmt.Errorf("segments by league: %w", err)
	}
	defer rows.Close()
	return scanSegments(rows)
}

func (s *SQLStore) SegmentsByMatch(ctx context.Context, matchID int) ([]domain.MatchSegment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT detail_id, match_id, "teamA_players", "teamB_players",
		       "teamA_headers", "teamA_footers", "teamA_hxg", "teamA_fxg",
		       "teamB_headers", "teamB_footers", "teamB_hxg", "teamB_fxg",
		       minutes_played, match_state, match_segment, player_dif,
		       "teamA_pdras", "teamB_pdras"
		FROM match_detail WHERE match_id = $1`, matchID)
	if err != nil {
		return nil, fmt.Errorf("segments by match: %w", err)
	}
	defer rows.Close()
	return scanSegments(rows)
}

func scanSegments(rows pgx.Rows) ([]domain.MatchSegment, error) {
	var out []domain.MatchSegment
	for rows.Next() {
		var seg domain.MatchSegment
		var aJSON, bJSON []byte
		if err := rows.Scan(&seg.DetailID, &seg.MatchID, &aJSON, &bJSON,
			&seg.HeadersA, &seg.FootersA, &seg.HxgA, &seg.FxgA,
			&seg.HeadersB, &seg.FootersB, &seg.HxgB, &seg.FxgB,
			&seg.MinutesPlayed, &seg.MatchState, &seg.MatchSegment, &seg.PlayerDif,
			&seg.PdrasA, &seg.PdrasB); err != nil {
			return nil, fmt.Errorf("scan segment: %w", err)
		}
		if err := json.Unmarshal(aJSON, &seg.TeamAPlayers); err != nil {
			return nil, fmt.Errorf("unmarshal teamA_players: %w", err)
		}
		if err := json.Unmarshal(bJSON, &seg.TeamBPlayers); err != nil {
			return nil, fmt.Errorf("unmarshal teamB_players: %w", err)
		}
		out = append(out, seg)
	}
	return out, rows.Err()
}

func (s *SQLStore) ShotsByLeague(ctx context.Context, leagueID int) ([]domain.Shot, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT s.shot_id, s.match_id, s.xg, s.psxg, s.outcome, s.shooter_id, s.assister_id,
		       s.team_id, s."GK_id", s.off_players, s.def_players, s.match_state, s.player_dif,
		       s.shot_type, s."total_PLSQA", s."shooter_SQ", s."assister_SQ", s."RSQ",
		       s.shooter_A, s."GK_A"
		FROM shots_data s JOIN match_info m ON m.match_id = s.match_id
		WHERE m.league_id = $1`, leagueID)
	if err != nil {
		return nil, fmt.Errorf("shots by league: %w", err)
	}
	defer rows.Close()
	return scanShots(rows)
}

func (s *SQLStore) ShotsWithPlsqa(ctx context.Context) ([]domain.Shot, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT shot_id, match_id, xg, psxg, outcome, shooter_id, assister_id,
		       team_id, "GK_id", off_players, def_players, match_state, player_dif,
		       shot_type, "total_PLSQA", "shooter_SQ", "assister_SQ", "RSQ",
		       shooter_A, "GK_A"
		FROM shots_data WHERE "total_PLSQA" IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("shots with plsqa: %w", err)
	}
	defer rows.Close()
	return scanShots(rows)
}

func scanShots(rows pgx.Rows) ([]domain.Shot, error) {
	var out []domain.Shot
	for rows.Next() {
		var sh domain.Shot
		var offJSON, defJSON []byte
		if err := rows.Scan(&sh.ShotID, &sh.MatchID, &sh.Xg, &sh.Psxg, &sh.Outcome, &sh.ShooterID,
			&sh.AssisterID, &sh.TeamID, &sh.GkID, &offJSON, &defJSON, &sh.MatchState, &sh.PlayerDif,
			&sh.ShotType, &sh.TotalPlsqa, &sh.ShooterSq, &sh.AssisterSq, &sh.Rsq,
			&sh.ShooterA, &sh.GkA); err != nil {
			return nil, fmt.Errorf("scan shot: %w", err)
		}
		if err := json.Unmarshal(offJSON, &sh.OffPlayers); err != nil {
			return nil, fmt.Errorf("unmarshal off_players: %w", err)
		}
		if err := json.Unmarshal(defJSON, &sh.DefPlayers); err != nil {
			return nil, fmt.Errorf("unmarshal def_players: %w", err)
		}
		out = append(out, sh)
	}
	return out, rows.Err()
}

func (s *SQLStore) LastGameDate(ctx context.Context, teamID int, before time.Time) (time.Time, bool, error) {
	var t time.Time
	err := s.pool.QueryRow(ctx, `
		SELECT MAX(date) FROM match_info
		WHERE (home_team_id = $1 OR away_team_id = $1) AND date < $2`, teamID, before,
	).Scan(&t)
	if err != nil {
		if err == pgx.ErrNoRows {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("last game date: %w", err)
	}
	if t.IsZero() {
		return time.Time{}, false, nil
	}
	return t, true, nil
}

func (s *SQLStore) TruncatePlayers(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `TRUNCATE TABLE players_data`)
	if err != nil {
		return fmt.Errorf("truncate players_data: %w", err)
	}
	return nil
}

func (s *SQLStore) UpsertPlayerRating(ctx context.Context, p domain.PlayerRating) error {
	subIn, _ := json.Marshal(p.SubIn)
	subOut, _ := json.Marshal(p.SubOut)
	inStatus, _ := json.Marshal(p.InStatus)
	outStatus, _ := json.Marshal(p.OutStatus)

	_, err := s.pool.Exec(ctx, `
		INSERT INTO players_data (
			player_id, current_team, minutes_played, headers, footers, key_passes,
			non_assisted_footers, hxg, fxg, kp_hxg, kp_fxg, hpsxg, fpsxg, gk_psxg, gk_ga,
			fouls_committed, fouls_drawn, yellow_cards, red_cards,
			off_sh_coef, def_sh_coef, off_headers_coef, def_headers_coef,
			off_footers_coef, def_footers_coef, off_hxg_coef, def_hxg_coef,
			off_fxg_coef, def_fxg_coef, in_status, out_status, sub_in, sub_out, position
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,
			$20,$21,$22,$23,$24,$25,$26,$27,$28,$29,$30,$31,$32,$33,$34
		)
		ON CONFLICT (player_id) DO UPDATE SET
			current_team = EXCLUDED.current_team,
			minutes_played = EXCLUDED.minutes_played,
			headers = EXCLUDED.headers,
			footers = EXCLUDED.footers,
			key_passes = EXCLUDED.key_passes,
			non_assisted_footers = EXCLUDED.non_assisted_footers,
			hxg = EXCLUDED.hxg, fxg = EXCLUDED.fxg,
			kp_hxg = EXCLUDED.kp_hxg, kp_fxg = EXCLUDED.kp_fxg,
			hpsxg = EXCLUDED.hpsxg, fpsxg = EXCLUDED.fpsxg,
			gk_psxg = EXCLUDED.gk_psxg, gk_ga = EXCLUDED.gk_ga,
			fouls_committed = EXCLUDED.fouls_committed, fouls_drawn = EXCLUDED.fouls_drawn,
			yellow_cards = EXCLUDED.yellow_cards, red_cards = EXCLUDED.red_cards,
			off_sh_coef = EXCLUDED.off_sh_coef, def_sh_coef = EXCLUDED.def_sh_coef,
			off_headers_coef = EXCLUDED.off_headers_coef, def_headers_coef = EXCLUDED.def_headers_coef,
			off_footers_coef = EXCLUDED.off_footers_coef, def_footers_coef = EXCLUDED.def_footers_coef,
			off_hxg_coef = EXCLUDED.off_hxg_coef, def_hxg_coef = EXCLUDED.def_hxg_coef,
			off_fxg_coef = EXCLUDED.off_fxg_coef, def_fxg_coef = EXCLUDED.def_fxg_coef,
			in_status = EXCLUDED.in_status, out_status = EXCLUDED.out_status,
			sub_in = EXCLUDED.sub_in, sub_out = EXCLUDED.sub_out, position = EXCLUDED.position`,
		p.PlayerID, p.CurrentTeam, p.MinutesPlayed, p.Headers, p.Footers, p.KeyPasses,
		p.NonAssistedFooters, p.Hxg, p.Fxg, p.KpHxg, p.KpFxg, p.Hpsxg, p.Fpsxg, p.GkPsxg, p.GkGa,
		p.FoulsCommitted, p.FoulsDrawn, p.YellowCards, p.RedCards,
		p.OffShCoef, p.DefShCoef, p.OffHeadersCoef, p.DefHeadersCoef,
		p.OffFootersCoef, p.DefFootersCoef, p.OffHxgCoef, p.DefHxgCoef,
		p.OffFxgCoef, p.DefFxgCoef, inStatus, outStatus, subIn, subOut, p.Position)
	if err != nil {
		return fmt.Errorf("upsert player %s: %w", p.PlayerID, err)
	}
	return nil
}

func (s *SQLStore) PlayerRatingsByIDs(ctx context.Context, ids []string) (map[string]domain.PlayerRating, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT player_id, current_team, minutes_played, headers, footers, key_passes,
		       non_assisted_footers, hxg, fxg, kp_hxg, kp_fxg, hpsxg, fpsxg, gk_psxg, gk_ga,
		       fouls_committed, fouls_drawn, yellow_cards, red_cards,
		       off_sh_coef, def_sh_coef, off_headers_coef, def_headers_coef,
		       off_footers_coef, def_footers_coef, off_hxg_coef, def_hxg_coef,
		       off_fxg_coef, def_fxg_coef, in_status, out_status, sub_in, sub_out, position
		FROM players_data WHERE player_id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("player ratings by ids: %w", err)
	}
	defer rows.Close()

	out := map[string]domain.PlayerRating{}
	for rows.Next() {
		p, err := scanPlayerRating(rows)
		if err != nil {
			return nil, err
		}
		out[p.PlayerID] = p
	}
	return out, rows.Err()
}

func (s *SQLStore) PlayerRatingsByTeam(ctx context.Context, teamID int) ([]domain.PlayerRating, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT player_id, current_team, minutes_played, headers, footers, key_passes,
		       non_assisted_footers, hxg, fxg, kp_hxg, kp_fxg, hpsxg, fpsxg, gk_psxg, gk_ga,
		       fouls_committed, fouls_drawn, yellow_cards, red_cards,
		       off_sh_coef, def_sh_coef, off_headers_coef, def_headers_coef,
		       off_footers_coef, def_footers_coef, off_hxg_coef, def_hxg_coef,
		       off_fxg_coef, def_fxg_coef, in_status, out_status, sub_in, sub_out, position
		FROM players_data WHERE current_team = $1`, teamID)
	if err != nil {
		return nil, fmt.Errorf("player ratings by team: %w", err)
	}
	defer rows.Close()

	var out []domain.PlayerRating
	for rows.Next() {
		p, err := scanPlayerRating(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// BaseRatingsByLeague rebuilds each player's non-coefficient PlayerRating
// fields by summing match_breakdown across every match in the league:
// numeric aggregates SUM directly, in_status/out_status roll up into a
// frequency count per status, and sub_in/sub_out collect into the
// minute lists PlayerRating carries.
func (s *SQLStore) BaseRatingsByLeague(ctx context.Context, leagueID int) ([]domain.PlayerRating, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT
			b.player_id,
			MAX(b.current_team) AS current_team,
			SUM(b.minutes_played) AS minutes_played,
			SUM(b.headers) AS headers,
			SUM(b.footers) AS footers,
			SUM(b.key_passes) AS key_passes,
			SUM(b.non_assisted_footers) AS non_assisted_footers,
			SUM(b.hxg) AS hxg,
			SUM(b.fxg) AS fxg,
			SUM(b.kp_hxg) AS kp_hxg,
			SUM(b.kp_fxg) AS kp_fxg,
			SUM(b.hpsxg) AS hpsxg,
			SUM(b.fpsxg) AS fpsxg,
			SUM(b.gk_psxg) AS gk_psxg,
			SUM(b.gk_ga) AS gk_ga,
			SUM(b.fouls_committed) AS fouls_committed,
			SUM(b.fouls_drawn) AS fouls_drawn,
			SUM(b.yellow_cards) AS yellow_cards,
			SUM(b.red_cards) AS red_cards,
			COUNT(*) FILTER (WHERE b.in_status = 'Leading') AS in_leading,
			COUNT(*) FILTER (WHERE b.in_status = 'Level') AS in_level,
			COUNT(*) FILTER (WHERE b.in_status = 'Trailing') AS in_trailing,
			COUNT(*) FILTER (WHERE b.out_status = 'Leading') AS out_leading,
			COUNT(*) FILTER (WHERE b.out_status = 'Level') AS out_level,
			COUNT(*) FILTER (WHERE b.out_status = 'Trailing') AS out_trailing,
			COALESCE(array_agg(b.sub_in) FILTER (WHERE b.sub_in IS NOT NULL), '{}') AS sub_in,
			COALESCE(array_agg(b.sub_out) FILTER (WHERE b.sub_out IS NOT NULL), '{}') AS sub_out
		FROM match_breakdown b
		JOIN match_info m ON m.match_id = b.match_id
		WHERE m.league_id = $1
		GROUP BY b.player_id`, leagueID)
	if err != nil {
		return nil, fmt.Errorf("base ratings by league %d: %w", leagueID, err)
	}
	defer rows.Close()

	var out []domain.PlayerRating
	for rows.Next() {
		var p domain.PlayerRating
		var inLeading, inLevel, inTrailing, outLeading, outLevel, outTrailing int
		if err := rows.Scan(
			&p.PlayerID, &p.CurrentTeam, &p.MinutesPlayed, &p.Headers, &p.Footers, &p.KeyPasses,
			&p.NonAssistedFooters, &p.Hxg, &p.Fxg, &p.KpHxg, &p.KpFxg, &p.Hpsxg, &p.Fpsxg, &p.GkPsxg, &p.GkGa,
			&p.FoulsCommitted, &p.FoulsDrawn, &p.YellowCards, &p.RedCards,
			&inLeading, &inLevel, &inTrailing, &outLeading, &outLevel, &outTrailing,
			&p.SubIn, &p.SubOut,
		); err != nil {
			return nil, fmt.Errorf("scan base rating: %w", err)
		}
		p.InStatus = domain.StatusCounts{Leading: inLeading, Level: inLevel, Trailing: inTrailing}
		p.OutStatus = domain.StatusCounts{Leading: outLeading, Level: outLevel, Trailing: outTrailing}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPlayerRating(rows pgx.Rows) (domain.PlayerRating, error) {
	var p domain.PlayerRating
	var inJSON, outJSON, subInJSON, subOutJSON []byte
	err := rows.Scan(&p.PlayerID, &p.CurrentTeam, &p.MinutesPlayed, &p.Headers, &p.Footers, &p.KeyPasses,
		&p.NonAssistedFooters, &p.Hxg, &p.Fxg, &p.KpHxg, &p.KpFxg, &p.Hpsxg, &p.Fpsxg, &p.GkPsxg, &p.GkGa,
		&p.FoulsCommitted, &p.FoulsDrawn, &p.YellowCards, &p.RedCards,
		&p.OffShCoef, &p.DefShCoef, &p.OffHeadersCoef, &p.DefHeadersCoef,
		&p.OffFootersCoef, &p.DefFootersCoef, &p.OffHxgCoef, &p.DefHxgCoef,
		&p.OffFxgCoef, &p.DefFxgCoef, &inJSON, &outJSON, &subInJSON, &subOutJSON, &p.Position)
	if err != nil {
		return domain.PlayerRating{}, fmt.Errorf("scan player rating: %w", err)
	}
	json.Unmarshal(inJSON, &p.InStatus)
	json.Unmarshal(outJSON, &p.OutStatus)
	json.Unmarshal(subInJSON, &p.SubIn)
	json.Unmarshal(subOutJSON, &p.SubOut)
	return p, nil
}

func (s *SQLStore) RefereeStatsByName(ctx context.Context, name string) (domain.RefereeStats, bool, error) {
	var r domain.RefereeStats
	err := s.pool.QueryRow(ctx, `
		SELECT referee_name, fouls, yellow_cards, red_cards, matches_played
		FROM referee_data WHERE referee_name = $1`, name,
	).Scan(&r.RefereeName, &r.Fouls, &r.YellowCards, &r.RedCards, &r.MatchesPlayed)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.RefereeStats{}, false, nil
		}
		return domain.RefereeStats{}, false, fmt.Errorf("referee stats %q: %w", name, err)
	}
	return r, true, nil
}

func (s *SQLStore) UpsertRefereeStats(ctx context.Context, r domain.RefereeStats) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO referee_data (referee_name, fouls, yellow_cards, red_cards, matches_played)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (referee_name) DO UPDATE SET
			fouls = EXCLUDED.fouls,
			yellow_cards = EXCLUDED.yellow_cards,
			red_cards = EXCLUDED.red_cards,
			matches_played = EXCLUDED.matches_played`,
		r.RefereeName, r.Fouls, r.YellowCards, r.RedCards, r.MatchesPlayed)
	if err != nil {
		return fmt.Errorf("upsert referee %q: %w", r.RefereeName, err)
	}
	return nil
}

// ReplaceSimulationData deletes and bulk-inserts within a single
// transaction, per §4.7/§7: a failed aggregation never leaves partial
// simulation_data for a schedule.
func (s *SQLStore) ReplaceSimulationData(ctx context.Context, scheduleID int, shots []domain.SimShot, cards []domain.SimCard, batchSize int) error {
	if batchSize <= 0 {
		batchSize = 200
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM simulation_data WHERE schedule_id = $1`, scheduleID); err != nil {
		return fmt.Errorf("delete simulation_data: %w", err)
	}

	for i := 0; i < len(shots); i += batchSize {
		end := i + batchSize
		if end > len(shots) {
			end = len(shots)
		}
		batch := &pgx.Batch{}
		for _, sh := range shots[i:end] {
			batch.Queue(`
				INSERT INTO simulation_data (sim_id, schedule_id, minute, shooter, squad, outcome, body_part, assister)
				VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
				sh.SimID, sh.ScheduleID, sh.Minute, sh.ShooterID, sh.TeamID, sh.Outcome, sh.BodyPart, sh.AssisterID)
		}
		br := tx.SendBatch(ctx, batch)
		if err := br.Close(); err != nil {
			return fmt.Errorf("insert shot batch at %d: %w", i, err)
		}
	}

	for i := 0; i < len(cards); i += batchSize {
		end := i + batchSize
		if end > len(cards) {
			end = len(cards)
		}
		batch := &pgx.Batch{}
		for _, c := range cards[i:end] {
			batch.Queue(`
				INSERT INTO simulation_cards (sim_id, schedule_id, minute, player_id, squad, card_type)
				VALUES ($1,$2,$3,$4,$5,$6)`,
				c.SimID, c.ScheduleID, c.Minute, c.PlayerID, c.TeamID, c.CardType)
		}
		br := tx.SendBatch(ctx, batch)
		if err := br.Close(); err != nil {
			return fmt.Errorf("insert card batch at %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

var _ Store = (*SQLStore)(nil)
