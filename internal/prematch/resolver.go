// Package prematch implements PreMatchStateBuilder (§4.3): it turns a
// fixture's two teams and kickoff time into the context fields stored on
// domain.Match, delegating network lookups to the ContextResolver
// boundary (§6) so this package stays pure-HTTP-free and testable with
// stub providers.
package prematch

import (
	"context"
	"fmt"
	"time"

	"github.com/venomio/vpfm/internal/domain"
	"github.com/venomio/vpfm/internal/geo"
	"github.com/venomio/vpfm/internal/store"
	"github.com/venomio/vpfm/internal/vpferrors"
)

// Geocoder resolves a free-text query to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (lat, lon float64, err error)
}

// ElevationProvider resolves coordinates to meters above sea level.
type ElevationProvider interface {
	Elevation(ctx context.Context, lat, lon float64) (meters float64, err error)
}

// WeatherSample is one hourly reading.
type WeatherSample struct {
	At            time.Time
	TemperatureC  float64
	PrecipitationMM float64
}

// WeatherProvider resolves a venue/date to hourly temperature and
// precipitation arrays.
type WeatherProvider interface {
	HourlyWeather(ctx context.Context, lat, lon float64, date time.Time) ([]WeatherSample, error)
}

// Builder assembles PreMatchStateBuilder's output from a Store and the
// three ContextResolver providers.
type Builder struct {
	Store           store.Store
	Geocoder        Geocoder
	Elevation       ElevationProvider
	Weather         WeatherProvider
	DefaultRestDays int
}

// NewBuilder returns a Builder with the §4.3 default rest-days fallback.
func NewBuilder(s store.Store, geocoder Geocoder, elevation ElevationProvider, weather WeatherProvider) *Builder {
	return &Builder{Store: s, Geocoder: geocoder, Elevation: elevation, Weather: weather, DefaultRestDays: 30}
}

// ResolveTeamLocation geocodes a venue query and looks up its elevation,
// filling in the Team fields a fresh scrape leaves blank. It is the
// team-data counterpart to BuildMatchContext's match-level resolution.
func (b *Builder) ResolveTeamLocation(ctx context.Context, t *domain.Team, venueQuery string) error {
	lat, lon, err := b.Geocoder.Geocode(ctx, venueQuery)
	if err != nil {
		return vpferrors.New(vpferrors.TransientFetch, "prematch.geocode", err)
	}
	elev, err := b.Elevation.Elevation(ctx, lat, lon)
	if err != nil {
		return vpferrors.New(vpferrors.TransientFetch, "prematch.elevation", err)
	}
	t.Lat, t.Lon, t.ElevationM = lat, lon, elev
	return nil
}

// leagueAvgElevation averages elevation across all teams in a league.
func leagueAvgElevation(teams []domain.Team) float64 {
	if len(teams) == 0 {
		return 0
	}
	var sum float64
	for _, t := range teams {
		sum += t.ElevationM
	}
	return sum / float64(len(teams))
}

// BuildMatchContext fills the PreMatchStateBuilder-owned fields of m
// in place: elevation deltas, travel distance, rest days, and weather.
func (b *Builder) BuildMatchContext(ctx context.Context, m *domain.Match, home, away domain.Team, leagueTeams []domain.Team) error {
	avgElev := leagueAvgElevation(leagueTeams)
	m.HomeElevationDif = geo.ElevationDif(home.ElevationM, avgElev)
	m.AwayElevationDif = geo.ElevationDif(away.ElevationM, avgElev)
	m.AwayTravelKm = geo.HaversineKm(home.Lat, home.Lon, away.Lat, away.Lon)

	homeRest, err := b.restDays(ctx, home.TeamID, m.Kickoff)
	if err != nil {
		return vpferrors.New(vpferrors.TransientFetch, "prematch.restDays(home)", err)
	}
	awayRest, err := b.restDays(ctx, away.TeamID, m.Kickoff)
	if err != nil {
		return vpferrors.New(vpferrors.TransientFetch, "prematch.restDays(away)", err)
	}
	m.HomeRestDays = homeRest
	m.AwayRestDays = awayRest

	temp, raining, err := b.weather(ctx, home.Lat, home.Lon, m.Kickoff)
	if err != nil {
		return vpferrors.New(vpferrors.TransientFetch, "prematch.weather", err)
	}
	m.TemperatureC = temp
	m.IsRaining = raining

	return nil
}

func (b *Builder) restDays(ctx context.Context, teamID int, kickoff time.Time) (int, error) {
	last, ok, err := b.Store.LastGameDate(ctx, teamID, kickoff)
	if err != nil {
		return 0, fmt.Errorf("last game date: %w", err)
	}
	if !ok {
		return b.DefaultRestDays, nil
	}
	days := int(kickoff.Sub(last).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return days, nil
}

// weather averages hourly temperature and flags precipitation within
// [kick-1h, kick+2h], per §4.3.
func (b *Builder) weather(ctx context.Context, lat, lon float64, kickoff time.Time) (float64, bool, error) {
	samples, err := b.Weather.HourlyWeather(ctx, lat, lon, kickoff)
	if err != nil {
		return 0, false, err
	}

	windowStart := kickoff.Add(-1 * time.Hour)
	windowEnd := kickoff.Add(2 * time.Hour)

	var sum float64
	var n int
	var raining bool
	for _, s := range samples {
		if s.At.Before(windowStart) || s.At.After(windowEnd) {
			continue
		}
		sum += s.TemperatureC
		n++
		if s.PrecipitationMM > 0 {
			raining = true
		}
	}
	if n == 0 {
		return 0, false, nil
	}
	return sum / float64(n), raining, nil
}

// PlayerID builds the "<name>_<shirt#>_<team initials>" convention from
// §6: team initials are the uppercase first letter of each
// space-separated token in the team name.
func PlayerID(name string, shirtNumber int, teamName string) string {
	initials := TeamInitials(teamName)
	return fmt.Sprintf("%s_%d_%s", name, shirtNumber, initials)
}

// TeamInitials uppercases the first letter of each space-separated token.
func TeamInitials(teamName string) string {
	var out []byte
	start := true
	for i := 0; i < len(teamName); i++ {
		c := teamName[i]
		if c == ' ' {
			start = true
			continue
		}
		if start {
			if c >= 'a' && c <= 'z' {
				c -= 'a' - 'A'
			}
			out = append(out, c)
			start = false
		}
	}
	return string(out)
}
