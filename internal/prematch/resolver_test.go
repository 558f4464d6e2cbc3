package prematch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/venomio/vpfm/internal/domain"
	"github.com/venomio/vpfm/internal/store"
)

type stubWeather struct {
	samples []WeatherSample
}

func (s stubWeather) HourlyWeather(ctx context.Context, lat, lon float64, date time.Time) ([]WeatherSample, error) {
	return s.samples, nil
}

func TestBuildMatchContextDefaultRestDays(t *testing.T) {
	mem := store.NewMemoryStore()
	kickoff := time.Date(2026, 3, 1, 15, 0, 0, 0, time.UTC)

	home := domain.Team{TeamID: 1, Name: "Home FC", ElevationM: 1000, Lat: 10, Lon: 10}
	away := domain.Team{TeamID: 2, Name: "Away FC", ElevationM: 200, Lat: 20, Lon: 20}

	b := NewBuilder(mem, nil, nil, stubWeather{samples: []WeatherSample{
		{At: kickoff, TemperatureC: 18, PrecipitationMM: 0},
		{At: kickoff.Add(time.Hour), TemperatureC: 20, PrecipitationMM: 1.2},
	}})

	m := &domain.Match{Kickoff: kickoff}
	err := b.BuildMatchContext(context.Background(), m, home, away, []domain.Team{home, away})
	require.NoError(t, err)

	require.Equal(t, 30, m.HomeRestDays)
	require.Equal(t, 30, m.AwayRestDays)
	require.InDelta(t, 19.0, m.TemperatureC, 1e-9)
	require.True(t, m.IsRaining)
	require.Greater(t, m.AwayTravelKm, 0.0)
}

func TestTeamInitials(t *testing.T) {
	require.Equal(t, "MU", TeamInitials("manchester united"))
	require.Equal(t, "RM", TeamInitials("Real Madrid"))
}

func TestPlayerID(t *testing.T) {
	require.Equal(t, "Lionel Messi_10_FB", PlayerID("Lionel Messi", 10, "fc barcelona"))
}
