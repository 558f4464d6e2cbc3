package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineAntipodal(t *testing.T) {
	d := HaversineKm(0, 0, 0, 180)
	assert.InDelta(t, 20015, d, 1)
}

func TestHaversineIdentical(t *testing.T) {
	assert.Equal(t, 0.0, HaversineKm(51.5, -0.1, 51.5, -0.1))
}

func TestElevationDif(t *testing.T) {
	// team at 500m, league average 300m -> reference avg = (300+500)/2 = 400
	assert.InDelta(t, 100, ElevationDif(500, 300), 1e-9)
}
