// pkg/valueobjects/geopoint_test.go
package valueobjects

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeoPoint(t *testing.T) {
	tests := []struct {
		name        string
		latitude    float64
		longitude   float64
		shouldError bool
	}{
		{name: "valid coordinates", latitude: -8.3405, longitude: 115.0920},
		{name: "invalid latitude - too high", latitude: 91.0, shouldError: true},
		{name: "invalid latitude - too low", latitude: -91.0, shouldError: true},
		{name: "invalid longitude - too high", longitude: 181.0, shouldError: true},
		{name: "invalid longitude - too low", longitude: -181.0, shouldError: true},
		{name: "NaN latitude", latitude: math.NaN(), shouldError: true},
		{name: "edge case - max valid values", latitude: 90.0, longitude: 180.0},
		{name: "edge case - min valid values", latitude: -90.0, longitude: -180.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			point, err := NewGeoPoint(tt.latitude, tt.longitude)
			if tt.shouldError {
				assert.Error(t, err)
				assert.Nil(t, point)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.latitude, point.Latitude())
			assert.Equal(t, tt.longitude, point.Longitude())
		})
	}
}

func TestNewGeoPointFromLonLat(t *testing.T) {
	point, err := NewGeoPointFromLonLat([]float64{115.1889, -8.4095})
	require.NoError(t, err)

	coords := point.ToCoordinates()
	assert.Equal(t, -8.4095, coords.Latitude)
	assert.Equal(t, 115.1889, coords.Longitude)

	_, err = NewGeoPointFromLonLat([]float64{115.1889})
	assert.Error(t, err)

	_, err = NewGeoPointFromLonLat([]float64{-8.4095, 115.1889})
	assert.Error(t, err, "swapped pair puts latitude out of range")
}
