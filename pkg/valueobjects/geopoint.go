// pkg/valueobjects/geopoint.go
package valueobjects

import (
	"fmt"
	"math"

	"github.com/NomadCrew/vacation-recommender/errors"
	"github.com/NomadCrew/vacation-recommender/types"
)

// GeoPoint represents a geographic point with latitude and longitude
type GeoPoint struct {
	latitude  float64
	longitude float64
}

// NewGeoPoint creates a new GeoPoint with validation
func NewGeoPoint(lat, lng float64) (*GeoPoint, error) {
	if err := validateCoordinates(lat, lng); err != nil {
		return nil, err
	}

	return &GeoPoint{
		latitude:  lat,
		longitude: lng,
	}, nil
}

// NewGeoPointFromLonLat builds a point from a GeoJSON-ordered pair, [longitude, latitude],
// which is how geocoding providers return feature centers.
func NewGeoPointFromLonLat(pair []float64) (*GeoPoint, error) {
	if len(pair) < 2 {
		return nil, errors.ValidationFailed(
			"invalid coordinates",
			fmt.Sprintf("expected [longitude, latitude], got %d values", len(pair)),
		)
	}
	return NewGeoPoint(pair[1], pair[0])
}

// Latitude returns the latitude value
func (g GeoPoint) Latitude() float64 {
	return g.latitude
}

// Longitude returns the longitude value
func (g GeoPoint) Longitude() float64 {
	return g.longitude
}

// String returns a string representation of the geographic point
func (g GeoPoint) String() string {
	return fmt.Sprintf("(%f, %f)", g.latitude, g.longitude)
}

// ToCoordinates converts the point into the API representation.
func (g GeoPoint) ToCoordinates() *types.Coordinates {
	return &types.Coordinates{
		Latitude:  g.latitude,
		Longitude: g.longitude,
	}
}

func validateCoordinates(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return errors.ValidationFailed("invalid coordinates", "coordinates must be numbers")
	}

	if lat < -90 || lat > 90 {
		return errors.ValidationFailed(
			"invalid latitude",
			fmt.Sprintf("latitude %f is outside valid range [-90, 90]", lat),
		)
	}

	if lng < -180 || lng > 180 {
		return errors.ValidationFailed(
			"invalid longitude",
			fmt.Sprintf("longitude %f is outside valid range [-180, 180]", lng),
		)
	}

	return nil
}
