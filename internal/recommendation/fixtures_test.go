package recommendation

import (
	"fmt"
	"strings"
	"testing"

	"github.com/NomadCrew/vacation-recommender/logger"
	"github.com/NomadCrew/vacation-recommender/types"
	"github.com/shopspring/decimal"
)

func init() {
	logger.IsTest = true
}

var fixtureDestinations = []struct{ city, country string }{
	{"Lisbon", "Portugal"},
	{"Kyoto", "Japan"},
	{"Ljubljana", "Slovenia"},
	{"Oaxaca", "Mexico"},
	{"Hobart", "Australia"},
	{"Tbilisi", "Georgia"},
	{"Cusco", "Peru"},
	{"Tromsø", "Norway"},
	{"Luang Prabang", "Laos"},
	{"Essaouira", "Morocco"},
	{"Valparaíso", "Chile"},
	{"Galway", "Ireland"},
}

func testPreferences() types.UserPreferences {
	return types.UserPreferences{
		Budget: types.Budget{
			Min:      decimal.NewFromInt(1000),
			Max:      decimal.NewFromInt(5000),
			Currency: "USD",
		},
		Duration:          types.TripDuration{Days: 7, Flexibility: types.DurationFlexible},
		TripType:          types.TripTypeSolo,
		AccommodationType: types.AccommodationHotel,
		Activities:        []string{"hiking", "food tours"},
		Pace:              types.PaceModerate,
		Climate:           types.ClimateTemperate,
		Sustainability:    types.SustainabilityHigh,
	}
}

// recordJSON renders one well-formed model record. The model's own duration is
// deliberately wrong so tests can check it is overwritten.
func recordJSON(i int) string {
	d := fixtureDestinations[i%len(fixtureDestinations)]
	return fmt.Sprintf(`{
  "destination": %q,
  "country": %q,
  "duration": 3,
  "description": "A walkable city with great food and day hikes.",
  "imageUrl": "https://images.unsplash.com/photo-%d?w=800",
  "estimatedCost": {"total": 2800, "breakdown": {"accommodation": 900, "transportation": 700, "food": 700, "activities": 500}},
  "highlights": ["Old town", "Viewpoints", "Markets"],
  "activities": [
    {"name": "Guided hike", "description": "Coastal trail", "duration": "Half day", "cost": 40, "type": "adventure", "sustainabilityRating": 9},
    {"name": "Sunset walk", "description": "Free walk along the river", "duration": "2 hours", "cost": 0, "type": "nature"}
  ],
  "accommodations": [
    {"name": "Casa Verde", "type": "hotel", "pricePerNight": 120, "amenities": ["WiFi", "Breakfast"], "sustainabilityFeatures": ["Solar power"], "rating": 4.6}
  ],
  "transportation": [
    {"mode": "Train", "carbonEmissions": 4, "cost": 15, "duration": "1 hour"}
  ],
  "sustainabilityScore": {"overall": 8, "transportation": 8, "accommodation": 7, "activities": 9, "localImpact": 8, "description": "Strong transit network", "tips": ["Take the train"]},
  "weather": {"temperature": {"min": 12, "max": 24}, "conditions": "Mild and sunny", "bestMonths": ["April", "May", "September"]},
  "localCuisine": ["Grilled sardines", "Pastel de nata"],
  "culturalTips": ["Greet shopkeepers when entering"]
}`, d.city, d.country, i)
}

func batchJSON(n int) string {
	records := make([]string, n)
	for i := range records {
		records[i] = recordJSON(i)
	}
	return "[\n" + strings.Join(records, ",\n") + "\n]"
}

// batchJSONWithout renders a batch where the record at index drops one top-level field.
func batchJSONWithout(t *testing.T, n, index int, field string) string {
	t.Helper()
	c, err := Decode(batchJSON(n))
	if err != nil {
		t.Fatalf("fixture does not decode: %v", err)
	}
	records := make([]string, n)
	for i, item := range c.Items() {
		records[i] = item.Raw()
		if i == index {
			records[i] = removeField(t, item.Raw(), field)
		}
	}
	return "[" + strings.Join(records, ",") + "]"
}

func removeField(t *testing.T, obj, field string) string {
	t.Helper()
	key := fmt.Sprintf("%q:", field)
	start := strings.Index(obj, key)
	if start < 0 {
		t.Fatalf("field %s not in fixture", field)
	}
	// Fixture fields are one per line, so the field ends at the next top-level newline.
	end := strings.Index(obj[start:], "\n  \"")
	if end < 0 {
		t.Fatalf("field %s is last in fixture", field)
	}
	return obj[:start] + obj[start+end+3:]
}
