package recommendation

import (
	"slices"
	"strconv"
	"strings"

	"github.com/NomadCrew/vacation-recommender/logger"
	"github.com/NomadCrew/vacation-recommender/pkg/valueobjects"
	"github.com/NomadCrew/vacation-recommender/types"
)

// List bounds applied when copying model output.
const (
	maxHighlights     = 5
	maxActivities     = 5
	maxAccommodations = 2
	maxTransportation = 5
	maxTips           = 10
	maxCuisine        = 10
	maxCulturalTips   = 10
	maxTags           = 10
	maxBestMonths     = 12
)

// Budget shares, in percent of the midpoint, used for cost defaults.
const (
	accommodationShare  = 30
	transportationShare = 25
	foodShare           = 25
	activitiesShare     = 20
)

// Normalizer maps untrusted candidates to trusted records.
type Normalizer struct {
	defaults DefaultsProvider
}

func NewNormalizer(defaults DefaultsProvider) *Normalizer {
	if defaults == nil {
		defaults = BuiltinDefaults()
	}
	return &Normalizer{defaults: defaults}
}

// estimates are the budget-derived monetary defaults for one run.
type estimates struct {
	total          float64
	accommodation  float64
	transportation float64
	food           float64
	activities     float64
	nightlyPrice   float64
	activityCost   float64
	transportCost  float64
}

// budgetMoney is the budget midpoint, rounded to cents. A budget that is not
// representable falls back to its absolute value in USD, then to zero.
func budgetMoney(prefs types.UserPreferences) valueobjects.Money {
	amount := prefs.Budget.Midpoint().Round(2)
	currency := valueobjects.Currency(strings.ToUpper(prefs.Budget.Currency))
	mid, err := valueobjects.NewMoney(amount, currency)
	if err != nil {
		logger.GetLogger().Warnw("Budget not representable as money, estimating in USD", "currency", prefs.Budget.Currency, "error", err)
		mid, err = valueobjects.NewMoney(amount.Abs(), valueobjects.USD)
		if err != nil {
			return valueobjects.Money{}
		}
	}
	return *mid
}

func budgetEstimates(prefs types.UserPreferences) estimates {
	mid := budgetMoney(prefs)
	days := prefs.Duration.Days
	accommodation := mid.Share(accommodationShare)
	transportation := mid.Share(transportationShare)
	activities := mid.Share(activitiesShare)

	return estimates{
		total:          mid.Float64(),
		accommodation:  accommodation.Float64(),
		transportation: transportation.Float64(),
		food:           mid.Share(foodShare).Float64(),
		activities:     activities.Float64(),
		nightlyPrice:   accommodation.PerDay(days).Float64(),
		activityCost:   activities.PerDay(days).Float64(),
		transportCost:  transportation.PerDay(days).Float64(),
	}
}

// Normalize converts every candidate, in order, into a record. It never adds
// or drops records; cardinality is the validator's concern.
func (n *Normalizer) Normalize(items []Candidate, prefs types.UserPreferences) []types.VacationRecommendation {
	d := n.defaults.Defaults()
	est := budgetEstimates(prefs)

	out := make([]types.VacationRecommendation, len(items))
	for i, item := range items {
		out[i] = normalizeOne(i, item, prefs, d, est)
	}
	return out
}

func normalizeOne(i int, c Candidate, prefs types.UserPreferences, d Defaults, est estimates) types.VacationRecommendation {
	// Destination and country identify the place and are never invented.
	destination, _ := c.String("destination")
	country, _ := c.String("country")

	return types.VacationRecommendation{
		ID:          strconv.Itoa(i + 1),
		Destination: destination,
		Country:     country,
		Duration:    prefs.Duration.Days,
		EstimatedCost: types.CostEstimate{
			Total: numberOr(c, "estimatedCost.total", est.total),
			Breakdown: types.CostBreakdown{
				Accommodation:  numberOr(c, "estimatedCost.breakdown.accommodation", est.accommodation),
				Transportation: numberOr(c, "estimatedCost.breakdown.transportation", est.transportation),
				Food:           numberOr(c, "estimatedCost.breakdown.food", est.food),
				Activities:     numberOr(c, "estimatedCost.breakdown.activities", est.activities),
			},
		},
		Description:         stringOr(c, "description", d.Description),
		Highlights:          stringsOr(c, "highlights", maxHighlights, d.Highlights),
		Activities:          normalizeActivities(c, d.Activity, est),
		Accommodations:      normalizeAccommodations(c, prefs, d.Accommodation, est),
		Transportation:      normalizeTransportation(c, d.Transportation, est),
		SustainabilityScore: normalizeSustainability(c, d.Sustainability),
		Weather:             normalizeWeather(c, d.Weather),
		LocalCuisine:        stringsOr(c, "localCuisine", maxCuisine, d.LocalCuisine),
		CulturalTips:        stringsOr(c, "culturalTips", maxCulturalTips, d.CulturalTips),
		Images:              normalizeImages(c),
	}
}

func normalizeActivities(c Candidate, d ActivityDefaults, est estimates) []types.Activity {
	items, ok := c.Objects("activities", maxActivities)
	if !ok {
		return []types.Activity{{
			Name:                 d.Name,
			Description:          d.Description,
			Duration:             d.Duration,
			Cost:                 est.activityCost,
			Type:                 d.Type,
			SustainabilityRating: d.SustainabilityRating,
		}}
	}

	out := make([]types.Activity, len(items))
	for i, a := range items {
		out[i] = types.Activity{
			Name:                 stringOr(a, "name", d.Name),
			Description:          stringOr(a, "description", d.Description),
			Duration:             stringOr(a, "duration", d.Duration),
			Cost:                 numberOr(a, "cost", est.activityCost),
			Type:                 stringOr(a, "type", d.Type),
			SustainabilityRating: numberOr(a, "sustainabilityRating", d.SustainabilityRating),
		}
	}
	return out
}

func normalizeAccommodations(c Candidate, prefs types.UserPreferences, d AccommodationDefaults, est estimates) []types.Accommodation {
	items, ok := c.Objects("accommodations", maxAccommodations)
	if !ok {
		return []types.Accommodation{{
			Name:                   d.Name,
			Type:                   string(prefs.AccommodationType),
			PricePerNight:          est.nightlyPrice,
			Amenities:              slices.Clone(d.Amenities),
			SustainabilityFeatures: slices.Clone(d.SustainabilityFeatures),
			Rating:                 d.Rating,
		}}
	}

	out := make([]types.Accommodation, len(items))
	for i, a := range items {
		out[i] = types.Accommodation{
			Name:                   stringOr(a, "name", d.Name),
			Type:                   stringOr(a, "type", string(prefs.AccommodationType)),
			PricePerNight:          numberOr(a, "pricePerNight", est.nightlyPrice),
			Amenities:              stringsOr(a, "amenities", maxTags, d.Amenities),
			SustainabilityFeatures: stringsOr(a, "sustainabilityFeatures", maxTags, d.SustainabilityFeatures),
			Rating:                 numberOr(a, "rating", d.Rating),
		}
	}
	return out
}

func normalizeTransportation(c Candidate, d TransportationDefaults, est estimates) []types.Transportation {
	items, ok := c.Objects("transportation", maxTransportation)
	if !ok {
		return []types.Transportation{{
			Mode:            d.Mode,
			CarbonEmissions: d.CarbonEmissions,
			Cost:            est.transportCost,
			Duration:        d.Duration,
		}}
	}

	out := make([]types.Transportation, len(items))
	for i, t := range items {
		out[i] = types.Transportation{
			Mode:            stringOr(t, "mode", d.Mode),
			CarbonEmissions: numberOr(t, "carbonEmissions", d.CarbonEmissions),
			Cost:            numberOr(t, "cost", est.transportCost),
			Duration:        stringOr(t, "duration", d.Duration),
		}
	}
	return out
}

func normalizeSustainability(c Candidate, d SustainabilityDefaults) types.SustainabilityScore {
	s, _ := c.Object("sustainabilityScore")
	return types.SustainabilityScore{
		Overall:        numberOr(s, "overall", d.Score),
		Transportation: numberOr(s, "transportation", d.Score),
		Accommodation:  numberOr(s, "accommodation", d.Score),
		Activities:     numberOr(s, "activities", d.Score),
		LocalImpact:    numberOr(s, "localImpact", d.Score),
		Description:    stringOr(s, "description", d.Description),
		Tips:           stringsOr(s, "tips", maxTips, d.Tips),
	}
}

// normalizeWeather copies temperatures as given. A reversed range is kept,
// not swapped.
func normalizeWeather(c Candidate, d WeatherDefaults) types.Weather {
	w, _ := c.Object("weather")
	return types.Weather{
		Temperature: types.TemperatureRange{
			Min: numberOr(w, "temperature.min", d.MinTemperature),
			Max: numberOr(w, "temperature.max", d.MaxTemperature),
		},
		Conditions: stringOr(w, "conditions", d.Conditions),
		BestMonths: stringsOr(w, "bestMonths", maxBestMonths, d.BestMonths),
	}
}

// normalizeImages keeps at most one image, and only an https URL.
func normalizeImages(c Candidate) []string {
	if u, ok := c.String("imageUrl"); ok && IsHTTPSURL(u) {
		return []string{u}
	}
	if urls, ok := c.Strings("images", 0); ok {
		for _, u := range urls {
			if IsHTTPSURL(u) {
				return []string{u}
			}
		}
	}
	return []string{}
}

func stringOr(c Candidate, path, fallback string) string {
	if s, ok := c.String(path); ok {
		return s
	}
	return fallback
}

func numberOr(c Candidate, path string, fallback float64) float64 {
	if f, ok := c.Number(path); ok {
		return f
	}
	return fallback
}

func stringsOr(c Candidate, path string, limit int, fallback []string) []string {
	if l, ok := c.Strings(path, limit); ok {
		return l
	}
	return slices.Clone(fallback)
}
