package types

// Coordinates is a WGS84 point as returned by the geocoding collaborator.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type CostBreakdown struct {
	Accommodation  float64 `json:"accommodation"`
	Transportation float64 `json:"transportation"`
	Food           float64 `json:"food"`
	Activities     float64 `json:"activities"`
}

// CostEstimate is the total trip cost. Breakdown is not reconciled against Total.
type CostEstimate struct {
	Total     float64       `json:"total"`
	Breakdown CostBreakdown `json:"breakdown"`
}

type Activity struct {
	Name                 string  `json:"name"`
	Description          string  `json:"description"`
	Duration             string  `json:"duration"`
	Cost                 float64 `json:"cost"`
	Type                 string  `json:"type"`
	SustainabilityRating float64 `json:"sustainabilityRating"`
}

type Accommodation struct {
	Name                   string   `json:"name"`
	Type                   string   `json:"type"`
	PricePerNight          float64  `json:"pricePerNight"`
	Amenities              []string `json:"amenities"`
	SustainabilityFeatures []string `json:"sustainabilityFeatures"`
	Rating                 float64  `json:"rating"`
}

type Transportation struct {
	Mode            string  `json:"mode"`
	CarbonEmissions float64 `json:"carbonEmissions"`
	Cost            float64 `json:"cost"`
	Duration        string  `json:"duration"`
}

type SustainabilityScore struct {
	Overall        float64  `json:"overall"`
	Transportation float64  `json:"transportation"`
	Accommodation  float64  `json:"accommodation"`
	Activities     float64  `json:"activities"`
	LocalImpact    float64  `json:"localImpact"`
	Description    string   `json:"description"`
	Tips           []string `json:"tips"`
}

type TemperatureRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type Weather struct {
	Temperature TemperatureRange `json:"temperature"`
	Conditions  string           `json:"conditions"`
	BestMonths  []string         `json:"bestMonths"`
}

// VacationRecommendation is a normalized, trusted destination record.
type VacationRecommendation struct {
	ID                  string              `json:"id"`
	Destination         string              `json:"destination"`
	Country             string              `json:"country"`
	Coordinates         *Coordinates        `json:"coordinates,omitempty"`
	Duration            int                 `json:"duration"`
	EstimatedCost       CostEstimate        `json:"estimatedCost"`
	Description         string              `json:"description"`
	Highlights          []string            `json:"highlights"`
	Activities          []Activity          `json:"activities"`
	Accommodations      []Accommodation     `json:"accommodations"`
	Transportation      []Transportation    `json:"transportation"`
	SustainabilityScore SustainabilityScore `json:"sustainabilityScore"`
	Weather             Weather             `json:"weather"`
	LocalCuisine        []string            `json:"localCuisine"`
	CulturalTips        []string            `json:"culturalTips"`
	Images              []string            `json:"images"`
}

// RecommendationsResponse is the payload returned to the UI. RunID keys the
// run's attempt log.
type RecommendationsResponse struct {
	RunID           string                   `json:"runId"`
	Recommendations []VacationRecommendation `json:"recommendations"`
	Count           int                      `json:"count"`
}

type GeocodeRequest struct {
	Destination string `json:"destination" binding:"required"`
	Country     string `json:"country" binding:"required"`
}

type GeocodeResponse struct {
	Coordinates *Coordinates `json:"coordinates"`
}

type DestinationImageResponse struct {
	ImageURL string `json:"imageUrl"`
}
