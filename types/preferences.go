package types

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type DurationFlexibility string

const (
	DurationExact    DurationFlexibility = "exact"
	DurationFlexible DurationFlexibility = "flexible"
	DurationMinimum  DurationFlexibility = "minimum"
)

type TripType string

const (
	TripTypeSolo     TripType = "solo"
	TripTypeCouple   TripType = "couple"
	TripTypeFamily   TripType = "family"
	TripTypeFriends  TripType = "friends"
	TripTypeBusiness TripType = "business"
)

type AccommodationType string

const (
	AccommodationHotel   AccommodationType = "hotel"
	AccommodationResort  AccommodationType = "resort"
	AccommodationAirbnb  AccommodationType = "airbnb"
	AccommodationHostel  AccommodationType = "hostel"
	AccommodationCamping AccommodationType = "camping"
	AccommodationLuxury  AccommodationType = "luxury"
)

type Pace string

const (
	PaceRelaxed  Pace = "relaxed"
	PaceModerate Pace = "moderate"
	PaceFast     Pace = "fast-paced"
)

type Climate string

const (
	ClimateTropical  Climate = "tropical"
	ClimateTemperate Climate = "temperate"
	ClimateCold      Climate = "cold"
	ClimateDry       Climate = "dry"
	ClimateAny       Climate = "any"
)

type SustainabilityPriority string

const (
	SustainabilityHigh   SustainabilityPriority = "high"
	SustainabilityMedium SustainabilityPriority = "medium"
	SustainabilityLow    SustainabilityPriority = "low"
)

type TransportPreference string

const (
	TransportFlight TransportPreference = "flight"
	TransportTrain  TransportPreference = "train"
	TransportCar    TransportPreference = "car"
	TransportBus    TransportPreference = "bus"
	TransportAny    TransportPreference = "any"
)

// Budget is the traveler's total spend range for the whole trip.
type Budget struct {
	Min      decimal.Decimal `json:"min" swaggertype:"number"`
	Max      decimal.Decimal `json:"max" swaggertype:"number"`
	Currency string          `json:"currency"`
}

// Midpoint returns floor((min+max)/2), the anchor for budget-derived estimates.
func (b Budget) Midpoint() decimal.Decimal {
	return b.Min.Add(b.Max).Div(decimal.New(2, 0)).Floor()
}

type TripDuration struct {
	Days        int                 `json:"days"`
	Flexibility DurationFlexibility `json:"flexibility,omitempty"`
}

type TravelDates struct {
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Flexibility string `json:"flexibility,omitempty"`
}

type DestinationFilter struct {
	Preferred []string `json:"preferred,omitempty"`
	Avoid     []string `json:"avoid,omitempty"`
}

// UserPreferences is the questionnaire submission. It is never modified once submitted.
type UserPreferences struct {
	Budget              Budget                 `json:"budget"`
	Duration            TripDuration           `json:"duration"`
	TravelDates         *TravelDates           `json:"travelDates,omitempty"`
	TripType            TripType               `json:"tripType"`
	AccommodationType   AccommodationType      `json:"accommodationType"`
	Activities          []string               `json:"activities"`
	Interests           []string               `json:"interests,omitempty"`
	Pace                Pace                   `json:"pace"`
	Climate             Climate                `json:"climate"`
	Destinations        *DestinationFilter     `json:"destinations,omitempty"`
	Transportation      TransportPreference    `json:"transportation,omitempty"`
	Dietary             []string               `json:"dietary,omitempty"`
	Accessibility       []string               `json:"accessibility,omitempty"`
	Sustainability      SustainabilityPriority `json:"sustainability"`
	SpecialInstructions string                 `json:"specialInstructions,omitempty"`
}

// Validate checks structural invariants of the submission. Currency support is
// checked separately by the Money value object.
func (p UserPreferences) Validate() error {
	var problems []string

	if p.Budget.Min.IsNegative() || p.Budget.Max.IsNegative() {
		problems = append(problems, "budget bounds must be non-negative")
	}
	if p.Budget.Min.GreaterThan(p.Budget.Max) {
		problems = append(problems, "budget.min must not exceed budget.max")
	}
	if strings.TrimSpace(p.Budget.Currency) == "" {
		problems = append(problems, "budget.currency is required")
	}
	if p.Duration.Days < 1 {
		problems = append(problems, "duration.days must be at least 1")
	}
	if p.Duration.Flexibility != "" && !oneOf(p.Duration.Flexibility, DurationExact, DurationFlexible, DurationMinimum) {
		problems = append(problems, fmt.Sprintf("invalid duration.flexibility %q", p.Duration.Flexibility))
	}
	if !oneOf(p.TripType, TripTypeSolo, TripTypeCouple, TripTypeFamily, TripTypeFriends, TripTypeBusiness) {
		problems = append(problems, fmt.Sprintf("invalid tripType %q", p.TripType))
	}
	if !oneOf(p.AccommodationType, AccommodationHotel, AccommodationResort, AccommodationAirbnb,
		AccommodationHostel, AccommodationCamping, AccommodationLuxury) {
		problems = append(problems, fmt.Sprintf("invalid accommodationType %q", p.AccommodationType))
	}
	if !oneOf(p.Pace, PaceRelaxed, PaceModerate, PaceFast) {
		problems = append(problems, fmt.Sprintf("invalid pace %q", p.Pace))
	}
	if !oneOf(p.Climate, ClimateTropical, ClimateTemperate, ClimateCold, ClimateDry, ClimateAny) {
		problems = append(problems, fmt.Sprintf("invalid climate %q", p.Climate))
	}
	if !oneOf(p.Sustainability, SustainabilityHigh, SustainabilityMedium, SustainabilityLow) {
		problems = append(problems, fmt.Sprintf("invalid sustainability %q", p.Sustainability))
	}
	if p.Transportation != "" && !oneOf(p.Transportation, TransportFlight, TransportTrain, TransportCar, TransportBus, TransportAny) {
		problems = append(problems, fmt.Sprintf("invalid transportation %q", p.Transportation))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}

func oneOf[T ~string](v T, allowed ...T) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
