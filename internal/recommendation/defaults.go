package recommendation

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultsProvider supplies the non-monetary placeholders the normalizer uses
// when model output omits a field. Monetary defaults always come from the
// traveler's budget.
type DefaultsProvider interface {
	Defaults() Defaults
}

type ActivityDefaults struct {
	Name                 string  `yaml:"name"`
	Description          string  `yaml:"description"`
	Duration             string  `yaml:"duration"`
	Type                 string  `yaml:"type"`
	SustainabilityRating float64 `yaml:"sustainability_rating"`
}

type AccommodationDefaults struct {
	Name                   string   `yaml:"name"`
	Amenities              []string `yaml:"amenities"`
	SustainabilityFeatures []string `yaml:"sustainability_features"`
	Rating                 float64  `yaml:"rating"`
}

type TransportationDefaults struct {
	Mode            string  `yaml:"mode"`
	CarbonEmissions float64 `yaml:"carbon_emissions"`
	Duration        string  `yaml:"duration"`
}

type SustainabilityDefaults struct {
	Score       float64  `yaml:"score"`
	Description string   `yaml:"description"`
	Tips        []string `yaml:"tips"`
}

type WeatherDefaults struct {
	MinTemperature float64  `yaml:"min_temperature"`
	MaxTemperature float64  `yaml:"max_temperature"`
	Conditions     string   `yaml:"conditions"`
	BestMonths     []string `yaml:"best_months"`
}

// Defaults is the full placeholder set. Every list must be non-empty.
type Defaults struct {
	Description    string                 `yaml:"description"`
	Highlights     []string               `yaml:"highlights"`
	Activity       ActivityDefaults       `yaml:"activity"`
	Accommodation  AccommodationDefaults  `yaml:"accommodation"`
	Transportation TransportationDefaults `yaml:"transportation"`
	Sustainability SustainabilityDefaults `yaml:"sustainability"`
	Weather        WeatherDefaults        `yaml:"weather"`
	LocalCuisine   []string               `yaml:"local_cuisine"`
	CulturalTips   []string               `yaml:"cultural_tips"`
}

// Defaults lets a plain Defaults value act as its own provider.
func (d Defaults) Defaults() Defaults {
	return d.clone()
}

func (d Defaults) clone() Defaults {
	c := d
	c.Highlights = slices.Clone(d.Highlights)
	c.Accommodation.Amenities = slices.Clone(d.Accommodation.Amenities)
	c.Accommodation.SustainabilityFeatures = slices.Clone(d.Accommodation.SustainabilityFeatures)
	c.Sustainability.Tips = slices.Clone(d.Sustainability.Tips)
	c.Weather.BestMonths = slices.Clone(d.Weather.BestMonths)
	c.LocalCuisine = slices.Clone(d.LocalCuisine)
	c.CulturalTips = slices.Clone(d.CulturalTips)
	return c
}

// Validate rejects placeholder sets that would leave a record with an empty
// list or out-of-range score.
func (d Defaults) Validate() error {
	lists := map[string][]string{
		"highlights":                            d.Highlights,
		"accommodation.amenities":               d.Accommodation.Amenities,
		"accommodation.sustainability_features": d.Accommodation.SustainabilityFeatures,
		"sustainability.tips":                   d.Sustainability.Tips,
		"weather.best_months":                   d.Weather.BestMonths,
		"local_cuisine":                         d.LocalCuisine,
		"cultural_tips":                         d.CulturalTips,
	}
	for name, l := range lists {
		if len(l) == 0 {
			return fmt.Errorf("defaults: %s must not be empty", name)
		}
		for j, s := range l {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("defaults: %s[%d] must not be blank", name, j)
			}
		}
	}

	texts := map[string]string{
		"description":                d.Description,
		"activity.name":              d.Activity.Name,
		"activity.description":       d.Activity.Description,
		"activity.duration":          d.Activity.Duration,
		"activity.type":              d.Activity.Type,
		"accommodation.name":         d.Accommodation.Name,
		"transportation.mode":        d.Transportation.Mode,
		"transportation.duration":    d.Transportation.Duration,
		"sustainability.description": d.Sustainability.Description,
		"weather.conditions":         d.Weather.Conditions,
	}
	for name, s := range texts {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("defaults: %s must not be blank", name)
		}
	}

	for name, v := range map[string]float64{
		"activity.sustainability_rating": d.Activity.SustainabilityRating,
		"sustainability.score":           d.Sustainability.Score,
	} {
		if v < 0 || v > maxScore {
			return fmt.Errorf("defaults: %s must be between 0 and %d", name, maxScore)
		}
	}
	if d.Accommodation.Rating < 0 || d.Transportation.CarbonEmissions < 0 {
		return fmt.Errorf("defaults: ratings and emissions must not be negative")
	}
	return nil
}

// BuiltinDefaults returns the placeholder set used when no file is configured.
func BuiltinDefaults() Defaults {
	return Defaults{
		Description: "A destination that fits your travel preferences.",
		Highlights:  []string{"Local attractions"},
		Activity: ActivityDefaults{
			Name:                 "Explore the area",
			Description:          "Discover local attractions at your own pace",
			Duration:             "Varies",
			Type:                 "exploration",
			SustainabilityRating: 7,
		},
		Accommodation: AccommodationDefaults{
			Name:                   "Recommended stay",
			Amenities:              []string{"WiFi"},
			SustainabilityFeatures: []string{"Not specified"},
			Rating:                 4.0,
		},
		Transportation: TransportationDefaults{
			Mode:            "Public transit",
			CarbonEmissions: 10,
			Duration:        "Varies",
		},
		Sustainability: SustainabilityDefaults{
			Score:       7,
			Description: "No sustainability details provided",
			Tips:        []string{"Support local businesses"},
		},
		Weather: WeatherDefaults{
			MinTemperature: 20,
			MaxTemperature: 30,
			Conditions:     "No weather details provided",
			BestMonths:     []string{"Year-round"},
		},
		LocalCuisine: []string{"Local specialties"},
		CulturalTips: []string{"Be respectful of local customs"},
	}
}

// LoadDefaultsFile overlays the YAML file at path onto the built-in defaults.
// Keys absent from the file keep their built-in values.
func LoadDefaultsFile(path string) (Defaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Defaults{}, fmt.Errorf("failed to read defaults file: %w", err)
	}
	return ParseDefaults(data)
}

// ParseDefaults overlays YAML content onto the built-in defaults.
func ParseDefaults(data []byte) (Defaults, error) {
	d := BuiltinDefaults()
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Defaults{}, fmt.Errorf("failed to parse defaults: %w", err)
	}
	if err := d.Validate(); err != nil {
		return Defaults{}, err
	}
	return d, nil
}
