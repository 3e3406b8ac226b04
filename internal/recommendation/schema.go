package recommendation

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/NomadCrew/vacation-recommender/types"
)

const (
	DefaultBatchSize = 10

	maxScore = 10
)

// Violation is one failed rule, addressed by a field path such as "[3].accommodations".
type Violation struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

func (v Violation) String() string {
	return v.Path + ": " + v.Reason
}

// ViolationList is the full set of failed rules for one value.
type ViolationList []Violation

func (l ViolationList) Error() string {
	parts := make([]string, len(l))
	for i, v := range l {
		parts[i] = v.String()
	}
	return fmt.Sprintf("%d schema violation(s): %s", len(l), strings.Join(parts, "; "))
}

// Validator checks batch shape and per-record rules. It holds no state beyond
// the target batch size.
type Validator struct {
	batchSize int
}

func NewValidator(batchSize int) *Validator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Validator{batchSize: batchSize}
}

// BatchSize returns the exact number of records a batch must contain.
func (v *Validator) BatchSize() int {
	return v.batchSize
}

// ValidateCandidates checks that the decoded value is an array of exactly
// BatchSize objects. Item contents are checked after normalization.
func (v *Validator) ValidateCandidates(c Candidate) ViolationList {
	if !c.IsArray() {
		return ViolationList{{Path: "$", Reason: "expected a JSON array"}}
	}

	var out ViolationList
	items := c.Items()
	if len(items) != v.batchSize {
		out = append(out, Violation{
			Path:   "$",
			Reason: fmt.Sprintf("expected exactly %d recommendations, got %d", v.batchSize, len(items)),
		})
	}
	for i, item := range items {
		if !item.IsObject() {
			out = append(out, Violation{Path: index(i), Reason: "expected an object"})
		}
	}
	return out
}

// ValidateRecommendations applies the per-record rules to a normalized batch.
func (v *Validator) ValidateRecommendations(recs []types.VacationRecommendation) ViolationList {
	var out ViolationList
	if len(recs) != v.batchSize {
		out = append(out, Violation{
			Path:   "$",
			Reason: fmt.Sprintf("expected exactly %d recommendations, got %d", v.batchSize, len(recs)),
		})
	}
	for i := range recs {
		out = append(out, validateRecord(i, &recs[i])...)
	}
	return out
}

type checker struct {
	prefix string
	out    ViolationList
}

func (c *checker) fail(field, reason string) {
	c.out = append(c.out, Violation{Path: c.prefix + field, Reason: reason})
}

func (c *checker) text(field, value string) {
	if strings.TrimSpace(value) == "" {
		c.fail(field, "must not be empty")
	}
}

func (c *checker) nonNegative(field string, value float64) {
	if value < 0 {
		c.fail(field, "must not be negative")
	}
}

func (c *checker) score(field string, value float64) {
	if value < 0 || value > maxScore {
		c.fail(field, fmt.Sprintf("must be between 0 and %d", maxScore))
	}
}

func (c *checker) list(field string, values []string) {
	if len(values) == 0 {
		c.fail(field, "must contain at least one entry")
		return
	}
	for j, s := range values {
		if strings.TrimSpace(s) == "" {
			c.fail(fmt.Sprintf("%s[%d]", field, j), "must not be empty")
		}
	}
}

func validateRecord(i int, r *types.VacationRecommendation) ViolationList {
	c := &checker{prefix: index(i) + "."}

	if r.ID != strconv.Itoa(i+1) {
		c.fail("id", fmt.Sprintf("expected %q, got %q", strconv.Itoa(i+1), r.ID))
	}
	c.text("destination", r.Destination)
	c.text("country", r.Country)
	c.text("description", r.Description)
	if r.Duration < 1 {
		c.fail("duration", "must be at least 1 day")
	}

	c.nonNegative("estimatedCost.total", r.EstimatedCost.Total)
	c.nonNegative("estimatedCost.breakdown.accommodation", r.EstimatedCost.Breakdown.Accommodation)
	c.nonNegative("estimatedCost.breakdown.transportation", r.EstimatedCost.Breakdown.Transportation)
	c.nonNegative("estimatedCost.breakdown.food", r.EstimatedCost.Breakdown.Food)
	c.nonNegative("estimatedCost.breakdown.activities", r.EstimatedCost.Breakdown.Activities)

	c.list("highlights", r.Highlights)

	if len(r.Activities) == 0 {
		c.fail("activities", "must contain at least one entry")
	}
	for j, a := range r.Activities {
		p := fmt.Sprintf("activities[%d].", j)
		c.text(p+"name", a.Name)
		c.text(p+"description", a.Description)
		c.text(p+"duration", a.Duration)
		c.text(p+"type", a.Type)
		c.nonNegative(p+"cost", a.Cost)
		c.score(p+"sustainabilityRating", a.SustainabilityRating)
	}

	if len(r.Accommodations) == 0 {
		c.fail("accommodations", "must contain at least one entry")
	}
	for j, a := range r.Accommodations {
		p := fmt.Sprintf("accommodations[%d].", j)
		c.text(p+"name", a.Name)
		c.text(p+"type", a.Type)
		c.nonNegative(p+"pricePerNight", a.PricePerNight)
		c.nonNegative(p+"rating", a.Rating)
		c.list(p+"amenities", a.Amenities)
		c.list(p+"sustainabilityFeatures", a.SustainabilityFeatures)
	}

	if len(r.Transportation) == 0 {
		c.fail("transportation", "must contain at least one entry")
	}
	for j, t := range r.Transportation {
		p := fmt.Sprintf("transportation[%d].", j)
		c.text(p+"mode", t.Mode)
		c.text(p+"duration", t.Duration)
		c.nonNegative(p+"carbonEmissions", t.CarbonEmissions)
		c.nonNegative(p+"cost", t.Cost)
	}

	s := r.SustainabilityScore
	c.score("sustainabilityScore.overall", s.Overall)
	c.score("sustainabilityScore.transportation", s.Transportation)
	c.score("sustainabilityScore.accommodation", s.Accommodation)
	c.score("sustainabilityScore.activities", s.Activities)
	c.score("sustainabilityScore.localImpact", s.LocalImpact)
	c.text("sustainabilityScore.description", s.Description)
	c.list("sustainabilityScore.tips", s.Tips)

	// Temperature min <= max is intentionally not checked.
	c.text("weather.conditions", r.Weather.Conditions)
	c.list("weather.bestMonths", r.Weather.BestMonths)
	c.list("localCuisine", r.LocalCuisine)
	c.list("culturalTips", r.CulturalTips)

	if len(r.Images) > 1 {
		c.fail("images", "must contain at most one URL")
	}
	for j, img := range r.Images {
		if !IsHTTPSURL(img) {
			c.fail(fmt.Sprintf("images[%d]", j), "must be an absolute https URL")
		}
	}

	return c.out
}

// IsHTTPSURL reports whether s parses as an absolute https URL with a host.
func IsHTTPSURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Scheme, "https") && u.Host != ""
}

func index(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}
