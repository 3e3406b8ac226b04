package recommendation

import (
	"fmt"
	"strings"

	"github.com/NomadCrew/vacation-recommender/types"
)

const DefaultMaxTokens = 20000

// Strategy is the prompt style for an attempt. Later strategies leave the
// model fewer degrees of freedom.
type Strategy int

const (
	StrategyFullExample Strategy = iota + 1
	StrategyFieldList
	StrategyMinimal
)

func (s Strategy) String() string {
	switch s {
	case StrategyFullExample:
		return "full_example"
	case StrategyFieldList:
		return "field_list"
	case StrategyMinimal:
		return "minimal"
	default:
		return "unknown"
	}
}

// StrategyFor maps a 1-based attempt index to its strategy.
func StrategyFor(attempt int) Strategy {
	switch {
	case attempt <= 1:
		return StrategyFullExample
	case attempt == 2:
		return StrategyFieldList
	default:
		return StrategyMinimal
	}
}

var strategyTemperature = map[Strategy]float32{
	StrategyFullExample: 0.5,
	StrategyFieldList:   0.3,
	StrategyMinimal:     0.1,
}

var recordFields = []string{
	"destination", "country", "description", "imageUrl",
	"estimatedCost{total,breakdown{accommodation,transportation,food,activities}}",
	"highlights[]", "activities[]{name,description,duration,cost,type,sustainabilityRating}",
	"accommodations[]{name,type,pricePerNight,amenities[],sustainabilityFeatures[],rating}",
	"transportation[]{mode,carbonEmissions,cost,duration}",
	"sustainabilityScore{overall,transportation,accommodation,activities,localImpact,description,tips[]}",
	"weather{temperature{min,max},conditions,bestMonths[]}",
	"localCuisine[]", "culturalTips[]",
}

// PromptBuilder renders completion requests. Output depends only on the
// preferences and the attempt index.
type PromptBuilder struct {
	batchSize int
	maxTokens int
	model     string
}

func NewPromptBuilder(batchSize, maxTokens int, model string) *PromptBuilder {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &PromptBuilder{batchSize: batchSize, maxTokens: maxTokens, model: model}
}

// Build renders the request for the given 1-based attempt.
func (b *PromptBuilder) Build(prefs types.UserPreferences, attempt int) types.CompletionRequest {
	strategy := StrategyFor(attempt)

	var user string
	switch strategy {
	case StrategyFullExample:
		user = b.fullExamplePrompt(prefs)
	case StrategyFieldList:
		user = b.fieldListPrompt(prefs)
	default:
		user = b.minimalPrompt(prefs)
	}

	return types.CompletionRequest{
		Model:        b.model,
		SystemPrompt: b.systemPrompt(strategy),
		UserPrompt:   user,
		Temperature:  strategyTemperature[strategy],
		MaxTokens:    b.maxTokens,
	}
}

func (b *PromptBuilder) systemPrompt(s Strategy) string {
	base := "You are a JSON API endpoint. Return ONLY a raw JSON array. No markdown, no code fences, no explanations."
	switch s {
	case StrategyFieldList:
		return base + " The previous answer could not be parsed. Respond with nothing except the array."
	case StrategyMinimal:
		return base + fmt.Sprintf(" The first character of your answer must be [ and the last must be ]. Exactly %d objects.", b.batchSize)
	default:
		return base
	}
}

func writePreferences(sb *strings.Builder, prefs types.UserPreferences) {
	fmt.Fprintf(sb, "- Budget: %s %s-%s total\n", prefs.Budget.Currency, prefs.Budget.Min.String(), prefs.Budget.Max.String())
	fmt.Fprintf(sb, "- Duration: %d days", prefs.Duration.Days)
	if prefs.Duration.Flexibility != "" {
		fmt.Fprintf(sb, " (%s)", prefs.Duration.Flexibility)
	}
	sb.WriteString("\n")
	fmt.Fprintf(sb, "- Trip type: %s\n", prefs.TripType)
	fmt.Fprintf(sb, "- Accommodation: %s\n", prefs.AccommodationType)
	if len(prefs.Activities) > 0 {
		fmt.Fprintf(sb, "- Activities: %s\n", strings.Join(prefs.Activities, ", "))
	}
	if len(prefs.Interests) > 0 {
		fmt.Fprintf(sb, "- Interests: %s\n", strings.Join(prefs.Interests, ", "))
	}
	fmt.Fprintf(sb, "- Pace: %s\n", prefs.Pace)
	fmt.Fprintf(sb, "- Climate: %s\n", prefs.Climate)
	fmt.Fprintf(sb, "- Sustainability priority: %s\n", prefs.Sustainability)
	if prefs.Transportation != "" {
		fmt.Fprintf(sb, "- Preferred transportation: %s\n", prefs.Transportation)
	}
	if d := prefs.Destinations; d != nil {
		if len(d.Preferred) > 0 {
			fmt.Fprintf(sb, "- Preferred regions: %s\n", strings.Join(d.Preferred, ", "))
		}
		if len(d.Avoid) > 0 {
			fmt.Fprintf(sb, "- Avoid: %s\n", strings.Join(d.Avoid, ", "))
		}
	}
	if td := prefs.TravelDates; td != nil && td.StartDate != "" {
		fmt.Fprintf(sb, "- Travel dates: %s to %s\n", td.StartDate, td.EndDate)
	}
	if len(prefs.Dietary) > 0 {
		fmt.Fprintf(sb, "- Dietary needs: %s\n", strings.Join(prefs.Dietary, ", "))
	}
	if len(prefs.Accessibility) > 0 {
		fmt.Fprintf(sb, "- Accessibility needs: %s\n", strings.Join(prefs.Accessibility, ", "))
	}
	if s := strings.TrimSpace(prefs.SpecialInstructions); s != "" {
		fmt.Fprintf(sb, "- Special instructions: %s\n", s)
	}
}

func (b *PromptBuilder) fullExamplePrompt(prefs types.UserPreferences) string {
	// Same figures the normalizer falls back to.
	mid := budgetMoney(prefs)
	accommodation := mid.Share(accommodationShare)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Return ONLY a valid JSON array with exactly %d vacation destinations.\n\n", b.batchSize)
	sb.WriteString("Your ENTIRE response must start with [ and end with ]. No text before or after it, no markdown.\n\n")
	fmt.Fprintf(&sb, "Generate %d vacation recommendations for:\n", b.batchSize)
	writePreferences(&sb, prefs)
	fmt.Fprintf(&sb, "\nUse this EXACT structure for each of the %d objects:\n", b.batchSize)
	fmt.Fprintf(&sb, `[
  {
    "destination": "City Name",
    "country": "Country Name",
    "description": "Why this destination matches the preferences",
    "imageUrl": "https://images.unsplash.com/photo-example?w=800",
    "estimatedCost": {
      "total": %s,
      "breakdown": {"accommodation": %s, "transportation": %s, "food": %s, "activities": %s}
    },
    "highlights": ["Attraction 1", "Attraction 2", "Attraction 3"],
    "activities": [
      {"name": "Activity", "description": "What you will do", "duration": "2 hours", "cost": 50, "type": "adventure", "sustainabilityRating": 8}
    ],
    "accommodations": [
      {"name": "Stay Name", "type": "%s", "pricePerNight": %s, "amenities": ["WiFi"], "sustainabilityFeatures": ["Solar power"], "rating": 4.5}
    ],
    "transportation": [
      {"mode": "Public transit", "carbonEmissions": 5, "cost": 20, "duration": "30 minutes"}
    ],
    "sustainabilityScore": {"overall": 7, "transportation": 7, "accommodation": 7, "activities": 7, "localImpact": 7, "description": "Eco-friendly infrastructure", "tips": ["Use public transport"]},
    "weather": {"temperature": {"min": 20, "max": 30}, "conditions": "Pleasant", "bestMonths": ["May", "June"]},
    "localCuisine": ["Dish 1", "Dish 2"],
    "culturalTips": ["Tip 1", "Tip 2"]
  }
]
`,
		mid.Amount().String(),
		accommodation.Amount().String(),
		mid.Share(transportationShare).Amount().String(),
		mid.Share(foodShare).Amount().String(),
		mid.Share(activitiesShare).Amount().String(),
		prefs.AccommodationType,
		accommodation.PerDay(prefs.Duration.Days).Amount().String(),
	)
	sb.WriteString("\nimageUrl must be a direct https image URL or be omitted.\nSTART WITH [ AND END WITH ]")
	return sb.String()
}

func (b *PromptBuilder) fieldListPrompt(prefs types.UserPreferences) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Output a JSON array of exactly %d objects and nothing else.\n", b.batchSize)
	sb.WriteString("Traveler:\n")
	writePreferences(&sb, prefs)
	sb.WriteString("Each object has these fields:\n")
	for _, f := range recordFields {
		sb.WriteString("- ")
		sb.WriteString(f)
		sb.WriteString("\n")
	}
	sb.WriteString("All costs are plain numbers. Lists are never empty.")
	return sb.String()
}

func (b *PromptBuilder) minimalPrompt(prefs types.UserPreferences) string {
	return fmt.Sprintf(
		"JSON array only. Exactly %d objects. Keys: %s. Budget %s %s-%s, %d days, %s trip, %s climate.",
		b.batchSize,
		strings.Join(recordFields, "; "),
		prefs.Budget.Currency,
		prefs.Budget.Min.String(),
		prefs.Budget.Max.String(),
		prefs.Duration.Days,
		prefs.TripType,
		prefs.Climate,
	)
}
