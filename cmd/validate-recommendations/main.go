// Command validate-recommendations runs the live generation pipeline several
// times with varied questionnaires and reports how reliably it produces a
// full batch.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/NomadCrew/vacation-recommender/config"
	"github.com/NomadCrew/vacation-recommender/internal/recommendation"
	"github.com/NomadCrew/vacation-recommender/logger"
	"github.com/NomadCrew/vacation-recommender/pkg/perplexity"
	"github.com/NomadCrew/vacation-recommender/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type runResult struct {
	number   int
	success  bool
	attempts int
	count    int
	lastKind string
	elapsed  time.Duration
}

type summary struct {
	total       int
	successes   int
	avgAttempts float64
	failed      []int
}

func main() {
	runs := flag.Int("runs", 10, "Number of generation runs")
	pause := flag.Duration("pause", 500*time.Millisecond, "Pause between runs to stay under upstream rate limits")
	flag.Parse()

	logger.InitLogger()
	log := logger.GetLogger()
	defer logger.Close()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	client := perplexity.NewClient(cfg.Completion.APIKey, cfg.Completion.BaseURL, cfg.Completion.Model, cfg.Completion.Timeout())
	orchestrator, err := recommendation.NewOrchestratorFromConfig(cfg.Pipeline, cfg.Completion, client)
	if err != nil {
		log.Fatalf("Failed to build generation pipeline: %v", err)
	}

	fmt.Printf("Validating %d runs against model %s\n", *runs, cfg.Completion.Model)
	fmt.Println(strings.Repeat("=", 60))

	ctx := context.Background()
	results := make([]runResult, 0, *runs)
	for i := 1; i <= *runs; i++ {
		fmt.Printf("Run %d/%d: ", i, *runs)
		r := runOnce(ctx, orchestrator, i)
		results = append(results, r)

		if r.success {
			fmt.Printf("pass (%d attempt(s), %d destinations, %s)\n", r.attempts, r.count, r.elapsed.Round(time.Millisecond))
		} else {
			fmt.Printf("FAIL after %d attempt(s), last error %s\n", r.attempts, r.lastKind)
		}

		if i < *runs {
			time.Sleep(*pause)
		}
	}

	s := summarize(results)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Successful: %d/%d (%.0f%%)\n", s.successes, s.total, s.rate()*100)
	fmt.Printf("Average attempts: %.1f\n", s.avgAttempts)
	if len(s.failed) > 0 {
		fmt.Printf("Failed runs: %v\n", s.failed)
		os.Exit(1)
	}
}

func runOnce(ctx context.Context, o *recommendation.Orchestrator, n int) runResult {
	start := time.Now()
	res, err := o.Run(ctx, uuid.NewString(), variedPreferences(n))
	r := runResult{number: n, elapsed: time.Since(start)}

	if err != nil {
		var exhausted *recommendation.ExhaustedRetriesError
		if errors.As(err, &exhausted) {
			r.attempts = exhausted.Attempts
			r.lastKind = string(exhausted.LastKind)
		} else {
			r.lastKind = err.Error()
		}
		return r
	}

	r.success = true
	r.attempts = res.Attempts
	r.count = len(res.Recommendations)
	return r
}

var activitySets = [][]string{
	{"hiking", "water sports", "wildlife", "photography", "local cuisine"},
	{"spa", "beach", "yoga", "meditation", "reading"},
	{"museums", "historical sites", "local cuisine", "art galleries", "festivals"},
	{"fine dining", "sunset viewing", "wine tasting", "scenic walks"},
	{"theme parks", "beaches", "zoos", "interactive museums", "water parks"},
}

// variedPreferences builds the nth questionnaire so consecutive runs cover
// different budgets, durations and trip styles.
func variedPreferences(n int) types.UserPreferences {
	tripTypes := []types.TripType{types.TripTypeSolo, types.TripTypeCouple, types.TripTypeFamily, types.TripTypeFriends, types.TripTypeBusiness}
	paces := []types.Pace{types.PaceRelaxed, types.PaceModerate, types.PaceFast}
	climates := []types.Climate{types.ClimateTropical, types.ClimateTemperate, types.ClimateCold, types.ClimateAny}

	p := types.UserPreferences{
		Budget: types.Budget{
			Min:      decimal.NewFromInt(int64(1000 + n*500)),
			Max:      decimal.NewFromInt(int64(3000 + n*500)),
			Currency: "USD",
		},
		Duration:          types.TripDuration{Days: 3 + (n%3)*2, Flexibility: types.DurationExact},
		TripType:          tripTypes[n%len(tripTypes)],
		AccommodationType: types.AccommodationResort,
		Activities:        activitySets[n%len(activitySets)],
		Pace:              paces[n%len(paces)],
		Climate:           climates[n%len(climates)],
		Sustainability:    types.SustainabilityMedium,
	}
	if n%2 == 0 {
		p.Duration.Flexibility = types.DurationFlexible
		p.AccommodationType = types.AccommodationHotel
		p.Sustainability = types.SustainabilityHigh
	}
	return p
}

func summarize(results []runResult) summary {
	s := summary{total: len(results)}
	totalAttempts := 0
	for _, r := range results {
		totalAttempts += r.attempts
		if r.success {
			s.successes++
		} else {
			s.failed = append(s.failed, r.number)
		}
	}
	if s.total > 0 {
		s.avgAttempts = float64(totalAttempts) / float64(s.total)
	}
	return s
}

func (s summary) rate() float64 {
	if s.total == 0 {
		return 0
	}
	return float64(s.successes) / float64(s.total)
}
