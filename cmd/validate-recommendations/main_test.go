package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVariedPreferencesAreValid(t *testing.T) {
	seen := map[string]bool{}
	for n := 1; n <= 10; n++ {
		p := variedPreferences(n)
		assert.NoError(t, p.Validate(), "run %d", n)
		assert.True(t, p.Budget.Min.LessThan(p.Budget.Max))
		seen[string(p.TripType)] = true
	}
	assert.Len(t, seen, 5)
}

func TestSummarize(t *testing.T) {
	s := summarize([]runResult{
		{number: 1, success: true, attempts: 1},
		{number: 2, success: true, attempts: 2},
		{number: 3, attempts: 3},
	})

	assert.Equal(t, 3, s.total)
	assert.Equal(t, 2, s.successes)
	assert.InDelta(t, 2.0, s.avgAttempts, 1e-9)
	assert.Equal(t, []int{3}, s.failed)
	assert.InDelta(t, 2.0/3.0, s.rate(), 1e-9)

	assert.Zero(t, summarize(nil).rate())
}
