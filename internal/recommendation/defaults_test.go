package recommendation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinDefaultsAreValid(t *testing.T) {
	require.NoError(t, BuiltinDefaults().Validate())
}

func TestLoadDefaultsFileOverlaysBuiltins(t *testing.T) {
	d, err := LoadDefaultsFile("testdata/defaults.yaml")
	require.NoError(t, err)

	assert.Equal(t, "Details for this destination are still being gathered.", d.Description)
	assert.Equal(t, []string{"City centre", "Local markets"}, d.Highlights)
	assert.Equal(t, []string{"WiFi", "Air conditioning"}, d.Accommodation.Amenities)
	assert.Equal(t, 3.5, d.Accommodation.Rating)
	assert.Equal(t, "Check the forecast before you travel", d.Weather.Conditions)

	builtin := BuiltinDefaults()
	assert.Equal(t, builtin.Accommodation.Name, d.Accommodation.Name, "unset keys keep built-in values")
	assert.Equal(t, builtin.Weather.BestMonths, d.Weather.BestMonths)
	assert.Equal(t, builtin.CulturalTips, d.CulturalTips)
}

func TestLoadDefaultsFileMissing(t *testing.T) {
	_, err := LoadDefaultsFile("testdata/does-not-exist.yaml")
	assert.Error(t, err)
}

func TestParseDefaultsRejectsEmptyLists(t *testing.T) {
	_, err := ParseDefaults([]byte("local_cuisine: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "local_cuisine")

	_, err = ParseDefaults([]byte("sustainability:\n  score: 12\n"))
	assert.Error(t, err)

	_, err = ParseDefaults([]byte("highlights: [unterminated\n"))
	assert.Error(t, err)
}

func TestParseDefaultsRejectsBlankText(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		field string
	}{
		{"whitespace description", "description: \"   \"\n", "description"},
		{"tab-only weather conditions", "weather:\n  conditions: \"\\t\"\n", "weather.conditions"},
		{"blank list entry", "local_cuisine: [\"Paella\", \" \"]\n", "local_cuisine[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDefaults([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestDefaultsProviderReturnsCopies(t *testing.T) {
	var p DefaultsProvider = BuiltinDefaults()

	first := p.Defaults()
	first.Highlights[0] = "mutated"

	assert.Equal(t, "Local attractions", p.Defaults().Highlights[0])
}
