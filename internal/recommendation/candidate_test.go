package recommendation

import (
	"testing"

	apperrors "github.com/NomadCrew/vacation-recommender/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	c, err := Decode(`[{"destination":"Lisbon"},{"destination":"Porto"}]`)
	require.NoError(t, err)
	assert.True(t, c.IsArray())
	assert.Equal(t, 2, c.Len())

	_, err = Decode(`[{"destination":"Lisbon",}`)
	require.Error(t, err)
	assert.Equal(t, apperrors.DecodeError, apperrors.KindOf(err))
}

func TestCandidateExtraction(t *testing.T) {
	c, err := Decode(`{
		"destination": "  Kyoto ",
		"blank": "   ",
		"cost": 0,
		"total": "1200",
		"highlights": ["Fushimi Inari", "", 42, "Arashiyama", "Gion"],
		"empty": [],
		"activities": [{"name": "Tea ceremony"}, "not an object", {"name": "Temple walk"}],
		"weather": {"temperature": {"min": 4, "max": 18}}
	}`)
	require.NoError(t, err)

	s, ok := c.String("destination")
	assert.True(t, ok)
	assert.Equal(t, "Kyoto", s)

	_, ok = c.String("blank")
	assert.False(t, ok, "blank strings count as missing")

	_, ok = c.String("cost")
	assert.False(t, ok, "numbers are not strings")

	n, ok := c.Number("cost")
	assert.True(t, ok, "explicit zero is a value")
	assert.Equal(t, float64(0), n)

	_, ok = c.Number("total")
	assert.False(t, ok, "numeric strings are the wrong type")

	list, ok := c.Strings("highlights", 2)
	assert.True(t, ok)
	assert.Equal(t, []string{"Fushimi Inari", "Arashiyama"}, list)

	_, ok = c.Strings("empty", 5)
	assert.False(t, ok)

	_, ok = c.Strings("missing", 5)
	assert.False(t, ok)

	objs, ok := c.Objects("activities", 5)
	assert.True(t, ok)
	require.Len(t, objs, 2)
	name, _ := objs[1].String("name")
	assert.Equal(t, "Temple walk", name)

	weather, ok := c.Object("weather")
	assert.True(t, ok)
	low, ok := weather.Number("temperature.min")
	assert.True(t, ok)
	assert.Equal(t, float64(4), low)

	_, ok = c.Object("destination")
	assert.False(t, ok)
}

func TestCandidateFieldAccessOnNonObject(t *testing.T) {
	c, err := Decode(`["just", "strings"]`)
	require.NoError(t, err)

	items := c.Items()
	require.Len(t, items, 2)
	assert.False(t, items[0].IsObject())

	_, ok := items[0].String("destination")
	assert.False(t, ok)
	_, ok = c.Number("0")
	assert.False(t, ok, "arrays do not expose path lookups")
}
