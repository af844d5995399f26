package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-04")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-04", d.String())

	_, err = ParseDate("04/01/2024")
	assert.Error(t, err)
}

func TestDateAddDays(t *testing.T) {
	d, err := ParseDate("2024-01-01")
	require.NoError(t, err)

	assert.Equal(t, "2024-01-04", d.AddDays(3).String())
	assert.Equal(t, "2023-12-31", d.AddDays(-1).String())
	// Month rollover.
	assert.Equal(t, "2024-02-01", d.AddDays(31).String())
}

func TestDateWeekdayMondayBased(t *testing.T) {
	monday, err := ParseDate("2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, 0, monday.Weekday())

	sunday, err := ParseDate("2024-01-07")
	require.NoError(t, err)
	assert.Equal(t, 6, sunday.Weekday())
}

func TestDateJSONRoundTrip(t *testing.T) {
	d, err := ParseDate("2024-06-15")
	require.NoError(t, err)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-06-15"`, string(data))

	var decoded Date
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, d.Equal(decoded))

	var fromNull Date
	require.NoError(t, json.Unmarshal([]byte("null"), &fromNull))
	assert.True(t, fromNull.IsZero())
}
