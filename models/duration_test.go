package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateTotalHours(t *testing.T) {
	cases := []struct {
		start, end string
		want       float64
	}{
		{"08:00", "17:00", 9.00},
		{"22:00", "06:00", 8.00},
		{"17:00", "17:00", 0},
		{"17:00", "19:30", 2.50},
		{"16:20", "18:00", 1.67},
		{"23:59", "00:00", 0.02},
		{"00:00", "23:59", 23.98},
		{"18:00", "17:59", 23.98},
	}
	for _, c := range cases {
		got := CalculateTotalHours(MustParseClock(c.start), MustParseClock(c.end))
		assert.Equal(t, c.want, got, "%s -> %s", c.start, c.end)
	}
}

func TestCalculateTotalHours_NeverNegative(t *testing.T) {
	for sh := 0; sh < 24; sh++ {
		for eh := 0; eh < 24; eh++ {
			start := ClockTime{Hour: sh, Minute: 15}
			end := ClockTime{Hour: eh, Minute: 45}
			got := CalculateTotalHours(start, end)

			minutes := end.Minutes() - start.Minutes()
			if minutes < 0 {
				minutes += 1440
			}
			assert.GreaterOrEqual(t, got, 0.0)
			assert.Less(t, got, 24.0)
			assert.Equal(t, RoundHours(float64(minutes)/60), got)
		}
	}
}

func TestParseClock(t *testing.T) {
	c, err := ParseClock("07:05")
	require.NoError(t, err)
	assert.Equal(t, ClockTime{Hour: 7, Minute: 5}, c)

	c, err = ParseClock("22:30:00")
	require.NoError(t, err)
	assert.Equal(t, "22:30", c.String())

	c, err = ParseClock("08:00:30")
	require.NoError(t, err)
	assert.Equal(t, "08:00", c.String())

	invalid := []string{"", "7", "24:00", "12:60", "ab:cd", "1:2:3:4", "-1:00", "08:00:zz", "08:00:60", "08:00:"}
	for _, s := range invalid {
		_, err := ParseClock(s)
		assert.Error(t, err, "ParseClock(%q)", s)
	}
}

func TestClockTime_ScanAndValue(t *testing.T) {
	var c ClockTime
	require.NoError(t, c.Scan("06:45:00"))
	assert.Equal(t, ClockTime{Hour: 6, Minute: 45}, c)

	require.NoError(t, c.Scan([]byte("13:10")))
	v, err := c.Value()
	require.NoError(t, err)
	assert.Equal(t, "13:10", v)

	assert.Error(t, c.Scan(42))
}

func TestClockTime_JSON(t *testing.T) {
	var payload struct {
		Start ClockTime `json:"start"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"start":"21:15"}`), &payload))
	assert.Equal(t, ClockTime{Hour: 21, Minute: 15}, payload.Start)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"21:15"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"start":"25:00"}`), &payload))
}
