package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrequency(t *testing.T) {
	f, err := ParseFrequency("weekly")
	require.NoError(t, err)
	assert.Equal(t, FrequencyWeekly, f)

	f, err = ParseFrequency("  Monthly ")
	require.NoError(t, err)
	assert.Equal(t, FrequencyMonthly, f)

	_, err = ParseFrequency("fortnightly")
	assert.ErrorIs(t, err, ErrInvalidFrequency)

	_, err = ParseFrequency("")
	assert.ErrorIs(t, err, ErrInvalidFrequency)
}

func TestFrequency_OffsetDays(t *testing.T) {
	cases := map[Frequency]int{
		FrequencyDaily:     1,
		FrequencyWeekly:    7,
		FrequencyBiweekly:  14,
		FrequencyMonthly:   30,
		FrequencyQuarterly: 90,
		FrequencyYearly:    365,
	}
	for freq, want := range cases {
		days, err := freq.OffsetDays()
		require.NoError(t, err)
		assert.Equal(t, want, days, "frequency %s", freq)
	}

	_, err := Frequency("hourly").OffsetDays()
	assert.ErrorIs(t, err, ErrInvalidFrequency)
}

func TestFrequency_IsValid(t *testing.T) {
	assert.True(t, FrequencyDaily.IsValid())
	assert.True(t, FrequencyYearly.IsValid())
	assert.False(t, Frequency("sometimes").IsValid())
}
