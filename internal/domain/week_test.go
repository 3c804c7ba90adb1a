package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeekTag(t *testing.T) {
	// 2026-02-16 is a Monday.
	cfg := WeekConfig{BaseDate: "2026-02-18", BaseWeek: 1}

	cases := map[string]string{
		"2026-02-16": "W1",
		"2026-02-22": "W1", // Sunday closes the anchor week
		"2026-02-23": "W2",
		"2026-03-30": "W7",
		"2026-02-15": "W0",
		"2026-02-08": "W-1",
	}
	for date, want := range cases {
		assert.Equal(t, want, cfg.WeekTag(date), date)
	}
}

func TestWeekTag_DefaultsAndInvalid(t *testing.T) {
	assert.Equal(t, "", WeekConfig{}.WeekTag("2026-02-16"))
	assert.Equal(t, "W1", WeekConfig{BaseDate: "2026-02-16"}.WeekTag("2026-02-17"))
	assert.Equal(t, "", WeekConfig{BaseDate: "2026-02-16"}.WeekTag("not-a-date"))
	assert.Equal(t, "", WeekConfig{BaseDate: "bad"}.WeekTag("2026-02-16"))
}
