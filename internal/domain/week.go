package domain

import (
	"fmt"
	"time"
)

// WeekConfig anchors semester week numbering: BaseDate falls in week BaseWeek.
type WeekConfig struct {
	BaseDate string `yaml:"base_date"`
	BaseWeek int    `yaml:"base_week"`
}

// Enabled reports whether a base date is configured.
func (c WeekConfig) Enabled() bool { return c.BaseDate != "" }

// WeekTag returns the label "W<n>" for date, counting Monday-aligned weeks
// from the anchor. It returns "" when unconfigured or either date is malformed.
func (c WeekConfig) WeekTag(date string) string {
	if !c.Enabled() {
		return ""
	}
	anchor, err := ParseDate(c.BaseDate)
	if err != nil {
		return ""
	}
	target, err := ParseDate(date)
	if err != nil {
		return ""
	}
	base := c.BaseWeek
	if base == 0 {
		base = 1
	}
	days := int(mondayOf(target).Sub(mondayOf(anchor)).Hours() / 24)
	return fmt.Sprintf("W%d", floorDiv(days, 7)+base)
}

func mondayOf(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, time.UTC)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
