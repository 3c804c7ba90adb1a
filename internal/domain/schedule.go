package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format used for Schedule.Date.
const DateLayout = "2006-01-02"

// TimeLayout is the clock format used for Schedule.Time.
const TimeLayout = "15:04"

// Relation is a typed link from the owning schedule to TargetID.
// TargetID may name a schedule that has since been deleted.
type Relation struct {
	TargetID string       `json:"id"`
	Type     RelationType `json:"type"`
}

type Schedule struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Date      string     `json:"date"`
	Time      string     `json:"time"`
	AllDay    bool       `json:"allDay"`
	Owner     string     `json:"owner"`
	Completed bool       `json:"completed"`
	Relations []Relation `json:"relations"`

	// Position orders schedules within the store.
	Position int `json:"-"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Validate checks the fields the store relies on.
func (s *Schedule) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if _, err := ParseDate(s.Date); err != nil {
		return err
	}
	if !s.AllDay && s.Time != "" {
		if _, err := time.Parse(TimeLayout, s.Time); err != nil {
			return fmt.Errorf("time %q must be HH:MM", s.Time)
		}
	}
	for _, r := range s.Relations {
		if !r.Type.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidRelationType, r.Type)
		}
	}
	return nil
}

// Predecessors returns the target ids of PARENT relations in declaration order.
func (s *Schedule) Predecessors() []string {
	return s.relationTargets(RelationParent)
}

// ParallelIDs returns the target ids of PARALLEL relations in declaration order.
func (s *Schedule) ParallelIDs() []string {
	return s.relationTargets(RelationParallel)
}

func (s *Schedule) relationTargets(t RelationType) []string {
	var ids []string
	for _, r := range s.Relations {
		if r.Type == t {
			ids = append(ids, r.TargetID)
		}
	}
	return ids
}

// HasRelation reports whether s declares a relation of type t to targetID.
func (s *Schedule) HasRelation(targetID string, t RelationType) bool {
	for _, r := range s.Relations {
		if r.TargetID == targetID && r.Type == t {
			return true
		}
	}
	return false
}

// When returns the date plus either the time or "all day".
func (s *Schedule) When() string {
	if s.AllDay || s.Time == "" {
		return s.Date + " all day"
	}
	return s.Date + " " + s.Time
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q must be YYYY-MM-DD", ErrInvalidDate, s)
	}
	return t, nil
}
