package cli

import (
	"context"
	"fmt"
	"strings"
)

// resolveScheduleID accepts a full id, a unique id prefix, or a unique
// case-insensitive title and returns the full id.
func resolveScheduleID(ctx context.Context, app *App, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("schedule ID is required")
	}

	all, err := app.Schedules.AllSchedules(ctx)
	if err != nil {
		return "", err
	}

	// 1. Exact id
	for _, s := range all {
		if s.ID == input {
			return s.ID, nil
		}
	}

	// 2. Id prefix
	var matches []string
	for _, s := range all {
		if strings.HasPrefix(s.ID, input) {
			matches = append(matches, s.ID)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
	default:
		return "", fmt.Errorf("schedule ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}

	// 3. Exact title
	for _, s := range all {
		if strings.EqualFold(s.Title, input) {
			matches = append(matches, s.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("schedule not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("title %q matches %d schedules; use the ID", input, len(matches))
	}
}
