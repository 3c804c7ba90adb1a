package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/cstcaptive/cstlendar/internal/domain"
)

// ScheduleShowData holds everything rendered by FormatScheduleShow.
type ScheduleShowData struct {
	Schedule     *domain.Schedule
	Predecessors []domain.Schedule
	Descendants  []domain.Schedule
	Parallels    []domain.Schedule
	// Dangling lists relation targets that no longer exist.
	Dangling []domain.Relation
	Week     domain.WeekConfig
}

// scheduleWeekCol is the WEEK column; list rows are ruled off per week.
const scheduleWeekCol = 3

// FormatScheduleList renders schedules in store order inside a bordered box.
func FormatScheduleList(schedules []*domain.Schedule, week domain.WeekConfig, now time.Time) string {
	if len(schedules) == 0 {
		return Dim("No schedules yet. Add one with: cstlendar schedule add --title ... --date YYYY-MM-DD")
	}
	cols := []Column{
		{Title: "ID", Align: lipgloss.Left},
		{Title: "TITLE", Align: lipgloss.Left},
		{Title: "WHEN", Align: lipgloss.Left},
		{Title: "WEEK", Align: lipgloss.Center},
		{Title: "DUE", Align: lipgloss.Right},
		{Title: "STATUS", Align: lipgloss.Left},
		{Title: "LINKS", Align: lipgloss.Right},
	}
	rows := make([][]string, 0, len(schedules))
	for _, s := range schedules {
		tag := WeekBadge(week.WeekTag(s.Date))
		if tag == "" {
			tag = Dim("--")
		}
		rows = append(rows, []string{
			TruncID(s.ID),
			Bold(s.Title),
			s.When(),
			tag,
			DueStyled(s.Date, s.Completed, now),
			StatusPill(s.Completed),
			relationSummary(s),
		})
	}
	return RenderBox("Schedules", RenderGroupedTable(cols, rows, scheduleWeekCol))
}

// FormatScheduleShow renders one schedule with its one-hop neighborhood.
func FormatScheduleShow(d ScheduleShowData) string {
	s := d.Schedule
	var b strings.Builder
	label := lipgloss.NewStyle().Foreground(ColorDim).Width(10)
	field := func(name, value string) {
		b.WriteString(label.Render(name) + value + "\n")
	}
	field("ID", s.ID)
	field("When", s.When())
	if tag := d.Week.WeekTag(s.Date); tag != "" {
		field("Week", WeekBadge(tag))
	}
	if s.Owner != "" {
		field("Owner", s.Owner)
	}
	field("Status", StatusPill(s.Completed))

	section := func(title string, t domain.RelationType, list []domain.Schedule) {
		if len(list) == 0 {
			return
		}
		b.WriteString("\n" + RelationColor(t).Render(title) + "\n")
		for _, n := range list {
			b.WriteString("  " + neighborLine(n) + "\n")
		}
	}
	section("Predecessors", domain.RelationParent, d.Predecessors)
	section("Descendants", domain.RelationParent, d.Descendants)
	section("Parallel", domain.RelationParallel, d.Parallels)
	if len(d.Dangling) > 0 {
		b.WriteString("\n" + StyleRed.Render("Missing targets") + "\n")
		for _, r := range d.Dangling {
			b.WriteString(fmt.Sprintf("  %s %s\n", RelationBadge(r.Type), Dim(r.TargetID)))
		}
	}
	return RenderBox(s.Title, strings.TrimRight(b.String(), "\n"))
}

// FormatRelations lists the relations s declares, resolving titles through
// lookup. Targets lookup cannot find are marked missing.
func FormatRelations(s *domain.Schedule, lookup func(id string) (domain.Schedule, bool)) string {
	if len(s.Relations) == 0 {
		return Dim(fmt.Sprintf("%s declares no relations.", s.Title))
	}
	cols := Cols("TYPE", "TARGET", "TITLE")
	rows := make([][]string, 0, len(s.Relations))
	for _, r := range s.Relations {
		title := StyleRed.Render("(missing)")
		if t, ok := lookup(r.TargetID); ok {
			title = t.Title
		}
		rows = append(rows, []string{RelationBadge(r.Type), TruncID(r.TargetID), title})
	}
	return RenderBox("Relations of "+s.Title, RenderTable(cols, rows))
}

// FormatSearchResults renders title matches, or a hint when there are none.
func FormatSearchResults(query string, matches []domain.Schedule) string {
	if len(matches) == 0 {
		return Dim(fmt.Sprintf("No schedules match %q.", query))
	}
	var b strings.Builder
	for _, m := range matches {
		b.WriteString(neighborLine(m) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func neighborLine(s domain.Schedule) string {
	mark := StyleBlue.Render("○")
	title := s.Title
	if s.Completed {
		mark = StyleGreen.Render("✔")
		title = Dim(title)
	}
	return fmt.Sprintf("%s %s  %s  %s", mark, title, Dim(s.Date), TruncID(s.ID))
}

func relationSummary(s *domain.Schedule) string {
	parents := len(s.Predecessors())
	parallels := len(s.ParallelIDs())
	if parents == 0 && parallels == 0 {
		return Dim("--")
	}
	var parts []string
	if parents > 0 {
		parts = append(parts, RelationColor(domain.RelationParent).Render(fmt.Sprintf("▲%d", parents)))
	}
	if parallels > 0 {
		parts = append(parts, RelationColor(domain.RelationParallel).Render(fmt.Sprintf("═%d", parallels)))
	}
	return strings.Join(parts, " ")
}
