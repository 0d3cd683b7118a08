package telegram

import (
	"fmt"
	"strings"
	"time"

	"mealbook/internal/planner"
)

// formatWeek renders the visible window of the plan store as Markdown.
func formatWeek(ps *planner.Store) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 *Week of %s*\n", ps.WeekStart().Format("Jan 2, 2006"))

	plan := ps.Plan()
	for _, date := range ps.WeekDates() {
		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			continue
		}
		fmt.Fprintf(&sb, "\n*%s %s*\n", day.Format("Mon"), date)

		daily := plan[date]
		for _, slot := range planner.Slots {
			rec := daily.Get(slot)
			if rec == nil {
				fmt.Fprintf(&sb, "  %s: —\n", slot)
				continue
			}
			fmt.Fprintf(&sb, "  %s: %s", slot, rec.Title)
			if rec.PrepTime > 0 {
				fmt.Fprintf(&sb, " (%d mins)", rec.PrepTime)
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
