package planner

import (
	"time"

	"mealbook/internal/recipe"
)

// Slot is one of the three meals within a single day's plan.
type Slot string

const (
	SlotBreakfast Slot = "breakfast"
	SlotLunch     Slot = "lunch"
	SlotDinner    Slot = "dinner"
)

// Slots lists the meal slots in display order.
var Slots = []Slot{SlotBreakfast, SlotLunch, SlotDinner}

// DailyPlan holds the three meal slots of one day, each optionally
// holding a recipe.
type DailyPlan struct {
	Breakfast *recipe.Recipe `json:"breakfast"`
	Lunch     *recipe.Recipe `json:"lunch"`
	Dinner    *recipe.Recipe `json:"dinner"`
}

// Get returns the recipe assigned to the slot, or nil.
func (d DailyPlan) Get(s Slot) *recipe.Recipe {
	switch s {
	case SlotBreakfast:
		return d.Breakfast
	case SlotLunch:
		return d.Lunch
	case SlotDinner:
		return d.Dinner
	}
	return nil
}

func (d DailyPlan) set(s Slot, r *recipe.Recipe) DailyPlan {
	switch s {
	case SlotBreakfast:
		d.Breakfast = r
	case SlotLunch:
		d.Lunch = r
	case SlotDinner:
		d.Dinner = r
	}
	return d
}

// WeeklyPlan maps ISO date strings to the day's plan.
type WeeklyPlan map[string]DailyPlan

const dateLayout = "2006-01-02"

// DateKey formats a time as the plan's ISO date key.
func DateKey(t time.Time) string {
	return t.Format(dateLayout)
}

// StartOfWeek returns the Monday at or before t, at midnight.
func StartOfWeek(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

// WeekDates returns the 7 date keys of the week starting at weekStart.
func WeekDates(weekStart time.Time) []string {
	dates := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		dates = append(dates, DateKey(weekStart.AddDate(0, 0, i)))
	}
	return dates
}

// InitializeWeek ensures a DailyPlan entry exists for each of the 7 days
// starting at weekStart. Entries for dates already present are kept.
func InitializeWeek(plan WeeklyPlan, weekStart time.Time) {
	for _, date := range WeekDates(weekStart) {
		if _, ok := plan[date]; !ok {
			plan[date] = DailyPlan{}
		}
	}
}

// AssignRecipe sets the given slot on the given date, leaving all other
// slots untouched. It is a no-op when the date is not in the plan; the
// caller is expected to have initialized the week first.
func AssignRecipe(plan WeeklyPlan, date string, slot Slot, rec *recipe.Recipe) {
	day, ok := plan[date]
	if !ok {
		return
	}
	plan[date] = day.set(slot, rec)
}

// RemoveRecipe clears the slot to empty.
func RemoveRecipe(plan WeeklyPlan, date string, slot Slot) {
	day, ok := plan[date]
	if !ok {
		return
	}
	plan[date] = day.set(slot, nil)
}

// SwapSlots moves the recipe at source into target; if target was
// non-empty, its prior recipe moves to source. Dragging a filled slot
// onto another slot exchanges their contents rather than discarding
// either. A swap with itself is a no-op.
func SwapSlots(plan WeeklyPlan, srcDate string, srcSlot Slot, dstDate string, dstSlot Slot) {
	if srcDate == dstDate && srcSlot == dstSlot {
		return
	}

	src, srcOK := plan[srcDate]
	dst, dstOK := plan[dstDate]
	if !srcOK || !dstOK {
		return
	}

	moved := src.Get(srcSlot)
	displaced := dst.Get(dstSlot)

	plan[dstDate] = dst.set(dstSlot, moved)
	if srcDate == dstDate {
		// Same day: re-read so the first write is not lost.
		plan[srcDate] = plan[srcDate].set(srcSlot, displaced)
		return
	}
	plan[srcDate] = src.set(srcSlot, displaced)
}
