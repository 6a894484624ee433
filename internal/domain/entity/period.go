package entity

import (
	"fmt"
	"time"
)

// Period is one evaluation window: a calendar day or an ISO week in the
// configured timezone. End is exclusive.
type Period struct {
	Key   string
	Start time.Time
	End   time.Time
}

// Elapsed returns true if the period has fully ended at the given instant
func (p Period) Elapsed(now time.Time) bool {
	return !p.End.After(now)
}

// DailyPeriodAt returns the calendar-day period containing t in loc
func DailyPeriodAt(t time.Time, loc *time.Location) Period {
	lt := t.In(loc)
	start := time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)

	return Period{
		Key:   start.Format("2006-01-02"),
		Start: start,
		End:   start.AddDate(0, 0, 1),
	}
}

// WeeklyPeriodAt returns the ISO-week period containing t in loc.
// Weeks start on Monday; keys follow the "2006-W01" convention.
func WeeklyPeriodAt(t time.Time, loc *time.Location) Period {
	lt := t.In(loc)
	day := time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)

	// Roll back to the Monday of this week
	daysSinceMonday := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -daysSinceMonday)

	year, week := start.ISOWeek()

	return Period{
		Key:   fmt.Sprintf("%04d-W%02d", year, week),
		Start: start,
		End:   start.AddDate(0, 0, 7),
	}
}

// PeriodAt returns the goal's period containing t in loc
func (g *Goal) PeriodAt(t time.Time, loc *time.Location) Period {
	if g.IsWeekly() {
		return WeeklyPeriodAt(t, loc)
	}
	return DailyPeriodAt(t, loc)
}

// DuePeriods returns the goal's completed periods as of now, ascending by
// start time, capped at max. The period containing now is never due: only
// fully elapsed windows are settled. Periods that ended before the goal
// existed are excluded.
func (g *Goal) DuePeriods(now time.Time, loc *time.Location, max int) []Period {
	if max <= 0 {
		return nil
	}

	var due []Period
	cur := g.PeriodAt(now, loc)

	for len(due) < max {
		// Step to the period immediately before cur
		cur = g.PeriodAt(cur.Start.Add(-time.Second), loc)

		if !cur.End.After(g.CreatedAt) {
			break
		}

		due = append(due, cur)
	}

	// Reverse into ascending order
	for i, j := 0, len(due)-1; i < j; i, j = i+1, j-1 {
		due[i], due[j] = due[j], due[i]
	}

	return due
}
