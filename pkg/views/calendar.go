package views

import "time"

// CalendarCell is one cell of the month grid.
type CalendarCell struct {
	Date    time.Time
	Key     string // YYYY-MM-DD, the task due-date key
	InMonth bool
}

// CalendarGridSize is fixed so the grid always spans six full weeks.
const CalendarGridSize = 42

// CalendarGrid produces exactly 42 cells for the month containing the
// reference date, starting from the Sunday on or before the 1st. Up to two
// weeks of adjacent months pad the edges.
func CalendarGrid(year int, month time.Month) []CalendarCell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	start := first.AddDate(0, 0, -int(first.Weekday()))

	cells := make([]CalendarCell, 0, CalendarGridSize)
	for i := 0; i < CalendarGridSize; i++ {
		day := start.AddDate(0, 0, i)
		cells = append(cells, CalendarCell{
			Date:    day,
			Key:     day.Format("2006-01-02"),
			InMonth: day.Month() == month && day.Year() == year,
		})
	}
	return cells
}
