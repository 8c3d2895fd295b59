package profile

import (
	"fmt"
	"time"

	"github.com/rezkam/taskdesk/internal/domain"
)

const week = 7 * 24 * time.Hour

// dateLabel is the MM/DD layout used for window bounds.
const dateLabel = "01/02"

// Anchor truncates t to midnight UTC of the same calendar day.
func Anchor(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WeeklyWindows returns n contiguous, non-overlapping seven-day windows ending at anchor,
// oldest first. Window i counted back from anchor covers
// [anchor-(i+1)*7d, anchor-i*7d).
func WeeklyWindows(anchor time.Time, n int) []domain.WeekWindow {
	if n <= 0 {
		return nil
	}

	windows := make([]domain.WeekWindow, n)
	for i := range n {
		back := n - 1 - i
		windows[i] = domain.WeekWindow{
			Start: anchor.Add(-time.Duration(back+1) * week),
			End:   anchor.Add(-time.Duration(back) * week),
		}
	}
	return windows
}

// weeklyStats pairs windows with their counts and labels them "Week 1" (oldest) onward.
func weeklyStats(windows []domain.WeekWindow, counts []int) ([]domain.WeeklyStat, error) {
	if len(counts) != len(windows) {
		return nil, fmt.Errorf("weekly counts: got %d buckets for %d windows", len(counts), len(windows))
	}

	stats := make([]domain.WeeklyStat, len(windows))
	for i, w := range windows {
		stats[i] = domain.WeeklyStat{
			Label:       fmt.Sprintf("Week %d", i+1),
			Completed:   counts[i],
			WindowStart: w.Start,
			WindowEnd:   w.End,
			StartLabel:  w.Start.Format(dateLabel),
			EndLabel:    w.End.Format(dateLabel),
		}
	}
	return stats, nil
}
