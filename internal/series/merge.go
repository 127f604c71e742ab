// Package series maintains per-instrument daily bar series.
package series

import (
	"sort"

	"ashare/internal/models"
)

// Merge combines an existing series with a freshly decoded batch. Every date
// present in either input appears exactly once; when both carry the same
// date the existing bar wins, so re-importing an overlapping batch is a
// no-op for the dates already persisted. The result is sorted ascending by
// date string.
func Merge(existing, batch []models.DailyBar) []models.DailyBar {
	seen := make(map[string]struct{}, len(existing))
	merged := make([]models.DailyBar, 0, len(existing)+len(batch))
	for _, bar := range existing {
		if _, dup := seen[bar.Date]; dup {
			continue
		}
		seen[bar.Date] = struct{}{}
		merged = append(merged, bar)
	}
	for _, bar := range batch {
		if _, dup := seen[bar.Date]; dup {
			continue
		}
		seen[bar.Date] = struct{}{}
		merged = append(merged, bar)
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Date < merged[j].Date
	})
	return merged
}

// NewDates returns the bars from batch whose date is absent from existing,
// in batch order. This is what the persistence layer appends.
func NewDates(existing, batch []models.DailyBar) []models.DailyBar {
	seen := make(map[string]struct{}, len(existing))
	for _, bar := range existing {
		seen[bar.Date] = struct{}{}
	}
	var fresh []models.DailyBar
	for _, bar := range batch {
		if _, dup := seen[bar.Date]; dup {
			continue
		}
		seen[bar.Date] = struct{}{}
		fresh = append(fresh, bar)
	}
	return fresh
}
