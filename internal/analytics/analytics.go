package analytics

import (
	"sort"
)

const (
	LOGBOOK_SUMMARY_VERSION = 1
)

// WeekEntry is the part of a logbook the summary needs.
type WeekEntry struct {
	Week     int
	Hours    float64
	Reviewed bool
}

type Percentiles struct {
	P50 float64 `json:"p50"`
	P90 float64 `json:"p90"`
	P99 float64 `json:"p99"`
}

// LogbookSummary describes a student's logbook progress.
type LogbookSummary struct {
	Version       int         `json:"version"`
	WeeksLogged   int         `json:"weeksLogged"`
	WeeksReviewed int         `json:"weeksReviewed"`
	PendingWeeks  []int       `json:"pendingWeeks"`
	MissingWeeks  []int       `json:"missingWeeks"`
	TotalHours    float64     `json:"totalHours"`
	WeeklyHours   Percentiles `json:"weeklyHours"`
}

// GenerateSummary folds logbook entries into a summary. Entries for the same week (for example
// from different projects) count as one week with their hours added together; a week is reviewed
// only once all of its entries are. Does not need/use any Firebase connection.
func GenerateSummary(entries []*WeekEntry) *LogbookSummary {
	summary := &LogbookSummary{
		Version:      LOGBOOK_SUMMARY_VERSION,
		PendingWeeks: make([]int, 0),
		MissingWeeks: make([]int, 0),
	}

	hoursByWeek := make(map[int]float64)
	reviewedByWeek := make(map[int]bool)
	for _, entry := range entries {
		if entry.Week < 1 {
			continue
		}
		reviewed, seen := reviewedByWeek[entry.Week]
		reviewedByWeek[entry.Week] = entry.Reviewed && (reviewed || !seen)
		hoursByWeek[entry.Week] += entry.Hours
		summary.TotalHours += entry.Hours
	}

	weeks := make([]int, 0, len(hoursByWeek))
	for week := range hoursByWeek {
		weeks = append(weeks, week)
	}
	sort.Ints(weeks)

	var weeklyHours []float64
	for _, week := range weeks {
		weeklyHours = append(weeklyHours, hoursByWeek[week])
		if reviewedByWeek[week] {
			summary.WeeksReviewed++
		} else {
			summary.PendingWeeks = append(summary.PendingWeeks, week)
		}
	}
	summary.WeeksLogged = len(weeks)
	summary.MissingWeeks = MissingWeeks(weeks)
	summary.WeeklyHours = CalculatePercentiles(weeklyHours)

	return summary
}

// MissingWeeks returns the weeks between 1 and the latest logged week that have no entry. weeks
// must be sorted.
func MissingWeeks(weeks []int) []int {
	missing := make([]int, 0)
	next := 1
	for _, week := range weeks {
		for ; next < week; next++ {
			missing = append(missing, next)
		}
		if week >= next {
			next = week + 1
		}
	}
	return missing
}

func CalculatePercentiles(data []float64) Percentiles {
	if len(data) == 0 {
		return Percentiles{}
	}

	sort.Float64s(data)

	calculatePercentile := func(percentile float64) float64 {
		rank := percentile / 100 * float64(len(data)-1)
		rankInt := int(rank)

		// If the rank is an integer, return the value at that index
		if rank == float64(rankInt) {
			return data[rankInt]
		}

		// Otherwise, linearly interpolate
		baseline := data[rankInt]
		interpolation := (rank - float64(rankInt)) * (data[rankInt+1] - data[rankInt])

		return baseline + interpolation
	}

	return Percentiles{
		P50: calculatePercentile(50),
		P90: calculatePercentile(90),
		P99: calculatePercentile(99),
	}
}
