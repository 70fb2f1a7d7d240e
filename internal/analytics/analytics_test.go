package analytics

import (
	"math"
	"reflect"
	"testing"
)

func createEntries() []*WeekEntry {
	return []*WeekEntry{
		// Reviewed
		{Week: 1, Hours: 4, Reviewed: true},
		{Week: 2, Hours: 6, Reviewed: true},

		// Pending
		{Week: 4, Hours: 10},

		// Same week logged for a second project; week 5 is only partly reviewed
		{Week: 5, Hours: 3, Reviewed: true},
		{Week: 5, Hours: 2},

		// Ignored
		{Week: 0, Hours: 100},
	}
}

func TestGenerateSummary(t *testing.T) {
	summary := GenerateSummary(createEntries())

	if summary.WeeksLogged != 4 {
		t.Errorf("Expected 4 weeks logged, got %d", summary.WeeksLogged)
	}
	if summary.WeeksReviewed != 2 {
		t.Errorf("Expected 2 weeks reviewed, got %d", summary.WeeksReviewed)
	}

	expectedPending := []int{4, 5}
	if !reflect.DeepEqual(summary.PendingWeeks, expectedPending) {
		t.Errorf("Expected pending weeks to be %v, got %v", expectedPending, summary.PendingWeeks)
	}

	expectedMissing := []int{3}
	if !reflect.DeepEqual(summary.MissingWeeks, expectedMissing) {
		t.Errorf("Expected missing weeks to be %v, got %v", expectedMissing, summary.MissingWeeks)
	}

	if summary.TotalHours != 25 {
		t.Errorf("Expected 25 total hours, got %f", summary.TotalHours)
	}
}

func TestGenerateSummaryEmpty(t *testing.T) {
	summary := GenerateSummary(nil)

	expected := &LogbookSummary{
		Version:      LOGBOOK_SUMMARY_VERSION,
		PendingWeeks: []int{},
		MissingWeeks: []int{},
	}
	if !reflect.DeepEqual(summary, expected) {
		t.Errorf("Expected %+v, got %+v", expected, summary)
	}
}

func TestMissingWeeks(t *testing.T) {
	expected := []int{1, 2, 5}
	if got := MissingWeeks([]int{3, 4, 6}); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func approximatelyEqual(a float64, b float64) bool {
	return math.Abs(a-b) < 0.00001
}

func TestCalculatePercentiles(t *testing.T) {
	basicDistribution := []float64{2, 5, 10}
	basicPercentiles := CalculatePercentiles(basicDistribution)
	expectedBasicPercentiles := &Percentiles{
		P50: 5,
		P90: 9,
		P99: 9.9,
	}

	if !approximatelyEqual(basicPercentiles.P50, expectedBasicPercentiles.P50) {
		t.Errorf("Expected P50 to be %f, got %f", expectedBasicPercentiles.P50, basicPercentiles.P50)
	}
	if !approximatelyEqual(basicPercentiles.P90, expectedBasicPercentiles.P90) {
		t.Errorf("Expected P90 to be %f, got %f", expectedBasicPercentiles.P90, basicPercentiles.P90)
	}
	if !approximatelyEqual(basicPercentiles.P99, expectedBasicPercentiles.P99) {
		t.Errorf("Expected P99 to be %f, got %f", expectedBasicPercentiles.P99, basicPercentiles.P99)
	}

	if got := CalculatePercentiles(nil); got != (Percentiles{}) {
		t.Errorf("Expected zero percentiles for no data, got %+v", got)
	}
}
