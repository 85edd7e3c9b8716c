package trends

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visionary/internal/core/model"
)

func logsWithStrain(strains ...int) []model.DailyLog {
	logs := make([]model.DailyLog, 0, len(strains))
	for day, value := range strains {
		logs = append(logs, model.DailyLog{
			Date:          fmt.Sprintf("2026-03-%02d", day+1),
			EyeStrain:     value,
			VisionClarity: 6,
			SleepQuality:  7,
		})
	}
	return logs
}

func TestSummarizeEmpty(t *testing.T) {
	_, ok := Summarize(nil)
	assert.False(t, ok)

	_, ok = Summarize([]model.DailyLog{})
	assert.False(t, ok)
}

func TestSummarizeImprovement(t *testing.T) {
	tests := []struct {
		name         string
		strains      []int
		improvement  int
		insufficient bool
	}{
		{"strictly decreasing six", []int{9, 8, 7, 6, 5, 4}, 38, false},
		{"five records", []int{9, 8, 7, 6, 5}, 0, true},
		{"single record", []int{9}, 0, true},
		{"worsening", []int{2, 2, 2, 4, 4, 4}, -100, false},
		{"unchanged", []int{5, 5, 5, 5, 5, 5}, 0, false},
		{"zero baseline", []int{0, 0, 0, 3, 3, 3}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, ok := Summarize(logsWithStrain(tt.strains...))
			require.True(t, ok)
			assert.Equal(t, tt.improvement, summary.Improvement)
			assert.Equal(t, tt.insufficient, summary.InsufficientData)
		})
	}
}

func TestSummarizeSortsByDate(t *testing.T) {
	logs := logsWithStrain(9, 8, 7, 6, 5, 4)
	shuffled := []model.DailyLog{logs[3], logs[0], logs[5], logs[1], logs[4], logs[2]}

	summary, ok := Summarize(shuffled)
	require.True(t, ok)

	assert.Equal(t, 38, summary.Improvement)
	assert.Equal(t, "2026-03-01", summary.Sorted[0].Date)
	assert.Equal(t, "2026-03-06", summary.Sorted[5].Date)
	assert.Equal(t, "2026-03-04", shuffled[0].Date, "input must not be reordered")
}

func TestSummarizeAverages(t *testing.T) {
	logs := []model.DailyLog{
		{Date: "2026-03-01", EyeStrain: 3, VisionClarity: 7, SleepQuality: 8, ScreenTimeHours: 6.5},
		{Date: "2026-03-02", EyeStrain: 4, VisionClarity: 8, SleepQuality: 6, ScreenTimeHours: 9},
		{Date: "2026-03-03", EyeStrain: 4, VisionClarity: 6, SleepQuality: 7, ScreenTimeHours: 8},
	}

	summary, ok := Summarize(logs)
	require.True(t, ok)

	assert.Equal(t, 3, summary.Days)
	assert.Equal(t, 3.7, summary.AvgStrain)
	assert.Equal(t, 7.0, summary.AvgClarity)
	assert.Equal(t, 7.0, summary.AvgSleep)
	assert.Equal(t, 7.8, summary.AvgScreenTime)
}

func TestSummarizeRecentWindow(t *testing.T) {
	summary, ok := Summarize(logsWithStrain(1, 2, 3, 4, 5, 6, 7, 8, 9, 10))
	require.True(t, ok)
	require.Len(t, summary.Recent, RecentWindow)
	assert.Equal(t, "2026-03-04", summary.Recent[0].Date)
	assert.Equal(t, "2026-03-10", summary.Recent[6].Date)

	short, ok := Summarize(logsWithStrain(1, 2))
	require.True(t, ok)
	assert.Len(t, short.Recent, 2)
}

func TestInsight(t *testing.T) {
	improving := Summary{AvgScreenTime: 7.5, Improvement: 20}
	assert.Contains(t, improving.Insight(), "over 7.5 hours")
	assert.Contains(t, improving.Insight(), "trending downwards")

	flat := Summary{AvgScreenTime: 7.5, Improvement: 5}
	assert.Contains(t, flat.Insight(), "Consistency is key")
}

func TestRatings(t *testing.T) {
	assert.Equal(t, RatingGood, RateStrain(3.9))
	assert.Equal(t, RatingFair, RateStrain(4))
	assert.Equal(t, RatingFair, RateStrain(7))
	assert.Equal(t, RatingPoor, RateStrain(7.1))

	assert.Equal(t, RatingGood, RateClarity(7.1))
	assert.Equal(t, RatingFair, RateClarity(7))
	assert.Equal(t, RatingFair, RateClarity(4))
	assert.Equal(t, RatingPoor, RateClarity(3.9))
}
