// Package trends derives summary statistics from the daily log history.
package trends

import (
	"fmt"
	"math"
	"sort"

	"visionary/internal/core/model"
)

const (
	// MinImprovementRecords is the history length required for an improvement figure.
	MinImprovementRecords = 6
	// RecentWindow is the number of trailing records exposed for short-window charts.
	RecentWindow = 7

	improvementSample = 3
)

// Summary is the derived view over a log history.
type Summary struct {
	Days          int
	AvgStrain     float64
	AvgClarity    float64
	AvgSleep      float64
	AvgScreenTime float64
	// Improvement is the percentage drop of eye strain from the first to the last records.
	Improvement int
	// InsufficientData marks Improvement as unavailable rather than unchanged.
	InsufficientData bool
	Sorted           []model.DailyLog
	Recent           []model.DailyLog
}

// Summarize aggregates logs. It returns false when there is no data at all.
func Summarize(logs []model.DailyLog) (Summary, bool) {
	if len(logs) == 0 {
		return Summary{}, false
	}

	sorted := append([]model.DailyLog(nil), logs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})

	summary := Summary{
		Days:          len(sorted),
		AvgStrain:     round1(mean(sorted, strain)),
		AvgClarity:    round1(mean(sorted, clarity)),
		AvgSleep:      round1(mean(sorted, sleep)),
		AvgScreenTime: round1(mean(sorted, screenTime)),
		Sorted:        sorted,
	}

	recent := len(sorted) - RecentWindow
	if recent < 0 {
		recent = 0
	}
	summary.Recent = sorted[recent:]

	if len(sorted) < MinImprovementRecords {
		summary.InsufficientData = true
		return summary, true
	}
	first := mean(sorted[:improvementSample], strain)
	last := mean(sorted[len(sorted)-improvementSample:], strain)
	if first != 0 {
		summary.Improvement = int(math.Round((first - last) / first * 100))
	}
	return summary, true
}

// Insight returns the weekly insight sentence shown under the charts.
func (summary Summary) Insight() string {
	text := fmt.Sprintf("Based on your logs, your eye strain tends to be higher on days with over %.1f hours of screen time.", summary.AvgScreenTime)
	if summary.Improvement > 5 {
		return text + " Great news! Your strain levels are trending downwards compared to when you started."
	}
	return text + " Consistency is key. Try to increase your outdoor time to combat digital strain."
}

// Rating classifies a 1..10 value for display.
type Rating string

const (
	RatingGood Rating = "good"
	RatingFair Rating = "fair"
	RatingPoor Rating = "poor"
)

// RateStrain classifies an eye strain value where lower is better.
func RateStrain(value float64) Rating {
	switch {
	case value < 4:
		return RatingGood
	case value > 7:
		return RatingPoor
	default:
		return RatingFair
	}
}

// RateClarity classifies a vision clarity value where higher is better.
func RateClarity(value float64) Rating {
	switch {
	case value > 7:
		return RatingGood
	case value < 4:
		return RatingPoor
	default:
		return RatingFair
	}
}

func strain(log model.DailyLog) float64     { return float64(log.EyeStrain) }
func clarity(log model.DailyLog) float64    { return float64(log.VisionClarity) }
func sleep(log model.DailyLog) float64      { return float64(log.SleepQuality) }
func screenTime(log model.DailyLog) float64 { return log.ScreenTimeHours }

func mean(logs []model.DailyLog, value func(model.DailyLog) float64) float64 {
	if len(logs) == 0 {
		return 0
	}
	total := 0.0
	for _, log := range logs {
		total += value(log)
	}
	return total / float64(len(logs))
}

func round1(value float64) float64 {
	return math.Round(value*10) / 10
}
