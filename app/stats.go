package app

import (
	"alocdash/domain/allocation"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// CoverageStats describes how evenly a role is covered across hubs.
// Hubs whose percentage is N/A are counted but left out of the figures.
type CoverageStats struct {
	Hubs         int     `json:"hubs"`
	HubsNA       int     `json:"hubs_na"`
	HubsComplete int     `json:"hubs_complete"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Median       float64 `json:"median"`
	Mean         float64 `json:"mean"`
	WeightedMean float64 `json:"weighted_mean"`
	Valid        bool    `json:"valid"`
}

// ComputeCoverageStats summarizes the hub percentages of a report. The
// weighted mean takes the unrounded hub ratios weighted by required count, so
// it equals the overall ratio before rounding.
func ComputeCoverageStats(report *allocation.Report) CoverageStats {
	var result CoverageStats
	var values, ratios, weights []float64

	for _, region := range report.Regions {
		for _, hub := range region.Hubs {
			result.Hubs++
			v, ok := hub.Percentage.Value()
			if !ok {
				result.HubsNA++
				continue
			}
			if hub.Counts.Filled >= hub.Counts.Required {
				result.HubsComplete++
			}
			values = append(values, v)
			ratios = append(ratios, 100*float64(hub.Counts.Filled)/float64(hub.Counts.Required))
			weights = append(weights, float64(hub.Counts.Required))
		}
	}
	if len(values) == 0 {
		return result
	}

	var err error
	if result.Min, err = stats.Min(values); err != nil {
		return result
	}
	if result.Max, err = stats.Max(values); err != nil {
		return result
	}
	if result.Median, err = stats.Median(values); err != nil {
		return result
	}
	if result.Mean, err = stats.Mean(values); err != nil {
		return result
	}
	result.WeightedMean = stat.Mean(ratios, weights)
	result.Valid = true
	return result
}
