// Package indicator derives cost-basis and chip-distribution columns from a
// bar series. Every value at index i depends only on bars 0..i.
package indicator

import (
	"sort"

	"ashare/internal/models"
)

const (
	avgCostWindow = 60
	chipWindow    = 90
	chipLowPct    = 0.05
	chipHighPct   = 0.95
)

// Enrich returns a copy of the series with the derived columns filled in.
// Degenerate windows (zero volume, zero cumulative volume) leave the
// corresponding pointers nil.
func Enrich(bars []models.DailyBar) []models.DailyBar {
	out := make([]models.DailyBar, len(bars))
	copy(out, bars)

	var cumTurnover float64
	var cumVolume int64
	for i := range out {
		cumTurnover += out[i].Turnover
		cumVolume += out[i].Volume

		out[i].AvgCost60 = trailingAvgCost(out, i, avgCostWindow)

		if cumVolume > 0 {
			avg := cumTurnover / float64(cumVolume)
			out[i].AvgPositionCost = &avg
			ratio := profitRatio(out[:i+1], avg)
			out[i].ProfitRatio = &ratio
		}

		low, high, ok := chipBounds(out, i, chipWindow)
		if ok {
			conc := chipConcentration(low, high, out[i].Close)
			out[i].ChipLow90 = &low
			out[i].ChipHigh90 = &high
			out[i].ChipConcentration90 = &conc
		}
	}
	return out
}

// trailingAvgCost is turnover/volume over the up-to-n bars ending at i.
func trailingAvgCost(bars []models.DailyBar, i, n int) *float64 {
	start := i - n + 1
	if start < 0 {
		start = 0
	}
	var turnover float64
	var volume int64
	for j := start; j <= i; j++ {
		turnover += bars[j].Turnover
		volume += bars[j].Volume
	}
	if volume == 0 {
		return nil
	}
	avg := turnover / float64(volume)
	return &avg
}

// profitRatio is the fraction of bars whose close exceeds cost.
func profitRatio(bars []models.DailyBar, cost float64) float64 {
	above := 0
	for _, b := range bars {
		if b.Close > cost {
			above++
		}
	}
	return float64(above) / float64(len(bars))
}

// chipBounds sorts the window's (close, volume) points by price and walks the
// cumulative volume to the 5% and 95% marks. Zero total volume yields no
// bounds.
func chipBounds(bars []models.DailyBar, i, n int) (low, high float64, ok bool) {
	start := i - n + 1
	if start < 0 {
		start = 0
	}
	window := bars[start : i+1]

	type point struct {
		price  float64
		volume int64
	}
	points := make([]point, len(window))
	var total int64
	for j, b := range window {
		points[j] = point{price: b.Close, volume: b.Volume}
		total += b.Volume
	}
	if total == 0 {
		return 0, 0, false
	}
	sort.Slice(points, func(a, b int) bool {
		return points[a].price < points[b].price
	})

	lowMark := chipLowPct * float64(total)
	highMark := chipHighPct * float64(total)
	var cum float64
	foundLow, foundHigh := false, false
	for _, p := range points {
		cum += float64(p.volume)
		if !foundLow && cum >= lowMark {
			low = p.price
			foundLow = true
		}
		if !foundHigh && cum >= highMark {
			high = p.price
			foundHigh = true
			break
		}
	}
	if !foundLow || !foundHigh {
		return 0, 0, false
	}
	return low, high, true
}

func chipConcentration(low, high, close float64) float64 {
	if close == 0 {
		close = 1
	}
	return (high - low) / close
}
