// Package strategy holds the candidate filter and the breakout backtest.
package strategy

import (
	"strings"

	"ashare/internal/config"
	"ashare/internal/models"
)

// Selector is the stateless candidate filter. It looks only at the tail of a
// series; rejection at any predicate short-circuits.
type Selector struct {
	cfg config.SelectionConfig
}

func NewSelector(cfg config.SelectionConfig) *Selector {
	return &Selector{cfg: cfg}
}

// Accept reports whether the instrument qualifies as a candidate. name is the
// display name from the roster, checked against the risk marker.
func (s *Selector) Accept(name string, bars []models.DailyBar) bool {
	n := len(bars)
	if n < s.cfg.MinHistory {
		return false
	}
	if s.cfg.RiskMarker != "" && strings.Contains(name, s.cfg.RiskMarker) {
		return false
	}

	last := bars[n-1]
	maShort := meanClose(bars, s.cfg.ShortMAWindow)
	maMid := meanClose(bars, s.cfg.MidMAWindow)
	maLong := meanClose(bars, s.cfg.LongMAWindow)

	if last.Close <= maShort || last.Close <= maMid {
		return false
	}
	// Rising-average proxy: each average must exceed the close that anchored
	// the same average one bar earlier, i.e. the close window+1 bars back.
	if maShort <= bars[n-1-(s.cfg.ShortMAWindow+1)].Close {
		return false
	}
	if maMid <= bars[n-1-(s.cfg.MidMAWindow+1)].Close {
		return false
	}
	if last.Close <= maLong {
		return false
	}
	if !volumeSpike(bars, s.cfg.VolumeWindow, s.cfg.VolumeSpikeRatio) {
		return false
	}
	if last.Close <= last.Open {
		return false
	}
	if last.Close < maxClose(bars, s.cfg.HighWindow) {
		return false
	}
	if hasLimitUpRun(bars, s.cfg.VolumeWindow, s.cfg.LimitUpPct, s.cfg.LimitUpMaxRun) {
		return false
	}
	return true
}

// meanClose averages the last n closes.
func meanClose(bars []models.DailyBar, n int) float64 {
	total := 0.0
	for _, b := range bars[len(bars)-n:] {
		total += b.Close
	}
	return total / float64(n)
}

// maxClose is the highest close over the last n bars, the last bar included.
func maxClose(bars []models.DailyBar, n int) float64 {
	high := 0.0
	for _, b := range bars[len(bars)-n:] {
		if b.Close > high {
			high = b.Close
		}
	}
	return high
}

// volumeSpike compares the last bar's volume with the mean over the window
// bars immediately preceding it.
func volumeSpike(bars []models.DailyBar, window int, ratio float64) bool {
	n := len(bars)
	total := int64(0)
	for _, b := range bars[n-1-window : n-1] {
		total += b.Volume
	}
	mean := float64(total) / float64(window)
	return float64(bars[n-1].Volume) > ratio*mean
}

// hasLimitUpRun scans the last `window` bars for a run of maxRun or more
// consecutive day-over-day gains of at least pct percent.
func hasLimitUpRun(bars []models.DailyBar, window int, pct float64, maxRun int) bool {
	n := len(bars)
	run := 0
	for i := n - window; i < n; i++ {
		prev := bars[i-1].Close
		if prev > 0 && (bars[i].Close-prev)/prev*100 >= pct {
			run++
			if run >= maxRun {
				return true
			}
		} else {
			run = 0
		}
	}
	return false
}
