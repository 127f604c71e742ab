// Package adjust reconstructs dividend/split-adjusted price series.
package adjust

import (
	"fmt"
	"math"
	"strings"

	"ashare/internal/models"
)

// Mode selects the adjustment convention.
type Mode string

const (
	// None leaves prices as traded.
	None Mode = "none"
	// Forward (qfq) anchors the most recent bar: historical prices are
	// rescaled to today's price level.
	Forward Mode = "qfq"
	// Backward (hfq) anchors the earliest bar: later prices carry the
	// cumulative corporate-action effect forward.
	Backward Mode = "hfq"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case None, "":
		return None, nil
	case Forward:
		return Forward, nil
	case Backward:
		return Backward, nil
	}
	return None, fmt.Errorf("adjust: unknown mode %q", s)
}

// Apply returns a new series rescaled per mode. The input is never mutated.
// With no events (or mode None) the output equals the input.
//
// Event fields follow the vendor per-10-share convention: cash, bonus and
// dispatch are divided by 10 inside the formulas.
func Apply(bars []models.DailyBar, events []models.CorporateAction, mode Mode) []models.DailyBar {
	out := make([]models.DailyBar, len(bars))
	copy(out, bars)
	if len(bars) == 0 || len(events) == 0 || mode == None {
		return out
	}

	byDate := eventIndex(events)
	switch mode {
	case Forward:
		factors := forwardFactors(bars, byDate)
		base := factors[len(factors)-1]
		for i := range out {
			rescale(&out[i], base/factors[i])
		}
	case Backward:
		factors := backwardFactors(bars, byDate)
		for i := range out {
			rescale(&out[i], factors[i])
		}
	}
	return out
}

// eventIndex keys events by ex-date. Later rows for the same date win,
// matching the deterministic last-write rule for duplicate event dates.
func eventIndex(events []models.CorporateAction) map[string]models.CorporateAction {
	byDate := make(map[string]models.CorporateAction, len(events))
	for _, ev := range events {
		byDate[ev.Date] = ev
	}
	return byDate
}

// forwardFactors walks the series from the last bar to the first, keeping a
// running multiplicative factor. The factor is recorded against the current
// date before the event at that date is applied, so the event only scales
// strictly earlier bars.
func forwardFactors(bars []models.DailyBar, byDate map[string]models.CorporateAction) []float64 {
	factors := make([]float64, len(bars))
	running := 1.0
	for i := len(bars) - 1; i >= 0; i-- {
		factors[i] = running
		ev, ok := byDate[bars[i].Date]
		if !ok || i == 0 {
			continue
		}
		split := ev.SplitFactor
		if split == 0 {
			split = 1
		}
		adjClose := bars[i].Close / split
		units := 1 + ev.Bonus/10 + ev.Dispatch/10
		value := adjClose + ev.RightsPrice*ev.Dispatch/10
		exPrice := (value - ev.Cash/10) / units
		if exPrice > 0 {
			running *= adjClose / exPrice
		}
	}
	return factors
}

// backwardFactors walks first to last; an event on a bar's date bumps the
// running factor using that bar's unscaled close, and the bar itself already
// carries the bumped factor.
func backwardFactors(bars []models.DailyBar, byDate map[string]models.CorporateAction) []float64 {
	factors := make([]float64, len(bars))
	running := 1.0
	for i := range bars {
		if ev, ok := byDate[bars[i].Date]; ok && bars[i].Close > 0 {
			running *= (bars[i].Close + ev.Cash/10) / bars[i].Close
		}
		factors[i] = running
	}
	return factors
}

// rescale applies one factor to every price field, rounding to the cent.
// Rounding happens exactly once, after the full factor timeline is known.
func rescale(bar *models.DailyBar, factor float64) {
	bar.Open = round2(bar.Open * factor)
	bar.High = round2(bar.High * factor)
	bar.Low = round2(bar.Low * factor)
	bar.Close = round2(bar.Close * factor)
	bar.Turnover = round2(bar.Turnover * factor)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
