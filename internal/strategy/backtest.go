package strategy

import (
	"math"

	"github.com/shopspring/decimal"

	"ashare/internal/config"
	"ashare/internal/models"
)

// Backtester replays the breakout strategy over one instrument's series.
// State machine with two states: flat and holding.
type Backtester struct {
	cfg config.BacktestConfig
}

func NewBacktester(cfg config.BacktestConfig) *Backtester {
	return &Backtester{cfg: cfg}
}

// Run returns the closed trades in entry order. A position still open on the
// last bar is force-closed at that bar's close. Series shorter than the
// minimum history produce no trades.
func (b *Backtester) Run(symbol, name string, bars []models.DailyBar) []models.TradeRecord {
	n := len(bars)
	if n < b.cfg.MinHistory {
		return nil
	}

	volSMA := trailingSMA(bars, b.cfg.VolumeWindow, func(bar models.DailyBar) float64 {
		return float64(bar.Volume)
	})
	exitSMA := trailingSMA(bars, b.cfg.ExitMAWindow, func(bar models.DailyBar) float64 {
		return bar.Close
	})

	var trades []models.TradeRecord
	holding := false
	entryIdx := 0

	for i := b.cfg.BreakoutWindow; i < n; i++ {
		if !holding {
			if b.breakout(bars, i) && b.volumeConfirms(bars[i], volSMA[i]) {
				holding = true
				entryIdx = i
			}
			continue
		}
		if !math.IsNaN(exitSMA[i]) && bars[i].Close < exitSMA[i] {
			trades = append(trades, makeTrade(symbol, name, bars, entryIdx, i))
			holding = false
		}
	}
	if holding {
		trades = append(trades, makeTrade(symbol, name, bars, entryIdx, n-1))
	}
	return trades
}

// breakout is true when the close strictly exceeds every close in the
// preceding window.
func (b *Backtester) breakout(bars []models.DailyBar, i int) bool {
	high := 0.0
	for _, bar := range bars[i-b.cfg.BreakoutWindow : i] {
		if bar.Close > high {
			high = bar.Close
		}
	}
	return bars[i].Close > high
}

// volumeConfirms requires the bar's volume to beat the ratio times the
// trailing volume average. A zero or undefined average suppresses entry.
func (b *Backtester) volumeConfirms(bar models.DailyBar, avg float64) bool {
	if math.IsNaN(avg) || avg == 0 {
		return false
	}
	return float64(bar.Volume) > b.cfg.VolumeSpikeRatio*avg
}

func makeTrade(symbol, name string, bars []models.DailyBar, entry, exit int) models.TradeRecord {
	buy := bars[entry].Close
	sell := bars[exit].Close
	return models.TradeRecord{
		Symbol:    symbol,
		Name:      name,
		BuyDate:   bars[entry].Date,
		SellDate:  bars[exit].Date,
		BuyPrice:  decimal.NewFromFloat(buy).Round(2),
		SellPrice: decimal.NewFromFloat(sell).Round(2),
		HoldDays:  exit - entry,
		ReturnPct: (sell - buy) / buy * 100,
	}
}

// trailingSMA precomputes the window mean at every index; indices before the
// window is full are NaN.
func trailingSMA(bars []models.DailyBar, window int, value func(models.DailyBar) float64) []float64 {
	out := make([]float64, len(bars))
	sum := 0.0
	for i := range bars {
		sum += value(bars[i])
		if i >= window {
			sum -= value(bars[i-window])
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}
