package strategy

import (
	"fmt"
	"math"
	"testing"

	"ashare/internal/config"
	"ashare/internal/models"
)

func backtestConfig() config.BacktestConfig {
	return config.BacktestConfig{
		MinHistory:       30,
		BreakoutWindow:   20,
		VolumeWindow:     5,
		VolumeSpikeRatio: 1.5,
		ExitMAWindow:     10,
	}
}

func btBars(closes []float64, volumes []int64) []models.DailyBar {
	bars := make([]models.DailyBar, len(closes))
	for i := range closes {
		bars[i] = models.DailyBar{
			Symbol:   "sh600000",
			Date:     fmt.Sprintf("d%04d", i),
			Open:     closes[i],
			High:     closes[i],
			Low:      closes[i],
			Close:    closes[i],
			Turnover: closes[i] * float64(volumes[i]),
			Volume:   volumes[i],
		}
	}
	return bars
}

// flatSeries is 40 bars at close 10, volume 100. Tests overwrite the tail to
// stage breakouts and exits.
func flatSeries() ([]float64, []int64) {
	closes := make([]float64, 40)
	volumes := make([]int64, 40)
	for i := range closes {
		closes[i] = 10
		volumes[i] = 100
	}
	return closes, volumes
}

func TestBacktestSingleTrade(t *testing.T) {
	closes, volumes := flatSeries()
	// Breakout with a volume spike at bar 25, hold through 29, exit at 30.
	closes[25] = 11
	volumes[25] = 200
	for i := 26; i < 30; i++ {
		closes[i] = 11
	}
	closes[30] = 9
	for i := 31; i < 40; i++ {
		closes[i] = 9
	}

	bt := NewBacktester(backtestConfig())
	trades := bt.Run("sh600000", "Example Co", btBars(closes, volumes))
	if len(trades) != 1 {
		t.Fatalf("trades=%d want=1", len(trades))
	}
	tr := trades[0]
	if tr.BuyDate != "d0025" || tr.SellDate != "d0030" {
		t.Fatalf("trade dates=[%s,%s] want=[d0025,d0030]", tr.BuyDate, tr.SellDate)
	}
	if tr.HoldDays != 5 {
		t.Fatalf("holdDays=%d want=5", tr.HoldDays)
	}
	wantReturn := (9.0 - 11.0) / 11.0 * 100
	if math.Abs(tr.ReturnPct-wantReturn) > 1e-9 {
		t.Fatalf("returnPct=%v want=%v", tr.ReturnPct, wantReturn)
	}
	if tr.BuyPrice.String() != "11" || tr.SellPrice.String() != "9" {
		t.Fatalf("prices=[%s,%s] want=[11,9]", tr.BuyPrice, tr.SellPrice)
	}
}

func TestBacktestForcedClose(t *testing.T) {
	closes, volumes := flatSeries()
	closes[25] = 11
	volumes[25] = 200
	for i := 26; i < 40; i++ {
		closes[i] = 11
	}

	bt := NewBacktester(backtestConfig())
	trades := bt.Run("sh600000", "Example Co", btBars(closes, volumes))
	if len(trades) != 1 {
		t.Fatalf("trades=%d want=1", len(trades))
	}
	if trades[0].SellDate != "d0039" {
		t.Fatalf("sellDate=%s want final bar d0039", trades[0].SellDate)
	}
	if trades[0].HoldDays != 14 {
		t.Fatalf("holdDays=%d want=14", trades[0].HoldDays)
	}
}

func TestBacktestZeroVolumeAverageSuppressesEntry(t *testing.T) {
	closes, volumes := flatSeries()
	closes[25] = 11
	for i := range volumes {
		volumes[i] = 0
	}

	bt := NewBacktester(backtestConfig())
	if trades := bt.Run("sh600000", "Example Co", btBars(closes, volumes)); len(trades) != 0 {
		t.Fatalf("trades=%d want=0 with zero volume average", len(trades))
	}
}

func TestBacktestNoVolumeSpikeNoEntry(t *testing.T) {
	closes, volumes := flatSeries()
	closes[25] = 11
	// Volume equal to the trailing average never clears the spike ratio.

	bt := NewBacktester(backtestConfig())
	if trades := bt.Run("sh600000", "Example Co", btBars(closes, volumes)); len(trades) != 0 {
		t.Fatalf("trades=%d want=0 without a volume spike", len(trades))
	}
}

func TestBacktestMinimumHistory(t *testing.T) {
	closes, volumes := flatSeries()
	bt := NewBacktester(backtestConfig())
	if trades := bt.Run("sh600000", "Example Co", btBars(closes[:29], volumes[:29])); trades != nil {
		t.Fatalf("trades=%v want=nil below minimum history", trades)
	}
}

func TestBacktestTradesDoNotOverlap(t *testing.T) {
	closes := make([]float64, 50)
	volumes := make([]int64, 50)
	for i := range closes {
		closes[i] = 10
		volumes[i] = 100
	}
	// First trade: enter 25, exit 30.
	closes[25] = 11
	volumes[25] = 200
	for i := 26; i < 30; i++ {
		closes[i] = 11
	}
	for i := 30; i < 40; i++ {
		closes[i] = 9
	}
	// Second trade: enter 40, forced close at the end.
	closes[40] = 12
	volumes[40] = 300
	for i := 41; i < 50; i++ {
		closes[i] = 12
	}

	bt := NewBacktester(backtestConfig())
	trades := bt.Run("sh600000", "Example Co", btBars(closes, volumes))
	if len(trades) != 2 {
		t.Fatalf("trades=%d want=2", len(trades))
	}
	for _, tr := range trades {
		if tr.BuyDate > tr.SellDate {
			t.Fatalf("trade interval inverted: [%s,%s]", tr.BuyDate, tr.SellDate)
		}
	}
	if trades[0].SellDate >= trades[1].BuyDate {
		t.Fatalf("trades overlap: first sells %s, second buys %s", trades[0].SellDate, trades[1].BuyDate)
	}
}

func TestSummarize(t *testing.T) {
	trades := []models.TradeRecord{
		{ReturnPct: 10, HoldDays: 5},
		{ReturnPct: -4, HoldDays: 3},
	}
	s := Summarize("sh600000", "Example Co", trades)
	if s.TradeCount != 2 {
		t.Fatalf("tradeCount=%d want=2", s.TradeCount)
	}
	if math.Abs(s.TotalReturnPct-6) > 1e-9 {
		t.Fatalf("totalReturnPct=%v want=6", s.TotalReturnPct)
	}
	if math.Abs(s.AvgReturnPct*float64(s.TradeCount)-s.TotalReturnPct) > 1e-9 {
		t.Fatalf("avg*count=%v total=%v", s.AvgReturnPct*float64(s.TradeCount), s.TotalReturnPct)
	}
	if s.TotalHoldDays != 8 {
		t.Fatalf("totalHoldDays=%d want=8", s.TotalHoldDays)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize("sh600000", "Example Co", nil)
	if s.TradeCount != 0 || s.AvgReturnPct != 0 || s.TotalReturnPct != 0 || s.TotalHoldDays != 0 {
		t.Fatalf("empty summary=%+v want zeros", s)
	}
}
