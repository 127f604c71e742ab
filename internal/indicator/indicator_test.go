package indicator

import (
	"fmt"
	"math"
	"testing"

	"ashare/internal/models"
)

func bar(i int, close, turnover float64, volume int64) models.DailyBar {
	return models.DailyBar{
		Symbol:   "sh600000",
		Date:     fmt.Sprintf("2024-01-%02d", i+1),
		Close:    close,
		Turnover: turnover,
		Volume:   volume,
	}
}

func approx(got, want float64) bool {
	return math.Abs(got-want) < 1e-9
}

func TestEnrichDoesNotMutateInput(t *testing.T) {
	in := []models.DailyBar{bar(0, 10, 1000, 100)}
	_ = Enrich(in)
	if in[0].AvgPositionCost != nil || in[0].AvgCost60 != nil {
		t.Fatal("input series was mutated")
	}
}

func TestAvgPositionCostExpands(t *testing.T) {
	in := []models.DailyBar{
		bar(0, 10, 1000, 100), // 10.0 per unit
		bar(1, 12, 2400, 200), // cumulative 3400/300
		bar(2, 11, 1100, 100), // cumulative 4500/400
	}
	out := Enrich(in)

	want := []float64{10.0, 3400.0 / 300.0, 4500.0 / 400.0}
	for i := range out {
		if out[i].AvgPositionCost == nil {
			t.Fatalf("bar %d: nil avg position cost", i)
		}
		if !approx(*out[i].AvgPositionCost, want[i]) {
			t.Fatalf("bar %d: avgPositionCost=%v want=%v", i, *out[i].AvgPositionCost, want[i])
		}
	}
}

func TestAvgCost60TrailingWindow(t *testing.T) {
	// 70 bars of unit price 1, then one bar at price 100: the trailing 60-bar
	// window must exclude the cheap early bars.
	var in []models.DailyBar
	for i := 0; i < 70; i++ {
		in = append(in, bar(i%28, 1, 100, 100))
	}
	in = append(in, bar(28, 100, 10000, 100))
	out := Enrich(in)

	last := out[len(out)-1]
	if last.AvgCost60 == nil {
		t.Fatal("nil avgCost60 on final bar")
	}
	// 59 bars at 1.0 + 1 bar at 100.0, equal volume.
	want := (59*100.0 + 10000.0) / (60.0 * 100.0)
	if !approx(*last.AvgCost60, want) {
		t.Fatalf("avgCost60=%v want=%v", *last.AvgCost60, want)
	}
}

func TestZeroVolumeYieldsNil(t *testing.T) {
	in := []models.DailyBar{bar(0, 10, 0, 0)}
	out := Enrich(in)
	if out[0].AvgCost60 != nil {
		t.Fatalf("avgCost60=%v want nil for zero volume", *out[0].AvgCost60)
	}
	if out[0].AvgPositionCost != nil {
		t.Fatalf("avgPositionCost=%v want nil for zero cumulative volume", *out[0].AvgPositionCost)
	}
	if out[0].ProfitRatio != nil {
		t.Fatal("profitRatio set despite nil avgPositionCost")
	}
	if out[0].ChipLow90 != nil || out[0].ChipHigh90 != nil || out[0].ChipConcentration90 != nil {
		t.Fatal("chip bounds set despite zero window volume")
	}
}

func TestProfitRatioCountsClosesAboveCost(t *testing.T) {
	in := []models.DailyBar{
		bar(0, 10, 1000, 100),
		bar(1, 20, 2000, 100),
		bar(2, 30, 3000, 100),
	}
	out := Enrich(in)

	// Cumulative cost after 3 bars is 6000/300 = 20; only the 30 close is
	// strictly above it.
	last := out[2]
	if last.ProfitRatio == nil {
		t.Fatal("nil profitRatio")
	}
	if !approx(*last.ProfitRatio, 1.0/3.0) {
		t.Fatalf("profitRatio=%v want=%v", *last.ProfitRatio, 1.0/3.0)
	}
}

func TestChipBoundsSinglePrice(t *testing.T) {
	// All volume at one price collapses the range to zero width.
	in := []models.DailyBar{
		bar(0, 10, 1000, 100),
		bar(1, 10, 1000, 100),
	}
	out := Enrich(in)
	last := out[1]
	if last.ChipLow90 == nil || last.ChipHigh90 == nil {
		t.Fatal("nil chip bounds")
	}
	if *last.ChipLow90 != 10 || *last.ChipHigh90 != 10 {
		t.Fatalf("bounds=[%v,%v] want [10,10]", *last.ChipLow90, *last.ChipHigh90)
	}
	if !approx(*last.ChipConcentration90, 0) {
		t.Fatalf("concentration=%v want 0", *last.ChipConcentration90)
	}
}

func TestChipBoundsSpreadVolume(t *testing.T) {
	// 100 bars, prices 1..100, equal volume: cumulative weight hits 5% at the
	// 5th cheapest price and 95% at the 95th.
	var in []models.DailyBar
	for i := 0; i < 100; i++ {
		in = append(in, bar(i%28, float64(i+1), float64(i+1)*100, 100))
	}
	out := Enrich(in)
	last := out[len(out)-1]
	if last.ChipLow90 == nil || last.ChipHigh90 == nil {
		t.Fatal("nil chip bounds")
	}

	// Window is the trailing 90 bars: prices 11..100, equal weight. 5% of
	// 90 bars is 4.5 bars, first reached at the 5th price (15); 95% is 85.5
	// bars, first reached at the 86th price (96).
	if *last.ChipLow90 != 15 {
		t.Fatalf("low=%v want=15", *last.ChipLow90)
	}
	if *last.ChipHigh90 != 96 {
		t.Fatalf("high=%v want=96", *last.ChipHigh90)
	}
	wantConc := (96.0 - 15.0) / 100.0
	if !approx(*last.ChipConcentration90, wantConc) {
		t.Fatalf("concentration=%v want=%v", *last.ChipConcentration90, wantConc)
	}
}

func TestChipConcentrationZeroCloseGuard(t *testing.T) {
	in := []models.DailyBar{
		bar(0, 5, 500, 100),
		bar(1, 0, 0, 100),
	}
	out := Enrich(in)
	last := out[1]
	if last.ChipConcentration90 == nil {
		t.Fatal("nil concentration")
	}
	// Bounds are [0, 5]; a zero close divides by 1 instead.
	if !approx(*last.ChipConcentration90, 5.0) {
		t.Fatalf("concentration=%v want=5", *last.ChipConcentration90)
	}
}
