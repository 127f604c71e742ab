package strategy

import (
	"time"

	"ashare/internal/models"
)

// Summarize reduces one instrument's trades to its aggregate row. An empty
// trade list yields a zero-valued summary with AvgReturnPct 0.
func Summarize(symbol, name string, trades []models.TradeRecord) models.InstrumentSummary {
	s := models.InstrumentSummary{
		Symbol:    symbol,
		Name:      name,
		UpdatedAt: time.Now().UTC(),
	}
	for _, t := range trades {
		s.TotalReturnPct += t.ReturnPct
		s.TotalHoldDays += t.HoldDays
	}
	s.TradeCount = len(trades)
	if s.TradeCount > 0 {
		s.AvgReturnPct = s.TotalReturnPct / float64(s.TradeCount)
	}
	return s
}
