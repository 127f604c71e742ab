package export

import (
	"encoding/csv"
	"os"
	"strconv"

	"ashare/internal/models"
)

// CSVSaver writes one header row plus one row per record.
type CSVSaver struct{}

func (CSVSaver) Extension() string { return "csv" }

func (CSVSaver) SaveTrades(trades []models.TradeRecord, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"symbol", "name", "buy_date", "sell_date", "buy_price", "sell_price", "hold_days", "return_pct"}); err != nil {
		return err
	}
	for _, t := range trades {
		if err := w.Write([]string{
			t.Symbol,
			t.Name,
			t.BuyDate,
			t.SellDate,
			t.BuyPrice.String(),
			t.SellPrice.String(),
			strconv.Itoa(t.HoldDays),
			floatStr(t.ReturnPct),
		}); err != nil {
			return err
		}
	}
	return nil
}

func (CSVSaver) SaveCandidates(candidates []models.Candidate, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"position", "symbol", "exchange", "code", "name"}); err != nil {
		return err
	}
	for _, c := range candidates {
		if err := w.Write([]string{
			strconv.Itoa(c.Position),
			c.Symbol,
			c.Exchange,
			c.Code,
			c.Name,
		}); err != nil {
			return err
		}
	}
	return nil
}

func floatStr(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
