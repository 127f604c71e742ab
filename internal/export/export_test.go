package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"ashare/internal/models"
)

func sampleTrades() []models.TradeRecord {
	return []models.TradeRecord{
		{
			Symbol:    "sh600000",
			Name:      "Bank A",
			BuyDate:   "2024-01-02",
			SellDate:  "2024-01-10",
			BuyPrice:  decimal.NewFromFloat(10.00),
			SellPrice: decimal.NewFromFloat(10.50),
			HoldDays:  6,
			ReturnPct: 5,
		},
	}
}

func TestNewSaver(t *testing.T) {
	if NewSaver("json") == nil || NewSaver("CSV") == nil {
		t.Fatal("known formats returned nil")
	}
	if NewSaver("") != nil || NewSaver("parquet") != nil {
		t.Fatal("unknown format returned a saver")
	}
}

func TestJSONSaverRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.json")
	if err := (JSONSaver{}).SaveTrades(sampleTrades(), path); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var out []models.TradeRecord
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out) != 1 || out[0].Symbol != "sh600000" || out[0].HoldDays != 6 {
		t.Fatalf("round trip=%+v", out)
	}
}

func TestCSVSaverWritesHeaderAndRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.csv")
	if err := (CSVSaver{}).SaveTrades(sampleTrades(), path); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines=%d want=2", len(lines))
	}
	if !strings.HasPrefix(lines[0], "symbol,name,buy_date") {
		t.Fatalf("header=%q", lines[0])
	}
	if !strings.Contains(lines[1], "sh600000") || !strings.Contains(lines[1], "10.5") {
		t.Fatalf("row=%q", lines[1])
	}
}

func TestCSVSaverCandidates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "candidates.csv")
	candidates := []models.Candidate{
		{Position: 0, Symbol: "sh600000", Exchange: "sh", Code: "600000", Name: "Bank A"},
	}
	if err := (CSVSaver{}).SaveCandidates(candidates, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(raw), "0,sh600000,sh,600000,Bank A") {
		t.Fatalf("content=%q", string(raw))
	}
}
