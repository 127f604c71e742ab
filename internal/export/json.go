package export

import (
	"encoding/json"
	"os"

	"ashare/internal/models"
)

// JSONSaver writes indented JSON arrays.
type JSONSaver struct{}

func (JSONSaver) Extension() string { return "json" }

func (JSONSaver) SaveTrades(trades []models.TradeRecord, path string) error {
	return writeJSON(trades, path)
}

func (JSONSaver) SaveCandidates(candidates []models.Candidate, path string) error {
	return writeJSON(candidates, path)
}

func writeJSON(v any, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
