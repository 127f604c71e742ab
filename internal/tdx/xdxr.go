package tdx

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"ashare/internal/models"
)

// ReadXdxrFile parses the extracted dividend/rights table. Expected columns:
// symbol,date,cash,bonus,dispatch,split,price — cash/bonus/dispatch stated
// per 10 shares, split defaulting to 1 when empty or zero. A header row is
// skipped when the first field is not a symbol-looking value.
//
// A missing file is not an error: adjustment then degrades to a no-op, which
// the caller should log as a warning.
func ReadXdxrFile(path string) ([]models.CorporateAction, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open xdxr file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 7
	r.TrimLeadingSpace = true

	var events []models.CorporateAction
	line := 0
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse xdxr file: %w", err)
		}
		line++
		if line == 1 && strings.EqualFold(row[0], "symbol") {
			continue
		}
		ev := models.CorporateAction{
			Symbol:      strings.TrimSpace(row[0]),
			Date:        strings.TrimSpace(row[1]),
			Cash:        parseFloat(row[2]),
			Bonus:       parseFloat(row[3]),
			Dispatch:    parseFloat(row[4]),
			SplitFactor: parseFloat(row[5]),
			RightsPrice: parseFloat(row[6]),
		}
		if ev.SplitFactor == 0 {
			ev.SplitFactor = 1
		}
		events = append(events, ev)
	}
	return events, nil
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
