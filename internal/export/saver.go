// Package export writes run outputs (candidates, per-instrument trades) to
// flat files next to the database, for downstream report renderers.
package export

import (
	"strings"

	"ashare/internal/models"
)

// Saver is the format abstraction for one export file. The pipeline injects
// the implementation picked from config.
type Saver interface {
	SaveTrades(trades []models.TradeRecord, path string) error
	SaveCandidates(candidates []models.Candidate, path string) error
	Extension() string
}

// NewSaver returns the implementation for format (json, csv), or nil when
// the format is empty or unknown (export disabled).
func NewSaver(format string) Saver {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return JSONSaver{}
	case "csv":
		return CSVSaver{}
	default:
		return nil
	}
}
