package repository

import (
	"context"
	"time"

	"ashare/internal/models"
)

// Repository is the persistence surface the pipeline and the API read/write
// through. Bar writes are append-only: a (symbol, date) row already present
// is never rewritten.
type Repository interface {
	// Instruments
	UpsertInstruments(ctx context.Context, items []models.Instrument) error
	ListInstruments(ctx context.Context, params ListInstrumentsParams) ([]models.Instrument, error)
	CountInstruments(ctx context.Context) (int64, error)

	// Daily bars
	ListBarsBySymbol(ctx context.Context, symbol string) ([]models.DailyBar, error)
	InsertBarsIgnoreExisting(ctx context.Context, items []models.DailyBar) error

	// Corporate actions
	ReplaceCorporateActions(ctx context.Context, items []models.CorporateAction) error
	ListCorporateActionsBySymbol(ctx context.Context, symbol string) ([]models.CorporateAction, error)

	// Candidates (rewritten whole each run)
	ReplaceCandidates(ctx context.Context, items []models.Candidate) error
	ListCandidates(ctx context.Context, params ListCandidatesParams) ([]models.Candidate, error)
	CountCandidates(ctx context.Context) (int64, error)

	// Trades and summaries
	ReplaceTradeRecords(ctx context.Context, symbol string, items []models.TradeRecord) error
	ListTradeRecordsBySymbol(ctx context.Context, symbol string) ([]models.TradeRecord, error)
	UpsertSummary(ctx context.Context, item *models.InstrumentSummary) error
	ListSummaries(ctx context.Context, params ListSummariesParams) ([]models.InstrumentSummary, error)
	CountSummaries(ctx context.Context) (int64, error)

	// Pipeline runs
	InsertPipelineRun(ctx context.Context, item *models.PipelineRun) error
	UpdatePipelineRun(ctx context.Context, item *models.PipelineRun) error
	ListPipelineRuns(ctx context.Context, params ListPipelineRunsParams) ([]models.PipelineRun, error)
}

type ListInstrumentsParams struct {
	Limit    int
	Offset   int
	Exchange *string
	OrderBy  string
	Asc      *bool
}

type ListCandidatesParams struct {
	Limit  int
	Offset int
}

type ListSummariesParams struct {
	Limit   int
	Offset  int
	OrderBy string
	Asc     *bool
}

type ListPipelineRunsParams struct {
	Limit int
	Since *time.Time
}
