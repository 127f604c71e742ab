package gormrepository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ashare/internal/models"
	"ashare/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// --- Instruments ------------------------------------------------------------

func (s *Store) UpsertInstruments(ctx context.Context, items []models.Instrument) error {
	if s == nil || s.db == nil || len(items) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"exchange",
			"code",
			"name",
			"updated_at",
		}),
	}).CreateInBatches(items, 200).Error
}

func (s *Store) ListInstruments(ctx context.Context, params repository.ListInstrumentsParams) ([]models.Instrument, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Instrument{})
	if params.Exchange != nil && strings.TrimSpace(*params.Exchange) != "" {
		query = query.Where("exchange = ?", strings.TrimSpace(*params.Exchange))
	}
	query = applyOrder(query, params.OrderBy, params.Asc, "symbol")
	limit := normalizeLimit(params.Limit, 200)
	offset := normalizeOffset(params.Offset)
	var items []models.Instrument
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountInstruments(ctx context.Context) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Instrument{}).Count(&count).Error
	return count, err
}

// --- Daily bars -------------------------------------------------------------

func (s *Store) ListBarsBySymbol(ctx context.Context, symbol string) ([]models.DailyBar, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.DailyBar
	if err := s.db.WithContext(ctx).
		Model(&models.DailyBar{}).
		Where("symbol = ?", symbol).
		Order("date asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// InsertBarsIgnoreExisting appends bars, silently skipping (symbol, date)
// rows already present. Existing rows are never rewritten.
func (s *Store) InsertBarsIgnoreExisting(ctx context.Context, items []models.DailyBar) error {
	if s == nil || s.db == nil || len(items) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}, {Name: "date"}},
		DoNothing: true,
	}).CreateInBatches(items, 500).Error
}

// --- Corporate actions ------------------------------------------------------

func (s *Store) ReplaceCorporateActions(ctx context.Context, items []models.CorporateAction) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.CorporateAction{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.CreateInBatches(items, 500).Error
	})
}

func (s *Store) ListCorporateActionsBySymbol(ctx context.Context, symbol string) ([]models.CorporateAction, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.CorporateAction
	if err := s.db.WithContext(ctx).
		Model(&models.CorporateAction{}).
		Where("symbol = ?", symbol).
		Order("date asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- Candidates -------------------------------------------------------------

func (s *Store) ReplaceCandidates(ctx context.Context, items []models.Candidate) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Candidate{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.CreateInBatches(items, 200).Error
	})
}

func (s *Store) ListCandidates(ctx context.Context, params repository.ListCandidatesParams) ([]models.Candidate, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	limit := normalizeLimit(params.Limit, 200)
	offset := normalizeOffset(params.Offset)
	var items []models.Candidate
	if err := s.db.WithContext(ctx).
		Model(&models.Candidate{}).
		Order("position asc").
		Limit(limit).
		Offset(offset).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountCandidates(ctx context.Context) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Candidate{}).Count(&count).Error
	return count, err
}

// --- Trades and summaries ---------------------------------------------------

func (s *Store) ReplaceTradeRecords(ctx context.Context, symbol string, items []models.TradeRecord) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("symbol = ?", symbol).Delete(&models.TradeRecord{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.CreateInBatches(items, 200).Error
	})
}

func (s *Store) ListTradeRecordsBySymbol(ctx context.Context, symbol string) ([]models.TradeRecord, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.TradeRecord
	if err := s.db.WithContext(ctx).
		Model(&models.TradeRecord{}).
		Where("symbol = ?", symbol).
		Order("buy_date asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) UpsertSummary(ctx context.Context, item *models.InstrumentSummary) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name",
			"total_return_pct",
			"trade_count",
			"avg_return_pct",
			"total_hold_days",
			"updated_at",
		}),
	}).Create(item).Error
}

func (s *Store) ListSummaries(ctx context.Context, params repository.ListSummariesParams) ([]models.InstrumentSummary, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.InstrumentSummary{})
	query = applyOrder(query, params.OrderBy, params.Asc, "total_return_pct")
	limit := normalizeLimit(params.Limit, 200)
	offset := normalizeOffset(params.Offset)
	var items []models.InstrumentSummary
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountSummaries(ctx context.Context) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&models.InstrumentSummary{}).Count(&count).Error
	return count, err
}

// --- Pipeline runs ----------------------------------------------------------

func (s *Store) InsertPipelineRun(ctx context.Context, item *models.PipelineRun) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) UpdatePipelineRun(ctx context.Context, item *models.PipelineRun) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.PipelineRun{}).
		Where("run_id = ?", item.RunID).
		Updates(map[string]any{
			"finished_at": item.FinishedAt,
			"processed":   item.Processed,
			"skipped":     item.Skipped,
			"candidates":  item.Candidates,
			"trades":      item.Trades,
			"stats":       item.Stats,
		}).Error
}

func (s *Store) ListPipelineRuns(ctx context.Context, params repository.ListPipelineRunsParams) ([]models.PipelineRun, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.PipelineRun{})
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("started_at >= ?", *params.Since)
	}
	limit := normalizeLimit(params.Limit, 50)
	var items []models.PipelineRun
	if err := query.Order("started_at desc").Limit(limit).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- helpers ----------------------------------------------------------------

func applyOrder(query *gorm.DB, orderBy string, asc *bool, fallback string) *gorm.DB {
	column := strings.TrimSpace(orderBy)
	if column == "" {
		column = fallback
	}
	direction := "desc"
	if asc != nil && *asc {
		direction = "asc"
	}
	return query.Order(column + " " + direction)
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 500 {
		return 500
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

var _ repository.Repository = (*Store)(nil)
