// Package pipeline drives a full scan: decode day files, merge and persist
// series, adjust, enrich, select candidates, backtest, summarize.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"ashare/internal/adjust"
	"ashare/internal/config"
	"ashare/internal/export"
	"ashare/internal/indicator"
	"ashare/internal/models"
	"ashare/internal/repository"
	"ashare/internal/series"
	"ashare/internal/strategy"
	"ashare/internal/tdx"
)

type Pipeline struct {
	cfg    config.Config
	log    *zap.Logger
	repo   repository.Repository
	sel    *strategy.Selector
	bt     *strategy.Backtester
	saver  export.Saver
	roster map[string]string
	mode   adjust.Mode
}

// Result is what one Run produced, mirrored into the pipeline_runs table.
type Result struct {
	RunID      string
	Processed  int
	Skipped    int
	Candidates int
	Trades     int
	Elapsed    time.Duration
}

func New(cfg config.Config, log *zap.Logger, repo repository.Repository, roster map[string]string) (*Pipeline, error) {
	mode, err := adjust.ParseMode(cfg.Pipeline.AdjustMode)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg:    cfg,
		log:    log,
		repo:   repo,
		sel:    strategy.NewSelector(cfg.Selection),
		bt:     strategy.NewBacktester(cfg.Backtest),
		saver:  export.NewSaver(cfg.Data.ExportFormat),
		roster: roster,
		mode:   mode,
	}, nil
}

// instrumentOutcome is one worker's result, collected by input index so
// candidate order matches the day-file listing regardless of scheduling.
type instrumentOutcome struct {
	instrument models.Instrument
	candidate  bool
	trades     int
	skipped    bool
}

// Run executes one full scan. Per-instrument failures are logged and counted
// as skips; only structural failures (unreadable day directory, storage
// errors on the shared tables) abort the run.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	started := time.Now().UTC()
	run := models.PipelineRun{
		RunID:     uuid.NewString(),
		StartedAt: started,
	}
	if err := p.repo.InsertPipelineRun(ctx, &run); err != nil {
		return Result{}, fmt.Errorf("pipeline: record run: %w", err)
	}

	paths, err := tdx.ListDayFiles(p.cfg.Data.DayDir)
	if err != nil {
		return Result{}, err
	}
	p.log.Info("pipeline run started",
		zap.String("run_id", run.RunID),
		zap.Int("day_files", len(paths)),
		zap.String("adjust_mode", string(p.mode)))

	if p.saver != nil {
		if err := os.MkdirAll(p.cfg.Data.ExportDir, 0o755); err != nil {
			return Result{}, fmt.Errorf("pipeline: create export dir: %w", err)
		}
	}

	events, err := tdx.ReadXdxrFile(p.cfg.Data.EventsPath)
	if err != nil {
		return Result{}, err
	}
	if events == nil {
		p.log.Warn("corporate-action file missing, adjustment degrades to none",
			zap.String("path", p.cfg.Data.EventsPath))
	}
	if err := p.repo.ReplaceCorporateActions(ctx, events); err != nil {
		return Result{}, fmt.Errorf("pipeline: store corporate actions: %w", err)
	}
	eventsBySymbol := groupEvents(events)

	outcomes := make([]instrumentOutcome, len(paths))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers())
	for i, path := range paths {
		g.Go(func() error {
			symbol := tdx.SymbolFromFilename(path)
			out, err := p.processInstrument(gctx, path, symbol, eventsBySymbol[symbol])
			if err != nil {
				p.log.Warn("instrument skipped",
					zap.String("symbol", symbol),
					zap.Error(err))
				out = instrumentOutcome{skipped: true}
			}
			mu.Lock()
			outcomes[i] = out
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	res := Result{RunID: run.RunID}
	var instruments []models.Instrument
	var candidates []models.Candidate
	for _, out := range outcomes {
		if out.skipped {
			res.Skipped++
			continue
		}
		res.Processed++
		res.Trades += out.trades
		instruments = append(instruments, out.instrument)
		if out.candidate {
			candidates = append(candidates, models.Candidate{
				Position: len(candidates),
				Symbol:   out.instrument.Symbol,
				Exchange: out.instrument.Exchange,
				Code:     out.instrument.Code,
				Name:     out.instrument.Name,
			})
		}
	}
	res.Candidates = len(candidates)

	if err := p.repo.UpsertInstruments(ctx, instruments); err != nil {
		return Result{}, fmt.Errorf("pipeline: store instruments: %w", err)
	}
	if err := p.repo.ReplaceCandidates(ctx, candidates); err != nil {
		return Result{}, fmt.Errorf("pipeline: store candidates: %w", err)
	}
	if p.saver != nil {
		path := filepath.Join(p.cfg.Data.ExportDir, "candidates."+p.saver.Extension())
		if err := p.saver.SaveCandidates(candidates, path); err != nil {
			return Result{}, fmt.Errorf("pipeline: export candidates: %w", err)
		}
	}

	res.Elapsed = time.Since(started)
	finished := time.Now().UTC()
	run.FinishedAt = &finished
	run.Processed = res.Processed
	run.Skipped = res.Skipped
	run.Candidates = res.Candidates
	run.Trades = res.Trades
	run.Stats = runStats(res)
	if err := p.repo.UpdatePipelineRun(ctx, &run); err != nil {
		return Result{}, fmt.Errorf("pipeline: finish run: %w", err)
	}

	p.log.Info("pipeline run finished",
		zap.String("run_id", run.RunID),
		zap.Int("processed", res.Processed),
		zap.Int("skipped", res.Skipped),
		zap.Int("candidates", res.Candidates),
		zap.Int("trades", res.Trades),
		zap.Duration("elapsed", res.Elapsed))
	return res, nil
}

// processInstrument runs the whole per-symbol flow. Any error makes the
// caller count the symbol as skipped without touching other symbols.
func (p *Pipeline) processInstrument(ctx context.Context, path, symbol string, events []models.CorporateAction) (instrumentOutcome, error) {
	batch, err := tdx.ReadDayFile(path)
	if err != nil {
		return instrumentOutcome{}, err
	}

	existing, err := p.repo.ListBarsBySymbol(ctx, symbol)
	if err != nil {
		return instrumentOutcome{}, err
	}
	if fresh := series.NewDates(existing, batch); len(fresh) > 0 {
		if err := p.repo.InsertBarsIgnoreExisting(ctx, fresh); err != nil {
			return instrumentOutcome{}, err
		}
	}
	merged := series.Merge(existing, batch)

	adjusted := adjust.Apply(merged, events, p.mode)
	enriched := indicator.Enrich(adjusted)

	exchange, code := tdx.SplitSymbol(symbol)
	name, ok := p.roster[symbol]
	if !ok {
		name = UnknownName
	}
	out := instrumentOutcome{
		instrument: models.Instrument{
			Symbol:   symbol,
			Exchange: exchange,
			Code:     code,
			Name:     name,
		},
	}

	out.candidate = p.sel.Accept(name, enriched)

	trades := p.bt.Run(symbol, name, enriched)
	out.trades = len(trades)
	if err := p.repo.ReplaceTradeRecords(ctx, symbol, trades); err != nil {
		return instrumentOutcome{}, err
	}
	summary := strategy.Summarize(symbol, name, trades)
	if err := p.repo.UpsertSummary(ctx, &summary); err != nil {
		return instrumentOutcome{}, err
	}
	if p.saver != nil && len(trades) > 0 {
		tradePath := filepath.Join(p.cfg.Data.ExportDir, "trades_"+symbol+"."+p.saver.Extension())
		if err := p.saver.SaveTrades(trades, tradePath); err != nil {
			return instrumentOutcome{}, err
		}
	}
	return out, nil
}

func (p *Pipeline) workers() int {
	if p.cfg.Pipeline.Workers > 0 {
		return p.cfg.Pipeline.Workers
	}
	return 1
}

func groupEvents(events []models.CorporateAction) map[string][]models.CorporateAction {
	bySymbol := make(map[string][]models.CorporateAction)
	for _, ev := range events {
		bySymbol[ev.Symbol] = append(bySymbol[ev.Symbol], ev)
	}
	return bySymbol
}

func runStats(res Result) datatypes.JSON {
	raw, _ := json.Marshal(map[string]any{
		"processed":  res.Processed,
		"skipped":    res.Skipped,
		"candidates": res.Candidates,
		"trades":     res.Trades,
		"elapsed_ms": res.Elapsed.Milliseconds(),
	})
	return datatypes.JSON(raw)
}
