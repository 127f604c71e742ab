package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ashare/internal/pipeline"
	"ashare/internal/repository"
)

// ScanHandler exposes the scan results: candidates, summaries, per-symbol
// trades and run history. It can also kick off a run on demand.
type ScanHandler struct {
	Repo     repository.Repository
	Pipeline *pipeline.Pipeline
	Logger   *zap.Logger
}

func (h *ScanHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1")
	group.POST("/scan", h.runScan)
	group.GET("/instruments", h.listInstruments)
	group.GET("/candidates", h.listCandidates)
	group.GET("/summaries", h.listSummaries)
	group.GET("/instruments/:symbol/trades", h.listTrades)
	group.GET("/runs", h.listRuns)
}

func (h *ScanHandler) runScan(c *gin.Context) {
	if h.Pipeline == nil {
		Error(c, http.StatusInternalServerError, "pipeline unavailable", nil)
		return
	}
	res, err := h.Pipeline.Run(c.Request.Context())
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("scan failed", zap.Error(err))
		}
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, res, nil)
}

func (h *ScanHandler) listInstruments(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repository unavailable", nil)
		return
	}
	params := repository.ListInstrumentsParams{
		Limit:  intQuery(c, "limit", 100),
		Offset: intQuery(c, "offset", 0),
	}
	if ex := strings.TrimSpace(c.Query("exchange")); ex != "" {
		params.Exchange = &ex
	}
	items, err := h.Repo.ListInstruments(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountInstruments(c.Request.Context())
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(params.Limit, params.Offset, total))
}

func (h *ScanHandler) listCandidates(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repository unavailable", nil)
		return
	}
	params := repository.ListCandidatesParams{
		Limit:  intQuery(c, "limit", 100),
		Offset: intQuery(c, "offset", 0),
	}
	items, err := h.Repo.ListCandidates(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountCandidates(c.Request.Context())
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(params.Limit, params.Offset, total))
}

func (h *ScanHandler) listSummaries(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repository unavailable", nil)
		return
	}
	params := repository.ListSummariesParams{
		Limit:   intQuery(c, "limit", 100),
		Offset:  intQuery(c, "offset", 0),
		OrderBy: parseOrder(c.Query("order_by"), summaryOrderColumns),
	}
	if asc := boolQueryPtr(c, "asc"); asc != nil {
		params.Asc = asc
	}
	items, err := h.Repo.ListSummaries(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountSummaries(c.Request.Context())
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(params.Limit, params.Offset, total))
}

func (h *ScanHandler) listTrades(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repository unavailable", nil)
		return
	}
	symbol := strings.TrimSpace(c.Param("symbol"))
	if symbol == "" {
		Error(c, http.StatusBadRequest, "symbol required", nil)
		return
	}
	items, err := h.Repo.ListTradeRecordsBySymbol(c.Request.Context(), symbol)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, items, map[string]any{"symbol": symbol, "count": len(items)})
}

func (h *ScanHandler) listRuns(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repository unavailable", nil)
		return
	}
	items, err := h.Repo.ListPipelineRuns(c.Request.Context(), repository.ListPipelineRunsParams{
		Limit: intQuery(c, "limit", 20),
	})
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	Ok(c, items, nil)
}

var summaryOrderColumns = map[string]string{
	"total_return": "total_return_pct",
	"avg_return":   "avg_return_pct",
	"trades":       "trade_count",
	"symbol":       "symbol",
}

func intQuery(c *gin.Context, key string, def int) int {
	if val := c.Query(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return def
}

func boolQueryPtr(c *gin.Context, key string) *bool {
	if val := c.Query(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return &b
		}
	}
	return nil
}

func parseOrder(value string, allow map[string]string) string {
	key := strings.TrimSpace(strings.ToLower(value))
	if key == "" {
		return ""
	}
	if mapped, ok := allow[key]; ok {
		return mapped
	}
	return ""
}

func paginationMeta(limit, offset int, total int64) map[string]any {
	if limit <= 0 {
		limit = 0
	}
	if offset < 0 {
		offset = 0
	}
	hasNext := int64(offset+limit) < total
	return map[string]any{
		"limit":    limit,
		"offset":   offset,
		"total":    total,
		"has_next": hasNext,
	}
}
