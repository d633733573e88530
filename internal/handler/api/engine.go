package api

import (
	"context"
	"time"

	models "StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	"StockPulse/internal/usecase"
	xhttp "StockPulse/pkg/http"
	xlogger "StockPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// EngineHandler exposes the task engine over HTTP: each endpoint builds a
// task, submits it, and awaits the correlated result.
type EngineHandler struct {
	logger  *xlogger.Logger
	engine  *usecase.EngineService
	history domrepo.HistoryStore
	table   Snapshotter
	timeout time.Duration
}

// Snapshotter provides a point-in-time copy of the live stock table.
type Snapshotter interface {
	Snapshot() []models.StockRecord
}

func NewEngineHandler(logger *xlogger.Logger, engine *usecase.EngineService, history domrepo.HistoryStore, table Snapshotter, timeout time.Duration) *EngineHandler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &EngineHandler{logger: logger, engine: engine, history: history, table: table, timeout: timeout}
}

func (h *EngineHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/engine")
	g.POST("/indicators", h.Indicators)
	g.POST("/filter", h.Filter)
	g.POST("/portfolio", h.Portfolio)
}

func (h *EngineHandler) Indicators(c echo.Context) error {
	req := &models.IndicatorsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	ctx, cancel := h.taskContext(c)
	defer cancel()

	points := req.Points
	if len(points) == 0 && req.Symbol != "" && h.history != nil {
		var err error
		points, err = h.history.LatestCandles(ctx, req.Symbol, req.N, domrepo.DefaultTimeframe())
		if err != nil {
			h.logger.Error("history load failed",
				xlogger.String("symbol", req.Symbol),
				xlogger.Error(err))
			return xhttp.AppErrorResponse(c, err)
		}
	}

	res, err := h.engine.ComputeIndicators(ctx, models.IndicatorsPayload{
		Points:     points,
		Indicators: req.Indicators,
	})
	if err != nil {
		h.logger.Error("indicators task failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *EngineHandler) Filter(c echo.Context) error {
	req := &models.FilterRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	ctx, cancel := h.taskContext(c)
	defer cancel()

	records := req.Records
	if len(records) == 0 && h.table != nil {
		records = h.table.Snapshot()
	}

	res, err := h.engine.FilterRecords(ctx, models.BulkPayload{
		Records: records,
		Options: req.Options,
		AsKind:  models.KindFilterSort,
	})
	if err != nil {
		h.logger.Error("filter task failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *EngineHandler) Portfolio(c echo.Context) error {
	req := &models.PortfolioRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	ctx, cancel := h.taskContext(c)
	defer cancel()

	records := req.Records
	if len(records) == 0 && h.table != nil {
		records = h.table.Snapshot()
	}

	res, err := h.engine.AggregatePortfolio(ctx, models.PortfolioPayload{
		Records:  records,
		Holdings: req.Holdings,
	})
	if err != nil {
		h.logger.Error("portfolio task failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *EngineHandler) taskContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), h.timeout)
}
