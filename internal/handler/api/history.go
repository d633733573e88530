package api

import (
	"time"

	domrepo "StockPulse/internal/domain/repository"
	"StockPulse/internal/usecase"
	xhttp "StockPulse/pkg/http"
	xlogger "StockPulse/pkg/logger"
	"StockPulse/pkg/util"

	"github.com/labstack/echo/v4"
)

// HistoryHandler serves candle history.
type HistoryHandler struct {
	logger  *xlogger.Logger
	candles *usecase.CandlesUseCase
}

func NewHistoryHandler(logger *xlogger.Logger, candles *usecase.CandlesUseCase) *HistoryHandler {
	return &HistoryHandler{logger: logger, candles: candles}
}

func (h *HistoryHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/history/:symbol", h.Candles)
}

// Candles returns OHLCV bars. Query params: tf (1m/1h/1d/1w), from/to
// (RFC3339 or unix seconds, default last 30 days), limit (most-recent n,
// overrides from/to).
func (h *HistoryHandler) Candles(c echo.Context) error {
	symbol := c.Param("symbol")
	if symbol == "" {
		return xhttp.BadRequestResponse(c, "symbol is required")
	}
	tf := domrepo.NormalizeTimeframe(c.QueryParam("tf"))
	ctx := c.Request().Context()

	if limit := util.ParseIntDefault(c.QueryParam("limit"), 0); limit > 0 {
		points, err := h.candles.Latest(ctx, symbol, limit, tf)
		if err != nil {
			h.logger.Error("history query failed", xlogger.String("symbol", symbol), xlogger.Error(err))
			return xhttp.AppErrorResponse(c, err)
		}
		return xhttp.ListResponse(c, points, int64(len(points)))
	}

	now := time.Now()
	res, err := h.candles.GetCandles(ctx, usecase.GetCandlesParams{
		Symbol:    symbol,
		From:      util.ParseTimeDefault(c.QueryParam("from"), now.AddDate(0, 0, -30)),
		To:        util.ParseTimeDefault(c.QueryParam("to"), now),
		Timeframe: tf,
	})
	if err != nil {
		h.logger.Error("history query failed", xlogger.String("symbol", symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}
