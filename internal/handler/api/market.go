package api

import (
	models "StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	"StockPulse/internal/processor"
	xhttp "StockPulse/pkg/http"
	xlogger "StockPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// MarketHandler serves the live stock table and per-user watchlists. Table
// reads are synchronous; they do not go through the task engine.
type MarketHandler struct {
	logger    *xlogger.Logger
	table     Snapshotter
	watchlist domrepo.Watchlist
}

func NewMarketHandler(logger *xlogger.Logger, table Snapshotter, watchlist domrepo.Watchlist) *MarketHandler {
	return &MarketHandler{logger: logger, table: table, watchlist: watchlist}
}

func (h *MarketHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/stocks", h.Stocks)

	// watchlist routes need the redis store
	if h.watchlist != nil {
		g := e.Group("/api/watchlist")
		g.GET("/:user", h.List)
		g.POST("/:user", h.Add)
		g.DELETE("/:user/:code", h.Remove)
	}
}

func (h *MarketHandler) Stocks(c echo.Context) error {
	req := &models.StocksRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	opts := models.FilterSortOptions{
		SortBy:      req.SortBy,
		SortOrder:   req.SortOrder,
		Search:      req.Search,
		GainersOnly: req.GainersOnly,
		LosersOnly:  req.LosersOnly,
	}
	if req.MinPrice > 0 {
		opts.MinPrice = &req.MinPrice
	}
	if req.MaxPrice > 0 {
		opts.MaxPrice = &req.MaxPrice
	}

	rows := processor.FilterSortSearch(h.table.Snapshot(), opts)
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

func (h *MarketHandler) List(c echo.Context) error {
	user := c.Param("user")
	if user == "" {
		return xhttp.BadRequestResponse(c, "user is required")
	}

	codes, err := h.watchlist.List(c.Request().Context(), user)
	if err != nil {
		h.logger.Error("watchlist list failed", xlogger.String("user", user), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, codes)
}

func (h *MarketHandler) Add(c echo.Context) error {
	user := c.Param("user")
	req := &models.WatchlistRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if err := h.watchlist.Add(c.Request().Context(), user, req.Code); err != nil {
		h.logger.Error("watchlist add failed", xlogger.String("user", user), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.CreatedResponse(c, req.Code)
}

func (h *MarketHandler) Remove(c echo.Context) error {
	user := c.Param("user")
	code := c.Param("code")
	if user == "" || code == "" {
		return xhttp.BadRequestResponse(c, "user and code are required")
	}

	if err := h.watchlist.Remove(c.Request().Context(), user, code); err != nil {
		h.logger.Error("watchlist remove failed", xlogger.String("user", user), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.NoContentResponse(c)
}
