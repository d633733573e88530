package api

import (
	"github.com/labstack/echo/v4"
)

// Router composes the API handlers into a single route registrar.
type Router struct {
	engine  *EngineHandler
	market  *MarketHandler
	history *HistoryHandler
}

func NewRouter(engine *EngineHandler, market *MarketHandler, history *HistoryHandler) *Router {
	return &Router{engine: engine, market: market, history: history}
}

func (r *Router) RegisterRoutes(e *echo.Echo) {
	if r.engine != nil {
		r.engine.RegisterRoutes(e)
	}
	if r.market != nil {
		r.market.RegisterRoutes(e)
	}
	if r.history != nil {
		r.history.RegisterRoutes(e)
	}
}
