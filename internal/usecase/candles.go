package usecase

import (
	"context"
	"fmt"
	"time"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
)

// CandlesUseCase provides validated access to candle history. Weekly bars
// are resampled in memory from daily, since the store only keeps
// minute/hour/day tables.
type CandlesUseCase struct {
	store domrepo.HistoryStore
}

func NewCandlesUseCase(store domrepo.HistoryStore) *CandlesUseCase {
	return &CandlesUseCase{store: store}
}

type GetCandlesParams struct {
	Symbol    string
	From      time.Time
	To        time.Time
	Timeframe domrepo.Timeframe
	Limit     int
}

type GetCandlesResult struct {
	Symbol    string              `json:"symbol"`
	Timeframe string              `json:"timeframe"`
	From      time.Time           `json:"from"`
	To        time.Time           `json:"to"`
	Count     int                 `json:"count"`
	Candles   []models.PricePoint `json:"candles"`
}

func (uc *CandlesUseCase) GetCandles(ctx context.Context, p GetCandlesParams) (*GetCandlesResult, error) {
	if p.Symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if p.From.After(p.To) {
		return nil, fmt.Errorf("from must be <= to")
	}
	if p.Limit <= 0 {
		p.Limit = 10000
	}
	if p.Limit > 50000 {
		p.Limit = 50000
	}

	candles, err := uc.store.Candles(ctx, p.Symbol, p.From, p.To, p.Timeframe)
	if err != nil {
		return nil, fmt.Errorf("get candles: %w", err)
	}
	if p.Timeframe == domrepo.TF1w {
		candles = ResampleWeekly(candles)
	}
	if len(candles) > p.Limit {
		candles = candles[:p.Limit]
	}

	return &GetCandlesResult{
		Symbol:    p.Symbol,
		Timeframe: string(p.Timeframe),
		From:      p.From,
		To:        p.To,
		Count:     len(candles),
		Candles:   candles,
	}, nil
}

// Latest returns the most recent n candles, oldest first.
func (uc *CandlesUseCase) Latest(ctx context.Context, symbol string, n int, tf domrepo.Timeframe) ([]models.PricePoint, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if n <= 0 {
		n = 200
	}
	fetch := n
	if tf == domrepo.TF1w {
		fetch = n * 7
	}
	candles, err := uc.store.LatestCandles(ctx, symbol, fetch, tf)
	if err != nil {
		return nil, fmt.Errorf("latest candles: %w", err)
	}
	if tf == domrepo.TF1w {
		candles = ResampleWeekly(candles)
		if len(candles) > n {
			candles = candles[len(candles)-n:]
		}
	}
	return candles, nil
}

// ResampleWeekly folds daily bars into ISO-week bars: first open, last close,
// max high, min low, summed volume. Input must be oldest-first.
func ResampleWeekly(daily []models.PricePoint) []models.PricePoint {
	if len(daily) == 0 {
		return nil
	}

	out := make([]models.PricePoint, 0, len(daily)/5+1)
	var cur models.PricePoint
	var curYear, curWeek int
	open := false

	for _, d := range daily {
		y, w := d.Date.ISOWeek()
		if !open || y != curYear || w != curWeek {
			if open {
				out = append(out, cur)
			}
			cur = d
			curYear, curWeek = y, w
			open = true
			continue
		}
		if d.High > cur.High {
			cur.High = d.High
		}
		if d.Low < cur.Low {
			cur.Low = d.Low
		}
		cur.Close = d.Close
		cur.Volume += d.Volume
	}
	out = append(out, cur)
	return out
}
