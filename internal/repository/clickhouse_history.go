package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	pkgch "StockPulse/pkg/clickhouse"
	applogger "StockPulse/pkg/logger"
	"StockPulse/pkg/util"
)

// CHHistoryStore implements HistoryStore backed by ClickHouse candle tables.
type CHHistoryStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHHistoryStore(ch *pkgch.Client) *CHHistoryStore {
	return &CHHistoryStore{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHHistoryStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHHistoryStore) Candles(ctx context.Context, symbol string, from, to time.Time, tf domrepo.Timeframe) ([]models.PricePoint, error) {
	table, err := tableForTF(tf)
	if err != nil {
		return nil, err
	}
	from, to = util.AlignFromTo(from, to, string(tf))
	q := fmt.Sprintf(`
        SELECT bucket, open, high, low, close, vol
        FROM %s
        WHERE symbol = ? AND bucket >= ? AND bucket <= ?
        ORDER BY bucket ASC
    `, table)

	rows, err := s.db.QueryContext(ctx, q, symbol, from, to)
	if err != nil {
		s.logQueryError("candles", table, symbol, err)
		return nil, fmt.Errorf("query candles: %w", err)
	}
	defer rows.Close()

	out := make([]models.PricePoint, 0, 256)
	for rows.Next() {
		var p models.PricePoint
		if err := rows.Scan(&p.Date, &p.Open, &p.High, &p.Low, &p.Close, &p.Volume); err != nil {
			s.logQueryError("candles scan", table, symbol, err)
			return nil, fmt.Errorf("scan candle: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func (s *CHHistoryStore) LatestCandles(ctx context.Context, symbol string, n int, tf domrepo.Timeframe) ([]models.PricePoint, error) {
	table, err := tableForTF(tf)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`
        SELECT bucket, open, high, low, close, vol
        FROM %s
        WHERE symbol = ?
        ORDER BY bucket DESC
        LIMIT ?
    `, table)

	rows, err := s.db.QueryContext(ctx, q, symbol, n)
	if err != nil {
		s.logQueryError("latest candles", table, symbol, err)
		return nil, fmt.Errorf("query latest candles: %w", err)
	}
	defer rows.Close()

	out := make([]models.PricePoint, 0, n)
	for rows.Next() {
		var p models.PricePoint
		if err := rows.Scan(&p.Date, &p.Open, &p.High, &p.Low, &p.Close, &p.Volume); err != nil {
			s.logQueryError("latest candles scan", table, symbol, err)
			return nil, fmt.Errorf("scan candle: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	// Oldest-first for the indicator pipeline.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (s *CHHistoryStore) logQueryError(op, table, symbol string, err error) {
	if s.l == nil {
		return
	}
	s.l.Error("clickhouse "+op+" error",
		applogger.String("table", table),
		applogger.String("symbol", symbol),
		applogger.Error(err))
}

func tableForTF(tf domrepo.Timeframe) (string, error) {
	switch tf {
	case domrepo.TF1m:
		return "stockpulse.candles_1m", nil
	case domrepo.TF1h:
		return "stockpulse.candles_1h", nil
	case domrepo.TF1d, domrepo.TF1w:
		// weekly is folded to daily; callers aggregate in memory if needed
		return "stockpulse.candles_1d", nil
	default:
		return "", fmt.Errorf("unsupported timeframe: %s", tf)
	}
}
