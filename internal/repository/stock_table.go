package repository

import (
	"sync"

	"StockPulse/internal/domain/models"
)

// StockTable is the in-memory live quote table the watch views read from.
// Writes come from the market stream or the Kafka quote consumer; reads
// always get a snapshot copy, so the engine never aliases table memory.
type StockTable struct {
	mu      sync.RWMutex
	records map[string]models.StockRecord
}

// NewStockTable creates an empty table, optionally seeded with records.
func NewStockTable(seed []models.StockRecord) *StockTable {
	t := &StockTable{records: make(map[string]models.StockRecord, len(seed))}
	for _, r := range seed {
		t.records[r.Code] = r
	}
	return t
}

// ApplyQuote updates a record from a live tick. The previous close is
// reconstructed from the existing record so priceChange stays consistent
// with currentPrice - previousClose.
func (t *StockTable) ApplyQuote(q *models.QuoteUpdate) {
	if q == nil || q.Symbol == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	r, ok := t.records[q.Symbol]
	if !ok {
		r = models.StockRecord{Code: q.Symbol, Name: q.Symbol}
	}
	prevClose := r.CurrentPrice - r.PriceChange
	if prevClose == 0 {
		prevClose = q.Price
	}
	r.CurrentPrice = q.Price
	r.PriceChange = q.Price - prevClose
	if prevClose != 0 {
		r.PriceChangePct = r.PriceChange / prevClose * 100
	}
	r.Volume += q.Volume
	t.records[q.Symbol] = r
}

// Get returns one record by code.
func (t *StockTable) Get(code string) (models.StockRecord, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r, ok := t.records[code]
	return r, ok
}

// Snapshot returns a copy of all records.
func (t *StockTable) Snapshot() []models.StockRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]models.StockRecord, 0, len(t.records))
	for _, r := range t.records {
		out = append(out, r)
	}
	return out
}

// Len returns the number of records.
func (t *StockTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.records)
}
