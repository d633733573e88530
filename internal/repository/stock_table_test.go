package repository

import (
	"math"
	"testing"

	"StockPulse/internal/domain/models"
)

func TestApplyQuoteMaintainsChangeInvariant(t *testing.T) {
	table := NewStockTable([]models.StockRecord{
		{Code: "AAPL", Name: "Apple", CurrentPrice: 100, PriceChange: 0},
	})

	table.ApplyQuote(&models.QuoteUpdate{Symbol: "AAPL", Price: 104, Volume: 10})

	r, ok := table.Get("AAPL")
	if !ok {
		t.Fatal("record missing")
	}
	if math.Abs(r.PriceChange-4) > 1e-9 {
		t.Errorf("expected change 4, got %.4f", r.PriceChange)
	}
	if math.Abs(r.PriceChangePct-4) > 1e-9 {
		t.Errorf("expected 4%%, got %.4f", r.PriceChangePct)
	}
	// currentPrice - priceChange must reconstruct the previous close.
	if math.Abs((r.CurrentPrice-r.PriceChange)-100) > 1e-9 {
		t.Errorf("previous close drifted: %.4f", r.CurrentPrice-r.PriceChange)
	}
}

func TestApplyQuoteUnknownSymbolCreatesRecord(t *testing.T) {
	table := NewStockTable(nil)
	table.ApplyQuote(&models.QuoteUpdate{Symbol: "TSLA", Price: 240, Volume: 5})

	r, ok := table.Get("TSLA")
	if !ok {
		t.Fatal("expected record created")
	}
	if r.PriceChange != 0 {
		t.Errorf("first tick should have zero change, got %.4f", r.PriceChange)
	}
	if table.Len() != 1 {
		t.Errorf("expected 1 record, got %d", table.Len())
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	table := NewStockTable([]models.StockRecord{{Code: "MSFT", CurrentPrice: 400}})
	snap := table.Snapshot()
	snap[0].CurrentPrice = 1

	r, _ := table.Get("MSFT")
	if r.CurrentPrice != 400 {
		t.Errorf("snapshot mutation leaked into table: %.2f", r.CurrentPrice)
	}
}
