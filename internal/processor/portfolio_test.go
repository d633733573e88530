package processor

import (
	"fmt"
	"math"
	"testing"

	"StockPulse/internal/domain/models"
)

func TestAggregateEmptyPortfolio(t *testing.T) {
	got := AggregatePortfolio(nil, map[string]float64{})
	if got.TotalValue != 0 || got.TotalGain != 0 || got.TotalGainPct != 0 {
		t.Errorf("expected zero totals, got %+v", got)
	}
	if len(got.TopGainers) != 0 || len(got.TopLosers) != 0 {
		t.Errorf("expected empty rankings, got %+v", got)
	}
}

func TestAggregateTotals(t *testing.T) {
	records := []models.StockRecord{
		{Code: "AAPL", CurrentPrice: 110, PriceChange: 10, PriceChangePct: 10},
		{Code: "MSFT", CurrentPrice: 190, PriceChange: -10, PriceChangePct: -5},
		{Code: "TSLA", CurrentPrice: 50, PriceChange: 5, PriceChangePct: 11.1},
	}
	holdings := map[string]float64{"AAPL": 10, "MSFT": 5}

	got := AggregatePortfolio(records, holdings)
	// value = 110*10 + 190*5 = 2050; previous = 100*10 + 200*5 = 2000
	if math.Abs(got.TotalValue-2050) > 1e-9 {
		t.Errorf("expected total value 2050, got %.2f", got.TotalValue)
	}
	if math.Abs(got.TotalGain-50) > 1e-9 {
		t.Errorf("expected gain 50, got %.2f", got.TotalGain)
	}
	if math.Abs(got.TotalGainPct-2.5) > 1e-9 {
		t.Errorf("expected gain pct 2.5, got %.4f", got.TotalGainPct)
	}
}

func TestAggregateSkipsUnheldAndZeroShareRecords(t *testing.T) {
	records := []models.StockRecord{
		{Code: "AAPL", CurrentPrice: 100, PriceChange: 1, PriceChangePct: 1},
		{Code: "MSFT", CurrentPrice: 100, PriceChange: 1, PriceChangePct: 1},
	}
	got := AggregatePortfolio(records, map[string]float64{"AAPL": 0, "MSFT": 2})
	if math.Abs(got.TotalValue-200) > 1e-9 {
		t.Errorf("expected only MSFT counted, got value %.2f", got.TotalValue)
	}
	if len(got.TopGainers) != 1 || got.TopGainers[0].Code != "MSFT" {
		t.Errorf("expected MSFT as the only gainer, got %+v", got.TopGainers)
	}
}

func TestAggregateZeroPreviousValue(t *testing.T) {
	// currentPrice == priceChange makes previous value zero.
	records := []models.StockRecord{{Code: "NEW", CurrentPrice: 10, PriceChange: 10, PriceChangePct: 100}}
	got := AggregatePortfolio(records, map[string]float64{"NEW": 3})
	if got.TotalGainPct != 0 {
		t.Errorf("expected 0 gain pct on zero previous value, got %.4f", got.TotalGainPct)
	}
	if math.Abs(got.TotalGain-30) > 1e-9 {
		t.Errorf("expected gain 30, got %.2f", got.TotalGain)
	}
}

func TestRankingsCapAndOrdering(t *testing.T) {
	var records []models.StockRecord
	holdings := make(map[string]float64)
	for i := 0; i < 7; i++ {
		code := fmt.Sprintf("UP%d", i)
		records = append(records, models.StockRecord{Code: code, CurrentPrice: 100, PriceChange: 1, PriceChangePct: float64(i + 1)})
		holdings[code] = 1
	}
	for i := 0; i < 7; i++ {
		code := fmt.Sprintf("DN%d", i)
		records = append(records, models.StockRecord{Code: code, CurrentPrice: 100, PriceChange: -1, PriceChangePct: -float64(i + 1)})
		holdings[code] = 1
	}
	records = append(records, models.StockRecord{Code: "FLAT", CurrentPrice: 100, PriceChangePct: 0})
	holdings["FLAT"] = 1

	got := AggregatePortfolio(records, holdings)
	if len(got.TopGainers) != 5 || len(got.TopLosers) != 5 {
		t.Fatalf("expected rankings of 5, got %d/%d", len(got.TopGainers), len(got.TopLosers))
	}
	if got.TopGainers[0].PriceChangePct != 7 {
		t.Errorf("expected best gainer +7%%, got %.2f", got.TopGainers[0].PriceChangePct)
	}
	for i := 1; i < len(got.TopGainers); i++ {
		if got.TopGainers[i].PriceChangePct > got.TopGainers[i-1].PriceChangePct {
			t.Errorf("gainers not descending at %d", i)
		}
	}
	if got.TopLosers[0].PriceChangePct != -7 {
		t.Errorf("expected worst loser -7%%, got %.2f", got.TopLosers[0].PriceChangePct)
	}
	for i := 1; i < len(got.TopLosers); i++ {
		if got.TopLosers[i].PriceChangePct < got.TopLosers[i-1].PriceChangePct {
			t.Errorf("losers not most-negative-first at %d", i)
		}
	}
	for _, h := range append(got.TopGainers, got.TopLosers...) {
		if h.Code == "FLAT" {
			t.Errorf("zero-change holding appears in a ranking")
		}
	}
}
