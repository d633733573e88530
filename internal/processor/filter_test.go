package processor

import (
	"testing"

	"StockPulse/internal/domain/models"
)

func sampleRecords() []models.StockRecord {
	return []models.StockRecord{
		{Code: "AAPL", Name: "Apple", CurrentPrice: 180, PriceChange: 2.5, PriceChangePct: 1.41, Volume: 5000},
		{Code: "MSFT", Name: "Microsoft", CurrentPrice: 410, PriceChange: -3.0, PriceChangePct: -0.73, Volume: 3200},
		{Code: "goog", Name: "Alphabet", CurrentPrice: 150, PriceChange: 0, PriceChangePct: 0, Volume: 2800},
		{Code: "TSLA", Name: "Tesla", CurrentPrice: 240, PriceChange: 12.0, PriceChangePct: 5.26, Volume: 9100},
		{Code: "AMZN", Name: "Amazon", CurrentPrice: 185, PriceChange: -1.2, PriceChangePct: -0.64, Volume: 4100},
	}
}

func TestSearchMatchesCodeAndNameCaseInsensitive(t *testing.T) {
	got := FilterSortSearch(sampleRecords(), models.FilterSortOptions{Search: "GOO"})
	if len(got) != 1 || got[0].Code != "goog" {
		t.Fatalf("expected goog by code, got %v", got)
	}
	got = FilterSortSearch(sampleRecords(), models.FilterSortOptions{Search: "apple"})
	if len(got) != 1 || got[0].Code != "AAPL" {
		t.Fatalf("expected AAPL by name, got %v", got)
	}
}

func TestGainersOnlyStrictSign(t *testing.T) {
	got := FilterSortSearch(sampleRecords(), models.FilterSortOptions{GainersOnly: true})
	if len(got) != 2 {
		t.Fatalf("expected 2 gainers, got %d", len(got))
	}
	for _, r := range got {
		if r.PriceChange <= 0 {
			t.Errorf("record %s has non-positive change %.2f", r.Code, r.PriceChange)
		}
	}
}

func TestGainersAndLosersAreMutuallyExclusive(t *testing.T) {
	got := FilterSortSearch(sampleRecords(), models.FilterSortOptions{GainersOnly: true, LosersOnly: true})
	if len(got) != 0 {
		t.Fatalf("expected empty set, got %d records", len(got))
	}
}

func TestPriceRangeFilter(t *testing.T) {
	min, max := 160.0, 250.0
	got := FilterSortSearch(sampleRecords(), models.FilterSortOptions{MinPrice: &min, MaxPrice: &max})
	if len(got) != 3 {
		t.Fatalf("expected 3 records in range, got %d", len(got))
	}
	for _, r := range got {
		if r.CurrentPrice < min || r.CurrentPrice > max {
			t.Errorf("record %s price %.2f outside [%.2f, %.2f]", r.Code, r.CurrentPrice, min, max)
		}
	}
}

func TestSortDescendingByVolume(t *testing.T) {
	got := FilterSortSearch(sampleRecords(), models.FilterSortOptions{SortBy: "volume", SortOrder: "desc"})
	for i := 1; i < len(got); i++ {
		if got[i].Volume > got[i-1].Volume {
			t.Fatalf("not descending at index %d: %.0f > %.0f", i, got[i].Volume, got[i-1].Volume)
		}
	}
}

func TestSortStringFieldLowercased(t *testing.T) {
	got := FilterSortSearch(sampleRecords(), models.FilterSortOptions{SortBy: "code", SortOrder: "asc"})
	// "goog" must sort between AMZN and MSFT, not after all uppercase codes.
	wantOrder := []string{"AAPL", "AMZN", "goog", "MSFT", "TSLA"}
	for i, want := range wantOrder {
		if got[i].Code != want {
			t.Fatalf("index %d: expected %s, got %s", i, want, got[i].Code)
		}
	}
}

func TestPipelineOrderSearchThenFilterThenSort(t *testing.T) {
	got := FilterSortSearch(sampleRecords(), models.FilterSortOptions{
		Search:      "a", // Apple, Alphabet, Amazon, Tesla (name), AAPL/AMZN/TSLA codes
		GainersOnly: true,
		SortBy:      "currentPrice",
		SortOrder:   "asc",
	})
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Code != "AAPL" || got[1].Code != "TSLA" {
		t.Fatalf("unexpected order: %s, %s", got[0].Code, got[1].Code)
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	records := sampleRecords()
	FilterSortSearch(records, models.FilterSortOptions{SortBy: "volume", SortOrder: "desc"})
	if records[0].Code != "AAPL" {
		t.Fatalf("input slice was reordered; first is %s", records[0].Code)
	}
}
