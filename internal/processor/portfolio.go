package processor

import (
	"sort"

	"StockPulse/internal/domain/models"
)

const rankingSize = 5

// AggregatePortfolio computes portfolio totals and gainer/loser rankings for
// the records the caller actually holds (holdings[code] > 0). Previous value
// is reconstructed from (currentPrice - priceChange) * shares; a zero previous
// value yields a zero gain percentage rather than a division by zero.
func AggregatePortfolio(records []models.StockRecord, holdings map[string]float64) models.PortfolioSummary {
	summary := models.PortfolioSummary{
		TopGainers: []models.HoldingPerformance{},
		TopLosers:  []models.HoldingPerformance{},
	}

	var previousValue float64
	held := make([]models.HoldingPerformance, 0, len(holdings))

	for _, r := range records {
		shares := holdings[r.Code]
		if shares <= 0 {
			continue
		}
		summary.TotalValue += r.CurrentPrice * shares
		previousValue += (r.CurrentPrice - r.PriceChange) * shares

		held = append(held, models.HoldingPerformance{
			Code:           r.Code,
			Name:           r.Name,
			Shares:         shares,
			CurrentPrice:   r.CurrentPrice,
			PriceChangePct: r.PriceChangePct,
		})
	}

	summary.TotalGain = summary.TotalValue - previousValue
	if previousValue != 0 {
		summary.TotalGainPct = summary.TotalGain / previousValue * 100
	}

	// Rank by percentage move; zero-change holdings appear in neither list.
	sort.Slice(held, func(i, j int) bool {
		return held[i].PriceChangePct > held[j].PriceChangePct
	})
	for _, h := range held {
		if h.PriceChangePct > 0 && len(summary.TopGainers) < rankingSize {
			summary.TopGainers = append(summary.TopGainers, h)
		}
	}
	for i := len(held) - 1; i >= 0; i-- {
		if held[i].PriceChangePct < 0 && len(summary.TopLosers) < rankingSize {
			summary.TopLosers = append(summary.TopLosers, held[i])
		}
	}

	return summary
}
