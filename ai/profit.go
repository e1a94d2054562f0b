package ai

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"app/models"
	"app/utils"
)

const (
	starMarginPct      = 20.0
	starVolumeQuantile = 0.7
)

type itemTotals struct {
	profit   float64
	quantity int
	amount   float64
}

// ProfitabilityInsights aggregates profit, volume and revenue per inventory
// item across sale transactions and flags "profit stars": items whose
// margin exceeds 20% and whose volume sits at or above the 70th percentile
// of all items in this snapshot. The percentile is recomputed every call.
// Sales without a catalog match are dropped silently. Results are sorted by
// total profit, highest first.
func (s *Service) ProfitabilityInsights(items []models.InventoryItem, txns []models.Transaction) []models.ProfitabilityInsight {
	totals := make(map[string]*itemTotals)
	order := make([]string, 0)
	for _, t := range txns {
		if t.Type != models.TxTypeSale || t.InventoryItemID == nil {
			continue
		}
		id := *t.InventoryItemID
		agg, ok := totals[id]
		if !ok {
			agg = &itemTotals{}
			totals[id] = agg
			order = append(order, id)
		}
		agg.profit += t.Profit
		agg.quantity += t.Quantity
		agg.amount += t.Amount
	}
	if len(totals) == 0 {
		return []models.ProfitabilityInsight{}
	}

	volumes := make([]float64, 0, len(totals))
	for _, agg := range totals {
		volumes = append(volumes, float64(agg.quantity))
	}
	sort.Float64s(volumes)
	volumeCutoff := stat.Quantile(starVolumeQuantile, stat.Empirical, volumes, nil)

	catalog := make(map[string]models.InventoryItem, len(items))
	for _, item := range items {
		catalog[item.ID] = item
	}

	insights := make([]models.ProfitabilityInsight, 0, len(totals))
	for _, id := range order {
		item, ok := catalog[id]
		if !ok {
			continue
		}
		agg := totals[id]
		margin := 0.0
		if agg.amount > 0 {
			margin = agg.profit / agg.amount * 100
		}
		insights = append(insights, models.ProfitabilityInsight{
			ItemID:      item.ID,
			Name:        item.Name,
			TotalProfit: agg.profit,
			Volume:      agg.quantity,
			MarginPct:   utils.RoundFloat(margin, 2),
			IsStar:      margin > starMarginPct && float64(agg.quantity) >= volumeCutoff,
		})
	}

	sort.SliceStable(insights, func(i, j int) bool {
		return insights[i].TotalProfit > insights[j].TotalProfit
	})
	return insights
}
