package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"app/models"
)

func TestProfitabilityInsightsEmpty(t *testing.T) {
	insights := deterministic().ProfitabilityInsights(nil, nil)
	assert.Empty(t, insights)
}

func TestProfitabilityInsightsStarsAndSorting(t *testing.T) {
	ts := day(2025, time.June, 2)
	items := []models.InventoryItem{
		{ID: "a", Name: "Premium Ghee"},
		{ID: "b", Name: "Basic Rice"},
		{ID: "c", Name: "Cheap Candy"},
		{ID: "d", Name: "Bulk Flour"},
	}
	txns := []models.Transaction{
		// 40% margin, top-quartile volume: a star
		itemSale("a", ts, 100, 1000, 400),
		// 30% margin but volume below the 70th percentile cut
		itemSale("b", ts, 20, 500, 150),
		// high volume, thin 5% margin
		itemSale("c", ts, 30, 200, 10),
		// low on both axes
		itemSale("d", ts, 10, 100, 12),
	}

	insights := deterministic().ProfitabilityInsights(items, txns)
	assert.Len(t, insights, 4)

	// sorted by total profit, highest first
	assert.Equal(t, "a", insights[0].ItemID)
	assert.Equal(t, "b", insights[1].ItemID)

	byID := make(map[string]models.ProfitabilityInsight)
	for _, in := range insights {
		byID[in.ItemID] = in
	}
	assert.True(t, byID["a"].IsStar)
	assert.False(t, byID["b"].IsStar, "margin alone does not make a star")
	assert.False(t, byID["c"].IsStar, "volume alone does not make a star")
	assert.False(t, byID["d"].IsStar)
	assert.InDelta(t, 40.0, byID["a"].MarginPct, 1e-9)
	assert.InDelta(t, 5.0, byID["c"].MarginPct, 1e-9)
}

func TestProfitabilityInsightsDropsUnknownItems(t *testing.T) {
	ts := day(2025, time.June, 2)
	items := []models.InventoryItem{{ID: "a", Name: "Known"}}
	txns := []models.Transaction{
		itemSale("a", ts, 5, 50, 20),
		itemSale("ghost", ts, 50, 500, 200),
	}

	insights := deterministic().ProfitabilityInsights(items, txns)
	assert.Len(t, insights, 1)
	assert.Equal(t, "a", insights[0].ItemID)
}

func TestProfitabilityInsightsZeroRevenueMargin(t *testing.T) {
	ts := day(2025, time.June, 2)
	items := []models.InventoryItem{{ID: "a", Name: "Giveaway"}}
	txns := []models.Transaction{itemSale("a", ts, 3, 0, 0)}

	insights := deterministic().ProfitabilityInsights(items, txns)
	assert.Len(t, insights, 1)
	assert.Zero(t, insights[0].MarginPct)
	assert.False(t, insights[0].IsStar)
}

func TestProfitabilityInsightsIgnoresExpenses(t *testing.T) {
	ts := day(2025, time.June, 2)
	items := []models.InventoryItem{{ID: "a", Name: "Oil"}}
	id := "a"
	txns := []models.Transaction{
		itemSale("a", ts, 2, 40, 10),
		{Type: models.TxTypeExpense, InventoryItemID: &id, Amount: 500, Timestamp: ts},
	}

	insights := deterministic().ProfitabilityInsights(items, txns)
	assert.Len(t, insights, 1)
	assert.Equal(t, 10.0, insights[0].TotalProfit)
	assert.Equal(t, 2, insights[0].Volume)
}
