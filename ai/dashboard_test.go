package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"app/models"
)

func TestDashboardStatsEmptyLedger(t *testing.T) {
	stats := deterministic().DashboardStats(nil, nil, GranularityWeekly, day(2025, time.June, 30))

	assert.Zero(t, stats.TotalSales)
	assert.Zero(t, stats.NetProfit)
	assert.Equal(t, ConfidenceLow, stats.Prediction.Confidence)
	// report shape is stable even with nothing to report
	assert.NotNil(t, stats.Alerts)
	assert.Empty(t, stats.Alerts)
	assert.NotNil(t, stats.WeeklyAnalysis)
	assert.NotNil(t, stats.ReorderRecommendations)
	assert.NotNil(t, stats.ExpenseBreakdown)
}

func TestDashboardStatsNetProfitIsCOGSAware(t *testing.T) {
	now := day(2025, time.June, 30)
	items := []models.InventoryItem{{ID: "a", Name: "Oil", CostPrice: 6, SellingPrice: 10, StockQuantity: 50}}
	txns := []models.Transaction{
		// COGS recorded on the transaction
		{Type: models.TxTypeSale, InventoryItemID: strPtr("a"), Amount: 100, Quantity: 10, COGS: 60, Profit: 40, Timestamp: now.AddDate(0, 0, -2)},
		// COGS missing, approximated from catalog cost (6 * 5)
		{Type: models.TxTypeSale, InventoryItemID: strPtr("a"), Amount: 50, Quantity: 5, Profit: 20, Timestamp: now.AddDate(0, 0, -1)},
		expense(now.AddDate(0, 0, -1), 30, "Rent"),
	}

	stats := deterministic().DashboardStats(txns, items, GranularityWeekly, now)
	assert.Equal(t, 150.0, stats.TotalSales)
	assert.Equal(t, 90.0, stats.TotalCOGS)
	assert.Equal(t, 60.0, stats.GrossProfit)
	assert.Equal(t, 30.0, stats.TotalExpenses)
	assert.Equal(t, 30.0, stats.NetProfit)
}

func TestDashboardStatsCashFlowAlert(t *testing.T) {
	now := day(2025, time.June, 30)
	txns := []models.Transaction{
		sale(now.AddDate(0, 0, -1), 100),
		expense(now.AddDate(0, 0, -1), 400, "Rent"),
	}

	stats := deterministic().DashboardStats(txns, nil, GranularityWeekly, now)
	assert.NotEmpty(t, stats.Alerts)
	assert.Equal(t, "Cash Flow Alert", stats.Alerts[0].Title)
	assert.Equal(t, "Critical", stats.Alerts[0].Level)
	assert.Equal(t, "-₹300", stats.Alerts[0].Impact)
}

func TestDashboardStatsBurnRateAlert(t *testing.T) {
	now := day(2025, time.June, 30)
	txns := []models.Transaction{
		sale(now.AddDate(0, 0, -1), 100),
		expense(now.AddDate(0, 0, -1), 90, "Rent"),
	}

	stats := deterministic().DashboardStats(txns, nil, GranularityWeekly, now)
	assert.NotEmpty(t, stats.Alerts)
	assert.Equal(t, "High Burn Rate", stats.Alerts[0].Title)
	assert.Equal(t, "Warning", stats.Alerts[0].Level)
}

func TestDashboardStatsMarginOpportunityAlert(t *testing.T) {
	now := day(2025, time.June, 30)
	items := []models.InventoryItem{
		{ID: "thin", Name: "Thin Margin Tea", CostPrice: 9.5, SellingPrice: 10, StockQuantity: 50},
	}
	txns := []models.Transaction{sale(now.AddDate(0, 0, -1), 100)}

	stats := deterministic().DashboardStats(txns, items, GranularityWeekly, now)
	var found bool
	for _, a := range stats.Alerts {
		if a.Title == "Margin Opportunity" {
			found = true
			assert.Equal(t, "Insight", a.Level)
			assert.Contains(t, a.Message, "Thin Margin Tea")
		}
	}
	assert.True(t, found)
}

func TestDashboardStatsLowStockList(t *testing.T) {
	now := day(2025, time.June, 30)
	items := []models.InventoryItem{
		{ID: "low", Name: "Low", StockQuantity: 4, CostPrice: 5, SellingPrice: 10},
		{ID: "reorder", Name: "AtReorder", StockQuantity: 25, ReorderLevel: 25, CostPrice: 5, SellingPrice: 10},
		{ID: "fine", Name: "Fine", StockQuantity: 40, ReorderLevel: 5, CostPrice: 5, SellingPrice: 10},
	}
	txns := []models.Transaction{sale(now.AddDate(0, 0, -1), 10)}

	stats := deterministic().DashboardStats(txns, items, GranularityWeekly, now)
	assert.Len(t, stats.ProductPerformance.LowStock, 2)
	assert.Equal(t, "low", stats.ProductPerformance.LowStock[0].ItemID)
	assert.Equal(t, "reorder", stats.ProductPerformance.LowStock[1].ItemID)
}

func TestMonthlySummaryGrowth(t *testing.T) {
	now := day(2025, time.June, 15)
	txns := []models.Transaction{
		sale(day(2025, time.May, 10), 200),
		expense(day(2025, time.May, 12), 50, "Rent"),
		sale(day(2025, time.June, 5), 300),
	}

	stats := deterministic().DashboardStats(txns, nil, GranularityWeekly, now)
	sum := stats.MonthlySummary
	assert.Equal(t, 300.0, sum.ThisMonth.Sales)
	assert.Equal(t, 200.0, sum.LastMonth.Sales)
	assert.InDelta(t, 50.0, sum.Growth.Sales, 1e-9)
	assert.InDelta(t, 100.0, sum.Growth.Profit, 1e-9)
}

func TestMonthlySummaryZeroBaseline(t *testing.T) {
	now := day(2025, time.June, 15)
	txns := []models.Transaction{sale(day(2025, time.June, 5), 300)}

	stats := deterministic().DashboardStats(txns, nil, GranularityWeekly, now)
	assert.Zero(t, stats.MonthlySummary.Growth.Sales)
	assert.Zero(t, stats.MonthlySummary.Growth.Profit)
}

func TestAdvancedAnalyticsWindowAndCategories(t *testing.T) {
	now := day(2025, time.June, 30)
	txns := []models.Transaction{
		sale(now.AddDate(0, 0, -2), 100),
		expense(now.AddDate(0, 0, -2), 40, "Rent"),
		expense(now.AddDate(0, 0, -1), 10, ""),
		// outside the trailing 30 days, excluded from the daily trend
		sale(now.AddDate(0, 0, -45), 999),
	}

	out := deterministic().AdvancedAnalytics(txns, now)
	assert.Len(t, out.DailyTrends, 2)
	assert.Equal(t, 100.0, out.DailyTrends[0].Sales)
	assert.Equal(t, 40.0, out.DailyTrends[0].Expenses)

	// the stale sale still counts toward category totals
	assert.Len(t, out.SalesByCategory, 1)
	assert.Equal(t, 1099.0, out.SalesByCategory[0].Value)

	// uncategorised expenses fall into Others, sorted by value desc
	assert.Len(t, out.ExpensesByCategory, 2)
	assert.Equal(t, "Rent", out.ExpensesByCategory[0].Name)
	assert.Equal(t, "Others", out.ExpensesByCategory[1].Name)
	assert.Equal(t, 10.0, out.ExpensesByCategory[1].Value)
}

func strPtr(s string) *string { return &s }
