package ai

import (
	"fmt"
	"math"
	"sort"
	"time"

	"app/models"
	"app/utils"
)

const (
	topResults        = 5
	lowStockThreshold = 10
	lowMarginPct      = 15.0
	burnRateRatio     = 0.8
	weeklyChartSpan   = 8
	monthlyTrendSpan  = 6
)

// DashboardStats orchestrates the whole engine into one consolidated report
// for a ledger/catalog snapshot. The authoritative net profit is the
// COGS-aware view: gross profit minus operating expenses. All derived
// values are computed fresh from the snapshot; nothing outlives the call.
func (s *Service) DashboardStats(txns []models.Transaction, items []models.InventoryItem, g Granularity, now time.Time) *models.DashboardStats {
	stats := &models.DashboardStats{
		Prediction:             models.ProfitPrediction{Confidence: ConfidenceLow},
		ReorderRecommendations: []models.ReorderRecommendation{},
		Alerts:                 []models.Alert{},
		WeeklyAnalysis:         []models.PeriodTotals{},
		ExpenseBreakdown:       []models.ExpenseCategory{},
		MonthlyProfitTrend:     []models.MonthProfit{},
		ProductPerformance: models.ProductPerformance{
			TopProfitable: []models.ProfitabilityInsight{},
			LowStock:      []models.LowStockItem{},
			LowMargin:     []models.ProfitabilityInsight{},
		},
	}
	if len(txns) == 0 {
		return stats
	}

	catalog := make(map[string]models.InventoryItem, len(items))
	for _, item := range items {
		catalog[item.ID] = item
	}

	// 1. Totals. COGS comes from the transaction when recorded, otherwise
	// approximated from the catalog cost price.
	var totalSales, totalExpenses, totalCOGS float64
	for _, t := range txns {
		switch t.Type {
		case models.TxTypeSale:
			totalSales += t.Amount
			cogs := t.COGS
			if cogs == 0 && t.InventoryItemID != nil {
				if item, ok := catalog[*t.InventoryItemID]; ok {
					qty := t.Quantity
					if qty == 0 {
						qty = 1
					}
					cogs = item.CostPrice * float64(qty)
				}
			}
			totalCOGS += cogs
		case models.TxTypeExpense:
			totalExpenses += t.Amount
		}
	}
	grossProfit := totalSales - totalCOGS
	netProfit := grossProfit - totalExpenses

	stats.TotalSales = utils.RoundFloat(totalSales, 2)
	stats.TotalCOGS = utils.RoundFloat(totalCOGS, 2)
	stats.GrossProfit = utils.RoundFloat(grossProfit, 2)
	stats.TotalExpenses = utils.RoundFloat(totalExpenses, 2)
	stats.NetProfit = utils.RoundFloat(netProfit, 2)

	// 2. Prediction and reorders.
	stats.Prediction = s.PredictProfit(txns)
	reorders := s.RecommendReorders(items, txns, now)
	stats.ReorderRecommendations = topN(reorders, topResults)

	// 3. Weekly chart series.
	weekly := BucketTransactions(txns, GranularityWeekly)
	for _, b := range tail(weekly, weeklyChartSpan) {
		stats.WeeklyAnalysis = append(stats.WeeklyAnalysis, models.PeriodTotals{
			Label:    b.PeriodStart.Format("02 Jan"),
			Revenue:  b.SalesTotal,
			Expenses: b.ExpenseTotal,
			Profit:   b.ProfitTotal,
		})
	}

	// 4. Expense breakdown by category.
	stats.ExpenseBreakdown = expenseBreakdown(txns)

	// 5. Monthly profit trend.
	monthly := BucketTransactions(txns, GranularityMonthly)
	for _, b := range tail(monthly, monthlyTrendSpan) {
		stats.MonthlyProfitTrend = append(stats.MonthlyProfitTrend, models.MonthProfit{
			Month:  b.PeriodStart.Format("Jan"),
			Profit: b.ProfitTotal,
		})
	}

	// 6. This month vs last month.
	stats.MonthlySummary = monthlySummary(monthly, now)

	// 7. Alerts: financial first, then inventory, in insertion order.
	if netProfit < 0 {
		stats.Alerts = append(stats.Alerts, models.Alert{
			Level:   "Critical",
			Title:   "Cash Flow Alert",
			Message: "Expenses exceed revenue. Immediate cost cutting required.",
			Action:  "Audit Expenses",
			Impact:  fmt.Sprintf("-₹%d", int(math.Abs(netProfit))),
		})
	} else if totalSales > 0 && totalExpenses/totalSales > burnRateRatio {
		stats.Alerts = append(stats.Alerts, models.Alert{
			Level:   "Warning",
			Title:   "High Burn Rate",
			Message: "Expenses consume 80%+ of revenue.",
			Action:  "Review Efficiency",
			Impact:  "Low Margin",
		})
	}
	criticalCount := 0
	for _, r := range reorders {
		if r.Urgency == UrgencyCritical {
			criticalCount++
		}
	}
	if criticalCount > 0 {
		stats.Alerts = append(stats.Alerts, models.Alert{
			Level:   "Critical",
			Title:   "Stockout Risk",
			Message: fmt.Sprintf("%d high-value items are about to run out.", criticalCount),
			Action:  "Restock Now",
			Impact:  "Lost Sales",
		})
	}
	for _, item := range items {
		if item.SellingPrice <= 0 {
			continue
		}
		margin := item.SellingPrice - item.CostPrice
		if margin/item.SellingPrice < lowMarginPct/100 {
			stats.Alerts = append(stats.Alerts, models.Alert{
				Level:   "Insight",
				Title:   "Margin Opportunity",
				Message: fmt.Sprintf("%s has a low profit margin (%d%%).", item.Name, int(margin/item.SellingPrice*100)),
				Action:  "Consider price adjustment or vendor negotiation.",
			})
		}
	}

	// 8. Product performance.
	insights := s.ProfitabilityInsights(items, txns)
	stats.ProductPerformance.TopProfitable = topN(insights, topResults)
	for _, item := range items {
		if item.StockQuantity < lowStockThreshold || item.StockQuantity <= item.ReorderLevel {
			stats.ProductPerformance.LowStock = append(stats.ProductPerformance.LowStock, models.LowStockItem{
				ItemID: item.ID,
				Name:   item.Name,
				Stock:  item.StockQuantity,
			})
		}
	}
	for _, p := range insights {
		if p.MarginPct < lowMarginPct {
			stats.ProductPerformance.LowMargin = append(stats.ProductPerformance.LowMargin, p)
		}
	}

	return stats
}

// AdvancedAnalytics builds the drill-down view: daily sales/expense trends
// for the trailing 30 days plus category totals split by transaction type.
func (s *Service) AdvancedAnalytics(txns []models.Transaction, now time.Time) *models.AdvancedAnalytics {
	out := &models.AdvancedAnalytics{
		DailyTrends:        []models.DailyTrend{},
		SalesByCategory:    []models.CategoryValue{},
		ExpensesByCategory: []models.CategoryValue{},
	}

	windowStart := now.AddDate(0, 0, -30)
	daily := make(map[time.Time]*models.DailyTrend)
	for _, t := range txns {
		if t.Timestamp.Before(windowStart) || t.Timestamp.After(now) {
			continue
		}
		day := periodStart(t.Timestamp, GranularityDaily)
		d, ok := daily[day]
		if !ok {
			d = &models.DailyTrend{Date: day.Format("2006-01-02")}
			daily[day] = d
		}
		if t.Type == models.TxTypeSale {
			d.Sales += t.Amount
		} else {
			d.Expenses += t.Amount
		}
	}
	days := make([]time.Time, 0, len(daily))
	for d := range daily {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	for _, d := range days {
		out.DailyTrends = append(out.DailyTrends, *daily[d])
	}

	out.SalesByCategory = categoryTotals(txns, models.TxTypeSale)
	out.ExpensesByCategory = categoryTotals(txns, models.TxTypeExpense)
	return out
}

func categoryTotals(txns []models.Transaction, txType string) []models.CategoryValue {
	sums := make(map[string]float64)
	order := make([]string, 0)
	for _, t := range txns {
		if t.Type != txType {
			continue
		}
		cat := t.Category
		if cat == "" {
			cat = fallbackCategory
		}
		if _, ok := sums[cat]; !ok {
			order = append(order, cat)
		}
		sums[cat] += t.Amount
	}
	out := make([]models.CategoryValue, 0, len(sums))
	for _, cat := range order {
		out = append(out, models.CategoryValue{Name: cat, Value: sums[cat]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	return out
}

func expenseBreakdown(txns []models.Transaction) []models.ExpenseCategory {
	out := make([]models.ExpenseCategory, 0)
	for _, cv := range categoryTotals(txns, models.TxTypeExpense) {
		out = append(out, models.ExpenseCategory{Category: cv.Name, Amount: cv.Value})
	}
	return out
}

// monthlySummary compares the calendar month containing now with the month
// before it. Growth against a zero baseline reports 0, never a division
// blow-up.
func monthlySummary(monthly []models.TimeSeriesPoint, now time.Time) models.MonthlySummary {
	thisStart := periodStart(now, GranularityMonthly)
	lastStart := thisStart.AddDate(0, -1, 0)

	find := func(start time.Time) models.MonthTotals {
		for _, b := range monthly {
			if b.PeriodStart.Equal(start) {
				return models.MonthTotals{Sales: b.SalesTotal, Expenses: b.ExpenseTotal, Profit: b.ProfitTotal}
			}
		}
		return models.MonthTotals{}
	}
	thisMonth := find(thisStart)
	lastMonth := find(lastStart)

	var growth models.GrowthRates
	if lastMonth.Sales > 0 {
		growth.Sales = utils.RoundFloat((thisMonth.Sales-lastMonth.Sales)/lastMonth.Sales*100, 1)
	}
	if math.Abs(lastMonth.Profit) > 0 {
		growth.Profit = utils.RoundFloat((thisMonth.Profit-lastMonth.Profit)/math.Abs(lastMonth.Profit)*100, 1)
	}
	return models.MonthlySummary{ThisMonth: thisMonth, LastMonth: lastMonth, Growth: growth}
}

// tail returns the last n elements of s.
func tail[T any](s []T, n int) []T {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// topN returns at most n leading elements of s.
func topN[T any](s []T, n int) []T {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
