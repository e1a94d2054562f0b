package models

import "time"

// TimeSeriesPoint holds the aggregated totals for one period bucket.
// ProfitTotal is the cash view (sales minus expenses) since individual
// expense transactions carry no COGS attribution.
type TimeSeriesPoint struct {
	PeriodStart  time.Time `json:"period_start"`
	SalesTotal   float64   `json:"sales_total"`
	ExpenseTotal float64   `json:"expense_total"`
	ProfitTotal  float64   `json:"profit_total"`
}

// ProfitPrediction is the scalar profit outlook on the dashboard.
type ProfitPrediction struct {
	SevenDay        float64 `json:"7_day"`
	ThirtyDay       float64 `json:"30_day"`
	Confidence      string  `json:"confidence"`
	Amount          float64 `json:"amount"`
	ExpenseForecast float64 `json:"expense_forecast"`
}

// ForecastPoint is one predicted value on a chart-facing forecast series.
type ForecastPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// DemandForecast is the per-item quantity demand outlook.
type DemandForecast struct {
	SevenDay        float64 `json:"7_day"`
	ThirtyDay       float64 `json:"30_day"`
	Velocity        float64 `json:"velocity"`
	PredictedDemand float64 `json:"predicted_demand"`
}

// ReorderRecommendation is one ranked restock suggestion.
type ReorderRecommendation struct {
	ItemID              string  `json:"item_id"`
	Name                string  `json:"name"`
	CurrentStock        int     `json:"current_stock"`
	DailyDemand         float64 `json:"daily_demand"`
	DaysToStockout      float64 `json:"days_to_stockout"`
	PredictedDemand     int     `json:"predicted_demand"`
	RecommendedQuantity int     `json:"recommendation"`
	Urgency             string  `json:"urgency"`
	Status              string  `json:"status"`
	Priority            string  `json:"priority"`
	Reason              string  `json:"reason"`
	EstimatedLostProfit float64 `json:"lost_profit_risk"`
}

// ProfitabilityInsight aggregates sales performance for one item.
type ProfitabilityInsight struct {
	ItemID      string  `json:"id"`
	Name        string  `json:"name"`
	TotalProfit float64 `json:"total_profit"`
	Volume      int     `json:"volume"`
	MarginPct   float64 `json:"margin"`
	IsStar      bool    `json:"is_star"`
}

// Alert is one entry on the consolidated dashboard alert feed.
type Alert struct {
	Level   string `json:"level"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Impact  string `json:"impact,omitempty"`
}

// PeriodTotals is one labelled bar on the revenue/expense chart.
type PeriodTotals struct {
	Label    string  `json:"label"`
	Revenue  float64 `json:"revenue"`
	Expenses float64 `json:"expenses"`
	Profit   float64 `json:"profit"`
}

// MonthProfit is one point on the monthly profit trend.
type MonthProfit struct {
	Month  string  `json:"month"`
	Profit float64 `json:"profit"`
}

// MonthTotals holds one calendar month of totals.
type MonthTotals struct {
	Sales    float64 `json:"sales"`
	Expenses float64 `json:"expenses"`
	Profit   float64 `json:"profit"`
}

// GrowthRates holds month-over-month growth percentages. A zero prior
// baseline reports 0, never infinity.
type GrowthRates struct {
	Sales  float64 `json:"sales"`
	Profit float64 `json:"profit"`
}

// MonthlySummary compares the current calendar month with the previous one.
type MonthlySummary struct {
	ThisMonth MonthTotals `json:"this_month"`
	LastMonth MonthTotals `json:"last_month"`
	Growth    GrowthRates `json:"growth"`
}

// ExpenseCategory is one slice of the expense breakdown.
type ExpenseCategory struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// LowStockItem flags an item at or below its reorder threshold.
type LowStockItem struct {
	ItemID string `json:"id"`
	Name   string `json:"name"`
	Stock  int    `json:"stock"`
}

// ProductPerformance groups the item-level dashboard panels.
type ProductPerformance struct {
	TopProfitable []ProfitabilityInsight `json:"top_profitable"`
	LowStock      []LowStockItem         `json:"low_stock"`
	LowMargin     []ProfitabilityInsight `json:"low_margin"`
}

// DashboardStats is the consolidated analytics report for one business.
type DashboardStats struct {
	TotalSales             float64                 `json:"total_sales"`
	TotalCOGS              float64                 `json:"total_cogs"`
	GrossProfit            float64                 `json:"gross_profit"`
	TotalExpenses          float64                 `json:"total_expenses"`
	NetProfit              float64                 `json:"net_profit"`
	Prediction             ProfitPrediction        `json:"prediction"`
	ReorderRecommendations []ReorderRecommendation `json:"reorder_recommendations"`
	Alerts                 []Alert                 `json:"alerts"`
	WeeklyAnalysis         []PeriodTotals          `json:"weekly_analysis"`
	ExpenseBreakdown       []ExpenseCategory       `json:"expense_breakdown"`
	MonthlyProfitTrend     []MonthProfit           `json:"monthly_profit_trend"`
	MonthlySummary         MonthlySummary          `json:"monthly_summary"`
	ProductPerformance     ProductPerformance      `json:"product_performance"`
}

// --- CSV feed analysis ---

// CSVTotals summarizes the whole uploaded feed.
type CSVTotals struct {
	Sales    float64 `json:"sales"`
	Expenses float64 `json:"expenses"`
	Profit   float64 `json:"profit"`
	Margin   float64 `json:"margin"`
}

// HistoricalPoint is one resampled period of the uploaded feed.
type HistoricalPoint struct {
	Date     string  `json:"date"`
	Sales    float64 `json:"sales"`
	Expenses float64 `json:"expenses"`
	Profit   float64 `json:"profit"`
}

// CSVForecast carries the per-series forecasts for the chart.
type CSVForecast struct {
	Sales    []ForecastPoint `json:"sales"`
	Expenses []ForecastPoint `json:"expenses"`
	Profit   []ForecastPoint `json:"profit"`
}

// CSVAnalysis is the historical-plus-forecast result for an uploaded feed.
type CSVAnalysis struct {
	TotalStats        CSVTotals         `json:"total_stats"`
	Historical        []HistoricalPoint `json:"historical"`
	Forecast          CSVForecast       `json:"forecast"`
	CategoryBreakdown []ExpenseCategory `json:"category_breakdown"`
	Insights          []string          `json:"insights"`
}

// --- Advanced analytics ---

// DailyTrend is one day of sales versus expenses.
type DailyTrend struct {
	Date     string  `json:"date"`
	Sales    float64 `json:"sales"`
	Expenses float64 `json:"expenses"`
}

// CategoryValue is a named total for category pie charts.
type CategoryValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// AdvancedAnalytics holds the drill-down trend and category views.
type AdvancedAnalytics struct {
	DailyTrends        []DailyTrend    `json:"daily_trends"`
	SalesByCategory    []CategoryValue `json:"sales_by_category"`
	ExpensesByCategory []CategoryValue `json:"expenses_by_category"`
}

// --- Export feed ---

// ExportRow is one joined sale row for the analytics export feed.
type ExportRow struct {
	Date         string  `json:"date"`
	Category     string  `json:"category"`
	Product      string  `json:"product"`
	Quantity     int     `json:"quantity"`
	TotalRevenue float64 `json:"total_revenue"`
	TotalCOGS    float64 `json:"total_cogs"`
	UnitCOGS     float64 `json:"unit_cogs"`
	TotalProfit  float64 `json:"total_profit"`
}
