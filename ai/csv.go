package ai

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"app/models"
	"app/utils"
)

// Input errors for the CSV feed. Everything else the analysis absorbs into
// conservative defaults; a feed without a recognizable schema is the one
// case surfaced to the caller.
var (
	ErrMissingDateColumn   = errors.New("missing Date column")
	ErrMissingAmountColumn = errors.New("missing Amount column")
)

const csvForecastHorizon = 8

var csvDateFormats = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02/01/2006",
	"2006/01/02",
}

// AnalyzeCSV runs the historical-plus-forecast analysis over a flexible
// CSV feed. Column names are mapped case-insensitively: date/timestamp →
// Date, amount/total_revenue/sales → Amount, plus optional Type and
// Category. A feed whose amounts come from a sales/revenue column is
// treated as all-sales. A missing Date column is a hard input error.
func (s *Service) AnalyzeCSV(r io.Reader, g Granularity) (*models.CSVAnalysis, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrMissingDateColumn
	}

	dateIdx, amountIdx, typeIdx, categoryIdx := -1, -1, -1, -1
	salesColumn := false
	for i, name := range records[0] {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date", "timestamp":
			dateIdx = i
		case "amount":
			amountIdx = i
			salesColumn = false
		case "total_revenue", "sales":
			if amountIdx == -1 {
				amountIdx = i
				salesColumn = true
			}
		case "type":
			typeIdx = i
		case "category":
			categoryIdx = i
		}
	}
	if dateIdx == -1 {
		// last resort: any column that smells like a date
		for i, name := range records[0] {
			lower := strings.ToLower(name)
			if strings.Contains(lower, "date") || strings.Contains(lower, "time") {
				dateIdx = i
				break
			}
		}
	}
	if dateIdx == -1 {
		return nil, ErrMissingDateColumn
	}
	if amountIdx == -1 {
		return nil, ErrMissingAmountColumn
	}

	txns := make([]models.Transaction, 0, len(records)-1)
	for rowNum, row := range records[1:] {
		if len(row) <= dateIdx || len(row) <= amountIdx {
			continue
		}
		date, err := parseCSVDate(row[dateIdx])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum+2, err)
		}
		amount, err := strconv.ParseFloat(strings.TrimSpace(row[amountIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid amount %q", rowNum+2, row[amountIdx])
		}

		txType := models.TxTypeSale
		if !salesColumn && typeIdx >= 0 && len(row) > typeIdx {
			if strings.Contains(strings.ToLower(row[typeIdx]), "expense") {
				txType = models.TxTypeExpense
			}
		}
		category := ""
		if categoryIdx >= 0 && len(row) > categoryIdx {
			category = strings.TrimSpace(row[categoryIdx])
		}

		txns = append(txns, models.Transaction{
			Timestamp: date,
			Amount:    amount,
			Type:      txType,
			Category:  category,
		})
	}

	buckets := BucketTransactions(txns, g)

	result := &models.CSVAnalysis{
		Historical:        make([]models.HistoricalPoint, 0, len(buckets)),
		CategoryBreakdown: expenseBreakdown(txns),
		Insights:          []string{},
		Forecast: models.CSVForecast{
			Sales:    []models.ForecastPoint{},
			Expenses: []models.ForecastPoint{},
			Profit:   []models.ForecastPoint{},
		},
	}

	salesSeries := make([]float64, 0, len(buckets))
	expenseSeries := make([]float64, 0, len(buckets))
	profitSeries := make([]float64, 0, len(buckets))
	var totalSales, totalExpenses float64
	for _, b := range buckets {
		salesSeries = append(salesSeries, b.SalesTotal)
		expenseSeries = append(expenseSeries, b.ExpenseTotal)
		profitSeries = append(profitSeries, b.ProfitTotal)
		totalSales += b.SalesTotal
		totalExpenses += b.ExpenseTotal
		result.Historical = append(result.Historical, models.HistoricalPoint{
			Date:     b.PeriodStart.Format("2006-01-02"),
			Sales:    b.SalesTotal,
			Expenses: b.ExpenseTotal,
			Profit:   b.ProfitTotal,
		})
	}

	totalProfit := totalSales - totalExpenses
	result.TotalStats = models.CSVTotals{
		Sales:    totalSales,
		Expenses: totalExpenses,
		Profit:   totalProfit,
	}
	if totalSales > 0 {
		result.TotalStats.Margin = utils.RoundFloat(totalProfit/totalSales*100, 2)
	}

	if len(buckets) > 0 {
		lastDate := buckets[len(buckets)-1].PeriodStart
		sales := s.ForecastSeries(salesSeries, lastDate, csvForecastHorizon, g)
		expenses := s.ForecastSeries(expenseSeries, lastDate, csvForecastHorizon, g)
		profit := s.ForecastSeries(profitSeries, lastDate, csvForecastHorizon, g)
		result.Forecast = models.CSVForecast{
			Sales:    sales.Points,
			Expenses: expenses.Points,
			Profit:   profit.Points,
		}

		if sales.Slope > 0 {
			result.Insights = append(result.Insights,
				fmt.Sprintf("✔ Sales Trend: Growing at ₹%d per period", int(sales.Slope)))
		} else {
			result.Insights = append(result.Insights,
				fmt.Sprintf("⚠ Sales Trend: Declining at ₹%d per period", int(math.Abs(sales.Slope))))
		}
	}

	return result, nil
}

func parseCSVDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, format := range csvDateFormats {
		if t, err := time.Parse(format, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}
