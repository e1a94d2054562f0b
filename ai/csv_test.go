package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeCSVMissingColumns(t *testing.T) {
	s := deterministic()

	_, err := s.AnalyzeCSV(strings.NewReader("amount,type\n10,Sale\n"), GranularityWeekly)
	assert.ErrorIs(t, err, ErrMissingDateColumn)

	_, err = s.AnalyzeCSV(strings.NewReader("date,notes\n2025-06-01,hello\n"), GranularityWeekly)
	assert.ErrorIs(t, err, ErrMissingAmountColumn)

	_, err = s.AnalyzeCSV(strings.NewReader(""), GranularityWeekly)
	assert.ErrorIs(t, err, ErrMissingDateColumn)
}

func TestAnalyzeCSVInvalidRows(t *testing.T) {
	s := deterministic()

	_, err := s.AnalyzeCSV(strings.NewReader("date,amount\nnot-a-date,10\n"), GranularityWeekly)
	assert.ErrorContains(t, err, "row 2")
	assert.ErrorContains(t, err, "invalid date")

	_, err = s.AnalyzeCSV(strings.NewReader("date,amount\n2025-06-01,ten\n"), GranularityWeekly)
	assert.ErrorContains(t, err, "invalid amount")
}

func TestAnalyzeCSVMixedLedger(t *testing.T) {
	feed := strings.Join([]string{
		"Date,Amount,Type,Category",
		"2025-06-02,100,Sale,",
		"2025-06-03,40,Expense,Rent",
		"2025-06-09,200,Sale,",
		"2025-06-10,60,Expense,Utilities",
	}, "\n")

	out, err := deterministic().AnalyzeCSV(strings.NewReader(feed), GranularityWeekly)
	assert.NoError(t, err)

	assert.Equal(t, 300.0, out.TotalStats.Sales)
	assert.Equal(t, 100.0, out.TotalStats.Expenses)
	assert.Equal(t, 200.0, out.TotalStats.Profit)
	assert.InDelta(t, 66.67, out.TotalStats.Margin, 1e-9)

	assert.Len(t, out.Historical, 2)
	assert.Equal(t, "2025-06-02", out.Historical[0].Date)
	assert.Equal(t, 100.0, out.Historical[0].Sales)
	assert.Equal(t, 40.0, out.Historical[0].Expenses)

	assert.Len(t, out.Forecast.Sales, csvForecastHorizon)
	assert.Len(t, out.Forecast.Expenses, csvForecastHorizon)
	assert.Len(t, out.Forecast.Profit, csvForecastHorizon)

	assert.Len(t, out.CategoryBreakdown, 2)
	assert.NotEmpty(t, out.Insights)
	assert.Contains(t, out.Insights[0], "Sales Trend")
}

func TestAnalyzeCSVSalesColumnForcesSaleType(t *testing.T) {
	// a revenue export has no Type column; everything is a sale even when
	// a type-looking field is present
	feed := strings.Join([]string{
		"date,total_revenue,type",
		"2025-06-02,100,expense",
		"2025-06-03,50,expense",
	}, "\n")

	out, err := deterministic().AnalyzeCSV(strings.NewReader(feed), GranularityDaily)
	assert.NoError(t, err)
	assert.Equal(t, 150.0, out.TotalStats.Sales)
	assert.Zero(t, out.TotalStats.Expenses)
}

func TestAnalyzeCSVHeaderAliases(t *testing.T) {
	feed := strings.Join([]string{
		"order_date,sales",
		"2025-06-02,75",
		"03/06/2025,25",
	}, "\n")

	out, err := deterministic().AnalyzeCSV(strings.NewReader(feed), GranularityDaily)
	assert.NoError(t, err)
	assert.Equal(t, 100.0, out.TotalStats.Sales)
	assert.Len(t, out.Historical, 2)
}

func TestAnalyzeCSVSkipsShortRows(t *testing.T) {
	out, err := deterministic().AnalyzeCSV(strings.NewReader("date,amount\n2025-06-02,50\n2025-06-03\n"), GranularityDaily)
	assert.NoError(t, err)
	assert.Equal(t, 50.0, out.TotalStats.Sales)
}

func TestParseCSVDateFormats(t *testing.T) {
	for _, raw := range []string{"2025-06-02", "2025-06-02T10:30:00Z", "2025-06-02 10:30:00", "02/06/2025", "2025/06/02"} {
		ts, err := parseCSVDate(raw)
		assert.NoError(t, err, "format %q", raw)
		assert.Equal(t, 2025, ts.Year())
	}
	_, err := parseCSVDate("June second")
	assert.Error(t, err)
}
