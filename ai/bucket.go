package ai

import (
	"time"

	"app/models"
)

// periodStart truncates t (in UTC) to the start of its bucket. Weekly
// buckets are ISO weeks anchored on Monday; shifting the anchor would
// change bucket membership, so it is fixed here.
func periodStart(t time.Time, g Granularity) time.Time {
	t = t.UTC()
	switch g {
	case GranularityWeekly:
		back := (int(t.Weekday()) + 6) % 7
		d := t.AddDate(0, 0, -back)
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	case GranularityMonthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
}

func nextPeriod(t time.Time, g Granularity) time.Time {
	switch g {
	case GranularityWeekly:
		return t.AddDate(0, 0, 7)
	case GranularityMonthly:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}

// BucketTransactions groups a ledger into ordered period buckets, summing
// sale and expense amounts per bucket. Periods without activity inside the
// observed span are zero-filled: omitting them would bias any regression
// fit over the series. An empty ledger yields an empty result.
func BucketTransactions(txns []models.Transaction, g Granularity) []models.TimeSeriesPoint {
	if len(txns) == 0 {
		return []models.TimeSeriesPoint{}
	}

	acc := make(map[time.Time]*models.TimeSeriesPoint)
	var first, last time.Time
	for _, t := range txns {
		start := periodStart(t.Timestamp, g)
		b, ok := acc[start]
		if !ok {
			b = &models.TimeSeriesPoint{PeriodStart: start}
			acc[start] = b
		}
		switch t.Type {
		case models.TxTypeSale:
			b.SalesTotal += t.Amount
		case models.TxTypeExpense:
			b.ExpenseTotal += t.Amount
		}
		if first.IsZero() || start.Before(first) {
			first = start
		}
		if last.IsZero() || start.After(last) {
			last = start
		}
	}

	points := make([]models.TimeSeriesPoint, 0, len(acc))
	for cur := first; !cur.After(last); cur = nextPeriod(cur, g) {
		if b, ok := acc[cur]; ok {
			b.ProfitTotal = b.SalesTotal - b.ExpenseTotal
			points = append(points, *b)
		} else {
			points = append(points, models.TimeSeriesPoint{PeriodStart: cur})
		}
	}
	return points
}
