package ai

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"app/models"
	"app/utils"
)

// emptySeriesAmplitude is the seasonal amplitude fallback when a series has
// no usable spread at all.
const emptySeriesAmplitude = 100

// seasonalPeriod is the synthetic seasonality cycle length in periods.
func seasonalPeriod(g Granularity) float64 {
	switch g {
	case GranularityDaily:
		return 30
	case GranularityMonthly:
		return 6
	default:
		return 4
	}
}

// periodDeltaDays is the calendar stride between consecutive periods.
func periodDeltaDays(g Granularity) int {
	switch g {
	case GranularityDaily:
		return 1
	case GranularityMonthly:
		return 30
	default:
		return 7
	}
}

// fitLine runs an ordinary least-squares fit of ys against xs and reports
// the intercept, slope and R² of the fit. A degenerate R² (constant series)
// is reported as 0.
func fitLine(xs, ys []float64) (alpha, beta, r2 float64) {
	alpha, beta = stat.LinearRegression(xs, ys, nil, false)
	fitted := make([]float64, len(xs))
	for i, x := range xs {
		fitted[i] = alpha + beta*x
	}
	r2 = stat.RSquaredFrom(fitted, ys, nil)
	if math.IsNaN(r2) || math.IsInf(r2, 0) {
		r2 = 0
	}
	return alpha, beta, r2
}

// confidenceTier maps an R² goodness-of-fit to a qualitative tier. This is
// the single confidence rule for every forecast path.
func confidenceTier(r2 float64) string {
	switch {
	case r2 > 0.7:
		return ConfidenceHigh
	case r2 > 0.4:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// SeriesForecast is the trend extrapolation of one numeric series.
type SeriesForecast struct {
	Points     []models.ForecastPoint
	Slope      float64
	Confidence string
}

// ForecastSeries fits a trend line over values, aligned to consecutive
// period indices ending at lastDate, and extrapolates horizon future
// points. Predictions are floored at zero. Fewer than two non-zero
// observations degrade to a flat repeat of the last known value with Low
// confidence and zero slope.
//
// The seasonal sine overlay plus jitter is a cosmetic realism layer for
// chart-facing forecasts, not derived seasonality; build the Service
// without a jitter source to keep the output deterministic.
func (s *Service) ForecastSeries(values []float64, lastDate time.Time, horizon int, g Granularity) SeriesForecast {
	n := len(values)
	delta := periodDeltaDays(g)
	points := make([]models.ForecastPoint, 0, horizon)
	futureDate := func(i int) string {
		return lastDate.AddDate(0, 0, delta*(i+1)).Format("2006-01-02")
	}

	nonZero := 0
	for _, v := range values {
		if v != 0 {
			nonZero++
		}
	}
	if nonZero < 2 {
		last := 0.0
		if n > 0 {
			last = math.Max(0, values[n-1])
		}
		for i := 0; i < horizon; i++ {
			points = append(points, models.ForecastPoint{Date: futureDate(i), Value: last})
		}
		return SeriesForecast{Points: points, Slope: 0, Confidence: ConfidenceLow}
	}

	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	alpha, beta, r2 := fitLine(xs, values)

	amplitude := float64(emptySeriesAmplitude)
	if sd := stat.StdDev(values, nil); sd > 0 {
		amplitude = 0.2 * sd
	} else if n > 0 {
		amplitude = 0.1 * stat.Mean(values, nil)
	}
	period := seasonalPeriod(g)

	for i := 0; i < horizon; i++ {
		base := alpha + beta*float64(n+i)
		seasonal := amplitude * math.Sin(2*math.Pi*float64(i+n)/period)
		noise := s.jitter() * amplitude * 0.5
		v := math.Max(0, base+seasonal+noise)
		points = append(points, models.ForecastPoint{Date: futureDate(i), Value: utils.RoundFloat(v, 2)})
	}
	return SeriesForecast{Points: points, Slope: beta, Confidence: confidenceTier(r2)}
}

// PredictProfit projects 7 and 30 day profit from the daily profit history
// of the ledger. Days with no activity are not interpolated; the fit runs
// over day offsets so gaps still stretch the time axis. The expense
// forecast is the average daily expense extended over 30 days.
func (s *Service) PredictProfit(txns []models.Transaction) models.ProfitPrediction {
	if len(txns) == 0 {
		return models.ProfitPrediction{Confidence: ConfidenceLow}
	}

	dailyProfit := make(map[time.Time]float64)
	dailyExpense := make(map[time.Time]float64)
	for _, t := range txns {
		day := periodStart(t.Timestamp, GranularityDaily)
		v := t.Profit
		if v == 0 {
			// ledger rows without a margin profit fall back to the cash view
			if t.Type == models.TxTypeExpense {
				v = -t.Amount
			} else {
				v = t.Amount
			}
		}
		dailyProfit[day] += v
		if t.Type == models.TxTypeExpense {
			dailyExpense[day] += t.Amount
		}
	}

	expenseForecast := 0.0
	if len(dailyExpense) > 0 {
		total := 0.0
		for _, v := range dailyExpense {
			total += v
		}
		expenseForecast = total / float64(len(dailyExpense)) * 30
	}

	days := make([]time.Time, 0, len(dailyProfit))
	for d := range dailyProfit {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	if len(days) < 2 {
		avg := 0.0
		for _, d := range days {
			avg += dailyProfit[d]
		}
		if len(days) > 0 {
			avg /= float64(len(days))
		}
		return models.ProfitPrediction{
			SevenDay:        utils.RoundFloat(avg*7, 2),
			ThirtyDay:       utils.RoundFloat(avg*30, 2),
			Confidence:      ConfidenceLow,
			Amount:          utils.RoundFloat(avg*30, 2),
			ExpenseForecast: utils.RoundFloat(expenseForecast, 2),
		}
	}

	xs := make([]float64, len(days))
	ys := make([]float64, len(days))
	for i, d := range days {
		xs[i] = d.Sub(days[0]).Hours() / 24
		ys[i] = dailyProfit[d]
	}
	alpha, beta, r2 := fitLine(xs, ys)

	lastX := xs[len(xs)-1]
	pred7, pred30 := 0.0, 0.0
	for i := 1; i <= 30; i++ {
		p := alpha + beta*(lastX+float64(i))
		if i <= 7 {
			pred7 += p
		}
		pred30 += p
	}

	return models.ProfitPrediction{
		SevenDay:        utils.RoundFloat(math.Max(0, pred7), 2),
		ThirtyDay:       utils.RoundFloat(math.Max(0, pred30), 2),
		Confidence:      confidenceTier(r2),
		Amount:          utils.RoundFloat(math.Max(0, pred30), 2),
		ExpenseForecast: utils.RoundFloat(expenseForecast, 2),
	}
}
