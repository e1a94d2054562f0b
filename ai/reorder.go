package ai

import (
	"fmt"
	"math"
	"sort"
	"time"

	"app/models"
	"app/utils"
)

// Urgency tiers for reorder recommendations, in precedence order.
const (
	UrgencyCritical = "Critical"
	UrgencyWarning  = "Warning"
	UrgencyInsight  = "Insight"
	UrgencyOptimal  = "Optimal"
)

const (
	velocityWindowDays = 28  // trailing window for sales velocity
	safetyBufferDays   = 3   // extra days of cover on top of lead time
	targetCoverDays    = 30  // reorder up to this many days of supply
	overstockCoverDays = 90  // beyond this cover an item is overstocked
	slowMoverVelocity  = 0.1 // units/day below which an item is a slow mover
	stockoutSentinel   = 999 // days-to-stockout when velocity is zero
)

// DemandForecast predicts 7 and 30 day unit demand for one inventory item
// from its daily sale quantities, with a weekend uplift (Sat/Sun sell about
// 30% more in this segment) applied to the 30-day projection. Velocity here
// is the average quantity over active sale days.
func (s *Service) DemandForecast(itemID string, txns []models.Transaction, now time.Time) models.DemandForecast {
	dailyQty := make(map[time.Time]float64)
	for _, t := range txns {
		if t.Type != models.TxTypeSale || t.InventoryItemID == nil || *t.InventoryItemID != itemID {
			continue
		}
		qty := t.Quantity
		if qty == 0 {
			qty = 1
		}
		dailyQty[periodStart(t.Timestamp, GranularityDaily)] += float64(qty)
	}
	if len(dailyQty) == 0 {
		return models.DemandForecast{}
	}

	days := make([]time.Time, 0, len(dailyQty))
	velocity := 0.0
	for d, q := range dailyQty {
		days = append(days, d)
		velocity += q
	}
	velocity /= float64(len(days))
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	if len(days) < 2 {
		monthly := utils.RoundFloat(velocity*30, 2)
		return models.DemandForecast{
			SevenDay:        utils.RoundFloat(velocity*7, 2),
			ThirtyDay:       monthly,
			Velocity:        utils.RoundFloat(velocity, 2),
			PredictedDemand: monthly,
		}
	}

	xs := make([]float64, len(days))
	ys := make([]float64, len(days))
	for i, d := range days {
		xs[i] = d.Sub(days[0]).Hours() / 24
		ys[i] = dailyQty[d]
	}
	alpha, beta, _ := fitLine(xs, ys)
	lastX := xs[len(xs)-1]

	pred7 := 0.0
	for i := 1; i <= 7; i++ {
		pred7 += alpha + beta*(lastX+float64(i))
	}

	pred30 := 0.0
	for i := 1; i <= 30; i++ {
		dayVal := alpha + beta*(lastX+float64(i))
		wd := now.AddDate(0, 0, i).Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			dayVal *= 1.3
		}
		pred30 += math.Max(0, dayVal)
	}
	final30 := math.Max(0, utils.RoundFloat(pred30, 2))

	return models.DemandForecast{
		SevenDay:        math.Max(0, utils.RoundFloat(pred7, 2)),
		ThirtyDay:       final30,
		Velocity:        utils.RoundFloat(velocity, 2),
		PredictedDemand: final30,
	}
}

// RecommendReorders produces ranked restock suggestions for the catalog.
// Velocity is units sold over the trailing 28 days divided by the window
// length; zero velocity means no stockout risk regardless of stock level.
// Urgency is classified by first match: Critical (stockout before resupply),
// Warning (inside lead time plus safety buffer), Insight (slow mover or
// overstock). Optimal items are excluded. The result keeps Critical rows
// first, then Warning, then Insight, stable within each tier.
func (s *Service) RecommendReorders(items []models.InventoryItem, txns []models.Transaction, now time.Time) []models.ReorderRecommendation {
	windowStart := now.AddDate(0, 0, -velocityWindowDays)
	recs := make([]models.ReorderRecommendation, 0)

	for _, item := range items {
		unitsSold := 0
		for _, t := range txns {
			if t.Type != models.TxTypeSale || t.InventoryItemID == nil || *t.InventoryItemID != item.ID {
				continue
			}
			if t.Timestamp.Before(windowStart) {
				continue
			}
			qty := t.Quantity
			if qty == 0 {
				qty = 1
			}
			unitsSold += qty
		}
		velocity := float64(unitsSold) / velocityWindowDays

		leadTime := item.LeadTime
		if leadTime < 1 {
			leadTime = 1
		}
		stock := float64(item.StockQuantity)

		daysToStockout := float64(stockoutSentinel)
		if velocity > 0 {
			daysToStockout = stock / velocity
		}

		// missing prices degrade to zero margin, never an error
		margin := item.SellingPrice - item.CostPrice
		lostProfit := 0.0
		if velocity > 0 && daysToStockout < float64(leadTime) {
			lostProfit = velocity * margin * (float64(leadTime) - daysToStockout)
		}
		lostProfit = math.Max(0, lostProfit)

		urgency := UrgencyOptimal
		status := "Optimal"
		priority := "Low"
		reason := "Stock levels healthy"
		switch {
		case velocity > 0 && daysToStockout <= float64(leadTime):
			urgency = UrgencyCritical
			status = "Critical"
			priority = "High"
			reason = fmt.Sprintf("Stockout in %dd. Risk: ₹%d loss.", int(daysToStockout), int(lostProfit))
		case velocity > 0 && stock <= velocity*float64(leadTime+safetyBufferDays):
			urgency = UrgencyWarning
			status = "Warning"
			priority = "Medium"
			reason = fmt.Sprintf("Depleting fast. Predicted stockout in %d days.", int(daysToStockout))
		case velocity < slowMoverVelocity && item.StockQuantity > 0:
			urgency = UrgencyInsight
			status = "Slow Mover"
			reason = "Low velocity. Capital tied up in stock."
		case stock > velocity*overstockCoverDays:
			urgency = UrgencyInsight
			status = "Overstock"
			reason = "Excessive inventory. Consider discount."
		}
		if urgency == UrgencyOptimal {
			continue
		}

		forecast := s.DemandForecast(item.ID, txns, now)
		recommended := int(math.Ceil(math.Max(0, targetCoverDays*velocity-stock)))

		recs = append(recs, models.ReorderRecommendation{
			ItemID:              item.ID,
			Name:                item.Name,
			CurrentStock:        item.StockQuantity,
			DailyDemand:         utils.RoundFloat(velocity, 2),
			DaysToStockout:      utils.RoundFloat(daysToStockout, 1),
			PredictedDemand:     int(forecast.ThirtyDay),
			RecommendedQuantity: recommended,
			Urgency:             urgency,
			Status:              status,
			Priority:            priority,
			Reason:              reason,
			EstimatedLostProfit: utils.RoundFloat(lostProfit, 2),
		})
	}

	rank := map[string]int{UrgencyCritical: 0, UrgencyWarning: 1, UrgencyInsight: 2}
	sort.SliceStable(recs, func(i, j int) bool {
		return rank[recs[i].Urgency] < rank[recs[j].Urgency]
	})
	return recs
}
