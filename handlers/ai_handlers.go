package handlers

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"app/ai"
	"app/database"
	"app/middleware"
	"app/models"
	"app/utils"
)

// aiService is the process-wide analytics engine. The expense classifier
// inside is trained once here and read-only afterwards, so sharing one
// instance across concurrent requests is safe.
var aiService = ai.NewService()

// memberRole returns the caller's role in the business, or "" when the
// caller is not a member.
func memberRole(ctx context.Context, businessID, userID string) (string, error) {
	var role string
	err := database.GetDB().QueryRow(ctx,
		"SELECT role FROM business_members WHERE business_id = $1 AND user_id = $2",
		businessID, userID).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return role, nil
}

// requireMembership resolves the caller's claims and checks membership of
// the business in the route. Returns the business ID, or an error response
// already written to the context.
func requireMembership(c *fiber.Ctx) (string, error) {
	claims, err := middleware.ExtractClaims(c)
	if err != nil {
		return "", c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	businessID := c.Params("businessId")

	role, err := memberRole(c.Context(), businessID, claims.UserID)
	if err != nil {
		log.Printf("❌ [AI] membership lookup failed: %v", err)
		return "", c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to verify membership"})
	}
	if role == "" {
		return "", c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}
	return businessID, nil
}

// loadTransactions fetches the full ledger snapshot for a business,
// oldest first.
func loadTransactions(ctx context.Context, businessID string) ([]models.Transaction, error) {
	rows, err := database.GetDB().Query(ctx, `
		SELECT id, inventory_item_id, amount, COALESCE(quantity, 1),
		       COALESCE(category, ''), type, timestamp,
		       COALESCE(description, ''), COALESCE(profit, 0), COALESCE(cogs, 0)
		FROM transactions
		WHERE business_id = $1
		ORDER BY timestamp ASC
	`, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txns := make([]models.Transaction, 0)
	for rows.Next() {
		var t models.Transaction
		var itemID sql.NullString
		if err := rows.Scan(&t.ID, &itemID, &t.Amount, &t.Quantity, &t.Category,
			&t.Type, &t.Timestamp, &t.Description, &t.Profit, &t.COGS); err != nil {
			return nil, err
		}
		t.InventoryItemID = utils.NullStringToStringPtr(itemID)
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

// loadInventory fetches the catalog snapshot for a business.
func loadInventory(ctx context.Context, businessID string) ([]models.InventoryItem, error) {
	rows, err := database.GetDB().Query(ctx, `
		SELECT id, name, COALESCE(description, ''), stock_quantity, reorder_level,
		       COALESCE(cost_price, 0), COALESCE(selling_price, 0),
		       COALESCE(category, ''), COALESCE(lead_time, 1)
		FROM inventory_items
		WHERE business_id = $1
		ORDER BY name ASC
	`, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.InventoryItem, 0)
	for rows.Next() {
		var item models.InventoryItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.StockQuantity,
			&item.ReorderLevel, &item.CostPrice, &item.SellingPrice,
			&item.Category, &item.LeadTime); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// HandleGetDashboardStats returns the consolidated analytics report.
// GET /api/v1/businesses/:businessId/ai/dashboard?granularity=weekly
func HandleGetDashboardStats(c *fiber.Ctx) error {
	businessID, err := requireMembership(c)
	if err != nil {
		return err
	}
	granularity := ai.ParseGranularity(c.Query("granularity", "weekly"))

	ctx := c.Context()
	txns, err := loadTransactions(ctx, businessID)
	if err != nil {
		log.Printf("❌ [AI DASHBOARD] ledger query failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch transactions"})
	}
	items, err := loadInventory(ctx, businessID)
	if err != nil {
		log.Printf("❌ [AI DASHBOARD] catalog query failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch inventory"})
	}

	stats := aiService.DashboardStats(txns, items, granularity, time.Now())
	log.Printf("✅ [AI DASHBOARD] business=%s txns=%d items=%d alerts=%d", businessID, len(txns), len(items), len(stats.Alerts))
	return c.JSON(stats)
}

// HandleClassifyExpense suggests a category for an expense description.
// POST /api/v1/ai/classify
func HandleClassifyExpense(c *fiber.Ctx) error {
	var body struct {
		Description string `json:"description"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	return c.JSON(fiber.Map{"suggestion": aiService.ClassifyExpense(body.Description)})
}

// HandlePredictProfit returns the scalar 7/30 day profit outlook.
// GET /api/v1/businesses/:businessId/ai/predict
func HandlePredictProfit(c *fiber.Ctx) error {
	businessID, err := requireMembership(c)
	if err != nil {
		return err
	}
	txns, err := loadTransactions(c.Context(), businessID)
	if err != nil {
		log.Printf("❌ [AI PREDICT] ledger query failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch transactions"})
	}
	return c.JSON(aiService.PredictProfit(txns))
}

// HandleGetDemandForecast returns the 7/30 day unit demand for one item.
// GET /api/v1/businesses/:businessId/ai/items/:itemId/demand-forecast
func HandleGetDemandForecast(c *fiber.Ctx) error {
	businessID, err := requireMembership(c)
	if err != nil {
		return err
	}
	itemID := c.Params("itemId")
	txns, err := loadTransactions(c.Context(), businessID)
	if err != nil {
		log.Printf("❌ [AI DEMAND] ledger query failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch transactions"})
	}
	return c.JSON(aiService.DemandForecast(itemID, txns, time.Now()))
}

// HandleGetReorderRecommendations returns the full ranked reorder list.
// GET /api/v1/businesses/:businessId/ai/reorders
func HandleGetReorderRecommendations(c *fiber.Ctx) error {
	businessID, err := requireMembership(c)
	if err != nil {
		return err
	}
	ctx := c.Context()
	txns, err := loadTransactions(ctx, businessID)
	if err != nil {
		log.Printf("❌ [AI REORDER] ledger query failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch transactions"})
	}
	items, err := loadInventory(ctx, businessID)
	if err != nil {
		log.Printf("❌ [AI REORDER] catalog query failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch inventory"})
	}
	return c.JSON(fiber.Map{"recommendations": aiService.RecommendReorders(items, txns, time.Now())})
}

// HandleCSVAnalysis analyzes an uploaded CSV feed and returns historical
// plus forecast series.
// POST /api/v1/businesses/:businessId/ai/csv-analysis?granularity=weekly
func HandleCSVAnalysis(c *fiber.Ctx) error {
	if _, err := requireMembership(c); err != nil {
		return err
	}
	granularity := ai.ParseGranularity(c.Query("granularity", "weekly"))

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing file upload"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unable to read file upload"})
	}
	defer file.Close()

	result, err := aiService.AnalyzeCSV(file, granularity)
	if err != nil {
		log.Printf("⚠️  [AI CSV] analysis rejected: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}

// HandleGetAdvancedAnalytics returns daily trends and category splits.
// GET /api/v1/businesses/:businessId/ai/advanced-analytics
func HandleGetAdvancedAnalytics(c *fiber.Ctx) error {
	claims, err := middleware.ExtractClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}
	businessID := c.Params("businessId")

	role, err := memberRole(c.Context(), businessID, claims.UserID)
	if err != nil {
		log.Printf("❌ [AI ANALYTICS] membership lookup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to verify membership"})
	}
	switch role {
	case "Owner", "Accountant", "Analyst":
	default:
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	txns, err := loadTransactions(c.Context(), businessID)
	if err != nil {
		log.Printf("❌ [AI ANALYTICS] ledger query failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch transactions"})
	}
	return c.JSON(aiService.AdvancedAnalytics(txns, time.Now()))
}

// HandleExportData returns the joined sale rows used by external analysis
// tools, paginated.
// GET /api/v1/businesses/:businessId/ai/export-data?page=1&pageSize=100
func HandleExportData(c *fiber.Ctx) error {
	businessID, err := requireMembership(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("pageSize", "100"))
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 1000 {
		pageSize = 100
	}

	ctx := c.Context()
	var total int
	err = database.GetDB().QueryRow(ctx, `
		SELECT COUNT(*)
		FROM transactions t
		JOIN inventory_items i ON t.inventory_item_id = i.id
		WHERE t.business_id = $1 AND t.type = 'Sale'
	`, businessID).Scan(&total)
	if err != nil {
		log.Printf("❌ [AI EXPORT] count query failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to export data"})
	}

	rows, err := database.GetDB().Query(ctx, `
		SELECT t.timestamp, COALESCE(t.category, ''), i.name,
		       COALESCE(t.quantity, 1), t.amount, COALESCE(t.cogs, 0)
		FROM transactions t
		JOIN inventory_items i ON t.inventory_item_id = i.id
		WHERE t.business_id = $1 AND t.type = 'Sale'
		ORDER BY t.timestamp ASC
		LIMIT $2 OFFSET $3
	`, businessID, pageSize, (page-1)*pageSize)
	if err != nil {
		log.Printf("❌ [AI EXPORT] query failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to export data"})
	}
	defer rows.Close()

	data := make([]models.ExportRow, 0)
	for rows.Next() {
		var ts time.Time
		var row models.ExportRow
		if err := rows.Scan(&ts, &row.Category, &row.Product, &row.Quantity,
			&row.TotalRevenue, &row.TotalCOGS); err != nil {
			log.Printf("⚠️  [AI EXPORT] scan failed: %v", err)
			continue
		}
		row.Date = ts.Format("2006-01-02")
		if row.Quantity > 0 {
			row.UnitCOGS = row.TotalCOGS / float64(row.Quantity)
		}
		row.TotalProfit = row.TotalRevenue - row.TotalCOGS
		data = append(data, row)
	}

	return c.JSON(fiber.Map{
		"data":       data,
		"pagination": utils.CreatePagination(total, page, pageSize),
	})
}
