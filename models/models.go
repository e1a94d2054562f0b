package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// --- JWT & Auth ---

type JwtClaims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// --- Core Models ---

// Transaction types.
const (
	TxTypeSale    = "Sale"
	TxTypeExpense = "Expense"
)

// Transaction is a single ledger entry, either a sale or an expense.
// Amount is always a non-negative magnitude; the sign lives in Type.
// Profit is the margin view of a sale (amount minus unit cost times
// quantity) or the negated amount of an expense.
type Transaction struct {
	ID              string    `json:"id"`
	InventoryItemID *string   `json:"inventory_item_id,omitempty"`
	Amount          float64   `json:"amount"`
	Quantity        int       `json:"quantity"`
	Category        string    `json:"category"`
	Type            string    `json:"type"`
	Timestamp       time.Time `json:"timestamp"`
	Description     string    `json:"description"`
	Profit          float64   `json:"profit"`
	COGS            float64   `json:"cogs"`
}

// InventoryItem is one catalog entry. LeadTime is the supplier delivery
// delay in days; a missing or zero value is treated as 1 day downstream.
type InventoryItem struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	StockQuantity int     `json:"stock_quantity"`
	ReorderLevel  int     `json:"reorder_level"`
	CostPrice     float64 `json:"cost_price"`
	SellingPrice  float64 `json:"selling_price"`
	Category      string  `json:"category"`
	LeadTime      int     `json:"lead_time"`
}
