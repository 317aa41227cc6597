package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventorySummaryResponse resumen del estado actual del inventario.
type InventorySummaryResponse struct {
	TotalProducts   int64             `json:"total_products"`
	TotalStockValue decimal.Decimal   `json:"total_stock_value"`
	LowStockItems   []ProductResponse `json:"low_stock_items"`
}

// SalesReportRow una venta del período con su número de líneas.
type SalesReportRow struct {
	ID    string          `json:"id"`
	Total decimal.Decimal `json:"total"`
	Date  time.Time       `json:"date"`
	Items int             `json:"items"`
}
