package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Puntoventa-api/internal/domain/entity"
)

// SaleSummaryRow fila del reporte de ventas: cabecera más conteo de items.
type SaleSummaryRow struct {
	SaleID    string
	Total     decimal.Decimal
	Date      time.Time
	ItemCount int
}

// ReportRepository consultas de solo lectura para reportes de inventario y ventas.
// Nunca muta estado.
type ReportRepository interface {
	// CountProducts devuelve el total de productos distintos.
	CountProducts(ctx context.Context) (int64, error)
	// TotalStockValue devuelve Σ price × quantity sobre todos los productos.
	TotalStockValue(ctx context.Context) (decimal.Decimal, error)
	// LowStockProducts devuelve los productos con quantity <= threshold.
	LowStockProducts(ctx context.Context, threshold int64) ([]*entity.Product, error)
	// SalesReport lista ventas del período con su número de líneas.
	SalesReport(ctx context.Context, from, to *time.Time) ([]SaleSummaryRow, error)
}
