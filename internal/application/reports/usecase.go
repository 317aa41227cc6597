package reports

import (
	"context"
	"time"

	"github.com/jhoicas/Puntoventa-api/internal/application/dto"
	"github.com/jhoicas/Puntoventa-api/internal/domain/repository"
)

// ReportUseCase consultas de solo lectura: resumen de inventario y reporte de
// ventas. Nunca muta el ledger.
type ReportUseCase struct {
	reportRepo repository.ReportRepository
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(reportRepo repository.ReportRepository) *ReportUseCase {
	return &ReportUseCase{reportRepo: reportRepo}
}

// InventorySummary devuelve total de productos, valor total del stock
// (Σ price × quantity) y los productos en o por debajo del umbral.
func (uc *ReportUseCase) InventorySummary(ctx context.Context, lowStockThreshold int64) (*dto.InventorySummaryResponse, error) {
	total, err := uc.reportRepo.CountProducts(ctx)
	if err != nil {
		return nil, err
	}
	value, err := uc.reportRepo.TotalStockValue(ctx)
	if err != nil {
		return nil, err
	}
	lowStock, err := uc.reportRepo.LowStockProducts(ctx, lowStockThreshold)
	if err != nil {
		return nil, err
	}

	out := &dto.InventorySummaryResponse{
		TotalProducts:   total,
		TotalStockValue: value,
		LowStockItems:   make([]dto.ProductResponse, 0, len(lowStock)),
	}
	for _, p := range lowStock {
		out.LowStockItems = append(out.LowStockItems, dto.ProductResponse{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			Quantity:    p.Quantity,
			CreatedAt:   p.CreatedAt,
			UpdatedAt:   p.UpdatedAt,
		})
	}
	return out, nil
}

// SalesReport lista las ventas del período con su número de líneas.
func (uc *ReportUseCase) SalesReport(ctx context.Context, from, to *time.Time) ([]dto.SalesReportRow, error) {
	rows, err := uc.reportRepo.SalesReport(ctx, from, to)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SalesReportRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.SalesReportRow{
			ID:    r.SaleID,
			Total: r.Total,
			Date:  r.Date,
			Items: r.ItemCount,
		})
	}
	return out, nil
}
