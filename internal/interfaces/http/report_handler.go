package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Puntoventa-api/internal/application/dto"
	"github.com/jhoicas/Puntoventa-api/internal/application/reports"
)

// Umbral por defecto para considerar un producto con stock bajo.
const defaultLowStockThreshold = 5

// ReportHandler maneja las peticiones HTTP de reportes (protegido).
type ReportHandler struct {
	uc *reports.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reports.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// InventorySummary godoc
// @Summary      Resumen de inventario
// @Description  Total de productos, valor del stock (Σ precio × cantidad) y productos con stock bajo.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        low_stock_threshold  query  int  false  "Umbral de stock bajo"  default(5)
// @Success      200  {object}  dto.InventorySummaryResponse
// @Router       /api/reports/inventory [get]
func (h *ReportHandler) InventorySummary(c *fiber.Ctx) error {
	threshold := int64(c.QueryInt("low_stock_threshold", defaultLowStockThreshold))
	if threshold < 0 {
		threshold = defaultLowStockThreshold
	}
	out, err := h.uc.InventorySummary(c.Context(), threshold)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// SalesReport godoc
// @Summary      Reporte de ventas
// @Description  Ventas del período con total y número de líneas, más reciente primero.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Fecha mínima (RFC3339)"
// @Param        to    query  string  false  "Fecha máxima (RFC3339)"
// @Success      200   {array}  dto.SalesReportRow
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reports/sales [get]
func (h *ReportHandler) SalesReport(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.uc.SalesReport(c.Context(), from, to)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
