package sales

import (
	"context"

	"github.com/jhoicas/Puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/Puntoventa-api/internal/domain/repository"
)

// SalesTxRunner ejecuta una función dentro de una transacción que incluye los
// repos del ledger más el de ventas. Cabecera, items, movimientos y cantidades
// se confirman o se revierten juntos.
type SalesTxRunner interface {
	RunSale(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error) error
}

// ReceiptPDFGenerator genera el comprobante PDF de una venta.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(ctx context.Context, sale *entity.Sale, items []ReceiptLine) ([]byte, error)
}

// ReceiptLine línea del comprobante: item de venta más el nombre del producto.
type ReceiptLine struct {
	Item        entity.SaleItem
	ProductName string
}
