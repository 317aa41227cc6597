package sales

import (
	"context"

	"github.com/jhoicas/Puntoventa-api/internal/domain"
	"github.com/jhoicas/Puntoventa-api/internal/domain/repository"
)

// ReceiptUseCase genera el comprobante PDF de una venta (representación
// gráfica para imprimir o enviar al cliente).
type ReceiptUseCase struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	generator   ReceiptPDFGenerator
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	generator ReceiptPDFGenerator,
) *ReceiptUseCase {
	return &ReceiptUseCase{saleRepo: saleRepo, productRepo: productRepo, generator: generator}
}

// GenerateReceipt carga la venta con sus items, resuelve los nombres de
// producto y devuelve los bytes del PDF. ErrNotFound si la venta no existe.
func (uc *ReceiptUseCase) GenerateReceipt(ctx context.Context, saleID string) ([]byte, error) {
	sale, err := uc.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.saleRepo.ListItems(ctx, saleID)
	if err != nil {
		return nil, err
	}

	lines := make([]ReceiptLine, 0, len(items))
	for _, item := range items {
		name := item.ProductID // fallback si el producto fue eliminado después de la venta
		if product, err := uc.productRepo.GetByID(ctx, item.ProductID); err == nil && product != nil {
			name = product.Name
		}
		lines = append(lines, ReceiptLine{Item: *item, ProductName: name})
	}
	return uc.generator.GenerateReceiptPDF(ctx, sale, lines)
}
