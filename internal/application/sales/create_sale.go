package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Puntoventa-api/internal/application/dto"
	"github.com/jhoicas/Puntoventa-api/internal/application/inventory"
	"github.com/jhoicas/Puntoventa-api/internal/domain"
	"github.com/jhoicas/Puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/Puntoventa-api/internal/domain/repository"
)

// CreateSaleUseCase crea una venta y descuenta el inventario en una sola
// transacción. El precio unitario de cada línea es el precio de lista del
// producto leído bajo el lock de fila, de modo que las ventas siempre
// reflejan el precio vigente.
type CreateSaleUseCase struct {
	txRunner SalesTxRunner
	ledger   *inventory.LedgerUseCase
}

// NewCreateSaleUseCase construye el caso de uso.
func NewCreateSaleUseCase(txRunner SalesTxRunner, ledger *inventory.LedgerUseCase) *CreateSaleUseCase {
	return &CreateSaleUseCase{txRunner: txRunner, ledger: ledger}
}

// CreateSale procesa la venta línea por línea dentro de una transacción:
//  1. Cabecera con total provisional en cero.
//  2. Por cada línea: delta negativo vía ledger (bloquea fila, verifica stock,
//     registra movimiento "sale" con referencia a la venta), subtotal al precio
//     vigente del producto, fila de item.
//  3. Total = Σ subtotales, actualizado en la cabecera.
//
// Si cualquier línea falla (producto inexistente, stock insuficiente) la
// transacción completa se revierte: no quedan items, movimientos ni cambios
// de cantidad de las líneas anteriores.
func (uc *CreateSaleUseCase) CreateSale(ctx context.Context, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Items) == 0 || in.PaymentMethod == "" {
		return nil, domain.ErrInvalidInput
	}
	for _, item := range in.Items {
		if item.ProductID == "" || item.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
	}

	now := time.Now()
	saleID := uuid.New().String()
	reference := fmt.Sprintf("Venta #%s", saleID)

	sale := &entity.Sale{
		ID:            saleID,
		CustomerName:  in.CustomerName,
		TotalAmount:   decimal.Zero, // provisional, se cierra al final de la tx
		PaymentMethod: in.PaymentMethod,
		CreatedBy:     userID,
		CreatedAt:     now,
	}
	var items []*entity.SaleItem

	err := uc.txRunner.RunSale(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error {
		// El runner puede reejecutar el closure ante un conflicto de
		// serialización; el estado por intento se reinicia aquí.
		items = nil
		sale.TotalAmount = decimal.Zero

		if err := saleRepo.Create(ctx, sale); err != nil {
			return err
		}

		total := decimal.Zero
		for _, line := range in.Items {
			_, product, err := uc.ledger.ApplyDeltaInTx(ctx, movRepo, productRepo, inventory.ApplyDeltaInput{
				ProductID:    line.ProductID,
				Delta:        -line.Quantity,
				MovementType: entity.MovementTypeSale,
				Reference:    reference,
				UserID:       userID,
			}, now)
			if err != nil {
				return err
			}

			subtotal := product.Price.Mul(decimal.NewFromInt(line.Quantity))
			item := &entity.SaleItem{
				ID:        uuid.New().String(),
				SaleID:    saleID,
				ProductID: product.ID,
				Quantity:  line.Quantity,
				UnitPrice: product.Price,
				Subtotal:  subtotal,
			}
			if err := saleRepo.CreateItem(ctx, item); err != nil {
				return err
			}
			items = append(items, item)
			total = total.Add(subtotal)
		}

		sale.TotalAmount = total
		return saleRepo.UpdateTotal(ctx, saleID, total)
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, items), nil
}

func toSaleResponse(s *entity.Sale, items []*entity.SaleItem) *dto.SaleResponse {
	out := &dto.SaleResponse{
		ID:            s.ID,
		CustomerName:  s.CustomerName,
		TotalAmount:   s.TotalAmount,
		PaymentMethod: s.PaymentMethod,
		CreatedBy:     s.CreatedBy,
		CreatedAt:     s.CreatedAt,
		Items:         make([]dto.SaleItemResponse, 0, len(items)),
	}
	for _, it := range items {
		out.Items = append(out.Items, dto.SaleItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
		})
	}
	return out
}
