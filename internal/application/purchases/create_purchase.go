package purchases

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

// CreatePurchaseUseCase crea una compra y aumenta el inventario en una sola
// transacción. A diferencia de la venta, el precio unitario lo aporta el
// caller: la compra registra el costo negociado con el proveedor, que puede
// diferir del precio de lista vigente.
type CreatePurchaseUseCase struct {
	txRunner PurchaseTxRunner
	ledger   *inventory.LedgerUseCase
}

// NewCreatePurchaseUseCase construye el caso de uso.
func NewCreatePurchaseUseCase(txRunner PurchaseTxRunner, ledger *inventory.LedgerUseCase) *CreatePurchaseUseCase {
	return &CreatePurchaseUseCase{txRunner: txRunner, ledger: ledger}
}

// CreatePurchase procesa la compra línea por línea dentro de una transacción:
// cabecera con total provisional, por cada línea un delta positivo vía ledger
// (movimiento "purchase" con referencia a la compra) y la fila del item con el
// precio del caller; al final el total = Σ subtotales. Cualquier fallo
// revierte la transacción completa.
func (uc *CreatePurchaseUseCase) CreatePurchase(ctx context.Context, userID string, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	if len(in.Items) == 0 || in.SupplierName == "" {
		return nil, domain.ErrInvalidInput
	}
	for _, item := range in.Items {
		if item.ProductID == "" || item.Quantity <= 0 || !item.UnitPrice.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}

	now := time.Now()
	purchaseID := uuid.New().String()
	reference := fmt.Sprintf("Compra #%s", purchaseID)

	purchase := &entity.Purchase{
		ID:           purchaseID,
		SupplierName: in.SupplierName,
		Reference:    in.Reference,
		TotalAmount:  decimal.Zero, // provisional, se cierra al final de la tx
		CreatedBy:    userID,
		CreatedAt:    now,
	}
	var items []*entity.PurchaseItem

	err := uc.txRunner.RunPurchase(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		purchaseRepo repository.PurchaseRepository,
	) error {
		// El runner puede reejecutar el closure ante un conflicto de
		// serialización; el estado por intento se reinicia aquí.
		items = nil
		purchase.TotalAmount = decimal.Zero

		if err := purchaseRepo.Create(ctx, purchase); err != nil {
			return err
		}

		total := decimal.Zero
		for _, line := range in.Items {
			_, _, err := uc.ledger.ApplyDeltaInTx(ctx, movRepo, productRepo, inventory.ApplyDeltaInput{
				ProductID:    line.ProductID,
				Delta:        line.Quantity,
				MovementType: entity.MovementTypePurchase,
				Reference:    reference,
				UserID:       userID,
			}, now)
			if err != nil {
				return err
			}

			subtotal := line.UnitPrice.Mul(decimal.NewFromInt(line.Quantity))
			item := &entity.PurchaseItem{
				ID:         uuid.New().String(),
				PurchaseID: purchaseID,
				ProductID:  line.ProductID,
				Quantity:   line.Quantity,
				UnitPrice:  line.UnitPrice,
				Subtotal:   subtotal,
			}
			if err := purchaseRepo.CreateItem(ctx, item); err != nil {
				return err
			}
			items = append(items, item)
			total = total.Add(subtotal)
		}

		purchase.TotalAmount = total
		return purchaseRepo.UpdateTotal(ctx, purchaseID, total)
	})
	if err != nil {
		return nil, err
	}
	return toPurchaseResponse(purchase, items), nil
}

func toPurchaseResponse(p *entity.Purchase, items []*entity.PurchaseItem) *dto.PurchaseResponse {
	out := &dto.PurchaseResponse{
		ID:           p.ID,
		SupplierName: p.SupplierName,
		Reference:    p.Reference,
		TotalAmount:  p.TotalAmount,
		CreatedBy:    p.CreatedBy,
		CreatedAt:    p.CreatedAt,
		Items:        make([]dto.PurchaseItemResponse, 0, len(items)),
	}
	for _, it := range items {
		out.Items = append(out.Items, dto.PurchaseItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
		})
	}
	return out
}
