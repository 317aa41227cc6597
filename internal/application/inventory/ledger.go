package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Puntoventa-api/internal/domain"
	"github.com/jhoicas/Puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/Puntoventa-api/internal/domain/repository"
)

// LedgerUseCase es el motor de inventario: aplica deltas con signo sobre la
// cantidad de un producto registrando siempre el movimiento que los justifica,
// en la misma transacción y con bloqueo de fila (SELECT FOR UPDATE) para
// serializar el read-check-write por producto.
//
// Invariante: products.quantity == Σ stock_movements.quantity_change del producto.
type LedgerUseCase struct {
	txRunner TxRunner
	movRepo  repository.StockMovementRepository // solo lecturas (historial); las escrituras van por la tx
}

// NewLedgerUseCase construye el motor de inventario.
func NewLedgerUseCase(txRunner TxRunner, movRepo repository.StockMovementRepository) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, movRepo: movRepo}
}

// ApplyDeltaInput entrada para aplicar un delta con signo.
type ApplyDeltaInput struct {
	ProductID    string
	Delta        int64 // positivo entrada, negativo salida; nunca cero
	MovementType string
	Reference    string
	Notes        string
	UserID       string
}

// ApplyDelta aplica un delta con signo en su propia transacción.
// Falla con ErrNotFound si el producto no existe y con ErrInsufficientStock
// si un delta negativo dejaría la cantidad por debajo de cero. En caso de
// error no queda ni movimiento ni cambio de cantidad.
func (uc *LedgerUseCase) ApplyDelta(ctx context.Context, input ApplyDeltaInput) (*entity.StockMovement, error) {
	if input.ProductID == "" || input.Delta == 0 || !entity.ValidMovementType(input.MovementType) {
		return nil, domain.ErrInvalidInput
	}
	var mov *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		m, _, err := uc.ApplyDeltaInTx(ctx, movRepo, productRepo, input, time.Now())
		mov = m
		return err
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// ApplyDeltaInTx aplica el delta usando los repositorios del caller (misma
// transacción). Lo usan ventas, compras y la edición de productos para que
// sus escrituras y las del ledger caigan juntas en el mismo Commit/Rollback.
// Devuelve el movimiento creado y el producto ya bloqueado con la cantidad
// actualizada (el precio leído bajo el lock es el vigente para esa venta).
func (uc *LedgerUseCase) ApplyDeltaInTx(
	ctx context.Context,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	input ApplyDeltaInput,
	now time.Time,
) (*entity.StockMovement, *entity.Product, error) {
	// Bloquea la fila del producto para evitar lost updates entre ventas concurrentes
	product, err := productRepo.GetForUpdate(ctx, input.ProductID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, domain.ErrNotFound
	}
	newQty := product.Quantity + input.Delta
	if newQty < 0 {
		return nil, nil, domain.ErrInsufficientStock
	}
	if err := productRepo.UpdateQuantity(ctx, product.ID, newQty); err != nil {
		return nil, nil, err
	}
	mov := &entity.StockMovement{
		ID:             uuid.New().String(),
		ProductID:      product.ID,
		QuantityChange: input.Delta,
		MovementType:   input.MovementType,
		Reference:      input.Reference,
		Notes:          input.Notes,
		CreatedBy:      input.UserID,
		MovementDate:   now,
	}
	if err := movRepo.Create(ctx, mov); err != nil {
		return nil, nil, err
	}
	product.Quantity = newQty
	product.UpdatedAt = now
	return mov, product, nil
}

// AdjustQuantity lleva la cantidad del producto a un valor absoluto.
// delta = nueva − actual; si es cero no se escribe ningún movimiento (no-op
// idempotente). El movimiento resultante es de tipo "adjustment" con una nota
// que captura el antes y el después.
func (uc *LedgerUseCase) AdjustQuantity(ctx context.Context, productID string, newQuantity int64, userID string) error {
	if productID == "" || newQuantity < 0 {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		return uc.AdjustQuantityInTx(ctx, movRepo, productRepo, productID, newQuantity, userID, time.Now())
	})
}

// AdjustQuantityInTx versión para componer dentro de la transacción del caller
// (edición de producto: campos y ajuste de cantidad en un solo commit).
func (uc *LedgerUseCase) AdjustQuantityInTx(
	ctx context.Context,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	productID string,
	newQuantity int64,
	userID string,
	now time.Time,
) error {
	product, err := productRepo.GetForUpdate(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	delta := newQuantity - product.Quantity
	if delta == 0 {
		return nil
	}
	_, _, err = uc.ApplyDeltaInTx(ctx, movRepo, productRepo, ApplyDeltaInput{
		ProductID:    productID,
		Delta:        delta,
		MovementType: entity.MovementTypeAdjustment,
		Notes:        fmt.Sprintf("Ajuste manual: %d -> %d", product.Quantity, newQuantity),
		UserID:       userID,
	}, now)
	return err
}

// History devuelve el historial de movimientos con filtros, ordenado por fecha
// descendente (y ID como desempate estable entre páginas).
func (uc *LedgerUseCase) History(ctx context.Context, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.MovementType != "" && !entity.ValidMovementType(filter.MovementType) {
		return nil, domain.ErrInvalidInput
	}
	return uc.movRepo.List(ctx, filter)
}
