package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Puntoventa-api/internal/application/inventory"
	"github.com/jhoicas/Puntoventa-api/internal/application/purchases"
	"github.com/jhoicas/Puntoventa-api/internal/application/sales"
	"github.com/jhoicas/Puntoventa-api/internal/domain"
	"github.com/jhoicas/Puntoventa-api/internal/domain/repository"
)

// Ensure TxRunner implements the application transaction ports.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ sales.SalesTxRunner = (*TxRunner)(nil)
var _ purchases.PurchaseTxRunner = (*TxRunner)(nil)

// Reintentos ante 40001/40P01 antes de rendirse con ErrConflict.
const maxTxRetries = 3

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Las pérdidas de serialización y deadlocks se reintentan hasta maxTxRetries
// veces re-ejecutando la transacción completa; si persisten se devuelve
// domain.ErrConflict.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// runWithRetry ejecuta attempt en una transacción nueva por intento.
func (r *TxRunner) runWithRetry(ctx context.Context, attempt func(ctx context.Context) error) error {
	var err error
	for i := 0; i < maxTxRetries; i++ {
		err = attempt(ctx)
		if err == nil || !isSerializationFailure(err) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return fmt.Errorf("%w: %v", domain.ErrConflict, err)
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	return r.runWithRetry(ctx, func(ctx context.Context) error {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer func() { _ = tx.Rollback(ctx) }()

		movRepo := NewStockMovementRepository(tx)
		productRepo := NewProductRepository(tx)

		if err := fn(movRepo, productRepo); err != nil {
			return err
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit transaction: %w", err)
		}
		return nil
	})
}

// RunSale inicia una transacción con repos de inventario y ventas (para CreateSale).
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
) error) error {
	return r.runWithRetry(ctx, func(ctx context.Context) error {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer func() { _ = tx.Rollback(ctx) }()

		movRepo := NewStockMovementRepository(tx)
		productRepo := NewProductRepository(tx)
		saleRepo := NewSaleRepository(tx)

		if err := fn(movRepo, productRepo, saleRepo); err != nil {
			return err
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit transaction: %w", err)
		}
		return nil
	})
}

// RunPurchase inicia una transacción con repos de inventario y compras (para CreatePurchase).
func (r *TxRunner) RunPurchase(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	purchaseRepo repository.PurchaseRepository,
) error) error {
	return r.runWithRetry(ctx, func(ctx context.Context) error {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer func() { _ = tx.Rollback(ctx) }()

		movRepo := NewStockMovementRepository(tx)
		productRepo := NewProductRepository(tx)
		purchaseRepo := NewPurchaseRepository(tx)

		if err := fn(movRepo, productRepo, purchaseRepo); err != nil {
			return err
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit transaction: %w", err)
		}
		return nil
	})
}
