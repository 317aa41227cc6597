package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/Puntoventa-api/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo implementación del puerto PurchaseRepository sobre PostgreSQL (usable con pool o tx).
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador de persistencia para compras. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create inserta la cabecera de la compra (total provisional hasta UpdateTotal).
func (r *PurchaseRepo) Create(ctx context.Context, purchase *entity.Purchase) error {
	query := `
		INSERT INTO purchases (id, supplier_name, reference, total_amount, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		purchase.ID, purchase.SupplierName, purchase.Reference, purchase.TotalAmount,
		purchase.CreatedBy, purchase.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

// CreateItem inserta una línea de compra.
func (r *PurchaseRepo) CreateItem(ctx context.Context, item *entity.PurchaseItem) error {
	query := `
		INSERT INTO purchase_items (id, purchase_id, product_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.PurchaseID, item.ProductID, item.Quantity, item.UnitPrice, item.Subtotal,
	)
	if err != nil {
		return fmt.Errorf("insert purchase item: %w", err)
	}
	return nil
}

// UpdateTotal fija el total definitivo de la cabecera.
func (r *PurchaseRepo) UpdateTotal(ctx context.Context, purchaseID string, total decimal.Decimal) error {
	_, err := r.q.Exec(ctx, `UPDATE purchases SET total_amount = $2 WHERE id = $1`, purchaseID, total)
	if err != nil {
		return fmt.Errorf("update purchase total: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera de una compra. Devuelve nil si no existe.
func (r *PurchaseRepo) GetByID(ctx context.Context, id string) (*entity.Purchase, error) {
	query := `
		SELECT id, supplier_name, reference, total_amount, created_by, created_at
		FROM purchases WHERE id = $1`
	var p entity.Purchase
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.SupplierName, &p.Reference, &p.TotalAmount, &p.CreatedBy, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	return &p, nil
}

// ListItems devuelve las líneas de una compra.
func (r *PurchaseRepo) ListItems(ctx context.Context, purchaseID string) ([]*entity.PurchaseItem, error) {
	query := `
		SELECT id, purchase_id, product_id, quantity, unit_price, subtotal
		FROM purchase_items WHERE purchase_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("list purchase items: %w", err)
	}
	defer rows.Close()
	var items []*entity.PurchaseItem
	for rows.Next() {
		var it entity.PurchaseItem
		if err := rows.Scan(&it.ID, &it.PurchaseID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, fmt.Errorf("scan purchase item: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

// List lista cabeceras de compras con rango de fechas opcional, más reciente primero.
func (r *PurchaseRepo) List(ctx context.Context, from, to *time.Time, limit, offset int) ([]*entity.Purchase, error) {
	query := `
		SELECT id, supplier_name, reference, total_amount, created_by, created_at
		FROM purchases WHERE 1=1`
	args := []any{}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	query += " ORDER BY created_at DESC, id DESC"
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	var list []*entity.Purchase
	for rows.Next() {
		var p entity.Purchase
		if err := rows.Scan(&p.ID, &p.SupplierName, &p.Reference, &p.TotalAmount, &p.CreatedBy, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
