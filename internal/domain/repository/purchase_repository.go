package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Puntoventa-api/internal/domain/entity"
)

// PurchaseRepository puerto de persistencia para compras y sus items.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.Purchase) error
	CreateItem(ctx context.Context, item *entity.PurchaseItem) error
	UpdateTotal(ctx context.Context, purchaseID string, total decimal.Decimal) error
	GetByID(ctx context.Context, id string) (*entity.Purchase, error)
	ListItems(ctx context.Context, purchaseID string) ([]*entity.PurchaseItem, error)
	List(ctx context.Context, from, to *time.Time, limit, offset int) ([]*entity.Purchase, error)
}
