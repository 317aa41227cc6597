package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Puntoventa-api/internal/domain/entity"
)

// SaleRepository puerto de persistencia para ventas y sus items.
// UpdateTotal cierra la cabecera creada con total provisional dentro de la
// misma transacción que creó los items.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	CreateItem(ctx context.Context, item *entity.SaleItem) error
	UpdateTotal(ctx context.Context, saleID string, total decimal.Decimal) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	ListItems(ctx context.Context, saleID string) ([]*entity.SaleItem, error)
	List(ctx context.Context, from, to *time.Time, limit, offset int) ([]*entity.Sale, error)
}
