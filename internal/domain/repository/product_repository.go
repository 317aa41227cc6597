package repository

import (
	"context"

	"github.com/jhoicas/Puntoventa-api/internal/domain/entity"
)

// ProductRepository puerto de persistencia para productos.
// GetForUpdate solo tiene sentido dentro de una transacción: bloquea la fila
// del producto (SELECT FOR UPDATE) para serializar el read-check-write del
// motor de inventario por producto.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByName(ctx context.Context, name string) (*entity.Product, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	UpdateQuantity(ctx context.Context, id string, quantity int64) error
	List(ctx context.Context, search string, limit, offset int) ([]*entity.Product, error)
	Delete(ctx context.Context, id string) error
}
