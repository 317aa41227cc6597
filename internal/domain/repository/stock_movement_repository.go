package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Puntoventa-api/internal/domain/entity"
)

// MovementFilter filtros para el historial de movimientos.
// Campos vacíos / nil no filtran.
type MovementFilter struct {
	ProductID    string
	MovementType string
	From         *time.Time
	To           *time.Time
	Limit        int
	Offset       int
}

// StockMovementRepository puerto de persistencia para el ledger de movimientos.
// El ledger es append-only: no hay Update ni Delete individual.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.StockMovement, error)
	CountByProduct(ctx context.Context, productID string) (int64, error)
}
