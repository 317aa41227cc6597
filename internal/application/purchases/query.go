package purchases

import (
	"context"
	"time"

	"github.com/jhoicas/Puntoventa-api/internal/application/dto"
	"github.com/jhoicas/Puntoventa-api/internal/domain"
	"github.com/jhoicas/Puntoventa-api/internal/domain/repository"
)

// QueryUseCase lecturas de compras: listado por rango de fechas y detalle con items.
type QueryUseCase struct {
	purchaseRepo repository.PurchaseRepository
}

// NewQueryUseCase construye el caso de uso de lectura.
func NewQueryUseCase(purchaseRepo repository.PurchaseRepository) *QueryUseCase {
	return &QueryUseCase{purchaseRepo: purchaseRepo}
}

// List lista compras (solo cabeceras) ordenadas por fecha descendente.
func (uc *QueryUseCase) List(ctx context.Context, from, to *time.Time, limit, offset int) (*dto.PurchaseListResponse, error) {
	list, err := uc.purchaseRepo.List(ctx, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	out := &dto.PurchaseListResponse{
		Items: make([]dto.PurchaseResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, p := range list {
		out.Items = append(out.Items, *toPurchaseResponse(p, nil))
	}
	return out, nil
}

// GetByID devuelve la compra con sus items. ErrNotFound si no existe.
func (uc *QueryUseCase) GetByID(ctx context.Context, id string) (*dto.PurchaseResponse, error) {
	purchase, err := uc.purchaseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if purchase == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.purchaseRepo.ListItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPurchaseResponse(purchase, items), nil
}
