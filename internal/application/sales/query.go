package sales

import (
	"context"
	"time"

	"github.com/jhoicas/Puntoventa-api/internal/application/dto"
	"github.com/jhoicas/Puntoventa-api/internal/domain"
	"github.com/jhoicas/Puntoventa-api/internal/domain/repository"
)

// QueryUseCase lecturas de ventas: listado por rango de fechas y detalle con items.
type QueryUseCase struct {
	saleRepo repository.SaleRepository
}

// NewQueryUseCase construye el caso de uso de lectura.
func NewQueryUseCase(saleRepo repository.SaleRepository) *QueryUseCase {
	return &QueryUseCase{saleRepo: saleRepo}
}

// List lista ventas (solo cabeceras) ordenadas por fecha descendente.
func (uc *QueryUseCase) List(ctx context.Context, from, to *time.Time, limit, offset int) (*dto.SaleListResponse, error) {
	list, err := uc.saleRepo.List(ctx, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	out := &dto.SaleListResponse{
		Items: make([]dto.SaleResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, s := range list {
		out.Items = append(out.Items, *toSaleResponse(s, nil))
	}
	return out, nil
}

// GetByID devuelve la venta con sus items. ErrNotFound si no existe.
func (uc *QueryUseCase) GetByID(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.saleRepo.ListItems(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale, items), nil
}
