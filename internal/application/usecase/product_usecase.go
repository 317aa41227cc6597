package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Puntoventa-api/internal/application/dto"
	"github.com/jhoicas/Puntoventa-api/internal/application/inventory"
	"github.com/jhoicas/Puntoventa-api/internal/domain"
	"github.com/jhoicas/Puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/Puntoventa-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. Quantity nunca se escribe
// directamente: el stock inicial y los cambios de cantidad pasan por el motor
// de inventario dentro de la misma transacción que la escritura del producto.
type ProductUseCase struct {
	repo     repository.ProductRepository
	txRunner inventory.TxRunner
	ledger   *inventory.LedgerUseCase
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, txRunner inventory.TxRunner, ledger *inventory.LedgerUseCase) *ProductUseCase {
	return &ProductUseCase{repo: repo, txRunner: txRunner, ledger: ledger}
}

// Create crea un producto. Si la cantidad inicial es mayor que cero se
// registra un movimiento "initial" por ese monto en la misma transacción.
func (uc *ProductUseCase) Create(ctx context.Context, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Name == "" || !in.Price.GreaterThan(decimal.Zero) || in.Quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetByName(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Quantity:    0, // el stock inicial entra por el ledger
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		if err := productRepo.Create(ctx, product); err != nil {
			return err
		}
		if in.Quantity > 0 {
			_, _, err := uc.ledger.ApplyDeltaInTx(ctx, movRepo, productRepo, inventory.ApplyDeltaInput{
				ProductID:    product.ID,
				Delta:        in.Quantity,
				MovementType: entity.MovementTypeInitial,
				Notes:        "Inventario inicial al crear el producto",
				UserID:       userID,
			}, now)
			if err != nil {
				return err
			}
			product.Quantity = in.Quantity
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID. Devuelve nil si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto. Un cambio de cantidad se aplica como ajuste
// manual a través del ledger, en la misma transacción que los demás campos.
func (uc *ProductUseCase) Update(ctx context.Context, id, userID string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if in.Price != nil && !in.Price.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity != nil && *in.Quantity < 0 {
		return nil, domain.ErrInvalidInput
	}

	var updated *entity.Product
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		product, err := productRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}

		if in.Name != nil && *in.Name != product.Name {
			other, err := productRepo.GetByName(ctx, *in.Name)
			if err != nil {
				return err
			}
			if other != nil && other.ID != product.ID {
				return domain.ErrDuplicate
			}
			product.Name = *in.Name
		}
		if in.Description != nil {
			product.Description = *in.Description
		}
		if in.Price != nil {
			product.Price = *in.Price
		}
		product.UpdatedAt = time.Now()
		if err := productRepo.Update(ctx, product); err != nil {
			return err
		}

		if in.Quantity != nil {
			if err := uc.ledger.AdjustQuantityInTx(ctx, movRepo, productRepo, product.ID, *in.Quantity, userID, product.UpdatedAt); err != nil {
				return err
			}
			product.Quantity = *in.Quantity
		}
		updated = product
		return nil
	})
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return toProductResponse(updated), nil
}

// List lista productos con búsqueda por nombre/descripción y paginación.
func (uc *ProductUseCase) List(ctx context.Context, search string, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(ctx, search, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina un producto. Sus movimientos e items caen en cascada en la
// misma transacción (FK ON DELETE CASCADE). ErrNotFound si no existe.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(ctx, id)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Quantity:    p.Quantity,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
