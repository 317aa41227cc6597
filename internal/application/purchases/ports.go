package purchases

import (
	"context"

	"github.com/jhoicas/Puntoventa-api/internal/domain/repository"
)

// PurchaseTxRunner ejecuta una función dentro de una transacción que incluye
// los repos del ledger más el de compras.
type PurchaseTxRunner interface {
	RunPurchase(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		purchaseRepo repository.PurchaseRepository,
	) error) error
}
