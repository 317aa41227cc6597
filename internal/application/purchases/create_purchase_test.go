package purchases_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Puntoventa-api/internal/application/dto"
	"github.com/jhoicas/Puntoventa-api/internal/application/inventory"
	"github.com/jhoicas/Puntoventa-api/internal/application/purchases"
	"github.com/jhoicas/Puntoventa-api/internal/domain"
	"github.com/jhoicas/Puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/Puntoventa-api/internal/domain/repository"
)

// Fakes en memoria con semántica Commit/Rollback, como en los tests de ventas.

type memStore struct {
	products      map[string]*entity.Product
	movements     []*entity.StockMovement
	purchases     map[string]*entity.Purchase
	purchaseItems []*entity.PurchaseItem
}

func newMemStore() *memStore {
	return &memStore{
		products:  make(map[string]*entity.Product),
		purchases: make(map[string]*entity.Purchase),
	}
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	for id, p := range s.products {
		cp := *p
		c.products[id] = &cp
	}
	for id, v := range s.purchases {
		cp := *v
		c.purchases[id] = &cp
	}
	c.movements = append(c.movements, s.movements...)
	c.purchaseItems = append(c.purchaseItems, s.purchaseItems...)
	return c
}

type memProductRepo struct{ s *memStore }

func (r *memProductRepo) Create(_ context.Context, p *entity.Product) error {
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *memProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) GetByName(_ context.Context, name string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.Name == name {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *memProductRepo) Update(_ context.Context, p *entity.Product) error {
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *memProductRepo) UpdateQuantity(_ context.Context, id string, quantity int64) error {
	if p, ok := r.s.products[id]; ok {
		p.Quantity = quantity
	}
	return nil
}

func (r *memProductRepo) List(_ context.Context, _ string, _, _ int) ([]*entity.Product, error) {
	return nil, nil
}

func (r *memProductRepo) Delete(_ context.Context, id string) error {
	delete(r.s.products, id)
	return nil
}

type memMovementRepo struct{ s *memStore }

func (r *memMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *memMovementRepo) List(_ context.Context, _ repository.MovementFilter) ([]*entity.StockMovement, error) {
	return r.s.movements, nil
}

func (r *memMovementRepo) CountByProduct(_ context.Context, productID string) (int64, error) {
	var n int64
	for _, m := range r.s.movements {
		if m.ProductID == productID {
			n++
		}
	}
	return n, nil
}

type memPurchaseRepo struct{ s *memStore }

func (r *memPurchaseRepo) Create(_ context.Context, p *entity.Purchase) error {
	cp := *p
	r.s.purchases[p.ID] = &cp
	return nil
}

func (r *memPurchaseRepo) CreateItem(_ context.Context, item *entity.PurchaseItem) error {
	cp := *item
	r.s.purchaseItems = append(r.s.purchaseItems, &cp)
	return nil
}

func (r *memPurchaseRepo) UpdateTotal(_ context.Context, purchaseID string, total decimal.Decimal) error {
	if p, ok := r.s.purchases[purchaseID]; ok {
		p.TotalAmount = total
	}
	return nil
}

func (r *memPurchaseRepo) GetByID(_ context.Context, id string) (*entity.Purchase, error) {
	p, ok := r.s.purchases[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memPurchaseRepo) ListItems(_ context.Context, purchaseID string) ([]*entity.PurchaseItem, error) {
	var out []*entity.PurchaseItem
	for _, it := range r.s.purchaseItems {
		if it.PurchaseID == purchaseID {
			cp := *it
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memPurchaseRepo) List(_ context.Context, _, _ *time.Time, _, _ int) ([]*entity.Purchase, error) {
	return nil, nil
}

type memTxRunner struct{ s *memStore }

func (t *memTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	tx := t.s.clone()
	if err := fn(&memMovementRepo{tx}, &memProductRepo{tx}); err != nil {
		return err
	}
	*t.s = *tx
	return nil
}

func (t *memTxRunner) RunPurchase(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	purchaseRepo repository.PurchaseRepository,
) error) error {
	tx := t.s.clone()
	if err := fn(&memMovementRepo{tx}, &memProductRepo{tx}, &memPurchaseRepo{tx}); err != nil {
		return err
	}
	*t.s = *tx
	return nil
}

// retryTxRunner imita el reintento ante un conflicto de serialización: el
// primer intento se ejecuta sobre una copia que se descarta (rollback) y el
// callback se reejecuta sobre una copia fresca que sí se publica.
type retryTxRunner struct {
	memTxRunner
	retries int
}

func (t *retryTxRunner) RunPurchase(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	purchaseRepo repository.PurchaseRepository,
) error) error {
	for i := 0; i < t.retries; i++ {
		discarded := t.s.clone()
		_ = fn(&memMovementRepo{discarded}, &memProductRepo{discarded}, &memPurchaseRepo{discarded})
	}
	return t.memTxRunner.RunPurchase(ctx, fn)
}

func newCreatePurchaseUC(s *memStore) *purchases.CreatePurchaseUseCase {
	runner := &memTxRunner{s}
	ledger := inventory.NewLedgerUseCase(runner, &memMovementRepo{s})
	return purchases.NewCreatePurchaseUseCase(runner, ledger)
}

func seedProduct(s *memStore, id string, price, quantity int64) {
	s.products[id] = &entity.Product{
		ID:       id,
		Name:     "Producto " + id,
		Price:    decimal.NewFromInt(price),
		Quantity: quantity,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestCreatePurchase_AumentaStockConPrecioDelCaller(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "p1", 10, 5) // precio de lista $10
	uc := newCreatePurchaseUC(s)

	out, err := uc.CreatePurchase(context.Background(), "u1", dto.CreatePurchaseRequest{
		SupplierName: "Proveedor SA",
		Reference:    "FAC-001",
		Items: []dto.PurchaseItemRequest{
			// costo negociado $7, distinto del precio de lista
			{ProductID: "p1", Quantity: 10, UnitPrice: decimal.NewFromInt(7)},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.Equal(t, int64(15), s.products["p1"].Quantity)
	assert.True(t, decimal.NewFromInt(70).Equal(out.TotalAmount))
	require.Len(t, out.Items, 1)
	assert.True(t, decimal.NewFromInt(7).Equal(out.Items[0].UnitPrice),
		"la compra debe usar el precio del caller, no el de lista")

	// El precio de lista del producto no cambia por la compra
	assert.True(t, decimal.NewFromInt(10).Equal(s.products["p1"].Price))

	require.Len(t, s.movements, 1)
	assert.Equal(t, entity.MovementTypePurchase, s.movements[0].MovementType)
	assert.Equal(t, "Compra #"+out.ID, s.movements[0].Reference)
	assert.Equal(t, int64(10), s.movements[0].QuantityChange)
}

func TestCreatePurchase_ProductoInexistente_RevierteTodo(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "p1", 10, 5)
	uc := newCreatePurchaseUC(s)

	_, err := uc.CreatePurchase(context.Background(), "u1", dto.CreatePurchaseRequest{
		SupplierName: "Proveedor SA",
		Items: []dto.PurchaseItemRequest{
			{ProductID: "p1", Quantity: 2, UnitPrice: decimal.NewFromInt(7)},
			{ProductID: "fantasma", Quantity: 1, UnitPrice: decimal.NewFromInt(3)},
		},
	})
	require.ErrorIs(t, err, domain.ErrNotFound)

	assert.Empty(t, s.purchases)
	assert.Empty(t, s.purchaseItems)
	assert.Empty(t, s.movements)
	assert.Equal(t, int64(5), s.products["p1"].Quantity)
}

// Un conflicto de serialización reejecuta el closure completo; la respuesta
// no debe arrastrar items del intento descartado.
func TestCreatePurchase_ReintentoNoDuplicaItems(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "p1", 10, 5)
	runner := &retryTxRunner{memTxRunner: memTxRunner{s}, retries: 1}
	ledger := inventory.NewLedgerUseCase(runner, &memMovementRepo{s})
	uc := purchases.NewCreatePurchaseUseCase(runner, ledger)

	out, err := uc.CreatePurchase(context.Background(), "u1", dto.CreatePurchaseRequest{
		SupplierName: "Proveedor SA",
		Items: []dto.PurchaseItemRequest{
			{ProductID: "p1", Quantity: 10, UnitPrice: decimal.NewFromInt(7)},
		},
	})
	require.NoError(t, err)

	// La respuesta y lo persistido deben coincidir: un item, total 70
	require.Len(t, out.Items, 1)
	assert.True(t, decimal.NewFromInt(70).Equal(out.TotalAmount),
		"total esperado 70, obtenido %s", out.TotalAmount)
	assert.Len(t, s.purchaseItems, 1)
	assert.Len(t, s.movements, 1)
	assert.Equal(t, int64(15), s.products["p1"].Quantity)
}

func TestCreatePurchase_ValidaEntrada(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "p1", 10, 5)
	uc := newCreatePurchaseUC(s)

	cases := []dto.CreatePurchaseRequest{
		{SupplierName: "Proveedor SA"}, // sin items
		{Items: []dto.PurchaseItemRequest{{ProductID: "p1", Quantity: 1, UnitPrice: decimal.NewFromInt(7)}}}, // sin supplier_name
		{SupplierName: "Proveedor SA", Items: []dto.PurchaseItemRequest{{ProductID: "p1", Quantity: 0, UnitPrice: decimal.NewFromInt(7)}}},
		{SupplierName: "Proveedor SA", Items: []dto.PurchaseItemRequest{{ProductID: "p1", Quantity: 1, UnitPrice: decimal.Zero}}},
	}
	for _, in := range cases {
		_, err := uc.CreatePurchase(context.Background(), "u1", in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	assert.Empty(t, s.purchases)
	assert.Equal(t, int64(5), s.products["p1"].Quantity)
}
