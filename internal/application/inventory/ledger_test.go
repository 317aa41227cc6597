package inventory_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Puntoventa-api/internal/application/inventory"
	"github.com/jhoicas/Puntoventa-api/internal/domain"
	"github.com/jhoicas/Puntoventa-api/internal/domain/entity"
	"github.com/jhoicas/Puntoventa-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria con semántica transaccional: el TxRunner trabaja sobre una
// copia y solo la publica si el callback termina sin error, igual que un
// Commit/Rollback real.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	products  map[string]*entity.Product
	movements []*entity.StockMovement
}

func newMemStore() *memStore {
	return &memStore{products: make(map[string]*entity.Product)}
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	for id, p := range s.products {
		cp := *p
		c.products[id] = &cp
	}
	c.movements = append(c.movements, s.movements...)
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
	if existing, ok := r.s.products[p.ID]; ok {
		quantity := existing.Quantity
		cp := *p
		cp.Quantity = quantity
		r.s.products[p.ID] = &cp
	}
	return nil
}

func (r *memProductRepo) UpdateQuantity(_ context.Context, id string, quantity int64) error {
	if p, ok := r.s.products[id]; ok {
		p.Quantity = quantity
	}
	return nil
}

func (r *memProductRepo) List(_ context.Context, _ string, _, _ int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
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

func (r *memMovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		if f.MovementType != "" && m.MovementType != f.MovementType {
			continue
		}
		if f.From != nil && m.MovementDate.Before(*f.From) {
			continue
		}
		if f.To != nil && m.MovementDate.After(*f.To) {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].MovementDate.Equal(out[j].MovementDate) {
			return out[i].MovementDate.After(out[j].MovementDate)
		}
		return out[i].ID > out[j].ID
	})
	if f.Offset < len(out) {
		out = out[f.Offset:]
	} else {
		out = nil
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
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

type memTxRunner struct{ s *memStore }

func (t *memTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	tx := t.s.clone()
	if err := fn(&memMovementRepo{tx}, &memProductRepo{tx}); err != nil {
		return err // rollback: se descarta la copia
	}
	*t.s = *tx
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func newLedger(s *memStore) *inventory.LedgerUseCase {
	return inventory.NewLedgerUseCase(&memTxRunner{s}, &memMovementRepo{s})
}

func seedProduct(s *memStore, id string, quantity int64) {
	s.products[id] = &entity.Product{
		ID:       id,
		Name:     "Producto " + id,
		Price:    decimal.NewFromInt(10),
		Quantity: quantity,
	}
}

// sumMovements verifica el invariante del ledger: la cantidad del producto
// debe ser la suma de sus deltas.
func sumMovements(s *memStore, productID string) int64 {
	var sum int64
	for _, m := range s.movements {
		if m.ProductID == productID {
			sum += m.QuantityChange
		}
	}
	return sum
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests ApplyDelta
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyDelta_EntradaActualizaCantidadYRegistraMovimiento(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "p1", 10)
	ledger := newLedger(s)

	mov, err := ledger.ApplyDelta(context.Background(), inventory.ApplyDeltaInput{
		ProductID:    "p1",
		Delta:        5,
		MovementType: entity.MovementTypePurchase,
		Reference:    "Compra #abc",
		UserID:       "u1",
	})
	require.NoError(t, err)
	require.NotNil(t, mov)

	assert.Equal(t, int64(15), s.products["p1"].Quantity)
	assert.Equal(t, int64(5), mov.QuantityChange)
	assert.Equal(t, entity.MovementTypePurchase, mov.MovementType)
	assert.Equal(t, "Compra #abc", mov.Reference)
	assert.Equal(t, "u1", mov.CreatedBy)
	assert.Len(t, s.movements, 1)
}

func TestApplyDelta_SalidaDescuentaStock(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "p1", 10)
	ledger := newLedger(s)

	_, err := ledger.ApplyDelta(context.Background(), inventory.ApplyDeltaInput{
		ProductID:    "p1",
		Delta:        -4,
		MovementType: entity.MovementTypeSale,
		UserID:       "u1",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(6), s.products["p1"].Quantity)
}

func TestApplyDelta_StockInsuficiente_NoDejaRastro(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "p1", 3)
	ledger := newLedger(s)

	_, err := ledger.ApplyDelta(context.Background(), inventory.ApplyDeltaInput{
		ProductID:    "p1",
		Delta:        -5,
		MovementType: entity.MovementTypeSale,
		UserID:       "u1",
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// El fallo no debe dejar ni movimiento ni cambio de cantidad
	assert.Equal(t, int64(3), s.products["p1"].Quantity)
	assert.Empty(t, s.movements)
}

func TestApplyDelta_LlevarStockExactoACero(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "p1", 5)
	ledger := newLedger(s)

	_, err := ledger.ApplyDelta(context.Background(), inventory.ApplyDeltaInput{
		ProductID:    "p1",
		Delta:        -5,
		MovementType: entity.MovementTypeSale,
		UserID:       "u1",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), s.products["p1"].Quantity)
}

func TestApplyDelta_ProductoInexistente(t *testing.T) {
	s := newMemStore()
	ledger := newLedger(s)

	_, err := ledger.ApplyDelta(context.Background(), inventory.ApplyDeltaInput{
		ProductID:    "no-existe",
		Delta:        1,
		MovementType: entity.MovementTypeAdjustment,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplyDelta_EntradasInvalidas(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "p1", 10)
	ledger := newLedger(s)

	cases := []inventory.ApplyDeltaInput{
		{ProductID: "", Delta: 1, MovementType: entity.MovementTypeSale},
		{ProductID: "p1", Delta: 0, MovementType: entity.MovementTypeSale},
		{ProductID: "p1", Delta: 1, MovementType: "transferencia"},
	}
	for _, in := range cases {
		_, err := ledger.ApplyDelta(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	assert.Empty(t, s.movements)
}

// Dos ventas compiten por las últimas unidades: la primera gana, la segunda
// debe fallar sin dejar rastro y el invariante se mantiene.
func TestApplyDelta_VentasCompitenPorUltimasUnidades(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "p1", 5)
	ledger := newLedger(s)

	venta := inventory.ApplyDeltaInput{
		ProductID:    "p1",
		Delta:        -3,
		MovementType: entity.MovementTypeSale,
		UserID:       "u1",
	}
	_, err := ledger.ApplyDelta(context.Background(), venta)
	require.NoError(t, err)

	_, err = ledger.ApplyDelta(context.Background(), venta)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, int64(2), s.products["p1"].Quantity)
	assert.Len(t, s.movements, 1)
	assert.Equal(t, s.products["p1"].Quantity, int64(5)+sumMovements(s, "p1"),
		"la cantidad debe ser el inicial más la suma de los deltas")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AdjustQuantity
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjustQuantity_RegistraAjusteConNota(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "p1", 10)
	ledger := newLedger(s)

	err := ledger.AdjustQuantity(context.Background(), "p1", 4, "u1")
	require.NoError(t, err)

	assert.Equal(t, int64(4), s.products["p1"].Quantity)
	require.Len(t, s.movements, 1)
	mov := s.movements[0]
	assert.Equal(t, int64(-6), mov.QuantityChange)
	assert.Equal(t, entity.MovementTypeAdjustment, mov.MovementType)
	assert.Equal(t, "Ajuste manual: 10 -> 4", mov.Notes)
}

func TestAdjustQuantity_MismaCantidad_NoOp(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "p1", 10)
	ledger := newLedger(s)

	err := ledger.AdjustQuantity(context.Background(), "p1", 10, "u1")
	require.NoError(t, err)

	// Sin delta no hay movimiento: la operación es idempotente
	assert.Equal(t, int64(10), s.products["p1"].Quantity)
	assert.Empty(t, s.movements)
}

func TestAdjustQuantity_NegativaEsInvalida(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "p1", 10)
	ledger := newLedger(s)

	err := ledger.AdjustQuantity(context.Background(), "p1", -1, "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests History
// ──────────────────────────────────────────────────────────────────────────────

func TestHistory_OrdenaMasRecientePrimero(t *testing.T) {
	s := newMemStore()
	seedProduct(s, "p1", 100)
	ledger := newLedger(s)

	base := time.Now().Add(-time.Hour)
	s.movements = []*entity.StockMovement{
		{ID: "m1", ProductID: "p1", QuantityChange: 1, MovementType: entity.MovementTypePurchase, MovementDate: base},
		{ID: "m2", ProductID: "p1", QuantityChange: -1, MovementType: entity.MovementTypeSale, MovementDate: base.Add(time.Minute)},
		{ID: "m3", ProductID: "p1", QuantityChange: 2, MovementType: entity.MovementTypeAdjustment, MovementDate: base.Add(2 * time.Minute)},
	}

	got, err := ledger.History(context.Background(), repository.MovementFilter{ProductID: "p1"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "m3", got[0].ID)
	assert.Equal(t, "m2", got[1].ID)
	assert.Equal(t, "m1", got[2].ID)
}

func TestHistory_FiltraPorTipo(t *testing.T) {
	s := newMemStore()
	ledger := newLedger(s)

	now := time.Now()
	s.movements = []*entity.StockMovement{
		{ID: "m1", ProductID: "p1", MovementType: entity.MovementTypeSale, MovementDate: now},
		{ID: "m2", ProductID: "p1", MovementType: entity.MovementTypePurchase, MovementDate: now},
	}

	got, err := ledger.History(context.Background(), repository.MovementFilter{MovementType: entity.MovementTypeSale})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "m1", got[0].ID)
}

// Con fechas iguales el desempate es por id descendente: las páginas no deben
// duplicar ni perder movimientos entre sí.
func TestHistory_PaginasEstablesConFechasIguales(t *testing.T) {
	s := newMemStore()
	ledger := newLedger(s)

	now := time.Now()
	for _, id := range []string{"m1", "m2", "m3", "m4", "m5"} {
		s.movements = append(s.movements, &entity.StockMovement{
			ID:           id,
			ProductID:    "p1",
			MovementType: entity.MovementTypeSale,
			MovementDate: now, // misma fecha para las cinco
		})
	}

	var paginated []string
	for offset := 0; offset < 5; offset += 2 {
		page, err := ledger.History(context.Background(), repository.MovementFilter{
			ProductID: "p1",
			Limit:     2,
			Offset:    offset,
		})
		require.NoError(t, err)
		for _, m := range page {
			paginated = append(paginated, m.ID)
		}
	}

	// La unión de las páginas es exactamente el conjunto completo, en orden
	assert.Equal(t, []string{"m5", "m4", "m3", "m2", "m1"}, paginated)
}

func TestHistory_TipoInvalido(t *testing.T) {
	s := newMemStore()
	ledger := newLedger(s)

	_, err := ledger.History(context.Background(), repository.MovementFilter{MovementType: "traslado"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
