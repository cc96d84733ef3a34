package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ensambla/ems-api/internal/application/dto"
	appinv "github.com/ensambla/ems-api/internal/application/inventory"
	"github.com/ensambla/ems-api/internal/domain"
	"github.com/ensambla/ems-api/internal/domain/entity"
	"github.com/ensambla/ems-api/internal/domain/repository"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria: un store compartido y un TxRunner que serializa cada Run
// con un mutex, como FOR UPDATE serializa a los escritores en la BD.
// ──────────────────────────────────────────────────────────────────────────────

type invStore struct {
	mu         sync.Mutex
	components map[string]*entity.Component
	movements  []*entity.InventoryMovement
}

func newInvStore() *invStore {
	return &invStore{components: make(map[string]*entity.Component)}
}

type invTxRunner struct{ s *invStore }

func (r *invTxRunner) Run(_ context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	componentRepo repository.ComponentRepository,
) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return fn(&invMovementRepo{s: r.s}, &invComponentRepo{s: r.s})
}

type invComponentRepo struct{ s *invStore }

func (r *invComponentRepo) Create(c *entity.Component) error {
	cp := *c
	r.s.components[c.ID] = &cp
	return nil
}

func (r *invComponentRepo) GetByID(id string) (*entity.Component, error) {
	c, ok := r.s.components[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *invComponentRepo) GetByPartNumber(pn string) (*entity.Component, error) {
	for _, c := range r.s.components {
		if c.PartNumber == pn {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *invComponentRepo) List(limit, offset int) ([]*entity.Component, error) {
	var out []*entity.Component
	for _, c := range r.s.components {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r *invComponentRepo) GetForUpdate(id string) (*entity.Component, error) {
	return r.GetByID(id)
}

func (r *invComponentRepo) UpdateStockAndCost(id string, quantity, unitCost decimal.Decimal) error {
	if c, ok := r.s.components[id]; ok {
		c.Quantity = quantity
		c.UnitCost = unitCost
		c.UpdatedAt = time.Now()
	}
	return nil
}

type invMovementRepo struct{ s *invStore }

func (r *invMovementRepo) Create(m *entity.InventoryMovement) error {
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *invMovementRepo) GetByID(id string) (*entity.InventoryMovement, error) {
	for _, m := range r.s.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *invMovementRepo) ListByComponent(componentID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	for _, m := range r.s.movements {
		if m.ComponentID == componentID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *invMovementRepo) SumByComponent(componentID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, m := range r.s.movements {
		if m.ComponentID == componentID {
			sum = sum.Add(m.Quantity)
		}
	}
	return sum, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// RegisterReceipt
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterReceipt_RecalculaPromedioPonderado(t *testing.T) {
	s := newInvStore()
	s.components["comp-1"] = &entity.Component{
		ID: "comp-1", PartNumber: "GRM155R71C104KA88D", Name: "Cap 100nF",
		Quantity: d("10"), UnitCost: d("2.00"),
	}
	uc := appinv.NewRegisterReceiptUseCase(&invTxRunner{s: s}, &invComponentRepo{s: s})

	got, err := uc.RegisterReceipt(context.Background(), appinv.ReceiptInputDTO{
		UserID:      "user-1",
		ComponentID: "comp-1",
		Quantity:    d("5"),
		UnitPrice:   d("5.00"),
	})
	require.NoError(t, err)

	// 10 a 2.00 + 5 a 5.00 = 45.00 / 15 = 3.00
	assert.True(t, d("15").Equal(got.Quantity))
	assert.True(t, d("3.00").Equal(got.UnitCost), "promedio ponderado esperado 3.00, obtuvo %s", got.UnitCost)

	require.Len(t, s.movements, 1)
	mov := s.movements[0]
	assert.Equal(t, entity.MovementTypeIn, mov.Type)
	assert.True(t, d("5").Equal(mov.Quantity))
	assert.True(t, d("10").Equal(mov.QuantityBefore))
	assert.True(t, d("15").Equal(mov.QuantityAfter))
	assert.True(t, d("5.00").Equal(mov.UnitCost), "el movimiento guarda el precio de la recepción, no el promedio")
	assert.True(t, d("25.00").Equal(mov.TotalCost))
	assert.NotEmpty(t, mov.TransactionID)
}

// Primera recepción de un part number nuevo: el componente se crea dentro de
// la misma transacción y adopta el precio entrante como costo.
func TestRegisterReceipt_AltaEnPrimeraRecepcion(t *testing.T) {
	s := newInvStore()
	uc := appinv.NewRegisterReceiptUseCase(&invTxRunner{s: s}, &invComponentRepo{s: s})

	got, err := uc.RegisterReceipt(context.Background(), appinv.ReceiptInputDTO{
		UserID:    "user-1",
		Quantity:  d("1000"),
		UnitPrice: d("0.012"),
		NewComponent: &dto.NewComponentDTO{
			PartNumber: "RC0402FR-0710KL",
			Name:       "Resistencia 10k 0402",
			Package:    "0402",
		},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "RC0402FR-0710KL", got.PartNumber)
	assert.True(t, d("1000").Equal(got.Quantity))
	assert.True(t, d("0.012").Equal(got.UnitCost), "sin stock previo el costo es el precio entrante")

	require.Len(t, s.movements, 1)
	assert.True(t, d("0").Equal(s.movements[0].QuantityBefore), "el movimiento parte de existencia cero")
}

// Si el part number ya existe, la recepción con new_component no duplica el
// catálogo: acumula sobre el componente existente.
func TestRegisterReceipt_PartNumberExistenteNoDuplica(t *testing.T) {
	s := newInvStore()
	s.components["comp-1"] = &entity.Component{
		ID: "comp-1", PartNumber: "RC0402FR-0710KL", Name: "Resistencia 10k",
		Quantity: d("100"), UnitCost: d("0.01"),
	}
	uc := appinv.NewRegisterReceiptUseCase(&invTxRunner{s: s}, &invComponentRepo{s: s})

	got, err := uc.RegisterReceipt(context.Background(), appinv.ReceiptInputDTO{
		Quantity:     d("100"),
		UnitPrice:    d("0.03"),
		NewComponent: &dto.NewComponentDTO{PartNumber: "RC0402FR-0710KL"},
	})
	require.NoError(t, err)

	assert.Equal(t, "comp-1", got.ID, "debe acumular sobre el componente existente")
	assert.True(t, d("200").Equal(got.Quantity))
	assert.True(t, d("0.02").Equal(got.UnitCost))
	assert.Len(t, s.components, 1)
}

func TestRegisterReceipt_EntradasInvalidas(t *testing.T) {
	s := newInvStore()
	uc := appinv.NewRegisterReceiptUseCase(&invTxRunner{s: s}, &invComponentRepo{s: s})

	cases := []struct {
		name  string
		input appinv.ReceiptInputDTO
	}{
		{"cantidad cero", appinv.ReceiptInputDTO{ComponentID: "comp-1", Quantity: decimal.Zero, UnitPrice: d("1")}},
		{"cantidad negativa", appinv.ReceiptInputDTO{ComponentID: "comp-1", Quantity: d("-5"), UnitPrice: d("1")}},
		{"precio negativo", appinv.ReceiptInputDTO{ComponentID: "comp-1", Quantity: d("5"), UnitPrice: d("-1")}},
		{"sin componente ni catálogo", appinv.ReceiptInputDTO{Quantity: d("5"), UnitPrice: d("1")}},
		{"referencia desconocida", appinv.ReceiptInputDTO{ComponentID: "comp-1", Quantity: d("5"), UnitPrice: d("1"), ReferenceType: "pedido"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.RegisterReceipt(context.Background(), tc.input)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Empty(t, s.movements, "una entrada inválida no debe escribir en el libro")
		})
	}
}

func TestRegisterReceipt_ComponenteInexistente(t *testing.T) {
	s := newInvStore()
	uc := appinv.NewRegisterReceiptUseCase(&invTxRunner{s: s}, &invComponentRepo{s: s})

	_, err := uc.RegisterReceipt(context.Background(), appinv.ReceiptInputDTO{
		ComponentID: "comp-nope",
		Quantity:    d("5"),
		UnitPrice:   d("1.00"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo
// ──────────────────────────────────────────────────────────────────────────────

func TestCatalogCreate_AltaYDuplicado(t *testing.T) {
	s := newInvStore()
	uc := appinv.NewComponentCatalogUseCase(&invComponentRepo{s: s})

	got, err := uc.Create(context.Background(), dto.CreateComponentRequest{
		PartNumber: "GRM155R71C104KA88D",
		Name:       "Cap 100nF 0402",
		Package:    "0402",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.True(t, got.Quantity.IsZero(), "el componente nace sin existencia")
	assert.True(t, got.UnitCost.IsZero(), "el componente nace sin costo")

	_, err = uc.Create(context.Background(), dto.CreateComponentRequest{
		PartNumber: "GRM155R71C104KA88D",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate, "el part number es único en el catálogo")

	_, err = uc.Create(context.Background(), dto.CreateComponentRequest{PartNumber: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reconcile
// ──────────────────────────────────────────────────────────────────────────────

func TestReconcile_LedgerCuadraConExistencia(t *testing.T) {
	s := newInvStore()
	uc := appinv.NewRegisterReceiptUseCase(&invTxRunner{s: s}, &invComponentRepo{s: s})
	query := appinv.NewStockQueryUseCase(&invComponentRepo{s: s}, &invMovementRepo{s: s})

	got, err := uc.RegisterReceipt(context.Background(), appinv.ReceiptInputDTO{
		Quantity:     d("50"),
		UnitPrice:    d("1.00"),
		NewComponent: &dto.NewComponentDTO{PartNumber: "USB4105-GF-A", Name: "Conector USB-C"},
	})
	require.NoError(t, err)
	_, err = uc.RegisterReceipt(context.Background(), appinv.ReceiptInputDTO{
		ComponentID: got.ID,
		Quantity:    d("25"),
		UnitPrice:   d("1.20"),
	})
	require.NoError(t, err)

	rec, err := query.Reconcile(context.Background(), got.ID)
	require.NoError(t, err)
	assert.True(t, rec.Reconciled, "la suma del libro debe cuadrar con la existencia")
	assert.True(t, d("75").Equal(rec.OnHand))
	assert.True(t, d("75").Equal(rec.LedgerSum))
	assert.True(t, rec.Difference.IsZero())
}

func TestReconcile_DetectaDescuadre(t *testing.T) {
	s := newInvStore()
	// Existencia tocada por fuera del libro (dato corrupto).
	s.components["comp-1"] = &entity.Component{
		ID: "comp-1", PartNumber: "X", Quantity: d("10"), UnitCost: d("1"),
	}
	query := appinv.NewStockQueryUseCase(&invComponentRepo{s: s}, &invMovementRepo{s: s})

	rec, err := query.Reconcile(context.Background(), "comp-1")
	require.NoError(t, err)
	assert.False(t, rec.Reconciled)
	assert.True(t, d("10").Equal(rec.Difference))
}
