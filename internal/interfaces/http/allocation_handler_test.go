package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appalloc "github.com/ensambla/ems-api/internal/application/allocation"
	"github.com/ensambla/ems-api/internal/application/dto"
	"github.com/ensambla/ems-api/internal/domain/entity"
	"github.com/ensambla/ems-api/internal/domain/repository"
	apphttp "github.com/ensambla/ems-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes mínimos: un componente y un proyecto fijos, suficientes para recorrer
// el mapeo de errores del handler de asignaciones por el stack HTTP completo.
// ──────────────────────────────────────────────────────────────────────────────

type stubState struct {
	component   *entity.Component
	allocations map[string]*entity.ProjectComponentAllocation
}

type stubComponentRepo struct{ st *stubState }

func (r *stubComponentRepo) Create(*entity.Component) error { return nil }
func (r *stubComponentRepo) GetByID(id string) (*entity.Component, error) {
	if r.st.component != nil && r.st.component.ID == id {
		cp := *r.st.component
		return &cp, nil
	}
	return nil, nil
}
func (r *stubComponentRepo) GetByPartNumber(string) (*entity.Component, error) { return nil, nil }
func (r *stubComponentRepo) List(int, int) ([]*entity.Component, error)        { return nil, nil }
func (r *stubComponentRepo) GetForUpdate(id string) (*entity.Component, error) {
	return r.GetByID(id)
}
func (r *stubComponentRepo) UpdateStockAndCost(id string, quantity, unitCost decimal.Decimal) error {
	r.st.component.Quantity = quantity
	r.st.component.UnitCost = unitCost
	return nil
}

type stubMovementRepo struct{}

func (r *stubMovementRepo) Create(*entity.InventoryMovement) error { return nil }
func (r *stubMovementRepo) GetByID(string) (*entity.InventoryMovement, error) {
	return nil, nil
}
func (r *stubMovementRepo) ListByComponent(string, *time.Time, *time.Time, int, int) ([]*entity.InventoryMovement, error) {
	return nil, nil
}
func (r *stubMovementRepo) SumByComponent(string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type stubAllocationRepo struct{ st *stubState }

func (r *stubAllocationRepo) Create(a *entity.ProjectComponentAllocation) error {
	cp := *a
	r.st.allocations[a.ID] = &cp
	return nil
}
func (r *stubAllocationRepo) GetByID(id string) (*entity.ProjectComponentAllocation, error) {
	a, ok := r.st.allocations[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}
func (r *stubAllocationRepo) GetForUpdate(id string) (*entity.ProjectComponentAllocation, error) {
	return r.GetByID(id)
}
func (r *stubAllocationRepo) Update(a *entity.ProjectComponentAllocation) error {
	cp := *a
	r.st.allocations[a.ID] = &cp
	return nil
}
func (r *stubAllocationRepo) FindByProjectComponentLine(string, string, *string) (*entity.ProjectComponentAllocation, error) {
	return nil, nil
}
func (r *stubAllocationRepo) ListByProject(string, int, int) ([]*entity.ProjectComponentAllocation, error) {
	return nil, nil
}

type stubProjectRepo struct{}

func (r *stubProjectRepo) GetByID(id string) (*entity.Project, error) {
	if id == "proj-1" {
		return &entity.Project{ID: "proj-1", Name: "Test", BoardsOrdered: 1}, nil
	}
	return nil, nil
}
func (r *stubProjectRepo) Create(*entity.Project) error             { return nil }
func (r *stubProjectRepo) List(int, int) ([]*entity.Project, error) { return nil, nil }

type stubInvoiceRepo struct{}

func (r *stubInvoiceRepo) GetByID(string) (*entity.SupplierInvoice, error) { return nil, nil }
func (r *stubInvoiceRepo) GetLineUnitPrice(string, string) (*decimal.Decimal, error) {
	return nil, nil
}

type stubTxRunner struct{ st *stubState }

func (r *stubTxRunner) RunAllocation(_ context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	componentRepo repository.ComponentRepository,
	allocRepo repository.AllocationRepository,
) error) error {
	return fn(&stubMovementRepo{}, &stubComponentRepo{st: r.st}, &stubAllocationRepo{st: r.st})
}

// buildAllocationApp arma la app con el handler real y un componente con el
// stock indicado. Las rutas van sin middleware de auth: aquí se prueba el
// mapeo de errores, no la autenticación.
func buildAllocationApp(stock string) (*fiber.App, *stubState) {
	st := &stubState{
		component: &entity.Component{
			ID: "comp-1", PartNumber: "STM32F103C8T6",
			Quantity: decimal.RequireFromString(stock), UnitCost: decimal.RequireFromString("1.50"),
		},
		allocations: make(map[string]*entity.ProjectComponentAllocation),
	}
	uc := appalloc.NewAllocationUseCase(&stubTxRunner{st: st}, &stubProjectRepo{}, &stubInvoiceRepo{}, nil, nil)
	query := appalloc.NewAllocationQueryUseCase(&stubAllocationRepo{st: st})
	handler := apphttp.NewAllocationHandler(uc, query)

	app := fiber.New()
	app.Post("/api/allocations", handler.Allocate)
	app.Post("/api/allocations/:id/use", handler.MarkUsed)
	app.Post("/api/allocations/:id/return", handler.Return)
	return app, st
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	var out dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Mapeo de errores de dominio a HTTP
// ──────────────────────────────────────────────────────────────────────────────

// Stock insuficiente → 409 con requerido/disponible en details.
func TestAllocationHandler_StockInsuficiente409(t *testing.T) {
	app, _ := buildAllocationApp("10")

	resp := postJSON(t, app, "/api/allocations", dto.AllocateRequest{
		ProjectID: "proj-1", ComponentID: "comp-1", Quantity: decimal.RequireFromString("25"),
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decodeError(t, resp)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
	assert.Equal(t, "25", body.Details["required"])
	assert.Equal(t, "10", body.Details["available"])
	assert.Equal(t, "comp-1", body.Details["component_id"])
}

// Consumo mayor al remanente → 422 con cifras.
func TestAllocationHandler_OperacionInvalida422(t *testing.T) {
	app, _ := buildAllocationApp("100")

	resp := postJSON(t, app, "/api/allocations", dto.AllocateRequest{
		ProjectID: "proj-1", ComponentID: "comp-1", Quantity: decimal.RequireFromString("20"),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created dto.AllocationResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()

	resp = postJSON(t, app, "/api/allocations/"+created.ID+"/use", dto.QuantityRequest{
		Quantity: decimal.RequireFromString("21"),
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	body := decodeError(t, resp)
	assert.Equal(t, "INVALID_ALLOCATION", body.Code)
	assert.Equal(t, "21", body.Details["requested"])
	assert.Equal(t, "20", body.Details["remaining"])
}

// Recurso inexistente → 404; cantidad inválida → 400.
func TestAllocationHandler_NotFoundYValidacion(t *testing.T) {
	app, _ := buildAllocationApp("100")

	resp := postJSON(t, app, "/api/allocations/alloc-nope/return", dto.QuantityRequest{
		Quantity: decimal.RequireFromString("5"),
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, app, "/api/allocations", dto.AllocateRequest{
		ProjectID: "proj-1", ComponentID: "comp-1", Quantity: decimal.Zero,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
