package allocation_test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	appalloc "github.com/ensambla/ems-api/internal/application/allocation"
	"github.com/ensambla/ems-api/internal/domain/entity"
	"github.com/ensambla/ems-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
//
// store guarda el estado compartido; fakeTxRunner serializa cada RunAllocation
// con un mutex, igual que SELECT FOR UPDATE serializa a los escritores sobre la
// misma fila en PostgreSQL. Los repos copian las entidades al leer y escribir
// para que ningún test mute el estado por referencia compartida.
// ──────────────────────────────────────────────────────────────────────────────

type store struct {
	mu          sync.Mutex
	components  map[string]*entity.Component
	movements   []*entity.InventoryMovement
	allocations map[string]*entity.ProjectComponentAllocation
	projects    map[string]*entity.Project
	boms        map[string]*entity.Bom
	bomLines    map[string][]*entity.BomLine // por bomID, en orden
	// precios por factura: invoiceID -> componentID -> precio
	invoicePrices map[string]map[string]decimal.Decimal
}

func newStore() *store {
	return &store{
		components:    make(map[string]*entity.Component),
		allocations:   make(map[string]*entity.ProjectComponentAllocation),
		projects:      make(map[string]*entity.Project),
		boms:          make(map[string]*entity.Bom),
		bomLines:      make(map[string][]*entity.BomLine),
		invoicePrices: make(map[string]map[string]decimal.Decimal),
	}
}

func copyComponent(c *entity.Component) *entity.Component {
	cp := *c
	return &cp
}

func copyAllocation(a *entity.ProjectComponentAllocation) *entity.ProjectComponentAllocation {
	cp := *a
	if a.BomLineID != nil {
		v := *a.BomLineID
		cp.BomLineID = &v
	}
	if a.CompletedAt != nil {
		t := *a.CompletedAt
		cp.CompletedAt = &t
	}
	return &cp
}

// fakeTxRunner serializa las transacciones con el mutex del store.
type fakeTxRunner struct {
	s *store
}

func (r *fakeTxRunner) RunAllocation(_ context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	componentRepo repository.ComponentRepository,
	allocRepo repository.AllocationRepository,
) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return fn(&fakeMovementRepo{s: r.s}, &fakeComponentRepo{s: r.s}, &fakeAllocationRepo{s: r.s})
}

// ── ComponentRepository ──────────────────────────────────────────────────────

type fakeComponentRepo struct{ s *store }

func (r *fakeComponentRepo) Create(c *entity.Component) error {
	r.s.components[c.ID] = copyComponent(c)
	return nil
}

func (r *fakeComponentRepo) GetByID(id string) (*entity.Component, error) {
	c, ok := r.s.components[id]
	if !ok {
		return nil, nil
	}
	return copyComponent(c), nil
}

func (r *fakeComponentRepo) GetByPartNumber(pn string) (*entity.Component, error) {
	for _, c := range r.s.components {
		if c.PartNumber == pn {
			return copyComponent(c), nil
		}
	}
	return nil, nil
}

func (r *fakeComponentRepo) List(limit, offset int) ([]*entity.Component, error) {
	out := make([]*entity.Component, 0, len(r.s.components))
	for _, c := range r.s.components {
		out = append(out, copyComponent(c))
	}
	return out, nil
}

func (r *fakeComponentRepo) GetForUpdate(id string) (*entity.Component, error) {
	return r.GetByID(id)
}

func (r *fakeComponentRepo) UpdateStockAndCost(id string, quantity, unitCost decimal.Decimal) error {
	c, ok := r.s.components[id]
	if !ok {
		return nil
	}
	c.Quantity = quantity
	c.UnitCost = unitCost
	c.UpdatedAt = time.Now()
	return nil
}

// ── InventoryMovementRepository ──────────────────────────────────────────────

type fakeMovementRepo struct{ s *store }

func (r *fakeMovementRepo) Create(m *entity.InventoryMovement) error {
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *fakeMovementRepo) GetByID(id string) (*entity.InventoryMovement, error) {
	for _, m := range r.s.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeMovementRepo) ListByComponent(componentID string, from, to *time.Time, limit, offset int) ([]*entity.InventoryMovement, error) {
	var out []*entity.InventoryMovement
	for _, m := range r.s.movements {
		if m.ComponentID == componentID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) SumByComponent(componentID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, m := range r.s.movements {
		if m.ComponentID == componentID {
			sum = sum.Add(m.Quantity)
		}
	}
	return sum, nil
}

// ── AllocationRepository ─────────────────────────────────────────────────────

type fakeAllocationRepo struct{ s *store }

func (r *fakeAllocationRepo) Create(a *entity.ProjectComponentAllocation) error {
	r.s.allocations[a.ID] = copyAllocation(a)
	return nil
}

func (r *fakeAllocationRepo) GetByID(id string) (*entity.ProjectComponentAllocation, error) {
	a, ok := r.s.allocations[id]
	if !ok {
		return nil, nil
	}
	return copyAllocation(a), nil
}

func (r *fakeAllocationRepo) GetForUpdate(id string) (*entity.ProjectComponentAllocation, error) {
	return r.GetByID(id)
}

func (r *fakeAllocationRepo) Update(a *entity.ProjectComponentAllocation) error {
	r.s.allocations[a.ID] = copyAllocation(a)
	return nil
}

func (r *fakeAllocationRepo) FindByProjectComponentLine(projectID, componentID string, bomLineID *string) (*entity.ProjectComponentAllocation, error) {
	for _, a := range r.s.allocations {
		if a.ProjectID != projectID || a.ComponentID != componentID {
			continue
		}
		if bomLineID == nil && a.BomLineID == nil {
			return copyAllocation(a), nil
		}
		if bomLineID != nil && a.BomLineID != nil && *bomLineID == *a.BomLineID {
			return copyAllocation(a), nil
		}
	}
	return nil, nil
}

func (r *fakeAllocationRepo) ListByProject(projectID string, limit, offset int) ([]*entity.ProjectComponentAllocation, error) {
	var out []*entity.ProjectComponentAllocation
	for _, a := range r.s.allocations {
		if a.ProjectID == projectID {
			out = append(out, copyAllocation(a))
		}
	}
	return out, nil
}

// ── ProjectRepository ────────────────────────────────────────────────────────

type fakeProjectRepo struct{ s *store }

func (r *fakeProjectRepo) GetByID(id string) (*entity.Project, error) {
	p, ok := r.s.projects[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProjectRepo) Create(p *entity.Project) error {
	cp := *p
	r.s.projects[p.ID] = &cp
	return nil
}

func (r *fakeProjectRepo) List(limit, offset int) ([]*entity.Project, error) {
	var out []*entity.Project
	for _, p := range r.s.projects {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

// ── SupplierInvoiceRepository ────────────────────────────────────────────────

type fakeInvoiceRepo struct{ s *store }

func (r *fakeInvoiceRepo) GetByID(id string) (*entity.SupplierInvoice, error) {
	return nil, nil
}

func (r *fakeInvoiceRepo) GetLineUnitPrice(invoiceID, componentID string) (*decimal.Decimal, error) {
	lines, ok := r.s.invoicePrices[invoiceID]
	if !ok {
		return nil, nil
	}
	price, ok := lines[componentID]
	if !ok {
		return nil, nil
	}
	return &price, nil
}

// ── BomRepository ────────────────────────────────────────────────────────────

type fakeBomRepo struct{ s *store }

func (r *fakeBomRepo) GetByID(id string) (*entity.Bom, error) {
	b, ok := r.s.boms[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBomRepo) ListLines(bomID string) ([]*entity.BomLine, error) {
	var out []*entity.BomLine
	for _, l := range r.s.bomLines[bomID] {
		cp := *l
		if l.ComponentID != nil {
			v := *l.ComponentID
			cp.ComponentID = &v
		}
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeBomRepo) UpdateLineAllocation(lineID string, allocated bool, actualCost decimal.Decimal) error {
	for _, lines := range r.s.bomLines {
		for _, l := range lines {
			if l.ID == lineID {
				l.Allocated = allocated
				l.ActualCost = actualCost
				return nil
			}
		}
	}
	return nil
}

func (r *fakeBomRepo) UpdateStatus(bomID, status string) error {
	if b, ok := r.s.boms[bomID]; ok {
		b.Status = status
	}
	return nil
}

// ── SnapshotPublisher ────────────────────────────────────────────────────────

type fakePublisher struct {
	mu        sync.Mutex
	published []appalloc.StockSnapshot
}

func (p *fakePublisher) Publish(s appalloc.StockSnapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, s)
	return nil
}

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}
