package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ensambla/ems-api/internal/domain/entity"
	"github.com/ensambla/ems-api/internal/domain/repository"
)

var _ repository.AllocationRepository = (*AllocationRepo)(nil)

// AllocationRepo implementación de AllocationRepository sobre PostgreSQL (usable con pool o tx).
type AllocationRepo struct {
	q Querier
}

// NewAllocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAllocationRepository(q Querier) *AllocationRepo {
	return &AllocationRepo{q: q}
}

const allocationColumns = `id, project_id, component_id, bom_line_id, qty_allocated, qty_used, qty_remaining, unit_cost, total_cost, status, allocated_at, completed_at, created_by`

func scanAllocation(row pgx.Row) (*entity.ProjectComponentAllocation, error) {
	var a entity.ProjectComponentAllocation
	var createdBy *string
	err := row.Scan(
		&a.ID, &a.ProjectID, &a.ComponentID, &a.BomLineID,
		&a.QtyAllocated, &a.QtyUsed, &a.QtyRemaining,
		&a.UnitCost, &a.TotalCost, &a.Status,
		&a.AllocatedAt, &a.CompletedAt, &createdBy,
	)
	if err != nil {
		return nil, err
	}
	if createdBy != nil {
		a.CreatedBy = *createdBy
	}
	return &a, nil
}

// Create persiste una asignación nueva.
func (r *AllocationRepo) Create(alloc *entity.ProjectComponentAllocation) error {
	query := `
		INSERT INTO project_component_allocations (` + allocationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	createdBy := (*string)(nil)
	if alloc.CreatedBy != "" {
		createdBy = &alloc.CreatedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		alloc.ID, alloc.ProjectID, alloc.ComponentID, alloc.BomLineID,
		alloc.QtyAllocated, alloc.QtyUsed, alloc.QtyRemaining,
		alloc.UnitCost, alloc.TotalCost, alloc.Status,
		alloc.AllocatedAt, alloc.CompletedAt, createdBy,
	)
	if err != nil {
		return fmt.Errorf("insert allocation: %w", err)
	}
	return nil
}

// GetByID obtiene una asignación por ID.
func (r *AllocationRepo) GetByID(id string) (*entity.ProjectComponentAllocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM project_component_allocations WHERE id = $1`
	a, err := scanAllocation(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get allocation: %w", err)
	}
	return a, nil
}

// GetForUpdate obtiene la asignación y bloquea la fila (SELECT FOR UPDATE).
func (r *AllocationRepo) GetForUpdate(id string) (*entity.ProjectComponentAllocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM project_component_allocations WHERE id = $1 FOR UPDATE`
	a, err := scanAllocation(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get allocation for update: %w", err)
	}
	return a, nil
}

// Update persiste cantidades, costo total, estado y fecha de cierre.
func (r *AllocationRepo) Update(alloc *entity.ProjectComponentAllocation) error {
	query := `
		UPDATE project_component_allocations
		SET qty_allocated = $2, qty_used = $3, qty_remaining = $4,
		    total_cost = $5, status = $6, completed_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		alloc.ID, alloc.QtyAllocated, alloc.QtyUsed, alloc.QtyRemaining,
		alloc.TotalCost, alloc.Status, alloc.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("update allocation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update allocation %s: no existe", alloc.ID)
	}
	return nil
}

// FindByProjectComponentLine busca la asignación exacta proyecto+componente+línea.
// bom_line_id nil solo matchea asignaciones manuales (sin línea).
func (r *AllocationRepo) FindByProjectComponentLine(projectID, componentID string, bomLineID *string) (*entity.ProjectComponentAllocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM project_component_allocations
		WHERE project_id = $1 AND component_id = $2`
	args := []any{projectID, componentID}
	if bomLineID != nil {
		query += " AND bom_line_id = $3"
		args = append(args, *bomLineID)
	} else {
		query += " AND bom_line_id IS NULL"
	}
	query += " LIMIT 1"
	a, err := scanAllocation(r.q.QueryRow(context.Background(), query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find allocation: %w", err)
	}
	return a, nil
}

// ListByProject lista asignaciones de un proyecto, más reciente primero.
func (r *AllocationRepo) ListByProject(projectID string, limit, offset int) ([]*entity.ProjectComponentAllocation, error) {
	query := `SELECT ` + allocationColumns + ` FROM project_component_allocations
		WHERE project_id = $1 ORDER BY allocated_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, projectID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list allocations: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProjectComponentAllocation
	for rows.Next() {
		a, err := scanAllocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
