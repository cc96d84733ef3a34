package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/ensambla/ems-api/internal/domain"
	"github.com/ensambla/ems-api/internal/domain/entity"
	"github.com/ensambla/ems-api/internal/domain/repository"
)

var _ repository.BomRepository = (*BomRepo)(nil)

// BomRepo implementación de BomRepository sobre PostgreSQL (usable con pool o tx).
// El núcleo solo estampa allocated/actual_cost por línea y el estado del BOM.
type BomRepo struct {
	q Querier
}

// NewBomRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBomRepository(q Querier) *BomRepo {
	return &BomRepo{q: q}
}

// GetByID obtiene un BOM por ID.
func (r *BomRepo) GetByID(id string) (*entity.Bom, error) {
	query := `SELECT id, project_id, name, revision, status, created_at, updated_at FROM boms WHERE id = $1`
	var b entity.Bom
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&b.ID, &b.ProjectID, &b.Name, &b.Revision, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bom: %w", err)
	}
	return &b, nil
}

// ListLines devuelve las líneas en el orden almacenado.
func (r *BomRepo) ListLines(bomID string) ([]*entity.BomLine, error) {
	query := `
		SELECT id, bom_id, component_id, reference, part_number, qty_per_board, allocated, actual_cost, position
		FROM bom_lines WHERE bom_id = $1 ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, bomID)
	if err != nil {
		return nil, fmt.Errorf("list bom lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.BomLine
	for rows.Next() {
		var l entity.BomLine
		if err := rows.Scan(&l.ID, &l.BomID, &l.ComponentID, &l.Reference, &l.PartNumber,
			&l.QtyPerBoard, &l.Allocated, &l.ActualCost, &l.Position); err != nil {
			return nil, fmt.Errorf("scan bom line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// UpdateLineAllocation estampa allocated y el costo real de una línea.
func (r *BomRepo) UpdateLineAllocation(lineID string, allocated bool, actualCost decimal.Decimal) error {
	query := `UPDATE bom_lines SET allocated = $2, actual_cost = $3 WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, lineID, allocated, actualCost)
	if err != nil {
		return fmt.Errorf("update bom line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatus actualiza el estado de asignación del BOM.
func (r *BomRepo) UpdateStatus(bomID string, status string) error {
	query := `UPDATE boms SET status = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, bomID, status)
	if err != nil {
		return fmt.Errorf("update bom status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
