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

var _ repository.ComponentRepository = (*ComponentRepo)(nil)

// ComponentRepo implementación de ComponentRepository sobre PostgreSQL (usable con pool o tx).
type ComponentRepo struct {
	q Querier
}

// NewComponentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewComponentRepository(q Querier) *ComponentRepo {
	return &ComponentRepo{q: q}
}

const componentColumns = `id, part_number, name, description, package, quantity, unit_cost, created_at, updated_at`

func scanComponent(row pgx.Row) (*entity.Component, error) {
	var c entity.Component
	err := row.Scan(
		&c.ID, &c.PartNumber, &c.Name, &c.Description, &c.Package,
		&c.Quantity, &c.UnitCost, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste un componente nuevo. Quantity y UnitCost inician en 0.
func (r *ComponentRepo) Create(component *entity.Component) error {
	query := `
		INSERT INTO components (` + componentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		component.ID, component.PartNumber, component.Name, component.Description,
		component.Package, component.Quantity, component.UnitCost,
		component.CreatedAt, component.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert component: %w", err)
	}
	return nil
}

// GetByID obtiene un componente por ID.
func (r *ComponentRepo) GetByID(id string) (*entity.Component, error) {
	query := `SELECT ` + componentColumns + ` FROM components WHERE id = $1`
	c, err := scanComponent(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get component: %w", err)
	}
	return c, nil
}

// GetByPartNumber obtiene un componente por referencia de fabricante.
func (r *ComponentRepo) GetByPartNumber(partNumber string) (*entity.Component, error) {
	query := `SELECT ` + componentColumns + ` FROM components WHERE part_number = $1`
	c, err := scanComponent(r.q.QueryRow(context.Background(), query, partNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get component by part number: %w", err)
	}
	return c, nil
}

// GetForUpdate obtiene el componente y bloquea la fila (SELECT FOR UPDATE).
// Toda verificación-y-mutación de existencia pasa por aquí dentro de una tx.
func (r *ComponentRepo) GetForUpdate(id string) (*entity.Component, error) {
	query := `SELECT ` + componentColumns + ` FROM components WHERE id = $1 FOR UPDATE`
	c, err := scanComponent(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get component for update: %w", err)
	}
	return c, nil
}

// List lista el catálogo paginado por part number.
func (r *ComponentRepo) List(limit, offset int) ([]*entity.Component, error) {
	query := `SELECT ` + componentColumns + ` FROM components ORDER BY part_number LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list components: %w", err)
	}
	defer rows.Close()
	var list []*entity.Component
	for rows.Next() {
		c, err := scanComponent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan component: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// UpdateStockAndCost actualiza existencia y costo promedio. Solo se invoca
// dentro de una transacción que ya bloqueó la fila con GetForUpdate.
func (r *ComponentRepo) UpdateStockAndCost(id string, quantity, unitCost decimal.Decimal) error {
	query := `UPDATE components SET quantity = $2, unit_cost = $3, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, quantity, unitCost)
	if err != nil {
		return fmt.Errorf("update component stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
