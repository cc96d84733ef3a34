package http

import (
	"github.com/ensambla/ems-api/internal/application/dto"
	"github.com/ensambla/ems-api/internal/domain/entity"
)

func toComponentResponse(c *entity.Component) dto.ComponentResponse {
	return dto.ComponentResponse{
		ID:          c.ID,
		PartNumber:  c.PartNumber,
		Name:        c.Name,
		Description: c.Description,
		Package:     c.Package,
		Quantity:    c.Quantity,
		UnitCost:    c.UnitCost,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toMovementResponse(m *entity.InventoryMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:             m.ID,
		TransactionID:  m.TransactionID,
		ComponentID:    m.ComponentID,
		Type:           m.Type,
		Quantity:       m.Quantity,
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter,
		UnitCost:       m.UnitCost,
		TotalCost:      m.TotalCost,
		ReferenceType:  m.ReferenceType,
		ReferenceID:    m.ReferenceID,
		Date:           m.Date,
		CreatedBy:      m.CreatedBy,
	}
}

func toAllocationResponse(a *entity.ProjectComponentAllocation) dto.AllocationResponse {
	return dto.AllocationResponse{
		ID:           a.ID,
		ProjectID:    a.ProjectID,
		ComponentID:  a.ComponentID,
		BomLineID:    a.BomLineID,
		QtyAllocated: a.QtyAllocated,
		QtyUsed:      a.QtyUsed,
		QtyRemaining: a.QtyRemaining,
		UnitCost:     a.UnitCost,
		TotalCost:    a.TotalCost,
		Status:       a.Status,
		AllocatedAt:  a.AllocatedAt,
		CompletedAt:  a.CompletedAt,
	}
}
