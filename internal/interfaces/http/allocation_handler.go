package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/ensambla/ems-api/internal/application/allocation"
	"github.com/ensambla/ems-api/internal/application/dto"
	"github.com/ensambla/ems-api/internal/domain"
)

// AllocationHandler maneja las asignaciones proyecto-componente.
// Las fallas de negocio viajan con cifras: un rechazo por stock insuficiente
// responde 409 con requerido/disponible en details.
type AllocationHandler struct {
	uc    *allocation.AllocationUseCase
	query *allocation.AllocationQueryUseCase
}

// NewAllocationHandler construye el handler.
func NewAllocationHandler(uc *allocation.AllocationUseCase, query *allocation.AllocationQueryUseCase) *AllocationHandler {
	return &AllocationHandler{uc: uc, query: query}
}

// Allocate godoc
// @Summary      Reservar stock para un proyecto
// @Tags         allocations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AllocateRequest  true  "Reserva"
// @Success      201   {object}  dto.AllocationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/allocations [post]
func (h *AllocationHandler) Allocate(c *fiber.Ctx) error {
	var in dto.AllocateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProjectID == "" || in.ComponentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "project_id y component_id son requeridos"})
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity debe ser mayor a cero"})
	}
	var bomLineID *string
	if in.BomLineID != "" {
		bomLineID = &in.BomLineID
	}
	out, err := h.uc.Allocate(c.Context(), allocation.AllocateInput{
		ProjectID:       in.ProjectID,
		ComponentID:     in.ComponentID,
		Quantity:        in.Quantity,
		SourceInvoiceID: in.SourceInvoiceID,
		BomLineID:       bomLineID,
		UserID:          GetUserID(c),
	})
	if err != nil {
		return allocationError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toAllocationResponse(out))
}

// MarkUsed godoc
// @Summary      Marcar consumo de una asignación
// @Tags         allocations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la asignación"
// @Param        body  body  dto.QuantityRequest  true  "Cantidad consumida"
// @Success      200   {object}  dto.AllocationResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/allocations/{id}/use [post]
func (h *AllocationHandler) MarkUsed(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.QuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity debe ser mayor a cero"})
	}
	out, err := h.uc.MarkUsed(c.Context(), id, in.Quantity, GetUserID(c))
	if err != nil {
		return allocationError(c, err)
	}
	return c.JSON(toAllocationResponse(out))
}

// Return godoc
// @Summary      Devolver cantidad reservada al almacén
// @Tags         allocations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la asignación"
// @Param        body  body  dto.QuantityRequest  true  "Cantidad a devolver"
// @Success      200   {object}  dto.AllocationResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/allocations/{id}/return [post]
func (h *AllocationHandler) Return(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.QuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity debe ser mayor a cero"})
	}
	out, err := h.uc.Return(c.Context(), id, in.Quantity, GetUserID(c))
	if err != nil {
		return allocationError(c, err)
	}
	return c.JSON(toAllocationResponse(out))
}

// GetByID godoc
// @Summary      Obtener asignación por ID
// @Tags         allocations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la asignación"
// @Success      200  {object}  dto.AllocationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/allocations/{id} [get]
func (h *AllocationHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	out, err := h.query.GetAllocation(id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "asignación no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(toAllocationResponse(out))
}

// ListByProject godoc
// @Summary      Listar asignaciones de un proyecto
// @Tags         allocations
// @Security     Bearer
// @Produce      json
// @Param        project_id  query  string  true   "ID del proyecto"
// @Param        limit       query  int     false  "Máximo de resultados"
// @Param        offset      query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.AllocationResponse
// @Router       /api/allocations [get]
func (h *AllocationHandler) ListByProject(c *fiber.Ctx) error {
	projectID := c.Query("project_id")
	if projectID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "project_id es requerido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	items, err := h.query.ListByProject(projectID, page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.AllocationResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toAllocationResponse(it))
	}
	return c.JSON(out)
}

// allocationError mapea errores de dominio a códigos HTTP, con cifras en details.
func allocationError(c *fiber.Ctx, err error) error {
	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: stockErr.Error(),
			Details: map[string]string{
				"component_id": stockErr.ComponentID,
				"required":     stockErr.Required.String(),
				"available":    stockErr.Available.String(),
			},
		})
	}
	var allocErr *domain.InvalidAllocationError
	if errors.As(err, &allocErr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code:    "INVALID_ALLOCATION",
			Message: allocErr.Error(),
			Details: map[string]string{
				"allocation_id": allocErr.AllocationID,
				"requested":     allocErr.Requested.String(),
				"remaining":     allocErr.Remaining.String(),
				"status":        allocErr.Status,
			},
		})
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
