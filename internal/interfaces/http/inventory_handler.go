package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/ensambla/ems-api/internal/application/dto"
	"github.com/ensambla/ems-api/internal/application/inventory"
	"github.com/ensambla/ems-api/internal/domain"
)

// InventoryHandler registra recepciones de componentes (movimientos IN).
type InventoryHandler struct {
	uc *inventory.RegisterReceiptUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.RegisterReceiptUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// RegisterReceipt godoc
// @Summary      Registrar recepción de componentes
// @Description  Entrada de almacén con recálculo del costo promedio ponderado.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterReceiptRequest  true  "Recepción"
// @Success      201   {object}  dto.ComponentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/receipts [post]
func (h *InventoryHandler) RegisterReceipt(c *fiber.Ctx) error {
	var in dto.RegisterReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity debe ser mayor a cero"})
	}
	if in.ComponentID == "" && in.NewComponent == nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "component_id o new_component son requeridos"})
	}
	out, err := h.uc.RegisterReceipt(c.Context(), inventory.ReceiptInputDTO{
		UserID:        GetUserID(c),
		ComponentID:   in.ComponentID,
		Quantity:      in.Quantity,
		UnitPrice:     in.UnitPrice,
		ReferenceType: in.ReferenceType,
		ReferenceID:   in.ReferenceID,
		NewComponent:  in.NewComponent,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		case errors.Is(err, domain.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "componente no encontrado"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(toComponentResponse(out))
}
