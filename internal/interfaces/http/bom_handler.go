package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ensambla/ems-api/internal/application/allocation"
	"github.com/ensambla/ems-api/internal/application/dto"
	"github.com/ensambla/ems-api/internal/domain"
)

// BomHandler orquesta la asignación y desasignación de BOMs completos.
// Una línea que falla no aborta el lote: la respuesta es siempre 200 con el
// reporte agregado (asignadas, saltadas, sin componente, sin stock, errores).
type BomHandler struct {
	uc *allocation.BomAllocationUseCase
}

// NewBomHandler construye el handler.
func NewBomHandler(uc *allocation.BomAllocationUseCase) *BomHandler {
	return &BomHandler{uc: uc}
}

// Allocate godoc
// @Summary      Asignar el BOM completo de un proyecto
// @Description  Recorre las líneas del BOM y reserva stock línea por línea.
// @Tags         boms
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true   "ID del BOM"
// @Param        body  body  dto.AllocateBomRequest  false  "Tableros a fabricar (0 = los del proyecto)"
// @Success      200   {object}  dto.BomAllocationResult
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/boms/{id}/allocate [post]
func (h *BomHandler) Allocate(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.AllocateBomRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	if in.Boards < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "boards no puede ser negativo"})
	}
	out, err := h.uc.AllocateBom(c.Context(), id, in.Boards, GetUserID(c))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "bom no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Deallocate godoc
// @Summary      Desasignar el BOM completo de un proyecto
// @Description  Devuelve al almacén lo que queda reservado en cada línea.
// @Tags         boms
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del BOM"
// @Success      200  {object}  dto.BomDeallocationResult
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/boms/{id}/deallocate [post]
func (h *BomHandler) Deallocate(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.DeallocateBom(c.Context(), id, GetUserID(c))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "bom no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
