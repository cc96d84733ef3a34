package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ensambla/ems-api/internal/application/dto"
	"github.com/ensambla/ems-api/internal/application/inventory"
	"github.com/ensambla/ems-api/internal/domain"
)

// ComponentHandler alta de catálogo y consultas de existencias y libro de
// movimientos.
type ComponentHandler struct {
	uc      *inventory.StockQueryUseCase
	catalog *inventory.ComponentCatalogUseCase
}

// NewComponentHandler construye el handler.
func NewComponentHandler(uc *inventory.StockQueryUseCase, catalog *inventory.ComponentCatalogUseCase) *ComponentHandler {
	return &ComponentHandler{uc: uc, catalog: catalog}
}

// Create godoc
// @Summary      Crear componente
// @Tags         components
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateComponentRequest  true  "Datos del componente"
// @Success      201   {object}  dto.ComponentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/components [post]
func (h *ComponentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateComponentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.PartNumber == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "part_number es requerido"})
	}
	out, err := h.catalog.Create(c.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicate):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el part number ya existe en el catálogo"})
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(toComponentResponse(out))
}

// List godoc
// @Summary      Listar componentes
// @Tags         components
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Máximo de resultados"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {array}  dto.ComponentResponse
// @Router       /api/components [get]
func (h *ComponentHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	items, err := h.uc.ListComponents(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.ComponentResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toComponentResponse(it))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener componente por ID
// @Tags         components
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del componente"
// @Success      200  {object}  dto.ComponentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/components/{id} [get]
func (h *ComponentHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.GetComponent(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "componente no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(toComponentResponse(out))
}

// ListMovements godoc
// @Summary      Libro de movimientos de un componente
// @Tags         components
// @Security     Bearer
// @Produce      json
// @Param        id     path   string  true   "ID del componente"
// @Param        from   query  string  false  "Fecha inicial (RFC3339)"
// @Param        to     query  string  false  "Fecha final (RFC3339)"
// @Param        limit  query  int     false  "Máximo de resultados"
// @Param        offset query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/components/{id}/movements [get]
func (h *ComponentHandler) ListMovements(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	from, err := parseDateQuery(c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "from debe ser RFC3339"})
	}
	to, err := parseDateQuery(c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "to debe ser RFC3339"})
	}
	items, err := h.uc.ListMovements(c.Context(), id, from, to, page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.MovementResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toMovementResponse(it))
	}
	return c.JSON(out)
}

// Reconcile godoc
// @Summary      Reconciliar existencia contra el libro
// @Tags         components
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del componente"
// @Success      200  {object}  dto.ReconciliationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/components/{id}/reconcile [get]
func (h *ComponentHandler) Reconcile(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.Reconcile(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "componente no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

func parseDateQuery(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
