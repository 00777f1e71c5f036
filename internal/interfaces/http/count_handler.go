package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jdvalencia/fieldops-api/internal/application/dto"
	"github.com/jdvalencia/fieldops-api/internal/application/inventory"
)

// CountHandler maneja las peticiones HTTP de conteos físicos (protegido).
type CountHandler struct {
	uc *inventory.CountUseCase
}

// NewCountHandler construye el handler.
func NewCountHandler(uc *inventory.CountUseCase) *CountHandler {
	return &CountHandler{uc: uc}
}

// Start godoc
// @Summary      Iniciar conteo físico
// @Description  Toma el snapshot de cantidades de sistema de los ítems activos y queda in_progress.
// @Tags         counts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StartCountRequest  true  "count_type: full, cycle o spot"
// @Success      201   {object}  dto.CountResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/counts [post]
func (h *CountHandler) Start(c *fiber.Ctx) error {
	orgID, userID, ok := requireAuth(c)
	if !ok {
		return nil
	}
	var in dto.StartCountRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	resp, err := h.uc.Start(c.Context(), orgID, userID, in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Record godoc
// @Summary      Registrar cantidad contada de una línea
// @Tags         counts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id      path  string  true  "ID del conteo"
// @Param        itemId  path  string  true  "ID del ítem"
// @Param        body    body  dto.RecordCountRequest  true  "counted_quantity"
// @Success      200   {object}  dto.CountItemResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/counts/{id}/items/{itemId} [post]
func (h *CountHandler) Record(c *fiber.Ctx) error {
	orgID, userID, ok := requireAuth(c)
	if !ok {
		return nil
	}
	var in dto.RecordCountRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	resp, err := h.uc.Record(c.Context(), orgID, userID, c.Params("id"), c.Params("itemId"), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(resp)
}

// Complete godoc
// @Summary      Completar el conteo y aplicar ajustes
// @Description  Genera una transacción adjustment por cada línea contada con varianza distinta de cero.
// @Tags         counts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del conteo"
// @Success      200  {object}  dto.CompleteCountResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/counts/{id}/complete [post]
func (h *CountHandler) Complete(c *fiber.Ctx) error {
	orgID, userID, ok := requireAuth(c)
	if !ok {
		return nil
	}
	resp, err := h.uc.Complete(c.Context(), orgID, userID, c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(resp)
}

// Cancel godoc
// @Summary      Cancelar el conteo (sin ajustes)
// @Tags         counts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del conteo"
// @Success      200  {object}  dto.CountResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/counts/{id}/cancel [post]
func (h *CountHandler) Cancel(c *fiber.Ctx) error {
	orgID, userID, ok := requireAuth(c)
	if !ok {
		return nil
	}
	resp, err := h.uc.Cancel(c.Context(), orgID, userID, c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(resp)
}

// GetByID godoc
// @Summary      Obtener conteo con sus líneas
// @Tags         counts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del conteo"
// @Success      200  {object}  dto.CountResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/counts/{id} [get]
func (h *CountHandler) GetByID(c *fiber.Ctx) error {
	orgID, _, ok := requireAuth(c)
	if !ok {
		return nil
	}
	resp, err := h.uc.GetByID(c.Context(), orgID, c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(resp)
}

// List godoc
// @Summary      Listar conteos
// @Tags         counts
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máx 100, default 20"
// @Param        offset  query  int  false  "default 0"
// @Success      200  {array}  dto.CountResponse
// @Router       /api/counts [get]
func (h *CountHandler) List(c *fiber.Ctx) error {
	orgID, _, ok := requireAuth(c)
	if !ok {
		return nil
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	list, err := h.uc.List(c.Context(), orgID, page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "counts": list})
}
