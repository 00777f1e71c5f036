package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jdvalencia/fieldops-api/internal/application/dto"
	"github.com/jdvalencia/fieldops-api/internal/application/inventory"
)

// ItemHandler maneja las peticiones HTTP del registro de ítems (protegido).
type ItemHandler struct {
	uc            *inventory.ItemUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *inventory.ItemUseCase, replenishment *inventory.ReplenishmentUseCase) *ItemHandler {
	return &ItemHandler{uc: uc, replenishment: replenishment}
}

// Create godoc
// @Summary      Crear ítem de inventario
// @Description  Las cantidades inician en cero; initial_quantity (opcional) entra como transacción initial_stock.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "code, name, costos y política de reorden"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	orgID, userID, ok := requireAuth(c)
	if !ok {
		return nil
	}
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	resp, err := h.uc.Create(c.Context(), orgID, userID, in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Update godoc
// @Summary      Actualizar ítem (campos no-cuantitativos)
// @Description  Rechaza cualquier intento de escribir cantidades: esas solo cambian vía transacciones.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del ítem"
// @Param        body  body  dto.UpdateItemRequest  true  "campos a actualizar"
// @Success      200   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	orgID, _, ok := requireAuth(c)
	if !ok {
		return nil
	}
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	resp, err := h.uc.Update(c.Context(), orgID, c.Params("id"), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(resp)
}

// Delete godoc
// @Summary      Eliminar ítem (soft delete)
// @Description  Bloqueado si el ítem tiene reservas abiertas o líneas pendientes en órdenes vivas.
// @Tags         items
// @Security     Bearer
// @Param        id  path  string  true  "ID del ítem"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	orgID, _, ok := requireAuth(c)
	if !ok {
		return nil
	}
	if err := h.uc.SoftDelete(c.Context(), orgID, c.Params("id")); err != nil {
		return respondDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetByID godoc
// @Summary      Obtener ítem
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del ítem"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
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
// @Summary      Listar ítems
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máx 100, default 20"
// @Param        offset  query  int  false  "default 0"
// @Success      200  {array}  dto.ItemResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
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
	return c.JSON(fiber.Map{"total": len(list), "items": list})
}

// GetReplenishmentList godoc
// @Summary      Sugerencias de reposición
// @Description  SKUs en o bajo su punto de reorden cuyo suministro pendiente no cubre el déficit,
//
//	con la cantidad sugerida de pedido, ordenados por urgencia.
//
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ReplenishmentSuggestion
// @Router       /api/items/replenishment [get]
func (h *ItemHandler) GetReplenishmentList(c *fiber.Ctx) error {
	orgID, _, ok := requireAuth(c)
	if !ok {
		return nil
	}
	list, err := h.replenishment.Suggest(c.Context(), orgID)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "suggestions": list})
}
