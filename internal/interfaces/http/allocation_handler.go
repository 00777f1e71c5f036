package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jdvalencia/fieldops-api/internal/application/dto"
	"github.com/jdvalencia/fieldops-api/internal/application/inventory"
)

// AllocationHandler maneja las peticiones HTTP de reservas de inventario (protegido).
type AllocationHandler struct {
	uc *inventory.AllocationUseCase
}

// NewAllocationHandler construye el handler.
func NewAllocationHandler(uc *inventory.AllocationUseCase) *AllocationHandler {
	return &AllocationHandler{uc: uc}
}

// Create godoc
// @Summary      Reservar stock para un trabajo o cotización
// @Description  Mueve cantidad de disponible a reservada sin tocar OnHand (no genera fila del ledger).
// @Tags         allocations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAllocationRequest  true  "item_id, quantity y exactamente uno de job_id/bid_id"
// @Success      201   {object}  dto.AllocationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/allocations [post]
func (h *AllocationHandler) Create(c *fiber.Ctx) error {
	orgID, userID, ok := requireAuth(c)
	if !ok {
		return nil
	}
	var in dto.CreateAllocationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	resp, err := h.uc.Create(c.Context(), orgID, userID, in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Issue godoc
// @Summary      Emitir el material reservado
// @Description  Genera la transacción issue por la cantidad reservada; solo desde allocated.
// @Tags         allocations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la reserva"
// @Success      200  {object}  dto.AllocationResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/allocations/{id}/issue [post]
func (h *AllocationHandler) Issue(c *fiber.Ctx) error {
	orgID, userID, ok := requireAuth(c)
	if !ok {
		return nil
	}
	resp, err := h.uc.Issue(c.Context(), orgID, userID, c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(resp)
}

// Return godoc
// @Summary      Devolver material emitido
// @Description  Genera la transacción return; la cantidad no puede exceder lo emitido no devuelto.
// @Tags         allocations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la reserva"
// @Param        body  body  dto.ReturnAllocationRequest  true  "quantity"
// @Success      200   {object}  dto.AllocationResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/allocations/{id}/return [post]
func (h *AllocationHandler) Return(c *fiber.Ctx) error {
	orgID, userID, ok := requireAuth(c)
	if !ok {
		return nil
	}
	var in dto.ReturnAllocationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	resp, err := h.uc.Return(c.Context(), orgID, userID, c.Params("id"), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(resp)
}

// Complete godoc
// @Summary      Cerrar la reserva como totalmente consumida
// @Tags         allocations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la reserva"
// @Success      200  {object}  dto.AllocationResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/allocations/{id}/complete [post]
func (h *AllocationHandler) Complete(c *fiber.Ctx) error {
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
// @Summary      Cancelar la reserva
// @Description  Libera la cantidad reservada; solo desde allocated (nunca después de emitir).
// @Tags         allocations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la reserva"
// @Success      200  {object}  dto.AllocationResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/allocations/{id}/cancel [post]
func (h *AllocationHandler) Cancel(c *fiber.Ctx) error {
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
// @Summary      Obtener reserva
// @Tags         allocations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la reserva"
// @Success      200  {object}  dto.AllocationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/allocations/{id} [get]
func (h *AllocationHandler) GetByID(c *fiber.Ctx) error {
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
// @Summary      Listar reservas por ítem o trabajo
// @Tags         allocations
// @Security     Bearer
// @Produce      json
// @Param        item_id  query  string  false  "filtrar por ítem"
// @Param        job_id   query  string  false  "filtrar por trabajo"
// @Param        limit    query  int     false  "máx 100, default 20"
// @Param        offset   query  int     false  "default 0"
// @Success      200  {array}   dto.AllocationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/allocations [get]
func (h *AllocationHandler) List(c *fiber.Ctx) error {
	orgID, _, ok := requireAuth(c)
	if !ok {
		return nil
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()

	itemID := c.Query("item_id")
	jobID := c.Query("job_id")

	var (
		list []*dto.AllocationResponse
		err  error
	)
	switch {
	case itemID != "":
		list, err = h.uc.ListByItem(c.Context(), orgID, itemID, page.Limit, page.Offset)
	case jobID != "":
		list, err = h.uc.ListByJob(c.Context(), orgID, jobID, page.Limit, page.Offset)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "se requiere item_id o job_id"})
	}
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "allocations": list})
}
