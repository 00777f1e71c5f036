package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jdvalencia/fieldops-api/internal/application/dto"
	"github.com/jdvalencia/fieldops-api/internal/application/inventory"
)

// AlertHandler maneja las peticiones HTTP del monitor de alertas de stock (protegido).
type AlertHandler struct {
	uc *inventory.StockAlertUseCase
}

// NewAlertHandler construye el handler.
func NewAlertHandler(uc *inventory.StockAlertUseCase) *AlertHandler {
	return &AlertHandler{uc: uc}
}

// RunCheck godoc
// @Summary      Correr el monitor de alertas
// @Description  Evalúa los ítems activos y levanta alertas para las condiciones sin alerta abierta
//
//	del mismo tipo. Idempotente: correr dos veces no duplica.
//
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AlertCheckResponse
// @Router       /api/alerts/check [post]
func (h *AlertHandler) RunCheck(c *fiber.Ctx) error {
	orgID, _, ok := requireAuth(c)
	if !ok {
		return nil
	}
	resp, err := h.uc.RunCheck(c.Context(), orgID)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(resp)
}

// Acknowledge godoc
// @Summary      Reconocer una alerta
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la alerta"
// @Success      200  {object}  dto.AlertResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id}/acknowledge [post]
func (h *AlertHandler) Acknowledge(c *fiber.Ctx) error {
	orgID, userID, ok := requireAuth(c)
	if !ok {
		return nil
	}
	resp, err := h.uc.Acknowledge(c.Context(), orgID, userID, c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(resp)
}

// Resolve godoc
// @Summary      Resolver una alerta (terminal)
// @Tags         alerts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la alerta"
// @Param        body  body  dto.ResolveAlertRequest  false  "notas de resolución"
// @Success      200   {object}  dto.AlertResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/alerts/{id}/resolve [post]
func (h *AlertHandler) Resolve(c *fiber.Ctx) error {
	orgID, userID, ok := requireAuth(c)
	if !ok {
		return nil
	}
	var in dto.ResolveAlertRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	resp, err := h.uc.Resolve(c.Context(), orgID, userID, c.Params("id"), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(resp)
}

// ListOpen godoc
// @Summary      Listar alertas abiertas
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máx 100, default 20"
// @Param        offset  query  int  false  "default 0"
// @Success      200  {array}  dto.AlertResponse
// @Router       /api/alerts [get]
func (h *AlertHandler) ListOpen(c *fiber.Ctx) error {
	orgID, _, ok := requireAuth(c)
	if !ok {
		return nil
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	list, err := h.uc.ListOpen(c.Context(), orgID, page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "alerts": list})
}
