package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jdvalencia/fieldops-api/internal/application/dto"
	"github.com/jdvalencia/fieldops-api/internal/application/inventory"
)

// PurchaseOrderHandler maneja las peticiones HTTP del workflow de órdenes de compra (protegido).
type PurchaseOrderHandler struct {
	uc    *inventory.PurchaseOrderUseCase
	pdfUC *inventory.PurchaseOrderPDFUseCase
}

// NewPurchaseOrderHandler construye el handler.
func NewPurchaseOrderHandler(uc *inventory.PurchaseOrderUseCase, pdfUC *inventory.PurchaseOrderPDFUseCase) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{uc: uc, pdfUC: pdfUC}
}

// Create godoc
// @Summary      Crear orden de compra (draft)
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseOrderRequest  true  "supplier_id y líneas"
// @Success      201   {object}  dto.PurchaseOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *fiber.Ctx) error {
	orgID, userID, ok := requireAuth(c)
	if !ok {
		return nil
	}
	var in dto.CreatePurchaseOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	resp, err := h.uc.Create(c.Context(), orgID, userID, in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Submit godoc
// @Summary      Enviar a aprobación (draft → pending_approval)
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/submit [post]
func (h *PurchaseOrderHandler) Submit(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Submit)
}

// Approve godoc
// @Summary      Aprobar la orden (pending_approval → approved)
// @Description  Compromete QuantityOnOrder de cada ítem. Falla si la orden no tiene líneas.
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/approve [post]
func (h *PurchaseOrderHandler) Approve(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Approve)
}

// Send godoc
// @Summary      Marcar como enviada al proveedor (approved → sent)
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/send [post]
func (h *PurchaseOrderHandler) Send(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Send)
}

// Receive godoc
// @Summary      Registrar recepción de mercancía
// @Description  Cada entrada es el delta recibido en esta llamada; genera transacciones receipt por
//
//	línea y recalcula el estado (partially_received / received).
//
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.ReceivePurchaseOrderRequest  true  "deltas por línea"
// @Success      200   {object}  dto.PurchaseOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/receive [post]
func (h *PurchaseOrderHandler) Receive(c *fiber.Ctx) error {
	orgID, userID, ok := requireAuth(c)
	if !ok {
		return nil
	}
	var in dto.ReceivePurchaseOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	resp, err := h.uc.Receive(c.Context(), orgID, userID, c.Params("id"), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(resp)
}

// Cancel godoc
// @Summary      Cancelar la orden
// @Description  Posible desde cualquier estado previo a received; libera el OnOrder del remanente.
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/cancel [post]
func (h *PurchaseOrderHandler) Cancel(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Cancel)
}

// Close godoc
// @Summary      Cerrar la orden (solo desde received o cancelled)
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/close [post]
func (h *PurchaseOrderHandler) Close(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Close)
}

// GetByID godoc
// @Summary      Obtener orden con sus líneas
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetByID(c *fiber.Ctx) error {
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
// @Summary      Listar órdenes de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "filtrar por estado"
// @Param        limit   query  int     false  "máx 100, default 20"
// @Param        offset  query  int     false  "default 0"
// @Success      200  {array}  dto.PurchaseOrderResponse
// @Router       /api/purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *fiber.Ctx) error {
	orgID, _, ok := requireAuth(c)
	if !ok {
		return nil
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	list, err := h.uc.List(c.Context(), orgID, c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "purchase_orders": list})
}

// GetPDF godoc
// @Summary      PDF de la orden para el proveedor
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {file}    byte
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/pdf [get]
func (h *PurchaseOrderHandler) GetPDF(c *fiber.Ctx) error {
	orgID, _, ok := requireAuth(c)
	if !ok {
		return nil
	}
	pdfBytes, err := h.pdfUC.Generate(c.Context(), orgID, c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="orden-compra.pdf"`)
	return c.Send(pdfBytes)
}

// transition factoriza los endpoints de transición de estado (submit,
// approve, send, cancel, close): mismo parseo y mismo mapeo de errores.
func (h *PurchaseOrderHandler) transition(
	c *fiber.Ctx,
	fn func(ctx context.Context, orgID, userID, poID string) (*dto.PurchaseOrderResponse, error),
) error {
	orgID, userID, ok := requireAuth(c)
	if !ok {
		return nil
	}
	resp, err := fn(c.Context(), orgID, userID, c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(resp)
}
