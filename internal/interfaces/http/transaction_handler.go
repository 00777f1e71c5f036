package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jdvalencia/fieldops-api/internal/application/dto"
	"github.com/jdvalencia/fieldops-api/internal/application/inventory"
)

// TransactionHandler maneja las peticiones HTTP del ledger de inventario (protegido).
type TransactionHandler struct {
	uc *inventory.LedgerUseCase
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(uc *inventory.LedgerUseCase) *TransactionHandler {
	return &TransactionHandler{uc: uc}
}

// Append godoc
// @Summary      Registrar transacción de inventario
// @Description  Añade una fila inmutable al ledger y actualiza la proyección del ítem de forma atómica.
//
//	Quantity es el delta firmado: entradas positivas, salidas negativas, adjustment con
//	signo explícito. Los traslados usan /transfers.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AppendTransactionRequest  true  "item_id, type, quantity (delta firmado)"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transactions [post]
func (h *TransactionHandler) Append(c *fiber.Ctx) error {
	orgID, userID, ok := requireAuth(c)
	if !ok {
		return nil
	}
	var in dto.AppendTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	resp, err := h.uc.Append(c.Context(), inventory.TransactionInput{
		OrganizationID:  orgID,
		ItemID:          in.ItemID,
		Type:            in.Type,
		Quantity:        in.Quantity,
		UnitCost:        in.UnitCost,
		PurchaseOrderID: in.PurchaseOrderID,
		JobID:           in.JobID,
		BidID:           in.BidID,
		Reference:       in.Reference,
		Notes:           in.Notes,
		PerformedBy:     userID,
	})
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Transfer godoc
// @Summary      Trasladar stock entre ubicaciones
// @Description  Un traslado es un solo evento lógico: dos filas enlazadas del ledger (salida y
//
//	entrada), ambas o ninguna. No cambia la cantidad total del ítem.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "item_id, from_location_id, to_location_id, quantity"
// @Success      201   {array}   dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers [post]
func (h *TransactionHandler) Transfer(c *fiber.Ctx) error {
	orgID, userID, ok := requireAuth(c)
	if !ok {
		return nil
	}
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	rows, err := h.uc.Transfer(c.Context(), orgID, userID, in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rows)
}

// ListByItem godoc
// @Summary      Historial de transacciones de un ítem
// @Description  Filas del ledger en orden de creación ascendente (la historia canónica).
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        itemId  path   string  true   "ID del ítem"
// @Param        limit   query  int     false  "máx 100, default 20"
// @Param        offset  query  int     false  "default 0"
// @Success      200  {array}   dto.TransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{itemId}/transactions [get]
func (h *TransactionHandler) ListByItem(c *fiber.Ctx) error {
	orgID, _, ok := requireAuth(c)
	if !ok {
		return nil
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	rows, err := h.uc.ListByItem(c.Context(), orgID, c.Params("itemId"), page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(rows), "transactions": rows})
}

// List godoc
// @Summary      Ledger de la organización
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        from    query  string  false  "RFC3339, inclusive"
// @Param        to      query  string  false  "RFC3339, exclusivo"
// @Param        limit   query  int     false  "máx 100, default 20"
// @Param        offset  query  int     false  "default 0"
// @Success      200  {array}  dto.TransactionResponse
// @Router       /api/inventory/transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	orgID, _, ok := requireAuth(c)
	if !ok {
		return nil
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()

	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return badBody(c)
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return badBody(c)
		}
		to = &t
	}

	rows, err := h.uc.ListByOrganization(c.Context(), orgID, from, to, page.Limit, page.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(rows), "transactions": rows})
}

// Reconcile godoc
// @Summary      Reconciliar proyección contra el ledger
// @Description  Reproduce la historia del ítem desde cero y la compara con la proyección cacheada.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        itemId  path  string  true  "ID del ítem"
// @Success      200  {object}  dto.ReconciliationReport
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{itemId}/reconcile [get]
func (h *TransactionHandler) Reconcile(c *fiber.Ctx) error {
	orgID, _, ok := requireAuth(c)
	if !ok {
		return nil
	}
	report, err := h.uc.Reconcile(c.Context(), orgID, c.Params("itemId"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(report)
}
