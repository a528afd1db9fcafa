package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestion-stock/internal/application/dto"
	"github.com/jhoicas/gestion-stock/internal/application/inventory"
	"github.com/jhoicas/gestion-stock/internal/application/usecase"
)

// InventoryHandler maneja movimientos, ventas y devoluciones (protegido).
type InventoryHandler struct {
	ledger  *inventory.LedgerUseCase
	history *usecase.HistoryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.LedgerUseCase, history *usecase.HistoryUseCase) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, history: history}
}

// ApplyMovements godoc
// @Summary      Aplicar lote de movimientos
// @Description  entry suma, exit y transfer restan. Todo o nada: si un producto no alcanza, no se aplica ninguno.
// @Description  Una salida con reason "Vente" genera una venta por línea.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MovementBatchRequest  true  "type, items, reason, customer, from/to_location"
// @Success      201   {object}  dto.MovementBatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.InsufficientStockResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *InventoryHandler) ApplyMovements(c *fiber.Ctx) error {
	var in dto.MovementBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.ledger.ApplyMovementBatchFromRequest(c.UserContext(), GetUserName(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Listar movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.history.ListMovements(c.UserContext(), c.Query("product_id"), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListSales godoc
// @Summary      Listar ventas
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {object}  dto.SaleListResponse
// @Router       /api/sales [get]
func (h *InventoryHandler) ListSales(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.history.ListSales(c.UserContext(), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RecordReturn godoc
// @Summary      Registrar devolución
// @Description  Repone stock y registra una entrada compensatoria. Lo devuelto no puede superar lo vendido.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordReturnRequest  true  "sale_id, quantity, reason"
// @Success      201   {object}  dto.ReturnResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/returns [post]
func (h *InventoryHandler) RecordReturn(c *fiber.Ctx) error {
	var in dto.RecordReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.ledger.RecordReturnFromRequest(c.UserContext(), GetUserName(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListReturns godoc
// @Summary      Listar devoluciones
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {object}  dto.ReturnListResponse
// @Router       /api/returns [get]
func (h *InventoryHandler) ListReturns(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.history.ListReturns(c.UserContext(), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
