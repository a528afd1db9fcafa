package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestion-stock/internal/application/dto"
	"github.com/jhoicas/gestion-stock/internal/application/usecase"
)

// PointOfSaleHandler CRUD de puntos de venta (protegido).
type PointOfSaleHandler struct {
	uc *usecase.PointOfSaleUseCase
}

// NewPointOfSaleHandler construye el handler.
func NewPointOfSaleHandler(uc *usecase.PointOfSaleUseCase) *PointOfSaleHandler {
	return &PointOfSaleHandler{uc: uc}
}

// Create POST /api/points-of-sale
func (h *PointOfSaleHandler) Create(c *fiber.Ctx) error {
	var in dto.PointOfSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/points-of-sale
func (h *PointOfSaleHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID GET /api/points-of-sale/:id
func (h *PointOfSaleHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update PUT /api/points-of-sale/:id
func (h *PointOfSaleHandler) Update(c *fiber.Ctx) error {
	var in dto.PointOfSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/points-of-sale/:id
func (h *PointOfSaleHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
