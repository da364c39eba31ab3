package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/urbano-pos-api/internal/application/dto"
	"github.com/jhoicas/urbano-pos-api/internal/application/inventory"
)

// PurchaseHandler compras de reposición (solo alta y listado).
type PurchaseHandler struct {
	uc  *inventory.PurchaseUseCase
	val *Validator
}

func NewPurchaseHandler(uc *inventory.PurchaseUseCase, val *Validator) *PurchaseHandler {
	return &PurchaseHandler{uc: uc, val: val}
}

// Create godoc
// @Summary      Registrar compra
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseRequest  true  "Compra"
// @Success      201   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *PurchaseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseRequest
	if ok, err := h.val.bindBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Record(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *PurchaseHandler) List(c *fiber.Ctx) error {
	q := dto.PurchaseListQuery{ProductID: c.Query("product_id")}
	if ok, err := h.val.bindQuery(c, &q.ListQuery); !ok {
		return err
	}
	out, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
