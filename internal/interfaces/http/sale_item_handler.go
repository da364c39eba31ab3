package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/urbano-pos-api/internal/application/dto"
	"github.com/jhoicas/urbano-pos-api/internal/application/sales"
)

// SaleItemHandler lectura de ítems de venta. Los ítems no se modifican por la API.
type SaleItemHandler struct {
	uc  *sales.UseCase
	val *Validator
}

func NewSaleItemHandler(uc *sales.UseCase, val *Validator) *SaleItemHandler {
	return &SaleItemHandler{uc: uc, val: val}
}

// List GET /api/sale-items?sale_id=&product_id=. Siempre ordenado por id.
func (h *SaleItemHandler) List(c *fiber.Ctx) error {
	q := dto.SaleItemListQuery{SaleID: c.Query("sale_id"), ProductID: c.Query("product_id")}
	if ok, err := h.val.bindQuery(c, &q.ListQuery); !ok {
		return err
	}
	out, err := h.uc.ListItems(c.UserContext(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *SaleItemHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.GetItem(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
