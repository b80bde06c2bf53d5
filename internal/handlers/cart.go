package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/nimra/cashandcarry/internal/cart"
	"github.com/nimra/cashandcarry/internal/catalog"
	"github.com/nimra/cashandcarry/internal/models"
)

type CartHandler struct {
	Catalog       *catalog.Service
	SecureCookies bool
}

func (h *CartHandler) load(c echo.Context) *cart.Cart {
	return cart.New(&cart.CookieStorage{Ctx: c, Secure: h.SecureCookies})
}

// cartView is the cart page payload: the lines plus server-computed
// totals, so the client never does money arithmetic.
func cartView(crt *cart.Cart) map[string]any {
	lines := crt.Lines()
	totals := cart.ComputeTotals(lines)
	return map[string]any{
		"lines":      lines,
		"totals":     totals,
		"line_count": crt.UniqueLineCount(),
		"item_count": crt.ItemCount(),
	}
}

func (h *CartHandler) GetCart(c echo.Context) error {
	return c.JSON(http.StatusOK, cartView(h.load(c)))
}

type cartItemRequest struct {
	ProductID   uuid.UUID  `json:"product_id"`
	VariationID *uuid.UUID `json:"variation_id,omitempty"`
	Quantity    int        `json:"quantity"`
}

// AddItem snapshots the product (and selected variation) from the
// catalog into the cart, merging quantity into an existing line.
func (h *CartHandler) AddItem(c echo.Context) error {
	var req cartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	p, err := h.Catalog.Product(c.Request().Context(), req.ProductID)
	if err != nil {
		return httpError(err)
	}
	variation, err := selectVariation(p, req.VariationID)
	if err != nil {
		return err
	}

	crt := h.load(c)
	crt.Add(*p, req.Quantity, variation)
	return c.JSON(http.StatusOK, cartView(crt))
}

// UpdateItem sets a line's quantity outright; zero or negative removes
// the line.
func (h *CartHandler) UpdateItem(c echo.Context) error {
	var req cartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.ProductID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "product_id required")
	}

	crt := h.load(c)
	crt.UpdateQuantity(req.ProductID, req.Quantity, req.VariationID)
	return c.JSON(http.StatusOK, cartView(crt))
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	productID, err := uuidParam(c, "productID")
	if err != nil {
		return err
	}
	var variationID *uuid.UUID
	if s := c.QueryParam("variation_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid variation_id")
		}
		variationID = &id
	}

	crt := h.load(c)
	crt.Remove(productID, variationID)
	return c.JSON(http.StatusOK, cartView(crt))
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	crt := h.load(c)
	crt.Clear()
	return c.JSON(http.StatusOK, cartView(crt))
}

func selectVariation(p *models.Product, variationID *uuid.UUID) (*models.ProductVariation, error) {
	if variationID == nil {
		return nil, nil
	}
	for i := range p.Variations {
		if p.Variations[i].ID == *variationID {
			return &p.Variations[i], nil
		}
	}
	return nil, echo.NewHTTPError(http.StatusBadRequest, "variation does not belong to product")
}
