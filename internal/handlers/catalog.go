package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nimra/cashandcarry/internal/catalog"
	"github.com/nimra/cashandcarry/internal/logging"
)

type CatalogHandler struct {
	Catalog *catalog.Service
}

// ListProducts is the storefront product listing: optional substring
// query, category slug and featured filters, paginated.
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	page, offset, limit := pagination(c)
	f := catalog.Filter{
		Query:        c.QueryParam("q"),
		CategorySlug: c.QueryParam("category"),
		FeaturedOnly: c.QueryParam("featured") == "true",
	}

	items, total, err := h.Catalog.ListProducts(c.Request().Context(), f, limit, offset)
	if err != nil {
		logging.FromContext(c.Request().Context()).With("handler", "ListProducts").
			Error("list products failed", "error", err)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": pageMeta(page, limit, offset, total),
	})
}

func (h *CatalogHandler) GetProductBySlug(c echo.Context) error {
	p, err := h.Catalog.ProductBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *CatalogHandler) GetProduct(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	p, err := h.Catalog.Product(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *CatalogHandler) ListCategories(c echo.Context) error {
	cats, err := h.Catalog.ListCategories(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, cats)
}

func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	var in catalog.ProductInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	p, err := h.Catalog.CreateProduct(c.Request().Context(), in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *CatalogHandler) UpdateProduct(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var in catalog.ProductInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	p, err := h.Catalog.UpdateProduct(c.Request().Context(), id, in)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *CatalogHandler) DeleteProduct(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.Catalog.DeleteProduct(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHandler) CreateCategory(c echo.Context) error {
	var req struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	cat, err := h.Catalog.CreateCategory(c.Request().Context(), req.Name, req.Slug)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, cat)
}

func (h *CatalogHandler) DeleteCategory(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.Catalog.DeleteCategory(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
