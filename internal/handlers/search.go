package handlers

import (
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/nimra/cashandcarry/internal/catalog"
	"github.com/nimra/cashandcarry/internal/logging"
	"github.com/nimra/cashandcarry/internal/models"
	"github.com/nimra/cashandcarry/internal/search"
)

type SearchHandler struct {
	ES      *elasticsearch.Client
	Catalog *catalog.GormRepo
}

// Search runs the fuzzy product search. Hits come back as ids from the
// index and are rehydrated from the database, so prices and stock are
// always current even when the index lags a write.
func (h *SearchHandler) Search(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}
	page, offset, limit := pagination(c)

	res, err := search.Search(c.Request().Context(), h.ES, query, offset, limit)
	if err != nil {
		logging.FromContext(c.Request().Context()).With("handler", "Search").
			Error("product search failed", "query", query, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "search unavailable")
	}

	ids := make([]uuid.UUID, 0, len(res.IDs))
	for _, s := range res.IDs {
		if id, err := uuid.Parse(s); err == nil {
			ids = append(ids, id)
		}
	}
	rows, err := h.Catalog.ProductsByIDs(c.Request().Context(), ids)
	if err != nil {
		return httpError(err)
	}

	// Preserve relevance order from the index.
	byID := make(map[uuid.UUID]models.Product, len(rows))
	for _, p := range rows {
		byID[p.ID] = p
	}
	items := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			items = append(items, p)
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": pageMeta(page, limit, offset, res.Total),
	})
}
