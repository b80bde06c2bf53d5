// Package handlers holds the echo HTTP handlers. They translate wire
// requests into service calls and service errors into status codes;
// business rules live in the service packages.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/nimra/cashandcarry/internal/catalog"
	"github.com/nimra/cashandcarry/internal/checkout"
	"github.com/nimra/cashandcarry/internal/customer"
	"github.com/nimra/cashandcarry/internal/employee"
	"github.com/nimra/cashandcarry/internal/order"
	"github.com/nimra/cashandcarry/internal/util"
)

var validationErrs = []error{
	catalog.ErrValidation,
	checkout.ErrValidation,
	customer.ErrValidation,
	employee.ErrValidation,
	order.ErrValidation,
}

var notFoundErrs = []error{
	catalog.ErrNotFound,
	customer.ErrNotFound,
	employee.ErrNotFound,
	order.ErrNotFound,
}

// httpError maps service sentinel errors onto status codes. Anything
// unrecognized becomes a 500 and keeps its message out of the response.
func httpError(err error) error {
	for _, v := range validationErrs {
		if errors.Is(err, v) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	for _, nf := range notFoundErrs {
		if errors.Is(err, nf) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}

func uuidParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

func intQuery(c echo.Context, name string, def int) int {
	s := c.QueryParam(name)
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// pageMeta is the standard paging envelope on list responses.
func pageMeta(page, limit, offset int, total int64) map[string]any {
	totalPages := int64(0)
	if limit > 0 {
		totalPages = (total + int64(limit) - 1) / int64(limit)
	}
	return map[string]any{
		"page":        page,
		"size":        limit,
		"total":       total,
		"total_pages": totalPages,
		"has_prev":    page > 1,
		"has_next":    int64(offset+limit) < total,
	}
}

func pagination(c echo.Context) (page, offset, limit int) {
	page = intQuery(c, "page", 1)
	size := intQuery(c, "size", util.DefaultPageSize)
	offset, limit = util.Paginate(page, size)
	return page, offset, limit
}
