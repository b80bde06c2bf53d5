package cart

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimra/cashandcarry/internal/models"
)

func echoContext(t *testing.T, cookies ...*http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestCookieStorage_RoundTrip(t *testing.T) {
	t.Parallel()

	p := models.Product{
		ID:            uuid.New(),
		Name:          "Pizza Box",
		Price:         decimal.NewFromInt(10),
		VatPercentage: 23,
	}

	writeCtx, rec := echoContext(t)
	c := New(&CookieStorage{Ctx: writeCtx})
	c.Add(p, 3, nil)

	res := rec.Result()
	var cartCookie *http.Cookie
	for _, ck := range res.Cookies() {
		if ck.Name == CookieName {
			cartCookie = ck
		}
	}
	require.NotNil(t, cartCookie, "mutation must set the cart cookie")
	assert.True(t, cartCookie.HttpOnly)
	assert.Equal(t, "/", cartCookie.Path)

	// A later request carrying the cookie hydrates the same cart.
	readCtx, _ := echoContext(t, &http.Cookie{Name: CookieName, Value: cartCookie.Value})
	reloaded := New(&CookieStorage{Ctx: readCtx})
	lines := reloaded.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, p.ID, lines[0].Product.ID)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.True(t, lines[0].Product.Price.Equal(p.Price))
}

func TestCookieStorage_GarbageCookieYieldsEmptyCart(t *testing.T) {
	t.Parallel()

	ctx, _ := echoContext(t, &http.Cookie{Name: CookieName, Value: "%%%not-base64%%%"})
	c := New(&CookieStorage{Ctx: ctx})
	assert.Equal(t, 0, c.UniqueLineCount())

	// Still usable after the bad read.
	c.Add(models.Product{ID: uuid.New(), Name: "x", Price: decimal.NewFromInt(1)}, 1, nil)
	assert.Equal(t, 1, c.UniqueLineCount())
}

func TestCookieStorage_MissingCookieYieldsEmptyCart(t *testing.T) {
	t.Parallel()

	ctx, _ := echoContext(t)
	c := New(&CookieStorage{Ctx: ctx})
	assert.Equal(t, 0, c.UniqueLineCount())
}
