package httpserver

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/nimra/cashandcarry/internal/handlers"
	"github.com/nimra/cashandcarry/internal/logging"
	"github.com/nimra/cashandcarry/internal/middleware/auth"
)

// RequestContext hangs a request-scoped logger off the request context
// so handlers can pull it back out with logging.FromContext.
func RequestContext(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			l := log.With("request_id", c.Response().Header().Get(echo.HeaderXRequestID))
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))
			return next(c)
		}
	}
}

type Deps struct {
	Verifier *auth.Verifier

	Catalog   *handlers.CatalogHandler
	Cart      *handlers.CartHandler
	Checkout  *handlers.CheckoutHandler
	Orders    *handlers.OrderHandler
	Customers *handlers.CustomerHandler
	Employees *handlers.EmployeeHandler
	Profile   *handlers.ProfileHandler
	Search    *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	// Storefront: open to guests, identity attached when present so
	// checkout can offer the saved-details flow.
	store := v1.Group("", d.Verifier.Optional)
	store.GET("/products", d.Catalog.ListProducts)
	store.GET("/products/:slug", d.Catalog.GetProductBySlug)
	store.GET("/categories", d.Catalog.ListCategories)
	if d.Search != nil {
		store.GET("/search", d.Search.Search)
	}

	store.GET("/cart", d.Cart.GetCart)
	store.POST("/cart/items", d.Cart.AddItem)
	store.PATCH("/cart/items", d.Cart.UpdateItem)
	store.DELETE("/cart/items/:productID", d.Cart.RemoveItem)
	store.DELETE("/cart", d.Cart.ClearCart)

	store.POST("/checkout", d.Checkout.PlaceOrder)

	me := v1.Group("/me", d.Verifier.RequireUser)
	me.GET("/details", d.Profile.GetDetails)
	me.PUT("/details", d.Profile.SaveDetails)

	// Back office: order board and customer book for staff.
	staff := v1.Group("/staff", d.Verifier.RequireEmployee)
	staff.GET("/orders", d.Orders.ListOrders)
	staff.GET("/orders/:id", d.Orders.GetOrder)
	staff.PATCH("/orders/:id/status", d.Orders.UpdateStatus)
	staff.GET("/customers", d.Customers.ListCustomers)
	staff.GET("/customers/:id", d.Customers.GetCustomer)
	staff.POST("/customers", d.Customers.CreateCustomer)

	// Admin: catalog writes, customer approval, staff accounts.
	admin := v1.Group("/admin", d.Verifier.RequireAdmin)
	admin.POST("/products", d.Catalog.CreateProduct)
	admin.GET("/products/:id", d.Catalog.GetProduct)
	admin.PUT("/products/:id", d.Catalog.UpdateProduct)
	admin.DELETE("/products/:id", d.Catalog.DeleteProduct)
	admin.POST("/categories", d.Catalog.CreateCategory)
	admin.DELETE("/categories/:id", d.Catalog.DeleteCategory)

	admin.GET("/customers/pending", d.Customers.ListPending)
	admin.POST("/customers/:id/approve", d.Customers.ApproveCustomer)
	admin.PATCH("/customers/:id", d.Customers.UpdateCustomer)
	admin.DELETE("/customers/:id", d.Customers.DeactivateCustomer)

	admin.POST("/employees", d.Employees.CreateEmployee)
	admin.GET("/employees", d.Employees.ListEmployees)
	admin.GET("/employees/:id", d.Employees.GetEmployee)
	admin.DELETE("/employees/:id", d.Employees.DeactivateEmployee)
}
