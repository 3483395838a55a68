package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (app *application) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(app.recoverPanic)
	r.Use(app.logRequest)
	r.Use(app.session.LoadAndSave)

	r.Get("/api/products", app.listProducts)
	r.Get("/api/products/{id}", app.showProduct)

	r.Post("/api/register", app.register)
	r.Post("/api/login", app.login)
	r.Post("/api/logout", app.logout)
	r.Post("/api/contact", app.contact)

	r.Get("/api/cart", app.showCart)
	r.Post("/api/cart/items", app.cartAdd)
	r.Put("/api/cart/items/{id}", app.cartUpdateQuantity)
	r.Delete("/api/cart/items/{id}", app.cartRemove)
	r.Delete("/api/cart", app.cartClear)

	// Checkout is open to guests: a signed-in user gets the order attached
	// to their account, anyone else places it with a zero user reference.
	r.Post("/api/checkout", app.checkout)

	// Post-checkout lookups need no authentication either. The session id
	// comes back from the processor redirect and the order id is handed out
	// only in the checkout response.
	r.Get("/api/checkout/session/{id}", app.checkoutSession)
	r.Get("/api/orders/{id}/confirmation", app.orderConfirmation)

	r.Group(func(r chi.Router) {
		r.Use(app.requireAuth)

		r.Get("/api/account", app.showAccount)
		r.Put("/api/account", app.updateAccount)
		r.Get("/api/orders", app.listOrders)
		r.Get("/api/orders/{id}", app.showOrder)
		r.Get("/api/orders/{id}/receipt", app.orderReceipt)
	})

	r.Group(func(r chi.Router) {
		r.Use(app.requireAuth)
		r.Use(app.requireAdmin)

		r.Get("/api/admin/orders", app.adminOrders)
		r.Put("/api/admin/orders/{id}/status", app.adminUpdateOrderStatus)
		r.Get("/api/admin/customers", app.adminCustomers)
		r.Post("/api/admin/products", app.adminCreateProduct)
		r.Put("/api/admin/products/{id}", app.adminUpdateProduct)
		r.Delete("/api/admin/products/{id}", app.adminDeleteProduct)
		r.Post("/api/admin/products/image", app.adminUploadImage)
	})

	return r
}
