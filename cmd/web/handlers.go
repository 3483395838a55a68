package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"senjewels/internal/cart"
	"senjewels/internal/mail"
	"senjewels/internal/models"
)

// --- CATALOG ---

func (app *application) listProducts(w http.ResponseWriter, r *http.Request) {
	var (
		products []*models.Product
		err      error
	)
	if category := r.URL.Query().Get("category"); category != "" {
		products, err = app.DB.GetProductsByCategory(r.Context(), category)
	} else {
		products, err = app.DB.GetAllProducts(r.Context())
	}
	if err != nil {
		app.serverError(w, err)
		return
	}
	if products == nil {
		products = []*models.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

func (app *application) showProduct(w http.ResponseWriter, r *http.Request) {
	p, err := app.DB.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, models.ErrNoRecord) {
			writeError(w, http.StatusNotFound, "not_found", "Product not found")
			return
		}
		app.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// --- AUTH ---

func (app *application) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		app.clientError(w, http.StatusBadRequest)
		return
	}
	if req.Email == "" || len(req.Password) < 8 {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "Email and a password of at least 8 characters are required")
		return
	}

	err := app.DB.InsertUser(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateEmail) {
			writeError(w, http.StatusUnprocessableEntity, "validation_error", "Email address is already in use")
			return
		}
		app.serverError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (app *application) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		app.clientError(w, http.StatusBadRequest)
		return
	}

	user, err := app.DB.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid_credentials", "Email or password is incorrect")
			return
		}
		app.serverError(w, err)
		return
	}

	if err := app.session.RenewToken(r.Context()); err != nil {
		app.serverError(w, err)
		return
	}
	app.session.Put(r.Context(), sessionKeyUserID, user.ID.Hex())
	writeJSON(w, http.StatusOK, user)
}

func (app *application) logout(w http.ResponseWriter, r *http.Request) {
	app.session.Remove(r.Context(), sessionKeyUserID)
	if err := app.session.Destroy(r.Context()); err != nil {
		app.serverError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- ACCOUNT ---

// showAccount returns the user's profile, creating an initial document on
// first visit.
func (app *application) showAccount(w http.ResponseWriter, r *http.Request) {
	uid, _ := app.currentUserID(r)

	profile, err := app.DB.GetUserProfile(r.Context(), uid)
	if errors.Is(err, models.ErrNoRecord) {
		profile = &models.UserProfile{ID: uid, Country: "United Kingdom"}
		if err := app.DB.UpsertUserProfile(r.Context(), profile); err != nil {
			app.serverError(w, err)
			return
		}
	} else if err != nil {
		app.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (app *application) updateAccount(w http.ResponseWriter, r *http.Request) {
	uid, _ := app.currentUserID(r)

	var profile models.UserProfile
	if err := decodeJSON(r, &profile); err != nil {
		app.clientError(w, http.StatusBadRequest)
		return
	}
	profile.ID = uid

	if err := app.DB.UpsertUserProfile(r.Context(), &profile); err != nil {
		app.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// --- CART ---

type cartResponse struct {
	cart.State
	Count int `json:"count"`
}

func (app *application) writeCart(w http.ResponseWriter, s cart.State) {
	writeJSON(w, http.StatusOK, cartResponse{State: s, Count: s.Count()})
}

func (app *application) showCart(w http.ResponseWriter, r *http.Request) {
	app.writeCart(w, app.cartFromSession(r))
}

func (app *application) cartAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		app.clientError(w, http.StatusBadRequest)
		return
	}
	if req.Quantity < 1 {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "Quantity must be at least 1")
		return
	}

	// Snapshot name, price and image from the catalog at add time.
	p, err := app.DB.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, models.ErrNoRecord) {
			writeError(w, http.StatusNotFound, "not_found", "Product not found")
			return
		}
		app.serverError(w, err)
		return
	}

	state := app.cartFromSession(r).AddItem(cart.Item{
		ProductID: p.ID.Hex(),
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.Image,
		Quantity:  req.Quantity,
	})
	app.saveCart(r, state)
	app.writeCart(w, state)
}

func (app *application) cartUpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := decodeJSON(r, &req); err != nil {
		app.clientError(w, http.StatusBadRequest)
		return
	}

	state := app.cartFromSession(r)
	// Quantities below 1 are rejected before dispatch; the cart is left
	// unchanged rather than treating the update as a removal.
	if req.Quantity < 1 {
		app.writeCart(w, state)
		return
	}

	state = state.SetQuantity(chi.URLParam(r, "id"), req.Quantity)
	app.saveCart(r, state)
	app.writeCart(w, state)
}

func (app *application) cartRemove(w http.ResponseWriter, r *http.Request) {
	state := app.cartFromSession(r).RemoveItem(chi.URLParam(r, "id"))
	app.saveCart(r, state)
	app.writeCart(w, state)
}

func (app *application) cartClear(w http.ResponseWriter, r *http.Request) {
	state := app.cartFromSession(r).Clear()
	app.saveCart(r, state)
	app.writeCart(w, state)
}

// --- CHECKOUT ---

type checkoutRequest struct {
	FullName            string `json:"fullName"`
	Email               string `json:"email"`
	Address             string `json:"address"`
	City                string `json:"city"`
	PostalCode          string `json:"postalCode"`
	Country             string `json:"country"`
	Phone               string `json:"phone"`
	SpecialInstructions string `json:"specialInstructions"`
	PaymentMethod       string `json:"paymentMethod"`
}

type checkoutResponse struct {
	OrderID     string `json:"orderId"`
	CheckoutURL string `json:"checkoutUrl,omitempty"`
}

// checkout runs the order pipeline: validate, persist the order and its
// denormalized detail record, queue the confirmation email, then either open
// a hosted payment session (card) or accept the order for manual
// reconciliation (bank transfer). Email failures never roll the order back;
// a failed payment session halts the flow with the order left pending.
func (app *application) checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		app.clientError(w, http.StatusBadRequest)
		return
	}

	state := app.cartFromSession(r)
	if state.IsEmpty() {
		writeError(w, http.StatusUnprocessableEntity, "empty_cart", "Your cart is empty")
		return
	}
	if req.FullName == "" || req.Email == "" || req.Address == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "Name, email and address are required")
		return
	}
	if req.PaymentMethod != models.PaymentCard && req.PaymentMethod != models.PaymentBankTransfer {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "Unknown payment method")
		return
	}

	uid, _ := app.currentUserID(r)
	order := orderFromCheckout(uid, req, state)

	id, err := app.DB.CreateOrder(r.Context(), order)
	if err != nil {
		app.serverError(w, err)
		return
	}

	detail := &models.OrderDetail{
		ID:              id,
		CustomerName:    order.CustomerName,
		CustomerEmail:   order.CustomerEmail,
		ShippingAddress: order.ShippingAddress,
		PaymentMethod:   order.PaymentMethod,
		Items:           order.Items,
		Subtotal:        order.Subtotal,
		Shipping:        order.Shipping,
		Total:           order.Total,
		CreatedAt:       order.CreatedAt,
	}
	if err := app.DB.InsertOrderDetail(r.Context(), detail); err != nil {
		app.serverError(w, err)
		return
	}

	app.enqueueMail(mail.Message{Kind: mail.KindConfirmation, Order: order})

	resp := checkoutResponse{OrderID: id.Hex()}
	if req.PaymentMethod == models.PaymentCard {
		_, url, err := app.payments.CreateSession(r.Context(), id.Hex(), order.CustomerEmail, state.Items)
		if err != nil {
			app.errorLog.Println("Failed to create checkout session:", err)
			writeError(w, http.StatusBadGateway, "payment_session_failed", "Failed to create checkout session")
			return
		}
		resp.CheckoutURL = url
	}

	app.saveCart(r, cart.Empty())
	writeJSON(w, http.StatusCreated, resp)
}

// orderFromCheckout freezes the cart and shipping form into an order.
// Shipping is free; the subtotal and total are the cart total.
func orderFromCheckout(uid primitive.ObjectID, req checkoutRequest, state cart.State) *models.Order {
	items := make([]models.OrderItem, len(state.Items))
	for i, it := range state.Items {
		items[i] = models.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Image:     it.Image,
			Quantity:  it.Quantity,
		}
	}

	return &models.Order{
		UserID:          uid,
		CustomerName:    req.FullName,
		CustomerEmail:   req.Email,
		ShippingAddress: shippingAddress(req),
		PaymentMethod:   req.PaymentMethod,
		Items:           items,
		Subtotal:        state.Total,
		Shipping:        0,
		Total:           state.Total,
	}
}

// shippingAddress flattens the form into the free text block stored on the
// order and printed on receipts.
func shippingAddress(req checkoutRequest) string {
	lines := make([]string, 0, 4)
	for _, l := range []string{req.Address, req.City, req.PostalCode, req.Country} {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return strings.Join(lines, "\n")
}

// checkoutSession resolves a hosted payment session after the redirect back
// from the processor. The order view is rebuilt from the session's metadata,
// not from the local database.
func (app *application) checkoutSession(w http.ResponseWriter, r *http.Request) {
	s, err := app.payments.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		app.errorLog.Println("Checkout session lookup failed:", err)
		writeError(w, http.StatusNotFound, "session_not_found", "Checkout session not found")
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// --- ORDERS ---

func (app *application) listOrders(w http.ResponseWriter, r *http.Request) {
	uid, _ := app.currentUserID(r)

	orders, err := app.DB.GetOrdersByUser(r.Context(), uid)
	if err != nil {
		app.serverError(w, err)
		return
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

// getOwnOrder loads an order and enforces that the requester owns it or is
// an admin.
func (app *application) getOwnOrder(w http.ResponseWriter, r *http.Request) (*models.Order, bool) {
	uid, _ := app.currentUserID(r)

	o, err := app.DB.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, models.ErrNoRecord) {
			writeError(w, http.StatusNotFound, "not_found", "Order not found")
			return nil, false
		}
		app.serverError(w, err)
		return nil, false
	}

	if o.UserID != uid {
		isAdmin, err := app.DB.IsAdmin(r.Context(), uid)
		if err != nil {
			app.serverError(w, err)
			return nil, false
		}
		if !isAdmin {
			writeError(w, http.StatusForbidden, "not_permitted", "You do not have permission to view this order")
			return nil, false
		}
	}
	return o, true
}

func (app *application) showOrder(w http.ResponseWriter, r *http.Request) {
	o, ok := app.getOwnOrder(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// orderConfirmation returns the frozen order-details document written at
// checkout. The confirmation page renders this after a bank transfer order;
// card orders resolve the hosted session instead. The document carries no
// account data and the id is handed out only in the checkout response, so
// guests can fetch it without a session.
func (app *application) orderConfirmation(w http.ResponseWriter, r *http.Request) {
	d, err := app.DB.GetOrderDetail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, models.ErrNoRecord) {
			writeError(w, http.StatusNotFound, "not_found", "Order not found")
			return
		}
		app.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (app *application) orderReceipt(w http.ResponseWriter, r *http.Request) {
	o, ok := app.getOwnOrder(w, r)
	if !ok {
		return
	}

	pdf, err := app.receipts.Build(r.Context(), o)
	if err != nil {
		app.serverError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="order-`+o.ID.Hex()+`.pdf"`)
	w.Write(pdf)
}

// --- CONTACT ---

func (app *application) contact(w http.ResponseWriter, r *http.Request) {
	var msg models.ContactMessage
	if err := decodeJSON(r, &msg); err != nil {
		app.clientError(w, http.StatusBadRequest)
		return
	}
	if msg.Name == "" || msg.Email == "" || msg.Message == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "Name, email and message are required")
		return
	}

	if err := app.DB.InsertContactMessage(r.Context(), &msg); err != nil {
		app.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}
