package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/alexedwards/scs/v2"

	"senjewels/internal/cart"
	"senjewels/internal/mail"
)

func newTestApplication() *application {
	return &application{
		infoLog:   log.New(io.Discard, "", 0),
		errorLog:  log.New(io.Discard, "", 0),
		session:   scs.New(),
		mailQueue: make(chan mail.Message, 8),
	}
}

// newTestServer mounts the session-backed handlers plus a seed endpoint so
// tests can preload the session cart, and returns a client with a cookie jar.
func newTestServer(t *testing.T, app *application) (*httptest.Server, *http.Client) {
	t.Helper()

	r := chi.NewRouter()
	r.Use(app.session.LoadAndSave)
	r.Post("/seed/cart", func(w http.ResponseWriter, req *http.Request) {
		var s cart.State
		if err := json.NewDecoder(req.Body).Decode(&s); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		app.saveCart(req, s)
	})
	r.Post("/api/checkout", app.checkout)
	r.Get("/api/cart", app.showCart)
	r.Put("/api/cart/items/{id}", app.cartUpdateQuantity)
	r.Delete("/api/cart/items/{id}", app.cartRemove)
	r.Delete("/api/cart", app.cartClear)

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return ts, &http.Client{Jar: jar}
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any) *http.Response {
	t.Helper()

	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	return resp
}

func seedCart(t *testing.T, client *http.Client, base string, items ...cart.Item) {
	t.Helper()
	s := cart.Empty()
	for _, it := range items {
		s = s.AddItem(it)
	}
	resp := doJSON(t, client, http.MethodPost, base+"/seed/cart", s)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func decodeCart(t *testing.T, resp *http.Response) cartResponse {
	t.Helper()
	defer resp.Body.Close()
	var c cartResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&c))
	return c
}

func TestCheckoutEmptyCart(t *testing.T) {
	app := newTestApplication()
	ts, client := newTestServer(t, app)

	resp := doJSON(t, client, http.MethodPost, ts.URL+"/api/checkout", checkoutRequest{
		FullName:      "Ada Example",
		Email:         "ada@example.com",
		Address:       "1 High Street",
		PaymentMethod: "bank-transfer",
	})
	defer resp.Body.Close()

	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var errResp errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, "Your cart is empty", errResp.Message)
	assert.Empty(t, app.mailQueue, "no order, no confirmation email")
}

// TestCheckoutOpenToGuests places a checkout request through the full router
// without logging in. The 422 for the empty cart, rather than a 401, shows
// the handler ran for an anonymous session.
func TestCheckoutOpenToGuests(t *testing.T) {
	app := newTestApplication()
	ts := httptest.NewServer(app.routes())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar}

	resp := doJSON(t, client, http.MethodPost, ts.URL+"/api/checkout", checkoutRequest{
		FullName:      "Guest Shopper",
		Email:         "guest@example.com",
		Address:       "1 High Street",
		PaymentMethod: "bank-transfer",
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestOrderFromCheckoutGuest(t *testing.T) {
	state := cart.Empty().AddItem(cart.Item{ProductID: "p1", Name: "Pendant", Price: 10.00, Quantity: 1})

	o := orderFromCheckout(primitive.NilObjectID, checkoutRequest{
		FullName:      "Guest Shopper",
		Email:         "guest@example.com",
		Address:       "1 High Street",
		PaymentMethod: "bank-transfer",
	}, state)

	assert.True(t, o.UserID.IsZero(), "guest orders carry no owning user")
}

func TestCheckoutValidation(t *testing.T) {
	app := newTestApplication()
	ts, client := newTestServer(t, app)
	seedCart(t, client, ts.URL, cart.Item{ProductID: "p1", Name: "Pendant", Price: 10.00, Quantity: 2})

	resp := doJSON(t, client, http.MethodPost, ts.URL+"/api/checkout", checkoutRequest{
		FullName:      "Ada Example",
		Email:         "ada@example.com",
		Address:       "1 High Street",
		PaymentMethod: "cheque",
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestCartUpdateQuantityBelowOneIsNoop(t *testing.T) {
	app := newTestApplication()
	ts, client := newTestServer(t, app)
	seedCart(t, client, ts.URL, cart.Item{ProductID: "p1", Name: "Pendant", Price: 12.50, Quantity: 2})

	resp := doJSON(t, client, http.MethodPut, ts.URL+"/api/cart/items/p1", map[string]int{"quantity": 0})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	c := decodeCart(t, resp)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantity, "quantity below 1 must leave the cart unchanged")
	assert.InDelta(t, 25.00, c.Total, 1e-9)
}

func TestCartUpdateQuantity(t *testing.T) {
	app := newTestApplication()
	ts, client := newTestServer(t, app)
	seedCart(t, client, ts.URL, cart.Item{ProductID: "p1", Name: "Pendant", Price: 12.50, Quantity: 2})

	resp := doJSON(t, client, http.MethodPut, ts.URL+"/api/cart/items/p1", map[string]int{"quantity": 5})
	c := decodeCart(t, resp)

	assert.Equal(t, 5, c.Items[0].Quantity)
	assert.InDelta(t, 62.50, c.Total, 1e-9)
}

func TestCartRemoveAndClear(t *testing.T) {
	app := newTestApplication()
	ts, client := newTestServer(t, app)
	seedCart(t, client, ts.URL,
		cart.Item{ProductID: "p1", Name: "Pendant", Price: 12.50, Quantity: 1},
		cart.Item{ProductID: "p2", Name: "Bracelet", Price: 9.95, Quantity: 3},
	)

	resp := doJSON(t, client, http.MethodDelete, ts.URL+"/api/cart/items/p1", nil)
	c := decodeCart(t, resp)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "p2", c.Items[0].ProductID)

	resp = doJSON(t, client, http.MethodDelete, ts.URL+"/api/cart", nil)
	c = decodeCart(t, resp)
	assert.Empty(t, c.Items)
	assert.Zero(t, c.Total)
	assert.Zero(t, c.Count)
}

func TestOrderFromCheckout(t *testing.T) {
	state := cart.Empty().AddItem(cart.Item{ProductID: "p1", Name: "Pendant", Price: 10.00, Quantity: 2})
	uid := primitive.NewObjectID()

	o := orderFromCheckout(uid, checkoutRequest{
		FullName:      "Ada Example",
		Email:         "ada@example.com",
		Address:       "1 High Street",
		City:          "London",
		PostalCode:    "SW1A 1AA",
		Country:       "United Kingdom",
		PaymentMethod: "bank-transfer",
	}, state)

	assert.Equal(t, uid, o.UserID)
	assert.InDelta(t, 20.00, o.Total, 1e-9)
	assert.InDelta(t, 20.00, o.Subtotal, 1e-9)
	assert.Zero(t, o.Shipping)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "Pendant", o.Items[0].Name)
	assert.Equal(t, 2, o.Items[0].Quantity)
	assert.Equal(t, "1 High Street\nLondon\nSW1A 1AA\nUnited Kingdom", o.ShippingAddress)
}

func TestShippingAddressSkipsEmptyLines(t *testing.T) {
	got := shippingAddress(checkoutRequest{Address: "1 High Street", Country: "United Kingdom"})
	assert.Equal(t, "1 High Street\nUnited Kingdom", got)
}

func TestRequireAuth(t *testing.T) {
	app := newTestApplication()
	ts := httptest.NewServer(app.routes())
	t.Cleanup(ts.Close)

	for _, path := range []string{"/api/orders", "/api/account", "/api/admin/orders"} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}
