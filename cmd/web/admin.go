package main

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"senjewels/internal/mail"
	"senjewels/internal/models"
)

func (app *application) adminOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := app.DB.GetAllOrders(r.Context())
	if err != nil {
		app.serverError(w, err)
		return
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

type statusUpdateRequest struct {
	Status   string               `json:"status"`
	Tracking *models.TrackingInfo `json:"trackingInfo,omitempty"`
}

// adminUpdateOrderStatus advances an order's fulfillment status. Completing
// an order requires tracking info; the customer is notified best-effort after
// the write.
func (app *application) adminUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req statusUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		app.clientError(w, http.StatusBadRequest)
		return
	}

	next := models.OrderStatus(req.Status)
	if !next.Valid() {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "Unknown order status")
		return
	}
	if req.Tracking != nil && (req.Tracking.Carrier == "" || req.Tracking.TrackingNumber == "") {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "Carrier and tracking number are required")
		return
	}

	o, err := app.DB.UpdateOrderStatus(r.Context(), chi.URLParam(r, "id"), next, req.Tracking)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNoRecord):
			writeError(w, http.StatusNotFound, "not_found", "Order not found")
		case errors.Is(err, models.ErrInvalidTransition):
			writeError(w, http.StatusUnprocessableEntity, "invalid_transition", "Order status can only move forward")
		case errors.Is(err, models.ErrTrackingRequired):
			writeError(w, http.StatusUnprocessableEntity, "tracking_required", "Tracking info is required to complete an order")
		default:
			app.serverError(w, err)
		}
		return
	}

	if o.CustomerEmail != "" {
		app.enqueueMail(mail.Message{Kind: mail.KindStatus, Order: o})
	} else {
		app.errorLog.Println("No customer email found for order", o.ID.Hex())
	}

	writeJSON(w, http.StatusOK, o)
}

func (app *application) adminCustomers(w http.ResponseWriter, r *http.Request) {
	profiles, err := app.DB.GetAllUserProfiles(r.Context())
	if err != nil {
		app.serverError(w, err)
		return
	}
	if profiles == nil {
		profiles = []*models.UserProfile{}
	}
	writeJSON(w, http.StatusOK, profiles)
}

type productRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock"`
	Image       string  `json:"image"`
}

func (req productRequest) validate() string {
	switch {
	case req.Name == "":
		return "Name is required"
	case req.Price <= 0:
		return "Price must be greater than zero"
	case req.Stock < 0:
		return "Stock must not be negative"
	case !models.ValidCategory(req.Category):
		return "Unknown category"
	}
	return ""
}

func (app *application) adminCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		app.clientError(w, http.StatusBadRequest)
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", msg)
		return
	}

	p := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Stock:       req.Stock,
		Image:       req.Image,
	}
	if _, err := app.DB.InsertProduct(r.Context(), p); err != nil {
		app.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (app *application) adminUpdateProduct(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "Product not found")
		return
	}

	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		app.clientError(w, http.StatusBadRequest)
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", msg)
		return
	}

	p := &models.Product{
		ID:          oid,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Stock:       req.Stock,
		Image:       req.Image,
	}
	if err := app.DB.UpdateProduct(r.Context(), p); err != nil {
		if errors.Is(err, models.ErrNoRecord) {
			writeError(w, http.StatusNotFound, "not_found", "Product not found")
			return
		}
		app.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (app *application) adminDeleteProduct(w http.ResponseWriter, r *http.Request) {
	err := app.DB.DeleteProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, models.ErrNoRecord) {
			writeError(w, http.StatusNotFound, "not_found", "Product not found")
			return
		}
		app.serverError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// adminUploadImage stores the image bytes and returns the public URL. The
// product record referencing the URL is written by a separate request once
// the upload has completed.
func (app *application) adminUploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		app.clientError(w, http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "An image file is required")
		return
	}
	defer file.Close()

	url, err := app.uploads.UploadProductImage(r.Context(), header.Filename, header.Header.Get("Content-Type"), file, header.Size)
	if err != nil {
		app.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}
