package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"senjewels/internal/cart"
	"senjewels/internal/mail"
)

const (
	sessionKeyUserID = "authenticatedUserID"
	sessionKeyCart   = "cart"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: code, Message: msg})
}

func (app *application) serverError(w http.ResponseWriter, err error) {
	trace := fmt.Sprintf("%s\n%s", err.Error(), debug.Stack())
	app.errorLog.Output(2, trace)
	writeError(w, http.StatusInternalServerError, "internal_error", http.StatusText(http.StatusInternalServerError))
}

func (app *application) clientError(w http.ResponseWriter, status int) {
	writeError(w, status, "request_error", http.StatusText(status))
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	// One JSON value per request body.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("body must contain a single JSON value")
	}
	return nil
}

func (app *application) isAuthenticated(r *http.Request) bool {
	return app.session.GetString(r.Context(), sessionKeyUserID) != ""
}

func (app *application) currentUserID(r *http.Request) (primitive.ObjectID, bool) {
	hex := app.session.GetString(r.Context(), sessionKeyUserID)
	if hex == "" {
		return primitive.NilObjectID, false
	}
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

// cartFromSession decodes the session cart; a missing or corrupt entry is
// treated as an empty cart.
func (app *application) cartFromSession(r *http.Request) cart.State {
	data := app.session.GetBytes(r.Context(), sessionKeyCart)
	if len(data) == 0 {
		return cart.Empty()
	}
	var s cart.State
	if err := json.Unmarshal(data, &s); err != nil {
		return cart.Empty()
	}
	return s
}

func (app *application) saveCart(r *http.Request, s cart.State) {
	data, err := json.Marshal(s)
	if err != nil {
		app.errorLog.Println("Failed to encode cart:", err)
		return
	}
	app.session.Put(r.Context(), sessionKeyCart, data)
}

// enqueueMail hands a message to the background worker without blocking the
// request; a full queue drops the message, consistent with best-effort
// notification delivery.
func (app *application) enqueueMail(msg mail.Message) {
	select {
	case app.mailQueue <- msg:
	default:
		app.errorLog.Println("Mail queue full, dropping message for order", msg.Order.ID.Hex())
	}
}
