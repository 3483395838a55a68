package main

import (
	"fmt"
	"net/http"
)

func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.infoLog.Printf("%s - %s %s %s", r.RemoteAddr, r.Proto, r.Method, r.URL.RequestURI())
		next.ServeHTTP(w, r)
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.serverError(w, fmt.Errorf("%s", err))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (app *application) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !app.isAuthenticated(r) {
			writeError(w, http.StatusUnauthorized, "authentication_required", "You must be logged in")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireAdmin guards every admin operation at the boundary: membership is
// the existence of a document keyed by the user id in the admins collection.
func (app *application) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := app.currentUserID(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "authentication_required", "You must be logged in")
			return
		}
		isAdmin, err := app.DB.IsAdmin(r.Context(), uid)
		if err != nil {
			app.serverError(w, err)
			return
		}
		if !isAdmin {
			writeError(w, http.StatusForbidden, "not_permitted", "You do not have permission to access this resource")
			return
		}
		next.ServeHTTP(w, r)
	})
}
