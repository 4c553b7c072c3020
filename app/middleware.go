package main

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/sushihentaime/bloglist/internal/authservice"
)

const requestIDHeader = "X-Request-ID"

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.serverErrorResponse(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		var (
			ip     = r.RemoteAddr
			method = r.Method
			proto  = r.Proto
			uri    = r.URL.RequestURI()
		)

		app.logger.Info("request from", slog.String("request_id", requestID), slog.String("method", method), slog.String("uri", uri), slog.String("remote_addr", ip), slog.String("proto", proto))

		next.ServeHTTP(w, r)
	})
}

// enableCORS allows the configured trusted origins. With none configured
// every origin is allowed.
func (app *application) enableCORS(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: app.config.TrustedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	})(next)
}

// authenticate runs the authorization pipeline in front of next and stores
// the resolved identity in the request context. With requireIdentity set,
// requests without a resolved user never reach next.
func (app *application) authenticate(next http.HandlerFunc, requireIdentity bool) http.HandlerFunc {
	stages := app.auth.Stages(requireIdentity)

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Authorization")

		a, err := authservice.Run(r.Context(), authservice.Auth{Header: r.Header.Get("Authorization")}, stages...)
		if err != nil {
			app.errorResponse(w, r, err)
			return
		}

		r = app.createIdentityContext(r, a.Identity)
		next.ServeHTTP(w, r)
	}
}
