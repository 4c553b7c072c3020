package main

import (
	"log/slog"
	"net/http"

	"github.com/sushihentaime/bloglist/internal/common"
)

func (app *application) logError(r *http.Request, err error) {
	var (
		method  = r.Method
		url     = r.URL.RequestURI()
		message = err.Error()
	)

	app.logger.Error(message, slog.String("method", method), slog.String("url", url))
}

func (app *application) writeErrorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	err := app.writeJSON(w, status, envelope{"error": message}, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// errorResponse maps a service error to its status code. Errors without a
// kind are logged and answered with a generic 500.
func (app *application) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	kind, message := common.Classify(err)

	switch kind {
	case common.KindValidation:
		app.writeErrorResponse(w, r, http.StatusBadRequest, message)
	case common.KindInvalidToken, common.KindUnauthenticated, common.KindForbidden:
		app.writeErrorResponse(w, r, http.StatusUnauthorized, message)
	case common.KindNotFound:
		app.writeErrorResponse(w, r, http.StatusNotFound, message)
	case common.KindUnknown:
		app.serverErrorResponse(w, r, err)
	default:
		app.logger.Error("unhandled error kind", slog.String("kind", kind.String()), slog.Int("kind_value", int(kind)))
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)
	message := "the server encountered a problem and could not process your request"
	app.writeErrorResponse(w, r, http.StatusInternalServerError, message)
}

func (app *application) badRequestErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.writeErrorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (app *application) notFoundErrorResponse(w http.ResponseWriter, r *http.Request) {
	app.writeErrorResponse(w, r, http.StatusNotFound, "unknown endpoint")
}
