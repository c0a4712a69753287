package main

import (
	"errors"
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

func (app *application) writeErrorResponse(w http.ResponseWriter, r *http.Request, status int, message any) {
	err := app.writeJSON(w, status, envelope{"error": message}, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
}

// errorResponse reports err to the client. A *common.Error carries its own
// status and message; anything else is a server error.
func (app *application) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var e *common.Error
	if !errors.As(err, &e) || e.Kind == common.KindInternal {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.writeErrorResponse(w, r, e.Kind.Status(), e.Message)
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

func (app *application) invalidAuthenticationTokenResponse(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	app.errorResponse(w, r, common.ErrInvalidToken)
}

func (app *application) methodNotAllowedErrorResponse(w http.ResponseWriter, r *http.Request) {
	app.writeErrorResponse(w, r, http.StatusMethodNotAllowed, "method not allowed")
}
