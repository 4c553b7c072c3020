package main

import (
	"context"
	"net/http"

	"github.com/sushihentaime/bloglist/internal/authservice"
)

type contextKey string

const identityContextKey = contextKey("identity")

func (app *application) createIdentityContext(r *http.Request, id *authservice.Identity) *http.Request {
	ctx := context.WithValue(r.Context(), identityContextKey, id)
	return r.WithContext(ctx)
}

// getIdentityContext returns nil when the request carries no resolved user.
func (app *application) getIdentityContext(r *http.Request) *authservice.Identity {
	id, ok := r.Context().Value(identityContextKey).(*authservice.Identity)
	if !ok {
		return nil
	}
	return id
}
