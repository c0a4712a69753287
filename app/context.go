package main

import (
	"context"
	"net/http"

	"github.com/sushihentaime/bloglist/internal/userservice"
)

type contextKey string

const userContextKey = contextKey("user")

func (app *application) createUserContext(r *http.Request, user *userservice.User) *http.Request {
	ctx := context.WithValue(r.Context(), userContextKey, user)
	return r.WithContext(ctx)
}

// getUserContext returns the user set by authenticate, or the anonymous user.
func (app *application) getUserContext(r *http.Request) *userservice.User {
	user, ok := r.Context().Value(userContextKey).(*userservice.User)
	if !ok {
		return &userservice.AnonymousUser
	}
	return user
}
