package handler

import (
	"net/http"

	"github.com/msomdec/todo-api/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux. Registration and
// login are rate limited per client IP when limiter is non-nil.
func RegisterRoutes(mux *http.ServeMux, auth *service.AuthService, todos *service.TodoService, limiter *service.TokenBucket) {
	mux.HandleFunc("GET /healthz", HandleHealthz)
	mux.HandleFunc("GET /", HandleHome)

	authHandler := NewAuthHandler(auth)
	credentials := func(h http.HandlerFunc) http.Handler {
		if limiter == nil {
			return h
		}
		return RateLimit(limiter, h)
	}
	protected := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(auth, h)
	}

	mux.Handle("POST /users", credentials(authHandler.HandleRegister))
	mux.Handle("POST /users/login", credentials(authHandler.HandleLogin))
	mux.Handle("GET /users/me", protected(authHandler.HandleMe))
	mux.Handle("DELETE /users/me/token", protected(authHandler.HandleLogout))

	todoHandler := NewTodoHandler(todos)
	mux.Handle("POST /todos", protected(todoHandler.HandleCreate))
	mux.Handle("GET /todos", protected(todoHandler.HandleList))
	mux.Handle("GET /todos/{id}", protected(todoHandler.HandleGet))
	mux.Handle("PATCH /todos/{id}", protected(todoHandler.HandleUpdate))
	mux.Handle("DELETE /todos/{id}", protected(todoHandler.HandleDelete))
}
