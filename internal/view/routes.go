// Package view renders the HTML pages served by the API.
package view

//go:generate templ generate

// Route describes one endpoint listed on the index page.
type Route struct {
	Method string
	Path   string
	Auth   bool
	About  string
}

// Routes is the public API surface shown on the index page.
var Routes = []Route{
	{Method: "POST", Path: "/users", About: "Register and receive a token in x-auth"},
	{Method: "POST", Path: "/users/login", About: "Log in and receive a new token in x-auth"},
	{Method: "GET", Path: "/users/me", Auth: true, About: "Current user"},
	{Method: "DELETE", Path: "/users/me/token", Auth: true, About: "Revoke the token in use"},
	{Method: "POST", Path: "/todos", Auth: true, About: "Create a to-do"},
	{Method: "GET", Path: "/todos", Auth: true, About: "List your to-dos"},
	{Method: "GET", Path: "/todos/{id}", Auth: true, About: "Fetch one to-do"},
	{Method: "PATCH", Path: "/todos/{id}", Auth: true, About: "Update text or completion"},
	{Method: "DELETE", Path: "/todos/{id}", Auth: true, About: "Delete a to-do"},
}
