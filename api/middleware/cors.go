package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

var corsPolicy = cors.Options{
	AllowedOrigins: []string{
		"http://localhost:3000", // local dev
		"https://quickplate.app",
		"https://www.quickplate.app",
	},
	AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
	AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
	AllowCredentials: true,
	MaxAge:           300,
}

// CORS returns middleware that applies the API's allowed origin policy.
func CORS() func(http.Handler) http.Handler {
	return cors.New(corsPolicy).Handler
}
