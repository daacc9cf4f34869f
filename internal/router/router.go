// Package router sets up all HTTP routes and middleware chains for the
// catalog service. It organizes routes into public and admin groups with
// appropriate middleware stacks.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"veikals/internal/handlers"
	"veikals/internal/middleware"
	"veikals/internal/session"
)

// publicRateLimit bounds anonymous traffic per client IP.
const (
	publicRateLimit  = 300
	publicRateWindow = time.Minute
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. catalogPrefix is the path segment between
// the locale and the catalog path ("katalogs" by default). The returned
// rate limiter must be stopped on shutdown.
func New(catalogPrefix string, sessionStore *session.Store, admin *handlers.Admin, auth *handlers.Auth, public *handlers.Public) (chi.Router, *middleware.RateLimiter) {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Health check: no auth, no CSRF.
	r.Get("/health", healthHandler)

	// Admin routes: session authentication and CSRF protection.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.CSRF)

		// Login/logout, accessible without a session.
		r.Post("/login", auth.Login)
		r.Post("/logout", auth.Logout)

		// 2FA: requires auth but NOT completed 2FA.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Post("/2fa/setup", auth.TwoFASetup)
			r.Post("/2fa/verify", auth.TwoFAVerify)
		})

		// Authenticated + 2FA-verified admin area.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", admin.CategoriesList)
				r.Get("/tree", admin.CategoriesTree)
				r.Post("/", admin.CategoryCreate)
				r.Post("/reorder", admin.CategoriesReorder)
				r.Put("/{id}", admin.CategoryUpdate)
				r.Delete("/{id}", admin.CategoryDelete)
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", admin.ProductsList)
				r.Post("/", admin.ProductCreate)
				r.Post("/generate-code", admin.GenerateCode)
				r.Get("/{id}", admin.ProductGet)
				r.Put("/{id}", admin.ProductUpdate)
				r.Delete("/{id}", admin.ProductDelete)
			})

			// Brand management is admin only: brand codes anchor the
			// product code namespace.
			r.Route("/brands", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/", admin.BrandsList)
				r.Post("/", admin.BrandCreate)
				r.Get("/{id}", admin.BrandGet)
				r.Put("/{id}", admin.BrandUpdate)
				r.Delete("/{id}", admin.BrandDelete)
			})
		})
	})

	// Public routes, rate limited per client IP.
	limiter := middleware.NewRateLimiter(publicRateLimit, publicRateWindow)
	r.Group(func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Get("/products", public.ListProducts)
		r.Get("/{locale}/"+catalogPrefix+"/*", public.Resolve)
	})

	return r, limiter
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
