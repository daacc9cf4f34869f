// Copyright (c) 2026 Eduards Krastiņš <eduards@veikals.dev>
// Copyright (c) 2026 Veikals Commerce SIA <dev@veikals.dev>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared infrastructure for handler integration
// tests. Tests are skipped when PostgreSQL or Valkey are unavailable.
package handlers

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"veikals/internal/database"
	"veikals/internal/middleware"
	"veikals/internal/session"
	"veikals/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "veikals")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "veikals")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"session:*", "resolve:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	db         *sql.DB
	categories *store.CategoryStore
	products   *store.ProductStore
	brands     *store.BrandStore
	users      *store.UserStore
	sessions   *session.Store
	admin      *Admin
	auth       *Auth
}

// newTestEnv wires stores and handler groups against the test database.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	valkey := testValkeyClient(t)

	return &testEnv{
		db:         db,
		categories: store.NewCategoryStore(db),
		products:   store.NewProductStore(db),
		brands:     store.NewBrandStore(db),
		users:      store.NewUserStore(db),
		sessions:   session.NewStore(valkey, false),
		admin:      NewAdmin(store.NewCategoryStore(db), store.NewProductStore(db), store.NewBrandStore(db), nil),
		auth:       NewAuth(session.NewStore(valkey, false), store.NewUserStore(db)),
	}
}

// adminRouter mounts the admin handlers with the session middleware chain
// but without CSRF, which is covered by the middleware tests.
func (e *testEnv) adminRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.LoadSession(e.sessions))

	r.Post("/admin/login", e.auth.Login)
	r.Post("/admin/logout", e.auth.Logout)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/admin/2fa/setup", e.auth.TwoFASetup)
		r.Post("/admin/2fa/verify", e.auth.TwoFAVerify)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth, middleware.Require2FA)

		r.Get("/admin/categories", e.admin.CategoriesList)
		r.Get("/admin/categories/tree", e.admin.CategoriesTree)
		r.Post("/admin/categories", e.admin.CategoryCreate)
		r.Put("/admin/categories/{id}", e.admin.CategoryUpdate)
		r.Delete("/admin/categories/{id}", e.admin.CategoryDelete)
		r.Post("/admin/categories/reorder", e.admin.CategoriesReorder)

		r.Get("/admin/products", e.admin.ProductsList)
		r.Get("/admin/products/{id}", e.admin.ProductGet)
		r.Post("/admin/products", e.admin.ProductCreate)
		r.Put("/admin/products/{id}", e.admin.ProductUpdate)
		r.Delete("/admin/products/{id}", e.admin.ProductDelete)
		r.Post("/admin/products/generate-code", e.admin.GenerateCode)

		r.Get("/admin/brands", e.admin.BrandsList)
		r.Get("/admin/brands/{id}", e.admin.BrandGet)
		r.Post("/admin/brands", e.admin.BrandCreate)
		r.Put("/admin/brands/{id}", e.admin.BrandUpdate)
		r.Delete("/admin/brands/{id}", e.admin.BrandDelete)
	})

	return r
}

// createTestUser inserts an admin user with the given password, cleaned
// up when the test ends.
func (e *testEnv) createTestUser(t *testing.T, email, password string) uuid.UUID {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	var id uuid.UUID
	err = e.db.QueryRow(`
		INSERT INTO users (email, password_hash, display_name, role)
		VALUES ($1, $2, 'Test Admin', 'admin')
		RETURNING id`, email, string(hash)).Scan(&id)
	if err != nil {
		t.Fatalf("insert test user: %v", err)
	}

	t.Cleanup(func() {
		e.db.Exec(`DELETE FROM users WHERE id = $1`, id)
	})
	return id
}

// cleanBySlug removes products and categories created by a test.
func (e *testEnv) cleanBySlug(t *testing.T, table string, slugs ...string) {
	t.Helper()
	t.Cleanup(func() {
		for _, s := range slugs {
			e.db.Exec(`DELETE FROM `+table+` WHERE slug = $1`, s)
		}
	})
}

// cleanBrands removes brands by code.
func (e *testEnv) cleanBrands(t *testing.T, codes ...string) {
	t.Helper()
	t.Cleanup(func() {
		for _, c := range codes {
			e.db.Exec(`DELETE FROM brands WHERE brand_code = $1`, c)
		}
	})
}
