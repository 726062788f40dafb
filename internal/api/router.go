package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/erazemk/rewear/internal/model"
	"github.com/erazemk/rewear/internal/swap"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string, ledger *swap.Ledger, tokenTTL time.Duration) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret, TokenTTL: tokenTTL}
	itemsHandler := &ItemsHandler{DB: db}
	swapsHandler := &SwapsHandler{Ledger: ledger}
	adminHandler := &AdminHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	requireAdmin := RequireRole(model.RoleAdmin)

	// Public.
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("GET /api/items", itemsHandler.List)
	mux.HandleFunc("GET /api/items/{id}", itemsHandler.Get)
	mux.HandleFunc("GET /api/items/{id}/photo", itemsHandler.GetPhoto)

	// Account.
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("GET /api/auth/me", authMW(http.HandlerFunc(authHandler.Me)))
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))

	// Listings (owner only for writes).
	mux.Handle("POST /api/items", authMW(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("PUT /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Update)))
	mux.Handle("DELETE /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Delete)))
	mux.Handle("PUT /api/items/{id}/photo", authMW(http.HandlerFunc(itemsHandler.UploadPhoto)))
	mux.Handle("GET /api/my-items", authMW(http.HandlerFunc(itemsHandler.Mine)))
	mux.Handle("GET /api/available-items", authMW(http.HandlerFunc(itemsHandler.Available)))

	// Swaps and messages (participants).
	mux.Handle("POST /api/swaps", authMW(http.HandlerFunc(swapsHandler.Create)))
	mux.Handle("GET /api/swaps", authMW(http.HandlerFunc(swapsHandler.List)))
	mux.Handle("GET /api/swaps/{id}", authMW(http.HandlerFunc(swapsHandler.Get)))
	mux.Handle("PATCH /api/swaps/{id}", authMW(http.HandlerFunc(swapsHandler.Update)))
	mux.Handle("DELETE /api/swaps/{id}", authMW(http.HandlerFunc(swapsHandler.Delete)))
	mux.Handle("GET /api/swaps/{id}/messages", authMW(http.HandlerFunc(swapsHandler.Messages)))
	mux.Handle("POST /api/swaps/{id}/messages", authMW(http.HandlerFunc(swapsHandler.SendMessage)))
	mux.Handle("POST /api/swaps/{id}/read", authMW(http.HandlerFunc(swapsHandler.MarkRead)))

	// Moderation (admin only).
	mux.Handle("GET /api/admin/users", authMW(requireAdmin(http.HandlerFunc(adminHandler.Users))))
	mux.Handle("PUT /api/admin/users/{id}/suspend", authMW(requireAdmin(http.HandlerFunc(adminHandler.Suspend))))
	mux.Handle("DELETE /api/admin/items/{id}", authMW(requireAdmin(http.HandlerFunc(adminHandler.RemoveItem))))
	mux.Handle("GET /api/admin/stats", authMW(requireAdmin(http.HandlerFunc(adminHandler.Stats))))

	return mux
}
