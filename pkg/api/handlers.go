// Package api 提供 DinoPoints 账户和小游戏成绩的 REST 接口（chi 路由）。
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dinoadopta/dinoflap/pkg/game"
)

// SetupRoutes 配置全部路由并返回 router
func SetupRoutes(store *game.ProfileStore) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.Timeout(10 * time.Second))

	users := NewUserHandler(store)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/", users.GetProfile)
			r.Post("/points", users.AddPoints)
			r.Post("/points/spend", users.SpendPoints)
			r.Post("/runs", users.SubmitRun)
		})
	})

	return r
}

// respondJSON 写 JSON 响应
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[API] Error encoding JSON: %v", err)
	}
}

// respondError 写错误响应 {"error": message}
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
