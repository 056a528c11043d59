package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dinoadopta/dinoflap/pkg/game"
	"github.com/dinoadopta/dinoflap/pkg/ports"
)

// UserHandler 玩家档案相关接口
type UserHandler struct {
	store *game.ProfileStore
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(store *game.ProfileStore) *UserHandler {
	return &UserHandler{store: store}
}

type pointsRequest struct {
	Amount int `json:"amount"`
}

type pointsResponse struct {
	DinoPoints int `json:"dinoPoints"`
}

type runRequest struct {
	FinalScore int `json:"finalScore"`
}

// GetProfile handles GET /api/users/{userID}
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.store.Get(chi.URLParam(r, "userID"))
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// AddPoints handles POST /api/users/{userID}/points
func (h *UserHandler) AddPoints(w http.ResponseWriter, r *http.Request) {
	var req pointsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	balance, err := h.store.AddPoints(chi.URLParam(r, "userID"), req.Amount)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, pointsResponse{DinoPoints: balance})
}

// SpendPoints handles POST /api/users/{userID}/points/spend
func (h *UserHandler) SpendPoints(w http.ResponseWriter, r *http.Request) {
	var req pointsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	balance, err := h.store.SpendPoints(chi.URLParam(r, "userID"), req.Amount)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, pointsResponse{DinoPoints: balance})
}

// SubmitRun handles POST /api/users/{userID}/runs
func (h *UserHandler) SubmitRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.store.RecordRun(chi.URLParam(r, "userID"), req.FinalScore)
	if err != nil {
		h.respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// respondStoreError 把存储层的哨兵错误映射为 HTTP 状态码
func (h *UserHandler) respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrInvalidUserID):
		respondError(w, http.StatusBadRequest, "Invalid user id")
	case errors.Is(err, ports.ErrInvalidAmount), errors.Is(err, ports.ErrInvalidScore):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, game.ErrInsufficientPoints):
		respondError(w, http.StatusPaymentRequired, "Not enough DinoPoints")
	default:
		log.Printf("[API] store error: %v", err)
		respondError(w, http.StatusInternalServerError, "Internal error")
	}
}
