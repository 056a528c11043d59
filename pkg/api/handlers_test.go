package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dinoadopta/dinoflap/pkg/game"
)

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	h := SetupRoutes(game.NewProfileStore(nil))

	rec := doRequest(t, h, http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	decodeBody(t, rec, &body)
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestPointsEndpoints(t *testing.T) {
	h := SetupRoutes(game.NewProfileStore(nil))

	tests := []struct {
		name        string
		method      string
		path        string
		body        string
		wantStatus  int
		wantBalance int
	}{
		{"入账", http.MethodPost, "/api/users/rex/points", `{"amount":20}`, http.StatusOK, 20},
		{"再次入账", http.MethodPost, "/api/users/rex/points", `{"amount":20}`, http.StatusOK, 40},
		{"非正数量", http.MethodPost, "/api/users/rex/points", `{"amount":0}`, http.StatusBadRequest, 0},
		{"坏请求体", http.MethodPost, "/api/users/rex/points", `{`, http.StatusBadRequest, 0},
		{"非法用户ID", http.MethodPost, "/api/users/bad.id/points", `{"amount":5}`, http.StatusBadRequest, 0},
		{"消费", http.MethodPost, "/api/users/rex/points/spend", `{"amount":15}`, http.StatusOK, 25},
		{"余额不足", http.MethodPost, "/api/users/rex/points/spend", `{"amount":100}`, http.StatusPaymentRequired, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, h, tt.method, tt.path, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %q)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				var body map[string]string
				decodeBody(t, rec, &body)
				if body["error"] == "" {
					t.Errorf("error body = %v", body)
				}
				return
			}
			var body pointsResponse
			decodeBody(t, rec, &body)
			if body.DinoPoints != tt.wantBalance {
				t.Errorf("dinoPoints = %d, want %d", body.DinoPoints, tt.wantBalance)
			}
		})
	}
}

func TestRunsAndProfile(t *testing.T) {
	h := SetupRoutes(game.NewProfileStore(nil))

	var result struct {
		IsNewRecord bool `json:"isNewRecord"`
		BestScore   int  `json:"bestScore"`
	}

	rec := doRequest(t, h, http.MethodPost, "/api/users/rex/runs", `{"finalScore":14}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	decodeBody(t, rec, &result)
	if !result.IsNewRecord || result.BestScore != 14 {
		t.Errorf("first run = %+v", result)
	}

	rec = doRequest(t, h, http.MethodPost, "/api/users/rex/runs", `{"finalScore":9}`)
	decodeBody(t, rec, &result)
	if result.IsNewRecord || result.BestScore != 14 {
		t.Errorf("second run = %+v", result)
	}

	rec = doRequest(t, h, http.MethodPost, "/api/users/rex/runs", `{"finalScore":-1}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("negative score status = %d", rec.Code)
	}

	rec = doRequest(t, h, http.MethodGet, "/api/users/rex", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("profile status = %d", rec.Code)
	}
	var profile game.Profile
	decodeBody(t, rec, &profile)
	if profile.UserID != "rex" || profile.BestScore != 14 || profile.RunsPlayed != 2 {
		t.Errorf("profile = %+v", profile)
	}
}
