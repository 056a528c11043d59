package httpsink

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dinoadopta/dinoflap/pkg/api"
	"github.com/dinoadopta/dinoflap/pkg/game"
	"github.com/dinoadopta/dinoflap/pkg/ports"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		userID  string
		wantErr bool
	}{
		{"正常", "http://localhost:8080", "rex", false},
		{"缺少协议", "localhost:8080", "rex", true},
		{"空用户", "http://localhost:8080", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.baseURL, tt.userID)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestClient_AgainstAPI 客户端与本仓库的 REST 服务端到端联调
func TestClient_AgainstAPI(t *testing.T) {
	store := game.NewProfileStore(nil)
	srv := httptest.NewServer(api.SetupRoutes(store))
	defer srv.Close()

	client, err := New(srv.URL+"/", "rex")
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if err := client.SubmitReward(ctx, 20); err != nil {
		t.Fatalf("SubmitReward: %v", err)
	}
	result, err := client.SubmitRunResult(ctx, 33)
	if err != nil {
		t.Fatalf("SubmitRunResult: %v", err)
	}
	if !result.IsNewRecord || result.BestScore != 33 {
		t.Errorf("result = %+v", result)
	}

	p, _ := store.Get("rex")
	if p.DinoPoints != 20 || p.BestScore != 33 {
		t.Errorf("profile = %+v", p)
	}

	if err := client.SubmitReward(ctx, 0); !errors.Is(err, ports.ErrInvalidAmount) {
		t.Errorf("SubmitReward(0) error = %v", err)
	}
}

func TestClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"database unavailable"}`))
	}))
	defer srv.Close()

	client, _ := New(srv.URL, "rex")
	err := client.SubmitReward(context.Background(), 20)
	if err == nil || !strings.Contains(err.Error(), "database unavailable") {
		t.Errorf("error = %v, want server message", err)
	}
}

func TestClient_ContextTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client, _ := New(srv.URL, "rex")
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := client.SubmitRunResult(ctx, 5); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want DeadlineExceeded", err)
	}
}
