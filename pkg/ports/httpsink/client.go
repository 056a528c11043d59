// Package httpsink 通过 REST 接口把奖励和成绩提交给 DinoAdopta 后端。
package httpsink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dinoadopta/dinoflap/pkg/ports"
)

// Client 后端 REST 客户端，实现 ports.RewardSink 和 ports.ScoreSink
//
// 每次调用只发一个请求，不重试；超时由调用方的 ctx 控制。
type Client struct {
	baseURL    string
	userID     string
	httpClient *http.Client
}

var _ ports.Sinks = (*Client)(nil)

// New 创建客户端
//
// 参数:
//   - baseURL: 后端地址，如 "http://localhost:8080"
//   - userID: 当前玩家
func New(baseURL, userID string) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q", baseURL)
	}
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userID:     userID,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// SubmitReward POST /api/users/{userID}/points
func (c *Client) SubmitReward(ctx context.Context, points int) error {
	if err := ports.ValidateAmount(points); err != nil {
		return err
	}
	return c.post(ctx, "/points", map[string]int{"amount": points}, nil)
}

// SubmitRunResult POST /api/users/{userID}/runs
func (c *Client) SubmitRunResult(ctx context.Context, finalScore int) (ports.RunResult, error) {
	if err := ports.ValidateScore(finalScore); err != nil {
		return ports.RunResult{}, err
	}
	var result ports.RunResult
	err := c.post(ctx, "/runs", map[string]int{"finalScore": finalScore}, &result)
	return result, err
}

func (c *Client) post(ctx context.Context, suffix string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := c.baseURL + "/api/users/" + url.PathEscape(c.userID) + suffix
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", suffix, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("POST %s: %s (%d)", suffix, apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("POST %s: unexpected status %d", suffix, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
