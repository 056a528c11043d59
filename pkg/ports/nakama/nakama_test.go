package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"

	"github.com/dinoadopta/dinoflap/pkg/ports"
)

// mockNakama 只实现钱包和账户相关方法，其余方法调用会 panic
type mockNakama struct {
	runtime.NakamaModule

	wallets   map[string]map[string]int64
	metadata  map[string]string
	ledger    []map[string]interface{}
	updates   int
	walletErr error
}

func newMockNakama() *mockNakama {
	return &mockNakama{
		wallets:  make(map[string]map[string]int64),
		metadata: make(map[string]string),
	}
}

func (m *mockNakama) AccountGetId(ctx context.Context, userID string) (*api.Account, error) {
	wallet, _ := json.Marshal(m.wallets[userID])
	return &api.Account{
		User:   &api.User{Id: userID, Metadata: m.metadata[userID]},
		Wallet: string(wallet),
	}, nil
}

func (m *mockNakama) WalletUpdate(ctx context.Context, userID string, changeset map[string]int64, metadata map[string]interface{}, updateLedger bool) (map[string]int64, map[string]int64, error) {
	if m.walletErr != nil {
		return nil, nil, m.walletErr
	}
	if _, ok := m.wallets[userID]; !ok {
		m.wallets[userID] = make(map[string]int64)
	}
	prev := make(map[string]int64)
	for k, v := range m.wallets[userID] {
		prev[k] = v
	}
	for k, v := range changeset {
		m.wallets[userID][k] += v
	}
	if updateLedger {
		m.ledger = append(m.ledger, metadata)
	}
	updated := make(map[string]int64)
	for k, v := range m.wallets[userID] {
		updated[k] = v
	}
	return updated, prev, nil
}

func (m *mockNakama) AccountUpdateId(ctx context.Context, userID, username string, metadata map[string]interface{}, displayName, timezone, location, langTag, avatarUrl string) error {
	data, err := json.Marshal(metadata)
	if err != nil {
		return err
	}
	m.metadata[userID] = string(data)
	m.updates++
	return nil
}

// mockInitializer 记录注册的 RPC
type mockInitializer struct {
	runtime.Initializer
	rpcs map[string]func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error)
}

func (m *mockInitializer) RegisterRpc(id string, fn func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error)) error {
	if m.rpcs == nil {
		m.rpcs = make(map[string]func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error))
	}
	m.rpcs[id] = fn
	return nil
}

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

func userCtx(userID string) context.Context {
	return context.WithValue(context.Background(), runtime.RUNTIME_CTX_USER_ID, userID)
}

func TestEconomyAdapter(t *testing.T) {
	nk := newMockNakama()
	economy := NewEconomyAdapter(nk)
	ctx := context.Background()

	balance, err := economy.AddPoints(ctx, "u1", 20, map[string]interface{}{"source": "test"})
	if err != nil || balance != 20 {
		t.Fatalf("AddPoints = (%d, %v), want (20, nil)", balance, err)
	}
	if _, err := economy.AddPoints(ctx, "u1", -5, nil); !errors.Is(err, ports.ErrInvalidAmount) {
		t.Errorf("AddPoints(-5) error = %v", err)
	}

	got, err := economy.GetBalance(ctx, "u1")
	if err != nil || got != 20 {
		t.Errorf("GetBalance = (%d, %v), want (20, nil)", got, err)
	}
	if len(nk.ledger) != 1 {
		t.Errorf("ledger entries = %d, want 1", len(nk.ledger))
	}

	nk.walletErr = errors.New("db down")
	if _, err := economy.AddPoints(ctx, "u1", 20, nil); err == nil {
		t.Error("wallet failure not reported")
	}
}

// TestEconomyAdapter_ReturnsNewBalance WalletUpdate 先返回更新后的钱包，再返回更新前的
func TestEconomyAdapter_ReturnsNewBalance(t *testing.T) {
	nk := newMockNakama()
	nk.wallets["u1"] = map[string]int64{WalletCurrency: 100}
	economy := NewEconomyAdapter(nk)

	balance, err := economy.AddPoints(context.Background(), "u1", 20, nil)
	if err != nil {
		t.Fatal(err)
	}
	if balance != 120 {
		t.Errorf("AddPoints = %d, want 120", balance)
	}

	out, err := RpcSubmitRewardHandler(userCtx("u1"), noopLogger{}, nil, nk, `{"points":20,"score":20}`)
	if err != nil {
		t.Fatal(err)
	}
	var resp submitRewardResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.DinoPoints != 140 {
		t.Errorf("dinoPoints = %d, want 140", resp.DinoPoints)
	}
}

func TestBestScoreAdapter(t *testing.T) {
	nk := newMockNakama()
	nk.metadata["u1"] = `{"favoriteDino":"trike"}`
	scores := NewBestScoreAdapter(nk)
	ctx := context.Background()

	steps := []struct {
		score      int
		wantRecord bool
		wantBest   int
	}{
		{10, true, 10},
		{7, false, 10},
		{10, false, 10},
		{25, true, 25},
	}
	for i, step := range steps {
		result, err := scores.RecordRun(ctx, "u1", step.score)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if result.IsNewRecord != step.wantRecord || result.BestScore != step.wantBest {
			t.Errorf("step %d: result = %+v", i, result)
		}
	}

	if nk.updates != 2 {
		t.Errorf("AccountUpdateId calls = %d, want 2 (only on new records)", nk.updates)
	}

	var metadata map[string]interface{}
	json.Unmarshal([]byte(nk.metadata["u1"]), &metadata)
	if metadata["favoriteDino"] != "trike" {
		t.Errorf("existing metadata lost: %v", metadata)
	}
	if metadata[BestScoreMetadataKey] != float64(25) {
		t.Errorf("best score metadata = %v", metadata[BestScoreMetadataKey])
	}
}

func TestUserSinks(t *testing.T) {
	nk := newMockNakama()
	sinks := NewUserSinks(NewEconomyAdapter(nk), NewBestScoreAdapter(nk), "u2")
	ctx := context.Background()

	if err := sinks.SubmitReward(ctx, 20); err != nil {
		t.Fatal(err)
	}
	result, err := sinks.SubmitRunResult(ctx, 3)
	if err != nil || !result.IsNewRecord {
		t.Fatalf("SubmitRunResult = (%+v, %v)", result, err)
	}
	if nk.wallets["u2"][WalletCurrency] != 20 {
		t.Errorf("wallet = %v", nk.wallets["u2"])
	}
}

func TestInitModule_RegistersRPCs(t *testing.T) {
	initializer := &mockInitializer{}
	if err := InitModule(context.Background(), noopLogger{}, nil, newMockNakama(), initializer); err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{RpcSubmitReward, RpcSubmitRun} {
		if initializer.rpcs[id] == nil {
			t.Errorf("RPC %q not registered", id)
		}
	}
}

func TestRpcSubmitReward(t *testing.T) {
	nk := newMockNakama()

	tests := []struct {
		name    string
		ctx     context.Context
		payload string
		wantErr bool
		want    int64
	}{
		{"正常入账", userCtx("u1"), `{"points":20,"score":10}`, false, 20},
		{"累计入账", userCtx("u1"), `{"points":20,"score":20}`, false, 40},
		{"缺少用户", context.Background(), `{"points":20}`, true, 0},
		{"坏 payload", userCtx("u1"), `not json`, true, 0},
		{"非正数量", userCtx("u1"), `{"points":0}`, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := RpcSubmitRewardHandler(tt.ctx, noopLogger{}, nil, nk, tt.payload)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			var resp submitRewardResponse
			if err := json.Unmarshal([]byte(out), &resp); err != nil {
				t.Fatal(err)
			}
			if resp.DinoPoints != tt.want {
				t.Errorf("dinoPoints = %d, want %d", resp.DinoPoints, tt.want)
			}
		})
	}
}

func TestRpcSubmitRun(t *testing.T) {
	nk := newMockNakama()

	out, err := RpcSubmitRunHandler(userCtx("u1"), noopLogger{}, nil, nk, `{"finalScore":42}`)
	if err != nil {
		t.Fatal(err)
	}
	var result ports.RunResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatal(err)
	}
	if !result.IsNewRecord || result.BestScore != 42 {
		t.Errorf("result = %+v", result)
	}

	if _, err := RpcSubmitRunHandler(userCtx("u1"), noopLogger{}, nil, nk, `{"finalScore":-3}`); err == nil {
		t.Error("negative score accepted")
	}
	if _, err := RpcSubmitRunHandler(context.Background(), noopLogger{}, nil, nk, `{"finalScore":1}`); err == nil {
		t.Error("missing user accepted")
	}
}
