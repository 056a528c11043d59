package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"sync"
	"time"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"github.com/dinoadopta/dinoflap/pkg/ports"
)

// ErrInvalidUserID 用户ID格式非法
var ErrInvalidUserID = errors.New("invalid user id")

// ErrInsufficientPoints 余额不足
var ErrInsufficientPoints = errors.New("insufficient DinoPoints")

// userIDPattern 用户ID同时用作 gdata 属性名，只允许文件名安全的字符
var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,32}$`)

// 存储路径常量
const profilesObject = "profiles"

// Profile 玩家档案：DinoPoints 余额与小游戏成绩
type Profile struct {
	UserID        string    `yaml:"userId" json:"userId"`
	DinoPoints    int       `yaml:"dinoPoints" json:"dinoPoints"`
	BestScore     int       `yaml:"bestScore" json:"bestScore"`
	RunsPlayed    int       `yaml:"runsPlayed" json:"runsPlayed"`
	RewardsEarned int       `yaml:"rewardsEarned" json:"rewardsEarned"` // 小游戏累计发放的 DinoPoints
	LastPlayedAt  time.Time `yaml:"lastPlayedAt,omitempty" json:"lastPlayedAt,omitempty"`
}

// ProfileStore 玩家档案存储
//
// 每个玩家一个 YAML 文件（gdata object=profiles, prop=<userID>）。
// gdataManager 为 nil 时降级为纯内存存储，与 SettingsManager 的策略一致。
// 所有方法并发安全：本地 HTTP 服务和游戏进程都可能同时访问。
type ProfileStore struct {
	gdataManager *gdata.Manager

	mu       sync.Mutex
	profiles map[string]*Profile // 缓存（降级模式下即唯一存储）
}

// NewProfileStore 创建档案存储
//
// 参数:
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存）
func NewProfileStore(gdataManager *gdata.Manager) *ProfileStore {
	if gdataManager == nil {
		log.Printf("[ProfileStore] No gdata manager, profiles are kept in memory only")
	}
	return &ProfileStore{
		gdataManager: gdataManager,
		profiles:     make(map[string]*Profile),
	}
}

// ValidateUserID 校验用户ID
func ValidateUserID(userID string) error {
	if !userIDPattern.MatchString(userID) {
		return fmt.Errorf("%w: %q", ErrInvalidUserID, userID)
	}
	return nil
}

// Get 读取玩家档案，不存在时返回零值档案（不会创建文件）
func (ps *ProfileStore) Get(userID string) (Profile, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	p, err := ps.load(userID)
	if err != nil {
		return Profile{}, err
	}
	return *p, nil
}

// AddPoints 增加 DinoPoints，返回新余额
func (ps *ProfileStore) AddPoints(userID string, amount int) (int, error) {
	if err := ports.ValidateAmount(amount); err != nil {
		return 0, err
	}

	var balance int
	err := ps.update(userID, func(p *Profile) error {
		p.DinoPoints += amount
		p.RewardsEarned += amount
		balance = p.DinoPoints
		return nil
	})
	return balance, err
}

// SpendPoints 扣除 DinoPoints（领养恐龙等），余额不足时返回 ErrInsufficientPoints
func (ps *ProfileStore) SpendPoints(userID string, amount int) (int, error) {
	if err := ports.ValidateAmount(amount); err != nil {
		return 0, err
	}

	var balance int
	err := ps.update(userID, func(p *Profile) error {
		if p.DinoPoints < amount {
			return fmt.Errorf("%w: balance %d, need %d", ErrInsufficientPoints, p.DinoPoints, amount)
		}
		p.DinoPoints -= amount
		balance = p.DinoPoints
		return nil
	})
	return balance, err
}

// RecordRun 记录一局成绩，返回是否刷新了最佳成绩
func (ps *ProfileStore) RecordRun(userID string, finalScore int) (ports.RunResult, error) {
	if err := ports.ValidateScore(finalScore); err != nil {
		return ports.RunResult{}, err
	}

	var result ports.RunResult
	err := ps.update(userID, func(p *Profile) error {
		p.RunsPlayed++
		p.LastPlayedAt = time.Now().UTC()
		if finalScore > p.BestScore {
			p.BestScore = finalScore
			result.IsNewRecord = true
		}
		result.BestScore = p.BestScore
		return nil
	})
	return result, err
}

// update 在锁内读取-修改-写回，修改失败或写回失败时缓存保持原值
func (ps *ProfileStore) update(userID string, mutate func(p *Profile) error) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	current, err := ps.load(userID)
	if err != nil {
		return err
	}

	next := *current
	if err := mutate(&next); err != nil {
		return err
	}
	if err := ps.save(&next); err != nil {
		return err
	}

	ps.profiles[userID] = &next
	return nil
}

// load 调用方必须持有锁
func (ps *ProfileStore) load(userID string) (*Profile, error) {
	if err := ValidateUserID(userID); err != nil {
		return nil, err
	}
	if p, ok := ps.profiles[userID]; ok {
		return p, nil
	}

	p := &Profile{UserID: userID}
	if ps.gdataManager != nil && ps.gdataManager.ObjectPropExists(profilesObject, userID) {
		data, err := ps.gdataManager.LoadObjectProp(profilesObject, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load profile %s: %w", userID, err)
		}
		if err := yaml.Unmarshal(data, p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal profile %s: %w", userID, err)
		}
		p.UserID = userID
	}

	ps.profiles[userID] = p
	return p, nil
}

// save 调用方必须持有锁；降级模式下什么也不做
func (ps *ProfileStore) save(p *Profile) error {
	if ps.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal profile %s: %w", p.UserID, err)
	}
	if err := ps.gdataManager.SaveObjectProp(profilesObject, p.UserID, data); err != nil {
		return fmt.Errorf("failed to save profile %s: %w", p.UserID, err)
	}
	return nil
}

// ForUser 返回绑定到指定玩家的 RewardSink/ScoreSink（离线模式）
func (ps *ProfileStore) ForUser(userID string) (*LocalAccount, error) {
	if err := ValidateUserID(userID); err != nil {
		return nil, err
	}
	return &LocalAccount{store: ps, userID: userID}, nil
}

// LocalAccount 本地档案上的积分账户与成绩记录
type LocalAccount struct {
	store  *ProfileStore
	userID string
}

var _ ports.Sinks = (*LocalAccount)(nil)

// UserID 返回绑定的玩家ID
func (a *LocalAccount) UserID() string {
	return a.userID
}

// SubmitReward 实现 ports.RewardSink
func (a *LocalAccount) SubmitReward(ctx context.Context, points int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := a.store.AddPoints(a.userID, points)
	return err
}

// SubmitRunResult 实现 ports.ScoreSink
func (a *LocalAccount) SubmitRunResult(ctx context.Context, finalScore int) (ports.RunResult, error) {
	if err := ctx.Err(); err != nil {
		return ports.RunResult{}, err
	}
	return a.store.RecordRun(a.userID, finalScore)
}
