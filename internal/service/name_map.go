package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/nerufirm/appneruf/internal/chatwork"
	"github.com/nerufirm/appneruf/internal/domain"
)

// DefaultNameMapTTL 名寄せ映射缓存有效期
const DefaultNameMapTTL = 5 * time.Minute

// nameMapLoadTimeout 单次名册读取的上限（与调用方的 ctx 无关）
const nameMapLoadTimeout = 30 * time.Second

// ErrNameMapLoad 名册读取失败（整批处理中止）
var ErrNameMapLoad = errors.New("name map load failed")

// RosterReader 名册来源（repository.ResidentsRepository 满足）
type RosterReader interface {
	ListRoster(ctx context.Context) ([]domain.ResidentName, error)
}

// Clock 可注入的时钟（测试用）
type Clock func() time.Time

// NameMap 规范化姓名 → 入居者ID 的不可变快照
type NameMap struct {
	ids       map[string]string
	ambiguous map[string][]string
	loadedAt  time.Time
}

// BuildNameMap 由名册构建映射
// 多个不同入居者规范化后得到同一个 key 时，该 key 视为歧义，不参与解析
func BuildNameMap(roster []domain.ResidentName, loadedAt time.Time) *NameMap {
	ids := make(map[string]string, len(roster))
	ambiguous := map[string][]string{}
	for _, r := range roster {
		key := chatwork.NormalizeName(r.Name)
		if key == "" || r.ID == "" {
			continue
		}
		if prev, seen := ambiguous[key]; seen {
			ambiguous[key] = appendUnique(prev, r.ID)
			continue
		}
		if prev, ok := ids[key]; ok && prev != r.ID {
			delete(ids, key)
			ambiguous[key] = []string{prev, r.ID}
			continue
		}
		ids[key] = r.ID
	}
	return &NameMap{ids: ids, ambiguous: ambiguous, loadedAt: loadedAt}
}

func appendUnique(list []string, id string) []string {
	for _, v := range list {
		if v == id {
			return list
		}
	}
	return append(list, id)
}

// Lookup key 需为 NormalizeName 的输出
func (m *NameMap) Lookup(key string) (string, bool) {
	if m == nil {
		return "", false
	}
	id, ok := m.ids[key]
	return id, ok
}

func (m *NameMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.ids)
}

// Ambiguous 歧义 key 及其候选入居者ID
func (m *NameMap) Ambiguous() map[string][]string {
	if m == nil {
		return nil
	}
	return m.ambiguous
}

func (m *NameMap) LoadedAt() time.Time {
	if m == nil {
		return time.Time{}
	}
	return m.loadedAt
}

// NameMapResolver 带 TTL 的名寄せ映射缓存
// 由组合方持有并注入，过期或失效后从名册整体重建；并发重建共享同一次读取
type NameMapResolver struct {
	roster RosterReader
	clock  Clock
	ttl    time.Duration
	logger *zap.Logger

	mu      sync.RWMutex
	current *NameMap
	group   singleflight.Group
}

// NewNameMapResolver 创建解析器；clock 为 nil 时使用 time.Now，ttl<=0 时使用默认值
func NewNameMapResolver(roster RosterReader, clock Clock, ttl time.Duration, logger *zap.Logger) *NameMapResolver {
	if clock == nil {
		clock = time.Now
	}
	if ttl <= 0 {
		ttl = DefaultNameMapTTL
	}
	return &NameMapResolver{
		roster: roster,
		clock:  clock,
		ttl:    ttl,
		logger: logger,
	}
}

// Resolve 返回有效的映射快照，必要时重建
func (r *NameMapResolver) Resolve(ctx context.Context) (*NameMap, error) {
	r.mu.RLock()
	current := r.current
	r.mu.RUnlock()

	if current != nil && r.clock().Sub(current.loadedAt) < r.ttl {
		return current, nil
	}
	return r.reload(ctx)
}

// Refresh 强制重建（定时任务使用）
func (r *NameMapResolver) Refresh(ctx context.Context) (*NameMap, error) {
	return r.reload(ctx)
}

// Invalidate 丢弃当前快照，下次 Resolve 时重建
func (r *NameMapResolver) Invalidate() {
	r.mu.Lock()
	r.current = nil
	r.mu.Unlock()
}

// reload 并发调用共享同一次读取
// 读取使用脱离调用方取消的 ctx（上限 nameMapLoadTimeout），某个调用方取消只影响它自己
func (r *NameMapResolver) reload(ctx context.Context) (*NameMap, error) {
	ch := r.group.DoChan("roster", func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), nameMapLoadTimeout)
		defer cancel()

		roster, err := r.roster.ListRoster(loadCtx)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNameMapLoad, err)
		}
		m := BuildNameMap(roster, r.clock())
		for key, ids := range m.ambiguous {
			r.logger.Warn("Ambiguous resident name key excluded from name map",
				zap.String("key", key),
				zap.Strings("resident_ids", ids),
			)
		}

		r.mu.Lock()
		r.current = m
		r.mu.Unlock()

		r.logger.Debug("Name map reloaded",
			zap.Int("entries", m.Len()),
			zap.Int("ambiguous", len(m.ambiguous)),
		)
		return m, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrNameMapLoad, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*NameMap), nil
	}
}
