package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"github.com/nerufirm/appneruf/internal/chatwork"
	"github.com/nerufirm/appneruf/internal/service"
)

const refreshTimeout = 30 * time.Second

// NameMapRefresher 名寄せ映射的强制刷新（*service.NameMapResolver 满足）
type NameMapRefresher interface {
	Refresh(ctx context.Context) (*service.NameMap, error)
}

// Scheduler 后台定时任务
type Scheduler struct {
	s      gocron.Scheduler
	logger *zap.Logger
}

// New 创建调度器（未启动）
func New(logger *zap.Logger) (*Scheduler, error) {
	s, err := gocron.NewScheduler(gocron.WithLocation(chatwork.JST))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &Scheduler{s: s, logger: logger}, nil
}

// AddNameMapRefresh 每 interval 预热一次名寄せ映射，使推送请求命中缓存
func (sc *Scheduler) AddNameMapRefresh(refresher NameMapRefresher, interval time.Duration) error {
	_, err := sc.s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			sc.refreshNameMap(refresher)
		}),
		gocron.WithName("name-map-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule name map refresh: %w", err)
	}
	sc.logger.Info("Job scheduled", zap.String("name", "name-map-refresh"), zap.Duration("interval", interval))
	return nil
}

func (sc *Scheduler) refreshNameMap(refresher NameMapRefresher) {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	m, err := refresher.Refresh(ctx)
	if err != nil {
		sc.logger.Warn("Name map refresh failed", zap.Error(err))
		return
	}
	sc.logger.Debug("Name map refreshed", zap.Int("entries", m.Len()))
}

func (sc *Scheduler) Start() {
	sc.s.Start()
}

func (sc *Scheduler) Stop() error {
	if err := sc.s.Shutdown(); err != nil {
		return fmt.Errorf("failed to shutdown scheduler: %w", err)
	}
	return nil
}
