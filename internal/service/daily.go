package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"DailyHaiku/internal/metrics"
	"DailyHaiku/internal/model"
	"DailyHaiku/internal/repository"
	"DailyHaiku/internal/season"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// RandSource 候选俳句的随机源，测试中可替换为固定种子
type RandSource interface {
	IntN(n int) int
}

// globalRand 包级随机源，可并发调用
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// DailyService 每日俳句分配服务
type DailyService struct {
	repo    repository.HaikuRepository
	views   *ViewBuilder
	loc     *time.Location
	rnd     RandSource
	now     func() time.Time
	metrics *metrics.Metrics
	logger  *logrus.Logger
}

// NewDailyService 创建 DailyService，使用全局随机源与系统时钟
func NewDailyService(repo repository.HaikuRepository, views *ViewBuilder, loc *time.Location, m *metrics.Metrics, logger *logrus.Logger) *DailyService {
	return NewDailyServiceWithDeps(repo, views, loc, m, logger, globalRand{}, time.Now)
}

// NewDailyServiceWithDeps 可注入随机源与时钟
func NewDailyServiceWithDeps(repo repository.HaikuRepository, views *ViewBuilder, loc *time.Location, m *metrics.Metrics, logger *logrus.Logger, rnd RandSource, now func() time.Time) *DailyService {
	if loc == nil {
		loc = time.UTC
	}
	if m == nil {
		m = metrics.New()
	}
	return &DailyService{
		repo:    repo,
		views:   views,
		loc:     loc,
		rnd:     rnd,
		now:     now,
		metrics: m,
		logger:  logger,
	}
}

// Today 固定时区下的当前日历日期（UTC 零点表示）
func (s *DailyService) Today() time.Time {
	return calendarDay(s.now().In(s.loc))
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// GetOrCreate 返回 today 的俳句，不存在时分配一首未用过的并写入
// 并发下同一天可能被两次分配，date 上的 upsert 保证后写者胜且不产生重复行
func (s *DailyService) GetOrCreate(ctx context.Context, today time.Time) (*PoemView, error) {
	if today.IsZero() {
		return nil, fmt.Errorf("%w: 日期为空", ErrInvalidInput)
	}
	day := calendarDay(today)
	log := s.logger.WithField("date", day.Format(time.DateOnly))

	// 1. 已分配则直接返回
	row, err := s.repo.FindAssignment(ctx, day)
	switch {
	case err == nil:
		v, err := s.views.Resolve(ctx, row.HaikuID, day)
		if errors.Is(err, ErrInvariant) {
			log.WithError(err).WithField("haiku_id", row.HaikuID).Error("分配记录引用的俳句不存在")
		}
		return v, err
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("%w: 查询分配记录失败: %w", ErrDependency, err)
	}

	// 2. 已用集合（全表扫描，数据量按天增长）
	usedIDs, err := s.repo.ListUsedHaikuIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: 查询已用俳句失败: %w", ErrDependency, err)
	}
	used := make(map[uint64]struct{}, len(usedIDs))
	for _, id := range usedIDs {
		used[id] = struct{}{}
	}

	// 3. 当季候选，空则放宽到全部季节
	current := season.Classify(day)
	pool := metrics.PoolSeasonal
	candidates, err := s.unused(ctx, string(current), used)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		log.WithField("season", current).Info("当季俳句已用完，放宽到全部季节")
		pool = metrics.PoolFallback
		if candidates, err = s.unused(ctx, "", used); err != nil {
			return nil, err
		}
	}

	// 4. 全部用完：返回收尾视图，不写库
	if len(candidates) == 0 {
		s.metrics.Exhausted.Inc()
		log.WithField("total_used", len(used)).Warn("所有俳句均已分配，返回收尾视图")
		return ClosingView(len(used)), nil
	}

	// 5. 均匀随机选取
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ID < candidates[j].ID })
	chosen := candidates[s.rnd.IntN(len(candidates))]
	if chosen.ID == 0 {
		err := fmt.Errorf("%w: 候选俳句缺少ID", ErrInvariant)
		log.WithError(err).WithField("candidates", len(candidates)).Error("候选俳句数据异常")
		return nil, err
	}

	// 6. 写入分配记录
	if err := s.repo.UpsertAssignment(ctx, &model.DailyHaiku{
		Date:    datatypes.Date(day),
		HaikuID: chosen.ID,
	}); err != nil {
		return nil, fmt.Errorf("%w: 写入分配记录失败: %w", ErrDependency, err)
	}
	s.metrics.Assignments.WithLabelValues(pool).Inc()
	log.WithField("haiku_id", chosen.ID).WithField("season", current).WithField("pool", pool).Info("每日俳句分配完成")

	// 7. 装饰后返回
	return s.views.Build(ctx, chosen, day)
}

// unused 按季节（空为全部）加载俳句并排除已用
func (s *DailyService) unused(ctx context.Context, seasonLabel string, used map[uint64]struct{}) ([]*model.Haiku, error) {
	list, err := s.repo.ListHaikus(ctx, seasonLabel)
	if err != nil {
		return nil, fmt.Errorf("%w: 查询俳句失败: %w", ErrDependency, err)
	}
	remaining := make([]*model.Haiku, 0, len(list))
	for _, h := range list {
		if h == nil {
			return nil, fmt.Errorf("%w: 俳句列表包含空记录", ErrInvariant)
		}
		if _, ok := used[h.ID]; !ok {
			remaining = append(remaining, h)
		}
	}
	return remaining, nil
}

// GetByDate 只读查询 YYYY-MM-DD 的分配记录，格式错误同样视为不存在
func (s *DailyService) GetByDate(ctx context.Context, date string) (*PoemView, error) {
	day, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return nil, fmt.Errorf("%w: 无法解析日期 %q", ErrNotFound, date)
	}
	row, err := s.repo.FindAssignment(ctx, day)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s 没有分配记录", ErrNotFound, date)
		}
		return nil, fmt.Errorf("%w: 查询分配记录失败: %w", ErrDependency, err)
	}
	v, err := s.views.Resolve(ctx, row.HaikuID, day)
	if errors.Is(err, ErrInvariant) {
		s.logger.WithError(err).WithField("date", date).Error("分配记录引用的俳句不存在")
	}
	return v, err
}

// GetToday 只读查询今天的分配记录
func (s *DailyService) GetToday(ctx context.Context) (*PoemView, error) {
	return s.GetByDate(ctx, s.Today().Format(time.DateOnly))
}
