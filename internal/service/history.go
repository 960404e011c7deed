package service

import (
	"context"
	"fmt"
	"math"

	"DailyHaiku/internal/repository"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
	// historyResolveWorkers 单页并发装饰的上限
	historyResolveWorkers = 8
)

// HistoryPage 历史分页结果
type HistoryPage struct {
	Items    []*PoemView `json:"items"`
	NextPage *int        `json:"nextPage"`
}

// HistoryService 历史每日俳句查询
type HistoryService struct {
	repo   repository.HaikuRepository
	views  *ViewBuilder
	logger *logrus.Logger
}

// NewHistoryService 创建 HistoryService
func NewHistoryService(repo repository.HaikuRepository, views *ViewBuilder, logger *logrus.Logger) *HistoryService {
	return &HistoryService{repo: repo, views: views, logger: logger}
}

// List 按日期倒序分页。返回条数等于 limit 时认为可能还有下一页（不单独 count）
func (s *HistoryService) List(ctx context.Context, page, limit int) (*HistoryPage, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: page 必须 >= 1", ErrInvalidInput)
	}
	if limit < 1 || limit > MaxHistoryLimit {
		return nil, fmt.Errorf("%w: limit 必须在 1-%d 之间", ErrInvalidInput, MaxHistoryLimit)
	}

	// offset 超出 int 范围的页不可能有数据，直接返回空页
	if page-1 > (math.MaxInt-limit)/limit {
		return &HistoryPage{Items: []*PoemView{}}, nil
	}

	rows, err := s.repo.ListAssignments(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: 查询历史分配失败: %w", ErrDependency, err)
	}

	items := make([]*PoemView, len(rows))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(historyResolveWorkers)
	for i, row := range rows {
		g.Go(func() error {
			v, err := s.views.Resolve(gctx, row.HaikuID, row.Day())
			if err != nil {
				return err
			}
			items[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.WithError(err).WithField("page", page).Error("历史俳句装饰失败")
		return nil, err
	}

	result := &HistoryPage{Items: items}
	if len(rows) == limit && page < math.MaxInt {
		next := page + 1
		result.NextPage = &next
	}
	return result, nil
}
