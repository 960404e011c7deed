package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"DailyHaiku/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("record not found")

// HaikuRepository 俳句与每日分配的存储接口
type HaikuRepository interface {
	// FindAssignment 查询某日的分配记录，不存在返回 ErrNotFound
	FindAssignment(ctx context.Context, day time.Time) (*model.DailyHaiku, error)
	// UpsertAssignment 按 date 写入分配记录，冲突时覆盖 haiku_id（后写者胜）
	UpsertAssignment(ctx context.Context, row *model.DailyHaiku) error
	// ListUsedHaikuIDs 所有历史分配过的俳句ID（可能含重复）
	ListUsedHaikuIDs(ctx context.Context) ([]uint64, error)
	// ListHaikus 按季节查询俳句，season 为空时返回全部
	ListHaikus(ctx context.Context, season string) ([]*model.Haiku, error)
	// GetHaiku 通过 id 获取俳句，不存在返回 ErrNotFound
	GetHaiku(ctx context.Context, id uint64) (*model.Haiku, error)
	// ListKeywords 俳句的关键词列表
	ListKeywords(ctx context.Context, haikuID uint64) ([]string, error)
	// ListAssignments 按日期倒序分页查询分配记录
	ListAssignments(ctx context.Context, offset, limit int) ([]*model.DailyHaiku, error)
	// CreateHaiku 导入俳句及其关键词
	CreateHaiku(ctx context.Context, h *model.Haiku, keywords []string) error
	// Ping 存储连通性检查
	Ping(ctx context.Context) error
}

type haikuRepository struct {
	db *gorm.DB
}

// NewHaikuRepository 创建基于 GORM 的 HaikuRepository
func NewHaikuRepository(db *gorm.DB) HaikuRepository {
	return &haikuRepository{db: db}
}

func (r *haikuRepository) FindAssignment(ctx context.Context, day time.Time) (*model.DailyHaiku, error) {
	var row model.DailyHaiku
	if err := r.db.WithContext(ctx).
		Where("date = ?", datatypes.Date(day)).
		First(&row).Error; err != nil {
		return nil, notFound(err)
	}
	return &row, nil
}

func (r *haikuRepository) UpsertAssignment(ctx context.Context, row *model.DailyHaiku) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"haiku_id"}),
	}).Create(row).Error
}

func (r *haikuRepository) ListUsedHaikuIDs(ctx context.Context) ([]uint64, error) {
	var ids []uint64
	if err := r.db.WithContext(ctx).Model(&model.DailyHaiku{}).
		Pluck("haiku_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *haikuRepository) ListHaikus(ctx context.Context, season string) ([]*model.Haiku, error) {
	db := r.db.WithContext(ctx).Model(&model.Haiku{})
	if season != "" {
		db = db.Where("season = ?", season)
	}
	var list []*model.Haiku
	if err := db.Order("id ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *haikuRepository) GetHaiku(ctx context.Context, id uint64) (*model.Haiku, error) {
	var h model.Haiku
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&h).Error; err != nil {
		return nil, notFound(err)
	}
	return &h, nil
}

func (r *haikuRepository) ListKeywords(ctx context.Context, haikuID uint64) ([]string, error) {
	keywords := []string{}
	if err := r.db.WithContext(ctx).Model(&model.Keyword{}).
		Where("haiku_id = ?", haikuID).
		Order("id ASC").
		Pluck("keyword", &keywords).Error; err != nil {
		return nil, err
	}
	return keywords, nil
}

func (r *haikuRepository) ListAssignments(ctx context.Context, offset, limit int) ([]*model.DailyHaiku, error) {
	// gorm 会忽略负数 offset，这里按越界处理
	if offset < 0 || limit <= 0 {
		return []*model.DailyHaiku{}, nil
	}
	var rows []*model.DailyHaiku
	if err := r.db.WithContext(ctx).
		Order("date DESC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *haikuRepository) CreateHaiku(ctx context.Context, h *model.Haiku, keywords []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(h).Error; err != nil {
			return fmt.Errorf("保存Haiku失败: %w, title: %s", err, h.Title)
		}
		for _, kw := range keywords {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&model.Keyword{HaikuID: h.ID, Keyword: kw}).Error; err != nil {
				return fmt.Errorf("保存Keyword失败: %w, haiku_id: %d", err, h.ID)
			}
		}
		return nil
	})
}

func (r *haikuRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
