package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"DailyHaiku/internal/model"
	"DailyHaiku/internal/repository"
	"DailyHaiku/internal/season"
)

// closingContent 所有俳句都已分配后返回的固定文本
const closingContent = "Se han leído todos los haikus.\nEl jardín descansa en silencio:\ngracias por volver."

// PoemView 面向客户端的俳句视图（附带关键词与图片地址）
type PoemView struct {
	ID       uint64   `json:"id"`
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Content  string   `json:"content"`
	Haiku    string   `json:"haiku"` // 与 content 相同，兼容旧版前端
	Season   string   `json:"season"`
	Keywords []string `json:"keywords"`
	ImageURL string   `json:"image_url"`
	Notes    *string  `json:"notes,omitempty"`
	Source   *string  `json:"source,omitempty"`
	Date     string   `json:"date,omitempty"`
	// 收尾视图专用
	Closing   bool `json:"closing,omitempty"`
	TotalUsed *int `json:"total_used,omitempty"`
}

// ViewBuilder 把俳句记录装饰为 PoemView
type ViewBuilder struct {
	repo         repository.HaikuRepository
	assetBaseURL string
}

// NewViewBuilder 创建 ViewBuilder，assetBaseURL 为图片存储桶地址（不带结尾斜杠）
func NewViewBuilder(repo repository.HaikuRepository, assetBaseURL string) *ViewBuilder {
	return &ViewBuilder{repo: repo, assetBaseURL: assetBaseURL}
}

// ImageURL 俳句配图地址
func (b *ViewBuilder) ImageURL(id uint64) string {
	return fmt.Sprintf("%s/haiku_%d.png", b.assetBaseURL, id)
}

// Resolve 按分配记录中的 haiku_id 取完整视图；俳句缺失属于数据不一致
func (b *ViewBuilder) Resolve(ctx context.Context, haikuID uint64, day time.Time) (*PoemView, error) {
	h, err := b.repo.GetHaiku(ctx, haikuID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s 的分配记录指向不存在的俳句 %d", ErrInvariant, day.Format(time.DateOnly), haikuID)
		}
		return nil, fmt.Errorf("%w: 查询俳句 %d 失败: %w", ErrDependency, haikuID, err)
	}
	return b.Build(ctx, h, day)
}

// Build 为已加载的俳句补充关键词与图片地址
func (b *ViewBuilder) Build(ctx context.Context, h *model.Haiku, day time.Time) (*PoemView, error) {
	keywords, err := b.repo.ListKeywords(ctx, h.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: 查询俳句 %d 关键词失败: %w", ErrDependency, h.ID, err)
	}
	if keywords == nil {
		keywords = []string{}
	}
	v := &PoemView{
		ID:       h.ID,
		Title:    h.Title,
		Author:   h.Author,
		Content:  h.Content,
		Haiku:    h.Content,
		Season:   h.Season,
		Keywords: keywords,
		ImageURL: b.ImageURL(h.ID),
		Notes:    h.Notes,
		Source:   h.Source,
	}
	if !day.IsZero() {
		v.Date = day.Format(time.DateOnly)
	}
	return v, nil
}

// ClosingView 俳句耗尽后的合成视图，不落库
func ClosingView(totalUsed int) *PoemView {
	return &PoemView{
		Title:     "Fin",
		Author:    "Daily Haiku",
		Content:   closingContent,
		Haiku:     closingContent,
		Season:    string(season.Eternal),
		Keywords:  []string{},
		Closing:   true,
		TotalUsed: &totalUsed,
	}
}
