package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"DailyHaiku/internal/model"
	"DailyHaiku/internal/repository"
	"DailyHaiku/internal/season"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// HaikuRecord 导入文件中的一条俳句
type HaikuRecord struct {
	Title    string   `yaml:"title"`
	Author   string   `yaml:"author"`
	Content  string   `yaml:"content"`
	Season   string   `yaml:"season"`
	Notes    string   `yaml:"notes"`
	Source   string   `yaml:"source"`
	Keywords []string `yaml:"keywords"`
}

// ImportService 俳句导入（运营新增俳句后，耗尽状态会自动恢复分配）
type ImportService struct {
	repo   repository.HaikuRepository
	logger *logrus.Logger
}

func NewImportService(repo repository.HaikuRepository, logger *logrus.Logger) *ImportService {
	return &ImportService{repo: repo, logger: logger}
}

// Import 读取 YAML 列表并逐条写入，先整体校验，有错误则不写任何数据
func (s *ImportService) Import(ctx context.Context, r io.Reader) (int, error) {
	var records []HaikuRecord
	if err := yaml.NewDecoder(r).Decode(&records); err != nil && err != io.EOF {
		return 0, fmt.Errorf("%w: 解析导入文件失败: %v", ErrInvalidInput, err)
	}

	rows := make([]*model.Haiku, 0, len(records))
	for i, rec := range records {
		h, err := rec.toModel()
		if err != nil {
			return 0, fmt.Errorf("%w: 第 %d 条: %v", ErrInvalidInput, i+1, err)
		}
		rows = append(rows, h)
	}

	for i, h := range rows {
		if err := s.repo.CreateHaiku(ctx, h, normalizeKeywords(records[i].Keywords)); err != nil {
			return i, fmt.Errorf("%w: %w", ErrDependency, err)
		}
	}
	s.logger.WithField("count", len(rows)).Info("俳句导入完成")
	return len(rows), nil
}

func (rec HaikuRecord) toModel() (*model.Haiku, error) {
	title := strings.TrimSpace(rec.Title)
	author := strings.TrimSpace(rec.Author)
	content := strings.TrimSpace(rec.Content)
	if title == "" || author == "" || content == "" {
		return nil, fmt.Errorf("title/author/content 不能为空")
	}
	sn, ok := season.Parse(strings.ToLower(strings.TrimSpace(rec.Season)))
	if !ok {
		return nil, fmt.Errorf("未知季节 %q", rec.Season)
	}
	h := &model.Haiku{Title: title, Author: author, Content: content, Season: sn.String()}
	if v := strings.TrimSpace(rec.Notes); v != "" {
		h.Notes = &v
	}
	if v := strings.TrimSpace(rec.Source); v != "" {
		h.Source = &v
	}
	return h, nil
}

func normalizeKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, kw := range in {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}
	return out
}
