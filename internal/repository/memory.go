package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"DailyHaiku/internal/model"

	"gorm.io/datatypes"
)

// MemoryRepository 进程内实现，用于本地运行（database.driver=memory）与测试
type MemoryRepository struct {
	mu          sync.RWMutex
	haikus      map[uint64]model.Haiku
	keywords    map[uint64][]string
	assignments map[string]model.DailyHaiku
	nextID      uint64
}

// NewMemoryRepository 创建空的内存仓储
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		haikus:      make(map[uint64]model.Haiku),
		keywords:    make(map[uint64][]string),
		assignments: make(map[string]model.DailyHaiku),
		nextID:      1,
	}
}

func dayKey(day time.Time) string {
	return day.Format(time.DateOnly)
}

func (m *MemoryRepository) FindAssignment(_ context.Context, day time.Time) (*model.DailyHaiku, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	row, ok := m.assignments[dayKey(day)]
	if !ok {
		return nil, ErrNotFound
	}
	return &row, nil
}

func (m *MemoryRepository) UpsertAssignment(_ context.Context, row *model.DailyHaiku) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := dayKey(row.Day())
	stored := *row
	if existing, ok := m.assignments[key]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	m.assignments[key] = stored
	return nil
}

func (m *MemoryRepository) ListUsedHaikuIDs(_ context.Context) ([]uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]uint64, 0, len(m.assignments))
	for _, row := range m.assignments {
		ids = append(ids, row.HaikuID)
	}
	return ids, nil
}

func (m *MemoryRepository) ListHaikus(_ context.Context, season string) ([]*model.Haiku, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := make([]*model.Haiku, 0, len(m.haikus))
	for _, h := range m.haikus {
		if season != "" && h.Season != season {
			continue
		}
		h := h
		list = append(list, &h)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (m *MemoryRepository) GetHaiku(_ context.Context, id uint64) (*model.Haiku, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.haikus[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &h, nil
}

func (m *MemoryRepository) ListKeywords(_ context.Context, haikuID uint64) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string{}, m.keywords[haikuID]...), nil
}

func (m *MemoryRepository) ListAssignments(_ context.Context, offset, limit int) ([]*model.DailyHaiku, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.assignments))
	for k := range m.assignments {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	if offset < 0 || limit <= 0 || offset >= len(keys) {
		return []*model.DailyHaiku{}, nil
	}
	end := len(keys)
	if limit < end-offset {
		end = offset + limit
	}
	rows := make([]*model.DailyHaiku, 0, end-offset)
	for _, k := range keys[offset:end] {
		row := m.assignments[k]
		rows = append(rows, &row)
	}
	return rows, nil
}

func (m *MemoryRepository) CreateHaiku(_ context.Context, h *model.Haiku, keywords []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h.ID == 0 {
		h.ID = m.nextID
	}
	if h.ID >= m.nextID {
		m.nextID = h.ID + 1
	}
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now()
	}
	m.haikus[h.ID] = *h
	seen := make(map[string]struct{}, len(m.keywords[h.ID]))
	for _, kw := range m.keywords[h.ID] {
		seen[kw] = struct{}{}
	}
	for _, kw := range keywords {
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		m.keywords[h.ID] = append(m.keywords[h.ID], kw)
	}
	return nil
}

func (m *MemoryRepository) Ping(context.Context) error { return nil }

// SeedAssignment 直接写入分配记录（用于测试遗留数据，如悬空引用）
func (m *MemoryRepository) SeedAssignment(day time.Time, haikuID uint64) {
	_ = m.UpsertAssignment(context.Background(), &model.DailyHaiku{Date: datatypes.Date(day), HaikuID: haikuID})
}

// AssignmentCount 当前分配记录数
func (m *MemoryRepository) AssignmentCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.assignments)
}
