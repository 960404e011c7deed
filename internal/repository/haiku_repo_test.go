package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"DailyHaiku/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSQLiteRepo(t *testing.T) HaikuRepository {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Haiku{}, &model.Keyword{}, &model.DailyHaiku{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewHaikuRepository(db)
}

func day(s string) time.Time {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return d
}

// 两种实现共用同一组语义断言
func forEachRepo(t *testing.T, fn func(t *testing.T, repo HaikuRepository)) {
	t.Run("memory", func(t *testing.T) { fn(t, NewMemoryRepository()) })
	t.Run("sqlite", func(t *testing.T) { fn(t, newSQLiteRepo(t)) })
}

func seed(t *testing.T, repo HaikuRepository, title, season string, keywords ...string) *model.Haiku {
	t.Helper()
	h := &model.Haiku{Title: title, Author: "Bashō", Content: title + " content", Season: season}
	require.NoError(t, repo.CreateHaiku(context.Background(), h, keywords))
	require.NotZero(t, h.ID)
	return h
}

func TestRepository_HaikusAndKeywords(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo HaikuRepository) {
		ctx := context.Background()
		a := seed(t, repo, "furuike", "spring", "frog", "pond", "frog")
		b := seed(t, repo, "yuki", "winter")

		spring, err := repo.ListHaikus(ctx, "spring")
		require.NoError(t, err)
		require.Len(t, spring, 1)
		assert.Equal(t, a.ID, spring[0].ID)

		all, err := repo.ListHaikus(ctx, "")
		require.NoError(t, err)
		assert.Len(t, all, 2)

		got, err := repo.GetHaiku(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, "yuki", got.Title)

		_, err = repo.GetHaiku(ctx, 9999)
		assert.ErrorIs(t, err, ErrNotFound)

		kws, err := repo.ListKeywords(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"frog", "pond"}, kws)

		kws, err = repo.ListKeywords(ctx, b.ID)
		require.NoError(t, err)
		assert.Empty(t, kws)
	})
}

func TestRepository_AssignmentUpsert(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo HaikuRepository) {
		ctx := context.Background()
		d := day("2025-01-10")

		_, err := repo.FindAssignment(ctx, d)
		assert.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, repo.UpsertAssignment(ctx, &model.DailyHaiku{Date: datatypes.Date(d), HaikuID: 1}))
		// 同一天再次写入：覆盖而不是报唯一约束错误
		require.NoError(t, repo.UpsertAssignment(ctx, &model.DailyHaiku{Date: datatypes.Date(d), HaikuID: 2}))

		row, err := repo.FindAssignment(ctx, d)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), row.HaikuID)
		assert.Equal(t, "2025-01-10", row.Day().Format(time.DateOnly))

		ids, err := repo.ListUsedHaikuIDs(ctx)
		require.NoError(t, err)
		assert.Equal(t, []uint64{2}, ids)
	})
}

func TestRepository_ListAssignmentsDescending(t *testing.T) {
	forEachRepo(t, func(t *testing.T, repo HaikuRepository) {
		ctx := context.Background()
		for i, s := range []string{"2025-01-02", "2025-01-04", "2025-01-01", "2025-01-03"} {
			require.NoError(t, repo.UpsertAssignment(ctx, &model.DailyHaiku{Date: datatypes.Date(day(s)), HaikuID: uint64(i + 1)}))
		}

		first, err := repo.ListAssignments(ctx, 0, 3)
		require.NoError(t, err)
		require.Len(t, first, 3)
		assert.Equal(t, "2025-01-04", first[0].Day().Format(time.DateOnly))
		assert.Equal(t, "2025-01-02", first[2].Day().Format(time.DateOnly))

		rest, err := repo.ListAssignments(ctx, 3, 3)
		require.NoError(t, err)
		require.Len(t, rest, 1)
		assert.Equal(t, "2025-01-01", rest[0].Day().Format(time.DateOnly))

		none, err := repo.ListAssignments(ctx, 10, 3)
		require.NoError(t, err)
		assert.Empty(t, none)

		// 负数 offset 不能退化为第一页
		negative, err := repo.ListAssignments(ctx, -4, 4)
		require.NoError(t, err)
		assert.Empty(t, negative)
	})
}
