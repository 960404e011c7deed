package model

import (
	"time"

	"gorm.io/datatypes"
)

// Haiku 俳句主表（由导入流程写入，分配逻辑只读）
type Haiku struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	Title     string    `gorm:"column:title;type:varchar(256);not null;comment:标题"`
	Author    string    `gorm:"column:author;type:varchar(128);not null;comment:作者"`
	Content   string    `gorm:"column:content;type:text;not null;comment:正文"`
	Season    string    `gorm:"column:season;type:varchar(16);index;not null;comment:季节：winter/spring/summer/autumn"`
	Notes     *string   `gorm:"column:notes;type:text;comment:注释"`
	Source    *string   `gorm:"column:source;type:varchar(256);comment:出处"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;comment:创建时间"`
}

// Keyword 俳句关键词
type Keyword struct {
	ID      uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	HaikuID uint64 `gorm:"column:haiku_id;type:bigint;not null;uniqueIndex:uq_haiku_keyword;index"`
	Keyword string `gorm:"column:keyword;type:varchar(64);not null;uniqueIndex:uq_haiku_keyword"`
}

// DailyHaiku 日期 → 俳句 的分配记录，date 唯一，只增不改
type DailyHaiku struct {
	Date      datatypes.Date `gorm:"column:date;type:date;primaryKey;comment:分配日期"`
	HaikuID   uint64         `gorm:"column:haiku_id;type:bigint;not null;index;comment:关联俳句ID"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime;comment:写入时间"`
}

func (Haiku) TableName() string      { return "haikus" }
func (Keyword) TableName() string    { return "keywords" }
func (DailyHaiku) TableName() string { return "daily_haikus" }

// Day 返回分配日期（UTC 零点）
func (d DailyHaiku) Day() time.Time {
	return time.Time(d.Date)
}
