package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/logger"
)

func TestGormLogLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, gormLogLevel("silent"))
	assert.Equal(t, logger.Info, gormLogLevel("INFO"))
	assert.Equal(t, logger.Warn, gormLogLevel(""))
}

func TestEnsureDatabaseExists_SkipsDefaultDB(t *testing.T) {
	// 目标就是 postgres 库或未指定库名时无需连接
	assert.NoError(t, EnsureDatabaseExists("postgres://u:p@localhost:1/postgres"))
	assert.NoError(t, EnsureDatabaseExists("postgres://u:p@localhost:1"))
	assert.Error(t, EnsureDatabaseExists("://bad"))
}
