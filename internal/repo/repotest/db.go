// Package repotest 为各层测试提供独立的内存 SQLite 库
package repotest

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"storefront/internal/core/database"
	"storefront/internal/repo"
)

var seq atomic.Int64

var Statuses = []string{"New", "Processing", "Shipped", "Delivered", "Cancelled"}

// NewDB 每次调用一个独立库；单连接，事务内外不会互相加锁
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))
	db, err := database.NewGorm(context.Background(), database.Opts{
		Driver:       "sqlite",
		DSN:          dsn,
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	})
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(context.Background(), db, Statuses))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
