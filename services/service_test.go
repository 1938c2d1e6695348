package services

import (
	"fmt"
	"strings"
	"testing"

	"slab-app/config"
	"slab-app/migration"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testCfg = config.EngineConfig{
	DefaultThreshold: 5,
	OrderCodePrefix:  "TM",
}

// newTestDB opens a fresh in-memory database, named per test so parallel
// tests never share state, and runs the full migration.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	if err := migration.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	migration.EnsureThresholdSchema(db, testCfg)
	return db
}
