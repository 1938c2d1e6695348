package migration

import (
	"fmt"
	"strings"
	"testing"

	"slab-app/config"
	"slab-app/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testCfg = config.EngineConfig{DefaultThreshold: 5, OrderCodePrefix: "TM"}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
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
	return db
}

func TestEnsureThresholdSchemaCreatesTables(t *testing.T) {
	db := openTestDB(t)

	EnsureThresholdSchema(db, testCfg)

	m := db.Migrator()
	if !m.HasTable(&models.ReorderRule{}) {
		t.Fatal("reorder_rules not created")
	}
	if !m.HasTable(&models.ReorderRuleLegacy{}) {
		t.Fatal("reorder_rules_legacy not created")
	}

	// A second run must be a no-op, not an error.
	EnsureThresholdSchema(db, testCfg)
	if !m.HasTable(&models.ReorderRule{}) {
		t.Fatal("reorder_rules lost on second run")
	}
}

func TestEnsureThresholdSchemaRebuildsLegacyShape(t *testing.T) {
	db := openTestDB(t)

	// The table as it looked before dimensions and producer joined the key.
	err := db.Exec(`CREATE TABLE reorder_rules (
		material varchar(64) NOT NULL DEFAULT '',
		type varchar(64) NOT NULL DEFAULT '',
		thickness varchar(32) NOT NULL DEFAULT '',
		threshold integer DEFAULT 0,
		PRIMARY KEY (material, type, thickness)
	)`).Error
	if err != nil {
		t.Fatalf("create legacy-shaped table: %v", err)
	}
	if err := db.Exec(`INSERT INTO reorder_rules (material, type, thickness, threshold)
		VALUES ('Marble', 'Polished', '20mm', 4)`).Error; err != nil {
		t.Fatalf("seed row: %v", err)
	}

	EnsureThresholdSchema(db, testCfg)

	var rules []models.ReorderRule
	if err := db.Find(&rules).Error; err != nil {
		t.Fatalf("read rebuilt table: %v", err)
	}
	if len(rules) != 1 {
		t.Fatalf("want 1 copied rule, got %d", len(rules))
	}
	rule := rules[0]
	if rule.Material != "Marble" || rule.Threshold != 4 {
		t.Errorf("row not copied faithfully: %+v", rule)
	}
	if rule.DimX != "" || rule.DimY != "" || rule.Producer != "" {
		t.Errorf("missing text columns should default to empty: %+v", rule)
	}
	if rule.ReorderQty != 0 {
		t.Errorf("missing reorder_qty should default to 0, got %d", rule.ReorderQty)
	}

	if db.Migrator().HasTable("reorder_rules_old") {
		t.Error("backup table should be dropped after a successful copy")
	}

	// Rebuild is idempotent: a second run keeps the row.
	EnsureThresholdSchema(db, testCfg)
	var count int64
	db.Model(&models.ReorderRule{}).Count(&count)
	if count != 1 {
		t.Fatalf("second run changed row count to %d", count)
	}
}

func TestEnsureThresholdSchemaDefaultsMissingThreshold(t *testing.T) {
	db := openTestDB(t)

	err := db.Exec(`CREATE TABLE reorder_rules (
		material varchar(64) NOT NULL DEFAULT '',
		type varchar(64) NOT NULL DEFAULT '',
		thickness varchar(32) NOT NULL DEFAULT '',
		PRIMARY KEY (material, type, thickness)
	)`).Error
	if err != nil {
		t.Fatalf("create table: %v", err)
	}
	if err := db.Exec(`INSERT INTO reorder_rules (material, type, thickness)
		VALUES ('Granite', '', '30mm')`).Error; err != nil {
		t.Fatalf("seed row: %v", err)
	}

	EnsureThresholdSchema(db, testCfg)

	var rule models.ReorderRule
	if err := db.Take(&rule, "material = ?", "Granite").Error; err != nil {
		t.Fatalf("read rebuilt row: %v", err)
	}
	if rule.Threshold != testCfg.DefaultThreshold {
		t.Errorf("missing threshold should default to %d, got %d", testCfg.DefaultThreshold, rule.Threshold)
	}
}
