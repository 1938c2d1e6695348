package migration

import (
	"fmt"
	"strings"

	"slab-app/config"
	"slab-app/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Migrate creates every engine table except reorder_rules, which has its own
// rebuild logic in EnsureThresholdSchema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Slab{},
		&models.CatalogArticle{},
		&models.ReorderRuleLegacy{},
		&models.Rdo{},
		&models.RdoDelivery{},
		&models.PurchaseOrder{},
		&models.AcceptanceRecord{},
		&models.HistoryEvent{},
	)
}

// ruleKeyColumns are the six columns the extended rule table must carry in
// its composite primary key.
var ruleKeyColumns = []string{"material", "type", "thickness", "dim_x", "dim_y", "producer"}

type schemaStep struct {
	name  string
	apply func(db *gorm.DB, cfg config.EngineConfig) error
}

var thresholdSchemaSteps = []schemaStep{
	{name: "create-legacy-rules", apply: createLegacyRules},
	{name: "rebuild-extended-rules", apply: rebuildExtendedRules},
}

// EnsureThresholdSchema applies the threshold schema steps in order. It is
// safe to call before every rule mutation: each step checks the current
// schema state before acting, and a failing step is logged and skipped so
// rule reads and writes keep working against the old shape.
func EnsureThresholdSchema(db *gorm.DB, cfg config.EngineConfig) {
	for _, step := range thresholdSchemaSteps {
		if err := step.apply(db, cfg); err != nil {
			log.Warn().Err(err).Str("step", step.name).Msg("Threshold schema step failed, continuing")
		}
	}
}

func createLegacyRules(db *gorm.DB, cfg config.EngineConfig) error {
	if db.Migrator().HasTable(&models.ReorderRuleLegacy{}) {
		return nil
	}
	return db.AutoMigrate(&models.ReorderRuleLegacy{})
}

// rebuildExtendedRules brings reorder_rules up to the extended shape. If the
// table predates the six-column key (or misses columns entirely), it is
// renamed aside, recreated with the composite primary key, and its rows are
// copied across with missing text columns defaulted to the empty string and
// missing thresholds defaulted from the engine config.
func rebuildExtendedRules(db *gorm.DB, cfg config.EngineConfig) error {
	m := db.Migrator()

	if !m.HasTable(&models.ReorderRule{}) {
		return db.AutoMigrate(&models.ReorderRule{})
	}

	have, current, err := extendedSchemaState(db)
	if err != nil {
		return err
	}
	if current {
		return nil
	}

	const backup = "reorder_rules_old"
	if m.HasTable(backup) {
		// Leftover from an interrupted rebuild; its rows were already copied
		// or are stale either way.
		if err := m.DropTable(backup); err != nil {
			return err
		}
	}

	if err := m.RenameTable("reorder_rules", backup); err != nil {
		return err
	}
	if err := db.AutoMigrate(&models.ReorderRule{}); err != nil {
		return err
	}

	cols := append(append([]string{}, ruleKeyColumns...), "threshold", "reorder_qty")
	exprs := make([]string, 0, len(cols))
	for _, col := range cols {
		switch {
		case have[col]:
			exprs = append(exprs, col)
		case col == "threshold":
			exprs = append(exprs, fmt.Sprintf("%d", cfg.DefaultThreshold))
		case col == "reorder_qty":
			exprs = append(exprs, "0")
		default:
			exprs = append(exprs, "''")
		}
	}

	copySQL := fmt.Sprintf("INSERT INTO reorder_rules (%s) SELECT %s FROM %s",
		strings.Join(cols, ", "), strings.Join(exprs, ", "), backup)
	if err := db.Exec(copySQL).Error; err != nil {
		return err
	}

	return m.DropTable(backup)
}

// extendedSchemaState inspects the live reorder_rules table: which columns
// exist, and whether the schema is already the extended one (all six key
// columns present, all part of the primary key where the driver reports it).
func extendedSchemaState(db *gorm.DB) (have map[string]bool, current bool, err error) {
	types, err := db.Migrator().ColumnTypes(&models.ReorderRule{})
	if err != nil {
		return nil, false, err
	}

	have = make(map[string]bool, len(types))
	pk := make(map[string]bool, len(types))
	pkKnown := true
	for _, t := range types {
		have[t.Name()] = true
		if isPK, ok := t.PrimaryKey(); ok {
			pk[t.Name()] = isPK
		} else {
			pkKnown = false
		}
	}

	if !have["threshold"] || !have["reorder_qty"] {
		return have, false, nil
	}
	for _, col := range ruleKeyColumns {
		if !have[col] {
			return have, false, nil
		}
		if pkKnown && !pk[col] {
			return have, false, nil
		}
	}
	return have, true, nil
}
