package services

import (
	"errors"

	"slab-app/config"
	"slab-app/migration"
	"slab-app/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ThresholdService resolves and stores per-article reorder rules. Lookup
// precedence: extended six-field rule, else legacy three-field rule, else the
// configured default.
type ThresholdService struct {
	DB  *gorm.DB
	Cfg config.EngineConfig
}

func NewThresholdService(db *gorm.DB, cfg config.EngineConfig) *ThresholdService {
	return &ThresholdService{DB: db, Cfg: cfg}
}

// RuleResult is the resolved rule for one article. Source tells the caller
// which layer answered: "extended", "legacy" or "default".
type RuleResult struct {
	Threshold  int    `json:"threshold"`
	ReorderQty int    `json:"reorder_qty"`
	Source     string `json:"source"`
}

// GetRule resolves the rule for key.
func (s *ThresholdService) GetRule(key models.ArticleKey) RuleResult {
	var ext models.ReorderRule
	err := s.DB.Where("material = ? AND type = ? AND thickness = ? AND dim_x = ? AND dim_y = ? AND producer = ?",
		key.Material, key.Type, key.Thickness, key.DimX, key.DimY, key.Producer).
		Take(&ext).Error
	if err == nil {
		return RuleResult{Threshold: ext.Threshold, ReorderQty: ext.ReorderQty, Source: "extended"}
	}

	var leg models.ReorderRuleLegacy
	err = s.DB.Where("material = ? AND type = ? AND thickness = ?",
		key.Material, key.Type, key.Thickness).
		Take(&leg).Error
	if err == nil {
		return RuleResult{Threshold: leg.Threshold, ReorderQty: leg.ReorderQty, Source: "legacy"}
	}

	return RuleResult{Threshold: s.Cfg.DefaultThreshold, Source: "default"}
}

// SetRule upserts the extended rule and writes the legacy projection through
// for older readers. The schema is checked first; a migration failure is
// swallowed inside EnsureThresholdSchema and the upsert proceeds against
// whatever schema is there.
func (s *ThresholdService) SetRule(key models.ArticleKey, threshold, reorderQty, actor int) error {
	if threshold < 0 {
		return validationErr("threshold", "must be >= 0")
	}

	migration.EnsureThresholdSchema(s.DB, s.Cfg)

	rule := models.ReorderRule{
		Material:   key.Material,
		Type:       key.Type,
		Thickness:  key.Thickness,
		DimX:       key.DimX,
		DimY:       key.DimY,
		Producer:   key.Producer,
		Threshold:  threshold,
		ReorderQty: reorderQty,
		UpdatedBy:  actor,
	}
	if err := s.DB.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rule).Error; err != nil {
		return err
	}

	legacy := models.ReorderRuleLegacy{
		Material:   key.Material,
		Type:       key.Type,
		Thickness:  key.Thickness,
		Threshold:  threshold,
		ReorderQty: reorderQty,
		UpdatedBy:  actor,
	}
	return s.DB.Clauses(clause.OnConflict{UpdateAll: true}).Create(&legacy).Error
}

// ListRules returns every extended rule, for the configuration surface.
func (s *ThresholdService) ListRules() ([]models.ReorderRule, error) {
	var rules []models.ReorderRule
	err := s.DB.Order("material, type, thickness, dim_x, dim_y, producer").Find(&rules).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return rules, nil
}
