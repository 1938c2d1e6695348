package services

import (
	"sort"

	"slab-app/models"
	"slab-app/repositories"

	"gorm.io/gorm"
)

// ShortageService runs the detection pass: every catalog article whose
// on-hand stock has fallen to or below its threshold and which is not already
// being reordered.
type ShortageService struct {
	DB         *gorm.DB
	Thresholds *ThresholdService
}

func NewShortageService(db *gorm.DB, thresholds *ThresholdService) *ShortageService {
	return &ShortageService{DB: db, Thresholds: thresholds}
}

// ShortageItem is one flagged article. ManualQty echoes the rule's manual
// reorder quantity so the UI can show when the engine overrode it.
type ShortageItem struct {
	models.ArticleKey
	Stock        int    `json:"stock"`
	Threshold    int    `json:"threshold"`
	SuggestedQty int    `json:"suggested_qty"`
	ManualQty    int    `json:"manual_qty"`
	RuleSource   string `json:"rule_source"`
}

// InFlight unions the article keys of open drafts and open acceptance
// records. A key in the result is already being handled and must not be
// flagged again. Pure function over snapshots, so detection is testable
// without a store.
func InFlight(rdos []models.Rdo, accs []models.AcceptanceRecord) map[models.ArticleKey]struct{} {
	busy := make(map[models.ArticleKey]struct{}, len(rdos)+len(accs))
	for _, r := range rdos {
		busy[r.ArticleKey] = struct{}{}
	}
	for _, a := range accs {
		busy[a.ArticleKey] = struct{}{}
	}
	return busy
}

// SuggestQuantity computes the order quantity proposal. With no manual
// quantity the proposal restores stock to threshold+1. A manual quantity that
// would not even cross back above the threshold is overridden the same way;
// otherwise it is honored.
func SuggestQuantity(stock, threshold, manualQty int) int {
	restore := threshold + 1 - stock
	if manualQty <= 0 {
		return restore
	}
	if stock+manualQty <= threshold+1 {
		return restore
	}
	return manualQty
}

// Detect runs one detection pass. Stock, rules and the in-flight set are all
// read fresh; an article that is no longer short disappears from the result
// immediately.
func (s *ShortageService) Detect() ([]ShortageItem, error) {
	var catalog []models.CatalogArticle
	if err := s.DB.Find(&catalog).Error; err != nil {
		return nil, err
	}

	stock, err := repositories.NewStockRepository(s.DB).OnHandByArticle()
	if err != nil {
		return nil, err
	}

	var rdos []models.Rdo
	if err := s.DB.Find(&rdos).Error; err != nil {
		return nil, err
	}
	var accs []models.AcceptanceRecord
	if err := s.DB.Find(&accs).Error; err != nil {
		return nil, err
	}
	busy := InFlight(rdos, accs)

	seen := make(map[models.ArticleKey]struct{}, len(catalog))
	items := make([]ShortageItem, 0)
	for _, article := range catalog {
		key := article.ArticleKey
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		rule := s.Thresholds.GetRule(key)
		if rule.Threshold == 0 {
			continue
		}
		if _, inFlight := busy[key]; inFlight {
			continue
		}

		onHand := stock[key]
		if onHand > rule.Threshold {
			continue
		}

		items = append(items, ShortageItem{
			ArticleKey:   key,
			Stock:        onHand,
			Threshold:    rule.Threshold,
			SuggestedQty: SuggestQuantity(onHand, rule.Threshold, rule.ReorderQty),
			ManualQty:    rule.ReorderQty,
			RuleSource:   rule.Source,
		})
	}

	// No ordering is required, but a stable sort keeps the dashboard steady.
	sort.Slice(items, func(i, j int) bool {
		return items[i].Label() < items[j].Label()
	})
	return items, nil
}
