package models

import "time"

// ReorderRule is the extended per-article rule: composite primary key over all
// six article fields. ReorderQty <= 0 means "no manual suggestion" and the
// detector computes one. Threshold 0 is a sentinel: never flag this article.
type ReorderRule struct {
	Material  string `json:"material" gorm:"primaryKey;size:64;default:''"`
	Type      string `json:"type" gorm:"primaryKey;size:64;default:''"`
	Thickness string `json:"thickness" gorm:"primaryKey;size:32;default:''"`
	DimX      string `json:"dim_x" gorm:"primaryKey;size:32;default:''"`
	DimY      string `json:"dim_y" gorm:"primaryKey;size:32;default:''"`
	Producer  string `json:"producer" gorm:"primaryKey;size:64;default:''"`

	Threshold  int `json:"threshold" gorm:"default:0"`
	ReorderQty int `json:"reorder_qty" gorm:"default:0"`

	UpdatedAt time.Time
	UpdatedBy int
}

func (ReorderRule) TableName() string {
	return "reorder_rules"
}

// Key returns the article identity of the rule.
func (r ReorderRule) Key() ArticleKey {
	return ArticleKey{
		Material:  r.Material,
		Type:      r.Type,
		Thickness: r.Thickness,
		DimX:      r.DimX,
		DimY:      r.DimY,
		Producer:  r.Producer,
	}
}

// ReorderRuleLegacy is the old dimension/producer-agnostic schema, keyed by
// material/type/thickness only. It is kept write-through for older readers;
// the extended rule always wins on lookup.
type ReorderRuleLegacy struct {
	Material  string `json:"material" gorm:"primaryKey;size:64;default:''"`
	Type      string `json:"type" gorm:"primaryKey;size:64;default:''"`
	Thickness string `json:"thickness" gorm:"primaryKey;size:32;default:''"`

	Threshold  int `json:"threshold" gorm:"default:0"`
	ReorderQty int `json:"reorder_qty" gorm:"default:0"`

	UpdatedAt time.Time
	UpdatedBy int
}

func (ReorderRuleLegacy) TableName() string {
	return "reorder_rules_legacy"
}
