package models

import "gorm.io/gorm"

// Slab is one inventory row: a bundle of identical slabs sitting on a pallet.
// The reorder engine only reads this table (stock sums and supplier/producer
// deduction); pallet handling itself lives in the inventory application.
type Slab struct {
	gorm.Model
	ArticleKey `gorm:"embedded"`
	Pallet     string `json:"pallet" gorm:"size:32"`
	Location   string `json:"location" gorm:"size:64"`
	Supplier   string `json:"supplier" gorm:"size:64;not null;default:''"`
	Quantity   int    `json:"quantity" gorm:"default:0"`
	IsScrap    bool   `json:"is_scrap" gorm:"default:false"`
	CreatedBy  int
	UpdatedBy  int
	DeletedBy  int
}

// CatalogArticle is one row of the curated SKU list the shortage detector
// iterates. Articles not in the catalog are never flagged, whatever their
// stock level.
type CatalogArticle struct {
	gorm.Model
	ArticleKey `gorm:"embedded"`
	CreatedBy  int
}
