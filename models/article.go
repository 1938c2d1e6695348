package models

import "strings"

// ArticleKey identifies a reorderable article: one combination of material,
// finish type, thickness, dimensions and producer. Fields are plain strings
// and the empty string means "unspecified", never NULL, so two keys compare
// with ==.
type ArticleKey struct {
	Material  string `json:"material" gorm:"size:64;not null;default:''"`
	Type      string `json:"type" gorm:"size:64;not null;default:''"`
	Thickness string `json:"thickness" gorm:"size:32;not null;default:''"`
	DimX      string `json:"dim_x" gorm:"size:32;not null;default:''"`
	DimY      string `json:"dim_y" gorm:"size:32;not null;default:''"`
	Producer  string `json:"producer" gorm:"size:64;not null;default:''"`
}

// Label renders the key for logs, mail subjects and excel rows.
func (k ArticleKey) Label() string {
	parts := []string{k.Material, k.Type, k.Thickness}
	if k.DimX != "" || k.DimY != "" {
		parts = append(parts, k.DimX+"x"+k.DimY)
	}
	if k.Producer != "" {
		parts = append(parts, k.Producer)
	}
	return strings.Join(parts, " ")
}
