package models

import (
	"time"

	"slab-app/controllers/idgen"

	"gorm.io/gorm"
)

const (
	EventOrder      = "order"
	EventAcceptance = "acceptance"
)

// HistoryEvent is one append-only ledger row: an order placed or a partial
// receipt. Rows are never updated or deleted; once an acceptance record
// closes, these events are the only durable trace of the delivery.
type HistoryEvent struct {
	ID         int64  `json:"ID" gorm:"primaryKey"`
	EventType  string `json:"event_type" gorm:"size:16;index;not null"`
	ArticleKey `gorm:"embedded"`
	Quantity   int    `json:"quantity" gorm:"default:0"`
	OrderCode  string `json:"order_code" gorm:"size:32;index;not null;default:''"`
	Supplier   string `json:"supplier" gorm:"size:64;not null;default:''"`
	// SourceProducer mirrors the resolved producer of the order or delivery.
	SourceProducer string `json:"source_producer" gorm:"size:64;not null;default:''"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	CreatedBy int       `json:"created_by"`
}

func (e *HistoryEvent) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == 0 {
		e.ID = idgen.GenerateID()
	}
	return
}
