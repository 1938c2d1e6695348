package models

import (
	"time"

	"slab-app/controllers/idgen"

	"gorm.io/gorm"
)

// PurchaseOrder is the confirmed, immutable order. Its existence is also the
// supplier/producer lock for the order code: the row is written exactly once,
// and acceptance is refused while no row exists for a code.
type PurchaseOrder struct {
	ID         int64  `json:"ID" gorm:"primaryKey"`
	OrderCode  string `json:"order_code" gorm:"size:32;uniqueIndex;not null"`
	ArticleKey `gorm:"embedded"`
	Supplier   string `json:"supplier" gorm:"size:64;not null;default:''"`
	// SourceProducer is the producer locked for the whole order. It can differ
	// from the article key's producer, which is part of the SKU identity.
	SourceProducer string `json:"source_producer" gorm:"size:64;not null;default:''"`
	TotalQty       int    `json:"total_qty" gorm:"default:0"`
	CreatedAt      time.Time
	CreatedBy      int
}

func (o *PurchaseOrder) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == 0 {
		o.ID = idgen.GenerateID()
	}
	return
}

// AcceptanceRecord tracks one expected delivery of an order until fully
// received. There is no "completed" status: the row is deleted the moment
// QtyReceived reaches QtyTotal, and the history ledger takes over as the
// durable record.
type AcceptanceRecord struct {
	ID         int64  `json:"ID" gorm:"primaryKey"`
	OrderCode  string `json:"order_code" gorm:"size:32;index;not null"`
	ArticleKey `gorm:"embedded"`
	QtyTotal    int `json:"qty_total" gorm:"default:0"`
	QtyReceived int `json:"qty_received" gorm:"default:0"`

	// SourceProducer is resolved at confirmation: the split-level producer if
	// one was staged, else the order-level one, else empty.
	SourceProducer string `json:"source_producer" gorm:"size:64;not null;default:''"`

	ExpectedDate  string `json:"expected_date" gorm:"size:16;not null;default:''"`
	FirstLocation string `json:"first_location" gorm:"size:64;not null;default:''"`

	CreatedAt time.Time
	CreatedBy int
	UpdatedAt time.Time
	UpdatedBy int
}

func (a *AcceptanceRecord) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == 0 {
		a.ID = idgen.GenerateID()
	}
	return
}

// Residual is the quantity still expected on this record.
func (a AcceptanceRecord) Residual() int {
	return a.QtyTotal - a.QtyReceived
}

// PercentComplete is the received share rounded down, for the acceptance UI.
func (a AcceptanceRecord) PercentComplete() int {
	if a.QtyTotal <= 0 {
		return 0
	}
	return a.QtyReceived * 100 / a.QtyTotal
}
