package models

import (
	"time"

	"slab-app/controllers/idgen"

	"gorm.io/gorm"
)

// Rdo is a draft purchase request (richiesta d'ordine). It stays editable
// until confirmation, which consumes it: the confirmed order and its
// acceptance records replace the draft entirely.
type Rdo struct {
	ID         int64 `json:"ID" gorm:"primaryKey"`
	ArticleKey `gorm:"embedded"`
	Quantity   int `json:"quantity" gorm:"default:0"`

	CandidateSuppliers []string `json:"candidate_suppliers" gorm:"serializer:json"`
	ChosenSupplier     string   `json:"chosen_supplier" gorm:"size:64;not null;default:''"`
	SupplierLocked     bool     `json:"supplier_locked" gorm:"default:false"`

	CandidateProducers []string `json:"candidate_producers" gorm:"serializer:json"`
	ChosenProducer     string   `json:"chosen_producer" gorm:"size:64;not null;default:''"`
	ProducerLocked     bool     `json:"producer_locked" gorm:"default:false"`

	// Single expected date, used when no per-date splits are staged.
	ExpectedDate string `json:"expected_date" gorm:"size:16;not null;default:''"`

	Deliveries []RdoDelivery `json:"deliveries" gorm:"foreignKey:RdoID"`

	CreatedAt time.Time
	CreatedBy int
	UpdatedAt time.Time
	UpdatedBy int
}

func (r *Rdo) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == 0 {
		r.ID = idgen.GenerateID()
	}
	return
}

// RdoDelivery is one staged delivery split of a draft: date, quantity and an
// optional per-date producer overriding the draft-level choice.
type RdoDelivery struct {
	ID       int64  `json:"ID" gorm:"primaryKey"`
	RdoID    int64  `json:"rdo_id" gorm:"index"`
	Date     string `json:"date" gorm:"size:16;not null;default:''"`
	Quantity int    `json:"quantity" gorm:"default:0"`
	Producer string `json:"producer" gorm:"size:64;not null;default:''"`
}

func (d *RdoDelivery) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == 0 {
		d.ID = idgen.GenerateID()
	}
	return
}
