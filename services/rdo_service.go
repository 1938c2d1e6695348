package services

import (
	"errors"
	"time"

	"slab-app/models"
	"slab-app/repositories"

	"gorm.io/gorm"
)

// RdoService owns the draft purchase requests. Drafts are freely editable;
// supplier/producer locking only happens at confirmation.
type RdoService struct {
	DB *gorm.DB
}

func NewRdoService(db *gorm.DB) *RdoService {
	return &RdoService{DB: db}
}

// Create stages a new draft. Candidate suppliers and producers default to the
// distinct values found on non-scrap slabs of the article.
func (s *RdoService) Create(key models.ArticleKey, quantity int, suppliers, producers []string, actor int) (*models.Rdo, error) {
	if quantity <= 0 {
		return nil, validationErr("quantity", "must be > 0")
	}

	stockRepo := repositories.NewStockRepository(s.DB)
	if len(suppliers) == 0 {
		deduced, err := stockRepo.CandidateSuppliers(key)
		if err != nil {
			return nil, err
		}
		suppliers = deduced
	}
	if len(producers) == 0 {
		deduced, err := stockRepo.CandidateProducers(key)
		if err != nil {
			return nil, err
		}
		producers = deduced
	}

	rdo := models.Rdo{
		ArticleKey:         key,
		Quantity:           quantity,
		CandidateSuppliers: suppliers,
		CandidateProducers: producers,
		CreatedBy:          actor,
	}
	if err := s.DB.Create(&rdo).Error; err != nil {
		return nil, err
	}
	return &rdo, nil
}

// StageShortages creates one draft per shortage item, with the suggested
// quantity pre-filled.
func (s *RdoService) StageShortages(items []ShortageItem, actor int) ([]models.Rdo, error) {
	staged := make([]models.Rdo, 0, len(items))
	for _, item := range items {
		rdo, err := s.Create(item.ArticleKey, item.SuggestedQty, nil, nil, actor)
		if err != nil {
			return staged, err
		}
		staged = append(staged, *rdo)
	}
	return staged, nil
}

// RdoUpdate is a partial edit of a draft. Nil fields are left untouched;
// a non-nil Splits slice replaces the staged deliveries after apportionment
// against the draft quantity.
type RdoUpdate struct {
	Quantity     *int            `json:"quantity"`
	Supplier     *string         `json:"supplier"`
	Producer     *string         `json:"producer"`
	ExpectedDate *string         `json:"expected_date"`
	Splits       []DeliveryInput `json:"splits"`
}

// Update edits an unconfirmed draft.
func (s *RdoService) Update(id int64, upd RdoUpdate, actor int) (*models.Rdo, error) {
	var rdo models.Rdo

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Deliveries").Take(&rdo, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundErr("rdo", id)
			}
			return err
		}

		if upd.Quantity != nil {
			if *upd.Quantity <= 0 {
				return validationErr("quantity", "must be > 0")
			}
			rdo.Quantity = *upd.Quantity
		}
		if upd.Supplier != nil {
			rdo.ChosenSupplier = *upd.Supplier
		}
		if upd.Producer != nil {
			rdo.ChosenProducer = *upd.Producer
		}
		if upd.ExpectedDate != nil {
			if *upd.ExpectedDate != "" {
				if _, err := time.Parse("2006-01-02", *upd.ExpectedDate); err != nil {
					return validationErr("expected_date", "not a valid date: "+*upd.ExpectedDate)
				}
			}
			rdo.ExpectedDate = *upd.ExpectedDate
		}

		if upd.Splits != nil {
			for _, split := range upd.Splits {
				if split.Date != "" {
					if _, err := time.Parse("2006-01-02", split.Date); err != nil {
						return validationErr("splits", "not a valid date: "+split.Date)
					}
				}
			}
			accepted := ApportionDeliveries(rdo.Quantity, upd.Splits)

			if err := tx.Where("rdo_id = ?", rdo.ID).Delete(&models.RdoDelivery{}).Error; err != nil {
				return err
			}
			rdo.Deliveries = rdo.Deliveries[:0]
			for _, d := range accepted {
				delivery := models.RdoDelivery{
					RdoID:    rdo.ID,
					Date:     d.Date,
					Quantity: d.Quantity,
					Producer: d.Producer,
				}
				if err := tx.Create(&delivery).Error; err != nil {
					return err
				}
				rdo.Deliveries = append(rdo.Deliveries, delivery)
			}
		}

		rdo.UpdatedBy = actor
		return tx.Omit("Deliveries").Save(&rdo).Error
	})
	if err != nil {
		return nil, err
	}
	return &rdo, nil
}

// List returns every open draft with its staged deliveries.
func (s *RdoService) List() ([]models.Rdo, error) {
	var rdos []models.Rdo
	if err := s.DB.Preload("Deliveries").Order("created_at").Find(&rdos).Error; err != nil {
		return nil, err
	}
	return rdos, nil
}

// Get returns one draft.
func (s *RdoService) Get(id int64) (*models.Rdo, error) {
	var rdo models.Rdo
	if err := s.DB.Preload("Deliveries").Take(&rdo, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("rdo", id)
		}
		return nil, err
	}
	return &rdo, nil
}

// Delete abandons a draft and its staged deliveries.
func (s *RdoService) Delete(id int64) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var rdo models.Rdo
		if err := tx.Take(&rdo, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundErr("rdo", id)
			}
			return err
		}
		if err := tx.Where("rdo_id = ?", id).Delete(&models.RdoDelivery{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Rdo{}, "id = ?", id).Error
	})
}
