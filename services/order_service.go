package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"slab-app/config"
	"slab-app/models"

	"gorm.io/gorm"
)

// OrderService turns confirmed drafts into immutable orders and reconciles
// partial receipts against their acceptance records.
type OrderService struct {
	DB  *gorm.DB
	Cfg config.EngineConfig
}

func NewOrderService(db *gorm.DB, cfg config.EngineConfig) *OrderService {
	return &OrderService{DB: db, Cfg: cfg}
}

// DeliveryInput is one requested delivery: date (empty for unscheduled),
// quantity, optional per-delivery producer.
type DeliveryInput struct {
	Date     string `json:"date"`
	Quantity int    `json:"quantity"`
	Producer string `json:"producer"`
}

// ApportionDeliveries distributes total across the requested deliveries in
// submission order. The first delivery is raised to at least 1, every
// delivery is clamped to what is still unassigned, and requests past the
// point where the total is exhausted are dropped. With no requests at all a
// single unscheduled delivery carries the whole total.
//
// Guarantees: the accepted sum never exceeds total, and for total >= 1 the
// first accepted delivery has quantity >= 1.
func ApportionDeliveries(total int, reqs []DeliveryInput) []DeliveryInput {
	if len(reqs) == 0 {
		return []DeliveryInput{{Quantity: total}}
	}

	accepted := make([]DeliveryInput, 0, len(reqs))
	remaining := total
	for i, req := range reqs {
		if remaining == 0 {
			break
		}
		qty := req.Quantity
		if i == 0 && qty < 1 {
			qty = 1
		}
		if qty > remaining {
			qty = remaining
		}
		if qty <= 0 {
			continue
		}
		accepted = append(accepted, DeliveryInput{Date: req.Date, Quantity: qty, Producer: req.Producer})
		remaining -= qty
	}
	return accepted
}

// ResolveProducer picks the producer for one delivery: the per-delivery value
// wins, then the order-level one, else empty.
func ResolveProducer(deliveryProducer, orderProducer string) string {
	if deliveryProducer != "" {
		return deliveryProducer
	}
	return orderProducer
}

// NextOrderCode issues the next "TM{year}/{seq:04d}" code by scanning the
// order events already in the ledger for the year. Codes in other formats are
// ignored. Must run inside the same transaction that inserts the new order
// event, so two confirmations cannot observe the same maximum.
func NextOrderCode(tx *gorm.DB, prefix string, year int) (string, error) {
	yearPrefix := fmt.Sprintf("%s%d/", prefix, year)

	var codes []string
	err := tx.Model(&models.HistoryEvent{}).
		Where("event_type = ? AND order_code LIKE ?", models.EventOrder, yearPrefix+"%").
		Pluck("order_code", &codes).Error
	if err != nil {
		return "", err
	}

	maxSeq := 0
	for _, code := range codes {
		if !strings.HasPrefix(code, yearPrefix) {
			continue
		}
		seq, err := strconv.Atoi(code[len(yearPrefix):])
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return fmt.Sprintf("%s%04d", yearPrefix, maxSeq+1), nil
}

// ConfirmResult is what Confirm created: the immutable order and its
// acceptance fan-out.
type ConfirmResult struct {
	Order       models.PurchaseOrder      `json:"order"`
	Acceptances []models.AcceptanceRecord `json:"acceptances"`
}

// Confirm consumes a draft: apportions its deliveries, issues the order code,
// records the supplier/producer lock, fans out acceptance records, appends
// the order event and deletes the draft. One transaction; a concurrent
// confirmation losing the code race gets a ConflictError and may resubmit.
func (s *OrderService) Confirm(rdoID int64, actor int) (*ConfirmResult, error) {
	var result ConfirmResult

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var rdo models.Rdo
		if err := tx.Preload("Deliveries").Take(&rdo, "id = ?", rdoID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundErr("rdo", rdoID)
			}
			return err
		}

		if rdo.Quantity <= 0 {
			return validationErr("quantity", "must be > 0")
		}

		supplier := rdo.ChosenSupplier
		if supplier == "" && len(rdo.CandidateSuppliers) == 1 {
			supplier = rdo.CandidateSuppliers[0]
		}
		if supplier == "" {
			return validationErr("supplier", "required to confirm an order")
		}
		producer := rdo.ChosenProducer

		reqs := make([]DeliveryInput, 0, len(rdo.Deliveries))
		for _, d := range rdo.Deliveries {
			if d.Date != "" {
				if _, err := time.Parse("2006-01-02", d.Date); err != nil {
					return validationErr("delivery_date", "not a valid date: "+d.Date)
				}
			}
			reqs = append(reqs, DeliveryInput{Date: d.Date, Quantity: d.Quantity, Producer: d.Producer})
		}
		if len(reqs) == 0 && rdo.ExpectedDate != "" {
			reqs = []DeliveryInput{{Date: rdo.ExpectedDate, Quantity: rdo.Quantity}}
		}
		accepted := ApportionDeliveries(rdo.Quantity, reqs)

		now := time.Now()
		code, err := NextOrderCode(tx, s.Cfg.OrderCodePrefix, now.Year())
		if err != nil {
			return err
		}

		order := models.PurchaseOrder{
			OrderCode:      code,
			ArticleKey:     rdo.ArticleKey,
			Supplier:       supplier,
			SourceProducer: producer,
			TotalQty:       rdo.Quantity,
			CreatedBy:      actor,
		}
		if err := tx.Create(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return conflictErr("order code %s already issued, resubmit", code)
			}
			return err
		}

		records := make([]models.AcceptanceRecord, 0, len(accepted))
		for _, d := range accepted {
			rec := models.AcceptanceRecord{
				OrderCode:      code,
				ArticleKey:     rdo.ArticleKey,
				QtyTotal:       d.Quantity,
				ExpectedDate:   d.Date,
				SourceProducer: ResolveProducer(d.Producer, producer),
				CreatedBy:      actor,
			}
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
			records = append(records, rec)
		}

		event := models.HistoryEvent{
			EventType:      models.EventOrder,
			ArticleKey:     rdo.ArticleKey,
			Quantity:       rdo.Quantity,
			OrderCode:      code,
			Supplier:       supplier,
			SourceProducer: producer,
			CreatedBy:      actor,
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}

		if err := tx.Where("rdo_id = ?", rdo.ID).Delete(&models.RdoDelivery{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Rdo{}, "id = ?", rdo.ID).Error; err != nil {
			return err
		}

		result = ConfirmResult{Order: order, Acceptances: records}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// LockOrder back-fills the supplier/producer association for an order code
// that has no lock yet (codes imported before the engine existed). The lock
// is written exactly once; a second attempt fails and leaves the existing
// values untouched.
func (s *OrderService) LockOrder(code, supplier, producer string, actor int) (*models.PurchaseOrder, error) {
	if supplier == "" {
		return nil, validationErr("supplier", "required")
	}

	var order models.PurchaseOrder
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Take(&order, "order_code = ?", code).Error
		if err == nil {
			return conflictErr("supplier/producer already locked for order %s", code)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		order = models.PurchaseOrder{
			OrderCode:      code,
			Supplier:       supplier,
			SourceProducer: producer,
			CreatedBy:      actor,
		}

		// Recover article identity and total from whatever trace the code
		// left behind.
		var event models.HistoryEvent
		if err := tx.Where("event_type = ? AND order_code = ?", models.EventOrder, code).
			Order("created_at desc").Take(&event).Error; err == nil {
			order.ArticleKey = event.ArticleKey
			order.TotalQty = event.Quantity
		} else {
			var rec models.AcceptanceRecord
			if err := tx.Take(&rec, "order_code = ?", code).Error; err != nil {
				return notFoundErr("order", code)
			}
			order.ArticleKey = rec.ArticleKey
		}

		if err := tx.Create(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return conflictErr("supplier/producer already locked for order %s", code)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ReceiveResult reports one receipt. Closed is true when the record reached
// its total and was deleted.
type ReceiveResult struct {
	Record models.AcceptanceRecord `json:"record"`
	Closed bool                    `json:"closed"`
}

// Receive books a partial delivery against an acceptance record. The order
// must be locked, the quantity positive and within the residual. Each receipt
// appends its own acceptance event; receipts are never merged.
func (s *OrderService) Receive(accID int64, qty int, location string, actor int) (*ReceiveResult, error) {
	var result ReceiveResult

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var rec models.AcceptanceRecord
		if err := tx.Take(&rec, "id = ?", accID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundErr("acceptance record", accID)
			}
			return err
		}

		var order models.PurchaseOrder
		if err := tx.Take(&order, "order_code = ?", rec.OrderCode).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return conflictErr("order %s has no locked supplier, acceptance refused", rec.OrderCode)
			}
			return err
		}

		if qty <= 0 {
			return validationErr("quantity", "must be > 0")
		}
		if qty > rec.Residual() {
			return conflictErr("quantity %d exceeds residual %d on order %s", qty, rec.Residual(), rec.OrderCode)
		}

		rec.QtyReceived += qty
		if rec.FirstLocation == "" && location != "" {
			rec.FirstLocation = location
		}
		rec.UpdatedBy = actor

		event := models.HistoryEvent{
			EventType:      models.EventAcceptance,
			ArticleKey:     rec.ArticleKey,
			Quantity:       qty,
			OrderCode:      rec.OrderCode,
			Supplier:       order.Supplier,
			SourceProducer: rec.SourceProducer,
			CreatedBy:      actor,
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}

		if rec.Residual() == 0 {
			if err := tx.Delete(&models.AcceptanceRecord{}, "id = ?", rec.ID).Error; err != nil {
				return err
			}
			result = ReceiveResult{Record: rec, Closed: true}
			return nil
		}

		if err := tx.Save(&rec).Error; err != nil {
			return err
		}
		result = ReceiveResult{Record: rec}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// AcceptanceView is one open delivery with its computed progress, for the
// acceptance UI.
type AcceptanceView struct {
	models.AcceptanceRecord
	Supplier        string `json:"supplier"`
	Residual        int    `json:"residual"`
	PercentComplete int    `json:"percent_complete"`
}

// ListAcceptances returns every open acceptance record joined with its
// order's supplier.
func (s *OrderService) ListAcceptances() ([]AcceptanceView, error) {
	var records []models.AcceptanceRecord
	if err := s.DB.Order("expected_date, order_code").Find(&records).Error; err != nil {
		return nil, err
	}

	suppliers := make(map[string]string)
	var orders []models.PurchaseOrder
	if err := s.DB.Find(&orders).Error; err != nil {
		return nil, err
	}
	for _, o := range orders {
		suppliers[o.OrderCode] = o.Supplier
	}

	views := make([]AcceptanceView, 0, len(records))
	for _, rec := range records {
		views = append(views, AcceptanceView{
			AcceptanceRecord: rec,
			Supplier:         suppliers[rec.OrderCode],
			Residual:         rec.Residual(),
			PercentComplete:  rec.PercentComplete(),
		})
	}
	return views, nil
}
