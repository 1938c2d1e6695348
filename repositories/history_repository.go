package repositories

import (
	"time"

	"slab-app/models"

	"gorm.io/gorm"
)

// HistoryRepository queries the append-only event ledger.
type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db}
}

// HistoryFilter narrows a ledger query. Text fields are substring matches;
// every field is optional.
type HistoryFilter struct {
	From           string `query:"from"`
	To             string `query:"to"`
	Material       string `query:"material"`
	Type           string `query:"type"`
	Thickness      string `query:"thickness"`
	DimX           string `query:"dim_x"`
	DimY           string `query:"dim_y"`
	Producer       string `query:"producer"`
	SourceProducer string `query:"source_producer"`
	EventType      string `query:"event_type"`
	OrderCode      string `query:"order_code"`
}

// Query returns matching events ordered by timestamp.
func (r *HistoryRepository) Query(f HistoryFilter) ([]models.HistoryEvent, error) {
	q := r.db.Model(&models.HistoryEvent{})

	if f.From != "" {
		if from, err := time.Parse("2006-01-02", f.From); err == nil {
			q = q.Where("created_at >= ?", from)
		}
	}
	if f.To != "" {
		if to, err := time.Parse("2006-01-02", f.To); err == nil {
			q = q.Where("created_at < ?", to.AddDate(0, 0, 1))
		}
	}

	like := func(column, value string) {
		if value != "" {
			q = q.Where(column+" LIKE ?", "%"+value+"%")
		}
	}
	like("material", f.Material)
	like("type", f.Type)
	like("thickness", f.Thickness)
	like("dim_x", f.DimX)
	like("dim_y", f.DimY)
	like("producer", f.Producer)
	like("source_producer", f.SourceProducer)
	like("order_code", f.OrderCode)

	if f.EventType != "" {
		q = q.Where("event_type = ?", f.EventType)
	}

	var events []models.HistoryEvent
	if err := q.Order("created_at, id").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// HistoryGroup associates acceptance events with the order event that placed
// them, for the grouped presentation view. Order is nil for acceptances whose
// order predates the ledger (legacy codes).
type HistoryGroup struct {
	Order       *models.HistoryEvent  `json:"order"`
	Acceptances []models.HistoryEvent `json:"acceptances"`
}

type groupKey struct {
	code string
	key  models.ArticleKey
}

// GroupEvents builds the parent/child view from events already ordered by
// timestamp: each acceptance attaches to the most recent preceding order
// event sharing its order code and article key.
func GroupEvents(events []models.HistoryEvent) []HistoryGroup {
	var groups []HistoryGroup
	open := make(map[groupKey]int)
	orphans := make(map[groupKey]int)

	for _, ev := range events {
		gk := groupKey{code: ev.OrderCode, key: ev.ArticleKey}
		switch ev.EventType {
		case models.EventOrder:
			ev := ev
			groups = append(groups, HistoryGroup{Order: &ev})
			open[gk] = len(groups) - 1
		case models.EventAcceptance:
			if idx, ok := open[gk]; ok {
				groups[idx].Acceptances = append(groups[idx].Acceptances, ev)
				continue
			}
			if idx, ok := orphans[gk]; ok {
				groups[idx].Acceptances = append(groups[idx].Acceptances, ev)
				continue
			}
			groups = append(groups, HistoryGroup{Acceptances: []models.HistoryEvent{ev}})
			orphans[gk] = len(groups) - 1
		}
	}
	return groups
}
