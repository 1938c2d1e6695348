package repositories

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"slab-app/migration"
	"slab-app/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	if err := migration.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func marbleKey() models.ArticleKey {
	return models.ArticleKey{Material: "Marble", Type: "Polished", Thickness: "20mm"}
}

func seedEvent(t *testing.T, db *gorm.DB, eventType, code string, key models.ArticleKey, qty int, at time.Time) models.HistoryEvent {
	t.Helper()
	ev := models.HistoryEvent{
		EventType:  eventType,
		ArticleKey: key,
		Quantity:   qty,
		OrderCode:  code,
		Supplier:   "StoneCo",
		CreatedAt:  at,
	}
	if err := db.Create(&ev).Error; err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return ev
}

func TestQueryFilters(t *testing.T) {
	db := openTestDB(t)
	repo := NewHistoryRepository(db)

	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	graniteKey := models.ArticleKey{Material: "Granite", Thickness: "30mm"}
	seedEvent(t, db, models.EventOrder, "TM2024/0001", marbleKey(), 10, base)
	seedEvent(t, db, models.EventAcceptance, "TM2024/0001", marbleKey(), 4, base.AddDate(0, 0, 10))
	seedEvent(t, db, models.EventOrder, "TM2024/0002", graniteKey, 6, base.AddDate(0, 1, 0))

	events, err := repo.Query(HistoryFilter{Material: "arb"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("substring material filter: want 2, got %d", len(events))
	}

	events, _ = repo.Query(HistoryFilter{EventType: models.EventOrder})
	if len(events) != 2 {
		t.Fatalf("event type filter: want 2, got %d", len(events))
	}

	events, _ = repo.Query(HistoryFilter{From: "2024-06-02", To: "2024-06-30"})
	if len(events) != 1 || events[0].Quantity != 4 {
		t.Fatalf("date range filter: got %+v", events)
	}

	events, _ = repo.Query(HistoryFilter{OrderCode: "0002"})
	if len(events) != 1 || events[0].Material != "Granite" {
		t.Fatalf("order code filter: got %+v", events)
	}

	// No filter: everything, oldest first.
	events, _ = repo.Query(HistoryFilter{})
	if len(events) != 3 || !events[0].CreatedAt.Before(events[2].CreatedAt) {
		t.Fatalf("unfiltered query wrong: %+v", events)
	}
}

func TestGroupEvents(t *testing.T) {
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	key := marbleKey()

	order1 := models.HistoryEvent{EventType: models.EventOrder, ArticleKey: key, OrderCode: "TM2024/0001", Quantity: 10, CreatedAt: base}
	acc1 := models.HistoryEvent{EventType: models.EventAcceptance, ArticleKey: key, OrderCode: "TM2024/0001", Quantity: 4, CreatedAt: base.Add(time.Hour)}
	acc2 := models.HistoryEvent{EventType: models.EventAcceptance, ArticleKey: key, OrderCode: "TM2024/0001", Quantity: 6, CreatedAt: base.Add(2 * time.Hour)}
	// Same code reissued later (legacy data): acceptances after it belong to it.
	order2 := models.HistoryEvent{EventType: models.EventOrder, ArticleKey: key, OrderCode: "TM2024/0001", Quantity: 5, CreatedAt: base.Add(3 * time.Hour)}
	acc3 := models.HistoryEvent{EventType: models.EventAcceptance, ArticleKey: key, OrderCode: "TM2024/0001", Quantity: 5, CreatedAt: base.Add(4 * time.Hour)}
	// Acceptance with no order event at all.
	orphan := models.HistoryEvent{EventType: models.EventAcceptance, ArticleKey: key, OrderCode: "LEGACY-7", Quantity: 2, CreatedAt: base.Add(5 * time.Hour)}

	groups := GroupEvents([]models.HistoryEvent{order1, acc1, acc2, order2, acc3, orphan})

	if len(groups) != 3 {
		t.Fatalf("want 3 groups, got %d: %+v", len(groups), groups)
	}
	if groups[0].Order == nil || groups[0].Order.Quantity != 10 || len(groups[0].Acceptances) != 2 {
		t.Errorf("first group wrong: %+v", groups[0])
	}
	if groups[1].Order == nil || groups[1].Order.Quantity != 5 || len(groups[1].Acceptances) != 1 {
		t.Errorf("acceptances must attach to the most recent preceding order: %+v", groups[1])
	}
	if groups[2].Order != nil || len(groups[2].Acceptances) != 1 || groups[2].Acceptances[0].OrderCode != "LEGACY-7" {
		t.Errorf("orphan acceptance should form its own root: %+v", groups[2])
	}
}

func TestStockAggregation(t *testing.T) {
	db := openTestDB(t)
	repo := NewStockRepository(db)
	key := marbleKey()

	slabs := []models.Slab{
		{ArticleKey: key, Supplier: "StoneCo", Quantity: 3, Pallet: "P1"},
		{ArticleKey: key, Supplier: "MarmiSud", Quantity: 2, Pallet: "P2"},
		{ArticleKey: key, Supplier: "StoneCo", Quantity: 9, IsScrap: true},
	}
	for i := range slabs {
		if err := db.Create(&slabs[i]).Error; err != nil {
			t.Fatalf("seed slab: %v", err)
		}
	}

	stock, err := repo.OnHandByArticle()
	if err != nil {
		t.Fatalf("stock: %v", err)
	}
	if stock[key] != 5 {
		t.Fatalf("want 5 on hand (scrap excluded), got %d", stock[key])
	}

	suppliers, err := repo.CandidateSuppliers(key)
	if err != nil {
		t.Fatalf("suppliers: %v", err)
	}
	if len(suppliers) != 2 || suppliers[0] != "MarmiSud" || suppliers[1] != "StoneCo" {
		t.Fatalf("want sorted distinct suppliers, got %v", suppliers)
	}
}
