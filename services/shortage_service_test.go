package services

import (
	"testing"

	"slab-app/models"
)

func TestSuggestQuantity(t *testing.T) {
	cases := []struct {
		name      string
		stock     int
		threshold int
		manual    int
		want      int
	}{
		{"no manual suggestion restores to threshold+1", 3, 5, 0, 3},
		{"manual honored when it crosses the threshold", 3, 5, 10, 10},
		{"manual overridden when it would not cross", 3, 5, 2, 3},
		{"manual exactly at threshold+1 is overridden", 3, 5, 3, 3},
		{"zero stock", 0, 5, 0, 6},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SuggestQuantity(tc.stock, tc.threshold, tc.manual); got != tc.want {
				t.Errorf("SuggestQuantity(%d, %d, %d) = %d, want %d",
					tc.stock, tc.threshold, tc.manual, got, tc.want)
			}
		})
	}
}

func TestInFlight(t *testing.T) {
	keyA := models.ArticleKey{Material: "Marble", Thickness: "20mm"}
	keyB := models.ArticleKey{Material: "Granite", Thickness: "30mm"}
	keyC := models.ArticleKey{Material: "Quartzite"}

	busy := InFlight(
		[]models.Rdo{{ArticleKey: keyA}},
		[]models.AcceptanceRecord{{ArticleKey: keyB}, {ArticleKey: keyA}},
	)

	if _, ok := busy[keyA]; !ok {
		t.Error("keyA should be in flight via rdo and acceptance")
	}
	if _, ok := busy[keyB]; !ok {
		t.Error("keyB should be in flight via acceptance")
	}
	if _, ok := busy[keyC]; ok {
		t.Error("keyC should not be in flight")
	}
	if len(InFlight(nil, nil)) != 0 {
		t.Error("empty snapshots should yield an empty set")
	}
}

func seedCatalogAndStock(t *testing.T, svc *ShortageService, key models.ArticleKey, stock int) {
	t.Helper()
	if err := svc.DB.Create(&models.CatalogArticle{ArticleKey: key}).Error; err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	if stock > 0 {
		slab := models.Slab{ArticleKey: key, Supplier: "StoneCo", Quantity: stock, Pallet: "P1"}
		if err := svc.DB.Create(&slab).Error; err != nil {
			t.Fatalf("seed slab: %v", err)
		}
	}
}

func TestDetectFlagsShortArticles(t *testing.T) {
	db := newTestDB(t)
	thresholds := NewThresholdService(db, testCfg)
	svc := NewShortageService(db, thresholds)
	key := testKey()

	seedCatalogAndStock(t, svc, key, 3)
	if err := thresholds.SetRule(key, 5, 0, 1); err != nil {
		t.Fatalf("set rule: %v", err)
	}

	items, err := svc.Detect()
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("want 1 shortage, got %d", len(items))
	}
	item := items[0]
	if item.Stock != 3 || item.Threshold != 5 || item.SuggestedQty != 3 {
		t.Errorf("unexpected item: %+v", item)
	}
}

func TestDetectHonorsManualQuantity(t *testing.T) {
	db := newTestDB(t)
	thresholds := NewThresholdService(db, testCfg)
	svc := NewShortageService(db, thresholds)
	key := testKey()

	seedCatalogAndStock(t, svc, key, 3)
	if err := thresholds.SetRule(key, 5, 10, 1); err != nil {
		t.Fatalf("set rule: %v", err)
	}

	items, err := svc.Detect()
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(items) != 1 || items[0].SuggestedQty != 10 {
		t.Fatalf("want suggested 10, got %+v", items)
	}
}

func TestDetectThresholdZeroSentinel(t *testing.T) {
	db := newTestDB(t)
	thresholds := NewThresholdService(db, testCfg)
	svc := NewShortageService(db, thresholds)
	key := testKey()

	// Zero stock, but threshold 0 means never flag.
	seedCatalogAndStock(t, svc, key, 0)
	if err := thresholds.SetRule(key, 0, 0, 1); err != nil {
		t.Fatalf("set rule: %v", err)
	}

	items, err := svc.Detect()
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("threshold 0 article must never be flagged, got %+v", items)
	}
}

func TestDetectSkipsInFlightArticles(t *testing.T) {
	db := newTestDB(t)
	thresholds := NewThresholdService(db, testCfg)
	svc := NewShortageService(db, thresholds)
	key := testKey()

	seedCatalogAndStock(t, svc, key, 1)
	if err := thresholds.SetRule(key, 5, 0, 1); err != nil {
		t.Fatalf("set rule: %v", err)
	}

	rdo, err := NewRdoService(db).Create(key, 5, []string{"StoneCo"}, nil, 1)
	if err != nil {
		t.Fatalf("create rdo: %v", err)
	}

	items, err := svc.Detect()
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("in-flight article must not be flagged, got %+v", items)
	}

	// Abandoning the draft brings the article back on the next pass.
	if err := NewRdoService(db).Delete(rdo.ID); err != nil {
		t.Fatalf("delete rdo: %v", err)
	}
	items, err = svc.Detect()
	if err != nil {
		t.Fatalf("detect after abandon: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("article should reappear after abandon, got %+v", items)
	}
}

func TestDetectExcludesScrap(t *testing.T) {
	db := newTestDB(t)
	thresholds := NewThresholdService(db, testCfg)
	svc := NewShortageService(db, thresholds)
	key := testKey()

	seedCatalogAndStock(t, svc, key, 4)
	scrap := models.Slab{ArticleKey: key, Quantity: 50, IsScrap: true}
	if err := db.Create(&scrap).Error; err != nil {
		t.Fatalf("seed scrap: %v", err)
	}
	if err := thresholds.SetRule(key, 5, 0, 1); err != nil {
		t.Fatalf("set rule: %v", err)
	}

	items, err := svc.Detect()
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(items) != 1 || items[0].Stock != 4 {
		t.Fatalf("scrap rows must not count as stock, got %+v", items)
	}
}

func TestDetectUsesDefaultThreshold(t *testing.T) {
	db := newTestDB(t)
	thresholds := NewThresholdService(db, testCfg)
	svc := NewShortageService(db, thresholds)
	key := testKey()

	// No rule at all: the configured default threshold (5) applies.
	seedCatalogAndStock(t, svc, key, 2)

	items, err := svc.Detect()
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(items) != 1 || items[0].Threshold != testCfg.DefaultThreshold || items[0].RuleSource != "default" {
		t.Fatalf("want default-rule shortage, got %+v", items)
	}
}
