package repositories

import (
	"slab-app/models"

	"gorm.io/gorm"
)

// StockRepository reads the slab inventory for the reorder engine: on-hand
// sums and candidate supplier/producer deduction. Scrap rows never count.
type StockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{db}
}

type stockRow struct {
	Material  string
	Type      string
	Thickness string
	DimX      string
	DimY      string
	Producer  string
	Quantity  int
}

// OnHandByArticle returns the summed on-hand quantity per article key. The
// sum is recomputed from the slabs table on every call; nothing is cached
// between detection passes.
func (r *StockRepository) OnHandByArticle() (map[models.ArticleKey]int, error) {
	sqlStock := `select material, type, thickness, dim_x, dim_y, producer,
	sum(quantity) as quantity
	from slabs
	where is_scrap = ? and deleted_at is null
	group by material, type, thickness, dim_x, dim_y, producer`

	var rows []stockRow
	if err := r.db.Raw(sqlStock, false).Scan(&rows).Error; err != nil {
		return nil, err
	}

	stock := make(map[models.ArticleKey]int, len(rows))
	for _, row := range rows {
		key := models.ArticleKey{
			Material:  row.Material,
			Type:      row.Type,
			Thickness: row.Thickness,
			DimX:      row.DimX,
			DimY:      row.DimY,
			Producer:  row.Producer,
		}
		stock[key] += row.Quantity
	}
	return stock, nil
}

// CandidateSuppliers returns the distinct non-empty suppliers seen on
// non-scrap slabs matching the key.
func (r *StockRepository) CandidateSuppliers(key models.ArticleKey) ([]string, error) {
	q := r.db.Model(&models.Slab{}).
		Distinct("supplier").
		Where("is_scrap = ? AND supplier <> ''", false).
		Where("material = ? AND type = ? AND thickness = ? AND dim_x = ? AND dim_y = ?",
			key.Material, key.Type, key.Thickness, key.DimX, key.DimY).
		Order("supplier")
	if key.Producer != "" {
		q = q.Where("producer = ?", key.Producer)
	}

	var suppliers []string
	if err := q.Pluck("supplier", &suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

// CandidateProducers returns the distinct non-empty producers seen on
// non-scrap slabs matching the key. The key's own producer field is ignored
// here: an unspecified-producer article is exactly the case where the
// operator needs the list of producers to choose from.
func (r *StockRepository) CandidateProducers(key models.ArticleKey) ([]string, error) {
	var producers []string
	err := r.db.Model(&models.Slab{}).
		Distinct("producer").
		Where("is_scrap = ? AND producer <> ''", false).
		Where("material = ? AND type = ? AND thickness = ? AND dim_x = ? AND dim_y = ?",
			key.Material, key.Type, key.Thickness, key.DimX, key.DimY).
		Order("producer").
		Pluck("producer", &producers).Error
	if err != nil {
		return nil, err
	}
	return producers, nil
}
