package services

import (
	"gorm.io/gorm"

	"store-rating-api/models"
)

// ShopAggregate is the computed rating summary for one shop. Averages are
// arithmetic means rounded to one decimal; a shop with no ratings reports
// average 0 and count 0. Always recomputed from the rating rows on read,
// never cached in a denormalized column.
type ShopAggregate struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

type shopAggregateRow struct {
	ShopID  uint
	Average float64
	Count   int64
}

// aggregatesByShop runs one grouped query over the ratings table and returns
// a summary per shop id. Shops without ratings are absent from the map; the
// zero value of ShopAggregate is the correct answer for them.
func aggregatesByShop(db *gorm.DB, shopIDs []uint) (map[uint]ShopAggregate, error) {
	out := make(map[uint]ShopAggregate, len(shopIDs))
	if len(shopIDs) == 0 {
		return out, nil
	}
	var rows []shopAggregateRow
	err := db.Model(&models.Rating{}).
		Select("shop_id, ROUND(AVG(value), 1) AS average, COUNT(*) AS count").
		Where("shop_id IN ?", shopIDs).
		Group("shop_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.ShopID] = ShopAggregate{Average: r.Average, Count: r.Count}
	}
	return out, nil
}

// aggregateAcrossShops computes one combined summary over several shops,
// used for the shop-owner dashboard.
func aggregateAcrossShops(db *gorm.DB, shopIDs []uint) (ShopAggregate, error) {
	if len(shopIDs) == 0 {
		return ShopAggregate{}, nil
	}
	var row struct {
		Average float64
		Count   int64
	}
	err := db.Model(&models.Rating{}).
		Select("ROUND(IFNULL(AVG(value), 0), 1) AS average, COUNT(*) AS count").
		Where("shop_id IN ?", shopIDs).
		Scan(&row).Error
	if err != nil {
		return ShopAggregate{}, err
	}
	return ShopAggregate{Average: row.Average, Count: row.Count}, nil
}
