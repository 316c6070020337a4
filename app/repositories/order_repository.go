package repositories

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/eatn/app/models"
)

// OrderRepository reads and writes orders.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts one row. It is a single statement with no transaction.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *OrderRepository) FindByID(ctx context.Context, id uint) (models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).First(&order, id).Error
	return order, err
}

// UpdateStatus sets status on one order and reports rows affected.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id uint, status string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	return res.RowsAffected, res.Error
}

// AllWithShop lists every order newest first. Orders whose shop is gone
// come back with an empty ShopName.
func (r *OrderRepository) AllWithShop(ctx context.Context) ([]models.OrderRow, error) {
	var rows []models.OrderRow
	err := r.db.WithContext(ctx).Table("orders AS o").
		Select("o.*, s.shop_name").
		Joins("LEFT JOIN shops s ON s.shop_id = o.shop_id").
		Order("o.order_date DESC, o.id DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *OrderRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&n).Error
	return n, err
}

// Revenue sums total_price over all orders.
func (r *OrderRepository) Revenue(ctx context.Context) (decimal.Decimal, error) {
	var out struct{ Total decimal.NullDecimal }
	err := r.db.WithContext(ctx).Model(&models.Order{}).
		Select("SUM(total_price) AS total").
		Scan(&out).Error
	if err != nil || !out.Total.Valid {
		return decimal.Zero, err
	}
	return out.Total.Decimal, nil
}
