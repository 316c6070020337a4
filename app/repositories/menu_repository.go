package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/eatn/app/models"
)

// MenuRepository reads and writes menu_item.
type MenuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{db: db}
}

// ByShop lists a shop's menu in insertion order.
func (r *MenuRepository) ByShop(ctx context.Context, shopID uint) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := r.db.WithContext(ctx).Where("shop_id = ?", shopID).Order("id").Find(&items).Error
	return items, err
}

// FindInShop looks up the catalog entry for item name in a shop.
func (r *MenuRepository) FindInShop(ctx context.Context, shopID uint, name string) (models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.WithContext(ctx).Where("shop_id = ? AND item_name = ?", shopID, name).Order("id").First(&item).Error
	return item, err
}

func (r *MenuRepository) FindByID(ctx context.Context, id uint) (models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.WithContext(ctx).First(&item, id).Error
	return item, err
}

func (r *MenuRepository) Create(ctx context.Context, item *models.MenuItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// Delete removes the item and reports how many rows went.
func (r *MenuRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.MenuItem{}, id)
	return res.RowsAffected, res.Error
}

// AllWithShop lists every item with its shop name, ordered by shop then name.
func (r *MenuRepository) AllWithShop(ctx context.Context) ([]models.MenuItemRow, error) {
	var rows []models.MenuItemRow
	err := r.db.WithContext(ctx).Table("menu_item AS m").
		Select("m.id, m.shop_id, m.item_name, m.price, m.image_url, s.shop_name").
		Joins("LEFT JOIN shops s ON s.shop_id = m.shop_id").
		Order("m.shop_id, m.item_name").
		Scan(&rows).Error
	return rows, err
}

func (r *MenuRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.MenuItem{}).Count(&n).Error
	return n, err
}
