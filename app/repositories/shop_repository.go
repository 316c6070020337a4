package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/eatn/app/models"
	"github.com/shashiranjanraj/eatn/pkg/orm"
)

const shopCacheTTL = 10 * time.Minute

// ShopRepository reads the static shops table. Lookups by slug go through
// the Redis cache when it is connected.
type ShopRepository struct {
	db *gorm.DB
}

func NewShopRepository(db *gorm.DB) *ShopRepository {
	return &ShopRepository{db: db}
}

func (r *ShopRepository) All(ctx context.Context) ([]models.Shop, error) {
	var shops []models.Shop
	err := orm.Remember(ctx, "eatn:shops:all", shopCacheTTL, &shops, func() error {
		return r.db.WithContext(ctx).Order("shop_id").Find(&shops).Error
	})
	return shops, err
}

// BySlug returns gorm.ErrRecordNotFound for an unknown slug.
func (r *ShopRepository) BySlug(ctx context.Context, slug string) (models.Shop, error) {
	var shop models.Shop
	err := orm.Remember(ctx, "eatn:shops:slug:"+slug, shopCacheTTL, &shop, func() error {
		return r.db.WithContext(ctx).Where("slug = ?", slug).First(&shop).Error
	})
	return shop, err
}

func (r *ShopRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Shop{}).Where("shop_id = ?", id).Count(&n).Error
	return n > 0, err
}
