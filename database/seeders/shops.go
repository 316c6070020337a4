package seeders

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/eatn/app/models"
)

func init() {
	Register("shops", SeedShops)
	Register("menu", SeedMenu)
}

// Shops is the fixed campus line-up. IDs are stable because existing orders
// reference them.
var Shops = []models.Shop{
	{ShopID: 1, Slug: "finagle", ShopName: "Finagle Café",
		Description: "Artisanal café serving fresh baked goods, specialty coffee, and hearty meals",
		Tagline:     "Fresh bakes and hearty meals between lectures"},
	{ShopID: 2, Slug: "serenity", ShopName: "SERENITY INN",
		Description: "Food that tastes like home",
		Tagline:     "Delicious home-style meals that warm your heart"},
	{ShopID: 3, Slug: "cuisin", ShopName: "Sri Lankan Cuisine",
		Description: "Traditional Sri Lankan meals",
		Tagline:     "Authentic Sri Lankan cuisine prepared with love"},
	{ShopID: 4, Slug: "freshjuice", ShopName: "Fresh Juice",
		Description: "The best juice at NSBM",
		Tagline:     "Nutritious and refreshing juices made from the finest fruits"},
	{ShopID: 5, Slug: "tandoor", ShopName: "Tandoor",
		Description: "Authentic Indian Flavors Loved in Sri Lanka",
		Tagline:     "Experience the rich flavors of traditional Indian cuisine"},
}

// SeedShops upserts the shop rows by id.
func SeedShops(db *gorm.DB) error {
	for _, s := range Shops {
		shop := s
		if err := db.Where(models.Shop{ShopID: shop.ShopID}).Assign(shop).FirstOrCreate(&shop).Error; err != nil {
			return err
		}
	}
	return nil
}

type seedItem struct {
	name  string
	price int64
	image string
}

var defaultMenus = map[uint][]seedItem{
	1: {
		{"Shawarma", 480, "images/SHAW.jpg"},
		{"Hot-Dog", 270, "images/HOT.jpg"},
		{"Spaghetti", 520, "images/SPAG.jpg"},
		{"Kottu", 550, "images/KOT.jpg"},
		{"Lasagna", 650, "images/LAS.jpg"},
		{"Water (350ml)", 160, "images/WAT.jpg"},
		{"Iced Coffee", 250, "images/ICED.jpg"},
		{"Nescafe", 120, "images/NES.jpg"},
	},
}

// SeedMenu fills an empty shop menu with its defaults. Shops that already
// have items are left alone so admin edits survive re-seeding.
func SeedMenu(db *gorm.DB) error {
	for shopID, items := range defaultMenus {
		var n int64
		if err := db.Model(&models.MenuItem{}).Where("shop_id = ?", shopID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		for _, it := range items {
			row := models.MenuItem{ShopID: shopID, ItemName: it.name, Price: decimal.NewFromInt(it.price), ImageURL: it.image}
			if err := db.Create(&row).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
