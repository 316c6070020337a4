package models

import "github.com/shopspring/decimal"

// Shop is static reference data; the application never writes it.
type Shop struct {
	ShopID      uint   `gorm:"column:shop_id;primaryKey"`
	Slug        string `gorm:"size:50;uniqueIndex;not null"`
	ShopName    string `gorm:"column:shop_name;size:100;not null"`
	Description string `gorm:"size:255"`
	Tagline     string `gorm:"size:255"`
}

// MenuItem is one priced entry on a shop's menu.
type MenuItem struct {
	ID       uint            `gorm:"primaryKey"`
	ShopID   uint            `gorm:"column:shop_id;not null;index"`
	ItemName string          `gorm:"column:item_name;size:100;not null"`
	Price    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ImageURL string          `gorm:"column:image_url;size:255"`
}

func (MenuItem) TableName() string { return "menu_item" }

// MenuItemRow is a menu item joined with its shop name for the dashboard.
type MenuItemRow struct {
	MenuItem
	ShopName string
}
