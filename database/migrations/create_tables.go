package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/eatn/app/models"
	"github.com/shashiranjanraj/eatn/pkg/migration"
)

func init() {
	migration.Register("20260301000000_create_users_table", table{model: &models.User{}, name: "users"})
	migration.Register("20260301000001_create_shops_table", table{model: &models.Shop{}, name: "shops"})
	migration.Register("20260301000002_create_menu_item_table", table{model: &models.MenuItem{}, name: "menu_item"})
	migration.Register("20260301000003_create_orders_table", table{model: &models.Order{}, name: "orders"})
}

// table is a migration that creates one model's table and drops it on rollback.
type table struct {
	model interface{}
	name  string
}

func (t table) Up(db *gorm.DB) error {
	return db.AutoMigrate(t.model)
}

func (t table) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(t.name)
}
