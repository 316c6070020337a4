// Package services implements the site's workflows: authentication, order
// placement and the admin mutations. Every method bounds its store calls with
// the configured timeout.
package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/eatn/app/repositories"
	"github.com/shashiranjanraj/eatn/pkg/storage"
)

// Event names fired by the services.
const (
	EventUserRegistered     = "user.registered"
	EventOrderPlaced        = "order.placed"
	EventOrderStatusUpdated = "order.status_updated"
	EventMenuItemAdded      = "menu.item_added"
	EventMenuItemDeleted    = "menu.item_deleted"
)

// Config carries the tunables shared by the services.
type Config struct {
	StoreTimeout time.Duration
	BcryptCost   int
	Disk         storage.Disk
	Now          func() time.Time
}

// Services bundles the workflows handed to the controllers.
type Services struct {
	Auth   *AuthService
	Orders *OrderService
	Admin  *AdminService
}

// New wires every service against db.
func New(db *gorm.DB, cfg Config) *Services {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	users := repositories.NewUserRepository(db)
	shops := repositories.NewShopRepository(db)
	menu := repositories.NewMenuRepository(db)
	orders := repositories.NewOrderRepository(db)

	return &Services{
		Auth:   &AuthService{users: users, cost: cfg.BcryptCost, timeout: cfg.StoreTimeout},
		Orders: &OrderService{shops: shops, menu: menu, orders: orders, timeout: cfg.StoreTimeout, now: cfg.Now},
		Admin: &AdminService{
			shops: shops, menu: menu, orders: orders, users: users,
			disk: cfg.Disk, timeout: cfg.StoreTimeout,
		},
	}
}
