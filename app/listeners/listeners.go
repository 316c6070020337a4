// Package listeners attaches the audit log and business counters to the
// events fired by the services.
package listeners

import (
	"context"

	"github.com/shashiranjanraj/eatn/app/models"
	"github.com/shashiranjanraj/eatn/app/services"
	"github.com/shashiranjanraj/eatn/pkg/event"
	"github.com/shashiranjanraj/eatn/pkg/logger"
	"github.com/shashiranjanraj/eatn/pkg/metrics"
)

// Register attaches every listener. Call it once at boot.
func Register() {
	event.Listen(services.EventUserRegistered, userRegistered)
	event.Listen(services.EventOrderPlaced, orderPlaced)
	event.Listen(services.EventOrderStatusUpdated, statusUpdated)
	event.Listen(services.EventMenuItemAdded, menuItemAdded)
	event.Listen(services.EventMenuItemDeleted, menuItemDeleted)
}

func userRegistered(ctx context.Context, payload any) {
	u, ok := payload.(models.User)
	if !ok {
		return
	}
	metrics.Signups.WithLabelValues(u.AccountType).Inc()
	logger.WithCtx(ctx).Info("user registered", "user_id", u.ID, "username", u.Username, "account_type", u.AccountType)
}

func orderPlaced(ctx context.Context, payload any) {
	p, ok := payload.(services.OrderPlaced)
	if !ok {
		return
	}
	metrics.OrdersPlaced.WithLabelValues(p.Shop.Slug).Inc()
	logger.WithCtx(ctx).Info("order placed",
		"order_id", p.Order.ID,
		"user_id", p.Order.UserID,
		"shop", p.Shop.Slug,
		"item", p.Order.ItemName,
		"quantity", p.Order.Quantity,
		"total", p.Order.TotalPrice.StringFixed(2),
	)
}

func statusUpdated(ctx context.Context, payload any) {
	c, ok := payload.(services.StatusChange)
	if !ok {
		return
	}
	logger.WithCtx(ctx).Info("order status updated", "order_id", c.OrderID, "from", c.From, "to", c.To)
}

func menuItemAdded(ctx context.Context, payload any) {
	if item, ok := payload.(models.MenuItem); ok {
		logger.WithCtx(ctx).Info("menu item added", "item_id", item.ID, "shop_id", item.ShopID, "item", item.ItemName)
	}
}

func menuItemDeleted(ctx context.Context, payload any) {
	if item, ok := payload.(models.MenuItem); ok {
		logger.WithCtx(ctx).Info("menu item deleted", "item_id", item.ID, "shop_id", item.ShopID, "item", item.ItemName)
	}
}
