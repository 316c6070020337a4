package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/eatn/app/models"
	"github.com/shashiranjanraj/eatn/app/repositories"
	"github.com/shashiranjanraj/eatn/pkg/auth"
	"github.com/shashiranjanraj/eatn/pkg/event"
	"github.com/shashiranjanraj/eatn/pkg/logger"
	"github.com/shashiranjanraj/eatn/pkg/metrics"
	"github.com/shashiranjanraj/eatn/pkg/orm"
	"github.com/shashiranjanraj/eatn/pkg/validate"
)

// User-facing messages of the order workflow.
const (
	MsgShopNotFound  = "Shop not found."
	MsgUnknownItem   = "Please select an item from the menu"
	MsgPriceMismatch = "Item price has changed, please review your order"
)

// OrderInput is the order form posted from a shop page.
type OrderInput struct {
	ItemName     string          `form:"item_name"     validate:"required"       msg:"*=Please select an item"`
	ItemPrice    decimal.Decimal `form:"item_price"    validate:"required,gt=0"  msg:"*=Invalid item price"`
	Quantity     int             `form:"quantity"      validate:"between=1,10"   msg:"*=Quantity must be between 1 and 10"`
	CustomerName string          `form:"customer_name" validate:"required,min=2,max=100" msg:"required=Customer name is required;min=Please enter a valid name (at least 2 characters);max=Customer name must be at most 100 characters"`
}

// Menu is a shop with its catalog.
type Menu struct {
	Shop  models.Shop
	Items []models.MenuItem
}

// Receipt is the outcome of a placed order.
type Receipt struct {
	Order   models.Order
	Shop    models.Shop
	Message string
}

// OrderPlaced is the payload of EventOrderPlaced.
type OrderPlaced struct {
	Order models.Order
	Shop  models.Shop
}

// OrderService serves shop pages and places orders.
type OrderService struct {
	shops   *repositories.ShopRepository
	menu    *repositories.MenuRepository
	orders  *repositories.OrderRepository
	timeout time.Duration
	now     func() time.Time
}

// Shops lists every shop for the home page.
func (s *OrderService) Shops(ctx context.Context) ([]models.Shop, error) {
	qctx, cancel := orm.Bounded(ctx, s.timeout)
	defer cancel()

	shops, err := s.shops.All(qctx)
	if err != nil {
		return nil, storeErr("list shops", err)
	}
	return shops, nil
}

// Menu loads the shop behind slug and its items.
func (s *OrderService) Menu(ctx context.Context, slug string) (Menu, error) {
	qctx, cancel := orm.Bounded(ctx, s.timeout)
	defer cancel()

	shop, err := s.shops.BySlug(qctx, slug)
	if orm.IsNotFound(err) {
		return Menu{}, notFound(MsgShopNotFound)
	}
	if err != nil {
		return Menu{}, storeErr("find shop", err)
	}

	items, err := s.menu.ByShop(qctx, shop.ShopID)
	if err != nil {
		return Menu{Shop: shop}, storeErr("list menu", err)
	}
	return Menu{Shop: shop, Items: items}, nil
}

// PlaceOrder validates in against shop's catalog and inserts one Pending
// order for who. The shop comes from the route, never from the form, and the
// stored price is the catalog price. Repeating a submission inserts another
// row.
func (s *OrderService) PlaceOrder(ctx context.Context, who auth.Identity, shop models.Shop, in OrderInput) (Receipt, error) {
	if who.UserID == 0 {
		return Receipt{}, auth.ErrUnauthenticated
	}
	if err := validate.Struct(&in); err != nil {
		return Receipt{}, err
	}

	qctx, cancel := orm.Bounded(ctx, s.timeout)
	defer cancel()

	item, err := s.menu.FindInShop(qctx, shop.ShopID, in.ItemName)
	if orm.IsNotFound(err) {
		return Receipt{}, validate.New("item_name", MsgUnknownItem)
	}
	if err != nil {
		return Receipt{}, storeErr("find menu item", err)
	}

	if !item.Price.Equal(in.ItemPrice) {
		metrics.PriceMismatches.WithLabelValues(shop.Slug).Inc()
		logger.WithCtx(ctx).Warn("order price mismatch",
			"user_id", who.UserID,
			"shop", shop.Slug,
			"item", item.ItemName,
			"submitted", in.ItemPrice.String(),
			"catalog", item.Price.String(),
		)
		return Receipt{}, validate.New("item_price", MsgPriceMismatch)
	}

	order := models.Order{
		UserID:       who.UserID,
		ShopID:       shop.ShopID,
		ItemName:     item.ItemName,
		ItemPrice:    item.Price,
		Quantity:     in.Quantity,
		TotalPrice:   item.Price.Mul(decimal.NewFromInt(int64(in.Quantity))),
		CustomerName: in.CustomerName,
		OrderDate:    s.now(),
		Status:       models.StatusPending,
	}
	if err := s.orders.Create(qctx, &order); err != nil {
		return Receipt{}, storeErr("create order", err)
	}

	event.Fire(ctx, EventOrderPlaced, OrderPlaced{Order: order, Shop: shop})

	return Receipt{
		Order: order,
		Shop:  shop,
		Message: fmt.Sprintf("Order for %d × %s placed successfully at %s! Total: Rs. %s",
			order.Quantity, order.ItemName, shop.ShopName, order.TotalPrice.StringFixed(2)),
	}, nil
}
