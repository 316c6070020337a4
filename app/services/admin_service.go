package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/eatn/app/models"
	"github.com/shashiranjanraj/eatn/app/repositories"
	"github.com/shashiranjanraj/eatn/pkg/event"
	"github.com/shashiranjanraj/eatn/pkg/logger"
	"github.com/shashiranjanraj/eatn/pkg/metrics"
	"github.com/shashiranjanraj/eatn/pkg/orm"
	"github.com/shashiranjanraj/eatn/pkg/storage"
	"github.com/shashiranjanraj/eatn/pkg/validate"
)

// User-facing messages of the admin operations.
const (
	MsgItemFieldsRequired = "Item name, price, and shop ID are required."
	MsgImageRequired      = "Please provide an image URL or upload an image."
	MsgImageType          = "Image must be a JPEG, PNG, WebP or GIF file."
	MsgImageTooLarge      = "Image must be 2 MB or smaller."
	MsgShopMissing        = "Selected shop does not exist."
	MsgItemNotFound       = "Menu item not found."
	MsgOrderNotFound      = "Order not found."
	MsgInvalidStatus      = "Invalid status value."
	MsgOrderReopen        = "Completed orders cannot be reopened."
	MsgItemDeleted        = "Item deleted successfully!"
	MsgStatusUpdated      = "Order status updated successfully!"

	// UnknownShop labels orders whose shop row is gone.
	UnknownShop = "Unknown Shop"

	// MaxImageBytes caps uploaded menu images.
	MaxImageBytes = 2 << 20
)

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// AddItemInput is the add_item form. The image comes from ImageURL or an
// uploaded file.
type AddItemInput struct {
	ShopID   uint            `form:"shop_id"   validate:"required"         msg:"*=Item name, price, and shop ID are required."`
	ItemName string          `form:"item_name" validate:"required,max=100" msg:"*=Item name, price, and shop ID are required.;max=Item name must be at most 100 characters."`
	Price    decimal.Decimal `form:"price"     validate:"required,gt=0,decimals=2" msg:"*=Item name, price, and shop ID are required.;numeric=Price must be a number.;gt=Price must be greater than zero.;decimals=Price can have at most 2 decimal places."`
	ImageURL string          `form:"image_url" validate:"nullable,href,max=255"   msg:"href=Image URL must be a web address or a site path.;max=Image URL must be at most 255 characters."`
}

// DeleteItemInput is the delete_item form.
type DeleteItemInput struct {
	ItemID uint `form:"item_id" validate:"required" msg:"*=Menu item not found."`
}

// StatusInput is the update_status form.
type StatusInput struct {
	OrderID uint   `form:"order_id" validate:"required"                      msg:"*=Order not found."`
	Status  string `form:"status"   validate:"required,in=Pending,Completed" msg:"*=Invalid status value."`
}

// Upload is an image file submitted with an add_item form.
type Upload struct {
	Body     io.Reader
	Filename string
	Size     int64
}

// Dashboard is everything the admin page shows.
type Dashboard struct {
	Shops       []models.Shop
	Items       []models.MenuItemRow
	Orders      []models.OrderRow
	TotalOrders int64
	MenuCount   int64
	Revenue     decimal.Decimal
}

// StatusChange is the payload of EventOrderStatusUpdated.
type StatusChange struct {
	OrderID uint
	From    string
	To      string
}

// AdminService implements the admin dashboard and its mutations.
type AdminService struct {
	shops   *repositories.ShopRepository
	menu    *repositories.MenuRepository
	orders  *repositories.OrderRepository
	users   *repositories.UserRepository
	disk    storage.Disk
	timeout time.Duration
}

// Dashboard loads shops, menu items, orders (newest first) and the totals.
func (s *AdminService) Dashboard(ctx context.Context) (Dashboard, error) {
	qctx, cancel := orm.Bounded(ctx, s.timeout)
	defer cancel()

	var (
		d   Dashboard
		err error
	)
	if d.Shops, err = s.shops.All(qctx); err != nil {
		return d, storeErr("list shops", err)
	}
	if d.Items, err = s.menu.AllWithShop(qctx); err != nil {
		return d, storeErr("list menu items", err)
	}
	if d.Orders, err = s.orders.AllWithShop(qctx); err != nil {
		return d, storeErr("list orders", err)
	}
	if d.TotalOrders, err = s.orders.Count(qctx); err != nil {
		return d, storeErr("count orders", err)
	}
	if d.MenuCount, err = s.menu.Count(qctx); err != nil {
		return d, storeErr("count menu items", err)
	}
	if d.Revenue, err = s.orders.Revenue(qctx); err != nil {
		return d, storeErr("sum revenue", err)
	}

	for i := range d.Items {
		if d.Items[i].ShopName == "" {
			d.Items[i].ShopName = UnknownShop
		}
	}
	for i := range d.Orders {
		if d.Orders[i].ShopName == "" {
			d.Orders[i].ShopName = UnknownShop
		}
	}
	return d, nil
}

// AddMenuItem stores a new menu item. When img is non-nil the file is put on
// the disk and its URL replaces in.ImageURL.
func (s *AdminService) AddMenuItem(ctx context.Context, in AddItemInput, img *Upload) (msg string, err error) {
	defer func() { record("add_item", err) }()

	if err := validate.Struct(&in); err != nil {
		return "", err
	}
	if in.ImageURL == "" && img == nil {
		return "", validate.New("image_url", MsgImageRequired)
	}

	qctx, cancel := orm.Bounded(ctx, s.timeout)
	defer cancel()

	ok, err := s.shops.Exists(qctx, in.ShopID)
	if err != nil {
		return "", storeErr("find shop", err)
	}
	if !ok {
		return "", validate.New("shop_id", MsgShopMissing)
	}

	var key string
	if img != nil {
		if key, err = s.putImage(qctx, img); err != nil {
			return "", err
		}
		in.ImageURL = s.disk.URL(key)
	}

	item := models.MenuItem{
		ShopID:   in.ShopID,
		ItemName: in.ItemName,
		Price:    in.Price,
		ImageURL: in.ImageURL,
	}
	if err := s.menu.Create(qctx, &item); err != nil {
		if key != "" {
			if derr := s.disk.Delete(ctx, key); derr != nil {
				logger.WithCtx(ctx).Warn("orphaned menu image", "key", key, "error", derr)
			}
		}
		return "", storeErr("create menu item", err)
	}

	event.Fire(ctx, EventMenuItemAdded, item)
	return fmt.Sprintf("Item '%s' added successfully!", item.ItemName), nil
}

func (s *AdminService) putImage(ctx context.Context, img *Upload) (string, error) {
	ext := strings.ToLower(path.Ext(img.Filename))
	contentType, ok := imageTypes[ext]
	if !ok {
		return "", validate.New("image_file", MsgImageType)
	}
	if img.Size > MaxImageBytes {
		return "", validate.New("image_file", MsgImageTooLarge)
	}
	if s.disk == nil {
		return "", storeErr("put image", errors.New("no storage disk configured"))
	}

	key := "menu/" + uuid.NewString() + ext
	if err := s.disk.Put(ctx, key, io.LimitReader(img.Body, MaxImageBytes), contentType); err != nil {
		return "", storeErr("put image", err)
	}
	return key, nil
}

// DeleteMenuItem removes one menu item. Orders keep their copied name and
// price, so nothing else changes.
func (s *AdminService) DeleteMenuItem(ctx context.Context, in DeleteItemInput) (msg string, err error) {
	defer func() { record("delete_item", err) }()

	if err := validate.Struct(&in); err != nil {
		return "", err
	}

	qctx, cancel := orm.Bounded(ctx, s.timeout)
	defer cancel()

	item, err := s.menu.FindByID(qctx, in.ItemID)
	if orm.IsNotFound(err) {
		return "", notFound(MsgItemNotFound)
	}
	if err != nil {
		return "", storeErr("find menu item", err)
	}

	n, err := s.menu.Delete(qctx, in.ItemID)
	if err != nil {
		return "", storeErr("delete menu item", err)
	}
	if n == 0 {
		return "", notFound(MsgItemNotFound)
	}

	event.Fire(ctx, EventMenuItemDeleted, item)
	return MsgItemDeleted, nil
}

// UpdateOrderStatus moves an order to in.Status. Unknown statuses are
// rejected before the store is touched.
func (s *AdminService) UpdateOrderStatus(ctx context.Context, in StatusInput) (msg string, err error) {
	defer func() { record("update_status", err) }()

	if !models.ValidStatus(in.Status) {
		return "", validate.New("status", MsgInvalidStatus)
	}
	if err := validate.Struct(&in); err != nil {
		return "", err
	}

	qctx, cancel := orm.Bounded(ctx, s.timeout)
	defer cancel()

	order, err := s.orders.FindByID(qctx, in.OrderID)
	if orm.IsNotFound(err) {
		return "", notFound(MsgOrderNotFound)
	}
	if err != nil {
		return "", storeErr("find order", err)
	}

	if !models.CanTransition(order.Status, in.Status) {
		return "", validate.New("status", MsgOrderReopen)
	}
	if order.Status == in.Status {
		return MsgStatusUpdated, nil
	}

	if _, err := s.orders.UpdateStatus(qctx, order.ID, in.Status); err != nil {
		return "", storeErr("update order status", err)
	}

	event.Fire(ctx, EventOrderStatusUpdated, StatusChange{OrderID: order.ID, From: order.Status, To: in.Status})
	return MsgStatusUpdated, nil
}

// ListUsers returns every account ordered by id.
func (s *AdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	qctx, cancel := orm.Bounded(ctx, s.timeout)
	defer cancel()

	users, err := s.users.All(qctx)
	if err != nil {
		return nil, storeErr("list users", err)
	}
	return users, nil
}

func record(action string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrStore):
		result = "error"
	default:
		result = "rejected"
	}
	metrics.AdminActions.WithLabelValues(action, result).Inc()
}
