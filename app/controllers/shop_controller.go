package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/eatn/app/models"
	"github.com/shashiranjanraj/eatn/app/services"
	"github.com/shashiranjanraj/eatn/pkg/ctx"
)

// HomeData backs home.html.
type HomeData struct {
	Shops []models.Shop
}

// ShopData backs shop.html.
type ShopData struct {
	Shop         models.Shop
	Items        []models.MenuItem
	Quantities   []int
	CustomerName string
}

var quantities = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

type ShopController struct {
	orders *services.OrderService
}

func NewShopController(orders *services.OrderService) *ShopController {
	return &ShopController{orders: orders}
}

// Home lists every shop.
func (s *ShopController) Home(c *ctx.Context) {
	shops, err := s.orders.Shops(c.Context())
	if err != nil {
		failure(c, err)
		c.ServerError()
		return
	}
	c.HTML(http.StatusOK, "home", c.Page("Home", HomeData{Shops: shops}))
}

// Show renders a shop's catalog. Unknown slugs get the empty-state page.
func (s *ShopController) Show(c *ctx.Context) {
	menu, ok := s.menu(c)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "shop", c.Page(menu.Shop.ShopName, s.data(menu, "")))
}

// Order places an order at the shop named by the route and re-renders the
// catalog with the outcome.
func (s *ShopController) Order(c *ctx.Context) {
	menu, ok := s.menu(c)
	if !ok {
		return
	}
	who, _ := c.Identity()

	var in services.OrderInput
	err := c.Bind(&in)
	var receipt services.Receipt
	if err == nil {
		receipt, err = s.orders.PlaceOrder(c.Context(), who, menu.Shop, in)
	}

	page := c.Page(menu.Shop.ShopName, s.data(menu, in.CustomerName))
	page.Success, page.Error = "", ""
	code := http.StatusOK
	if err != nil {
		page.Error, code = failure(c, err)
	} else {
		page.Success = receipt.Message
	}
	c.HTML(code, "shop", page)
}

func (s *ShopController) menu(c *ctx.Context) (services.Menu, bool) {
	menu, err := s.orders.Menu(c.Context(), c.Param("shop"))
	if err == nil {
		return menu, true
	}
	if errors.Is(err, services.ErrNotFound) {
		msg, _ := failure(c, err)
		c.NotFound(msg)
		return menu, false
	}
	failure(c, err)
	c.ServerError()
	return menu, false
}

func (s *ShopController) data(menu services.Menu, customer string) ShopData {
	return ShopData{Shop: menu.Shop, Items: menu.Items, Quantities: quantities, CustomerName: customer}
}
