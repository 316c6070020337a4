// Package routes maps every URL of the site to its controller.
package routes

import (
	"time"

	"github.com/shashiranjanraj/eatn/app/controllers"
	"github.com/shashiranjanraj/eatn/app/services"
	"github.com/shashiranjanraj/eatn/config"
	"github.com/shashiranjanraj/eatn/pkg/auth"
	"github.com/shashiranjanraj/eatn/pkg/ctx"
	"github.com/shashiranjanraj/eatn/pkg/middleware"
	"github.com/shashiranjanraj/eatn/pkg/rbac"
	"github.com/shashiranjanraj/eatn/pkg/router"
)

// RegisterWeb registers the pages. Static admin and auth paths are matched
// before the catch-all shop slug.
func RegisterWeb(r *router.Router, svc *services.Services) {
	authController := controllers.NewAuthController(svc.Auth)
	shopController := controllers.NewShopController(svc.Orders)
	adminController := controllers.NewAdminController(svc.Admin)

	loginLimit := middleware.RateLimit(config.LoginRateLimit(), time.Minute)

	r.Get("/", "home", ctx.Wrap(shopController.Home))

	guest := r.Group("", rbac.Guest)
	guest.Get("/login", "login", ctx.Wrap(authController.ShowLogin))
	guest.Post("/login", "login.submit", ctx.Wrap(authController.Login), loginLimit)
	guest.Get("/signup", "signup", ctx.Wrap(authController.ShowSignup))
	guest.Post("/signup", "signup.submit", ctx.Wrap(authController.Signup), loginLimit)

	r.Get("/logout", "logout", ctx.Wrap(authController.Logout))

	admin := r.Group("/admin", rbac.HasRole(auth.RoleAdmin))
	admin.Get("/", "admin", ctx.Wrap(adminController.Dashboard))
	admin.Post("/", "admin.mutate", ctx.Wrap(adminController.Mutate))
	admin.Get("/users", "admin.users", ctx.Wrap(adminController.Users))

	r.Get("/{shop}", "shop.show", ctx.Wrap(shopController.Show))
	r.Post("/{shop}", "shop.order", ctx.Wrap(shopController.Order), middleware.Authenticate)
}
