package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/eatn/app/models"
	"github.com/shashiranjanraj/eatn/app/services"
	"github.com/shashiranjanraj/eatn/pkg/ctx"
)

// MsgUnknownAction is the redirect message for an unrecognised admin form.
const MsgUnknownAction = "Unknown action."

// AdminData backs admin.html.
type AdminData struct {
	services.Dashboard
	Managing string
}

// UsersData backs users.html.
type UsersData struct {
	Users []models.User
}

type AdminController struct {
	admin *services.AdminService
}

func NewAdminController(admin *services.AdminService) *AdminController {
	return &AdminController{admin: admin}
}

// Dashboard renders shops, menu items, orders and totals.
func (a *AdminController) Dashboard(c *ctx.Context) {
	d, err := a.admin.Dashboard(c.Context())
	if err != nil {
		failure(c, err)
		c.ServerError()
		return
	}
	c.HTML(http.StatusOK, "admin", c.Page("Admin Dashboard", AdminData{Dashboard: d, Managing: "All Shops"}))
}

// Mutate dispatches on the action field and always answers with a redirect
// back to the dashboard so a reload never repeats the change.
func (a *AdminController) Mutate(c *ctx.Context) {
	var (
		msg string
		err error
	)
	switch c.PostForm("action") {
	case "add_item":
		msg, err = a.addItem(c)
	case "delete_item":
		var in services.DeleteItemInput
		if err = c.Bind(&in); err == nil {
			msg, err = a.admin.DeleteMenuItem(c.Context(), in)
		}
	case "update_status":
		var in services.StatusInput
		if err = c.Bind(&in); err == nil {
			msg, err = a.admin.UpdateOrderStatus(c.Context(), in)
		}
	default:
		c.Redirect(withMessage("/admin", "error", MsgUnknownAction))
		return
	}

	if err != nil {
		reason, _ := failure(c, err)
		c.Redirect(withMessage("/admin", "error", reason))
		return
	}
	c.Redirect(withMessage("/admin", "success", msg))
}

func (a *AdminController) addItem(c *ctx.Context) (string, error) {
	var in services.AddItemInput
	if err := c.Bind(&in); err != nil {
		return "", err
	}

	file, hdr, err := c.R.FormFile("image_file")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return a.admin.AddMenuItem(c.Context(), in, nil)
	case err != nil:
		return "", err
	}
	defer file.Close()

	return a.admin.AddMenuItem(c.Context(), in, &services.Upload{Body: file, Filename: hdr.Filename, Size: hdr.Size})
}

// Users lists every registered account.
func (a *AdminController) Users(c *ctx.Context) {
	users, err := a.admin.ListUsers(c.Context())
	if err != nil {
		failure(c, err)
		c.ServerError()
		return
	}
	c.HTML(http.StatusOK, "users", c.Page("Registered Users", UsersData{Users: users}))
}
