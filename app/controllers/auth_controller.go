package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/shashiranjanraj/eatn/app/services"
	"github.com/shashiranjanraj/eatn/config"
	"github.com/shashiranjanraj/eatn/pkg/auth"
	"github.com/shashiranjanraj/eatn/pkg/ctx"
	"github.com/shashiranjanraj/eatn/pkg/middleware"
)

// Messages carried to the login page.
const (
	MsgSignedUp    = "Signup successful! Please login."
	MsgLoggedOut   = "You have been successfully logged out"
	MsgNotLoggedIn = "You are not logged in"
)

// LoginData backs login.html.
type LoginData struct {
	Username string
	Redirect string
}

// SignupData backs signup.html. Passwords are never echoed back.
type SignupData struct {
	Form  services.SignupInput
	Roles []string
}

type AuthController struct {
	service     *services.AuthService
	rememberTTL time.Duration
	secure      bool
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{
		service:     service,
		rememberTTL: config.SessionRememberTTL(),
		secure:      config.SessionSecure(),
	}
}

// ShowLogin renders the login form.
func (a *AuthController) ShowLogin(c *ctx.Context) {
	c.HTML(http.StatusOK, "login", c.Page("Login", LoginData{
		Redirect: auth.SafeRedirect(c.Query("redirect"), ""),
	}))
}

// Login checks credentials, starts the session and redirects to the
// continuation, the dashboard for admins, or the home page.
func (a *AuthController) Login(c *ctx.Context) {
	var in services.LoginInput
	err := c.Bind(&in)
	var id auth.Identity
	if err == nil {
		id, err = a.service.Login(c.Context(), in)
	}
	if err != nil {
		msg, code := failure(c, err)
		page := c.Page("Login", LoginData{Username: in.Username, Redirect: auth.SafeRedirect(in.Redirect, "")})
		page.Error = msg
		c.HTML(code, "login", page)
		return
	}

	sess := c.Session()
	auth.Login(sess, id)
	if in.Remember {
		sess.SetTTL(a.rememberTTL)
		token, err := auth.IssueRememberToken(id, a.rememberTTL)
		switch {
		case errors.Is(err, auth.ErrNoAppKey):
			c.Log().Warn("remember me skipped, APP_KEY not configured", "user_id", id.UserID)
		case err != nil:
			c.Log().Error("remember token not issued", "user_id", id.UserID, "error", err)
		default:
			middleware.SetRemembered(c.W, token, a.rememberTTL, a.secure)
		}
	}
	c.Log().Info("user logged in", "user_id", id.UserID, "remember", in.Remember)

	fallback := "/"
	if id.IsAdmin() {
		fallback = "/admin"
	}
	c.Redirect(auth.SafeRedirect(in.Redirect, fallback))
}

// ShowSignup renders the signup form.
func (a *AuthController) ShowSignup(c *ctx.Context) {
	c.HTML(http.StatusOK, "signup", c.Page("Sign Up", SignupData{Roles: roles}))
}

var roles = []string{auth.RoleStudent, auth.RoleAdmin}

// Signup registers an account and sends the user to the login page.
func (a *AuthController) Signup(c *ctx.Context) {
	var in services.SignupInput
	err := c.Bind(&in)
	if err == nil {
		_, err = a.service.Signup(c.Context(), in)
	}
	if err != nil {
		msg, code := failure(c, err)
		in.Password, in.ConfirmPassword = "", ""
		page := c.Page("Sign Up", SignupData{Form: in, Roles: roles})
		page.Error = msg
		c.HTML(code, "signup", page)
		return
	}
	c.Redirect(withMessage("/login", "success", MsgSignedUp))
}

// Logout destroys the session and the remember-me cookie.
func (a *AuthController) Logout(c *ctx.Context) {
	sess := c.Session()
	id, ok := auth.FromSession(sess)
	if !ok {
		c.Redirect(withMessage("/login", "error", MsgNotLoggedIn))
		return
	}
	auth.Logout(sess)
	middleware.ForgetRemembered(c.W, a.secure)
	c.Log().Info("user logged out", "user_id", id.UserID)
	c.Redirect(withMessage("/login", "success", MsgLoggedOut))
}
