// Package controllers turns HTTP requests into service calls and renders
// the outcome as a page or a redirect.
package controllers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/shashiranjanraj/eatn/app/services"
	"github.com/shashiranjanraj/eatn/pkg/auth"
	"github.com/shashiranjanraj/eatn/pkg/bind"
	"github.com/shashiranjanraj/eatn/pkg/ctx"
	"github.com/shashiranjanraj/eatn/pkg/middleware"
	"github.com/shashiranjanraj/eatn/pkg/validate"
	"github.com/shashiranjanraj/eatn/pkg/view"
)

// MsgInvalidLogin is the only message a failed login ever shows.
const MsgInvalidLogin = "Invalid username or password"

// failure maps a service error to the message shown to the user and the
// status of an in-place re-render. Anything unexpected is logged and
// replaced with the generic message.
func failure(c *ctx.Context, err error) (string, int) {
	if ve, ok := validate.As(err); ok {
		return ve.Reason, http.StatusUnprocessableEntity
	}
	var nf *services.NotFoundError
	switch {
	case errors.As(err, &nf):
		return nf.Message, http.StatusNotFound
	case errors.Is(err, auth.ErrInvalidCredentials):
		return MsgInvalidLogin, http.StatusUnauthorized
	case errors.Is(err, bind.ErrTooLarge):
		return middleware.MsgBodyTooLarge, http.StatusRequestEntityTooLarge
	}
	c.Log().Error("request failed", "path", c.Path(), "error", err)
	return view.GenericError, http.StatusInternalServerError
}

// withMessage appends success or error to path as a query parameter.
func withMessage(path, key, msg string) string {
	return path + "?" + url.Values{key: {msg}}.Encode()
}
