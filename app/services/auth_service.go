package services

import (
	"context"
	"time"

	"github.com/shashiranjanraj/eatn/app/models"
	"github.com/shashiranjanraj/eatn/app/repositories"
	"github.com/shashiranjanraj/eatn/pkg/auth"
	"github.com/shashiranjanraj/eatn/pkg/event"
	"github.com/shashiranjanraj/eatn/pkg/logger"
	"github.com/shashiranjanraj/eatn/pkg/metrics"
	"github.com/shashiranjanraj/eatn/pkg/orm"
	"github.com/shashiranjanraj/eatn/pkg/validate"
)

// LoginInput is the login form.
type LoginInput struct {
	Username string `form:"username"    validate:"required,min=3" msg:"required=Username is required;min=Username must be at least 3 characters long"`
	Password string `form:"password"    validate:"required,min=6" msg:"required=Password is required;min=Password must be at least 6 characters long"`
	Remember bool   `form:"remember_me"`
	Redirect string `form:"redirect"`
}

// SignupInput is the signup form. Field order sets the order in which
// problems are reported once every field is present.
type SignupInput struct {
	FullName        string `form:"full_name"        validate:"required"                  msg:"required=All fields are required"`
	ConfirmPassword string `form:"confirm_password" validate:"required,same=password"    msg:"required=All fields are required;same=Passwords do not match"`
	Email           string `form:"email"            validate:"required,email"            msg:"required=All fields are required;email=Invalid email format"`
	AccountType     string `form:"account_type"     validate:"required,in=Student,Admin" msg:"required=All fields are required;in=Invalid account type"`
	Username        string `form:"username"         validate:"required,min=3"            msg:"required=All fields are required;min=Username must be at least 3 characters long"`
	Password        string `form:"password"         validate:"required,min=6"            msg:"required=All fields are required;min=Password must be at least 6 characters long"`
}

// MsgAccountTaken is shown when the username or email is already registered.
const MsgAccountTaken = "Username or email already exists"

// AuthService logs users in and registers new accounts.
type AuthService struct {
	users   *repositories.UserRepository
	cost    int
	timeout time.Duration
}

// Login checks credentials. Unknown usernames still pay for a bcrypt
// comparison and every mismatch returns auth.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (auth.Identity, error) {
	if err := validate.Struct(&in); err != nil {
		return auth.Identity{}, err
	}

	qctx, cancel := orm.Bounded(ctx, s.timeout)
	defer cancel()

	user, err := s.users.FindByUsername(qctx, in.Username)
	switch {
	case orm.IsNotFound(err):
		auth.CheckPassword(auth.DummyHash(), in.Password)
		metrics.LoginAttempts.WithLabelValues("invalid").Inc()
		return auth.Identity{}, auth.ErrInvalidCredentials
	case err != nil:
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return auth.Identity{}, storeErr("find user", err)
	}

	if !auth.CheckPassword(user.PasswordHash, in.Password) {
		metrics.LoginAttempts.WithLabelValues("invalid").Inc()
		logger.WithCtx(ctx).Info("login rejected", "username", in.Username)
		return auth.Identity{}, auth.ErrInvalidCredentials
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	return identityOf(user), nil
}

// Signup validates and stores a new account.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (models.User, error) {
	if err := validate.Struct(&in); err != nil {
		return models.User{}, err
	}

	qctx, cancel := orm.Bounded(ctx, s.timeout)
	defer cancel()

	taken, err := s.users.Taken(qctx, in.Username, in.Email)
	if err != nil {
		return models.User{}, storeErr("check account", err)
	}
	if taken {
		return models.User{}, validate.New("username", MsgAccountTaken)
	}

	hash, err := auth.HashPassword(in.Password, s.cost)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		FullName:     in.FullName,
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: hash,
		AccountType:  in.AccountType,
	}
	if err := s.users.Create(qctx, &user); err != nil {
		if orm.IsDuplicate(err) {
			return models.User{}, validate.New("username", MsgAccountTaken)
		}
		return models.User{}, storeErr("create user", err)
	}

	event.Fire(ctx, EventUserRegistered, user)
	return user, nil
}

// Resolve reloads the identity for a user id, used to restore a remembered
// login. Deleted users yield auth.ErrUnauthenticated.
func (s *AuthService) Resolve(ctx context.Context, id uint) (auth.Identity, error) {
	qctx, cancel := orm.Bounded(ctx, s.timeout)
	defer cancel()

	user, err := s.users.FindByID(qctx, id)
	if orm.IsNotFound(err) {
		return auth.Identity{}, auth.ErrUnauthenticated
	}
	if err != nil {
		return auth.Identity{}, storeErr("find user", err)
	}
	return identityOf(user), nil
}

func identityOf(u models.User) auth.Identity {
	return auth.Identity{UserID: u.ID, Username: u.Username, AccountType: u.AccountType}
}
