package controllers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/eatn/app/models"
	"github.com/shashiranjanraj/eatn/app/services"
	"github.com/shashiranjanraj/eatn/config"
	"github.com/shashiranjanraj/eatn/internal/kernel"
	"github.com/shashiranjanraj/eatn/pkg/auth"
	"github.com/shashiranjanraj/eatn/pkg/session"
	"github.com/shashiranjanraj/eatn/pkg/storage"
	"github.com/shashiranjanraj/eatn/pkg/testkit"
)

type app struct {
	db      *gorm.DB
	handler http.Handler
}

const testAppKey = "controllers-test-remember-key"

func newApp(t *testing.T) *app {
	t.Helper()
	config.Set("APP_KEY", testAppKey)
	db := testkit.DB(t)
	disk, err := storage.NewLocal(t.TempDir(), "/storage")
	require.NoError(t, err)

	svc := services.New(db, services.Config{StoreTimeout: 5 * time.Second, BcryptCost: 4, Disk: disk})
	return &app{
		db:      db,
		handler: kernel.NewHTTPKernel(kernel.Deps{Services: svc, Sessions: session.NewMemoryStore(), Disk: disk}),
	}
}

func itoa(id uint) string { return strconv.FormatUint(uint64(id), 10) }

func (a *app) client(t *testing.T) *testkit.Client {
	return testkit.NewClient(t, a.handler)
}

func signup(t *testing.T, c *testkit.Client, username, role string) {
	t.Helper()
	rec := c.Submit("/signup", url.Values{
		"full_name":        {"Test " + username},
		"email":            {username + "@students.nsbm.ac.lk"},
		"username":         {username},
		"account_type":     {role},
		"password":         {"abc123"},
		"confirm_password": {"abc123"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	require.Equal(t, "/login?success=Signup successful! Please login.", testkit.Location(rec))
}

func login(t *testing.T, c *testkit.Client, username string, extra url.Values) string {
	t.Helper()
	form := url.Values{"username": {username}, "password": {"abc123"}}
	for k, v := range extra {
		form[k] = v
	}
	rec := c.Submit("/login", form)
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	return testkit.Location(rec)
}

func TestHomeListsShops(t *testing.T) {
	rec := newApp(t).client(t).Get("/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Finagle Café")
	assert.Contains(t, rec.Body.String(), `href="/tandoor"`)
}

func TestShowShop(t *testing.T) {
	rec := newApp(t).client(t).Get("/finagle")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Fresh bakes and hearty meals between lectures")
	assert.Contains(t, body, "Kottu")
	assert.Contains(t, body, `name="item_price" value="550.00"`)
}

func TestUnknownShopIs404(t *testing.T) {
	rec := newApp(t).client(t).Get("/pizzahut")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), services.MsgShopNotFound)
}

func TestOrderFlow(t *testing.T) {
	a := newApp(t)
	c := a.client(t)
	signup(t, c, "nimal", auth.RoleStudent)
	assert.Equal(t, "/", login(t, c, "nimal", nil))

	rec := c.Submit("/finagle", url.Values{
		"item_name":     {"Kottu"},
		"item_price":    {"550.00"},
		"quantity":      {"2"},
		"customer_name": {"Nimal"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Order for 2 × Kottu placed successfully at Finagle Café! Total: Rs. 1100.00")

	var orders []models.Order
	require.NoError(t, a.db.Find(&orders).Error)
	require.Len(t, orders, 1)
	assert.Equal(t, models.StatusPending, orders[0].Status)
	assert.True(t, decimal.NewFromInt(1100).Equal(orders[0].TotalPrice))
}

func TestOrderValidationReRenders(t *testing.T) {
	a := newApp(t)
	c := a.client(t)
	signup(t, c, "nimal", auth.RoleStudent)
	login(t, c, "nimal", nil)

	rec := c.Submit("/finagle", url.Values{
		"item_name":     {"Kottu"},
		"item_price":    {"550.00"},
		"quantity":      {"11"},
		"customer_name": {"Nimal"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Quantity must be between 1 and 10")

	var n int64
	require.NoError(t, a.db.Model(&models.Order{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestAnonymousOrderRedirectsToLogin(t *testing.T) {
	c := newApp(t).client(t)
	rec := c.Submit("/finagle", url.Values{
		"item_name": {"Kottu"}, "item_price": {"550.00"}, "quantity": {"1"}, "customer_name": {"Nimal"},
	})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?error=Please login to place an order&redirect=/finagle", testkit.Location(rec))
}

func TestLoginHonoursLocalRedirectOnly(t *testing.T) {
	a := newApp(t)
	c := a.client(t)
	signup(t, c, "nimal", auth.RoleStudent)
	assert.Equal(t, "/finagle", login(t, c, "nimal", url.Values{"redirect": {"/finagle"}}))

	c2 := a.client(t)
	assert.Equal(t, "/", login(t, c2, "nimal", url.Values{"redirect": {"//evil.example/phish"}}))
}

func TestLoginFailureMessage(t *testing.T) {
	a := newApp(t)
	c := a.client(t)
	signup(t, c, "nimal", auth.RoleStudent)

	for _, form := range []url.Values{
		{"username": {"nimal"}, "password": {"wrong-pass"}},
		{"username": {"nobody"}, "password": {"abc123"}},
	} {
		rec := c.Submit("/login", form)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid username or password")
	}
}

func TestSignupMismatchReRenders(t *testing.T) {
	a := newApp(t)
	rec := a.client(t).Submit("/signup", url.Values{
		"full_name": {"Kamal Silva"}, "email": {"kamal@x.lk"}, "username": {"kamal"},
		"account_type": {"Student"}, "password": {"abc123"}, "confirm_password": {"abc999"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Passwords do not match")
	assert.Contains(t, rec.Body.String(), `value="kamal@x.lk"`)
}

func TestLoggedInUserSkipsLoginPage(t *testing.T) {
	a := newApp(t)
	c := a.client(t)
	signup(t, c, "nimal", auth.RoleStudent)
	login(t, c, "nimal", nil)

	rec := c.Get("/login")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", testkit.Location(rec))
}

func TestLogout(t *testing.T) {
	a := newApp(t)
	c := a.client(t)
	signup(t, c, "nimal", auth.RoleStudent)
	login(t, c, "nimal", url.Values{"remember_me": {"on"}})

	rec := c.Get("/logout")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?success=You have been successfully logged out", testkit.Location(rec))

	rec = c.Get("/logout")
	assert.Equal(t, "/login?error=You are not logged in", testkit.Location(rec))
}

func TestMissingCSRFTokenIsRejected(t *testing.T) {
	a := newApp(t)
	c := a.client(t)
	c.Get("/login")

	rec := c.Post("/login", url.Values{"username": {"nimal"}, "password": {"abc123"}})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminRequiresAdminRole(t *testing.T) {
	a := newApp(t)

	rec := a.client(t).Get("/admin/users")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?error=Access denied. Please log in as an admin.&redirect=/admin/users", testkit.Location(rec))

	c := a.client(t)
	signup(t, c, "nimal", auth.RoleStudent)
	login(t, c, "nimal", nil)
	rec = c.Get("/admin/users")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?error=Access denied. Please log in as an admin.", testkit.Location(rec))
}

func TestAdminLoginReturnsToRequestedPage(t *testing.T) {
	a := newApp(t)
	c := a.client(t)
	signup(t, c, "amaya", auth.RoleAdmin)

	rec := c.Get("/admin/users")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	u, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/admin/users", u.Query().Get("redirect"))

	assert.Equal(t, "/admin/users", login(t, c, "amaya", url.Values{"redirect": {u.Query().Get("redirect")}}))
	assert.Equal(t, http.StatusOK, c.Get("/admin/users").Code)
}

func TestAdminMutations(t *testing.T) {
	a := newApp(t)
	student := a.client(t)
	signup(t, student, "nimal", auth.RoleStudent)
	login(t, student, "nimal", nil)
	student.Submit("/finagle", url.Values{
		"item_name": {"Nescafe"}, "item_price": {"120.00"}, "quantity": {"1"}, "customer_name": {"Nimal"},
	})

	admin := a.client(t)
	signup(t, admin, "amaya", auth.RoleAdmin)
	assert.Equal(t, "/admin", login(t, admin, "amaya", nil))

	var order models.Order
	require.NoError(t, a.db.First(&order).Error)
	orderID := order.ID

	rec := admin.Submit("/admin", url.Values{"action": {"update_status"}, "order_id": {itoa(orderID)}, "status": {"Shipped"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin?error=Invalid status value.", testkit.Location(rec))

	rec = admin.Submit("/admin", url.Values{"action": {"update_status"}, "order_id": {itoa(orderID)}, "status": {"Completed"}})
	assert.Equal(t, "/admin?success=Order status updated successfully!", testkit.Location(rec))
	require.NoError(t, a.db.First(&order, orderID).Error)
	assert.Equal(t, models.StatusCompleted, order.Status)

	rec = admin.Submit("/admin", url.Values{
		"action": {"add_item"}, "shop_id": {"5"}, "item_name": {"Butter Naan"}, "price": {"180"}, "image_url": {"images/NAAN.jpg"},
	})
	assert.Equal(t, "/admin?success=Item 'Butter Naan' added successfully!", testkit.Location(rec))

	var item models.MenuItem
	require.NoError(t, a.db.Where("item_name = ?", "Butter Naan").First(&item).Error)

	rec = admin.Submit("/admin", url.Values{"action": {"delete_item"}, "item_id": {itoa(item.ID)}})
	assert.Equal(t, "/admin?success=Item deleted successfully!", testkit.Location(rec))

	rec = admin.Submit("/admin", url.Values{"action": {"delete_item"}, "item_id": {itoa(item.ID)}})
	assert.Equal(t, "/admin?error=Menu item not found.", testkit.Location(rec))

	rec = admin.Submit("/admin", url.Values{"action": {"drop_tables"}})
	assert.Equal(t, "/admin?error=Unknown action.", testkit.Location(rec))

	rec = admin.Get("/admin")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Managing: All Shops")

	rec = admin.Get("/admin/users")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "nimal@students.nsbm.ac.lk")
}

func TestRememberMeRestoresLogin(t *testing.T) {
	a := newApp(t)
	c := a.client(t)
	signup(t, c, "amaya", auth.RoleAdmin)

	rec := c.Submit("/login", url.Values{"username": {"amaya"}, "password": {"abc123"}, "remember_me": {"on"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	var remember *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == auth.RememberCookie {
			remember = ck
		}
	}
	require.NotNil(t, remember)

	// A new browser carrying only the remember-me cookie.
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(remember)
	fresh := httptest.NewRecorder()
	a.handler.ServeHTTP(fresh, req)
	assert.Equal(t, http.StatusOK, fresh.Code)
	assert.Contains(t, fresh.Body.String(), "Managing: All Shops")
}

func TestRememberCookieRefusedWithoutAppKey(t *testing.T) {
	a := newApp(t)
	c := a.client(t)
	signup(t, c, "amaya", auth.RoleAdmin)

	config.Set("APP_KEY", "")
	t.Cleanup(func() { config.Set("APP_KEY", testAppKey) })

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "1",
		Issuer:    "eatn",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(config.AppKey()))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: auth.RememberCookie, Value: forged})
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, testkit.Location(rec), "Access denied")

	// Logging in with remember me still works, it just sets no cookie.
	rec = c.Submit("/login", url.Values{"username": {"amaya"}, "password": {"abc123"}, "remember_me": {"on"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	for _, ck := range rec.Result().Cookies() {
		assert.NotEqual(t, auth.RememberCookie, ck.Name)
	}
}

func TestHealthz(t *testing.T) {
	rec := newApp(t).client(t).Get("/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
