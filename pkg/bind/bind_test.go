package bind_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/eatn/config"
	"github.com/shashiranjanraj/eatn/pkg/bind"
	"github.com/shashiranjanraj/eatn/pkg/validate"
)

type orderForm struct {
	ItemName     string          `form:"item_name"     validate:"required"      msg:"*=Please select an item"`
	ItemPrice    decimal.Decimal `form:"item_price"    validate:"gt=0"          msg:"*=Invalid item price"`
	Quantity     int             `form:"quantity"      validate:"between=1,10"  msg:"*=Quantity must be between 1 and 10"`
	CustomerName string          `form:"customer_name" validate:"required,min=2"`
	Remember     bool            `form:"remember_me"`
}

func post(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/finagle", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestForm_DecodesAndTrims(t *testing.T) {
	var f orderForm
	err := bind.Form(post(url.Values{
		"item_name":     {"  Kottu "},
		"item_price":    {"550.00"},
		"quantity":      {" 2"},
		"customer_name": {" Kamal "},
		"remember_me":   {"on"},
	}), &f)

	require.NoError(t, err)
	assert.Equal(t, "Kottu", f.ItemName)
	assert.True(t, decimal.RequireFromString("550").Equal(f.ItemPrice))
	assert.Equal(t, 2, f.Quantity)
	assert.Equal(t, "Kamal", f.CustomerName)
	assert.True(t, f.Remember)
}

func TestForm_UnparseableNumberUsesFieldMessage(t *testing.T) {
	var f orderForm
	err := bind.Form(post(url.Values{
		"item_name":     {"Kottu"},
		"item_price":    {"550"},
		"quantity":      {"two"},
		"customer_name": {"Kamal"},
	}), &f)

	ve, ok := validate.As(err)
	require.True(t, ok)
	assert.Equal(t, "quantity", ve.Field)
	assert.Equal(t, "Quantity must be between 1 and 10", ve.Reason)
}

func TestForm_MissingQuantityIsOutOfRange(t *testing.T) {
	var f orderForm
	err := bind.Form(post(url.Values{
		"item_name":     {"Kottu"},
		"item_price":    {"550"},
		"customer_name": {"Kamal"},
	}), &f)

	ve, ok := validate.As(err)
	require.True(t, ok)
	assert.Equal(t, "Quantity must be between 1 and 10", ve.Reason)
}

func TestForm_BadPrice(t *testing.T) {
	var f orderForm
	err := bind.Form(post(url.Values{
		"item_name":     {"Kottu"},
		"item_price":    {"abc"},
		"quantity":      {"1"},
		"customer_name": {"Kamal"},
	}), &f)

	ve, ok := validate.As(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid item price", ve.Reason)
}

func TestValues_RejectsNonPointer(t *testing.T) {
	err := bind.Values(func(string) string { return "" }, orderForm{})
	assert.Error(t, err)
}

func TestForm_BodyCap(t *testing.T) {
	t.Cleanup(func() { config.Set("MAX_BODY_BYTES", "") })

	config.Set("MAX_BODY_BYTES", "")
	assert.Equal(t, int64(4<<20), bind.MaxBodyBytes())

	config.Set("MAX_BODY_BYTES", "64")
	assert.Equal(t, int64(64), bind.MaxBodyBytes())

	var form orderForm
	err := bind.Form(post(url.Values{"customer_name": {strings.Repeat("a", 128)}}), &form)
	assert.ErrorIs(t, err, bind.ErrTooLarge)
}
