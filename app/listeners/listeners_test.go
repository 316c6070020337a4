package listeners_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/eatn/app/listeners"
	"github.com/shashiranjanraj/eatn/app/models"
	"github.com/shashiranjanraj/eatn/app/services"
	"github.com/shashiranjanraj/eatn/pkg/event"
	"github.com/shashiranjanraj/eatn/pkg/metrics"
)

func TestRegisterAttachesEveryEvent(t *testing.T) {
	event.Flush()
	t.Cleanup(event.Flush)
	listeners.Register()

	for _, name := range []string{
		services.EventUserRegistered,
		services.EventOrderPlaced,
		services.EventOrderStatusUpdated,
		services.EventMenuItemAdded,
		services.EventMenuItemDeleted,
	} {
		assert.Equal(t, 1, event.Count(name), name)
	}
}

func TestOrderPlacedCountsByShop(t *testing.T) {
	event.Flush()
	t.Cleanup(event.Flush)
	listeners.Register()

	counter := metrics.OrdersPlaced.WithLabelValues("tandoor")
	before := testutil.ToFloat64(counter)

	event.Fire(context.Background(), services.EventOrderPlaced, services.OrderPlaced{
		Order: models.Order{ID: 7, ItemName: "Naan", Quantity: 2, TotalPrice: decimal.NewFromInt(300)},
		Shop:  models.Shop{ShopID: 5, Slug: "tandoor"},
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(counter)-before)
}

func TestUserRegisteredCountsByAccountType(t *testing.T) {
	event.Flush()
	t.Cleanup(event.Flush)
	listeners.Register()

	counter := metrics.Signups.WithLabelValues("Admin")
	before := testutil.ToFloat64(counter)

	event.Fire(context.Background(), services.EventUserRegistered, models.User{ID: 1, Username: "root", AccountType: "Admin"})
	event.Fire(context.Background(), services.EventUserRegistered, "not a user")

	assert.Equal(t, 1.0, testutil.ToFloat64(counter)-before)
}
