package gormstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bettersale/bettersale-backend/internal/backend"
	"github.com/bettersale/bettersale-backend/internal/backend/seed"
	"github.com/bettersale/bettersale-backend/pkg/config"
	"github.com/bettersale/bettersale-backend/pkg/db"
	"github.com/bettersale/bettersale-backend/pkg/db/models"
	"github.com/bettersale/bettersale-backend/pkg/enums"
	pkgerrors "github.com/bettersale/bettersale-backend/pkg/errors"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	client, err := db.New(context.Background(), config.DBConfig{}, config.FeatureFlagsConfig{
		UseSQLite:  true,
		SQLitePath: filepath.Join(t.TempDir(), "store_test.db"),
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.DB().AutoMigrate(
		&models.Customer{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Appointment{},
	))

	for _, c := range seed.Customers() {
		c := c
		require.NoError(t, client.DB().Create(&c).Error)
	}
	for _, p := range seed.Products() {
		p := p
		require.NoError(t, client.DB().Create(&p).Error)
	}
	for _, item := range seed.CartItems() {
		item := item
		require.NoError(t, client.DB().Create(&item).Error)
	}

	return New(client, time.Second)
}

func TestGetCustomer(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	customer, err := s.GetCustomer(ctx, seed.DemoCustomerID)
	require.NoError(t, err)
	assert.Equal(t, "Johnson", customer.LastName)
	assert.Contains(t, customer.SportsProfile.PreferredSports, "Tennis")

	_, err = s.GetCustomer(ctx, "nobody")
	require.Error(t, err)
	assert.ErrorIs(t, err, backend.ErrUnknownCustomer)
}

func TestApplyCartChanges(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	t.Run("upsert updates existing line in place", func(t *testing.T) {
		err := s.ApplyCartChanges(ctx, seed.DemoCustomerID, []models.CartItem{
			{ProductID: "RUN-S05", Quantity: 2, UnitPriceCents: 13999},
		}, nil)
		require.NoError(t, err)

		items, err := s.GetCartItems(ctx, seed.DemoCustomerID)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, 2, items[0].Quantity)
	})

	t.Run("remove and add in one unit", func(t *testing.T) {
		err := s.ApplyCartChanges(ctx, seed.DemoCustomerID, []models.CartItem{
			{ProductID: "TEN-BALL-01", Quantity: 1, UnitPriceCents: 1199},
		}, []string{"RUN-A01"})
		require.NoError(t, err)

		items, err := s.GetCartItems(ctx, seed.DemoCustomerID)
		require.NoError(t, err)
		ids := make([]string, 0, len(items))
		for _, item := range items {
			ids = append(ids, item.ProductID)
		}
		assert.ElementsMatch(t, []string{"RUN-S05", "TEN-BALL-01"}, ids)
	})

	t.Run("zero quantity rejected before any change", func(t *testing.T) {
		before, err := s.GetCartItems(ctx, seed.DemoCustomerID)
		require.NoError(t, err)

		err = s.ApplyCartChanges(ctx, seed.DemoCustomerID, []models.CartItem{
			{ProductID: "TEN-SHOE-01", Quantity: 0, UnitPriceCents: 12999},
		}, []string{"RUN-S05"})
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

		after, err := s.GetCartItems(ctx, seed.DemoCustomerID)
		require.NoError(t, err)
		assert.Len(t, after, len(before))
	})

	t.Run("unknown customer rolls back", func(t *testing.T) {
		err := s.ApplyCartChanges(ctx, "nobody", []models.CartItem{
			{ProductID: "TEN-BALL-01", Quantity: 1, UnitPriceCents: 1199},
		}, nil)
		assert.ErrorIs(t, err, backend.ErrUnknownCustomer)
	})
}

func TestCreateOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	order := &models.Order{
		ID:         "ORD-0A1B2C3D",
		CustomerID: seed.DemoCustomerID,
		Status:     enums.OrderStatusPending,
		TotalCents: 15575,
		PlacedAt:   time.Now().UTC(),
	}
	items := []models.OrderItem{
		{ProductID: "RUN-S05", Quantity: 1, UnitPriceCents: 13999},
		{ProductID: "RUN-A01", Quantity: 1, UnitPriceCents: 1576},
	}
	require.NoError(t, s.CreateOrder(ctx, order, items))

	cart, err := s.GetCartItems(ctx, seed.DemoCustomerID)
	require.NoError(t, err)
	assert.Empty(t, cart)

	stored, err := s.GetOrder(ctx, "ORD-0A1B2C3D")
	require.NoError(t, err)
	require.Len(t, stored.Items, 2)
	assert.Equal(t, stored.TotalCents, stored.ItemsTotalCents())

	t.Run("duplicate id conflicts", func(t *testing.T) {
		dup := *order
		dup.Items = nil
		err := s.CreateOrder(ctx, &dup, nil)
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.CodeOf(err))
	})

	t.Run("listed for the customer", func(t *testing.T) {
		orders, err := s.ListOrders(ctx, seed.DemoCustomerID)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, "ORD-0A1B2C3D", orders[0].ID)
	})
}

func TestAppointments(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	appt := &models.Appointment{
		ID:          "APT-1",
		CustomerID:  seed.DemoCustomerID,
		ServiceType: "racket stringing",
		Date:        "2026-09-03",
		TimeRange:   "10:00-11:00",
		Status:      enums.AppointmentStatusScheduled,
	}
	require.NoError(t, s.CreateAppointment(ctx, appt))

	found, err := s.AppointmentsFor(ctx, "Racket Stringing", "2026-09-03")
	require.NoError(t, err)
	require.Len(t, found, 1)

	mine, err := s.ListAppointments(ctx, seed.DemoCustomerID)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	t.Run("cancelled appointments stay cancelled", func(t *testing.T) {
		require.NoError(t, s.UpdateAppointmentStatus(ctx, "APT-1", enums.AppointmentStatusCancelled))
		err := s.UpdateAppointmentStatus(ctx, "APT-1", enums.AppointmentStatusCompleted)
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.CodeOf(err))
	})

	t.Run("missing appointment", func(t *testing.T) {
		err := s.UpdateAppointmentStatus(ctx, "APT-404", enums.AppointmentStatusCancelled)
		assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
	})
}
