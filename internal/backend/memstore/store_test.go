package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bettersale/bettersale-backend/internal/backend"
	"github.com/bettersale/bettersale-backend/internal/backend/seed"
	"github.com/bettersale/bettersale-backend/pkg/db/models"
	"github.com/bettersale/bettersale-backend/pkg/enums"
	pkgerrors "github.com/bettersale/bettersale-backend/pkg/errors"
)

func TestNewSeedsDemoDataset(t *testing.T) {
	s := New()
	ctx := context.Background()

	customer, err := s.GetCustomer(ctx, seed.DemoCustomerID)
	require.NoError(t, err)
	assert.Equal(t, "Alex", customer.FirstName)

	items, err := s.GetCartItems(ctx, seed.DemoCustomerID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "RUN-S05", items[0].ProductID)

	orders, err := s.ListOrders(ctx, seed.DemoCustomerID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, enums.OrderStatusConfirmed, orders[0].Status)
	assert.Equal(t, orders[0].TotalCents, orders[0].ItemsTotalCents())
}

func TestGetCustomerUnknown(t *testing.T) {
	s := NewEmpty()

	_, err := s.GetCustomer(context.Background(), "nobody")
	require.Error(t, err)
	assert.ErrorIs(t, err, backend.ErrUnknownCustomer)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}

func TestApplyCartChanges(t *testing.T) {
	s := New()
	ctx := context.Background()

	t.Run("upsert replaces quantity and price", func(t *testing.T) {
		err := s.ApplyCartChanges(ctx, seed.DemoCustomerID, []models.CartItem{
			{ProductID: "RUN-S05", Quantity: 3, UnitPriceCents: 13999},
		}, nil)
		require.NoError(t, err)

		items, err := s.GetCartItems(ctx, seed.DemoCustomerID)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, 3, items[0].Quantity)
	})

	t.Run("remove then add in one batch", func(t *testing.T) {
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

	t.Run("invalid quantity leaves cart untouched", func(t *testing.T) {
		before, err := s.GetCartItems(ctx, seed.DemoCustomerID)
		require.NoError(t, err)

		err = s.ApplyCartChanges(ctx, seed.DemoCustomerID, []models.CartItem{
			{ProductID: "TEN-SHOE-01", Quantity: 0, UnitPriceCents: 12999},
		}, []string{"RUN-S05"})
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

		after, err := s.GetCartItems(ctx, seed.DemoCustomerID)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("unknown customer", func(t *testing.T) {
		err := s.ApplyCartChanges(ctx, "nobody", nil, []string{"RUN-S05"})
		assert.ErrorIs(t, err, backend.ErrUnknownCustomer)
	})
}

func TestCreateOrderClearsCart(t *testing.T) {
	s := New()
	ctx := context.Background()

	order := &models.Order{
		ID:         "ORD-DEADBEEF",
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

	stored, err := s.GetOrder(ctx, "ORD-DEADBEEF")
	require.NoError(t, err)
	require.Len(t, stored.Items, 2)
	assert.Equal(t, "ORD-DEADBEEF", stored.Items[0].OrderID)

	t.Run("duplicate id conflicts", func(t *testing.T) {
		err := s.CreateOrder(ctx, order, items)
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.CodeOf(err))
	})
}

func TestAppointments(t *testing.T) {
	s := New()
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

	t.Run("lookup by service and date is case-insensitive", func(t *testing.T) {
		found, err := s.AppointmentsFor(ctx, "Racket Stringing", "2026-09-03")
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "APT-1", found[0].ID)
	})

	t.Run("cancel then complete conflicts", func(t *testing.T) {
		require.NoError(t, s.UpdateAppointmentStatus(ctx, "APT-1", enums.AppointmentStatusCancelled))
		err := s.UpdateAppointmentStatus(ctx, "APT-1", enums.AppointmentStatusCompleted)
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.CodeOf(err))
	})

	t.Run("unknown appointment", func(t *testing.T) {
		err := s.UpdateAppointmentStatus(ctx, "APT-404", enums.AppointmentStatusCancelled)
		assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
	})
}
