package customers

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bettersale/bettersale-backend/internal/backend"
	"github.com/bettersale/bettersale-backend/internal/backend/memstore"
	"github.com/bettersale/bettersale-backend/internal/backend/seed"
	"github.com/bettersale/bettersale-backend/pkg/db/models"
	"github.com/bettersale/bettersale-backend/pkg/enums"
	pkgerrors "github.com/bettersale/bettersale-backend/pkg/errors"
	"github.com/bettersale/bettersale-backend/pkg/logger"
)

func newService(t *testing.T, primary backend.Store) *Service {
	t.Helper()
	logg := logger.New(logger.Options{
		ServiceName: "customers-test",
		Level:       zerolog.ErrorLevel,
		Output:      &bytes.Buffer{},
	})
	sel, err := backend.NewSelector(primary, memstore.New(), logg, nil)
	require.NoError(t, err)
	return New(sel, logg)
}

func TestGetProfile(t *testing.T) {
	svc := newService(t, memstore.New())
	ctx := context.Background()

	profile, err := svc.Get(ctx, seed.DemoCustomerID)
	require.NoError(t, err)

	assert.Equal(t, "Alex", profile.FirstName)
	assert.Equal(t, "428765091", profile.AccountNumber)
	assert.Equal(t, enums.LoyaltyTierStandard, profile.LoyaltyTier)
	require.Len(t, profile.PurchaseHistory, 1)
	assert.Equal(t, "ORD-8F3A21C0", profile.PurchaseHistory[0].OrderID)
	assert.Empty(t, profile.ScheduledAppointments)
	assert.False(t, profile.Degraded)
}

func TestLoyaltyTierDerivation(t *testing.T) {
	primary := memstore.NewEmpty()
	primary.AddCustomer(models.Customer{ID: "vip", FirstName: "Vi", LoyaltyPoints: 6200})
	svc := newService(t, primary)

	profile, err := svc.Get(context.Background(), "vip")
	require.NoError(t, err)
	assert.Equal(t, enums.LoyaltyTierPlatinum, profile.LoyaltyTier)
}

func TestGetUnknownCustomer(t *testing.T) {
	svc := newService(t, memstore.New())

	_, err := svc.Get(context.Background(), "nobody")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))

	_, err = svc.Get(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}
