package backend

import (
	"context"
	"errors"

	"github.com/bettersale/bettersale-backend/pkg/db/models"
	"github.com/bettersale/bettersale-backend/pkg/enums"
	pkgerrors "github.com/bettersale/bettersale-backend/pkg/errors"
)

// ErrUnknownCustomer marks a customer id that the queried backend has no row
// for. The Selector treats it like a transient miss and retries the fallback,
// so a customer seeded only in the demo data still resolves; it surfaces as
// NOT_FOUND only when every backend agrees.
var ErrUnknownCustomer = errors.New("unknown customer")

// UnknownCustomer wraps ErrUnknownCustomer as a typed NOT_FOUND error.
func UnknownCustomer(customerID string) error {
	return pkgerrors.Wrap(pkgerrors.CodeNotFound, ErrUnknownCustomer, "customer "+customerID+" not found")
}

// Store is the contract shared by the persistent adapter and the in-memory
// fallback provider. Multi-row mutations (ApplyCartChanges, CreateOrder) are
// atomic within one implementation: they fully apply or leave state untouched.
type Store interface {
	// Name identifies the implementation in logs.
	Name() string

	GetCustomer(ctx context.Context, customerID string) (*models.Customer, error)
	CustomerExists(ctx context.Context, customerID string) (bool, error)

	GetProduct(ctx context.Context, productID string) (*models.Product, error)
	ProductsBySport(ctx context.Context, sport string) ([]models.Product, error)

	GetCartItems(ctx context.Context, customerID string) ([]models.CartItem, error)
	// ApplyCartChanges upserts and deletes cart lines in one atomic unit.
	ApplyCartChanges(ctx context.Context, customerID string, upserts []models.CartItem, removeProductIDs []string) error

	// CreateOrder persists the order with its items and clears the
	// customer's cart in the same unit of work.
	CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)
	ListOrders(ctx context.Context, customerID string) ([]models.Order, error)

	AppointmentsFor(ctx context.Context, serviceType, date string) ([]models.Appointment, error)
	ListAppointments(ctx context.Context, customerID string) ([]models.Appointment, error)
	CreateAppointment(ctx context.Context, appt *models.Appointment) error
	GetAppointment(ctx context.Context, appointmentID string) (*models.Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, appointmentID string, status enums.AppointmentStatus) error
}
