// Package gormstore is the persistent state provider, backed by the shared
// GORM client. Every call is bounded by the configured operation timeout and
// every driver failure is surfaced as a DEPENDENCY error so the selection
// policy can fall back.
package gormstore

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bettersale/bettersale-backend/internal/backend"
	"github.com/bettersale/bettersale-backend/pkg/db"
	"github.com/bettersale/bettersale-backend/pkg/db/models"
	"github.com/bettersale/bettersale-backend/pkg/enums"
	pkgerrors "github.com/bettersale/bettersale-backend/pkg/errors"
)

const defaultOpTimeout = 3 * time.Second

// Store adapts the GORM client to the backend contract.
type Store struct {
	client  *db.Client
	timeout time.Duration
}

var _ backend.Store = (*Store)(nil)

// New wires the adapter. opTimeout bounds each store call; zero means the
// default.
func New(client *db.Client, opTimeout time.Duration) *Store {
	if opTimeout <= 0 {
		opTimeout = defaultOpTimeout
	}
	return &Store{client: client, timeout: opTimeout}
}

func (s *Store) Name() string { return s.client.Dialect() }

func (s *Store) op(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// mapErr folds driver failures into the internal taxonomy. notFound is
// returned for gorm's empty-result sentinel; anything else that is not
// already typed counts as backend unavailability.
func mapErr(err, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	var typed *pkgerrors.Error
	if errors.As(err, &typed) {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persistent store unavailable")
}

func (s *Store) GetCustomer(ctx context.Context, customerID string) (*models.Customer, error) {
	cctx, cancel := s.op(ctx)
	defer cancel()

	var customer models.Customer
	err := s.client.DB().WithContext(cctx).First(&customer, "id = ?", customerID).Error
	if err != nil {
		return nil, mapErr(err, backend.UnknownCustomer(customerID))
	}
	return &customer, nil
}

func (s *Store) CustomerExists(ctx context.Context, customerID string) (bool, error) {
	cctx, cancel := s.op(ctx)
	defer cancel()

	var count int64
	err := s.client.DB().WithContext(cctx).
		Model(&models.Customer{}).
		Where("id = ?", customerID).
		Count(&count).Error
	if err != nil {
		return false, mapErr(err, nil)
	}
	return count > 0, nil
}

func (s *Store) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	cctx, cancel := s.op(ctx)
	defer cancel()

	var product models.Product
	err := s.client.DB().WithContext(cctx).First(&product, "id = ?", productID).Error
	if err != nil {
		return nil, mapErr(err, pkgerrors.New(pkgerrors.CodeNotFound, "product "+productID+" not found"))
	}
	return &product, nil
}

func (s *Store) ProductsBySport(ctx context.Context, sport string) ([]models.Product, error) {
	cctx, cancel := s.op(ctx)
	defer cancel()

	var products []models.Product
	err := s.client.DB().WithContext(cctx).
		Where("LOWER(sport) = LOWER(?)", sport).
		Order("id").
		Find(&products).Error
	if err != nil {
		return nil, mapErr(err, nil)
	}
	return products, nil
}

func (s *Store) GetCartItems(ctx context.Context, customerID string) ([]models.CartItem, error) {
	cctx, cancel := s.op(ctx)
	defer cancel()

	exists, err := s.CustomerExists(cctx, customerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, backend.UnknownCustomer(customerID)
	}

	var items []models.CartItem
	err = s.client.DB().WithContext(cctx).
		Where("customer_id = ?", customerID).
		Order("id").
		Find(&items).Error
	if err != nil {
		return nil, mapErr(err, nil)
	}
	return items, nil
}

func (s *Store) ApplyCartChanges(ctx context.Context, customerID string, upserts []models.CartItem, removeProductIDs []string) error {
	for _, item := range upserts {
		if item.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart quantity must be positive")
		}
	}

	cctx, cancel := s.op(ctx)
	defer cancel()

	err := s.client.WithTx(cctx, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Customer{}).Where("id = ?", customerID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return backend.UnknownCustomer(customerID)
		}

		if len(removeProductIDs) > 0 {
			err := tx.Where("customer_id = ? AND product_id IN ?", customerID, removeProductIDs).
				Delete(&models.CartItem{}).Error
			if err != nil {
				return err
			}
		}

		for _, item := range upserts {
			item.CustomerID = customerID
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "customer_id"}, {Name: "product_id"}},
				DoUpdates: clause.Assignments(map[string]any{
					"quantity":         item.Quantity,
					"unit_price_cents": item.UnitPriceCents,
					"updated_at":       time.Now().UTC(),
				}),
			}).Create(&item).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	return mapErr(err, nil)
}

func (s *Store) CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	cctx, cancel := s.op(ctx)
	defer cancel()

	err := s.client.WithTx(cctx, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Customer{}).Where("id = ?", order.CustomerID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return backend.UnknownCustomer(order.CustomerID)
		}

		stored := *order
		stored.Items = nil
		if err := tx.Create(&stored).Error; err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "order "+order.ID+" already exists")
			}
			return err
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}

		return tx.Where("customer_id = ?", order.CustomerID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return mapErr(err, nil)
	}
	order.Items = items
	return nil
}

func (s *Store) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	cctx, cancel := s.op(ctx)
	defer cancel()

	var order models.Order
	err := s.client.DB().WithContext(cctx).
		Preload("Items").
		First(&order, "id = ?", orderID).Error
	if err != nil {
		return nil, mapErr(err, pkgerrors.New(pkgerrors.CodeNotFound, "order "+orderID+" not found"))
	}
	return &order, nil
}

func (s *Store) ListOrders(ctx context.Context, customerID string) ([]models.Order, error) {
	cctx, cancel := s.op(ctx)
	defer cancel()

	exists, err := s.CustomerExists(cctx, customerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, backend.UnknownCustomer(customerID)
	}

	var orders []models.Order
	err = s.client.DB().WithContext(cctx).
		Preload("Items").
		Where("customer_id = ?", customerID).
		Order("placed_at, id").
		Find(&orders).Error
	if err != nil {
		return nil, mapErr(err, nil)
	}
	return orders, nil
}

func (s *Store) AppointmentsFor(ctx context.Context, serviceType, date string) ([]models.Appointment, error) {
	cctx, cancel := s.op(ctx)
	defer cancel()

	var appts []models.Appointment
	err := s.client.DB().WithContext(cctx).
		Where("LOWER(service_type) = LOWER(?) AND date = ?", serviceType, date).
		Order("time_range").
		Find(&appts).Error
	if err != nil {
		return nil, mapErr(err, nil)
	}
	return appts, nil
}

func (s *Store) ListAppointments(ctx context.Context, customerID string) ([]models.Appointment, error) {
	cctx, cancel := s.op(ctx)
	defer cancel()

	exists, err := s.CustomerExists(cctx, customerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, backend.UnknownCustomer(customerID)
	}

	var appts []models.Appointment
	err = s.client.DB().WithContext(cctx).
		Where("customer_id = ?", customerID).
		Order("date, time_range").
		Find(&appts).Error
	if err != nil {
		return nil, mapErr(err, nil)
	}
	return appts, nil
}

func (s *Store) CreateAppointment(ctx context.Context, appt *models.Appointment) error {
	cctx, cancel := s.op(ctx)
	defer cancel()

	err := s.client.WithTx(cctx, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Customer{}).Where("id = ?", appt.CustomerID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return backend.UnknownCustomer(appt.CustomerID)
		}
		if err := tx.Create(appt).Error; err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "appointment "+appt.ID+" already exists")
			}
			return err
		}
		return nil
	})
	return mapErr(err, nil)
}

func (s *Store) GetAppointment(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	cctx, cancel := s.op(ctx)
	defer cancel()

	var appt models.Appointment
	err := s.client.DB().WithContext(cctx).First(&appt, "id = ?", appointmentID).Error
	if err != nil {
		return nil, mapErr(err, pkgerrors.New(pkgerrors.CodeNotFound, "appointment "+appointmentID+" not found"))
	}
	return &appt, nil
}

func (s *Store) UpdateAppointmentStatus(ctx context.Context, appointmentID string, status enums.AppointmentStatus) error {
	cctx, cancel := s.op(ctx)
	defer cancel()

	err := s.client.WithTx(cctx, func(tx *gorm.DB) error {
		var appt models.Appointment
		if err := tx.First(&appt, "id = ?", appointmentID).Error; err != nil {
			return err
		}
		if appt.Status == enums.AppointmentStatusCancelled && status != enums.AppointmentStatusCancelled {
			return pkgerrors.New(pkgerrors.CodeConflict, "appointment "+appointmentID+" is cancelled")
		}
		return tx.Model(&models.Appointment{}).
			Where("id = ?", appointmentID).
			Update("status", status).Error
	})
	return mapErr(err, pkgerrors.New(pkgerrors.CodeNotFound, "appointment "+appointmentID+" not found"))
}
