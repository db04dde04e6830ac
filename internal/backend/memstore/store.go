// Package memstore is the in-memory fallback state provider. It mirrors the
// persistent schema in process-local maps, seeded with the canned demo
// dataset so restarts are deterministic. Mutations live only for the process
// lifetime.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/bettersale/bettersale-backend/internal/backend"
	"github.com/bettersale/bettersale-backend/internal/backend/seed"
	"github.com/bettersale/bettersale-backend/pkg/db/models"
	"github.com/bettersale/bettersale-backend/pkg/enums"
	pkgerrors "github.com/bettersale/bettersale-backend/pkg/errors"
)

// Store holds all entities in process memory. It is passed by reference into
// the engine at construction, never used as an ambient singleton, so tests
// can inject isolated instances.
type Store struct {
	mu sync.RWMutex

	customers    map[string]models.Customer
	products     map[string]models.Product
	carts        map[string]map[string]models.CartItem // customer id -> product id -> line
	orders       map[string]models.Order
	appointments map[string]models.Appointment

	nextCartLineID uint
}

var _ backend.Store = (*Store)(nil)

// New returns a store seeded with the demo dataset.
func New() *Store {
	s := NewEmpty()
	for _, c := range seed.Customers() {
		s.customers[c.ID] = c
		s.carts[c.ID] = map[string]models.CartItem{}
	}
	for _, p := range seed.Products() {
		s.products[p.ID] = p
	}
	for _, item := range seed.CartItems() {
		s.nextCartLineID++
		item.ID = s.nextCartLineID
		s.carts[item.CustomerID][item.ProductID] = item
	}
	for _, o := range seed.Orders() {
		s.orders[o.ID] = o
	}
	return s
}

// NewEmpty returns a store with no seeded data, for tests that build their
// own fixtures.
func NewEmpty() *Store {
	return &Store{
		customers:    map[string]models.Customer{},
		products:     map[string]models.Product{},
		carts:        map[string]map[string]models.CartItem{},
		orders:       map[string]models.Order{},
		appointments: map[string]models.Appointment{},
	}
}

func (s *Store) Name() string { return "memstore" }

// AddCustomer installs a customer fixture (test helper surface).
func (s *Store) AddCustomer(c models.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers[c.ID] = c
	if _, ok := s.carts[c.ID]; !ok {
		s.carts[c.ID] = map[string]models.CartItem{}
	}
}

// AddProduct installs a product fixture (test helper surface).
func (s *Store) AddProduct(p models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

func (s *Store) GetCustomer(_ context.Context, customerID string) (*models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.customers[customerID]
	if !ok {
		return nil, backend.UnknownCustomer(customerID)
	}
	out := c
	return &out, nil
}

func (s *Store) CustomerExists(_ context.Context, customerID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.customers[customerID]
	return ok, nil
}

func (s *Store) GetProduct(_ context.Context, productID string) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[productID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product "+productID+" not found")
	}
	out := p
	return &out, nil
}

func (s *Store) ProductsBySport(_ context.Context, sport string) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Product
	for _, p := range s.products {
		if strings.EqualFold(p.Sport, sport) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetCartItems(_ context.Context, customerID string) ([]models.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.customers[customerID]; !ok {
		return nil, backend.UnknownCustomer(customerID)
	}
	lines := s.carts[customerID]
	out := make([]models.CartItem, 0, len(lines))
	for _, item := range lines {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ApplyCartChanges rebuilds the customer's cart on a private copy and swaps
// it in once every change has applied, so a mid-batch validation failure
// leaves the cart untouched.
func (s *Store) ApplyCartChanges(_ context.Context, customerID string, upserts []models.CartItem, removeProductIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers[customerID]; !ok {
		return backend.UnknownCustomer(customerID)
	}

	next := cloneCart(s.carts[customerID])
	for _, productID := range removeProductIDs {
		delete(next, productID)
	}
	for _, item := range upserts {
		if item.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart quantity must be positive")
		}
		if existing, ok := next[item.ProductID]; ok {
			item.ID = existing.ID
			item.AddedAt = existing.AddedAt
		} else {
			s.nextCartLineID++
			item.ID = s.nextCartLineID
		}
		item.CustomerID = customerID
		next[item.ProductID] = item
	}

	s.carts[customerID] = next
	return nil
}

// CreateOrder cannot lean on a transaction, so it runs as an ordered
// sequence: insert the order, then clear the cart, deleting the order again
// if the second step refuses.
func (s *Store) CreateOrder(_ context.Context, order *models.Order, items []models.OrderItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers[order.CustomerID]; !ok {
		return backend.UnknownCustomer(order.CustomerID)
	}
	if _, ok := s.orders[order.ID]; ok {
		return pkgerrors.New(pkgerrors.CodeConflict, "order "+order.ID+" already exists")
	}

	stored := *order
	stored.Items = append([]models.OrderItem(nil), items...)
	for i := range stored.Items {
		stored.Items[i].OrderID = stored.ID
	}
	s.orders[stored.ID] = stored

	if err := s.clearCartLocked(order.CustomerID); err != nil {
		delete(s.orders, stored.ID) // compensate
		return err
	}

	order.Items = append([]models.OrderItem(nil), stored.Items...)
	return nil
}

func (s *Store) clearCartLocked(customerID string) error {
	if _, ok := s.customers[customerID]; !ok {
		return backend.UnknownCustomer(customerID)
	}
	s.carts[customerID] = map[string]models.CartItem{}
	return nil
}

func (s *Store) GetOrder(_ context.Context, orderID string) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[orderID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order "+orderID+" not found")
	}
	out := o
	out.Items = append([]models.OrderItem(nil), o.Items...)
	return &out, nil
}

func (s *Store) ListOrders(_ context.Context, customerID string) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.customers[customerID]; !ok {
		return nil, backend.UnknownCustomer(customerID)
	}
	var out []models.Order
	for _, o := range s.orders {
		if o.CustomerID != customerID {
			continue
		}
		clone := o
		clone.Items = append([]models.OrderItem(nil), o.Items...)
		out = append(out, clone)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PlacedAt.Equal(out[j].PlacedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].PlacedAt.Before(out[j].PlacedAt)
	})
	return out, nil
}

func (s *Store) AppointmentsFor(_ context.Context, serviceType, date string) ([]models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Appointment
	for _, a := range s.appointments {
		if strings.EqualFold(a.ServiceType, serviceType) && a.Date == date {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TimeRange < out[j].TimeRange })
	return out, nil
}

func (s *Store) ListAppointments(_ context.Context, customerID string) ([]models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.customers[customerID]; !ok {
		return nil, backend.UnknownCustomer(customerID)
	}
	var out []models.Appointment
	for _, a := range s.appointments {
		if a.CustomerID == customerID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date == out[j].Date {
			return out[i].TimeRange < out[j].TimeRange
		}
		return out[i].Date < out[j].Date
	})
	return out, nil
}

func (s *Store) CreateAppointment(_ context.Context, appt *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.customers[appt.CustomerID]; !ok {
		return backend.UnknownCustomer(appt.CustomerID)
	}
	if _, ok := s.appointments[appt.ID]; ok {
		return pkgerrors.New(pkgerrors.CodeConflict, "appointment "+appt.ID+" already exists")
	}
	s.appointments[appt.ID] = *appt
	return nil
}

func (s *Store) GetAppointment(_ context.Context, appointmentID string) (*models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.appointments[appointmentID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "appointment "+appointmentID+" not found")
	}
	out := a
	return &out, nil
}

func (s *Store) UpdateAppointmentStatus(_ context.Context, appointmentID string, status enums.AppointmentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appointments[appointmentID]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "appointment "+appointmentID+" not found")
	}
	if a.Status == enums.AppointmentStatusCancelled && status != enums.AppointmentStatusCancelled {
		return pkgerrors.New(pkgerrors.CodeConflict, "appointment "+appointmentID+" is cancelled")
	}
	a.Status = status
	s.appointments[appointmentID] = a
	return nil
}

func cloneCart(lines map[string]models.CartItem) map[string]models.CartItem {
	next := make(map[string]models.CartItem, len(lines))
	for k, v := range lines {
		next[k] = v
	}
	return next
}
