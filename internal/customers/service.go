// Package customers serves the assistant's customer-profile reads.
package customers

import (
	"context"

	"github.com/bettersale/bettersale-backend/internal/backend"
	"github.com/bettersale/bettersale-backend/pkg/db/models"
	"github.com/bettersale/bettersale-backend/pkg/enums"
	pkgerrors "github.com/bettersale/bettersale-backend/pkg/errors"
	"github.com/bettersale/bettersale-backend/pkg/logger"
	"github.com/bettersale/bettersale-backend/pkg/types"
)

// Profile is the customer read model: stored fields plus the loyalty tier
// derived from the point balance.
type Profile struct {
	CustomerID               string                         `json:"customer_id"`
	AccountNumber            string                         `json:"account_number"`
	FirstName                string                         `json:"first_name"`
	LastName                 string                         `json:"last_name"`
	Email                    string                         `json:"email"`
	PhoneNumber              string                         `json:"phone_number"`
	CustomerStartDate        string                         `json:"customer_start_date"`
	LoyaltyPoints            int                            `json:"loyalty_points"`
	LoyaltyTier              enums.LoyaltyTier              `json:"loyalty_tier"`
	PreferredStore           string                         `json:"preferred_store"`
	CommunicationPreferences types.CommunicationPreferences `json:"communication_preferences"`
	SportsProfile            types.SportsProfile            `json:"sports_profile"`
	PurchaseHistory          []PastOrder                    `json:"purchase_history"`
	ScheduledAppointments    []PastAppointment              `json:"scheduled_appointments"`
	Degraded                 bool                           `json:"degraded"`
}

// PastOrder is one order-history entry on the profile.
type PastOrder struct {
	OrderID string            `json:"order_id"`
	Status  enums.OrderStatus `json:"status"`
	Date    string            `json:"date"`
	Items   []PastOrderItem   `json:"items"`
}

// PastOrderItem is one line of a historical order.
type PastOrderItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// PastAppointment is one booking on the profile.
type PastAppointment struct {
	AppointmentID string `json:"appointment_id"`
	ServiceType   string `json:"service_type"`
	Date          string `json:"date"`
	TimeRange     string `json:"time_range"`
	Status        string `json:"status"`
}

// Service serves profile reads.
type Service struct {
	sel  *backend.Selector
	logg *logger.Logger
}

// New wires the customer service.
func New(sel *backend.Selector, logg *logger.Logger) *Service {
	return &Service{sel: sel, logg: logg}
}

// Get resolves the full profile for a customer, including purchase history
// and scheduled appointments.
func (s *Service) Get(ctx context.Context, customerID string) (*Profile, error) {
	if customerID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id is required")
	}

	var (
		customer *models.Customer
		orders   []models.Order
		appts    []models.Appointment
	)
	degraded, err := s.sel.Run(ctx, "get_customer_information", func(store backend.Store) error {
		var err error
		if customer, err = store.GetCustomer(ctx, customerID); err != nil {
			return err
		}
		if orders, err = store.ListOrders(ctx, customerID); err != nil {
			return err
		}
		appts, err = store.ListAppointments(ctx, customerID)
		return err
	})
	if err != nil {
		return nil, err
	}

	profile := &Profile{
		CustomerID:               customer.ID,
		AccountNumber:            customer.AccountNumber,
		FirstName:                customer.FirstName,
		LastName:                 customer.LastName,
		Email:                    customer.Email,
		PhoneNumber:              customer.PhoneNumber,
		CustomerStartDate:        customer.StartDate,
		LoyaltyPoints:            customer.LoyaltyPoints,
		LoyaltyTier:              enums.TierForPoints(customer.LoyaltyPoints),
		PreferredStore:           customer.PreferredStore,
		CommunicationPreferences: customer.CommunicationPreferences,
		SportsProfile:            customer.SportsProfile,
		PurchaseHistory:          make([]PastOrder, 0, len(orders)),
		ScheduledAppointments:    make([]PastAppointment, 0, len(appts)),
		Degraded:                 degraded,
	}

	for _, order := range orders {
		past := PastOrder{
			OrderID: order.ID,
			Status:  order.Status,
			Date:    order.PlacedAt.Format("2006-01-02"),
			Items:   make([]PastOrderItem, 0, len(order.Items)),
		}
		for _, item := range order.Items {
			past.Items = append(past.Items, PastOrderItem{ProductID: item.ProductID, Quantity: item.Quantity})
		}
		profile.PurchaseHistory = append(profile.PurchaseHistory, past)
	}

	for _, appt := range appts {
		profile.ScheduledAppointments = append(profile.ScheduledAppointments, PastAppointment{
			AppointmentID: appt.ID,
			ServiceType:   appt.ServiceType,
			Date:          appt.Date,
			TimeRange:     appt.TimeRange,
			Status:        appt.Status.String(),
		})
	}

	return profile, nil
}
