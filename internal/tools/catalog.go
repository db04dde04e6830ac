package tools

import (
	"context"
	"encoding/json"

	"github.com/go-playground/validator/v10"

	"github.com/bettersale/bettersale-backend/internal/customers"
	"github.com/bettersale/bettersale-backend/internal/engine"
	"github.com/bettersale/bettersale-backend/internal/products"
	"github.com/bettersale/bettersale-backend/internal/scheduling"
	pkgerrors "github.com/bettersale/bettersale-backend/pkg/errors"
	"github.com/bettersale/bettersale-backend/pkg/logger"
	"github.com/bettersale/bettersale-backend/pkg/types"
)

var validate = validator.New()

// decodeArgs parses and validates raw tool arguments. Absent arguments are
// treated as an empty object so tools with all-optional fields still run.
func decodeArgs(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		raw = json.RawMessage("{}")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "malformed tool arguments")
	}
	if err := validate.Struct(dst); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid tool arguments")
	}
	return nil
}

type cartArgs struct {
	CustomerID string `json:"customer_id" validate:"required"`
}

type modifyCartArgs struct {
	CustomerID    string              `json:"customer_id" validate:"required"`
	ItemsToAdd    []engine.ItemChange `json:"items_to_add"`
	ItemsToRemove []engine.ItemChange `json:"items_to_remove"`
}

type recommendationArgs struct {
	SportOrActivity string `json:"sport_or_activity" validate:"required"`
	CustomerID      string `json:"customer_id"`
}

type availabilityArgs struct {
	ProductID string `json:"product_id" validate:"required"`
	StoreID   string `json:"store_id"`
}

type serviceTimesArgs struct {
	ServiceType string `json:"service_type" validate:"required"`
	Date        string `json:"date" validate:"required"`
}

type cancelAppointmentArgs struct {
	AppointmentID string `json:"appointment_id" validate:"required"`
}

// Services collects everything the tool catalog binds to.
type Services struct {
	Engine     *engine.Service
	Scheduling *scheduling.Service
	Products   *products.Service
	Customers  *customers.Service
}

// NewCatalog builds the registry with the full tool set the assistant uses.
func NewCatalog(svcs Services, logg *logger.Logger) *Registry {
	r := NewRegistry(logg)

	r.Register("access_cart_information", func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args cartArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		return svcs.Engine.GetCart(ctx, args.CustomerID)
	})

	r.Register("modify_cart", func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args modifyCartArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		return svcs.Engine.ModifyCart(ctx, args.CustomerID, args.ItemsToAdd, args.ItemsToRemove)
	})

	r.Register("place_order", func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args cartArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		return svcs.Engine.PlaceOrder(ctx, args.CustomerID)
	})

	r.Register("get_product_recommendations", func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args recommendationArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		recs, err := svcs.Products.Recommendations(ctx, args.SportOrActivity, args.CustomerID)
		if err != nil {
			return nil, err
		}
		return map[string]any{"recommendations": recs}, nil
	})

	r.Register("check_product_availability", func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args availabilityArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		return svcs.Products.CheckAvailability(ctx, args.ProductID, args.StoreID)
	})

	r.Register("schedule_service", func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args scheduling.ScheduleInput
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		return svcs.Scheduling.Schedule(ctx, args)
	})

	r.Register("get_available_service_times", func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args serviceTimesArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		slots, degraded, err := svcs.Scheduling.AvailableTimes(ctx, args.ServiceType, args.Date)
		if err != nil {
			return nil, err
		}
		if slots == nil {
			slots = []types.TimeRange{}
		}
		return map[string]any{
			"service_type":    args.ServiceType,
			"date":            args.Date,
			"available_times": slots,
			"degraded":        degraded,
		}, nil
	})

	r.Register("get_customer_information", func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args cartArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		return svcs.Customers.Get(ctx, args.CustomerID)
	})

	r.Register("cancel_service_appointment", func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args cancelAppointmentArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		return svcs.Scheduling.Cancel(ctx, args.AppointmentID)
	})

	return r
}
