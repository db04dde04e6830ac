// Package scheduling books service appointments. Slots are half-open
// intervals, so back-to-back bookings that touch at an endpoint never
// conflict. Conflict checks run under a per-(service, date) lock to keep two
// concurrent requests from winning the same slot.
package scheduling

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bettersale/bettersale-backend/internal/backend"
	"github.com/bettersale/bettersale-backend/pkg/config"
	"github.com/bettersale/bettersale-backend/pkg/db/models"
	"github.com/bettersale/bettersale-backend/pkg/enums"
	pkgerrors "github.com/bettersale/bettersale-backend/pkg/errors"
	"github.com/bettersale/bettersale-backend/pkg/logger"
	"github.com/bettersale/bettersale-backend/pkg/types"
)

// ScheduleInput describes one booking request.
type ScheduleInput struct {
	CustomerID  string `json:"customer_id" validate:"required"`
	ServiceType string `json:"service_type" validate:"required"`
	Date        string `json:"date" validate:"required"`
	TimeRange   string `json:"time_range" validate:"required"`
	Details     string `json:"details"`
}

// Appointment is the booking read model returned to callers.
type Appointment struct {
	ID          string          `json:"appointment_id"`
	CustomerID  string          `json:"customer_id"`
	ServiceType string          `json:"service_type"`
	Date        string          `json:"date"`
	TimeRange   types.TimeRange `json:"time_range"`
	Details     string          `json:"details,omitempty"`
	Status      string          `json:"status"`
	Degraded    bool            `json:"degraded"`
}

// Service is the appointment scheduler.
type Service struct {
	sel  *backend.Selector
	cfg  config.SchedulingConfig
	logg *logger.Logger

	mu    sync.Mutex
	slots map[string]*sync.Mutex
}

// New wires the scheduler.
func New(sel *backend.Selector, cfg config.SchedulingConfig, logg *logger.Logger) *Service {
	return &Service{
		sel:   sel,
		cfg:   cfg,
		logg:  logg,
		slots: map[string]*sync.Mutex{},
	}
}

func (s *Service) slotLock(serviceType, date string) *sync.Mutex {
	key := strings.ToLower(serviceType) + "|" + date
	s.mu.Lock()
	defer s.mu.Unlock()
	if mu, ok := s.slots[key]; ok {
		return mu
	}
	mu := &sync.Mutex{}
	s.slots[key] = mu
	return mu
}

// slotMinutes picks the slot duration for a service type. Lessons book an
// hour; tune-up and tuning work books two.
func (s *Service) slotMinutes(serviceType string) int {
	st := strings.ToLower(serviceType)
	switch {
	case strings.Contains(st, "lesson"):
		return s.cfg.LessonSlotMinutes
	case strings.Contains(st, "tune-up"), strings.Contains(st, "tuneup"), strings.Contains(st, "tuning"):
		return s.cfg.TuneUpSlotMinutes
	default:
		return s.cfg.DefaultSlotMinutes
	}
}

func (s *Service) window() (types.TimeRange, error) {
	open, err := types.ParseClock(s.cfg.WindowOpen)
	if err != nil {
		return types.TimeRange{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "invalid operating window open")
	}
	closeAt, err := types.ParseClock(s.cfg.WindowClose)
	if err != nil {
		return types.TimeRange{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "invalid operating window close")
	}
	return types.TimeRange{Start: open, End: closeAt}, nil
}

func validateDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "date must be YYYY-MM-DD")
	}
	return nil
}

// AvailableTimes returns the free slots for a service on a date: the
// operating window sliced by the service's slot duration, minus every
// booking that still occupies its slot. Sorted by start time.
func (s *Service) AvailableTimes(ctx context.Context, serviceType, date string) ([]types.TimeRange, bool, error) {
	if serviceType == "" {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "service type is required")
	}
	if err := validateDate(date); err != nil {
		return nil, false, err
	}

	window, err := s.window()
	if err != nil {
		return nil, false, err
	}

	var booked []models.Appointment
	degraded, err := s.sel.Run(ctx, "get_available_service_times", func(store backend.Store) error {
		var err error
		booked, err = store.AppointmentsFor(ctx, serviceType, date)
		return err
	})
	if err != nil {
		return nil, degraded, err
	}

	taken := make([]types.TimeRange, 0, len(booked))
	for _, appt := range booked {
		if !appt.Status.Blocks() {
			continue
		}
		tr, perr := types.ParseTimeRange(appt.TimeRange)
		if perr != nil {
			continue
		}
		taken = append(taken, tr)
	}

	step := s.slotMinutes(serviceType)
	var free []types.TimeRange
	for start := window.Start; start+step <= window.End; start += step {
		slot := types.TimeRange{Start: start, End: start + step}
		conflict := false
		for _, tr := range taken {
			if slot.Overlaps(tr) {
				conflict = true
				break
			}
		}
		if !conflict {
			free = append(free, slot)
		}
	}
	return free, degraded, nil
}

// Schedule books a slot. The requested range must be well-formed and free of
// overlap with every live booking for the same service and date; touching
// endpoints do not overlap.
func (s *Service) Schedule(ctx context.Context, input ScheduleInput) (*Appointment, error) {
	if input.CustomerID == "" || input.ServiceType == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id and service type are required")
	}
	if err := validateDate(input.Date); err != nil {
		return nil, err
	}
	requested, err := types.ParseTimeRange(input.TimeRange)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid time range")
	}

	lock := s.slotLock(input.ServiceType, input.Date)
	lock.Lock()
	defer lock.Unlock()

	appt := models.Appointment{
		ID:          "APT-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8]),
		CustomerID:  input.CustomerID,
		ServiceType: input.ServiceType,
		Date:        input.Date,
		TimeRange:   requested.String(),
		Details:     input.Details,
		Status:      enums.AppointmentStatusScheduled,
	}

	degraded, err := s.sel.Run(ctx, "schedule_service", func(store backend.Store) error {
		booked, err := store.AppointmentsFor(ctx, input.ServiceType, input.Date)
		if err != nil {
			return err
		}
		for _, existing := range booked {
			if !existing.Status.Blocks() {
				continue
			}
			tr, perr := types.ParseTimeRange(existing.TimeRange)
			if perr != nil {
				continue
			}
			if requested.Overlaps(tr) {
				return pkgerrors.New(pkgerrors.CodeSlotConflict,
					"time slot "+requested.String()+" conflicts with an existing "+input.ServiceType+" appointment")
			}
		}
		return store.CreateAppointment(ctx, &appt)
	})
	if err != nil {
		return nil, err
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"customer_id":    input.CustomerID,
		"service_type":   input.ServiceType,
		"appointment_id": appt.ID,
	})
	s.logg.Info(logCtx, "appointment scheduled")

	return &Appointment{
		ID:          appt.ID,
		CustomerID:  appt.CustomerID,
		ServiceType: appt.ServiceType,
		Date:        appt.Date,
		TimeRange:   requested,
		Details:     appt.Details,
		Status:      appt.Status.String(),
		Degraded:    degraded,
	}, nil
}

// Cancel flips an appointment to cancelled, freeing its slot. The row is
// kept for history.
func (s *Service) Cancel(ctx context.Context, appointmentID string) (*Appointment, error) {
	if appointmentID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "appointment id is required")
	}

	var cancelled *models.Appointment
	degraded, err := s.sel.Run(ctx, "cancel_service_appointment", func(store backend.Store) error {
		if err := store.UpdateAppointmentStatus(ctx, appointmentID, enums.AppointmentStatusCancelled); err != nil {
			return err
		}
		var err error
		cancelled, err = store.GetAppointment(ctx, appointmentID)
		return err
	})
	if err != nil {
		return nil, err
	}

	tr, _ := types.ParseTimeRange(cancelled.TimeRange)
	return &Appointment{
		ID:          cancelled.ID,
		CustomerID:  cancelled.CustomerID,
		ServiceType: cancelled.ServiceType,
		Date:        cancelled.Date,
		TimeRange:   tr,
		Details:     cancelled.Details,
		Status:      cancelled.Status.String(),
		Degraded:    degraded,
	}, nil
}
