package models

import (
	"time"

	"github.com/bettersale/bettersale-backend/pkg/enums"
)

// Appointment is a booked service slot. Date is YYYY-MM-DD and TimeRange is
// a half-open interval rendered as "HH:MM-HH:MM". Cancellation flips Status;
// rows are kept for history.
type Appointment struct {
	ID          string                  `gorm:"column:id;primaryKey"`
	CustomerID  string                  `gorm:"column:customer_id;not null;index"`
	ServiceType string                  `gorm:"column:service_type;not null;index:idx_appt_service_date"`
	Date        string                  `gorm:"column:date;not null;index:idx_appt_service_date"`
	TimeRange   string                  `gorm:"column:time_range;not null"`
	Details     string                  `gorm:"column:details"`
	Status      enums.AppointmentStatus `gorm:"column:status;not null;default:'scheduled'"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
