package models

import (
	"time"

	"github.com/bettersale/bettersale-backend/pkg/types"
)

// Customer holds the resolved customer identity and profile. Identity is
// established upstream; the engine treats this table as read-mostly.
type Customer struct {
	ID             string `gorm:"column:id;primaryKey"`
	AccountNumber  string `gorm:"column:account_number;not null"`
	FirstName      string `gorm:"column:first_name;not null"`
	LastName       string `gorm:"column:last_name;not null"`
	Email          string `gorm:"column:email;not null"`
	PhoneNumber    string `gorm:"column:phone_number"`
	StartDate      string `gorm:"column:start_date"`
	LoyaltyPoints  int    `gorm:"column:loyalty_points;not null;default:0"`
	PreferredStore string `gorm:"column:preferred_store"`

	CommunicationPreferences types.CommunicationPreferences `gorm:"column:communication_preferences;serializer:json"`
	SportsProfile            types.SportsProfile            `gorm:"column:sports_profile;serializer:json"`

	CartItems    []CartItem    `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	Orders       []Order       `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	Appointments []Appointment `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
