package model

import (
	"time"

	"github.com/google/uuid"
)

// BookingModel mirrors the 'bookings' table. The user_* columns are a contact
// snapshot taken from the customer's profile at booking time.
type BookingModel struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID            uuid.UUID `gorm:"type:uuid;not null;index"`
	ServiceID         uuid.UUID `gorm:"type:uuid;not null;index"`
	ServiceProviderID uuid.UUID `gorm:"type:uuid;not null;index"`
	BookingDate       time.Time `gorm:"not null"`
	BookingNotes      string    `gorm:"type:text"`
	BookingStatus     string    `gorm:"type:varchar(20);not null;default:'pending'"`
	UserEmail         string    `gorm:"type:varchar(255)"`
	UserFullName      string    `gorm:"type:varchar(100)"`
	UserPhone         string    `gorm:"type:varchar(50)"`
	UserLocation      string    `gorm:"type:text"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName explicitly sets the table name for GORM.
func (BookingModel) TableName() string {
	return "bookings"
}
