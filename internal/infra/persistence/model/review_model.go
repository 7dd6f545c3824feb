package model

import (
	"time"

	"github.com/google/uuid"
)

// ReviewModel mirrors the 'reviews' table. ServiceID and ServiceProviderID are
// denormalized from the booking so provider and listing pages read one table.
type ReviewModel struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	BookingID         uuid.UUID `gorm:"type:uuid;not null;index"`
	ServiceID         uuid.UUID `gorm:"type:uuid;not null;index"`
	ServiceProviderID uuid.UUID `gorm:"type:uuid;not null;index"`
	ReviewerID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Rating            int       `gorm:"type:smallint;not null"`
	ReviewText        string    `gorm:"type:text"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName explicitly sets the table name for GORM.
func (ReviewModel) TableName() string {
	return "reviews"
}
