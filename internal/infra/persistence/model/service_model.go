package model

import (
	"time"

	"github.com/google/uuid"
)

// ServiceModel mirrors the 'services' table. UserID is the owning provider.
type ServiceModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"type:varchar(150);not null"`
	Category    string    `gorm:"type:varchar(50);not null;index"`
	Description string    `gorm:"type:text"`
	Price       string    `gorm:"type:varchar(50)"`
	Rating      float64   `gorm:"type:numeric(3,2);default:0"`
	Status      string    `gorm:"type:varchar(20);not null;default:'active';index"`
	ImageURL    string    `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (ServiceModel) TableName() string {
	return "services"
}
