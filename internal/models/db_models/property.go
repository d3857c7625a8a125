package db_models

import (
	"time"

	"github.com/google/uuid"
)

type PropertyStatus string

const (
	PropertyActive   PropertyStatus = "active"
	PropertyRented   PropertyStatus = "rented"
	PropertyArchived PropertyStatus = "archived"
)

func (s PropertyStatus) Valid() bool {
	switch s {
	case PropertyActive, PropertyRented, PropertyArchived:
		return true
	}
	return false
}

// Property is the privileged listing record, owner contact included.
// Client-facing code never loads it; see PublicProperty.
type Property struct {
	BaseModel
	Title       string `gorm:"not null"`
	Description *string
	City        string `gorm:"not null;index"`
	Zip         *string
	Price       *int
	Surface     *int
	Rooms       *int
	Type        *string
	Status      PropertyStatus `gorm:"type:text;not null;default:active;index"`

	OwnerName  *string
	OwnerPhone *string
	OwnerEmail *string

	Images []PropertyImage `gorm:"foreignKey:PropertyID"`
}

type PropertyImage struct {
	BaseModel
	PropertyID uuid.UUID `gorm:"type:uuid;not null;index"`
	Path       string    `gorm:"not null"`
	OrderIndex int       `gorm:"not null;default:0"`
}

// PublicProperty maps the properties_public view. It has no owner columns.
type PublicProperty struct {
	ID          uuid.UUID
	Title       string
	Description *string
	City        string
	Zip         *string
	Price       *int
	Surface     *int
	Rooms       *int
	Type        *string
	Status      PropertyStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (PublicProperty) TableName() string {
	return "properties_public"
}

// CoverImage is one row of the lowest-order_index image per property.
type CoverImage struct {
	PropertyID uuid.UUID
	Path       string
}
