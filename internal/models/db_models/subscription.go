package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SubscriptionStatus string

const (
	SubStatusActive   SubscriptionStatus = "active"
	SubStatusPastDue  SubscriptionStatus = "past_due"
	SubStatusCanceled SubscriptionStatus = "canceled"
	SubStatusExpired  SubscriptionStatus = "expired"
)

// Subscription rows are append-only; the latest created row is the current one.
type Subscription struct {
	BaseModel
	ClientID uuid.UUID `gorm:"type:uuid;not null;index"`

	Status        SubscriptionStatus `gorm:"type:text;not null;index"`
	StartsAt      datatypes.Date     `gorm:"not null"`
	EndsAt        *datatypes.Date
	PaidAmountEUR int `gorm:"column:paid_amount_eur;not null;default:0"`

	CreatedBy *uuid.UUID     `gorm:"type:uuid"`
	Metadata  datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
}
