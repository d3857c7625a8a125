package db_models

import (
	"time"

	"github.com/google/uuid"
)

type ContactRequestStatus string

const (
	RequestPending  ContactRequestStatus = "pending"
	RequestApproved ContactRequestStatus = "approved"
	RequestRejected ContactRequestStatus = "rejected"
)

// ContactRequest is unique per (client, property). It is decided once.
type ContactRequest struct {
	BaseModel
	ClientID   uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:idx_contact_requests_pair"`
	PropertyID uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:idx_contact_requests_pair;index"`
	Status     ContactRequestStatus `gorm:"type:text;not null;default:pending;index"`
	DecidedBy  *uuid.UUID           `gorm:"type:uuid"`
	DecidedAt  *time.Time
}

// ApprovedOwnerContact maps the approved_owner_contacts view: owner fields
// joined only for approved (client, property) pairs.
type ApprovedOwnerContact struct {
	ClientID   uuid.UUID
	PropertyID uuid.UUID
	OwnerName  *string
	OwnerPhone *string
	OwnerEmail *string
}

func (ApprovedOwnerContact) TableName() string {
	return "approved_owner_contacts"
}
