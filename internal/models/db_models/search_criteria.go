package db_models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// SearchCriteria is a client's saved filter. A nil field is unconstrained.
type SearchCriteria struct {
	BaseModel
	ClientID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	City          *string
	MinPrice      *int
	MaxPrice      *int
	MinSurface    *int
	MinRooms      *int
	PropertyTypes pq.StringArray `gorm:"type:text[]"`
}

func (SearchCriteria) TableName() string {
	return "search_criteria"
}
