package models

import (
	"time"

	"github.com/google/uuid"
)

// Property statuses.
const (
	PropertyStatusActive   = "active"
	PropertyStatusVacant   = "vacant"
	PropertyStatusArchived = "archived"
)

// Property is a firm-scoped real-estate asset. Every property carries an
// explicit firm_id; it is never implicitly scoped through a join chain.
type Property struct {
	ID           uuid.UUID `json:"id"`
	FirmID       uuid.UUID `json:"firm_id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	PropertyType string    `json:"property_type"`
	Units        int       `json:"units"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
