package model

import (
	"staybook/pkg/config"
	"time"
)

type ExternalCalendar struct {
	ID         string     `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	PropertyID string     `json:"property_id" bson:"property_id" validate:"required,mongodb"`
	Source     string     `json:"source" bson:"source" validate:"required,calendar_source"`
	ICalURL    string     `json:"ical_url" bson:"ical_url" validate:"required,feed_url,max=2000"`
	IsActive   bool       `json:"is_active" bson:"is_active"`
	LastSynced *time.Time `json:"last_synced" bson:"last_synced"`
	SyncErrors *string    `json:"sync_errors" bson:"sync_errors"`
	CreatedAt  time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" bson:"updated_at"`
}

func (c *ExternalCalendar) SourceDisplay() string {
	return config.SourceDisplayName(c.Source)
}

type ExternalCalendarUpdate struct {
	ICalURL  *string `json:"ical_url,omitempty" validate:"omitempty,feed_url,max=2000"`
	IsActive *bool   `json:"is_active,omitempty"`
}
