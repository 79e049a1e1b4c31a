package model

import "time"

type BlockedDate struct {
	ID                 string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	PropertyID         string    `json:"property_id" bson:"property_id" validate:"required,mongodb"`
	ExternalCalendarID string    `json:"external_calendar_id,omitempty" bson:"external_calendar_id,omitempty" validate:"omitempty,mongodb"`
	StartDate          Date      `json:"start_date" bson:"start_date"`
	EndDate            Date      `json:"end_date" bson:"end_date"`
	ExternalID         string    `json:"external_id,omitempty" bson:"external_id,omitempty" validate:"omitempty,max=500"`
	Notes              string    `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=1000"`
	CreatedAt          time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" bson:"updated_at"`
}

func (b *BlockedDate) Range() DateRange {
	return NewDateRange(b.StartDate, b.EndDate)
}

type BlockedDateUpdate struct {
	StartDate *Date   `json:"start_date,omitempty"`
	EndDate   *Date   `json:"end_date,omitempty"`
	Notes     *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}
