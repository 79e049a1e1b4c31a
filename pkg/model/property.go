package model

import "time"

type Property struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Title         string    `json:"title" bson:"title" validate:"required,min=2,max=200"`
	Description   string    `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=5000"`
	Address       string    `json:"address" bson:"address" validate:"required,min=2,max=300"`
	MaxGuests     int       `json:"max_guests" bson:"max_guests" validate:"required,min=1,max=50"`
	PricePerNight float64   `json:"price_per_night" bson:"price_per_night" validate:"gte=0"`
	IsActive      bool      `json:"is_active" bson:"is_active"`
	AvailableFrom *Date     `json:"available_from,omitempty" bson:"available_from,omitempty"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
}

type PropertyUpdate struct {
	Title         *string  `json:"title,omitempty" validate:"omitempty,min=2,max=200"`
	Description   *string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	Address       *string  `json:"address,omitempty" validate:"omitempty,min=2,max=300"`
	MaxGuests     *int     `json:"max_guests,omitempty" validate:"omitempty,min=1,max=50"`
	PricePerNight *float64 `json:"price_per_night,omitempty" validate:"omitempty,gte=0"`
	IsActive      *bool    `json:"is_active,omitempty"`
	AvailableFrom *Date    `json:"available_from,omitempty"`
}

// AcceptsFrom reports whether a stay starting on d is allowed by the
// property's availability start date.
func (p *Property) AcceptsFrom(d Date) bool {
	return p.AvailableFrom == nil || p.AvailableFrom.IsZero() || !d.Before(*p.AvailableFrom)
}
