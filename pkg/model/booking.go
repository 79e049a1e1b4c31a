package model

import (
	"time"
)

type Booking struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	BookingID  string    `json:"booking_id" bson:"booking_id" validate:"required,uuid4"`
	PropertyID string    `json:"property_id" bson:"property_id" validate:"required,mongodb"`
	GuestName  string    `json:"guest_name" bson:"guest_name" validate:"required,min=2,max=100"`
	GuestEmail string    `json:"guest_email" bson:"guest_email" validate:"required,email"`
	GuestPhone string    `json:"guest_phone,omitempty" bson:"guest_phone,omitempty" validate:"omitempty,e164"`
	CheckIn    Date      `json:"check_in" bson:"check_in"`
	CheckOut   Date      `json:"check_out" bson:"check_out"`
	Guests     int       `json:"guests" bson:"guests" validate:"required,min=1,max=50"`
	Nights     int       `json:"nights" bson:"nights"`
	TotalPrice float64   `json:"total_price" bson:"total_price" validate:"gte=0"`
	Status     string    `json:"status" bson:"status" validate:"required,booking_status"`
	Notes      string    `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=1000"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}

func (b *Booking) Range() DateRange {
	return NewDateRange(b.CheckIn, b.CheckOut)
}

type BookingUpdate struct {
	GuestName  *string `json:"guest_name,omitempty" validate:"omitempty,min=2,max=100"`
	GuestEmail *string `json:"guest_email,omitempty" validate:"omitempty,email"`
	GuestPhone *string `json:"guest_phone,omitempty" validate:"omitempty,e164"`
	CheckIn    *Date   `json:"check_in,omitempty"`
	CheckOut   *Date   `json:"check_out,omitempty"`
	Guests     *int    `json:"guests,omitempty" validate:"omitempty,min=1,max=50"`
	Status     *string `json:"status,omitempty" validate:"omitempty,booking_status"`
	Notes      *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// ChangesDates reports whether the update moves the stay.
func (u *BookingUpdate) ChangesDates() bool {
	return u.CheckIn != nil || u.CheckOut != nil
}

// BookingFilter narrows a booking search. Empty fields are ignored; when
// both dates are set only stays overlapping [CheckIn, CheckOut) match.
type BookingFilter struct {
	PropertyID string
	CheckIn    *Date
	CheckOut   *Date
	Status     string
}
