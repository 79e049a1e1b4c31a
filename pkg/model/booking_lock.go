package model

import "time"

// BookingLock is a short-lived advisory lock held while a booking for one
// property is checked and inserted.
type BookingLock struct {
	ID         string    `bson:"_id" json:"id"`
	PropertyID string    `bson:"property_id" json:"property_id"`
	ExpiresAt  time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}

func BookingLockID(propertyID string) string {
	return "booking_lock_" + propertyID
}
