package model

const (
	RangeKindBooking = "booking"
	RangeKindBlocked = "blocked"
)

type AvailabilityResult struct {
	Available  bool   `json:"available"`
	PropertyID string `json:"property_id"`
	CheckIn    Date   `json:"check_in"`
	CheckOut   Date   `json:"check_out"`
}

// BookedRange is an occupied span on a property calendar.
type BookedRange struct {
	ID     string `json:"id"`
	Kind   string `json:"kind"`
	Start  Date   `json:"start"`
	End    Date   `json:"end"`
	Status string `json:"status,omitempty"`
}
