package config

// Booking lifecycle states.
const (
	Pending   = "pending"
	Confirmed = "confirmed"
	Cancelled = "cancelled"
	Completed = "completed"
)

var BookingStatuses = []string{Pending, Confirmed, Cancelled, Completed}

// Statuses that hold a property's nights when checking availability.
var BlockingStatuses = []string{Pending, Confirmed}

// Statuses published in the exported calendar and the booked-dates view.
var ExportedStatuses = []string{Pending, Confirmed, Completed}

// External calendar platforms.
const (
	SourceAirbnb     = "airbnb"
	SourceBookingCom = "booking_com"
	SourceVRBO       = "vrbo"
	SourceOther      = "other"
)

var CalendarSources = []string{SourceAirbnb, SourceBookingCom, SourceVRBO, SourceOther}

var sourceDisplayNames = map[string]string{
	SourceAirbnb:     "Airbnb",
	SourceBookingCom: "Booking.com",
	SourceVRBO:       "VRBO",
	SourceOther:      "Other",
}

// SourceDisplayName returns the human readable platform name, or the raw
// value when the source is unknown.
func SourceDisplayName(source string) string {
	if name, ok := sourceDisplayNames[source]; ok {
		return name
	}
	return source
}
