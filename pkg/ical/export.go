package ical

import (
	"fmt"
	"staybook/pkg/config"
	"staybook/pkg/model"
	"staybook/pkg/sanitizer"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
)

const (
	ProductID   = "-//Staybook//Apartment Booking//EN"
	ContentType = "text/calendar; charset=utf-8"

	organizerName = "Staybook"
)

// Exporter renders a property's bookings and blocked dates as an
// iCalendar document suitable for subscription by booking platforms.
type Exporter struct {
	domain    string
	organizer string
	now       func() time.Time
}

func NewExporter(domain, organizerEmail string) *Exporter {
	return &Exporter{
		domain:    domain,
		organizer: organizerEmail,
		now:       time.Now,
	}
}

// CalendarSources maps an external calendar id to its platform display name.
type CalendarSources map[string]string

func (e *Exporter) Export(property *model.Property, bookings []*model.Booking, blocks []*model.BlockedDate, sources CalendarSources) string {
	cal := ics.NewCalendar()
	cal.SetProductId(ProductID)
	cal.SetVersion("2.0")
	cal.SetCalscale("GREGORIAN")
	cal.SetMethod(ics.MethodPublish)
	cal.SetXWRCalName(property.Title + " - Bookings")
	cal.SetXWRTimezone("UTC")
	cal.SetXWRCalDesc("Booking calendar for " + property.Title)

	stamp := e.now().UTC()

	for _, b := range bookings {
		if b.Status == config.Cancelled {
			continue
		}
		e.addBooking(cal, b, stamp)
	}
	for _, blk := range blocks {
		e.addBlock(cal, blk, sources, stamp)
	}

	return cal.Serialize(ics.WithNewLineWindows)
}

func (e *Exporter) BookingUID(b *model.Booking) string {
	return fmt.Sprintf("booking-%s@%s", b.BookingID, e.domain)
}

func (e *Exporter) BlockUID(b *model.BlockedDate) string {
	return fmt.Sprintf("blocked-%s@%s", b.ID, e.domain)
}

func (e *Exporter) addBooking(cal *ics.Calendar, b *model.Booking, stamp time.Time) {
	event := cal.AddEvent(e.BookingUID(b))
	event.SetSummary("BOOKED - " + b.GuestName)
	event.SetDescription(bookingDescription(b))
	event.SetAllDayStartAt(b.CheckIn.Time)
	event.SetAllDayEndAt(b.CheckOut.Time)
	event.SetStatus(bookingStatus(b.Status))
	if e.organizer != "" {
		event.SetOrganizer(e.organizer, ics.WithCN(organizerName))
	}
	if b.GuestEmail != "" {
		event.AddAttendee(b.GuestEmail, ics.WithCN(b.GuestName), ics.ParticipationRoleReqParticipant)
	}
	event.SetCreatedTime(b.CreatedAt)
	event.SetModifiedAt(b.UpdatedAt)
	event.SetDtStampTime(stamp)
	event.SetTimeTransparency(ics.TransparencyOpaque)
}

func (e *Exporter) addBlock(cal *ics.Calendar, b *model.BlockedDate, sources CalendarSources, stamp time.Time) {
	summary := "BLOCKED"
	if b.ExternalCalendarID != "" {
		if name, ok := sources[b.ExternalCalendarID]; ok && name != "" {
			summary += " (" + name + ")"
		}
	}

	event := cal.AddEvent(e.BlockUID(b))
	event.SetSummary(summary)
	event.SetDescription(blockDescription(b))
	event.SetAllDayStartAt(b.StartDate.Time)
	event.SetAllDayEndAt(b.EndDate.Time)
	event.SetStatus(ics.ObjectStatusConfirmed)
	event.SetCreatedTime(b.CreatedAt)
	event.SetModifiedAt(b.UpdatedAt)
	event.SetDtStampTime(stamp)
	event.SetTimeTransparency(ics.TransparencyOpaque)
}

func bookingStatus(status string) ics.ObjectStatus {
	if status == config.Pending {
		return ics.ObjectStatusTentative
	}
	return ics.ObjectStatusConfirmed
}

func bookingDescription(b *model.Booking) string {
	lines := []string{
		"Booking ID: " + b.BookingID,
		"Guest: " + b.GuestName,
		"Email: " + b.GuestEmail,
	}
	if b.GuestPhone != "" {
		lines = append(lines, "Phone: "+b.GuestPhone)
	}
	lines = append(lines,
		fmt.Sprintf("Guests: %d", b.Guests),
		fmt.Sprintf("Nights: %d", b.Nights),
		"Status: "+b.Status,
	)
	if b.Notes != "" {
		lines = append(lines, "Notes: "+b.Notes)
	}
	return strings.Join(lines, "\n")
}

func blockDescription(b *model.BlockedDate) string {
	desc := "Property blocked"
	if b.Notes != "" {
		desc += "\nNotes: " + b.Notes
	}
	if b.ExternalID != "" {
		desc += "\nExternal ID: " + b.ExternalID
	}
	return desc
}

// Filename returns the download name for a property's calendar.
func Filename(title string) string {
	return sanitizer.Slugify(title) + "_calendar.ics"
}
