package ical

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"staybook/pkg/model"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"
)

const maxOccurrences = 1000

var ErrEmptyFeed = errors.New("feed is empty")

// Occurrence is one busy span read from a feed. Recurring events yield one
// occurrence per instance, keyed "{UID}#{YYYYMMDD}".
type Occurrence struct {
	UID     string
	Summary string
	Start   model.Date
	End     model.Date
}

func (o Occurrence) Range() model.DateRange {
	return model.NewDateRange(o.Start, o.End)
}

// Feed is the parsed content of a remote calendar. Problems holds per-event
// failures that did not prevent the rest of the feed from being read.
type Feed struct {
	TotalEvents int
	Occurrences []Occurrence
	Problems    []error
}

type Parser struct {
	horizon time.Duration
	now     func() time.Time
}

// NewParser returns a parser expanding recurring events up to horizon from now.
func NewParser(horizon time.Duration) *Parser {
	return &Parser{horizon: horizon, now: time.Now}
}

// WithClock sets the time recurring events are expanded around.
func (p *Parser) WithClock(now func() time.Time) *Parser {
	p.now = now
	return p
}

func (p *Parser) Parse(r io.Reader) (*Feed, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFeed
	}

	cal, err := ics.ParseCalendar(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	events := cal.Events()
	feed := &Feed{TotalEvents: len(events)}

	overrides := make(map[string][]time.Time)
	for _, event := range events {
		uid, at, ok := recurrenceID(event)
		if ok {
			overrides[uid] = append(overrides[uid], at)
		}
	}

	seen := make(map[string]bool)
	for _, event := range events {
		occ, skip, err := p.extract(event, overrides)
		if err != nil {
			feed.Problems = append(feed.Problems, err)
			continue
		}
		if skip {
			continue
		}
		for _, o := range occ {
			if seen[o.UID] {
				feed.Problems = append(feed.Problems, fmt.Errorf("event %s: duplicate event, keeping the first", o.UID))
				continue
			}
			seen[o.UID] = true
			feed.Occurrences = append(feed.Occurrences, o)
		}
	}

	return feed, nil
}

// recurrenceID reports the UID and RECURRENCE-ID of an override event, one
// that replaces a single instance of a recurring series. Overrides without
// dates are skipped by extract and do not suppress the instance.
func recurrenceID(event *ics.VEvent) (string, time.Time, bool) {
	prop := event.GetProperty(ics.ComponentPropertyRecurrenceId)
	if prop == nil || event.GetProperty(ics.ComponentPropertyDtStart) == nil || event.GetProperty(ics.ComponentPropertyDtEnd) == nil {
		return "", time.Time{}, false
	}
	uid := strings.TrimSpace(event.Id())
	if uid == "" {
		return "", time.Time{}, false
	}
	times, err := parseDateList(prop.Value, tzid(prop.ICalParameters), time.UTC)
	if err != nil || len(times) != 1 {
		return "", time.Time{}, false
	}
	return uid, times[0], true
}

func instanceKey(uid string, d model.Date) string {
	return uid + "#" + d.Format("20060102")
}

func (p *Parser) extract(event *ics.VEvent, overrides map[string][]time.Time) ([]Occurrence, bool, error) {
	if event.GetProperty(ics.ComponentPropertyDtStart) == nil || event.GetProperty(ics.ComponentPropertyDtEnd) == nil {
		return nil, true, nil
	}

	uid := strings.TrimSpace(event.Id())
	if uid == "" {
		return nil, false, errors.New("event has no UID")
	}

	startAt, err := event.GetStartAt()
	if err != nil {
		return nil, false, fmt.Errorf("event %s: invalid DTSTART: %w", uid, err)
	}
	endAt, err := event.GetEndAt()
	if err != nil {
		return nil, false, fmt.Errorf("event %s: invalid DTEND: %w", uid, err)
	}

	summary := ""
	if prop := event.GetProperty(ics.ComponentPropertySummary); prop != nil {
		summary = prop.Value
	}

	start, end := model.DateOf(startAt), model.DateOf(endAt)
	if !end.After(start) {
		return nil, false, fmt.Errorf("event %s: end date %s is not after start date %s", uid, end, start)
	}

	// An override takes the key of the instance it replaces.
	if event.GetProperty(ics.ComponentPropertyRecurrenceId) != nil {
		_, at, ok := recurrenceID(event)
		if !ok {
			return nil, false, fmt.Errorf("event %s: invalid RECURRENCE-ID", uid)
		}
		return []Occurrence{{UID: instanceKey(uid, model.DateOf(at)), Summary: summary, Start: start, End: end}}, false, nil
	}

	rule := event.GetProperty(ics.ComponentPropertyRrule)
	if rule == nil {
		return []Occurrence{{UID: uid, Summary: summary, Start: start, End: end}}, false, nil
	}

	occ, err := p.expand(event, uid, summary, startAt, rule.Value, start.DaysUntil(end), overrides[uid])
	if err != nil {
		return nil, false, fmt.Errorf("event %s: %w", uid, err)
	}
	return occ, false, nil
}

func (p *Parser) expand(event *ics.VEvent, uid, summary string, startAt time.Time, rule string, days int, overridden []time.Time) ([]Occurrence, error) {
	opt, err := rrule.StrToROptionInLocation(rule, startAt.Location())
	if err != nil {
		return nil, fmt.Errorf("invalid RRULE: %w", err)
	}
	opt.Dtstart = startAt

	r, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, fmt.Errorf("invalid RRULE: %w", err)
	}

	set := &rrule.Set{}
	set.RRule(r)
	for _, prop := range event.GetProperties(ics.ComponentPropertyExdate) {
		exdates, err := parseDateList(prop.Value, tzid(prop.ICalParameters), startAt.Location())
		if err != nil {
			return nil, fmt.Errorf("invalid EXDATE: %w", err)
		}
		for _, ex := range exdates {
			set.ExDate(ex)
		}
	}

	// ExDate matches exact instants only, so overridden instances are also
	// dropped by date: an all-day RECURRENCE-ID may be read in another zone.
	replaced := make(map[model.Date]bool, len(overridden))
	for _, at := range overridden {
		set.ExDate(at)
		replaced[model.DateOf(at)] = true
	}

	now := p.now().UTC()
	windowStart := now.AddDate(0, 0, -(days + 1))
	windowEnd := now.Add(p.horizon)

	var out []Occurrence
	for _, at := range set.Between(windowStart, windowEnd, true) {
		if len(out) >= maxOccurrences {
			break
		}
		s := model.DateOf(at)
		if replaced[s] {
			continue
		}
		out = append(out, Occurrence{
			UID:     instanceKey(uid, s),
			Summary: summary,
			Start:   s,
			End:     s.AddDays(days),
		})
	}
	return out, nil
}

func tzid(params map[string][]string) string {
	if v, ok := params[string(ics.ParameterTzid)]; ok && len(v) == 1 {
		return v[0]
	}
	return ""
}

func parseDateList(value, tz string, fallback *time.Location) ([]time.Time, error) {
	loc := fallback
	if tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return nil, err
		}
		loc = l
	}

	var out []time.Time
	for _, raw := range strings.Split(value, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		t, err := parseICalTime(raw, loc)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func parseICalTime(raw string, loc *time.Location) (time.Time, error) {
	switch {
	case strings.HasSuffix(raw, "Z"):
		return time.ParseInLocation("20060102T150405Z", raw, time.UTC)
	case strings.Contains(raw, "T"):
		return time.ParseInLocation("20060102T150405", raw, loc)
	default:
		return time.ParseInLocation("20060102", raw, loc)
	}
}
